package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aalvaropc/gmscraper/internal/domain"
	"github.com/aalvaropc/gmscraper/internal/infra/prompt"
	"github.com/aalvaropc/gmscraper/internal/ports"
	"github.com/aalvaropc/gmscraper/internal/ui/tui"
	"github.com/aalvaropc/gmscraper/internal/usecase"
)

// interactive is the guided flow: token, group choice, scan, date range, downloads.
type interactive struct {
	ws       *workspaceCtx
	tokens   ports.TokenSource
	prompter ports.Prompter
	out      io.Writer
	log      *slog.Logger

	useTUI bool
	save   bool
	loc    *time.Location

	newSource func(token string) ports.GroupSource
	pick      func(ctx context.Context, deps tui.Deps) (domain.Group, error)
}

func (s *interactive) run(ctx context.Context) error {
	err := s.flow(ctx)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(s.out, "\nAborted by user.")
		s.log.Warn("scan.aborted")
		return errReported
	case domain.IsScraperError(err):
		fmt.Fprintf(s.out, "Error: %s\n", describeError(err))
		printLogHint(s.out)
		s.log.Error("scan.failed", "kind", domain.KindOf(err), "err", err)
		return errReported
	default:
		return err
	}
}

func (s *interactive) flow(ctx context.Context) error {
	token, err := s.tokens.Token(ctx)
	if err != nil {
		return err
	}
	source := s.newSource(token)

	group, err := s.chooseGroup(ctx, source)
	if err != nil {
		return err
	}
	s.log.Info("scan.group_selected", "group_id", group.ID, "group", group.Name)

	cl, err := s.ws.classifier("")
	if err != nil {
		return err
	}

	fmt.Fprintln(s.out, "Scanning for aggressive messages...")
	scan := s.ws.scanner(source, cl, true, s.save)

	res, err := scan.Execute(ctx, usecase.ScanRequest{
		Group: group,
		AfterAnalysis: func(flagged []domain.Message) (*domain.DateRange, error) {
			printFlagged(s.out, flagged, s.ws.cfg.Scan.PreviewLimit)

			r, err := prompt.AskDateRange(ctx, s.prompter, s.loc)
			if err != nil {
				return nil, err
			}
			fmt.Fprintln(s.out, "Downloading images...")
			return &r, nil
		},
	})
	if err != nil {
		return err
	}

	if res.Report.Images != nil {
		printDownload(s.out, *res.Report.Images)
	}
	if res.ReportID != "" {
		fmt.Fprintf(s.out, "Report saved: %s\n", res.ReportID)
	}
	fmt.Fprintln(s.out, "Done.")

	s.log.Info("scan.done",
		"group_id", group.ID,
		"messages", res.Report.MessagesScanned,
		"aggressive", len(res.Flagged),
		"report_id", res.ReportID,
	)
	return nil
}

func (s *interactive) chooseGroup(ctx context.Context, source ports.GroupSource) (domain.Group, error) {
	list := usecase.NewListGroups(source)

	if s.useTUI {
		return s.pick(ctx, tui.Deps{Groups: list, Logger: s.log})
	}

	groups, err := list.Execute(ctx)
	if err != nil {
		return domain.Group{}, err
	}
	if len(groups) == 0 {
		return domain.Group{}, &domain.OpError{
			Op:   "cli.choose_group",
			Kind: domain.KindGroupSelection,
			Err:  fmt.Errorf("%w: no groups available", domain.ErrInvalidSelection),
		}
	}

	fmt.Fprintln(s.out)
	printGroupList(s.out, groups)

	in, err := s.prompter.Ask(ctx, "\nEnter the index of the group to analyze: ")
	if err != nil {
		return domain.Group{}, &domain.OpError{
			Op:   "cli.choose_group",
			Kind: domain.KindGroupSelection,
			Err:  err,
		}
	}
	return usecase.SelectGroup(groups, in)
}
