package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/gmscraper/internal/domain"
	"github.com/aalvaropc/gmscraper/internal/infra/config"
	"github.com/aalvaropc/gmscraper/internal/usecase"
)

type scanFlags struct {
	group      string
	start      string
	end        string
	classifier string
	noImages   bool
	noSave     bool
	format     string
}

func scanCmd(opts *rootOptions) *cobra.Command {
	var f scanFlags

	c := &cobra.Command{
		Use:   "scan",
		Short: "Scan one group without prompts (for scripts and cron)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(f.format); err != nil {
				return err
			}
			rng, err := f.dateRange(time.Local)
			if err != nil {
				return err
			}

			ws, err := loadWorkspace(opts.configPath)
			if err != nil {
				return err
			}
			defer ws.setupLogging(opts.debug)()

			var name domain.ClassifierName
			if f.classifier != "" {
				if name, err = config.ParseClassifier(f.classifier); err != nil {
					return err
				}
			}
			cl, err := ws.classifier(name)
			if err != nil {
				return reportScraperError(cmd, err)
			}

			token, err := tokenSource(cmd).Token(cmd.Context())
			if err != nil {
				return reportScraperError(cmd, err)
			}
			source := ws.groupSource(token)

			groups, err := usecase.NewListGroups(source).Execute(cmd.Context())
			if err != nil {
				return reportScraperError(cmd, err)
			}
			group, err := usecase.SelectGroup(groups, f.group)
			if err != nil {
				return reportScraperError(cmd, err)
			}

			scan := ws.scanner(source, cl, !f.noImages, !f.noSave)
			res, err := scan.Execute(cmd.Context(), usecase.ScanRequest{Group: group, Range: rng})
			if err != nil {
				return reportScraperError(cmd, err)
			}
			return printScan(cmd.OutOrStdout(), res, f.format, ws.cfg.Scan.PreviewLimit)
		},
	}

	c.Flags().StringVarP(&f.group, "group", "g", "", "Group index (as printed by groups list) or group id (required)")
	c.Flags().StringVar(&f.start, "start", "", "Download images posted from this date (YYYY-MM-DD)")
	c.Flags().StringVar(&f.end, "end", "", "Download images posted up to and including this date (YYYY-MM-DD)")
	c.Flags().StringVar(&f.classifier, "classifier", "", "Aggression classifier: keyword|openai (default from config)")
	c.Flags().BoolVar(&f.noImages, "no-images", false, "Skip image downloads")
	c.Flags().BoolVar(&f.noSave, "no-save", false, "Do not save a scan report under reports/")
	c.Flags().StringVar(&f.format, "format", "pretty", "Output format: pretty|json")

	_ = c.MarkFlagRequired("group")
	return c
}

// dateRange returns nil when no dates are given; downloads are then skipped.
func (f scanFlags) dateRange(loc *time.Location) (*domain.DateRange, error) {
	start, end := strings.TrimSpace(f.start), strings.TrimSpace(f.end)
	if start == "" && end == "" {
		return nil, nil
	}
	if start == "" || end == "" {
		return nil, fmt.Errorf("--start and --end must be given together")
	}
	r, err := domain.ParseDateRange(start, end, loc)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
