package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/gmscraper/internal/domain"
	"github.com/aalvaropc/gmscraper/internal/infra/logger"
	"github.com/aalvaropc/gmscraper/internal/infra/prompt"
	"github.com/aalvaropc/gmscraper/internal/infra/tokensource"
	"github.com/aalvaropc/gmscraper/internal/ports"
	"github.com/aalvaropc/gmscraper/internal/ui/tui"
)

// rootOptions are the persistent flags shared by every command.
type rootOptions struct {
	debug      bool
	configPath string
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	// After the first interrupt a second one gets the default behavior and kills the process.
	go func() {
		<-ctx.Done()
		stop()
	}()

	cmd := newRootCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	var useTUI bool
	var noSave bool

	cmd := &cobra.Command{
		Use:           "gmscraper",
		Short:         "gmscraper: scan GroupMe chats for aggressive messages and download images",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(opts.configPath)
			if err != nil {
				return err
			}
			defer ws.setupLogging(opts.debug)()

			p := prompt.NewLine(cmd.InOrStdin(), cmd.OutOrStdout())
			s := &interactive{
				ws:       ws,
				tokens:   tokensource.New(tokensource.WithPrompter(p)),
				prompter: p,
				out:      cmd.OutOrStdout(),
				log:      logger.L(),
				useTUI:   useTUI,
				save:     ws.found && !noSave,
				loc:      time.Local,
				newSource: func(token string) ports.GroupSource {
					return ws.groupSource(token)
				},
				pick: tui.PickGroup,
			}
			return s.run(cmd.Context())
		},
	}

	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable verbose logging to .gmscraper/logs/groupme_scraper.log")
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to gmscraper.yaml (default: nearest one above the working directory)")
	cmd.Flags().BoolVar(&useTUI, "tui", false, "pick the group with an interactive list")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not save a scan report under reports/")

	cmd.AddCommand(
		groupsCmd(opts),
		scanCmd(opts),
		reportsCmd(opts),
		initCmd(),
		versionCmd(),
	)
	return cmd
}

// tokenSource builds the token resolver for non-interactive commands.
func tokenSource(cmd *cobra.Command) ports.TokenSource {
	return tokensource.New(tokensource.WithPrompter(prompt.NewLine(cmd.InOrStdin(), cmd.ErrOrStderr())))
}

// reportScraperError prints scraper errors the same way the interactive flow does.
func reportScraperError(cmd *cobra.Command, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(cmd.ErrOrStderr(), "\nAborted by user.")
		logger.L().Warn("command.aborted", "cmd", cmd.Name())
		return errReported
	case domain.IsScraperError(err):
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", describeError(err))
		printLogHint(cmd.ErrOrStderr())
		logger.L().Error("command.failed", "cmd", cmd.Name(), "kind", domain.KindOf(err), "err", err)
		return errReported
	default:
		return err
	}
}
