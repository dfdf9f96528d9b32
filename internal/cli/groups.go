package cli

import (
	"github.com/spf13/cobra"

	"github.com/aalvaropc/gmscraper/internal/usecase"
)

func groupsCmd(opts *rootOptions) *cobra.Command {
	c := &cobra.Command{
		Use:   "groups",
		Short: "Inspect the GroupMe groups of the token's user",
	}

	c.AddCommand(groupsListCmd(opts))
	return c
}

func groupsListCmd(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List groups with the index used by scan --group",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}

			ws, err := loadWorkspace(opts.configPath)
			if err != nil {
				return err
			}
			defer ws.setupLogging(opts.debug)()

			token, err := tokenSource(cmd).Token(cmd.Context())
			if err != nil {
				return reportScraperError(cmd, err)
			}

			groups, err := usecase.NewListGroups(ws.groupSource(token)).Execute(cmd.Context())
			if err != nil {
				return reportScraperError(cmd, err)
			}
			return printGroups(cmd.OutOrStdout(), groups, format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json")
	return cmd
}
