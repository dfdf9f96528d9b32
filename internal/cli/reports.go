package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/gmscraper/internal/usecase/reportquery"
)

func reportsCmd(opts *rootOptions) *cobra.Command {
	c := &cobra.Command{
		Use:   "reports",
		Short: "Browse saved scan reports",
	}

	c.AddCommand(reportsListCmd(opts), reportsShowCmd(opts))
	return c
}

func reportsListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved reports, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(opts.configPath)
			if err != nil {
				return err
			}

			refs, err := ws.reportStore().ListReports()
			if err != nil {
				return err
			}
			printReports(cmd.OutOrStdout(), refs)
			return nil
		},
	}
}

func reportsShowCmd(opts *rootOptions) *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a saved report, or the part selected by a JSONPath query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := loadWorkspace(opts.configPath)
			if err != nil {
				return err
			}

			body, err := ws.reportStore().LoadReport(args[0])
			if err != nil {
				return err
			}

			if query == "" {
				_, err = cmd.OutOrStdout().Write(body)
				return err
			}

			out, err := reportquery.Apply(body, query)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "JSONPath expression, e.g. $.aggressive[*].name")
	return cmd
}
