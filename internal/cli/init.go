package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/gmscraper/internal/domain"
	"github.com/aalvaropc/gmscraper/internal/infra/fsworkspace"
	"github.com/aalvaropc/gmscraper/internal/usecase"
)

func initCmd() *cobra.Command {
	var path string
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create gmscraper.yaml and output directories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			root, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("invalid path: %w", err)
			}

			uc := usecase.NewInitWorkspace(fsworkspace.NewInitializer(domain.DefaultConfig().Paths))
			if err := uc.Execute(root, force); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Initialized gmscraper workspace in %s\n", root)
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "path", "p", ".", "Directory to initialize")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing gmscraper.yaml")
	return cmd
}
