package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tara-vision/codezap/internal/ui"
)

func newFixCmd(v *viper.Viper, opts *options) *cobra.Command {
	var backup, aggressive bool

	cmd := &cobra.Command{
		Use:   "fix",
		Short: "Remove unused imports and variables with the language's cleaner",
		Long: `Run the language's cleaner (autoflake, eslint --fix, goimports) over every
source file. --aggressive also removes unused dependencies and writes a
.gitignore when the project has none.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, v, opts)
			if err != nil {
				return err
			}
			s.header("Cleaning project")

			if aggressive && opts.interactive {
				ok, err := confirm("Aggressive mode removes unused dependencies, continue")
				if err != nil {
					return err
				}
				aggressive = ok
			}

			s.spinner.Start("Cleaning...")
			var backupPath string
			if backup {
				s.spinner.UpdateMessage("Creating backup...")
				if backupPath, err = s.cleaner.Backup(); err != nil {
					s.spinner.Stop()
					return fmt.Errorf("backup failed, nothing was changed: %w", err)
				}
				s.spinner.UpdateMessage("Cleaning...")
			}

			res, err := s.cleaner.Clean(cmd.Context(), aggressive)
			s.spinner.Stop()
			if err != nil {
				return err
			}
			res.BackupPath = backupPath

			return s.emit(s.renderer.CleaningSummary(res), ui.CleaningMarkdown(res), res)
		},
	}

	cmd.Flags().BoolVar(&backup, "backup", false, "copy the project to a sibling backup directory first")
	cmd.Flags().BoolVar(&aggressive, "aggressive", false, "also remove unused dependencies and create a .gitignore")
	return cmd
}
