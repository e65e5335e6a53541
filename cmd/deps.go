package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tara-vision/codezap/internal/project"
	"github.com/tara-vision/codezap/internal/ui"
)

func newDepsCmd(v *viper.Viper, opts *options) *cobra.Command {
	var removeUnused bool

	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Report declared dependencies the sources never import",
		Long: `Compare requirements.txt or package.json against the modules the sources
import and list the unused entries. For Go modules, --remove-unused runs
go mod tidy instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, v, opts)
			if err != nil {
				return err
			}
			s.header("Analyzing dependencies")

			remove := removeUnused
			if remove && opts.interactive {
				preview, err := s.cleaner.Dependencies(cmd.Context(), false)
				if err != nil {
					return err
				}
				if len(preview.Unused) > 0 || s.lang == project.Go {
					label := fmt.Sprintf("Remove %d unused dependencies from %s", len(preview.Unused), preview.ManifestPath)
					if s.lang == project.Go {
						label = "Run go mod tidy"
					}
					if remove, err = confirm(label); err != nil {
						return err
					}
				}
			}

			s.spinner.Start("Reconciling dependencies...")
			rep, err := s.cleaner.Dependencies(cmd.Context(), remove)
			s.spinner.Stop()
			if err != nil {
				return err
			}

			return s.emit(s.renderer.DependencySummary(rep, remove), ui.DependencyMarkdown(rep), rep)
		},
	}

	cmd.Flags().BoolVar(&removeUnused, "remove-unused", false, "rewrite requirements.txt without unused entries (go: run go mod tidy)")
	return cmd
}
