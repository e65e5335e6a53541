package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tara-vision/codezap/internal/ui"
)

func newCheckCmd(v *viper.Viper, opts *options) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Analyze the project and report what would be cleaned",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, v, opts)
			if err != nil {
				return err
			}
			s.header("Analyzing project")

			s.spinner.Start("Analyzing...")
			a, err := s.cleaner.Analyze(cmd.Context())
			s.spinner.Stop()
			if err != nil {
				return err
			}

			return s.emit(s.renderer.AnalysisReport(a, dryRun, opts.verbose), ui.AnalysisMarkdown(a), a)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "only report, never suggest applying changes")
	return cmd
}
