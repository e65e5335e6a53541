package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tara-vision/codezap/internal/ui"
)

func newFormatCmd(v *viper.Viper, opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "format",
		Short: "Format the code with the language's formatter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, v, opts)
			if err != nil {
				return err
			}
			s.header("Formatting project")

			s.spinner.Start("Formatting...")
			res, err := s.cleaner.Format(cmd.Context())
			s.spinner.Stop()
			if err != nil {
				return err
			}

			return s.emit(s.renderer.FormatSummary(res, opts.verbose), ui.FormatMarkdown(res), res)
		},
	}
}
