package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tara-vision/codezap/internal/cleaner"
	"github.com/tara-vision/codezap/internal/config"
	"github.com/tara-vision/codezap/internal/logging"
	"github.com/tara-vision/codezap/internal/project"
	"github.com/tara-vision/codezap/internal/ui"
)

// session is the state one subcommand run works with.
type session struct {
	opts     *options
	settings *config.Settings
	root     string
	lang     project.Language
	detected bool
	cleaner  *cleaner.Cleaner
	renderer *ui.Renderer
	spinner  *ui.Spinner
	out      io.Writer
}

func newSession(cmd *cobra.Command, v *viper.Viper, opts *options) (*session, error) {
	config.SetDefaults(v)
	if err := config.Read(v, opts.cfgFile); err != nil {
		return nil, err
	}
	settings, err := config.Load(v)
	if err != nil {
		return nil, err
	}

	level := settings.Log.Level
	if opts.verbose {
		level = "debug"
	}
	logging.Init(level, settings.Log.Format, cmd.ErrOrStderr())

	root, err := project.ResolveRoot(opts.path)
	if err != nil {
		return nil, err
	}

	lang, err := project.ParseLanguage(opts.lang)
	if err != nil {
		return nil, err
	}
	detected := false
	if lang == project.Undetermined {
		tree := project.NewTree(root, settings.IgnoreDirs...)
		lang = project.NewDetector(settings.Detect.Weights).Detect(tree)
		detected = true

		if lang == project.Undetermined {
			if !opts.interactive {
				return nil, project.ErrUndetermined
			}
			if lang, err = selectLanguage(); err != nil {
				return nil, fmt.Errorf("language selection: %w", err)
			}
			detected = false
		}
	}

	c, err := cleaner.New(root, lang,
		cleaner.WithRunner(newRunner(settings.Tools.Timeout)),
		cleaner.WithIgnoreDirs(settings.IgnoreDirs...),
		cleaner.WithCommentThreshold(settings.CommentedCodeThreshold),
		cleaner.WithClock(now),
	)
	if err != nil {
		return nil, err
	}

	textOutput := settings.Output == "text"
	renderer := ui.NewRendererWithConfig(&ui.Config{
		EnableColor:    !opts.noColor,
		EnableSpinner:  !opts.noSpinner && textOutput && isTerminal(cmd.ErrOrStderr()),
		EnableMarkdown: true,
	})

	return &session{
		opts:     opts,
		settings: settings,
		root:     root,
		lang:     lang,
		detected: detected,
		cleaner:  c,
		renderer: renderer,
		spinner:  ui.NewSpinner(cmd.ErrOrStderr(), renderer.Config().EnableSpinner),
		out:      cmd.OutOrStdout(),
	}, nil
}

// header introduces the run in text mode.
func (s *session) header(action string) {
	if s.settings.Output != "text" {
		return
	}
	fmt.Fprint(s.out, s.renderer.ProjectHeader(action, s.root, s.lang, s.detected))
}

// emit writes a result in the configured output format.
func (s *session) emit(text, markdown string, result interface{}) error {
	switch s.settings.Output {
	case "json", "yaml":
		return ui.Encode(s.out, s.settings.Output, result)
	case "markdown":
		_, err := fmt.Fprint(s.out, s.renderer.RenderMarkdown(markdown))
		return err
	default:
		_, err := fmt.Fprint(s.out, text)
		return err
	}
}

// isTerminal reports whether w is a character device.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
