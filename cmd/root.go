package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tara-vision/codezap/internal/tools"
	"github.com/tara-vision/codezap/internal/ui"
)

// Version is set at build time with -ldflags "-X .../cmd.Version=...".
var Version = "dev"

// options are the persistent flags shared by every subcommand.
type options struct {
	cfgFile     string
	path        string
	lang        string
	interactive bool
	noColor     bool
	noSpinner   bool
	verbose     bool
}

// Seams replaced in tests.
var (
	newRunner = func(timeout time.Duration) tools.Runner {
		return tools.NewExecRunner(timeout)
	}
	selectLanguage = ui.SelectLanguage
	confirm        = ui.Confirm
	now            = time.Now
)

func newRootCmd() *cobra.Command {
	v := viper.New()
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:     "codezap",
		Version: Version,
		Short:   "CodeZap - clean and tidy Python, JavaScript and Go projects",
		Long: `CodeZap detects a project's language, finds unused imports, commented-out
code, formatting problems and unused dependencies, and fixes them with the
language's own tools (autoflake, eslint, goimports, black, prettier, gofmt).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.cfgFile, "config", "", "config file (default is $HOME/.codezap/config.yaml)")
	flags.StringVarP(&opts.path, "path", "p", ".", "project directory")
	flags.StringVarP(&opts.lang, "lang", "l", "auto", "project language (python, javascript, go, auto)")
	flags.String("output", "text", "output format (text, markdown, json, yaml)")
	flags.BoolVarP(&opts.interactive, "interactive", "i", false, "prompt for the language when detection fails and before removing dependencies")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	flags.BoolVar(&opts.noSpinner, "no-spinner", false, "disable spinner animations")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output and debug logging")

	v.BindPFlag("output", flags.Lookup("output"))

	rootCmd.AddCommand(
		newCheckCmd(v, opts),
		newFixCmd(v, opts),
		newFormatCmd(v, opts),
		newDepsCmd(v, opts),
		newVersionCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "codezap version %s\n", Version)
		},
	}
}

// Execute runs the command tree and prints any error it returns.
func Execute() error {
	return executeRoot(newRootCmd())
}

func executeRoot(root *cobra.Command) error {
	err := runRoot(root)
	if err != nil {
		noColor, _ := root.PersistentFlags().GetBool("no-color")
		r := ui.NewRendererWithConfig(&ui.Config{EnableColor: !noColor})
		fmt.Fprintln(root.ErrOrStderr(), r.ErrorMessage(err))
	}
	return err
}

// runRoot executes root. A panic in a command is returned as an error.
func runRoot(root *cobra.Command) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()
	return root.Execute()
}
