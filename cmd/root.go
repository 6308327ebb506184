package cmd

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/genpod/genpod-cli/internal/backend"
	"github.com/genpod/genpod-cli/internal/config"
	"github.com/genpod/genpod-cli/internal/constants"
	"github.com/genpod/genpod-cli/internal/display"
	"github.com/genpod/genpod-cli/internal/executor"
	"github.com/genpod/genpod-cli/internal/logging"
	"github.com/genpod/genpod-cli/internal/ui"
)

// errReported marks an error whose message was already shown
var errReported = errors.New("error already reported")

// App holds the application state
type App struct {
	cfg *config.Config

	in         io.Reader
	out        io.Writer
	errOut     io.Writer
	printer    *display.Printer
	errPrinter *display.Printer
	input      *ui.Prompter

	// Replaced in tests
	startInteractive func() error
	isTerminal       func() bool
	newExecutor      func() executor.CommandExecutor
	newInvoker       func(rt *backend.Runtime) backend.Invoker
}

// NewApp creates a new App instance with default configuration
func NewApp(in io.Reader, out, errOut io.Writer) *App {
	app := &App{
		cfg:        config.NewConfig(),
		in:         in,
		out:        out,
		errOut:     errOut,
		printer:    display.NewPrinter(out),
		errPrinter: display.NewPrinter(errOut),
	}
	app.startInteractive = app.runInteractive
	app.isTerminal = func() bool {
		return display.IsTerminal(app.in) && display.IsTerminal(app.out)
	}
	app.newExecutor = func() executor.CommandExecutor {
		return executor.NewExecutor()
	}
	app.newInvoker = func(rt *backend.Runtime) backend.Invoker {
		return backend.NewInvoker(rt, app.newExecutor(), app.in, app.out, app.errOut)
	}
	return app
}

// Execute runs the root command
func Execute() {
	app := NewApp(os.Stdin, os.Stdout, os.Stderr)
	if err := app.Run(os.Args[1:]); err != nil {
		os.Exit(1)
	}
}

// Run executes the command line and prints any error not yet reported
func (app *App) Run(args []string) error {
	rootCmd := app.newRootCmd()
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, errReported) {
		app.errPrinter.Failure("%v", err)
	}
	return err
}

func (app *App) newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "genpod",
		Short: "Interactive shell for the genpod code generator",
		Long: `genpod is an interactive shell for the genpod AI code generation backend.

Run without arguments to start the shell. Inside the shell, dot-commands
such as .generate, .resume and .progress drive the backend; type .help
for the full list.

Examples:
  genpod                 # start the interactive shell
  genpod install         # install genpod from a source checkout
  genpod login           # log in with a user ID
  genpod status          # show configuration and session status`,
		Version:       constants.Version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return app.unknownFlag(cmd, args[0])
			}
			return app.startInteractive()
		},
	}

	rootCmd.SetIn(app.in)
	rootCmd.SetOut(app.out)
	rootCmd.SetErr(app.errOut)
	rootCmd.SetVersionTemplate(constants.AppName + " version {{.Version}}\n")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return app.unknownFlag(cmd, flagFromError(err))
	})

	// Add subcommands
	rootCmd.AddCommand(app.newInstallCmd())
	rootCmd.AddCommand(app.newLoginCmd())
	rootCmd.AddCommand(app.newLogoutCmd())
	rootCmd.AddCommand(app.newStatusCmd())

	return rootCmd
}

// unknownFlag prints the rejected argument and the help text
func (app *App) unknownFlag(cmd *cobra.Command, arg string) error {
	app.errPrinter.Failure("Unknown flag: %s", arg)
	_ = cmd.Help()
	return errReported
}

// flagFromError extracts the flag from a pflag parse error
func flagFromError(err error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, " in "); strings.HasPrefix(msg, "unknown shorthand flag") && i >= 0 {
		return msg[i+len(" in "):]
	}
	if rest, ok := strings.CutPrefix(msg, "unknown flag: "); ok {
		return rest
	}
	return msg
}

// prompter returns the shared line reader for all interactive input
func (app *App) prompter() *ui.Prompter {
	if app.input == nil {
		app.input = ui.NewPrompter(app.in, app.out)
	}
	return app.input
}

// setupLogging directs the default logger to the log file. Failure to
// open it leaves logging discarded. The returned func closes the file.
func (app *App) setupLogging() func() {
	logger, closer, err := logging.OpenFile(app.cfg.LogPath(), logging.ParseLevel(app.cfg.LogLevel))
	if err != nil {
		logging.SetDefault(nil)
		return func() {}
	}
	logging.SetDefault(logger)
	return func() {
		logging.SetDefault(nil)
		closer.Close()
	}
}
