package installer

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/genpod/genpod-cli/internal/config"
	"github.com/genpod/genpod-cli/internal/constants"
	"github.com/genpod/genpod-cli/internal/display"
	"github.com/genpod/genpod-cli/internal/executor"
	"github.com/genpod/genpod-cli/internal/logging"
)

// Prompter collects answers for the configuration document
type Prompter interface {
	AskDefault(label, def string) (string, error)
	AskRequired(label string) (string, error)
}

// Options configures an installation
type Options struct {
	// SourceDir is the backend tree to copy, usually the working directory
	SourceDir string

	// ConfigPath is where the configuration document is written
	ConfigPath string

	// UserHome derives prompt defaults and the user-local candidate
	UserHome string

	// Python creates the virtual environment
	Python string
}

// Summary describes a finished installation
type Summary struct {
	Target          Target
	ConfigPath      string
	RemovedPrevious bool
	Requirements    bool
	Document        *config.Document
}

// Installer runs the setup steps in order. Any failure stops it.
type Installer struct {
	opts     Options
	resolver *Resolver
	exec     executor.CommandExecutor
	prompter Prompter
	printer  *display.Printer
	out      io.Writer

	executable func() (string, error)
	remove     func(string) error
	newSpinner func(message string) spinnerHandle
	getenv     func(string) string
	log        *logging.FieldLogger
}

// New creates an Installer
func New(opts Options, exec executor.CommandExecutor, prompter Prompter, out io.Writer) *Installer {
	if opts.Python == "" {
		opts.Python = constants.DefaultPython
	}
	return &Installer{
		opts:       opts,
		resolver:   NewResolver(opts.UserHome),
		exec:       exec,
		prompter:   prompter,
		printer:    display.NewPrinter(out),
		out:        out,
		executable: os.Executable,
		remove:     os.RemoveAll,
		newSpinner: func(message string) spinnerHandle {
			return display.NewSpinner(out, message)
		},
		getenv: os.Getenv,
		log:    logging.Component("installer"),
	}
}

// Run performs the installation
func (i *Installer) Run(ctx context.Context) (*Summary, error) {
	// 1. Install location
	target, err := i.resolver.Resolve()
	if err != nil {
		return nil, err
	}
	if err := checkOverlap(i.opts.SourceDir, target.InstallDir); err != nil {
		return nil, err
	}
	i.printer.Info("Installing to %s (%s)", target.InstallDir, target.Kind)
	i.log.Info("install target resolved", logging.Fields{
		"kind":         target.Kind,
		"install_dir":  target.InstallDir,
		"launcher_dir": target.LauncherDir,
	})

	// The running binary may live in the directory about to be removed
	binary, err := i.readExecutable()
	if err != nil {
		return nil, err
	}

	// 2. Previous installation
	removed, err := removePrevious(target, i.remove)
	if err != nil {
		return nil, err
	}
	if removed {
		i.printer.Success("Removed previous installation")
	}

	// 3. Source tree
	if err := CopyTree(i.opts.SourceDir, target.InstallDir); err != nil {
		return nil, err
	}
	i.printer.Success("Copied %s to %s", i.opts.SourceDir, target.InstallDir)

	// 4. Runtime environment
	hasRequirements, err := i.setupRuntime(ctx, target.InstallDir)
	if err != nil {
		return nil, err
	}

	// 5. Configuration document
	doc, err := i.collectConfig()
	if err != nil {
		return nil, err
	}
	if err := doc.Save(i.opts.ConfigPath); err != nil {
		return nil, err
	}
	i.printer.Success("Configuration saved to %s", i.opts.ConfigPath)

	// 6. Binary and launcher
	if err := writeExecutable(target.BinaryPath(), binary); err != nil {
		return nil, fmt.Errorf("failed to install %s: %w", target.BinaryPath(), err)
	}
	if err := writeExecutable(target.LauncherPath(), []byte(LauncherScript(target))); err != nil {
		return nil, fmt.Errorf("failed to install launcher %s: %w", target.LauncherPath(), err)
	}
	i.printer.Success("Installed launcher %s", target.LauncherPath())

	summary := &Summary{
		Target:          target,
		ConfigPath:      i.opts.ConfigPath,
		RemovedPrevious: removed,
		Requirements:    hasRequirements,
		Document:        doc,
	}

	// 7. Summary
	i.printSummary(summary)
	i.log.Info("install complete", logging.Fields{"install_dir": target.InstallDir})
	return summary, nil
}

func (i *Installer) readExecutable() ([]byte, error) {
	path, err := i.executable()
	if err != nil {
		return nil, fmt.Errorf("failed to locate the genpod binary: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read the genpod binary: %w", err)
	}
	return data, nil
}

// collectConfig prompts for the four document values. The first three
// accept their defaults on empty input; the vector path is mandatory.
func (i *Installer) collectConfig() (*config.Document, error) {
	defaults := config.DefaultDocumentValues(i.opts.UserHome)
	i.printer.Println()
	i.printer.Info("Configure genpod (press Enter to accept a default)")

	db, err := i.prompter.AskDefault("SQLite database path", defaults.DatabasePath)
	if err != nil {
		return nil, err
	}
	output, err := i.prompter.AskDefault("Code output directory", defaults.OutputDirectory)
	if err != nil {
		return nil, err
	}
	backendCfg, err := i.prompter.AskDefault("Genpod configuration file path", defaults.BackendConfigPath)
	if err != nil {
		return nil, err
	}
	vector, err := i.prompter.AskRequired("Vector database path")
	if err != nil {
		return nil, err
	}

	home := i.opts.UserHome
	return &config.Document{
		DatabasePath:       expandHome(db, home),
		OutputDirectory:    expandHome(output, home),
		BackendConfigPath:  expandHome(backendCfg, home),
		VectorDatabasePath: expandHome(vector, home),
	}, nil
}

func (i *Installer) printSummary(s *Summary) {
	i.printer.Println()
	i.printer.Success("genpod installed to %s", s.Target.InstallDir)
	i.printer.Info("Launcher:      %s", s.Target.LauncherPath())
	i.printer.Info("Configuration: %s", s.ConfigPath)
	if !onPath(s.Target.LauncherDir, i.getenv("PATH")) {
		i.printer.Warn("%s is not on your PATH; add it with:", s.Target.LauncherDir)
		i.printer.Printf("    export PATH=\"%s:$PATH\"\n", s.Target.LauncherDir)
	}
	i.printer.Info("Verify with:   %s --version", constants.LauncherName)
}
