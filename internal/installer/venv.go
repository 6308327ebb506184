package installer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/genpod/genpod-cli/internal/constants"
	"github.com/genpod/genpod-cli/internal/display"
	"github.com/genpod/genpod-cli/internal/executor"
	"github.com/genpod/genpod-cli/internal/logging"
)

// step is one external command of the runtime setup
type step struct {
	title string
	cmd   executor.Command
}

// runtimeSteps lists the commands that build the virtual environment in
// dir. The bool reports whether a requirements file was found.
func runtimeSteps(python, dir string) ([]step, bool) {
	venv := filepath.Join(dir, constants.VenvDirName)
	venvPython := filepath.Join(venv, "bin", "python")

	steps := []step{
		{
			title: "Creating virtual environment",
			cmd:   executor.Command{Name: python, Args: []string{"-m", "venv", venv}, Dir: dir},
		},
		{
			title: "Upgrading pip",
			cmd:   executor.Command{Name: venvPython, Args: []string{"-m", "pip", "install", "--upgrade", "pip"}, Dir: dir},
		},
	}

	requirements := filepath.Join(dir, constants.RequirementsFile)
	if _, err := os.Stat(requirements); err != nil {
		return steps, false
	}
	steps = append(steps, step{
		title: "Installing dependencies",
		cmd:   executor.Command{Name: venvPython, Args: []string{"-m", "pip", "install", "-r", requirements}, Dir: dir},
	})
	return steps, true
}

// setupRuntime creates the virtual environment and installs dependencies.
// Command output is captured and only shown when a step fails.
func (i *Installer) setupRuntime(ctx context.Context, dir string) (bool, error) {
	steps, hasRequirements := runtimeSteps(i.opts.Python, dir)

	for n, s := range steps {
		s.cmd.ID = fmt.Sprintf("install-%d", n+1)

		sp := i.newSpinner(s.title + "...")
		sp.Start()
		res, err := i.exec.Run(ctx, s.cmd)
		sp.Stop()

		if err != nil {
			i.printer.Failure("%s", s.title)
			return hasRequirements, fmt.Errorf("%w: %s: %v", ErrRuntimeSetup, strings.ToLower(s.title), err)
		}
		if !res.IsSuccess() {
			i.printer.Failure("%s (exit status %d)", s.title, res.ExitCode)
			if res.Output != "" {
				i.printer.Printf("%s", res.FormatResult())
			}
			return hasRequirements, fmt.Errorf("%w: %s exited with status %d", ErrRuntimeSetup, s.cmd.String(), res.ExitCode)
		}

		i.printer.Success("%s", s.title)
		i.log.Info("runtime step done", logging.Fields{"step": s.title, "duration_ms": res.Duration.Milliseconds()})
	}

	if !hasRequirements {
		i.printer.Warn("%s not found, skipping dependency install", constants.RequirementsFile)
	}
	return hasRequirements, nil
}

// spinnerHandle is the part of display.Spinner the installer uses
type spinnerHandle interface {
	Start()
	Stop()
}

var _ spinnerHandle = (*display.Spinner)(nil)
