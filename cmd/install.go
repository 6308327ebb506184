package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/genpod/genpod-cli/internal/constants"
	"github.com/genpod/genpod-cli/internal/installer"
)

func (app *App) newInstallCmd() *cobra.Command {
	var source, python string

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install genpod from a source checkout",
		Long: `Install genpod from a source checkout.

Copies the backend into /opt/genpod (or ~/.local/share/genpod when that is
not writable), creates its virtual environment, installs requirements,
asks for the configuration values and installs the 'genpod' launcher.

Set ` + constants.EnvInstallDir + ` to choose the install directory.

Examples:
  genpod install
  sudo genpod install
  genpod install --source ~/src/genpod`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runInstall(cmd, source, python)
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "Backend source directory to install (default: current directory)")
	cmd.Flags().StringVar(&python, "python", constants.DefaultPython, "Python interpreter used to create the virtual environment")
	return cmd
}

func (app *App) runInstall(cmd *cobra.Command, source, python string) error {
	if err := app.cfg.Validate(); err != nil {
		return err
	}
	defer app.setupLogging()()

	if source == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to determine source directory: %w", err)
		}
		source = wd
	}

	inst := installer.New(installer.Options{
		SourceDir:  source,
		ConfigPath: app.cfg.ConfigPath,
		UserHome:   app.cfg.UserHome,
		Python:     python,
	}, app.newExecutor(), app.prompter(), app.out)

	if _, err := inst.Run(cmd.Context()); err != nil {
		app.errPrinter.Failure("Installation failed: %v", err)
		return errReported
	}
	return nil
}
