package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/genpod/genpod-cli/internal/backend"
	"github.com/genpod/genpod-cli/internal/config"
	"github.com/genpod/genpod-cli/internal/session"
)

func (app *App) newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Log in with a numeric user ID",
		Long: `Log in with a numeric user ID.

The ID is stored in ~/.genpod/session and passed to every backend command
run from the shell.

Examples:
  genpod login`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runLogin()
		},
	}
}

func (app *App) newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored session",
		Long: `Remove the stored session.

You will be asked for a user ID the next time the shell starts.

Examples:
  genpod logout`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runLogout()
		},
	}
}

func (app *App) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show configuration, runtime and session status",
		Long: `Show configuration, runtime and session status.

Reports whether the configuration file exists, whether the backend's
virtual environment is ready, and which user is logged in.

Examples:
  genpod status`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runStatus()
		},
	}
}

func (app *App) newSession() *session.Session {
	return session.New(session.NewFileStore(app.cfg.SessionPath()), app.prompter(), app.printer)
}

func (app *App) runLogin() error {
	if err := app.cfg.Validate(); err != nil {
		return err
	}
	defer app.setupLogging()()

	store := session.NewFileStore(app.cfg.SessionPath())
	if id, err := store.Load(); err == nil {
		app.printer.Info("Already logged in as user %s", id)
		app.printer.Info("Run 'genpod logout' first to switch users")
		return nil
	}

	if err := app.newSession().Login(); err != nil {
		return errReported
	}
	return nil
}

func (app *App) runLogout() error {
	if err := app.cfg.Validate(); err != nil {
		return err
	}
	defer app.setupLogging()()

	if err := app.newSession().Logout(); err != nil {
		return errReported
	}
	return nil
}

func (app *App) runStatus() error {
	if err := app.cfg.Validate(); err != nil {
		return err
	}

	p := app.printer
	p.Println("genpod status:")
	p.Println()

	doc, err := config.LoadDocument(app.cfg.ConfigPath)
	switch {
	case err == nil:
		p.Success("Configuration: %s", app.cfg.ConfigPath)
		p.Printf("    %-32s %s\n", "sqlite3_database_path", doc.DatabasePath)
		p.Printf("    %-32s %s\n", "code_output_directory", doc.OutputDirectory)
		p.Printf("    %-32s %s\n", "genpod_configuration_file_path", doc.BackendConfigPath)
		p.Printf("    %-32s %s\n", "vector_database_path", doc.VectorDatabasePath)
	case errors.Is(err, config.ErrConfigMissing):
		p.Failure("Configuration: not found at %s", app.cfg.ConfigPath)
		p.Info("Run 'genpod install' to create it")
	default:
		p.Failure("Configuration: %v", err)
	}

	rt := backend.NewRuntime(app.cfg.Home)
	if err := rt.Check(); err != nil {
		p.Failure("Backend: %v", err)
	} else {
		p.Success("Backend: %s", rt.Home())
	}

	id, err := session.NewFileStore(app.cfg.SessionPath()).Load()
	switch {
	case err == nil:
		p.Success("Logged in as user %s", id)
	case errors.Is(err, session.ErrNoSession):
		p.Info("Not logged in. Run 'genpod login' to authenticate")
	default:
		p.Warn("Session: %v", err)
	}
	return nil
}
