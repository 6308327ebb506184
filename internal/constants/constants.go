// Package constants provides shared constants used across the application
// to avoid circular dependencies between packages.
package constants

import "time"

// Application identity
const (
	AppName = "genpod"
	Version = "1.2.0"
)

// Environment variable names
const (
	// EnvConfigPath is exported to the backend so it can find the config document
	EnvConfigPath = "GENPOD_CONFIG"
	// EnvHome points at the backend install directory (set by the launcher)
	EnvHome = "GENPOD_HOME"
	// EnvInstallDir overrides install path probing in the installer
	EnvInstallDir = "GENPOD_INSTALL_DIR"
	// EnvLogLevel sets the CLI log level (debug, info, warn, error, none)
	EnvLogLevel = "GENPOD_LOG_LEVEL"
	// EnvInvocationID is set on every backend process
	EnvInvocationID = "GENPOD_INVOCATION_ID"
)

// File and directory names
const (
	ConfigDirName     = "genpod"
	ConfigFileName    = "config.yaml"
	StateDirName      = ".genpod"
	SessionFileName   = "session"
	HistoryFileName   = "history"
	LogDirName        = "logs"
	LogFileName       = "genpod.log"
	BackendEntrypoint = "main.py"
	BackendDotEnv     = ".env"
	VenvDirName       = ".venv"
	RequirementsFile  = "requirements.txt"
	LauncherName      = "genpod"
	BinaryName        = "genpod-cli"
)

// Installer defaults
const (
	SystemInstallDir  = "/opt/genpod"
	SystemLauncherDir = "/usr/local/bin"
	DefaultPython     = "python3"
)

// Limits
const (
	// MaxCapturedOutput is how much trailing backend output is kept per invocation
	MaxCapturedOutput = 64 * 1024
	// MaxHistoryEntries caps the persisted REPL history
	MaxHistoryEntries = 500
	// SpinnerInterval is the frame delay for installer spinners
	SpinnerInterval = 100 * time.Millisecond
)
