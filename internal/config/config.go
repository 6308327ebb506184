package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/genpod/genpod-cli/internal/constants"
)

// Environment variable names - re-exported from constants for convenience
const (
	EnvConfigPath = constants.EnvConfigPath
	EnvHome       = constants.EnvHome
	EnvInstallDir = constants.EnvInstallDir
	EnvLogLevel   = constants.EnvLogLevel
)

// DefaultLogLevel is used when GENPOD_LOG_LEVEL is unset
const DefaultLogLevel = "info"

// Errors
var (
	ErrConfigMissing = errors.New("configuration file not found")
	ErrNoHomeDir     = errors.New("could not determine home directory")
)

// Config holds the resolved runtime paths and settings of the CLI.
// Nothing here is read from the configuration document: that file belongs
// to the backend, the CLI only checks that it exists.
type Config struct {
	// ConfigPath is the fixed location of the configuration document
	ConfigPath string

	// StateDir holds the session, history and log files (~/.genpod)
	StateDir string

	// Home is the backend install directory (main.py + .venv)
	Home string

	// LogLevel is the raw level string from the environment
	LogLevel string

	// UserHome is the user's home directory, used for installer defaults
	UserHome string
}

// NewConfig creates a new Config with no values resolved
func NewConfig() *Config {
	return &Config{}
}

// Validate resolves every path that was not set explicitly.
// Explicit values win over environment variables, which win over defaults.
func (c *Config) Validate() error {
	if c.UserHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrNoHomeDir, err)
		}
		c.UserHome = home
	}

	if c.ConfigPath == "" {
		path, err := DefaultConfigPath()
		if err != nil {
			return err
		}
		c.ConfigPath = path
	}

	if c.StateDir == "" {
		c.StateDir = filepath.Join(c.UserHome, constants.StateDirName)
	}

	if c.Home == "" {
		c.Home = strings.TrimSpace(os.Getenv(EnvHome))
	}
	if c.Home == "" {
		// Running from a source checkout: the backend lives in the working directory
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to resolve backend home: %w", err)
		}
		c.Home = wd
	}

	if c.LogLevel == "" {
		c.LogLevel = strings.TrimSpace(os.Getenv(EnvLogLevel))
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}

	return nil
}

// SessionPath returns the session file location
func (c *Config) SessionPath() string {
	return filepath.Join(c.StateDir, constants.SessionFileName)
}

// HistoryPath returns the REPL history file location
func (c *Config) HistoryPath() string {
	return filepath.Join(c.StateDir, constants.HistoryFileName)
}

// LogPath returns the CLI log file location
func (c *Config) LogPath() string {
	return filepath.Join(c.StateDir, constants.LogDirName, constants.LogFileName)
}

// DefaultConfigPath returns <user config dir>/genpod/config.yaml,
// falling back to ~/.config when the platform has no config directory.
func DefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		homeDir, herr := os.UserHomeDir()
		if herr != nil {
			return "", fmt.Errorf("could not determine config directory: %w", herr)
		}
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, constants.ConfigDirName, constants.ConfigFileName), nil
}
