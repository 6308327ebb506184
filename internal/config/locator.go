package config

import (
	"fmt"
	"os"
)

// Locator checks for the configuration document at a fixed path and
// exports that path so a spawned backend process can discover it.
type Locator struct {
	path   string
	setenv func(key, value string) error
}

// NewLocator creates a Locator for the given path
func NewLocator(path string) *Locator {
	return &Locator{
		path:   path,
		setenv: os.Setenv,
	}
}

// Path returns the path the locator checks
func (l *Locator) Path() string {
	return l.path
}

// Locate verifies the configuration document exists and exports its path
// in GENPOD_CONFIG. A missing file (or a directory in its place) returns
// ErrConfigMissing. There is no retry and no auto-creation.
func (l *Locator) Locate() (string, error) {
	info, err := os.Stat(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrConfigMissing, l.path)
		}
		return "", fmt.Errorf("failed to check config file %s: %w", l.path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ErrConfigMissing, l.path)
	}

	if err := l.setenv(EnvConfigPath, l.path); err != nil {
		return "", fmt.Errorf("failed to export %s: %w", EnvConfigPath, err)
	}
	return l.path, nil
}
