package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// =============================================================================
// Config.Validate Tests
// =============================================================================

func TestConfig_Validate_Defaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv(EnvHome, "")
	t.Setenv(EnvLogLevel, "")

	cfg := NewConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	wantConfig, _ := DefaultConfigPath()
	if cfg.ConfigPath != wantConfig {
		t.Errorf("ConfigPath = %q, want %q", cfg.ConfigPath, wantConfig)
	}
	if cfg.StateDir != filepath.Join(home, ".genpod") {
		t.Errorf("StateDir = %q, want %q", cfg.StateDir, filepath.Join(home, ".genpod"))
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, DefaultLogLevel)
	}

	wd, _ := os.Getwd()
	if cfg.Home != wd {
		t.Errorf("Home = %q, want working directory %q", cfg.Home, wd)
	}
}

func TestConfig_Validate_EnvOverrides(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvHome, "/opt/genpod")
	t.Setenv(EnvLogLevel, "debug")

	cfg := NewConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if cfg.Home != "/opt/genpod" {
		t.Errorf("Home = %q, want %q", cfg.Home, "/opt/genpod")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
}

func TestConfig_Validate_ExplicitValuesWin(t *testing.T) {
	t.Setenv(EnvHome, "/from/env")

	cfg := &Config{
		ConfigPath: "/custom/config.yaml",
		StateDir:   "/custom/state",
		Home:       "/custom/home",
		LogLevel:   "warn",
		UserHome:   "/custom/user",
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if cfg.Home != "/custom/home" {
		t.Errorf("Home = %q, explicit value should not be replaced", cfg.Home)
	}
	if cfg.ConfigPath != "/custom/config.yaml" {
		t.Errorf("ConfigPath = %q, explicit value should not be replaced", cfg.ConfigPath)
	}
}

func TestConfig_DerivedPaths(t *testing.T) {
	cfg := &Config{StateDir: "/state"}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"session", cfg.SessionPath(), filepath.Join("/state", "session")},
		{"history", cfg.HistoryPath(), filepath.Join("/state", "history")},
		{"log", cfg.LogPath(), filepath.Join("/state", "logs", "genpod.log")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestDefaultConfigPath(t *testing.T) {
	path, err := DefaultConfigPath()
	if err != nil {
		t.Fatalf("DefaultConfigPath() error = %v", err)
	}
	if !strings.HasSuffix(path, filepath.Join("genpod", "config.yaml")) {
		t.Errorf("DefaultConfigPath() = %q, want suffix genpod/config.yaml", path)
	}
}

// =============================================================================
// Locator Tests
// =============================================================================

func TestLocator_Locate_Present(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("vector_database_path: /tmp/vec\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	t.Setenv(EnvConfigPath, "")

	got, err := NewLocator(path).Locate()
	if err != nil {
		t.Fatalf("Locate() error = %v", err)
	}
	if got != path {
		t.Errorf("Locate() = %q, want %q", got, path)
	}
	if env := os.Getenv(EnvConfigPath); env != path {
		t.Errorf("%s = %q, want %q", EnvConfigPath, env, path)
	}
}

func TestLocator_Locate_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")
	t.Setenv(EnvConfigPath, "untouched")

	_, err := NewLocator(path).Locate()
	if !errors.Is(err, ErrConfigMissing) {
		t.Fatalf("Locate() error = %v, want ErrConfigMissing", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Errorf("error %q should name the path", err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Error("Locate() must not create the config file")
	}
	if env := os.Getenv(EnvConfigPath); env != "untouched" {
		t.Errorf("%s changed to %q on failure", EnvConfigPath, env)
	}
}

func TestLocator_Locate_Directory(t *testing.T) {
	dir := t.TempDir()

	_, err := NewLocator(dir).Locate()
	if !errors.Is(err, ErrConfigMissing) {
		t.Errorf("Locate() on a directory error = %v, want ErrConfigMissing", err)
	}
}

func TestLocator_Locate_ExportFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	os.WriteFile(path, []byte(""), 0644)

	l := NewLocator(path)
	l.setenv = func(string, string) error { return errors.New("boom") }

	if _, err := l.Locate(); err == nil {
		t.Error("Locate() should fail when the path cannot be exported")
	}
}
