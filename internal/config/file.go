package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Document is the configuration written by the installer and read by the
// backend. The CLI never interprets it beyond existence checks and the
// status display.
type Document struct {
	DatabasePath       string `yaml:"sqlite3_database_path"`
	OutputDirectory    string `yaml:"code_output_directory"`
	BackendConfigPath  string `yaml:"genpod_configuration_file_path"`
	VectorDatabasePath string `yaml:"vector_database_path"`
}

// DocumentKeys lists the keys of the document in file order
var DocumentKeys = []string{
	"sqlite3_database_path",
	"code_output_directory",
	"genpod_configuration_file_path",
	"vector_database_path",
}

// Defaults holds the values offered by the installer prompts.
// The vector database path has no default.
type Defaults struct {
	DatabasePath      string
	OutputDirectory   string
	BackendConfigPath string
}

// DefaultDocumentValues derives installer defaults from the user's home directory
func DefaultDocumentValues(home string) Defaults {
	base := filepath.Join(home, "genpod")
	return Defaults{
		DatabasePath:      filepath.Join(base, "databases", "genpod.db"),
		OutputDirectory:   filepath.Join(base, "output"),
		BackendConfigPath: filepath.Join(base, "configs", "genpod.yaml"),
	}
}

// Save writes the document as flat YAML, creating parent directories
func (d *Document) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// LoadDocument reads a configuration document from path
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigMissing, path)
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &doc, nil
}
