package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the main configuration for trk.
type Config struct {
	ProjectRoot string         `toml:"project_root"`
	LogDir      string         `toml:"log_dir"`
	Manifest    ManifestConfig `toml:"manifest"`
	Records     RecordsConfig  `toml:"records"`
}

// ManifestConfig represents configuration for the scaffold manifest ledger.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type ManifestConfig struct {
	Type string `toml:"type"` // "filesystem" or "memory"
}

// RecordsConfig holds record-storage settings.
type RecordsConfig struct {
	Dir string `toml:"dir"` // records directory relative to project root
}

// NewConfig creates a new Config with the provided project root and defaults.
func NewConfig(projectRoot, logDir string) *Config {
	return &Config{
		ProjectRoot: projectRoot,
		LogDir:      logDir,
		Manifest:    ManifestConfig{Type: "filesystem"},
		Records:     RecordsConfig{Dir: "records"},
	}
}

// RecordsDir returns the absolute records directory.
func (c *Config) RecordsDir() string {
	dir := c.Records.Dir
	if dir == "" {
		dir = "records"
	}
	return filepath.Join(c.ProjectRoot, dir)
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
// This is an internal helper and should not be exported.
func writeToFile(path string, cfg *Config) error {
	// Ensure the directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	// Check if config already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
