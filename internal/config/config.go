package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the full application configuration written to config.yml.
type Config struct {
	Paths   PathsConfig   `yaml:"paths"`
	Scan    ScanConfig    `yaml:"scan"`
	Desktop DesktopConfig `yaml:"desktop"`
}

type PathsConfig struct {
	DesktopDir  string `yaml:"desktop_dir"`
	StorageRoot string `yaml:"storage_root"`
	HistoryDB   string `yaml:"history_db"`
}

type ScanConfig struct {
	BundleMarker   string   `yaml:"bundle_marker"`
	IconExtensions []string `yaml:"icon_extensions"`
	MetadataFile   string   `yaml:"metadata_file"`
}

type DesktopConfig struct {
	Overwrite        string `yaml:"overwrite"`
	StrictCategories bool   `yaml:"strict_categories"`
	ChmodCommand     string `yaml:"chmod_command"`
	RefreshCommand   string `yaml:"refresh_command"`
}

// Load reads a config file and layers it over defaults. Keys absent from
// the file keep their default values. "~" in paths expands to home.
func Load(path string, defaults *Config, home string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := defaults.clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.Paths.DesktopDir = ExpandHome(cfg.Paths.DesktopDir, home)
	cfg.Paths.StorageRoot = ExpandHome(cfg.Paths.StorageRoot, home)
	cfg.Paths.HistoryDB = ExpandHome(cfg.Paths.HistoryDB, home)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields the defaults.
func LoadOrDefault(path string, defaults *Config, home string) (*Config, error) {
	cfg, err := Load(path, defaults, home)
	if errors.Is(err, fs.ErrNotExist) {
		return defaults.clone(), nil
	}
	return cfg, err
}

func (c *Config) clone() *Config {
	cp := *c
	cp.Scan.IconExtensions = append([]string(nil), c.Scan.IconExtensions...)
	return &cp
}

// Validate checks that all required fields are present and values are in range.
func (c *Config) Validate() error {
	paths := []struct {
		key, val string
	}{
		{"paths.desktop_dir", c.Paths.DesktopDir},
		{"paths.storage_root", c.Paths.StorageRoot},
		{"paths.history_db", c.Paths.HistoryDB},
	}
	for _, p := range paths {
		if p.val == "" {
			return fmt.Errorf("%s is required", p.key)
		}
		if !filepath.IsAbs(p.val) {
			return fmt.Errorf("%s must be an absolute path, got %q", p.key, p.val)
		}
	}

	// Scan rules
	if c.Scan.BundleMarker == "" {
		return fmt.Errorf("scan.bundle_marker is required")
	}
	if len(c.Scan.IconExtensions) == 0 {
		return fmt.Errorf("at least one scan.icon_extensions entry is required")
	}
	for _, ext := range c.Scan.IconExtensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("scan.icon_extensions: %q must start with '.'", ext)
		}
	}
	if c.Scan.MetadataFile == "" {
		return fmt.Errorf("scan.metadata_file is required")
	}
	if strings.ContainsRune(c.Scan.MetadataFile, filepath.Separator) {
		return fmt.Errorf("scan.metadata_file must be a bare file name")
	}

	// Overwrite policy
	switch c.Desktop.Overwrite {
	case OverwriteAsk, OverwriteAlways, OverwriteNever:
		// ok
	default:
		return fmt.Errorf("desktop.overwrite must be %q, %q, or %q", OverwriteAsk, OverwriteAlways, OverwriteNever)
	}

	if strings.TrimSpace(c.Desktop.ChmodCommand) == "" {
		return fmt.Errorf("desktop.chmod_command is required")
	}
	if strings.TrimSpace(c.Desktop.RefreshCommand) == "" {
		return fmt.Errorf("desktop.refresh_command is required")
	}

	return nil
}

// Save writes the config to the given path, creating parent directories as needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}
