package config

import (
	"os"
	"path/filepath"
	"testing"
)

func testDirs() Dirs {
	return ResolveDirs(func(key string) string {
		if key == "HOME" {
			return "/home/ada"
		}
		return ""
	})
}

func validConfig() *Config {
	return Defaults(testDirs())
}

func TestResolveDirsFallbacks(t *testing.T) {
	d := testDirs()
	if d.ConfigHome != "/home/ada/.config" {
		t.Errorf("ConfigHome = %q", d.ConfigHome)
	}
	if d.DataHome != "/home/ada/.local/share" {
		t.Errorf("DataHome = %q", d.DataHome)
	}
	if d.StateHome != "/home/ada/.local/state" {
		t.Errorf("StateHome = %q", d.StateHome)
	}
}

func TestResolveDirsXDGOverrides(t *testing.T) {
	env := map[string]string{
		"HOME":            "/home/ada",
		"XDG_CONFIG_HOME": "/cfg",
		"XDG_DATA_HOME":   "/data",
		"XDG_STATE_HOME":  "/state",
	}
	d := ResolveDirs(func(k string) string { return env[k] })
	cfg := Defaults(d)
	if cfg.Paths.DesktopDir != "/data/applications" {
		t.Errorf("DesktopDir = %q", cfg.Paths.DesktopDir)
	}
	if cfg.Paths.HistoryDB != "/state/image-to-app/history.db" {
		t.Errorf("HistoryDB = %q", cfg.Paths.HistoryDB)
	}
	if d.ConfigPath() != "/cfg/image-to-app/config.yml" {
		t.Errorf("ConfigPath = %q", d.ConfigPath())
	}
}

func TestDefaultsLayout(t *testing.T) {
	cfg := validConfig()
	if cfg.Paths.DesktopDir != "/home/ada/.local/share/applications" {
		t.Errorf("DesktopDir = %q", cfg.Paths.DesktopDir)
	}
	if cfg.Paths.StorageRoot != "/home/ada/.local/image_to_app" {
		t.Errorf("StorageRoot = %q", cfg.Paths.StorageRoot)
	}
}

func TestValidateValid(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing desktop dir", func(c *Config) { c.Paths.DesktopDir = "" }},
		{"relative storage root", func(c *Config) { c.Paths.StorageRoot = "apps" }},
		{"missing history db", func(c *Config) { c.Paths.HistoryDB = "" }},
		{"empty marker", func(c *Config) { c.Scan.BundleMarker = "" }},
		{"no icon extensions", func(c *Config) { c.Scan.IconExtensions = nil }},
		{"extension without dot", func(c *Config) { c.Scan.IconExtensions = []string{"png"} }},
		{"metadata path", func(c *Config) { c.Scan.MetadataFile = "sub/details.txt" }},
		{"bad overwrite policy", func(c *Config) { c.Desktop.Overwrite = "sometimes" }},
		{"blank chmod", func(c *Config) { c.Desktop.ChmodCommand = " " }},
		{"blank refresh", func(c *Config) { c.Desktop.RefreshCommand = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "subdir", "config.yml")

	cfg := validConfig()
	cfg.Desktop.Overwrite = OverwriteNever
	cfg.Scan.BundleMarker = ".appimage"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("config file not created: %v", err)
	}
	if info.Mode().Perm() != 0644 {
		t.Fatalf("expected 0644 permissions, got %o", info.Mode().Perm())
	}

	loaded, err := Load(path, validConfig(), "/home/ada")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Desktop.Overwrite != OverwriteNever {
		t.Errorf("overwrite: got %q, want %q", loaded.Desktop.Overwrite, OverwriteNever)
	}
	if loaded.Scan.BundleMarker != ".appimage" {
		t.Errorf("bundle_marker: got %q", loaded.Scan.BundleMarker)
	}
	if loaded.Paths.StorageRoot != cfg.Paths.StorageRoot {
		t.Errorf("storage_root: got %q, want %q", loaded.Paths.StorageRoot, cfg.Paths.StorageRoot)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	data := "paths:\n  storage_root: ~/Apps\ndesktop:\n  overwrite: always\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	defaults := validConfig()
	cfg, err := Load(path, defaults, "/home/ada")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Paths.StorageRoot != "/home/ada/Apps" {
		t.Errorf("storage_root = %q, want ~ expanded", cfg.Paths.StorageRoot)
	}
	if cfg.Paths.DesktopDir != defaults.Paths.DesktopDir {
		t.Errorf("desktop_dir = %q, want default", cfg.Paths.DesktopDir)
	}
	if cfg.Scan.MetadataFile != DefaultMetadataFile {
		t.Errorf("metadata_file = %q, want default", cfg.Scan.MetadataFile)
	}
	if !cfg.Desktop.StrictCategories {
		t.Error("strict_categories should keep its default")
	}
	if defaults.Desktop.Overwrite != OverwriteAsk {
		t.Error("Load must not mutate the defaults it was given")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yml", validConfig(), "/home/ada")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadOrDefaultMissingFile(t *testing.T) {
	cfg, err := LoadOrDefault("/nonexistent/path/config.yml", validConfig(), "/home/ada")
	if err != nil {
		t.Fatalf("LoadOrDefault: %v", err)
	}
	if cfg.Desktop.Overwrite != OverwriteAsk {
		t.Errorf("overwrite = %q, want default", cfg.Desktop.Overwrite)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yml")
	os.WriteFile(path, []byte("{{invalid yaml"), 0644)

	_, err := Load(path, validConfig(), "/home/ada")
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestExpandHome(t *testing.T) {
	tests := map[string]string{
		"~":          "/home/ada",
		"~/x/y":      "/home/ada/x/y",
		"/abs":       "/abs",
		"~other/dir": "~other/dir",
	}
	for in, want := range tests {
		if got := ExpandHome(in, "/home/ada"); got != want {
			t.Errorf("ExpandHome(%q) = %q, want %q", in, got, want)
		}
	}
}
