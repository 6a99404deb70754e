package config

import (
	"path/filepath"
	"strings"
)

const (
	AppName = "image-to-app"

	// Relative locations below the XDG base directories.
	configFileName  = "config.yml"
	historyFileName = "history.db"
	storageDirName  = "image_to_app"

	// Scan defaults
	DefaultBundleMarker = ".AppImage"
	DefaultMetadataFile = "details.txt"

	// External utilities
	DefaultChmodCommand   = "chmod"
	DefaultRefreshCommand = "update-desktop-database"

	// Overwrite policies for an existing .desktop file
	OverwriteAsk    = "ask"
	OverwriteAlways = "always"
	OverwriteNever  = "never"
)

// DefaultIconExtensions lists the image suffixes recognised as icons.
var DefaultIconExtensions = []string{".png", ".svg", ".jpg", ".jpeg", ".xpm", ".ico"}

// Dirs holds the base directories the defaults are derived from.
type Dirs struct {
	Home       string
	ConfigHome string
	DataHome   string
	StateHome  string
}

// ResolveDirs computes the XDG base directories from an environment lookup
// function, falling back to the XDG defaults under $HOME.
func ResolveDirs(getenv func(string) string) Dirs {
	home := getenv("HOME")
	d := Dirs{
		Home:       home,
		ConfigHome: getenv("XDG_CONFIG_HOME"),
		DataHome:   getenv("XDG_DATA_HOME"),
		StateHome:  getenv("XDG_STATE_HOME"),
	}
	if d.ConfigHome == "" {
		d.ConfigHome = filepath.Join(home, ".config")
	}
	if d.DataHome == "" {
		d.DataHome = filepath.Join(home, ".local", "share")
	}
	if d.StateHome == "" {
		d.StateHome = filepath.Join(home, ".local", "state")
	}
	return d
}

// ConfigPath returns the default config file location.
func (d Dirs) ConfigPath() string {
	return filepath.Join(d.ConfigHome, AppName, configFileName)
}

// Defaults returns a fully populated config rooted at the given directories.
func Defaults(d Dirs) *Config {
	return &Config{
		Paths: PathsConfig{
			DesktopDir:  filepath.Join(d.DataHome, "applications"),
			StorageRoot: filepath.Join(d.Home, ".local", storageDirName),
			HistoryDB:   filepath.Join(d.StateHome, AppName, historyFileName),
		},
		Scan: ScanConfig{
			BundleMarker:   DefaultBundleMarker,
			IconExtensions: append([]string(nil), DefaultIconExtensions...),
			MetadataFile:   DefaultMetadataFile,
		},
		Desktop: DesktopConfig{
			Overwrite:        OverwriteAsk,
			StrictCategories: true,
			ChmodCommand:     DefaultChmodCommand,
			RefreshCommand:   DefaultRefreshCommand,
		},
	}
}

// ExpandHome replaces a leading "~" with home.
func ExpandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
