package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/battlewithbytes/image-to-app/internal/config"
	"github.com/battlewithbytes/image-to-app/internal/desktop"
	"github.com/battlewithbytes/image-to-app/internal/desktopdb"
	"github.com/battlewithbytes/image-to-app/internal/engine"
	"github.com/battlewithbytes/image-to-app/internal/prompt"
)

// app is the wired set of components one invocation works with.
type app struct {
	cfg    *config.Config
	engine *engine.Engine
	store  *engine.Store
}

// configPath returns --config or the XDG default.
func configPath(dirs config.Dirs) string {
	if flagConfig != "" {
		return flagConfig
	}
	return dirs.ConfigPath()
}

// loadConfig reads the config file over the XDG defaults. An explicit
// --config must exist; the default location is optional.
func loadConfig() (*config.Config, config.Dirs, error) {
	dirs := config.ResolveDirs(os.Getenv)
	defaults := config.Defaults(dirs)

	var cfg *config.Config
	var err error
	if flagConfig != "" {
		cfg, err = config.Load(flagConfig, defaults, dirs.Home)
	} else {
		cfg, err = config.LoadOrDefault(dirs.ConfigPath(), defaults, dirs.Home)
	}
	if err != nil {
		return nil, dirs, err
	}
	return cfg, dirs, nil
}

// openApp loads the config and wires the writer, history store and engine.
func openApp() (*app, error) {
	cfg, dirs, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if err := checkDesktopDir(cfg.Paths.DesktopDir); err != nil {
		return nil, err
	}
	if err := engine.ValidateStorageRoot(cfg.Paths.StorageRoot, dirs.Home); err != nil {
		return nil, fmt.Errorf("paths.storage_root: %w", err)
	}

	confirm, err := prompt.Confirmer(cfg.Desktop.Overwrite)
	if err != nil {
		return nil, err
	}
	writer := desktop.NewWriter(cfg.Paths.DesktopDir, desktopdb.FromConfig(cfg.Desktop), confirm)

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolving working directory: %w", err)
	}

	// History is optional; operations proceed without it.
	store, err := openStore(cfg.Paths.HistoryDB)
	if err != nil {
		log.Printf("[history] %v", err)
		store = nil
	}
	return &app{
		cfg:    cfg,
		engine: engine.New(cfg, writer, store, cwd),
		store:  store,
	}, nil
}

// openStore opens the history database, creating its directory first.
func openStore(path string) (*engine.Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}
	store, err := engine.NewStore(path)
	if err != nil {
		return nil, fmt.Errorf("opening history: %w", err)
	}
	return store, nil
}

func (a *app) Close() {
	if a.store != nil {
		a.store.Close()
	}
}

// checkDesktopDir fails unless dir exists, is a directory and is writable.
func checkDesktopDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("desktop entries directory %s does not exist", dir)
		}
		return fmt.Errorf("checking desktop entries directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("desktop entries path %s is not a directory", dir)
	}
	if err := unix.Access(dir, unix.W_OK); err != nil {
		return fmt.Errorf("desktop entries directory %s is not writable: %w", dir, err)
	}
	return nil
}
