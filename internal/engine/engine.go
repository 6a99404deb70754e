// Package engine manages launcher entries registered under the storage
// root: one directory per entry holding the bundle, its icon and entry.yml.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/battlewithbytes/image-to-app/internal/bundle"
	"github.com/battlewithbytes/image-to-app/internal/config"
	"github.com/battlewithbytes/image-to-app/internal/desktop"
)

// Engine performs entry management operations.
type Engine struct {
	root   string
	rules  bundle.Rules
	strict bool
	writer *desktop.Writer
	store  *Store
	cwd    string
}

// New creates an Engine. store may be nil, in which case no history is kept.
// cwd anchors relative bundle and icon paths.
func New(cfg *config.Config, writer *desktop.Writer, store *Store, cwd string) *Engine {
	return &Engine{
		root:   cfg.Paths.StorageRoot,
		rules:  bundle.RulesFromConfig(cfg.Scan),
		strict: cfg.Desktop.StrictCategories,
		writer: writer,
		store:  store,
		cwd:    cwd,
	}
}

// RegisterRequest describes a new entry.
type RegisterRequest struct {
	BundlePath string
	IconPath   string
	Metadata   bundle.Metadata
}

// Register copies the bundle and icon into a fresh entry directory and
// installs its descriptor. Every check runs before the first write.
func (e *Engine) Register(ctx context.Context, req RegisterRequest) (*Record, error) {
	meta := req.Metadata
	if err := bundle.ValidateName(meta.Name); err != nil {
		return nil, err
	}
	category, err := e.category(meta.Category)
	if err != nil {
		return nil, err
	}

	bundlePath, err := bundle.ResolvePath(req.BundlePath, e.cwd)
	if err != nil {
		return nil, fmt.Errorf("bundle: %w", err)
	}
	iconPath, err := bundle.ResolvePath(req.IconPath, e.cwd)
	if err != nil {
		return nil, fmt.Errorf("icon: %w", err)
	}

	dir := e.entryDir(meta.Name)
	found, err := exists(dir)
	if err != nil {
		return nil, fmt.Errorf("checking %s: %w", dir, err)
	}
	if found {
		return nil, fmt.Errorf("%w: %s", ErrEntryExists, meta.Name)
	}
	if err := e.writer.CheckDestination(meta.Name); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating entry directory: %w", err)
	}

	rec := &Record{
		Name:     meta.Name,
		Comment:  meta.Comment,
		Category: category,
		Icon:     filepath.Base(iconPath),
		Exec:     filepath.Base(bundlePath),
		Dir:      dir,
	}
	rec.CreatedAt = time.Now().UTC()
	rec.UpdatedAt = rec.CreatedAt

	if err := copyFile(bundlePath, filepath.Join(dir, rec.Exec), 0755); err != nil {
		return nil, fmt.Errorf("copying bundle: %w", err)
	}
	if err := copyFile(iconPath, filepath.Join(dir, rec.Icon), 0644); err != nil {
		return nil, fmt.Errorf("copying icon: %w", err)
	}
	if err := rec.save(); err != nil {
		return nil, err
	}
	log.Printf("[engine] stored %s in %s", rec.Name, dir)

	err = e.writer.Replace(ctx, rec.Descriptor())
	e.recordIfWritten(err, ActionRegister, rec.Name, rec.Exec)
	return rec, err
}

// RegisterDir classifies a build directory, reads its metadata sidecar and
// registers the result.
func (e *Engine) RegisterDir(ctx context.Context, dir string) (*Record, error) {
	abs, err := bundle.ResolvePath(dir, e.cwd)
	if err != nil {
		return nil, err
	}
	snap, err := bundle.ClassifyDir(abs, e.rules)
	if err != nil {
		return nil, err
	}
	log.Printf("[engine] %s: bundle=%s icon=%s metadata=%s", abs, snap.Bundle, snap.Icon, snap.Metadata)

	meta, err := bundle.ParseMetadataFile(snap.MetadataPath())
	if err != nil {
		return nil, err
	}
	return e.Register(ctx, RegisterRequest{
		BundlePath: snap.BundlePath(),
		IconPath:   snap.IconPath(),
		Metadata:   meta,
	})
}

// List returns the names of all registered entries in lexical order.
func (e *Engine) List() ([]string, error) {
	dirEntries, err := os.ReadDir(e.root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageRootUnavailable, err)
	}
	var names []string
	for _, d := range dirEntries {
		if d.IsDir() {
			names = append(names, d.Name())
		}
	}
	return names, nil
}

// Entries returns the record of every registered entry. Entries whose
// metadata cannot be read are returned with only Name and Dir set.
func (e *Engine) Entries() ([]*Record, error) {
	names, err := e.List()
	if err != nil {
		return nil, err
	}
	records := make([]*Record, 0, len(names))
	for _, name := range names {
		rec, err := e.load(name)
		if err != nil {
			log.Printf("[engine] %s: %v", name, err)
			rec = &Record{Name: name, Dir: e.entryDir(name)}
		}
		records = append(records, rec)
	}
	return records, nil
}

// Delete removes an entry's directory and its descriptor.
func (e *Engine) Delete(ctx context.Context, name string) error {
	if err := bundle.ValidateName(name); err != nil {
		return &DeleteError{Name: name, Err: err}
	}
	dir := e.entryDir(name)
	if _, err := os.Lstat(dir); err != nil {
		return &DeleteError{Name: name, Err: err}
	}
	if err := os.RemoveAll(dir); err != nil {
		return &DeleteError{Name: name, Err: err}
	}
	log.Printf("[engine] removed %s", dir)

	err := e.writer.Remove(ctx, name)
	e.recordIfWritten(err, ActionDelete, name, "")
	return err
}

// UpdateIcon copies a new icon into the entry directory and points the
// descriptor at it. A previous icon with a different name is removed.
func (e *Engine) UpdateIcon(ctx context.Context, name, iconPath string) (*Record, error) {
	src, err := bundle.ResolvePath(iconPath, e.cwd)
	if err != nil {
		if errors.Is(err, bundle.ErrPathNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrIconNotFound, iconPath)
		}
		return nil, err
	}
	rec, err := e.load(name)
	if err != nil {
		return nil, err
	}

	newIcon := filepath.Base(src)
	dst := filepath.Join(rec.Dir, newIcon)
	if !sameFile(src, dst) {
		if err := copyFile(src, dst, 0644); err != nil {
			return nil, fmt.Errorf("copying icon: %w", err)
		}
	}
	if old := rec.Icon; old != "" && old != newIcon {
		if err := os.Remove(filepath.Join(rec.Dir, old)); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Printf("[engine] removing old icon %s: %v", old, err)
		}
	}

	rec.Icon = newIcon
	rec.UpdatedAt = time.Now().UTC()
	if err := rec.save(); err != nil {
		return nil, err
	}

	err = e.writer.Replace(ctx, rec.Descriptor())
	e.recordIfWritten(err, ActionIcon, rec.Name, newIcon)
	return rec, err
}

// Update rescans the entry directory and re-renders the descriptor so it
// points at the bundle and icon currently stored there.
func (e *Engine) Update(ctx context.Context, name string) (*Record, error) {
	rec, err := e.load(name)
	if err != nil {
		return nil, err
	}
	snap, err := bundle.ClassifyAssetsDir(rec.Dir, e.rules)
	if err != nil {
		return nil, err
	}

	bundlePath := snap.BundlePath()
	info, err := os.Stat(bundlePath)
	if err != nil {
		return nil, err
	}
	if info.Mode().Perm()&0111 == 0 {
		if err := os.Chmod(bundlePath, info.Mode().Perm()|0111); err != nil {
			return nil, fmt.Errorf("marking bundle executable: %w", err)
		}
	}

	changed := rec.Exec != snap.Bundle || rec.Icon != snap.Icon
	rec.Exec = snap.Bundle
	rec.Icon = snap.Icon
	rec.UpdatedAt = time.Now().UTC()
	if err := rec.save(); err != nil {
		return nil, err
	}
	if !changed {
		log.Printf("[engine] %s already points at %s", name, rec.Exec)
	}

	err = e.writer.Replace(ctx, rec.Descriptor())
	e.recordIfWritten(err, ActionUpdate, rec.Name, rec.Exec)
	return rec, err
}

func (e *Engine) entryDir(name string) string {
	return filepath.Join(e.root, name)
}

// load reads an entry's record, falling back to its installed descriptor.
func (e *Engine) load(name string) (*Record, error) {
	if err := bundle.ValidateName(name); err != nil {
		return nil, err
	}
	dir := e.entryDir(name)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, name)
	}

	rec, err := loadRecord(dir)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	rec, derr := recordFromDescriptor(dir, e.writer.Path(name))
	if derr != nil {
		return nil, fmt.Errorf("%s has no %s and no readable descriptor: %w", name, recordFileName, derr)
	}
	return rec, nil
}

func (e *Engine) category(value string) (string, error) {
	if !e.strict {
		return strings.TrimSpace(value), nil
	}
	c, err := bundle.ParseCategory(value)
	if err != nil {
		return "", err
	}
	return string(c), nil
}

// recordIfWritten logs a history event unless err shows that nothing
// reached the disk. Side-effect failures still count as written.
func (e *Engine) recordIfWritten(err error, action, name, detail string) {
	var se *desktop.SideEffectError
	if err != nil && !errors.As(err, &se) {
		return
	}
	if e.store == nil {
		return
	}
	if rerr := e.store.Record(&Event{Action: action, Entry: name, Detail: detail}); rerr != nil {
		log.Printf("[engine] recording %s %s: %v", action, name, rerr)
	}
}
