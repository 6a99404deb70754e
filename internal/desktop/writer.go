package desktop

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

var ErrDestinationExists = errors.New("descriptor already exists")

// Tools performs the side effects that follow a descriptor write.
type Tools interface {
	MarkExecutable(ctx context.Context, path string) error
	Refresh(ctx context.Context, dir string) error
}

// Confirmer decides whether an existing descriptor may be replaced.
type Confirmer interface {
	ConfirmOverwrite(path string) (bool, error)
}

// ConfirmFunc adapts a function to the Confirmer interface.
type ConfirmFunc func(path string) (bool, error)

func (f ConfirmFunc) ConfirmOverwrite(path string) (bool, error) { return f(path) }

var (
	AlwaysOverwrite Confirmer = ConfirmFunc(func(string) (bool, error) { return true, nil })
	NeverOverwrite  Confirmer = ConfirmFunc(func(string) (bool, error) { return false, nil })
)

// SideEffectError reports a failed post-write step. The descriptor itself
// is already on disk when this is returned.
type SideEffectError struct {
	Step string
	Path string
	Err  error
}

func (e *SideEffectError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Step, e.Path, e.Err)
}

func (e *SideEffectError) Unwrap() error { return e.Err }

// Writer installs descriptors into the desktop-entries directory.
type Writer struct {
	dir     string
	tools   Tools
	confirm Confirmer
}

// NewWriter returns a Writer for dir. A nil confirmer refuses overwrites.
func NewWriter(dir string, tools Tools, confirm Confirmer) *Writer {
	if confirm == nil {
		confirm = NeverOverwrite
	}
	return &Writer{dir: dir, tools: tools, confirm: confirm}
}

// Path returns the descriptor path for an entry name.
func (w *Writer) Path(name string) string {
	return filepath.Join(w.dir, FileName(name))
}

// CheckDestination applies the overwrite policy when a descriptor for name
// already exists, returning ErrDestinationExists if replacement is refused.
func (w *Writer) CheckDestination(name string) error {
	path := w.Path(name)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("checking %s: %w", path, err)
	}

	ok, err := w.confirm.ConfirmOverwrite(path)
	if err != nil {
		return fmt.Errorf("confirming overwrite of %s: %w", path, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrDestinationExists, path)
	}
	log.Printf("[desktop] overwriting %s", path)
	return nil
}

// Write checks the overwrite policy, then installs the descriptor.
func (w *Writer) Write(ctx context.Context, e Entry) error {
	if err := w.CheckDestination(e.Name); err != nil {
		return err
	}
	return w.Replace(ctx, e)
}

// Replace writes the descriptor without consulting the overwrite policy,
// marks it executable and refreshes the desktop index. Both side effects
// are attempted; their failures are joined into the returned error.
func (w *Writer) Replace(ctx context.Context, e Entry) error {
	path := w.Path(e.Name)
	if err := os.WriteFile(path, e.Render(), 0644); err != nil {
		return fmt.Errorf("writing descriptor: %w", err)
	}
	log.Printf("[desktop] wrote %s", path)

	var errs []error
	if err := w.tools.MarkExecutable(ctx, path); err != nil {
		log.Printf("[desktop] chmod %s failed: %v", path, err)
		errs = append(errs, &SideEffectError{Step: "mark executable", Path: path, Err: err})
	}
	if err := w.tools.Refresh(ctx, w.dir); err != nil {
		log.Printf("[desktop] refresh %s failed: %v", w.dir, err)
		errs = append(errs, &SideEffectError{Step: "refresh desktop database", Path: w.dir, Err: err})
	}
	return errors.Join(errs...)
}

// Remove deletes the descriptor for name, if any, and refreshes the index.
func (w *Writer) Remove(ctx context.Context, name string) error {
	path := w.Path(name)
	if err := os.Remove(path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("removing descriptor: %w", err)
		}
		log.Printf("[desktop] %s already absent", path)
	}
	if err := w.tools.Refresh(ctx, w.dir); err != nil {
		log.Printf("[desktop] refresh %s failed: %v", w.dir, err)
		return &SideEffectError{Step: "refresh desktop database", Path: w.dir, Err: err}
	}
	return nil
}
