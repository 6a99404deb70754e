package engine

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/battlewithbytes/image-to-app/internal/desktop"
)

const recordFileName = "entry.yml"

// Record is a registered launcher entry, persisted as entry.yml inside
// the entry's storage directory. Icon and Exec are file names relative
// to Dir.
type Record struct {
	Name      string    `yaml:"name"`
	Comment   string    `yaml:"comment"`
	Category  string    `yaml:"category"`
	Icon      string    `yaml:"icon"`
	Exec      string    `yaml:"exec"`
	CreatedAt time.Time `yaml:"created_at"`
	UpdatedAt time.Time `yaml:"updated_at"`

	// Computed fields (not from YAML)
	Dir string `yaml:"-"`
}

// Descriptor returns the .desktop content for the record.
func (r *Record) Descriptor() desktop.Entry {
	return desktop.Entry{
		Name:     r.Name,
		Comment:  r.Comment,
		Category: r.Category,
		Icon:     filepath.Join(r.Dir, r.Icon),
		Exec:     filepath.Join(r.Dir, r.Exec),
	}
}

func loadRecord(dir string) (*Record, error) {
	data, err := os.ReadFile(filepath.Join(dir, recordFileName))
	if err != nil {
		return nil, err
	}
	var r Record
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", recordFileName, err)
	}
	r.Dir = dir
	return &r, nil
}

func (r *Record) save() error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", recordFileName, err)
	}
	if err := os.WriteFile(filepath.Join(r.Dir, recordFileName), data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", recordFileName, err)
	}
	return nil
}

// recordFromDescriptor rebuilds a record for entries created before
// entry.yml existed, using the installed .desktop file.
func recordFromDescriptor(dir, descriptorPath string) (*Record, error) {
	e, err := desktop.ReadEntry(descriptorPath)
	if err != nil {
		return nil, err
	}
	return &Record{
		Name:     e.Name,
		Comment:  e.Comment,
		Category: e.Category,
		Icon:     filepath.Base(e.Icon),
		Exec:     filepath.Base(e.Exec),
		Dir:      dir,
	}, nil
}

// copyFile copies src to dst, creating or truncating dst with mode.
func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	// OpenFile honours umask and leaves existing files' modes alone.
	return os.Chmod(dst, mode)
}

func sameFile(a, b string) bool {
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}

func exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}
