// Package bundle discovers AppImage build directories and parses their
// details.txt sidecar. Nothing in this package writes to disk.
package bundle

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/battlewithbytes/image-to-app/internal/config"
)

var (
	ErrMissingBundleFile   = errors.New("no bundle file found")
	ErrMissingIconFile     = errors.New("no icon file found")
	ErrMissingMetadataFile = errors.New("no metadata file found")
)

// Rules controls how file names are classified.
type Rules struct {
	BundleMarker   string
	IconExtensions []string
	MetadataFile   string
}

// RulesFromConfig builds classification rules from the scan section.
func RulesFromConfig(sc config.ScanConfig) Rules {
	return Rules{
		BundleMarker:   sc.BundleMarker,
		IconExtensions: sc.IconExtensions,
		MetadataFile:   sc.MetadataFile,
	}
}

// DefaultRules returns the stock AppImage / image / details.txt rules.
func DefaultRules() Rules {
	return Rules{
		BundleMarker:   config.DefaultBundleMarker,
		IconExtensions: config.DefaultIconExtensions,
		MetadataFile:   config.DefaultMetadataFile,
	}
}

// Snapshot is the result of classifying one directory. File fields hold
// bare names relative to Dir.
type Snapshot struct {
	Dir      string
	Bundle   string
	Icon     string
	Metadata string
}

func (s Snapshot) BundlePath() string   { return filepath.Join(s.Dir, s.Bundle) }
func (s Snapshot) IconPath() string     { return filepath.Join(s.Dir, s.Icon) }
func (s Snapshot) MetadataPath() string { return filepath.Join(s.Dir, s.Metadata) }

type kind int

const (
	kindOther kind = iota
	kindMetadata
	kindBundle
	kindIcon
)

func (r Rules) kindOf(name string) kind {
	switch {
	case name == r.MetadataFile:
		return kindMetadata
	case strings.Contains(name, r.BundleMarker):
		return kindBundle
	}
	for _, ext := range r.IconExtensions {
		if strings.Contains(name, ext) {
			return kindIcon
		}
	}
	return kindOther
}

// scan classifies names in lexicographic order so that, when several
// names match one category, the lexicographically last one wins.
func (r Rules) scan(dir string, names []string) Snapshot {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)

	snap := Snapshot{Dir: dir}
	for _, name := range sorted {
		switch r.kindOf(name) {
		case kindMetadata:
			snap.Metadata = name
		case kindBundle:
			snap.Bundle = name
		case kindIcon:
			snap.Icon = name
		}
	}
	return snap
}

// Classify picks the bundle, icon and metadata file out of a directory
// listing. It fails with ErrMissingBundleFile, ErrMissingIconFile or
// ErrMissingMetadataFile, checked in that order, and never returns a
// partial snapshot.
func Classify(dir string, names []string, r Rules) (Snapshot, error) {
	snap, err := ClassifyAssets(dir, names, r)
	if err != nil {
		return Snapshot{}, err
	}
	if snap.Metadata == "" {
		return Snapshot{}, fmt.Errorf("%w: %s in %s", ErrMissingMetadataFile, r.MetadataFile, dir)
	}
	return snap, nil
}

// ClassifyAssets is Classify without the metadata requirement.
func ClassifyAssets(dir string, names []string, r Rules) (Snapshot, error) {
	snap := r.scan(dir, names)
	if snap.Bundle == "" {
		return Snapshot{}, fmt.Errorf("%w: no file containing %q in %s", ErrMissingBundleFile, r.BundleMarker, dir)
	}
	if snap.Icon == "" {
		return Snapshot{}, fmt.Errorf("%w: no %s file in %s", ErrMissingIconFile, strings.Join(r.IconExtensions, "/"), dir)
	}
	return snap, nil
}

// ClassifyDir lists the regular files directly inside dir and classifies them.
func ClassifyDir(dir string, r Rules) (Snapshot, error) {
	names, err := fileNames(dir)
	if err != nil {
		return Snapshot{}, err
	}
	return Classify(dir, names, r)
}

// ClassifyAssetsDir lists dir and runs ClassifyAssets.
func ClassifyAssetsDir(dir string, r Rules) (Snapshot, error) {
	names, err := fileNames(dir)
	if err != nil {
		return Snapshot{}, err
	}
	return ClassifyAssets(dir, names, r)
}

func fileNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrPathNotFound, dir)
		}
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}
