package bundle

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var ErrPathNotFound = errors.New("path not found")

// ResolvePath returns the absolute, cleaned form of path, interpreting
// relative paths against cwd, and fails with ErrPathNotFound when nothing
// exists there.
func ResolvePath(path, cwd string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: empty path", ErrPathNotFound)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(cwd, path)
	}
	path = filepath.Clean(path)

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrPathNotFound, path)
		}
		return "", fmt.Errorf("checking %s: %w", path, err)
	}
	return path, nil
}
