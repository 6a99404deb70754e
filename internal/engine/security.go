package engine

import (
	"fmt"
	"path/filepath"
	"strings"
)

// denyListPaths may never serve as the storage root. Delete removes
// directories under the root recursively.
var denyListPaths = []string{
	"/",
	"/etc",
	"/proc",
	"/sys",
	"/dev",
	"/boot",
	"/usr",
	"/bin",
	"/sbin",
	"/lib",
	"/lib64",
	"/var",
	"/home",
}

// ValidateStorageRoot checks that root is absolute and is not a system
// path. Nested paths under most deny-listed directories are refused too;
// /home and / only refuse the exact path.
func ValidateStorageRoot(root, home string) error {
	if root == "" {
		return fmt.Errorf("storage root is empty")
	}
	cleaned := filepath.Clean(root)
	if !filepath.IsAbs(cleaned) {
		return fmt.Errorf("storage root must be absolute: %q", root)
	}
	if home != "" && cleaned == filepath.Clean(home) {
		return fmt.Errorf("storage root %q is the home directory", root)
	}
	for _, denied := range denyListPaths {
		if cleaned == denied {
			return fmt.Errorf("storage root %q is not allowed (restricted system path)", root)
		}
		if denied == "/" || denied == "/home" || denied == "/var" {
			continue
		}
		if strings.HasPrefix(cleaned, denied+"/") {
			return fmt.Errorf("storage root %q is not allowed (restricted system path)", root)
		}
	}
	return nil
}
