package prompt

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/battlewithbytes/image-to-app/internal/bundle"
)

// MetadataAnswers holds raw values from the metadata form.
type MetadataAnswers struct {
	Name     string
	Comment  string
	Category string
}

// Metadata trims the answers and checks them the same way a sidecar file
// would be checked.
func (a *MetadataAnswers) Metadata() (bundle.Metadata, error) {
	m := bundle.Metadata{
		Name:     strings.TrimSpace(a.Name),
		Comment:  strings.TrimSpace(a.Comment),
		Category: strings.TrimSpace(a.Category),
	}
	if err := bundle.ValidateName(m.Name); err != nil {
		return bundle.Metadata{}, err
	}
	if err := ValidateComment(m.Comment); err != nil {
		return bundle.Metadata{}, err
	}
	if _, err := bundle.ParseCategory(m.Category); err != nil {
		return bundle.Metadata{}, err
	}
	return m, nil
}

// ValidateComment returns nil if s is a usable single-line comment.
func ValidateComment(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("comment cannot be empty")
	}
	if strings.ContainsAny(s, "\r\n") {
		return fmt.Errorf("comment cannot span multiple lines")
	}
	return nil
}

// suggestName derives a default entry name from a bundle file name,
// e.g. "Krita-5.2.2-x86_64.AppImage" becomes "Krita".
func suggestName(bundlePath, marker string) string {
	base := filepath.Base(bundlePath)
	if marker != "" {
		if i := strings.Index(base, marker); i >= 0 {
			base = base[:i]
		}
	}
	if i := strings.IndexAny(base, "-_ "); i > 0 {
		base = base[:i]
	}
	return base
}
