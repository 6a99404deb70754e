package bundle

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var ErrMissingRequiredField = errors.New("missing required field")

// MissingFieldError names the metadata key that was absent.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingRequiredField
}

// Metadata holds the three descriptive fields of a launcher entry.
type Metadata struct {
	Name     string `yaml:"name"`
	Comment  string `yaml:"comment"`
	Category string `yaml:"category"`
}

// ParseMetadataLines extracts Name, Comment and Categories from key=value
// lines. Keys are matched case-insensitively, values are trimmed, lines
// without '=' are skipped and the last occurrence of a key wins.
func ParseMetadataLines(lines []string) (Metadata, error) {
	var m Metadata
	var seenName, seenComment, seenCategory bool

	for _, line := range lines {
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)

		switch strings.ToLower(strings.TrimSpace(key)) {
		case "name":
			m.Name, seenName = value, true
		case "comment":
			m.Comment, seenComment = value, true
		case "categories":
			m.Category, seenCategory = value, true
		}
	}

	switch {
	case !seenName:
		return Metadata{}, &MissingFieldError{Field: "Name"}
	case !seenComment:
		return Metadata{}, &MissingFieldError{Field: "Comment"}
	case !seenCategory:
		return Metadata{}, &MissingFieldError{Field: "Categories"}
	}
	return m, nil
}

// ParseMetadata reads r line by line and parses it with ParseMetadataLines.
func ParseMetadata(r io.Reader) (Metadata, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return Metadata{}, fmt.Errorf("reading metadata: %w", err)
	}
	return ParseMetadataLines(lines)
}

// ParseMetadataFile parses the sidecar file at path.
func ParseMetadataFile(path string) (Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Metadata{}, fmt.Errorf("%w: %s", ErrMissingMetadataFile, path)
		}
		return Metadata{}, fmt.Errorf("opening metadata: %w", err)
	}
	defer f.Close()

	m, err := ParseMetadata(f)
	if err != nil {
		return Metadata{}, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// ValidateName checks that name is usable as both a directory name and a
// .desktop file stem.
func ValidateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("name cannot be empty")
	case name == "." || name == "..":
		return fmt.Errorf("name %q is reserved", name)
	case strings.ContainsAny(name, "/\x00"):
		return fmt.Errorf("name %q cannot contain '/'", name)
	case strings.ContainsAny(name, "\r\n"):
		return fmt.Errorf("name cannot span multiple lines")
	}
	return nil
}
