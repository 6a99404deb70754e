// Package desktop renders, reads and installs freedesktop.org .desktop
// launcher descriptors.
package desktop

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	groupHeader = "[Desktop Entry]"
	fileSuffix  = ".desktop"
)

// Entry is the content of one launcher descriptor. Icon and Exec are
// absolute paths.
type Entry struct {
	Name     string
	Comment  string
	Category string
	Icon     string
	Exec     string
}

// FileName returns the descriptor file name for an entry name.
func FileName(name string) string {
	return name + fileSuffix
}

// Render produces the descriptor text.
func (e Entry) Render() []byte {
	var b bytes.Buffer
	b.WriteString(groupHeader + "\n")
	b.WriteString("Type=Application\n")
	fmt.Fprintf(&b, "Name=%s\n", e.Name)
	fmt.Fprintf(&b, "Icon=%s\n", e.Icon)
	fmt.Fprintf(&b, "Exec=%s\n", e.Exec)
	fmt.Fprintf(&b, "Comment=%s\n", e.Comment)
	fmt.Fprintf(&b, "Categories=%s\n", e.Category)
	b.WriteString("Terminal=false\n")
	return b.Bytes()
}

// ParseDescriptor returns the key/value pairs of the [Desktop Entry]
// group. Comments, blank lines and other groups are skipped; the first
// occurrence of a key wins.
func ParseDescriptor(r io.Reader) (map[string]string, error) {
	kv := make(map[string]string)
	inEntry, sawHeader := false, false

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		if len(line) > 2 && line[0] == '[' && line[len(line)-1] == ']' {
			inEntry = line == groupHeader
			sawHeader = sawHeader || inEntry
			continue
		}
		if !inEntry {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if _, dup := kv[key]; !dup {
			kv[key] = strings.TrimSpace(value)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading descriptor: %w", err)
	}
	if !sawHeader {
		return nil, fmt.Errorf("no %s group", groupHeader)
	}
	return kv, nil
}

// ReadEntry parses the descriptor at path back into an Entry.
func ReadEntry(path string) (Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return Entry{}, err
	}
	defer f.Close()

	kv, err := ParseDescriptor(f)
	if err != nil {
		return Entry{}, fmt.Errorf("%s: %w", path, err)
	}
	return Entry{
		Name:     kv["Name"],
		Comment:  kv["Comment"],
		Category: kv["Categories"],
		Icon:     kv["Icon"],
		Exec:     kv["Exec"],
	}, nil
}
