package bundle

import (
	"errors"
	"fmt"
	"strings"
)

// Category is a freedesktop.org main menu category.
type Category string

const (
	AudioVideo  Category = "AudioVideo"
	Audio       Category = "Audio"
	Video       Category = "Video"
	Development Category = "Development"
	Education   Category = "Education"
	Game        Category = "Game"
	Graphics    Category = "Graphics"
	Network     Category = "Network"
	Office      Category = "Office"
	Science     Category = "Science"
	Settings    Category = "Settings"
	System      Category = "System"
	Utility     Category = "Utility"
)

// Categories is the closed set of accepted categories, in menu order.
var Categories = []Category{
	AudioVideo, Audio, Video, Development, Education, Game, Graphics,
	Network, Office, Science, Settings, System, Utility,
}

var ErrInvalidCategory = errors.New("invalid category")

// ParseCategory matches s against the category set, ignoring case and
// surrounding whitespace, and returns the canonical spelling.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w %q: must be one of %s", ErrInvalidCategory, s, strings.Join(CategoryNames(), ", "))
}

// CategoryNames returns the category set as plain strings.
func CategoryNames() []string {
	names := make([]string, len(Categories))
	for i, c := range Categories {
		names[i] = string(c)
	}
	return names
}
