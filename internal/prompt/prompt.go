// Package prompt collects entry metadata and overwrite decisions from the
// terminal.
package prompt

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/sys/unix"

	"github.com/battlewithbytes/image-to-app/internal/bundle"
	"github.com/battlewithbytes/image-to-app/internal/config"
	"github.com/battlewithbytes/image-to-app/internal/desktop"
)

var ErrNotInteractive = errors.New("stdin is not a terminal")

// Hooks replaced in tests.
var (
	runForm       = func(f *huh.Form) error { return f.Run() }
	isInteractive = func() bool { return IsTerminal(os.Stdin.Fd()) }
)

// IsTerminal reports whether fd refers to a terminal.
func IsTerminal(fd uintptr) bool {
	_, err := unix.IoctlGetTermios(int(fd), unix.TCGETS)
	return err == nil
}

// AskMetadata runs the metadata form for a bundle. marker is stripped from
// the bundle file name to suggest a default entry name.
func AskMetadata(bundlePath, iconPath, marker string) (bundle.Metadata, error) {
	if !isInteractive() {
		return bundle.Metadata{}, fmt.Errorf("%w: pass --details or use --build", ErrNotInteractive)
	}

	answers := &MetadataAnswers{Name: suggestName(bundlePath, marker)}
	if err := runForm(BuildMetadataForm(bundlePath, iconPath, answers)); err != nil {
		return bundle.Metadata{}, fmt.Errorf("metadata prompt cancelled: %w", err)
	}
	return answers.Metadata()
}

// AskOverwrite asks on the terminal whether path may be replaced.
func AskOverwrite(path string) (bool, error) {
	if !isInteractive() {
		return false, nil
	}
	var confirmed bool
	if err := runForm(BuildOverwriteForm(path, &confirmed)); err != nil {
		return false, fmt.Errorf("overwrite prompt cancelled: %w", err)
	}
	return confirmed, nil
}

// Confirmer returns the overwrite strategy for a config policy. The ask
// policy refuses without prompting when stdin is not a terminal.
func Confirmer(policy string) (desktop.Confirmer, error) {
	switch policy {
	case config.OverwriteAlways:
		return desktop.AlwaysOverwrite, nil
	case config.OverwriteNever:
		return desktop.NeverOverwrite, nil
	case config.OverwriteAsk, "":
		return desktop.ConfirmFunc(AskOverwrite), nil
	default:
		return nil, fmt.Errorf("unknown overwrite policy %q", policy)
	}
}
