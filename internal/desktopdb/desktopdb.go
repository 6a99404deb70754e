// Package desktopdb wraps the external utilities that make a .desktop file
// usable by the desktop environment: chmod and update-desktop-database.
// All commands use exec.CommandContext with explicit argv, no shell strings.
package desktopdb

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/battlewithbytes/image-to-app/internal/config"
)

// Command execution hook, overridden in tests to mock system commands.
var run = func(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	return strings.TrimSpace(string(out)), err
}

// CommandError reports a failed external command together with its output.
type CommandError struct {
	Argv   []string
	Output string
	Err    error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s: %v", strings.Join(e.Argv, " "), e.Err)
	if e.Output != "" {
		msg += ": " + e.Output
	}
	return msg
}

func (e *CommandError) Unwrap() error { return e.Err }

// Tools holds the configured command lines. Each may carry extra leading
// arguments, e.g. "update-desktop-database -q".
type Tools struct {
	ChmodCommand   string
	RefreshCommand string
}

// FromConfig returns the tools named in the desktop config section.
func FromConfig(dc config.DesktopConfig) Tools {
	return Tools{ChmodCommand: dc.ChmodCommand, RefreshCommand: dc.RefreshCommand}
}

// MarkExecutable runs "chmod +x <path>".
func (t Tools) MarkExecutable(ctx context.Context, path string) error {
	return invoke(ctx, t.ChmodCommand, "+x", path)
}

// Refresh runs the index refresh utility against the directory holding
// the desktop entries, not the .desktop file itself: update-desktop-database
// takes directories and rebuilds the cache for everything in them.
func (t Tools) Refresh(ctx context.Context, dir string) error {
	return invoke(ctx, t.RefreshCommand, dir)
}

func invoke(ctx context.Context, commandLine string, args ...string) error {
	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		return fmt.Errorf("empty command")
	}
	argv := append(fields[1:len(fields):len(fields)], args...)

	out, err := run(ctx, fields[0], argv...)
	if err != nil {
		return &CommandError{
			Argv:   append([]string{fields[0]}, argv...),
			Output: out,
			Err:    err,
		}
	}
	return nil
}
