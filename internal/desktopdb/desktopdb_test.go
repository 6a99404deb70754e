package desktopdb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

// mockRunner replaces run for testing, recording argv and returning canned output.
type mockRunner struct {
	calls  [][]string
	output string
	err    error
}

func (m *mockRunner) run(_ context.Context, name string, args ...string) (string, error) {
	m.calls = append(m.calls, append([]string{name}, args...))
	return m.output, m.err
}

func withMockRun(t *testing.T, output string, err error) *mockRunner {
	t.Helper()
	m := &mockRunner{output: output, err: err}
	orig := run
	run = m.run
	t.Cleanup(func() { run = orig })
	return m
}

func defaultTools() Tools {
	return Tools{ChmodCommand: "chmod", RefreshCommand: "update-desktop-database"}
}

func TestMarkExecutableArgs(t *testing.T) {
	m := withMockRun(t, "", nil)
	if err := defaultTools().MarkExecutable(context.Background(), "/apps/Tool.desktop"); err != nil {
		t.Fatalf("MarkExecutable: %v", err)
	}
	want := "chmod +x /apps/Tool.desktop"
	if got := strings.Join(m.calls[0], " "); got != want {
		t.Errorf("argv = %q, want %q", got, want)
	}
}

func TestRefreshArgs(t *testing.T) {
	m := withMockRun(t, "", nil)
	if err := defaultTools().Refresh(context.Background(), "/apps"); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	want := "update-desktop-database /apps"
	if got := strings.Join(m.calls[0], " "); got != want {
		t.Errorf("argv = %q, want %q", got, want)
	}
}

func TestCommandWithExtraArgs(t *testing.T) {
	m := withMockRun(t, "", nil)
	tools := Tools{ChmodCommand: "chmod", RefreshCommand: "update-desktop-database -q"}
	if err := tools.Refresh(context.Background(), "/apps"); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	want := []string{"update-desktop-database", "-q", "/apps"}
	if fmt.Sprint(m.calls[0]) != fmt.Sprint(want) {
		t.Errorf("argv = %v, want %v", m.calls[0], want)
	}
}

func TestCommandFailureCarriesOutput(t *testing.T) {
	withMockRun(t, "permission denied", fmt.Errorf("exit status 1"))
	err := defaultTools().MarkExecutable(context.Background(), "/apps/Tool.desktop")
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CommandError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %T, want *CommandError", err)
	}
	if ce.Output != "permission denied" {
		t.Errorf("Output = %q", ce.Output)
	}
	if !strings.Contains(err.Error(), "chmod +x /apps/Tool.desktop") {
		t.Errorf("error = %q, want argv in message", err)
	}
}

func TestEmptyCommand(t *testing.T) {
	withMockRun(t, "", nil)
	err := Tools{}.Refresh(context.Background(), "/apps")
	if err == nil || !strings.Contains(err.Error(), "empty command") {
		t.Errorf("err = %v, want 'empty command'", err)
	}
}
