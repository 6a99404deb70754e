package main

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestPlanOrder(t *testing.T) {
	o := operations{
		Delete:  "Old",
		List:    true,
		Icon:    "new.svg",
		IconArg: 1,
		Update:  "Tool",
		Build:   "./dist",
		New:     "a.AppImage",
		NewArg:  0,
	}
	steps, err := plan(o, []string{"a.png", "Tool"})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	want := []step{
		{opNew, []string{"a.AppImage", "a.png"}},
		{opBuild, []string{"./dist"}},
		{opUpdate, []string{"Tool"}},
		{opIcon, []string{"new.svg", "Tool"}},
		{opList, nil},
		{opDelete, []string{"Old"}},
	}
	if !reflect.DeepEqual(steps, want) {
		t.Errorf("plan = %v\nwant %v", steps, want)
	}
}

func TestPlanIconOnly(t *testing.T) {
	steps, err := plan(operations{Icon: "x.png"}, []string{"Tool"})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if len(steps) != 1 || !reflect.DeepEqual(steps[0].args, []string{"x.png", "Tool"}) {
		t.Errorf("plan = %v", steps)
	}
}

// parsePlan parses args with the root command's flags and plans the result.
func parsePlan(t *testing.T, args ...string) ([]step, error) {
	t.Helper()
	ops = operations{}
	if err := rootCmd.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	return plan(ops, rootCmd.Flags().Args())
}

func TestPlanBindsSecondValueToItsFlag(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"new first", []string{"--new", "a.AppImage", "a.png", "--icon", "new.svg", "Tool"}},
		{"icon first", []string{"--icon", "new.svg", "Tool", "--new", "a.AppImage", "a.png"}},
		{"shorthand", []string{"-i", "new.svg", "Tool", "-n", "a.AppImage", "a.png"}},
		{"equals form", []string{"--icon=new.svg", "Tool", "--list", "--new=a.AppImage", "a.png"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			steps, err := parsePlan(t, tt.args...)
			if err != nil {
				t.Fatalf("plan: %v", err)
			}
			args := map[opKind][]string{}
			for _, s := range steps {
				args[s.kind] = s.args
			}
			if !reflect.DeepEqual(args[opNew], []string{"a.AppImage", "a.png"}) {
				t.Errorf("new = %v, want [a.AppImage a.png]", args[opNew])
			}
			if !reflect.DeepEqual(args[opIcon], []string{"new.svg", "Tool"}) {
				t.Errorf("icon = %v, want [new.svg Tool]", args[opIcon])
			}
		})
	}
}

func TestPlanSecondValueMustFollowItsFlag(t *testing.T) {
	// Both flags precede both positionals, so neither has its own.
	if _, err := parsePlan(t, "--new", "a.AppImage", "--icon", "new.svg", "a.png", "Tool"); err == nil {
		t.Error("expected error when --new and --icon share an argument")
	}
}

func TestPlanEmpty(t *testing.T) {
	steps, err := plan(operations{}, nil)
	if err != nil || len(steps) != 0 {
		t.Errorf("plan = %v, %v; want no steps", steps, err)
	}
}

func TestPlanUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		o    operations
		args []string
	}{
		{"new without icon", operations{New: "a.AppImage"}, nil},
		{"icon without name", operations{Icon: "x.png"}, nil},
		{"stray positional", operations{List: true}, []string{"extra"}},
		{"too many", operations{New: "a.AppImage"}, []string{"a.png", "b"}},
		{"shared argument", operations{New: "a.AppImage", Icon: "x.png"}, []string{"a.png", "Tool"}},
		{"details without new", operations{Build: "d", Details: "details.txt"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := plan(tt.o, tt.args); err == nil {
				t.Error("expected usage error")
			}
		})
	}
}

func TestCheckDesktopDir(t *testing.T) {
	dir := t.TempDir()
	if err := checkDesktopDir(dir); err != nil {
		t.Errorf("checkDesktopDir(existing) = %v", err)
	}
	if err := checkDesktopDir(filepath.Join(dir, "missing")); err == nil {
		t.Error("expected error for missing directory")
	}
	file := filepath.Join(dir, "file")
	os.WriteFile(file, nil, 0644)
	if err := checkDesktopDir(file); err == nil {
		t.Error("expected error for a file")
	}
}

// execute runs the root command with fresh flag state and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	ops = operations{}
	flagConfig = ""
	flagVerbose = false
	historyLimit = 20
	configInitForce = false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

// testHome points HOME and the XDG variables at a temp dir, creates the
// desktop entries directory and writes a config whose external commands
// always succeed.
func testHome(t *testing.T) (home, cfgPath string) {
	t.Helper()
	home = t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("XDG_STATE_HOME", "")
	os.MkdirAll(filepath.Join(home, ".local", "share", "applications"), 0755)

	cfgPath = filepath.Join(home, "config.yml")
	cfg := "desktop:\n  overwrite: never\n  chmod_command: \"true\"\n  refresh_command: \"true\"\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}
	return home, cfgPath
}

func writeBuildDir(t *testing.T, dir string) {
	t.Helper()
	os.MkdirAll(dir, 0755)
	os.WriteFile(filepath.Join(dir, "readme.AppImage"), []byte("ELF"), 0755)
	os.WriteFile(filepath.Join(dir, "logo.png"), []byte("PNG"), 0644)
	os.WriteFile(filepath.Join(dir, "details.txt"), []byte("Name=Tool\nComment=A tool\nCategories=Utility\n"), 0644)
}

func TestRootBuildListDelete(t *testing.T) {
	home, cfgPath := testHome(t)
	build := filepath.Join(home, "dist")
	writeBuildDir(t, build)

	// Delete is listed first but runs after build and list.
	out, err := execute(t, "--config", cfgPath, "--delete", "Tool", "--list", "--build", build)
	if err != nil {
		t.Fatalf("execute: %v\n%s", err, out)
	}
	registered := strings.Index(out, "Registered")
	listed := strings.Index(out, "Category")
	deleted := strings.Index(out, "Deleted")
	if registered < 0 || listed < 0 || deleted < 0 || !(registered < listed && listed < deleted) {
		t.Errorf("unexpected output order:\n%s", out)
	}

	if _, err := os.Stat(filepath.Join(home, ".local", "image_to_app", "Tool")); !os.IsNotExist(err) {
		t.Errorf("entry directory still present: %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, ".local", "share", "applications", "Tool.desktop")); !os.IsNotExist(err) {
		t.Errorf("descriptor still present: %v", err)
	}
}

func TestRootNewWithDetails(t *testing.T) {
	home, cfgPath := testHome(t)
	src := filepath.Join(home, "src")
	writeBuildDir(t, src)

	out, err := execute(t, "--config", cfgPath,
		"--new", filepath.Join(src, "readme.AppImage"),
		"--details", filepath.Join(src, "details.txt"),
		filepath.Join(src, "logo.png"))
	if err != nil {
		t.Fatalf("execute: %v\n%s", err, out)
	}

	data, err := os.ReadFile(filepath.Join(home, ".local", "share", "applications", "Tool.desktop"))
	if err != nil {
		t.Fatalf("descriptor: %v", err)
	}
	entryDir := filepath.Join(home, ".local", "image_to_app", "Tool")
	if !strings.Contains(string(data), "Exec="+filepath.Join(entryDir, "readme.AppImage")+"\n") {
		t.Errorf("descriptor:\n%s", data)
	}

	out, err = execute(t, "--config", cfgPath, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, "register") {
		t.Errorf("history output:\n%s", out)
	}
}

func TestHistoryFreshInstall(t *testing.T) {
	home, cfgPath := testHome(t)
	stateDir := filepath.Join(home, ".local", "state", "image-to-app")
	if _, err := os.Stat(stateDir); !os.IsNotExist(err) {
		t.Fatalf("state directory already present: %v", err)
	}

	out, err := execute(t, "--config", cfgPath, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, "No history recorded.") {
		t.Errorf("history output:\n%s", out)
	}
}

func TestRootDeleteMissingFails(t *testing.T) {
	_, cfgPath := testHome(t)
	if _, err := execute(t, "--config", cfgPath, "--delete", "Missing"); err == nil {
		t.Fatal("expected error deleting a missing entry")
	}
}

func TestRootMissingDesktopDir(t *testing.T) {
	home, cfgPath := testHome(t)
	os.RemoveAll(filepath.Join(home, ".local", "share", "applications"))

	_, err := execute(t, "--config", cfgPath, "--list")
	if err == nil || !strings.Contains(err.Error(), "does not exist") {
		t.Fatalf("err = %v, want missing desktop dir", err)
	}
}

func TestRootNoFlagsIsNoop(t *testing.T) {
	home, _ := testHome(t)
	os.RemoveAll(filepath.Join(home, ".local", "share", "applications"))

	if _, err := execute(t); err != nil {
		t.Fatalf("execute with no flags: %v", err)
	}
}

func TestConfigInit(t *testing.T) {
	home, _ := testHome(t)
	want := filepath.Join(home, ".config", "image-to-app", "config.yml")

	if _, err := execute(t, "config", "init"); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("config not written: %v", err)
	}
	if _, err := execute(t, "config", "init"); err == nil {
		t.Error("expected error when config exists")
	}
	if _, err := execute(t, "config", "init", "--force"); err != nil {
		t.Errorf("config init --force: %v", err)
	}
}
