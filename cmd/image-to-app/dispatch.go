package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/battlewithbytes/image-to-app/internal/bundle"
	"github.com/battlewithbytes/image-to-app/internal/desktop"
	"github.com/battlewithbytes/image-to-app/internal/engine"
	"github.com/battlewithbytes/image-to-app/internal/prompt"
	"github.com/battlewithbytes/image-to-app/internal/ui"
)

// operations holds the root command's operation flags. NewArg and IconArg
// index the positional argument carrying the second value of --new and
// --icon.
type operations struct {
	New     string
	NewArg  int
	Build   string
	Update  string
	Icon    string
	IconArg int
	List    bool
	Delete  string
	Details string
}

var ops operations

// pairValue is a string flag that also takes the next positional argument
// on the command line. Set records how many positionals the flag set has
// collected so far, which is the index of that argument.
type pairValue struct {
	flags *pflag.FlagSet
	value *string
	arg   *int
}

func (p *pairValue) Set(s string) error {
	*p.value = s
	*p.arg = p.flags.NArg()
	return nil
}

func (p *pairValue) String() string {
	if p.value == nil {
		return ""
	}
	return *p.value
}

func (p *pairValue) Type() string { return "string" }

func registerOperationFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.VarP(&pairValue{f, &ops.New, &ops.NewArg}, "new", "n", "register `BUNDLE`; the icon path is the argument that follows")
	f.StringVarP(&ops.Build, "build", "b", "", "register the bundle, icon and details.txt found in `DIR`")
	f.StringVarP(&ops.Update, "update", "u", "", "point the `NAME` entry's launcher at the bundle and icon now in its directory")
	f.VarP(&pairValue{f, &ops.Icon, &ops.IconArg}, "icon", "i", "replace an entry's icon with `ICON`; the entry name is the argument that follows")
	f.BoolVarP(&ops.List, "list", "l", false, "list registered entries")
	f.StringVarP(&ops.Delete, "delete", "d", "", "delete the `NAME` entry, its files and its launcher")
	f.StringVar(&ops.Details, "details", "", "read --new metadata from `FILE` instead of prompting")
}

type opKind int

const (
	opNew opKind = iota
	opBuild
	opUpdate
	opIcon
	opList
	opDelete
)

func (k opKind) String() string {
	return [...]string{"new", "build", "update", "icon", "list", "delete"}[k]
}

// step is one operation with its resolved arguments.
type step struct {
	kind opKind
	args []string
}

// plan orders the requested operations as new, build, update, icon, list,
// delete regardless of how they appeared on the command line. The second
// values of --new and --icon are the positionals each flag recorded.
func plan(o operations, positional []string) ([]step, error) {
	if o.Details != "" && o.New == "" {
		return nil, fmt.Errorf("--details requires --new")
	}

	claimed := make([]bool, len(positional))
	second := func(flag, want string, at int) (string, error) {
		if at < 0 || at >= len(positional) {
			return "", fmt.Errorf("--%s needs %s after its first value", flag, want)
		}
		if claimed[at] {
			return "", fmt.Errorf("--%s needs %s after its first value, got another flag's argument %q", flag, want, positional[at])
		}
		claimed[at] = true
		return positional[at], nil
	}

	var steps []step
	if o.New != "" {
		icon, err := second("new", "ICON", o.NewArg)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step{opNew, []string{o.New, icon}})
	}
	if o.Build != "" {
		steps = append(steps, step{opBuild, []string{o.Build}})
	}
	if o.Update != "" {
		steps = append(steps, step{opUpdate, []string{o.Update}})
	}
	if o.Icon != "" {
		name, err := second("icon", "NAME", o.IconArg)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step{opIcon, []string{o.Icon, name}})
	}
	for i, ok := range claimed {
		if !ok {
			return nil, fmt.Errorf("unexpected argument %q: --new takes BUNDLE ICON, --icon takes ICON NAME", positional[i])
		}
	}
	if o.List {
		steps = append(steps, step{opList, nil})
	}
	if o.Delete != "" {
		steps = append(steps, step{opDelete, []string{o.Delete}})
	}
	return steps, nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	steps, err := plan(ops, args)
	if err != nil {
		return err
	}
	if len(steps) == 0 {
		return cmd.Help()
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	for _, s := range steps {
		if err := a.run(cmd, s); err != nil {
			return fmt.Errorf("--%s: %w", s.kind, err)
		}
	}
	return nil
}

func (a *app) run(cmd *cobra.Command, s step) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	switch s.kind {
	case opNew:
		meta, err := a.metadata(s.args[0], s.args[1])
		if err != nil {
			return err
		}
		rec, err := a.engine.Register(ctx, engine.RegisterRequest{
			BundlePath: s.args[0],
			IconPath:   s.args[1],
			Metadata:   meta,
		})
		return reportRecord(cmd, "Registered", rec, err)

	case opBuild:
		rec, err := a.engine.RegisterDir(ctx, s.args[0])
		return reportRecord(cmd, "Registered", rec, err)

	case opUpdate:
		rec, err := a.engine.Update(ctx, s.args[0])
		return reportRecord(cmd, "Updated", rec, err)

	case opIcon:
		rec, err := a.engine.UpdateIcon(ctx, s.args[1], s.args[0])
		return reportRecord(cmd, "Changed icon of", rec, err)

	case opList:
		records, err := a.engine.Entries()
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Fprintln(out, ui.Dim.Render("No entries registered."))
			return nil
		}
		rows := make([][]string, 0, len(records))
		for _, r := range records {
			rows = append(rows, []string{r.Name, r.Category, r.Exec, r.Comment})
		}
		fmt.Fprintln(out, ui.Table([]string{"Name", "Category", "Bundle", "Comment"}, rows))
		return nil

	case opDelete:
		err := a.engine.Delete(ctx, s.args[0])
		if err == nil || isSideEffect(err) {
			ui.Success(out, "Deleted %s", ui.White.Render(s.args[0]))
		}
		return err
	}
	return fmt.Errorf("unknown operation %v", s.kind)
}

// metadata reads --details when given and otherwise prompts.
func (a *app) metadata(bundlePath, iconPath string) (bundle.Metadata, error) {
	if ops.Details != "" {
		return bundle.ParseMetadataFile(ops.Details)
	}
	return prompt.AskMetadata(bundlePath, iconPath, a.cfg.Scan.BundleMarker)
}

// reportRecord prints the outcome of an operation that produced a record.
// A side-effect failure still leaves the launcher written, so success is
// printed before the error is returned.
func reportRecord(cmd *cobra.Command, verb string, rec *engine.Record, err error) error {
	if rec == nil || (err != nil && !isSideEffect(err)) {
		return err
	}
	out := cmd.OutOrStdout()
	ui.Success(out, "%s %s", verb, ui.White.Render(rec.Name))
	ui.Field(out, "Bundle", rec.Descriptor().Exec)
	ui.Field(out, "Icon", rec.Descriptor().Icon)
	if err != nil {
		ui.Warn(cmd.ErrOrStderr(), "launcher written but a follow-up step failed")
	}
	return err
}

func isSideEffect(err error) bool {
	var se *desktop.SideEffectError
	return errors.As(err, &se)
}
