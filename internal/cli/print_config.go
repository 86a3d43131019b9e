package cli

import (
	"context"
	"path/filepath"
	"strconv"

	"github.com/calvinalkan/nestkit/internal/config"
	"github.com/calvinalkan/nestkit/internal/nesting"

	flag "github.com/spf13/pflag"
)

// PrintConfigCmd returns the print-config command.
func PrintConfigCmd(app *App) *Command {
	return &Command{
		Flags: flag.NewFlagSet("print-config", flag.ContinueOnError),
		Usage: "print-config [file]",
		Short: "Show resolved configuration",
		Long: `Display the effective settings for [file] (default: the working
directory) and which files they were loaded from. With [file], also show
the first rule that treats it as a parent and the first rule that treats
it as a nested file, with the capture under each.`,
		Exec: func(_ context.Context, o *IO, args []string) error {
			var (
				settings config.Settings
				err      error
			)

			if len(args) > 0 {
				settings, err = app.Config.For(app.abs(args[0]))
			} else {
				settings, err = app.Config.ForDir(app.WorkDir)
			}

			if err != nil {
				return err
			}

			execPrintConfig(o, app, settings)

			if len(args) > 0 {
				printMatch(o, settings.Patterns, filepath.Base(args[0]))
			}

			return nil
		},
	}
}

func execPrintConfig(o *IO, app *App, s config.Settings) {
	o.Println("effective_cwd=" + app.WorkDir)
	o.Println("syncRenames=" + strconv.FormatBool(s.SyncRenames))
	o.Println("showChildrenBadge=" + strconv.FormatBool(s.ShowChildrenBadge))
	o.Println("enableParentRefs=" + strconv.FormatBool(s.EnableParentRefs))

	if s.Editor != "" {
		o.Println("editor=" + s.Editor)
	}

	o.Println("")
	o.Println("# patterns")

	if len(s.Patterns) == 0 {
		o.Println("(none)")
	}

	for _, r := range s.Patterns {
		o.Printf("%s => %s\n", r.Parent, r.Children)
	}

	o.Println("")
	o.Println("# templates")

	for _, t := range s.Templates {
		o.Println(t.Pattern)
	}

	o.Println("")
	o.Println("# sources")

	if s.Sources.Empty() {
		o.Println("(defaults only)")

		return
	}

	for _, src := range []struct{ key, path string }{
		{"global_config", s.Sources.Global},
		{"editor_config", s.Sources.Editor},
		{"project_config", s.Sources.Project},
		{"explicit_config", s.Sources.Explicit},
	} {
		if src.path != "" {
			o.Println(src.key + "=" + src.path)
		}
	}
}

func printMatch(o *IO, rules nesting.Rules, fileName string) {
	o.Println("")
	o.Println("# match " + fileName)

	if rule, capture, ok := rules.Match(fileName); ok {
		o.Printf("parent_rule=%s => %s (capture=%s)\n", rule.Parent, rule.Children, capture)
	} else {
		o.Println("parent_rule=(none)")
	}

	if rule, capture, ok := rules.MatchChild(fileName); ok {
		o.Printf("child_rule=%s => %s (capture=%s)\n", rule.Parent, rule.Children, capture)
	} else {
		o.Println("child_rule=(none)")
	}
}
