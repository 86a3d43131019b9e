package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/calvinalkan/nestkit/internal/fs"
	"github.com/calvinalkan/nestkit/internal/nesting"
	"github.com/calvinalkan/nestkit/internal/template"
	"github.com/calvinalkan/nestkit/internal/ui"

	flag "github.com/spf13/pflag"
)

const nestedFilePerm = 0o644

// CreateCmd returns the create command.
func CreateCmd(app *App) *Command {
	flags := flag.NewFlagSet("create", flag.ContinueOnError)
	all := flags.BoolP("all", "a", false, "Create every nested file of the matching pattern")
	open := flags.BoolP("open", "o", false, "Open the picked files in the editor")

	return &Command{
		Flags: flags,
		Usage: "create <file> [name...] [flags]",
		Short: "Create nested files next to a file",
		Long: `Create nested files next to <file> using the first nesting pattern that
matches its name. Names given after the file are created as-is; without
names you pick from the pattern's expanded children (or take all with
--all). New files get the longest-matching template as content; files that
already exist are left untouched and reported as existing.`,
		Examples: []string{
			"create src/Button.tsx --all",
			"create src/Button.tsx Button.test.tsx",
		},
		Args: minArgs(1, ErrFileRequired),
		Exec: func(ctx context.Context, o *IO, args []string) error {
			return execCreate(ctx, o, app, args, *all, *open)
		},
	}
}

func execCreate(ctx context.Context, o *IO, app *App, args []string, all, open bool) error {
	path := app.abs(args[0])

	info, err := app.FS.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", args[0], err)
	}

	if info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotAFile, args[0])
	}

	settings, err := app.Config.For(path)
	if err != nil {
		return err
	}

	fileName := filepath.Base(path)

	if len(settings.Patterns) == 0 {
		o.Note("no file nesting patterns configured")

		return nil
	}

	rule, capture, ok := settings.Patterns.Match(fileName)
	if !ok {
		o.Note("no matching pattern for", fileName)

		return nil
	}

	candidates := nesting.ExpandChildren(rule.Children, capture)

	var picked []string

	switch {
	case len(args) > 1:
		picked = args[1:]
	case len(candidates) == 0:
		o.Note(fmt.Sprintf("pattern %q has no nested files", rule.Parent))

		return nil
	case all:
		picked = candidates
	default:
		picked, err = app.Picker.PickMany(ctx, "Create nested files for "+fileName, candidates)
		if errors.Is(err, ui.ErrCanceled) {
			o.Note("no file selected")

			return nil
		}

		if err != nil {
			return err
		}

		if len(picked) == 0 {
			o.Note("no file selected")

			return nil
		}
	}

	for _, name := range picked {
		if err := validateNestedName(name); err != nil {
			return err
		}
	}

	dir := filepath.Dir(path)
	now := app.Now()
	opened := make([]string, 0, len(picked))

	for _, name := range picked {
		target := filepath.Join(dir, name)
		opened = append(opened, target)

		if fs.FileExists(app.FS, target) {
			o.Println("existing:", name)

			continue
		}

		content := settings.Templates.Content(template.NewPlaceholders(fileName, capture, name, now))

		if err := app.FS.WriteFileAtomic(target, []byte(content), nestedFilePerm); err != nil {
			return fmt.Errorf("create %s: %w", name, err)
		}

		app.Logger.Debug("created nested file", "path", target, "bytes", len(content))
		o.Println("created:", name)
	}

	if open && len(opened) > 0 {
		return app.openInEditor(ctx, opened)
	}

	return nil
}

// validateNestedName rejects names that would leave the parent's directory.
func validateNestedName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}

	if filepath.Base(name) != name || name == "." || name == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	return nil
}
