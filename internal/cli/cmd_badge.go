package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/calvinalkan/nestkit/internal/ui"

	flag "github.com/spf13/pflag"
)

const badgeArrow = "↓"

// BadgeCmd returns the badge command.
func BadgeCmd(app *App) *Command {
	return &Command{
		Flags: flag.NewFlagSet("badge", flag.ContinueOnError),
		Usage: "badge <path>...",
		Short: "Show nested file counts",
		Long: `Print how many existing nested files each file has, in the form
"<path>	N↓	N nested files". A directory argument covers the files directly
inside it. Files without nested files are omitted, and nothing is printed
when showChildrenBadge is disabled.`,
		Args: minArgs(1, ErrFileRequired),
		Exec: func(_ context.Context, o *IO, args []string) error {
			return execBadge(o, app, args)
		},
	}
}

func execBadge(o *IO, app *App, args []string) error {
	for _, arg := range args {
		path := app.abs(arg)

		info, err := app.FS.Stat(path)
		if err != nil {
			return fmt.Errorf("stat %s: %w", arg, err)
		}

		if !info.IsDir() {
			if err := printBadge(o, app, path); err != nil {
				return err
			}

			continue
		}

		entries, err := app.FS.ReadDir(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", arg, err)
		}

		for _, e := range entries {
			if e.IsDir() {
				continue
			}

			if err := printBadge(o, app, filepath.Join(path, e.Name())); err != nil {
				return err
			}
		}
	}

	return nil
}

func printBadge(o *IO, app *App, path string) error {
	settings, err := app.Config.For(path)
	if err != nil {
		return err
	}

	if !settings.ShowChildrenBadge {
		return nil
	}

	n := len(app.detector().Children(path))
	if n == 0 {
		return nil
	}

	o.Printf("%s\t%s\t%s\n", app.display(path), ui.Badge(badgeText(n), app.Color), badgeTooltip(n))

	return nil
}

func badgeText(n int) string {
	return strconv.Itoa(n) + badgeArrow
}

func badgeTooltip(n int) string {
	if n == 1 {
		return "1 nested file"
	}

	return strconv.Itoa(n) + " nested files"
}
