package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/calvinalkan/nestkit/internal/watch"

	flag "github.com/spf13/pflag"
)

// WatchCmd returns the watch command.
func WatchCmd(app *App) *Command {
	flags := flag.NewFlagSet("watch", flag.ContinueOnError)
	debounce := flags.Duration("debounce", 200*time.Millisecond, "Quiet period before a batch of changes is handled")
	ignore := flags.StringArray("ignore", nil, "Extra doublestar pattern to ignore (repeatable)")

	return &Command{
		Flags: flags,
		Usage: "watch [dir] [flags]",
		Short: "Keep related files in sync while you work",
		Long: `Watch [dir] (default: the working directory) recursively. Renames made
by any tool are propagated to related files when syncRenames is enabled,
and the nested-file count of every affected parent is printed as
"badge: <path> N↓". Stops on interrupt.`,
		Exec: func(ctx context.Context, o *IO, args []string) error {
			dir := app.WorkDir
			if len(args) > 0 {
				dir = app.abs(args[0])
			}

			return execWatch(ctx, o, app, dir, *debounce, *ignore)
		},
	}
}

func execWatch(ctx context.Context, o *IO, app *App, dir string, debounce time.Duration, ignore []string) error {
	info, err := app.FS.Stat(dir)
	if err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotADirectory, dir)
	}

	w, err := watch.New(watch.Config{
		BaseDir:  dir,
		Ignore:   ignore,
		Debounce: debounce,
		Logger:   app.Logger,
		OnChange: func(ctx context.Context, changes []watch.Change) error {
			handleChanges(ctx, o, app, changes)

			return nil
		},
	})
	if err != nil {
		return err
	}

	o.ErrPrintln("watching", w.BaseDir())

	return w.Run(ctx)
}

// handleChanges propagates renames and prints badges of the parents whose
// nested files changed.
func handleChanges(ctx context.Context, o *IO, app *App, changes []watch.Change) {
	var touched []string

	for _, c := range changes {
		touched = append(touched, c.Path)

		if c.Op != watch.OpRename {
			continue
		}

		touched = append(touched, c.From)

		settings, err := app.Config.For(c.From)
		if err != nil {
			app.Logger.Warn("skipping rename sync", "path", c.From, "err", err)

			continue
		}

		if !settings.SyncRenames {
			continue
		}

		report := app.propagator().Sync(ctx, c.From, c.Path)
		printReport(o, app, report)

		for _, op := range report.Renamed {
			touched = append(touched, op.From, op.To)
		}
	}

	detector := app.detector()
	seen := make(map[string]bool)

	for _, path := range touched {
		for _, parent := range detector.Parents(path) {
			if seen[parent] {
				continue
			}

			seen[parent] = true

			settings, err := app.Config.For(parent)
			if err != nil || !settings.ShowChildrenBadge {
				continue
			}

			n := len(detector.Children(parent))
			o.Printf("badge: %s %s\n", app.display(parent), badgeText(n))
		}
	}
}
