package cli

import (
	"context"
	"fmt"

	"github.com/calvinalkan/nestkit/internal/fs"
	"github.com/calvinalkan/nestkit/internal/nesting"

	flag "github.com/spf13/pflag"
)

// MvCmd returns the mv command.
func MvCmd(app *App) *Command {
	flags := flag.NewFlagSet("mv", flag.ContinueOnError)
	noSync := flags.Bool("no-sync", false, "Do not rename related files")

	return &Command{
		Flags: flags,
		Usage: "mv <old> <new> [flags]",
		Short: "Rename a file and its related files",
		Long: `Rename <old> to <new>, refusing to overwrite an existing file. When
syncRenames is enabled (the default) the parents and nested files of <old>
are renamed along with it. Related files whose new name is already taken
are skipped.`,
		Examples: []string{
			"mv src/Button.tsx src/IconButton.tsx",
		},
		Args: minArgs(2, ErrTwoPathsRequired),
		Exec: func(ctx context.Context, o *IO, args []string) error {
			return execMv(ctx, o, app, args, *noSync)
		},
	}
}

// SyncCmd returns the sync command.
func SyncCmd(app *App) *Command {
	return &Command{
		Flags: flag.NewFlagSet("sync", flag.ContinueOnError),
		Usage: "sync <old> <new>",
		Short: "Rename related files after a rename",
		Long: `Propagate a rename that already happened: the parents and nested files
that belonged to <old> are renamed to follow <new>. Relations are detected
under the old name. Only renames within one directory are handled.`,
		Args: minArgs(2, ErrTwoPathsRequired),
		Exec: func(ctx context.Context, o *IO, args []string) error {
			oldPath, newPath := app.abs(args[0]), app.abs(args[1])
			printReport(o, app, app.propagator().Sync(ctx, oldPath, newPath))

			return nil
		},
	}
}

func execMv(ctx context.Context, o *IO, app *App, args []string, noSync bool) error {
	oldPath, newPath := app.abs(args[0]), app.abs(args[1])

	err := app.FS.RenameNoReplace(oldPath, newPath)
	if fs.IsTargetExists(err) {
		return fmt.Errorf("%w: %s", ErrRenameTargetTaken, app.display(newPath))
	}

	if err != nil {
		return fmt.Errorf("rename %s: %w", app.display(oldPath), err)
	}

	o.Printf("renamed: %s -> %s\n", app.display(oldPath), app.display(newPath))

	if noSync {
		return nil
	}

	settings, err := app.Config.For(oldPath)
	if err != nil {
		return err
	}

	if !settings.SyncRenames {
		app.Logger.Debug("rename sync disabled", "path", oldPath)

		return nil
	}

	printReport(o, app, app.propagator().Sync(ctx, oldPath, newPath))

	return nil
}

// printReport prints a propagation report. Failed renames become warnings;
// taken targets are reported as ordinary skips.
func printReport(o *IO, app *App, report nesting.Report) {
	for _, op := range report.Renamed {
		o.Printf("renamed: %s -> %s\n", app.display(op.From), app.display(op.To))
	}

	for _, s := range report.Skipped {
		if s.Reason == nesting.SkipFailed {
			o.Warn("rename %s -> %s failed: %v", app.display(s.From), app.display(s.To), s.Err)

			continue
		}

		o.Printf("skipped: %s -> %s (%s)\n", app.display(s.From), app.display(s.To), s.Reason)
	}
}
