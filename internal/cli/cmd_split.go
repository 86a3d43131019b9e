package cli

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/calvinalkan/nestkit/internal/ui"

	flag "github.com/spf13/pflag"
)

// SplitCmd returns the split command.
func SplitCmd(app *App) *Command {
	flags := flag.NewFlagSet("split", flag.ContinueOnError)
	first := flags.BoolP("first", "1", false, "Use the first related file instead of asking")
	printOnly := flags.BoolP("print", "p", false, "Print the pair instead of opening it")

	return &Command{
		Flags: flags,
		Usage: "split <file> [flags]",
		Short: "Open a file side by side with a related file",
		Long: `Open <file> and one of its related files side by side: the nested file
on the left and its parent on the right. With several related files you
pick one. With --print the pair is printed (left, then right) instead.`,
		Args: minArgs(1, ErrFileRequired),
		Exec: func(ctx context.Context, o *IO, args []string) error {
			return execSplit(ctx, o, app, args, *first, *printOnly)
		},
	}
}

func execSplit(ctx context.Context, o *IO, app *App, args []string, first, printOnly bool) error {
	path := app.abs(args[0])
	rel := app.detector().Relations(path)

	candidates := make([]string, 0, len(rel.Children)+len(rel.Parents))
	candidates = append(candidates, rel.Children...)
	candidates = append(candidates, rel.Parents...)

	if len(candidates) == 0 {
		o.Note("no related file found for", app.display(path))

		return nil
	}

	chosen := candidates[0]

	if len(candidates) > 1 && !first {
		names := make([]string, len(candidates))
		byName := make(map[string]string, len(candidates))

		for i, c := range candidates {
			names[i] = filepath.Base(c)
			byName[names[i]] = c
		}

		name, err := app.Picker.PickOne(ctx, "Open related file", names)
		if errors.Is(err, ui.ErrCanceled) {
			o.Note("no file selected")

			return nil
		}

		if err != nil {
			return err
		}

		chosen = byName[name]
	}

	// The nested file goes left, its parent right.
	left, right := chosen, path
	if isParent(rel.Parents, chosen) {
		left, right = path, chosen
	}

	if printOnly {
		o.Println(left)
		o.Println(right)

		return nil
	}

	return app.openInEditor(ctx, []string{left, right})
}

func isParent(parents []string, path string) bool {
	for _, p := range parents {
		if p == path {
			return true
		}
	}

	return false
}
