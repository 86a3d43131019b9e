package cli

import (
	"context"

	flag "github.com/spf13/pflag"
)

// RelatedCmd returns the related command.
func RelatedCmd(app *App) *Command {
	return &Command{
		Flags: flag.NewFlagSet("related", flag.ContinueOnError),
		Usage: "related <file>",
		Short: "List existing nested and parent files",
		Long: `List the existing nested (child) files and parent files of <file>, one
absolute path per line, prefixed with "child" or "parent".`,
		Args: minArgs(1, ErrFileRequired),
		Exec: func(_ context.Context, o *IO, args []string) error {
			return execRelated(o, app, args)
		},
	}
}

func execRelated(o *IO, app *App, args []string) error {
	path := app.abs(args[0])
	rel := app.detector().Relations(path)

	if rel.Empty() {
		o.Note("no related file found for", app.display(path))

		return nil
	}

	for _, c := range rel.Children {
		o.Printf("child\t%s\n", c)
	}

	for _, p := range rel.Parents {
		o.Printf("parent\t%s\n", p)
	}

	return nil
}
