package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/calvinalkan/nestkit/internal/parentref"
	"github.com/calvinalkan/nestkit/internal/symbols"
	"github.com/calvinalkan/nestkit/internal/ui"

	flag "github.com/spf13/pflag"
)

const defaultHoverWidth = 80

// HoverCmd returns the hover command.
func HoverCmd(app *App) *Command {
	flags := flag.NewFlagSet("hover", flag.ContinueOnError)
	raw := flags.Bool("raw", false, "Print markdown without rendering")
	width := flags.IntP("width", "w", defaultHoverWidth, "Wrap rendered output at this width")

	return &Command{
		Flags: flags,
		Usage: "hover <file> <line:col> [flags]",
		Short: "Show the parent symbol behind a ~reference",
		Long: `Show hover information for the ~name reference at <line:col> (1-based)
of <file>: where the symbol is defined in a parent file and a snippet of
its definition. Output is rendered markdown on a terminal, raw markdown
otherwise or with --raw.`,
		Examples: []string{
			"hover src/Button.stories.tsx 3:12 --raw",
		},
		Args: fileAndPosition,
		Exec: func(ctx context.Context, o *IO, args []string) error {
			return execHover(ctx, o, app, args, *raw, *width)
		},
	}
}

// DefinitionCmd returns the definition command.
func DefinitionCmd(app *App) *Command {
	return &Command{
		Flags: flag.NewFlagSet("definition", flag.ContinueOnError),
		Usage: "definition <file> <line:col>",
		Short: "Locate the parent symbol behind a ~reference",
		Long: `Print "<path>:<line>:<col>" (1-based) of the parent-file symbol that
the ~name reference at <line:col> of <file> points to.`,
		Args: fileAndPosition,
		Exec: func(ctx context.Context, o *IO, args []string) error {
			return execDefinition(ctx, o, app, args)
		},
	}
}

// RefsCmd returns the refs command.
func RefsCmd(app *App) *Command {
	return &Command{
		Flags: flag.NewFlagSet("refs", flag.ContinueOnError),
		Usage: "refs <file>",
		Short: "List ~references in comments",
		Long: `List every ~name reference inside comment lines of <file> as
"<line>:<col>-<endCol>	~name" (1-based, end inclusive). Nothing is listed
when enableParentRefs is disabled.`,
		Args: minArgs(1, ErrFileRequired),
		Exec: func(_ context.Context, o *IO, args []string) error {
			return execRefs(o, app, args)
		},
	}
}

// refTarget loads the document and position arguments shared by hover and
// definition. ok is false when parent references are disabled.
func refTarget(o *IO, app *App, args []string) (*symbols.Document, symbols.Position, bool, error) {
	pos, err := parsePosition(args[1])
	if err != nil {
		return nil, symbols.Position{}, false, err
	}

	path := app.abs(args[0])

	settings, err := app.Config.For(path)
	if err != nil {
		return nil, symbols.Position{}, false, err
	}

	if !settings.EnableParentRefs {
		o.Note("parent references are disabled")

		return nil, symbols.Position{}, false, nil
	}

	doc, err := app.readDocument(path)
	if err != nil {
		return nil, symbols.Position{}, false, err
	}

	return doc, pos, true, nil
}

func execHover(ctx context.Context, o *IO, app *App, args []string, raw bool, width int) error {
	doc, pos, ok, err := refTarget(o, app, args)
	if err != nil || !ok {
		return err
	}

	hover, ok := app.refResolver().Hover(ctx, doc, pos)
	if !ok {
		o.Note("no parent reference at", args[1])

		return nil
	}

	md := hover.Markdown

	if app.Color && !raw {
		rendered, err := ui.RenderMarkdown(md, width)
		if err != nil {
			app.Logger.Debug("markdown render failed", "err", err)
		} else {
			md = rendered
		}
	}

	o.Println(strings.TrimRight(md, "\n"))

	return nil
}

func execDefinition(ctx context.Context, o *IO, app *App, args []string) error {
	doc, pos, ok, err := refTarget(o, app, args)
	if err != nil || !ok {
		return err
	}

	target, err := app.refResolver().Definition(ctx, doc, pos)
	if errors.Is(err, parentref.ErrNoReference) {
		o.Note("no parent reference at", args[1])

		return nil
	}

	if err != nil {
		return err
	}

	o.Printf("%s:%s\n", target.Path, formatPosition(target.Symbol.SelectionRange.Start))

	return nil
}

func execRefs(o *IO, app *App, args []string) error {
	path := app.abs(args[0])

	settings, err := app.Config.For(path)
	if err != nil {
		return err
	}

	if !settings.EnableParentRefs {
		o.Note("parent references are disabled")

		return nil
	}

	doc, err := app.readDocument(path)
	if err != nil {
		return err
	}

	for _, ref := range parentref.Decorations(doc) {
		o.Printf("%s-%d\t%s%s\n", formatPosition(ref.Range.Start), ref.Range.End.Character, parentref.Prefix, ref.Name)
	}

	return nil
}
