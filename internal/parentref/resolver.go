package parentref

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/calvinalkan/nestkit/internal/fs"
	"github.com/calvinalkan/nestkit/internal/symbols"
	"github.com/charmbracelet/log"
)

// Errors returned by [Resolver.Locate] and [Resolver.Definition].
var (
	ErrNoReference    = errors.New("no parent reference at position")
	ErrNoParent       = errors.New("no parent file found")
	ErrSymbolNotFound = errors.New("symbol definition not found in parent file")
)

const hoverFooter = "_CTRL+Click to navigate to definition._"

// ParentFinder lists the existing parent files of a path.
// [*nesting.Detector] implements it.
type ParentFinder interface {
	Parents(path string) []string
}

// Resolver looks up referenced symbols in parent files.
type Resolver struct {
	Parents ParentFinder
	FS      fs.FS
	Symbols symbols.Provider
	Logger  *log.Logger
}

// Target is a resolved reference.
type Target struct {
	Path     string
	Symbol   symbols.Symbol
	Document *symbols.Document
}

// Hover is the markdown shown for a reference.
type Hover struct {
	Markdown string
	Range    symbols.Range
}

// Locate finds name in the parents of path. Parents are tried in detection
// order and the first one that declares the symbol wins. Parents that
// cannot be read or parsed are skipped.
func (r *Resolver) Locate(ctx context.Context, path, name string) (Target, error) {
	parents := r.Parents.Parents(path)
	if len(parents) == 0 {
		return Target{}, ErrNoParent
	}

	for _, parent := range parents {
		if err := ctx.Err(); err != nil {
			return Target{}, err
		}

		data, err := r.FS.ReadFile(parent)
		if err != nil {
			r.debug("cannot read parent", "path", parent, "err", err)

			continue
		}

		doc := symbols.NewDocument(parent, string(data))

		syms, err := r.Symbols.Symbols(ctx, doc)
		if err != nil {
			r.debug("cannot outline parent", "path", parent, "err", err)

			continue
		}

		if sym, ok := symbols.Find(syms, name); ok {
			return Target{Path: parent, Symbol: sym, Document: doc}, nil
		}
	}

	return Target{}, fmt.Errorf("%w: %s", ErrSymbolNotFound, name)
}

// Definition resolves the reference under pos in doc.
func (r *Resolver) Definition(ctx context.Context, doc *symbols.Document, pos symbols.Position) (Target, error) {
	ref, ok := ReferenceAt(doc, pos)
	if !ok {
		return Target{}, ErrNoReference
	}

	return r.Locate(ctx, doc.Path, ref.Name)
}

// Hover builds the hover text for the reference under pos. It returns
// false when pos is not on a reference.
func (r *Resolver) Hover(ctx context.Context, doc *symbols.Document, pos symbols.Position) (Hover, bool) {
	ref, ok := ReferenceAt(doc, pos)
	if !ok {
		return Hover{}, false
	}

	target, err := r.Locate(ctx, doc.Path, ref.Name)

	return Hover{Markdown: HoverMarkdown(ref.Name, target, err), Range: ref.Range}, true
}

// HoverMarkdown formats the result of locating name.
func HoverMarkdown(name string, target Target, err error) string {
	switch {
	case errors.Is(err, ErrNoParent):
		return fmt.Sprintf("**%s%s** reference\n\n_No parent file found._", Prefix, name)
	case err != nil:
		return fmt.Sprintf("**%s%s** reference\n\n_Symbol definition not found in parent file._", Prefix, name)
	}

	var b strings.Builder

	fmt.Fprintf(&b, "**%s** reference from parent file:\n`%s`\n\n", name, target.Path)
	fmt.Fprintf(&b, "```%s\n%s\n```\n\n", target.Document.LanguageID, symbols.Snippet(target.Document, target.Symbol, symbols.DefaultSnippetOptions()))
	b.WriteString(hoverFooter)

	return b.String()
}

func (r *Resolver) debug(msg string, keyvals ...any) {
	if r.Logger != nil {
		r.Logger.Debug(msg, keyvals...)
	}
}
