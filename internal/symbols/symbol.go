package symbols

import (
	"context"
	"errors"
)

// ErrUnsupportedLanguage is returned for documents no provider can parse.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Symbol is one declaration in a document outline.
type Symbol struct {
	Name string
	// Kind is the syntax node type, e.g. "function_declaration".
	Kind string
	// Range covers the whole declaration.
	Range Range
	// SelectionRange covers the declared name.
	SelectionRange Range
	Children       []Symbol
}

// Provider produces the symbol outline of a document.
type Provider interface {
	Symbols(ctx context.Context, doc *Document) ([]Symbol, error)
}

// Find returns the first symbol named name in a depth-first, pre-order
// walk of syms.
func Find(syms []Symbol, name string) (Symbol, bool) {
	for _, s := range syms {
		if s.Name == name {
			return s, true
		}

		if found, ok := Find(s.Children, name); ok {
			return found, true
		}
	}

	return Symbol{}, false
}
