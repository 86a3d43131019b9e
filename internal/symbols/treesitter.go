package symbols

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// declarationSuffixes are the node type suffixes that introduce a named
// declaration across the supported grammars.
var declarationSuffixes = []string{
	"_declaration",
	"_definition",
	"_item",
	"_spec",
	"_declarator",
	"_signature",
}

// TreeSitter is a [Provider] backed by tree-sitter grammars.
type TreeSitter struct{}

// NewTreeSitter returns a tree-sitter symbol provider.
func NewTreeSitter() *TreeSitter {
	return &TreeSitter{}
}

// Language returns the grammar for a language identifier.
func Language(languageID string) (*sitter.Language, bool) {
	switch languageID {
	case "go":
		return golang.GetLanguage(), true
	case "javascript":
		return javascript.GetLanguage(), true
	case "typescript":
		return typescript.GetLanguage(), true
	case "typescriptreact":
		return tsx.GetLanguage(), true
	case "python":
		return python.GetLanguage(), true
	case "rust":
		return rust.GetLanguage(), true
	default:
		return nil, false
	}
}

// Symbols parses doc and returns its declaration outline. Nested
// declarations (methods in classes, specs in declaration groups) become
// children of their enclosing declaration.
func (*TreeSitter) Symbols(ctx context.Context, doc *Document) ([]Symbol, error) {
	lang, ok := Language(doc.LanguageID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, doc.LanguageID)
	}

	parser := sitter.NewParser()
	defer parser.Close()

	parser.SetLanguage(lang)

	src := []byte(doc.Text)

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", doc.Path, err)
	}
	defer tree.Close()

	return outline(tree.RootNode(), src), nil
}

func outline(n *sitter.Node, src []byte) []Symbol {
	var syms []Symbol

	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		child := n.NamedChild(i)
		if child == nil {
			continue
		}

		name := declarationName(child)
		if name == nil {
			syms = append(syms, outline(child, src)...)

			continue
		}

		syms = append(syms, Symbol{
			Name:           name.Content(src),
			Kind:           child.Type(),
			Range:          nodeRange(child),
			SelectionRange: nodeRange(name),
			Children:       outline(child, src),
		})
	}

	return syms
}

// declarationName returns the identifier naming n, or nil when n is not a
// named declaration.
func declarationName(n *sitter.Node) *sitter.Node {
	if !isDeclaration(n.Type()) {
		return nil
	}

	name := n.ChildByFieldName("name")
	if name == nil || !strings.HasSuffix(name.Type(), "identifier") {
		return nil
	}

	return name
}

func isDeclaration(nodeType string) bool {
	if strings.Contains(nodeType, "parameter") {
		return false
	}

	for _, suffix := range declarationSuffixes {
		if strings.HasSuffix(nodeType, suffix) {
			return true
		}
	}

	return false
}

func nodeRange(n *sitter.Node) Range {
	start, end := n.StartPoint(), n.EndPoint()

	return Range{
		Start: Position{Line: int(start.Row), Character: int(start.Column)},
		End:   Position{Line: int(end.Row), Character: int(end.Column)},
	}
}

var _ Provider = (*TreeSitter)(nil)
