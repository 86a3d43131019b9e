// Package parentref resolves "~name" references written in comments of a
// nested file against the symbols of its parent files.
package parentref

import (
	"regexp"

	"github.com/calvinalkan/nestkit/internal/symbols"
)

// Prefix marks a parent reference.
const Prefix = "~"

var (
	tokenPattern   = regexp.MustCompile(regexp.QuoteMeta(Prefix) + `(\w+)`)
	commentPattern = regexp.MustCompile(`^\s*(//|/\*|\*)`)
)

// Reference is one "~name" token in a document.
type Reference struct {
	Name  string
	Range symbols.Range
}

// IsCommentLine reports whether line looks like a line or block comment
// line: it starts, after whitespace, with "//", "/*" or "*".
func IsCommentLine(line string) bool {
	return commentPattern.MatchString(line)
}

// lineReferences returns the references on one line. Lines that are not
// comment lines have none.
func lineReferences(line string, lineNo int) []Reference {
	if !IsCommentLine(line) {
		return nil
	}

	var refs []Reference

	for _, m := range tokenPattern.FindAllStringSubmatchIndex(line, -1) {
		refs = append(refs, Reference{
			Name: line[m[2]:m[3]],
			Range: symbols.Range{
				Start: symbols.Position{Line: lineNo, Character: m[0]},
				End:   symbols.Position{Line: lineNo, Character: m[1]},
			},
		})
	}

	return refs
}

// ReferenceAt returns the reference under pos. The column may sit anywhere
// from the prefix up to and including the end of the name.
func ReferenceAt(doc *symbols.Document, pos symbols.Position) (Reference, bool) {
	for _, ref := range lineReferences(doc.LineAt(pos.Line), pos.Line) {
		if pos.Character >= ref.Range.Start.Character && pos.Character <= ref.Range.End.Character {
			return ref, true
		}
	}

	return Reference{}, false
}

// Decorations returns every reference in doc, in document order.
func Decorations(doc *symbols.Document) []Reference {
	var refs []Reference

	for n := 0; n < doc.LineCount(); n++ {
		refs = append(refs, lineReferences(doc.LineAt(n), n)...)
	}

	return refs
}
