package symbols

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// SnippetOptions bounds the size of a symbol snippet.
type SnippetOptions struct {
	MaxLines int
	MaxChars int
}

// DefaultSnippetOptions returns the limits used for hover excerpts.
func DefaultSnippetOptions() SnippetOptions {
	return SnippetOptions{MaxLines: 20, MaxChars: 500}
}

// Snippet returns the full lines covered by sym. A snippet over either
// limit is shortened: a multi-line symbol keeps its first and last line
// with an indented "..." between them, a single-line symbol keeps a head of
// the line followed by " ...".
func Snippet(doc *Document, sym Symbol, opts SnippetOptions) string {
	startLine := max(0, sym.Range.Start.Line)
	endLine := min(doc.LineCount()-1, sym.Range.End.Line)

	lines := make([]string, 0, max(0, endLine-startLine+1))
	for n := startLine; n <= endLine; n++ {
		lines = append(lines, doc.LineAt(n))
	}

	full := strings.Join(lines, "\n")

	if utf8.RuneCountInString(full) <= opts.MaxChars && len(lines) <= opts.MaxLines {
		return full
	}

	openLine := doc.LineAt(startLine)

	if startLine == endLine {
		headLen := max(10, min(60, opts.MaxChars-5))
		head := strings.TrimRightFunc(truncateRunes(openLine, headLen), unicode.IsSpace)

		return head + " ..."
	}

	indent := openLine[:len(openLine)-len(strings.TrimLeftFunc(openLine, unicode.IsSpace))]

	return openLine + "\n" + indent + "    ...\n" + doc.LineAt(endLine)
}

func truncateRunes(s string, n int) string {
	i := 0

	for pos := range s {
		if i == n {
			return s[:pos]
		}

		i++
	}

	return s
}
