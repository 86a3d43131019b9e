package parentref

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/calvinalkan/nestkit/internal/fs"
	"github.com/calvinalkan/nestkit/internal/nesting"
	"github.com/calvinalkan/nestkit/internal/symbols"
	"github.com/google/go-cmp/cmp"
)

func TestIsCommentLine(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"// see ~add", true},
		{"   /* ~add */", true},
		{"\t * ~add", true},
		{"const x = 1 // ~add", false},
		{"~add", false},
		{"", false},
	}

	for _, tc := range tests {
		if got := IsCommentLine(tc.line); got != tc.want {
			t.Errorf("IsCommentLine(%q)=%v, want=%v", tc.line, got, tc.want)
		}
	}
}

func TestReferenceAt_InclusiveSpan(t *testing.T) {
	doc := symbols.NewDocument("a.spec.ts", "code()\n// uses ~add and ~sub_2\n")

	// "~add" spans columns 8..12.
	for _, col := range []int{8, 10, 12} {
		ref, ok := ReferenceAt(doc, symbols.Position{Line: 1, Character: col})
		if !ok {
			t.Fatalf("col %d: ok=false", col)
		}

		if got, want := ref.Name, "add"; got != want {
			t.Fatalf("col %d: Name=%q, want=%q", col, got, want)
		}
	}

	if _, ok := ReferenceAt(doc, symbols.Position{Line: 1, Character: 7}); ok {
		t.Fatal("col 7: ok=true, want false")
	}

	ref, ok := ReferenceAt(doc, symbols.Position{Line: 1, Character: 20})
	if !ok || ref.Name != "sub_2" {
		t.Fatalf("ReferenceAt=%+v ok=%v, want sub_2", ref, ok)
	}

	if _, ok := ReferenceAt(doc, symbols.Position{Line: 0, Character: 0}); ok {
		t.Fatal("code line: ok=true, want false")
	}
}

func TestDecorations_CommentLinesOnly(t *testing.T) {
	doc := symbols.NewDocument("a.ts", "/**\n * ~one\n */\nlet s = '~two'\n// ~three ~four\n")

	var got []string
	for _, ref := range Decorations(doc) {
		got = append(got, ref.Name)
	}

	if diff := cmp.Diff([]string{"one", "three", "four"}, got); diff != "" {
		t.Fatalf("Decorations mismatch (-want +got):\n%s", diff)
	}
}

const mathSource = `export function add(a: number, b: number): number {
  return a + b;
}

export const unused = 1;
`

func newFixture(t *testing.T) (string, *Resolver) {
	t.Helper()

	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(dir, "math.ts"), []byte(mathSource), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(filepath.Join(dir, "math.spec.ts"), []byte("// tests ~add\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	fsys := fs.NewReal()
	rules := nesting.Rules{{Parent: "*.ts", Children: "${capture}.spec.ts"}}

	return dir, &Resolver{
		Parents: nesting.NewDetector(fsys, rules),
		FS:      fsys,
		Symbols: symbols.NewTreeSitter(),
	}
}

func TestResolver_Definition(t *testing.T) {
	dir, r := newFixture(t)
	doc := symbols.NewDocument(filepath.Join(dir, "math.spec.ts"), "// tests ~add\n")

	target, err := r.Definition(context.Background(), doc, symbols.Position{Line: 0, Character: 10})
	if err != nil {
		t.Fatalf("Definition: %v", err)
	}

	if got, want := target.Path, filepath.Join(dir, "math.ts"); got != want {
		t.Fatalf("Path=%q, want=%q", got, want)
	}

	if got, want := target.Symbol.SelectionRange.Start, (symbols.Position{Line: 0, Character: 16}); got != want {
		t.Fatalf("SelectionRange.Start=%+v, want=%+v", got, want)
	}
}

func TestResolver_DefinitionErrors(t *testing.T) {
	dir, r := newFixture(t)

	spec := symbols.NewDocument(filepath.Join(dir, "math.spec.ts"), "// tests ~missing\ncode()\n")

	if _, err := r.Definition(context.Background(), spec, symbols.Position{Line: 1, Character: 0}); !errors.Is(err, ErrNoReference) {
		t.Fatalf("err=%v, want ErrNoReference", err)
	}

	if _, err := r.Definition(context.Background(), spec, symbols.Position{Line: 0, Character: 9}); !errors.Is(err, ErrSymbolNotFound) {
		t.Fatalf("err=%v, want ErrSymbolNotFound", err)
	}

	orphan := symbols.NewDocument(filepath.Join(dir, "other.spec.ts"), "// ~add\n")
	if _, err := r.Definition(context.Background(), orphan, symbols.Position{Line: 0, Character: 3}); !errors.Is(err, ErrNoParent) {
		t.Fatalf("err=%v, want ErrNoParent", err)
	}
}

func TestResolver_Hover(t *testing.T) {
	dir, r := newFixture(t)
	doc := symbols.NewDocument(filepath.Join(dir, "math.spec.ts"), "// tests ~add\n")

	hover, ok := r.Hover(context.Background(), doc, symbols.Position{Line: 0, Character: 9})
	if !ok {
		t.Fatal("Hover ok=false")
	}

	want := strings.Join([]string{
		"**add** reference from parent file:",
		"`" + filepath.Join(dir, "math.ts") + "`",
		"",
		"```typescript",
		"export function add(a: number, b: number): number {",
		"  return a + b;",
		"}",
		"```",
		"",
		"_CTRL+Click to navigate to definition._",
	}, "\n")

	if diff := cmp.Diff(want, hover.Markdown); diff != "" {
		t.Fatalf("Markdown mismatch (-want +got):\n%s", diff)
	}

	if got, want := hover.Range.End.Character, 13; got != want {
		t.Fatalf("Range.End.Character=%d, want=%d", got, want)
	}
}

func TestHoverMarkdown_Fallbacks(t *testing.T) {
	if got, want := HoverMarkdown("x", Target{}, ErrNoParent), "**~x** reference\n\n_No parent file found._"; got != want {
		t.Fatalf("HoverMarkdown=%q, want=%q", got, want)
	}

	if got, want := HoverMarkdown("x", Target{}, ErrSymbolNotFound), "**~x** reference\n\n_Symbol definition not found in parent file._"; got != want {
		t.Fatalf("HoverMarkdown=%q, want=%q", got, want)
	}
}
