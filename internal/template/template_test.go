package template

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var testDate = time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

func TestRender_ReplacesAllPlaceholders(t *testing.T) {
	p := NewPlaceholders("Button.tsx", "Button", "Button.stories.tsx", testDate)

	got := Render("{{name}}|{{fileName}}|{{capture}}|{{nestedFileName}}|{{nestedName}}|{{date}}|{{name}}", p)
	want := "Button|Button.tsx|Button|Button.stories.tsx|Button.stories|2024-03-01T12:30:00Z|Button"

	if got != want {
		t.Fatalf("Render=%q, want=%q", got, want)
	}
}

func TestRender_LeavesUnknownKeys(t *testing.T) {
	p := NewPlaceholders("a.ts", "a", "a.spec.ts", testDate)

	if got, want := Render("{{unknown}} {{ name }}", p), "{{unknown}} {{ name }}"; got != want {
		t.Fatalf("Render=%q, want=%q", got, want)
	}
}

func TestSelect_LongestPatternWins(t *testing.T) {
	set := Set{
		{Pattern: "*.ts", Body: "short"},
		{Pattern: "*.spec.ts", Body: "long"},
		{Pattern: "*.tsx", Body: "other"},
	}

	got, ok := set.Select("app.spec.ts")
	if !ok {
		t.Fatal("Select ok=false")
	}

	if got, want := got.Body, "long"; got != want {
		t.Fatalf("Body=%q, want=%q", got, want)
	}
}

func TestSelect_TieKeepsFirst(t *testing.T) {
	set := Set{
		{Pattern: "a.*", Body: "first"},
		{Pattern: "*.b", Body: "second"},
	}

	got, _ := set.Select("a.b")
	if got, want := got.Body, "first"; got != want {
		t.Fatalf("Body=%q, want=%q", got, want)
	}
}

func TestContent_NoMatchIsEmpty(t *testing.T) {
	p := NewPlaceholders("Button.tsx", "Button", "Button.module.css", testDate)

	if got := Builtin().Content(p); got != "" {
		t.Fatalf("Content=%q, want empty", got)
	}
}

func TestContent_BuiltinJestTemplate(t *testing.T) {
	p := NewPlaceholders("math.ts", "math", "math.spec.ts", testDate)

	got := Builtin().Content(p)
	want := strings.Join([]string{
		"// Test file for math.ts",
		"",
		"describe('math', () => {",
		"  it('should work correctly', () => {",
		"    expect(true).toBe(true);",
		"  });",
		"});",
	}, "\n")

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Content mismatch (-want +got):\n%s", diff)
	}
}

func TestMerge_OverridesInPlaceAndAppends(t *testing.T) {
	base := Set{{Pattern: "*.a", Body: "1"}, {Pattern: "*.b", Body: "2"}}
	over := Set{{Pattern: "*.c", Body: "3"}, {Pattern: "*.a", Body: "override"}}

	got := base.Merge(over)
	want := Set{{Pattern: "*.a", Body: "override"}, {Pattern: "*.b", Body: "2"}, {Pattern: "*.c", Body: "3"}}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Merge mismatch (-want +got):\n%s", diff)
	}

	if got, want := base[0].Body, "1"; got != want {
		t.Fatalf("base mutated: Body=%q, want=%q", got, want)
	}
}

func TestContent_UserTemplateOverridesBuiltin(t *testing.T) {
	set := Builtin().Merge(Set{{Pattern: "*.spec.ts", Body: "  test {{capture}}\n"}})
	p := NewPlaceholders("math.ts", "math", "math.spec.ts", testDate)

	if got, want := set.Content(p), "test math"; got != want {
		t.Fatalf("Content=%q, want=%q", got, want)
	}
}
