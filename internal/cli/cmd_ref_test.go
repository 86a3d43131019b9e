package cli_test

import (
	"testing"

	"github.com/calvinalkan/nestkit/internal/cli"
)

const mathSource = `export function add(a: number, b: number): number {
  return a + b;
}
`

const mathSpec = `// covers ~add and ~sub
const total = add(1, 2) // ~add
let s = "~add"
`

func newRefCLI(t *testing.T) *cli.CLI {
	t.Helper()

	c := cli.NewCLI(t)
	c.WritePatterns("*.ts", "${capture}.spec.ts")
	c.WriteFile("math.ts", mathSource)
	c.WriteFile("math.spec.ts", mathSpec)

	return c
}

func TestRefsCommand(t *testing.T) {
	t.Parallel()

	t.Run("lists references in comments", func(t *testing.T) {
		t.Parallel()

		c := newRefCLI(t)
		stdout := c.MustRun("refs", "math.spec.ts")

		if got, want := stdout, "1:11-14\t~add\n1:20-23\t~sub"; got != want {
			t.Errorf("stdout=%q, want=%q", got, want)
		}
	})

	t.Run("disabled parent references lists nothing", func(t *testing.T) {
		t.Parallel()

		c := newRefCLI(t)
		c.WriteFile(".nestkit.json", `{
			"explorer.fileNesting.patterns": {"*.ts": "${capture}.spec.ts"},
			"nested-file-toolkit.enableParentRefs": false
		}`)

		stdout, stderr, code := c.Run("refs", "math.spec.ts")

		if got, want := code, 0; got != want {
			t.Fatalf("exitCode=%d, want=%d (stderr=%s)", got, want, stderr)
		}

		if stdout != "" {
			t.Errorf("stdout=%q, want empty", stdout)
		}

		cli.AssertContains(t, stderr, "note: parent references are disabled")
	})

	t.Run("missing file argument returns error", func(t *testing.T) {
		t.Parallel()

		c := cli.NewCLI(t)
		stderr := c.MustFail("refs")
		cli.AssertContains(t, stderr, "file path is required")
	})
}

func TestDefinitionCommand(t *testing.T) {
	t.Parallel()

	t.Run("prints the symbol location in the parent", func(t *testing.T) {
		t.Parallel()

		c := newRefCLI(t)
		stdout := c.MustRun("definition", "math.spec.ts", "1:12")

		if got, want := stdout, c.Path("math.ts")+":1:17"; got != want {
			t.Errorf("stdout=%q, want=%q", got, want)
		}
	})

	t.Run("end of the name still resolves", func(t *testing.T) {
		t.Parallel()

		c := newRefCLI(t)

		if got, want := c.MustRun("definition", "math.spec.ts", "1:15"), c.Path("math.ts")+":1:17"; got != want {
			t.Errorf("stdout=%q, want=%q", got, want)
		}
	})

	t.Run("position outside a reference is a note", func(t *testing.T) {
		t.Parallel()

		c := newRefCLI(t)
		stdout, stderr, code := c.Run("definition", "math.spec.ts", "3:10")

		if got, want := code, 0; got != want {
			t.Fatalf("exitCode=%d, want=%d", got, want)
		}

		if stdout != "" {
			t.Errorf("stdout=%q, want empty", stdout)
		}

		cli.AssertContains(t, stderr, "note: no parent reference at 3:10")
	})

	t.Run("unknown symbol returns error", func(t *testing.T) {
		t.Parallel()

		c := newRefCLI(t)
		stderr := c.MustFail("definition", "math.spec.ts", "1:21")
		cli.AssertContains(t, stderr, "symbol definition not found in parent file")
	})

	t.Run("file without parent returns error", func(t *testing.T) {
		t.Parallel()

		c := newRefCLI(t)
		c.WriteFile("other.spec.ts", "// ~add\n")

		stderr := c.MustFail("definition", "other.spec.ts", "1:4")
		cli.AssertContains(t, stderr, "no parent file found")
	})

	t.Run("invalid position returns error", func(t *testing.T) {
		t.Parallel()

		c := newRefCLI(t)

		for _, pos := range []string{"1", "0:1", "a:b", "1:0"} {
			stderr := c.MustFail("definition", "math.spec.ts", pos)
			cli.AssertContains(t, stderr, "invalid position")
		}
	})

	t.Run("missing position returns error", func(t *testing.T) {
		t.Parallel()

		c := newRefCLI(t)
		stderr := c.MustFail("definition", "math.spec.ts")
		cli.AssertContains(t, stderr, "position is required")
	})
}

func TestHoverCommand(t *testing.T) {
	t.Parallel()

	t.Run("raw markdown for a resolved reference", func(t *testing.T) {
		t.Parallel()

		c := newRefCLI(t)
		stdout := c.MustRun("hover", "--raw", "math.spec.ts", "1:11")

		want := "**add** reference from parent file:\n`" + c.Path("math.ts") + "`\n\n" +
			"```typescript\n" + mathSource + "```\n\n" +
			"_CTRL+Click to navigate to definition._"
		if stdout != want {
			t.Errorf("stdout=%q, want=%q", stdout, want)
		}
	})

	t.Run("unresolved reference still hovers", func(t *testing.T) {
		t.Parallel()

		c := newRefCLI(t)
		stdout := c.MustRun("hover", "math.spec.ts", "1:21")

		if got, want := stdout, "**~sub** reference\n\n_Symbol definition not found in parent file._"; got != want {
			t.Errorf("stdout=%q, want=%q", got, want)
		}
	})

	t.Run("disabled parent references is a note", func(t *testing.T) {
		t.Parallel()

		c := newRefCLI(t)
		c.WriteFile(".nestkit.json", `{
			"explorer.fileNesting.patterns": {"*.ts": "${capture}.spec.ts"},
			"nested-file-toolkit.enableParentRefs": false
		}`)

		stdout, stderr, code := c.Run("hover", "math.spec.ts", "1:11")

		if got, want := code, 0; got != want {
			t.Fatalf("exitCode=%d, want=%d", got, want)
		}

		if stdout != "" {
			t.Errorf("stdout=%q, want empty", stdout)
		}

		cli.AssertContains(t, stderr, "parent references are disabled")
	})

	t.Run("string literal is not a reference", func(t *testing.T) {
		t.Parallel()

		c := newRefCLI(t)
		_, stderr, code := c.Run("hover", "math.spec.ts", "3:10")

		if got, want := code, 0; got != want {
			t.Fatalf("exitCode=%d, want=%d", got, want)
		}

		cli.AssertContains(t, stderr, "no parent reference")
	})
}
