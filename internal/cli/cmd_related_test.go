package cli_test

import (
	"strings"
	"testing"

	"github.com/calvinalkan/nestkit/internal/cli"
)

func TestRelatedCommand(t *testing.T) {
	t.Parallel()

	t.Run("lists children of a parent", func(t *testing.T) {
		t.Parallel()

		c := cli.NewCLI(t)
		c.WritePatterns("*.ts", "${capture}.spec.ts, ${capture}.d.ts")
		c.Touch("user.ts", "user.spec.ts", "user.d.ts")

		stdout := c.MustRun("related", "user.ts")
		want := "child\t" + c.Path("user.spec.ts") + "\nchild\t" + c.Path("user.d.ts")

		if stdout != want {
			t.Errorf("stdout=%q, want=%q", stdout, want)
		}
	})

	t.Run("lists parent of a child", func(t *testing.T) {
		t.Parallel()

		c := cli.NewCLI(t)
		c.WritePatterns("*.ts", "${capture}.spec.ts")
		c.Touch("user.ts", "user.spec.ts")

		stdout := c.MustRun("related", "user.spec.ts")

		if got, want := stdout, "parent\t"+c.Path("user.ts"); got != want {
			t.Errorf("stdout=%q, want=%q", got, want)
		}
	})

	t.Run("missing children are not listed", func(t *testing.T) {
		t.Parallel()

		c := cli.NewCLI(t)
		c.WritePatterns("*.ts", "${capture}.spec.ts")
		c.Touch("user.ts")

		stdout, stderr, code := c.Run("related", "user.ts")

		if got, want := code, 0; got != want {
			t.Fatalf("exitCode=%d, want=%d", got, want)
		}

		if stdout != "" {
			t.Errorf("stdout=%q, want empty", stdout)
		}

		cli.AssertContains(t, stderr, "note: no related file found for user.ts")
	})

	t.Run("nearest project config applies", func(t *testing.T) {
		t.Parallel()

		c := cli.NewCLI(t)
		c.WritePatterns("*.ts", "${capture}.spec.ts")
		c.WriteFile("pkg/.nestkit.json", `{"explorer.fileNesting.patterns": {"*.go": "${capture}_test.go"}}`)
		c.Touch("pkg/store.go", "pkg/store_test.go")

		stdout := c.MustRun("related", "pkg/store.go")

		if got, want := stdout, "child\t"+c.Path("pkg/store_test.go"); got != want {
			t.Errorf("stdout=%q, want=%q", got, want)
		}
	})

	t.Run("editor workspace settings are read", func(t *testing.T) {
		t.Parallel()

		c := cli.NewCLI(t)
		c.WriteFile(".vscode/settings.json", `{
			// workspace settings
			"explorer.fileNesting.enabled": true,
			"explorer.fileNesting.patterns": {
				"*.component.ts": "${capture}.component.html",
			},
		}`)
		c.Touch("app.component.ts", "app.component.html")

		stdout := c.MustRun("related", "app.component.html")

		if got, want := stdout, "parent\t"+c.Path("app.component.ts"); got != want {
			t.Errorf("stdout=%q, want=%q", got, want)
		}
	})
}

func TestSplitCommand(t *testing.T) {
	t.Parallel()

	t.Run("print puts the child left and the parent right", func(t *testing.T) {
		t.Parallel()

		c := cli.NewCLI(t)
		c.WritePatterns("*.ts", "${capture}.spec.ts")
		c.Touch("user.ts", "user.spec.ts")

		want := c.Path("user.spec.ts") + "\n" + c.Path("user.ts")

		if got := c.MustRun("split", "user.ts", "--print"); got != want {
			t.Errorf("from parent: stdout=%q, want=%q", got, want)
		}

		if got := c.MustRun("split", "user.spec.ts", "--print"); got != want {
			t.Errorf("from child: stdout=%q, want=%q", got, want)
		}
	})

	t.Run("first skips the picker", func(t *testing.T) {
		t.Parallel()

		c := cli.NewCLI(t)
		c.WritePatterns("*.ts", "${capture}.spec.ts, ${capture}.d.ts")
		c.Touch("user.ts", "user.spec.ts", "user.d.ts")

		stdout := c.MustRun("split", "user.ts", "--print", "--first")

		if got, want := stdout, c.Path("user.spec.ts")+"\n"+c.Path("user.ts"); got != want {
			t.Errorf("stdout=%q, want=%q", got, want)
		}
	})

	t.Run("several related files ask", func(t *testing.T) {
		t.Parallel()

		c := cli.NewCLI(t)
		c.WritePatterns("*.ts", "${capture}.spec.ts, ${capture}.d.ts")
		c.Touch("user.ts", "user.spec.ts", "user.d.ts")

		stdout, stderr, code := c.RunWithInput("2\n", "split", "user.ts", "--print")

		if got, want := code, 0; got != want {
			t.Fatalf("exitCode=%d, want=%d (stderr=%s)", got, want, stderr)
		}

		cli.AssertContains(t, stderr, "Open related file")

		if got, want := strings.TrimSpace(stdout), c.Path("user.d.ts")+"\n"+c.Path("user.ts"); got != want {
			t.Errorf("stdout=%q, want=%q", got, want)
		}
	})

	t.Run("no related file is a note", func(t *testing.T) {
		t.Parallel()

		c := cli.NewCLI(t)
		c.WritePatterns("*.ts", "${capture}.spec.ts")
		c.Touch("user.ts")

		stdout, stderr, code := c.Run("split", "user.ts")

		if got, want := code, 0; got != want {
			t.Fatalf("exitCode=%d, want=%d", got, want)
		}

		if stdout != "" {
			t.Errorf("stdout=%q, want empty", stdout)
		}

		cli.AssertContains(t, stderr, "no related file found")
	})

	t.Run("opens both files in the editor", func(t *testing.T) {
		t.Parallel()

		c := cli.NewCLI(t)
		mockEditor, invokedFile := createMockEditor(t)
		c.Env["VISUAL"] = mockEditor
		c.WritePatterns("*.ts", "${capture}.spec.ts")
		c.Touch("user.ts", "user.spec.ts")

		c.MustRun("split", "user.ts")

		if got, want := readInvoked(t, invokedFile), c.Path("user.spec.ts")+" "+c.Path("user.ts"); got != want {
			t.Errorf("editor args=%q, want=%q", got, want)
		}
	})
}
