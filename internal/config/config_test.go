package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/calvinalkan/nestkit/internal/fs"
	"github.com/calvinalkan/nestkit/internal/nesting"
	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newResolver(t *testing.T, workDir, configPath string, env map[string]string) *Resolver {
	t.Helper()

	r, err := NewResolver(fs.NewReal(), ResolverInput{WorkDir: workDir, ConfigPath: configPath, Env: env})
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}

	return r
}

func TestParseLayer_KeepsPatternOrder(t *testing.T) {
	l, err := parseLayer([]byte(`{
		// comments and trailing commas are fine
		"explorer.fileNesting.patterns": {
			"*.ts": "${capture}.js",
			"*.component.ts": "${capture}.component.html",
			"*.tsx": "*.stories.tsx",
			"a.md": "b.md",
		},
	}`))
	if err != nil {
		t.Fatalf("parseLayer: %v", err)
	}

	want := nesting.Rules{
		{Parent: "*.ts", Children: "${capture}.js"},
		{Parent: "*.component.ts", Children: "${capture}.component.html"},
		{Parent: "*.tsx", Children: "*.stories.tsx"},
		{Parent: "a.md", Children: "b.md"},
	}

	if diff := cmp.Diff(want, l.patterns); diff != "" {
		t.Fatalf("patterns mismatch (-want +got):\n%s", diff)
	}
}

func TestParseLayer_NestedKeys(t *testing.T) {
	l, err := parseLayer([]byte(`{
		"editor.tabSize": 2,
		"explorer": {"fileNesting": {"patterns": {"*.go": "${capture}_test.go"}}},
		"nested-file-toolkit": {
			"syncRenames": false,
			"editor": "code",
			"templates": {"*_test.go": "package {{name}}"}
		}
	}`))
	if err != nil {
		t.Fatalf("parseLayer: %v", err)
	}

	if diff := cmp.Diff(nesting.Rules{{Parent: "*.go", Children: "${capture}_test.go"}}, l.patterns); diff != "" {
		t.Fatalf("patterns mismatch (-want +got):\n%s", diff)
	}

	if l.syncRenames == nil || *l.syncRenames {
		t.Fatalf("syncRenames=%v, want false", l.syncRenames)
	}

	if l.editor == nil || *l.editor != "code" {
		t.Fatalf("editor=%v, want code", l.editor)
	}

	if got, want := len(l.templates), 1; got != want {
		t.Fatalf("len(templates)=%d, want=%d", got, want)
	}
}

func TestParseLayer_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"patterns not object", `{"explorer.fileNesting.patterns": "x"}`, ErrNotAnObject},
		{"pattern value not string", `{"explorer.fileNesting.patterns": {"*.ts": 1}}`, ErrNotAString},
		{"bool not bool", `{"nested-file-toolkit.showChildrenBadge": "yes"}`, ErrNotABool},
		{"top level array", `[]`, ErrNotAnObject},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseLayer([]byte(tc.data))
			if !errors.Is(err, tc.want) {
				t.Fatalf("err=%v, want %v", err, tc.want)
			}
		})
	}
}

func TestResolver_Defaults(t *testing.T) {
	dir := t.TempDir()
	r := newResolver(t, dir, "", nil)

	s, err := r.For(filepath.Join(dir, "a.ts"))
	if err != nil {
		t.Fatal(err)
	}

	if len(s.Patterns) != 0 || !s.SyncRenames || !s.ShowChildrenBadge || !s.EnableParentRefs {
		t.Fatalf("unexpected defaults: %+v", s)
	}

	if !s.Sources.Empty() {
		t.Fatalf("Sources=%+v, want empty", s.Sources)
	}
}

func TestResolver_LayerPrecedence(t *testing.T) {
	root := t.TempDir()
	xdg := filepath.Join(root, "xdg")
	ws := filepath.Join(root, "ws")
	pkg := filepath.Join(ws, "pkg")

	writeFile(t, filepath.Join(xdg, "nestkit", "config.json"), `{
		"explorer.fileNesting.patterns": {"*.ts": "${capture}.js", "*.go": "${capture}_test.go"},
		"nested-file-toolkit.editor": "vi"
	}`)
	writeFile(t, filepath.Join(ws, ".vscode", "settings.json"), `{
		"explorer.fileNesting.patterns": {"*.ts": "${capture}.js, ${capture}.d.ts", "*.tsx": "*.stories.tsx"}
	}`)
	writeFile(t, filepath.Join(pkg, ".nestkit.json"), `{"nested-file-toolkit.syncRenames": false}`)
	writeFile(t, filepath.Join(root, "explicit.json"), `{"nested-file-toolkit.editor": "nano"}`)

	r := newResolver(t, ws, filepath.Join(root, "explicit.json"), map[string]string{"XDG_CONFIG_HOME": xdg})

	s, err := r.For(filepath.Join(pkg, "a.ts"))
	if err != nil {
		t.Fatal(err)
	}

	want := nesting.Rules{
		{Parent: "*.ts", Children: "${capture}.js, ${capture}.d.ts"},
		{Parent: "*.go", Children: "${capture}_test.go"},
		{Parent: "*.tsx", Children: "*.stories.tsx"},
	}

	if diff := cmp.Diff(want, s.Patterns); diff != "" {
		t.Fatalf("Patterns mismatch (-want +got):\n%s", diff)
	}

	if s.SyncRenames {
		t.Fatal("SyncRenames=true, want false")
	}

	if got, want := s.Editor, "nano"; got != want {
		t.Fatalf("Editor=%q, want=%q", got, want)
	}

	wantSources := Sources{
		Global:   filepath.Join(xdg, "nestkit", "config.json"),
		Editor:   filepath.Join(ws, ".vscode", "settings.json"),
		Project:  filepath.Join(pkg, ".nestkit.json"),
		Explicit: filepath.Join(root, "explicit.json"),
	}

	if diff := cmp.Diff(wantSources, s.Sources); diff != "" {
		t.Fatalf("Sources mismatch (-want +got):\n%s", diff)
	}

	// A file outside pkg/ does not see pkg/.nestkit.json.
	outside, err := r.For(filepath.Join(ws, "b.ts"))
	if err != nil {
		t.Fatal(err)
	}

	if !outside.SyncRenames {
		t.Fatal("SyncRenames=false outside pkg, want true")
	}
}

func TestResolver_ReloadsChangedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".nestkit.json")

	writeFile(t, path, `{"explorer.fileNesting.patterns": {"*.a": "${capture}.b"}}`)

	r := newResolver(t, dir, "", nil)

	if got, want := len(r.RulesFor(filepath.Join(dir, "x.a"))), 1; got != want {
		t.Fatalf("len(RulesFor)=%d, want=%d", got, want)
	}

	writeFile(t, path, `{"explorer.fileNesting.patterns": {"*.a": "${capture}.b", "*.c": "${capture}.d"}}`)

	if got, want := len(r.RulesFor(filepath.Join(dir, "x.a"))), 2; got != want {
		t.Fatalf("len(RulesFor) after edit=%d, want=%d", got, want)
	}
}

func TestResolver_ExplicitConfigMustExist(t *testing.T) {
	dir := t.TempDir()

	_, err := NewResolver(fs.NewReal(), ResolverInput{WorkDir: dir, ConfigPath: "missing.json"})
	if !errors.Is(err, ErrConfigFileNotFound) {
		t.Fatalf("err=%v, want ErrConfigFileNotFound", err)
	}
}

func TestResolver_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".nestkit.json"), `{"explorer.fileNesting.patterns": [}`)

	r := newResolver(t, dir, "", nil)

	_, err := r.For(filepath.Join(dir, "a.ts"))
	if !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("err=%v, want ErrConfigInvalid", err)
	}

	if got := r.RulesFor(filepath.Join(dir, "a.ts")); got != nil {
		t.Fatalf("RulesFor=%v, want nil", got)
	}
}

func TestGlobalConfigPath(t *testing.T) {
	if got, want := GlobalConfigPath(map[string]string{"XDG_CONFIG_HOME": "/x", "HOME": "/h"}), "/x/nestkit/config.json"; got != want {
		t.Fatalf("GlobalConfigPath=%q, want=%q", got, want)
	}

	if got, want := GlobalConfigPath(map[string]string{"HOME": "/h"}), "/h/.config/nestkit/config.json"; got != want {
		t.Fatalf("GlobalConfigPath=%q, want=%q", got, want)
	}

	if got := GlobalConfigPath(nil); got != "" {
		t.Fatalf("GlobalConfigPath=%q, want empty", got)
	}
}
