package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// resolveEditor checks for an available editor.
// Priority: configured editor -> $VISUAL -> $EDITOR -> code -> vi -> nano -> error.
func resolveEditor(configured string, env map[string]string) (string, error) {
	candidates := []string{configured, env["VISUAL"], env["EDITOR"], "code", "vi", "nano"}

	for _, c := range candidates {
		if c == "" {
			continue
		}

		if _, err := exec.LookPath(editorBinary(c)); err == nil {
			return c, nil
		}
	}

	return "", ErrNoEditorFound
}

// editorBinary returns the executable of an editor command line such as
// "code --wait".
func editorBinary(editor string) string {
	fields := strings.Fields(editor)
	if len(fields) == 0 {
		return ""
	}

	return fields[0]
}

// editorArgs builds the argument list for opening files. Two files open
// side by side, first on the left, where the editor supports it.
func editorArgs(editor string, files []string) (string, []string) {
	fields := strings.Fields(editor)
	bin, args := fields[0], fields[1:]

	switch filepath.Base(bin) {
	case "vi", "vim", "nvim":
		if len(files) == 2 {
			args = append(args, "-O")
		}
	case "zed":
		args = append(args, "-n")
	case "code", "codium", "cursor":
		args = append(args, "--reuse-window")
	}

	return bin, append(args, files...)
}

// launchEditor runs editor on files attached to the process terminal.
func launchEditor(ctx context.Context, editor string, files []string) error {
	bin, args := editorArgs(editor, files)

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%w: exit code %d", ErrEditorFailed, exitErr.ExitCode())
		}

		return fmt.Errorf("%w: %w", ErrEditorFailed, err)
	}

	return nil
}

// openInEditor resolves the editor for the first file's settings and opens
// files in it.
func (a *App) openInEditor(ctx context.Context, files []string) error {
	settings, err := a.Config.For(files[0])
	if err != nil {
		return err
	}

	editor, err := resolveEditor(settings.Editor, a.Env)
	if err != nil {
		return err
	}

	a.Logger.Debug("launching editor", "editor", editor, "files", files)

	return a.Launch(ctx, editor, files)
}
