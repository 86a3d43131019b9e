package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/calvinalkan/nestkit/internal/config"
	"github.com/calvinalkan/nestkit/internal/fs"
	"github.com/calvinalkan/nestkit/internal/nesting"
	"github.com/calvinalkan/nestkit/internal/parentref"
	"github.com/calvinalkan/nestkit/internal/symbols"
	"github.com/calvinalkan/nestkit/internal/ui"
	"github.com/charmbracelet/log"
)

// App carries the collaborators shared by all commands.
type App struct {
	FS      fs.FS
	Config  *config.Resolver
	Logger  *log.Logger
	Env     map[string]string
	WorkDir string
	Picker  ui.Picker
	Symbols symbols.Provider
	Now     func() time.Time

	// Color enables terminal styling of stdout.
	Color bool

	// Launch opens files in an editor.
	Launch func(ctx context.Context, editor string, files []string) error
}

// abs resolves path against the working directory.
func (a *App) abs(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}

	return filepath.Join(a.WorkDir, path)
}

// display returns path relative to the working directory when it lies
// below it, and path unchanged otherwise.
func (a *App) display(path string) string {
	rel, err := filepath.Rel(a.WorkDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}

	return rel
}

func (a *App) detector() *nesting.Detector {
	return nesting.NewDetector(a.FS, a.Config)
}

func (a *App) propagator() *nesting.Propagator {
	return nesting.NewPropagator(a.FS, a.Config, a.Logger)
}

func (a *App) refResolver() *parentref.Resolver {
	return &parentref.Resolver{
		Parents: a.detector(),
		FS:      a.FS,
		Symbols: a.Symbols,
		Logger:  a.Logger,
	}
}

// readDocument loads the file at path as a document.
func (a *App) readDocument(path string) (*symbols.Document, error) {
	data, err := a.FS.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", a.display(path), err)
	}

	return symbols.NewDocument(path, string(data)), nil
}

// parsePosition parses a 1-based "line:col" into a zero-based position.
func parsePosition(s string) (symbols.Position, error) {
	lineStr, colStr, ok := strings.Cut(s, ":")
	if !ok {
		return symbols.Position{}, fmt.Errorf("%w: %q", ErrInvalidPosition, s)
	}

	line, err := strconv.Atoi(lineStr)
	if err != nil || line < 1 {
		return symbols.Position{}, fmt.Errorf("%w: %q", ErrInvalidPosition, s)
	}

	col, err := strconv.Atoi(colStr)
	if err != nil || col < 1 {
		return symbols.Position{}, fmt.Errorf("%w: %q", ErrInvalidPosition, s)
	}

	return symbols.Position{Line: line - 1, Character: col - 1}, nil
}

// formatPosition renders a zero-based position as 1-based "line:col".
func formatPosition(p symbols.Position) string {
	return fmt.Sprintf("%d:%d", p.Line+1, p.Character+1)
}
