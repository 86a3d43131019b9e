// Package watch reports filesystem changes below a directory in debounced,
// ordered batches. A rename observed as "rename X" followed by "create Y"
// in the same directory within one batch is reported as a single rename
// from X to Y.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// defaultDebounce is the quiet period after the last event before a batch
// is delivered.
const defaultDebounce = 200 * time.Millisecond

// ErrAlreadyStarted is returned by a second call to [Watcher.Run].
var ErrAlreadyStarted = errors.New("watch: Run called more than once")

// defaultIgnores are always excluded: VCS metadata, dependency caches,
// editor swap files and OS metadata files.
var defaultIgnores = []string{
	"**/.git/**",
	"**/.hg/**",
	"**/.svn/**",
	"**/node_modules/**",
	"**/__pycache__/**",
	"**/*.swp",
	"**/*.swo",
	"**/*~",
	"**/.DS_Store",
}

// Op is the kind of a [Change].
type Op uint8

const (
	OpCreate Op = iota + 1
	OpWrite
	OpRemove
	OpRename
)

func (o Op) String() string {
	switch o {
	case OpCreate:
		return "create"
	case OpWrite:
		return "write"
	case OpRemove:
		return "remove"
	case OpRename:
		return "rename"
	default:
		return "unknown"
	}
}

// Change is one coalesced filesystem change. Paths are absolute. From is
// set for renames only.
type Change struct {
	Op   Op
	Path string
	From string
}

// Config holds the parameters for a Watcher.
type Config struct {
	// BaseDir is the root directory to watch recursively. Empty means the
	// current working directory.
	BaseDir string

	// Ignore are doublestar patterns (relative to BaseDir) merged with the
	// built-in default ignores.
	Ignore []string

	// Debounce is the quiet period before a batch is delivered. Zero or
	// negative values fall back to the default.
	Debounce time.Duration

	// OnChange receives each batch in event order. Calls never overlap.
	OnChange func(ctx context.Context, changes []Change) error

	Logger *log.Logger
}

// Watcher monitors a directory tree. Run must be called exactly once.
type Watcher struct {
	cfg      Config
	fsw      *fsnotify.Watcher
	ignores  []string
	debounce time.Duration
	baseDir  string
	logger   *log.Logger
	started  atomic.Bool
	closed   atomic.Bool
}

// New creates a Watcher and registers every non-ignored directory below
// the base directory.
func New(cfg Config) (*Watcher, error) {
	baseDir := cfg.BaseDir
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("watch: determine working directory: %w", err)
		}

		baseDir = wd
	}

	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve base directory: %w", err)
	}

	for _, pat := range cfg.Ignore {
		if !doublestar.ValidatePattern(pat) {
			return nil, fmt.Errorf("watch: invalid ignore pattern %q: %w", pat, doublestar.ErrBadPattern)
		}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.New(os.Stderr)
	}

	ignores := make([]string, 0, len(defaultIgnores)+len(cfg.Ignore))
	ignores = append(ignores, defaultIgnores...)
	ignores = append(ignores, cfg.Ignore...)

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		ignores:  ignores,
		debounce: debounce,
		baseDir:  absBase,
		logger:   logger,
	}

	if err := w.addDirectories(); err != nil {
		_ = fsw.Close()

		return nil, err
	}

	return w, nil
}

// BaseDir returns the absolute watched directory.
func (w *Watcher) BaseDir() string {
	return w.baseDir
}

// Close releases the subscription. Run returns once it observes the
// closed event channel. Close is idempotent.
func (w *Watcher) Close() error {
	if !w.closed.CompareAndSwap(false, true) {
		return nil
	}

	return w.fsw.Close()
}

// Run blocks until ctx is cancelled or the watcher is closed, delivering
// debounced batches to OnChange. It returns nil on cancellation or Close
// and an error for fatal watcher failures.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	defer func() { _ = w.Close() }()

	var (
		mu      sync.Mutex
		pending []event
		timer   *time.Timer
		stopped bool
		running sync.Mutex
	)

	fire := func() {
		// Batches are delivered one at a time and in order.
		running.Lock()
		defer running.Unlock()

		mu.Lock()
		if stopped || ctx.Err() != nil {
			mu.Unlock()

			return
		}

		batch := pending
		pending = nil
		mu.Unlock()

		if len(batch) == 0 || w.cfg.OnChange == nil {
			return
		}

		if err := w.cfg.OnChange(ctx, coalesce(batch)); err != nil {
			w.logger.Error("watch callback failed", "err", err)
		}
	}

	defer func() {
		mu.Lock()
		stopped = true
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()

		// Wait for a batch that is already being delivered.
		running.Lock()
		running.Unlock() //nolint:staticcheck // empty critical section
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				if w.closed.Load() {
					return nil
				}

				return errors.New("watch: fsnotify event channel closed unexpectedly")
			}

			rel, err := filepath.Rel(w.baseDir, evt.Name)
			if err != nil {
				rel = evt.Name
			}

			if w.isIgnored(rel) {
				continue
			}

			if evt.Has(fsnotify.Create) {
				w.maybeAddDir(evt.Name)
			}

			op, ok := opOf(evt.Op)
			if !ok {
				continue
			}

			w.logger.Debug("fs event", "op", op, "path", evt.Name)

			mu.Lock()
			pending = append(pending, event{op: op, path: evt.Name})

			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				if w.closed.Load() {
					return nil
				}

				return errors.New("watch: fsnotify error channel closed unexpectedly")
			}

			if isFatalFsnotifyError(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}

			w.logger.Warn("fsnotify error", "err", err)
		}
	}
}

// addDirectories walks BaseDir and adds every non-ignored directory.
func (w *Watcher) addDirectories() error {
	walkErr := filepath.WalkDir(w.baseDir, func(path string, d os.DirEntry, walkDirErr error) error {
		if walkDirErr != nil {
			w.logger.Warn("skipping inaccessible path", "path", path, "err", walkDirErr)

			return nil
		}

		if !d.IsDir() {
			return nil
		}

		rel, relErr := filepath.Rel(w.baseDir, path)
		if relErr != nil {
			return nil //nolint:nilerr // skip paths that cannot be made relative
		}

		if w.isIgnored(rel) || w.isIgnored(rel+"/") {
			return filepath.SkipDir
		}

		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch: add directory %q: %w", path, err)
		}

		return nil
	})
	if walkErr != nil {
		return fmt.Errorf("watch: walk directory tree: %w", walkErr)
	}

	return nil
}

// maybeAddDir watches path if it is a new, non-ignored directory.
func (w *Watcher) maybeAddDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}

	rel, err := filepath.Rel(w.baseDir, path)
	if err != nil {
		return
	}

	if w.isIgnored(rel) || w.isIgnored(rel+"/") {
		return
	}

	if err := w.fsw.Add(path); err != nil {
		w.logger.Warn("cannot watch new directory", "path", path, "err", err)
	}
}

// isIgnored reports whether rel (relative to BaseDir) matches an ignore
// pattern.
func (w *Watcher) isIgnored(rel string) bool {
	normalized := filepath.ToSlash(rel)

	for _, pat := range w.ignores {
		if matched, err := doublestar.Match(pat, normalized); err == nil && matched {
			return true
		}
	}

	return false
}

// DefaultIgnores returns a copy of the built-in ignore patterns.
func DefaultIgnores() []string {
	out := make([]string, len(defaultIgnores))
	copy(out, defaultIgnores)

	return out
}

// opOf maps an fsnotify op to the most significant [Op]. Chmod-only events
// are dropped.
func opOf(op fsnotify.Op) (Op, bool) {
	switch {
	case op.Has(fsnotify.Rename):
		return OpRename, true
	case op.Has(fsnotify.Remove):
		return OpRemove, true
	case op.Has(fsnotify.Create):
		return OpCreate, true
	case op.Has(fsnotify.Write):
		return OpWrite, true
	default:
		return 0, false
	}
}
