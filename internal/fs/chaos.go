package fs

import (
	"io/fs"
	"math/rand"
	"os"
	"sync"
	"sync/atomic"
	"syscall"
)

// ChaosConfig controls fault injection probabilities.
// Each rate is a float64 from 0.0 (never) to 1.0 (always).
type ChaosConfig struct {
	ReadFailRate    float64 // Fail ReadFile
	WriteFailRate   float64 // Fail WriteFileAtomic
	ReadDirFailRate float64 // Fail ReadDir
	StatFailRate    float64 // Fail Stat/Exists
	RenameFailRate  float64 // Fail RenameNoReplace
}

// DefaultChaosConfig returns a config with reasonable fault rates for testing.
func DefaultChaosConfig() ChaosConfig {
	return ChaosConfig{
		ReadFailRate:    0.02,
		WriteFailRate:   0.02,
		ReadDirFailRate: 0.02,
		StatFailRate:    0.05,
		RenameFailRate:  0.05,
	}
}

// PathState tracks the fault state of a path for consistent error injection.
type PathState int

const (
	// PathNormal means no persistent fault - errors are transient.
	// This is the zero value, so untracked paths are normal.
	PathNormal PathState = iota
	// PathIOError is sticky - the path has a "bad sector" and always returns EIO.
	PathIOError
	// PathReadOnly is sticky for writes - filesystem is read-only, returns EROFS.
	PathReadOnly
	// PathNoPermission is sticky - every operation on the path returns EACCES.
	PathNoPermission
)

// ChaosMode controls how Chaos behaves.
type ChaosMode uint8

const (
	// ChaosModePassthrough behaves like the underlying FS.
	// It ignores fault rates and also ignores any sticky path state.
	ChaosModePassthrough ChaosMode = iota

	// ChaosModeInject enables fault-rate injection and sticky path state.
	ChaosModeInject

	// ChaosModeStickyOnly applies only sticky path state. Fault rates are disabled.
	ChaosModeStickyOnly
)

// Chaos wraps an [FS] and injects failures for testing.
//
// Errors are state-aware: once a path gets EIO (bad sector), it stays broken.
// Errors are also reality-aware: ENOENT is only returned if the file really
// doesn't exist on the underlying filesystem.
//
// All injected errors are real OS errors (syscall.Errno wrapped in
// *fs.PathError) so errors.Is and os.IsNotExist keep working.
type Chaos struct {
	fs     FS
	rng    *rand.Rand
	config ChaosConfig
	mode   atomic.Uint32

	mu         sync.RWMutex
	pathStates map[string]PathState

	readFails    atomic.Int64
	writeFails   atomic.Int64
	readDirFails atomic.Int64
	statFails    atomic.Int64
	renameFails  atomic.Int64
}

// NewChaos creates a new Chaos filesystem wrapping the given [FS].
// The seed controls random fault injection for reproducibility.
func NewChaos(fs FS, seed int64, config ChaosConfig) *Chaos {
	return &Chaos{
		fs:         fs,
		rng:        rand.New(rand.NewSource(seed)),
		config:     config,
		pathStates: make(map[string]PathState),
	}
}

// SetMode updates Chaos behavior. Switching modes never clears sticky
// path state. The default for a new [Chaos] is [ChaosModePassthrough].
func (c *Chaos) SetMode(m ChaosMode) { c.mode.Store(uint32(m)) }

// ChaosStats contains counts of injected faults.
type ChaosStats struct {
	ReadFails    int64
	WriteFails   int64
	ReadDirFails int64
	StatFails    int64
	RenameFails  int64
}

// Stats returns the current fault injection counts.
func (c *Chaos) Stats() ChaosStats {
	return ChaosStats{
		ReadFails:    c.readFails.Load(),
		WriteFails:   c.writeFails.Load(),
		ReadDirFails: c.readDirFails.Load(),
		StatFails:    c.statFails.Load(),
		RenameFails:  c.renameFails.Load(),
	}
}

// TotalFaults returns the total number of injected faults.
func (c *Chaos) TotalFaults() int64 {
	s := c.Stats()

	return s.ReadFails + s.WriteFails + s.ReadDirFails + s.StatFails + s.RenameFails
}

// PathState returns the current fault state for a path (for testing).
func (c *Chaos) PathState(path string) PathState {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.pathStates[path]
}

// SetPathState pins a fault state on a path (for testing).
func (c *Chaos) SetPathState(path string, state PathState) {
	c.setState(path, state)
}

// ResetAllPathStates clears all fault states (for testing).
func (c *Chaos) ResetAllPathStates() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pathStates = make(map[string]PathState)
}

func (c *Chaos) should(mode ChaosMode, rate float64) bool {
	if mode != ChaosModeInject {
		return false
	}

	c.mu.Lock()
	result := c.rng.Float64()
	c.mu.Unlock()

	return result < rate
}

func (c *Chaos) pickRandom(errs []syscall.Errno) syscall.Errno {
	c.mu.Lock()
	idx := c.rng.Intn(len(errs))
	c.mu.Unlock()

	return errs[idx]
}

func (c *Chaos) setState(path string, state PathState) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if state == PathNormal {
		delete(c.pathStates, path)
	} else {
		c.pathStates[path] = state
	}
}

// errToState converts an error to a path state for tracking.
func errToState(err syscall.Errno) PathState {
	switch err {
	case syscall.EIO:
		return PathIOError
	case syscall.EROFS:
		return PathReadOnly
	case syscall.EACCES, syscall.EPERM:
		return PathNoPermission
	default:
		return PathNormal
	}
}

func isWriteOp(op string) bool {
	switch op {
	case "write", "rename":
		return true
	}

	return false
}

// pathError creates a *fs.PathError with the given operation, path, and errno
// and records it as injected.
func pathError(op, path string, errno syscall.Errno) error {
	pe := &fs.PathError{Op: op, Path: path, Err: errno}
	markInjectedPathError(pe)

	return pe
}

// sticky returns the errno a sticky path state forces for op, or 0.
func (c *Chaos) sticky(mode ChaosMode, op, path string) syscall.Errno {
	if mode == ChaosModePassthrough {
		return 0
	}

	switch c.PathState(path) {
	case PathIOError:
		return syscall.EIO
	case PathNoPermission:
		return syscall.EACCES
	case PathReadOnly:
		if isWriteOp(op) {
			return syscall.EROFS
		}
	}

	return 0
}

// pickError selects an error consistent with the real filesystem state.
func (c *Chaos) pickError(op string, path string) (syscall.Errno, error) {
	var realExists bool

	switch op {
	case "read", "stat", "rename":
		exists, err := c.fs.Exists(path)
		if err != nil {
			return 0, err
		}

		realExists = exists
	}

	var valid []syscall.Errno

	switch op {
	case "read":
		if realExists {
			valid = []syscall.Errno{syscall.EACCES, syscall.EIO}
		} else {
			valid = []syscall.Errno{syscall.ENOENT, syscall.EACCES, syscall.EIO}
		}
	case "write":
		valid = []syscall.Errno{syscall.EACCES, syscall.EIO, syscall.ENOSPC, syscall.EDQUOT, syscall.EROFS}
	case "rename":
		if realExists {
			valid = []syscall.Errno{syscall.EACCES, syscall.EIO, syscall.ENOSPC, syscall.EXDEV, syscall.EROFS}
		} else {
			valid = []syscall.Errno{syscall.ENOENT, syscall.EIO}
		}
	case "stat":
		if realExists {
			valid = []syscall.Errno{syscall.EACCES, syscall.EIO}
		} else {
			valid = []syscall.Errno{syscall.ENOENT, syscall.EACCES, syscall.EIO}
		}
	default:
		valid = []syscall.Errno{syscall.EIO}
	}

	errno := c.pickRandom(valid)
	c.setState(path, errToState(errno))

	return errno, nil
}

// fault decides whether op on path fails, returning the injected error.
func (c *Chaos) fault(op, path string, rate float64, counter *atomic.Int64) error {
	mode := ChaosMode(c.mode.Load())

	if errno := c.sticky(mode, op, path); errno != 0 {
		counter.Add(1)

		return pathError(op, path, errno)
	}

	if !c.should(mode, rate) {
		return nil
	}

	errno, err := c.pickError(op, path)
	if err != nil {
		return err
	}

	counter.Add(1)

	return pathError(op, path, errno)
}

func (c *Chaos) ReadFile(path string) ([]byte, error) {
	if err := c.fault("read", path, c.config.ReadFailRate, &c.readFails); err != nil {
		return nil, err
	}

	return c.fs.ReadFile(path)
}

func (c *Chaos) WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	if err := c.fault("write", path, c.config.WriteFailRate, &c.writeFails); err != nil {
		return err
	}

	return c.fs.WriteFileAtomic(path, data, perm)
}

func (c *Chaos) ReadDir(path string) ([]os.DirEntry, error) {
	if err := c.fault("readdir", path, c.config.ReadDirFailRate, &c.readDirFails); err != nil {
		return nil, err
	}

	return c.fs.ReadDir(path)
}

func (c *Chaos) Stat(path string) (os.FileInfo, error) {
	if err := c.fault("stat", path, c.config.StatFailRate, &c.statFails); err != nil {
		return nil, err
	}

	return c.fs.Stat(path)
}

// Exists reports existence like [Real.Exists]. Injected ENOENT is reported
// as (false, nil) to keep the contract.
func (c *Chaos) Exists(path string) (bool, error) {
	if err := c.fault("stat", path, c.config.StatFailRate, &c.statFails); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}

		return false, err
	}

	return c.fs.Exists(path)
}

func (c *Chaos) RenameNoReplace(oldpath, newpath string) error {
	if err := c.fault("rename", oldpath, c.config.RenameFailRate, &c.renameFails); err != nil {
		return err
	}

	return c.fs.RenameNoReplace(oldpath, newpath)
}

// Compile-time interface check.
var _ FS = (*Chaos)(nil)
