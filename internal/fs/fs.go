// Package fs provides the filesystem surface nestkit works against.
//
// The main types are:
//   - [FS]: interface for the filesystem operations nestkit performs
//   - [Real]: production implementation using [os]
//   - [Chaos]: testing implementation that injects failures
//
// Relation detection only ever asks whether a path exists. [FileExists] is
// that capability: it never fails, and any error from the underlying [FS]
// counts as "does not exist".
package fs

import (
	"errors"
	"fmt"
	"os"
)

// ErrTargetExists is returned by [FS.RenameNoReplace] when the destination
// is already present. It wraps [os.ErrExist].
var ErrTargetExists = fmt.Errorf("rename target already exists: %w", os.ErrExist)

// FS defines the filesystem operations used by the nesting core and the CLI.
//
// All methods mirror their [os] package equivalents except
// [FS.WriteFileAtomic] and [FS.RenameNoReplace].
type FS interface {
	// ReadFile reads an entire file into memory. See [os.ReadFile].
	ReadFile(path string) ([]byte, error)

	// WriteFileAtomic writes data to a file atomically.
	// Uses a temp file + rename so readers never see a partial file.
	WriteFileAtomic(path string, data []byte, perm os.FileMode) error

	// ReadDir reads a directory and returns its entries sorted by name.
	ReadDir(path string) ([]os.DirEntry, error)

	// Stat returns file info. See [os.Stat].
	Stat(path string) (os.FileInfo, error)

	// Exists reports whether a file or directory exists.
	// Returns (false, nil) if not found, (false, err) on other errors.
	Exists(path string) (bool, error)

	// RenameNoReplace moves a file only if newpath does not exist.
	// Returns an error matching [ErrTargetExists] and [os.ErrExist] otherwise.
	RenameNoReplace(oldpath, newpath string) error
}

// FileExists reports whether path exists, treating every failure as
// absence. It is the only existence check the nesting core uses.
func FileExists(fsys FS, path string) bool {
	exists, err := fsys.Exists(path)
	if err != nil {
		return false
	}

	return exists
}

// IsTargetExists reports whether err means a rename destination was taken.
func IsTargetExists(err error) bool {
	return errors.Is(err, os.ErrExist)
}
