package cli

import "errors"

// Error variables for CLI argument handling.
var (
	ErrFileRequired      = errors.New("file path is required")
	ErrTwoPathsRequired  = errors.New("old and new path are required")
	ErrPositionRequired  = errors.New("position is required (line:col)")
	ErrInvalidPosition   = errors.New("invalid position (want line:col, 1-based)")
	ErrUnknownCommand    = errors.New("unknown command")
	ErrNotAFile          = errors.New("not a regular file")
	ErrNotADirectory     = errors.New("not a directory")
	ErrEmptyName         = errors.New("nested file name cannot be empty")
	ErrInvalidName       = errors.New("nested file name must be a plain file name")
	ErrNoEditorFound     = errors.New("no editor found (set nested-file-toolkit.editor, $EDITOR, or install vi/nano)")
	ErrEditorFailed      = errors.New("editor failed")
	ErrRenameTargetTaken = errors.New("rename target already exists")
)
