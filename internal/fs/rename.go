package fs

import "os"

// renameCheckFirst is the portable fallback for [Real.RenameNoReplace].
// A target appearing between the Lstat and the rename is overwritten.
func renameCheckFirst(oldpath, newpath string) error {
	_, err := os.Lstat(newpath)
	if err == nil {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: ErrTargetExists}
	}

	if !os.IsNotExist(err) {
		return err
	}

	return os.Rename(oldpath, newpath)
}
