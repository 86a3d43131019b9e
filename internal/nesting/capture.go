package nesting

import "strings"

// Capture returns the part of fileName that instantiates the wildcard of
// parentPattern. When the pattern does not capture anything (no match, or
// no wildcard) it falls back to fileName without its final extension.
// The result is never empty for a non-empty fileName.
func Capture(fileName, parentPattern string) string {
	if c, ok := firstGroup(CompileParent(parentPattern), fileName); ok {
		return c
	}

	return TrimExt(fileName)
}

// TrimExt strips the final extension (last "." onward) from a file name.
// Names without an extension, with a trailing dot, or whose only dot is the
// leading one (".gitignore") are returned unchanged.
func TrimExt(fileName string) string {
	idx := strings.LastIndex(fileName, ".")
	if idx <= 0 || idx == len(fileName)-1 {
		return fileName
	}

	return fileName[:idx]
}
