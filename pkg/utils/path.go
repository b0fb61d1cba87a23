package utils

import (
	"path/filepath"
	"strings"
)

// DefaultFileType is reported for unmapped or missing extensions.
const DefaultFileType = "OTHER"

const invalidFilenameChars = `<>:"/\|?*`

// GetFileType maps the extension of path through table, matching case-insensitively.
// Table keys are lower-case extensions including the leading dot.
func GetFileType(path string, table map[string]string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return DefaultFileType
	}
	if t, ok := table[ext]; ok && t != "" {
		return t
	}
	return DefaultFileType
}

// GetRelativePath returns path relative to base, or path unchanged when it
// does not lie under base.
func GetRelativePath(path, base string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return path
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}

// SanitizeFilename replaces characters that are invalid in file names with '_'.
func SanitizeFilename(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(invalidFilenameChars, r) {
			return '_'
		}
		return r
	}, name)
	return strings.TrimSpace(name)
}

// IsUnder reports whether path equals root or lies below it.
func IsUnder(path, root string) bool {
	if path == root {
		return true
	}
	prefix := root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(path, prefix)
}
