package errors

import (
	"path/filepath"
	"strings"
	"unicode"

	"github.com/bmatcuk/doublestar/v4"
)

// ValidateOutputPath validates an artifact output path for safety.
// Empty paths are allowed and mean "do not write this artifact".
//
// Validation rules:
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - Must not name a directory (trailing separator)
func ValidateOutputPath(path string) error {
	if path == "" {
		return nil
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, "\\") {
		return New(ErrCodeInvalidPath, "path must name a file, not a directory: %q", path)
	}

	return nil
}

// ValidateGlob validates a source selection pattern.
// Supported syntax is doublestar's ("**", classes, nested alternatives and
// backslash escapes). A pattern must not be empty and must not contain
// control characters.
func ValidateGlob(pattern string) error {
	if strings.TrimSpace(pattern) == "" {
		return New(ErrCodeInvalidGlob, "glob cannot be empty")
	}

	for _, r := range pattern {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidGlob, "glob contains invalid characters")
		}
	}

	if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
		return New(ErrCodeInvalidGlob, "malformed glob: %q", pattern)
	}

	return nil
}
