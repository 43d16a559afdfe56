package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidatePath validates a file path within a repository for safety.
// It prevents path traversal attacks and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal segments (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	for _, seg := range strings.Split(path, "/") {
		if seg == ".." {
			return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
		}
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// gitRefRegex is a conservative subset of what git check-ref-format accepts.
var gitRefRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._/-]{0,254}$`)

// ValidateRef validates a git reference (branch, tag or commit SHA).
// An empty ref is valid and means "default branch".
func ValidateRef(ref string) error {
	if ref == "" {
		return nil
	}
	if !gitRefRegex.MatchString(ref) {
		return New(ErrCodeInvalidRef, "invalid git ref: %q", ref)
	}
	if strings.Contains(ref, "..") || strings.Contains(ref, "//") || strings.HasSuffix(ref, ".lock") {
		return New(ErrCodeInvalidRef, "invalid git ref: %q", ref)
	}
	return nil
}

// ValidateNodeID bounds a node identifier received from a client. Node ids
// are opaque, so any string up to 1024 bytes is accepted, the empty one
// included.
func ValidateNodeID(id string) error {
	if len(id) > 1024 {
		return New(ErrCodeInvalidInput, "node id too long (max 1024 characters)")
	}
	return nil
}
