package source

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/matzehuels/gitgraph/pkg/errors"
)

// Filter drops listing entries by glob pattern.
type Filter struct {
	// Exclude holds doublestar patterns such as "node_modules" or "**/*.min.js".
	// A match on any ancestor directory excludes the whole subtree.
	Exclude []string
}

// Validate checks that every pattern is well formed.
func (f Filter) Validate() error {
	for _, p := range f.Exclude {
		if !doublestar.ValidatePattern(p) {
			return errors.New(errors.ErrCodeInvalidInput, "invalid exclude pattern %q", p)
		}
	}
	return nil
}

// Excluded reports whether path or any of its ancestors matches a pattern.
func (f Filter) Excluded(path string) bool {
	if len(f.Exclude) == 0 {
		return false
	}
	path = CleanPath(path)
	for i := 0; i <= len(path); i++ {
		if i < len(path) && path[i] != '/' {
			continue
		}
		prefix := path[:i]
		if prefix == "" {
			continue
		}
		for _, p := range f.Exclude {
			if ok, _ := doublestar.Match(strings.TrimSuffix(p, "/"), prefix); ok {
				return true
			}
		}
	}
	return false
}

// Apply returns the entries that are not excluded, preserving order.
func (f Filter) Apply(entries []Entry) []Entry {
	if len(f.Exclude) == 0 {
		return entries
	}
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if !f.Excluded(e.Path) {
			out = append(out, e)
		}
	}
	return out
}
