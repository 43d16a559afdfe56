package local

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"

	"github.com/matzehuels/gitgraph/pkg/errors"
	"github.com/matzehuels/gitgraph/pkg/source"
)

// Result is the listing produced by [Scan].
type Result struct {
	// Root is the absolute directory that was scanned.
	Root string `json:"root"`
	// Git reports whether entries came from a git commit.
	Git bool `json:"git"`
	// Ref and Commit identify the commit for git scans.
	Ref     string         `json:"ref,omitempty"`
	Commit  string         `json:"commit,omitempty"`
	Entries []source.Entry `json:"entries"`
}

// Scan lists the tree rooted at path. A non-empty ref requires path to be
// inside a git repository.
func Scan(ctx context.Context, path, ref string) (*Result, error) {
	if err := errors.ValidateRef(ref); err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", path)
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "path %s does not exist", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "stat %s", path)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidPath, "%s is not a directory", path)
	}

	repo, err := git.PlainOpenWithOptions(abs, &git.PlainOpenOptions{DetectDotGit: true})
	switch {
	case err == nil:
		return scanGit(ctx, repo, abs, ref)
	case stderrors.Is(err, git.ErrRepositoryNotExists):
		if ref != "" {
			return nil, errors.New(errors.ErrCodeInvalidRef, "ref %q given but %s is not a git repository", ref, path)
		}
		entries, err := walk(ctx, abs)
		if err != nil {
			return nil, err
		}
		return &Result{Root: abs, Entries: entries}, nil
	default:
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open repository at %s", path)
	}
}
