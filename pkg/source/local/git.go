package local

import (
	"context"
	"io"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/matzehuels/gitgraph/pkg/errors"
	"github.com/matzehuels/gitgraph/pkg/graph"
	"github.com/matzehuels/gitgraph/pkg/source"
)

func scanGit(ctx context.Context, repo *git.Repository, abs, ref string) (*Result, error) {
	commit, name, err := resolveCommit(repo, ref)
	if err != nil {
		return nil, err
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read tree of %s", commit.Hash)
	}

	// Narrow to the scanned subdirectory when path is below the worktree root.
	if wt, err := repo.Worktree(); err == nil {
		if rel, err := filepath.Rel(wt.Filesystem.Root(), abs); err == nil && rel != "." {
			sub, err := tree.Tree(filepath.ToSlash(rel))
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeNotFound, err, "%s is not tracked at %s", rel, name)
			}
			tree = sub
		}
	}

	entries, err := treeEntries(ctx, tree)
	if err != nil {
		return nil, err
	}
	return &Result{
		Root:    abs,
		Git:     true,
		Ref:     name,
		Commit:  commit.Hash.String(),
		Entries: entries,
	}, nil
}

// resolveCommit resolves ref (HEAD when empty) to a commit. Branches, tags,
// short hashes and revision expressions such as "HEAD~2" are accepted.
func resolveCommit(repo *git.Repository, ref string) (*object.Commit, string, error) {
	if ref == "" {
		head, err := repo.Head()
		if err != nil {
			return nil, "", errors.Wrap(errors.ErrCodeInvalidRef, err, "resolve HEAD")
		}
		commit, err := repo.CommitObject(head.Hash())
		if err != nil {
			return nil, "", errors.Wrap(errors.ErrCodeInternal, err, "read commit %s", head.Hash())
		}
		return commit, head.Name().Short(), nil
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeInvalidRef, err, "resolve %q", ref)
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeInvalidRef, err, "%q is not a commit", ref)
	}
	return commit, ref, nil
}

func treeEntries(ctx context.Context, tree *object.Tree) ([]source.Entry, error) {
	walker := object.NewTreeWalker(tree, true, nil)
	defer walker.Close()

	var entries []source.Entry
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name, entry, err := walker.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "walk tree")
		}
		entries = append(entries, source.Entry{Path: name, Type: entryType(entry.Mode)})
	}
	return entries, nil
}

func entryType(m filemode.FileMode) string {
	switch m {
	case filemode.Dir:
		return graph.FileTypeTree
	case filemode.Submodule:
		return "commit"
	default:
		return graph.FileTypeBlob
	}
}
