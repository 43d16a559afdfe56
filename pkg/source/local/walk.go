package local

import (
	"context"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/matzehuels/gitgraph/pkg/errors"
	"github.com/matzehuels/gitgraph/pkg/graph"
	"github.com/matzehuels/gitgraph/pkg/source"
)

// alwaysSkip names directories that are never listed.
var alwaysSkip = map[string]bool{".git": true, ".hg": true, ".svn": true}

// ignoreSet holds the compiled .gitignore of every directory seen so far,
// keyed by slash path relative to the scan root ("" for the root).
type ignoreSet map[string]*ignore.GitIgnore

func (s ignoreSet) load(root, dir string) {
	if _, ok := s[dir]; ok {
		return
	}
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, filepath.FromSlash(dir), ".gitignore"))
	if err != nil {
		s[dir] = nil
		return
	}
	s[dir] = gi
}

// ignored reports whether rel is matched by the .gitignore of any ancestor.
func (s ignoreSet) ignored(rel string, isDir bool) bool {
	candidate := rel
	if isDir {
		candidate += "/"
	}
	dir := path.Dir(rel)
	for {
		if dir == "." {
			dir = ""
		}
		if gi := s[dir]; gi != nil {
			sub := strings.TrimPrefix(candidate, dir+"/")
			if dir == "" {
				sub = candidate
			}
			if gi.MatchesPath(sub) {
				return true
			}
		}
		if dir == "" {
			return false
		}
		dir = path.Dir(dir)
	}
}

func walk(ctx context.Context, root string) ([]source.Entry, error) {
	ignores := ignoreSet{}
	ignores.load(root, "")

	var entries []source.Entry
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsPermission(err) {
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if p == root {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if alwaysSkip[d.Name()] || ignores.ignored(rel, true) {
				return fs.SkipDir
			}
			ignores.load(root, rel)
			entries = append(entries, source.Entry{Path: rel, Type: graph.FileTypeTree})
			return nil
		}
		if ignores.ignored(rel, false) {
			return nil
		}
		entries = append(entries, source.Entry{Path: rel, Type: graph.FileTypeBlob})
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "walk %s", root)
	}
	return entries, nil
}
