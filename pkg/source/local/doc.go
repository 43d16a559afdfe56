// Package local lists repository trees from the local filesystem.
//
// [Scan] prefers git: when the path is inside a git working tree it lists
// the tree of a commit (HEAD unless a ref is given) with go-git, so the
// result matches what a remote fetch of the same commit would return.
// Outside a repository it walks the directory and skips paths matched by
// .gitignore files.
//
// [Watch] reports filesystem changes below a directory, debounced, so
// callers can rescan and reload a view.
package local
