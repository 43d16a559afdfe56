package github

import "github.com/matzehuels/gitgraph/pkg/source"

// Repo holds the repository metadata needed to read a tree.
type Repo struct {
	Name          string `json:"name"`
	FullName      string `json:"full_name"`
	Description   string `json:"description"`
	Private       bool   `json:"private"`
	DefaultBranch string `json:"default_branch"`
}

// Tree is a recursive listing of one ref.
type Tree struct {
	Owner     string         `json:"owner"`
	Repo      string         `json:"repo"`
	Ref       string         `json:"ref"`
	SHA       string         `json:"sha"`
	Truncated bool           `json:"truncated"`
	Entries   []source.Entry `json:"entries"`
}

type treeResponse struct {
	SHA       string `json:"sha"`
	Truncated bool   `json:"truncated"`
	Tree      []struct {
		Path string `json:"path"`
		Type string `json:"type"`
		Size int    `json:"size"`
	} `json:"tree"`
}

type errorResponse struct {
	Message string `json:"message"`
}
