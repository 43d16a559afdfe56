// Package buildinfo carries the gitgraph release stamp. The linker fills it
// in for tagged builds, for example:
//
//	go build -ldflags "-X github.com/matzehuels/gitgraph/pkg/buildinfo.Version=v0.3.0" ./cmd/gitgraph
//
// Commit and Date are set the same way. Local builds report "dev".
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info is the stamp as reported by the API server's health check.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Get returns the current stamp.
func Get() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}

// Template is the cobra version template for `gitgraph --version`.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s (commit %s, built %s)\n", Version, Commit, Date)
}
