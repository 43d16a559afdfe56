package source_test

import (
	"fmt"

	"github.com/matzehuels/gitgraph/pkg/source"
)

func ExampleBuild() {
	g := source.Build([]source.Entry{
		{Path: "cmd/gitgraph/main.go", Type: "blob"},
		{Path: "go.mod", Type: "blob"},
	})
	for _, n := range g.Nodes {
		fmt.Println(n.Path, n.FileType)
	}
	// Output:
	// cmd tree
	// cmd/gitgraph tree
	// cmd/gitgraph/main.go blob
	// go.mod blob
}

func ExampleFilter() {
	f := source.Filter{Exclude: []string{"vendor", "**/*_test.go"}}
	entries := f.Apply([]source.Entry{
		{Path: "vendor/x/y.go"},
		{Path: "pkg/a.go"},
		{Path: "pkg/a_test.go"},
	})
	for _, e := range entries {
		fmt.Println(e.Path)
	}
	// Output:
	// pkg/a.go
}
