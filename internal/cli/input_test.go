package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestResolveInput(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "graph.json")
	if err := os.WriteFile(file, []byte("{}"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		arg      string
		source   string
		ref      string
		wantKind string
		wantStr  string
		wantErr  bool
	}{
		{"stdin", "-", "auto", "", inputGraph, "-", false},
		{"graph file", file, "auto", "", inputGraph, file, false},
		{"directory", dir, "", "", inputLocal, dir, false},
		{"github short", "octo/hello", "auto", "", inputGitHub, "octo/hello", false},
		{"github ref", "octo/hello@v1.0.0", "auto", "", inputGitHub, "octo/hello@v1.0.0", false},
		{"ref flag wins over default", "octo/hello", "auto", "dev", inputGitHub, "octo/hello@dev", false},
		{"github url", "https://github.com/octo/hello", "auto", "", inputGitHub, "octo/hello", false},
		{"forced github", "octo/hello", "github", "", inputGitHub, "octo/hello", false},
		{"forced local", "does-not-exist", "local", "", inputLocal, "does-not-exist", false},
		{"missing path", "no/such/dir/here", "auto", "", "", "", true},
		{"bad source", ".", "ftp", "", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := resolveInput(tt.arg, tt.source, tt.ref)
			if (err != nil) != tt.wantErr {
				t.Fatalf("resolveInput(%q) error = %v, wantErr %v", tt.arg, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if in.kind != tt.wantKind {
				t.Errorf("kind = %q, want %q", in.kind, tt.wantKind)
			}
			if in.String() != tt.wantStr {
				t.Errorf("String() = %q, want %q", in.String(), tt.wantStr)
			}
		})
	}
}

func TestWriteOutput(t *testing.T) {
	var buf bytes.Buffer
	if err := writeOutput(&buf, "", []byte("hello")); err != nil {
		t.Fatal(err)
	}
	if err := writeOutput(&buf, "-", []byte(" world")); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "hello world" {
		t.Errorf("stdout = %q", buf.String())
	}

	p := filepath.Join(t.TempDir(), "a", "b", "out.txt")
	if err := writeOutput(&buf, p, []byte("file")); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(p)
	if err != nil || string(data) != "file" {
		t.Errorf("file content = %q, err = %v", data, err)
	}
}

func TestExcludesMerge(t *testing.T) {
	c := testCLI(t)
	got := c.excludes([]string{"vendor", "node_modules"})
	want := []string{".git", "node_modules", "vendor"}
	if len(got) != len(want) {
		t.Fatalf("excludes = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("excludes[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
