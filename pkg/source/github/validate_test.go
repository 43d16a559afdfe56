package github

import "testing"

func TestParseRepoRef(t *testing.T) {
	tests := []struct {
		in               string
		owner, repo, ref string
		wantErr          bool
	}{
		{in: "matzehuels/gitgraph", owner: "matzehuels", repo: "gitgraph"},
		{in: "matzehuels/gitgraph@v1.0.0", owner: "matzehuels", repo: "gitgraph", ref: "v1.0.0"},
		{in: "https://github.com/foo/bar", owner: "foo", repo: "bar"},
		{in: "https://github.com/foo/bar.git", owner: "foo", repo: "bar"},
		{in: "https://github.com/foo/bar/tree/feature/x", owner: "foo", repo: "bar", ref: "feature/x"},
		{in: "  foo/bar  ", owner: "foo", repo: "bar"},
		{in: "foo", wantErr: true},
		{in: "foo/bar/baz", wantErr: true},
		{in: "-foo/bar", wantErr: true},
		{in: "foo/..", wantErr: true},
		{in: "foo/bar@-x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			owner, repo, ref, err := ParseRepoRef(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRepoRef(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if owner != tt.owner || repo != tt.repo || ref != tt.ref {
				t.Errorf("ParseRepoRef(%q) = %q, %q, %q; want %q, %q, %q", tt.in, owner, repo, ref, tt.owner, tt.repo, tt.ref)
			}
		})
	}
}

func TestValidateOwner(t *testing.T) {
	for _, ok := range []string{"a", "Foo-Bar", "x1"} {
		if err := ValidateOwner(ok); err != nil {
			t.Errorf("ValidateOwner(%q) error = %v", ok, err)
		}
	}
	for _, bad := range []string{"", "-a", "a_b", "toolongtoolongtoolongtoolongtoolongtoolong"} {
		if err := ValidateOwner(bad); err == nil {
			t.Errorf("ValidateOwner(%q) should fail", bad)
		}
	}
}
