package errors

import (
	"strings"
	"testing"
)

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid file", "main.go", false},
		{"valid nested", "src/pkg/file.go", false},
		{"valid dotfile", ".github/workflows/ci.yml", false},
		{"dots in name", "a..b/c", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 5000), true},
		{"absolute", "/etc/passwd", true},
		{"traversal", "src/../../etc", true},
		{"backslash", "src\\file", true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidatePath(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidPath)
			}
		})
	}
}

func TestValidateRef(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty means default", "", false},
		{"branch", "main", false},
		{"nested branch", "feature/graph-view", false},
		{"tag", "v1.2.3", false},
		{"sha", "0f3a9c1e2b", false},

		{"leading dash", "-main", true},
		{"double dot", "main..dev", true},
		{"double slash", "a//b", true},
		{"lock suffix", "main.lock", true},
		{"space", "my branch", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRef(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRef(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateNodeID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"path-like", "src/main.go", false},
		{"uuid", "8c5f2f4e-9d7b-5c0e-8e6a-2b7f3f1d1a10", false},
		{"empty", "", false},
		{"tab in name", "a\tb", false},
		{"at limit", strings.Repeat("x", 1024), false},
		{"too long", strings.Repeat("x", 2000), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
