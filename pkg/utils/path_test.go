package utils

import (
	"path/filepath"
	"testing"
)

var testTypes = map[string]string{
	".pdf":  "PDF",
	".dwg":  "DWG",
	".docx": "DOC",
}

func TestGetFileType(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{"mapped", "plan.pdf", "PDF"},
		{"upper case extension", "PLAN.DWG", "DWG"},
		{"mixed case", "Spec.DocX", "DOC"},
		{"unmapped", "notes.md", "OTHER"},
		{"no extension", "Makefile", "OTHER"},
		{"dotfile", ".bashrc", "OTHER"},
		{"nested", filepath.Join("a", "b", "c.pdf"), "PDF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetFileType(tt.path, testTypes); got != tt.expected {
				t.Errorf("GetFileType(%q) = %q; want %q", tt.path, got, tt.expected)
			}
		})
	}
}

func TestGetRelativePath(t *testing.T) {
	base := filepath.Join(string(filepath.Separator), "jobs", "124001-PH")

	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{"child", filepath.Join(base, "dwg", "a.dwg"), filepath.Join("dwg", "a.dwg")},
		{"base itself", base, "."},
		{"sibling", filepath.Join(string(filepath.Separator), "jobs", "other", "a.dwg"),
			filepath.Join(string(filepath.Separator), "jobs", "other", "a.dwg")},
		{"prefix but not child", base + "-old", base + "-old"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetRelativePath(tt.path, base); got != tt.expected {
				t.Errorf("GetRelativePath(%q) = %q; want %q", tt.path, got, tt.expected)
			}
		})
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"clean", "drawing.pdf", "drawing.pdf"},
		{"all invalid", `<>:"/\|?*`, "_________"},
		{"mixed", `P&ID: Rev "A"?.dwg`, `P&ID_ Rev _A__.dwg`},
		{"trimmed", "  spaced.txt  ", "spaced.txt"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFilename(tt.input); got != tt.expected {
				t.Errorf("SanitizeFilename(%q) = %q; want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestIsUnder(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "data", "jobs")

	tests := []struct {
		name     string
		path     string
		expected bool
	}{
		{"root", root, true},
		{"child", filepath.Join(root, "a.pdf"), true},
		{"grandchild", filepath.Join(root, "x", "a.pdf"), true},
		{"sibling with shared prefix", root + "2", false},
		{"parent", filepath.Dir(root), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUnder(tt.path, root); got != tt.expected {
				t.Errorf("IsUnder(%q, %q) = %v; want %v", tt.path, root, got, tt.expected)
			}
		})
	}
}
