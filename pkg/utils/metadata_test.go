package utils

import (
	"reflect"
	"testing"
)

func TestParseRevision(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		expected string
		found    bool
	}{
		{"rev letter", "Drawing REV B.pdf", "B", true},
		{"rev no space", "Drawing REVC.pdf", "C", true},
		{"r digits", "Drawing R3.pdf", "3", true},
		{"v decimal", "Drawing V2.1.pdf", "2.1", true},
		{"v integer", "pump v4.docx", "4", true},
		{"lower case rev", "pump rev 12.dwg", "12", true},
		{"none", "Drawing.pdf", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseRevision(tt.filename)
			if got != tt.expected || ok != tt.found {
				t.Errorf("ParseRevision(%q) = (%q, %v); want (%q, %v)", tt.filename, got, ok, tt.expected, tt.found)
			}
		})
	}
}

func TestValidateMetadata(t *testing.T) {
	allow := []string{"department", "revision", "plant_area", "issue_status"}

	tests := []struct {
		name     string
		raw      map[string]any
		expected map[string]string
	}{
		{
			name:     "keeps allowed and trims",
			raw:      map[string]any{"department": "  Electrical ", "revision": "B"},
			expected: map[string]string{"department": "Electrical", "revision": "B"},
		},
		{
			name:     "drops unknown fields",
			raw:      map[string]any{"department": "Civil", "file_path": "/etc/passwd"},
			expected: map[string]string{"department": "Civil"},
		},
		{
			name:     "drops falsy and blank values",
			raw:      map[string]any{"department": "", "revision": nil, "plant_area": "   ", "issue_status": 0},
			expected: map[string]string{},
		},
		{
			name:     "coerces to string",
			raw:      map[string]any{"revision": 3},
			expected: map[string]string{"revision": "3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateMetadata(tt.raw, allow)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("ValidateMetadata(%v) = %v; want %v", tt.raw, got, tt.expected)
			}
		})
	}
}
