package extract

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

var testTypes = map[string]string{".pdf": "PDF", ".dwg": "DWG"}

func TestExtract(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name     string
		file     string
		expected string
	}{
		{"mapped type", "Layout REV C.pdf", "PDF"},
		{"upper case extension", "PUMP.DWG", "DWG"},
		{"unmapped", "readme.md", "OTHER"},
		{"no extension", "LICENSE", "OTHER"},
	}

	mtime := time.Date(2023, 11, 14, 10, 30, 0, 0, time.UTC)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(tmpDir, tt.file)
			if err := os.WriteFile(path, []byte("content"), 0644); err != nil {
				t.Fatalf("Failed to create test file: %v", err)
			}
			if err := os.Chtimes(path, mtime, mtime); err != nil {
				t.Fatalf("Failed to set mtime: %v", err)
			}

			rec, err := New(testTypes).Extract(path)
			if err != nil {
				t.Fatalf("Extract() failed: %v", err)
			}
			if rec.FilePath != path || rec.FileName != tt.file {
				t.Errorf("path/name = %q/%q", rec.FilePath, rec.FileName)
			}
			if rec.FileType != tt.expected {
				t.Errorf("FileType = %q, want %q", rec.FileType, tt.expected)
			}
			if !rec.LastModified.Equal(mtime) {
				t.Errorf("LastModified = %v, want %v", rec.LastModified, mtime)
			}
			if rec.LastModified.Location() != time.UTC || rec.CreatedDate.Location() != time.UTC {
				t.Error("timestamps should be UTC")
			}
			if rec.CreatedDate.IsZero() {
				t.Error("CreatedDate should be set")
			}
			if runtime.GOOS != "windows" && rec.Source != LocalSource {
				t.Errorf("Source = %q, want %q", rec.Source, LocalSource)
			}
			if rec.Department != "" || rec.Revision != "" {
				t.Error("tag fields must stay empty")
			}
		})
	}
}

func TestExtractErrors(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(tmpDir, "gone.pdf")},
		{"directory", tmpDir},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := New(testTypes).Extract(tt.path)
			var extractErr *ExtractionError
			if rec != nil || !errors.As(err, &extractErr) {
				t.Fatalf("Extract(%s) = %v, %v; want nil, *ExtractionError", tt.path, rec, err)
			}
			if extractErr.Path != tt.path {
				t.Errorf("ExtractionError.Path = %q, want %q", extractErr.Path, tt.path)
			}
		})
	}
}

func TestSource(t *testing.T) {
	if runtime.GOOS == "windows" {
		if got := Source(`C:\jobs\a.pdf`); got != "C:" {
			t.Errorf("Source = %q, want C:", got)
		}
		return
	}
	if got := Source("/jobs/a.pdf"); got != LocalSource {
		t.Errorf("Source = %q, want %q", got, LocalSource)
	}
}
