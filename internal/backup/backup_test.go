package backup

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/CDMG-DanEmma/DMS/internal/config"
)

func TestObjectKey(t *testing.T) {
	at := time.Date(2024, 7, 9, 18, 4, 5, 0, time.FixedZone("WIB", 7*3600))

	tests := []struct {
		name     string
		folder   string
		expected string
	}{
		{"root", "", "dms-20240709-110405.db"},
		{"folder", "catalog", "catalog/dms-20240709-110405.db"},
		{"nested", "backups/dms", "backups/dms/dms-20240709-110405.db"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ObjectKey(tt.folder, at); got != tt.expected {
				t.Errorf("ObjectKey(%q) = %q, want %q", tt.folder, got, tt.expected)
			}
		})
	}
}

func TestChecksum(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", "0e5751c026e543b2e8ab2eb06099daa1d1e5df47778f7787faab45cdf12fe3a8"},
		{"abc", "abc", "bddd813c634239723171ef3fee98579b94964e3bb1cb3e427262c8c068d52319"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sum, n, err := Checksum(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("Checksum() failed: %v", err)
			}
			if sum != tt.expected || n != int64(len(tt.input)) {
				t.Errorf("Checksum(%q) = %s, %d; want %s, %d", tt.input, sum, n, tt.expected, len(tt.input))
			}
		})
	}
}

func TestNewRequiresConfig(t *testing.T) {
	if _, err := New(config.BackupConfig{Endpoint: "play.min.io"}, nil); err == nil {
		t.Error("New() without bucket succeeded, want error")
	}
}

func TestNew(t *testing.T) {
	u, err := New(config.BackupConfig{Endpoint: "localhost:9000", Bucket: "dms", Folder: "nightly", Insecure: true}, nil)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if u.bucket != "dms" || u.folder != "nightly" {
		t.Errorf("uploader = %+v", u)
	}
}

type failingSnapshotter struct{}

func (failingSnapshotter) Snapshot(string) error { return errors.New("database is locked") }

func TestBackupSnapshotFailure(t *testing.T) {
	u, err := New(config.BackupConfig{Endpoint: "localhost:9000", Bucket: "dms", Insecure: true}, nil)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if _, err := u.Backup(t.Context(), failingSnapshotter{}); err == nil {
		t.Error("Backup() with failing snapshot succeeded, want error")
	}
}
