package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewJSONConsole(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn, err := New(Options{Level: slog.LevelInfo, Format: "json", Console: &buf})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer closeFn()

	logger.Debug("hidden")
	logger.Info("scan completed", "processed", 3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 log line, got %d: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["msg"] != "scan completed" {
		t.Errorf("msg = %v, want scan completed", entry["msg"])
	}
	if entry["processed"] != float64(3) {
		t.Errorf("processed = %v, want 3", entry["processed"])
	}
}

func TestNewWritesLogFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	var buf bytes.Buffer
	logger, closeFn, err := New(Options{Level: slog.LevelDebug, Format: "text", Dir: dir, Console: &buf})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	logger.Warn("file no longer exists", "path", "/jobs/a.pdf")
	if err := closeFn(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "dms.log"))
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "file no longer exists") {
		t.Errorf("log file missing entry: %q", data)
	}
	if !strings.Contains(buf.String(), "level=WARN") {
		t.Errorf("console missing entry: %q", buf.String())
	}
}
