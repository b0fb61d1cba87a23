package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"DMS_DB_PATH", "DMS_LOG_LEVEL", "DMS_LOG_FORMAT", "DMS_STALE_POLICY", "DMS_TYPES_FILE", "DMS_BACKUP_ENDPOINT", "DMS_BACKUP_BUCKET"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.DBPath != "dms.db" {
		t.Errorf("DBPath = %q, want dms.db", cfg.DBPath)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want info", cfg.LogLevel)
	}
	if cfg.StalePolicy != StaleRetain {
		t.Errorf("StalePolicy = %q, want %q", cfg.StalePolicy, StaleRetain)
	}
	if cfg.FileTypes[".dwg"] != "DWG" {
		t.Errorf("FileTypes[.dwg] = %q, want DWG", cfg.FileTypes[".dwg"])
	}
	if cfg.Backup.Enabled() {
		t.Error("backup should be disabled without endpoint and bucket")
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"log level", "DMS_LOG_LEVEL", "verbose"},
		{"log format", "DMS_LOG_FORMAT", "xml"},
		{"stale policy", "DMS_STALE_POLICY", "purge"},
		{"backup insecure", "DMS_BACKUP_INSECURE", "maybe"},
		{"types file", "DMS_TYPES_FILE", filepath.Join(t.TempDir(), "missing.yaml")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("Load() with %s=%q succeeded, want error", tt.key, tt.value)
			}
		})
	}
}

func TestLoadFileTypes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "types.yaml")
	content := "step: cad\n.PDF: Drawing\n\" \": X\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write types file: %v", err)
	}

	cfg := &Config{FileTypes: DefaultFileTypes()}
	if err := cfg.LoadFileTypes(path); err != nil {
		t.Fatalf("LoadFileTypes() failed: %v", err)
	}

	expected := map[string]string{
		".step": "CAD",
		".pdf":  "DRAWING",
		".dwg":  "DWG",
	}
	for ext, typ := range expected {
		if cfg.FileTypes[ext] != typ {
			t.Errorf("FileTypes[%s] = %q, want %q", ext, cfg.FileTypes[ext], typ)
		}
	}
	if _, ok := cfg.FileTypes["."]; ok {
		t.Error("blank extension should be ignored")
	}
}
