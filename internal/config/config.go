// Package config loads DMS settings from environment variables and holds
// the static lookup tables (extension mapping, metadata fields, departments).
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Stale policies for catalog rows whose file disappeared from disk.
const (
	StaleRetain     = "retain"
	StaleSoftDelete = "soft-delete"
	StaleHardDelete = "hard-delete"
)

// Config holds all runtime settings.
type Config struct {
	// Path of the SQLite catalog
	DBPath string

	LogLevel  slog.Level
	LogFormat string
	// Directory for the rotating log file; empty disables file logging
	LogDir string

	StalePolicy string

	// Extension (".pdf") to type ("PDF") mapping
	FileTypes map[string]string

	Backup BackupConfig
}

// BackupConfig describes the S3-compatible bucket catalog snapshots go to.
type BackupConfig struct {
	Endpoint  string
	Bucket    string
	Folder    string
	AccessKey string
	SecretKey string
	Insecure  bool
}

// Enabled reports whether enough is configured to attempt an upload.
func (b BackupConfig) Enabled() bool {
	return b.Endpoint != "" && b.Bucket != ""
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		DBPath:    getEnvDefault("DMS_DB_PATH", "dms.db"),
		LogFormat: getEnvDefault("DMS_LOG_FORMAT", "text"),
		LogDir:    getEnvDefault("DMS_LOG_DIR", "logs"),
	}
	var err error

	cfg.LogLevel, err = ParseLogLevel(getEnvDefault("DMS_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("DMS_LOG_LEVEL: %w", err)
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("DMS_LOG_FORMAT: invalid format %q, expected json or text", cfg.LogFormat)
	}

	cfg.StalePolicy, err = ParseStalePolicy(getEnvDefault("DMS_STALE_POLICY", StaleRetain))
	if err != nil {
		return nil, fmt.Errorf("DMS_STALE_POLICY: %w", err)
	}

	cfg.FileTypes = DefaultFileTypes()
	if typesFile := os.Getenv("DMS_TYPES_FILE"); typesFile != "" {
		if err := cfg.LoadFileTypes(typesFile); err != nil {
			return nil, fmt.Errorf("DMS_TYPES_FILE: %w", err)
		}
	}

	cfg.Backup = BackupConfig{
		Endpoint:  os.Getenv("DMS_BACKUP_ENDPOINT"),
		Bucket:    os.Getenv("DMS_BACKUP_BUCKET"),
		Folder:    strings.Trim(os.Getenv("DMS_BACKUP_FOLDER"), "/"),
		AccessKey: os.Getenv("DMS_BACKUP_ACCESS_KEY"),
		SecretKey: os.Getenv("DMS_BACKUP_SECRET_KEY"),
	}
	cfg.Backup.Insecure, err = getEnvBool("DMS_BACKUP_INSECURE", false)
	if err != nil {
		return nil, fmt.Errorf("DMS_BACKUP_INSECURE: %w", err)
	}

	return cfg, nil
}

// LoadFileTypes merges a YAML extension table over the defaults:
//
//	.pdf: PDF
//	.step: CAD
func (c *Config) LoadFileTypes(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	extra := map[string]string{}
	if err := yaml.Unmarshal(data, &extra); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	for ext, typ := range extra {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.FileTypes[ext] = strings.ToUpper(strings.TrimSpace(typ))
	}
	return nil
}

// ParseLogLevel converts a level name to slog.Level.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// ParseStalePolicy validates a stale policy name.
func ParseStalePolicy(s string) (string, error) {
	switch s {
	case StaleRetain, StaleSoftDelete, StaleHardDelete:
		return s, nil
	}
	return "", fmt.Errorf("unknown stale policy %q, expected %s, %s or %s", s, StaleRetain, StaleSoftDelete, StaleHardDelete)
}

func getEnvDefault(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	return strconv.ParseBool(v)
}
