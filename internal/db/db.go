package db

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/CDMG-DanEmma/DMS/internal/logging"
	"github.com/CDMG-DanEmma/DMS/pkg/models"
)

// DB is the catalog store. It is the only writer of persisted state.
type DB struct {
	*sql.DB
	log *slog.Logger
	now func() time.Time
}

// StoreError reports a failed catalog operation.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("catalog %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// New opens (creating if needed) the catalog at path.
func New(path string, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	logger = logger.With("component", "catalog")

	sqlDB, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, &StoreError{Op: "open", Err: err}
	}
	// One connection serializes writers; every call below is its own transaction.
	sqlDB.SetMaxOpenConns(1)

	db := &DB{DB: sqlDB, log: logger, now: time.Now}
	if err := db.initialize(); err != nil {
		sqlDB.Close()
		logger.Error("database initialization failed", "path", path, "error", err)
		return nil, &StoreError{Op: "initialize", Err: err}
	}

	logger.Debug("database initialized", "path", path)
	return db, nil
}

// initialize creates the necessary tables if they don't exist
func (db *DB) initialize() error {
	_, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA synchronous=NORMAL;
		PRAGMA temp_store=MEMORY;
		PRAGMA busy_timeout=5000;
		CREATE TABLE IF NOT EXISTS files_metadata (
			file_id INTEGER PRIMARY KEY AUTOINCREMENT,
			file_path TEXT NOT NULL,
			file_name TEXT NOT NULL,
			source TEXT,
			file_type TEXT,
			issue_status TEXT,
			revision TEXT,
			department TEXT,
			drawing_type TEXT,
			plant_area TEXT,
			equipment_included TEXT,
			notes TEXT,
			todos TEXT,
			last_modified DATETIME,
			created_date DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS recent_folders (
			folder_id INTEGER PRIMARY KEY AUTOINCREMENT,
			folder_path TEXT NOT NULL UNIQUE,
			last_accessed DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS user_input_history (
			input_id INTEGER PRIMARY KEY AUTOINCREMENT,
			field_name TEXT NOT NULL,
			field_value TEXT NOT NULL,
			usage_count INTEGER DEFAULT 1
		);
		CREATE INDEX IF NOT EXISTS idx_files_path ON files_metadata(file_path);
		CREATE INDEX IF NOT EXISTS idx_files_modified ON files_metadata(last_modified);
		CREATE INDEX IF NOT EXISTS idx_history_field ON user_input_history(field_name, field_value);
	`)
	if err != nil {
		return err
	}
	return db.ensureColumn("files_metadata", "missing_since", "DATETIME")
}

// ensureColumn adds a column that catalogs created by older versions lack.
func (db *DB) ensureColumn(table, column, decl string) error {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`, table, column).Scan(&n)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	_, err = db.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, decl))
	return err
}

// fail logs a failed operation and wraps err as a StoreError.
func (db *DB) fail(op string, err error, args ...any) error {
	db.log.Error("catalog operation failed", append([]any{"op", op, "error", err}, args...)...)
	return &StoreError{Op: op, Err: err}
}

// GetStats returns catalog-wide statistics
func (db *DB) GetStats() (*models.Stats, error) {
	var stats models.Stats
	err := db.QueryRow(`
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN COALESCE(department, '') != '' AND COALESCE(revision, '') != '' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN missing_since IS NOT NULL THEN 1 ELSE 0 END), 0),
			(SELECT COUNT(*) FROM recent_folders)
		FROM files_metadata
	`).Scan(&stats.TotalFiles, &stats.TaggedFiles, &stats.MissingFiles, &stats.RecentFolders)
	if err != nil {
		return nil, db.fail("stats", err)
	}
	stats.UntaggedFiles = stats.TotalFiles - stats.TaggedFiles
	return &stats, nil
}

// Snapshot writes a consistent copy of the catalog to dest, which must not exist.
func (db *DB) Snapshot(dest string) error {
	if _, err := db.Exec(`VACUUM INTO ?`, dest); err != nil {
		return db.fail("snapshot", err, "dest", dest)
	}
	return nil
}
