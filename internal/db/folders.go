package db

import (
	"github.com/CDMG-DanEmma/DMS/pkg/models"
)

// TouchRecentFolder records an access to path and keeps only the
// models.MaxRecentFolders most recently accessed folders.
func (db *DB) TouchRecentFolder(path string) error {
	tx, err := db.Begin()
	if err != nil {
		return db.fail("touch recent folder", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO recent_folders (folder_path, last_accessed)
		VALUES (?, ?)
		ON CONFLICT(folder_path) DO UPDATE SET last_accessed = excluded.last_accessed
	`, path, db.now().UTC())
	if err != nil {
		return db.fail("touch recent folder", err, "path", path)
	}

	_, err = tx.Exec(`
		DELETE FROM recent_folders
		WHERE folder_id NOT IN (
			SELECT folder_id FROM recent_folders
			ORDER BY last_accessed DESC, folder_id DESC
			LIMIT ?
		)
	`, models.MaxRecentFolders)
	if err != nil {
		return db.fail("touch recent folder", err, "path", path)
	}

	if err := tx.Commit(); err != nil {
		return db.fail("touch recent folder", err, "path", path)
	}
	return nil
}

// RecentFolders returns up to limit folders, most recently accessed first.
// A non-positive limit means models.MaxRecentFolders.
func (db *DB) RecentFolders(limit int) ([]models.RecentFolder, error) {
	if limit <= 0 {
		limit = models.MaxRecentFolders
	}
	rows, err := db.Query(`
		SELECT folder_id, folder_path, last_accessed
		FROM recent_folders
		ORDER BY last_accessed DESC, folder_id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, db.fail("recent folders", err)
	}
	defer rows.Close()

	var folders []models.RecentFolder
	for rows.Next() {
		var f models.RecentFolder
		if err := rows.Scan(&f.ID, &f.FolderPath, &f.LastAccessed); err != nil {
			return nil, db.fail("recent folders", err)
		}
		f.LastAccessed = f.LastAccessed.UTC()
		folders = append(folders, f)
	}
	if err := rows.Err(); err != nil {
		return nil, db.fail("recent folders", err)
	}
	return folders, nil
}

// RemoveRecentFolder deletes path from the recent list and reports whether it was there.
func (db *DB) RemoveRecentFolder(path string) (bool, error) {
	res, err := db.Exec(`DELETE FROM recent_folders WHERE folder_path = ?`, path)
	if err != nil {
		return false, db.fail("remove recent folder", err, "path", path)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, db.fail("remove recent folder", err, "path", path)
	}
	return n > 0, nil
}
