package db

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/CDMG-DanEmma/DMS/pkg/models"
)

const recordColumns = `file_id, file_path, file_name, source, file_type, issue_status, revision,
	department, drawing_type, plant_area, equipment_included, notes, todos,
	last_modified, created_date, missing_since`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*models.FileRecord, error) {
	var (
		rec                                                   models.FileRecord
		source, fileType, issueStatus, revision, department   sql.NullString
		drawingType, plantArea, equipment, notes, todos       sql.NullString
		lastModified, createdDate, missingSince               sql.NullTime
	)
	err := row.Scan(
		&rec.ID, &rec.FilePath, &rec.FileName, &source, &fileType, &issueStatus, &revision,
		&department, &drawingType, &plantArea, &equipment, &notes, &todos,
		&lastModified, &createdDate, &missingSince,
	)
	if err != nil {
		return nil, err
	}
	rec.Source = source.String
	rec.FileType = fileType.String
	rec.IssueStatus = issueStatus.String
	rec.Revision = revision.String
	rec.Department = department.String
	rec.DrawingType = drawingType.String
	rec.PlantArea = plantArea.String
	rec.EquipmentIncluded = equipment.String
	rec.Notes = notes.String
	rec.Todos = todos.String
	if lastModified.Valid {
		rec.LastModified = lastModified.Time.UTC()
	}
	if createdDate.Valid {
		rec.CreatedDate = createdDate.Time.UTC()
	}
	if missingSince.Valid {
		t := missingSince.Time.UTC()
		rec.MissingSince = &t
	}
	return &rec, nil
}

func (db *DB) queryRecords(query string, args ...any) ([]models.FileRecord, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.FileRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC()
}

// AddRecord inserts a new row and returns its file_id.
func (db *DB) AddRecord(rec *models.FileRecord) (int64, error) {
	if rec.FilePath == "" {
		return 0, db.fail("add record", errors.New("file_path is required"))
	}
	created := rec.CreatedDate
	if created.IsZero() {
		created = db.now()
	}

	res, err := db.Exec(`
		INSERT INTO files_metadata (file_path, file_name, source, file_type, issue_status, revision,
			department, drawing_type, plant_area, equipment_included, notes, todos,
			last_modified, created_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rec.FilePath,
		rec.FileName,
		nullString(rec.Source),
		nullString(rec.FileType),
		nullString(rec.IssueStatus),
		nullString(rec.Revision),
		nullString(rec.Department),
		nullString(rec.DrawingType),
		nullString(rec.PlantArea),
		nullString(rec.EquipmentIncluded),
		nullString(rec.Notes),
		nullString(rec.Todos),
		nullTime(rec.LastModified),
		created.UTC(),
	)
	if err != nil {
		return 0, db.fail("add record", err, "path", rec.FilePath)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, db.fail("add record", err, "path", rec.FilePath)
	}
	return id, nil
}

// updatable reports whether f may appear in an UPDATE. file_path is the
// reconciliation key and is never rewritten.
func updatable(f models.Field) bool {
	return f.Valid() && f != models.FieldFilePath
}

// buildSetClause validates fields and returns "col = ?" assignments in
// column order with their arguments.
func buildSetClause(fields models.Fields) (string, []any, error) {
	if len(fields) == 0 {
		return "", nil, errors.New("no fields to update")
	}
	keys := make([]string, 0, len(fields))
	for f, v := range fields {
		if !updatable(f) {
			return "", nil, fmt.Errorf("field %q is not updatable", f)
		}
		if !f.CheckValue(v) {
			return "", nil, fmt.Errorf("field %q: unsupported value type %T", f, v)
		}
		keys = append(keys, string(f))
	}
	sort.Strings(keys)

	assignments := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys))
	for _, k := range keys {
		assignments = append(assignments, k+" = ?")
		switch v := fields[models.Field(k)].(type) {
		case string:
			args = append(args, nullString(v))
		case time.Time:
			args = append(args, nullTime(v))
		}
	}
	return strings.Join(assignments, ", "), args, nil
}

var errEmptyIdentity = errors.New("record identity needs a file_id or a file_path")

func identityClause(id models.Identity) (string, any, error) {
	switch {
	case id.IsPath():
		return "file_path = ?", id.Path, nil
	case id.ID > 0:
		return "file_id = ?", id.ID, nil
	}
	return "", nil, errEmptyIdentity
}

// UpdateRecord applies a partial update to the record(s) matching id and
// reports whether any row matched.
func (db *DB) UpdateRecord(id models.Identity, fields models.Fields) (bool, error) {
	set, args, err := buildSetClause(fields)
	if err != nil {
		return false, db.fail("update record", err, "identity", id)
	}
	where, key, err := identityClause(id)
	if err != nil {
		return false, db.fail("update record", err, "identity", id)
	}

	res, err := db.Exec(`UPDATE files_metadata SET `+set+` WHERE `+where, append(args, key)...)
	if err != nil {
		return false, db.fail("update record", err, "identity", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, db.fail("update record", err, "identity", id)
	}
	if n == 0 {
		db.log.Warn("no rows updated", "identity", id)
		return false, nil
	}
	db.log.Debug("updated record", "identity", id, "fields", len(fields))
	return true, nil
}

// GetRecord returns the record matching id, or nil when there is none.
func (db *DB) GetRecord(id models.Identity) (*models.FileRecord, error) {
	where, key, err := identityClause(id)
	if err != nil {
		return nil, db.fail("get record", err, "identity", id)
	}
	row := db.QueryRow(`SELECT `+recordColumns+` FROM files_metadata WHERE `+where+` ORDER BY file_id LIMIT 1`, key)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, db.fail("get record", err, "identity", id)
	}
	return rec, nil
}

// RecordsUnder returns every record whose path is root or lies below it,
// including rows marked missing.
func (db *DB) RecordsUnder(root string) ([]models.FileRecord, error) {
	prefix := root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	records, err := db.queryRecords(`
		SELECT `+recordColumns+`
		FROM files_metadata
		WHERE file_path = ? OR substr(file_path, 1, length(?)) = ?
		ORDER BY file_id
	`, root, prefix, prefix)
	if err != nil {
		return nil, db.fail("records under", err, "root", root)
	}
	return records, nil
}

// Search returns visible records matching every non-empty criterion, newest first.
// Text fields match by case-insensitive substring; last_modified and
// created_date match a YYYY-MM-DD calendar date in local time.
func (db *DB) Search(criteria models.Criteria) ([]models.FileRecord, error) {
	where, args, err := buildSearchFilter(criteria)
	if err != nil {
		return nil, db.fail("search", err)
	}
	where = append(where, "missing_since IS NULL")

	query := `SELECT ` + recordColumns + ` FROM files_metadata WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY last_modified DESC, file_id ASC`
	db.log.Debug("executing search", "query", query, "args", args)

	records, err := db.queryRecords(query, args...)
	if err != nil {
		return nil, db.fail("search", err)
	}
	db.log.Info("search completed", "results", len(records))
	return records, nil
}

func buildSearchFilter(criteria models.Criteria) ([]string, []any, error) {
	keys := make([]string, 0, len(criteria))
	for f := range criteria {
		keys = append(keys, string(f))
	}
	sort.Strings(keys)

	var where []string
	var args []any
	for _, k := range keys {
		f := models.Field(k)
		value := strings.TrimSpace(criteria[f])
		if value == "" {
			continue
		}
		if !f.Valid() {
			return nil, nil, fmt.Errorf("unknown search field %q", f)
		}
		if f.IsTemporal() {
			if value == models.DatePlaceholder {
				continue
			}
			day, err := time.ParseInLocation("2006-01-02", value, time.Local)
			if err != nil {
				return nil, nil, fmt.Errorf("field %q: invalid date %q", f, value)
			}
			where = append(where, fmt.Sprintf("date(%s, 'localtime') = ?", f))
			args = append(args, day.Format("2006-01-02"))
			continue
		}
		where = append(where, fmt.Sprintf("lower(%s) LIKE ? ESCAPE '\\'", f))
		args = append(args, "%"+escapeLike(strings.ToLower(value))+"%")
	}
	return where, args, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// MarkMissing stamps missing_since on the given paths that are not already marked.
func (db *DB) MarkMissing(paths []string) (int64, error) {
	return db.execEach("mark missing",
		`UPDATE files_metadata SET missing_since = ? WHERE file_path = ? AND missing_since IS NULL`,
		paths, db.now().UTC())
}

// ClearMissing removes the missing mark from paths seen on disk again.
func (db *DB) ClearMissing(paths []string) (int64, error) {
	return db.execEach("clear missing",
		`UPDATE files_metadata SET missing_since = NULL WHERE file_path = ?`, paths)
}

// DeleteRecords removes every row for the given paths.
func (db *DB) DeleteRecords(paths []string) (int64, error) {
	return db.execEach("delete records", `DELETE FROM files_metadata WHERE file_path = ?`, paths)
}

// execEach runs query once per path inside a single transaction; lead
// arguments precede the path.
func (db *DB) execEach(op, query string, paths []string, lead ...any) (int64, error) {
	if len(paths) == 0 {
		return 0, nil
	}
	tx, err := db.Begin()
	if err != nil {
		return 0, db.fail(op, err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(query)
	if err != nil {
		return 0, db.fail(op, err)
	}
	defer stmt.Close()

	var total int64
	for _, path := range paths {
		res, err := stmt.Exec(append(append([]any{}, lead...), path)...)
		if err != nil {
			return 0, db.fail(op, err, "path", path)
		}
		n, _ := res.RowsAffected()
		total += n
	}

	if err := tx.Commit(); err != nil {
		return 0, db.fail(op, err)
	}
	return total, nil
}
