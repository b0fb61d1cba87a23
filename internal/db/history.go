package db

import (
	"strings"

	"github.com/CDMG-DanEmma/DMS/pkg/models"
)

// RecordInputUsage counts one use of value for field, for autocomplete ranking.
func (db *DB) RecordInputUsage(field, value string) error {
	value = strings.TrimSpace(value)
	if field == "" || value == "" {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return db.fail("record input usage", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE user_input_history SET usage_count = usage_count + 1
		WHERE field_name = ? AND field_value = ?
	`, field, value)
	if err != nil {
		return db.fail("record input usage", err, "field", field)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		_, err = tx.Exec(`
			INSERT INTO user_input_history (field_name, field_value, usage_count)
			VALUES (?, ?, 1)
		`, field, value)
		if err != nil {
			return db.fail("record input usage", err, "field", field)
		}
	}

	if err := tx.Commit(); err != nil {
		return db.fail("record input usage", err, "field", field)
	}
	return nil
}

// Suggestions returns previously used values of field starting with prefix,
// most used first.
func (db *DB) Suggestions(field, prefix string, limit int) ([]models.InputSuggestion, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := db.Query(`
		SELECT field_name, field_value, usage_count
		FROM user_input_history
		WHERE field_name = ? AND lower(field_value) LIKE ? ESCAPE '\'
		ORDER BY usage_count DESC, field_value ASC
		LIMIT ?
	`, field, escapeLike(strings.ToLower(prefix))+"%", limit)
	if err != nil {
		return nil, db.fail("suggestions", err, "field", field)
	}
	defer rows.Close()

	var out []models.InputSuggestion
	for rows.Next() {
		var s models.InputSuggestion
		if err := rows.Scan(&s.FieldName, &s.FieldValue, &s.UsageCount); err != nil {
			return nil, db.fail("suggestions", err, "field", field)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, db.fail("suggestions", err, "field", field)
	}
	return out, nil
}
