package models

import "time"

// Field names a column of files_metadata.
type Field string

const (
	FieldFilePath          Field = "file_path"
	FieldFileName          Field = "file_name"
	FieldSource            Field = "source"
	FieldFileType          Field = "file_type"
	FieldIssueStatus       Field = "issue_status"
	FieldRevision          Field = "revision"
	FieldDepartment        Field = "department"
	FieldDrawingType       Field = "drawing_type"
	FieldPlantArea         Field = "plant_area"
	FieldEquipmentIncluded Field = "equipment_included"
	FieldNotes             Field = "notes"
	FieldTodos             Field = "todos"
	FieldLastModified      Field = "last_modified"
	FieldCreatedDate       Field = "created_date"
)

// Fields is a partial update payload. Text columns take string values,
// temporal columns take time.Time.
type Fields map[Field]any

// Criteria maps a searchable field to the value it must match.
type Criteria map[Field]string

// DatePlaceholder is the unfilled date prompt; search treats it as no filter.
const DatePlaceholder = "YYYY-MM-DD"

var textFields = map[Field]bool{
	FieldFilePath:          true,
	FieldFileName:          true,
	FieldSource:            true,
	FieldFileType:          true,
	FieldIssueStatus:       true,
	FieldRevision:          true,
	FieldDepartment:        true,
	FieldDrawingType:       true,
	FieldPlantArea:         true,
	FieldEquipmentIncluded: true,
	FieldNotes:             true,
	FieldTodos:             true,
}

// IsText reports whether f is a text column.
func (f Field) IsText() bool { return textFields[f] }

// IsTemporal reports whether f is a timestamp column.
func (f Field) IsTemporal() bool {
	return f == FieldLastModified || f == FieldCreatedDate
}

// Valid reports whether f names a known files_metadata column.
func (f Field) Valid() bool { return f.IsText() || f.IsTemporal() }

// TagFields are the user-authored columns, in display order.
var TagFields = []Field{
	FieldIssueStatus,
	FieldRevision,
	FieldDepartment,
	FieldDrawingType,
	FieldPlantArea,
	FieldEquipmentIncluded,
	FieldNotes,
	FieldTodos,
}

// CheckValue validates the dynamic type of v against the column kind.
func (f Field) CheckValue(v any) bool {
	switch v.(type) {
	case string:
		return f.IsText()
	case time.Time:
		return f.IsTemporal()
	}
	return false
}
