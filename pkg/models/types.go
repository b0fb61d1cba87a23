package models

import "time"

// FileRecord is one catalogued file.
type FileRecord struct {
	ID       int64
	FilePath string

	// Intrinsic fields, overwritten on every re-scan.
	FileName     string
	Source       string
	FileType     string
	LastModified time.Time
	CreatedDate  time.Time

	// User-authored tags, preserved across re-scans.
	IssueStatus       string
	Revision          string
	Department        string
	DrawingType       string
	PlantArea         string
	EquipmentIncluded string
	Notes             string
	Todos             string

	// MissingSince is set when the soft-delete stale policy marked the file as gone.
	MissingSince *time.Time
}

// FullyTagged reports whether both department and revision are populated.
func (r *FileRecord) FullyTagged() bool {
	return r.Department != "" && r.Revision != ""
}

// IntrinsicFields returns the partial update written when a re-scan sees a newer file.
func (r *FileRecord) IntrinsicFields() Fields {
	return Fields{
		FieldFileName:     r.FileName,
		FieldSource:       r.Source,
		FieldFileType:     r.FileType,
		FieldLastModified: r.LastModified,
		FieldCreatedDate:  r.CreatedDate,
	}
}

// MaxRecentFolders is how many recent folders the catalog keeps.
const MaxRecentFolders = 5

type RecentFolder struct {
	ID           int64
	FolderPath   string
	LastAccessed time.Time
}

// InputSuggestion is a previously used value for a metadata field.
type InputSuggestion struct {
	FieldName  string
	FieldValue string
	UsageCount int64
}

// Identity selects a record either by surrogate key or by file path.
type Identity struct {
	ID   int64
	Path string
}

func ByID(id int64) Identity { return Identity{ID: id} }

func ByPath(path string) Identity { return Identity{Path: path} }

// IsPath reports whether the identity refers to a file path.
func (i Identity) IsPath() bool { return i.Path != "" }
