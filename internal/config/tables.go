package config

// DefaultFileTypes returns a fresh copy of the built-in extension mapping.
func DefaultFileTypes() map[string]string {
	return map[string]string{
		".pdf":  "PDF",
		".dwg":  "DWG",
		".doc":  "DOC",
		".docx": "DOC",
		".xls":  "XLS",
		".xlsx": "XLS",
		".txt":  "TXT",
		".csv":  "CSV",
		".zip":  "ZIP",
		".rar":  "RAR",
	}
}

// MetadataFields is the allowlist of tag fields accepted from editors.
var MetadataFields = []string{
	"department",
	"file_type",
	"revision",
	"drawing_type",
	"plant_area",
	"issue_status",
	"equipment_included",
}

// Departments offered as tag values before any history exists.
var Departments = []string{
	"Electrical",
	"Mechanical",
	"Civil",
	"Structural",
	"Process",
	"Instrumentation",
	"Document Control",
}
