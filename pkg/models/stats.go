package models

// Stats represents catalog-wide statistics
type Stats struct {
	TotalFiles    int64
	TaggedFiles   int64
	UntaggedFiles int64
	MissingFiles  int64
	RecentFolders int64
}

// ScanSummary is the derived view of the records under one root folder.
type ScanSummary struct {
	Root          string
	TotalFiles    int
	TypeCounts    map[string]int
	TaggedFiles   int
	UntaggedFiles int
}

// ScanResult reports what one ScanFolder run did.
type ScanResult struct {
	ID        string
	Root      string
	Processed int
	Added     int
	Updated   int
	Unchanged int
	Skipped   int // extraction failures and unreadable directories
	Failed    int // record writes the catalog rejected
	Restored  int // rows whose missing mark was cleared
	Removed   []string
	Marked    int // removed rows stamped missing
	Deleted   int // removed rows purged
}
