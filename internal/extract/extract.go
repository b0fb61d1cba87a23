// Package extract derives the intrinsic catalog fields of a file from
// filesystem metadata and its name.
package extract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/CDMG-DanEmma/DMS/pkg/models"
	"github.com/CDMG-DanEmma/DMS/pkg/utils"
)

// LocalSource is reported when the platform has no volume designator.
const LocalSource = "local"

var errNotRegular = errors.New("not a regular file")

// ExtractionError means a path could not be inspected. Scanners skip the file.
type ExtractionError struct {
	Path string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Extractor maps one filesystem entry to a FileRecord with intrinsic fields set.
type Extractor struct {
	fileTypes map[string]string
}

// New returns an Extractor resolving file types through fileTypes.
func New(fileTypes map[string]string) *Extractor {
	return &Extractor{fileTypes: fileTypes}
}

// Extract stats path and returns its intrinsic metadata. Tag fields are left empty.
func (e *Extractor) Extract(path string) (*models.FileRecord, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &ExtractionError{Path: path, Err: err}
	}
	if !info.Mode().IsRegular() {
		return nil, &ExtractionError{Path: path, Err: errNotRegular}
	}

	return &models.FileRecord{
		FilePath:     path,
		FileName:     filepath.Base(path),
		Source:       Source(path),
		FileType:     utils.GetFileType(path, e.fileTypes),
		LastModified: info.ModTime().UTC(),
		CreatedDate:  changeTime(path, info).UTC(),
	}, nil
}

// Source returns the volume designator of path ("C:", `\\server\share`) or LocalSource.
func Source(path string) string {
	if v := filepath.VolumeName(path); v != "" {
		return v
	}
	return LocalSource
}
