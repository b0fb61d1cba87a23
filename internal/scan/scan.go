// Package scan reconciles a folder tree on disk into the document catalog.
package scan

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/CDMG-DanEmma/DMS/internal/config"
	"github.com/CDMG-DanEmma/DMS/internal/logging"
	"github.com/CDMG-DanEmma/DMS/internal/extract"
	"github.com/CDMG-DanEmma/DMS/pkg/models"
	"github.com/CDMG-DanEmma/DMS/pkg/utils"
)

// Catalog is the subset of the catalog store a scan writes through.
type Catalog interface {
	RecordsUnder(root string) ([]models.FileRecord, error)
	AddRecord(rec *models.FileRecord) (int64, error)
	UpdateRecord(id models.Identity, fields models.Fields) (bool, error)
	MarkMissing(paths []string) (int64, error)
	ClearMissing(paths []string) (int64, error)
	DeleteRecords(paths []string) (int64, error)
}

// ScanError aborts a whole scan. Writes committed before it stay committed.
type ScanError struct {
	Root string
	Err  error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scan %s: %v", e.Root, e.Err)
}

func (e *ScanError) Unwrap() error { return e.Err }

// Scanner handles folder reconciliation
type Scanner struct {
	catalog   Catalog
	extractor *extract.Extractor
	log       *slog.Logger
	config    ScannerConfig
}

// ScannerConfig holds configuration for the scanner
type ScannerConfig struct {
	// StalePolicy is one of config.StaleRetain, StaleSoftDelete or StaleHardDelete.
	StalePolicy string
	// OnFile, when set, is called once per discovered file.
	OnFile func(path string)
	// ConfirmRemoval gates hard deletes. A nil func deletes without asking.
	ConfirmRemoval func(paths []string) bool
}

// DefaultScannerConfig returns default scanner configuration
func DefaultScannerConfig() ScannerConfig {
	return ScannerConfig{
		StalePolicy: config.StaleRetain,
	}
}

// NewScanner creates a new scanner instance
func NewScanner(catalog Catalog, extractor *extract.Extractor, logger *slog.Logger, cfg *ScannerConfig) *Scanner {
	if cfg == nil {
		defaultConfig := DefaultScannerConfig()
		cfg = &defaultConfig
	}
	if cfg.StalePolicy == "" {
		cfg.StalePolicy = config.StaleRetain
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Scanner{
		catalog:   catalog,
		extractor: extractor,
		log:       logger.With("component", "scanner"),
		config:    *cfg,
	}
}

// absRoot makes root absolute so catalog paths never depend on the working directory.
func absRoot(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", &ScanError{Root: root, Err: err}
	}
	return abs, nil
}

// checkRoot returns the absolute form of root, which must be an existing directory.
func checkRoot(root string) (string, error) {
	abs, err := absRoot(root)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", &ScanError{Root: root, Err: err}
	}
	if !info.IsDir() {
		return "", &ScanError{Root: root, Err: errors.New("not a directory")}
	}
	return abs, nil
}

// ScanFolder walks root and brings the catalog in line with it: new files
// are added, files with a strictly newer modification time get their
// intrinsic fields refreshed, and catalog rows with no file on disk are
// handled by the stale policy. User tags are never touched.
//
// A relative root is resolved against the working directory first. When
// the walk itself aborts, the partial result is returned together with a
// *ScanError.
func (s *Scanner) ScanFolder(root string) (*models.ScanResult, error) {
	abs, err := checkRoot(root)
	if err != nil {
		s.log.Error("invalid scan root", "root", root, "error", err)
		return nil, err
	}
	root = abs

	result := &models.ScanResult{ID: uuid.NewString(), Root: root}
	log := s.log.With("scan", result.ID)
	start := time.Now()
	log.Info("scan started", "root", root, "stale_policy", s.config.StalePolicy)

	existing, err := s.catalog.RecordsUnder(root)
	if err != nil {
		log.Error("loading existing records failed", "error", err)
		return nil, &ScanError{Root: root, Err: err}
	}
	snapshot := make(map[string]models.FileRecord, len(existing))
	for _, rec := range existing {
		if _, dup := snapshot[rec.FilePath]; !dup {
			snapshot[rec.FilePath] = rec
		}
	}

	seen := make(map[string]bool)
	var skippedDirs []string
	var restore []string

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			log.Warn("skipping unreadable entry", "path", path, "error", err)
			result.Skipped++
			if d != nil && d.IsDir() {
				skippedDirs = append(skippedDirs, path)
				return filepath.SkipDir
			}
			seen[path] = true
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if s.config.OnFile != nil {
			s.config.OnFile(path)
		}
		// Present on disk, so never reported as removed even if unreadable.
		seen[path] = true

		rec, err := s.extractor.Extract(path)
		if err != nil {
			log.Warn("skipping file", "path", path, "error", err)
			result.Skipped++
			return nil
		}
		result.Processed++

		prev, known := snapshot[path]
		switch {
		case !known:
			if _, err := s.catalog.AddRecord(rec); err != nil {
				log.Error("adding record failed", "path", path, "error", err)
				result.Failed++
				return nil
			}
			result.Added++
		case rec.LastModified.After(prev.LastModified):
			if _, err := s.catalog.UpdateRecord(models.ByPath(path), rec.IntrinsicFields()); err != nil {
				log.Error("updating record failed", "path", path, "error", err)
				result.Failed++
				return nil
			}
			result.Updated++
		default:
			result.Unchanged++
		}
		if known && prev.MissingSince != nil {
			restore = append(restore, path)
		}
		return nil
	})

	if len(restore) > 0 {
		n, err := s.catalog.ClearMissing(restore)
		if err != nil {
			log.Error("clearing missing marks failed", "count", len(restore), "error", err)
			result.Failed += len(restore)
		} else {
			result.Restored = int(n)
		}
	}

	if walkErr != nil {
		log.Error("scan aborted", "error", walkErr, "processed", result.Processed)
		return result, &ScanError{Root: root, Err: walkErr}
	}

	for _, rec := range existing {
		if seen[rec.FilePath] || underAny(rec.FilePath, skippedDirs) {
			continue
		}
		seen[rec.FilePath] = true
		log.Warn("file no longer exists", "path", rec.FilePath)
		result.Removed = append(result.Removed, rec.FilePath)
	}
	s.applyStalePolicy(log, result)

	log.Info("scan completed",
		"processed", result.Processed,
		"added", result.Added,
		"updated", result.Updated,
		"unchanged", result.Unchanged,
		"skipped", result.Skipped,
		"failed", result.Failed,
		"removed", len(result.Removed),
		"duration", time.Since(start).Round(time.Millisecond))
	return result, nil
}

// underAny reports whether path lies in one of dirs. Records in a directory
// the walk could not read are unknown, not gone.
func underAny(path string, dirs []string) bool {
	for _, dir := range dirs {
		if utils.IsUnder(path, dir) {
			return true
		}
	}
	return false
}

func (s *Scanner) applyStalePolicy(log *slog.Logger, result *models.ScanResult) {
	if len(result.Removed) == 0 {
		return
	}
	switch s.config.StalePolicy {
	case config.StaleSoftDelete:
		n, err := s.catalog.MarkMissing(result.Removed)
		if err != nil {
			log.Error("marking missing records failed", "error", err)
			result.Failed += len(result.Removed)
			return
		}
		result.Marked = int(n)
	case config.StaleHardDelete:
		if s.config.ConfirmRemoval != nil && !s.config.ConfirmRemoval(result.Removed) {
			log.Info("removal declined, records retained", "count", len(result.Removed))
			return
		}
		n, err := s.catalog.DeleteRecords(result.Removed)
		if err != nil {
			log.Error("deleting records failed", "error", err)
			result.Failed += len(result.Removed)
			return
		}
		result.Deleted = int(n)
	}
}

// Summary derives counts for the visible catalog records under root.
func (s *Scanner) Summary(root string) (*models.ScanSummary, error) {
	root, err := absRoot(root)
	if err != nil {
		return nil, err
	}
	records, err := s.catalog.RecordsUnder(root)
	if err != nil {
		s.log.Error("scan summary failed", "root", root, "error", err)
		return nil, err
	}

	summary := &models.ScanSummary{Root: root, TypeCounts: make(map[string]int)}
	for i := range records {
		rec := &records[i]
		if rec.MissingSince != nil {
			continue
		}
		summary.TotalFiles++
		fileType := rec.FileType
		if fileType == "" {
			fileType = utils.DefaultFileType
		}
		summary.TypeCounts[fileType]++
		if rec.FullyTagged() {
			summary.TaggedFiles++
		}
	}
	summary.UntaggedFiles = summary.TotalFiles - summary.TaggedFiles
	return summary, nil
}

// CountFiles returns how many non-directory entries lie under root.
// Unreadable subdirectories are skipped.
func CountFiles(root string) (int, error) {
	root, err := checkRoot(root)
	if err != nil {
		return 0, err
	}
	var n int
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			n++
		}
		return nil
	})
	return n, err
}
