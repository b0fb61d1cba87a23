// Package backup uploads catalog snapshots to an S3-compatible bucket.
package backup

import (
	"context"
	"crypto/tls"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"golang.org/x/crypto/blake2b"

	"github.com/CDMG-DanEmma/DMS/internal/config"
	"github.com/CDMG-DanEmma/DMS/internal/logging"
)

// ChecksumKey is the object user-metadata key holding the snapshot digest.
const ChecksumKey = "checksum-blake2b256"

const contentType = "application/vnd.sqlite3"

// Snapshotter writes a consistent copy of the catalog to dest.
type Snapshotter interface {
	Snapshot(dest string) error
}

// Result describes one uploaded snapshot.
type Result struct {
	Bucket   string
	Key      string
	Size     int64
	Checksum string
}

// Uploader handles catalog backup uploads
type Uploader struct {
	client *minio.Client
	bucket string
	folder string
	log    *slog.Logger
	now    func() time.Time
}

// New creates an uploader for the configured bucket.
func New(cfg config.BackupConfig, logger *slog.Logger) (*Uploader, error) {
	if !cfg.Enabled() {
		return nil, errors.New("backup endpoint and bucket are not configured")
	}
	if logger == nil {
		logger = logging.Discard()
	}

	tr := &http.Transport{
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:       !cfg.Insecure,
		Transport:    tr,
		BucketLookup: minio.BucketLookupAuto,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MinIO client: %v", err)
	}

	return &Uploader{
		client: client,
		bucket: cfg.Bucket,
		folder: cfg.Folder,
		log:    logger.With("component", "backup"),
		now:    time.Now,
	}, nil
}

// ObjectKey names the snapshot taken at t: <folder>/dms-<yyyymmdd-hhmmss>.db in UTC.
func ObjectKey(folder string, t time.Time) string {
	name := "dms-" + t.UTC().Format("20060102-150405") + ".db"
	if folder == "" {
		return name
	}
	return path.Join(folder, name)
}

// Checksum returns the hex BLAKE2b-256 digest of r and the byte count read.
func Checksum(r io.Reader) (string, int64, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return "", 0, err
	}
	n, err := io.Copy(h, r)
	if err != nil {
		return "", n, err
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}

// Backup snapshots src into a temporary file and uploads it.
func (u *Uploader) Backup(ctx context.Context, src Snapshotter) (*Result, error) {
	dir, err := os.MkdirTemp("", "dms-backup-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	snap := filepath.Join(dir, "dms.db")
	if err := src.Snapshot(snap); err != nil {
		return nil, fmt.Errorf("failed to snapshot catalog: %w", err)
	}
	return u.Upload(ctx, snap)
}

// Upload puts the snapshot file at snap into the bucket with its checksum
// attached as user metadata.
func (u *Uploader) Upload(ctx context.Context, snap string) (*Result, error) {
	f, err := os.Open(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot %s: %v", snap, err)
	}
	defer f.Close()

	sum, size, err := Checksum(f)
	if err != nil {
		return nil, fmt.Errorf("failed to checksum snapshot: %v", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	key := ObjectKey(u.folder, u.now())
	start := time.Now()
	_, err = u.client.PutObject(ctx, u.bucket, key, f, size, minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: map[string]string{ChecksumKey: sum},
	})
	if err != nil {
		u.log.Error("upload failed", "bucket", u.bucket, "key", key, "error", err)
		return nil, fmt.Errorf("failed to upload snapshot: %v", err)
	}

	u.log.Info("snapshot uploaded",
		"bucket", u.bucket,
		"key", key,
		"size", size,
		"checksum", sum,
		"duration", time.Since(start).Round(time.Millisecond))
	return &Result{Bucket: u.bucket, Key: key, Size: size, Checksum: sum}, nil
}
