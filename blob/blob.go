// Package blob stores uploaded licence images.
package blob

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/roadwise/roadwise/config"
	"github.com/roadwise/roadwise/constants"
	"github.com/roadwise/roadwise/utils"
)

// BlobStore is the interface for pluggable blob storage backends.
type BlobStore interface {
	Put(ctx context.Context, data []byte, mime, key string) (url string, err error)
	Get(ctx context.Context, url string) ([]byte, error)
}

// New returns the BlobStore selected by cfg. An empty driver means filesystem.
func New(ctx context.Context, cfg config.BlobConfig) (BlobStore, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", constants.BlobDriverFilesystem:
		dir := cfg.Directory
		if dir == "" {
			dir = config.DefaultBlobDir
		}
		return NewFilesystemBlobStore(dir)
	case constants.BlobDriverS3:
		if cfg.Bucket == "" || cfg.Region == "" {
			return nil, utils.Errorf("s3 driver requires bucket and region")
		}
		return NewS3BlobStore(ctx, cfg.Bucket, cfg.Region)
	default:
		return nil, utils.Errorf("unsupported blob driver: %s", cfg.Driver)
	}
}

var mimeExtensions = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"image/gif":       ".gif",
	"application/pdf": ".pdf",
}

// LicenseKey returns a fresh object key for an uploaded licence image,
// keeping the extension of filename when it has one.
func LicenseKey(filename, mime string) string {
	ext := strings.ToLower(path.Ext(filename))
	if ext == "" || len(ext) > 5 {
		ext = mimeExtensions[mime]
	}
	return fmt.Sprintf("licenses/%s%s", uuid.NewString(), ext)
}
