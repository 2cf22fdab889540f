package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/roadwise/roadwise/utils"
)

// FilesystemBlobStore implements BlobStore using the local filesystem.
type FilesystemBlobStore struct {
	dir string
}

var _ BlobStore = (*FilesystemBlobStore)(nil)

// NewFilesystemBlobStore creates a new FilesystemBlobStore with the given directory.
// The directory will be created if it does not exist.
func NewFilesystemBlobStore(dir string) (*FilesystemBlobStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FilesystemBlobStore{dir: dir}, nil
}

// Put stores the blob as a file under the directory. Returns a file:// URL.
func (f *FilesystemBlobStore) Put(ctx context.Context, data []byte, mime, key string) (string, error) {
	if key == "" {
		key = fmt.Sprintf("blob-%d", time.Now().UnixNano())
	}
	path := filepath.Join(f.dir, filepath.FromSlash(filepath.Clean("/"+key)))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	// Write atomically
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return "", err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return "", err
	}
	return "file://" + path, nil
}

// Get retrieves the blob from a file:// URL inside the directory.
func (f *FilesystemBlobStore) Get(ctx context.Context, url string) ([]byte, error) {
	const prefix = "file://"
	if !strings.HasPrefix(url, prefix) {
		return nil, utils.Errorf("invalid file URL: %s", url)
	}
	path := filepath.Clean(url[len(prefix):])
	rel, err := filepath.Rel(f.dir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return nil, utils.Errorf("file URL outside blob directory: %s", url)
	}
	return os.ReadFile(path)
}
