// Package assets abstracts the read-only file collections the catalog serves:
// compound images and downloadable molecule files. Keys are relative,
// slash-separated names inside one collection.
package assets

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jo-hoe/sialiccatalog/internal/common"
)

// Driver identifies a storage backend.
type Driver string

const (
	DriverFilesystem Driver = "fs"
	DriverS3         Driver = "s3"
)

// Info describes a stored asset.
type Info struct {
	Key          string
	Size         int64
	ContentType  string
	LastModified time.Time
}

// Store is a read-only asset collection.
type Store interface {
	// Exists reports whether key names a stored asset. A missing asset is not an error.
	Exists(ctx context.Context, key string) (bool, error)
	// Open returns the asset content. Missing assets yield an error wrapping common.ErrNotFound.
	Open(ctx context.Context, key string) (io.ReadCloser, Info, error)
	Driver() Driver
}

func notFound(key string) error {
	return fmt.Errorf("asset %q: %w", key, common.ErrNotFound)
}

// sanitizeKey rejects keys that could escape the collection root.
func sanitizeKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("empty key")
	}
	if strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", fmt.Errorf("invalid key %q", key)
	}
	// dots inside a name are fine; only a ".." segment climbs out of the root
	for _, segment := range strings.Split(key, "/") {
		if segment == ".." {
			return "", fmt.Errorf("invalid key %q contains a '..' segment", key)
		}
	}
	return key, nil
}
