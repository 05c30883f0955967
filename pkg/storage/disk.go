// Package storage holds uploaded menu images. Two drivers are available:
//   - "local": files under STORAGE_LOCAL_ROOT, served back at /storage/
//   - "s3":    S3-compatible object storage (AWS S3, MinIO, R2, Spaces)
//
//	disk, _ := storage.Open(ctx, config.StorageDefault())
//	_ = disk.Put(ctx, "menu/abc.jpg", file, "image/jpeg")
//	url := disk.URL("menu/abc.jpg")
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/shashiranjanraj/dinehub/config"
)

// ErrInvalidPath is returned for empty keys or keys escaping the disk root.
var ErrInvalidPath = errors.New("storage: invalid path")

// Disk is the driver interface every backend implements.
type Disk interface {
	// Put writes r to key, replacing any existing object.
	Put(ctx context.Context, key string, r io.Reader, contentType string) error

	// Exists reports whether key is present.
	Exists(ctx context.Context, key string) bool

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// URL returns the public URL for key.
	URL(key string) string
}

// Open builds the named disk from config.
func Open(ctx context.Context, driver string) (Disk, error) {
	switch driver {
	case "", "local":
		return NewLocal(config.StorageLocalRoot(), config.StorageURL())
	case "s3":
		return NewS3(ctx, S3Options{
			Bucket:   config.StorageS3Bucket(),
			Region:   config.StorageS3Region(),
			Key:      config.StorageS3Key(),
			Secret:   config.StorageS3Secret(),
			Endpoint: config.StorageS3Endpoint(),
			BaseURL:  config.StorageS3URL(),
		})
	default:
		return nil, fmt.Errorf("storage: unknown disk %q (supported: local, s3)", driver)
	}
}

// cleanKey normalises key to a slash-separated relative path.
func cleanKey(key string) (string, error) {
	k := path.Clean("/" + strings.ReplaceAll(key, "\\", "/"))
	k = strings.TrimPrefix(k, "/")
	if k == "" || k == "." {
		return "", ErrInvalidPath
	}
	return k, nil
}
