package storage

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/andresuchdata/stockcast/internal/config"
)

// ObjectInfo describes a stored report.
type ObjectInfo struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// ObjectStorage keeps exported reports. ListObjects returns full keys,
// newest first.
type ObjectStorage interface {
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
	GetObject(ctx context.Context, key string) ([]byte, error)
	UploadObject(ctx context.Context, key string, data []byte) error
}

const (
	DriverLocal = "local"
	DriverS3    = "s3"
	DriverMinio = "minio"
)

// New builds the ObjectStorage selected by cfg.Driver.
func New(cfg config.StorageConfig) (ObjectStorage, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", DriverLocal:
		return NewLocalClient(cfg.ExportDir)
	case DriverS3:
		return NewS3Client(cfg)
	case DriverMinio:
		return NewMinioClient(context.Background(), cfg)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// fullKey restores the prefix that chartmuseum backends strip from listed
// paths.
func fullKey(prefix, key string) string {
	if prefix == "" || strings.HasPrefix(key, prefix) {
		return key
	}
	return path.Join(prefix, key)
}

func sortNewestFirst(objects []ObjectInfo) {
	sort.SliceStable(objects, func(i, j int) bool {
		if objects[i].LastModified.Equal(objects[j].LastModified) {
			return objects[i].Key > objects[j].Key
		}
		return objects[i].LastModified.After(objects[j].LastModified)
	})
}
