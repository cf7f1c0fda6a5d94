package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrObjectNotFound is returned when a key does not exist
var ErrObjectNotFound = errors.New("object not found")

// Storage interface for object storage operations
type Storage interface {
	// Upload stores data under key, replacing any existing object
	Upload(ctx context.Context, key string, data io.Reader) error

	// Download retrieves the object stored under key
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the object stored under key
	Delete(ctx context.Context, key string) error
}

// StorageType represents the storage backend type
type StorageType string

const (
	StorageTypeLocal StorageType = "local"
	StorageTypeS3    StorageType = "s3"
)

// RegulationCacheKey is where the last scraped corpus is kept
const RegulationCacheKey = "cache/regulations.json"

// StorageConfig holds configuration for storage
type StorageConfig struct {
	Type         StorageType
	LocalPath    string // For local storage
	S3Bucket     string // For S3 storage
	S3Region     string // For S3 storage
	AWSAccessKey string
	AWSSecretKey string
}

// NewStorage creates a new storage instance based on configuration
func NewStorage(cfg StorageConfig) (Storage, error) {
	switch cfg.Type {
	case StorageTypeLocal, "":
		localPath := cfg.LocalPath
		if localPath == "" {
			localPath = "./storage/files"
		}
		return NewLocalStorage(localPath)
	case StorageTypeS3:
		if cfg.S3Bucket == "" {
			return nil, errors.New("AWS_S3_BUCKET is required for S3 storage")
		}
		if cfg.S3Region == "" {
			cfg.S3Region = "us-east-1"
		}
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// DocumentKey is the key of an uploaded source document
func DocumentKey(analysisID uuid.UUID, filename string) string {
	return path.Join("documents", analysisID.String(), sanitizeFilename(filename))
}

// ExportKey is the key of a generated export
func ExportKey(analysisID, filename string) string {
	return path.Join("exports", analysisID, sanitizeFilename(filename))
}

// sanitizeFilename keeps a filename usable as a single key segment
func sanitizeFilename(filename string) string {
	filename = filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	if filename == "." || filename == "/" {
		return "document"
	}
	ext := filepath.Ext(filename)
	baseName := strings.TrimSuffix(filename, ext)
	baseName = strings.ReplaceAll(baseName, " ", "_")
	if baseName == "" || baseName == "." || baseName == "/" {
		baseName = "document"
	}
	return baseName + ext
}

// validKey rejects keys that would escape the storage root
func validKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") {
		return fmt.Errorf("invalid storage key %q", key)
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." {
			return fmt.Errorf("invalid storage key %q", key)
		}
	}
	return nil
}
