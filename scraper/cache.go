package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"reguguard-backend/models"
	"reguguard-backend/storage"
)

// Cache persists the last fetched corpus.
type Cache interface {
	Load(ctx context.Context) ([]models.Regulation, error)
	Save(ctx context.Context, regs []models.Regulation) error
}

// StorageCache keeps the corpus as a JSON object in object storage.
type StorageCache struct {
	store storage.Storage
	key   string
}

// NewStorageCache creates a cache stored under storage.RegulationCacheKey.
func NewStorageCache(store storage.Storage) *StorageCache {
	return &StorageCache{store: store, key: storage.RegulationCacheKey}
}

// Load returns the cached corpus. A missing cache is empty, not an error.
func (c *StorageCache) Load(ctx context.Context) ([]models.Regulation, error) {
	rc, err := c.store.Download(ctx, c.key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, nil
		}
		return nil, err
	}
	defer rc.Close()

	var regs []models.Regulation
	if err := json.NewDecoder(rc).Decode(&regs); err != nil {
		return nil, fmt.Errorf("failed to decode regulation cache: %w", err)
	}
	return regs, nil
}

// Save replaces the cached corpus.
func (c *StorageCache) Save(ctx context.Context, regs []models.Regulation) error {
	data, err := json.MarshalIndent(regs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode regulation cache: %w", err)
	}
	return c.store.Upload(ctx, c.key, bytes.NewReader(data))
}
