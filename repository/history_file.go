package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"reguguard-backend/models"
)

// FileHistoryRepository keeps history as JSON lines in a single file
type FileHistoryRepository struct {
	path string
}

// NewFileHistoryRepository creates a file-backed history repository
func NewFileHistoryRepository(path string) *FileHistoryRepository {
	return &FileHistoryRepository{path: path}
}

// Save appends a record
func (r *FileHistoryRepository) Save(ctx context.Context, rec *models.HistoryRecord) error {
	if err := appendJSONLine(r.path, rec); err != nil {
		return fmt.Errorf("save history record: %w", err)
	}
	return nil
}

func (r *FileHistoryRepository) all() ([]models.HistoryRecord, error) {
	var records []models.HistoryRecord
	err := readJSONLines(r.path, func(line []byte) error {
		var rec models.HistoryRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			return err
		}
		if rec.AnalysisID == "" {
			return nil
		}
		records = append(records, rec)
		return nil
	})
	return records, err
}

// List returns summaries newest first
func (r *FileHistoryRepository) List(ctx context.Context, limit int) ([]models.HistorySummary, error) {
	records, err := r.all()
	if err != nil {
		return nil, err
	}
	out := make([]models.HistorySummary, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, records[i].Summary())
	}
	return out, nil
}

// Get returns the most recent record with the id
func (r *FileHistoryRepository) Get(ctx context.Context, analysisID string) (*models.HistoryRecord, error) {
	records, err := r.all()
	if err != nil {
		return nil, err
	}
	for i := len(records) - 1; i >= 0; i-- {
		if records[i].AnalysisID == analysisID {
			return &records[i], nil
		}
	}
	return nil, ErrAnalysisNotFound
}

// Delete removes every line for the id, rewriting the file
func (r *FileHistoryRepository) Delete(ctx context.Context, analysisID string) error {
	return withFileLock(r.path, func() error {
		var kept [][]byte
		found := false
		err := readJSONLines(r.path, func(line []byte) error {
			var head struct {
				AnalysisID string `json:"analysis_id"`
			}
			if json.Unmarshal(line, &head) == nil && head.AnalysisID == analysisID {
				found = true
				return nil
			}
			kept = append(kept, append([]byte(nil), line...))
			return nil
		})
		if err != nil {
			return err
		}
		if !found {
			return ErrAnalysisNotFound
		}
		return rewriteLines(r.path, kept)
	})
}

// Clear removes all history
func (r *FileHistoryRepository) Clear(ctx context.Context) error {
	if err := ensureDir(r.path); err != nil {
		return err
	}
	return withFileLock(r.path, func() error {
		return rewriteLines(r.path, nil)
	})
}
