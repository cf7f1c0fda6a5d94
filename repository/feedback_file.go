package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"reguguard-backend/models"
)

// FileFeedbackRepository keeps feedback events as JSON lines
type FileFeedbackRepository struct {
	path string
}

// NewFileFeedbackRepository creates a file-backed feedback log
func NewFileFeedbackRepository(path string) *FileFeedbackRepository {
	return &FileFeedbackRepository{path: path}
}

// Append adds one event to the log
func (r *FileFeedbackRepository) Append(ctx context.Context, ev *models.FeedbackEvent) error {
	if err := appendJSONLine(r.path, ev); err != nil {
		return fmt.Errorf("append feedback event: %w", err)
	}
	return nil
}

// ListByAnalysis returns the events of one analysis in log order
func (r *FileFeedbackRepository) ListByAnalysis(ctx context.Context, analysisID string) ([]models.FeedbackEvent, error) {
	events := []models.FeedbackEvent{}
	err := readJSONLines(r.path, func(line []byte) error {
		var ev models.FeedbackEvent
		if err := json.Unmarshal(line, &ev); err != nil {
			return err
		}
		if ev.AnalysisID == analysisID {
			events = append(events, ev)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}
