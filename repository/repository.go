// Package repository persists analysis history and reviewer feedback.
package repository

import (
	"context"
	"errors"

	"reguguard-backend/models"
)

// ErrAnalysisNotFound is returned when no history record has the requested id
var ErrAnalysisNotFound = errors.New("analysis not found")

// HistoryRepository stores one record per analysis run
type HistoryRepository interface {
	Save(ctx context.Context, rec *models.HistoryRecord) error
	// List returns summaries newest first; limit <= 0 returns all
	List(ctx context.Context, limit int) ([]models.HistorySummary, error)
	Get(ctx context.Context, analysisID string) (*models.HistoryRecord, error)
	Delete(ctx context.Context, analysisID string) error
	Clear(ctx context.Context) error
}

// FeedbackRepository is the append-only log of reviewer decisions
type FeedbackRepository interface {
	Append(ctx context.Context, ev *models.FeedbackEvent) error
	// ListByAnalysis returns events in the order they were appended
	ListByAnalysis(ctx context.Context, analysisID string) ([]models.FeedbackEvent, error)
}
