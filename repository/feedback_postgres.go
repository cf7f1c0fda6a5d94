package repository

import (
	"context"
	"fmt"

	"reguguard-backend/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresFeedbackRepository handles database operations for feedback events
type PostgresFeedbackRepository struct {
	db *pgxpool.Pool
}

// NewPostgresFeedbackRepository creates a new feedback repository
func NewPostgresFeedbackRepository(db *pgxpool.Pool) *PostgresFeedbackRepository {
	return &PostgresFeedbackRepository{db: db}
}

// Append inserts an event
func (r *PostgresFeedbackRepository) Append(ctx context.Context, ev *models.FeedbackEvent) error {
	query := `
		INSERT INTO feedback_events (
			id, analysis_id, approval_key, action, suggestion, area, issue, status, risk_level, diff, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.Exec(
		ctx, query,
		ev.ID,
		ev.AnalysisID,
		ev.Key,
		string(ev.Action),
		ev.Suggestion,
		ev.Area,
		ev.Issue,
		string(ev.Status),
		string(ev.RiskLevel),
		ev.Diff,
		ev.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("append feedback event: %w", err)
	}
	return nil
}

// ListByAnalysis retrieves the events of an analysis in insertion order
func (r *PostgresFeedbackRepository) ListByAnalysis(ctx context.Context, analysisID string) ([]models.FeedbackEvent, error) {
	query := `
		SELECT id, analysis_id, approval_key, action, suggestion, area, issue, status, risk_level, diff, created_at
		FROM feedback_events
		WHERE analysis_id = $1
		ORDER BY seq ASC`

	rows, err := r.db.Query(ctx, query, analysisID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []models.FeedbackEvent{}
	for rows.Next() {
		var ev models.FeedbackEvent
		var action, status, risk string
		err := rows.Scan(
			&ev.ID,
			&ev.AnalysisID,
			&ev.Key,
			&action,
			&ev.Suggestion,
			&ev.Area,
			&ev.Issue,
			&status,
			&risk,
			&ev.Diff,
			&ev.Timestamp,
		)
		if err != nil {
			return nil, err
		}
		ev.Action = models.FeedbackAction(action)
		ev.Status = models.ComplianceStatus(status)
		ev.RiskLevel = models.RiskLevel(risk)
		events = append(events, ev)
	}

	return events, rows.Err()
}
