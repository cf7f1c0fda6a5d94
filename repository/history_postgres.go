package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"reguguard-backend/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresHistoryRepository handles database operations for analysis history
type PostgresHistoryRepository struct {
	db *pgxpool.Pool
}

// NewPostgresHistoryRepository creates a new history repository
func NewPostgresHistoryRepository(db *pgxpool.Pool) *PostgresHistoryRepository {
	return &PostgresHistoryRepository{db: db}
}

// Save inserts a history record, replacing an existing one with the same id
func (r *PostgresHistoryRepository) Save(ctx context.Context, rec *models.HistoryRecord) error {
	report, err := json.Marshal(rec.FullAnalysis)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	query := `
		INSERT INTO analysis_history (
			analysis_id, created_at, document_name, domain, compliance_score, risk_level,
			analysis_method, num_findings, sop_text_preview, full_analysis, sop_text,
			regulations_count, report_digest, document_key
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (analysis_id) DO UPDATE SET
			created_at = EXCLUDED.created_at,
			document_name = EXCLUDED.document_name,
			domain = EXCLUDED.domain,
			compliance_score = EXCLUDED.compliance_score,
			risk_level = EXCLUDED.risk_level,
			analysis_method = EXCLUDED.analysis_method,
			num_findings = EXCLUDED.num_findings,
			sop_text_preview = EXCLUDED.sop_text_preview,
			full_analysis = EXCLUDED.full_analysis,
			sop_text = EXCLUDED.sop_text,
			regulations_count = EXCLUDED.regulations_count,
			report_digest = EXCLUDED.report_digest,
			document_key = EXCLUDED.document_key`

	_, err = r.db.Exec(
		ctx, query,
		rec.AnalysisID,
		rec.Timestamp,
		rec.DocumentName,
		rec.Domain,
		rec.ComplianceScore,
		string(rec.RiskLevel),
		rec.AnalysisMethod,
		rec.NumFindings,
		rec.SOPTextPreview,
		report,
		rec.SOPText,
		rec.RegulationsCount,
		rec.ReportDigest,
		rec.DocumentKey,
	)
	if err != nil {
		return fmt.Errorf("save history record: %w", err)
	}
	return nil
}

// List retrieves summaries, newest first
func (r *PostgresHistoryRepository) List(ctx context.Context, limit int) ([]models.HistorySummary, error) {
	query := `
		SELECT analysis_id, created_at, document_name, domain, compliance_score, risk_level,
			analysis_method, num_findings, sop_text_preview
		FROM analysis_history
		ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := []models.HistorySummary{}
	for rows.Next() {
		var s models.HistorySummary
		var risk string
		err := rows.Scan(
			&s.AnalysisID,
			&s.Timestamp,
			&s.DocumentName,
			&s.Domain,
			&s.ComplianceScore,
			&risk,
			&s.AnalysisMethod,
			&s.NumFindings,
			&s.SOPTextPreview,
		)
		if err != nil {
			return nil, err
		}
		s.RiskLevel = models.RiskLevel(risk)
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}

// Get retrieves a full record by analysis id
func (r *PostgresHistoryRepository) Get(ctx context.Context, analysisID string) (*models.HistoryRecord, error) {
	rec := &models.HistoryRecord{}
	var risk string
	var report []byte
	query := `
		SELECT analysis_id, created_at, document_name, domain, compliance_score, risk_level,
			analysis_method, num_findings, sop_text_preview, full_analysis, sop_text,
			regulations_count, report_digest, document_key
		FROM analysis_history
		WHERE analysis_id = $1`

	err := r.db.QueryRow(ctx, query, analysisID).Scan(
		&rec.AnalysisID,
		&rec.Timestamp,
		&rec.DocumentName,
		&rec.Domain,
		&rec.ComplianceScore,
		&risk,
		&rec.AnalysisMethod,
		&rec.NumFindings,
		&rec.SOPTextPreview,
		&report,
		&rec.SOPText,
		&rec.RegulationsCount,
		&rec.ReportDigest,
		&rec.DocumentKey,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAnalysisNotFound
	}
	if err != nil {
		return nil, err
	}
	rec.RiskLevel = models.RiskLevel(risk)
	if len(report) > 0 && string(report) != "null" {
		rec.FullAnalysis = &models.Report{}
		if err := json.Unmarshal(report, rec.FullAnalysis); err != nil {
			return nil, fmt.Errorf("decode report: %w", err)
		}
	}

	return rec, nil
}

// Delete removes a record
func (r *PostgresHistoryRepository) Delete(ctx context.Context, analysisID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM analysis_history WHERE analysis_id = $1`, analysisID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAnalysisNotFound
	}
	return nil
}

// Clear removes all records
func (r *PostgresHistoryRepository) Clear(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `DELETE FROM analysis_history`)
	return err
}
