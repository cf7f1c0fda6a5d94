package service

import (
	"context"
	"errors"

	"reguguard-backend/models"
	"reguguard-backend/repository"
	"reguguard-backend/storage"

	"go.uber.org/zap"
)

// DefaultHistoryLimit is the list size used when none is given
const DefaultHistoryLimit = 50

// HistoryService reads and prunes past analyses
type HistoryService struct {
	historyRepo repository.HistoryRepository
	store       storage.Storage
	logger      *zap.SugaredLogger
}

// NewHistoryService creates a new history service. store may be nil.
func NewHistoryService(repo repository.HistoryRepository, store storage.Storage, logger *zap.SugaredLogger) *HistoryService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &HistoryService{historyRepo: repo, store: store, logger: logger}
}

// HistoryEntry is a stored analysis with its integrity check
type HistoryEntry struct {
	*models.HistoryRecord
	DigestVerified bool `json:"digest_verified"`
}

// List returns summaries, newest first
func (s *HistoryService) List(ctx context.Context, limit int) ([]models.HistorySummary, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return s.historyRepo.List(ctx, limit)
}

// Get returns one analysis and whether its report still matches the stored digest
func (s *HistoryService) Get(ctx context.Context, analysisID string) (*HistoryEntry, error) {
	rec, err := s.historyRepo.Get(ctx, analysisID)
	if err != nil {
		return nil, err
	}
	ok, err := repository.VerifyDigest(rec)
	if err != nil {
		s.logger.Warnw("report digest check failed", "analysis_id", analysisID, "error", err)
	}
	return &HistoryEntry{HistoryRecord: rec, DigestVerified: ok}, nil
}

// Delete removes an analysis and its stored document
func (s *HistoryService) Delete(ctx context.Context, analysisID string) error {
	rec, err := s.historyRepo.Get(ctx, analysisID)
	if err != nil {
		return err
	}
	if err := s.historyRepo.Delete(ctx, analysisID); err != nil {
		return err
	}
	s.deleteDocument(ctx, rec)
	return nil
}

// Clear removes every analysis
func (s *HistoryService) Clear(ctx context.Context) error {
	return s.historyRepo.Clear(ctx)
}

func (s *HistoryService) deleteDocument(ctx context.Context, rec *models.HistoryRecord) {
	if s.store == nil || rec.DocumentKey == "" {
		return
	}
	if err := s.store.Delete(ctx, rec.DocumentKey); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
		s.logger.Warnw("stored document delete failed", "analysis_id", rec.AnalysisID, "error", err)
	}
}
