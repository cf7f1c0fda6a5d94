package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"reguguard-backend/export"
	"reguguard-backend/extract"
	"reguguard-backend/models"
	"reguguard-backend/repository"
	"reguguard-backend/storage"

	"go.uber.org/zap"
)

// Export formats
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
	FormatTXT  = "txt"
	FormatDOCX = "docx"
)

// ErrUnsupportedFormat is returned for unknown export formats
var ErrUnsupportedFormat = errors.New("unsupported export format")

// ExportService renders stored analyses as downloadable files
type ExportService struct {
	historyRepo repository.HistoryRepository
	review      *ReviewService
	store       storage.Storage
	logger      *zap.SugaredLogger
	now         func() time.Time
}

// ExportServiceOption is a functional option for ExportService
type ExportServiceOption func(*ExportService)

// ExportWithHistoryRepository sets the repository used to look up analyses
func ExportWithHistoryRepository(repo repository.HistoryRepository) ExportServiceOption {
	return func(s *ExportService) {
		s.historyRepo = repo
	}
}

// ExportWithReviewService sets where approvals come from
func ExportWithReviewService(review *ReviewService) ExportServiceOption {
	return func(s *ExportService) {
		s.review = review
	}
}

// ExportWithStorage sets where source documents are read and exports are written
func ExportWithStorage(store storage.Storage) ExportServiceOption {
	return func(s *ExportService) {
		s.store = store
	}
}

// ExportWithLogger sets the logger
func ExportWithLogger(logger *zap.SugaredLogger) ExportServiceOption {
	return func(s *ExportService) {
		s.logger = logger
	}
}

// ExportWithClock overrides the time source
func ExportWithClock(now func() time.Time) ExportServiceOption {
	return func(s *ExportService) {
		s.now = now
	}
}

// NewExportService creates a new export service
func NewExportService(opts ...ExportServiceOption) *ExportService {
	s := &ExportService{
		logger: zap.NewNop().Sugar(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ExportResult is a rendered file
type ExportResult struct {
	Data        []byte
	Filename    string
	ContentType string
	// StorageKey is set when the file was also written to storage
	StorageKey string
}

// Export renders the analysis in the requested format
func (s *ExportService) Export(ctx context.Context, analysisID, format string) (*ExportResult, error) {
	if s.historyRepo == nil {
		return nil, errors.New("history repository not set")
	}
	format = strings.ToLower(strings.TrimSpace(format))
	switch format {
	case FormatXLSX, FormatCSV, FormatTXT, FormatDOCX:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	rec, err := s.historyRepo.Get(ctx, analysisID)
	if err != nil {
		return nil, err
	}
	report := rec.FullAnalysis
	if report == nil {
		report = &models.Report{}
	}
	approvals := map[string]models.Approval{}
	if s.review != nil {
		if approvals, err = s.review.Approvals(ctx, analysisID); err != nil {
			return nil, err
		}
	}
	doc := s.sourceDocument(ctx, rec)
	base := strings.TrimSuffix(filepath.Base(rec.DocumentName), filepath.Ext(rec.DocumentName))
	if base == "" || base == "." {
		base = "document"
	}

	res := &ExportResult{}
	switch format {
	case FormatXLSX, FormatCSV:
		rows := export.AuditRows(report.Findings, doc.FullText, doc.Pages, report.Citations, approvals, s.now())
		res.Filename = base + "_audit." + format
		if format == FormatXLSX {
			res.Data, err = export.BuildAuditWorkbook(rows)
		} else {
			res.Data, err = export.BuildAuditCSV(rows)
		}
	case FormatTXT, FormatDOCX:
		updated := export.BuildUpdatedText(doc.FullText, OrderedApprovals(approvals))
		res.Filename = base + "_updated." + format
		if format == FormatTXT {
			res.Data = []byte(updated)
		} else {
			res.Data, err = export.BuildDOCX(updated)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("render %s export: %w", format, err)
	}
	res.ContentType = storage.ContentType(res.Filename)

	if s.store != nil {
		key := storage.ExportKey(analysisID, res.Filename)
		if err := s.store.Upload(ctx, key, bytes.NewReader(res.Data)); err != nil {
			s.logger.Warnw("export upload failed", "analysis_id", analysisID, "error", err)
		} else {
			res.StorageKey = key
		}
	}
	return res, nil
}

// sourceDocument re-extracts the stored upload so exports see the full text and
// PDF pages. It falls back to the text kept in the history record.
func (s *ExportService) sourceDocument(ctx context.Context, rec *models.HistoryRecord) extract.Document {
	fallback := extract.Document{FullText: rec.SOPText}
	if s.store == nil || rec.DocumentKey == "" {
		return fallback
	}
	rc, err := s.store.Download(ctx, rec.DocumentKey)
	if err != nil {
		s.logger.Warnw("source document unavailable", "analysis_id", rec.AnalysisID, "error", err)
		return fallback
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		s.logger.Warnw("source document read failed", "analysis_id", rec.AnalysisID, "error", err)
		return fallback
	}
	doc, err := extract.Extract(data, rec.DocumentName)
	if err != nil {
		s.logger.Warnw("source document extraction failed", "analysis_id", rec.AnalysisID, "error", err)
		return fallback
	}
	return doc
}
