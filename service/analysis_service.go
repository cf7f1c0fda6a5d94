package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"time"

	"reguguard-backend/analyzer"
	"reguguard-backend/classifier"
	"reguguard-backend/extract"
	"reguguard-backend/llm"
	"reguguard-backend/models"
	"reguguard-backend/repository"
	"reguguard-backend/retrieval"
	"reguguard-backend/scraper"
	"reguguard-backend/segmenter"
	"reguguard-backend/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	historyPreviewLength = 200
	historyTextLength    = 5000
	defaultDocumentName  = "document.txt"
)

// ErrNotSOP is returned when the SOP gate rejects a document and the request is not forced
var ErrNotSOP = errors.New("document is not an SOP")

// NotSOPError carries the gate verdict of a rejected document
type NotSOPError struct {
	Classification models.SOPClassification
}

func (e *NotSOPError) Error() string {
	return ErrNotSOP.Error() + ": " + e.Classification.Reason
}

func (e *NotSOPError) Unwrap() error {
	return ErrNotSOP
}

// AnalysisService runs the full analysis pipeline
type AnalysisService struct {
	classifier  *classifier.Classifier
	scraper     *scraper.Scraper
	llmClient   llm.Client
	heuristic   *analyzer.Heuristic
	historyRepo repository.HistoryRepository
	store       storage.Storage
	logger      *zap.SugaredLogger
	now         func() time.Time
}

// AnalysisServiceOption is a functional option for AnalysisService
type AnalysisServiceOption func(*AnalysisService)

// WithClassifier sets the SOP and domain classifier
func WithClassifier(c *classifier.Classifier) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.classifier = c
	}
}

// WithScraper sets the regulation scraper
func WithScraper(sc *scraper.Scraper) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.scraper = sc
	}
}

// WithLLMClient sets the language model used when a request asks for AI analysis
func WithLLMClient(client llm.Client) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.llmClient = client
	}
}

// WithHeuristic sets the rule-based analyzer
func WithHeuristic(h *analyzer.Heuristic) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.heuristic = h
	}
}

// WithHistoryRepository sets where completed analyses are recorded
func WithHistoryRepository(repo repository.HistoryRepository) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.historyRepo = repo
	}
}

// WithStorage sets where uploaded documents are kept
func WithStorage(store storage.Storage) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.store = store
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.SugaredLogger) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.logger = logger
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.now = now
	}
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(opts ...AnalysisServiceOption) *AnalysisService {
	s := &AnalysisService{
		logger: zap.NewNop().Sugar(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.classifier == nil {
		s.classifier = classifier.New(classifier.WithLLM(s.llmClient), classifier.WithLogger(s.logger))
	}
	if s.scraper == nil {
		s.scraper = scraper.New(scraper.WithLogger(s.logger))
	}
	if s.heuristic == nil {
		s.heuristic = analyzer.NewHeuristic(nil)
	}
	return s
}

// AnalyzeRequest represents one document submitted for analysis
type AnalyzeRequest struct {
	// Data and Filename describe an uploaded file. Text is used when Data is empty.
	Data     []byte
	Filename string
	Text     string
	// Domain overrides detection when set
	Domain     string
	DomainOnly bool
	UseAI      bool
	// Force skips the SOP gate
	Force bool
	// Offline analyzes against the built-in fallback regulations instead of scraping
	Offline bool
}

// AnalyzeResult represents the outcome of an analysis run
type AnalyzeResult struct {
	AnalysisID       string                      `json:"analysis_id"`
	DocumentName     string                      `json:"document_name"`
	Report           *models.Report              `json:"report"`
	Sections         []models.Section            `json:"sections"`
	SOP              models.SOPClassification    `json:"sop_classification"`
	Domain           models.DomainClassification `json:"domain"`
	RegulationsCount int                         `json:"regulations_count"`
	Saved            bool                        `json:"saved"`
}

// ClassifyResult represents the gate and domain verdicts for a document
type ClassifyResult struct {
	SOP    models.SOPClassification    `json:"sop_classification"`
	Domain models.DomainClassification `json:"domain"`
}

// Domains lists the selectable domain labels
func (s *AnalysisService) Domains() []string {
	return s.classifier.Domains()
}

// DocumentText extracts the text of an uploaded file, or returns req.Text
func DocumentText(req AnalyzeRequest) (extract.Document, error) {
	if len(req.Data) > 0 {
		return extract.Extract(req.Data, req.Filename)
	}
	return extract.Document{FullText: req.Text}, nil
}

// Classify runs only the SOP gate and domain detection
func (s *AnalysisService) Classify(ctx context.Context, req AnalyzeRequest) (*ClassifyResult, error) {
	doc, err := DocumentText(req)
	if err != nil {
		return nil, err
	}
	return &ClassifyResult{
		SOP:    s.classifier.ClassifySOP(ctx, doc.FullText),
		Domain: s.detectDomain(ctx, doc.FullText, req.Domain),
	}, nil
}

// AnalyzeText analyzes raw text without a file upload
func (s *AnalysisService) AnalyzeText(ctx context.Context, text string, req AnalyzeRequest) (*AnalyzeResult, error) {
	req.Data = nil
	req.Text = text
	return s.Analyze(ctx, req)
}

// Analyze extracts, classifies, scrapes, analyzes and records one document
func (s *AnalysisService) Analyze(ctx context.Context, req AnalyzeRequest) (*AnalyzeResult, error) {
	doc, err := DocumentText(req)
	if err != nil {
		return nil, err
	}
	text := doc.FullText

	sop := s.classifier.ClassifySOP(ctx, text)
	if !sop.IsSOP && !req.Force {
		return nil, &NotSOPError{Classification: sop}
	}
	domain := s.detectDomain(ctx, text, req.Domain)

	var regulations []models.Regulation
	if req.Offline {
		regulations = scraper.FallbackRegulations()
	} else {
		regulations = s.scraper.Fetch(ctx, scraper.Sources(domain.Domain, req.DomainOnly))
	}
	s.logger.Infow("regulation corpus ready", "domain", domain.Domain, "regulations", len(regulations))

	var client llm.Client
	if req.UseAI {
		client = s.llmClient
	}
	sections := segmenter.Segment(text)
	report, err := analyzer.Select(client, s.heuristic, s.logger).Analyze(ctx, analyzer.Input{
		DocumentText: text,
		Sections:     sections,
		Retriever:    retrieval.Index(regulations),
		Domain:       domain.Domain,
	})
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	name := req.Filename
	if name == "" {
		name = defaultDocumentName
	}
	result := &AnalyzeResult{
		AnalysisID:       id.String(),
		DocumentName:     name,
		Report:           report,
		Sections:         sections,
		SOP:              sop,
		Domain:           domain,
		RegulationsCount: len(regulations),
	}
	result.Saved = s.record(ctx, id, req, result, text)
	return result, nil
}

func (s *AnalysisService) detectDomain(ctx context.Context, text, override string) models.DomainClassification {
	if override = strings.TrimSpace(override); override != "" {
		return models.DomainClassification{Domain: override, Confidence: 1, Reason: "Selected by user."}
	}
	return s.classifier.DetectDomain(ctx, text)
}

// record stores the document and the history entry. Failures are logged only.
func (s *AnalysisService) record(ctx context.Context, id uuid.UUID, req AnalyzeRequest, res *AnalyzeResult, text string) bool {
	if s.historyRepo == nil {
		return false
	}
	rec := &models.HistoryRecord{
		AnalysisID:       res.AnalysisID,
		Timestamp:        s.now().UTC(),
		DocumentName:     res.DocumentName,
		Domain:           res.Domain.Domain,
		ComplianceScore:  res.Report.OverallScore,
		RiskLevel:        res.Report.OverallRiskLevel,
		AnalysisMethod:   res.Report.AnalysisMethod,
		NumFindings:      len(res.Report.Findings),
		SOPTextPreview:   truncateRunes(text, historyPreviewLength),
		FullAnalysis:     res.Report,
		SOPText:          truncateRunes(text, historyTextLength),
		RegulationsCount: res.RegulationsCount,
	}
	if rec.Domain == "" {
		rec.Domain = classifier.GeneralDomain
	}

	if digest, err := repository.ReportDigest(res.Report); err != nil {
		s.logger.Warnw("report digest failed", "analysis_id", rec.AnalysisID, "error", err)
	} else {
		rec.ReportDigest = digest
	}

	if s.store != nil {
		data := req.Data
		if len(data) == 0 {
			data = []byte(text)
		}
		key := storage.DocumentKey(id, res.DocumentName)
		if err := s.store.Upload(ctx, key, bytes.NewReader(data)); err != nil {
			s.logger.Warnw("document upload failed", "analysis_id", rec.AnalysisID, "error", err)
		} else {
			rec.DocumentKey = key
		}
	}

	if err := s.historyRepo.Save(ctx, rec); err != nil {
		s.logger.Warnw("history save failed", "analysis_id", rec.AnalysisID, "error", err)
		return false
	}
	return true
}

func truncateRunes(s string, n int) string {
	if r := []rune(s); len(r) > n {
		return string(r[:n])
	}
	return s
}
