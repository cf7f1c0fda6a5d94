package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"reguguard-backend/models"
	"reguguard-backend/repository"

	"github.com/google/uuid"
	"github.com/sergi/go-diff/diffmatchpatch"
	"go.uber.org/zap"
)

var (
	// ErrFindingNotFound is returned when a feedback key addresses no finding
	ErrFindingNotFound = errors.New("finding not found")
	// ErrInvalidAction is returned for actions other than approve and reject
	ErrInvalidAction = errors.New("invalid feedback action")
)

// ReviewService records reviewer decisions on finding suggestions
type ReviewService struct {
	historyRepo  repository.HistoryRepository
	feedbackRepo repository.FeedbackRepository
	logger       *zap.SugaredLogger
	now          func() time.Time
}

// ReviewServiceOption is a functional option for ReviewService
type ReviewServiceOption func(*ReviewService)

// ReviewWithHistoryRepository sets the repository used to look up analyses
func ReviewWithHistoryRepository(repo repository.HistoryRepository) ReviewServiceOption {
	return func(s *ReviewService) {
		s.historyRepo = repo
	}
}

// ReviewWithFeedbackRepository sets the feedback log
func ReviewWithFeedbackRepository(repo repository.FeedbackRepository) ReviewServiceOption {
	return func(s *ReviewService) {
		s.feedbackRepo = repo
	}
}

// ReviewWithLogger sets the logger
func ReviewWithLogger(logger *zap.SugaredLogger) ReviewServiceOption {
	return func(s *ReviewService) {
		s.logger = logger
	}
}

// ReviewWithClock overrides the time source
func ReviewWithClock(now func() time.Time) ReviewServiceOption {
	return func(s *ReviewService) {
		s.now = now
	}
}

// NewReviewService creates a new review service
func NewReviewService(opts ...ReviewServiceOption) *ReviewService {
	s := &ReviewService{
		logger: zap.NewNop().Sugar(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DecideRequest represents a reviewer decision on one finding
type DecideRequest struct {
	AnalysisID string
	// Key is "{area}_{index}" where index is the finding position in the report
	Key    string
	Action models.FeedbackAction
	// EditedSuggestion replaces the generated suggestion on approval when set
	EditedSuggestion string
}

// Decide validates the decision against the stored report and appends it to the feedback log
func (s *ReviewService) Decide(ctx context.Context, req DecideRequest) (*models.FeedbackEvent, error) {
	if s.historyRepo == nil || s.feedbackRepo == nil {
		return nil, errors.New("review repositories not set")
	}
	if req.Action != models.ActionApprove && req.Action != models.ActionReject {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAction, req.Action)
	}

	rec, err := s.historyRepo.Get(ctx, req.AnalysisID)
	if err != nil {
		return nil, err
	}
	finding, err := findingForKey(rec.FullAnalysis, req.Key)
	if err != nil {
		return nil, err
	}

	suggestion := finding.Suggestion
	if edited := strings.TrimSpace(req.EditedSuggestion); edited != "" && req.Action == models.ActionApprove {
		suggestion = edited
	}
	ev := &models.FeedbackEvent{
		ID:         uuid.New(),
		AnalysisID: req.AnalysisID,
		Key:        req.Key,
		Action:     req.Action,
		Suggestion: suggestion,
		Area:       finding.Area,
		Issue:      finding.Issue,
		Status:     finding.Status,
		RiskLevel:  finding.RiskLevel,
		Timestamp:  s.now().UTC(),
	}
	if req.Action == models.ActionApprove {
		ev.Diff = SuggestionDiff(finding, suggestion)
	}

	if err := s.feedbackRepo.Append(ctx, ev); err != nil {
		return nil, err
	}
	s.logger.Infow("feedback recorded", "analysis_id", ev.AnalysisID, "key", ev.Key, "action", ev.Action)
	return ev, nil
}

// Events returns the raw feedback log of an analysis
func (s *ReviewService) Events(ctx context.Context, analysisID string) ([]models.FeedbackEvent, error) {
	if s.feedbackRepo == nil {
		return nil, errors.New("feedback repository not set")
	}
	return s.feedbackRepo.ListByAnalysis(ctx, analysisID)
}

// Approvals folds the feedback log into the current approvals. The last action
// for a key wins: approve sets it, reject clears it.
func (s *ReviewService) Approvals(ctx context.Context, analysisID string) (map[string]models.Approval, error) {
	events, err := s.Events(ctx, analysisID)
	if err != nil {
		return nil, err
	}
	return FoldApprovals(events), nil
}

// FoldApprovals applies events in order
func FoldApprovals(events []models.FeedbackEvent) map[string]models.Approval {
	approvals := make(map[string]models.Approval)
	for _, ev := range events {
		switch ev.Action {
		case models.ActionApprove:
			approvals[ev.Key] = models.Approval{
				Key:        ev.Key,
				Suggestion: ev.Suggestion,
				Timestamp:  ev.Timestamp,
				Area:       ev.Area,
				Issue:      ev.Issue,
				Status:     ev.Status,
				RiskLevel:  ev.RiskLevel,
			}
		case models.ActionReject:
			delete(approvals, ev.Key)
		}
	}
	return approvals
}

// OrderedApprovals lists approvals by finding index, then key
func OrderedApprovals(approvals map[string]models.Approval) []models.Approval {
	out := make([]models.Approval, 0, len(approvals))
	for _, a := range approvals {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		ii, ij := keyIndex(out[i].Key), keyIndex(out[j].Key)
		if ii != ij {
			return ii < ij
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// SuggestionDiff is a patch from the finding's section text (or its generated
// suggestion when the text is unknown) to the approved suggestion.
func SuggestionDiff(f models.Finding, suggestion string) string {
	base := f.Text
	if strings.TrimSpace(base) == "" {
		base = f.Suggestion
	}
	if base == suggestion {
		return ""
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(base, suggestion, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	patches := dmp.PatchMake(base, diffs)
	return dmp.PatchToText(patches)
}

func findingForKey(report *models.Report, key string) (models.Finding, error) {
	if report == nil {
		return models.Finding{}, fmt.Errorf("%w: analysis has no report", ErrFindingNotFound)
	}
	idx := keyIndex(key)
	if idx < 0 || idx >= len(report.Findings) {
		return models.Finding{}, fmt.Errorf("%w: %q", ErrFindingNotFound, key)
	}
	f := report.Findings[idx]
	if models.ApprovalKey(f.Area, idx) != key {
		return models.Finding{}, fmt.Errorf("%w: %q", ErrFindingNotFound, key)
	}
	return f, nil
}

func keyIndex(key string) int {
	i := strings.LastIndex(key, "_")
	if i < 0 {
		return -1
	}
	n, err := strconv.Atoi(key[i+1:])
	if err != nil {
		return -1
	}
	return n
}
