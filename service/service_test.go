package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"reguguard-backend/export"
	"reguguard-backend/models"
	"reguguard-backend/repository"
	"reguguard-backend/storage"
)

type fixture struct {
	analysis *AnalysisService
	review   *ReviewService
	export   *ExportService
	history  *HistoryService
	store    *storage.LocalStorage
	sample   string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(filepath.Join(dir, "files"))
	if err != nil {
		t.Fatal(err)
	}
	historyRepo := repository.NewFileHistoryRepository(filepath.Join(dir, "history.jsonl"))
	feedbackRepo := repository.NewFileFeedbackRepository(filepath.Join(dir, "feedback.jsonl"))
	clock := func() time.Time { return time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC) }

	review := NewReviewService(
		ReviewWithHistoryRepository(historyRepo),
		ReviewWithFeedbackRepository(feedbackRepo),
		ReviewWithClock(clock),
	)
	sample, err := os.ReadFile("../testdata/acme_sop.txt")
	if err != nil {
		t.Fatal(err)
	}
	return &fixture{
		analysis: NewAnalysisService(
			WithHistoryRepository(historyRepo),
			WithStorage(store),
			WithClock(clock),
		),
		review: review,
		export: NewExportService(
			ExportWithHistoryRepository(historyRepo),
			ExportWithReviewService(review),
			ExportWithStorage(store),
			ExportWithClock(clock),
		),
		history: NewHistoryService(historyRepo, store, nil),
		store:   store,
		sample:  string(sample),
	}
}

func (f *fixture) analyze(t *testing.T) *AnalyzeResult {
	t.Helper()
	res, err := f.analysis.Analyze(context.Background(), AnalyzeRequest{
		Data:     []byte(f.sample),
		Filename: "acme_sop.txt",
		Offline:  true,
	})
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func TestAnalysisService_Analyze(t *testing.T) {
	f := newFixture(t)
	res := f.analyze(t)

	if !res.Saved || res.AnalysisID == "" {
		t.Fatalf("result not saved: %+v", res)
	}
	if !res.SOP.IsSOP || res.RegulationsCount != 12 {
		t.Errorf("sop = %+v, regulations = %d", res.SOP, res.RegulationsCount)
	}
	if res.Report == nil || len(res.Report.Findings) == 0 || len(res.Sections) == 0 {
		t.Fatalf("report = %+v", res.Report)
	}

	entry, err := f.history.Get(context.Background(), res.AnalysisID)
	if err != nil {
		t.Fatal(err)
	}
	if !entry.DigestVerified {
		t.Error("stored report digest does not verify")
	}
	if entry.ComplianceScore != res.Report.OverallScore || entry.DocumentName != "acme_sop.txt" {
		t.Errorf("entry = %+v", entry.HistoryRecord)
	}
	if len([]rune(entry.SOPTextPreview)) > 200 || !strings.HasPrefix(f.sample, entry.SOPTextPreview) {
		t.Errorf("preview = %q", entry.SOPTextPreview)
	}
	if entry.DocumentKey == "" {
		t.Fatal("document not stored")
	}
	rc, err := f.store.Download(context.Background(), entry.DocumentKey)
	if err != nil {
		t.Fatal(err)
	}
	rc.Close()
}

func TestAnalysisService_SOPGate(t *testing.T) {
	f := newFixture(t)
	story := "Once upon a time the protagonist ignored every policy and procedure. The end came quickly for everyone involved in the tale."

	_, err := f.analysis.AnalyzeText(context.Background(), story, AnalyzeRequest{Offline: true})
	if !errors.Is(err, ErrNotSOP) {
		t.Fatalf("err = %v, want ErrNotSOP", err)
	}
	var notSOP *NotSOPError
	if !errors.As(err, &notSOP) || notSOP.Classification.Reason == "" {
		t.Errorf("gate verdict missing: %v", err)
	}

	res, err := f.analysis.AnalyzeText(context.Background(), story, AnalyzeRequest{Offline: true, Force: true, Domain: "Finance"})
	if err != nil {
		t.Fatal(err)
	}
	if res.SOP.IsSOP || res.Domain.Domain != "Finance" || res.Domain.Confidence != 1 {
		t.Errorf("forced result = %+v / %+v", res.SOP, res.Domain)
	}
	if res.DocumentName != defaultDocumentName {
		t.Errorf("document name = %q", res.DocumentName)
	}
}

func TestAnalysisService_Classify(t *testing.T) {
	f := newFixture(t)
	res, err := f.analysis.Classify(context.Background(), AnalyzeRequest{Text: f.sample})
	if err != nil {
		t.Fatal(err)
	}
	if !res.SOP.IsSOP || res.Domain.Domain == "" {
		t.Errorf("classification = %+v", res)
	}
	if _, err := f.analysis.Classify(context.Background(), AnalyzeRequest{Data: []byte("x"), Filename: "a.exe"}); err == nil {
		t.Error("unsupported upload accepted")
	}
}

func TestReviewService_Decide(t *testing.T) {
	f := newFixture(t)
	res := f.analyze(t)
	ctx := context.Background()
	first := res.Report.Findings[0]
	key := models.ApprovalKey(first.Area, 0)

	ev, err := f.review.Decide(ctx, DecideRequest{AnalysisID: res.AnalysisID, Key: key, Action: models.ActionApprove,
		EditedSuggestion: "All staff must complete annual training."})
	if err != nil {
		t.Fatal(err)
	}
	if ev.Suggestion != "All staff must complete annual training." || ev.Diff == "" || ev.Area != first.Area {
		t.Errorf("event = %+v", ev)
	}

	approvals, err := f.review.Approvals(ctx, res.AnalysisID)
	if err != nil {
		t.Fatal(err)
	}
	if len(approvals) != 1 || approvals[key].Suggestion != ev.Suggestion {
		t.Errorf("approvals = %+v", approvals)
	}

	if _, err := f.review.Decide(ctx, DecideRequest{AnalysisID: res.AnalysisID, Key: key, Action: models.ActionReject}); err != nil {
		t.Fatal(err)
	}
	approvals, _ = f.review.Approvals(ctx, res.AnalysisID)
	if len(approvals) != 0 {
		t.Errorf("reject did not clear approval: %+v", approvals)
	}
	events, _ := f.review.Events(ctx, res.AnalysisID)
	if len(events) != 2 {
		t.Errorf("events = %d", len(events))
	}

	tests := []struct {
		name string
		req  DecideRequest
		want error
	}{
		{"bad index", DecideRequest{AnalysisID: res.AnalysisID, Key: first.Area + "_999", Action: models.ActionApprove}, ErrFindingNotFound},
		{"area mismatch", DecideRequest{AnalysisID: res.AnalysisID, Key: "Nowhere_0", Action: models.ActionApprove}, ErrFindingNotFound},
		{"bad action", DecideRequest{AnalysisID: res.AnalysisID, Key: key, Action: "maybe"}, ErrInvalidAction},
		{"unknown analysis", DecideRequest{AnalysisID: "missing", Key: key, Action: models.ActionApprove}, repository.ErrAnalysisNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.review.Decide(ctx, tt.req); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestFoldApprovals(t *testing.T) {
	events := []models.FeedbackEvent{
		{Key: "Scope_1", Action: models.ActionApprove, Suggestion: "a"},
		{Key: "Purpose_0", Action: models.ActionApprove, Suggestion: "b"},
		{Key: "Scope_1", Action: models.ActionApprove, Suggestion: "c"},
		{Key: "Training_2", Action: models.ActionApprove, Suggestion: "d"},
		{Key: "Training_2", Action: models.ActionReject},
	}
	got := OrderedApprovals(FoldApprovals(events))
	if len(got) != 2 || got[0].Key != "Purpose_0" || got[1].Suggestion != "c" {
		t.Errorf("approvals = %+v", got)
	}
}

func TestExportService_Export(t *testing.T) {
	f := newFixture(t)
	res := f.analyze(t)
	ctx := context.Background()
	first := res.Report.Findings[0]
	if _, err := f.review.Decide(ctx, DecideRequest{AnalysisID: res.AnalysisID, Key: models.ApprovalKey(first.Area, 0),
		Action: models.ActionApprove, EditedSuggestion: "Records must be retained for seven years."}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		format, filename, contentType string
	}{
		{FormatXLSX, "acme_sop_audit.xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
		{FormatCSV, "acme_sop_audit.csv", "text/csv"},
		{FormatTXT, "acme_sop_updated.txt", "text/plain"},
		{FormatDOCX, "acme_sop_updated.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			out, err := f.export.Export(ctx, res.AnalysisID, tt.format)
			if err != nil {
				t.Fatal(err)
			}
			if out.Filename != tt.filename || len(out.Data) == 0 {
				t.Errorf("export = %q (%d bytes)", out.Filename, len(out.Data))
			}
			if !strings.HasPrefix(out.ContentType, tt.contentType) {
				t.Errorf("content type = %q", out.ContentType)
			}
			if out.StorageKey != storage.ExportKey(res.AnalysisID, tt.filename) {
				t.Errorf("storage key = %q", out.StorageKey)
			}
		})
	}

	txt, _ := f.export.Export(ctx, res.AnalysisID, "TXT")
	text := string(txt.Data)
	if !strings.Contains(text, export.AdditionHeader) || !strings.Contains(text, "Records must be retained for seven years.") {
		t.Error("approved suggestion missing from updated text")
	}
	if !strings.HasPrefix(text, strings.TrimSpace(f.sample)[:40]) {
		t.Error("updated text does not start with the original")
	}

	if _, err := f.export.Export(ctx, res.AnalysisID, "pptx"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("err = %v", err)
	}
	if _, err := f.export.Export(ctx, "missing", FormatCSV); !errors.Is(err, repository.ErrAnalysisNotFound) {
		t.Errorf("err = %v", err)
	}
}

func TestHistoryService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.analyze(t)
	b := f.analyze(t)

	list, err := f.history.List(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].AnalysisID != b.AnalysisID {
		t.Fatalf("list = %+v", list)
	}

	entry, _ := f.history.Get(ctx, a.AnalysisID)
	if err := f.history.Delete(ctx, a.AnalysisID); err != nil {
		t.Fatal(err)
	}
	if _, err := f.store.Download(ctx, entry.DocumentKey); !errors.Is(err, storage.ErrObjectNotFound) {
		t.Errorf("stored document not deleted: %v", err)
	}
	if err := f.history.Delete(ctx, a.AnalysisID); !errors.Is(err, repository.ErrAnalysisNotFound) {
		t.Errorf("err = %v", err)
	}

	if err := f.history.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	if list, _ := f.history.List(ctx, 10); len(list) != 0 {
		t.Errorf("after clear = %+v", list)
	}
}
