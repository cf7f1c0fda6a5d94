package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reguguard-backend/repository"
	"reguguard-backend/service"
	"reguguard-backend/storage"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newTestRouter(t *testing.T, adminHash string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(filepath.Join(dir, "files"))
	if err != nil {
		t.Fatal(err)
	}
	historyRepo := repository.NewFileHistoryRepository(filepath.Join(dir, "history.jsonl"))
	feedbackRepo := repository.NewFileFeedbackRepository(filepath.Join(dir, "feedback.jsonl"))

	analysis := service.NewAnalysisService(
		service.WithHistoryRepository(historyRepo),
		service.WithStorage(store),
	)
	review := service.NewReviewService(
		service.ReviewWithHistoryRepository(historyRepo),
		service.ReviewWithFeedbackRepository(feedbackRepo),
	)
	exports := service.NewExportService(
		service.ExportWithHistoryRepository(historyRepo),
		service.ExportWithReviewService(review),
		service.ExportWithStorage(store),
	)
	history := service.NewHistoryService(historyRepo, store, nil)

	return NewRouter(
		NewAnalysisHandler(analysis, 1<<20),
		NewHistoryHandler(history, review, exports),
		AdminAuth("admin", adminHash),
	)
}

func do(t *testing.T, r http.Handler, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode %s: %v", w.Body.String(), err)
		}
	}
	return w, env
}

func jsonRequest(method, path string, body any) *http.Request {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func uploadRequest(t *testing.T, filename string, content []byte, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		mw.WriteField(k, v)
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		if err != nil {
			t.Fatal(err)
		}
		fw.Write(content)
	}
	mw.Close()
	req := httptest.NewRequest(http.MethodPost, "/api/analyses", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func sample(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile("../testdata/acme_sop.txt")
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestHealthAndSources(t *testing.T) {
	r := newTestRouter(t, "")

	w, _ := do(t, r, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("health = %d", w.Code)
	}

	w, env := do(t, r, httptest.NewRequest(http.MethodGet, "/api/sources?domain=Finance&domain_only=true", nil))
	if w.Code != http.StatusOK || !env.Success {
		t.Fatalf("sources = %d %s", w.Code, w.Body.String())
	}
	var data struct {
		Groups  []string          `json:"groups"`
		Sources []json.RawMessage `json:"sources"`
	}
	json.Unmarshal(env.Data, &data)
	if len(data.Groups) != 1 || data.Groups[0] != "Financial / Banking" || len(data.Sources) != 3 {
		t.Errorf("data = %s", env.Data)
	}

	w, env = do(t, r, httptest.NewRequest(http.MethodGet, "/api/sources?domain_only=perhaps", nil))
	if w.Code != http.StatusBadRequest || env.Error.Code != "INVALID_REQUEST" {
		t.Errorf("bad flag = %d %+v", w.Code, env.Error)
	}
}

func TestClassify(t *testing.T) {
	r := newTestRouter(t, "")

	w, env := do(t, r, jsonRequest(http.MethodPost, "/api/classify", gin.H{"text": string(sample(t))}))
	if w.Code != http.StatusOK {
		t.Fatalf("classify = %d %s", w.Code, w.Body.String())
	}
	var res service.ClassifyResult
	json.Unmarshal(env.Data, &res)
	if !res.SOP.IsSOP || res.Domain.Domain == "" {
		t.Errorf("result = %+v", res)
	}

	w, env = do(t, r, jsonRequest(http.MethodPost, "/api/classify", gin.H{}))
	if w.Code != http.StatusBadRequest || env.Success {
		t.Errorf("empty body = %d", w.Code)
	}
}

func TestAnalysisLifecycle(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	r := newTestRouter(t, string(hash))

	w, env := do(t, r, uploadRequest(t, "acme_sop.txt", sample(t), map[string]string{"offline": "true", "use_ai": "false"}))
	if w.Code != http.StatusCreated {
		t.Fatalf("analyze = %d %s", w.Code, w.Body.String())
	}
	var result service.AnalyzeResult
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatal(err)
	}
	if result.AnalysisID == "" || result.Report == nil || len(result.Report.Findings) == 0 {
		t.Fatalf("result = %+v", result)
	}
	id := result.AnalysisID

	w, env = do(t, r, httptest.NewRequest(http.MethodGet, "/api/analyses?limit=5", nil))
	if w.Code != http.StatusOK || !strings.Contains(string(env.Data), id) {
		t.Errorf("list = %d %s", w.Code, env.Data)
	}
	w, _ = do(t, r, httptest.NewRequest(http.MethodGet, "/api/analyses/"+id, nil))
	if w.Code != http.StatusOK {
		t.Errorf("get = %d", w.Code)
	}

	key := result.Report.Findings[0].Area + "_0"
	w, env = do(t, r, jsonRequest(http.MethodPost, "/api/analyses/"+id+"/feedback",
		gin.H{"key": key, "action": "approve", "edited_suggestion": "Owners must review this section annually."}))
	if w.Code != http.StatusCreated {
		t.Fatalf("feedback = %d %s", w.Code, w.Body.String())
	}
	w, env = do(t, r, jsonRequest(http.MethodPost, "/api/analyses/"+id+"/feedback", gin.H{"key": key, "action": "shrug"}))
	if w.Code != http.StatusBadRequest || env.Error.Code != "INVALID_ACTION" {
		t.Errorf("bad action = %d %+v", w.Code, env.Error)
	}
	w, env = do(t, r, httptest.NewRequest(http.MethodGet, "/api/analyses/"+id+"/feedback", nil))
	if w.Code != http.StatusOK || !strings.Contains(string(env.Data), "Owners must review") {
		t.Errorf("feedback list = %d %s", w.Code, env.Data)
	}

	w, _ = do(t, r, httptest.NewRequest(http.MethodGet, "/api/analyses/"+id+"/export?format=csv", nil))
	if w.Code != http.StatusOK || !strings.HasPrefix(w.Header().Get("Content-Type"), "text/csv") {
		t.Fatalf("export = %d %s", w.Code, w.Header().Get("Content-Type"))
	}
	if !strings.Contains(w.Header().Get("Content-Disposition"), "acme_sop_audit.csv") {
		t.Errorf("disposition = %q", w.Header().Get("Content-Disposition"))
	}
	w, env = do(t, r, httptest.NewRequest(http.MethodGet, "/api/analyses/"+id+"/export?format=ppt", nil))
	if w.Code != http.StatusBadRequest || env.Error.Code != "UNSUPPORTED_FORMAT" {
		t.Errorf("bad format = %d %+v", w.Code, env.Error)
	}

	w, env = do(t, r, httptest.NewRequest(http.MethodDelete, "/api/analyses/"+id, nil))
	if w.Code != http.StatusUnauthorized || env.Error.Code != "UNAUTHORIZED" {
		t.Errorf("unauthenticated delete = %d", w.Code)
	}
	req := httptest.NewRequest(http.MethodDelete, "/api/analyses/"+id, nil)
	req.SetBasicAuth("admin", "wrong")
	if w, _ = do(t, r, req); w.Code != http.StatusUnauthorized {
		t.Errorf("wrong password delete = %d", w.Code)
	}
	req = httptest.NewRequest(http.MethodDelete, "/api/analyses/"+id, nil)
	req.SetBasicAuth("admin", "s3cret")
	if w, _ = do(t, r, req); w.Code != http.StatusOK {
		t.Errorf("delete = %d %s", w.Code, w.Body.String())
	}

	w, env = do(t, r, httptest.NewRequest(http.MethodGet, "/api/analyses/"+id, nil))
	if w.Code != http.StatusNotFound || env.Error.Code != "ANALYSIS_NOT_FOUND" {
		t.Errorf("deleted get = %d %+v", w.Code, env.Error)
	}
}

func TestCreateAnalysis_Errors(t *testing.T) {
	r := newTestRouter(t, "")
	story := []byte("Once upon a time the protagonist ignored every rule and nobody noticed at all.")

	tests := []struct {
		name     string
		req      *http.Request
		wantCode int
		wantErr  string
	}{
		{"not sop", uploadRequest(t, "story.txt", story, map[string]string{"offline": "true"}), http.StatusUnprocessableEntity, "NOT_SOP"},
		{"unsupported", uploadRequest(t, "slides.pptx", []byte("x"), nil), http.StatusUnsupportedMediaType, "UNSUPPORTED_FILE_TYPE"},
		{"empty", uploadRequest(t, "blank.txt", []byte("   \n"), nil), http.StatusUnprocessableEntity, "EMPTY_DOCUMENT"},
		{"missing file", uploadRequest(t, "", nil, nil), http.StatusBadRequest, "MISSING_FILE"},
		{"too large", uploadRequest(t, "big.txt", bytes.Repeat([]byte("a"), 2<<20), nil), http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"},
		{"bad flag", uploadRequest(t, "acme.txt", sample(t), map[string]string{"force": "sometimes"}), http.StatusBadRequest, "INVALID_REQUEST"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := do(t, r, tt.req)
			if w.Code != tt.wantCode || env.Error.Code != tt.wantErr || env.Success {
				t.Errorf("got %d %+v, want %d %s", w.Code, env.Error, tt.wantCode, tt.wantErr)
			}
		})
	}
}

func TestAdminDisabled(t *testing.T) {
	r := newTestRouter(t, "")
	req := httptest.NewRequest(http.MethodDelete, "/api/analyses", nil)
	req.SetBasicAuth("admin", "anything")
	w, env := do(t, r, req)
	if w.Code != http.StatusForbidden || env.Error.Code != "ADMIN_DISABLED" {
		t.Errorf("got %d %+v", w.Code, env.Error)
	}
}

func TestCompare(t *testing.T) {
	r := newTestRouter(t, "")
	ai := "1. Purpose\nThis procedure should describe how records are kept by the team.\n\n2. Training\nStaff may attend safety training when possible."
	human := "1. Purpose\nThis procedure must describe how records are kept and retained per ISO 9001.\n\n2. Training\nStaff must attend annual safety training and the manager shall verify completion."

	w, env := do(t, r, jsonRequest(http.MethodPost, "/api/compare", gin.H{"ai_text": ai, "human_text": human}))
	if w.Code != http.StatusOK || !env.Success {
		t.Fatalf("compare = %d %s", w.Code, w.Body.String())
	}
	if !strings.Contains(string(env.Data), "recommendations") {
		t.Errorf("data = %s", env.Data)
	}

	w, env = do(t, r, jsonRequest(http.MethodPost, "/api/compare", gin.H{"ai_text": ai}))
	if w.Code != http.StatusBadRequest || env.Error.Code != "INVALID_REQUEST" {
		t.Errorf("missing human text = %d %+v", w.Code, env.Error)
	}
}
