package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reguguard-backend/service"

	"golang.org/x/crypto/bcrypt"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("HISTORY_BACKEND", "file")
	t.Setenv("HISTORY_PATH", filepath.Join(dir, "history.jsonl"))
	t.Setenv("FEEDBACK_PATH", filepath.Join(dir, "feedback.jsonl"))
	t.Setenv("STORAGE_TYPE", "local")
	t.Setenv("STORAGE_LOCAL_PATH", filepath.Join(dir, "files"))
	t.Setenv("DOMAIN_DEFINITIONS_PATH", "")
}

func TestAnalyzeAndHistory(t *testing.T) {
	isolate(t)

	out, err := run(t, "analyze", "../../testdata/acme_sop.txt", "--offline", "--no-ai", "--json")
	if err != nil {
		t.Fatalf("analyze: %v\n%s", err, out)
	}
	var res service.AnalyzeResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if res.AnalysisID == "" || res.Report == nil || res.RegulationsCount != 12 {
		t.Fatalf("result = %+v", res)
	}

	out, err = run(t, "history", "list")
	if err != nil || !strings.Contains(out, res.AnalysisID) {
		t.Errorf("history list = %q, %v", out, err)
	}
	out, err = run(t, "history", "show", res.AnalysisID)
	if err != nil || !strings.Contains(out, `"digest_verified": true`) {
		t.Errorf("history show = %q, %v", out, err)
	}
	if _, err := run(t, "history", "delete", res.AnalysisID); err != nil {
		t.Fatal(err)
	}
	out, _ = run(t, "history", "list")
	if !strings.Contains(out, "No analyses yet.") {
		t.Errorf("after delete = %q", out)
	}
}

func TestAnalyze_Text(t *testing.T) {
	isolate(t)
	out, err := run(t, "analyze", "../../testdata/acme_sop.txt", "--offline", "--domain", "Finance")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Domain:      Finance", "Score:", "Findings ("} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestClassify(t *testing.T) {
	isolate(t)
	out, err := run(t, "classify", "../../testdata/acme_sop.txt")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "SOP:    true") {
		t.Errorf("classify = %q", out)
	}
}

func TestCompare(t *testing.T) {
	dir := t.TempDir()
	ai := filepath.Join(dir, "ai.txt")
	human := filepath.Join(dir, "human.txt")
	os.WriteFile(ai, []byte("1. Purpose\nRecords should be kept by the team when possible.\n\n2. Training\nStaff may attend training."), 0o644)
	os.WriteFile(human, []byte("1. Purpose\nRecords must be kept for seven years per ISO 9001.\n\n2. Training\nStaff must attend annual training and managers shall verify it."), 0o644)

	out, err := run(t, "compare", ai, human)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Clauses:") || !strings.Contains(out, "Recommendations:") {
		t.Errorf("compare = %q", out)
	}
}

func TestSources(t *testing.T) {
	out, err := run(t, "sources", "--domain", "Pharma / Health", "--domain-only")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Healthcare / Pharma") {
		t.Errorf("sources = %q", out)
	}
	if lines := strings.Count(out, "\n"); lines != 4 {
		t.Errorf("got %d lines:\n%s", lines, out)
	}
}

func TestHashPassword(t *testing.T) {
	out, err := run(t, "hash-password", "s3cret")
	if err != nil {
		t.Fatal(err)
	}
	hash := strings.TrimSpace(out)
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")) != nil {
		t.Errorf("hash %q does not match", hash)
	}
	if _, err := run(t, "hash-password"); err == nil {
		t.Error("missing argument accepted")
	}
}
