package llm

import (
	"context"
	"errors"
	"testing"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"plain", `{"a":1}`, `{"a":1}`, false},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`, false},
		{"prose around", "Here is the result: {\"a\": {\"b\": 2}} hope it helps", `{"a": {"b": 2}}`, false},
		{"no object", "sorry, I cannot help", "", true},
		{"broken", "{\"a\": ", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidLLMResponse) {
					t.Fatalf("err = %v, want ErrInvalidLLMResponse", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if string(got) != tt.want {
				t.Errorf("ExtractJSON() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDecode_Schema(t *testing.T) {
	var out struct {
		Domain     string  `json:"domain"`
		Confidence float64 `json:"confidence"`
	}
	if err := Decode("```json\n{\"domain\":\"Finance\",\"confidence\":0.8}\n```", DomainSchema, &out); err != nil {
		t.Fatal(err)
	}
	if out.Domain != "Finance" || out.Confidence != 0.8 {
		t.Errorf("decoded %+v", out)
	}

	err := Decode(`{"confidence": 0.8}`, DomainSchema, &out)
	if !errors.Is(err, ErrInvalidLLMResponse) {
		t.Errorf("missing domain: err = %v", err)
	}
	err = Decode(`{"is_sop": "yes"}`, SOPSchema, &struct{}{})
	if !errors.Is(err, ErrInvalidLLMResponse) {
		t.Errorf("wrong type: err = %v", err)
	}
}

func TestReportSchema(t *testing.T) {
	valid := `{"overall_score": 72, "overall_risk_level": "Medium", "executive_summary": "ok",
		"findings": [{"area": "A", "status": "compliant", "risk_level": "Low", "issue": "None", "suggestion": "No change needed"}]}`
	if err := ReportSchema.Validate([]byte(valid)); err != nil {
		t.Errorf("valid report rejected: %v", err)
	}
	invalid := `{"overall_score": 72, "findings": [{"area": "A"}]}`
	if err := ReportSchema.Validate([]byte(invalid)); err == nil {
		t.Error("invalid report accepted")
	}
}

func TestClientFunc(t *testing.T) {
	var c Client = ClientFunc(func(ctx context.Context, system, user string) (string, error) {
		return system + "|" + user, nil
	})
	got, err := c.Complete(context.Background(), "s", "u")
	if err != nil || got != "s|u" {
		t.Errorf("Complete() = %q, %v", got, err)
	}
	if !Available(c) {
		t.Error("ClientFunc should be available")
	}
}

func TestAvailable(t *testing.T) {
	if Available(nil) {
		t.Error("nil client available")
	}
	var g *GeminiClient
	if Available(g) {
		t.Error("nil gemini client available")
	}
}

func TestNewGeminiClient_NoKey(t *testing.T) {
	c, err := NewGeminiClient(context.Background(), "")
	if !errors.Is(err, ErrLLMUnavailable) || c != nil {
		t.Errorf("NewGeminiClient(\"\") = %v, %v", c, err)
	}
}
