package analyzer

import (
	"context"
	"fmt"
	"math"
	"strings"

	"reguguard-backend/llm"
	"reguguard-backend/models"
	"reguguard-backend/scoring"
	"reguguard-backend/synthesis"

	"go.uber.org/zap"
)

const (
	promptSectionText    = 1500
	promptRegulationText = 600
	promptRegulations    = 3
)

// LLM delegates document synthesis to a language model and falls back to the
// heuristic strategy on any failure.
type LLM struct {
	client    llm.Client
	heuristic *Heuristic
	logger    *zap.SugaredLogger
}

// NewLLM creates the LLM strategy.
func NewLLM(client llm.Client, heuristic *Heuristic, logger *zap.SugaredLogger) *LLM {
	if heuristic == nil {
		heuristic = NewHeuristic(nil)
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &LLM{client: client, heuristic: heuristic, logger: logger}
}

// Name identifies the strategy.
func (a *LLM) Name() string {
	return "AI (" + a.client.Name() + ")"
}

// Analyze asks the model for a report. Failures produce the rule-based report with
// the reason recorded in the analysis method.
func (a *LLM) Analyze(ctx context.Context, in Input) (*models.Report, error) {
	if strings.TrimSpace(in.DocumentText) == "" {
		return synthesis.EmptyReport(synthesis.RuleBasedMethod), nil
	}
	results := a.heuristic.SectionResults(in)
	rep, err := a.analyze(ctx, in, results)
	if err != nil {
		a.logger.Warnw("llm analysis failed, using rule-based analysis", "error", err)
		return synthesis.BuildReport(synthesis.ReportInput{
			FullText:        in.DocumentText,
			Results:         results,
			Method:          fmt.Sprintf("%s (%s)", synthesis.RuleBasedMethod, llm.FailureNote(err)),
			RegulationCount: in.Retriever.Len(),
		}), nil
	}
	return rep, nil
}

type llmFinding struct {
	Area                  string   `json:"area"`
	Status                string   `json:"status"`
	RiskLevel             string   `json:"risk_level"`
	Issue                 string   `json:"issue"`
	Suggestion            string   `json:"suggestion"`
	ApplicableRegulations []string `json:"applicable_regulations"`
}

type llmReport struct {
	OverallScore     float64      `json:"overall_score"`
	OverallRiskLevel string       `json:"overall_risk_level"`
	ExecutiveSummary string       `json:"executive_summary"`
	Findings         []llmFinding `json:"findings"`
	MissingElements  []string     `json:"missing_elements"`
}

const systemPrompt = "You are a regulatory compliance expert reviewing a company's Standard Operating Procedure. Always respond with valid JSON only, no markdown formatting."

func (a *LLM) analyze(ctx context.Context, in Input, results []synthesis.SectionResult) (*models.Report, error) {
	out, err := a.client.Complete(ctx, systemPrompt, buildPrompt(in.Domain, results))
	if err != nil {
		return nil, err
	}
	var raw llmReport
	if err := llm.Decode(out, llm.ReportSchema, &raw); err != nil {
		return nil, err
	}
	return normalize(raw, in, results, a.Name()), nil
}

func buildPrompt(domain string, results []synthesis.SectionResult) string {
	var b strings.Builder
	if domain == "" {
		domain = scoring.GeneralIndustry
	}
	fmt.Fprintf(&b, "Industry domain: %s\n\nSOP SECTIONS AND RETRIEVED REGULATIONS:\n", domain)
	for _, r := range results {
		fmt.Fprintf(&b, "\n=== %s | %s | %s ===\n%s\n", r.Section.ID, r.Section.Title, r.Section.Category, clip(r.Section.Text, promptSectionText))
		for i, m := range r.Matches {
			if i == promptRegulations {
				break
			}
			fmt.Fprintf(&b, "--- Regulation: %s (%s, relevance %.2f)\n%s\n",
				m.Regulation.Title, m.Regulation.SourceName, m.SimilarityScore, clip(m.Regulation.Text, promptRegulationText))
		}
	}
	b.WriteString(`
Assess the SOP against the regulations and respond in this exact JSON format:
{
  "overall_score": <number 0-100>,
  "overall_risk_level": "Low" | "Medium" | "High",
  "executive_summary": "<2-4 sentences>",
  "findings": [
    {
      "area": "<section title>",
      "status": "compliant" | "partially_compliant" | "non_compliant" | "outdated",
      "risk_level": "Low" | "Medium" | "High",
      "issue": "<what is wrong or 'None'>",
      "suggestion": "<concrete corrected wording or 'No change needed'>",
      "applicable_regulations": ["<regulation titles from the list above>"]
    }
  ],
  "missing_elements": ["<document-wide gaps>"]
}
Only cite regulation titles listed above.`)
	return b.String()
}

func clip(s string, n int) string {
	if r := []rune(s); len(r) > n {
		return string(r[:n])
	}
	return s
}

func normalize(raw llmReport, in Input, results []synthesis.SectionResult, method string) *models.Report {
	score := int(math.Round(math.Max(0, math.Min(100, raw.OverallScore))))
	_, derivedRisk := scoring.Classify(score)

	retrieved := make(map[string]struct{})
	byTitle := make(map[string]models.Section)
	for _, r := range results {
		for _, m := range r.Matches {
			retrieved[m.Regulation.Title] = struct{}{}
		}
		if _, ok := byTitle[r.Section.Title]; !ok {
			byTitle[r.Section.Title] = r.Section
		}
	}

	findings := make([]models.Finding, 0, len(raw.Findings))
	for _, f := range raw.Findings {
		risk := normalizeRisk(f.RiskLevel, "")
		status := normalizeStatus(f.Status, risk)
		if risk == "" {
			risk = riskForStatus(status)
		}
		regs := []string{}
		for _, title := range f.ApplicableRegulations {
			if _, ok := retrieved[title]; ok {
				regs = append(regs, title)
			}
		}
		finding := models.Finding{
			Area:                  strings.TrimSpace(f.Area),
			Status:                status,
			RiskLevel:             risk,
			Issue:                 f.Issue,
			Suggestion:            f.Suggestion,
			ApplicableRegulations: regs,
		}
		if s, ok := byTitle[finding.Area]; ok {
			finding.SectionIDs = []string{s.ID}
			finding.Text = s.Text
			finding.Category = s.Category
		}
		findings = append(findings, finding)
	}

	missing := raw.MissingElements
	if len(missing) == 0 {
		missing = synthesis.MissingElements(in.DocumentText)
	}
	counts := synthesis.Counts(findings)
	counts.Sections = len(results)

	summary := strings.TrimSpace(raw.ExecutiveSummary)
	if summary == "" {
		summary = synthesis.ExecutiveSummary(score, derivedRisk, counts, in.Retriever.Len())
	}
	return &models.Report{
		OverallScore:           score,
		OverallRiskLevel:       normalizeRisk(raw.OverallRiskLevel, derivedRisk),
		ExecutiveSummary:       summary,
		Findings:               findings,
		MissingElements:        missing,
		Citations:              synthesis.Citations(results),
		ComplianceDebtEstimate: synthesis.ComplianceDebt(score),
		AnalysisMethod:         method,
		Counts:                 counts,
	}
}

func normalizeRisk(s string, fallback models.RiskLevel) models.RiskLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return models.RiskLow
	case "medium", "moderate":
		return models.RiskMedium
	case "high", "critical":
		return models.RiskHigh
	default:
		return fallback
	}
}

func normalizeStatus(s string, risk models.RiskLevel) models.ComplianceStatus {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	switch key {
	case "compliant":
		return models.StatusCompliant
	case "partially_compliant", "partial":
		return models.StatusPartiallyCompliant
	case "non_compliant", "noncompliant":
		return models.StatusNonCompliant
	case "outdated":
		return models.StatusOutdated
	}
	switch risk {
	case models.RiskLow:
		return models.StatusCompliant
	case models.RiskMedium:
		return models.StatusPartiallyCompliant
	default:
		return models.StatusNonCompliant
	}
}

func riskForStatus(status models.ComplianceStatus) models.RiskLevel {
	switch status {
	case models.StatusCompliant:
		return models.RiskLow
	case models.StatusPartiallyCompliant:
		return models.RiskMedium
	default:
		return models.RiskHigh
	}
}
