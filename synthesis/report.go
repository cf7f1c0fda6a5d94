package synthesis

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"reguguard-backend/models"
	"reguguard-backend/scoring"
)

const (
	// RuleBasedMethod labels reports produced without the LLM.
	RuleBasedMethod = "Rule-based Analysis"
	// EmptyDocumentSummary is the summary of a report with no text.
	EmptyDocumentSummary = "No document text to analyze."

	debtPerPoint        = 120
	citationsPerSection = 2
	maxCitations        = 10
)

// SectionResult carries everything known about one analyzed section.
type SectionResult struct {
	Section models.Section
	Matches []models.RelevanceMatch
	Result  scoring.Result
	Finding models.Finding
}

// ReportInput is the input of BuildReport.
type ReportInput struct {
	FullText        string
	Results         []SectionResult
	Method          string
	RegulationCount int
}

// ComplianceDebt converts an overall score into the remediation cost proxy.
func ComplianceDebt(score int) float64 {
	return float64(100-score) * debtPerPoint
}

// EmptyReport is the report for a document with no text.
func EmptyReport(method string) *models.Report {
	if method == "" {
		method = RuleBasedMethod
	}
	return &models.Report{
		OverallScore:           0,
		OverallRiskLevel:       models.RiskHigh,
		ExecutiveSummary:       EmptyDocumentSummary,
		Findings:               []models.Finding{},
		MissingElements:        []string{},
		Citations:              []models.Citation{},
		ComplianceDebtEstimate: ComplianceDebt(0),
		AnalysisMethod:         method,
	}
}

// BuildReport assembles the document report from per-section results.
func BuildReport(in ReportInput) *models.Report {
	method := in.Method
	if method == "" {
		method = RuleBasedMethod
	}
	if strings.TrimSpace(in.FullText) == "" || len(in.Results) == 0 {
		return EmptyReport(method)
	}

	scores := make([]int, len(in.Results))
	findings := make([]models.Finding, len(in.Results))
	for i, r := range in.Results {
		scores[i] = r.Result.Score
		findings[i] = r.Finding
	}
	overall := scoring.DocumentScore(scores)
	_, risk := scoring.Classify(overall)
	counts := Counts(findings)

	return &models.Report{
		OverallScore:           overall,
		OverallRiskLevel:       risk,
		ExecutiveSummary:       ExecutiveSummary(overall, risk, counts, in.RegulationCount),
		Findings:               MergeFindings(findings, DefaultMergeThreshold),
		MissingElements:        MissingElements(in.FullText),
		Citations:              Citations(in.Results),
		ComplianceDebtEstimate: ComplianceDebt(overall),
		AnalysisMethod:         method,
		Counts:                 counts,
	}
}

// Counts tallies findings by status and risk.
func Counts(findings []models.Finding) models.StatusCounts {
	c := models.StatusCounts{Sections: len(findings)}
	for _, f := range findings {
		switch f.Status {
		case models.StatusCompliant:
			c.Compliant++
		case models.StatusPartiallyCompliant:
			c.Partial++
		case models.StatusNonCompliant:
			c.NonCompliant++
		case models.StatusOutdated:
			c.Outdated++
		}
		switch f.RiskLevel {
		case models.RiskHigh:
			c.HighRisk++
		case models.RiskMedium:
			c.MediumRisk++
		case models.RiskLow:
			c.LowRisk++
		}
	}
	return c
}

// ExecutiveSummary renders the one-paragraph report summary.
func ExecutiveSummary(score int, risk models.RiskLevel, c models.StatusCounts, regulations int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyzed %d section(s) against %d regulation record(s). ", c.Sections, regulations)
	fmt.Fprintf(&b, "Overall compliance score is %d/100 with %s risk. ", score, risk)
	fmt.Fprintf(&b, "%d compliant, %d partially compliant, %d non-compliant, %d outdated.",
		c.Compliant, c.Partial, c.NonCompliant, c.Outdated)
	if c.HighRisk > 0 {
		fmt.Fprintf(&b, " %d high-risk section(s) need attention first.", c.HighRisk)
	}
	return b.String()
}

var (
	reviewPattern    = regexp.MustCompile(`\b(review|audit)`)
	ownerPattern     = regexp.MustCompile(`\b(responsible|owner)`)
	trainingPattern  = regexp.MustCompile(`\btraining\b`)
	frequencyPattern = regexp.MustCompile(`\bfrequency\b`)
)

// MissingElements flags document-wide gaps.
func MissingElements(fullText string) []string {
	lower := strings.ToLower(fullText)
	missing := []string{}
	if !reviewPattern.MatchString(lower) {
		missing = append(missing, "review/audit cadence")
	}
	if !ownerPattern.MatchString(lower) {
		missing = append(missing, "responsible owner")
	}
	if trainingPattern.MatchString(lower) && !frequencyPattern.MatchString(lower) {
		missing = append(missing, "training frequency")
	}
	return missing
}

// Citations collects the top matches of every section, deduplicated by URL and title,
// best first.
func Citations(results []SectionResult) []models.Citation {
	type key struct{ url, title string }
	index := make(map[key]int)
	citations := []models.Citation{}
	for _, r := range results {
		for i, m := range r.Matches {
			if i == citationsPerSection {
				break
			}
			k := key{m.Regulation.SourceURL, m.Regulation.Title}
			if pos, ok := index[k]; ok {
				if m.SimilarityScore > citations[pos].RelevanceScore {
					citations[pos].RelevanceScore = m.SimilarityScore
				}
				continue
			}
			index[k] = len(citations)
			citations = append(citations, models.Citation{
				Source:         m.Regulation.SourceName,
				URL:            m.Regulation.SourceURL,
				Title:          m.Regulation.Title,
				RelevanceScore: m.SimilarityScore,
			})
		}
	}
	sort.SliceStable(citations, func(i, j int) bool {
		return citations[i].RelevanceScore > citations[j].RelevanceScore
	})
	if len(citations) > maxCitations {
		citations = citations[:maxCitations]
	}
	return citations
}
