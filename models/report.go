package models

import (
	"database/sql/driver"
	"encoding/json"
)

// ComplianceStatus represents the compliance status of a finding
type ComplianceStatus string

const (
	StatusCompliant          ComplianceStatus = "compliant"
	StatusPartiallyCompliant ComplianceStatus = "partially_compliant"
	StatusNonCompliant       ComplianceStatus = "non_compliant"
	StatusOutdated           ComplianceStatus = "outdated"
)

// RiskLevel represents the risk attached to a finding or report
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// Rank orders risk levels for sorting: High=3, Medium=2, Low=1, unknown=0
func (r RiskLevel) Rank() int {
	switch r {
	case RiskHigh:
		return 3
	case RiskMedium:
		return 2
	case RiskLow:
		return 1
	default:
		return 0
	}
}

// SubScores holds the four normalized scoring pillars of a section
type SubScores struct {
	RegulatoryAlignment float64 `json:"regulatory_alignment"`
	LanguageStrength    float64 `json:"language_strength"`
	Completeness        float64 `json:"completeness"`
	RiskPenalty         float64 `json:"risk_penalty"`
}

// Finding represents the compliance verdict for one section or a merged group
type Finding struct {
	Area                  string           `json:"area"`
	Status                ComplianceStatus `json:"status"`
	RiskLevel             RiskLevel        `json:"risk_level"`
	Issue                 string           `json:"issue"`
	Suggestion            string           `json:"suggestion"`
	ApplicableRegulations []string         `json:"applicable_regulations"`
	Text                  string           `json:"text,omitempty"`
	SectionIDs            []string         `json:"section_ids,omitempty"`
	Category              Category         `json:"category,omitempty"`
	Score                 int              `json:"score"`
	SubScores             *SubScores       `json:"sub_scores,omitempty"`
}

// Citation is a deduplicated reference to a retrieved regulation
type Citation struct {
	Source         string  `json:"source"`
	URL            string  `json:"url"`
	Title          string  `json:"title"`
	RelevanceScore float64 `json:"relevance_score"`
}

// StatusCounts summarizes findings by status and risk
type StatusCounts struct {
	Sections     int `json:"sections"`
	Compliant    int `json:"compliant"`
	Partial      int `json:"partially_compliant"`
	NonCompliant int `json:"non_compliant"`
	Outdated     int `json:"outdated"`
	HighRisk     int `json:"high_risk"`
	MediumRisk   int `json:"medium_risk"`
	LowRisk      int `json:"low_risk"`
}

// Report is the document-level analysis result
type Report struct {
	OverallScore           int          `json:"overall_score"`
	OverallRiskLevel       RiskLevel    `json:"overall_risk_level"`
	ExecutiveSummary       string       `json:"executive_summary"`
	Findings               []Finding    `json:"findings"`
	MissingElements        []string     `json:"missing_elements"`
	Citations              []Citation   `json:"citations"`
	ComplianceDebtEstimate float64      `json:"compliance_debt_estimate"`
	AnalysisMethod         string       `json:"analysis_method"`
	Counts                 StatusCounts `json:"counts"`
}

// Value implements driver.Valuer for JSONB
func (r Report) Value() (driver.Value, error) {
	return json.Marshal(r)
}

// Scan implements sql.Scanner for JSONB
func (r *Report) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}
	if len(bytes) == 0 {
		return nil
	}
	return json.Unmarshal(bytes, r)
}
