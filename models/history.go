package models

import (
	"time"
)

// HistoryRecord is one persisted analysis run
type HistoryRecord struct {
	AnalysisID       string    `json:"analysis_id"`
	Timestamp        time.Time `json:"timestamp"`
	DocumentName     string    `json:"document_name"`
	Domain           string    `json:"domain"`
	ComplianceScore  int       `json:"compliance_score"`
	RiskLevel        RiskLevel `json:"risk_level"`
	AnalysisMethod   string    `json:"analysis_method"`
	NumFindings      int       `json:"num_findings"`
	SOPTextPreview   string    `json:"sop_text_preview"`
	FullAnalysis     *Report   `json:"full_analysis"`
	SOPText          string    `json:"sop_text"`
	RegulationsCount int       `json:"regulations_count"`
	ReportDigest     string    `json:"report_digest,omitempty"`
	DocumentKey      string    `json:"document_key,omitempty"`
}

// HistorySummary is the list view of a history record
type HistorySummary struct {
	AnalysisID      string    `json:"analysis_id"`
	Timestamp       time.Time `json:"timestamp"`
	DocumentName    string    `json:"document_name"`
	Domain          string    `json:"domain"`
	ComplianceScore int       `json:"compliance_score"`
	RiskLevel       RiskLevel `json:"risk_level"`
	AnalysisMethod  string    `json:"analysis_method"`
	NumFindings     int       `json:"num_findings"`
	SOPTextPreview  string    `json:"sop_text_preview"`
}

// Summary drops the heavy fields of a record
func (h *HistoryRecord) Summary() HistorySummary {
	return HistorySummary{
		AnalysisID:      h.AnalysisID,
		Timestamp:       h.Timestamp,
		DocumentName:    h.DocumentName,
		Domain:          h.Domain,
		ComplianceScore: h.ComplianceScore,
		RiskLevel:       h.RiskLevel,
		AnalysisMethod:  h.AnalysisMethod,
		NumFindings:     h.NumFindings,
		SOPTextPreview:  h.SOPTextPreview,
	}
}
