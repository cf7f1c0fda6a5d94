package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// FeedbackAction is a reviewer decision on a suggestion
type FeedbackAction string

const (
	ActionApprove FeedbackAction = "approve"
	ActionReject  FeedbackAction = "reject"
)

// FeedbackEvent is one append-only reviewer decision
type FeedbackEvent struct {
	ID         uuid.UUID        `json:"id"`
	AnalysisID string           `json:"analysis_id"`
	Key        string           `json:"key"`
	Action     FeedbackAction   `json:"action"`
	Suggestion string           `json:"suggestion"`
	Area       string           `json:"area"`
	Issue      string           `json:"issue"`
	Status     ComplianceStatus `json:"status"`
	RiskLevel  RiskLevel        `json:"risk_level"`
	Diff       string           `json:"diff,omitempty"`
	Timestamp  time.Time        `json:"timestamp"`
}

// Approval is the current approved state of a finding suggestion
type Approval struct {
	Key        string           `json:"key"`
	Suggestion string           `json:"suggestion"`
	Timestamp  time.Time        `json:"timestamp"`
	Area       string           `json:"area"`
	Issue      string           `json:"issue"`
	Status     ComplianceStatus `json:"status"`
	RiskLevel  RiskLevel        `json:"risk_level"`
}

// ApprovalKey builds the "{area}_{index}" key used to address a finding
func ApprovalKey(area string, index int) string {
	return fmt.Sprintf("%s_%d", area, index)
}
