package models

// DifferenceKind classifies how a human edit changed a clause
type DifferenceKind string

const (
	DiffRegulatoryAlignment   DifferenceKind = "Regulatory Alignment Enhancement"
	DiffControlStrengthening  DifferenceKind = "Control Strengthening"
	DiffComplianceImprovement DifferenceKind = "Compliance Improvement"
	DiffStructuralImprovement DifferenceKind = "Structural Improvement"
	DiffClarityEnhancement    DifferenceKind = "Clarity Enhancement"
	DiffNoMaterialDifference  DifferenceKind = "No Material Difference"
)

// ClauseDifference is one matched clause pair with a material change
type ClauseDifference struct {
	Classification DifferenceKind `json:"classification"`
	AIClauseID     string         `json:"ai_clause_id"`
	AITitle        string         `json:"ai_title"`
	HumanClauseID  string         `json:"human_clause_id"`
	HumanTitle     string         `json:"human_title"`
	Similarity     float64        `json:"similarity"`
	RemovedLines   []string       `json:"quotes_removed_from_ai"`
	AddedLines     []string       `json:"quotes_added_in_human"`
}

// Comparison is the clause-by-clause comparison of two SOP versions
type Comparison struct {
	KeyDifferences    []ClauseDifference `json:"key_differences"`
	HumanEnhancements []ClauseDifference `json:"human_enhancements"`
	HumanWeaknesses   []ClauseDifference `json:"human_weaknesses"`
	LearningRules     []string           `json:"learning_rules"`
	Recommendations   []string           `json:"recommendations"`
	AIClauses         int                `json:"ai_clauses"`
	HumanClauses      int                `json:"human_clauses"`
	MatchedPairs      int                `json:"matched_pairs"`
}
