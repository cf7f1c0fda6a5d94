// Package analyzer produces document reports through interchangeable analysis strategies.
package analyzer

import (
	"context"

	"reguguard-backend/llm"
	"reguguard-backend/models"
	"reguguard-backend/retrieval"
	"reguguard-backend/scoring"
	"reguguard-backend/segmenter"
	"reguguard-backend/synthesis"

	"go.uber.org/zap"
)

// DefaultTopK is the number of regulations retrieved per section.
const DefaultTopK = 5

// Input is everything a strategy needs to analyze one document.
type Input struct {
	DocumentText string
	// Sections are segmented from DocumentText when empty.
	Sections  []models.Section
	Retriever *retrieval.Retriever
	Domain    string
	TopK      int
}

func (in Input) sections() []models.Section {
	if len(in.Sections) > 0 {
		return in.Sections
	}
	return segmenter.Segment(in.DocumentText)
}

func (in Input) topK() int {
	if in.TopK > 0 {
		return in.TopK
	}
	return DefaultTopK
}

// Analyzer turns an Input into a report.
type Analyzer interface {
	Analyze(ctx context.Context, in Input) (*models.Report, error)
	Name() string
}

// Heuristic is the deterministic rule-based strategy. It is always available.
type Heuristic struct {
	scorer *scoring.Scorer
}

// NewHeuristic creates the rule-based strategy. A nil scorer uses the defaults.
func NewHeuristic(scorer *scoring.Scorer) *Heuristic {
	if scorer == nil {
		scorer = scoring.NewScorer()
	}
	return &Heuristic{scorer: scorer}
}

// Name identifies the strategy.
func (h *Heuristic) Name() string {
	return synthesis.RuleBasedMethod
}

// SectionResults retrieves, scores and synthesizes every section.
func (h *Heuristic) SectionResults(in Input) []synthesis.SectionResult {
	sections := in.sections()
	results := make([]synthesis.SectionResult, 0, len(sections))
	for _, s := range sections {
		matches := in.Retriever.Retrieve(retrieval.QueryText(s), s.Category, in.topK())
		res := h.scorer.Score(s.Text, s.Category, matches, in.Domain)
		results = append(results, synthesis.SectionResult{
			Section: s,
			Matches: matches,
			Result:  res,
			Finding: synthesis.Synthesize(s, matches, res),
		})
	}
	return results
}

// Analyze builds the rule-based report. It never fails.
func (h *Heuristic) Analyze(ctx context.Context, in Input) (*models.Report, error) {
	return h.report(in, synthesis.RuleBasedMethod), nil
}

func (h *Heuristic) report(in Input, method string) *models.Report {
	return synthesis.BuildReport(synthesis.ReportInput{
		FullText:        in.DocumentText,
		Results:         h.SectionResults(in),
		Method:          method,
		RegulationCount: in.Retriever.Len(),
	})
}

// Select returns the LLM strategy when client is usable, else the heuristic.
func Select(client llm.Client, heuristic *Heuristic, logger *zap.SugaredLogger) Analyzer {
	if heuristic == nil {
		heuristic = NewHeuristic(nil)
	}
	if !llm.Available(client) {
		return heuristic
	}
	return NewLLM(client, heuristic, logger)
}
