package scoring

import (
	"math"
	"strings"

	"reguguard-backend/models"
)

// Result is the outcome of scoring one section.
type Result struct {
	Score               int                     `json:"score"`
	SubScores           models.SubScores        `json:"sub_scores"`
	Status              models.ComplianceStatus `json:"status"`
	RiskLevel           models.RiskLevel        `json:"risk_level"`
	EnforceableLanguage bool                    `json:"enforceable_language"`
	OutdatedHits        int                     `json:"outdated_hits"`
	MatchCount          int                     `json:"match_count"`
}

// Bonus flags the flat score adjustments.
type Bonus struct {
	HasMatches  bool
	Enforceable bool
}

// Scorer applies Params and an industry weight table.
type Scorer struct {
	params  Params
	weights map[string]Weights
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithParams overrides the scorer constants.
func WithParams(p Params) Option {
	return func(s *Scorer) {
		s.params = p
	}
}

// WithIndustryWeights overrides the industry weight table.
func WithIndustryWeights(w map[string]Weights) Option {
	return func(s *Scorer) {
		s.weights = w
	}
}

// NewScorer creates a scorer with default constants.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{
		params:  DefaultParams(),
		weights: IndustryWeights,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var defaultScorer = NewScorer()

// Score scores text with the default scorer.
func Score(text, category string, matches []models.RelevanceMatch, industry string) Result {
	return defaultScorer.Score(text, category, matches, industry)
}

// Params returns the scorer constants.
func (s *Scorer) Params() Params {
	return s.params
}

func (s *Scorer) weightsFor(industry string) Weights {
	if w, ok := s.weights[industry]; ok {
		return w
	}
	if w, ok := s.weights[GeneralIndustry]; ok {
		return w
	}
	return IndustryWeights[GeneralIndustry]
}

// Score computes the sub-scores, combined score and classification of one section.
func (s *Scorer) Score(text, category string, matches []models.RelevanceMatch, industry string) Result {
	p := s.params
	lower := strings.ToLower(text)
	words := wordCount(lower)

	sub := models.SubScores{
		RegulatoryAlignment: alignment(matches, p),
		LanguageStrength:    languageStrength(lower, words, p),
		Completeness:        completeness(lower, category, len(matches) > 0, p),
		RiskPenalty:         riskPenalty(lower, words, matches, p),
	}
	bonus := Bonus{
		HasMatches:  len(matches) > 0,
		Enforceable: strongSet.present(lower) > 0,
	}
	score := int(math.Round(Combine(sub, s.weightsFor(industry), bonus, p)))

	outdated := outdatedSet.present(lower)
	status, risk := p.Classify(score)
	if outdated >= p.OutdatedMinHits {
		status, risk = models.StatusOutdated, models.RiskHigh
	}
	return Result{
		Score:               score,
		SubScores:           sub,
		Status:              status,
		RiskLevel:           risk,
		EnforceableLanguage: bonus.Enforceable,
		OutdatedHits:        outdated,
		MatchCount:          len(matches),
	}
}

// Combine folds sub-scores into a 0-100 score: weighted geometric mean, saturation,
// flat bonuses, super-linear completeness penalty, then a multiplicative risk discount.
func Combine(sub models.SubScores, w Weights, bonus Bonus, p Params) float64 {
	a := clamp01(sub.RegulatoryAlignment)
	l := clamp01(sub.LanguageStrength)
	c := clamp01(sub.Completeness)
	r := clamp01(sub.RiskPenalty)

	base := math.Pow(a, w.Regulatory) * math.Pow(l, w.Language) * math.Pow(c, w.Completeness)
	score := 100 * (1 - math.Exp(-p.SaturationRate*base))
	if bonus.HasMatches {
		score += p.MatchBonus
	}
	if bonus.Enforceable {
		score += p.EnforceableBonus
	}
	score -= p.CompletenessPenaltyScale * math.Pow(1-c, p.CompletenessPenaltyExponent)
	score = math.Max(0, score)
	score *= 1 - r*p.MaxRiskDiscount
	return math.Min(100, math.Max(0, score))
}

// Classify maps a score onto the status/risk threshold table of the default params.
func Classify(score int) (models.ComplianceStatus, models.RiskLevel) {
	return DefaultParams().Classify(score)
}

// Classify maps a score onto the status/risk threshold table.
func (p Params) Classify(score int) (models.ComplianceStatus, models.RiskLevel) {
	switch {
	case score >= p.CompliantThreshold:
		return models.StatusCompliant, models.RiskLow
	case score >= p.PartialThreshold:
		return models.StatusPartiallyCompliant, models.RiskMedium
	default:
		return models.StatusNonCompliant, models.RiskHigh
	}
}

// DocumentScore aggregates section scores with a geometric mean, or an arithmetic
// mean when any section scored exactly 0. No sections yields 0.
func DocumentScore(scores []int) int {
	if len(scores) == 0 {
		return 0
	}
	var sum, logSum float64
	hasZero := false
	for _, s := range scores {
		sum += float64(s)
		if s <= 0 {
			hasZero = true
			continue
		}
		logSum += math.Log(float64(s))
	}
	n := float64(len(scores))
	if hasZero {
		return int(math.Round(sum / n))
	}
	return int(math.Round(math.Exp(logSum / n)))
}

func alignment(matches []models.RelevanceMatch, p Params) float64 {
	if len(matches) == 0 {
		return 0
	}
	var sum, best float64
	for _, m := range matches {
		sum += m.SimilarityScore
		best = math.Max(best, m.SimilarityScore)
	}
	avg := sum / float64(len(matches))
	v := p.AvgSimilarityWeight*math.Min(1, avg*p.AvgSimilarityScale) +
		p.BestSimilarityWeight*math.Min(1, best*p.BestSimilarityScale) +
		p.CoverageWeight*math.Min(1, float64(len(matches))/p.CoverageTarget)
	return clamp01(v)
}

func languageStrength(lower string, words int, p Params) float64 {
	if words == 0 {
		return 0
	}
	n := float64(words)
	combined := p.StrongWeight*float64(strongSet.occurrences(lower))/n +
		p.ModerateWeight*float64(moderateSet.occurrences(lower))/n -
		p.WeakWeight*float64(weakSet.occurrences(lower))/n
	return 1 / (1 + math.Exp(-p.SigmoidSteepness*(combined-p.SigmoidCenter)))
}

func completeness(lower, category string, hasMatches bool, p Params) float64 {
	cat := categorySet(category)
	v := p.UniversalWeight*float64(universalSet.present(lower))/float64(len(universalSet)) +
		p.CategoryWeight*float64(cat.present(lower))/float64(len(cat))
	if hasMatches {
		v *= p.MatchBoost
	}
	return clamp01(v)
}

func riskPenalty(lower string, words int, matches []models.RelevanceMatch, p Params) float64 {
	var v float64
	if words > 0 {
		n := float64(words)
		v = p.HighRiskWeight*float64(highRiskSet.occurrences(lower))/n +
			p.MediumRiskWeight*float64(mediumRiskSet.occurrences(lower))/n
	}
	if len(matches) == 0 {
		v += p.NoMatchPenalty
	} else {
		var sum float64
		for _, m := range matches {
			sum += m.SimilarityScore
		}
		if sum/float64(len(matches)) < p.LowSimilarityThreshold {
			v += p.LowSimilarityPenalty
		}
	}
	return clamp01(v)
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
