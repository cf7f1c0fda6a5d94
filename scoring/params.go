// Package scoring computes heuristic compliance scores for document sections.
package scoring

// Params holds the tunable constants of the scorer.
type Params struct {
	// Regulatory alignment
	AvgSimilarityWeight  float64
	AvgSimilarityScale   float64
	BestSimilarityWeight float64
	BestSimilarityScale  float64
	CoverageWeight       float64
	CoverageTarget       float64

	// Language strength
	SigmoidSteepness float64
	SigmoidCenter    float64
	StrongWeight     float64
	ModerateWeight   float64
	WeakWeight       float64

	// Completeness
	UniversalWeight float64
	CategoryWeight  float64
	MatchBoost      float64

	// Risk penalty
	HighRiskWeight         float64
	MediumRiskWeight       float64
	NoMatchPenalty         float64
	LowSimilarityPenalty   float64
	LowSimilarityThreshold float64

	// Combination
	SaturationRate              float64
	MatchBonus                  float64
	EnforceableBonus            float64
	CompletenessPenaltyScale    float64
	CompletenessPenaltyExponent float64
	MaxRiskDiscount             float64

	// Classification
	CompliantThreshold int
	NoIssueThreshold   int
	PartialThreshold   int
	OutdatedMinHits    int
}

// DefaultParams returns the stock scorer constants.
func DefaultParams() Params {
	return Params{
		AvgSimilarityWeight:  0.5,
		AvgSimilarityScale:   2.0,
		BestSimilarityWeight: 0.3,
		BestSimilarityScale:  2.5,
		CoverageWeight:       0.2,
		CoverageTarget:       5,

		SigmoidSteepness: 20,
		SigmoidCenter:    0.05,
		StrongWeight:     1.0,
		ModerateWeight:   0.3,
		WeakWeight:       0.5,

		UniversalWeight: 0.6,
		CategoryWeight:  0.4,
		MatchBoost:      1.1,

		HighRiskWeight:         0.7,
		MediumRiskWeight:       0.3,
		NoMatchPenalty:         0.5,
		LowSimilarityPenalty:   0.3,
		LowSimilarityThreshold: 0.1,

		SaturationRate:              2.0,
		MatchBonus:                  3,
		EnforceableBonus:            2,
		CompletenessPenaltyScale:    30,
		CompletenessPenaltyExponent: 1.5,
		MaxRiskDiscount:             0.4,

		CompliantThreshold: 75,
		NoIssueThreshold:   85,
		PartialThreshold:   50,
		OutdatedMinHits:    2,
	}
}

// Weights are the geometric-mean exponents for alignment, language and completeness.
type Weights struct {
	Regulatory   float64 `json:"regulatory" yaml:"regulatory"`
	Language     float64 `json:"language" yaml:"language"`
	Completeness float64 `json:"completeness" yaml:"completeness"`
}

// GeneralIndustry is the weight table key used when no industry is known.
const GeneralIndustry = "General"

// IndustryWeights maps detected domains to their weight triples.
var IndustryWeights = map[string]Weights{
	GeneralIndustry:       {Regulatory: 0.45, Language: 0.25, Completeness: 0.30},
	"Pharma / Health":     {Regulatory: 0.50, Language: 0.25, Completeness: 0.25},
	"Industrial / Mining": {Regulatory: 0.40, Language: 0.25, Completeness: 0.35},
	"Finance":             {Regulatory: 0.50, Language: 0.20, Completeness: 0.30},
}

// WeightsFor returns the weights for industry, defaulting to General.
func WeightsFor(industry string) Weights {
	if w, ok := IndustryWeights[industry]; ok {
		return w
	}
	return IndustryWeights[GeneralIndustry]
}
