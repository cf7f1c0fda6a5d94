package scoring

import (
	"math"
	"math/rand"
	"testing"

	"reguguard-backend/models"
)

func randomSubScores(rng *rand.Rand) models.SubScores {
	return models.SubScores{
		RegulatoryAlignment: rng.Float64(),
		LanguageStrength:    rng.Float64(),
		Completeness:        rng.Float64(),
		RiskPenalty:         rng.Float64(),
	}
}

func TestCombine_Bounded(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	p := DefaultParams()
	for i := 0; i < 5000; i++ {
		sub := randomSubScores(rng)
		bonus := Bonus{HasMatches: rng.Intn(2) == 0, Enforceable: rng.Intn(2) == 0}
		for _, w := range IndustryWeights {
			got := Combine(sub, w, bonus, p)
			if got < 0 || got > 100 || math.IsNaN(got) {
				t.Fatalf("Combine(%+v, %+v) = %v out of range", sub, w, got)
			}
		}
	}
}

func TestCombine_Monotonic(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	p := DefaultParams()
	w := WeightsFor(GeneralIndustry)
	bonus := Bonus{HasMatches: true, Enforceable: true}

	type field struct {
		name       string
		set        func(*models.SubScores, float64)
		increasing bool
	}
	fields := []field{
		{"alignment", func(s *models.SubScores, v float64) { s.RegulatoryAlignment = v }, true},
		{"language", func(s *models.SubScores, v float64) { s.LanguageStrength = v }, true},
		{"completeness", func(s *models.SubScores, v float64) { s.Completeness = v }, true},
		{"risk", func(s *models.SubScores, v float64) { s.RiskPenalty = v }, false},
	}
	for _, f := range fields {
		t.Run(f.name, func(t *testing.T) {
			for i := 0; i < 500; i++ {
				sub := randomSubScores(rng)
				prev := math.NaN()
				for step := 0; step <= 20; step++ {
					f.set(&sub, float64(step)/20)
					got := Combine(sub, w, bonus, p)
					if !math.IsNaN(prev) {
						if f.increasing && got < prev-1e-9 {
							t.Fatalf("score fell from %v to %v at %s=%v", prev, got, f.name, float64(step)/20)
						}
						if !f.increasing && got > prev+1e-9 {
							t.Fatalf("score rose from %v to %v at %s=%v", prev, got, f.name, float64(step)/20)
						}
					}
					prev = got
				}
			}
		})
	}
}

func TestCombine_Maximum(t *testing.T) {
	sub := models.SubScores{RegulatoryAlignment: 1, LanguageStrength: 1, Completeness: 1}
	got := Combine(sub, WeightsFor(""), Bonus{HasMatches: true, Enforceable: true}, DefaultParams())
	want := 100*(1-math.Exp(-2)) + 5
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Combine = %v, want %v", got, want)
	}
}

func TestClassify_Thresholds(t *testing.T) {
	for score := 0; score <= 100; score++ {
		status, risk := Classify(score)
		switch {
		case score >= 75:
			if status != models.StatusCompliant || risk != models.RiskLow {
				t.Errorf("score %d = %s/%s", score, status, risk)
			}
		case score >= 50:
			if status != models.StatusPartiallyCompliant || risk != models.RiskMedium {
				t.Errorf("score %d = %s/%s", score, status, risk)
			}
		default:
			if status != models.StatusNonCompliant || risk != models.RiskHigh {
				t.Errorf("score %d = %s/%s", score, status, risk)
			}
		}
	}
}

func TestScore_OutdatedOverride(t *testing.T) {
	text := "This procedure is superseded and deprecated. Staff must follow the former process."
	got := Score(text, models.CategoryGeneral, nil, "")
	if got.OutdatedHits < 2 {
		t.Fatalf("outdated hits = %d", got.OutdatedHits)
	}
	if got.Status != models.StatusOutdated || got.RiskLevel != models.RiskHigh {
		t.Errorf("status = %s/%s, want outdated/High", got.Status, got.RiskLevel)
	}

	one := Score("This procedure was superseded last year.", models.CategoryGeneral, nil, "")
	if one.Status == models.StatusOutdated {
		t.Error("a single outdated keyword must not force outdated")
	}
}

func TestScore_WeakLanguageNoMatches(t *testing.T) {
	got := Score("may optional when possible best effort", models.CategoryGeneral, nil, "")
	if got.SubScores.RiskPenalty < 0.9 {
		t.Errorf("risk penalty = %v, want about 1", got.SubScores.RiskPenalty)
	}
	if got.SubScores.RegulatoryAlignment != 0 {
		t.Errorf("alignment = %v, want 0", got.SubScores.RegulatoryAlignment)
	}
	if got.Score > 35 {
		t.Errorf("score = %d, want <= 35", got.Score)
	}
	if got.Status != models.StatusNonCompliant || got.RiskLevel != models.RiskHigh {
		t.Errorf("status = %s/%s", got.Status, got.RiskLevel)
	}
	if got.EnforceableLanguage {
		t.Error("weak text flagged as enforceable")
	}
}

func TestScore_SubScoresInRange(t *testing.T) {
	matches := []models.RelevanceMatch{
		{Regulation: models.Regulation{Title: "A"}, SimilarityScore: 0.4},
		{Regulation: models.Regulation{Title: "B"}, SimilarityScore: 0.2},
	}
	texts := []string{
		"",
		"The owner is responsible for the review and audit of this procedure.",
		"Employees must wear PPE at all times and shall report every incident. Training is mandatory.",
	}
	for _, text := range texts {
		got := Score(text, models.CategoryHealthSafety, matches, "Industrial / Mining")
		for name, v := range map[string]float64{
			"alignment":    got.SubScores.RegulatoryAlignment,
			"language":     got.SubScores.LanguageStrength,
			"completeness": got.SubScores.Completeness,
			"risk":         got.SubScores.RiskPenalty,
		} {
			if v < 0 || v > 1 {
				t.Errorf("%q %s = %v", text, name, v)
			}
		}
		if got.Score < 0 || got.Score > 100 {
			t.Errorf("%q score = %d", text, got.Score)
		}
	}
}

func TestScore_StrongBeatsWeak(t *testing.T) {
	matches := []models.RelevanceMatch{{SimilarityScore: 0.35}, {SimilarityScore: 0.25}}
	strong := Score("The safety owner must inspect all PPE and shall record every incident for audit review.", models.CategoryHealthSafety, matches, "")
	weak := Score("The safety owner may inspect PPE when possible and records are optional where practical.", models.CategoryHealthSafety, matches, "")
	if strong.Score <= weak.Score {
		t.Errorf("strong = %d, weak = %d", strong.Score, weak.Score)
	}
	if !strong.EnforceableLanguage {
		t.Error("strong text not enforceable")
	}
}

func TestScore_AlignmentFormula(t *testing.T) {
	p := DefaultParams()
	matches := []models.RelevanceMatch{{SimilarityScore: 0.2}, {SimilarityScore: 0.1}}
	got := alignment(matches, p)
	want := 0.5*math.Min(1, 0.15*2) + 0.3*math.Min(1, 0.2*2.5) + 0.2*math.Min(1, 2.0/5)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("alignment = %v, want %v", got, want)
	}
}

func TestDocumentScore(t *testing.T) {
	tests := []struct {
		name   string
		scores []int
		want   int
	}{
		{"empty", nil, 0},
		{"single", []int{70}, 70},
		{"geometric", []int{40, 90}, 60},
		{"zero falls back to arithmetic", []int{0, 80, 70}, 50},
		{"all zero", []int{0, 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DocumentScore(tt.scores); got != tt.want {
				t.Errorf("DocumentScore(%v) = %d, want %d", tt.scores, got, tt.want)
			}
		})
	}
}

func TestWeightsFor(t *testing.T) {
	for industry, w := range IndustryWeights {
		if sum := w.Regulatory + w.Language + w.Completeness; math.Abs(sum-1) > 1e-9 {
			t.Errorf("%s weights sum to %v", industry, sum)
		}
	}
	if WeightsFor("Unknown") != IndustryWeights[GeneralIndustry] {
		t.Error("unknown industry should use General weights")
	}
}
