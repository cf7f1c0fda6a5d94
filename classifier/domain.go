package classifier

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"reguguard-backend/models"
)

const (
	domainSampleLength = 50000
	maxKeywordHits     = 3
	assumedMaxScore    = 50.0
	minConfidence      = 0.3
	maxConfidence      = 0.95
	coreWeight         = 5.0
	phraseWeight       = 3.0
	acronymWeight      = 2.5
	defaultWeight      = 2.0
	acronymMaxLength   = 4
	noSignalReason     = "No strong domain-specific signals detected; using general SME regulations."
	noTextReason       = "No text to analyze."
)

var whitespace = regexp.MustCompile(`\s+`)

type weightedKeyword struct {
	pattern *regexp.Regexp
	weight  float64
}

type domainModel struct {
	label    string
	keywords []weightedKeyword
}

// Detector scores documents against a fixed domain table.
type Detector struct {
	defs   Definitions
	models []domainModel
}

// NewDetector compiles defs into a detector.
func NewDetector(defs Definitions) *Detector {
	core := defs.coreTerms()
	d := &Detector{defs: defs}
	for _, dom := range defs.Domains {
		m := domainModel{label: dom.Label}
		for _, kw := range dom.Keywords {
			m.keywords = append(m.keywords, weightedKeyword{
				pattern: regexp.MustCompile(`\b` + regexp.QuoteMeta(kw) + `\b`),
				weight:  keywordWeight(kw, core),
			})
		}
		d.models = append(d.models, m)
	}
	return d
}

// Definitions returns the table the detector was built from.
func (d *Detector) Definitions() Definitions {
	return d.defs
}

func keywordWeight(kw string, core []string) float64 {
	for _, c := range core {
		if strings.Contains(kw, c) {
			return coreWeight
		}
	}
	switch {
	case strings.Contains(kw, " "):
		return phraseWeight
	case len(kw) <= acronymMaxLength:
		return acronymWeight
	default:
		return defaultWeight
	}
}

// Scores returns the raw score of every domain in definition order.
func (d *Detector) Scores(text string) []float64 {
	sample := text
	if r := []rune(sample); len(r) > domainSampleLength {
		sample = string(r[:domainSampleLength])
	}
	lower := whitespace.ReplaceAllString(strings.ToLower(sample), " ")
	scores := make([]float64, len(d.models))
	for i, m := range d.models {
		for _, kw := range m.keywords {
			hits := len(kw.pattern.FindAllStringIndex(lower, -1))
			if hits > maxKeywordHits {
				hits = maxKeywordHits
			}
			scores[i] += kw.weight * float64(hits)
		}
	}
	return scores
}

// Detect picks the best-scoring domain with a confidence estimate.
func (d *Detector) Detect(text string) models.DomainClassification {
	if strings.TrimSpace(text) == "" {
		return models.DomainClassification{Domain: GeneralDomain, Confidence: 0, Reason: noTextReason}
	}
	scores := d.Scores(text)
	best, second := -1, -1
	for i, s := range scores {
		switch {
		case best < 0 || s > scores[best]:
			second = best
			best = i
		case second < 0 || s > scores[second]:
			second = i
		}
	}
	if best < 0 || scores[best] <= 0 {
		return models.DomainClassification{Domain: GeneralDomain, Confidence: 0, Reason: noSignalReason}
	}
	bestScore := scores[best]
	secondScore := 0.0
	if second >= 0 {
		secondScore = scores[second]
	}

	gap := 1.0
	if secondScore > 0 {
		gap = bestScore / (bestScore + secondScore + 0.1)
	}
	conf := 0.7*math.Min(1, bestScore/assumedMaxScore) + 0.3*gap
	conf = math.Min(maxConfidence, math.Max(minConfidence, conf))
	conf = math.Round(conf*100) / 100

	return models.DomainClassification{
		Domain:     d.models[best].label,
		Confidence: conf,
		Reason: fmt.Sprintf("Detected domain '%s' using keyword signals (score: %.1f, separation: %.1f).",
			d.models[best].label, bestScore, bestScore-secondScore),
	}
}

// DetectDomain runs the rule-based detector over defs.
func DetectDomain(text string, defs Definitions) models.DomainClassification {
	return NewDetector(defs).Detect(text)
}
