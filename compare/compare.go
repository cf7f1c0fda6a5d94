// Package compare contrasts an AI-updated SOP with a human-edited version clause by
// clause and extracts reusable drafting rules from the human edits.
package compare

import (
	"math"
	"strings"

	"reguguard-backend/models"
	"reguguard-backend/retrieval"
	"reguguard-backend/segmenter"

	"github.com/sergi/go-diff/diffmatchpatch"
)

const (
	maxFeatures     = 8000
	maxQuotedLines  = 8
	maxRecommended  = 10
	structuralLines = 8
	clarityMaxLen   = 180
)

var (
	regulatoryRefs = []string{"cfr", "ecfr", "osha", "hipaa", "hhs", "nist", "epa", "fda", "eeoc", "fincen", "sec", "ftc", "dol", "federal register", "iso", "gmp"}
	controlTerms   = []string{"approval", "approve", "review", "audit", "training", "record", "retention", "deviation", "oos", "out of specification", "capa", "validation", "change control", "governance", "responsible", "owner", "escalat", "risk", "mitigation"}
	mandatoryTerms = []string{"must", "shall", "required"}
	advisoryTerms  = []string{"should", "may", "when possible", "if feasible", "recommended"}
	governanceTerm = []string{"deviation", "oos", "capa", "validation", "change control"}
)

const (
	ruleMandatory  = "Prefer mandatory language (shall/must/required) over advisory language (should/may) for compliance controls."
	ruleOwners     = "Explicitly assign responsibilities/owners for each compliance control."
	ruleApproval   = "Add explicit approval/review controls (who approves, when, and how often)."
	ruleRecords    = "State documentation and record-retention requirements explicitly (what is recorded and how long it is retained)."
	ruleGovernance = "Include governance mechanisms for deviations/OOS/CAPA/validation/change control where applicable."
	ruleAnchoring  = "Anchor controls to explicit regulatory references when present in the SOP text (agency/framework names, CFR/standard references)."

	noClausesRecommendation = "Unable to compare clause-by-clause because one document did not yield extractable clauses."
	noRulesRecommendation   = "No verified human improvements detected that warrant updating generation rules."
	recommendationPrefix    = "Update SOP generation prompts/templates to: "
)

// Compare matches the clauses of both versions one to one by TF-IDF similarity
// and classifies the line-level edits of every matched pair. All quotes are
// verbatim lines of the inputs.
func Compare(aiText, humanText string) models.Comparison {
	out := models.Comparison{
		KeyDifferences:    []models.ClauseDifference{},
		HumanEnhancements: []models.ClauseDifference{},
		HumanWeaknesses:   []models.ClauseDifference{},
		LearningRules:     []string{},
		Recommendations:   []string{},
	}

	var aiClauses, humanClauses []models.Section
	if strings.TrimSpace(aiText) != "" {
		aiClauses = segmenter.Segment(strings.TrimSpace(aiText))
	}
	if strings.TrimSpace(humanText) != "" {
		humanClauses = segmenter.Segment(strings.TrimSpace(humanText))
	}
	out.AIClauses, out.HumanClauses = len(aiClauses), len(humanClauses)
	if len(aiClauses) == 0 || len(humanClauses) == 0 {
		out.Recommendations = append(out.Recommendations, noClausesRecommendation)
		return out
	}

	seenRules := make(map[string]bool)
	for _, p := range matchClauses(aiClauses, humanClauses) {
		ai, human := aiClauses[p.ai], humanClauses[p.human]
		out.MatchedPairs++

		removed, added := DiffLines(ai.Text, human.Text)
		kind := Classify(removed, added)
		if kind == models.DiffNoMaterialDifference {
			continue
		}
		diff := models.ClauseDifference{
			Classification: kind,
			AIClauseID:     ai.ID,
			AITitle:        ai.Title,
			HumanClauseID:  human.ID,
			HumanTitle:     human.Title,
			Similarity:     math.Round(p.score*1000) / 1000,
			RemovedLines:   removed,
			AddedLines:     added,
		}
		out.KeyDifferences = append(out.KeyDifferences, diff)

		addedControls, removedControls := containsAny(added, controlTerms), containsAny(removed, controlTerms)
		switch {
		case addedControls && !removedControls:
			out.HumanEnhancements = append(out.HumanEnhancements, diff)
		case removedControls && !addedControls:
			weakness := diff
			weakness.Classification = models.DiffControlStrengthening
			out.HumanWeaknesses = append(out.HumanWeaknesses, weakness)
		}

		for _, rule := range LearningRules(removed, added) {
			if !seenRules[rule] {
				seenRules[rule] = true
				out.LearningRules = append(out.LearningRules, rule)
			}
		}
	}

	for i, rule := range out.LearningRules {
		if i == maxRecommended {
			break
		}
		out.Recommendations = append(out.Recommendations, recommendationPrefix+rule)
	}
	if len(out.Recommendations) == 0 {
		out.Recommendations = append(out.Recommendations, noRulesRecommendation)
	}
	return out
}

type pair struct {
	ai, human int
	score     float64
}

// matchClauses greedily pairs each AI clause with its most similar unmatched
// human clause. AI clauses left over once every human clause is taken are unpaired.
func matchClauses(ai, human []models.Section) []pair {
	docs := make([]string, 0, len(ai)+len(human))
	for _, s := range ai {
		docs = append(docs, clauseText(s))
	}
	for _, s := range human {
		docs = append(docs, clauseText(s))
	}
	vectors := retrieval.NewVectorizer(maxFeatures).Fit(docs)
	aiVecs, humanVecs := vectors[:len(ai)], vectors[len(ai):]

	taken := make([]bool, len(human))
	var pairs []pair
	for i, av := range aiVecs {
		best, bestScore := -1, -1.0
		for j, hv := range humanVecs {
			if taken[j] {
				continue
			}
			if s := av.Dot(hv); s > bestScore {
				best, bestScore = j, s
			}
		}
		if best < 0 {
			break
		}
		taken[best] = true
		pairs = append(pairs, pair{ai: i, human: best, score: bestScore})
	}
	return pairs
}

func clauseText(s models.Section) string {
	return strings.TrimSpace(s.Title + " " + s.Text)
}

// DiffLines returns the non-blank lines removed from a and added in b, at most
// eight of each, verbatim.
func DiffLines(a, b string) (removed, added []string) {
	dmp := diffmatchpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)

	removed, added = []string{}, []string{}
	for _, d := range diffs {
		var target *[]string
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			target = &removed
		case diffmatchpatch.DiffInsert:
			target = &added
		default:
			continue
		}
		for _, ln := range strings.Split(d.Text, "\n") {
			ln = strings.TrimRight(ln, "\r")
			if strings.TrimSpace(ln) != "" && len(*target) < maxQuotedLines {
				*target = append(*target, ln)
			}
		}
	}
	return removed, added
}

// Classify names the kind of improvement a set of line edits represents.
func Classify(removed, added []string) models.DifferenceKind {
	if len(removed) == 0 && len(added) == 0 {
		return models.DiffNoMaterialDifference
	}
	if containsAny(added, regulatoryRefs) && !containsAny(removed, regulatoryRefs) {
		return models.DiffRegulatoryAlignment
	}
	if containsAny(added, controlTerms) && !containsAny(removed, controlTerms) {
		return models.DiffControlStrengthening
	}
	mustAdded, weakAdded := countTerms(added, mandatoryTerms), countTerms(added, advisoryTerms)
	mustRemoved, weakRemoved := countTerms(removed, mandatoryTerms), countTerms(removed, advisoryTerms)
	if mustAdded > mustRemoved && weakAdded <= weakRemoved {
		return models.DiffComplianceImprovement
	}
	if len(added)+len(removed) >= structuralLines {
		return models.DiffStructuralImprovement
	}
	if len(added) >= 2 {
		short := true
		for _, ln := range added {
			if len(ln) >= clarityMaxLen {
				short = false
				break
			}
		}
		if short {
			return models.DiffClarityEnhancement
		}
	}
	return models.DiffNoMaterialDifference
}

// LearningRules derives drafting rules from the lines a human changed.
func LearningRules(removed, added []string) []string {
	var rules []string
	addedBlob := strings.ToLower(strings.Join(added, " "))
	removedBlob := strings.ToLower(strings.Join(removed, " "))

	if strings.Contains(removedBlob, "should") && anyLine(added, "shall", "must") {
		rules = append(rules, ruleMandatory)
	}
	if anyLine(added, "responsible", "owner") {
		rules = append(rules, ruleOwners)
	}
	if anyLine(added, "approve", "review") {
		rules = append(rules, ruleApproval)
	}
	if anyLine(added, "record", "retention") {
		rules = append(rules, ruleRecords)
	}
	if containsAnyText(addedBlob, governanceTerm) {
		rules = append(rules, ruleGovernance)
	}
	if containsAnyText(addedBlob, regulatoryRefs) {
		rules = append(rules, ruleAnchoring)
	}
	return rules
}

func anyLine(lines []string, terms ...string) bool {
	for _, ln := range lines {
		if containsAnyText(strings.ToLower(ln), terms) {
			return true
		}
	}
	return false
}

func containsAny(lines []string, terms []string) bool {
	return containsAnyText(strings.ToLower(strings.Join(lines, " ")), terms)
}

func containsAnyText(blob string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(blob, t) {
			return true
		}
	}
	return false
}

func countTerms(lines []string, terms []string) int {
	blob := strings.ToLower(strings.Join(lines, " "))
	n := 0
	for _, t := range terms {
		n += strings.Count(blob, t)
	}
	return n
}
