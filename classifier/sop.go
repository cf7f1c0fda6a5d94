// Package classifier decides whether a document is an SOP and which industry domain it belongs to.
package classifier

import (
	"fmt"
	"regexp"
	"strings"

	"reguguard-backend/models"
)

const minSOPIndicatorHits = 2

var sopIndicators = []string{
	"standard operating procedure", "sop", "procedure", "policy", "scope", "purpose",
	"responsibilities", "responsible", "compliance", "shall", "must", "employees",
	"section", "approval", "review", "document control",
}

var nonSOPIndicators = []string{
	"once upon a time", "happily ever after", "protagonist", "dear diary",
	"fairy tale", "chapter one", "lyrics", "stanza",
}

var (
	sopPatterns    = wordPatterns(sopIndicators)
	nonSOPPatterns = wordPatterns(nonSOPIndicators)
)

func wordPatterns(terms []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(terms))
	for i, t := range terms {
		out[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(t) + `\b`)
	}
	return out
}

func countHits(lower string, patterns []*regexp.Regexp) int {
	n := 0
	for _, re := range patterns {
		n += len(re.FindAllStringIndex(lower, -1))
	}
	return n
}

// ClassifySOP applies the rule-based SOP gate.
func ClassifySOP(text string) models.SOPClassification {
	lower := strings.ToLower(text)
	if strings.TrimSpace(lower) == "" {
		return models.SOPClassification{IsSOP: false, Reason: "No text to analyze.", DocumentType: "Empty document"}
	}
	sop := countHits(lower, sopPatterns)
	other := countHits(lower, nonSOPPatterns)
	if sop >= minSOPIndicatorHits && other == 0 {
		return models.SOPClassification{
			IsSOP:        true,
			Reason:       fmt.Sprintf("Found %d SOP indicator(s) and no narrative indicators.", sop),
			DocumentType: "Standard Operating Procedure",
		}
	}
	return models.SOPClassification{
		IsSOP:        false,
		Reason:       fmt.Sprintf("Found %d SOP indicator(s) and %d narrative indicator(s).", sop, other),
		DocumentType: "Other document",
	}
}
