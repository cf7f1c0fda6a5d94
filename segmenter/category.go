package segmenter

import (
	"regexp"
	"strings"

	"reguguard-backend/models"
)

var categoryKeywords = map[models.Category][]string{
	models.CategoryDataPrivacy:    {"data", "privacy", "personal information", "gdpr", "ccpa", "pii", "consent"},
	models.CategoryHealthSafety:   {"health", "safety", "osha", "hazard", "ppe", "injury", "workplace safety"},
	models.CategoryFinancial:      {"financial", "accounting", "tax", "revenue", "audit", "fiscal", "budget"},
	models.CategoryEmployment:     {"employee", "hiring", "termination", "leave", "compensation", "hr", "human resources"},
	models.CategoryEnvironmental:  {"environmental", "waste", "emission", "pollution", "epa", "sustainability"},
	models.CategoryITSecurity:     {"cybersecurity", "password", "encryption", "firewall", "access control", "it security"},
	models.CategoryQualityControl: {"quality", "inspection", "testing", "iso", "standard", "certification"},
	models.CategoryLegal:          {"legal", "contract", "liability", "compliance", "regulation", "law"},
}

type categoryMatcher struct {
	category models.Category
	patterns []*regexp.Regexp
}

// Keywords only anchor at the start so "employee" also counts "employees".
var categoryMatchers = buildCategoryMatchers()

func buildCategoryMatchers() []categoryMatcher {
	matchers := make([]categoryMatcher, 0, len(models.Categories))
	for _, cat := range models.Categories {
		m := categoryMatcher{category: cat}
		for _, kw := range categoryKeywords[cat] {
			m.patterns = append(m.patterns, regexp.MustCompile(`\b`+regexp.QuoteMeta(kw)))
		}
		matchers = append(matchers, m)
	}
	return matchers
}

// Categorize picks the category whose keywords occur most often in text.
// Ties go to the earlier category in models.Categories; no hits yields General.
func Categorize(text string) models.Category {
	lower := strings.ToLower(text)
	best := models.CategoryGeneral
	bestCount := 0
	for _, m := range categoryMatchers {
		count := 0
		for _, re := range m.patterns {
			count += len(re.FindAllStringIndex(lower, -1))
		}
		if count > bestCount {
			best = m.category
			bestCount = count
		}
	}
	return best
}
