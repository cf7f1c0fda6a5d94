package scoring

import (
	"regexp"
	"strings"

	"reguguard-backend/models"
)

var (
	strongTerms   = []string{"must", "shall", "required", "mandatory", "prohibited", "at all times"}
	moderateTerms = []string{"should", "recommended", "expected", "encouraged", "ought to"}
	weakTerms     = []string{"may", "optional", "when possible", "where practical", "if feasible", "as appropriate", "best effort", "periodically"}

	highRiskTerms   = []string{"outdated", "superseded", "deprecated", "optional", "may", "when possible", "best effort"}
	mediumRiskTerms = []string{"should", "recommended", "consider", "if applicable"}

	outdatedTerms = []string{"superseded", "replaced by", "no longer", "deprecated", "previous version", "old standard", "former"}

	universalTerms = []string{"responsible", "owner", "review", "audit", "approval", "procedure", "process", "documentation", "record"}
)

var categoryTerms = map[models.Category][]string{
	models.CategoryDataPrivacy:    {"consent", "encrypt", "retention", "breach", "access", "deletion"},
	models.CategoryHealthSafety:   {"training", "ppe", "emergency", "incident", "hazard", "inspection"},
	models.CategoryFinancial:      {"audit trail", "reconciliation", "approval", "internal control", "reporting", "retention"},
	models.CategoryEmployment:     {"equal opportunity", "overtime", "leave", "termination", "discrimination", "training"},
	models.CategoryEnvironmental:  {"waste", "disposal", "emission", "monitoring", "spill", "permit"},
	models.CategoryITSecurity:     {"access control", "encryption", "incident response", "password", "multi-factor", "patch"},
	models.CategoryQualityControl: {"inspection", "nonconformance", "corrective action", "document control", "calibration", "management review"},
	models.CategoryLegal:          {"regulation", "contract", "retention", "legal hold", "liability", "review"},
	models.CategoryGeneral:        {"policy", "regulation", "training", "compliance"},
}

// termSet matches whole-word terms against lowercase text.
type termSet []*regexp.Regexp

func exact(terms []string) termSet {
	set := make(termSet, len(terms))
	for i, t := range terms {
		set[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(t) + `\b`)
	}
	return set
}

// prefixed matches terms as word prefixes so "encrypt" also finds "encrypted".
func prefixed(terms []string) termSet {
	set := make(termSet, len(terms))
	for i, t := range terms {
		set[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(t))
	}
	return set
}

// occurrences counts every match of every term.
func (s termSet) occurrences(lower string) int {
	n := 0
	for _, re := range s {
		n += len(re.FindAllStringIndex(lower, -1))
	}
	return n
}

// present counts the terms that occur at least once.
func (s termSet) present(lower string) int {
	n := 0
	for _, re := range s {
		if re.MatchString(lower) {
			n++
		}
	}
	return n
}

var (
	strongSet     = exact(strongTerms)
	moderateSet   = exact(moderateTerms)
	weakSet       = exact(weakTerms)
	highRiskSet   = exact(highRiskTerms)
	mediumRiskSet = exact(mediumRiskTerms)
	outdatedSet   = exact(outdatedTerms)
	universalSet  = prefixed(universalTerms)
	categorySets  = buildCategorySets()
)

func buildCategorySets() map[models.Category]termSet {
	sets := make(map[models.Category]termSet, len(categoryTerms))
	for cat, terms := range categoryTerms {
		sets[cat] = prefixed(terms)
	}
	return sets
}

func categorySet(category string) termSet {
	if set, ok := categorySets[category]; ok {
		return set
	}
	return categorySets[models.CategoryGeneral]
}

func wordCount(text string) int {
	return len(strings.Fields(text))
}

// HasEnforceableLanguage reports whether text contains any strong requirement term.
func HasEnforceableLanguage(text string) bool {
	return strongSet.present(strings.ToLower(text)) > 0
}

// OutdatedHits counts the distinct outdated-reference keywords in text.
func OutdatedHits(text string) int {
	return outdatedSet.present(strings.ToLower(text))
}

// WeakTermHits counts weak-language occurrences in text.
func WeakTermHits(text string) int {
	return weakSet.occurrences(strings.ToLower(text))
}
