// Package synthesis turns scored sections into findings and assembles the document report.
package synthesis

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"reguguard-backend/models"
	"reguguard-backend/scoring"
)

const (
	maxApplicableRegulations = 3
	maxRequirementLength     = 240
	maxExcerptLength         = 200

	issueNone      = "None"
	suggestionNone = "No change needed"
)

var (
	sentencePattern    = regexp.MustCompile(`[^.!?]+[.!?]*`)
	requirementPattern = regexp.MustCompile(`(?i)\b(must|shall|required|ensure|provide|maintain)`)
)

// Synthesize builds the finding for one section from its matches and score.
func Synthesize(section models.Section, matches []models.RelevanceMatch, result scoring.Result) models.Finding {
	f := models.Finding{
		Area:                  section.Title,
		Status:                result.Status,
		RiskLevel:             result.RiskLevel,
		ApplicableRegulations: ApplicableRegulations(matches),
		Text:                  section.Text,
		SectionIDs:            []string{section.ID},
		Category:              section.Category,
		Score:                 result.Score,
	}
	sub := result.SubScores
	f.SubScores = &sub

	var top *models.Regulation
	if len(matches) > 0 {
		top = &matches[0].Regulation
	}
	title := section.Title

	switch result.Status {
	case models.StatusCompliant:
		if result.Score >= scoring.DefaultParams().NoIssueThreshold {
			f.Issue = issueNone
			f.Suggestion = suggestionNone
			break
		}
		f.Issue = fmt.Sprintf("Minor improvements possible in '%s'.", title)
		if top != nil {
			f.Suggestion = fmt.Sprintf("Optionally tighten the wording to mirror %s: \"%s\"", top.Title, RequirementSentence(top.Text))
		} else {
			f.Suggestion = "Optionally name the responsible owner and the review date explicitly."
		}

	case models.StatusOutdated:
		f.Issue = fmt.Sprintf("'%s' references superseded or outdated requirements.", title)
		if top != nil {
			f.Suggestion = fmt.Sprintf("Replace the outdated references with the current requirement from %s: \"%s\"", top.Title, RequirementSentence(top.Text))
		} else {
			f.Suggestion = "Replace the outdated references with the current governing regulation and record the revision date."
		}

	case models.StatusPartiallyCompliant:
		gap := gapDescription(result)
		if top != nil {
			f.Issue = fmt.Sprintf("'%s' is only partially aligned with %s: %s.", title, top.Title, gap)
			f.Suggestion = fmt.Sprintf("Strengthen this section to reflect %s: \"%s\"", top.Title, RequirementSentence(top.Text))
		} else {
			f.Issue = fmt.Sprintf("'%s' is only partially aligned with applicable regulations: %s.", title, gap)
			f.Suggestion = "Use enforceable language (must/shall) and name the governing regulation."
		}

	default:
		if top == nil {
			f.Issue = fmt.Sprintf("'%s' has no regulatory anchor: no relevant regulation was found for this section.", title)
			f.Suggestion = "Add enforceable language (must/shall), name the governing regulation, assign a responsible owner and define a review cadence."
		} else {
			f.Issue = fmt.Sprintf("'%s' is weakly aligned with %s: %s.", title, top.Title, gapDescription(result))
			f.Suggestion = fmt.Sprintf("Rewrite this section to meet %s: \"%s\"", top.Title, RequirementSentence(top.Text))
		}
	}
	return f
}

func gapDescription(result scoring.Result) string {
	if !result.EnforceableLanguage {
		return "weak/vague language"
	}
	return "some required elements missing/unclear"
}

// ApplicableRegulations returns the first three distinct, non-empty match titles.
func ApplicableRegulations(matches []models.RelevanceMatch) []string {
	titles := []string{}
	seen := make(map[string]struct{})
	for _, m := range matches {
		title := strings.TrimSpace(m.Regulation.Title)
		if title == "" {
			continue
		}
		if _, dup := seen[title]; dup {
			continue
		}
		seen[title] = struct{}{}
		titles = append(titles, title)
		if len(titles) == maxApplicableRegulations {
			break
		}
	}
	return titles
}

// RequirementSentence returns the first sentence of text that reads like a requirement,
// falling back to a truncated excerpt.
func RequirementSentence(text string) string {
	for _, s := range sentencePattern.FindAllString(text, -1) {
		s = strings.Join(strings.Fields(s), " ")
		if requirementPattern.MatchString(s) {
			return truncate(s, maxRequirementLength)
		}
	}
	return truncate(strings.Join(strings.Fields(text), " "), maxExcerptLength)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:n-3])) + "..."
}
