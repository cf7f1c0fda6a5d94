// Package export renders analysis results as audit spreadsheets and updated documents.
package export

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"reguguard-backend/models"
)

const (
	// NoViolationText is the placeholder row text when nothing can be quoted.
	NoViolationText = "No explicit compliance violation detected."

	ActionApproved    = "Approved"
	ActionNotApproved = "Not approved"

	notApplicable   = "N/A"
	maxCandidates   = 2000
	minLineLength   = 12
	strongLineMatch = 12
	longLine        = 260
	pageNeedleLen   = 120
)

var (
	whitespace   = regexp.MustCompile(`\s+`)
	areaSplit    = regexp.MustCompile(`[/\s]+`)
	nonWord      = regexp.MustCompile(`\W+`)
	weakMarkers  = []string{"should", "may", "when possible", "if feasible", "recommended"}
	riskSeverity = map[models.RiskLevel]int{models.RiskHigh: 3, models.RiskMedium: 2, models.RiskLow: 1}
)

// AuditRow is one line of the compliance audit log.
type AuditRow struct {
	RiskLevel  models.RiskLevel
	Page       string
	Line       int
	Text       string
	Suggestion string
	SourceLink string
	Action     string
	Date       string
	// IssueType and Severity are read from the quoted line itself; empty when
	// the line carries no explicit problem.
	IssueType string
	Severity  string
}

// AuditRows builds one row per non-compliant finding that can be pinned to a
// verbatim line of fullText, most severe first. pages enables page attribution
// for PDFs. When nothing can be quoted a single placeholder row is returned.
func AuditRows(findings []models.Finding, fullText string, pages []string, citations []models.Citation, approvals map[string]models.Approval, today time.Time) []AuditRow {
	date := today.Format("2006-01-02")
	normPages := make([]string, len(pages))
	for i, p := range pages {
		normPages[i] = normalize(p)
	}

	var rows []AuditRow
	for idx, f := range findings {
		if f.Status == models.StatusCompliant {
			continue
		}
		line, lineNo := NoncompliantLine(fullText, f)
		if line == "" {
			continue
		}

		page := notApplicable
		if n := findPage(normPages, line); n > 0 {
			page = strconv.Itoa(n)
		}
		action := ActionNotApproved
		if _, ok := approvals[models.ApprovalKey(f.Area, idx)]; ok {
			action = ActionApproved
		}
		source := PickSourceURL(f, citations)
		issueType, severity := ClassifyLine(line)

		rows = append(rows, AuditRow{
			RiskLevel:  f.RiskLevel,
			Page:       page,
			Line:       lineNo,
			Text:       line,
			Suggestion: suggestionCell(f, source),
			SourceLink: source,
			Action:     action,
			Date:       date,
			IssueType:  issueType,
			Severity:   severity,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return riskSeverity[rows[i].RiskLevel] > riskSeverity[rows[j].RiskLevel]
	})
	if len(rows) == 0 {
		rows = append(rows, AuditRow{
			RiskLevel: models.RiskLow,
			Page:      notApplicable,
			Text:      NoViolationText,
			Action:    ActionNotApproved,
			Date:      date,
		})
	}
	return rows
}

func suggestionCell(f models.Finding, source string) string {
	var parts []string
	if issue := strings.TrimSpace(f.Issue); issue != "" && issue != "None" {
		parts = append(parts, "Error: "+issue)
	}
	if s := strings.TrimSpace(f.Suggestion); s != "" {
		parts = append(parts, "Suggestion: "+s)
	}
	if source != "" {
		parts = append(parts, "Source: "+source)
	}
	return strings.Join(parts, "\n")
}

// NoncompliantLine picks the document line that best matches the finding's area
// and issue. The line is returned verbatim with its 1-based line number; ""
// when no line qualifies.
func NoncompliantLine(fullText string, f models.Finding) (string, int) {
	if fullText == "" {
		return "", 0
	}
	var areaWords, issueWords []string
	for _, w := range areaSplit.Split(strings.ToLower(normalize(f.Area)), -1) {
		if len(w) >= 3 {
			areaWords = append(areaWords, w)
		}
	}
	for _, w := range nonWord.Split(strings.ToLower(normalize(f.Issue)), -1) {
		if len(w) >= 4 {
			issueWords = append(issueWords, w)
		}
	}
	if len(issueWords) > 12 {
		issueWords = issueWords[:12]
	}

	bestLine, bestNo := "", 0
	bestScore := -1 << 31
	candidates := 0
	for i, ln := range strings.Split(fullText, "\n") {
		ln = strings.TrimRight(ln, "\r")
		if strings.TrimSpace(ln) == "" {
			continue
		}
		if candidates++; candidates > maxCandidates {
			break
		}
		norm := normalize(ln)
		if len(norm) < minLineLength {
			continue
		}
		score := 0
		for _, w := range areaWords {
			if strings.Contains(norm, w) {
				score += 3
			}
		}
		for _, w := range issueWords {
			if strings.Contains(norm, w) {
				score += 2
			}
		}
		for _, m := range weakMarkers {
			if strings.Contains(norm, m) {
				score += 2
				break
			}
		}
		if len(norm) > longLine {
			score -= (len(norm) - longLine) / 40
		}
		if score > bestScore {
			bestScore, bestLine, bestNo = score, ln, i+1
		}
		if bestScore >= strongLineMatch {
			break
		}
	}
	return bestLine, bestNo
}

// ClassifyLine reads an issue type and severity from the line text alone.
func ClassifyLine(line string) (issueType, severity string) {
	ln := strings.ToLower(line)
	switch {
	case containsAny(ln, "not required", "ignore", "do not", "without approval", "no need to", "skip"):
		return "Explicit policy conflict", "Critical GMP Violation"
	case containsAny(ln, "superseded", "replaced by", "no longer", "deprecated", "legacy", "previous version", "old standard", "former"):
		return "Outdated reference", "Major Gap"
	case containsAny(ln, "should", "may", "when possible", "if feasible", "recommended", "as appropriate", "where practicable"):
		return "Documentation Clarity Observation", "Observation"
	}
	return "", ""
}

// PickSourceURL prefers a citation whose title names one of the finding's
// regulations, else the most relevant citation.
func PickSourceURL(f models.Finding, citations []models.Citation) string {
	if len(citations) == 0 {
		return ""
	}
	for _, c := range citations {
		title := strings.ToLower(c.Title)
		for _, reg := range f.ApplicableRegulations {
			if reg = strings.ToLower(reg); reg != "" && strings.Contains(title, reg) {
				return c.URL
			}
		}
	}
	best := citations[0]
	for _, c := range citations[1:] {
		if c.RelevanceScore > best.RelevanceScore {
			best = c
		}
	}
	return best.URL
}

// findPage returns the 1-based page containing excerpt, or 0.
func findPage(pages []string, excerpt string) int {
	if len(pages) == 0 {
		return 0
	}
	needle := normalize(excerpt)
	if len(needle) > pageNeedleLen {
		needle = needle[:pageNeedleLen]
	}
	if needle == "" {
		return 0
	}
	for i, hay := range pages {
		if strings.Contains(hay, needle) {
			return i + 1
		}
	}

	var tokens []string
	for _, t := range nonWord.Split(needle, -1) {
		if len(t) >= 5 {
			tokens = append(tokens, t)
		}
		if len(tokens) == 6 {
			break
		}
	}
	if len(tokens) == 0 {
		return 0
	}
	need := max(2, len(tokens)/2)
	for i, hay := range pages {
		hits := 0
		for _, t := range tokens {
			if strings.Contains(hay, t) {
				hits++
			}
		}
		if hits >= need {
			return i + 1
		}
	}
	return 0
}

// normalize lowercases s and collapses whitespace.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(whitespace.ReplaceAllString(s, " ")))
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
