// Package segmenter splits free-text SOP documents into titled, categorized sections.
package segmenter

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"reguguard-backend/models"
)

const (
	minSpanLength      = 20
	minParagraphLength = 30
	maxTitleLength     = 100
	fullDocumentTitle  = "Full Document"
	untitledTitle      = "Untitled Clause"
)

// headingPatterns mark the start of a clause. The ALL-CAPS pattern is case-sensitive.
var headingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:^|\n)[ \t]*(?:section|clause|article|policy)[ \t]*[\d.]+[:\s]`),
	regexp.MustCompile(`(?:^|\n)[ \t]*\d+\.\d+[\s.]`),
	regexp.MustCompile(`(?:^|\n)[ \t]*\d+\)\s`),
	regexp.MustCompile(`(?:^|\n)[ \t]*[A-Z][A-Z \t]{5,}\n`),
	regexp.MustCompile(`(?i)(?:^|\n)[ \t]*(?:purpose|scope|procedure|responsibility|references|definitions|objective|compliance|policy statement)[ \t]*[:\n]`),
}

var paragraphSplit = regexp.MustCompile(`\n[ \t]*\n`)

// Segment splits raw document text into ordered sections.
// Empty or whitespace-only input yields an empty slice.
func Segment(raw string) []models.Section {
	if strings.TrimSpace(raw) == "" {
		return []models.Section{}
	}

	points := splitPoints(raw)
	if len(points) == 0 {
		return segmentParagraphs(raw)
	}

	sections := make([]models.Section, 0, len(points))
	for i, start := range points {
		end := len(raw)
		if i+1 < len(points) {
			end = points[i+1]
		}
		chunk := strings.TrimSpace(raw[start:end])
		if utf8.RuneCountInString(chunk) <= minSpanLength {
			continue
		}
		sections = append(sections, newSection(len(sections)+1, chunk))
	}
	if len(sections) == 0 {
		return []models.Section{fullDocument(raw)}
	}
	return sections
}

// splitPoints returns the sorted, deduplicated heading offsets, with 0 prepended.
// It returns nil when no heading pattern matches.
func splitPoints(raw string) []int {
	seen := make(map[int]struct{})
	for _, re := range headingPatterns {
		for _, loc := range re.FindAllStringIndex(raw, -1) {
			seen[loc[0]] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return nil
	}
	seen[0] = struct{}{}

	points := make([]int, 0, len(seen))
	for p := range seen {
		points = append(points, p)
	}
	sort.Ints(points)
	return points
}

func segmentParagraphs(raw string) []models.Section {
	var sections []models.Section
	for _, para := range paragraphSplit.Split(raw, -1) {
		para = strings.TrimSpace(para)
		if utf8.RuneCountInString(para) <= minParagraphLength {
			continue
		}
		sections = append(sections, newSection(len(sections)+1, para))
	}
	if len(sections) == 0 {
		return []models.Section{fullDocument(raw)}
	}
	return sections
}

func newSection(n int, text string) models.Section {
	return models.Section{
		ID:       sectionID(n),
		Title:    Title(text),
		Text:     text,
		Category: Categorize(text),
	}
}

func fullDocument(raw string) models.Section {
	return models.Section{
		ID:       sectionID(1),
		Title:    fullDocumentTitle,
		Text:     strings.TrimSpace(raw),
		Category: models.CategoryGeneral,
	}
}

func sectionID(n int) string {
	return fmt.Sprintf("CLAUSE-%03d", n)
}

// Title returns the first line of text, truncated to 100 characters.
func Title(text string) string {
	first := text
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		first = text[:i]
	}
	first = strings.TrimSpace(first)
	if first == "" {
		return untitledTitle
	}
	if utf8.RuneCountInString(first) > maxTitleLength {
		r := []rune(first)
		return string(r[:maxTitleLength-3]) + "..."
	}
	return first
}
