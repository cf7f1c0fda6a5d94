package scraper

import (
	"regexp"
	"strings"
	"unicode"

	"reguguard-backend/models"
)

const (
	minSourceText    = 100
	maxHeadingLength = 200
	minChunkLength   = 50
	maxTitleLength   = 150
	maxChunkText     = 2000
	maxChunks        = 30
)

var (
	numberedHeading  = regexp.MustCompile(`^[\d.]+\s+[A-Z]`)
	keywordHeading   = regexp.MustCompile(`(?i)^(?:section|title|part|chapter)\s`)
	excessBlankLines = regexp.MustCompile(`\n{3,}`)
)

// Chunk splits page text into regulation records. Heading-like paragraphs start a
// new record; text too short to be useful yields the category fallback.
func Chunk(text string, src models.SourceDefinition) []models.Regulation {
	text = excessBlankLines.ReplaceAllString(strings.TrimSpace(text), "\n\n")
	if runeLen(text) < minSourceText {
		return FallbackFor(src.Category)
	}

	var chunks []models.Regulation
	title := src.Name
	var body strings.Builder

	flush := func() {
		if runeLen(body.String()) > minChunkLength {
			chunks = append(chunks, record(src, title, strings.TrimSpace(body.String())))
		}
		body.Reset()
	}

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if isHeading(para) {
			flush()
			title = para
			continue
		}
		body.WriteString(para)
		body.WriteByte('\n')
	}
	flush()

	if len(chunks) == 0 {
		chunks = append(chunks, record(src, src.Name, text))
	}
	if len(chunks) > maxChunks {
		chunks = chunks[:maxChunks]
	}
	return chunks
}

func record(src models.SourceDefinition, title, text string) models.Regulation {
	return models.Regulation{
		SourceName: src.Name,
		SourceURL:  src.URL,
		Category:   src.Category,
		Title:      truncateRunes(title, maxTitleLength),
		Text:       truncateRunes(text, maxChunkText),
		Status:     models.RegulationActive,
	}
}

func isHeading(para string) bool {
	if runeLen(para) >= maxHeadingLength {
		return false
	}
	return isUpper(para) || numberedHeading.MatchString(para) || keywordHeading.MatchString(para)
}

// isUpper reports whether s has cased letters and all of them are upper case.
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}

func runeLen(s string) int {
	return len([]rune(s))
}

func truncateRunes(s string, n int) string {
	if r := []rune(s); len(r) > n {
		return string(r[:n])
	}
	return s
}
