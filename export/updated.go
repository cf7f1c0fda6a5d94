package export

import (
	"regexp"
	"sort"
	"strings"

	"reguguard-backend/models"
)

// AdditionHeader labels every approved suggestion inserted into a document.
const AdditionHeader = "Regulatory update (included as per compliance review)"

var (
	additionSeparator = strings.Repeat("-", 40)

	updateSectionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?im)^[ \t]*(?:section|clause|article|policy)[ \t]*[\d.:]+[^\n]*`),
		regexp.MustCompile(`(?m)^[ \t]*\d+\.\d+[^\n]*`),
		regexp.MustCompile(`(?im)^[ \t]*(?:purpose|scope|procedure|data|health|employment|financial|environmental|quality|it security|legal)\b[^\n]*`),
	}
)

// BuildUpdatedText returns text with each approved suggestion appended after the
// section that best matches its area. The original text is kept verbatim; with no
// usable approvals it is returned unchanged.
func BuildUpdatedText(text string, approvals []models.Approval) string {
	if strings.TrimSpace(text) == "" || len(approvals) == 0 {
		return text
	}
	spans := updateSpans(text)

	type addition struct{ area, suggestion string }
	inserts := make(map[int][]addition)
	for _, a := range approvals {
		suggestion := strings.TrimSpace(a.Suggestion)
		if suggestion == "" {
			continue
		}
		area := approvalArea(a)
		idx := bestSpan(text, spans, area)
		inserts[idx] = append(inserts[idx], addition{area, suggestion})
	}
	if len(inserts) == 0 {
		return text
	}

	var b strings.Builder
	for i, sp := range spans {
		chunk := text[sp[0]:sp[1]]
		b.WriteString(chunk)
		adds := inserts[i]
		if len(adds) == 0 {
			continue
		}
		if !strings.HasSuffix(chunk, "\n") {
			b.WriteString("\n")
		}
		for _, a := range adds {
			b.WriteString("\n" + additionSeparator + "\n\n")
			b.WriteString(AdditionHeader + ": " + a.area + "\n\n")
			b.WriteString(a.suggestion + "\n")
		}
		if i < len(spans)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// approvalArea strips the "_{index}" suffix from the key when the area is unset.
func approvalArea(a models.Approval) string {
	if area := strings.TrimSpace(a.Area); area != "" {
		return area
	}
	key := a.Key
	if i := strings.LastIndex(key, "_"); i > 0 {
		key = key[:i]
	}
	return strings.TrimSpace(key)
}

// updateSpans splits text at heading lines into contiguous [start, end) spans
// covering the whole text.
func updateSpans(text string) [][2]int {
	points := map[int]struct{}{0: {}}
	for _, re := range updateSectionPatterns {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			points[loc[0]] = struct{}{}
		}
	}
	starts := make([]int, 0, len(points))
	for p := range points {
		starts = append(starts, p)
	}
	sort.Ints(starts)

	spans := make([][2]int, 0, len(starts))
	for i, start := range starts {
		end := len(text)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		if end > start {
			spans = append(spans, [2]int{start, end})
		}
	}
	return spans
}

// bestSpan returns the span whose opening text shares the most words with area.
func bestSpan(text string, spans [][2]int, area string) int {
	areaNorm := matchKey(area)
	var words []string
	for _, w := range strings.Fields(strings.ReplaceAll(areaNorm, "/", " ")) {
		if len(w) > 1 {
			words = append(words, w)
		}
	}
	best, bestScore := 0, 0
	for i, sp := range spans {
		head := text[sp[0]:sp[1]]
		if len(head) > 200 {
			head = head[:200]
		}
		norm := matchKey(head)
		score := 0
		for _, w := range words {
			if strings.Contains(norm, w) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

func matchKey(s string) string {
	s = normalize(s)
	if len(s) > 80 {
		s = s[:80]
	}
	return s
}
