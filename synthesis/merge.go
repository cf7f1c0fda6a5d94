package synthesis

import (
	"fmt"
	"regexp"
	"strings"

	"reguguard-backend/models"
)

// DefaultMergeThreshold is the issue word-set overlap at which findings are merged.
const DefaultMergeThreshold = 0.6

const maxAreaTitles = 3

var wordPattern = regexp.MustCompile(`\w+`)

func wordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range wordPattern.FindAllString(strings.ToLower(s), -1) {
		set[w] = struct{}{}
	}
	return set
}

// Jaccard returns the word-set overlap of a and b. Two empty sets have overlap 0.
func Jaccard(a, b string) float64 {
	return jaccardSets(wordSet(a), wordSet(b))
}

// MergeFindings clusters findings whose issue texts overlap by at least threshold
// (single link) and folds every cluster into one finding. Cluster order follows the
// first member; singletons are returned unchanged.
func MergeFindings(findings []models.Finding, threshold float64) []models.Finding {
	n := len(findings)
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}

	sets := make([]map[string]struct{}, n)
	for i, f := range findings {
		sets[i] = wordSet(f.Issue)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if jaccardSets(sets[i], sets[j]) >= threshold {
				ri, rj := find(i), find(j)
				if ri != rj {
					if ri < rj {
						parent[rj] = ri
					} else {
						parent[ri] = rj
					}
				}
			}
		}
	}

	groups := make(map[int][]int)
	var order []int
	for i := 0; i < n; i++ {
		root := find(i)
		if _, ok := groups[root]; !ok {
			order = append(order, root)
		}
		groups[root] = append(groups[root], i)
	}

	merged := make([]models.Finding, 0, len(order))
	for _, root := range order {
		members := groups[root]
		if len(members) == 1 {
			merged = append(merged, findings[members[0]])
			continue
		}
		group := make([]models.Finding, len(members))
		for k, idx := range members {
			group[k] = findings[idx]
		}
		merged = append(merged, mergeGroup(group))
	}
	return merged
}

func jaccardSets(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for w := range a {
		if _, ok := b[w]; ok {
			inter++
		}
	}
	return float64(inter) / float64(len(a)+len(b)-inter)
}

func mergeGroup(group []models.Finding) models.Finding {
	worst := 0
	for i, f := range group {
		if f.RiskLevel.Rank() > group[worst].RiskLevel.Rank() {
			worst = i
		}
	}
	out := group[worst]

	var areas, texts, sectionIDs []string
	regs := []string{}
	seenArea := make(map[string]struct{})
	seenReg := make(map[string]struct{})
	for _, f := range group {
		if _, dup := seenArea[f.Area]; !dup {
			seenArea[f.Area] = struct{}{}
			areas = append(areas, f.Area)
		}
		for _, r := range f.ApplicableRegulations {
			if _, dup := seenReg[r]; !dup {
				seenReg[r] = struct{}{}
				regs = append(regs, r)
			}
		}
		if len(f.Issue) > len(out.Issue) {
			out.Issue = f.Issue
		}
		if len(f.Suggestion) > len(out.Suggestion) {
			out.Suggestion = f.Suggestion
		}
		if f.Text != "" {
			texts = append(texts, f.Text)
		}
		sectionIDs = append(sectionIDs, f.SectionIDs...)
	}

	out.Area = joinAreas(areas)
	out.ApplicableRegulations = regs
	out.Text = strings.Join(texts, "\n\n")
	out.SectionIDs = sectionIDs
	return out
}

func joinAreas(areas []string) string {
	if len(areas) <= maxAreaTitles {
		return strings.Join(areas, " / ")
	}
	return fmt.Sprintf("%s +%d more", strings.Join(areas[:maxAreaTitles], " / "), len(areas)-maxAreaTitles)
}
