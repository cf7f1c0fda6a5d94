package retrieval

import (
	"math"
	"sort"

	"reguguard-backend/models"
)

const (
	// NoiseFloor is the raw cosine similarity a record must exceed to be returned.
	NoiseFloor = 0.03

	categoryBoostFactor = 1.25
	categoryBoostOffset = 0.05
)

// Retriever holds a fitted vector index over a regulation corpus.
// A nil or empty Retriever returns no matches.
type Retriever struct {
	corpus     []models.Regulation
	vectorizer *Vectorizer
	vectors    []Vector
}

// Index fits a retriever over corpus. The corpus must be fully materialized; indexing is not incremental.
func Index(corpus []models.Regulation) *Retriever {
	r := &Retriever{
		corpus:     append([]models.Regulation(nil), corpus...),
		vectorizer: NewVectorizer(DefaultMaxFeatures),
	}
	if len(corpus) == 0 {
		return r
	}
	docs := make([]string, len(corpus))
	for i, reg := range corpus {
		docs[i] = reg.Title + " " + reg.Text + " " + reg.Category
	}
	r.vectors = r.vectorizer.Fit(docs)
	return r
}

// Len reports the number of indexed records.
func (r *Retriever) Len() int {
	if r == nil {
		return 0
	}
	return len(r.corpus)
}

// Corpus returns a copy of the indexed records.
func (r *Retriever) Corpus() []models.Regulation {
	if r == nil {
		return nil
	}
	return append([]models.Regulation(nil), r.corpus...)
}

type scored struct {
	pos   int
	score float64
}

// Retrieve returns up to topK records most similar to query, best first.
// Records in categoryHint get a boost; ties keep corpus order.
func (r *Retriever) Retrieve(query, categoryHint string, topK int) []models.RelevanceMatch {
	matches := []models.RelevanceMatch{}
	if r == nil || topK <= 0 || len(r.vectors) == 0 {
		return matches
	}
	q := r.vectorizer.Transform(query)
	if len(q) == 0 {
		return matches
	}

	candidates := make([]scored, 0, len(r.vectors))
	for i, vec := range r.vectors {
		sim := q.Dot(vec)
		if sim <= NoiseFloor {
			continue
		}
		if categoryHint != "" && r.corpus[i].Category == categoryHint {
			sim = math.Min(1, sim*categoryBoostFactor+categoryBoostOffset)
		}
		candidates = append(candidates, scored{pos: i, score: math.Min(1, sim)})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if len(candidates) > topK {
		candidates = candidates[:topK]
	}
	for _, c := range candidates {
		matches = append(matches, models.RelevanceMatch{
			Regulation:      r.corpus[c.pos],
			SimilarityScore: c.score,
		})
	}
	return matches
}

// QueryText is the text used to retrieve matches for a section.
func QueryText(s models.Section) string {
	return s.Title + " " + s.Text + " " + s.Category
}

// MatchSections retrieves the topK matches for every section, hinting by the section category.
func (r *Retriever) MatchSections(sections []models.Section, topK int) [][]models.RelevanceMatch {
	out := make([][]models.RelevanceMatch, len(sections))
	for i, s := range sections {
		out[i] = r.Retrieve(QueryText(s), s.Category, topK)
	}
	return out
}
