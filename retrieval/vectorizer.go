// Package retrieval ranks regulation records against free text with a TF-IDF vector space.
package retrieval

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// DefaultMaxFeatures caps the fitted vocabulary.
const DefaultMaxFeatures = 5000

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Vector is a sparse, L2-normalized TF-IDF vector sorted by term index.
type Vector []entry

type entry struct {
	index int
	value float64
}

// Dot returns the inner product of two vectors. For normalized vectors this is the cosine similarity.
func (v Vector) Dot(other Vector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(v) && j < len(other) {
		switch {
		case v[i].index == other[j].index:
			sum += v[i].value * other[j].value
			i++
			j++
		case v[i].index < other[j].index:
			i++
		default:
			j++
		}
	}
	return sum
}

// Vectorizer turns text into TF-IDF vectors over unigrams and bigrams
// with English stop words removed and smooth IDF weighting.
type Vectorizer struct {
	maxFeatures int
	vocabulary  map[string]int
	idf         []float64
}

// NewVectorizer creates an unfitted vectorizer. maxFeatures <= 0 uses DefaultMaxFeatures.
func NewVectorizer(maxFeatures int) *Vectorizer {
	if maxFeatures <= 0 {
		maxFeatures = DefaultMaxFeatures
	}
	return &Vectorizer{maxFeatures: maxFeatures}
}

// Terms extracts the lowercase unigram and bigram terms of text.
// Stop words are dropped before bigrams are formed.
func Terms(text string) []string {
	tokens := tokenPattern.FindAllString(strings.ToLower(text), -1)
	words := tokens[:0]
	for _, tok := range tokens {
		if _, stop := stopWords[tok]; !stop {
			words = append(words, tok)
		}
	}
	terms := make([]string, 0, 2*len(words))
	terms = append(terms, words...)
	for i := 0; i+1 < len(words); i++ {
		terms = append(terms, words[i]+" "+words[i+1])
	}
	return terms
}

// Fit learns the vocabulary and IDF weights from docs and returns their vectors.
func (v *Vectorizer) Fit(docs []string) []Vector {
	docTerms := make([][]string, len(docs))
	totals := make(map[string]int)
	for i, doc := range docs {
		docTerms[i] = Terms(doc)
		for _, term := range docTerms[i] {
			totals[term]++
		}
	}

	vocab := make([]string, 0, len(totals))
	for term := range totals {
		vocab = append(vocab, term)
	}
	sort.Slice(vocab, func(i, j int) bool {
		if totals[vocab[i]] != totals[vocab[j]] {
			return totals[vocab[i]] > totals[vocab[j]]
		}
		return vocab[i] < vocab[j]
	})
	if len(vocab) > v.maxFeatures {
		vocab = vocab[:v.maxFeatures]
	}
	sort.Strings(vocab)

	v.vocabulary = make(map[string]int, len(vocab))
	for i, term := range vocab {
		v.vocabulary[term] = i
	}

	df := make([]int, len(vocab))
	for _, terms := range docTerms {
		seen := make(map[int]struct{})
		for _, term := range terms {
			if idx, ok := v.vocabulary[term]; ok {
				if _, dup := seen[idx]; !dup {
					seen[idx] = struct{}{}
					df[idx]++
				}
			}
		}
	}
	n := float64(len(docs))
	v.idf = make([]float64, len(vocab))
	for i, d := range df {
		v.idf[i] = math.Log((1+n)/(1+float64(d))) + 1
	}

	vectors := make([]Vector, len(docs))
	for i, terms := range docTerms {
		vectors[i] = v.vectorize(terms)
	}
	return vectors
}

// Transform vectorizes text with the fitted vocabulary. Unknown terms are ignored.
func (v *Vectorizer) Transform(text string) Vector {
	if len(v.vocabulary) == 0 {
		return nil
	}
	return v.vectorize(Terms(text))
}

// VocabularySize reports the number of fitted terms.
func (v *Vectorizer) VocabularySize() int {
	return len(v.vocabulary)
}

func (v *Vectorizer) vectorize(terms []string) Vector {
	counts := make(map[int]float64)
	for _, term := range terms {
		if idx, ok := v.vocabulary[term]; ok {
			counts[idx]++
		}
	}
	if len(counts) == 0 {
		return nil
	}
	vec := make(Vector, 0, len(counts))
	for idx, tf := range counts {
		vec = append(vec, entry{index: idx, value: tf * v.idf[idx]})
	}
	sort.Slice(vec, func(i, j int) bool { return vec[i].index < vec[j].index })

	var norm float64
	for _, e := range vec {
		norm += e.value * e.value
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i].value /= norm
	}
	return vec
}
