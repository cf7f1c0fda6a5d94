package retrieval

import (
	"math"
	"reflect"
	"testing"

	"reguguard-backend/models"
)

func testCorpus() []models.Regulation {
	return []models.Regulation{
		{SourceName: "FTC", SourceURL: "https://ftc.example/privacy", Category: models.CategoryDataPrivacy,
			Title: "Data Protection Requirements", Text: "Personal data must be protected with encryption. Consent must be obtained before collection."},
		{SourceName: "OSHA", SourceURL: "https://osha.example/ppe", Category: models.CategoryHealthSafety,
			Title: "Personal Protective Equipment", Text: "Employers must provide PPE and hazard training to workers."},
		{SourceName: "IRS", SourceURL: "https://irs.example/records", Category: models.CategoryFinancial,
			Title: "Recordkeeping", Text: "Financial records must be retained for seven years for audit purposes."},
		{SourceName: "EPA", SourceURL: "https://epa.example/waste", Category: models.CategoryEnvironmental,
			Title: "Hazardous Waste", Text: "Hazardous waste disposal requires a permit and manifest tracking."},
		{SourceName: "NIST", SourceURL: "https://nist.example/access", Category: models.CategoryITSecurity,
			Title: "Access Control", Text: "Access to personal data systems shall use multi-factor authentication and encryption."},
	}
}

func TestTerms(t *testing.T) {
	got := Terms("The Data must be ENCRYPTED, a b data")
	want := []string{"data", "encrypted", "data", "data encrypted", "encrypted data"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Terms() = %q, want %q", got, want)
	}
}

func TestVectorizer_Normalized(t *testing.T) {
	v := NewVectorizer(0)
	vecs := v.Fit([]string{"consent records retention", "hazard training records"})
	for i, vec := range vecs {
		if n := vec.Dot(vec); math.Abs(n-1) > 1e-9 {
			t.Errorf("doc %d norm^2 = %v, want 1", i, n)
		}
	}
	if v.Transform("zebra unicorn") != nil {
		t.Error("unknown terms should produce an empty vector")
	}
}

func TestVectorizer_MaxFeatures(t *testing.T) {
	v := NewVectorizer(3)
	v.Fit([]string{"alpha alpha alpha beta beta gamma delta"})
	if got := v.VocabularySize(); got != 3 {
		t.Fatalf("vocabulary size = %d, want 3", got)
	}
	if v.Transform("delta") != nil {
		t.Error("low-frequency term should be dropped from the vocabulary")
	}
	if v.Transform("alpha") == nil {
		t.Error("most frequent term should be kept")
	}
}

func TestRetrieve_Determinism(t *testing.T) {
	r := Index(testCorpus())
	query := "personal data encryption and consent"
	first := r.Retrieve(query, models.CategoryDataPrivacy, 5)
	second := r.Retrieve(query, models.CategoryDataPrivacy, 5)
	if len(first) == 0 {
		t.Fatal("expected matches")
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("results differ between calls:\n%+v\n%+v", first, second)
	}
	if first[0].Regulation.Title != "Data Protection Requirements" {
		t.Errorf("top match = %q", first[0].Regulation.Title)
	}
}

func TestRetrieve_TopKMonotonic(t *testing.T) {
	r := Index(testCorpus())
	query := "personal data access encryption hazard waste records"
	var prev []models.RelevanceMatch
	for k := 1; k <= 6; k++ {
		got := r.Retrieve(query, "", k)
		if len(got) > k {
			t.Fatalf("k=%d returned %d matches", k, len(got))
		}
		if len(got) < len(prev) {
			t.Fatalf("k=%d returned fewer matches than k=%d", k, k-1)
		}
		for i := range prev {
			if !reflect.DeepEqual(got[i], prev[i]) {
				t.Fatalf("k=%d changed match %d", k, i)
			}
		}
		for i := 1; i < len(got); i++ {
			if got[i].SimilarityScore > got[i-1].SimilarityScore {
				t.Errorf("k=%d scores not descending at %d", k, i)
			}
		}
		prev = got
	}
}

func TestRetrieve_NoiseFloor(t *testing.T) {
	r := Index(testCorpus())
	for _, m := range r.Retrieve("hazardous waste permit", "", 10) {
		if m.SimilarityScore <= NoiseFloor {
			t.Errorf("%q returned below noise floor: %v", m.Regulation.Title, m.SimilarityScore)
		}
	}
	if got := r.Retrieve("completely unrelated vocabulary zebra", "", 10); len(got) != 0 {
		t.Errorf("unrelated query returned %d matches", len(got))
	}
}

func TestRetrieve_CategoryBoost(t *testing.T) {
	r := Index(testCorpus())
	plain := r.Retrieve("personal data encryption", "", 5)
	boosted := r.Retrieve("personal data encryption", models.CategoryITSecurity, 5)

	find := func(ms []models.RelevanceMatch, title string) float64 {
		for _, m := range ms {
			if m.Regulation.Title == title {
				return m.SimilarityScore
			}
		}
		return -1
	}
	p, b := find(plain, "Access Control"), find(boosted, "Access Control")
	if p < 0 || b < 0 {
		t.Fatalf("Access Control missing: plain=%v boosted=%v", p, b)
	}
	want := math.Min(1, p*1.25+0.05)
	if math.Abs(b-want) > 1e-9 {
		t.Errorf("boosted = %v, want %v", b, want)
	}
}

func TestRetrieve_Degenerate(t *testing.T) {
	var nilRetriever *Retriever
	if got := nilRetriever.Retrieve("data", "", 3); len(got) != 0 {
		t.Errorf("nil retriever returned %d matches", len(got))
	}
	if got := Index(nil).Retrieve("data", "", 3); len(got) != 0 {
		t.Errorf("empty corpus returned %d matches", len(got))
	}
	r := Index(testCorpus())
	for _, k := range []int{0, -1} {
		if got := r.Retrieve("personal data", "", k); len(got) != 0 {
			t.Errorf("topK=%d returned %d matches", k, len(got))
		}
	}
}

func TestMatchSections(t *testing.T) {
	r := Index(testCorpus())
	sections := []models.Section{
		{ID: "CLAUSE-001", Title: "Waste", Text: "Hazardous waste disposal follows the permit.", Category: models.CategoryEnvironmental},
		{ID: "CLAUSE-002", Title: "Nothing", Text: "zebra unicorn", Category: models.CategoryGeneral},
	}
	got := r.MatchSections(sections, 2)
	if len(got) != 2 {
		t.Fatalf("got %d match lists", len(got))
	}
	if len(got[0]) == 0 || got[0][0].Regulation.Title != "Hazardous Waste" {
		t.Errorf("section 1 matches = %+v", got[0])
	}
	if len(got[1]) != 0 {
		t.Errorf("section 2 matches = %+v", got[1])
	}
}
