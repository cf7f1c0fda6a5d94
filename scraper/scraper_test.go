package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"reguguard-backend/models"
	"reguguard-backend/storage"

	"github.com/PuerkitoBio/goquery"
)

const regulationPage = `<html><head><title>x</title><script>var tracking = 1;</script></head>
<body>
<nav>Home | About | Contact us for more information about everything</nav>
<main>
<h2>PART 1910 OCCUPATIONAL SAFETY</h2>
<p>Employers must provide personal protective equipment to every employee exposed to hazards.
 Training <b>shall</b> be documented.</p>
<p>Records of training must be retained for three years and made available to inspectors.</p>
<h2>Section 2 Recordkeeping</h2>
<p>Each employer shall maintain a log of recordable injuries and illnesses at each establishment.</p>
</main>
<footer>Copyright notice that is long enough to matter if it were included</footer>
</body></html>`

func testSource(url string) models.SourceDefinition {
	return models.SourceDefinition{
		Name:      "Test Regulator",
		URL:       url,
		Category:  models.CategoryHealthSafety,
		Selectors: []string{"main", "body"},
	}
}

func TestPageText(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(regulationPage))
	if err != nil {
		t.Fatal(err)
	}
	text := PageText(doc, []string{"article", "main"})
	for _, unwanted := range []string{"tracking", "Contact us", "Copyright"} {
		if strings.Contains(text, unwanted) {
			t.Errorf("text contains %q", unwanted)
		}
	}
	paras := strings.Split(text, "\n\n")
	if len(paras) != 5 {
		t.Fatalf("paragraphs = %d: %q", len(paras), paras)
	}
	if paras[1] != "Employers must provide personal protective equipment to every employee exposed to hazards. Training shall be documented." {
		t.Errorf("inline text not joined: %q", paras[1])
	}
}

func TestChunk(t *testing.T) {
	src := testSource("https://regs.example/osha")
	text := "PART 1910 OCCUPATIONAL SAFETY\n\n" +
		"Employers must provide personal protective equipment to every employee exposed to hazards.\n\n" +
		"Section 2 Recordkeeping\n\n" +
		"Each employer shall maintain a log of recordable injuries and illnesses at each establishment.\n\n" +
		"3.1 Short\n\ntoo short"
	regs := Chunk(text, src)
	if len(regs) != 2 {
		t.Fatalf("chunks = %d: %+v", len(regs), regs)
	}
	if regs[0].Title != "PART 1910 OCCUPATIONAL SAFETY" || regs[1].Title != "Section 2 Recordkeeping" {
		t.Errorf("titles = %q, %q", regs[0].Title, regs[1].Title)
	}
	for _, r := range regs {
		if r.Status != models.RegulationActive || r.SourceURL != src.URL || r.Category != src.Category {
			t.Errorf("record = %+v", r)
		}
	}
}

func TestChunk_Limits(t *testing.T) {
	src := testSource("https://regs.example/big")
	var b strings.Builder
	for i := 0; i < 40; i++ {
		b.WriteString("CHAPTER HEADING\n\n")
		b.WriteString(strings.Repeat("Employers must keep records. ", 100))
		b.WriteString("\n\n")
	}
	regs := Chunk(b.String(), src)
	if len(regs) != maxChunks {
		t.Errorf("chunks = %d, want %d", len(regs), maxChunks)
	}
	for _, r := range regs {
		if runeLen(r.Text) > maxChunkText || runeLen(r.Title) > maxTitleLength {
			t.Fatalf("record exceeds limits: title %d, text %d", runeLen(r.Title), runeLen(r.Text))
		}
	}
}

func TestChunk_ShortTextFallsBack(t *testing.T) {
	regs := Chunk("Not much here.", testSource("https://regs.example/empty"))
	if len(regs) == 0 {
		t.Fatal("no fallback records")
	}
	for _, r := range regs {
		if r.Category != models.CategoryHealthSafety || r.Status != models.RegulationFallback {
			t.Errorf("fallback record = %+v", r)
		}
	}

	noHeadings := strings.Repeat("plain regulatory text without any heading at all. ", 5)
	regs = Chunk(noHeadings, testSource("https://regs.example/flat"))
	if len(regs) != 1 || regs[0].Title != "Test Regulator" {
		t.Errorf("flat page = %+v", regs)
	}
}

func TestFallbackFor(t *testing.T) {
	if got := FallbackFor(models.CategoryLegal); len(got) != 3 {
		t.Errorf("legal fallback = %d records", len(got))
	}
	got := FallbackFor(models.CategoryGeneral)
	if len(got) != 1 || got[0].Title != "General Duty Clause - Section 5(a)(1)" {
		t.Errorf("unknown category fallback = %+v", got)
	}
	if len(FallbackRegulations()) != 12 {
		t.Error("fallback table size changed")
	}
}

func TestSources(t *testing.T) {
	if got := Sources("", false); len(got) != len(DefaultSources) {
		t.Errorf("default sources = %d", len(got))
	}
	if got := Sources("Unknown", true); len(got) != len(DefaultSources) {
		t.Errorf("unknown domain-only = %d", len(got))
	}
	pharma := Sources("Pharma / Health", true)
	if len(pharma) != 3 || pharma[0].Name != "FDA - Drug Compliance Programs" {
		t.Errorf("pharma domain-only = %+v", pharma)
	}
	if got := Sources("Finance", false); len(got) != len(DefaultSources)+3 {
		t.Errorf("finance sources = %d", len(got))
	}
	if got := Sources("Technology / Software", true); len(got) != 2 {
		t.Errorf("group label sources = %d", len(got))
	}
	for _, src := range DefaultSources {
		if len(src.Selectors) == 0 || src.Selectors[len(src.Selectors)-1] != "body" {
			t.Errorf("%s selectors = %v", src.Name, src.Selectors)
		}
	}
}

func newTestScraper(t *testing.T, opts ...Option) (*Scraper, *StorageCache) {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	cache := NewStorageCache(store)
	opts = append([]Option{WithCache(cache), WithInterval(0)}, opts...)
	return New(opts...), cache
}

func TestFetch(t *testing.T) {
	var agent atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agent.Store(r.Header.Get("User-Agent"))
		switch r.URL.Path {
		case "/ok":
			w.Write([]byte(regulationPage))
		default:
			http.Error(w, "gone", http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	s, cache := newTestScraper(t, WithUserAgent("reguguard-test"))

	ok := testSource(srv.URL + "/ok")
	broken := testSource(srv.URL + "/broken")
	broken.Category = models.CategoryFinancial

	regs := s.Fetch(ctx, []models.SourceDefinition{broken, ok})
	if agent.Load() != "reguguard-test" {
		t.Errorf("user agent = %v", agent.Load())
	}
	if len(regs) < 3 {
		t.Fatalf("records = %d", len(regs))
	}
	// output follows source order: fallback for the broken source first
	if regs[0].Status != models.RegulationFallback || regs[0].Category != models.CategoryFinancial {
		t.Errorf("first record = %+v", regs[0])
	}
	last := regs[len(regs)-1]
	if last.Status != models.RegulationActive || last.SourceURL != ok.URL {
		t.Errorf("last record = %+v", last)
	}

	saved, err := cache.Load(ctx)
	if err != nil || len(saved) != len(regs) {
		t.Fatalf("cache = %d records, err %v", len(saved), err)
	}

	// the working source now fails and is served from the cache
	failing := New(WithHTTPClient(&http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
		return nil, context.DeadlineExceeded
	})}), WithCache(cache), WithInterval(0))
	again := failing.Fetch(ctx, []models.SourceDefinition{ok})
	if len(again) == 0 {
		t.Fatal("no records from cache")
	}
	for _, r := range again {
		if r.Status != models.RegulationCached || r.SourceURL != ok.URL {
			t.Errorf("cached record = %+v", r)
		}
	}
}

func TestFetch_NoSources(t *testing.T) {
	s, _ := newTestScraper(t)
	regs := s.Fetch(context.Background(), []models.SourceDefinition{})
	if len(regs) != len(fallbackRegulations) {
		t.Errorf("records = %d, want full fallback table", len(regs))
	}
}

func TestFetch_FallbackNotCached(t *testing.T) {
	ctx := context.Background()
	s, cache := newTestScraper(t, WithHTTPClient(&http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
		return nil, context.DeadlineExceeded
	})}))
	src := testSource(fallbackRegulations[0].SourceURL)

	for run := 0; run < 2; run++ {
		regs := s.Fetch(ctx, []models.SourceDefinition{src})
		if len(regs) == 0 {
			t.Fatalf("run %d: no records", run)
		}
		for _, r := range regs {
			if r.Status != models.RegulationFallback {
				t.Errorf("run %d: status = %q, want fallback", run, r.Status)
			}
		}
	}
	if saved, err := cache.Load(ctx); err != nil || len(saved) != 0 {
		t.Errorf("cache = %d records, err %v", len(saved), err)
	}
}

func TestRecoverSource_IgnoresCachedFallback(t *testing.T) {
	src := testSource(fallbackRegulations[0].SourceURL)
	cached := []models.Regulation{fallbackRegulations[0]}
	cached[0].Status = models.RegulationFallback
	for _, r := range recoverSource(src, cached) {
		if r.Status != models.RegulationFallback {
			t.Errorf("status = %q", r.Status)
		}
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}
