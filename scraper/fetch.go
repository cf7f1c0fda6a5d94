// Package scraper builds the regulation corpus from public regulator web pages.
package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"reguguard-backend/models"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	// DefaultUserAgent is sent with every request.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	// DefaultTimeout bounds a single page fetch.
	DefaultTimeout = 15 * time.Second
	// DefaultInterval is the minimum spacing between request starts.
	DefaultInterval = 500 * time.Millisecond
	// DefaultConcurrency is the number of sources fetched at once.
	DefaultConcurrency = 4

	maxPageBytes = 5 << 20
)

// stripped elements never contribute text
const stripped = "script, style, nav, footer, header, aside, form, noscript"

var blockElements = map[string]bool{
	"address": true, "article": true, "blockquote": true, "dd": true, "div": true,
	"dl": true, "dt": true, "figcaption": true, "figure": true, "h1": true,
	"h2": true, "h3": true, "h4": true, "h5": true, "h6": true, "hr": true,
	"li": true, "main": true, "ol": true, "p": true, "pre": true, "section": true,
	"table": true, "td": true, "th": true, "tr": true, "ul": true, "br": true,
}

// Scraper fetches regulation sources and turns them into records.
type Scraper struct {
	client      *http.Client
	cache       Cache
	limiter     *rate.Limiter
	concurrency int
	timeout     time.Duration
	userAgent   string
	logger      *zap.SugaredLogger
}

// Option configures a Scraper.
type Option func(*Scraper)

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Scraper) {
		s.client = client
	}
}

// WithCache sets the regulation cache.
func WithCache(cache Cache) Option {
	return func(s *Scraper) {
		s.cache = cache
	}
}

// WithConcurrency sets how many sources are fetched at once.
func WithConcurrency(n int) Option {
	return func(s *Scraper) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Scraper) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithInterval sets the minimum spacing between request starts. Zero disables it.
func WithInterval(d time.Duration) Option {
	return func(s *Scraper) {
		if d <= 0 {
			s.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		s.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(s *Scraper) {
		s.userAgent = ua
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(s *Scraper) {
		s.logger = logger
	}
}

// New creates a Scraper.
func New(opts ...Option) *Scraper {
	s := &Scraper{
		client:      &http.Client{},
		limiter:     rate.NewLimiter(rate.Every(DefaultInterval), 1),
		concurrency: DefaultConcurrency,
		timeout:     DefaultTimeout,
		userAgent:   DefaultUserAgent,
		logger:      zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch retrieves every source and returns the records in source order. A source
// that cannot be fetched contributes its cached records, else the fallback records
// of its category. If nothing at all is produced the full fallback table is used.
// The result is written back to the cache unless it holds only fallback records.
func (s *Scraper) Fetch(ctx context.Context, sources []models.SourceDefinition) []models.Regulation {
	if sources == nil {
		sources = DefaultSources
	}
	cached := s.loadCache(ctx)

	results := make([][]models.Regulation, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, src := range sources {
		g.Go(func() error {
			regs, err := s.fetchSource(gctx, src)
			if err != nil {
				s.logger.Warnw("regulation source unavailable", "source", src.Name, "url", src.URL, "error", err)
				regs = recoverSource(src, cached)
			}
			results[i] = regs
			return nil
		})
	}
	_ = g.Wait()

	var all []models.Regulation
	for _, regs := range results {
		all = append(all, regs...)
	}
	if len(all) == 0 {
		return FallbackRegulations()
	}
	if hasFetched(all) {
		s.saveCache(ctx, all)
	}
	return all
}

// hasFetched reports whether any record came from a source or the cache.
func hasFetched(regs []models.Regulation) bool {
	for _, r := range regs {
		if r.Status != models.RegulationFallback {
			return true
		}
	}
	return false
}

// recoverSource picks the replacement records for a failed source.
func recoverSource(src models.SourceDefinition, cached []models.Regulation) []models.Regulation {
	var out []models.Regulation
	for _, r := range cached {
		if r.SourceURL == src.URL && r.Status != models.RegulationFallback {
			r.Status = models.RegulationCached
			out = append(out, r)
		}
	}
	if len(out) > 0 {
		return out
	}
	return FallbackFor(src.Category)
}

func (s *Scraper) fetchSource(ctx context.Context, src models.SourceDefinition) ([]models.Regulation, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("page returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}
	return Chunk(PageText(doc, src.Selectors), src), nil
}

// PageText extracts readable text from the first element matching selectors,
// falling back to the body. Block elements become paragraph breaks.
func PageText(doc *goquery.Document, selectors []string) string {
	doc.Find(stripped).Remove()

	var content *goquery.Selection
	for _, sel := range selectors {
		if found := doc.Find(sel).First(); found.Length() > 0 {
			content = found
			break
		}
	}
	if content == nil {
		content = doc.Find("body").First()
		if content.Length() == 0 {
			content = doc.Selection
		}
	}

	var paragraphs []string
	var current []string
	flush := func() {
		if len(current) > 0 {
			paragraphs = append(paragraphs, strings.Join(current, " "))
			current = current[:0]
		}
	}
	var walk func(*goquery.Selection)
	walk = func(sel *goquery.Selection) {
		sel.Contents().Each(func(_ int, node *goquery.Selection) {
			switch name := goquery.NodeName(node); {
			case name == "#text":
				if text := strings.Join(strings.Fields(node.Text()), " "); text != "" {
					current = append(current, text)
				}
			case name == "#comment":
			case blockElements[name]:
				flush()
				walk(node)
				flush()
			default:
				walk(node)
			}
		})
	}
	walk(content)
	flush()
	return strings.Join(paragraphs, "\n\n")
}

func (s *Scraper) loadCache(ctx context.Context) []models.Regulation {
	if s.cache == nil {
		return nil
	}
	regs, err := s.cache.Load(ctx)
	if err != nil {
		s.logger.Warnw("failed to load regulation cache", "error", err)
		return nil
	}
	return regs
}

func (s *Scraper) saveCache(ctx context.Context, regs []models.Regulation) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Save(ctx, regs); err != nil {
		s.logger.Warnw("failed to save regulation cache", "error", err)
	}
}
