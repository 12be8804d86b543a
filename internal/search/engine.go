package search

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jepco-agent/backend/internal/language"
	"github.com/jepco-agent/backend/internal/metrics"
	"github.com/jepco-agent/backend/internal/scrape"
	"github.com/jepco-agent/backend/pkg/logger"
)

// Result is one scored fragment of extracted page content.
type Result struct {
	Text        string
	Score       int
	SourceURL   string
	ContentType string
	PageTitle   string
}

// Stats summarizes one search run.
type Stats struct {
	PagesSearched   int
	SuccessfulPages int
}

// Config holds the engine's tunable constants. The relevance weights are
// empirical, not contractual; zero values take the defaults the tables were
// tuned with.
type Config struct {
	MaxPriorityPages int
	MaxExtraPages    int
	MinResults       int
	MaxResults       int
	PerPageResults   int
	ExactMatchBonus  int
	FetchDelay       time.Duration
}

func (c *Config) applyDefaults() {
	if c.MaxPriorityPages == 0 {
		c.MaxPriorityPages = 10
	}
	if c.MaxExtraPages == 0 {
		c.MaxExtraPages = 15
	}
	if c.MinResults == 0 {
		c.MinResults = 10
	}
	if c.MaxResults == 0 {
		c.MaxResults = 20
	}
	if c.PerPageResults == 0 {
		c.PerPageResults = 15
	}
	if c.ExactMatchBonus == 0 {
		c.ExactMatchBonus = 5
	}
}

// Structural priorities per fragment type. Headers and tables carry the
// site's actual facts; links are mostly navigation.
const (
	priorityHeader     = 10
	priorityTable      = 9
	priorityParagraph  = 8
	priorityForm       = 7
	priorityListItem   = 6
	priorityLink       = 4
	priorityStructured = 15
	priorityPricing    = 12
	priorityHours      = 10
)

// Engine searches the known site pages for fragments relevant to a query.
type Engine struct {
	fetcher scrape.PageFetcher
	sitemap *SiteMap
	cfg     Config
}

func NewEngine(fetcher scrape.PageFetcher, sitemap *SiteMap, cfg Config) *Engine {
	cfg.applyDefaults()
	return &Engine{fetcher: fetcher, sitemap: sitemap, cfg: cfg}
}

// Search fetches the prioritized pages serially, scores their fragments
// against the query, and returns the merged ranking. A failed page is
// skipped; if every page fails the result set is empty and err is nil —
// "no live data" is an outcome, not an error.
func (e *Engine) Search(ctx context.Context, query string, lang language.Language) ([]Result, Stats, error) {
	stats := Stats{}
	keywords := e.queryKeywords(query, lang)
	priority := e.PriorityPaths(query, lang)

	logger.Info("Site search starting",
		zap.String("query", query),
		zap.String("language", string(lang)),
		zap.Int("priority_pages", len(priority)),
	)

	var results []Result
	visited := make(map[string]struct{}, len(priority))

	for _, path := range priority {
		visited[path] = struct{}{}
		results = append(results, e.searchPage(ctx, path, query, keywords, &stats)...)
		if err := e.pause(ctx); err != nil {
			return sortAndReturn(results), stats, nil
		}
	}

	// Priority pages usually satisfy the query; widen only when they don't.
	if len(results) < e.cfg.MinResults {
		extra := 0
		for _, path := range e.sitemap.AllPaths {
			localized := e.sitemap.Localize(path, lang)
			if _, ok := visited[localized]; ok {
				continue
			}
			if extra >= e.cfg.MaxExtraPages || len(results) >= e.cfg.MaxResults {
				break
			}
			extra++
			results = append(results, e.searchPage(ctx, localized, query, keywords, &stats)...)
			if err := e.pause(ctx); err != nil {
				break
			}
		}
	}

	logger.Info("Site search complete",
		zap.Int("results", len(results)),
		zap.Int("pages_searched", stats.PagesSearched),
		zap.Int("successful_pages", stats.SuccessfulPages),
	)

	return sortAndReturn(results), stats, nil
}

// PriorityPaths derives the ordered page list for a query: home first, then
// every topic category whose trigger keywords appear, then the general
// service pages when nothing matched, capped at MaxPriorityPages.
func (e *Engine) PriorityPaths(query string, lang language.Language) []string {
	queryLower := strings.ToLower(query)

	paths := []string{e.sitemap.HomePath(lang)}
	seen := map[string]struct{}{paths[0]: {}}

	add := func(path string) {
		localized := e.sitemap.Localize(path, lang)
		if _, ok := seen[localized]; !ok {
			seen[localized] = struct{}{}
			paths = append(paths, localized)
		}
	}

	matched := false
	for _, category := range e.sitemap.Categories {
		for _, kw := range category.Keywords {
			if strings.Contains(queryLower, kw) {
				matched = true
				for _, page := range category.Pages {
					add(page)
				}
				break
			}
		}
	}

	if !matched {
		for _, page := range e.sitemap.General {
			add(page)
		}
	}

	if len(paths) > e.cfg.MaxPriorityPages {
		paths = paths[:e.cfg.MaxPriorityPages]
	}
	return paths
}

func (e *Engine) searchPage(ctx context.Context, path, query string, keywords []string, stats *Stats) []Result {
	stats.PagesSearched++

	pageURL := e.sitemap.URL(path)
	content, err := e.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		metrics.PagesFailed.Inc()
		logger.Warn("Page search failed, skipping", zap.String("url", pageURL), zap.Error(err))
		return nil
	}
	metrics.PagesFetched.Inc()
	stats.SuccessfulPages++

	results := e.scoreFragments(content, query, keywords)
	if len(results) > e.cfg.PerPageResults {
		results = results[:e.cfg.PerPageResults]
	}
	return results
}

// scoreFragments converts a page into scored results. Score = keyword hits
// + exact-substring bonus + structural weight; headers and tables are kept
// even at zero keyword hits since they anchor the page's meaning.
func (e *Engine) scoreFragments(content *scrape.PageContent, query string, keywords []string) []Result {
	queryLower := strings.ToLower(query)
	var results []Result

	score := func(text string, weight int) (int, bool) {
		textLower := strings.ToLower(text)
		hits := 0
		for _, kw := range keywords {
			if strings.Contains(textLower, kw) {
				hits++
			}
		}
		total := hits + weight
		if strings.Contains(textLower, queryLower) {
			total += e.cfg.ExactMatchBonus
		}
		return total, hits > 0 || strings.Contains(textLower, queryLower)
	}

	add := func(text, contentType string, weight int, always bool) {
		text = strings.TrimSpace(text)
		if len([]rune(text)) < 10 {
			return
		}
		s, relevant := score(text, weight)
		if !relevant && !always {
			return
		}
		results = append(results, Result{
			Text:        clipRunes(text, 1000),
			Score:       s,
			SourceURL:   content.URL,
			ContentType: contentType,
			PageTitle:   content.Title,
		})
	}

	for _, h := range content.Headers {
		add(h.Text, "header", priorityHeader, true)
	}
	for _, table := range content.Tables {
		if len(table.Headers) > 0 {
			add(strings.Join(table.Headers, " | "), "table", priorityTable, true)
		}
		for _, row := range table.Rows {
			add(strings.Join(row, " | "), "table", priorityTable, true)
		}
	}
	for _, p := range content.Paragraphs {
		add(p, "content", priorityParagraph, false)
	}
	for _, item := range content.ListItems {
		add(item, "text", priorityListItem, false)
	}
	for _, link := range content.Links {
		add(link.Text, "link", priorityLink, false)
	}
	for _, form := range content.Forms {
		var parts []string
		for _, f := range form.Fields {
			if f.Label != "" {
				parts = append(parts, f.Label)
			} else if f.Name != "" {
				parts = append(parts, f.Name)
			}
		}
		add(strings.Join(parts, ", "), "form", priorityForm, false)
	}

	// Pattern-extracted facts outrank everything; they are the answers
	// customers are usually after.
	for _, phone := range content.Contacts.Phones {
		results = append(results, Result{
			Text:        "Contact Information: " + phone,
			Score:       priorityStructured,
			SourceURL:   content.URL,
			ContentType: "contact",
			PageTitle:   content.Title,
		})
	}
	for _, email := range content.Contacts.Emails {
		results = append(results, Result{
			Text:        "Contact Information: " + email,
			Score:       priorityStructured,
			SourceURL:   content.URL,
			ContentType: "contact",
			PageTitle:   content.Title,
		})
	}
	for _, price := range content.Pricing {
		results = append(results, Result{
			Text:        "Pricing Information: " + price,
			Score:       priorityPricing,
			SourceURL:   content.URL,
			ContentType: "pricing",
			PageTitle:   content.Title,
		})
	}
	for _, hours := range content.Contacts.Hours {
		results = append(results, Result{
			Text:        "Working Hours: " + hours,
			Score:       priorityHours,
			SourceURL:   content.URL,
			ContentType: "hours",
			PageTitle:   content.Title,
		})
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	return results
}

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}]+`)

// universalKeywords are always relevant on this site.
var universalKeywords = []string{"جيبكو", "jepco", "كهرباء", "electricity", "116"}

// categoryExpansions widen the query with the related service vocabulary.
var categoryExpansions = map[string]map[string][]string{
	"arabic": {
		"billing":   {"فاتورة", "فواتير", "دفع", "تسديد", "حساب"},
		"service":   {"خدمة", "خدمات", "طلب", "اشتراك"},
		"contact":   {"اتصال", "تواصل", "هاتف", "رقم"},
		"emergency": {"طوارئ", "عطل", "انقطاع", "عاجل"},
		"areas":     {"منطقة", "مناطق", "موقع", "عنوان"},
	},
	"english": {
		"billing":   {"bill", "payment", "invoice", "account", "pay"},
		"service":   {"service", "request", "subscription", "application"},
		"contact":   {"contact", "phone", "call", "number"},
		"emergency": {"emergency", "outage", "fault", "urgent"},
		"areas":     {"area", "location", "address", "region"},
	},
}

// queryKeywords splits the query into words and expands it with the
// category vocabulary any of its words triggered, plus the universal terms.
func (e *Engine) queryKeywords(query string, lang language.Language) []string {
	queryLower := strings.ToLower(query)

	keywords := wordPattern.FindAllString(queryLower, -1)

	expansionKey := "english"
	if lang.ArabicFamily() {
		expansionKey = "arabic"
	}
	for _, categoryWords := range categoryExpansions[expansionKey] {
		for _, kw := range categoryWords {
			if strings.Contains(queryLower, kw) {
				keywords = append(keywords, categoryWords...)
				break
			}
		}
	}
	keywords = append(keywords, universalKeywords...)

	return dedupeStrings(keywords)
}

func (e *Engine) pause(ctx context.Context) error {
	if e.cfg.FetchDelay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(e.cfg.FetchDelay):
		return nil
	}
}

func sortAndReturn(results []Result) []Result {
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	return results
}

func dedupeStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func clipRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
