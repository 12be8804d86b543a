package tariff

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jepco-agent/backend/internal/language"
	"github.com/jepco-agent/backend/internal/scrape"
	"github.com/jepco-agent/backend/internal/search"
	"github.com/jepco-agent/backend/pkg/logger"
)

// Entry is one row of pricing data lifted from a site table. Best effort:
// the range and price texts are whatever the page said.
type Entry struct {
	ConsumptionRange string
	Price            string
	Description      string
}

// Info aggregates everything the resolver found across the tariff pages.
type Info struct {
	Entries      []Entry
	PricingTexts []string
}

// pricingKeywords flag a table or paragraph as tariff-bearing.
var pricingKeywords = []string{"كيلو واط", "فلس", "تعرفة", "kwh", "price", "tariff", "rate"}

var tariffTextKeywords = map[string][]string{
	"arabic":  {"تعرفة", "أسعار", "كيلو واط", "فلس", "شريحة", "استهلاك", "تسعير"},
	"english": {"tariff", "price", "rate", "kwh", "kilowatt", "tier", "consumption", "pricing"},
}

var currencyMarkers = []string{"فلس", "fils", "دينار", "jod"}

// Resolver pulls current tariff data from the pricing-focused site pages.
type Resolver struct {
	fetcher    scrape.PageFetcher
	sitemap    *search.SiteMap
	fetchDelay time.Duration
}

func NewResolver(fetcher scrape.PageFetcher, sitemap *search.SiteMap, fetchDelay time.Duration) *Resolver {
	return &Resolver{fetcher: fetcher, sitemap: sitemap, fetchDelay: fetchDelay}
}

// GetTariffs visits the home page plus the known tariff pages and collects
// rate tables and pricing statements. Any page failure is skipped; an empty
// Info means the caller should fall back to the estimated schedule.
func (r *Resolver) GetTariffs(ctx context.Context, lang language.Language) Info {
	info := Info{}

	textKeywords := tariffTextKeywords["english"]
	if lang.ArabicFamily() {
		textKeywords = tariffTextKeywords["arabic"]
	}

	for i, path := range r.sitemap.TariffPaths(lang) {
		if i > 0 && r.fetchDelay > 0 {
			select {
			case <-ctx.Done():
				return info
			case <-time.After(r.fetchDelay):
			}
		}

		pageURL := r.sitemap.URL(path)
		content, err := r.fetcher.Fetch(ctx, pageURL)
		if err != nil {
			logger.Warn("Tariff page unavailable, skipping",
				zap.String("url", pageURL), zap.Error(err))
			continue
		}

		info.Entries = append(info.Entries, extractPricingTables(content)...)
		info.PricingTexts = append(info.PricingTexts, extractPricingTexts(content, textKeywords)...)
	}

	logger.Info("Tariff resolution complete",
		zap.String("language", string(lang)),
		zap.Int("entries", len(info.Entries)),
		zap.Int("pricing_texts", len(info.PricingTexts)),
	)

	return info
}

// extractPricingTables walks a page's tables and keeps rows from tables
// that mention a pricing unit. The cell carrying the unit keyword is the
// price; the leading cell is the consumption range.
func extractPricingTables(content *scrape.PageContent) []Entry {
	var entries []Entry

	for _, table := range content.Tables {
		if !tableMentionsPricing(table) {
			continue
		}
		rows := table.Rows
		if len(rows) == 0 && len(table.Headers) > 0 {
			rows = [][]string{table.Headers}
		}
		for _, row := range rows {
			if len(row) < 2 {
				continue
			}
			for i, cell := range row {
				if !containsAny(strings.ToLower(cell), []string{"كيلو واط", "kwh", "فلس", "fils"}) {
					continue
				}
				entry := Entry{
					Price:       cell,
					Description: strings.Join(row, " | "),
				}
				if i > 0 {
					entry.ConsumptionRange = row[0]
				}
				entries = append(entries, entry)
			}
		}
	}

	return entries
}

func tableMentionsPricing(table scrape.Table) bool {
	var b strings.Builder
	b.WriteString(strings.ToLower(strings.Join(table.Headers, " ")))
	for _, row := range table.Rows {
		b.WriteString(" " + strings.ToLower(strings.Join(row, " ")))
	}
	return containsAny(b.String(), pricingKeywords)
}

// extractPricingTexts keeps paragraphs that carry a pricing keyword, at
// least one number, and a currency marker — the shape of a free-text rate
// statement. Capped at five per page.
func extractPricingTexts(content *scrape.PageContent, keywords []string) []string {
	var texts []string
	for _, paragraph := range content.Paragraphs {
		if len(texts) >= 5 {
			break
		}
		lower := strings.ToLower(paragraph)
		if !containsAny(lower, keywords) {
			continue
		}
		if !hasNumber(paragraph) {
			continue
		}
		if !containsAny(lower, currencyMarkers) {
			continue
		}
		texts = append(texts, clipRunes(paragraph, 300))
	}
	return texts
}

func hasNumber(s string) bool {
	return numberToken.MatchString(s)
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

func clipRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
