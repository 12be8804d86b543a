package search

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jepco-agent/backend/internal/language"
	"github.com/jepco-agent/backend/internal/scrape"
)

// failingFetcher refuses every page, simulating a site outage.
type failingFetcher struct {
	calls int
}

func (f *failingFetcher) Fetch(ctx context.Context, pageURL string) (*scrape.PageContent, error) {
	f.calls++
	return nil, errors.New("connection refused")
}

// fixtureFetcher serves the same parsed page for every path.
type fixtureFetcher struct {
	page *scrape.PageContent
}

func (f *fixtureFetcher) Fetch(ctx context.Context, pageURL string) (*scrape.PageContent, error) {
	page := *f.page
	page.URL = pageURL
	return &page, nil
}

func newTestEngine(fetcher scrape.PageFetcher) *Engine {
	return NewEngine(fetcher, NewSiteMap("https://www.jepco.com.jo"), Config{})
}

func TestSearchSiteDownYieldsEmptyNotError(t *testing.T) {
	fetcher := &failingFetcher{}
	engine := newTestEngine(fetcher)

	results, stats, err := engine.Search(context.Background(), "how do I pay my bill", language.English)

	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, 0, stats.SuccessfulPages)
	assert.Greater(t, stats.PagesSearched, 0)
	assert.Greater(t, fetcher.calls, 0)
}

func TestSearchScoresAndRanksFragments(t *testing.T) {
	page := &scrape.PageContent{
		Title: "Billing",
		Headers: []scrape.Header{
			{Level: 1, Text: "Electricity bill payment options"},
		},
		Paragraphs: []string{
			"You can pay your electricity bill online through eFAWATEERcom.",
			"This paragraph is about gardening and nothing else whatsoever.",
		},
		Contacts: scrape.ContactInfo{Phones: []string{"116"}},
		Pricing:  []string{"Residential rate 68 fils per kWh"},
	}
	engine := newTestEngine(&fixtureFetcher{page: page})

	results, stats, err := engine.Search(context.Background(), "pay electricity bill", language.English)

	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Greater(t, stats.SuccessfulPages, 0)

	// Structured contact facts outrank everything else.
	assert.Equal(t, "contact", results[0].ContentType)

	// Ranking is descending by score.
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}

	// The irrelevant paragraph never surfaces.
	for _, r := range results {
		assert.NotContains(t, r.Text, "gardening")
	}
}

func TestPriorityPathsStartAtHome(t *testing.T) {
	engine := newTestEngine(&failingFetcher{})

	paths := engine.PriorityPaths("bill payment", language.English)

	require.NotEmpty(t, paths)
	assert.Equal(t, "/en/Home", paths[0])
	assert.LessOrEqual(t, len(paths), 10)
}

func TestPriorityPathsLocalizedForArabic(t *testing.T) {
	engine := newTestEngine(&failingFetcher{})

	paths := engine.PriorityPaths("فاتورة", language.Arabic)

	require.NotEmpty(t, paths)
	for _, p := range paths {
		assert.True(t, strings.HasPrefix(p, "/ar"), "path %s should carry the Arabic prefix", p)
	}
}

func TestQueryKeywordsExpandCategories(t *testing.T) {
	engine := newTestEngine(&failingFetcher{})

	keywords := engine.queryKeywords("how do I pay my bill", language.English)

	assert.Contains(t, keywords, "bill")
	assert.Contains(t, keywords, "invoice")
	assert.Contains(t, keywords, "jepco")
	assert.Contains(t, keywords, "116")
}

func TestFormatResultsEmpty(t *testing.T) {
	assert.Equal(t, "", FormatResults(nil, Stats{PagesSearched: 5}))
}

func TestFormatResultsGroupsAndNamesSources(t *testing.T) {
	results := []Result{
		{Text: "Contact Information: 116", Score: 15, ContentType: "contact", SourceURL: "https://www.jepco.com.jo/en/ContactUs"},
		{Text: "Pricing Information: 68 fils", Score: 12, ContentType: "pricing", SourceURL: "https://www.jepco.com.jo/en/Tariff"},
	}

	out := FormatResults(results, Stats{PagesSearched: 4, SuccessfulPages: 3})

	assert.Contains(t, out, "3/4")
	assert.Contains(t, out, "116")
	assert.Contains(t, out, "68 fils")
	assert.Contains(t, out, "ContactUs")
}
