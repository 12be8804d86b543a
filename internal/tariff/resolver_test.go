package tariff

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jepco-agent/backend/internal/language"
	"github.com/jepco-agent/backend/internal/scrape"
	"github.com/jepco-agent/backend/internal/search"
)

type stubFetcher struct {
	page *scrape.PageContent
	err  error
}

func (s *stubFetcher) Fetch(ctx context.Context, pageURL string) (*scrape.PageContent, error) {
	if s.err != nil {
		return nil, s.err
	}
	page := *s.page
	page.URL = pageURL
	return &page, nil
}

func testSiteMap() *search.SiteMap {
	return search.NewSiteMap("https://www.jepco.com.jo")
}

func TestGetTariffsExtractsRateTable(t *testing.T) {
	fetcher := &stubFetcher{page: &scrape.PageContent{
		Title: "Tariff",
		Tables: []scrape.Table{
			{
				Headers: []string{"Consumption", "Rate"},
				Rows: [][]string{
					{"0-160", "68 fils/kWh"},
					{"161-300", "90 fils/kWh"},
				},
			},
		},
	}}

	info := NewResolver(fetcher, testSiteMap(), 0).GetTariffs(context.Background(), language.English)

	require.NotEmpty(t, info.Entries)
	assert.Equal(t, "0-160", info.Entries[0].ConsumptionRange)
	assert.Contains(t, info.Entries[0].Price, "68 fils")

	rates := ParseRates(info.Entries)
	require.NotEmpty(t, rates)
	assert.InDelta(t, 0.068, rates[0].Value, 1e-9)
}

func TestGetTariffsIgnoresNonPricingTables(t *testing.T) {
	fetcher := &stubFetcher{page: &scrape.PageContent{
		Tables: []scrape.Table{
			{
				Headers: []string{"Office", "Address"},
				Rows:    [][]string{{"Amman", "King Hussein St"}},
			},
		},
	}}

	info := NewResolver(fetcher, testSiteMap(), 0).GetTariffs(context.Background(), language.English)

	assert.Empty(t, info.Entries)
}

func TestGetTariffsSiteDownYieldsEmptyInfo(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("timeout")}

	info := NewResolver(fetcher, testSiteMap(), 0).GetTariffs(context.Background(), language.Arabic)

	assert.Empty(t, info.Entries)
	assert.Empty(t, info.PricingTexts)

	// The calculator still produces a priced estimate from the schedule.
	est := Calculate(10, info.Entries)
	assert.Equal(t, MethodEstimated, est.Method)
	assert.Greater(t, est.MonthlyCost, 0.0)
}

func TestGetTariffsCollectsPricingTexts(t *testing.T) {
	fetcher := &stubFetcher{page: &scrape.PageContent{
		Paragraphs: []string{
			"The residential tariff is 68 fils per kWh for the first consumption tier.",
			"JEPCO serves the central region of Jordan.",
		},
	}}

	info := NewResolver(fetcher, testSiteMap(), 0).GetTariffs(context.Background(), language.English)

	require.NotEmpty(t, info.PricingTexts)
	assert.Contains(t, info.PricingTexts[0], "68 fils")
}
