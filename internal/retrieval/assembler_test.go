package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jepco-agent/backend/internal/language"
	"github.com/jepco-agent/backend/internal/search"
	"github.com/jepco-agent/backend/internal/tariff"
)

type stubStore struct {
	lookup string
	deep   string
}

func (s *stubStore) Lookup(query string, lang language.Language) string     { return s.lookup }
func (s *stubStore) DeepSearch(query string, lang language.Language) string { return s.deep }

type stubSearcher struct {
	results []search.Result
	stats   search.Stats
	err     error
}

func (s *stubSearcher) Search(ctx context.Context, query string, lang language.Language) ([]search.Result, search.Stats, error) {
	return s.results, s.stats, s.err
}

type stubTariffs struct {
	info tariff.Info
}

func (s *stubTariffs) GetTariffs(ctx context.Context, lang language.Language) tariff.Info {
	return s.info
}

func emptyAssembler() *Assembler {
	return NewAssembler(&stubStore{}, &stubSearcher{}, &stubTariffs{})
}

func TestFindRelevantContentNeverEmpty(t *testing.T) {
	a := emptyAssembler()

	content, tier := a.FindRelevantContent(context.Background(), "random unrelated question", language.English)

	assert.Equal(t, TierFallback, tier)
	assert.Contains(t, content, "116")
	assert.Contains(t, content, "www.jepco.com.jo")
}

func TestFallbackLocalizedForArabic(t *testing.T) {
	a := emptyAssembler()

	content, tier := a.FindRelevantContent(context.Background(), "سؤال غير معروف", language.Arabic)

	assert.Equal(t, TierFallback, tier)
	assert.Contains(t, content, "116")
	assert.Contains(t, content, "جيبكو")
}

func TestCalculationQueryShortCircuits(t *testing.T) {
	a := NewAssembler(
		&stubStore{lookup: "should not be used"},
		&stubSearcher{err: errors.New("must not be called")},
		&stubTariffs{},
	)

	content, tier := a.FindRelevantContent(context.Background(), "How much is a 10 kWh daily bill?", language.English)

	require.Equal(t, TierCalculation, tier)
	assert.Contains(t, content, "0.680")
	assert.Contains(t, content, "estimated")
}

func TestCalculationUsesLiveRateWhenAvailable(t *testing.T) {
	a := NewAssembler(&stubStore{}, &stubSearcher{}, &stubTariffs{
		info: tariff.Info{Entries: []tariff.Entry{
			{ConsumptionRange: "residential", Price: "0.075 JOD/kWh", Description: "Standard rate"},
		}},
	})

	content, tier := a.FindRelevantContent(context.Background(), "calculate cost of 5 kwh", language.English)

	require.Equal(t, TierCalculation, tier)
	assert.Contains(t, content, "0.375")
	assert.Contains(t, content, "actual")
}

func TestCalculationTriggerWithoutNumberFallsThrough(t *testing.T) {
	a := emptyAssembler()

	_, tier := a.FindRelevantContent(context.Background(), "how much does electricity cost", language.English)

	assert.NotEqual(t, TierCalculation, tier)
}

func TestCombinedTierLabelsBothSources(t *testing.T) {
	a := NewAssembler(
		&stubStore{lookup: "[Billing] Pay at any JEPCO office."},
		&stubSearcher{
			results: []search.Result{
				{Text: "Contact Information: 116", Score: 15, ContentType: "contact", SourceURL: "https://www.jepco.com.jo/en/ContactUs"},
			},
			stats: search.Stats{PagesSearched: 2, SuccessfulPages: 2},
		},
		&stubTariffs{},
	)

	content, tier := a.FindRelevantContent(context.Background(), "where can I reach you", language.English)

	require.Equal(t, TierCombined, tier)
	assert.Contains(t, content, "From the JEPCO knowledge base:")
	assert.Contains(t, content, "Pay at any JEPCO office.")
	assert.Contains(t, content, "Current information from the JEPCO website:")
	assert.Contains(t, content, "116")
}

func TestKnowledgeWithoutLiveResultsStillCombined(t *testing.T) {
	a := NewAssembler(
		&stubStore{lookup: "[Contact] Hotline 116."},
		&stubSearcher{},
		&stubTariffs{},
	)

	content, tier := a.FindRelevantContent(context.Background(), "hotline", language.English)

	assert.Equal(t, TierCombined, tier)
	assert.Contains(t, content, "Hotline 116.")
	assert.NotContains(t, content, "Current information")
}

func TestSearchErrorDegradesToKnowledge(t *testing.T) {
	a := NewAssembler(
		&stubStore{lookup: "[Billing] Bills due in 30 days."},
		&stubSearcher{err: errors.New("network down")},
		&stubTariffs{},
	)

	content, tier := a.FindRelevantContent(context.Background(), "billing", language.English)

	assert.Equal(t, TierCombined, tier)
	assert.Contains(t, content, "Bills due in 30 days.")
}
