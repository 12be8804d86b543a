package tariff

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jepco-agent/backend/internal/language"
)

func TestExtractConsumption(t *testing.T) {
	value, ok := ExtractConsumption("calculate the cost of 10 kwh per day")
	assert.True(t, ok)
	assert.Equal(t, 10.0, value)

	value, ok = ExtractConsumption("احسب تكلفة 7.5 كيلو واط")
	assert.True(t, ok)
	assert.Equal(t, 7.5, value)

	_, ok = ExtractConsumption("how much does electricity cost")
	assert.False(t, ok)
}

func TestParseRatesFilsNormalization(t *testing.T) {
	rates := ParseRates([]Entry{
		{ConsumptionRange: "0-160", Price: "68 fils", Description: "First band"},
	})
	assert.Len(t, rates, 1)
	assert.InDelta(t, 0.068, rates[0].Value, 1e-9)
}

func TestParseRatesJODKeptAsIs(t *testing.T) {
	rates := ParseRates([]Entry{
		{ConsumptionRange: "residential", Price: "0.075 JOD/kWh", Description: "Standard rate"},
	})
	assert.Len(t, rates, 1)
	assert.InDelta(t, 0.075, rates[0].Value, 1e-9)
}

func TestParseRatesDiscardsUnusable(t *testing.T) {
	rates := ParseRates([]Entry{
		{Price: "free", Description: "no number here"},
		{Price: "0", Description: "zero rate"},
	})
	assert.Empty(t, rates)
}

func TestCalculateFallsBackToEstimatedSchedule(t *testing.T) {
	est := Calculate(10, nil)

	assert.Equal(t, MethodEstimated, est.Method)
	assert.InDelta(t, 0.068, est.RateUsed, 1e-9)
	assert.InDelta(t, 0.68, est.DailyCost, 1e-9)
	assert.InDelta(t, 20.4, est.MonthlyCost, 1e-9)
	assert.InDelta(t, 300.0, est.MonthlyKwh, 1e-9)
	assert.InDelta(t, 3650.0, est.YearlyKwh, 1e-9)
}

func TestCalculateUsesLiveRate(t *testing.T) {
	entries := []Entry{
		{ConsumptionRange: "residential", Price: "0.075 JOD/kWh", Description: "Standard rate"},
	}
	est := Calculate(5, entries)

	assert.Equal(t, MethodActual, est.Method)
	assert.InDelta(t, 0.075, est.RateUsed, 1e-9)
	assert.InDelta(t, 0.375, est.DailyCost, 1e-9)
}

func TestFormatEstimateLocalized(t *testing.T) {
	est := Calculate(10, nil)
	info := Info{}

	english := FormatEstimate(est, info, language.English)
	assert.Contains(t, english, "10")
	assert.Contains(t, english, "estimated")
	assert.Contains(t, english, "116")

	arabic := FormatEstimate(est, info, language.Arabic)
	assert.NotEmpty(t, arabic)
	assert.Contains(t, arabic, "116")
}
