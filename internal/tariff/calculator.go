package tariff

import (
	"regexp"
	"strconv"
)

// Method records which rate source a cost estimate was computed from.
type Method string

const (
	MethodActual    Method = "actual"
	MethodEstimated Method = "estimated"
)

// Rate is a parsed per-kWh rate in JOD.
type Rate struct {
	Value       float64
	Description string
}

// Tier is one consumption band of the fallback schedule.
type Tier struct {
	Range       string
	Rate        float64
	Description string
}

// EstimatedSchedule is the fixed tiered fallback used when no live rate
// parses. Approximate JEPCO residential bands; callers surface a disclaimer
// whenever it is used.
var EstimatedSchedule = []Tier{
	{Range: "0-160", Rate: 0.068, Description: "First 160 kWh"},
	{Range: "161-300", Rate: 0.090, Description: "Next 140 kWh (161-300)"},
	{Range: "301-500", Rate: 0.120, Description: "Next 200 kWh (301-500)"},
	{Range: "501+", Rate: 0.150, Description: "Above 500 kWh"},
}

// Estimate is the derived cost breakdown for a daily consumption figure.
type Estimate struct {
	DailyKwh   float64
	MonthlyKwh float64
	YearlyKwh  float64

	DailyCost   float64
	MonthlyCost float64
	YearlyCost  float64

	RateUsed float64
	Method   Method
}

var numberToken = regexp.MustCompile(`\d+(?:\.\d+)?`)

// ExtractConsumption pulls the consumption value out of a calculation
// query: the first numeric token, taken as daily kWh. ok is false when the
// query carries no digits, which means it is not a calculation query.
func ExtractConsumption(query string) (float64, bool) {
	token := numberToken.FindString(query)
	if token == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// ParseRates extracts usable JOD/kWh rates from tariff entries. The first
// numeric token in the price and description text is the candidate; values
// of one or more are fils and divide by 1000, values under one are already
// JOD. Anything outside (0, 1) after normalization is discarded. A bad
// entry is skipped, never an error.
func ParseRates(entries []Entry) []Rate {
	var rates []Rate
	for _, entry := range entries {
		token := numberToken.FindString(entry.Price + " " + entry.Description)
		if token == "" {
			continue
		}
		value, err := strconv.ParseFloat(token, 64)
		if err != nil {
			continue
		}
		if value >= 1 {
			value = value / 1000
		}
		if value <= 0 || value >= 1 {
			continue
		}
		rates = append(rates, Rate{
			Value:       value,
			Description: clipRunes(entry.Description, 100),
		})
	}
	return rates
}

// Calculate computes daily/monthly/yearly cost for dailyKwh. The first
// parseable live rate wins; otherwise the first tier of the estimated
// schedule applies and the result is flagged estimated.
func Calculate(dailyKwh float64, entries []Entry) Estimate {
	est := Estimate{
		DailyKwh:   dailyKwh,
		MonthlyKwh: dailyKwh * 30,
		YearlyKwh:  dailyKwh * 365,
	}

	rate := EstimatedSchedule[0].Rate
	est.Method = MethodEstimated

	if rates := ParseRates(entries); len(rates) > 0 {
		rate = rates[0].Value
		est.Method = MethodActual
	}

	est.RateUsed = rate
	est.DailyCost = dailyKwh * rate
	est.MonthlyCost = dailyKwh * 30 * rate
	est.YearlyCost = dailyKwh * 365 * rate

	return est
}
