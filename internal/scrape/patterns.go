package scrape

import (
	"regexp"
	"strings"
)

// Contact, pricing, and schedule patterns tuned against the JEPCO site.
// Hotline numbers are short three-digit codes (116), landlines follow the
// Jordanian local and international formats.
var (
	phonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b1\d{2}\b`),
		regexp.MustCompile(`\b0\d{1,2}[-\s]?\d{7,8}\b`),
		regexp.MustCompile(`\+962[-\s]?\d{1,2}[-\s]?\d{7,8}`),
	}

	emailPattern = regexp.MustCompile(`[\w.-]+@[\w.-]+\.\w+`)

	hoursPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\d{1,2}:\d{2}\s*(?:AM|PM|am|pm|صباحاً|مساءً)`),
		regexp.MustCompile(`من\s*\d{1,2}:\d{2}\s*إلى\s*\d{1,2}:\d{2}`),
		regexp.MustCompile(`(?i)from\s*\d{1,2}:\d{2}\s*to\s*\d{1,2}:\d{2}`),
	}

	pricingPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\d+(?:\.\d+)?\s*(?:فلس|fils)`),
		regexp.MustCompile(`(?i)\d+(?:\.\d+)?\s*(?:دينار|JOD)`),
		regexp.MustCompile(`(?i)\d+(?:\.\d+)?\s*(?:كيلو\s*واط|kWh)`),
	}

	numberPattern   = regexp.MustCompile(`\d+(?:\.\d+)?`)
	sentenceSplit   = regexp.MustCompile(`[.!?؟]`)
	whitespaceRuns  = regexp.MustCompile(`\s+`)
	procedureWords  = []string{"خطوات", "إجراءات", "steps", "procedure", "process"}
	requirementWord = []string{"متطلبات", "شروط", "requirements", "conditions"}
)

func extractContacts(text string) ContactInfo {
	info := ContactInfo{}
	for _, p := range phonePatterns {
		info.Phones = append(info.Phones, p.FindAllString(text, -1)...)
	}
	info.Phones = dedupe(info.Phones)
	info.Emails = dedupe(emailPattern.FindAllString(text, -1))
	for _, p := range hoursPatterns {
		info.Hours = append(info.Hours, p.FindAllString(text, -1)...)
	}
	info.Hours = dedupe(info.Hours)
	return info
}

func extractPricing(text string) []string {
	var out []string
	for _, p := range pricingPatterns {
		out = append(out, p.FindAllString(text, -1)...)
	}
	return dedupe(out)
}

// extractSentences scans sentence by sentence for the keyword list and
// returns the matches, clipped to 200 runes each.
func extractSentences(text string, keywords []string) []string {
	var out []string
	for _, sentence := range sentenceSplit.Split(text, -1) {
		sentence = strings.TrimSpace(sentence)
		if len([]rune(sentence)) <= 20 {
			continue
		}
		lower := strings.ToLower(sentence)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				out = append(out, clipRunes(sentence, 200))
				break
			}
		}
	}
	return out
}

func dedupe(values []string) []string {
	if len(values) == 0 {
		return nil
	}
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

func collapseSpace(s string) string {
	return strings.TrimSpace(whitespaceRuns.ReplaceAllString(s, " "))
}
