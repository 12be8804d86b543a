package search

import (
	"fmt"
	"strings"
)

// FormatResults renders a ranked result set into the context block handed
// to the model: grouped by content type, highest-value groups first, with
// the source page named for transparency.
func FormatResults(results []Result, stats Stats) string {
	if len(results) == 0 {
		return ""
	}

	groups := map[string][]Result{}
	order := 0
	for _, r := range results {
		if order >= 20 {
			break
		}
		order++
		key := r.ContentType
		switch key {
		case "contact", "pricing", "header", "table", "content":
		default:
			key = "other"
		}
		groups[key] = append(groups[key], r)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "JEPCO website search results (%d/%d pages)\n",
		stats.SuccessfulPages, stats.PagesSearched)

	sections := []struct {
		title string
		key   string
		limit int
	}{
		{"Contact Information:", "contact", 5},
		{"Pricing Information:", "pricing", 5},
		{"Key Information:", "header", 5},
		{"Structured Data:", "table", 5},
		{"General Content:", "content", 5},
		{"Additional Information:", "other", 3},
	}

	for _, section := range sections {
		items := groups[section.key]
		if len(items) == 0 {
			continue
		}
		if len(items) > section.limit {
			items = items[:section.limit]
		}
		b.WriteString("\n" + section.title + "\n")
		for _, r := range items {
			text := r.Text
			if len([]rune(text)) > 400 {
				text = clipRunes(text, 400) + "..."
			}
			b.WriteString("- " + text + "\n")
			if r.SourceURL != "" {
				b.WriteString("  Source: " + pageName(r.SourceURL) + "\n")
			}
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func pageName(sourceURL string) string {
	trimmed := strings.TrimRight(sourceURL, "/")
	if idx := strings.LastIndex(trimmed, "/"); idx >= 0 && idx+1 < len(trimmed) {
		return trimmed[idx+1:]
	}
	return "Home"
}
