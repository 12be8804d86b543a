package knowledge

import (
	"encoding/json"
	"sort"
	"strings"
)

// ContentNode is the tagged variant the knowledge document is built from.
// The document mixes plain strings, nested lists, and entry objects with
// optional structured fields; a single recursive type replaces shape
// sniffing at every call site.
type ContentNode struct {
	Text   string
	Fields map[string]string
	Items  []ContentNode
}

// IsList reports whether the node is a list of child nodes.
func (n ContentNode) IsList() bool { return n.Items != nil }

// IsEmpty reports whether the node carries no content at all.
func (n ContentNode) IsEmpty() bool {
	return n.Text == "" && len(n.Items) == 0 && len(n.Fields) == 0
}

// UnmarshalJSON accepts the three shapes the scraped document uses:
// a bare string, an array of nodes, or an object with "text" plus optional
// string fields. Unknown scalar fields are folded into Fields so nothing
// scraped is silently dropped.
func (n *ContentNode) UnmarshalJSON(data []byte) error {
	data = []byte(strings.TrimSpace(string(data)))
	if len(data) == 0 {
		return nil
	}

	switch data[0] {
	case '"':
		return json.Unmarshal(data, &n.Text)
	case '[':
		return json.Unmarshal(data, &n.Items)
	case '{':
		var raw map[string]json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		// Sorted key order keeps child ordering, and with it lookup
		// output, stable across runs.
		keys := make([]string, 0, len(raw))
		for key := range raw {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		n.Fields = make(map[string]string)
		for _, key := range keys {
			value := raw[key]
			var s string
			if err := json.Unmarshal(value, &s); err == nil {
				if key == "text" || (n.Text == "" && key == "title") {
					n.Text = s
				} else {
					n.Fields[key] = s
				}
				continue
			}
			var child ContentNode
			if err := json.Unmarshal(value, &child); err == nil && !child.IsEmpty() {
				n.Items = append(n.Items, child)
			}
		}
		if len(n.Fields) == 0 {
			n.Fields = nil
		}
		return nil
	}

	// Numbers and booleans occasionally appear in scraped tables.
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v != nil {
		n.Text = strings.TrimSpace(string(data))
	}
	return nil
}

// flatten returns the node's own text, its field values in key order, then
// the text of every descendant. Key order keeps output stable across runs.
func (n ContentNode) flatten() []string {
	var out []string
	if n.Text != "" {
		out = append(out, n.Text)
	}
	if len(n.Fields) > 0 {
		keys := make([]string, 0, len(n.Fields))
		for key := range n.Fields {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if n.Fields[key] != "" {
				out = append(out, n.Fields[key])
			}
		}
	}
	for _, item := range n.Items {
		out = append(out, item.flatten()...)
	}
	return out
}

// match walks the node and collects texts containing any query word longer
// than two characters, at most limit matches. The word-length floor keeps
// stop words and Arabic particles from matching everything.
func (n ContentNode) match(words []string, limit int) []string {
	var matches []string
	n.walkMatch(words, limit, &matches)
	return matches
}

func (n ContentNode) walkMatch(words []string, limit int, matches *[]string) {
	if len(*matches) >= limit {
		return
	}
	if n.Text != "" && textMatches(n.Text, words) {
		*matches = append(*matches, truncate(n.Text, 300))
		if len(*matches) >= limit {
			return
		}
	}
	if len(n.Fields) > 0 {
		keys := make([]string, 0, len(n.Fields))
		for key := range n.Fields {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if len(*matches) >= limit {
				return
			}
			if textMatches(n.Fields[key], words) {
				*matches = append(*matches, truncate(n.Fields[key], 300))
			}
		}
	}
	for _, item := range n.Items {
		item.walkMatch(words, limit, matches)
	}
}

func textMatches(text string, words []string) bool {
	lower := strings.ToLower(text)
	for _, w := range words {
		if len([]rune(w)) > 2 && strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
