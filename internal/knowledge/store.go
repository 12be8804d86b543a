package knowledge

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/jepco-agent/backend/internal/language"
	"github.com/jepco-agent/backend/pkg/logger"
)

// Document is the pre-scraped knowledge base: language key to category map,
// category to content. Loaded once and treated as read-only; a reload swaps
// the whole snapshot.
type Document map[string]map[string]ContentNode

// Store serves keyword lookups over the static knowledge document. An
// absent or unreadable document degrades to an empty store; lookups then
// return nothing and the caller falls through to its next tier.
type Store struct {
	mu  sync.RWMutex
	doc Document

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// lookupCategories are the coarse lookup categories with the bilingual
// trigger words that select them, in presentation order. Ordering matters:
// the per-category and total entry caps mean it decides which entries win,
// so the same query must always produce the same context.
var lookupCategories = []struct {
	Key      string
	Label    string
	Keywords []string
}{
	{"billing", "Billing", []string{"bill", "فاتورة", "payment", "دفع", "pay", "cost", "تكلفة"}},
	{"services", "Services", []string{"service", "خدمة", "خدمات", "help", "مساعدة"}},
	{"contact", "Contact", []string{"contact", "phone", "اتصال", "هاتف", "تواصل"}},
	{"emergency", "Emergency", []string{"emergency", "طوارئ", "urgent", "عاجل", "outage", "انقطاع"}},
	{"areas", "Areas", []string{"area", "منطقة", "location", "موقع"}},
}

// deepCategories is the richer category set the assembler scans, in
// presentation order.
var deepCategories = []struct {
	Key   string
	Label string
}{
	{"company_info", "Company Information"},
	{"services", "Customer Services"},
	{"billing", "Billing Information"},
	{"technical_services", "Technical Services"},
	{"contact_info", "Contact Information"},
	{"safety_regulations", "Safety & Regulations"},
	{"faq", "Frequently Asked Questions"},
	{"additional_content", "Additional Information"},
}

// NewStore loads the knowledge document from path. A missing file is not an
// error: the store starts empty and picks the document up on a later reload.
func NewStore(path string) *Store {
	s := &Store{doc: Document{}, done: make(chan struct{})}
	if err := s.load(path); err != nil {
		logger.Warn("Knowledge document unavailable, store starts empty",
			zap.String("path", path), zap.Error(err))
	}
	return s
}

func (s *Store) load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse knowledge document: %w", err)
	}
	// Metadata blocks from the extraction run are not content.
	delete(doc, "extraction_metadata")

	s.mu.Lock()
	s.doc = doc
	s.mu.Unlock()

	logger.Info("Knowledge document loaded",
		zap.String("path", path), zap.Int("languages", len(doc)))
	return nil
}

// Watch reloads the document whenever the file changes. The swap is atomic
// under the store lock; in-flight lookups finish against the old snapshot.
func (s *Store) Watch(path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}
	s.watcher = watcher

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Name != path {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if err := s.load(path); err != nil {
					logger.Warn("Knowledge reload failed", zap.Error(err))
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("Knowledge watcher error", zap.Error(err))
			case <-s.done:
				return
			}
		}
	}()

	return nil
}

// Close stops the watcher if one is running.
func (s *Store) Close() {
	close(s.done)
	if s.watcher != nil {
		s.watcher.Close()
	}
}

// Empty reports whether the store holds no content at all.
func (s *Store) Empty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.doc) == 0
}

// langContent picks the per-language section, falling back to whichever
// language the document does carry.
func (s *Store) langContent(lang language.Language) map[string]ContentNode {
	key := "english"
	if lang.ArabicFamily() {
		key = "arabic"
	}
	if content, ok := s.doc[key]; ok {
		return content
	}
	for _, fallbackKey := range []string{"english", "arabic"} {
		if content, ok := s.doc[fallbackKey]; ok {
			return content
		}
	}
	return nil
}

// Lookup maps the query onto the coarse categories and extracts up to two
// entries per matched category, three overall, each prefixed with its
// category label. An empty result is the expected signal that the store has
// nothing to contribute, never an error.
func (s *Store) Lookup(query string, lang language.Language) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	content := s.langContent(lang)
	if content == nil {
		return ""
	}

	queryLower := strings.ToLower(query)

	matched := make([]bool, len(lookupCategories))
	anyMatched := false
	for i, category := range lookupCategories {
		for _, kw := range category.Keywords {
			if strings.Contains(queryLower, kw) {
				matched[i] = true
				anyMatched = true
				break
			}
		}
	}

	var entries []string
	for i, category := range lookupCategories {
		if len(entries) >= 3 {
			break
		}
		if anyMatched && !matched[i] {
			continue
		}
		node, ok := content[category.Key]
		if !ok {
			continue
		}
		for j, text := range node.flatten() {
			if j >= 2 || len(entries) >= 3 {
				break
			}
			entries = append(entries, fmt.Sprintf("[%s] %s", category.Label, truncate(text, 300)))
		}
	}

	if len(entries) == 0 {
		if general, ok := content["general"]; ok {
			for i, text := range general.flatten() {
				if i >= 2 {
					break
				}
				entries = append(entries, fmt.Sprintf("[General] %s", truncate(text, 300)))
			}
		}
	}

	if len(entries) == 0 {
		return ""
	}
	return strings.Join(entries, "\n\n")
}

// DeepSearch scans the full category set, matching every query word longer
// than two characters against nested text, lists, and entry fields, capped
// at two matches per category.
func (s *Store) DeepSearch(query string, lang language.Language) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	content := s.langContent(lang)
	if content == nil {
		return ""
	}

	words := strings.Fields(strings.ToLower(query))

	var sections []string
	for _, category := range deepCategories {
		node, ok := content[category.Key]
		if !ok {
			continue
		}
		matches := node.match(words, 2)
		if len(matches) == 0 {
			continue
		}
		lines := make([]string, 0, len(matches)+1)
		lines = append(lines, category.Label+":")
		for _, m := range matches {
			lines = append(lines, "- "+m)
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	return strings.Join(sections, "\n\n")
}
