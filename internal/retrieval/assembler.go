package retrieval

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/jepco-agent/backend/internal/language"
	"github.com/jepco-agent/backend/internal/search"
	"github.com/jepco-agent/backend/internal/tariff"
	"github.com/jepco-agent/backend/pkg/logger"
)

// Tier names which provider finally produced the context; exported so the
// reply handler can record it.
type Tier string

const (
	TierCalculation Tier = "calculation"
	TierCombined    Tier = "knowledge_live"
	TierStatic      Tier = "static"
	TierFallback    Tier = "fallback"
)

// KnowledgeSource is the static store surface the assembler consumes.
type KnowledgeSource interface {
	Lookup(query string, lang language.Language) string
	DeepSearch(query string, lang language.Language) string
}

// LiveSearcher is the site search surface.
type LiveSearcher interface {
	Search(ctx context.Context, query string, lang language.Language) ([]search.Result, search.Stats, error)
}

// TariffSource resolves current tariff data for the calculation path.
type TariffSource interface {
	GetTariffs(ctx context.Context, lang language.Language) tariff.Info
}

// fallbackDirectives are the last-resort context when every retrieval tier
// comes back empty.
var fallbackDirectives = map[bool]string{
	false: "Please contact JEPCO customer service at 116 for detailed assistance, or visit www.jepco.com.jo for current information.",
	true:  "يرجى الاتصال بخدمة عملاء جيبكو على الرقم 116 للمساعدة، أو زيارة الموقع www.jepco.com.jo للحصول على المعلومات الحالية.",
}

// calculationTriggers gate the cost-calculation path. Broad on purpose —
// the numeric extraction is the real filter.
var calculationTriggers = []string{
	"احسب", "calculate", "حساب", "كم", "how much", "cost", "تكلفة",
	"فاتورة", "bill", "كيلو واط", "kwh", "سعر", "price",
}

// provider is one tier of the fallback chain: it either contributes a
// non-empty context or passes.
type provider struct {
	tier Tier
	try  func(ctx context.Context, query string, lang language.Language) string
}

// Assembler decides what knowledge the model sees for a query. It walks an
// ordered provider chain until one yields content; the final provider is
// total, so FindRelevantContent never returns an empty string.
type Assembler struct {
	providers []provider
}

func NewAssembler(store KnowledgeSource, searcher LiveSearcher, tariffs TariffSource) *Assembler {
	a := &Assembler{}
	a.providers = []provider{
		{TierCalculation, a.tryCalculation(tariffs)},
		{TierCombined, a.tryCombined(store, searcher)},
		{TierStatic, a.tryStatic(store)},
		{TierFallback, tryFallback},
	}
	return a
}

// FindRelevantContent returns the context text for a query plus the tier
// that produced it. Sub-stage failures degrade to "no contribution"; the
// caller always gets usable text.
func (a *Assembler) FindRelevantContent(ctx context.Context, query string, lang language.Language) (string, Tier) {
	for _, p := range a.providers {
		if content := p.try(ctx, query, lang); content != "" {
			logger.Debug("Context assembled",
				zap.String("tier", string(p.tier)),
				zap.Int("length", len(content)),
			)
			return content, p.tier
		}
	}
	// Unreachable: the fallback provider is total.
	return fallbackDirectives[lang.ArabicFamily()], TierFallback
}

// tryCalculation serves cost questions directly: a trigger keyword plus a
// parseable consumption number resolves live tariffs and computes the
// estimate, bypassing retrieval entirely. Anything missing falls through.
func (a *Assembler) tryCalculation(tariffs TariffSource) func(context.Context, string, language.Language) string {
	return func(ctx context.Context, query string, lang language.Language) string {
		if !isCalculationQuery(query) {
			return ""
		}
		dailyKwh, ok := tariff.ExtractConsumption(query)
		if !ok {
			return ""
		}

		logger.Info("Calculation query detected",
			zap.Float64("daily_kwh", dailyKwh),
			zap.String("language", string(lang)),
		)

		info := tariffs.GetTariffs(ctx, lang)
		est := tariff.Calculate(dailyKwh, info.Entries)
		return tariff.FormatEstimate(est, info, lang)
	}
}

// tryCombined merges the knowledge-base findings with live search results,
// labeled by source, knowledge base first. Either half may be empty; both
// empty passes to the next tier.
func (a *Assembler) tryCombined(store KnowledgeSource, searcher LiveSearcher) func(context.Context, string, language.Language) string {
	return func(ctx context.Context, query string, lang language.Language) string {
		var sections []string

		kb := store.Lookup(query, lang)
		if deep := store.DeepSearch(query, lang); deep != "" {
			if kb != "" {
				kb = kb + "\n\n" + deep
			} else {
				kb = deep
			}
		}
		if kb != "" {
			sections = append(sections, "From the JEPCO knowledge base:\n"+kb)
		}

		results, stats, err := searcher.Search(ctx, query, lang)
		if err != nil {
			logger.Warn("Live search failed", zap.Error(err))
		} else if live := search.FormatResults(results, stats); live != "" {
			sections = append(sections, "Current information from the JEPCO website:\n"+live)
		}

		return strings.Join(sections, "\n\n")
	}
}

// tryStatic is the raw category lookup, used when both richer tiers came
// back empty.
func (a *Assembler) tryStatic(store KnowledgeSource) func(context.Context, string, language.Language) string {
	return func(_ context.Context, query string, lang language.Language) string {
		content := store.Lookup(query, lang)
		if content == "" {
			return ""
		}
		return "Available information:\n\n" + content +
			"\n\nFor the most current information, please contact JEPCO at 116 or visit www.jepco.com.jo"
	}
}

func tryFallback(_ context.Context, _ string, lang language.Language) string {
	return fallbackDirectives[lang.ArabicFamily()]
}

func isCalculationQuery(query string) bool {
	lower := strings.ToLower(query)
	for _, trigger := range calculationTriggers {
		if strings.Contains(lower, trigger) {
			return true
		}
	}
	return false
}
