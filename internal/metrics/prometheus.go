package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ChatDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jepco_chat_duration_seconds",
			Help:    "Chat request processing duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"language"},
	)

	ChatTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jepco_chat_total",
			Help: "Total number of chat requests processed",
		},
		[]string{"status"},
	)

	RetrievalTier = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jepco_chat_retrieval_tier_total",
			Help: "Which retrieval tier produced the context",
		},
		[]string{"tier"},
	)

	LanguageDetected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jepco_chat_language_detected_total",
			Help: "Detected query languages",
		},
		[]string{"language"},
	)

	PagesFetched = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "jepco_chat_pages_fetched_total",
			Help: "Total site pages fetched during live search",
		},
	)

	PagesFailed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "jepco_chat_pages_failed_total",
			Help: "Total site page fetches that failed",
		},
	)

	LLMTokensUsed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jepco_chat_llm_tokens_used",
			Help: "Total LLM tokens used",
		},
		[]string{"model", "type"},
	)

	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jepco_chat_cache_hits_total",
			Help: "Total cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jepco_chat_cache_misses_total",
			Help: "Total cache misses",
		},
		[]string{"cache_type"},
	)

	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "jepco_chat_ws_sessions_active",
			Help: "Currently connected websocket sessions",
		},
	)
)

func Init() {
	prometheus.MustRegister(ChatDuration)
	prometheus.MustRegister(ChatTotal)
	prometheus.MustRegister(RetrievalTier)
	prometheus.MustRegister(LanguageDetected)
	prometheus.MustRegister(PagesFetched)
	prometheus.MustRegister(PagesFailed)
	prometheus.MustRegister(LLMTokensUsed)
	prometheus.MustRegister(CacheHits)
	prometheus.MustRegister(CacheMisses)
	prometheus.MustRegister(ActiveSessions)
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
