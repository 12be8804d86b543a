package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/jepco-agent/backend/internal/api/handlers"
	"github.com/jepco-agent/backend/internal/cache/redis"
	"github.com/jepco-agent/backend/internal/chat"
	"github.com/jepco-agent/backend/internal/knowledge"
	"github.com/jepco-agent/backend/internal/llm"
	"github.com/jepco-agent/backend/internal/metrics"
	"github.com/jepco-agent/backend/internal/middleware/ratelimit"
	"github.com/jepco-agent/backend/internal/middleware/security"
	"github.com/jepco-agent/backend/internal/middleware/validation"
	"github.com/jepco-agent/backend/internal/retrieval"
	"github.com/jepco-agent/backend/internal/scrape"
	"github.com/jepco-agent/backend/internal/search"
	"github.com/jepco-agent/backend/internal/storage/sqlite"
	"github.com/jepco-agent/backend/internal/tariff"
	"github.com/jepco-agent/backend/pkg/config"
	appLogger "github.com/jepco-agent/backend/pkg/logger"
)

func main() {
	// Optional .env for local development; real deployments set the
	// environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	err = appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	if err := cfg.Validate(); err != nil {
		appLogger.Fatal("Invalid configuration", zap.Error(err))
	}

	appLogger.Info("Starting JEPCO assistant API server")

	metrics.Init()

	sqliteClient, err := sqlite.NewClient(cfg.SQLite.Path)
	if err != nil {
		appLogger.Fatal("Failed to create SQLite client", zap.Error(err))
	}
	defer sqliteClient.Close()

	err = sqliteClient.InitSchema()
	if err != nil {
		appLogger.Fatal("Failed to initialize schema", zap.Error(err))
	}

	store := knowledge.NewStore(cfg.Knowledge.Path)
	defer store.Close()
	if cfg.Knowledge.Watch {
		if err := store.Watch(cfg.Knowledge.Path); err != nil {
			appLogger.Warn("Knowledge reload watcher unavailable", zap.Error(err))
		}
	}

	var fetcher scrape.PageFetcher = scrape.NewClient(scrape.Options{
		Timeout:       time.Duration(cfg.Site.TimeoutSec) * time.Second,
		UserAgent:     cfg.Site.UserAgent,
		InsecureTLS:   cfg.Site.InsecureTLS,
		MinTextLength: cfg.Site.MinTextLength,
	})

	if cfg.Redis.Enabled {
		pageCache, err := redis.NewClient(
			cfg.Redis.Host,
			cfg.Redis.Port,
			cfg.Redis.Password,
			cfg.Redis.DB,
			time.Duration(cfg.Redis.PageTTL)*time.Second,
		)
		if err != nil {
			appLogger.Warn("Redis unavailable, page caching disabled", zap.Error(err))
		} else {
			fetcher = redis.NewCachingFetcher(pageCache, fetcher)
		}
	}

	sitemap := search.NewSiteMap(cfg.Site.BaseURL)
	fetchDelay := time.Duration(cfg.Site.FetchDelayMs) * time.Millisecond

	engine := search.NewEngine(fetcher, sitemap, search.Config{
		MaxPriorityPages: cfg.Search.MaxPriorityPages,
		MaxExtraPages:    cfg.Search.MaxExtraPages,
		MinResults:       cfg.Search.MinResults,
		MaxResults:       cfg.Search.MaxResults,
		PerPageResults:   cfg.Search.PerPageResults,
		ExactMatchBonus:  cfg.Search.ExactMatchBonus,
		FetchDelay:       fetchDelay,
	})

	resolver := tariff.NewResolver(fetcher, sitemap, fetchDelay)
	assembler := retrieval.NewAssembler(store, engine, resolver)

	llmClient := llm.NewClient(
		cfg.LLM.APIKey,
		cfg.LLM.Model,
		cfg.LLM.Temperature,
		cfg.LLM.MaxTokens,
		time.Duration(cfg.LLM.TimeoutSec)*time.Second,
	)

	generator := chat.NewGenerator(llmClient)
	service := chat.NewService(sqliteClient, assembler, generator, cfg.LLM.Model)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, X-Session-ID",
		AllowMethods: "GET, POST, OPTIONS",
	}))
	app.Use(security.HeadersMiddleware(security.HeadersConfig{}))

	limiter := ratelimit.New(ratelimit.Config{
		MaxRequestsPerMinute: 60,
		Logger:               appLogger.GetLogger(),
	})
	app.Use(limiter.Middleware())
	app.Use(validation.Middleware(validation.Config{
		Logger: appLogger.GetLogger(),
	}))

	chatHandler := handlers.NewChatHandler(service)
	wsHandler := handlers.NewWebSocketHandler(service)

	api := app.Group("/api/v1")

	api.Post("/chat", chatHandler.HandleChat)
	api.Get("/sessions/:id/messages", chatHandler.GetSessionMessages)
	api.Get("/welcome", chatHandler.GetWelcome)

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	app.Get("/metrics", metrics.MetricsHandler())

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/chat", websocket.New(wsHandler.HandleConnection))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("Server starting", zap.String("address", addr))

	go func() {
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Server shutting down gracefully...")
	app.Shutdown()
	appLogger.Info("Server stopped")
}
