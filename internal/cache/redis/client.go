package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/jepco-agent/backend/internal/metrics"
	"github.com/jepco-agent/backend/internal/scrape"
	"github.com/jepco-agent/backend/pkg/logger"
	"github.com/jepco-agent/backend/pkg/utils"
)

// Client caches parsed pages so repeated queries against the same site
// paths do not refetch them within the TTL.
type Client struct {
	client *redis.Client
	ttl    time.Duration
}

func NewClient(host string, port int, password string, db int, ttl time.Duration) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis page cache initialized",
		zap.String("addr", fmt.Sprintf("%s:%d", host, port)),
		zap.Duration("ttl", ttl))

	return &Client{client: client, ttl: ttl}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

func pageKey(pageURL string) string {
	return "page:" + utils.HashString(pageURL)
}

func (c *Client) GetPage(ctx context.Context, pageURL string) (*scrape.PageContent, bool) {
	data, err := c.client.Get(ctx, pageKey(pageURL)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		logger.Debug("Page cache read failed", zap.String("url", pageURL), zap.Error(err))
		return nil, false
	}

	var content scrape.PageContent
	if err := json.Unmarshal(data, &content); err != nil {
		logger.Debug("Page cache entry corrupt", zap.String("url", pageURL), zap.Error(err))
		return nil, false
	}
	return &content, true
}

func (c *Client) SetPage(ctx context.Context, pageURL string, content *scrape.PageContent) {
	data, err := json.Marshal(content)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, pageKey(pageURL), data, c.ttl).Err(); err != nil {
		logger.Debug("Page cache write failed", zap.String("url", pageURL), zap.Error(err))
	}
}

// CachingFetcher decorates a PageFetcher with the cache. Cache trouble is
// never a fetch failure; it just means a direct fetch.
type CachingFetcher struct {
	cache   *Client
	fetcher scrape.PageFetcher
}

func NewCachingFetcher(cache *Client, fetcher scrape.PageFetcher) *CachingFetcher {
	return &CachingFetcher{cache: cache, fetcher: fetcher}
}

func (f *CachingFetcher) Fetch(ctx context.Context, pageURL string) (*scrape.PageContent, error) {
	if content, ok := f.cache.GetPage(ctx, pageURL); ok {
		metrics.CacheHits.WithLabelValues("page").Inc()
		logger.Debug("Page cache hit", zap.String("url", pageURL))
		return content, nil
	}
	metrics.CacheMisses.WithLabelValues("page").Inc()

	content, err := f.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	f.cache.SetPage(ctx, pageURL, content)
	return content, nil
}
