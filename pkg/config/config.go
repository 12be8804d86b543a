package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	SQLite    SQLiteConfig
	Redis     RedisConfig
	LLM       LLMConfig
	Site      SiteConfig
	Search    SearchConfig
	Knowledge KnowledgeConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  int
	WriteTimeout int
	BodyLimit    int
}

type SQLiteConfig struct {
	Path string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
	PageTTL  int
}

type LLMConfig struct {
	Model       string
	APIKey      string
	Temperature float32
	MaxTokens   int
	TimeoutSec  int
}

// SiteConfig describes how the live JEPCO website is fetched.
type SiteConfig struct {
	BaseURL       string
	UserAgent     string
	TimeoutSec    int
	FetchDelayMs  int
	InsecureTLS   bool
	MinTextLength int
}

// SearchConfig carries the tunable relevance constants. The defaults match
// the values the path tables were tuned with; none of them is a contract.
type SearchConfig struct {
	MaxPriorityPages int
	MaxExtraPages    int
	MinResults       int
	MaxResults       int
	PerPageResults   int
	ExactMatchBonus  int
}

type KnowledgeConfig struct {
	Path  string
	Watch bool
}

type LoggingConfig struct {
	Level      string
	Format     string
	OutputPath string
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/jepco-agent")

	viper.SetEnvPrefix("JEPCO")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// Validate rejects configurations the reply pipeline cannot start with.
// Retrieval degrades gracefully without redis or a knowledge file, but a
// missing model credential is a hard operator error.
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return fmt.Errorf("llm.apiKey is required (set JEPCO_LLM_APIKEY)")
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.readTimeout", 30)
	viper.SetDefault("server.writeTimeout", 60)
	viper.SetDefault("server.bodyLimit", 1048576)

	viper.SetDefault("sqlite.path", "./data/jepco_chat.db")

	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.pageTTL", 600)

	viper.SetDefault("llm.model", "gpt-4o")
	viper.SetDefault("llm.temperature", 0.7)
	viper.SetDefault("llm.maxTokens", 500)
	viper.SetDefault("llm.timeoutSec", 30)

	viper.SetDefault("site.baseURL", "https://www.jepco.com.jo")
	viper.SetDefault("site.userAgent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	viper.SetDefault("site.timeoutSec", 10)
	viper.SetDefault("site.fetchDelayMs", 500)
	viper.SetDefault("site.insecureTLS", true)
	viper.SetDefault("site.minTextLength", 10)

	viper.SetDefault("search.maxPriorityPages", 10)
	viper.SetDefault("search.maxExtraPages", 15)
	viper.SetDefault("search.minResults", 10)
	viper.SetDefault("search.maxResults", 20)
	viper.SetDefault("search.perPageResults", 15)
	viper.SetDefault("search.exactMatchBonus", 5)

	viper.SetDefault("knowledge.path", "./data/jepco_content.json")
	viper.SetDefault("knowledge.watch", true)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.outputPath", "stdout")
}
