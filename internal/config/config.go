// Package config provides configuration loading and validation for the fitscore service and CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jonathan/recruiting-platform/internal/llm"
	"github.com/jonathan/recruiting-platform/internal/server/ratelimit"
)

// EnvPrefix is prepended to every environment variable, e.g. FITSCORE_DATABASE_URL.
const EnvPrefix = "FITSCORE"

// Config represents the full service configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Scoring   ScoringConfig   `mapstructure:"scoring"`
	Ranking   RankingConfig   `mapstructure:"ranking"`
	Breaker   BreakerConfig   `mapstructure:"breaker"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Fetch     FetchConfig     `mapstructure:"fetch"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// DatabaseConfig holds the PostgreSQL connection URL and pool sizing.
// A zero MaxConns keeps the pgx default.
type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// RedisConfig holds the cache connection shared by culture judgments and fetched
// postings. An empty Addr disables caching.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LLMConfig selects the language model provider and per-tier models.
type LLMConfig struct {
	Provider string       `mapstructure:"provider"`
	APIKey   string       `mapstructure:"api_key"`
	Models   ModelsConfig `mapstructure:"models"`
}

// ModelsConfig overrides the provider's default model per tier.
type ModelsConfig struct {
	Lite     string `mapstructure:"lite"`
	Standard string `mapstructure:"standard"`
	Advanced string `mapstructure:"advanced"`
}

// ScoringConfig tunes culture-fit judgment.
type ScoringConfig struct {
	CultureTimeout         time.Duration `mapstructure:"culture_timeout"`
	CultureCacheTTL        time.Duration `mapstructure:"culture_cache_ttl"`
	MaxConcurrentJudgments int           `mapstructure:"max_concurrent_judgments"`
}

// RankingConfig tunes batch scoring.
type RankingConfig struct {
	Workers int `mapstructure:"workers"`
}

// BreakerConfig configures the circuit breaker around the language model.
type BreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	MaxRequests      uint32        `mapstructure:"max_requests"`
	Interval         time.Duration `mapstructure:"interval"`
	Timeout          time.Duration `mapstructure:"timeout"`
	MinRequests      uint32        `mapstructure:"min_requests"`
	FailureThreshold float64       `mapstructure:"failure_threshold"`
}

// RateLimitConfig configures per-client HTTP rate limiting.
type RateLimitConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	DefaultLimit    int           `mapstructure:"default_limit"`
	DefaultWindow   time.Duration `mapstructure:"default_window"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	Whitelist       string        `mapstructure:"whitelist"` // Comma-separated client addresses
	Blacklist       string        `mapstructure:"blacklist"` // Comma-separated client addresses
}

// FetchConfig configures downloading job postings by URL.
type FetchConfig struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`
}

// LogConfig selects the logger encoding and level.
type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

// Load reads configuration from defaults, an optional YAML file and FITSCORE_* environment
// variables, in increasing order of precedence. A nil v uses a fresh viper instance.
// When configFile is empty, config.yaml is looked up in the working directory and
// its absence is not an error.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if v == nil {
		v = viper.New()
	}

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.applyFallbacks()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 120*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_conns", 0)
	v.SetDefault("database.max_conn_lifetime", time.Hour)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("llm.provider", string(llm.ProviderGemini))
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.models.lite", "")
	v.SetDefault("llm.models.standard", "")
	v.SetDefault("llm.models.advanced", "")

	v.SetDefault("scoring.culture_timeout", 10*time.Second)
	v.SetDefault("scoring.culture_cache_ttl", 24*time.Hour)
	v.SetDefault("scoring.max_concurrent_judgments", 8)

	v.SetDefault("ranking.workers", 8)

	breaker := llm.DefaultBreakerSettings()
	v.SetDefault("breaker.enabled", true)
	v.SetDefault("breaker.max_requests", breaker.MaxRequests)
	v.SetDefault("breaker.interval", breaker.Interval)
	v.SetDefault("breaker.timeout", breaker.Timeout)
	v.SetDefault("breaker.min_requests", breaker.MinRequests)
	v.SetDefault("breaker.failure_threshold", breaker.FailureThreshold)

	limits := ratelimit.DefaultConfig()
	v.SetDefault("rate_limit.enabled", limits.Enabled)
	v.SetDefault("rate_limit.default_limit", limits.DefaultLimit)
	v.SetDefault("rate_limit.default_window", limits.DefaultWindow)
	v.SetDefault("rate_limit.cleanup_interval", limits.CleanupInterval)
	v.SetDefault("rate_limit.whitelist", "")
	v.SetDefault("rate_limit.blacklist", "")

	v.SetDefault("fetch.timeout", 30*time.Second)
	v.SetDefault("fetch.user_agent", "")
	v.SetDefault("fetch.cache_ttl", 7*24*time.Hour)

	v.SetDefault("log.json", false)
	v.SetDefault("log.debug", false)
}

// applyFallbacks fills the API key from the provider's conventional environment variable.
func (c *Config) applyFallbacks() {
	if c.LLM.APIKey != "" {
		return
	}
	switch strings.ToLower(c.LLM.Provider) {
	case string(llm.ProviderOpenAI):
		c.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	default:
		c.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
	}
}

// Validate checks that the configuration has valid values.
// A missing API key is not an error; scoring then runs without culture judgment.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config error: 'server.port' must be between 1 and 65535")
	}
	if _, err := llm.ParseProvider(c.LLM.Provider); err != nil {
		return fmt.Errorf("config error: 'llm.provider': %w", err)
	}
	if c.Database.MaxConns < 0 || c.Database.MaxConnLifetime < 0 {
		return fmt.Errorf("config error: 'database' pool settings must be non-negative")
	}
	if c.Scoring.CultureTimeout <= 0 {
		return fmt.Errorf("config error: 'scoring.culture_timeout' must be positive")
	}
	if c.Scoring.CultureCacheTTL < 0 {
		return fmt.Errorf("config error: 'scoring.culture_cache_ttl' must be non-negative")
	}
	if c.Scoring.MaxConcurrentJudgments < 0 {
		return fmt.Errorf("config error: 'scoring.max_concurrent_judgments' must be non-negative")
	}
	if c.Ranking.Workers <= 0 {
		return fmt.Errorf("config error: 'ranking.workers' must be positive")
	}
	if c.Fetch.Timeout <= 0 {
		return fmt.Errorf("config error: 'fetch.timeout' must be positive")
	}
	if c.Fetch.CacheTTL < 0 {
		return fmt.Errorf("config error: 'fetch.cache_ttl' must be non-negative")
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("config error: 'redis.db' must be non-negative")
	}
	if c.Breaker.FailureThreshold < 0 || c.Breaker.FailureThreshold > 1 {
		return fmt.Errorf("config error: 'breaker.failure_threshold' must be between 0.0 and 1.0")
	}
	if c.RateLimit.Enabled && (c.RateLimit.DefaultLimit <= 0 || c.RateLimit.DefaultWindow <= 0) {
		return fmt.Errorf("config error: 'rate_limit.default_limit' and 'rate_limit.default_window' must be positive")
	}
	return nil
}

// LLMSettings returns the provider configuration with tier overrides applied.
func (c *Config) LLMSettings() *llm.Config {
	provider, err := llm.ParseProvider(c.LLM.Provider)
	if err != nil {
		provider = llm.ProviderGemini
	}
	return llm.ConfigFor(provider).
		WithModel(llm.TierLite, c.LLM.Models.Lite).
		WithModel(llm.TierStandard, c.LLM.Models.Standard).
		WithModel(llm.TierAdvanced, c.LLM.Models.Advanced)
}

// BreakerSettings converts the breaker section into llm settings.
func (c *Config) BreakerSettings() llm.BreakerSettings {
	return llm.BreakerSettings{
		Name:             "llm",
		MaxRequests:      c.Breaker.MaxRequests,
		Interval:         c.Breaker.Interval,
		Timeout:          c.Breaker.Timeout,
		MinRequests:      c.Breaker.MinRequests,
		FailureThreshold: c.Breaker.FailureThreshold,
	}
}

// RateLimitSettings converts the rate limit section into limiter configuration.
func (c *Config) RateLimitSettings() *ratelimit.Config {
	limits := ratelimit.DefaultConfig()
	limits.Enabled = c.RateLimit.Enabled
	limits.DefaultLimit = c.RateLimit.DefaultLimit
	limits.DefaultWindow = c.RateLimit.DefaultWindow
	limits.CleanupInterval = c.RateLimit.CleanupInterval
	limits.Whitelist = ratelimit.ParseIPList(c.RateLimit.Whitelist)
	limits.Blacklist = ratelimit.ParseIPList(c.RateLimit.Blacklist)
	return limits
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
