// Package config loads service configuration.
//
// Values are layered, later layers winning:
//
//  1. Built-in defaults
//  2. Optional YAML file (--config, $CONFIG_PATH, ./config.yaml)
//  3. Environment variables: CAR_ADVISOR_<SECTION>_<KEY> (CAR_ADVISOR_LLM_API_KEY -> llm.api_key),
//     plus the conventional GEMINI_API_KEY, DATABASE_URL, REDIS_URL, PORT, LOG_LEVEL and RATE_LIMIT_*.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/jonathan/car-advisor/internal/llm"
	"github.com/jonathan/car-advisor/internal/server/ratelimit"
)

// EnvPrefix prefixes every namespaced environment variable.
const EnvPrefix = "CAR_ADVISOR_"

// ConfigPathEnvVar names the environment variable holding the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths are searched when no path is given.
var DefaultConfigPaths = []string{"config.yaml", "config/config.yaml"}

// Config is the complete service configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	LLM       LLMConfig       `koanf:"llm"`
	Breaker   BreakerConfig   `koanf:"breaker"`
	Advisor   AdvisorConfig   `koanf:"advisor"`
	Database  DatabaseConfig  `koanf:"database"`
	Cache     CacheConfig     `koanf:"cache"`
	Ranking   RankingConfig   `koanf:"ranking"`
	RateLimit RateLimitConfig `koanf:"ratelimit"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// LoggingConfig configures zerolog.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// LLMConfig configures the language model. AI endpoints are disabled without an API key.
type LLMConfig struct {
	Provider        string        `koanf:"provider"`
	APIKey          string        `koanf:"api_key"`
	ModelLite       string        `koanf:"model_lite"`
	ModelStandard   string        `koanf:"model_standard"`
	ModelAdvanced   string        `koanf:"model_advanced"`
	Temperature     float64       `koanf:"temperature"`
	JSONTemperature float64       `koanf:"json_temperature"`
	MaxOutputTokens int           `koanf:"max_output_tokens"`
	Timeout         time.Duration `koanf:"timeout"`
	// CacheTTL memoizes identical prompts. Zero disables response caching.
	CacheTTL time.Duration `koanf:"cache_ttl"`
}

// BreakerConfig configures the circuit breaker in front of the LLM.
type BreakerConfig struct {
	FailureThreshold uint32        `koanf:"failure_threshold"`
	MaxRequests      uint32        `koanf:"max_requests"`
	Interval         time.Duration `koanf:"interval"`
	Timeout          time.Duration `koanf:"timeout"`
}

// AdvisorConfig tunes advisor prompts.
type AdvisorConfig struct {
	Market       string `koanf:"market"`
	Currency     string `koanf:"currency"`
	HistoryLimit int    `koanf:"history_limit"`
}

// DatabaseConfig configures the optional Postgres catalog source.
type DatabaseConfig struct {
	URL string `koanf:"url"`
}

// CacheConfig configures response and catalog caching. Redis is used when RedisURL is set.
type CacheConfig struct {
	RedisURL    string        `koanf:"redis_url"`
	Prefix      string        `koanf:"prefix"`
	MaxEntries  int           `koanf:"max_entries"`
	CatalogTTL  time.Duration `koanf:"catalog_ttl"`
	JanitorTick time.Duration `koanf:"janitor_tick"`
}

// RankingConfig sets defaults for POST /api/recommendations.
type RankingConfig struct {
	DefaultMode  string `koanf:"default_mode"`
	DefaultLimit int    `koanf:"default_limit"`
	MaxLimit     int    `koanf:"max_limit"`
}

// RateLimitConfig configures per-client request limits. AILimit applies per minute
// to each /api/ai/* endpoint.
type RateLimitConfig struct {
	Enabled         bool          `koanf:"enabled"`
	DefaultLimit    int           `koanf:"default_limit"`
	DefaultWindow   time.Duration `koanf:"default_window"`
	AILimit         int           `koanf:"ai_limit"`
	CleanupInterval time.Duration `koanf:"cleanup_interval"`
	Whitelist       []string      `koanf:"whitelist"`
	Blacklist       []string      `koanf:"blacklist"`
}

// AIEnabled reports whether an LLM is configured.
func (c *Config) AIEnabled() bool {
	return c.LLM.APIKey != ""
}

// LLMClientConfig converts the llm section into an llm.Config. Empty model names keep the provider defaults.
func (c *Config) LLMClientConfig() *llm.Config {
	out := llm.DefaultConfig()
	out.Provider = llm.Provider(c.LLM.Provider)
	for tier, model := range map[llm.ModelTier]string{
		llm.TierLite:     c.LLM.ModelLite,
		llm.TierStandard: c.LLM.ModelStandard,
		llm.TierAdvanced: c.LLM.ModelAdvanced,
	} {
		if model != "" {
			out = out.WithModel(tier, model)
		}
	}
	out.Temperature = float32(c.LLM.Temperature)
	out.JSONTemperature = float32(c.LLM.JSONTemperature)
	out.MaxOutputTokens = int32(c.LLM.MaxOutputTokens)
	out.Timeout = c.LLM.Timeout
	return out
}

// RateLimiterConfig converts the ratelimit section into a limiter configuration.
func (c *Config) RateLimiterConfig() *ratelimit.Config {
	if !c.RateLimit.Enabled {
		return &ratelimit.Config{Enabled: false}
	}
	return &ratelimit.Config{
		Enabled:         true,
		DefaultLimit:    c.RateLimit.DefaultLimit,
		DefaultWindow:   c.RateLimit.DefaultWindow,
		CleanupInterval: c.RateLimit.CleanupInterval,
		Whitelist:       ratelimit.IPSet(c.RateLimit.Whitelist),
		Blacklist:       ratelimit.IPSet(c.RateLimit.Blacklist),
		EndpointConfigs: ratelimit.DefaultEndpointConfigs(c.RateLimit.AILimit),
	}
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			CORSOrigins:     []string{"*"},
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		LLM: LLMConfig{
			Provider:        "gemini",
			ModelLite:       "gemini-2.5-flash-lite",
			ModelStandard:   "gemini-2.5-flash",
			ModelAdvanced:   "gemini-2.5-pro",
			Temperature:     0.7,
			JSONTemperature: 0.1,
			MaxOutputTokens: 800,
			Timeout:         30 * time.Second,
			CacheTTL:        10 * time.Minute,
		},
		Breaker: BreakerConfig{
			FailureThreshold: 5,
			MaxRequests:      1,
			Interval:         time.Minute,
			Timeout:          30 * time.Second,
		},
		Advisor: AdvisorConfig{
			Market:       "India",
			Currency:     "Indian Rupees (₹)",
			HistoryLimit: 10,
		},
		Cache: CacheConfig{
			Prefix:      "car-advisor:",
			MaxEntries:  10000,
			CatalogTTL:  5 * time.Minute,
			JanitorTick: time.Minute,
		},
		Ranking: RankingConfig{
			DefaultMode:  "simple",
			DefaultLimit: 10,
			MaxLimit:     50,
		},
		RateLimit: RateLimitConfig{
			Enabled:         true,
			DefaultLimit:    ratelimit.DefaultLimit,
			DefaultWindow:   ratelimit.DefaultWindow,
			AILimit:         ratelimit.DefaultAILimit,
			CleanupInterval: ratelimit.DefaultCleanupInterval,
		},
	}
}

// Default returns the built-in configuration.
func Default() *Config {
	return defaultConfig()
}

// Load builds the configuration from defaults, the config file and the environment.
// An explicit path must exist; otherwise the default locations are optional.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path == "" {
		path = findConfigFile()
	} else if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	for _, path := range []string{"server.cors_origins", "ratelimit.whitelist", "ratelimit.blacklist"} {
		if err := splitCommaList(k, path); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// conventional environment variables shared with other tooling
var envAliases = map[string]string{
	"GEMINI_API_KEY": "llm.api_key",
	"DATABASE_URL":   "database.url",
	"REDIS_URL":      "cache.redis_url",
	"PORT":           "server.port",
	"LOG_LEVEL":      "logging.level",

	"RATE_LIMIT_ENABLED":          "ratelimit.enabled",
	"RATE_LIMIT_DEFAULT_LIMIT":    "ratelimit.default_limit",
	"RATE_LIMIT_DEFAULT_WINDOW":   "ratelimit.default_window",
	"RATE_LIMIT_AI_LIMIT":         "ratelimit.ai_limit",
	"RATE_LIMIT_CLEANUP_INTERVAL": "ratelimit.cleanup_interval",
	"RATE_LIMIT_WHITELIST":        "ratelimit.whitelist",
	"RATE_LIMIT_BLACKLIST":        "ratelimit.blacklist",
}

// envTransformFunc maps an environment variable to a koanf path, or "" to ignore it.
//
//	CAR_ADVISOR_SERVER_PORT        -> server.port
//	CAR_ADVISOR_LLM_CACHE_TTL      -> llm.cache_ttl
//	GEMINI_API_KEY                 -> llm.api_key
func envTransformFunc(key string) string {
	if alias, ok := envAliases[key]; ok {
		return alias
	}
	if !strings.HasPrefix(key, EnvPrefix) {
		return ""
	}

	rest := strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	section, field, ok := strings.Cut(rest, "_")
	if !ok || section == "" || field == "" {
		return ""
	}
	return section + "." + field
}

// splitCommaList turns a comma-separated env string into a trimmed list.
func splitCommaList(k *koanf.Koanf, path string) error {
	s, ok := k.Get(path).(string)
	if !ok {
		return nil
	}

	var items []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	if err := k.Set(path, items); err != nil {
		return fmt.Errorf("failed to set %s: %w", path, err)
	}
	return nil
}
