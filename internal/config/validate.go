package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Server.ShutdownTimeout < 0 {
		errs = append(errs, errors.New("server.shutdown_timeout must not be negative"))
	}

	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format))
	}

	if c.LLM.Provider != "gemini" {
		errs = append(errs, fmt.Errorf("llm.provider %q is not supported", c.LLM.Provider))
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 || c.LLM.JSONTemperature < 0 || c.LLM.JSONTemperature > 2 {
		errs = append(errs, errors.New("llm temperatures must be between 0 and 2"))
	}
	if c.LLM.Timeout < 0 || c.LLM.CacheTTL < 0 {
		errs = append(errs, errors.New("llm.timeout and llm.cache_ttl must not be negative"))
	}

	if c.Breaker.FailureThreshold == 0 {
		errs = append(errs, errors.New("breaker.failure_threshold must be greater than zero"))
	}

	if c.Advisor.HistoryLimit < 1 {
		errs = append(errs, errors.New("advisor.history_limit must be at least 1"))
	}

	if c.Cache.MaxEntries < 1 {
		errs = append(errs, errors.New("cache.max_entries must be at least 1"))
	}

	switch c.Ranking.DefaultMode {
	case "simple", "ensemble":
	default:
		errs = append(errs, fmt.Errorf("ranking.default_mode must be simple or ensemble, got %q", c.Ranking.DefaultMode))
	}
	if c.Ranking.DefaultLimit < 1 || c.Ranking.MaxLimit < c.Ranking.DefaultLimit {
		errs = append(errs, errors.New("ranking limits must satisfy 1 <= default_limit <= max_limit"))
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.DefaultLimit < 0 || c.RateLimit.AILimit < 0 {
			errs = append(errs, errors.New("ratelimit limits must not be negative"))
		}
		if c.RateLimit.DefaultWindow <= 0 {
			errs = append(errs, errors.New("ratelimit.default_window must be positive"))
		}
	}

	return errors.Join(errs...)
}
