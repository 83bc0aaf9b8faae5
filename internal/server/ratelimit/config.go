package ratelimit

import (
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path; a trailing "/" matches by prefix
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window; 0 means unlimited
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

func (e *EndpointConfig) capacity() int {
	if e.Burst > 0 {
		return e.Burst
	}
	return e.Limit
}

func (e *EndpointConfig) refillRate() float64 {
	if e.Window <= 0 {
		return float64(e.Limit)
	}
	return float64(e.Limit) / e.Window.Seconds()
}

// Defaults used by DefaultConfig.
const (
	DefaultLimit           = 600
	DefaultWindow          = time.Minute
	DefaultAILimit         = 20
	DefaultCleanupInterval = 5 * time.Minute
)

// DefaultConfig returns the production limits: 600 requests per minute per client,
// DefaultAILimit per minute on each LLM-backed endpoint.
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    DefaultLimit,
		DefaultWindow:   DefaultWindow,
		CleanupInterval: DefaultCleanupInterval,
		EndpointConfigs: DefaultEndpointConfigs(DefaultAILimit),
	}
}

// DefaultEndpointConfigs returns the endpoint-specific limits. aiLimit applies
// per minute to each LLM-backed endpoint.
func DefaultEndpointConfigs(aiLimit int) []EndpointConfig {
	aiBurst := max(1, aiLimit/4)
	return []EndpointConfig{
		// LLM-backed endpoints are the expensive ones
		{Path: "/api/ai/chat", Method: "POST", Limit: aiLimit, Window: time.Minute, Burst: aiBurst},
		{Path: "/api/ai/compare", Method: "POST", Limit: aiLimit, Window: time.Minute, Burst: aiBurst},
		{Path: "/api/ai/questionnaire", Method: "POST", Limit: aiLimit, Window: time.Minute, Burst: aiBurst},
		{Path: "/api/ai/recommendations", Method: "POST", Limit: aiLimit, Window: time.Minute, Burst: aiBurst},

		// Ranking is CPU only
		{Path: "/api/recommendations", Method: "POST", Limit: 120, Window: time.Minute, Burst: 30},

		// Catalog reads share one bucket per client
		{Path: "/api/cars/", Method: "GET", Limit: 300, Window: time.Minute, Burst: 60},
	}
}

// IPSet turns a list of client IPs into a set, skipping blanks.
func IPSet(ips []string) map[string]bool {
	result := make(map[string]bool, len(ips))
	for _, ip := range ips {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
