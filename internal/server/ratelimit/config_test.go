package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 600, cfg.DefaultLimit)
	assert.Equal(t, time.Minute, cfg.DefaultWindow)
	assert.Equal(t, 5*time.Minute, cfg.CleanupInterval)
	assert.Empty(t, cfg.Whitelist)

	chat := MatchEndpoint("/api/ai/chat", "POST", cfg.EndpointConfigs)
	require.NotNil(t, chat)
	assert.Equal(t, 20, chat.Limit)
	assert.Equal(t, 5, chat.Burst)
}

func TestDefaultEndpointConfigs_BurstFloor(t *testing.T) {
	compare := MatchEndpoint("/api/ai/compare", "POST", DefaultEndpointConfigs(2))
	require.NotNil(t, compare)
	assert.Equal(t, 2, compare.Limit)
	assert.Equal(t, 1, compare.Burst, "burst never drops below one")
}

func TestIPSet(t *testing.T) {
	assert.Equal(t, map[string]bool{"10.0.0.1": true, "10.0.0.2": true}, IPSet([]string{"10.0.0.1", " 10.0.0.2", ""}))
	assert.Empty(t, IPSet(nil))
}

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultEndpointConfigs(20)

	tests := []struct {
		name     string
		path     string
		method   string
		wantPath string
		wantNil  bool
	}{
		{name: "exact", path: "/api/ai/chat", method: "POST", wantPath: "/api/ai/chat"},
		{name: "recommendations", path: "/api/recommendations", method: "POST", wantPath: "/api/recommendations"},
		{name: "cars prefix", path: "/api/cars/maruti-swift", method: "GET", wantPath: "/api/cars/"},
		{name: "cars collection", path: "/api/cars", method: "GET", wantPath: "/api/cars/"},
		{name: "health", path: "/health", method: "GET", wantPath: "/health"},
		{name: "wrong method", path: "/api/ai/chat", method: "GET", wantNil: true},
		{name: "unknown", path: "/api/unknown", method: "GET", wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantPath, got.Path)
		})
	}

	health := MatchEndpoint("/health", "GET", configs)
	assert.Zero(t, health.Limit, "health is unlimited")
}
