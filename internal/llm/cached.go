package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/jonathan/car-advisor/internal/cache"
	"github.com/jonathan/car-advisor/internal/metrics"
)

// DefaultResponseTTL is how long identical prompts reuse a response.
const DefaultResponseTTL = 10 * time.Minute

// CachedClient memoizes responses of the wrapped client by tier, model and prompt.
// Failed calls are not cached.
type CachedClient struct {
	next  Client
	cache cache.Cache
	ttl   time.Duration
}

// NewCachedClient wraps next with a response cache. A non-positive ttl uses DefaultResponseTTL.
func NewCachedClient(next Client, c cache.Cache, ttl time.Duration) *CachedClient {
	if ttl <= 0 {
		ttl = DefaultResponseTTL
	}
	return &CachedClient{next: next, cache: c, ttl: ttl}
}

// GenerateContent returns a cached reply for an identical prompt, or asks the wrapped client.
func (c *CachedClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return c.lookup(ctx, "content", prompt, tier, c.next.GenerateContent)
}

// GenerateJSON returns a cached payload for an identical prompt, or asks the wrapped client.
func (c *CachedClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return c.lookup(ctx, "json", prompt, tier, c.next.GenerateJSON)
}

// GetModel returns the wrapped client's model for a tier.
func (c *CachedClient) GetModel(tier ModelTier) string {
	return c.next.GetModel(tier)
}

// Close closes the wrapped client. The cache belongs to the caller.
func (c *CachedClient) Close() error {
	return c.next.Close()
}

type generateFunc func(ctx context.Context, prompt string, tier ModelTier) (string, error)

func (c *CachedClient) lookup(ctx context.Context, kind, prompt string, tier ModelTier, generate generateFunc) (string, error) {
	key := promptKey(kind, c.next.GetModel(tier), prompt)

	out, outcome, err := cache.Lookup(ctx, c.cache, key, c.ttl, func(ctx context.Context) (string, error) {
		return generate(ctx, prompt, tier)
	})
	if err != nil {
		return "", err
	}

	metrics.CacheLookups.WithLabelValues("llm", outcome.String()).Inc()
	if outcome == cache.Hit {
		metrics.ObserveLLM("generate_"+kind, "cached", 0)
	}
	return out, nil
}

func promptKey(kind, model, prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return cache.Key("llm", kind, model, hex.EncodeToString(sum[:]))
}
