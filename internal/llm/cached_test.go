package llm_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/car-advisor/internal/cache"
	"github.com/jonathan/car-advisor/internal/llm"
	"github.com/jonathan/car-advisor/internal/llm/llmtest"
	"github.com/jonathan/car-advisor/internal/metrics"
)

func TestCachedClient_ReusesIdenticalPrompt(t *testing.T) {
	mem := cache.NewMemory(100)
	t.Cleanup(func() { _ = mem.Close() })

	fake := &llmtest.Fake{Reply: `{"ok":true}`}
	client := llm.NewCachedClient(fake, mem, time.Minute)

	for i := 0; i < 3; i++ {
		out, err := client.GenerateJSON(context.Background(), "compare civic and corolla", llm.TierStandard)
		require.NoError(t, err)
		assert.Equal(t, `{"ok":true}`, out)
	}
	assert.Len(t, fake.Calls(), 1)
}

func TestCachedClient_SeparatesPromptsAndKinds(t *testing.T) {
	mem := cache.NewMemory(100)
	t.Cleanup(func() { _ = mem.Close() })

	fake := &llmtest.Fake{Respond: func(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
		return "reply to " + prompt, nil
	}}
	client := llm.NewCachedClient(fake, mem, time.Minute)
	ctx := context.Background()

	a, err := client.GenerateContent(ctx, "a", llm.TierLite)
	require.NoError(t, err)
	b, err := client.GenerateContent(ctx, "b", llm.TierLite)
	require.NoError(t, err)
	_, err = client.GenerateJSON(ctx, "a", llm.TierLite)
	require.NoError(t, err)

	assert.Equal(t, "reply to a", a)
	assert.Equal(t, "reply to b", b)
	assert.Len(t, fake.Calls(), 3)
}

func TestCachedClient_DoesNotCacheErrors(t *testing.T) {
	mem := cache.NewMemory(100)
	t.Cleanup(func() { _ = mem.Close() })

	upstream := errors.New("unavailable")
	fake := &llmtest.Fake{Err: upstream}
	client := llm.NewCachedClient(fake, mem, time.Minute)

	_, err := client.GenerateContent(context.Background(), "p", llm.TierLite)
	require.ErrorIs(t, err, upstream)
	_, err = client.GenerateContent(context.Background(), "p", llm.TierLite)
	require.ErrorIs(t, err, upstream)

	assert.Len(t, fake.Calls(), 2)
	assert.Zero(t, mem.Len())
}

func TestCachedClient_CountsLookups(t *testing.T) {
	mem := cache.NewMemory(100)
	t.Cleanup(func() { _ = mem.Close() })

	hits := metrics.CacheLookups.WithLabelValues("llm", "hit")
	misses := metrics.CacheLookups.WithLabelValues("llm", "miss")
	hitsBefore, missesBefore := testutil.ToFloat64(hits), testutil.ToFloat64(misses)

	client := llm.NewCachedClient(&llmtest.Fake{Reply: "ok"}, mem, time.Minute)
	for i := 0; i < 3; i++ {
		_, err := client.GenerateContent(context.Background(), "count me", llm.TierLite)
		require.NoError(t, err)
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(misses)-missesBefore)
	assert.Equal(t, 2.0, testutil.ToFloat64(hits)-hitsBefore)
}
