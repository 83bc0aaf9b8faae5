package advisor

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/car-advisor/internal/llm"
	"github.com/jonathan/car-advisor/internal/llm/llmtest"
	"github.com/jonathan/car-advisor/internal/types"
	"github.com/jonathan/car-advisor/internal/validation"
)

var fixedNow = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

func newTestService(t *testing.T, fake *llmtest.Fake) *Service {
	t.Helper()
	s, err := New(fake, Config{},
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string { return "req-1" }),
	)
	require.NoError(t, err)
	return s
}

func TestNew_RequiresClient(t *testing.T) {
	_, err := New(nil, Config{})
	assert.Error(t, err)
}

func TestNew_FillsDefaults(t *testing.T) {
	s, err := New(&llmtest.Fake{}, Config{Market: "US"})
	require.NoError(t, err)

	assert.Equal(t, "US", s.cfg.Market)
	assert.Equal(t, DefaultConfig().Currency, s.cfg.Currency)
	assert.Equal(t, DefaultHistoryLimit, s.cfg.HistoryLimit)
}

func TestService_Close(t *testing.T) {
	fake := &llmtest.Fake{}
	s := newTestService(t, fake)

	require.NoError(t, s.Close())
	assert.True(t, fake.Closed())
}

func TestChat_Reply(t *testing.T) {
	fake := &llmtest.Fake{Reply: "  I would recommend the Honda City for its high seating.  "}
	s := newTestService(t, fake)

	resp, err := s.Chat(context.Background(), &types.ChatRequest{Message: "Which sedan is easy to get into?"})
	require.NoError(t, err)

	assert.Equal(t, "I would recommend the Honda City for its high seating.", resp.Message)
	assert.True(t, resp.ContainsRecommendations)
	assert.False(t, resp.Error)
	assert.Equal(t, "2026-03-01T09:30:00Z", resp.Timestamp)
	assert.Equal(t, "req-1", resp.RequestID)

	calls := fake.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "GenerateContent", calls[0].Method)
	assert.Equal(t, llm.TierStandard, calls[0].Tier)
	assert.Contains(t, calls[0].Prompt, "user: Which sedan is easy to get into?")
	assert.Contains(t, calls[0].Prompt, "India")
}

func TestChat_TruncatesHistory(t *testing.T) {
	fake := &llmtest.Fake{Reply: "Sure."}
	s := newTestService(t, fake)

	history := make([]types.ChatMessage, 14)
	for i := range history {
		role := "user"
		if i%2 == 1 {
			role = "assistant"
		}
		history[i] = types.ChatMessage{Role: role, Content: fmt.Sprintf("turn-%02d", i)}
	}

	_, err := s.Chat(context.Background(), &types.ChatRequest{Message: "next", ConversationHistory: history})
	require.NoError(t, err)

	prompt := fake.LastPrompt()
	for i := 0; i < 4; i++ {
		assert.NotContains(t, prompt, fmt.Sprintf("turn-%02d", i))
	}
	for i := 4; i < 14; i++ {
		assert.Contains(t, prompt, fmt.Sprintf("turn-%02d", i))
	}
}

func TestChat_IncludesContext(t *testing.T) {
	fake := &llmtest.Fake{Reply: "Okay."}
	s := newTestService(t, fake)

	_, err := s.Chat(context.Background(), &types.ChatRequest{
		Message: "Thoughts?",
		Context: &types.ChatContext{
			UserPreferences: map[string]any{"budget": 800000},
			CurrentCars:     []map[string]any{{"model": "Creta"}},
		},
	})
	require.NoError(t, err)

	prompt := fake.LastPrompt()
	assert.Contains(t, prompt, `USER CONTEXT: {"budget":800000}`)
	assert.Contains(t, prompt, `CARS BEING CONSIDERED: [{"model":"Creta"}]`)
}

func TestChat_FallbackOnFailure(t *testing.T) {
	tests := []struct {
		name string
		fake *llmtest.Fake
	}{
		{"llm error", &llmtest.Fake{Err: errors.New("quota")}},
		{"empty reply", &llmtest.Fake{Reply: "   "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestService(t, tt.fake)

			resp, err := s.Chat(context.Background(), &types.ChatRequest{Message: "hello"})
			require.NoError(t, err)
			assert.True(t, resp.Error)
			assert.Equal(t, chatFallbackMessage, resp.Message)
			assert.False(t, resp.ContainsRecommendations)
			assert.NotEmpty(t, resp.Timestamp)
		})
	}
}

func TestChat_Validation(t *testing.T) {
	s := newTestService(t, &llmtest.Fake{})

	tests := []struct {
		name  string
		req   *types.ChatRequest
		field string
	}{
		{"nil request", nil, "message"},
		{"empty message", &types.ChatRequest{}, "message"},
		{"bad role", &types.ChatRequest{
			Message:             "hi",
			ConversationHistory: []types.ChatMessage{{Role: "system", Content: "x"}},
		}, "conversationHistory[0].role"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Chat(context.Background(), tt.req)
			var verr *validation.Error
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Fields[0].Field)
		})
	}
}

func TestContainsRecommendations(t *testing.T) {
	tests := map[string]bool{
		"I suggest the Swift":               true,
		"You could CONSIDER a hybrid":       true,
		"Take a look at the Nexon":          true,
		"The best family car is the Innova": true,
		"Hello, how can I help?":            false,
		"Prices start at 6 lakh.":           false,
	}
	for reply, want := range tests {
		assert.Equal(t, want, ContainsRecommendations(reply), reply)
	}
}

func TestRecentHistory(t *testing.T) {
	history := []types.ChatMessage{{Content: "a"}, {Content: "b"}, {Content: "c"}}

	assert.Len(t, recentHistory(history, 10), 3)
	got := recentHistory(history, 2)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].Content)
}
