// Package llmtest provides an in-memory llm.Client for tests.
package llmtest

import (
	"context"
	"sync"

	"github.com/jonathan/car-advisor/internal/llm"
)

// Call records one request made to the fake.
type Call struct {
	Method string
	Prompt string
	Tier   llm.ModelTier
}

// Fake is a scripted llm.Client. Respond decides every reply; when nil the
// fake returns Reply and Err.
type Fake struct {
	Reply   string
	Err     error
	Respond func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error)

	mu     sync.Mutex
	calls  []Call
	closed bool
}

var _ llm.Client = (*Fake)(nil)

// GenerateContent records the call and returns the scripted reply.
func (f *Fake) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return f.record(ctx, "GenerateContent", prompt, tier)
}

// GenerateJSON records the call and returns the scripted reply.
func (f *Fake) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return f.record(ctx, "GenerateJSON", prompt, tier)
}

// GetModel returns "fake-<tier>".
func (f *Fake) GetModel(tier llm.ModelTier) string {
	return "fake-" + string(tier)
}

// Close marks the fake closed.
func (f *Fake) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}

// Calls returns a copy of the recorded calls.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// LastPrompt returns the most recent prompt, or "".
func (f *Fake) LastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return ""
	}
	return f.calls[len(f.calls)-1].Prompt
}

// Closed reports whether Close was called.
func (f *Fake) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *Fake) record(ctx context.Context, method, prompt string, tier llm.ModelTier) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, Call{Method: method, Prompt: prompt, Tier: tier})
	respond := f.Respond
	reply, err := f.Reply, f.Err
	f.mu.Unlock()

	if respond != nil {
		return respond(ctx, prompt, tier)
	}
	return reply, err
}
