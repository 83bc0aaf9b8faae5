package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/jonathan/car-advisor/internal/logging"
	"github.com/jonathan/car-advisor/internal/metrics"
)

// ErrCircuitOpen is returned without calling the provider while the breaker is open.
var ErrCircuitOpen = errors.New("llm circuit breaker open")

// BreakerConfig configures the circuit breaker around an LLM client.
type BreakerConfig struct {
	// Name identifies the breaker in logs and metrics.
	Name string
	// MaxRequests is the number of trial calls allowed while half-open.
	MaxRequests uint32
	// Interval is the cyclic reset period for counts while closed. Zero never resets.
	Interval time.Duration
	// Timeout is how long the breaker stays open before going half-open.
	Timeout time.Duration
	// FailureThreshold is the number of consecutive failures that opens the breaker.
	FailureThreshold uint32
}

// DefaultBreakerConfig returns production defaults.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:             "llm",
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// BreakerClient wraps a Client so that a failing provider is short-circuited
// instead of holding every request for the full call timeout.
type BreakerClient struct {
	next Client
	cb   *gobreaker.CircuitBreaker[string]
	name string
}

// NewBreakerClient wraps next with a circuit breaker.
func NewBreakerClient(next Client, cfg BreakerConfig) *BreakerClient {
	if cfg.Name == "" {
		cfg.Name = "llm"
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = DefaultBreakerConfig().FailureThreshold
	}

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		// A caller giving up is not a provider failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("LLM circuit breaker state changed")
		},
	}

	metrics.CircuitBreakerState.WithLabelValues(cfg.Name).Set(0)

	return &BreakerClient{
		next: next,
		cb:   gobreaker.NewCircuitBreaker[string](settings),
		name: cfg.Name,
	}
}

// GenerateContent calls the wrapped client unless the breaker is open.
func (b *BreakerClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return b.execute("generate_content", func() (string, error) {
		return b.next.GenerateContent(ctx, prompt, tier)
	})
}

// GenerateJSON calls the wrapped client unless the breaker is open.
func (b *BreakerClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return b.execute("generate_json", func() (string, error) {
		return b.next.GenerateJSON(ctx, prompt, tier)
	})
}

// GetModel returns the wrapped client's model for a tier.
func (b *BreakerClient) GetModel(tier ModelTier) string {
	return b.next.GetModel(tier)
}

// Close closes the wrapped client.
func (b *BreakerClient) Close() error {
	return b.next.Close()
}

// State reports the current breaker state.
func (b *BreakerClient) State() gobreaker.State {
	return b.cb.State()
}

func (b *BreakerClient) execute(operation string, fn func() (string, error)) (string, error) {
	start := time.Now()
	out, err := b.cb.Execute(fn)
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.ObserveLLM(operation, "rejected", 0)
		return "", fmt.Errorf("%s: %w", b.name, ErrCircuitOpen)
	case err != nil:
		metrics.ObserveLLM(operation, "failure", time.Since(start))
		return "", err
	}
	metrics.ObserveLLM(operation, "success", time.Since(start))
	return out, nil
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
