// Package advisor answers free-form car-buying questions through an LLM:
// chat, side-by-side comparison, adaptive questionnaires and advisor picks.
//
// Structured replies are validated against the JSON Schemas in schemas/
// before they are decoded. When the model misbehaves the service degrades
// to canned content instead of failing the request, except where the caller
// has nothing useful to show without the model (ErrUpstream).
package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/jonathan/car-advisor/internal/llm"
	"github.com/jonathan/car-advisor/internal/logging"
	"github.com/jonathan/car-advisor/internal/metrics"
	"github.com/jonathan/car-advisor/internal/prompts"
	"github.com/jonathan/car-advisor/internal/schemas"
	"github.com/jonathan/car-advisor/internal/validation"
	schemafiles "github.com/jonathan/car-advisor/schemas"
)

const promptFile = "advisor.json"

// DefaultHistoryLimit is how many prior chat messages are sent to the model.
const DefaultHistoryLimit = 10

// ErrUpstream is returned when the LLM could not be reached and no fallback applies.
var ErrUpstream = errors.New("AI service unavailable")

// Config tunes the advisor prompts.
type Config struct {
	// Market is the car market the advisor speaks about ("India").
	Market string
	// Currency is how prices should be expressed ("INR (₹)").
	Currency string
	// HistoryLimit caps the chat history forwarded to the model.
	HistoryLimit int
}

// DefaultConfig returns the advisor defaults.
func DefaultConfig() Config {
	return Config{
		Market:       "India",
		Currency:     "Indian Rupees (₹)",
		HistoryLimit: DefaultHistoryLimit,
	}
}

// Option customizes a Service.
type Option func(*Service)

// WithClock overrides the time source used for response timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator overrides how request IDs are generated.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// Service is the LLM-backed advisor. It is safe for concurrent use.
type Service struct {
	client  llm.Client
	schemas *schemas.Registry
	cfg     Config
	now     func() time.Time
	newID   func() string
}

// New creates a Service on top of client.
func New(client llm.Client, cfg Config, opts ...Option) (*Service, error) {
	if client == nil {
		return nil, errors.New("advisor: llm client is required")
	}

	registry, err := schemas.NewRegistry(schemafiles.FS)
	if err != nil {
		return nil, fmt.Errorf("advisor: failed to load response schemas: %w", err)
	}

	defaults := DefaultConfig()
	if cfg.Market == "" {
		cfg.Market = defaults.Market
	}
	if cfg.Currency == "" {
		cfg.Currency = defaults.Currency
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = defaults.HistoryLimit
	}

	s := &Service{
		client:  client,
		schemas: registry,
		cfg:     cfg,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close releases the underlying LLM client.
func (s *Service) Close() error {
	return s.client.Close()
}

func (s *Service) render(key string, data map[string]string) (string, error) {
	if data == nil {
		data = map[string]string{}
	}
	data["Market"] = s.cfg.Market
	data["Currency"] = s.cfg.Currency
	return prompts.Render(promptFile, key, data)
}

func (s *Service) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

// decode validates raw against the named schema and unmarshals it into out.
func (s *Service) decode(schema, raw string, out any) error {
	if strings.TrimSpace(raw) == "" {
		return errors.New("empty response")
	}
	if err := s.schemas.Validate(schema, raw); err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", schema, err)
	}
	return nil
}

func upstream(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrUpstream, err)
}

func fellBack(ctx context.Context, op, reason string, err error) {
	metrics.AdvisorFallbacks.WithLabelValues(op, reason).Inc()
	logging.Ctx(ctx).Warn().
		Err(err).
		Str("operation", op).
		Str("reason", reason).
		Msg("AI response replaced by fallback")
}

func checkBudget(verr *validation.Error, field string, min, max float64) {
	if max < min {
		verr.Add(field+".max", "gtefield", "must be greater than or equal to "+field+".min")
	}
}

// validate runs tag validation plus cross-field checks collected in extra.
func validate(req any, extra func(*validation.Error)) error {
	verr := &validation.Error{}
	if err := validation.Struct(req); err != nil {
		if !errors.As(err, &verr) {
			return err
		}
	}
	if extra != nil {
		extra(verr)
	}
	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

func toJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}

func joinOr(values []string, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	return strings.Join(values, ", ")
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
