// Package server provides the HTTP REST API for the car advisor.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonathan/car-advisor/internal/catalog"
	"github.com/jonathan/car-advisor/internal/logging"
	"github.com/jonathan/car-advisor/internal/metrics"
	"github.com/jonathan/car-advisor/internal/ranking"
	"github.com/jonathan/car-advisor/internal/server/ratelimit"
	"github.com/jonathan/car-advisor/internal/types"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Advisor answers the AI endpoints. *advisor.Service implements it.
type Advisor interface {
	Chat(ctx context.Context, req *types.ChatRequest) (*types.ChatResponse, error)
	Compare(ctx context.Context, req *types.CompareRequest) (*types.ComparisonResponse, error)
	Questionnaire(ctx context.Context, req *types.QuestionnaireRequest) (*types.QuestionnaireResponse, error)
	Recommend(ctx context.Context, req *types.AdvisorRecommendationRequest) (*types.AdvisorRecommendationResponse, error)
}

// Config holds server configuration
type Config struct {
	Port            int
	CORSOrigins     []string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// Defaults for POST /api/recommendations.
	DefaultMode  string
	DefaultLimit int
	MaxLimit     int

	// RateLimit configures the limiter. Nil uses ratelimit.DefaultConfig.
	RateLimit *ratelimit.Config
}

// Deps are the services the handlers call. Advisor may be nil, which disables the AI endpoints.
type Deps struct {
	Cars    catalog.Provider
	Advisor Advisor
}

// Server represents the HTTP server
type Server struct {
	cfg         Config
	cars        catalog.Provider
	advisor     Advisor
	rateLimiter *ratelimit.Limiter
	router      chi.Router
	httpServer  *http.Server
}

// New creates a new server instance
func New(cfg Config, deps Deps) (*Server, error) {
	if deps.Cars == nil {
		return nil, errors.New("server: car provider is required")
	}
	if cfg.DefaultMode == "" {
		cfg.DefaultMode = ranking.ModeSimple
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 10
	}
	if cfg.MaxLimit < cfg.DefaultLimit {
		cfg.MaxLimit = max(50, cfg.DefaultLimit)
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}

	rl := cfg.RateLimit
	if rl == nil {
		rl = ratelimit.DefaultConfig()
	}

	s := &Server{
		cfg:         cfg,
		cars:        deps.Cars,
		advisor:     deps.Advisor,
		rateLimiter: ratelimit.NewLimiter(rl),
	}
	s.router = s.routes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.withLogging)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		MaxAge:         300,
	}))
	r.Use(s.withRateLimit)

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/cars", s.handleListCars)
		r.Get("/cars/{id}", s.handleGetCar)
		r.Post("/recommendations", s.handleRecommendations)

		r.Route("/ai", func(r chi.Router) {
			r.Use(s.requireAdvisor)
			r.Post("/chat", s.handleChat)
			r.Post("/compare", s.handleCompare)
			r.Post("/questionnaire", s.handleQuestionnaire)
			r.Post("/recommendations", s.handleAdvisorRecommendations)
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		s.errorResponse(w, http.StatusNotFound, "not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		s.errorResponse(w, http.StatusMethodNotAllowed, "method not allowed", nil)
	})

	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start serves until ctx is cancelled, then drains in-flight requests for up to ShutdownTimeout.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", s.httpServer.Addr).Msg("server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.rateLimiter.Stop()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logging.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	err := s.httpServer.Shutdown(shutdownCtx)
	s.rateLimiter.Stop()
	if err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	logging.Info().Msg("server stopped")
	return nil
}

// Close releases background resources without serving.
func (s *Server) Close() {
	s.rateLimiter.Stop()
}

// withRateLimit rejects clients that exceeded their token bucket
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging logs every request and records HTTP metrics
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := logging.WithRequestID(r.Context(), middleware.GetReqID(r.Context()))
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r.WithContext(ctx))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := routePattern(r)
		elapsed := time.Since(start)
		metrics.ObserveHTTP(r.Method, route, status, elapsed)

		event := logging.Ctx(ctx).Info()
		if status >= http.StatusInternalServerError {
			event = logging.Ctx(ctx).Warn()
		}
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("route", route).
			Int("status", status).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", elapsed).
			Str("remote", r.RemoteAddr).
			Msg("request")
	})
}

// routePattern returns the matched chi pattern so metrics are not labelled per car id.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}

// requireAdvisor answers 503 when no LLM is configured
func (s *Server) requireAdvisor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.advisor == nil {
			s.writeError(w, r, &ErrAIUnavailable{})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// decodeJSON reads a size-limited JSON body into v
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &ErrBadRequest{Message: "invalid request body", Err: err}
	}
	return nil
}

// extractClientID identifies the client by IP. RealIP has already applied X-Forwarded-For / X-Real-IP.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}

	if info.RetryAfter > 0 {
		// Round up so clients never retry early
		seconds := int((info.RetryAfter + time.Second - 1) / time.Second)
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	endpoint := info.Endpoint
	if endpoint == "" {
		endpoint = "default"
	}
	metrics.RateLimited.WithLabelValues(endpoint).Inc()
	logging.Ctx(r.Context()).Warn().
		Str("client", s.extractClientID(r)).
		Str("endpoint", endpoint).
		Int("limit", info.Limit).
		Msg("rate limit exceeded")

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
