package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonathan/car-advisor/internal/advisor"
	"github.com/jonathan/car-advisor/internal/cache"
	"github.com/jonathan/car-advisor/internal/catalog"
	"github.com/jonathan/car-advisor/internal/config"
	"github.com/jonathan/car-advisor/internal/db"
	"github.com/jonathan/car-advisor/internal/llm"
	"github.com/jonathan/car-advisor/internal/logging"
)

// app holds the services built from configuration. Close releases them in reverse order.
type app struct {
	cfg     *config.Config
	cache   cache.Cache
	cars    catalog.Provider
	advisor *advisor.Service

	closers []func()
}

// loadConfig reads configuration and initializes logging.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	return cfg, nil
}

// newApp wires the cache, car catalog and, when withAI is set and an API key is configured, the advisor.
func newApp(ctx context.Context, withAI bool) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg}
	if err := a.init(ctx, withAI); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) init(ctx context.Context, withAI bool) error {
	if err := a.initCache(ctx); err != nil {
		return err
	}
	if err := a.initCatalog(ctx); err != nil {
		return err
	}
	if withAI {
		return a.initAdvisor(ctx)
	}
	return nil
}

func (a *app) initCache(ctx context.Context) error {
	if a.cfg.Cache.RedisURL != "" {
		r, err := cache.NewRedis(ctx, cache.RedisConfig{URL: a.cfg.Cache.RedisURL, Prefix: a.cfg.Cache.Prefix})
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.cache = r
		a.onClose(func() { _ = r.Close() })
		logging.Info().Msg("using redis cache")
		return nil
	}

	m := cache.NewMemory(a.cfg.Cache.MaxEntries, cache.WithJanitor(a.cfg.Cache.JanitorTick))
	a.cache = m
	a.onClose(func() { _ = m.Close() })
	return nil
}

func (a *app) initCatalog(ctx context.Context) error {
	if a.cfg.Database.URL == "" {
		builtin, err := catalog.Default()
		if err != nil {
			return fmt.Errorf("failed to load built-in catalog: %w", err)
		}
		a.cars = builtin
		return nil
	}

	database, err := db.Connect(ctx, a.cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	a.onClose(database.Close)

	a.cars = catalog.NewCachedSource(db.NewCarStore(database), a.cache, a.cfg.Cache.CatalogTTL)
	logging.Info().Msg("using postgres catalog")
	return nil
}

func (a *app) initAdvisor(ctx context.Context) error {
	if !a.cfg.AIEnabled() {
		logging.Warn().Msg("no LLM API key configured; AI endpoints are disabled")
		return nil
	}

	llmCfg := a.cfg.LLMClientConfig()
	provider, err := llm.NewClient(ctx, llmCfg, a.cfg.LLM.APIKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}

	// Cache hits bypass the breaker; misses go through it to the provider.
	var client llm.Client = llm.NewBreakerClient(provider, llm.BreakerConfig{
		Name:             "llm",
		MaxRequests:      a.cfg.Breaker.MaxRequests,
		Interval:         a.cfg.Breaker.Interval,
		Timeout:          a.cfg.Breaker.Timeout,
		FailureThreshold: a.cfg.Breaker.FailureThreshold,
	})
	if a.cfg.LLM.CacheTTL > 0 {
		client = llm.NewCachedClient(client, a.cache, a.cfg.LLM.CacheTTL)
	}

	svc, err := advisor.New(client, advisor.Config{
		Market:       a.cfg.Advisor.Market,
		Currency:     a.cfg.Advisor.Currency,
		HistoryLimit: a.cfg.Advisor.HistoryLimit,
	})
	if err != nil {
		_ = client.Close()
		return fmt.Errorf("failed to create advisor: %w", err)
	}
	a.advisor = svc
	a.onClose(func() { _ = svc.Close() })

	logging.Info().
		Str("standard", llmCfg.GetModel(llm.TierStandard)).
		Str("advanced", llmCfg.GetModel(llm.TierAdvanced)).
		Msg("AI advisor enabled")
	return nil
}

func (a *app) onClose(fn func()) {
	a.closers = append(a.closers, fn)
}

// Close releases resources in reverse order of creation.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// errNoDatabase is returned by commands that need Postgres.
var errNoDatabase = errors.New("database URL is required (set DATABASE_URL or database.url)")
