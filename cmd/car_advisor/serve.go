package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/car-advisor/internal/server"
)

func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long:  "Start an HTTP server exposing the car catalog, recommendations and, when an LLM API key is configured, the AI advisor.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, port)
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "Port to listen on (overrides server.port)")
	return cmd
}

func runServe(ctx context.Context, port int) error {
	a, err := newApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	cfg := a.cfg
	if port > 0 {
		cfg.Server.Port = port
	}

	deps := server.Deps{Cars: a.cars}
	if a.advisor != nil {
		deps.Advisor = a.advisor
	}

	srv, err := server.New(server.Config{
		Port:            cfg.Server.Port,
		CORSOrigins:     cfg.Server.CORSOrigins,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		DefaultMode:     cfg.Ranking.DefaultMode,
		DefaultLimit:    cfg.Ranking.DefaultLimit,
		MaxLimit:        cfg.Ranking.MaxLimit,
		RateLimit:       cfg.RateLimiterConfig(),
	}, deps)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start(ctx)
}
