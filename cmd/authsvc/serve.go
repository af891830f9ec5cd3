package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cts/user-auth-service/internal/api"
	"github.com/cts/user-auth-service/internal/core/service"
	"github.com/cts/user-auth-service/internal/pkg/config"
	"github.com/cts/user-auth-service/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// httpServer is the surface Run needs from an HTTP server.
type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
	Close() error
	Addr() string
}

// realServer adapts *http.Server to the httpServer interface.
type realServer struct{ *http.Server }

func (r realServer) Addr() string { return r.Server.Addr }

// serverBuilder builds the server and returns a cleanup function.
type serverBuilder func() (httpServer, func(), error)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	log := initLogger(cfg)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	return Run(func() (httpServer, func(), error) {
		return buildServer(ctx, cfg, log)
	}, sigCh, log)
}

func initLogger(cfg *config.Config) zerolog.Logger {
	return logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "user-auth-service",
	})
}

func buildServer(ctx context.Context, cfg *config.Config, log zerolog.Logger) (httpServer, func(), error) {
	a, err := buildApp(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}

	if cfg.SeedQuestions {
		if err := a.service.SeedSecretQuestions(ctx, service.DefaultSecretQuestions); err != nil {
			_ = a.close(ctx)
			return nil, nil, err
		}
	}

	e := api.NewRouter(api.Deps{
		AuthService: a.service,
		Tokens:      a.tokens,
		Health:      a.health,
		Logger:      logger.Component(log, "http"),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.close(ctx); err != nil {
			log.Error().Err(err).Msg("close dependencies")
		}
	}
	return realServer{srv}, cleanup, nil
}

// Run starts the server and blocks until a signal arrives or the server fails.
// Shutdown is graceful within shutdownTimeout, then forced.
func Run(build serverBuilder, sigCh <-chan os.Signal, lg zerolog.Logger) error {
	srv, cleanup, err := build()
	if err != nil {
		lg.Error().Err(err).Msg("bootstrap failed")
		return err
	}
	defer cleanup()

	errCh := make(chan error, 1)
	go func() {
		lg.Info().Str("addr", srv.Addr()).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case sig := <-sigCh:
		lg.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		lg.Error().Err(err).Msg("server crashed")
		return fmt.Errorf("server: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		lg.Error().Err(err).Msg("graceful shutdown failed")
		_ = srv.Close()
	}

	lg.Info().Msg("shutdown complete")
	return nil
}
