package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	httpadapter "github.com/terrainalert/landslide-risk-service/internal/adapter/http"
	"github.com/terrainalert/landslide-risk-service/internal/app"
	"github.com/terrainalert/landslide-risk-service/internal/config"
	"github.com/terrainalert/landslide-risk-service/internal/observability"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	env, err := app.Build(ctx, cfg, logger, metrics)
	if err != nil {
		logger.Error("failed to initialise", "error", err)
		os.Exit(1)
	}

	var opts []httpadapter.Option
	if len(cfg.CORSAllowedOrigins) > 0 {
		opts = append(opts, httpadapter.WithCORS(cfg.CORSAllowedOrigins))
	}
	if cfg.StaticDir != "" {
		opts = append(opts, httpadapter.WithStaticDir(cfg.StaticDir))
		logger.Info("serving frontend", "dir", cfg.StaticDir)
	}
	srv := httpadapter.NewServer(cfg.HTTPAddr, env.Pipeline, env.Pipeline, logger, opts...)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("http server error", "error", err)
	}
	if err := env.Close(); err != nil {
		logger.Error("assessment stream close error", "error", err)
	}

	logger.Info("shutdown complete")
}
