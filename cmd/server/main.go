package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/templui/carepledge/internal/app"
	"github.com/templui/carepledge/internal/config"
	"github.com/templui/carepledge/internal/logger"
	"github.com/templui/carepledge/internal/routes"
)

func main() {
	cfg := config.Load()

	logger.Init(cfg.AppName, cfg.AppEnv, cfg.IsDevelopment(), cfg.SentryDSN)
	defer logger.Flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		logger.Flush()
		os.Exit(1)
	}
	defer func() {
		closeErr := app.Close()
		if closeErr != nil {
			slog.Error("failed to close app", "error", closeErr)
		}
	}()

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.SetupRoutes(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv, "store", cfg.StoreBackend, "url", "http://localhost:"+cfg.Port)
		err := server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		return app.Sweeper.Run(gctx)
	})

	g.Go(func() error {
		app.RateLimiter.Run(gctx, time.Minute)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	if err != nil {
		slog.Error("server failed", "error", err)
	}
}
