// Package main is the entry point for the lunar calendar API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lunarapi/internal/api"
	"lunarapi/internal/config"
	"lunarapi/internal/database"
	"lunarapi/internal/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Setup structured logging
	log := logger.Setup(cfg)

	// Log startup info
	log.Info("starting lunar calendar API",
		slog.String("env", cfg.Env),
		slog.Int("port", cfg.Port),
		slog.String("timezone", cfg.Timezone),
		slog.String("log_level", cfg.LogLevel),
	)

	if err := run(cfg, log); err != nil {
		log.Error("server failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("lunar calendar API stopped")
}

func run(cfg *config.Config, log *slog.Logger) error {
	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Info("signal received, shutting down", slog.String("signal", sig.String()))
		cancel()
	}()

	// The almanac store is optional. Without a configured path every
	// response is computed live.
	var db *database.DB
	if cfg.DatabasePath != "" {
		var err error
		db, err = database.Open(database.DefaultConfig(cfg.DatabasePath), log)
		if err != nil {
			return fmt.Errorf("open almanac database: %w", err)
		}
		defer db.Close()

		migrated, err := db.Migrate(ctx)
		if err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}

		days, err := db.CountDays(ctx)
		if err != nil {
			return fmt.Errorf("count almanac days: %w", err)
		}

		log.Info("almanac store ready",
			slog.Int("migrations_applied", migrated),
			slog.Int("days", days),
		)
	} else {
		log.Info("no almanac database configured, computing all responses live")
	}

	handlers := api.NewHandlers(db, cfg, log)
	router := api.SetupRoutes(handlers, log)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 20 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.Info("listening", slog.String("addr", srv.Addr))

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	return nil
}
