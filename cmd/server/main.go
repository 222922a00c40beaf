// Intara search proxy server entry point
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robert-malhotra/intara-search-proxy/internal/api"
	"github.com/robert-malhotra/intara-search-proxy/internal/backend"
	"github.com/robert-malhotra/intara-search-proxy/internal/config"
	"github.com/robert-malhotra/intara-search-proxy/internal/intara"
	"github.com/robert-malhotra/intara-search-proxy/internal/translate"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := setupLogger(cfg.Logging.Level, cfg.Logging.Format)

	logger.Info("starting Intara search proxy",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"upstream", cfg.Intara.BaseURL,
	)

	// Component definitions are optional on disk; the built-in registry
	// covers the stock Intara components.
	components, err := config.LoadComponents(cfg.Search.ComponentsDir)
	if err != nil {
		logger.Warn("failed to load components, using built-in defaults",
			"dir", cfg.Search.ComponentsDir,
			"error", err,
		)
		components = config.DefaultComponents()
	}
	logger.Info("loaded components", "count", components.Count())

	// Token cache handles the OAuth exchange and credential reuse
	tokens := intara.NewTokenCache(
		cfg.Intara.TokenURL,
		cfg.Intara.APIKey,
		cfg.Intara.ClientID,
		cfg.Intara.ClientSecret,
		cfg.Intara.Timeout,
	).WithLogger(logger)

	// Upstream client
	client := intara.NewClient(cfg.Intara.BaseURL, cfg.Intara.APIKey, tokens, cfg.Intara.Timeout).
		WithLogger(logger)

	// Query translator and search backend
	translator := translate.NewTranslator(cfg, components, logger)
	searchBackend := backend.NewIntaraBackend(client, components, translator, cfg, logger)

	// HTTP layer
	handlers := api.NewHandlers(cfg, searchBackend, components, logger)
	router := api.NewRouter(handlers, logger)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		logger.Info("received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	logger.Info("shutting down server", "timeout", cfg.Server.ShutdownTimeout)
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

func setupLogger(level, format string) *slog.Logger {
	levels := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	lvl, ok := levels[level]
	if !ok {
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
