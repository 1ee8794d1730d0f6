// Lyrimood - Song Mood Profile Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrimood

// Package main is the entry point for the Lyrimood server.
//
// Lyrimood aggregates song mood profiles from several external sources:
// MusicBrainz recording metadata, a language detection API, a Gemini
// lyric analysis, AcousticBrainz acoustic features and a local tag
// suggester. Each source runs behind a fixed per-service resilience
// policy (timeout, retry, rate limit, concurrency pool) and the results
// are merged with deterministic rules into a single mood profile.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: environment variables over config file over
//     built-in defaults (Koanf v2)
//  2. Resilience: per-service policy table and shared executor
//  3. Sources: the five external source adapters
//  4. Audit store: SQLite (or in-memory when no path is configured)
//  5. HTTP server: REST API with Prometheus metrics
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM: it stops
// accepting new connections, waits up to 10s for in-flight requests,
// then closes the audit store.
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

	"github.com/tomtom215/lyrimood/internal/api"
	"github.com/tomtom215/lyrimood/internal/audit"
	"github.com/tomtom215/lyrimood/internal/config"
	"github.com/tomtom215/lyrimood/internal/logging"
	"github.com/tomtom215/lyrimood/internal/mood"
	"github.com/tomtom215/lyrimood/internal/resilience"
	"github.com/tomtom215/lyrimood/internal/sources"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().Msg("Starting Lyrimood")
	logging.Info().
		Str("audit_path", cfg.Audit.Path).
		Str("gemini_model", cfg.External.Gemini.Model).
		Msg("Configuration loaded")

	// Shared resilience executor with the per-service policy table
	policies := resilience.NewPolicyTable(cfg.External)
	executor := resilience.NewExecutor(policies)

	// External source adapters. The metadata path additionally runs
	// behind a circuit breaker because MusicBrainz throttles hard.
	metadata := sources.NewMetadataCircuitBreaker(
		sources.NewMusicBrainzClient(cfg.External.MusicBrainz, executor),
	)
	var language mood.LanguageDetector
	if cfg.External.DetectLanguage.APIKeyValue != "" {
		language = sources.NewDetectLanguageClient(cfg.External.DetectLanguage, executor)
	} else {
		logging.Info().Msg("Language detection API key not configured, using script heuristics")
		language = sources.NewScriptLanguageDetector()
	}
	analyzer := sources.NewGeminiClient(cfg.External.Gemini, executor)
	acoustic := sources.NewAcousticBrainzClient(cfg.External.AcousticBrainz, executor)
	suggester := sources.NewLocalTagSuggester(executor)

	store, err := newStore(cfg.Audit)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize audit store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing audit store")
		}
	}()

	service := mood.NewService(metadata, language, analyzer, acoustic, suggester, store)
	router := api.NewRouter(api.NewHandlers(service, store))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		logging.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	case err := <-errCh:
		logging.Error().Err(err).Msg("HTTP server failed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logging.Error().Err(err).Msg("Graceful shutdown failed")
	}
	logging.Info().Msg("Lyrimood stopped")
}

// newStore selects the audit store implementation. An empty path means
// the ephemeral in-memory store.
func newStore(cfg config.AuditConfig) (audit.Store, error) {
	if cfg.Path == "" {
		logging.Info().Msg("Audit path not configured, using in-memory store")
		return audit.NewMemoryStore(0), nil
	}
	return audit.NewSQLiteStore(cfg.Path)
}
