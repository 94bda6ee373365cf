// Mesto - Photo Card Sharing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mesto

// Package main is the entry point for the Mesto server.
//
// Mesto is the backend of a photo card sharing app: users sign up, post
// cards (a title and an image link) and like each other's cards.
//
// # Startup
//
//  1. Configuration: defaults, optional config.yaml, environment (Koanf v2)
//  2. Logging: zerolog, level and format from LOG_LEVEL / LOG_FORMAT
//  3. Store: embedded BadgerDB at DATABASE_PATH, or in memory
//  4. Services: users, cards, JWT issuer
//  5. HTTP: chi router with rate limiting, CORS and Prometheus metrics
//  6. Supervisor: suture tree running the HTTP server and store GC
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the supervisor context. The HTTP server then
// has HTTP_SHUTDOWN_TIMEOUT to drain in-flight requests before the
// store is closed.
//
// # Example Usage
//
// Development (fixed development secret, data in memory):
//
//	export DATABASE_IN_MEMORY=true
//	export LOG_FORMAT=console
//	./mesto
//
// Production:
//
//	export NODE_ENV=production
//	export JWT_SECRET=$(openssl rand -base64 32)
//	export DATABASE_PATH=/data/mesto
//	./mesto
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/mesto/internal/api"
	"github.com/tomtom215/mesto/internal/auth"
	"github.com/tomtom215/mesto/internal/config"
	"github.com/tomtom215/mesto/internal/logging"
	"github.com/tomtom215/mesto/internal/services"
	"github.com/tomtom215/mesto/internal/store"
	"github.com/tomtom215/mesto/internal/supervisor"
	svc "github.com/tomtom215/mesto/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logging is not configured yet; the default logger still works.
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("db_path", cfg.Database.Path).
		Bool("db_in_memory", cfg.Database.InMemory).
		Msg("Starting Mesto")
	logConfigWarnings(cfg)

	db, err := store.Open(store.Options{
		Path:       cfg.Database.Path,
		InMemory:   cfg.Database.InMemory,
		SyncWrites: cfg.Database.SyncWrites,
		BcryptCost: cfg.Security.BcryptCost,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open store")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing store")
		}
	}()

	handler, err := newHandler(cfg, db)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to build HTTP handler")
		return
	}

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Error().Err(err).Msg("Failed to create supervisor tree")
		return
	}

	tree.AddDataService(svc.NewStoreGCService(db, cfg.Database.GCInterval, cfg.Database.GCRatio))
	tree.AddAPIService(svc.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	if err := <-tree.ServeBackground(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, u := range unstopped {
		logging.Warn().Str("service", u.Name).Msg("Service failed to stop")
	}

	logging.Info().Msg("Mesto stopped")
}

// logConfigWarnings reports settings that load fine but are unsafe.
func logConfigWarnings(cfg *config.Config) {
	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().
			Strs("cors_origins", cfg.Security.CORSOrigins).
			Msg("CORS allows any origin in production; set CORS_ORIGINS")
	}
}

// newHandler wires the store into the services and the router.
func newHandler(cfg *config.Config, db *store.Store) (http.Handler, error) {
	jwtManager, err := auth.NewJWTManager(cfg)
	if err != nil {
		return nil, err
	}

	users := db.Users()
	handler := api.NewHandler(
		services.NewUserService(users, jwtManager, cfg.Security.BcryptCost),
		services.NewCardService(db.Cards(), users),
	)

	router := api.NewRouter(handler,
		auth.NewMiddleware(jwtManager, api.WriteError),
		api.NewChiMiddleware(api.NewChiMiddlewareConfig(cfg)),
		api.RouterOptions{
			MetricsEnabled: cfg.Metrics.Enabled,
			MetricsPath:    cfg.Metrics.Path,
		},
	)
	return router.SetupChi(), nil
}
