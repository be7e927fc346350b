// Kestrel - FRC Scouting Data API Gateway
// Copyright 2026 Citrus Circuits (FRC Team 1678)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/frc1678/kestrel

// Package main is the entry point for the Kestrel gateway.
//
// Kestrel sits between the 1678 scouting document database (one MongoDB
// database per competition event) and the viewer front-end, and proxies a
// small slice of The Blue Alliance API. Startup order:
//
//  1. Configuration: koanf v2 layered env/yaml/defaults; a missing
//     MONGO_CONNECTION is fatal
//  2. Logging: zerolog, json or console
//  3. Store: single shared MongoDB client for the process lifetime
//  4. HTTP server: chi routes with the Kestrel-API-Key gate on the
//     protected groups
//
// SIGINT/SIGTERM trigger a graceful shutdown: stop accepting connections,
// drain in-flight requests (bounded by server.shutdown_timeout), then
// disconnect from the store.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frc1678/kestrel/internal/api"
	"github.com/frc1678/kestrel/internal/config"
	"github.com/frc1678/kestrel/internal/logging"
	"github.com/frc1678/kestrel/internal/store"
	"github.com/frc1678/kestrel/internal/tba"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("configuration failed")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("server exited with error")
	}
}

func run(cfg *config.Config) error {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Mongo.ConnectTimeout)
	defer cancel()

	db, err := store.New(ctx, store.Options{
		URI:            cfg.Mongo.Connection,
		ConnectTimeout: cfg.Mongo.ConnectTimeout,
	})
	if err != nil {
		return err
	}
	logging.Info().Msg("store client initialized")

	router := api.NewRouter(db, tba.New(cfg.TBA.Key, tba.WithBaseURL(cfg.TBA.BaseURL)), api.Options{
		APIKey:             cfg.Auth.APIKey,
		CORSAllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("kestrel listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logging.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("http server shutdown failed")
	}

	if err := db.Close(shutdownCtx); err != nil {
		return err
	}
	logging.Info().Msg("store client connection closed")
	return nil
}
