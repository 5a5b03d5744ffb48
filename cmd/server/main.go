// Cardsmith - Title Card Rendering Engine for Media Servers
// Copyright 2026 Cardsmith Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardsmith/cardsmith

// Package main is the entry point for the Cardsmith server.
//
// Cardsmith renders episode title cards for media server libraries. It
// exposes a REST API for planning and rendering cards, manages a card
// type catalogue (built-in, local YAML, remote), and reports render
// progress over a websocket.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: environment variables and config file (Koanf v2)
//  2. Fonts: the font manager with its face cache
//  3. Registry: built-in card types, then local and remote descriptors
//  4. WebSocket hub: real-time render progress for connected clients
//  5. Creator: the render orchestrator and batch worker pool
//  6. HTTP server: REST API, websocket upgrade, Prometheus metrics
//
// Long-running pieces run under a suture supervision tree: a crash in the
// remote refresher or the hub restarts that service without taking down
// the API.
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables (HTTP_PORT, CARD_OUTPUT_DIR, ...)
//   - Config file (config.yaml, or CONFIG_PATH)
//   - Built-in defaults
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM: the HTTP
// server drains in-flight requests (10s timeout), the hub closes its
// clients, and the refresher stops.
//
// # Example Usage
//
// Default setup rendering into ./cards:
//
//	./cardsmith
//
// Custom canvas and a local card type directory:
//
//	export CARD_WIDTH=1920
//	export CARD_HEIGHT=1080
//	export CARDTYPE_LOCAL_DIR=/data/cardtypes
//	./cardsmith
//
// With remote card type sources persisted across restarts:
//
//	export CARDTYPE_REMOTE_SOURCES=https://example.com/cardtypes.json
//	export CARDTYPE_STORE_PATH=/data/cardtypes.db
//	./cardsmith
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

	"github.com/cardsmith/cardsmith/internal/api"
	"github.com/cardsmith/cardsmith/internal/config"
	"github.com/cardsmith/cardsmith/internal/creator"
	"github.com/cardsmith/cardsmith/internal/fonts"
	"github.com/cardsmith/cardsmith/internal/logging"
	"github.com/cardsmith/cardsmith/internal/registry"
	"github.com/cardsmith/cardsmith/internal/supervisor"
	"github.com/cardsmith/cardsmith/internal/supervisor/services"
	ws "github.com/cardsmith/cardsmith/internal/websocket"
)

func main() {
	// Load configuration first to get logging settings.
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().Msg("Starting Cardsmith with supervisor tree")
	logging.Info().
		Str("output_dir", cfg.Render.OutputDir).
		Int("width", cfg.Render.Width).
		Int("height", cfg.Render.Height).
		Int("workers", cfg.Render.Workers).
		Msg("Configuration loaded")

	fontManager, err := fonts.NewManager(cfg.Render.FontDir, cfg.Render.FontCacheSize)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize font manager")
	}

	reg := registry.New()
	logging.Info().Int("count", reg.Len()).Msg("Built-in card types registered")

	if cfg.CardTypes.LocalDir != "" {
		n, err := reg.LoadLocalDir(cfg.CardTypes.LocalDir)
		if err != nil {
			logging.Warn().Err(err).Str("dir", cfg.CardTypes.LocalDir).Msg("Loading local card types failed")
		} else {
			logging.Info().Int("count", n).Str("dir", cfg.CardTypes.LocalDir).Msg("Local card types loaded")
		}
	}

	// Remote sources get a persistent store so an outage at startup
	// degrades to the last fetched set.
	var (
		store   *registry.Store
		fetcher *registry.RemoteFetcher
	)
	if len(cfg.CardTypes.RemoteSources) > 0 {
		store, err = registry.OpenStore(cfg.CardTypes.StorePath)
		if err != nil {
			logging.Warn().Err(err).Str("path", cfg.CardTypes.StorePath).Msg("Opening card type store failed, persistence disabled")
			store = nil
		}
		defer func() {
			if store != nil {
				if err := store.Close(); err != nil {
					logging.Error().Err(err).Msg("Error closing card type store")
				}
			}
		}()

		fetcher = registry.NewRemoteFetcher(registry.RemoteConfig{
			Sources: cfg.CardTypes.RemoteSources,
			Timeout: cfg.CardTypes.RemoteTimeout,
		}, store)

		fetchCtx, fetchCancel := context.WithTimeout(context.Background(), cfg.CardTypes.RemoteTimeout)
		if err := fetcher.Refresh(fetchCtx, reg); err != nil {
			logging.Warn().Err(err).Msg("Initial remote card type fetch failed")
		}
		fetchCancel()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Bridge zerolog to slog for sutureslog.
	tree, err := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	hub := ws.NewHub()

	cardCreator := creator.New(reg, fontManager, creator.Config{
		OutputDir:   cfg.Render.OutputDir,
		Width:       cfg.Render.Width,
		Height:      cfg.Render.Height,
		JPEGQuality: cfg.Render.JPEGQuality,
		Workers:     cfg.Render.Workers,
		CardTimeout: cfg.Render.CardTimeout,
		Progress:    hub,
	})

	handler := api.NewHandler(api.Deps{
		Config:   cfg,
		Registry: reg,
		Creator:  cardCreator,
		Fetcher:  fetcher,
		Hub:      hub,
		Store:    store,
	})

	server := &http.Server{
		Addr:        fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:     api.NewRouter(handler, cfg),
		ReadTimeout: cfg.Server.Timeout,
		// Batch renders can outlive any fixed write timeout; per-card
		// timeouts bound the work instead.
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	tree.AddMessagingService(services.NewWebSocketHubService(hub))
	if fetcher != nil {
		tree.AddRegistryService(services.NewRegistryRefreshService(
			services.RefreshFunc(func(ctx context.Context) error {
				return fetcher.Refresh(ctx, reg)
			}),
			cfg.CardTypes.RefreshInterval,
			cfg.CardTypes.RemoteTimeout,
		))
		logging.Info().
			Dur("interval", cfg.CardTypes.RefreshInterval).
			Int("sources", len(cfg.CardTypes.RemoteSources)).
			Msg("Remote card type refresher added to supervisor tree")
	}
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
