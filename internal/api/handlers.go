// Cardsmith - Title Card Rendering Engine for Media Servers
// Copyright 2026 Cardsmith Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardsmith/cardsmith

// Package api implements the REST and websocket surface.
//
// Handlers respond with the models.APIResponse envelope and map card
// failure kinds to HTTP status codes. Render failures are reported in
// the envelope body; only request-level problems produce error statuses.
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/cardsmith/cardsmith/internal/config"
	"github.com/cardsmith/cardsmith/internal/creator"
	"github.com/cardsmith/cardsmith/internal/logging"
	"github.com/cardsmith/cardsmith/internal/models"
	"github.com/cardsmith/cardsmith/internal/registry"
	ws "github.com/cardsmith/cardsmith/internal/websocket"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// Deps carries the wired subsystems handlers operate on. Fetcher, Hub,
// and Store are nil when their feature is not configured; handlers that
// need them degrade explicitly instead of panicking.
type Deps struct {
	Config   *config.Config
	Registry *registry.Registry
	Creator  *creator.Creator
	Fetcher  *registry.RemoteFetcher
	Hub      *ws.Hub
	Store    *registry.Store
}

// Handler holds the HTTP handlers for all API endpoints.
type Handler struct {
	deps      Deps
	startTime time.Time
}

// NewHandler creates a handler set from wired dependencies.
func NewHandler(deps Deps) *Handler {
	return &Handler{
		deps:      deps,
		startTime: time.Now(),
	}
}

// Health returns overall service health. The service is degraded when no
// card types are registered, since every render would fail.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	cardTypes := h.deps.Registry.Len()

	status := "healthy"
	if cardTypes == 0 {
		status = "degraded"
	}

	respondSuccess(w, http.StatusOK, models.HealthStatus{
		Status:         status,
		Version:        Version,
		CardTypes:      cardTypes,
		RemoteSources:  len(h.deps.Config.CardTypes.RemoteSources),
		StoreConnected: h.deps.Store != nil,
		Uptime:         time.Since(h.startTime).Seconds(),
	})
}

// HealthLive is the liveness probe. It answers as long as the process
// can serve HTTP at all.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"alive":     true,
		"timestamp": time.Now(),
	})
}

// HealthReady is the readiness probe. The service is ready once at least
// one card type is registered.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	cardTypes := h.deps.Registry.Len()
	if cardTypes == 0 {
		respondError(w, http.StatusServiceUnavailable, "NOT_READY",
			"No card types registered", nil)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"ready":      true,
		"card_types": cardTypes,
	})
}

// WebSocket upgrades the connection and registers the client with the hub.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.deps.Hub == nil {
		respondError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE",
			"WebSocket service not available", nil)
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		HandshakeTimeout: 10 * time.Second,
		CheckOrigin:      h.checkWebSocketOrigin,
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written its own error response.
		logging.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := ws.NewClient(h.deps.Hub, conn)
	h.deps.Hub.Register <- client
	client.Start()
}

// checkWebSocketOrigin validates the Origin header against the configured
// CORS origins. A wildcard origin admits everything, including requests
// without an Origin header, so command-line clients work out of the box.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origins := h.deps.Config.API.CORSOrigins
	for _, allowed := range origins {
		if allowed == "*" {
			return true
		}
	}

	origin := r.Header.Get("Origin")
	if origin == "" {
		logging.Warn().Msg("WebSocket connection rejected: missing Origin header")
		return false
	}

	for _, allowed := range origins {
		if strings.EqualFold(origin, allowed) {
			return true
		}
	}

	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket connection rejected: origin not allowed")
	return false
}
