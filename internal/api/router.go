// Cardsmith - Title Card Rendering Engine for Media Servers
// Copyright 2026 Cardsmith Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardsmith/cardsmith

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cardsmith/cardsmith/internal/config"
	"github.com/cardsmith/cardsmith/internal/middleware"
)

// NewRouter assembles the chi router: request IDs, panic recovery, and
// CORS globally, then rate limiting, metrics, and compression on the
// versioned API group. The Prometheus endpoint sits outside the group so
// scrapes are never rate limited or compressed twice.
func NewRouter(h *Handler, cfg *config.Config) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.API.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"ETag", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rateLimit(cfg))
		r.Use(middleware.Metrics)
		r.Use(middleware.Compression)

		r.Route("/health", func(r chi.Router) {
			r.Get("/", h.Health)
			r.Get("/live", h.HealthLive)
			r.Get("/ready", h.HealthReady)
		})

		r.Route("/cardtypes", func(r chi.Router) {
			r.Get("/", h.ListCardTypes)
			r.Post("/refresh", h.RefreshCardTypes)
			// Wildcard because remote identifiers contain a slash.
			r.Get("/*", h.GetCardType)
		})

		r.Route("/cards", func(r chi.Router) {
			r.Post("/plan", h.PlanCard)
			r.Post("/render", h.RenderCard)
			r.Post("/batch", h.RenderBatch)
		})

		r.Get("/ws", h.WebSocket)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

// rateLimit returns the per-IP limiter, or a pass-through when disabled.
func rateLimit(cfg *config.Config) func(http.Handler) http.Handler {
	if cfg.API.RateLimitDisabled {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(
		cfg.API.RateLimitReqs,
		cfg.API.RateLimitWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
	)
}
