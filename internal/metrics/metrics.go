// Cardsmith - Title Card Rendering Engine for Media Servers
// Copyright 2026 Cardsmith Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardsmith/cardsmith

// Package metrics defines the Prometheus collectors for the rendering
// engine and thin helpers for recording to them. All collectors are
// registered with the default registry via promauto and exposed on
// /metrics by the API router.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cardsmith"

// Render pipeline metrics
var (
	RendersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Total card renders by card type and outcome",
		},
		[]string{"card_type", "status"},
	)

	RenderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Card render duration in seconds by card type",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"card_type"},
	)

	RenderErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "render_errors_total",
			Help:      "Card render failures by card type and error kind",
		},
		[]string{"card_type", "kind"},
	)

	PatternFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pattern_fallbacks_total",
			Help:      "Invalid pattern specs that fell back to the card type default",
		},
		[]string{"card_type"},
	)

	PlansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plans_total",
			Help:      "Dry-run render plans built by card type",
		},
		[]string{"card_type"},
	)
)

// Batch metrics
var (
	BatchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_total",
			Help:      "Total batch render requests",
		},
	)

	BatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      "Number of cards per batch request",
			Buckets:   []float64{1, 2, 5, 10, 25, 50, 100, 250},
		},
	)
)

// Registry metrics
var (
	RegistryCardTypes = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "registry_card_types",
			Help:      "Registered card types by source",
		},
		[]string{"source"},
	)

	RegistryRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registry_refreshes_total",
			Help:      "Remote card type refresh attempts by outcome",
		},
		[]string{"status"},
	)
)

// Font cache metrics
var (
	FontCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "font_cache_hits_total",
			Help:      "Parsed font handles served from cache",
		},
	)

	FontCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "font_cache_misses_total",
			Help:      "Parsed font handles loaded from disk",
		},
	)
)

// HTTP and websocket metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, path, and status code",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds by method and path",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	WebsocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "websocket_clients",
			Help:      "Currently connected websocket clients",
		},
	)

	WebsocketMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "websocket_messages_total",
			Help:      "Websocket messages broadcast by message type",
		},
		[]string{"type"},
	)

	WebsocketDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "websocket_dropped_total",
			Help:      "Websocket messages dropped due to full client buffers",
		},
	)
)

// RecordRenderSuccess records a completed render and its duration.
func RecordRenderSuccess(cardType string, d time.Duration) {
	RendersTotal.WithLabelValues(cardType, "success").Inc()
	RenderDuration.WithLabelValues(cardType).Observe(d.Seconds())
}

// RecordRenderFailure records a failed render with its error kind.
func RecordRenderFailure(cardType, kind string, d time.Duration) {
	RendersTotal.WithLabelValues(cardType, "failure").Inc()
	RenderErrors.WithLabelValues(cardType, kind).Inc()
	RenderDuration.WithLabelValues(cardType).Observe(d.Seconds())
}

// RecordPlan records a dry-run plan build.
func RecordPlan(cardType string) {
	PlansTotal.WithLabelValues(cardType).Inc()
}

// RecordPatternFallback records an invalid pattern spec replaced by the
// card type's default.
func RecordPatternFallback(cardType string) {
	PatternFallbacks.WithLabelValues(cardType).Inc()
}

// RecordBatch records a batch request of the given size.
func RecordBatch(size int) {
	BatchesTotal.Inc()
	BatchSize.Observe(float64(size))
}

// SetRegistryCardTypes records the current registry size for one source.
func SetRegistryCardTypes(source string, count int) {
	RegistryCardTypes.WithLabelValues(source).Set(float64(count))
}

// RecordRegistryRefresh records a remote refresh attempt.
func RecordRegistryRefresh(success bool) {
	status := "success"
	if !success {
		status = "failure"
	}
	RegistryRefreshes.WithLabelValues(status).Inc()
}

// RecordFontCacheHit records a font handle served from cache.
func RecordFontCacheHit() {
	FontCacheHits.Inc()
}

// RecordFontCacheMiss records a font handle loaded from disk.
func RecordFontCacheMiss() {
	FontCacheMisses.Inc()
}

// RecordHTTPRequest records one served HTTP request.
func RecordHTTPRequest(method, path, status string, d time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

// RecordWebsocketMessage records a broadcast websocket message.
func RecordWebsocketMessage(msgType string) {
	WebsocketMessages.WithLabelValues(msgType).Inc()
}
