// Cardsmith - Title Card Rendering Engine for Media Servers
// Copyright 2026 Cardsmith Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardsmith/cardsmith

package models

import "time"

// APIResponse is the envelope for every API response.
//
// Status is "success" or "error". Data carries the endpoint-specific
// payload; Error is present only for error responses.
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
//
// Timestamp is the server time the response was generated. DurationMS is
// the handler processing time in milliseconds for endpoints that track it.
type Metadata struct {
	Timestamp  time.Time `json:"timestamp"`
	DurationMS int64     `json:"duration_ms,omitempty"`
}

// APIError is a structured error payload with a machine-readable code.
//
// Common codes:
//   - VALIDATION_ERROR: invalid request parameters
//   - NOT_FOUND: unknown card type or resource
//   - RENDER_ERROR: card creation failed
//   - INTERNAL_ERROR: unexpected server failure
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus summarizes service health for the health endpoint.
type HealthStatus struct {
	Status         string  `json:"status"`
	Version        string  `json:"version"`
	CardTypes      int     `json:"card_types"`
	RemoteSources  int     `json:"remote_sources"`
	StoreConnected bool    `json:"store_connected"`
	Uptime         float64 `json:"uptime_seconds"`
}
