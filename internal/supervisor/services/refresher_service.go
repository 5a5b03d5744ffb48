// Cardsmith - Title Card Rendering Engine for Media Servers
// Copyright 2026 Cardsmith Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardsmith/cardsmith

package services

import (
	"context"
	"time"

	"github.com/cardsmith/cardsmith/internal/logging"
)

// RegistryRefresher is a bound refresh call against the card type
// registry.
type RegistryRefresher interface {
	Refresh(ctx context.Context) error
}

// RefreshFunc adapts a plain function to RegistryRefresher.
type RefreshFunc func(ctx context.Context) error

// Refresh implements RegistryRefresher.
func (f RefreshFunc) Refresh(ctx context.Context) error { return f(ctx) }

// RegistryRefreshService periodically refreshes the remote card type
// sources. A failed refresh is logged and waits for the next tick; the
// fetcher's circuit breaker already isolates flapping sources.
type RegistryRefreshService struct {
	refresher RegistryRefresher
	interval  time.Duration
	timeout   time.Duration
	name      string
}

// NewRegistryRefreshService creates the wrapper. interval is how often to
// refresh, timeout bounds each attempt.
func NewRegistryRefreshService(refresher RegistryRefresher, interval, timeout time.Duration) *RegistryRefreshService {
	if interval <= 0 {
		interval = 6 * time.Hour
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &RegistryRefreshService{
		refresher: refresher,
		interval:  interval,
		timeout:   timeout,
		name:      "registry-refresher",
	}
}

// Serve implements suture.Service.
func (s *RegistryRefreshService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-ticker.C:
			refreshCtx, cancel := context.WithTimeout(ctx, s.timeout)
			err := s.refresher.Refresh(refreshCtx)
			cancel()
			if err != nil {
				logging.Warn().Err(err).Msg("Periodic card type refresh failed")
			}
		}
	}
}

// String implements fmt.Stringer for suture's log messages.
func (s *RegistryRefreshService) String() string {
	return s.name
}
