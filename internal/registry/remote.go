// Cardsmith - Title Card Rendering Engine for Media Servers
// Copyright 2026 Cardsmith Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardsmith/cardsmith

package registry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/cardsmith/cardsmith/internal/logging"
	"github.com/cardsmith/cardsmith/internal/metrics"
	"github.com/cardsmith/cardsmith/internal/models"
)

// Remote descriptors are registered under this namespace so user types
// can never shadow a built-in.
const remoteNamespace = "remote/"

// ErrRefreshRateLimited is returned when a refresh is requested faster
// than the fetcher's rate limit allows.
var ErrRefreshRateLimited = errors.New("remote card type refresh rate limited")

// RemoteConfig configures the remote card type fetcher.
type RemoteConfig struct {
	// Sources are URLs serving JSON arrays of card type descriptors.
	Sources []string

	// Timeout bounds each HTTP fetch. Default: 30s.
	Timeout time.Duration
}

// RemoteFetcher pulls descriptor sets from configured sources. Fetches
// run behind a circuit breaker so a flapping source stops being hammered,
// and every successful fetch is persisted so a later outage degrades to
// the last known set instead of an empty catalogue.
type RemoteFetcher struct {
	sources []string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[[]models.CardTypeDescriptor]
	limiter *rate.Limiter
	store   *Store
}

// NewRemoteFetcher creates a fetcher for the configured sources. store
// may be nil; persistence is then disabled.
func NewRemoteFetcher(cfg RemoteConfig, store *Store) *RemoteFetcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker[[]models.CardTypeDescriptor](gobreaker.Settings{
		Name:        "cardtype-remote",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Remote card type breaker state change")
		},
	})

	return &RemoteFetcher{
		sources: cfg.Sources,
		client:  &http.Client{Timeout: timeout},
		breaker: breaker,
		limiter: rate.NewLimiter(rate.Every(10*time.Second), 1),
		store:   store,
	}
}

// Fetch retrieves and decodes the descriptor sets from every configured
// source. Identifiers are namespaced under remote/.
func (f *RemoteFetcher) Fetch(ctx context.Context) ([]models.CardTypeDescriptor, error) {
	if len(f.sources) == 0 {
		return nil, nil
	}
	if !f.limiter.Allow() {
		return nil, ErrRefreshRateLimited
	}

	return f.breaker.Execute(func() ([]models.CardTypeDescriptor, error) {
		var descs []models.CardTypeDescriptor
		for _, src := range f.sources {
			batch, err := f.fetchSource(ctx, src)
			if err != nil {
				return nil, fmt.Errorf("fetch card types from %s: %w", src, err)
			}
			descs = append(descs, batch...)
		}
		return descs, nil
	})
}

// Refresh fetches the remote descriptor sets and swaps them into reg,
// persisting the fetched set. On a fetch failure the previously persisted
// set is registered instead, and the fetch error is still returned.
func (f *RemoteFetcher) Refresh(ctx context.Context, reg *Registry) error {
	if len(f.sources) == 0 {
		return nil
	}

	descs, err := f.Fetch(ctx)
	if err != nil {
		if errors.Is(err, ErrRefreshRateLimited) {
			return err
		}
		metrics.RecordRegistryRefresh(false)

		cached, cacheErr := f.cached()
		if cacheErr != nil {
			logging.Warn().Err(cacheErr).Msg("Loading persisted card types failed")
		}
		if len(cached) > 0 {
			n := reg.AdoptDescriptors(cached, models.SourceRemote)
			logging.Warn().Err(err).Int("cached", n).Msg("Remote card type fetch failed, using persisted set")
		}
		return err
	}

	if f.store != nil {
		if serr := f.store.SaveRemote(descs); serr != nil {
			logging.Warn().Err(serr).Msg("Persisting remote card types failed")
		}
	}
	n := reg.AdoptDescriptors(descs, models.SourceRemote)
	metrics.RecordRegistryRefresh(true)
	logging.Info().Int("count", n).Msg("Remote card types refreshed")
	return nil
}

func (f *RemoteFetcher) fetchSource(ctx context.Context, url string) ([]models.CardTypeDescriptor, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var descs []models.CardTypeDescriptor
	if err := json.NewDecoder(resp.Body).Decode(&descs); err != nil {
		return nil, fmt.Errorf("decode descriptor set: %w", err)
	}

	for i := range descs {
		descs[i].Source = models.SourceRemote
		if !strings.HasPrefix(descs[i].Identifier, remoteNamespace) {
			descs[i].Identifier = remoteNamespace + descs[i].Identifier
		}
	}
	return descs, nil
}

func (f *RemoteFetcher) cached() ([]models.CardTypeDescriptor, error) {
	if f.store == nil {
		return nil, nil
	}
	return f.store.LoadRemote()
}
