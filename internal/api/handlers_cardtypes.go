// Cardsmith - Title Card Rendering Engine for Media Servers
// Copyright 2026 Cardsmith Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardsmith/cardsmith

package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cardsmith/cardsmith/internal/models"
	"github.com/cardsmith/cardsmith/internal/registry"
)

// ListCardTypes returns the registered card type descriptors, optionally
// filtered by ?source=builtin|local|remote.
func (h *Handler) ListCardTypes(w http.ResponseWriter, r *http.Request) {
	descs := h.deps.Registry.List()

	if source := r.URL.Query().Get("source"); source != "" {
		switch models.CardTypeSource(source) {
		case models.SourceBuiltin, models.SourceLocal, models.SourceRemote:
		default:
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
				fmt.Sprintf("invalid source %q, must be one of: builtin, local, remote", source), nil)
			return
		}

		filtered := descs[:0]
		for _, d := range descs {
			if string(d.Source) == source {
				filtered = append(filtered, d)
			}
		}
		descs = filtered
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"card_types": descs,
		"count":      len(descs),
	})
}

// GetCardType returns a single descriptor by identifier. The route uses a
// wildcard because remote identifiers contain a slash (remote/<name>).
func (h *Handler) GetCardType(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "*")
	if id == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			"card type identifier is required", nil)
		return
	}

	reg, ok := h.deps.Registry.Get(id)
	if !ok {
		respondError(w, http.StatusNotFound, "NOT_FOUND",
			fmt.Sprintf("unknown card type %q", id), nil)
		return
	}

	respondSuccess(w, http.StatusOK, reg.Descriptor)
}

// RefreshCardTypes re-fetches the remote descriptor sources and swaps the
// remote tier of the registry. Refreshes are rate limited; callers hitting
// the limit get 429 and should retry after the window passes.
func (h *Handler) RefreshCardTypes(w http.ResponseWriter, r *http.Request) {
	if h.deps.Fetcher == nil {
		respondError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE",
			"No remote card type sources configured", nil)
		return
	}

	if err := h.deps.Fetcher.Refresh(r.Context(), h.deps.Registry); err != nil {
		if errors.Is(err, registry.ErrRefreshRateLimited) {
			respondError(w, http.StatusTooManyRequests, "TOO_MANY_REQUESTS",
				"Card type refresh is rate limited, try again later", err)
			return
		}
		respondError(w, http.StatusBadGateway, "REMOTE_FETCH_FAILED",
			"Failed to refresh remote card types", err)
		return
	}

	total := h.deps.Registry.Len()
	if h.deps.Hub != nil {
		h.deps.Hub.RegistryRefreshed(total)
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"refreshed":  true,
		"card_types": total,
		"sources":    len(h.deps.Config.CardTypes.RemoteSources),
	})
}
