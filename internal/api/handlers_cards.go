// Cardsmith - Title Card Rendering Engine for Media Servers
// Copyright 2026 Cardsmith Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardsmith/cardsmith

package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/cardsmith/cardsmith/internal/creator"
	"github.com/cardsmith/cardsmith/internal/models"
	"github.com/cardsmith/cardsmith/internal/validation"
)

// statusForKind maps a card failure kind to the HTTP status for
// single-card endpoints. Batch endpoints never use this; their per-card
// failures ride inside a 200 report.
func statusForKind(kind models.ErrorKind) int {
	switch kind {
	case models.ErrorKindValidation, models.ErrorKindPatternParse:
		return http.StatusBadRequest
	case models.ErrorKindUnknownCardType:
		return http.StatusNotFound
	case models.ErrorKindFontLoad, models.ErrorKindMissingSource:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func codeForKind(kind models.ErrorKind) string {
	switch kind {
	case models.ErrorKindValidation, models.ErrorKindPatternParse:
		return "VALIDATION_ERROR"
	case models.ErrorKindUnknownCardType:
		return "NOT_FOUND"
	case models.ErrorKindFontLoad:
		return "FONT_ERROR"
	case models.ErrorKindMissingSource:
		return "MISSING_SOURCE"
	case models.ErrorKindRender:
		return "RENDER_ERROR"
	default:
		return "INTERNAL_ERROR"
	}
}

// PlanCard resolves a card request into its draw operations without
// rendering. Useful for debugging card type settings and for clients that
// preview layout decisions.
func (h *Handler) PlanCard(w http.ResponseWriter, r *http.Request) {
	var req models.CardRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	p, err := h.deps.Creator.Plan(r.Context(), &req)
	if err != nil {
		var verr *validation.RequestValidationError
		if errors.As(err, &verr) {
			apiErr := verr.ToAPIError()
			respondAPIError(w, http.StatusBadRequest, &models.APIError{
				Code:    apiErr.Code,
				Message: apiErr.Message,
				Details: apiErr.Details,
			})
			return
		}

		kind := creator.ClassifyError(err)
		respondError(w, statusForKind(kind), codeForKind(kind), err.Error(), err)
		return
	}

	respondSuccess(w, http.StatusOK, p)
}

// RenderCard renders a single card to disk and returns its report.
// Failures carry the classified kind in the error details so clients can
// distinguish bad requests from server-side render faults.
func (h *Handler) RenderCard(w http.ResponseWriter, r *http.Request) {
	var req models.CardRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	report := h.deps.Creator.Render(r.Context(), &req)
	if !report.Success {
		respondAPIError(w, statusForKind(report.ErrorKind), &models.APIError{
			Code:    codeForKind(report.ErrorKind),
			Message: report.Error,
			Details: map[string]interface{}{
				"error_kind": string(report.ErrorKind),
				"request_id": report.RequestID,
				"card_type":  report.CardType,
			},
		})
		return
	}

	respondSuccess(w, http.StatusOK, report)
}

// RenderBatch renders a set of cards concurrently. The response is always
// the full batch report; individual card failures do not change the HTTP
// status. Only a malformed envelope or an oversized batch is rejected.
func (h *Handler) RenderBatch(w http.ResponseWriter, r *http.Request) {
	var req models.BatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	if max := h.deps.Config.API.MaxBatchSize; max > 0 && len(req.Cards) > max {
		respondError(w, http.StatusBadRequest, "BATCH_TOO_LARGE",
			fmt.Sprintf("batch of %d cards exceeds the maximum of %d", len(req.Cards), max), nil)
		return
	}

	report := h.deps.Creator.RenderBatch(r.Context(), &req)
	respondSuccess(w, http.StatusOK, report)
}
