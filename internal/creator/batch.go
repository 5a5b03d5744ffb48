// Cardsmith - Title Card Rendering Engine for Media Servers
// Copyright 2026 Cardsmith Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardsmith/cardsmith

package creator

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cardsmith/cardsmith/internal/logging"
	"github.com/cardsmith/cardsmith/internal/metrics"
	"github.com/cardsmith/cardsmith/internal/models"
)

// RenderBatch renders every card in the request over a bounded worker
// pool. Each card gets its own timeout and failure never propagates to
// its siblings; the report carries one entry per card in request order.
func (c *Creator) RenderBatch(ctx context.Context, req *models.BatchRequest) *models.BatchReport {
	start := time.Now()
	batchID := uuid.New().String()

	workers := c.workers
	if req.MaxConcurrent > 0 {
		workers = req.MaxConcurrent
	}

	report := &models.BatchReport{
		BatchID: batchID,
		Total:   len(req.Cards),
		Cards:   make([]models.CardReport, len(req.Cards)),
	}

	metrics.RecordBatch(len(req.Cards))
	if c.progress != nil {
		c.progress.BatchStarted(batchID, len(req.Cards))
	}
	logging.Info().
		Str("batch_id", batchID).
		Int("cards", len(req.Cards)).
		Int("workers", workers).
		Msg("Batch render started")

	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)

	for i := range req.Cards {
		wg.Add(1)
		sem <- struct{}{}

		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			cardCtx, cancel := context.WithTimeout(ctx, c.cardTimeout)
			defer cancel()

			// Each goroutine owns a distinct slice index.
			report.Cards[idx] = *c.Render(cardCtx, &req.Cards[idx])
		}(i)
	}

	wg.Wait()

	for i := range report.Cards {
		if report.Cards[i].Success {
			report.Succeeded++
		} else {
			report.Failed++
		}
	}
	report.DurationMS = time.Since(start).Milliseconds()

	if c.progress != nil {
		c.progress.BatchFinished(*report)
	}
	logging.Info().
		Str("batch_id", batchID).
		Int("succeeded", report.Succeeded).
		Int("failed", report.Failed).
		Int64("elapsed_ms", report.DurationMS).
		Msg("Batch render finished")

	return report
}
