// Cardsmith - Title Card Rendering Engine for Media Servers
// Copyright 2026 Cardsmith Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardsmith/cardsmith

package creator

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/cardsmith/cardsmith/internal/models"
)

type recordingSink struct {
	mu       sync.Mutex
	batchID  string
	total    int
	cards    []models.CardReport
	finished []models.BatchReport
}

func (s *recordingSink) CardRendered(report models.CardReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cards = append(s.cards, report)
}

func (s *recordingSink) BatchStarted(batchID string, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batchID = batchID
	s.total = total
}

func (s *recordingSink) BatchFinished(report models.BatchReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finished = append(s.finished, report)
}

func TestRenderBatchIsolation(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "s01e01.png")
	third := filepath.Join(dir, "s01e03.png")
	writeSourcePNG(t, first, 64, 36)
	writeSourcePNG(t, third, 64, 36)

	c := testCreator(t, Config{OutputDir: dir})
	req := &models.BatchRequest{
		MaxConcurrent: 2,
		Cards: []models.CardRequest{
			{CardType: "standard", Title: "Pilot", SourceImage: first},
			{CardType: "standard", Title: "Missing", SourceImage: filepath.Join(dir, "absent.png")},
			{CardType: "standard", Title: "Third", SourceImage: third},
		},
	}

	report := c.RenderBatch(context.Background(), req)
	if report.BatchID == "" {
		t.Error("report missing batch id")
	}
	if report.Total != 3 {
		t.Errorf("Total = %d, want 3", report.Total)
	}
	if report.Succeeded != 2 || report.Failed != 1 {
		t.Errorf("Succeeded/Failed = %d/%d, want 2/1", report.Succeeded, report.Failed)
	}
	if len(report.Cards) != 3 {
		t.Fatalf("Cards = %d entries, want 3", len(report.Cards))
	}

	// Per-card reports keep request order regardless of completion order.
	if !report.Cards[0].Success || report.Cards[0].Title != "Pilot" {
		t.Errorf("card 0 = %+v", report.Cards[0])
	}
	if report.Cards[1].Success {
		t.Error("card 1 should have failed")
	}
	if report.Cards[1].ErrorKind != models.ErrorKindMissingSource {
		t.Errorf("card 1 kind = %q, want %q", report.Cards[1].ErrorKind, models.ErrorKindMissingSource)
	}
	if !report.Cards[2].Success || report.Cards[2].Title != "Third" {
		t.Errorf("card 2 = %+v", report.Cards[2])
	}
}

func TestRenderBatchProgress(t *testing.T) {
	dir := t.TempDir()
	one := filepath.Join(dir, "one.png")
	two := filepath.Join(dir, "two.png")
	writeSourcePNG(t, one, 64, 36)
	writeSourcePNG(t, two, 64, 36)

	sink := &recordingSink{}
	c := testCreator(t, Config{OutputDir: dir, Progress: sink})
	report := c.RenderBatch(context.Background(), &models.BatchRequest{
		Cards: []models.CardRequest{
			{CardType: "standard", Title: "One", SourceImage: one},
			{CardType: "standard", Title: "Two", SourceImage: two},
		},
	})

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if sink.batchID != report.BatchID {
		t.Errorf("BatchStarted id = %q, want %q", sink.batchID, report.BatchID)
	}
	if sink.total != 2 {
		t.Errorf("BatchStarted total = %d, want 2", sink.total)
	}
	if len(sink.cards) != 2 {
		t.Errorf("CardRendered events = %d, want 2", len(sink.cards))
	}
	if len(sink.finished) != 1 {
		t.Fatalf("BatchFinished events = %d, want 1", len(sink.finished))
	}
	if sink.finished[0].Succeeded != 2 {
		t.Errorf("finished report = %+v", sink.finished[0])
	}
}

func TestRenderBatchEmpty(t *testing.T) {
	c := testCreator(t, Config{})
	report := c.RenderBatch(context.Background(), &models.BatchRequest{})
	if report.Total != 0 || report.Succeeded != 0 || report.Failed != 0 {
		t.Errorf("report = %+v, want all zero", report)
	}
}
