// Cardsmith - Title Card Rendering Engine for Media Servers
// Copyright 2026 Cardsmith Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardsmith/cardsmith

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordRenderSuccess(t *testing.T) {
	before := testutil.ToFloat64(RendersTotal.WithLabelValues("standard", "success"))

	RecordRenderSuccess("standard", 120*time.Millisecond)

	after := testutil.ToFloat64(RendersTotal.WithLabelValues("standard", "success"))
	if after != before+1 {
		t.Errorf("success counter = %f, want %f", after, before+1)
	}
}

func TestRecordRenderFailure(t *testing.T) {
	beforeTotal := testutil.ToFloat64(RendersTotal.WithLabelValues("anime", "failure"))
	beforeKind := testutil.ToFloat64(RenderErrors.WithLabelValues("anime", "missing_source"))

	RecordRenderFailure("anime", "missing_source", 5*time.Millisecond)

	if got := testutil.ToFloat64(RendersTotal.WithLabelValues("anime", "failure")); got != beforeTotal+1 {
		t.Errorf("failure counter = %f, want %f", got, beforeTotal+1)
	}
	if got := testutil.ToFloat64(RenderErrors.WithLabelValues("anime", "missing_source")); got != beforeKind+1 {
		t.Errorf("error kind counter = %f, want %f", got, beforeKind+1)
	}
}

func TestRecordBatch(t *testing.T) {
	before := testutil.ToFloat64(BatchesTotal)

	RecordBatch(25)

	if got := testutil.ToFloat64(BatchesTotal); got != before+1 {
		t.Errorf("batches counter = %f, want %f", got, before+1)
	}
}

func TestSetRegistryCardTypes(t *testing.T) {
	SetRegistryCardTypes("builtin", 6)
	SetRegistryCardTypes("remote", 3)
	SetRegistryCardTypes("remote", 2)

	if got := testutil.ToFloat64(RegistryCardTypes.WithLabelValues("builtin")); got != 6 {
		t.Errorf("builtin gauge = %f, want 6", got)
	}
	// Gauge holds the latest value, not a sum.
	if got := testutil.ToFloat64(RegistryCardTypes.WithLabelValues("remote")); got != 2 {
		t.Errorf("remote gauge = %f, want 2", got)
	}
}

func TestRecordRegistryRefresh(t *testing.T) {
	beforeOK := testutil.ToFloat64(RegistryRefreshes.WithLabelValues("success"))
	beforeFail := testutil.ToFloat64(RegistryRefreshes.WithLabelValues("failure"))

	RecordRegistryRefresh(true)
	RecordRegistryRefresh(false)

	if got := testutil.ToFloat64(RegistryRefreshes.WithLabelValues("success")); got != beforeOK+1 {
		t.Errorf("success refreshes = %f, want %f", got, beforeOK+1)
	}
	if got := testutil.ToFloat64(RegistryRefreshes.WithLabelValues("failure")); got != beforeFail+1 {
		t.Errorf("failure refreshes = %f, want %f", got, beforeFail+1)
	}
}

func TestRecordHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/cards/render", "200"))

	RecordHTTPRequest("POST", "/api/v1/cards/render", "200", 80*time.Millisecond)

	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/cards/render", "200"))
	if after != before+1 {
		t.Errorf("http counter = %f, want %f", after, before+1)
	}
}

func TestFontCacheCounters(t *testing.T) {
	hits := testutil.ToFloat64(FontCacheHits)
	misses := testutil.ToFloat64(FontCacheMisses)

	RecordFontCacheHit()
	RecordFontCacheHit()
	RecordFontCacheMiss()

	if got := testutil.ToFloat64(FontCacheHits); got != hits+2 {
		t.Errorf("hits = %f, want %f", got, hits+2)
	}
	if got := testutil.ToFloat64(FontCacheMisses); got != misses+1 {
		t.Errorf("misses = %f, want %f", got, misses+1)
	}
}

func TestRecordWebsocketMessage(t *testing.T) {
	before := testutil.ToFloat64(WebsocketMessages.WithLabelValues("card_rendered"))

	RecordWebsocketMessage("card_rendered")

	if got := testutil.ToFloat64(WebsocketMessages.WithLabelValues("card_rendered")); got != before+1 {
		t.Errorf("websocket messages = %f, want %f", got, before+1)
	}
}
