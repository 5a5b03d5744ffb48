// Cardsmith - Title Card Rendering Engine for Media Servers
// Copyright 2026 Cardsmith Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardsmith/cardsmith

package fonts

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/cardsmith/cardsmith/internal/models"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(t.TempDir(), 16)
	if err != nil {
		t.Fatalf("Expected manager to initialize, got: %v", err)
	}
	return m
}

func TestMeasureEmbeddedFace(t *testing.T) {
	m := newTestManager(t)

	spec := models.FontSpec{Size: 48}
	got, err := m.Measure("Hello", spec)
	if err != nil {
		t.Fatalf("Expected measurement to succeed, got: %v", err)
	}
	if got.Width <= 0 || got.Height <= 0 {
		t.Errorf("Expected positive dimensions, got %dx%d", got.Width, got.Height)
	}

	longer, err := m.Measure("Hello World Longer", spec)
	if err != nil {
		t.Fatalf("Expected measurement to succeed, got: %v", err)
	}
	if longer.Width <= got.Width {
		t.Errorf("Expected longer string to be wider: %d vs %d", longer.Width, got.Width)
	}
}

func TestMeasureDeterministic(t *testing.T) {
	m := newTestManager(t)
	spec := models.FontSpec{Size: 64}

	first, err := m.Measure("The One After", spec)
	if err != nil {
		t.Fatalf("Expected measurement to succeed, got: %v", err)
	}
	second, err := m.Measure("The One After", spec)
	if err != nil {
		t.Fatalf("Expected measurement to succeed, got: %v", err)
	}
	if first != second {
		t.Errorf("Expected identical measurements, got %v vs %v", first, second)
	}
}

func TestMeasureKerningAndInterword(t *testing.T) {
	m := newTestManager(t)

	base, err := m.Measure("a b", models.FontSpec{Size: 48})
	if err != nil {
		t.Fatalf("Expected measurement to succeed, got: %v", err)
	}

	kerned, err := m.Measure("a b", models.FontSpec{Size: 48, Kerning: 5})
	if err != nil {
		t.Fatalf("Expected measurement to succeed, got: %v", err)
	}
	if kerned.Width != base.Width+10 {
		t.Errorf("Expected kerning to add 10px, got %d vs %d", kerned.Width, base.Width)
	}

	spaced, err := m.Measure("a b", models.FontSpec{Size: 48, InterwordSpacing: 20})
	if err != nil {
		t.Fatalf("Expected measurement to succeed, got: %v", err)
	}
	if spaced.Width != base.Width+20 {
		t.Errorf("Expected interword spacing to add 20px, got %d vs %d", spaced.Width, base.Width)
	}
}

func TestLoadErrorOnMissingFile(t *testing.T) {
	m := newTestManager(t)

	_, err := m.Measure("x", models.FontSpec{File: "missing.ttf", Size: 48})
	if err == nil {
		t.Fatal("Expected error for missing font file")
	}

	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("Expected LoadError, got %T: %v", err, err)
	}
	if loadErr.Path == "" {
		t.Error("Expected LoadError to carry the offending path")
	}
}

func TestLoadErrorOnCorruptFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.ttf"), []byte("not a font"), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := NewManager(dir, 16)
	if err != nil {
		t.Fatal(err)
	}

	_, err = m.Face("bad.ttf", 48)
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("Expected LoadError for corrupt font, got %T: %v", err, err)
	}
}

func TestFontFileCaching(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "go.ttf"), goregular.TTF, 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := NewManager(dir, 16)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		if _, err := m.Face("go.ttf", 48); err != nil {
			t.Fatalf("Expected face creation to succeed, got: %v", err)
		}
	}

	stats := m.CacheStats()
	if stats.Hits < 2 {
		t.Errorf("Expected at least 2 cache hits, got %d", stats.Hits)
	}
	if stats.Size != 1 {
		t.Errorf("Expected 1 cached font, got %d", stats.Size)
	}
}

func TestLineHeight(t *testing.T) {
	m := newTestManager(t)

	plain, err := m.LineHeight(models.FontSpec{Size: 48})
	if err != nil {
		t.Fatalf("Expected line height, got: %v", err)
	}
	if plain <= 0 {
		t.Errorf("Expected positive line height, got %d", plain)
	}

	spaced, err := m.LineHeight(models.FontSpec{Size: 48, InterlineSpacing: 15})
	if err != nil {
		t.Fatalf("Expected line height, got: %v", err)
	}
	if spaced != plain+15 {
		t.Errorf("Expected interline spacing to add 15, got %d vs %d", spaced, plain)
	}
}
