// Cardsmith - Title Card Rendering Engine for Media Servers
// Copyright 2026 Cardsmith Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardsmith/cardsmith

package pattern

import (
	"math/rand"
	"testing"
)

func TestParseShapePlain(t *testing.T) {
	spec, err := ParseShape(" Diamond ")
	if err != nil {
		t.Fatalf("ParseShape: %v", err)
	}
	if spec.Random {
		t.Error("plain spec parsed as random")
	}
	if got := spec.Select(nil); got != ShapeDiamond {
		t.Errorf("Select = %q, want diamond", got)
	}
}

func TestParseShapeRandom(t *testing.T) {
	spec, err := ParseShape("random[square,square,square,diamond]")
	if err != nil {
		t.Fatalf("ParseShape: %v", err)
	}
	if !spec.Random || len(spec.Tokens) != 4 {
		t.Errorf("random/tokens = %v/%d, want true/4", spec.Random, len(spec.Tokens))
	}
}

func TestParseShapeErrors(t *testing.T) {
	specs := []string{
		"",
		"blob",
		"random[square",
		"random[]",
		"square,diamond",
		"random[square,blob]",
	}
	for _, spec := range specs {
		if _, err := ParseShape(spec); err == nil {
			t.Errorf("ParseShape(%q) accepted invalid spec", spec)
		}
	}
}

func TestShapeWeightedSelection(t *testing.T) {
	spec, err := ParseShape("random[square,square,square,diamond]")
	if err != nil {
		t.Fatalf("ParseShape: %v", err)
	}

	rng := rand.New(rand.NewSource(1))
	const draws = 10000
	squares := 0
	for i := 0; i < draws; i++ {
		if spec.Select(rng) == ShapeSquare {
			squares++
		}
	}

	share := float64(squares) / float64(draws)
	if share < 0.73 || share > 0.77 {
		t.Errorf("square share = %.3f over %d draws, want about 0.75", share, draws)
	}
}
