// Cardsmith - Title Card Rendering Engine for Media Servers
// Copyright 2026 Cardsmith Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardsmith/cardsmith

package pattern

import (
	"math/rand"
	"reflect"
	"testing"
)

func TestParseStripesForms(t *testing.T) {
	tests := []struct {
		spec    string
		random  bool
		repeat  bool
		entries int
	}{
		{"random[ssmmlll]", true, false, 7},
		{"random[10,100,400]", true, false, 3},
		{"random[10-50,100-200]", true, false, 2},
		{"sml", false, false, 3},
		{"10,100,400", false, false, 3},
		{"10,100,400+", false, true, 3},
		{"10-50,60,70-80+", false, true, 3},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			def, err := ParseStripes(tt.spec)
			if err != nil {
				t.Fatalf("ParseStripes(%q): %v", tt.spec, err)
			}
			if def.Random != tt.random || def.Repeat != tt.repeat {
				t.Errorf("random/repeat = %v/%v, want %v/%v", def.Random, def.Repeat, tt.random, tt.repeat)
			}
			if len(def.Entries) != tt.entries {
				t.Errorf("entries = %d, want %d", len(def.Entries), tt.entries)
			}
			if def.Source != tt.spec {
				t.Errorf("source = %q, want %q", def.Source, tt.spec)
			}
		})
	}
}

func TestParseStripesErrors(t *testing.T) {
	specs := []string{
		"",
		"random[ssm]+",
		"random[",
		"random ssm",
		"random[]",
		"abc",
		"s,10",
		"5-2",
		"0",
		"-5",
		"10,,20",
		"0-50",
	}
	for _, spec := range specs {
		if _, err := ParseStripes(spec); err == nil {
			t.Errorf("ParseStripes(%q) accepted invalid spec", spec)
		} else if _, ok := err.(*ParseError); !ok {
			t.Errorf("ParseStripes(%q) error type %T, want *ParseError", spec, err)
		}
	}
}

func TestStripesRepeatFillSequence(t *testing.T) {
	def, err := ParseStripes("10,100,400+")
	if err != nil {
		t.Fatalf("ParseStripes: %v", err)
	}

	got := def.Widths(1000, 0, nil)
	want := []int{10, 100, 400, 10, 100, 400}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Widths = %v, want %v", got, want)
	}
}

func TestStripesFillWithSpacing(t *testing.T) {
	def, err := ParseStripes("100+")
	if err != nil {
		t.Fatalf("ParseStripes: %v", err)
	}

	// 100px stripes with 10px gaps: nine stripes span 980px, ten span 1090.
	got := def.Widths(1000, 10, nil)
	if len(got) != 10 {
		t.Errorf("Widths produced %d stripes, want 10", len(got))
	}
}

func TestStripesPlainIgnoresFill(t *testing.T) {
	def, err := ParseStripes("10,100,400")
	if err != nil {
		t.Fatalf("ParseStripes: %v", err)
	}

	want := []int{10, 100, 400}
	for _, fill := range []int{0, 50, 100000} {
		if got := def.Widths(fill, 4, nil); !reflect.DeepEqual(got, want) {
			t.Errorf("Widths(fill=%d) = %v, want exact list %v", fill, got, want)
		}
	}
}

func TestStripesFillBounds(t *testing.T) {
	def, err := ParseStripes("random[sml]")
	if err != nil {
		t.Fatalf("ParseStripes: %v", err)
	}

	rng := rand.New(rand.NewSource(7))
	const fill, spacing = 2000, 6
	for i := 0; i < 50; i++ {
		widths := def.Widths(fill, spacing, rng)
		total := spacing * (len(widths) - 1)
		for _, w := range widths {
			total += w
		}
		if total < fill {
			t.Fatalf("draw %d: cumulative %d short of fill %d", i, total, fill)
		}
		// Without the final stripe the target must not yet be reached.
		last := widths[len(widths)-1]
		if total-last-spacing >= fill {
			t.Fatalf("draw %d: overshot by more than one stripe (total %d, last %d)", i, total, last)
		}
	}
}

func TestStripesRandomWeighting(t *testing.T) {
	def, err := ParseStripes("random[10,10,10,50]")
	if err != nil {
		t.Fatalf("ParseStripes: %v", err)
	}

	rng := rand.New(rand.NewSource(42))
	widths := def.Widths(100000, 0, rng)

	narrow := 0
	for _, w := range widths {
		if w == 10 {
			narrow++
		}
	}
	share := float64(narrow) / float64(len(widths))
	if share < 0.72 || share > 0.78 {
		t.Errorf("narrow stripe share = %.3f over %d draws, want about 0.75", share, len(widths))
	}
}

func TestStripesLetterBuckets(t *testing.T) {
	buckets := []struct {
		letter string
		lo, hi int
	}{
		{"s", 10, 50},
		{"m", 50, 150},
		{"l", 150, 300},
	}

	rng := rand.New(rand.NewSource(3))
	for _, b := range buckets {
		def, err := ParseStripes(b.letter)
		if err != nil {
			t.Fatalf("ParseStripes(%q): %v", b.letter, err)
		}
		for i := 0; i < 200; i++ {
			w := def.Widths(0, 0, rng)[0]
			if w < b.lo || w > b.hi {
				t.Fatalf("letter %s produced width %d outside [%d, %d]", b.letter, w, b.lo, b.hi)
			}
		}
	}
}
