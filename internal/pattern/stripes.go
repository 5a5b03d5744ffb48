// Cardsmith - Title Card Rendering Engine for Media Servers
// Copyright 2026 Cardsmith Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardsmith/cardsmith

// Package pattern parses and samples the randomized visual parameter
// grammars used by card types: stripe definitions, weighted shape
// selections, and fill percentages.
//
// Parsing is deterministic and cheap; sampling takes an explicit
// *rand.Rand so production draws fresh per render while tests seed it.
// A malformed spec yields a *ParseError; callers fall back to the card
// type's default spec rather than failing the render.
package pattern

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
)

// ParseError reports a pattern spec the grammar does not accept.
type ParseError struct {
	Spec   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("pattern spec %q: %s", e.Spec, e.Reason)
}

// EntryKind distinguishes how one stripe entry yields a width.
type EntryKind int

const (
	// EntryFixed uses Width verbatim.
	EntryFixed EntryKind = iota
	// EntryRange samples uniformly from [Lo, Hi].
	EntryRange
	// EntryLetter is a bucket shorthand; Lo/Hi carry the bucket range.
	EntryLetter
)

// StripeEntry is one element of a stripe definition.
type StripeEntry struct {
	Kind   EntryKind
	Letter rune
	Width  int
	Lo, Hi int
}

// StripeDefinition is a parsed stripe spec. Random definitions draw
// entries with replacement, weighted by how often each entry appears.
// Repeat definitions cycle the entry list in order until the fill target
// is met; plain definitions emit the list exactly once.
type StripeDefinition struct {
	Random  bool
	Repeat  bool
	Entries []StripeEntry
	Source  string
}

// Width buckets for the letter shorthand: s(mall), m(edium), l(arge).
var letterBuckets = map[rune][2]int{
	's': {10, 50},
	'm': {50, 150},
	'l': {150, 300},
}

// ParseStripes parses a stripe definition spec. The grammar accepts six
// forms: letters, fixed widths, or ranges, each either wrapped in
// random[...] or given as a plain comma list with an optional trailing +
// meaning "repeat until full". Letters cannot be mixed with widths or
// ranges. Random specs fill automatically, so a + suffix on one is an
// error rather than a silent no-op.
func ParseStripes(spec string) (*StripeDefinition, error) {
	def := &StripeDefinition{Source: spec}
	body := strings.TrimSpace(spec)

	if strings.HasPrefix(body, "random") {
		rest := body[len("random"):]
		if strings.HasPrefix(rest, "[") && strings.HasSuffix(rest, "]+") {
			return nil, &ParseError{Spec: spec, Reason: "random definitions repeat until full; remove the + suffix"}
		}
		if !strings.HasPrefix(rest, "[") || !strings.HasSuffix(rest, "]") {
			return nil, &ParseError{Spec: spec, Reason: "malformed random[...] wrapper"}
		}
		def.Random = true
		body = rest[1 : len(rest)-1]
	} else if strings.HasSuffix(body, "+") {
		def.Repeat = true
		body = strings.TrimSuffix(body, "+")
	}

	body = strings.TrimSpace(body)
	if body == "" {
		return nil, &ParseError{Spec: spec, Reason: "empty definition"}
	}

	entries, err := parseEntries(spec, body)
	if err != nil {
		return nil, err
	}
	def.Entries = entries
	return def, nil
}

// parseEntries parses the bracket/list body. A body with no commas or
// digits is the letter shorthand; anything else is a comma list of fixed
// widths and lo-hi ranges.
func parseEntries(spec, body string) ([]StripeEntry, error) {
	if !strings.ContainsAny(body, "0123456789,") {
		entries := make([]StripeEntry, 0, len(body))
		for _, r := range body {
			bucket, ok := letterBuckets[r]
			if !ok {
				return nil, &ParseError{Spec: spec, Reason: fmt.Sprintf("unknown stripe letter %q", r)}
			}
			entries = append(entries, StripeEntry{Kind: EntryLetter, Letter: r, Lo: bucket[0], Hi: bucket[1]})
		}
		return entries, nil
	}

	tokens := strings.Split(body, ",")
	entries := make([]StripeEntry, 0, len(tokens))
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token == "" {
			return nil, &ParseError{Spec: spec, Reason: "empty entry in list"}
		}
		entry, err := parseNumericEntry(spec, token)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func parseNumericEntry(spec, token string) (StripeEntry, error) {
	if lo, hi, ok := strings.Cut(token, "-"); ok {
		loN, err1 := strconv.Atoi(strings.TrimSpace(lo))
		hiN, err2 := strconv.Atoi(strings.TrimSpace(hi))
		if err1 != nil || err2 != nil {
			return StripeEntry{}, &ParseError{Spec: spec, Reason: fmt.Sprintf("malformed range %q", token)}
		}
		if loN < 1 {
			return StripeEntry{}, &ParseError{Spec: spec, Reason: fmt.Sprintf("range %q must start at 1 or above", token)}
		}
		if hiN < loN {
			return StripeEntry{}, &ParseError{Spec: spec, Reason: fmt.Sprintf("range %q has upper bound below lower", token)}
		}
		return StripeEntry{Kind: EntryRange, Lo: loN, Hi: hiN}, nil
	}

	width, err := strconv.Atoi(token)
	if err != nil {
		return StripeEntry{}, &ParseError{Spec: spec, Reason: fmt.Sprintf("entry %q is neither a width, a range, nor a known letter", token)}
	}
	if width < 1 {
		return StripeEntry{}, &ParseError{Spec: spec, Reason: fmt.Sprintf("width %d is not positive", width)}
	}
	return StripeEntry{Kind: EntryFixed, Width: width}, nil
}

// maxStripes is a hard stop against degenerate fill loops.
const maxStripes = 4096

// Widths produces the stripe widths for one card. fill is the target
// extent in pixels and spacing the gap inserted between consecutive
// stripes; generation stops at the first stripe whose addition makes the
// cumulative extent reach or exceed fill, so the result never falls short
// and never overshoots by more than one stripe. Plain definitions ignore
// fill and emit their entries exactly once. rng must not be nil when the
// definition is random or contains letters or ranges.
func (d *StripeDefinition) Widths(fill, spacing int, rng *rand.Rand) []int {
	if !d.Random && !d.Repeat {
		widths := make([]int, len(d.Entries))
		for i, e := range d.Entries {
			widths[i] = e.sample(rng)
		}
		return widths
	}

	var widths []int
	cumulative := 0
	for i := 0; cumulative < fill && len(widths) < maxStripes; i++ {
		var e StripeEntry
		if d.Random {
			e = d.Entries[rng.Intn(len(d.Entries))]
		} else {
			e = d.Entries[i%len(d.Entries)]
		}
		w := e.sample(rng)
		if len(widths) > 0 {
			cumulative += spacing
		}
		cumulative += w
		widths = append(widths, w)
	}
	return widths
}

func (e StripeEntry) sample(rng *rand.Rand) int {
	if e.Kind == EntryFixed {
		return e.Width
	}
	return e.Lo + rng.Intn(e.Hi-e.Lo+1)
}
