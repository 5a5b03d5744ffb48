// Cardsmith - Title Card Rendering Engine for Media Servers
// Copyright 2026 Cardsmith Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardsmith/cardsmith

package pattern

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
)

// Percentage is a parsed fill fraction, used for the music card's
// timeline position. Random percentages are sampled per card.
type Percentage struct {
	Random bool
	Value  float64
}

// ParsePercentage parses a fill spec: the literal "random", a fraction
// in [0, 1], or a percent form like "75%".
func ParsePercentage(spec string) (Percentage, error) {
	body := strings.TrimSpace(spec)
	if strings.EqualFold(body, "random") {
		return Percentage{Random: true}, nil
	}

	scale := 1.0
	if strings.HasSuffix(body, "%") {
		body = strings.TrimSuffix(body, "%")
		scale = 100.0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(body), 64)
	if err != nil {
		return Percentage{}, &ParseError{Spec: spec, Reason: "expected \"random\", a fraction, or a percentage"}
	}
	v /= scale
	if v < 0 || v > 1 {
		return Percentage{}, &ParseError{Spec: spec, Reason: fmt.Sprintf("value %v outside [0, 1]", v)}
	}
	return Percentage{Value: v}, nil
}

// Sample returns the fill fraction for one card. rng must not be nil
// for random percentages.
func (p Percentage) Sample(rng *rand.Rand) float64 {
	if p.Random {
		return rng.Float64()
	}
	return p.Value
}
