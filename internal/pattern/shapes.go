// Cardsmith - Title Card Rendering Engine for Media Servers
// Copyright 2026 Cardsmith Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardsmith/cardsmith

package pattern

import (
	"fmt"
	"math/rand"
	"strings"
)

// Shape names accepted by shape specs.
const (
	ShapeCircle       = "circle"
	ShapeSquare       = "square"
	ShapeDiamond      = "diamond"
	ShapeTriangleUp   = "triangle_up"
	ShapeTriangleDown = "triangle_down"
)

var knownShapes = map[string]bool{
	ShapeCircle:       true,
	ShapeSquare:       true,
	ShapeDiamond:      true,
	ShapeTriangleUp:   true,
	ShapeTriangleDown: true,
}

// ShapeSpec is a parsed shape selection. A plain spec names one shape;
// a random spec lists candidates drawn with replacement, so selection
// probability is proportional to how often a name appears in the list.
type ShapeSpec struct {
	Random bool
	Tokens []string
	Source string
}

// ParseShape parses a shape spec: either a single shape name or
// random[name,name,...]. Unknown shape names are rejected.
func ParseShape(spec string) (*ShapeSpec, error) {
	s := &ShapeSpec{Source: spec}
	body := strings.TrimSpace(spec)

	if strings.HasPrefix(body, "random") {
		rest := body[len("random"):]
		if !strings.HasPrefix(rest, "[") || !strings.HasSuffix(rest, "]") {
			return nil, &ParseError{Spec: spec, Reason: "malformed random[...] wrapper"}
		}
		s.Random = true
		body = rest[1 : len(rest)-1]
	}

	if strings.TrimSpace(body) == "" {
		return nil, &ParseError{Spec: spec, Reason: "empty shape spec"}
	}

	for _, token := range strings.Split(body, ",") {
		token = strings.ToLower(strings.TrimSpace(token))
		if !knownShapes[token] {
			return nil, &ParseError{Spec: spec, Reason: fmt.Sprintf("unknown shape %q", token)}
		}
		s.Tokens = append(s.Tokens, token)
	}

	if !s.Random && len(s.Tokens) != 1 {
		return nil, &ParseError{Spec: spec, Reason: "plain specs name exactly one shape; use random[...] to list candidates"}
	}
	return s, nil
}

// Select picks the shape for one card. Plain specs always return their
// single shape; random specs draw uniformly over the token list, which
// weights each name by its repetition count. rng must not be nil for
// random specs.
func (s *ShapeSpec) Select(rng *rand.Rand) string {
	if !s.Random {
		return s.Tokens[0]
	}
	return s.Tokens[rng.Intn(len(s.Tokens))]
}
