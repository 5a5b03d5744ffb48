// Cardsmith - Title Card Rendering Engine for Media Servers
// Copyright 2026 Cardsmith Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardsmith/cardsmith

// Package colors parses the color strings accepted in card type schemas,
// extras values, and draw operations. Supported forms are SVG 1.1 color
// names ("crimson", "white"), hex notation (#rgb, #rrggbb, #rrggbbaa),
// and the special value "transparent" (alias "none").
package colors

import (
	"fmt"
	"image/color"
	"strings"

	"golang.org/x/image/colornames"
)

// Transparent is fully transparent black.
var Transparent = color.NRGBA{R: 0, G: 0, B: 0, A: 0}

// Parse converts a color string to NRGBA. Names are case-insensitive.
func Parse(s string) (color.NRGBA, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return color.NRGBA{}, fmt.Errorf("empty color")
	}

	if name == "transparent" || name == "none" {
		return Transparent, nil
	}

	if strings.HasPrefix(name, "#") {
		return parseHex(name)
	}

	if c, ok := colornames.Map[name]; ok {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
	}

	return color.NRGBA{}, fmt.Errorf("unknown color %q", s)
}

// MustParse is Parse for compiled-in defaults; it panics on invalid input.
func MustParse(s string) color.NRGBA {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// IsValid reports whether s parses as a color.
func IsValid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// ParseOr parses s, returning fallback when s is empty or invalid.
func ParseOr(s string, fallback color.NRGBA) color.NRGBA {
	c, err := Parse(s)
	if err != nil {
		return fallback
	}
	return c
}

func parseHex(s string) (color.NRGBA, error) {
	hex := s[1:]
	switch len(hex) {
	case 3:
		r, okR := hexNibble(hex[0])
		g, okG := hexNibble(hex[1])
		b, okB := hexNibble(hex[2])
		if !okR || !okG || !okB {
			return color.NRGBA{}, fmt.Errorf("invalid hex color %q", s)
		}
		return color.NRGBA{R: r * 17, G: g * 17, B: b * 17, A: 255}, nil
	case 6, 8:
		var vals [4]uint8
		vals[3] = 255
		for i := 0; i < len(hex)/2; i++ {
			hi, okH := hexNibble(hex[2*i])
			lo, okL := hexNibble(hex[2*i+1])
			if !okH || !okL {
				return color.NRGBA{}, fmt.Errorf("invalid hex color %q", s)
			}
			vals[i] = hi<<4 | lo
		}
		return color.NRGBA{R: vals[0], G: vals[1], B: vals[2], A: vals[3]}, nil
	default:
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
}

func hexNibble(b byte) (uint8, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	}
	return 0, false
}
