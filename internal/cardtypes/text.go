// Cardsmith - Title Card Rendering Engine for Media Servers
// Copyright 2026 Cardsmith Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardsmith/cardsmith

package cardtypes

import (
	"github.com/cardsmith/cardsmith/internal/models"
	"github.com/cardsmith/cardsmith/internal/plan"
)

// indexTextSize is the point size for season/episode index text across
// all built-in types.
const indexTextSize = 60.0

// indexLine assembles the index string from the resolved season and
// episode text. Either part may be empty; both empty yields an empty
// string, which the plan builder drops.
func indexLine(s *models.EffectiveCardSettings, separator string) string {
	switch {
	case s.SeasonText != "" && s.EpisodeText != "":
		return s.SeasonText + " " + separator + " " + s.EpisodeText
	case s.SeasonText != "":
		return s.SeasonText
	default:
		return s.EpisodeText
	}
}

// indexFont derives the index-text font from the title font: same file,
// fixed smaller size, no stroke, recolored when color is non-empty.
func indexFont(s *models.EffectiveCardSettings, color string) models.FontSpec {
	f := s.Font
	f.Size = indexTextSize
	f.StrokeWidth = 0
	f.StrokeColor = ""
	if color != "" {
		f.Color = color
	}
	return f
}

// titleBlock draws the title lines stacked upward so the last line's
// baseline sits at baseY, honoring the font's vertical shift (positive
// shifts the block up). It returns the top line's baseline for callers
// that stack further elements above the block.
func titleBlock(b *plan.Builder, cc *plan.ComposeContext, x, baseY int, anchor plan.Anchor) (int, error) {
	if len(cc.Lines) == 0 {
		return baseY, nil
	}

	font := cc.Settings.Font
	lineH, err := cc.Fonts.LineHeight(font)
	if err != nil {
		return 0, err
	}

	base := baseY - font.VerticalShift
	top := base - lineH*(len(cc.Lines)-1)
	for i, line := range cc.Lines {
		b.TitleText(line, x, top+i*lineH, anchor, font)
	}
	return top, nil
}
