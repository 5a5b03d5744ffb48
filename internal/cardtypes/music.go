// Cardsmith - Title Card Rendering Engine for Media Servers
// Copyright 2026 Cardsmith Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardsmith/cardsmith

package cardtypes

import (
	"github.com/cardsmith/cardsmith/internal/logging"
	"github.com/cardsmith/cardsmith/internal/metrics"
	"github.com/cardsmith/cardsmith/internal/models"
	"github.com/cardsmith/cardsmith/internal/pattern"
	"github.com/cardsmith/cardsmith/internal/plan"
)

const defaultPercentageSpec = "random"

// The music card styles the lower left as a media player: a timeline
// track with a position dot, index text above it, title above that.
func musicRegistration() Registration {
	return Registration{
		Descriptor: models.CardTypeDescriptor{
			Identifier:  "music",
			DisplayName: "Music",
			Description: "Media-player timeline in the lower left.",
			Source:      models.SourceBuiltin,
			FontColor:   "white",
			FontCase:    models.CaseUpper,
			FontSize:    120,
			SplitCharacteristics: models.SplitCharacteristics{
				MaxLineWidth: 27,
				MaxLineCount: 3,
				Style:        models.SplitBottom,
			},
			Extras: []models.ExtraDefinition{
				{
					Name: "player_color", Type: models.ExtraColor, Default: "white",
					Description: "Color of the timeline track and index text.",
				},
				{
					Name: "percentage", Type: models.ExtraString, Default: defaultPercentageSpec,
					Description: "Timeline position: \"random\", a fraction, or a percentage.",
				},
				{
					Name: "timeline_color", Type: models.ExtraColor, Default: "crimson",
					Description: "Color of the elapsed timeline portion.",
				},
				{
					Name: "round_corners", Type: models.ExtraBool, Default: true,
					Description: "Round the ends of the timeline track.",
				},
				{
					Name: "player_width", Type: models.ExtraInt, Default: 900,
					Description: "Timeline track width in pixels.",
				},
			},
			SupportsCustomFonts:   true,
			SupportsCustomSeasons: true,
		},
		Compose: composeMusic,
	}
}

func composeMusic(b *plan.Builder, cc *plan.ComposeContext) error {
	s := cc.Settings

	spec := s.ExtraString("percentage", defaultPercentageSpec)
	pct, err := pattern.ParsePercentage(spec)
	if err != nil {
		logging.Warn().Str("card_type", s.CardType).Str("spec", spec).Err(err).
			Msg("Invalid percentage spec, using default")
		metrics.RecordPatternFallback(s.CardType)
		pct = pattern.Percentage{Random: true}
	}
	fill := pct.Sample(cc.Rand)

	const inset = 100
	const trackH = 14
	trackW := s.ExtraInt("player_width", 900)
	trackY := cc.Height - 160

	corner := 0
	if s.ExtraBool("round_corners", true) {
		corner = trackH / 2
	}

	playerColor := s.ExtraString("player_color", "white")
	timelineColor := s.ExtraString("timeline_color", "crimson")

	b.RoundedRectangle(inset, trackY, trackW, trackH, corner, playerColor)
	filled := int(float64(trackW) * fill)
	if filled > 0 {
		b.RoundedRectangle(inset, trackY, filled, trackH, corner, timelineColor)
	}
	b.Circle(inset+filled, trackY+trackH/2, 20, timelineColor)

	index := indexLine(s, "•")
	indexY := trackY - 60
	b.IndexText(index, inset, indexY, plan.AnchorStart, indexFont(s, playerColor))

	_, err = titleBlock(b, cc, inset, indexY-90, plan.AnchorStart)
	return err
}
