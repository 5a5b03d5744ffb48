// Cardsmith - Title Card Rendering Engine for Media Servers
// Copyright 2026 Cardsmith Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardsmith/cardsmith

package cardtypes

import (
	"github.com/cardsmith/cardsmith/internal/models"
	"github.com/cardsmith/cardsmith/internal/plan"
)

// The standard card: darkening gradient over the lower half, centered
// title block near the bottom, index text beneath it.
func standardRegistration() Registration {
	return Registration{
		Descriptor: models.CardTypeDescriptor{
			Identifier:  "standard",
			DisplayName: "Standard",
			Description: "Gradient-backed centered title, the default look.",
			Source:      models.SourceBuiltin,
			FontColor:   "white",
			FontCase:    models.CaseUpper,
			FontSize:    160,
			SplitCharacteristics: models.SplitCharacteristics{
				MaxLineWidth: 32,
				MaxLineCount: 3,
				Style:        models.SplitBottom,
			},
			Extras: []models.ExtraDefinition{
				{
					Name: "omit_gradient", Type: models.ExtraBool, Default: false,
					Description: "Skip the darkening gradient over the lower half.",
				},
				{
					Name: "episode_text_color", Type: models.ExtraColor, Default: "#cfcfcf",
					Description: "Color of the season/episode index text.",
				},
				{
					Name: "separator", Type: models.ExtraString, Default: "•",
					Description: "Character drawn between season and episode text.",
				},
			},
			SupportsCustomFonts:   true,
			SupportsCustomSeasons: true,
		},
		Compose: composeStandard,
	}
}

func composeStandard(b *plan.Builder, cc *plan.ComposeContext) error {
	s := cc.Settings

	if !s.ExtraBool("omit_gradient", false) {
		b.VerticalGradient(plan.GradientSpec{
			From:   "transparent",
			To:     "black",
			StartY: cc.Height / 2,
			EndY:   cc.Height,
		})
	}

	index := indexLine(s, s.ExtraString("separator", "•"))
	indexY := cc.Height - cc.Height/18
	b.IndexText(index, cc.Width/2, indexY, plan.AnchorMiddle,
		indexFont(s, s.ExtraString("episode_text_color", "#cfcfcf")))

	titleBase := indexY - cc.Height/10
	_, err := titleBlock(b, cc, cc.Width/2, titleBase, plan.AnchorMiddle)
	return err
}
