// Cardsmith - Title Card Rendering Engine for Media Servers
// Copyright 2026 Cardsmith Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardsmith/cardsmith

package cardtypes

import (
	"math"

	"github.com/cardsmith/cardsmith/internal/logging"
	"github.com/cardsmith/cardsmith/internal/metrics"
	"github.com/cardsmith/cardsmith/internal/models"
	"github.com/cardsmith/cardsmith/internal/pattern"
	"github.com/cardsmith/cardsmith/internal/plan"
)

const defaultStripeSpec = "random[ssmmlll]"

// The striped card fills a band along the bottom with slanted stripes
// generated from a stripe definition, title above the band and index
// text inside it.
func stripedRegistration() Registration {
	return Registration{
		Descriptor: models.CardTypeDescriptor{
			Identifier:  "striped",
			DisplayName: "Striped",
			Description: "Slanted stripe band along the bottom edge.",
			Source:      models.SourceBuiltin,
			FontColor:   "white",
			FontCase:    models.CaseUpper,
			FontSize:    130,
			SplitCharacteristics: models.SplitCharacteristics{
				MaxLineWidth: 25,
				MaxLineCount: 2,
				Style:        models.SplitBottom,
			},
			Extras: []models.ExtraDefinition{
				{
					Name: "definition", Type: models.ExtraString, Default: defaultStripeSpec,
					Description: "Stripe widths: letters, fixed widths, or ranges, plain or random[...].",
				},
				{
					Name: "stripe_color", Type: models.ExtraColor, Default: "white",
					Description: "Fill color of the stripes.",
				},
				{
					Name: "inter_stripe_spacing", Type: models.ExtraInt, Default: 8,
					Description: "Gap between consecutive stripes in pixels.",
				},
				{
					Name: "inset", Type: models.ExtraInt, Default: 50,
					Description: "Band distance from the canvas edges in pixels.",
				},
				{
					Name: "overlay_color", Type: models.ExtraColor,
					Description: "Optional color washed over the whole image first.",
				},
				{
					Name: "angle", Type: models.ExtraFloat, Default: 79.5,
					Description: "Stripe slant in degrees from horizontal; 90 is vertical.",
				},
				{
					Name: "episode_text_color", Type: models.ExtraColor, Default: "black",
					Description: "Index text color drawn over the stripes.",
				},
			},
			SupportsCustomFonts:   true,
			SupportsCustomSeasons: true,
		},
		Compose: composeStriped,
	}
}

func composeStriped(b *plan.Builder, cc *plan.ComposeContext) error {
	s := cc.Settings

	spec := s.ExtraString("definition", defaultStripeSpec)
	def, err := pattern.ParseStripes(spec)
	if err != nil {
		logging.Warn().Str("card_type", s.CardType).Str("spec", spec).Err(err).
			Msg("Invalid stripe definition, using default")
		metrics.RecordPatternFallback(s.CardType)
		def, _ = pattern.ParseStripes(defaultStripeSpec)
	}

	if overlay := s.ExtraString("overlay_color", ""); overlay != "" {
		b.OverlayColor(overlay)
	}

	inset := s.ExtraInt("inset", 50)
	spacing := s.ExtraInt("inter_stripe_spacing", 8)
	bandH := cc.Height / 4
	bandBottom := cc.Height - inset
	bandTop := bandBottom - bandH

	// Slant expressed as the horizontal offset of a stripe's top edge.
	shear := 0
	if angle := s.ExtraFloat("angle", 79.5); angle > 0 && angle < 180 && angle != 90 {
		shear = int(float64(bandH) / math.Tan(angle*math.Pi/180))
	}

	color := s.ExtraString("stripe_color", "white")
	right := cc.Width - inset
	x := inset
	for _, w := range def.Widths(right-inset, spacing, cc.Rand) {
		if x >= right {
			break
		}
		b.Polygon([]plan.Point{
			{X: x, Y: bandBottom}, {X: x + w, Y: bandBottom},
			{X: x + w + shear, Y: bandTop}, {X: x + shear, Y: bandTop},
		}, color)
		x += w + spacing
	}

	index := indexLine(s, "•")
	b.IndexText(index, cc.Width/2, bandTop+bandH/2+int(indexTextSize)/3, plan.AnchorMiddle,
		indexFont(s, s.ExtraString("episode_text_color", "black")))

	_, err = titleBlock(b, cc, cc.Width/2, bandTop-60, plan.AnchorMiddle)
	return err
}
