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

const defaultShapeSpec = "diamond"

// The shape card draws an outlined geometric shape in the lower left with
// the index text beside it and the title stacked above.
func shapeRegistration() Registration {
	return Registration{
		Descriptor: models.CardTypeDescriptor{
			Identifier:  "shape",
			DisplayName: "Shape",
			Description: "Outlined shape in the lower left, title above it.",
			Source:      models.SourceBuiltin,
			FontColor:   "white",
			FontCase:    models.CaseUpper,
			FontSize:    140,
			SplitCharacteristics: models.SplitCharacteristics{
				MaxLineWidth: 34,
				MaxLineCount: 3,
				Style:        models.SplitTop,
			},
			Extras: []models.ExtraDefinition{
				{
					Name: "shape", Type: models.ExtraString, Default: defaultShapeSpec,
					Description: "Shape name or random[...] list drawn per card.",
				},
				{
					Name: "shape_color", Type: models.ExtraColor, Default: "skyblue",
					Description: "Outline color of the shape.",
				},
				{
					Name: "shape_size", Type: models.ExtraFloat, Default: 1.0,
					Description: "Scale factor applied to the shape.",
				},
				{
					Name: "shape_stroke_width", Type: models.ExtraFloat, Default: 8.0,
					Description: "Outline stroke width in pixels.",
				},
				{
					Name: "shape_inset", Type: models.ExtraInt, Default: 75,
					Description: "Distance from the lower left corner in pixels.",
				},
				{
					Name: "episode_text_color", Type: models.ExtraColor,
					Description: "Index text color; defaults to the shape color.",
				},
			},
			SupportsCustomFonts:   true,
			SupportsCustomSeasons: true,
		},
		Compose: composeShape,
	}
}

func composeShape(b *plan.Builder, cc *plan.ComposeContext) error {
	s := cc.Settings

	spec := s.ExtraString("shape", defaultShapeSpec)
	shapeSpec, err := pattern.ParseShape(spec)
	if err != nil {
		logging.Warn().Str("card_type", s.CardType).Str("spec", spec).Err(err).
			Msg("Invalid shape spec, using default")
		metrics.RecordPatternFallback(s.CardType)
		shapeSpec, _ = pattern.ParseShape(defaultShapeSpec)
	}
	name := shapeSpec.Select(cc.Rand)

	size := int(float64(cc.Height) * 0.16 * s.ExtraFloat("shape_size", 1.0))
	inset := s.ExtraInt("shape_inset", 75)
	stroke := s.ExtraFloat("shape_stroke_width", 8.0)
	color := s.ExtraString("shape_color", "skyblue")

	cx := inset + size/2
	cy := cc.Height - inset - size/2
	drawShapeOutline(b, name, cx, cy, size/2, stroke, color)

	index := indexLine(s, "•")
	b.IndexText(index, cx+size/2+60, cy+int(indexTextSize)/3, plan.AnchorStart,
		indexFont(s, s.ExtraString("episode_text_color", color)))

	_, err = titleBlock(b, cc, inset, cc.Height-inset-size-90, plan.AnchorStart)
	return err
}

func drawShapeOutline(b *plan.Builder, name string, cx, cy, r int, stroke float64, color string) {
	switch name {
	case pattern.ShapeCircle:
		b.CircleOutline(cx, cy, r, stroke, color)
	case pattern.ShapeSquare:
		b.PolygonOutline([]plan.Point{
			{X: cx - r, Y: cy - r}, {X: cx + r, Y: cy - r},
			{X: cx + r, Y: cy + r}, {X: cx - r, Y: cy + r},
		}, stroke, color)
	case pattern.ShapeTriangleUp:
		b.PolygonOutline([]plan.Point{
			{X: cx, Y: cy - r}, {X: cx + r, Y: cy + r}, {X: cx - r, Y: cy + r},
		}, stroke, color)
	case pattern.ShapeTriangleDown:
		b.PolygonOutline([]plan.Point{
			{X: cx - r, Y: cy - r}, {X: cx + r, Y: cy - r}, {X: cx, Y: cy + r},
		}, stroke, color)
	default:
		// diamond
		b.PolygonOutline([]plan.Point{
			{X: cx, Y: cy - r}, {X: cx + r, Y: cy},
			{X: cx, Y: cy + r}, {X: cx - r, Y: cy},
		}, stroke, color)
	}
}
