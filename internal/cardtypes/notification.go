// Cardsmith - Title Card Rendering Engine for Media Servers
// Copyright 2026 Cardsmith Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardsmith/cardsmith

package cardtypes

import (
	"strconv"
	"strings"

	"github.com/cardsmith/cardsmith/internal/logging"
	"github.com/cardsmith/cardsmith/internal/models"
	"github.com/cardsmith/cardsmith/internal/plan"
)

// The notification card puts title and index inside a translucent box in
// a lower corner, with an accent bar along the box's outer edge. Box
// bounds size themselves to the measured text.
func notificationRegistration() Registration {
	return Registration{
		Descriptor: models.CardTypeDescriptor{
			Identifier:  "notification",
			DisplayName: "Notification",
			Description: "Toast-style text box in a lower corner.",
			Source:      models.SourceBuiltin,
			FontColor:   "white",
			FontCase:    models.CaseUpper,
			FontSize:    100,
			SplitCharacteristics: models.SplitCharacteristics{
				MaxLineWidth: 28,
				MaxLineCount: 3,
				Style:        models.SplitBottom,
			},
			Extras: []models.ExtraDefinition{
				{
					Name: "edge_color", Type: models.ExtraColor, Default: "white",
					Description: "Color of the accent bar on the box's outer edge.",
				},
				{
					Name: "edge_width", Type: models.ExtraInt, Default: 10,
					Description: "Accent bar width in pixels.",
				},
				{
					Name: "box_color", Type: models.ExtraColor, Default: "#000000c8",
					Description: "Fill color of the notification box.",
				},
				{
					Name: "box_adjustments", Type: models.ExtraString, Default: "0,0,0,0",
					Description: "Box growth in pixels as top,right,bottom,left.",
				},
				{
					Name: "position", Type: models.ExtraEnum, Default: "right",
					Values:      []string{"left", "right"},
					Description: "Which lower corner holds the box.",
				},
			},
			SupportsCustomFonts:   true,
			SupportsCustomSeasons: true,
		},
		Compose: composeNotification,
	}
}

func composeNotification(b *plan.Builder, cc *plan.ComposeContext) error {
	s := cc.Settings

	lineH, err := cc.Fonts.LineHeight(s.Font)
	if err != nil {
		return err
	}

	index := indexLine(s, "•")
	idxFont := indexFont(s, s.ExtraString("edge_color", "white"))

	// Box width follows the widest text it must hold.
	content := 0
	for _, line := range cc.Lines {
		m, err := cc.Fonts.Measure(line, s.Font)
		if err != nil {
			return err
		}
		if m.Width > content {
			content = m.Width
		}
	}
	if index != "" {
		m, err := cc.Fonts.Measure(index, idxFont)
		if err != nil {
			return err
		}
		if m.Width > content {
			content = m.Width
		}
	}

	const padX, padY, margin = 70, 50, 120
	boxW := content + 2*padX
	boxH := 2 * padY
	if n := len(cc.Lines); n > 0 {
		boxH += lineH * n
	}
	if index != "" {
		boxH += int(indexTextSize) + 30
	}

	top, rightAdj, bottom, leftAdj := parseBoxAdjustments(s)
	boxW += leftAdj + rightAdj
	boxH += top + bottom

	boxX := cc.Width - margin - boxW
	edgeAtRight := true
	if s.ExtraString("position", "right") == "left" {
		boxX = margin
		edgeAtRight = false
	}
	boxY := cc.Height - margin - boxH

	b.Rectangle(boxX, boxY, boxW, boxH, s.ExtraString("box_color", "#000000c8"))

	edgeW := s.ExtraInt("edge_width", 10)
	edgeX := boxX
	if edgeAtRight {
		edgeX = boxX + boxW - edgeW
	}
	b.Rectangle(edgeX, boxY, edgeW, boxH, s.ExtraString("edge_color", "white"))

	textX := boxX + padX
	baseline := boxY + padY + top + int(s.Font.Size*0.8)
	for i, line := range cc.Lines {
		b.TitleText(line, textX, baseline+i*lineH, plan.AnchorStart, s.Font)
	}
	b.IndexText(index, textX, boxY+boxH-padY-bottom, plan.AnchorStart, idxFont)
	return nil
}

// parseBoxAdjustments reads the box_adjustments extra as four ints:
// top, right, bottom, left. Malformed values fall back to zero growth.
func parseBoxAdjustments(s *models.EffectiveCardSettings) (top, right, bottom, left int) {
	raw := s.ExtraString("box_adjustments", "0,0,0,0")
	parts := strings.Split(raw, ",")
	if len(parts) != 4 {
		logging.Warn().Str("card_type", s.CardType).Str("box_adjustments", raw).
			Msg("Malformed box adjustments, ignoring")
		return 0, 0, 0, 0
	}
	out := [4]int{}
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			logging.Warn().Str("card_type", s.CardType).Str("box_adjustments", raw).
				Msg("Malformed box adjustments, ignoring")
			return 0, 0, 0, 0
		}
		out[i] = n
	}
	return out[0], out[1], out[2], out[3]
}
