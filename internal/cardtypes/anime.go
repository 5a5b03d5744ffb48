// Cardsmith - Title Card Rendering Engine for Media Servers
// Copyright 2026 Cardsmith Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardsmith/cardsmith

package cardtypes

import (
	"github.com/cardsmith/cardsmith/internal/models"
	"github.com/cardsmith/cardsmith/internal/plan"
)

// The anime card extends the standard layout with an optional kanji line
// above the romaji title. Titles keep their source casing.
func animeRegistration() Registration {
	return Registration{
		Descriptor: models.CardTypeDescriptor{
			Identifier:  "anime",
			DisplayName: "Anime",
			Description: "Standard layout with a kanji line above the title.",
			Source:      models.SourceBuiltin,
			FontColor:   "white",
			FontCase:    models.CaseSource,
			FontSize:    150,
			SplitCharacteristics: models.SplitCharacteristics{
				MaxLineWidth: 25,
				MaxLineCount: 4,
				Style:        models.SplitBottom,
			},
			Extras: []models.ExtraDefinition{
				{
					Name: "kanji", Type: models.ExtraString,
					Description: "Kanji text drawn above the title block.",
				},
				{
					Name: "kanji_color", Type: models.ExtraColor,
					Description: "Color of the kanji line; defaults to the title color.",
				},
				{
					Name: "omit_gradient", Type: models.ExtraBool, Default: false,
					Description: "Skip the darkening gradient over the lower half.",
				},
				{
					Name: "episode_text_color", Type: models.ExtraColor, Default: "#cfcfcf",
					Description: "Color of the season/episode index text.",
				},
				{
					Name: "separator", Type: models.ExtraString, Default: "·",
					Description: "Character drawn between season and episode text.",
				},
			},
			SupportsCustomFonts:   true,
			SupportsCustomSeasons: true,
		},
		Compose: composeAnime,
	}
}

func composeAnime(b *plan.Builder, cc *plan.ComposeContext) error {
	s := cc.Settings

	if !s.ExtraBool("omit_gradient", false) {
		b.VerticalGradient(plan.GradientSpec{
			From:   "transparent",
			To:     "black",
			StartY: cc.Height / 2,
			EndY:   cc.Height,
		})
	}

	index := indexLine(s, s.ExtraString("separator", "·"))
	indexY := cc.Height - cc.Height/18
	b.IndexText(index, cc.Width/2, indexY, plan.AnchorMiddle,
		indexFont(s, s.ExtraString("episode_text_color", "#cfcfcf")))

	titleTop, err := titleBlock(b, cc, cc.Width/2, indexY-cc.Height/10, plan.AnchorMiddle)
	if err != nil {
		return err
	}

	if kanji := s.ExtraString("kanji", ""); kanji != "" {
		kf := s.Font
		kf.Size = s.Font.Size * 0.55
		kf.StrokeWidth = 0
		kf.StrokeColor = ""
		if c := s.ExtraString("kanji_color", ""); c != "" {
			kf.Color = c
		}
		kanjiH, err := cc.Fonts.LineHeight(kf)
		if err != nil {
			return err
		}
		b.TitleText(kanji, cc.Width/2, titleTop-kanjiH, plan.AnchorMiddle, kf)
	}
	return nil
}
