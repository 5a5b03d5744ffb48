// Cardsmith - Title Card Rendering Engine for Media Servers
// Copyright 2026 Cardsmith Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardsmith/cardsmith

package plan

import (
	"math/rand"

	"github.com/cardsmith/cardsmith/internal/fonts"
	"github.com/cardsmith/cardsmith/internal/layout"
	"github.com/cardsmith/cardsmith/internal/models"
)

// ComposeContext carries everything a card type's composer needs to emit
// its overlay, decoration, and text operations: the resolved settings,
// the pre-split title lines, font metrics, and the per-request random
// source. Rand is never shared between requests, so composers may draw
// from it freely.
type ComposeContext struct {
	Settings *models.EffectiveCardSettings
	Lines    layout.TitleLines
	Fonts    *fonts.Manager
	Rand     *rand.Rand
	Width    int
	Height   int
}

// Composer emits the card-type-specific middle stages of a render plan:
// overlay, decoration, and text. The surrounding pipeline owns the
// source, pre-processing, and mask stages. An error aborts the render
// for this card only.
type Composer func(b *Builder, cc *ComposeContext) error
