// Cardsmith - Title Card Rendering Engine for Media Servers
// Copyright 2026 Cardsmith Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardsmith/cardsmith

// Package cardtypes defines the built-in card types: their descriptors
// and the compose functions that emit each type's overlay, decoration,
// and text operations.
//
// A card type is plain data plus a function. There is no type hierarchy;
// shared defaults live in a profile table consulted only for fields a
// descriptor leaves unset, and local or remote descriptors borrow a
// built-in's compose function by naming it as their base.
package cardtypes

import (
	"github.com/cardsmith/cardsmith/internal/models"
	"github.com/cardsmith/cardsmith/internal/plan"
)

// Registration pairs a descriptor with its compose function. The
// registry stores these; everything else sees descriptors only.
type Registration struct {
	Descriptor models.CardTypeDescriptor
	Compose    plan.Composer
}

// Builtins returns the card types compiled into the binary, ready for
// explicit registration at startup.
func Builtins() []Registration {
	return []Registration{
		standardRegistration(),
		animeRegistration(),
		shapeRegistration(),
		stripedRegistration(),
		musicRegistration(),
		notificationRegistration(),
	}
}

// Profile holds the shared defaults consulted when a descriptor leaves a
// font or split field unset. Built-ins declare every field themselves;
// the profile mainly completes local and remote descriptors.
type Profile struct {
	FontColor string
	FontCase  string
	FontSize  float64
	Split     models.SplitCharacteristics
}

// DefaultProfile is the shared default table.
var DefaultProfile = Profile{
	FontColor: "white",
	FontCase:  models.CaseUpper,
	FontSize:  160,
	Split: models.SplitCharacteristics{
		MaxLineWidth: 32,
		MaxLineCount: 3,
		Style:        models.SplitBottom,
	},
}

// ApplyProfile returns a copy of desc with unset font and split fields
// filled from the default profile. The descriptor's own values always
// win; only zero values are completed.
func ApplyProfile(desc models.CardTypeDescriptor) models.CardTypeDescriptor {
	if desc.FontColor == "" {
		desc.FontColor = DefaultProfile.FontColor
	}
	if desc.FontCase == "" {
		desc.FontCase = DefaultProfile.FontCase
	}
	if desc.FontSize <= 0 {
		desc.FontSize = DefaultProfile.FontSize
	}
	if desc.SplitCharacteristics.MaxLineWidth <= 0 {
		desc.SplitCharacteristics.MaxLineWidth = DefaultProfile.Split.MaxLineWidth
	}
	if desc.SplitCharacteristics.MaxLineCount <= 0 {
		desc.SplitCharacteristics.MaxLineCount = DefaultProfile.Split.MaxLineCount
	}
	if !models.ValidSplitStyle(desc.SplitCharacteristics.Style) {
		desc.SplitCharacteristics.Style = DefaultProfile.Split.Style
	}
	return desc
}

// DefaultsLayer builds the card-defaults settings tier from a
// descriptor: its font defaults plus every declared extra's default
// value. It sits at the bottom of the priority chain so resolution
// stays purely positional.
func DefaultsLayer(desc models.CardTypeDescriptor) models.SettingsLayer {
	values := make(map[string]interface{}, len(desc.Extras)+4)
	if desc.FontFile != "" {
		values[models.KeyFontFile] = desc.FontFile
	}
	if desc.FontColor != "" {
		values[models.KeyFontColor] = desc.FontColor
	}
	if desc.FontCase != "" {
		values[models.KeyFontCase] = desc.FontCase
	}
	if desc.FontSize > 0 {
		values[models.KeyFontSize] = desc.FontSize
	}
	for _, def := range desc.Extras {
		if def.Default != nil {
			values[def.Name] = def.Default
		}
	}
	return models.SettingsLayer{Name: models.LayerCardDefaults, Values: values}
}
