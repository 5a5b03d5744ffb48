// Cardsmith - Title Card Rendering Engine for Media Servers
// Copyright 2026 Cardsmith Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardsmith/cardsmith

// Package models defines the shared data structures of the rendering engine:
// card type descriptors, settings layers, render requests, and the API
// response envelope. Types here are plain data with no behavior beyond
// small helpers; all engine logic lives in the packages that consume them.
package models

// SplitStyle controls how title words are balanced across display lines.
type SplitStyle string

const (
	// SplitTop packs earlier lines as full as possible.
	SplitTop SplitStyle = "top"
	// SplitBottom packs later lines as full as possible.
	SplitBottom SplitStyle = "bottom"
	// SplitEven balances word count across lines, preserving order.
	SplitEven SplitStyle = "even"
	// SplitForcedEven balances character count across lines, preserving
	// order and never splitting mid-word.
	SplitForcedEven SplitStyle = "forced_even"
)

// ValidSplitStyle reports whether s is one of the four recognized styles.
func ValidSplitStyle(s SplitStyle) bool {
	switch s {
	case SplitTop, SplitBottom, SplitEven, SplitForcedEven:
		return true
	}
	return false
}

// SplitCharacteristics are a card type's title line-splitting rules.
//
// MaxLineWidth is measured in characters, not pixels. Line fitting is
// deliberately character-count based; pixel-accurate fitting was considered
// and rejected as the documented behavior trades accuracy for speed.
type SplitCharacteristics struct {
	MaxLineWidth int        `json:"max_line_width" koanf:"max_line_width" validate:"min=1"`
	MaxLineCount int        `json:"max_line_count" koanf:"max_line_count" validate:"min=1"`
	Style        SplitStyle `json:"style" koanf:"style" validate:"oneof=top bottom even forced_even"`
}

// ExtraType is the declared type of an extras value in a card type schema.
type ExtraType string

const (
	ExtraString ExtraType = "string"
	ExtraInt    ExtraType = "int"
	ExtraFloat  ExtraType = "float"
	ExtraBool   ExtraType = "bool"
	ExtraColor  ExtraType = "color"
	ExtraEnum   ExtraType = "enum"
)

// ExtraDefinition declares one customization parameter a card type accepts.
// Values resolved for this key are coerced to Type; Default is used when no
// settings layer defines the key.
type ExtraDefinition struct {
	Name        string      `json:"name" koanf:"name" validate:"required"`
	Type        ExtraType   `json:"type" koanf:"type" validate:"oneof=string int float bool color enum"`
	Default     interface{} `json:"default,omitempty" koanf:"default"`
	Values      []string    `json:"values,omitempty" koanf:"values"`
	Description string      `json:"description,omitempty" koanf:"description"`
}

// CardTypeSource identifies where a card type descriptor was registered from.
type CardTypeSource string

const (
	// SourceBuiltin is a card type compiled into the binary.
	SourceBuiltin CardTypeSource = "builtin"
	// SourceLocal is a card type loaded from a local YAML descriptor file.
	SourceLocal CardTypeSource = "local"
	// SourceRemote is a card type fetched from a configured remote source.
	SourceRemote CardTypeSource = "remote"
)

// CardTypeDescriptor is the static definition of one card type: identity,
// font defaults, title split rules, and the declared extras schema.
//
// Descriptors are immutable after registration. The registry hands out
// copies of its current snapshot; callers must never mutate a descriptor
// they did not construct themselves.
type CardTypeDescriptor struct {
	Identifier  string         `json:"identifier" koanf:"identifier" validate:"required"`
	DisplayName string         `json:"display_name,omitempty" koanf:"display_name"`
	Description string         `json:"description,omitempty" koanf:"description"`
	Source      CardTypeSource `json:"source" koanf:"source"`

	// Base names the built-in card type whose compose function this
	// descriptor reuses. Required for local and remote descriptors,
	// empty for built-ins.
	Base string `json:"base,omitempty" koanf:"base"`

	// Font defaults. Zero values fall back to the shared default profile
	// at resolution time. An empty FontFile selects the embedded face.
	FontFile  string  `json:"font_file,omitempty" koanf:"font_file"`
	FontColor string  `json:"font_color,omitempty" koanf:"font_color" validate:"omitempty,color"`
	FontCase  string  `json:"font_case,omitempty" koanf:"font_case" validate:"omitempty,oneof=upper lower title source blank"`
	FontSize  float64 `json:"font_size,omitempty" koanf:"font_size" validate:"omitempty,gt=0"`

	SplitCharacteristics SplitCharacteristics `json:"split_characteristics" koanf:"split_characteristics"`

	Extras []ExtraDefinition `json:"extras,omitempty" koanf:"extras" validate:"omitempty,dive"`

	SupportsCustomFonts   bool `json:"supports_custom_fonts" koanf:"supports_custom_fonts"`
	SupportsCustomSeasons bool `json:"supports_custom_seasons" koanf:"supports_custom_seasons"`
}

// ExtraDefinitionFor returns the schema entry for the named extra, if declared.
func (d *CardTypeDescriptor) ExtraDefinitionFor(name string) (ExtraDefinition, bool) {
	for _, def := range d.Extras {
		if def.Name == name {
			return def, true
		}
	}
	return ExtraDefinition{}, false
}

// Font case values accepted by the engine. CaseBlank suppresses all title
// text; the splitter is never invoked for it.
const (
	CaseUpper  = "upper"
	CaseLower  = "lower"
	CaseTitle  = "title"
	CaseSource = "source"
	CaseBlank  = "blank"
)
