// Cardsmith - Title Card Rendering Engine for Media Servers
// Copyright 2026 Cardsmith Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardsmith/cardsmith

package models

// LayerName identifies one tier of the settings priority chain.
type LayerName string

// The twelve settings layers, highest priority first. The order is fixed
// and never reordered at runtime; resolution walks it top to bottom and
// the first layer defining a non-null value for a key wins.
const (
	LayerEpisodeExtras           LayerName = "episode_extras"
	LayerEpisodeTemplateExtras   LayerName = "episode_template_extras"
	LayerSeriesExtras            LayerName = "series_extras"
	LayerSeriesTemplateExtras    LayerName = "series_template_extras"
	LayerEpisodeSettings         LayerName = "episode_settings"
	LayerEpisodeFont             LayerName = "episode_font"
	LayerEpisodeTemplateSettings LayerName = "episode_template_settings"
	LayerSeriesSettings          LayerName = "series_settings"
	LayerSeriesFont              LayerName = "series_font"
	LayerSeriesTemplateSettings  LayerName = "series_template_settings"
	LayerGlobalSettings          LayerName = "global_settings"
	LayerCardDefaults            LayerName = "card_defaults"
)

// LayerOrder is the canonical priority chain, highest priority first.
var LayerOrder = [12]LayerName{
	LayerEpisodeExtras,
	LayerEpisodeTemplateExtras,
	LayerSeriesExtras,
	LayerSeriesTemplateExtras,
	LayerEpisodeSettings,
	LayerEpisodeFont,
	LayerEpisodeTemplateSettings,
	LayerSeriesSettings,
	LayerSeriesFont,
	LayerSeriesTemplateSettings,
	LayerGlobalSettings,
	LayerCardDefaults,
}

// SettingsLayer is one tier of key/value overrides. A nil value for a key
// is treated as unset, so JSON null never shadows a lower-priority value.
type SettingsLayer struct {
	Name   LayerName              `json:"name"`
	Values map[string]interface{} `json:"values,omitempty"`
}

// Lookup returns the value for key and whether the layer defines it.
// Explicit nulls report as not defined.
func (l SettingsLayer) Lookup(key string) (interface{}, bool) {
	if l.Values == nil {
		return nil, false
	}
	v, ok := l.Values[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Well-known settings keys recognized by the resolver in addition to the
// card type's declared extras.
const (
	KeyTitle       = "title"
	KeySeasonText  = "season_text"
	KeyEpisodeText = "episode_text"

	KeyFontFile             = "font_file"
	KeyFontColor            = "font_color"
	KeyFontSize             = "font_size"
	KeyFontKerning          = "font_kerning"
	KeyFontStrokeWidth      = "font_stroke_width"
	KeyFontStrokeColor      = "font_stroke_color"
	KeyFontInterlineSpacing = "font_interline_spacing"
	KeyFontInterwordSpacing = "font_interword_spacing"
	KeyFontVerticalShift    = "font_vertical_shift"
	KeyFontCase             = "font_case"
	KeyFontSplitModifier    = "font_split_modifier"
)

// FontSpec is the fully resolved set of font parameters for one render.
//
// Size is a point size at the canvas DPI. Kerning is extra horizontal
// spacing in pixels inserted between glyphs; InterwordSpacing is extra
// spacing added at word gaps on top of the space glyph advance.
type FontSpec struct {
	File             string  `json:"file,omitempty"`
	Color            string  `json:"color,omitempty"`
	Size             float64 `json:"size,omitempty"`
	Kerning          float64 `json:"kerning,omitempty"`
	StrokeWidth      float64 `json:"stroke_width,omitempty"`
	StrokeColor      string  `json:"stroke_color,omitempty"`
	InterlineSpacing int     `json:"interline_spacing,omitempty"`
	InterwordSpacing int     `json:"interword_spacing,omitempty"`
	VerticalShift    int     `json:"vertical_shift,omitempty"`
	Case             string  `json:"case,omitempty"`
	SplitModifier    int     `json:"split_modifier,omitempty"`
}

// EffectiveCardSettings is the flattened outcome of walking the settings
// priority chain for one render request: title and index text, resolved
// font parameters, and the validated extras map for the chosen card type.
//
// Built fresh for every request, immutable once built, discarded after use.
type EffectiveCardSettings struct {
	CardType    string                 `json:"card_type"`
	Title       string                 `json:"title"`
	SeasonText  string                 `json:"season_text,omitempty"`
	EpisodeText string                 `json:"episode_text,omitempty"`
	Font        FontSpec               `json:"font"`
	Extras      map[string]interface{} `json:"extras,omitempty"`
}

// ExtraString returns the named extra as a string, or fallback when the
// extra is absent or not a string.
func (s *EffectiveCardSettings) ExtraString(name, fallback string) string {
	if v, ok := s.Extras[name].(string); ok {
		return v
	}
	return fallback
}

// ExtraInt returns the named extra as an int, or fallback.
func (s *EffectiveCardSettings) ExtraInt(name string, fallback int) int {
	switch v := s.Extras[name].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return fallback
}

// ExtraFloat returns the named extra as a float64, or fallback.
func (s *EffectiveCardSettings) ExtraFloat(name string, fallback float64) float64 {
	switch v := s.Extras[name].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return fallback
}

// ExtraBool returns the named extra as a bool, or fallback.
func (s *EffectiveCardSettings) ExtraBool(name string, fallback bool) bool {
	if v, ok := s.Extras[name].(bool); ok {
		return v
	}
	return fallback
}
