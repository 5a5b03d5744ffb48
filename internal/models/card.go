// Cardsmith - Title Card Rendering Engine for Media Servers
// Copyright 2026 Cardsmith Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardsmith/cardsmith

package models

// ErrorKind classifies a per-card failure for reporting and metrics.
type ErrorKind string

const (
	ErrorKindFontLoad        ErrorKind = "font_load"
	ErrorKindValidation      ErrorKind = "validation"
	ErrorKindPatternParse    ErrorKind = "pattern_parse"
	ErrorKindMissingSource   ErrorKind = "missing_source"
	ErrorKindRender          ErrorKind = "render"
	ErrorKindUnknownCardType ErrorKind = "unknown_card_type"
)

// SettingsLayers carries the caller-supplied tiers of the settings priority
// chain, one optional map per tier. The card-defaults tier is not included;
// it is derived from the card type descriptor at resolution time.
type SettingsLayers struct {
	EpisodeExtras           map[string]interface{} `json:"episode_extras,omitempty"`
	EpisodeTemplateExtras   map[string]interface{} `json:"episode_template_extras,omitempty"`
	SeriesExtras            map[string]interface{} `json:"series_extras,omitempty"`
	SeriesTemplateExtras    map[string]interface{} `json:"series_template_extras,omitempty"`
	EpisodeSettings         map[string]interface{} `json:"episode_settings,omitempty"`
	EpisodeFont             map[string]interface{} `json:"episode_font,omitempty"`
	EpisodeTemplateSettings map[string]interface{} `json:"episode_template_settings,omitempty"`
	SeriesSettings          map[string]interface{} `json:"series_settings,omitempty"`
	SeriesFont              map[string]interface{} `json:"series_font,omitempty"`
	SeriesTemplateSettings  map[string]interface{} `json:"series_template_settings,omitempty"`
	GlobalSettings          map[string]interface{} `json:"global_settings,omitempty"`
}

// Stack returns the caller tiers as an ordered layer slice, highest
// priority first, matching LayerOrder minus the trailing card-defaults
// tier. Empty tiers are included so layer positions stay stable.
func (s SettingsLayers) Stack() []SettingsLayer {
	return []SettingsLayer{
		{Name: LayerEpisodeExtras, Values: s.EpisodeExtras},
		{Name: LayerEpisodeTemplateExtras, Values: s.EpisodeTemplateExtras},
		{Name: LayerSeriesExtras, Values: s.SeriesExtras},
		{Name: LayerSeriesTemplateExtras, Values: s.SeriesTemplateExtras},
		{Name: LayerEpisodeSettings, Values: s.EpisodeSettings},
		{Name: LayerEpisodeFont, Values: s.EpisodeFont},
		{Name: LayerEpisodeTemplateSettings, Values: s.EpisodeTemplateSettings},
		{Name: LayerSeriesSettings, Values: s.SeriesSettings},
		{Name: LayerSeriesFont, Values: s.SeriesFont},
		{Name: LayerSeriesTemplateSettings, Values: s.SeriesTemplateSettings},
		{Name: LayerGlobalSettings, Values: s.GlobalSettings},
	}
}

// CardRequest describes one title card to plan or render.
//
// Title, SeasonText and EpisodeText are conveniences: they are injected
// into the episode-settings tier before resolution, so an explicit
// episode-extras value still outranks them. SourceImage is required for
// rendering but not for a dry-run plan. A nil Seed selects a fresh
// time-derived random source; supplying a seed makes pattern draws
// reproducible.
type CardRequest struct {
	CardType    string `json:"card_type" validate:"required"`
	Title       string `json:"title"`
	SeasonText  string `json:"season_text,omitempty"`
	EpisodeText string `json:"episode_text,omitempty"`

	SourceImage string `json:"source_image,omitempty"`
	MaskImage   string `json:"mask_image,omitempty"`
	OutputPath  string `json:"output_path,omitempty"`

	Blur      bool    `json:"blur,omitempty"`
	Grayscale bool    `json:"grayscale,omitempty"`
	Contrast  float64 `json:"contrast,omitempty" validate:"omitempty,gte=-100,lte=100"`

	Seed *int64 `json:"seed,omitempty"`

	Layers SettingsLayers `json:"layers,omitempty"`
}

// BatchRequest renders several cards with per-card failure isolation.
// Individual cards are validated during their own render so a malformed
// entry fails in its report instead of rejecting the whole batch.
type BatchRequest struct {
	Cards []CardRequest `json:"cards" validate:"required,min=1"`

	// MaxConcurrent overrides the configured worker pool size when > 0.
	MaxConcurrent int `json:"max_concurrent,omitempty" validate:"omitempty,min=1,max=64"`
}

// CardReport is the per-card outcome of a render request.
type CardReport struct {
	RequestID  string    `json:"request_id"`
	CardType   string    `json:"card_type"`
	Title      string    `json:"title"`
	Success    bool      `json:"success"`
	OutputPath string    `json:"output_path,omitempty"`
	ErrorKind  ErrorKind `json:"error_kind,omitempty"`
	Error      string    `json:"error,omitempty"`
	DurationMS int64     `json:"duration_ms"`
}

// BatchReport aggregates the outcome of a batch render. One failing card
// never aborts the rest; Failed counts cards whose individual report
// carries an ErrorKind.
type BatchReport struct {
	BatchID    string       `json:"batch_id"`
	Total      int          `json:"total"`
	Succeeded  int          `json:"succeeded"`
	Failed     int          `json:"failed"`
	Cards      []CardReport `json:"cards"`
	DurationMS int64        `json:"duration_ms"`
}
