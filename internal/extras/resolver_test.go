// Cardsmith - Title Card Rendering Engine for Media Servers
// Copyright 2026 Cardsmith Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardsmith/cardsmith

package extras

import (
	"errors"
	"testing"

	"github.com/cardsmith/cardsmith/internal/models"
)

func testDescriptor() models.CardTypeDescriptor {
	return models.CardTypeDescriptor{
		Identifier:  "shape",
		DisplayName: "Shape",
		Extras: []models.ExtraDefinition{
			{Name: "shape", Type: models.ExtraEnum, Values: []string{"circle", "square", "diamond"}, Default: "diamond"},
			{Name: "shape_color", Type: models.ExtraColor, Default: "skyblue"},
			{Name: "shape_size", Type: models.ExtraFloat, Default: 1.0},
			{Name: "shape_inset", Type: models.ExtraInt, Default: 75},
			{Name: "omit_gradient", Type: models.ExtraBool, Default: false},
			{Name: "separator", Type: models.ExtraString, Default: "-"},
		},
	}
}

func layer(name models.LayerName, values map[string]interface{}) models.SettingsLayer {
	return models.SettingsLayer{Name: name, Values: values}
}

func defaultsLayer(desc models.CardTypeDescriptor) models.SettingsLayer {
	values := make(map[string]interface{}, len(desc.Extras))
	for _, def := range desc.Extras {
		values[def.Name] = def.Default
	}
	return layer(models.LayerCardDefaults, values)
}

func TestResolveHighestLayerWins(t *testing.T) {
	desc := testDescriptor()
	stack := []models.SettingsLayer{
		layer(models.LayerEpisodeExtras, map[string]interface{}{"shape": "circle"}),
		layer(models.LayerSeriesExtras, map[string]interface{}{"shape": "square"}),
		layer(models.LayerGlobalSettings, map[string]interface{}{"shape": "diamond"}),
		defaultsLayer(desc),
	}

	settings, err := Resolve(desc, stack)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got := settings.ExtraString("shape", ""); got != "circle" {
		t.Errorf("shape = %q, want %q from episode_extras", got, "circle")
	}

	// Changing values in lower tiers must not affect the winner.
	stack[1].Values["shape"] = "diamond"
	stack[2].Values["shape"] = "square"
	settings, err = Resolve(desc, stack)
	if err != nil {
		t.Fatalf("Resolve after lower-tier change: %v", err)
	}
	if got := settings.ExtraString("shape", ""); got != "circle" {
		t.Errorf("shape = %q after lower-tier change, want %q", got, "circle")
	}
}

func TestResolveNullNeverShadows(t *testing.T) {
	desc := testDescriptor()
	stack := []models.SettingsLayer{
		layer(models.LayerSeriesSettings, map[string]interface{}{models.KeyFontColor: nil}),
		layer(models.LayerGlobalSettings, map[string]interface{}{models.KeyFontColor: "crimson"}),
		defaultsLayer(desc),
	}

	settings, err := Resolve(desc, stack)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if settings.Font.Color != "crimson" {
		t.Errorf("font color = %q, want crimson from global tier through a null", settings.Font.Color)
	}
}

func TestResolveFullStackSingleDefiner(t *testing.T) {
	desc := testDescriptor()

	// All twelve tiers present; only series_extras defines shape_color.
	// The tiers above it carry unrelated keys and must not disturb the result.
	stack := make([]models.SettingsLayer, 0, len(models.LayerOrder))
	for _, name := range models.LayerOrder {
		values := map[string]interface{}{}
		switch name {
		case models.LayerEpisodeExtras:
			values["separator"] = "/"
		case models.LayerEpisodeTemplateExtras:
			values["shape_size"] = 2.5
		case models.LayerSeriesExtras:
			values["shape_color"] = "tomato"
		case models.LayerCardDefaults:
			for _, def := range desc.Extras {
				values[def.Name] = def.Default
			}
		}
		stack = append(stack, layer(name, values))
	}

	for i := 0; i < 3; i++ {
		settings, err := Resolve(desc, stack)
		if err != nil {
			t.Fatalf("Resolve pass %d: %v", i, err)
		}
		if got := settings.ExtraString("shape_color", ""); got != "tomato" {
			t.Fatalf("pass %d: shape_color = %q, want tomato from series_extras", i, got)
		}
	}
}

func TestResolveEpisodeNullSeriesWins(t *testing.T) {
	desc := testDescriptor()
	desc.Extras = append(desc.Extras, models.ExtraDefinition{
		Name: "episode_text_color", Type: models.ExtraColor, Default: "white",
	})

	stack := []models.SettingsLayer{
		layer(models.LayerEpisodeExtras, map[string]interface{}{"episode_text_color": nil}),
		layer(models.LayerSeriesExtras, map[string]interface{}{"episode_text_color": "crimson"}),
		defaultsLayer(desc),
	}

	settings, err := Resolve(desc, stack)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got := settings.ExtraString("episode_text_color", ""); got != "crimson" {
		t.Errorf("episode_text_color = %q, want crimson from series_extras", got)
	}
}

func TestResolveDefaultsTier(t *testing.T) {
	desc := testDescriptor()
	settings, err := Resolve(desc, []models.SettingsLayer{defaultsLayer(desc)})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if got := settings.ExtraString("shape", ""); got != "diamond" {
		t.Errorf("shape default = %q, want diamond", got)
	}
	if got := settings.ExtraString("shape_color", ""); got != "skyblue" {
		t.Errorf("shape_color default = %q, want skyblue", got)
	}
	if got := settings.ExtraInt("shape_inset", -1); got != 75 {
		t.Errorf("shape_inset default = %d, want 75", got)
	}
	if got := settings.ExtraBool("omit_gradient", true); got != false {
		t.Errorf("omit_gradient default = %v, want false", got)
	}
}

func TestResolveAbsentExtraOmitted(t *testing.T) {
	desc := testDescriptor()
	settings, err := Resolve(desc, nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if _, ok := settings.Extras["shape"]; ok {
		t.Error("extra resolved despite empty stack")
	}
}

func TestResolveCoercion(t *testing.T) {
	desc := testDescriptor()
	stack := []models.SettingsLayer{
		layer(models.LayerEpisodeExtras, map[string]interface{}{
			"shape_inset":   float64(42), // JSON numbers arrive as float64
			"shape_size":    "1.5",
			"omit_gradient": "true",
			"separator":     7,
		}),
		defaultsLayer(desc),
	}

	settings, err := Resolve(desc, stack)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got := settings.ExtraInt("shape_inset", -1); got != 42 {
		t.Errorf("shape_inset = %d, want 42", got)
	}
	if got := settings.ExtraFloat("shape_size", 0); got != 1.5 {
		t.Errorf("shape_size = %v, want 1.5", got)
	}
	if got := settings.ExtraBool("omit_gradient", false); got != true {
		t.Errorf("omit_gradient = %v, want true", got)
	}
	if got := settings.ExtraString("separator", ""); got != "7" {
		t.Errorf("separator = %q, want %q", got, "7")
	}
}

func TestResolveCoercionFailures(t *testing.T) {
	desc := testDescriptor()
	tests := []struct {
		name   string
		values map[string]interface{}
		key    string
	}{
		{"fractional into int", map[string]interface{}{"shape_inset": 1.5}, "shape_inset"},
		{"word into bool", map[string]interface{}{"omit_gradient": "maybe"}, "omit_gradient"},
		{"bad color", map[string]interface{}{"shape_color": "notacolor"}, "shape_color"},
		{"enum outside values", map[string]interface{}{"shape": "blob"}, "shape"},
		{"struct into string", map[string]interface{}{"separator": []string{"x"}}, "separator"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stack := []models.SettingsLayer{
				layer(models.LayerSeriesExtras, tt.values),
				defaultsLayer(desc),
			}
			_, err := Resolve(desc, stack)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Resolve error = %v, want *ValidationError", err)
			}
			if verr.Key != tt.key {
				t.Errorf("error key = %q, want %q", verr.Key, tt.key)
			}
			if verr.Layer != models.LayerSeriesExtras {
				t.Errorf("error layer = %q, want series_extras", verr.Layer)
			}
		})
	}
}

func TestResolveFontFields(t *testing.T) {
	desc := testDescriptor()
	stack := []models.SettingsLayer{
		layer(models.LayerEpisodeFont, map[string]interface{}{
			models.KeyFontSize:    float64(180),
			models.KeyFontKerning: 2.5,
		}),
		layer(models.LayerSeriesFont, map[string]interface{}{
			models.KeyFontFile:          "Custom.ttf",
			models.KeyFontColor:         "#c5c5c5",
			models.KeyFontSize:          float64(120),
			models.KeyFontCase:          models.CaseUpper,
			models.KeyFontSplitModifier: float64(-3),
			models.KeyFontVerticalShift: 40,
		}),
		defaultsLayer(desc),
	}

	settings, err := Resolve(desc, stack)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	font := settings.Font
	if font.File != "Custom.ttf" {
		t.Errorf("File = %q", font.File)
	}
	if font.Color != "#c5c5c5" {
		t.Errorf("Color = %q", font.Color)
	}
	if font.Size != 180 {
		t.Errorf("Size = %v, want episode tier 180 over series 120", font.Size)
	}
	if font.Kerning != 2.5 {
		t.Errorf("Kerning = %v", font.Kerning)
	}
	if font.Case != models.CaseUpper {
		t.Errorf("Case = %q", font.Case)
	}
	if font.SplitModifier != -3 {
		t.Errorf("SplitModifier = %d", font.SplitModifier)
	}
	if font.VerticalShift != 40 {
		t.Errorf("VerticalShift = %d", font.VerticalShift)
	}
}

func TestResolveCaseDefaultsToSource(t *testing.T) {
	desc := testDescriptor()
	settings, err := Resolve(desc, nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if settings.Font.Case != models.CaseSource {
		t.Errorf("Case = %q, want source when unset", settings.Font.Case)
	}

	stack := []models.SettingsLayer{
		layer(models.LayerSeriesFont, map[string]interface{}{models.KeyFontCase: "shout"}),
	}
	if _, err := Resolve(desc, stack); err == nil {
		t.Error("Resolve accepted an unknown font case")
	}
}

func TestResolveTextKeys(t *testing.T) {
	desc := testDescriptor()
	stack := []models.SettingsLayer{
		layer(models.LayerEpisodeSettings, map[string]interface{}{
			models.KeyTitle:       "The One After Ross Says Rachel",
			models.KeyEpisodeText: "EPISODE 1",
		}),
		layer(models.LayerSeriesSettings, map[string]interface{}{
			models.KeySeasonText:  "SEASON 5",
			models.KeyEpisodeText: "E1",
		}),
	}

	settings, err := Resolve(desc, stack)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if settings.Title != "The One After Ross Says Rachel" {
		t.Errorf("Title = %q", settings.Title)
	}
	if settings.SeasonText != "SEASON 5" {
		t.Errorf("SeasonText = %q", settings.SeasonText)
	}
	if settings.EpisodeText != "EPISODE 1" {
		t.Errorf("EpisodeText = %q, want episode tier to win", settings.EpisodeText)
	}
}

func TestResolveIgnoresUnknownKeys(t *testing.T) {
	desc := testDescriptor()
	stack := []models.SettingsLayer{
		layer(models.LayerEpisodeExtras, map[string]interface{}{"no_such_extra": "whatever"}),
		defaultsLayer(desc),
	}
	settings, err := Resolve(desc, stack)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if _, ok := settings.Extras["no_such_extra"]; ok {
		t.Error("undeclared key leaked into resolved extras")
	}
}
