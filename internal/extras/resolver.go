// Cardsmith - Title Card Rendering Engine for Media Servers
// Copyright 2026 Cardsmith Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardsmith/cardsmith

// Package extras flattens the settings priority chain into the effective
// settings for one render.
//
// Resolution is purely positional: the stack is walked top to bottom and
// the first layer defining a non-null value for a key wins. The card type
// descriptor contributes only the schema (extra names, types, enum values);
// its default values reach the resolver as the lowest stack tier, built by
// the card type registry, so every resolved value is attributable to a
// named layer. Keys not declared by the descriptor and not among the
// well-known font and text keys are ignored.
package extras

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cardsmith/cardsmith/internal/colors"
	"github.com/cardsmith/cardsmith/internal/models"
)

// ValidationError reports a settings value that cannot be coerced to the
// type its key requires. Layer names the tier that supplied the bad value.
type ValidationError struct {
	Key      string
	Layer    models.LayerName
	Expected string
	Value    interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("settings key %q in layer %q: expected %s, got %v (%T)",
		e.Key, e.Layer, e.Expected, e.Value, e.Value)
}

// Resolve walks the settings stack, highest priority first, and produces
// the effective settings for a render of the given card type. The stack
// should already include the card-defaults tier as its last element;
// Resolve itself never consults the descriptor for values.
//
// The first value that fails type coercion aborts resolution with a
// *ValidationError. A title resolved here may still be overridden by the
// splitter's case handling downstream.
func Resolve(desc models.CardTypeDescriptor, stack []models.SettingsLayer) (*models.EffectiveCardSettings, error) {
	settings := &models.EffectiveCardSettings{
		CardType: desc.Identifier,
		Extras:   make(map[string]interface{}, len(desc.Extras)),
	}

	var err error
	if settings.Title, err = resolveString(stack, models.KeyTitle); err != nil {
		return nil, err
	}
	if settings.SeasonText, err = resolveString(stack, models.KeySeasonText); err != nil {
		return nil, err
	}
	if settings.EpisodeText, err = resolveString(stack, models.KeyEpisodeText); err != nil {
		return nil, err
	}

	if err = resolveFont(stack, &settings.Font); err != nil {
		return nil, err
	}

	for _, def := range desc.Extras {
		v, layer, ok := lookup(stack, def.Name)
		if !ok {
			continue
		}
		resolved, cerr := coerceExtra(def, v)
		if cerr != "" {
			return nil, &ValidationError{Key: def.Name, Layer: layer, Expected: cerr, Value: v}
		}
		settings.Extras[def.Name] = resolved
	}

	return settings, nil
}

// lookup returns the first non-null value for key in the stack along with
// the layer that supplied it.
func lookup(stack []models.SettingsLayer, key string) (interface{}, models.LayerName, bool) {
	for _, layer := range stack {
		if v, ok := layer.Lookup(key); ok {
			return v, layer.Name, true
		}
	}
	return nil, "", false
}

func resolveString(stack []models.SettingsLayer, key string) (string, error) {
	v, layer, ok := lookup(stack, key)
	if !ok {
		return "", nil
	}
	s, ok := asString(v)
	if !ok {
		return "", &ValidationError{Key: key, Layer: layer, Expected: "string", Value: v}
	}
	return s, nil
}

func resolveFont(stack []models.SettingsLayer, font *models.FontSpec) error {
	var err error
	if font.File, err = resolveString(stack, models.KeyFontFile); err != nil {
		return err
	}
	if font.Color, err = resolveColor(stack, models.KeyFontColor); err != nil {
		return err
	}
	if font.StrokeColor, err = resolveColor(stack, models.KeyFontStrokeColor); err != nil {
		return err
	}
	if font.Size, err = resolveFloat(stack, models.KeyFontSize); err != nil {
		return err
	}
	if font.Kerning, err = resolveFloat(stack, models.KeyFontKerning); err != nil {
		return err
	}
	if font.StrokeWidth, err = resolveFloat(stack, models.KeyFontStrokeWidth); err != nil {
		return err
	}
	if font.InterlineSpacing, err = resolveInt(stack, models.KeyFontInterlineSpacing); err != nil {
		return err
	}
	if font.InterwordSpacing, err = resolveInt(stack, models.KeyFontInterwordSpacing); err != nil {
		return err
	}
	if font.VerticalShift, err = resolveInt(stack, models.KeyFontVerticalShift); err != nil {
		return err
	}
	if font.SplitModifier, err = resolveInt(stack, models.KeyFontSplitModifier); err != nil {
		return err
	}
	return resolveCase(stack, font)
}

func resolveColor(stack []models.SettingsLayer, key string) (string, error) {
	v, layer, ok := lookup(stack, key)
	if !ok {
		return "", nil
	}
	s, ok := asString(v)
	if !ok || !colors.IsValid(s) {
		return "", &ValidationError{Key: key, Layer: layer, Expected: "color", Value: v}
	}
	return s, nil
}

func resolveFloat(stack []models.SettingsLayer, key string) (float64, error) {
	v, layer, ok := lookup(stack, key)
	if !ok {
		return 0, nil
	}
	f, ok := asFloat(v)
	if !ok {
		return 0, &ValidationError{Key: key, Layer: layer, Expected: "number", Value: v}
	}
	return f, nil
}

func resolveInt(stack []models.SettingsLayer, key string) (int, error) {
	v, layer, ok := lookup(stack, key)
	if !ok {
		return 0, nil
	}
	n, ok := asInt(v)
	if !ok {
		return 0, &ValidationError{Key: key, Layer: layer, Expected: "integer", Value: v}
	}
	return n, nil
}

func resolveCase(stack []models.SettingsLayer, font *models.FontSpec) error {
	v, layer, ok := lookup(stack, models.KeyFontCase)
	if !ok {
		font.Case = models.CaseSource
		return nil
	}
	s, sok := asString(v)
	if sok {
		switch s {
		case models.CaseUpper, models.CaseLower, models.CaseTitle, models.CaseSource, models.CaseBlank:
			font.Case = s
			return nil
		}
	}
	return &ValidationError{Key: models.KeyFontCase, Layer: layer, Expected: "case (upper|lower|title|source|blank)", Value: v}
}

// coerceExtra converts v to the Go type matching the extra definition.
// On failure it returns the expected-type description for the error.
func coerceExtra(def models.ExtraDefinition, v interface{}) (interface{}, string) {
	switch def.Type {
	case models.ExtraString:
		if s, ok := asString(v); ok {
			return s, ""
		}
		return nil, "string"
	case models.ExtraInt:
		if n, ok := asInt(v); ok {
			return n, ""
		}
		return nil, "integer"
	case models.ExtraFloat:
		if f, ok := asFloat(v); ok {
			return f, ""
		}
		return nil, "number"
	case models.ExtraBool:
		if b, ok := asBool(v); ok {
			return b, ""
		}
		return nil, "boolean"
	case models.ExtraColor:
		if s, ok := asString(v); ok && colors.IsValid(s) {
			return s, ""
		}
		return nil, "color"
	case models.ExtraEnum:
		if s, ok := asString(v); ok {
			for _, allowed := range def.Values {
				if s == allowed {
					return s, ""
				}
			}
		}
		return nil, "enum (" + strings.Join(def.Values, "|") + ")"
	default:
		// Unknown schema types pass through untouched; the composer that
		// declared them is responsible for interpreting the value.
		return v, ""
	}
}

func asString(v interface{}) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case bool:
		return strconv.FormatBool(t), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	}
	return "", false
}

func asFloat(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	}
	return 0, false
}

func asInt(v interface{}) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		// JSON numbers decode as float64; accept only integral values.
		if t == math.Trunc(t) {
			return int(t), true
		}
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err == nil {
			return n, true
		}
	}
	return 0, false
}

func asBool(v interface{}) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		return b, err == nil
	}
	return false, false
}
