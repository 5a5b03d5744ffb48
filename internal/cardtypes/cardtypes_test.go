// Cardsmith - Title Card Rendering Engine for Media Servers
// Copyright 2026 Cardsmith Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardsmith/cardsmith

package cardtypes

import (
	"testing"

	"github.com/cardsmith/cardsmith/internal/models"
	"github.com/cardsmith/cardsmith/internal/validation"
)

func TestBuiltins(t *testing.T) {
	regs := Builtins()

	want := map[string]bool{
		"standard": false, "anime": false, "shape": false,
		"striped": false, "music": false, "notification": false,
	}
	for _, reg := range regs {
		d := reg.Descriptor
		if _, known := want[d.Identifier]; !known {
			t.Errorf("unexpected builtin %q", d.Identifier)
			continue
		}
		if want[d.Identifier] {
			t.Errorf("builtin %q registered twice", d.Identifier)
		}
		want[d.Identifier] = true

		if reg.Compose == nil {
			t.Errorf("builtin %q has no compose function", d.Identifier)
		}
		if d.Source != models.SourceBuiltin {
			t.Errorf("builtin %q source = %q", d.Identifier, d.Source)
		}
		if d.Base != "" {
			t.Errorf("builtin %q names a base type", d.Identifier)
		}
		if !models.ValidSplitStyle(d.SplitCharacteristics.Style) {
			t.Errorf("builtin %q split style = %q", d.Identifier, d.SplitCharacteristics.Style)
		}
		if verr := validation.ValidateStruct(d); verr != nil {
			t.Errorf("builtin %q descriptor invalid: %v", d.Identifier, verr)
		}
	}
	for id, seen := range want {
		if !seen {
			t.Errorf("builtin %q missing", id)
		}
	}
}

func TestDefaultsLayer(t *testing.T) {
	desc := standardRegistration().Descriptor
	l := DefaultsLayer(desc)

	if l.Name != models.LayerCardDefaults {
		t.Errorf("layer name = %q", l.Name)
	}
	if v, ok := l.Lookup(models.KeyFontColor); !ok || v != "white" {
		t.Errorf("font_color = %v, %v", v, ok)
	}
	if v, ok := l.Lookup(models.KeyFontSize); !ok || v != 160.0 {
		t.Errorf("font_size = %v, %v", v, ok)
	}
	if v, ok := l.Lookup(models.KeyFontCase); !ok || v != models.CaseUpper {
		t.Errorf("font_case = %v, %v", v, ok)
	}
	if _, ok := l.Lookup(models.KeyFontFile); ok {
		t.Error("empty font file leaked into defaults layer")
	}
	if v, ok := l.Lookup("separator"); !ok || v != "•" {
		t.Errorf("separator = %v, %v", v, ok)
	}
	if v, ok := l.Lookup("omit_gradient"); !ok || v != false {
		t.Errorf("omit_gradient = %v, %v", v, ok)
	}
}

func TestApplyProfile(t *testing.T) {
	bare := models.CardTypeDescriptor{Identifier: "custom"}
	filled := ApplyProfile(bare)

	if filled.FontColor != DefaultProfile.FontColor {
		t.Errorf("FontColor = %q", filled.FontColor)
	}
	if filled.FontSize != DefaultProfile.FontSize {
		t.Errorf("FontSize = %v", filled.FontSize)
	}
	if filled.FontCase != DefaultProfile.FontCase {
		t.Errorf("FontCase = %q", filled.FontCase)
	}
	if filled.SplitCharacteristics != DefaultProfile.Split {
		t.Errorf("SplitCharacteristics = %+v", filled.SplitCharacteristics)
	}

	// A descriptor's own values survive.
	own := models.CardTypeDescriptor{
		Identifier: "custom",
		FontColor:  "crimson",
		FontSize:   90,
		SplitCharacteristics: models.SplitCharacteristics{
			MaxLineWidth: 20, MaxLineCount: 2, Style: models.SplitEven,
		},
	}
	kept := ApplyProfile(own)
	if kept.FontColor != "crimson" || kept.FontSize != 90 {
		t.Errorf("profile overwrote descriptor values: %+v", kept)
	}
	if kept.SplitCharacteristics.Style != models.SplitEven {
		t.Errorf("profile overwrote split style: %+v", kept.SplitCharacteristics)
	}
}
