// Cardsmith - Title Card Rendering Engine for Media Servers
// Copyright 2026 Cardsmith Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardsmith/cardsmith

package render

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/cardsmith/cardsmith/internal/colors"
	"github.com/cardsmith/cardsmith/internal/models"
	"github.com/cardsmith/cardsmith/internal/plan"
)

var ringOffsets = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// drawText rasterizes one text operation. op.Y is the baseline; op.X is
// interpreted through the anchor. Stroke is drawn first as offset rings
// so the fill sits on top.
func (r *Renderer) drawText(canvas *image.NRGBA, op plan.DrawOperation) error {
	spec := *op.Font

	m, err := r.fonts.Measure(op.Text, spec)
	if err != nil {
		return err
	}
	x := op.X
	switch op.Anchor {
	case plan.AnchorMiddle:
		x -= m.Width / 2
	case plan.AnchorEnd:
		x -= m.Width
	}

	face, err := r.fonts.FaceFor(spec)
	if err != nil {
		return err
	}

	fillColor := spec.Color
	if fillColor == "" {
		fillColor = "white"
	}
	fill, err := colors.Parse(fillColor)
	if err != nil {
		return err
	}

	if spec.StrokeWidth > 0 && spec.StrokeColor != "" {
		sc, err := colors.Parse(spec.StrokeColor)
		if err != nil {
			return err
		}
		ring := int(spec.StrokeWidth + 0.5)
		for d := 1; d <= ring; d++ {
			for _, off := range ringOffsets {
				drawString(canvas, face, op.Text, x+off[0]*d, op.Y+off[1]*d, sc, spec)
			}
		}
	}

	drawString(canvas, face, op.Text, x, op.Y, fill, spec)
	return nil
}

// drawString draws s with its baseline starting at (x, y). With no extra
// kerning or interword spacing the whole string is drawn in one pass;
// otherwise glyphs are placed rune by rune so the extra advances match
// the measurement arithmetic.
func drawString(dst *image.NRGBA, face font.Face, s string, x, y int, c color.NRGBA, spec models.FontSpec) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}

	if spec.Kerning == 0 && spec.InterwordSpacing == 0 {
		d.DrawString(s)
		return
	}

	k := fixed.Int26_6(spec.Kerning * 64)
	iw := fixed.I(spec.InterwordSpacing)
	runes := []rune(s)
	for i, r := range runes {
		d.DrawString(string(r))
		if i < len(runes)-1 {
			d.Dot.X += k
		}
		if r == ' ' {
			d.Dot.X += iw
		}
	}
}
