// Cardsmith - Title Card Rendering Engine for Media Servers
// Copyright 2026 Cardsmith Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardsmith/cardsmith

package render

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/cardsmith/cardsmith/internal/fonts"
	"github.com/cardsmith/cardsmith/internal/models"
	"github.com/cardsmith/cardsmith/internal/plan"
)

func testRenderer(t *testing.T) *Renderer {
	t.Helper()
	fm, err := fonts.NewManager("", 8)
	if err != nil {
		t.Fatalf("Expected font manager, got error: %v", err)
	}
	return NewRenderer(fm, 0)
}

func writePNG(t *testing.T, path string, w, h int, fill color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, fill)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Expected to create %s, got error: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("Expected to encode %s, got error: %v", path, err)
	}
}

func reopen(t *testing.T, path string) *image.NRGBA {
	t.Helper()
	img, err := imaging.Open(path)
	if err != nil {
		t.Fatalf("Expected output to reopen, got error: %v", err)
	}
	return imaging.Clone(img)
}

// TestRenderFullPlan walks a plan through every operation kind and
// checks the output lands on disk at the plan's dimensions.
func TestRenderFullPlan(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "source.png")
	mask := filepath.Join(dir, "mask.png")
	writePNG(t, source, 400, 240, color.NRGBA{R: 20, G: 40, B: 90, A: 255})
	writePNG(t, mask, 64, 64, color.NRGBA{R: 200, G: 200, B: 200, A: 120})

	b := plan.NewBuilder("standard", 320, 180)
	b.SourceImage(source)
	b.Blur(1.5)
	b.Grayscale()
	b.Contrast(5)
	b.VerticalGradient(plan.GradientSpec{From: "transparent", To: "black", StartY: 90, EndY: 180})
	b.OverlayColor("#00000040")
	b.Rectangle(10, 10, 60, 30, "crimson")
	b.RoundedRectangle(80, 10, 60, 30, 8, "#ffffffc8")
	b.Polygon([]plan.Point{{X: 160, Y: 40}, {X: 190, Y: 70}, {X: 160, Y: 100}, {X: 130, Y: 70}}, "skyblue")
	b.PolygonOutline([]plan.Point{{X: 220, Y: 40}, {X: 260, Y: 40}, {X: 260, Y: 80}, {X: 220, Y: 80}}, 3, "white")
	b.Circle(40, 130, 16, "gold")
	b.CircleOutline(90, 130, 16, 3, "white")
	b.Line(plan.Point{X: 120, Y: 120}, plan.Point{X: 200, Y: 140}, 4, "white")
	b.IndexText("SEASON 1 • EPISODE 1", 160, 150, plan.AnchorMiddle, models.FontSpec{Size: 14, Color: "#cfcfcf"})
	b.TitleText("PILOT", 160, 170, plan.AnchorMiddle, models.FontSpec{Size: 20, Color: "white", StrokeColor: "black", StrokeWidth: 2})
	b.MaskImage(mask)

	out := filepath.Join(dir, "cards", "pilot.jpg")
	if err := testRenderer(t).Render(b.Plan(), out); err != nil {
		t.Fatalf("Expected render to succeed, got error: %v", err)
	}

	img := reopen(t, out)
	if img.Bounds().Dx() != 320 || img.Bounds().Dy() != 180 {
		t.Errorf("Expected 320x180 output, got %dx%d", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestRenderRectanglePixels(t *testing.T) {
	dir := t.TempDir()
	b := plan.NewBuilder("standard", 32, 32)
	b.Rectangle(0, 0, 32, 32, "red")

	out := filepath.Join(dir, "rect.png")
	if err := testRenderer(t).Render(b.Plan(), out); err != nil {
		t.Fatalf("Expected render to succeed, got error: %v", err)
	}

	got := reopen(t, out).NRGBAAt(16, 16)
	want := color.NRGBA{R: 255, A: 255}
	if got != want {
		t.Errorf("Expected %v at center, got %v", want, got)
	}
}

func TestRenderGradientRampsDown(t *testing.T) {
	dir := t.TempDir()
	b := plan.NewBuilder("standard", 4, 8)
	b.VerticalGradient(plan.GradientSpec{From: "transparent", To: "black", StartY: 0, EndY: 8})

	out := filepath.Join(dir, "gradient.png")
	if err := testRenderer(t).Render(b.Plan(), out); err != nil {
		t.Fatalf("Expected render to succeed, got error: %v", err)
	}

	img := reopen(t, out)
	top := img.NRGBAAt(2, 0).A
	mid := img.NRGBAAt(2, 4).A
	bottom := img.NRGBAAt(2, 7).A
	if top != 0 {
		t.Errorf("Expected transparent top row, got alpha %d", top)
	}
	if !(bottom > mid && mid > top) {
		t.Errorf("Expected alpha to increase toward the bottom, got %d, %d, %d", top, mid, bottom)
	}
}

func TestRenderMaskDrawnOnTop(t *testing.T) {
	dir := t.TempDir()
	mask := filepath.Join(dir, "mask.png")
	writePNG(t, mask, 8, 8, color.NRGBA{R: 255, A: 255})

	b := plan.NewBuilder("standard", 8, 8)
	b.Rectangle(0, 0, 8, 8, "blue")
	b.MaskImage(mask)

	out := filepath.Join(dir, "masked.png")
	if err := testRenderer(t).Render(b.Plan(), out); err != nil {
		t.Fatalf("Expected render to succeed, got error: %v", err)
	}

	got := reopen(t, out).NRGBAAt(4, 4)
	if got.R != 255 || got.B != 0 {
		t.Errorf("Expected opaque mask pixel on top, got %v", got)
	}
}

func TestRenderMissingSource(t *testing.T) {
	dir := t.TempDir()
	b := plan.NewBuilder("standard", 32, 32)
	b.SourceImage(filepath.Join(dir, "absent.png"))

	err := testRenderer(t).Render(b.Plan(), filepath.Join(dir, "out.jpg"))
	if err == nil {
		t.Fatal("Expected error for missing source image, got nil")
	}
}

func TestRenderUnknownOperation(t *testing.T) {
	p := &plan.RenderPlan{
		CardType:   "bogus",
		Width:      16,
		Height:     16,
		Operations: []plan.DrawOperation{{Kind: "sparkle", Stage: plan.StageDecoration}},
	}

	err := testRenderer(t).Render(p, filepath.Join(t.TempDir(), "out.jpg"))
	if err == nil {
		t.Fatal("Expected error for unknown operation kind, got nil")
	}
}

// TestRenderTextLeavesInk draws through both text paths, the single
// DrawString pass and the per-rune pass used for kerning and interword
// spacing, and checks glyphs actually reached the canvas.
func TestRenderTextLeavesInk(t *testing.T) {
	specs := map[string]models.FontSpec{
		"plain":  {Size: 20, Color: "white"},
		"spaced": {Size: 20, Color: "white", Kerning: 2, InterwordSpacing: 4},
	}
	for name, spec := range specs {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			b := plan.NewBuilder("standard", 64, 64)
			b.TitleText("H I", 32, 40, plan.AnchorMiddle, spec)

			out := filepath.Join(dir, "text.png")
			if err := testRenderer(t).Render(b.Plan(), out); err != nil {
				t.Fatalf("Expected render to succeed, got error: %v", err)
			}

			img := reopen(t, out)
			ink := false
			for y := 0; y < 64 && !ink; y++ {
				for x := 0; x < 64; x++ {
					if img.NRGBAAt(x, y).A > 0 {
						ink = true
						break
					}
				}
			}
			if !ink {
				t.Error("Expected text to leave visible pixels, got a blank canvas")
			}
		})
	}
}

func TestRenderBadColor(t *testing.T) {
	b := plan.NewBuilder("standard", 16, 16)
	b.Rectangle(0, 0, 16, 16, "not-a-color")

	err := testRenderer(t).Render(b.Plan(), filepath.Join(t.TempDir(), "out.jpg"))
	if err == nil {
		t.Fatal("Expected error for unparseable color, got nil")
	}
}
