// Cardsmith - Title Card Rendering Engine for Media Servers
// Copyright 2026 Cardsmith Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardsmith/cardsmith

// Package render rasterizes render plans into image files.
//
// The renderer walks a plan's operations in order and draws each one onto
// an in-memory canvas, then encodes the canvas at the requested path. It
// trusts the plan: stage ordering, color validity, and asset discovery
// are the planner's job, and any error here aborts only the card being
// rendered.
package render

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/cardsmith/cardsmith/internal/colors"
	"github.com/cardsmith/cardsmith/internal/fonts"
	"github.com/cardsmith/cardsmith/internal/plan"
)

// DefaultJPEGQuality is used when the renderer is built with a
// non-positive quality.
const DefaultJPEGQuality = 92

// Renderer executes render plans. It is safe for concurrent use; each
// Render call works on its own canvas.
type Renderer struct {
	fonts   *fonts.Manager
	quality int
}

// NewRenderer returns a Renderer drawing text through the given font
// manager and encoding JPEG output at the given quality.
func NewRenderer(fm *fonts.Manager, quality int) *Renderer {
	if quality <= 0 {
		quality = DefaultJPEGQuality
	}
	return &Renderer{fonts: fm, quality: quality}
}

// Render draws the plan onto a fresh canvas and writes it to outputPath,
// creating parent directories as needed. The output format follows the
// path's extension. The file is written to a temp name and renamed into
// place so directory watchers never see a partially written card.
func (r *Renderer) Render(p *plan.RenderPlan, outputPath string) error {
	canvas := imaging.New(p.Width, p.Height, color.Transparent)

	for _, op := range p.Operations {
		var err error
		canvas, err = r.apply(canvas, p, op)
		if err != nil {
			return fmt.Errorf("%s operation: %w", op.Kind, err)
		}
	}

	return r.write(canvas, outputPath)
}

func (r *Renderer) write(canvas *image.NRGBA, outputPath string) error {
	format, err := imaging.FormatFromFilename(outputPath)
	if err != nil {
		return fmt.Errorf("output format: %w", err)
	}

	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".card-*")
	if err != nil {
		return fmt.Errorf("create temp card: %w", err)
	}
	if err := imaging.Encode(tmp, canvas, format, imaging.JPEGQuality(r.quality)); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("encode card: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp card: %w", err)
	}
	if err := os.Rename(tmp.Name(), outputPath); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("finalize card: %w", err)
	}
	return nil
}

func (r *Renderer) apply(canvas *image.NRGBA, p *plan.RenderPlan, op plan.DrawOperation) (*image.NRGBA, error) {
	switch op.Kind {
	case plan.OpSourceImage:
		src, err := imaging.Open(op.Path)
		if err != nil {
			return nil, err
		}
		return imaging.Fill(src, p.Width, p.Height, imaging.Center, imaging.Lanczos), nil

	case plan.OpBlur:
		return imaging.Blur(canvas, op.Sigma), nil

	case plan.OpGrayscale:
		return imaging.Grayscale(canvas), nil

	case plan.OpContrast:
		return imaging.AdjustContrast(canvas, op.Amount), nil

	case plan.OpOverlay:
		c, err := colors.Parse(op.Color)
		if err != nil {
			return nil, err
		}
		fillOverlay(canvas, c)
		return canvas, nil

	case plan.OpGradient:
		if err := drawVerticalGradient(canvas, op.Gradient); err != nil {
			return nil, err
		}
		return canvas, nil

	case plan.OpRectangle:
		c, err := colors.Parse(op.Color)
		if err != nil {
			return nil, err
		}
		fillRoundedRect(canvas, op.X, op.Y, op.Width, op.Height, op.CornerRadius, c)
		return canvas, nil

	case plan.OpPolygon:
		c, err := colors.Parse(op.Color)
		if err != nil {
			return nil, err
		}
		if op.StrokeWidth > 0 {
			strokePolygon(canvas, op.Points, op.StrokeWidth, c)
		} else {
			fillPolygon(canvas, op.Points, c)
		}
		return canvas, nil

	case plan.OpCircle:
		c, err := colors.Parse(op.Color)
		if err != nil {
			return nil, err
		}
		if op.StrokeWidth > 0 {
			strokeCircle(canvas, op.X, op.Y, op.Radius, op.StrokeWidth, c)
		} else {
			fillCircle(canvas, op.X, op.Y, op.Radius, c)
		}
		return canvas, nil

	case plan.OpLine:
		c, err := colors.Parse(op.Color)
		if err != nil {
			return nil, err
		}
		if len(op.Points) == 2 {
			drawThickLine(canvas, op.Points[0], op.Points[1], op.StrokeWidth, c)
		}
		return canvas, nil

	case plan.OpText:
		if err := r.drawText(canvas, op); err != nil {
			return nil, err
		}
		return canvas, nil

	case plan.OpMaskImage:
		mask, err := imaging.Open(op.Path)
		if err != nil {
			return nil, err
		}
		resized := imaging.Fill(mask, p.Width, p.Height, imaging.Center, imaging.Lanczos)
		return imaging.Overlay(canvas, resized, image.Pt(0, 0), 1.0), nil

	default:
		return nil, fmt.Errorf("unknown operation kind %q", op.Kind)
	}
}
