// Cardsmith - Title Card Rendering Engine for Media Servers
// Copyright 2026 Cardsmith Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardsmith/cardsmith

package plan

import (
	"github.com/cardsmith/cardsmith/internal/models"
)

// Builder collects drawing operations into stage buckets and emits them
// in pipeline order. Within a stage, operations keep insertion order.
// The source and mask stages hold at most one operation each; setting
// them again replaces the previous value.
//
// Builder is not safe for concurrent use; each render request owns one.
type Builder struct {
	cardType string
	width    int
	height   int
	buckets  [len(StageOrder)][]DrawOperation
}

// NewBuilder returns a Builder for a canvas of the given dimensions.
func NewBuilder(cardType string, width, height int) *Builder {
	return &Builder{cardType: cardType, width: width, height: height}
}

// Width returns the canvas width in pixels.
func (b *Builder) Width() int { return b.width }

// Height returns the canvas height in pixels.
func (b *Builder) Height() int { return b.height }

func stageIndex(s Stage) int {
	for i, stage := range StageOrder {
		if stage == s {
			return i
		}
	}
	return 0
}

func (b *Builder) append(stage Stage, op DrawOperation) {
	op.Stage = stage
	i := stageIndex(stage)
	b.buckets[i] = append(b.buckets[i], op)
}

func (b *Builder) set(stage Stage, op DrawOperation) {
	op.Stage = stage
	b.buckets[stageIndex(stage)] = []DrawOperation{op}
}

// SourceImage sets the base image, resized to fill the canvas.
func (b *Builder) SourceImage(path string) {
	b.set(StageSource, DrawOperation{Kind: OpSourceImage, Path: path})
}

// Blur applies a gaussian blur to the base image.
func (b *Builder) Blur(sigma float64) {
	b.append(StagePreprocess, DrawOperation{Kind: OpBlur, Sigma: sigma})
}

// Grayscale desaturates the base image.
func (b *Builder) Grayscale() {
	b.append(StagePreprocess, DrawOperation{Kind: OpGrayscale})
}

// Contrast adjusts base image contrast; amount is a percentage in
// [-100, 100].
func (b *Builder) Contrast(amount float64) {
	b.append(StagePreprocess, DrawOperation{Kind: OpContrast, Amount: amount})
}

// OverlayColor flood-fills the canvas with a translucent color.
func (b *Builder) OverlayColor(color string) {
	b.append(StageOverlay, DrawOperation{Kind: OpOverlay, Color: color})
}

// VerticalGradient blends between two colors over a row range.
func (b *Builder) VerticalGradient(g GradientSpec) {
	spec := g
	b.append(StageOverlay, DrawOperation{Kind: OpGradient, Gradient: &spec})
}

// Rectangle draws a filled axis-aligned rectangle.
func (b *Builder) Rectangle(x, y, width, height int, color string) {
	b.append(StageDecoration, DrawOperation{
		Kind: OpRectangle, X: x, Y: y, Width: width, Height: height, Color: color,
	})
}

// RoundedRectangle draws a filled rectangle with rounded corners.
func (b *Builder) RoundedRectangle(x, y, width, height, cornerRadius int, color string) {
	b.append(StageDecoration, DrawOperation{
		Kind: OpRectangle, X: x, Y: y, Width: width, Height: height,
		CornerRadius: cornerRadius, Color: color,
	})
}

// Polygon draws a filled polygon.
func (b *Builder) Polygon(points []Point, color string) {
	b.append(StageDecoration, DrawOperation{Kind: OpPolygon, Points: points, Color: color})
}

// PolygonOutline draws a polygon outline with the given stroke width.
func (b *Builder) PolygonOutline(points []Point, strokeWidth float64, color string) {
	b.append(StageDecoration, DrawOperation{
		Kind: OpPolygon, Points: points, StrokeWidth: strokeWidth, Color: color,
	})
}

// Circle draws a filled circle centered at (cx, cy).
func (b *Builder) Circle(cx, cy, radius int, color string) {
	b.append(StageDecoration, DrawOperation{Kind: OpCircle, X: cx, Y: cy, Radius: radius, Color: color})
}

// CircleOutline draws a circle outline with the given stroke width.
func (b *Builder) CircleOutline(cx, cy, radius int, strokeWidth float64, color string) {
	b.append(StageDecoration, DrawOperation{
		Kind: OpCircle, X: cx, Y: cy, Radius: radius, StrokeWidth: strokeWidth, Color: color,
	})
}

// Line draws a straight line segment.
func (b *Builder) Line(from, to Point, strokeWidth float64, color string) {
	b.append(StageDecoration, DrawOperation{
		Kind: OpLine, Points: []Point{from, to}, StrokeWidth: strokeWidth, Color: color,
	})
}

// IndexText draws season/episode index text. Empty text is a no-op so
// composers need not guard optional labels.
func (b *Builder) IndexText(text string, x, y int, anchor Anchor, font models.FontSpec) {
	b.text(StageIndexText, text, x, y, anchor, font)
}

// TitleText draws one line of title text.
func (b *Builder) TitleText(text string, x, y int, anchor Anchor, font models.FontSpec) {
	b.text(StageTitleText, text, x, y, anchor, font)
}

func (b *Builder) text(stage Stage, text string, x, y int, anchor Anchor, font models.FontSpec) {
	if text == "" {
		return
	}
	spec := font
	b.append(stage, DrawOperation{
		Kind: OpText, Text: text, X: x, Y: y, Anchor: anchor, Font: &spec,
	})
}

// MaskImage sets the mask applied unconditionally on top of all prior
// stages.
func (b *Builder) MaskImage(path string) {
	b.set(StageMask, DrawOperation{Kind: OpMaskImage, Path: path})
}

// Plan assembles the buckets into the final ordered operation list.
// Calling Plan repeatedly without intervening mutations yields identical
// plans.
func (b *Builder) Plan() *RenderPlan {
	total := 0
	for _, bucket := range b.buckets {
		total += len(bucket)
	}

	ops := make([]DrawOperation, 0, total)
	for _, bucket := range b.buckets {
		ops = append(ops, bucket...)
	}

	return &RenderPlan{
		CardType:   b.cardType,
		Width:      b.width,
		Height:     b.height,
		Operations: ops,
	}
}
