// Cardsmith - Title Card Rendering Engine for Media Servers
// Copyright 2026 Cardsmith Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardsmith/cardsmith

// Package plan models a card render as an ordered list of drawing
// operations.
//
// The pipeline runs the same seven stages for every card type: source
// image, pre-processing effects, color overlay, decorative primitives,
// index text, title text, and finally the mask image. The order is fixed
// structurally: the Builder buckets operations by stage and emits them in
// stage order no matter when a composer adds them, so the mask always
// lands on top of everything else.
package plan

import (
	"github.com/cardsmith/cardsmith/internal/models"
)

// Stage is one step of the compositing pipeline.
type Stage string

const (
	StageSource     Stage = "source"
	StagePreprocess Stage = "preprocess"
	StageOverlay    Stage = "overlay"
	StageDecoration Stage = "decoration"
	StageIndexText  Stage = "index_text"
	StageTitleText  Stage = "title_text"
	StageMask       Stage = "mask"
)

// StageOrder is the fixed pipeline order.
var StageOrder = [7]Stage{
	StageSource,
	StagePreprocess,
	StageOverlay,
	StageDecoration,
	StageIndexText,
	StageTitleText,
	StageMask,
}

// OpKind identifies the drawing primitive of one operation.
type OpKind string

const (
	OpSourceImage OpKind = "source_image"
	OpBlur        OpKind = "blur"
	OpGrayscale   OpKind = "grayscale"
	OpContrast    OpKind = "contrast"
	OpOverlay     OpKind = "overlay_color"
	OpGradient    OpKind = "gradient"
	OpRectangle   OpKind = "rectangle"
	OpPolygon     OpKind = "polygon"
	OpCircle      OpKind = "circle"
	OpLine        OpKind = "line"
	OpText        OpKind = "text"
	OpMaskImage   OpKind = "mask_image"
)

// Anchor positions text horizontally relative to its X coordinate.
type Anchor string

const (
	AnchorStart  Anchor = "start"
	AnchorMiddle Anchor = "middle"
	AnchorEnd    Anchor = "end"
)

// Point is a pixel coordinate on the canvas.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// GradientSpec describes a vertical color gradient between two rows.
type GradientSpec struct {
	From   string `json:"from"`
	To     string `json:"to"`
	StartY int    `json:"start_y"`
	EndY   int    `json:"end_y"`
}

// DrawOperation is a single step in the compositing pipeline. Which
// fields are meaningful depends on Kind; unused fields marshal away.
type DrawOperation struct {
	Kind         OpKind           `json:"kind"`
	Stage        Stage            `json:"stage"`
	Path         string           `json:"path,omitempty"`
	Color        string           `json:"color,omitempty"`
	Sigma        float64          `json:"sigma,omitempty"`
	Amount       float64          `json:"amount,omitempty"`
	X            int              `json:"x,omitempty"`
	Y            int              `json:"y,omitempty"`
	Width        int              `json:"width,omitempty"`
	Height       int              `json:"height,omitempty"`
	Radius       int              `json:"radius,omitempty"`
	CornerRadius int              `json:"corner_radius,omitempty"`
	Points       []Point          `json:"points,omitempty"`
	StrokeWidth  float64          `json:"stroke_width,omitempty"`
	StrokeColor  string           `json:"stroke_color,omitempty"`
	Gradient     *GradientSpec    `json:"gradient,omitempty"`
	Text         string           `json:"text,omitempty"`
	Font         *models.FontSpec `json:"font,omitempty"`
	Anchor       Anchor           `json:"anchor,omitempty"`
}

// RenderPlan is the final artifact for one card: the canvas dimensions
// and the ordered operations to draw on it. A plan belongs to exactly one
// render request and is never mutated after being built.
type RenderPlan struct {
	CardType   string          `json:"card_type"`
	Width      int             `json:"width"`
	Height     int             `json:"height"`
	Operations []DrawOperation `json:"operations"`
}
