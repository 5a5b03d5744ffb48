// Cardsmith - Title Card Rendering Engine for Media Servers
// Copyright 2026 Cardsmith Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardsmith/cardsmith

package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"sort"

	"github.com/cardsmith/cardsmith/internal/colors"
	"github.com/cardsmith/cardsmith/internal/plan"
)

// blendPixel composites c over one canvas pixel, source-over.
func blendPixel(img *image.NRGBA, x, y int, c color.NRGBA) {
	if c.A == 0 || !(image.Pt(x, y).In(img.Rect)) {
		return
	}
	if c.A == 255 {
		img.SetNRGBA(x, y, c)
		return
	}
	dst := img.NRGBAAt(x, y)
	a := uint32(c.A)
	ia := 255 - a
	img.SetNRGBA(x, y, color.NRGBA{
		R: uint8((uint32(c.R)*a + uint32(dst.R)*ia) / 255),
		G: uint8((uint32(c.G)*a + uint32(dst.G)*ia) / 255),
		B: uint8((uint32(c.B)*a + uint32(dst.B)*ia) / 255),
		A: uint8(a + uint32(dst.A)*ia/255),
	})
}

func blendSpan(img *image.NRGBA, x0, x1, y int, c color.NRGBA) {
	for x := x0; x <= x1; x++ {
		blendPixel(img, x, y, c)
	}
}

// fillOverlay washes the whole canvas with a translucent color.
func fillOverlay(img *image.NRGBA, c color.NRGBA) {
	draw.Draw(img, img.Rect, image.NewUniform(c), image.Point{}, draw.Over)
}

func lerpColor(a, b color.NRGBA, t float64) color.NRGBA {
	lerp := func(x, y uint8) uint8 {
		return uint8(float64(x) + t*(float64(y)-float64(x)) + 0.5)
	}
	return color.NRGBA{
		R: lerp(a.R, b.R),
		G: lerp(a.G, b.G),
		B: lerp(a.B, b.B),
		A: lerp(a.A, b.A),
	}
}

// drawVerticalGradient blends row by row between the gradient's two colors.
func drawVerticalGradient(img *image.NRGBA, g *plan.GradientSpec) error {
	from, err := colors.Parse(g.From)
	if err != nil {
		return err
	}
	to, err := colors.Parse(g.To)
	if err != nil {
		return err
	}

	span := g.EndY - g.StartY
	if span <= 0 {
		return nil
	}
	for y := g.StartY; y < g.EndY; y++ {
		t := float64(y-g.StartY) / float64(span)
		c := lerpColor(from, to, t)
		if c.A == 0 {
			continue
		}
		blendSpan(img, img.Rect.Min.X, img.Rect.Max.X-1, y, c)
	}
	return nil
}

// fillRoundedRect fills an axis-aligned rectangle, rounding corners by
// cornerRadius pixels when positive.
func fillRoundedRect(img *image.NRGBA, x, y, w, h, cornerRadius int, c color.NRGBA) {
	if w <= 0 || h <= 0 {
		return
	}
	r := cornerRadius
	if r > w/2 {
		r = w / 2
	}
	if r > h/2 {
		r = h / 2
	}

	for row := y; row < y+h; row++ {
		inset := 0
		if r > 0 {
			d := 0
			if row < y+r {
				d = (y + r) - row
			} else if row >= y+h-r {
				d = row - (y + h - 1 - r)
			}
			if d > 0 {
				inset = r - int(math.Sqrt(float64(r*r-d*d)))
			}
		}
		blendSpan(img, x+inset, x+w-1-inset, row, c)
	}
}

// scanIntersections returns the sorted x coordinates where the polygon's
// edges cross the horizontal line at fy.
func scanIntersections(pts []plan.Point, fy float64, xs []float64) []float64 {
	n := len(pts)
	for i := 0; i < n; i++ {
		p1 := pts[i]
		p2 := pts[(i+1)%n]
		y1, y2 := float64(p1.Y), float64(p2.Y)
		if (y1 <= fy && y2 > fy) || (y2 <= fy && y1 > fy) {
			t := (fy - y1) / (y2 - y1)
			xs = append(xs, float64(p1.X)+t*float64(p2.X-p1.X))
		}
	}
	return xs
}

func polygonRows(pts []plan.Point) (minY, maxY int) {
	minY, maxY = pts[0].Y, pts[0].Y
	for _, p := range pts[1:] {
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return minY, maxY
}

func fillSpans(img *image.NRGBA, xs []float64, y int, c color.NRGBA) {
	sort.Float64s(xs)
	for i := 0; i+1 < len(xs); i += 2 {
		x0 := int(math.Ceil(xs[i] - 0.5))
		x1 := int(math.Floor(xs[i+1] - 0.5))
		blendSpan(img, x0, x1, y, c)
	}
}

// fillPolygon fills a polygon by even-odd scanline.
func fillPolygon(img *image.NRGBA, pts []plan.Point, c color.NRGBA) {
	if len(pts) < 3 {
		return
	}
	minY, maxY := polygonRows(pts)
	var xs []float64
	for y := minY; y <= maxY; y++ {
		xs = scanIntersections(pts, float64(y)+0.5, xs[:0])
		fillSpans(img, xs, y, c)
	}
}

// strokePolygon draws a polygon outline by even-odd filling the ring
// between the polygon and a copy shrunk toward its centroid by the
// stroke width.
func strokePolygon(img *image.NRGBA, pts []plan.Point, stroke float64, c color.NRGBA) {
	if len(pts) < 3 {
		return
	}

	var cx, cy float64
	for _, p := range pts {
		cx += float64(p.X)
		cy += float64(p.Y)
	}
	cx /= float64(len(pts))
	cy /= float64(len(pts))

	inner := make([]plan.Point, len(pts))
	for i, p := range pts {
		dx := float64(p.X) - cx
		dy := float64(p.Y) - cy
		dist := math.Hypot(dx, dy)
		if dist <= stroke {
			inner[i] = plan.Point{X: int(cx), Y: int(cy)}
			continue
		}
		scale := (dist - stroke) / dist
		inner[i] = plan.Point{
			X: int(cx + dx*scale + 0.5),
			Y: int(cy + dy*scale + 0.5),
		}
	}

	minY, maxY := polygonRows(pts)
	var xs []float64
	for y := minY; y <= maxY; y++ {
		fy := float64(y) + 0.5
		xs = scanIntersections(pts, fy, xs[:0])
		xs = scanIntersections(inner, fy, xs)
		fillSpans(img, xs, y, c)
	}
}

// fillCircle fills a circle centered at (cx, cy).
func fillCircle(img *image.NRGBA, cx, cy, r int, c color.NRGBA) {
	for dy := -r; dy <= r; dy++ {
		dx := int(math.Sqrt(float64(r*r - dy*dy)))
		blendSpan(img, cx-dx, cx+dx, cy+dy, c)
	}
}

// strokeCircle draws a circle outline of the given stroke width.
func strokeCircle(img *image.NRGBA, cx, cy, r int, stroke float64, c color.NRGBA) {
	ri := r - int(stroke+0.5)
	if ri < 0 {
		ri = 0
	}
	for dy := -r; dy <= r; dy++ {
		outer := int(math.Sqrt(float64(r*r - dy*dy)))
		if dy >= -ri && dy <= ri {
			innerR := int(math.Sqrt(float64(ri*ri - dy*dy)))
			blendSpan(img, cx-outer, cx-innerR-1, cy+dy, c)
			blendSpan(img, cx+innerR+1, cx+outer, cy+dy, c)
		} else {
			blendSpan(img, cx-outer, cx+outer, cy+dy, c)
		}
	}
}

// drawThickLine draws a line segment as a filled quad of the given width.
func drawThickLine(img *image.NRGBA, from, to plan.Point, width float64, c color.NRGBA) {
	if width <= 0 {
		width = 1
	}
	dx := float64(to.X - from.X)
	dy := float64(to.Y - from.Y)
	length := math.Hypot(dx, dy)
	if length == 0 {
		fillCircle(img, from.X, from.Y, int(width/2), c)
		return
	}

	px := -dy / length * width / 2
	py := dx / length * width / 2
	quad := []plan.Point{
		{X: int(float64(from.X) + px + 0.5), Y: int(float64(from.Y) + py + 0.5)},
		{X: int(float64(to.X) + px + 0.5), Y: int(float64(to.Y) + py + 0.5)},
		{X: int(float64(to.X) - px + 0.5), Y: int(float64(to.Y) - py + 0.5)},
		{X: int(float64(from.X) - px + 0.5), Y: int(float64(from.Y) - py + 0.5)},
	}
	fillPolygon(img, quad, c)
}
