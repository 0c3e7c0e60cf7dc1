package gdisp

import (
	"image"

	"github.com/flavioheleno/gdisp/raster"
)

// The shapes below are built from the public primitives only, so each
// primitive they issue is clipped, accelerated and queued like any other
// call. A shape as a whole is not atomic in async mode.

// DrawBox draws the outline of the cx by cy rectangle at (x, y). Boxes one
// or two pixels wide collapse to vertical lines.
func (d *Display) DrawBox(x, y, cx, cy int, c Color) {
	if cx <= 0 || cy <= 0 {
		return
	}
	x1, y1 := x+cx-1, y+cy-1
	switch cx {
	case 1:
		d.DrawLine(x, y, x, y1, c)
	case 2:
		d.DrawLine(x, y, x, y1, c)
		d.DrawLine(x1, y, x1, y1, c)
	default:
		d.DrawLine(x, y, x1, y, c)
		if cy == 1 {
			return
		}
		d.DrawLine(x, y1, x1, y1, c)
		if cy > 2 {
			d.DrawLine(x, y+1, x, y1-1, c)
			d.DrawLine(x1, y+1, x1, y1-1, c)
		}
	}
}

// DrawRoundedBox draws a box whose corners are quarter circles of the
// given radius. It falls back to DrawBox when the corners do not fit.
func (d *Display) DrawRoundedBox(x, y, cx, cy, radius int, c Color) {
	if radius <= 0 || 2*radius > cx || 2*radius > cy {
		d.DrawBox(x, y, cx, cy, c)
		return
	}
	x1, y1 := x+cx-1, y+cy-1
	d.DrawArc(x+radius, y+radius, radius, 90, 180, c)
	d.DrawArc(x1-radius, y+radius, radius, 0, 90, c)
	d.DrawArc(x1-radius, y1-radius, radius, 270, 360, c)
	d.DrawArc(x+radius, y1-radius, radius, 180, 270, c)
	if x+radius+1 <= x1-radius-1 {
		d.DrawLine(x+radius+1, y, x1-radius-1, y, c)
		d.DrawLine(x+radius+1, y1, x1-radius-1, y1, c)
	}
	if y+radius+1 <= y1-radius-1 {
		d.DrawLine(x, y+radius+1, x, y1-radius-1, c)
		d.DrawLine(x1, y+radius+1, x1, y1-radius-1, c)
	}
}

// FillRoundedBox paints a box with quarter circle corners. It falls back
// to FillArea when the corners do not fit.
func (d *Display) FillRoundedBox(x, y, cx, cy, radius int, c Color) {
	if radius <= 0 || 2*radius > cx || 2*radius > cy {
		d.FillArea(x, y, cx, cy, c)
		return
	}
	x1, y1 := x+cx-1, y+cy-1
	d.FillArc(x+radius, y+radius, radius, 90, 180, c)
	d.FillArc(x1-radius, y+radius, radius, 0, 90, c)
	d.FillArc(x1-radius, y1-radius, radius, 270, 360, c)
	d.FillArc(x+radius, y1-radius, radius, 180, 270, c)
	// Columns strictly between the corner centres, above and below the
	// middle band.
	if inner := cx - 2*radius - 2; inner > 0 {
		d.FillArea(x+radius+1, y, inner, radius, c)
		d.FillArea(x+radius+1, y1-radius+1, inner, radius, c)
	}
	d.FillArea(x, y+radius, cx, cy-2*radius, c)
}

// DrawPoly draws the closed outline through pts, each offset by (tx, ty).
func (d *Display) DrawPoly(tx, ty int, pts []image.Point, c Color) {
	if len(pts) == 0 {
		return
	}
	for i := range pts {
		p, q := pts[i], pts[(i+1)%len(pts)]
		d.DrawLine(tx+p.X, ty+p.Y, tx+q.X, ty+q.Y, c)
	}
}

// FillConvexPoly paints the convex polygon through pts, each offset by
// (tx, ty). The right and bottom boundaries are left out so that polygons
// sharing an edge paint it once. Concave input gives undefined shapes.
func (d *Display) FillConvexPoly(tx, ty int, pts []image.Point, c Color) {
	if len(pts) < 3 {
		return
	}
	moved := make([]image.Point, len(pts))
	for i, p := range pts {
		moved[i] = p.Add(image.Pt(tx, ty))
	}
	raster.ConvexPoly(moved, func(y, x0, x1 int) {
		if x1-x0 == 1 {
			d.DrawPixel(x0, y, c)
			return
		}
		d.FillArea(x0, y, x1-x0, 1, c)
	})
}
