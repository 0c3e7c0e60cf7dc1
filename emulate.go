package gdisp

import (
	"image"

	"github.com/flavioheleno/gdisp/font"
	"github.com/flavioheleno/gdisp/pixfmt"
	"github.com/flavioheleno/gdisp/raster"
)

// The methods below run with the display locked and the driver known to be
// usable. Each one validates its arguments, then either hands them to the
// driver or rebuilds the operation from simpler ones.

func (d *Display) pixel(x, y int, c Color) {
	if d.inClip(x, y) {
		d.drv.DrawPixel(x, y, c)
	}
}

// fillRaw fills an area that is already clipped.
func (d *Display) fillRaw(x, y, cx, cy int, c Color) {
	if d.ops.fill != nil {
		d.ops.fill(x, y, cx, cy, c)
		return
	}
	for j := y; j < y+cy; j++ {
		for i := x; i < x+cx; i++ {
			d.drv.DrawPixel(i, j, c)
		}
	}
}

func (d *Display) fillArea(x, y, cx, cy int, c Color) {
	if a, ok := d.clipped(area{X: x, Y: y, CX: cx, CY: cy}); ok {
		d.fillRaw(a.X, a.Y, a.CX, a.CY, c)
	}
}

// span fills the run [x0, x1) of row y.
func (d *Display) span(y, x0, x1 int, c Color) {
	d.fillArea(x0, y, x1-x0, 1, c)
}

// clear ignores the clip and always covers the whole screen.
func (d *Display) clear(c Color) {
	if d.ops.clear != nil {
		d.ops.clear(c)
		return
	}
	d.fillRaw(0, 0, d.st.Width, d.st.Height, c)
}

func (d *Display) blitArea(x, y, cx, cy, srcx, srcy int, src *pixfmt.Buffer) {
	if src == nil {
		return
	}
	// Never read past the source.
	cx = min(cx, src.Rect.Dx()-srcx)
	cy = min(cy, src.Rect.Dy()-srcy)
	a, ok := d.clipped(area{X: x, Y: y, CX: cx, CY: cy, SrcX: srcx, SrcY: srcy})
	if !ok || a.SrcX < 0 || a.SrcY < 0 {
		return
	}
	if d.ops.blit != nil {
		d.ops.blit(a.X, a.Y, a.CX, a.CY, a.SrcX, a.SrcY, src)
		return
	}
	ox, oy := src.Rect.Min.X+a.SrcX, src.Rect.Min.Y+a.SrcY
	for j := 0; j < a.CY; j++ {
		for i := 0; i < a.CX; i++ {
			d.drv.DrawPixel(a.X+i, a.Y+j, src.ColorAt(ox+i, oy+j))
		}
	}
}

func (d *Display) getPixel(x, y int) Color {
	if d.ops.read == nil || !d.inClip(x, y) {
		return 0
	}
	return d.ops.read(x, y)
}

func (d *Display) drawLine(x0, y0, x1, y1 int, c Color) {
	switch {
	case y0 == y1:
		d.fillArea(min(x0, x1), y0, abs(x1-x0)+1, 1, c)
		return
	case x0 == x1:
		d.fillArea(x0, min(y0, y1), 1, abs(y1-y0)+1, c)
		return
	}
	bbox := image.Rect(min(x0, x1), min(y0, y1), max(x0, x1)+1, max(y0, y1)+1)
	if !d.visible(bbox) {
		return
	}
	if d.ops.line != nil && d.contains(bbox) {
		d.ops.line(x0, y0, x1, y1, c)
		return
	}
	raster.Line(x0, y0, x1, y1, func(x, y int) { d.pixel(x, y, c) })
}

// square returns the bounding box of a shape centred on (x, y).
func square(x, y, rx, ry int) image.Rectangle {
	return image.Rect(x-rx, y-ry, x+rx+1, y+ry+1)
}

func (d *Display) drawCircle(x, y, r int, c Color) {
	bbox := square(x, y, r, r)
	if r < 0 || !d.visible(bbox) {
		return
	}
	if d.ops.circle != nil && d.contains(bbox) {
		d.ops.circle(x, y, r, c)
		return
	}
	raster.Circle(r, func(dx, dy int) { d.pixel(x+dx, y+dy, c) })
}

func (d *Display) fillCircle(x, y, r int, c Color) {
	bbox := square(x, y, r, r)
	if r < 0 || !d.visible(bbox) {
		return
	}
	if d.ops.fillCircle != nil && d.contains(bbox) {
		d.ops.fillCircle(x, y, r, c)
		return
	}
	raster.CircleSpans(r, func(dy, x0, x1 int) { d.span(y+dy, x+x0, x+x1, c) })
}

func (d *Display) drawEllipse(x, y, a, b int, c Color) {
	bbox := square(x, y, a, b)
	if a < 0 || b < 0 || !d.visible(bbox) {
		return
	}
	if d.ops.ellipse != nil && d.contains(bbox) {
		d.ops.ellipse(x, y, a, b, c)
		return
	}
	raster.Ellipse(a, b, func(dx, dy int) { d.pixel(x+dx, y+dy, c) })
}

func (d *Display) fillEllipse(x, y, a, b int, c Color) {
	bbox := square(x, y, a, b)
	if a < 0 || b < 0 || !d.visible(bbox) {
		return
	}
	if d.ops.fillEllipse != nil && d.contains(bbox) {
		d.ops.fillEllipse(x, y, a, b, c)
		return
	}
	raster.EllipseSpans(a, b, func(dy, x0, x1 int) { d.span(y+dy, x+x0, x+x1, c) })
}

func (d *Display) drawArc(x, y, r, start, end int, c Color) {
	bbox := square(x, y, r, r)
	if r < 0 || !d.visible(bbox) {
		return
	}
	if d.ops.arc != nil && d.contains(bbox) {
		d.ops.arc(x, y, r, start, end, c)
		return
	}
	raster.ArcPoints(r, raster.NewArc(start, end), func(dx, dy int) { d.pixel(x+dx, y+dy, c) })
}

func (d *Display) fillArc(x, y, r, start, end int, c Color) {
	bbox := square(x, y, r, r)
	if r < 0 || !d.visible(bbox) {
		return
	}
	if d.ops.fillArc != nil && d.contains(bbox) {
		d.ops.fillArc(x, y, r, start, end, c)
		return
	}
	raster.ArcSpans(r, raster.NewArc(start, end), func(dy, x0, x1 int) { d.span(y+dy, x+x0, x+x1, c) })
}

func (d *Display) verticalScroll(x, y, cx, cy, lines int, bg Color) {
	if lines == 0 {
		return
	}
	a, ok := d.clipped(area{X: x, Y: y, CX: cx, CY: cy})
	if !ok {
		return
	}
	if d.ops.scroll != nil {
		d.ops.scroll(a.X, a.Y, a.CX, a.CY, lines, bg)
		return
	}
	n := abs(lines)
	if n >= a.CY {
		d.fillRaw(a.X, a.Y, a.CX, a.CY, bg)
		return
	}
	if d.ops.read == nil {
		d.logger().Warn("scroll without pixel read, clearing area instead",
			"x", a.X, "y", a.Y, "cx", a.CX, "cy", a.CY)
		d.fillRaw(a.X, a.Y, a.CX, a.CY, bg)
		return
	}

	if cap(d.rowBuf) < a.CX {
		d.rowBuf = make([]Color, a.CX)
	}
	row := d.rowBuf[:a.CX]
	for i := 0; i < a.CY-n; i++ {
		var from, to int
		if lines > 0 {
			to = a.Y + i
			from = to + n
		} else {
			to = a.Y + a.CY - 1 - i
			from = to - n
		}
		for j := range row {
			row[j] = d.ops.read(a.X+j, from)
		}
		d.writeRow(a.X, to, row)
	}
	if lines > 0 {
		d.fillRaw(a.X, a.Y+a.CY-n, a.CX, n, bg)
	} else {
		d.fillRaw(a.X, a.Y, a.CX, n, bg)
	}
}

// writeRow writes row back at (x, y), one fill per run of equal colors.
func (d *Display) writeRow(x, y int, row []Color) {
	start := 0
	for i := 1; i <= len(row); i++ {
		if i == len(row) || row[i] != row[start] {
			d.fillRaw(x+start, y, i-start, 1, row[start])
			start = i
		}
	}
}

// glyph describes one character request.
type glyph struct {
	r      rune
	font   *font.Font
	fg, bg Color
	fill   bool            // paint the cell and ink box with bg first
	blend  bool            // bg is known, blend partial coverage against it
	limit  image.Rectangle // pixels outside are never touched
}

// noLimit is the limit of characters drawn outside of a box.
var noLimit = image.Rect(-maxDim-1, -maxDim-1, 2*maxDim+1, 2*maxDim+1)

func (d *Display) drawChar(x, y int, g glyph) {
	if g.font == nil {
		return
	}
	box := g.font.Bounds(g.r).Add(image.Pt(x, y))
	vis := g.limit
	if !d.opts.NoValidation {
		vis = vis.Intersect(d.st.Clip)
	}
	if vis.Empty() || box.Empty() {
		return
	}
	// Drivers only see glyphs whose ink and cell are both visible.
	if box.In(vis) {
		if g.fill && d.ops.fillChar != nil {
			d.ops.fillChar(x, y, g.r, g.font, g.fg, g.bg)
			return
		}
		if !g.fill && !g.blend && d.ops.char != nil {
			d.ops.char(x, y, g.r, g.font, g.fg)
			return
		}
	}
	if g.fill {
		if r := box.Intersect(vis); !r.Empty() {
			d.fillRaw(r.Min.X, r.Min.Y, r.Dx(), r.Dy(), g.bg)
		}
	}

	g.font.Render(g.r, func(rx, ry, count int, alpha uint8) {
		run := image.Rect(x+rx, y+ry, x+rx+count, y+ry+1).Intersect(vis)
		if run.Empty() {
			return
		}
		switch {
		case alpha == 0xFF:
			d.fillRaw(run.Min.X, run.Min.Y, run.Dx(), 1, g.fg)
		case g.fill || g.blend:
			d.fillRaw(run.Min.X, run.Min.Y, run.Dx(), 1, pixfmt.Blend(g.fg, g.bg, alpha))
		case d.ops.read != nil:
			for px := run.Min.X; px < run.Max.X; px++ {
				under := d.ops.read(px, run.Min.Y)
				d.drv.DrawPixel(px, run.Min.Y, pixfmt.Blend(g.fg, under, alpha))
			}
		case alpha >= 0x80:
			d.fillRaw(run.Min.X, run.Min.Y, run.Dx(), 1, g.fg)
		}
	})
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
