// Package raster holds the integer rasterization algorithms shared by the
// gdisp emulation layer and by drivers that accelerate a primitive in
// software of their own (simulators, memory framebuffers).
//
// Every function is pure: it reports pixels or horizontal spans through a
// callback and never clips. Clipping is the caller's job.
package raster

import (
	"image"
	"math"
)

// PlotFunc receives one pixel.
type PlotFunc func(x, y int)

// SpanFunc receives the horizontal run [x0, x1) on row y.
type SpanFunc func(y, x0, x1 int)

// Line walks the Bresenham line from (x0, y0) to (x1, y1), both endpoints
// included, advancing the major axis by one pixel per step.
func Line(x0, y0, x1, y1 int, plot PlotFunc) {
	dx, dy := abs(x1-x0), abs(y1-y0)
	stepX, stepY := sign(x1-x0), sign(y1-y0)

	if dx >= dy {
		// decision is 2*dy - dx, kept doubled so it stays integral.
		decision := 2*dy - dx
		y := y0
		for x := x0; ; x += stepX {
			plot(x, y)
			if x == x1 {
				return
			}
			if decision > 0 {
				y += stepY
				decision -= 2 * dx
			}
			decision += 2 * dy
		}
	}

	decision := 2*dx - dy
	x := x0
	for y := y0; ; y += stepY {
		plot(x, y)
		if y == y1 {
			return
		}
		if decision > 0 {
			x += stepX
			decision -= 2 * dy
		}
		decision += 2 * dx
	}
}

// Circle walks one octant of the midpoint circle of the given radius and
// reports each step through its eight reflections, as offsets from the
// center. Pixels on the axes and diagonals are reported more than once.
func Circle(radius int, plot PlotFunc) {
	if radius < 0 {
		return
	}
	minor, major := 0, radius
	decision := 1 - radius
	for minor <= major {
		plot(minor, major)
		plot(major, minor)
		plot(-minor, major)
		plot(-major, minor)
		plot(major, -minor)
		plot(minor, -major)
		plot(-minor, -major)
		plot(-major, -minor)
		if decision < 0 {
			decision += 3 + 2*minor
		} else {
			decision += 5 + 2*(minor-major)
			major--
		}
		minor++
	}
}

// CircleSpans reports the horizontal spans, relative to the center, that
// fill the circle drawn by Circle. Rows may be reported more than once.
func CircleSpans(radius int, span SpanFunc) {
	if radius < 0 {
		return
	}
	minor, major := 0, radius
	decision := 1 - radius
	for minor <= major {
		span(major, -minor, minor+1)
		span(minor, -major, major+1)
		span(-major, -minor, minor+1)
		span(-minor, -major, major+1)
		if decision < 0 {
			decision += 3 + 2*minor
		} else {
			decision += 5 + 2*(minor-major)
			major--
		}
		minor++
	}
}

// Ellipse walks the midpoint ellipse with horizontal radius a and vertical
// radius b through its two regions, reporting each step through its four
// reflections as offsets from the center.
func Ellipse(a, b int, plot PlotFunc) {
	ellipse(a, b, func(x, y int) {
		plot(x, y)
		plot(-x, y)
		plot(x, -y)
		plot(-x, -y)
	})
}

// EllipseSpans reports the horizontal spans, relative to the center, that
// fill the ellipse drawn by Ellipse.
func EllipseSpans(a, b int, span SpanFunc) {
	ellipse(a, b, func(x, y int) {
		span(y, -x, x+1)
		if y != 0 {
			span(-y, -x, x+1)
		}
	})
}

// ellipse reports the first quadrant of the ellipse. Decision values are
// scaled by 4 so the half-pixel midpoints stay integral.
func ellipse(a, b int, quadrant PlotFunc) {
	if a < 0 || b < 0 {
		return
	}
	if b == 0 {
		for x := 0; x <= a; x++ {
			quadrant(x, 0)
		}
		return
	}
	aa, bb := int64(a)*int64(a), int64(b)*int64(b)
	x, y := int64(0), int64(b)
	// Gradient components: stepX = 2*b²*x, stepY = 2*a²*y.
	stepX, stepY := int64(0), 2*aa*y

	// Region 1: slope magnitude below 1, x advances every step.
	decision := 4*bb - 4*aa*int64(b) + aa
	for stepX < stepY {
		quadrant(int(x), int(y))
		x++
		stepX += 2 * bb
		if decision < 0 {
			decision += 4 * (stepX + bb)
		} else {
			y--
			stepY -= 2 * aa
			decision += 4 * (stepX - stepY + bb)
		}
	}

	// Region 2: slope magnitude of 1 or more, y advances every step.
	decision = bb*(4*x*x+4*x+1) + 4*aa*(y-1)*(y-1) - 4*aa*bb
	for y >= 0 {
		quadrant(int(x), int(y))
		y--
		stepY -= 2 * aa
		if decision > 0 {
			decision += 4 * (aa - stepY)
		} else {
			x++
			stepX += 2 * bb
			decision += 4 * (stepX - stepY + aa)
		}
	}
}

// Arc selects the part of a circle between two angles. Angles are degrees,
// 0 at three o'clock, growing counter-clockwise; the arc runs from Start to
// End in that direction.
type Arc struct {
	start, end float64
	full       bool
}

const angleEpsilon = 1e-9

// NewArc builds the arc from start to end degrees. Any sweep of 360 degrees
// or more is the full circle.
func NewArc(start, end int) Arc {
	if end-start >= 360 || start-end >= 360 {
		return Arc{full: true}
	}
	return Arc{start: float64(mod360(start)), end: float64(mod360(end))}
}

// Full reports whether the arc is the whole circle.
func (a Arc) Full() bool { return a.full }

// Contains reports whether the offset (dx, dy) from the center, in screen
// coordinates with y growing downwards, lies inside the arc.
func (a Arc) Contains(dx, dy int) bool {
	if a.full || (dx == 0 && dy == 0) {
		return true
	}
	deg := math.Atan2(float64(-dy), float64(dx)) * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	if a.start <= a.end {
		return deg >= a.start-angleEpsilon && deg <= a.end+angleEpsilon
	}
	return deg >= a.start-angleEpsilon || deg <= a.end+angleEpsilon
}

// ArcPoints reports the outline pixels of Circle that fall inside arc.
func ArcPoints(radius int, arc Arc, plot PlotFunc) {
	Circle(radius, func(dx, dy int) {
		if arc.Contains(dx, dy) {
			plot(dx, dy)
		}
	})
}

// ArcSpans reports the runs of the filled circle that fall inside arc.
// Runs may overlap; callers painting a solid color can ignore that.
func ArcSpans(radius int, arc Arc, span SpanFunc) {
	CircleSpans(radius, func(dy, x0, x1 int) {
		if arc.full {
			span(dy, x0, x1)
			return
		}
		start := x0
		for x := x0; x < x1; x++ {
			if arc.Contains(x, dy) {
				continue
			}
			if start < x {
				span(dy, start, x)
			}
			start = x + 1
		}
		if start < x1 {
			span(dy, start, x1)
		}
	})
}

// fixed16 is a 16.16 fixed point value.
type fixed16 int64

func toFixed(v int) fixed16  { return fixed16(v) << 16 }
func (f fixed16) round() int { return int((f + 1<<15) >> 16) }

// ConvexPoly scan-converts a convex polygon by walking its left and right
// edges downwards from the top vertex with fixed point slope accumulators.
// The right boundary pixel of every span and the bottom row are excluded
// so that polygons sharing an edge tile without painting it twice.
func ConvexPoly(pts []image.Point, span SpanFunc) {
	n := len(pts)
	if n < 3 {
		return
	}
	prev := func(i int) int {
		if i == 0 {
			return n - 1
		}
		return i - 1
	}
	next := func(i int) int {
		if i == n-1 {
			return 0
		}
		return i + 1
	}

	top := 0
	for i := 1; i < n; i++ {
		if pts[i].Y < pts[top].Y {
			top = i
		}
	}
	y := pts[top].Y
	lx, rx := toFixed(pts[top].X), toFixed(pts[top].X)
	remaining := n

	// Skip vertices sharing the top row on either side.
	l := prev(top)
	for pts[l].Y == y {
		lx = toFixed(pts[l].X)
		l = prev(l)
		if remaining--; remaining == 0 {
			return
		}
	}
	r := next(top)
	for pts[r].Y == y {
		rx = toFixed(pts[r].X)
		r = next(r)
		if remaining--; remaining == 0 {
			return
		}
	}
	lk := (toFixed(pts[l].X) - lx) / fixed16(pts[l].Y-y)
	rk := (toFixed(pts[r].X) - rx) / fixed16(pts[r].Y-y)

	for {
		yMax := min(pts[l].Y, pts[r].Y)
		for ; y < yMax; y++ {
			left, right := lx.round(), rx.round()
			if left < right {
				span(y, left, right)
			} else if left > right {
				span(y, right, left)
			}
			lx += lk
			rx += rk
		}

		if remaining--; remaining <= 0 {
			return
		}

		if yMax == pts[l].Y {
			l = prev(l)
			for pts[l].Y == y {
				lx = toFixed(pts[l].X)
				l = prev(l)
				if remaining--; remaining <= 0 {
					return
				}
			}
			if pts[l].Y < y {
				return
			}
			lk = (toFixed(pts[l].X) - lx) / fixed16(pts[l].Y-y)
		} else {
			r = next(r)
			for pts[r].Y == y {
				rx = toFixed(pts[r].X)
				r = next(r)
				if remaining--; remaining <= 0 {
					return
				}
			}
			if pts[r].Y < y {
				return
			}
			rk = (toFixed(pts[r].X) - rx) / fixed16(pts[r].Y-y)
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}

func mod360(v int) int {
	v %= 360
	if v < 0 {
		v += 360
	}
	return v
}
