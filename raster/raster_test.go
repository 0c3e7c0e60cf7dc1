package raster

import (
	"image"
	"math/rand/v2"
	"testing"
)

type pixelSet map[image.Point]int

func (s pixelSet) plot(x, y int) { s[image.Pt(x, y)]++ }

func TestLineEndpointsAndConnectivity(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for i := 0; i < 500; i++ {
		x0, y0 := rng.IntN(200)-100, rng.IntN(200)-100
		x1, y1 := rng.IntN(200)-100, rng.IntN(200)-100

		var pts []image.Point
		Line(x0, y0, x1, y1, func(x, y int) { pts = append(pts, image.Pt(x, y)) })

		if pts[0] != image.Pt(x0, y0) || pts[len(pts)-1] != image.Pt(x1, y1) {
			t.Fatalf("line (%d,%d)-(%d,%d): ends at %v and %v", x0, y0, x1, y1, pts[0], pts[len(pts)-1])
		}
		if want := max(abs(x1-x0), abs(y1-y0)) + 1; len(pts) != want {
			t.Fatalf("line (%d,%d)-(%d,%d): %d pixels, want %d", x0, y0, x1, y1, len(pts), want)
		}
		for j := 1; j < len(pts); j++ {
			if abs(pts[j].X-pts[j-1].X) > 1 || abs(pts[j].Y-pts[j-1].Y) > 1 {
				t.Fatalf("line (%d,%d)-(%d,%d): gap between %v and %v", x0, y0, x1, y1, pts[j-1], pts[j])
			}
		}
	}
}

func TestLineSinglePixel(t *testing.T) {
	s := pixelSet{}
	Line(3, 4, 3, 4, s.plot)
	if len(s) != 1 || s[image.Pt(3, 4)] != 1 {
		t.Errorf("degenerate line plotted %v", s)
	}
}

func TestCircleSymmetryAndRadius(t *testing.T) {
	for r := 0; r < 40; r++ {
		s := pixelSet{}
		Circle(r, s.plot)
		for p := range s {
			for _, m := range []image.Point{{-p.X, p.Y}, {p.X, -p.Y}, {p.Y, p.X}} {
				if s[m] == 0 {
					t.Fatalf("r=%d: %v plotted but not its mirror %v", r, p, m)
				}
			}
			d2 := p.X*p.X + p.Y*p.Y
			if d2 > (r+1)*(r+1) || (r > 0 && d2 < (r-1)*(r-1)) {
				t.Fatalf("r=%d: %v is off the circle", r, p)
			}
		}
		for _, p := range []image.Point{{r, 0}, {-r, 0}, {0, r}, {0, -r}} {
			if s[p] == 0 {
				t.Fatalf("r=%d: axis point %v missing", r, p)
			}
		}
	}
}

func TestCircleSpansCoverOutline(t *testing.T) {
	for r := 0; r < 30; r++ {
		filled := pixelSet{}
		CircleSpans(r, func(y, x0, x1 int) {
			for x := x0; x < x1; x++ {
				filled.plot(x, y)
			}
		})
		outline := pixelSet{}
		Circle(r, outline.plot)
		for p := range outline {
			if filled[p] == 0 {
				t.Fatalf("r=%d: outline pixel %v not filled", r, p)
			}
		}
		for p := range filled {
			if p.X*p.X+p.Y*p.Y > (r+1)*(r+1) {
				t.Fatalf("r=%d: fill leaks to %v", r, p)
			}
		}
	}
}

func TestEllipseExtremes(t *testing.T) {
	tests := []struct{ a, b int }{{0, 0}, {5, 0}, {0, 5}, {1, 1}, {10, 4}, {4, 10}, {30, 29}}
	for _, tt := range tests {
		s := pixelSet{}
		Ellipse(tt.a, tt.b, s.plot)
		for _, p := range []image.Point{{tt.a, 0}, {-tt.a, 0}, {0, tt.b}, {0, -tt.b}} {
			if s[p] == 0 {
				t.Errorf("ellipse %dx%d: extreme %v missing", tt.a, tt.b, p)
			}
		}
		for p := range s {
			if abs(p.X) > tt.a || abs(p.Y) > tt.b {
				t.Errorf("ellipse %dx%d: %v outside bounding box", tt.a, tt.b, p)
			}
		}
	}
}

func TestEllipseOfEqualRadiiIsConnected(t *testing.T) {
	s := pixelSet{}
	Ellipse(12, 12, s.plot)
	for p := range s {
		neighbours := 0
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if (dx != 0 || dy != 0) && s[image.Pt(p.X+dx, p.Y+dy)] > 0 {
					neighbours++
				}
			}
		}
		if neighbours < 2 {
			t.Errorf("%v has %d neighbours", p, neighbours)
		}
	}
}

func TestArcContains(t *testing.T) {
	tests := []struct {
		name       string
		start, end int
		dx, dy     int
		want       bool
	}{
		{"east in first quadrant", 0, 90, 5, 0, true},
		{"north in first quadrant", 0, 90, 0, -5, true},
		{"west outside first quadrant", 0, 90, -5, 0, false},
		{"south outside first quadrant", 0, 90, 0, 5, false},
		{"wrapping arc has east", 270, 360, 5, 0, true},
		{"wrapping arc has south", 270, 360, 0, 5, true},
		{"wrapping arc lacks north", 270, 360, 0, -5, false},
		{"reversed sweep wraps through zero", 300, 60, 5, 1, true},
		{"reversed sweep excludes west", 300, 60, -5, 0, false},
		{"full circle", 0, 360, -3, 7, true},
		{"negative start normalised", -90, 0, 0, 5, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewArc(tt.start, tt.end).Contains(tt.dx, tt.dy); got != tt.want {
				t.Errorf("Contains(%d, %d) = %v, want %v", tt.dx, tt.dy, got, tt.want)
			}
		})
	}
}

func TestArcSpansStayInsideArc(t *testing.T) {
	arc := NewArc(45, 135)
	ArcSpans(20, arc, func(y, x0, x1 int) {
		for x := x0; x < x1; x++ {
			if !arc.Contains(x, y) {
				t.Fatalf("span pixel (%d, %d) outside arc", x, y)
			}
		}
	})
}

func TestConvexPolyTiles(t *testing.T) {
	// Two triangles splitting a square must cover it exactly once.
	a := []image.Point{{0, 0}, {10, 0}, {10, 10}}
	b := []image.Point{{0, 0}, {10, 10}, {0, 10}}
	s := pixelSet{}
	fill := func(y, x0, x1 int) {
		for x := x0; x < x1; x++ {
			s.plot(x, y)
		}
	}
	ConvexPoly(a, fill)
	ConvexPoly(b, fill)
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			if n := s[image.Pt(x, y)]; n != 1 {
				t.Errorf("pixel (%d, %d) painted %d times", x, y, n)
			}
		}
	}
	if len(s) != 100 {
		t.Errorf("painted %d pixels, want 100", len(s))
	}
}

func TestConvexPolyRectangle(t *testing.T) {
	s := pixelSet{}
	ConvexPoly([]image.Point{{2, 1}, {6, 1}, {6, 4}, {2, 4}}, func(y, x0, x1 int) {
		for x := x0; x < x1; x++ {
			s.plot(x, y)
		}
	})
	if len(s) != 12 {
		t.Fatalf("painted %d pixels, want 12", len(s))
	}
	for p := range s {
		if !p.In(image.Rect(2, 1, 6, 4)) {
			t.Errorf("%v outside rectangle", p)
		}
	}
}

func TestConvexPolyDegenerate(t *testing.T) {
	called := false
	ConvexPoly([]image.Point{{0, 0}, {5, 5}}, func(int, int, int) { called = true })
	ConvexPoly([]image.Point{{0, 3}, {4, 3}, {9, 3}}, func(int, int, int) { called = true })
	if called {
		t.Error("degenerate polygon produced spans")
	}
}
