package gdisp

import (
	"fmt"
	"image"
)

// Orientation is the rotation of the logical drawing surface relative to
// the panel's native scan direction, in degrees clockwise.
type Orientation int

// Supported orientations.
const (
	Rotate0   Orientation = 0
	Rotate90  Orientation = 90
	Rotate180 Orientation = 180
	Rotate270 Orientation = 270
)

// Landscape and Portrait are aliases resolved by drivers whose panel is
// natively portrait, which is the common case for the controllers here.
const (
	Portrait  = Rotate0
	Landscape = Rotate90
)

// Valid reports whether o is one of the four supported rotations.
func (o Orientation) Valid() bool {
	switch o {
	case Rotate0, Rotate90, Rotate180, Rotate270:
		return true
	}
	return false
}

// Swaps reports whether o exchanges the logical width and height.
func (o Orientation) Swaps() bool {
	return o == Rotate90 || o == Rotate270
}

func (o Orientation) String() string {
	if o.Valid() {
		return fmt.Sprintf("%d°", int(o))
	}
	return fmt.Sprintf("Orientation(%d)", int(o))
}

// Map converts the logical point (x, y) to panel coordinates for a panel
// of w by h pixels in its native orientation.
func (o Orientation) Map(x, y, w, h int) (int, int) {
	switch o {
	case Rotate90:
		return w - 1 - y, x
	case Rotate180:
		return w - 1 - x, h - 1 - y
	case Rotate270:
		return y, h - 1 - x
	}
	return x, y
}

// MapRect converts the logical area at (x, y) of cx by cy pixels to the
// panel rectangle covering the same pixels.
func (o Orientation) MapRect(x, y, cx, cy, w, h int) image.Rectangle {
	x0, y0 := o.Map(x, y, w, h)
	x1, y1 := o.Map(x+cx-1, y+cy-1, w, h)
	return image.Rect(min(x0, x1), min(y0, y1), max(x0, x1)+1, max(y0, y1)+1)
}

// PowerMode is the power state of the panel.
type PowerMode int

// Power modes. Leaving PowerOff re-runs the driver's full initialisation;
// the sleep modes resume without it.
const (
	PowerOff PowerMode = iota
	PowerSleep
	PowerDeepSleep
	PowerOn
)

var powerNames = [...]string{"off", "sleep", "deep-sleep", "on"}

// Valid reports whether p is a known power mode.
func (p PowerMode) Valid() bool {
	return p >= PowerOff && p <= PowerOn
}

func (p PowerMode) String() string {
	if p.Valid() {
		return powerNames[p]
	}
	return fmt.Sprintf("PowerMode(%d)", int(p))
}
