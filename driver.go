package gdisp

import (
	"image"
	"strings"

	"github.com/flavioheleno/gdisp/font"
	"github.com/flavioheleno/gdisp/pixfmt"
)

// Color is the format independent color value accepted by every drawing
// call. Drivers quantize it to their native format.
type Color = pixfmt.Color

// State is the display state shared between the core and a driver. The
// driver fills in Width, Height and Format during Init; the core owns
// everything afterwards and drivers only read it.
type State struct {
	Width, Height int // Logical size, swapped when Orientation swaps axes
	Orientation   Orientation
	Power         PowerMode
	Backlight     int // Percent, 0..100
	Contrast      int // Percent, 0..100
	Format        pixfmt.Format
	Clip          image.Rectangle // Current clip, always inside the screen
}

// Driver is the minimal contract a display controller must satisfy.
//
// Init brings the controller up and describes it by filling st. It is
// called once by New and again whenever the display leaves PowerOff.
//
// DrawPixel sets one pixel. Coordinates are logical (already rotated by
// the current orientation) and always inside the clip.
//
// Drawing methods cannot fail: a driver that loses a bus write reports it
// through its own error accessor, never through the drawing call.
type Driver interface {
	Init(st *State) error
	DrawPixel(x, y int, c Color)
}

// A driver accelerates an operation by implementing the matching optional
// interface. Arguments are always validated and clipped by the core first.
type (
	// Clearer fills the whole screen.
	Clearer interface{ Clear(c Color) }

	// Filler fills a rectangle.
	Filler interface {
		FillArea(x, y, cx, cy int, c Color)
	}

	// Blitter copies the area of src at (srcx, srcy), relative to the
	// buffer origin, to (x, y).
	Blitter interface {
		BlitArea(x, y, cx, cy, srcx, srcy int, src *pixfmt.Buffer)
	}

	// LineDrawer draws a line with both endpoints included.
	LineDrawer interface {
		DrawLine(x0, y0, x1, y1 int, c Color)
	}

	CircleDrawer interface {
		DrawCircle(x, y, r int, c Color)
	}

	CircleFiller interface {
		FillCircle(x, y, r int, c Color)
	}

	EllipseDrawer interface {
		DrawEllipse(x, y, a, b int, c Color)
	}

	EllipseFiller interface {
		FillEllipse(x, y, a, b int, c Color)
	}

	ArcDrawer interface {
		DrawArc(x, y, r, start, end int, c Color)
	}

	ArcFiller interface {
		FillArc(x, y, r, start, end int, c Color)
	}

	// CharDrawer draws the glyph r with the top-left of its cell at (x, y).
	CharDrawer interface {
		DrawChar(x, y int, r rune, f *font.Font, c Color)
	}

	// CharFiller is like CharDrawer but first paints bg over the cell
	// united with the glyph ink, as reported by font.Font.Bounds.
	CharFiller interface {
		FillChar(x, y int, r rune, f *font.Font, c, bg Color)
	}

	// Scroller moves the area content by lines rows, up when positive, and
	// paints the uncovered rows with bg. lines is never zero.
	Scroller interface {
		VerticalScroll(x, y, cx, cy, lines int, bg Color)
	}

	// PixelReader reads one pixel back from the controller.
	PixelReader interface {
		GetPixelColor(x, y int) Color
	}

	// Controller applies a control request and reports whether the
	// controller accepted it.
	Controller interface {
		Control(what ControlCode, value int) bool
	}

	// Querier answers driver specific queries.
	Querier interface {
		Query(what QueryCode) (int, bool)
	}

	// Clipper mirrors the core clip into controllers that clip in hardware.
	Clipper interface {
		SetClip(r image.Rectangle)
	}

	// CapabilityReporter lets a driver advertise fewer capabilities than the
	// interfaces it implements, for example when a method is only wired up
	// on some controller revisions.
	CapabilityReporter interface {
		Capabilities() Capability
	}
)

// Capability is a set of accelerated operations.
type Capability uint32

// Capabilities, one per optional driver interface.
const (
	HardwareClear Capability = 1 << iota
	HardwareFill
	HardwareBlit
	HardwareLine
	HardwareCircle
	HardwareCircleFill
	HardwareEllipse
	HardwareEllipseFill
	HardwareArc
	HardwareArcFill
	HardwareText
	HardwareTextFill
	HardwareScroll
	HardwarePixelRead
	HardwareControl
	HardwareQuery
	HardwareClip

	HardwareAll = HardwareClip<<1 - 1
)

var capabilityNames = []string{
	"clear", "fill", "blit", "line", "circle", "circle-fill", "ellipse",
	"ellipse-fill", "arc", "arc-fill", "text", "text-fill", "scroll",
	"pixel-read", "control", "query", "clip",
}

// Has reports whether every capability of o is in c.
func (c Capability) Has(o Capability) bool {
	return c&o == o
}

func (c Capability) String() string {
	if c == 0 {
		return "none"
	}
	var parts []string
	for i, name := range capabilityNames {
		if c&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, "|")
}

// ParseCapabilities parses a list of capability names as produced by
// String. Unknown names are reported in the returned slice.
func ParseCapabilities(names []string) (Capability, []string) {
	var c Capability
	var unknown []string
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		found := false
		for i, name := range capabilityNames {
			if name == n {
				c |= 1 << i
				found = true
				break
			}
		}
		if !found && n != "" {
			unknown = append(unknown, n)
		}
	}
	return c, unknown
}

// ControlCode selects what a Control call changes. Codes from ControlLLD
// upwards are passed to the driver untouched.
type ControlCode int

// Control codes understood by the core.
const (
	ControlPower       ControlCode = iota // value is a PowerMode
	ControlOrientation                    // value is an Orientation
	ControlBacklight                      // value is a percentage
	ControlContrast                       // value is a percentage

	ControlLLD ControlCode = 1000
)

// QueryCode selects what a Query call returns. Codes from QueryLLD upwards
// are answered by the driver.
type QueryCode int

// Query codes answered by the core.
const (
	QueryWidth QueryCode = iota
	QueryHeight
	QueryPower
	QueryOrientation
	QueryBacklight
	QueryContrast

	QueryLLD QueryCode = 1000
)

// ops is the dispatch table resolved once by New. Entries that are nil
// fall back to emulation.
type ops struct {
	clear       func(c Color)
	fill        func(x, y, cx, cy int, c Color)
	blit        func(x, y, cx, cy, srcx, srcy int, src *pixfmt.Buffer)
	line        func(x0, y0, x1, y1 int, c Color)
	circle      func(x, y, r int, c Color)
	fillCircle  func(x, y, r int, c Color)
	ellipse     func(x, y, a, b int, c Color)
	fillEllipse func(x, y, a, b int, c Color)
	arc         func(x, y, r, start, end int, c Color)
	fillArc     func(x, y, r, start, end int, c Color)
	char        func(x, y int, r rune, f *font.Font, c Color)
	fillChar    func(x, y int, r rune, f *font.Font, c, bg Color)
	scroll      func(x, y, cx, cy, lines int, bg Color)
	read        func(x, y int) Color
	control     func(what ControlCode, value int) bool
	query       func(what QueryCode) (int, bool)
	clip        func(r image.Rectangle)
}

// resolve builds the dispatch table of drv, keeping only the capabilities
// in allowed.
func resolve(drv Driver, allowed Capability) (ops, Capability) {
	if cr, ok := drv.(CapabilityReporter); ok {
		allowed &= cr.Capabilities()
	}
	var o ops
	var got Capability
	use := func(c Capability, ok bool) bool {
		if ok && allowed.Has(c) {
			got |= c
			return true
		}
		return false
	}
	if v, ok := drv.(Clearer); use(HardwareClear, ok) {
		o.clear = v.Clear
	}
	if v, ok := drv.(Filler); use(HardwareFill, ok) {
		o.fill = v.FillArea
	}
	if v, ok := drv.(Blitter); use(HardwareBlit, ok) {
		o.blit = v.BlitArea
	}
	if v, ok := drv.(LineDrawer); use(HardwareLine, ok) {
		o.line = v.DrawLine
	}
	if v, ok := drv.(CircleDrawer); use(HardwareCircle, ok) {
		o.circle = v.DrawCircle
	}
	if v, ok := drv.(CircleFiller); use(HardwareCircleFill, ok) {
		o.fillCircle = v.FillCircle
	}
	if v, ok := drv.(EllipseDrawer); use(HardwareEllipse, ok) {
		o.ellipse = v.DrawEllipse
	}
	if v, ok := drv.(EllipseFiller); use(HardwareEllipseFill, ok) {
		o.fillEllipse = v.FillEllipse
	}
	if v, ok := drv.(ArcDrawer); use(HardwareArc, ok) {
		o.arc = v.DrawArc
	}
	if v, ok := drv.(ArcFiller); use(HardwareArcFill, ok) {
		o.fillArc = v.FillArc
	}
	if v, ok := drv.(CharDrawer); use(HardwareText, ok) {
		o.char = v.DrawChar
	}
	if v, ok := drv.(CharFiller); use(HardwareTextFill, ok) {
		o.fillChar = v.FillChar
	}
	if v, ok := drv.(Scroller); use(HardwareScroll, ok) {
		o.scroll = v.VerticalScroll
	}
	if v, ok := drv.(PixelReader); use(HardwarePixelRead, ok) {
		o.read = v.GetPixelColor
	}
	if v, ok := drv.(Controller); use(HardwareControl, ok) {
		o.control = v.Control
	}
	if v, ok := drv.(Querier); use(HardwareQuery, ok) {
		o.query = v.Query
	}
	if v, ok := drv.(Clipper); use(HardwareClip, ok) {
		o.clip = v.SetClip
	}
	return o, got
}
