package gdisp

import (
	"image"

	"github.com/flavioheleno/gdisp/pixfmt"
)

// Clear paints the whole screen, ignoring the clip.
func (d *Display) Clear(c Color) {
	d.submit(message{action: actClear, color: c})
}

// DrawPixel sets the pixel at (x, y).
func (d *Display) DrawPixel(x, y int, c Color) {
	d.submit(message{action: actDrawPixel, x: x, y: y, color: c})
}

// FillArea paints the cx by cy rectangle at (x, y).
func (d *Display) FillArea(x, y, cx, cy int, c Color) {
	d.submit(message{action: actFillArea, x: x, y: y, cx: cx, cy: cy, color: c})
}

// BlitArea copies the top-left cx by cy pixels of src to (x, y).
func (d *Display) BlitArea(x, y, cx, cy int, src *pixfmt.Buffer) {
	d.BlitAreaEx(x, y, cx, cy, 0, 0, src)
}

// BlitAreaEx copies the cx by cy pixels of src found at (srcx, srcy),
// relative to the buffer origin, to (x, y).
//
// In async mode the copy happens later; src must not be modified until
// Flush returns.
func (d *Display) BlitAreaEx(x, y, cx, cy, srcx, srcy int, src *pixfmt.Buffer) {
	d.submit(message{action: actBlitArea, x: x, y: y, cx: cx, cy: cy, start: srcx, end: srcy, src: src})
}

// DrawLine draws a line from (x0, y0) to (x1, y1), both ends included.
func (d *Display) DrawLine(x0, y0, x1, y1 int, c Color) {
	d.submit(message{action: actDrawLine, x: x0, y: y0, cx: x1, cy: y1, color: c})
}

// DrawCircle draws the outline of the circle of radius r centred on (x, y).
func (d *Display) DrawCircle(x, y, r int, c Color) {
	d.submit(message{action: actDrawCircle, x: x, y: y, r: r, color: c})
}

// FillCircle paints the disc of radius r centred on (x, y).
func (d *Display) FillCircle(x, y, r int, c Color) {
	d.submit(message{action: actFillCircle, x: x, y: y, r: r, color: c})
}

// DrawEllipse draws the outline of the ellipse centred on (x, y) with
// horizontal radius a and vertical radius b.
func (d *Display) DrawEllipse(x, y, a, b int, c Color) {
	d.submit(message{action: actDrawEllipse, x: x, y: y, r: a, b: b, color: c})
}

// FillEllipse paints the ellipse centred on (x, y).
func (d *Display) FillEllipse(x, y, a, b int, c Color) {
	d.submit(message{action: actFillEllipse, x: x, y: y, r: a, b: b, color: c})
}

// DrawArc draws the part of the circle outline running counter-clockwise
// from start to end degrees, 0 being three o'clock. A sweep of 360 degrees
// or more draws the whole circle.
func (d *Display) DrawArc(x, y, r, start, end int, c Color) {
	d.submit(message{action: actDrawArc, x: x, y: y, r: r, start: start, end: end, color: c})
}

// FillArc paints the pie slice between start and end degrees.
func (d *Display) FillArc(x, y, r, start, end int, c Color) {
	d.submit(message{action: actFillArc, x: x, y: y, r: r, start: start, end: end, color: c})
}

// VerticalScroll moves the content of the area up by lines rows, or down
// when lines is negative, and paints the rows left uncovered with bg.
// Scrolling by zero lines does nothing. Drivers that can neither scroll
// nor read pixels back get the whole area painted with bg instead.
func (d *Display) VerticalScroll(x, y, cx, cy, lines int, bg Color) {
	d.submit(message{action: actVerticalScroll, x: x, y: y, cx: cx, cy: cy, lines: lines, color: bg})
}

// SetClip restricts drawing to the cx by cy rectangle at (x, y), trimmed
// to the screen. An empty rectangle stops all drawing until the clip is
// changed again.
func (d *Display) SetClip(x, y, cx, cy int) {
	r := image.Rectangle{Min: image.Pt(x, y), Max: image.Pt(x+cx, y+cy)}
	d.submit(message{action: actSetClip, clip: r})
}

// UnsetClip lets drawing reach the whole screen again.
func (d *Display) UnsetClip() {
	d.submit(message{action: actSetClip, clip: noLimit})
}

// GetPixelColor reads the pixel at (x, y) back from the driver. It returns
// 0 when the point is outside the clip or the driver cannot read pixels.
// In async mode it is never queued: it waits only for the request being
// drawn, so call Flush first to read back earlier queued requests.
func (d *Display) GetPixelColor(x, y int) Color {
	d.lock()
	defer d.unlock()
	if d.err != nil || d.closed.Load() {
		return 0
	}
	return d.getPixel(x, y)
}

// Control changes a display setting. Core codes update the display state
// when the driver accepts them; other codes go to the driver untouched.
func (d *Display) Control(what ControlCode, value int) {
	d.submit(message{action: actControl, ctrl: what, value: value})
}

// SetPowerMode changes the power mode.
func (d *Display) SetPowerMode(p PowerMode) {
	d.Control(ControlPower, int(p))
}

// SetOrientation rotates the drawing surface. The clip is reset to the
// full screen of the new orientation.
func (d *Display) SetOrientation(o Orientation) {
	d.Control(ControlOrientation, int(o))
}

// SetBacklight sets the backlight level, clamped to 0..100 percent.
func (d *Display) SetBacklight(percent int) {
	d.Control(ControlBacklight, percent)
}

// SetContrast sets the contrast level, clamped to 0..100 percent.
func (d *Display) SetContrast(percent int) {
	d.Control(ControlContrast, percent)
}
