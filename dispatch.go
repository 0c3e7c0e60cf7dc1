package gdisp

import (
	"image"

	"github.com/flavioheleno/gdisp/pixfmt"
)

// action identifies the operation a message carries.
type action uint8

const (
	actNop action = iota
	actClear
	actDrawPixel
	actFillArea
	actBlitArea
	actDrawLine
	actDrawCircle
	actFillCircle
	actDrawEllipse
	actFillEllipse
	actDrawArc
	actFillArc
	actDrawChar
	actSetClip
	actVerticalScroll
	actControl
	actFlush
)

var actionNames = [...]string{
	"nop", "clear", "draw-pixel", "fill-area", "blit-area", "draw-line",
	"draw-circle", "fill-circle", "draw-ellipse", "fill-ellipse", "draw-arc",
	"fill-arc", "draw-char", "set-clip", "vertical-scroll", "control", "flush",
}

func (a action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

// message is one drawing request. Only the fields its action needs are
// set; the geometry fields are reused across actions as noted.
type message struct {
	action action

	x, y   int
	cx, cy int // area size, or the second line endpoint
	r, b   int // radius, or the ellipse radii with cx unused
	start  int // arc start angle, blit source x
	end    int // arc end angle, blit source y
	lines  int
	color  Color
	src    *pixfmt.Buffer
	clip   image.Rectangle
	glyph  glyph
	ctrl   ControlCode
	value  int
	done   chan struct{}
}

// submit runs m now or queues it, depending on the threading mode.
func (d *Display) submit(m message) {
	if d.closed.Load() {
		return
	}
	if d.q != nil {
		d.q.post(m)
		return
	}
	d.lock()
	defer d.unlock()
	d.exec(m)
}

// exec performs m. The caller holds the lock.
func (d *Display) exec(m message) {
	if m.action == actFlush {
		close(m.done)
		return
	}
	if d.err != nil {
		return
	}
	switch m.action {
	case actClear:
		d.clear(m.color)
	case actDrawPixel:
		d.pixel(m.x, m.y, m.color)
	case actFillArea:
		d.fillArea(m.x, m.y, m.cx, m.cy, m.color)
	case actBlitArea:
		d.blitArea(m.x, m.y, m.cx, m.cy, m.start, m.end, m.src)
	case actDrawLine:
		d.drawLine(m.x, m.y, m.cx, m.cy, m.color)
	case actDrawCircle:
		d.drawCircle(m.x, m.y, m.r, m.color)
	case actFillCircle:
		d.fillCircle(m.x, m.y, m.r, m.color)
	case actDrawEllipse:
		d.drawEllipse(m.x, m.y, m.r, m.b, m.color)
	case actFillEllipse:
		d.fillEllipse(m.x, m.y, m.r, m.b, m.color)
	case actDrawArc:
		d.drawArc(m.x, m.y, m.r, m.start, m.end, m.color)
	case actFillArc:
		d.fillArc(m.x, m.y, m.r, m.start, m.end, m.color)
	case actDrawChar:
		d.drawChar(m.x, m.y, m.glyph)
	case actSetClip:
		d.setClip(m.clip)
	case actVerticalScroll:
		d.verticalScroll(m.x, m.y, m.cx, m.cy, m.lines, m.color)
	case actControl:
		d.control(m.ctrl, m.value)
	}
}
