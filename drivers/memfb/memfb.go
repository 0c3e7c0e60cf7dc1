// Package memfb is a gdisp driver drawing into memory. It backs the
// simulator and tests: every optional operation is implemented and can be
// switched off with Opts.Caps, and each call is counted.
package memfb

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/flavioheleno/gdisp"
	"github.com/flavioheleno/gdisp/font"
	"github.com/flavioheleno/gdisp/pixfmt"
	"github.com/flavioheleno/gdisp/raster"
)

// Opts is the configuration of a memory framebuffer.
type Opts struct {
	W, H   int           // Panel size in its native orientation (default: 320x240)
	Format pixfmt.Format // Storage format (default: RGB565)

	// Caps selects the accelerated operations advertised. Zero means
	// every operation; use a single bit such as gdisp.HardwareQuery to
	// advertise almost nothing.
	Caps gdisp.Capability

	// InitErr, when set, is returned by Init.
	InitErr error
}

// Calls counts the driver entry points invoked.
type Calls struct {
	Init, DrawPixel, Clear, FillArea, BlitArea   int
	DrawLine, DrawCircle, FillCircle             int
	DrawEllipse, FillEllipse, DrawArc, FillArc   int
	DrawChar, FillChar, VerticalScroll, GetPixel int
	Control, Query, SetClip                      int
}

// QueryFrames is a driver specific query returning how many Init calls
// the framebuffer has seen.
const QueryFrames = gdisp.QueryLLD

// ControlInvert is a driver specific control code inverting every pixel
// when value is non-zero.
const ControlInvert = gdisp.ControlLLD

// Dev is an in-memory panel.
type Dev struct {
	mu     sync.RWMutex
	opts   Opts
	fb     *pixfmt.Buffer // native orientation
	orient gdisp.Orientation
	power  gdisp.PowerMode
	clip   image.Rectangle
	level  [2]int // backlight, contrast
	calls  Calls
	dirty  bool
}

// New returns a framebuffer. opts can be nil to use defaults.
func New(opts *Opts) (*Dev, error) {
	o := Opts{W: 320, H: 240, Format: pixfmt.RGB565}
	if opts != nil {
		o = *opts
		if o.W == 0 && o.H == 0 {
			o.W, o.H = 320, 240
		}
		if o.Format == 0 {
			o.Format = pixfmt.RGB565
		}
	}
	if o.Caps == 0 {
		o.Caps = gdisp.HardwareAll
	}
	if o.W <= 0 || o.H <= 0 {
		return nil, fmt.Errorf("memfb: invalid size %dx%d", o.W, o.H)
	}
	fb, err := pixfmt.NewBuffer(o.Format, image.Rect(0, 0, o.W, o.H))
	if err != nil {
		return nil, fmt.Errorf("memfb: %w", err)
	}
	return &Dev{opts: o, fb: fb}, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("memfb{%dx%d %s}", d.opts.W, d.opts.H, d.opts.Format)
}

// Capabilities implements gdisp.CapabilityReporter.
func (d *Dev) Capabilities() gdisp.Capability { return d.opts.Caps }

// Init implements gdisp.Driver. It blanks the framebuffer like a panel
// coming out of reset.
func (d *Dev) Init(st *gdisp.State) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls.Init++
	if d.opts.InitErr != nil {
		return d.opts.InitErr
	}
	clear(d.fb.Pix)
	d.orient = gdisp.Rotate0
	d.power = gdisp.PowerOn
	d.level = [2]int{st.Backlight, st.Contrast}
	d.clip = image.Rect(0, 0, d.opts.W, d.opts.H)
	d.dirty = true
	st.Width, st.Height = d.opts.W, d.opts.H
	st.Format = d.opts.Format
	return nil
}

// set stores c at the logical point (x, y). The caller holds the lock.
func (d *Dev) set(x, y int, c gdisp.Color) {
	px, py := d.orient.Map(x, y, d.opts.W, d.opts.H)
	d.fb.SetColor(px, py, c)
	d.dirty = true
}

func (d *Dev) get(x, y int) gdisp.Color {
	px, py := d.orient.Map(x, y, d.opts.W, d.opts.H)
	return d.fb.ColorAt(px, py)
}

func (d *Dev) fill(x, y, cx, cy int, c gdisp.Color) {
	d.fb.Fill(d.orient.MapRect(x, y, cx, cy, d.opts.W, d.opts.H), c)
	d.dirty = true
}

// DrawPixel implements gdisp.Driver.
func (d *Dev) DrawPixel(x, y int, c gdisp.Color) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls.DrawPixel++
	d.set(x, y, c)
}

// Clear implements gdisp.Clearer.
func (d *Dev) Clear(c gdisp.Color) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls.Clear++
	d.fb.Fill(d.fb.Rect, c)
	d.dirty = true
}

// FillArea implements gdisp.Filler.
func (d *Dev) FillArea(x, y, cx, cy int, c gdisp.Color) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls.FillArea++
	d.fill(x, y, cx, cy, c)
}

// BlitArea implements gdisp.Blitter.
func (d *Dev) BlitArea(x, y, cx, cy, srcx, srcy int, src *pixfmt.Buffer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls.BlitArea++
	ox, oy := src.Rect.Min.X+srcx, src.Rect.Min.Y+srcy
	for j := 0; j < cy; j++ {
		for i := 0; i < cx; i++ {
			d.set(x+i, y+j, src.ColorAt(ox+i, oy+j))
		}
	}
}

// DrawLine implements gdisp.LineDrawer.
func (d *Dev) DrawLine(x0, y0, x1, y1 int, c gdisp.Color) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls.DrawLine++
	raster.Line(x0, y0, x1, y1, func(x, y int) { d.set(x, y, c) })
}

// DrawCircle implements gdisp.CircleDrawer.
func (d *Dev) DrawCircle(x, y, r int, c gdisp.Color) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls.DrawCircle++
	raster.Circle(r, func(dx, dy int) { d.set(x+dx, y+dy, c) })
}

// FillCircle implements gdisp.CircleFiller.
func (d *Dev) FillCircle(x, y, r int, c gdisp.Color) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls.FillCircle++
	raster.CircleSpans(r, func(dy, x0, x1 int) { d.fill(x+x0, y+dy, x1-x0, 1, c) })
}

// DrawEllipse implements gdisp.EllipseDrawer.
func (d *Dev) DrawEllipse(x, y, a, b int, c gdisp.Color) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls.DrawEllipse++
	raster.Ellipse(a, b, func(dx, dy int) { d.set(x+dx, y+dy, c) })
}

// FillEllipse implements gdisp.EllipseFiller.
func (d *Dev) FillEllipse(x, y, a, b int, c gdisp.Color) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls.FillEllipse++
	raster.EllipseSpans(a, b, func(dy, x0, x1 int) { d.fill(x+x0, y+dy, x1-x0, 1, c) })
}

// DrawArc implements gdisp.ArcDrawer.
func (d *Dev) DrawArc(x, y, r, start, end int, c gdisp.Color) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls.DrawArc++
	raster.ArcPoints(r, raster.NewArc(start, end), func(dx, dy int) { d.set(x+dx, y+dy, c) })
}

// FillArc implements gdisp.ArcFiller.
func (d *Dev) FillArc(x, y, r, start, end int, c gdisp.Color) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls.FillArc++
	raster.ArcSpans(r, raster.NewArc(start, end), func(dy, x0, x1 int) { d.fill(x+x0, y+dy, x1-x0, 1, c) })
}

// DrawChar implements gdisp.CharDrawer. Partial coverage is blended with
// the framebuffer content.
func (d *Dev) DrawChar(x, y int, r rune, f *font.Font, c gdisp.Color) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls.DrawChar++
	f.Render(r, func(rx, ry, count int, alpha uint8) {
		for i := 0; i < count; i++ {
			px, py := x+rx+i, y+ry
			d.set(px, py, pixfmt.Blend(c, d.get(px, py), alpha))
		}
	})
}

// FillChar implements gdisp.CharFiller.
func (d *Dev) FillChar(x, y int, r rune, f *font.Font, c, bg gdisp.Color) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls.FillChar++
	b := f.Bounds(r).Add(image.Pt(x, y))
	d.fill(b.Min.X, b.Min.Y, b.Dx(), b.Dy(), bg)
	f.Render(r, func(rx, ry, count int, alpha uint8) {
		d.fill(x+rx, y+ry, count, 1, pixfmt.Blend(c, bg, alpha))
	})
}

// VerticalScroll implements gdisp.Scroller.
func (d *Dev) VerticalScroll(x, y, cx, cy, lines int, bg gdisp.Color) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls.VerticalScroll++
	n := min(abs(lines), cy)
	for i := 0; i < cy-n; i++ {
		to := y + i
		if lines < 0 {
			to = y + cy - 1 - i
		}
		from := to + lines
		for j := 0; j < cx; j++ {
			d.set(x+j, to, d.get(x+j, from))
		}
	}
	if lines > 0 {
		d.fill(x, y+cy-n, cx, n, bg)
	} else {
		d.fill(x, y, cx, n, bg)
	}
}

// GetPixelColor implements gdisp.PixelReader.
func (d *Dev) GetPixelColor(x, y int) gdisp.Color {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls.GetPixel++
	return d.get(x, y)
}

// Control implements gdisp.Controller.
func (d *Dev) Control(what gdisp.ControlCode, value int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls.Control++
	switch what {
	case gdisp.ControlPower:
		d.power = gdisp.PowerMode(value)
		d.dirty = true
	case gdisp.ControlOrientation:
		d.orient = gdisp.Orientation(value)
	case gdisp.ControlBacklight:
		d.level[0] = value
	case gdisp.ControlContrast:
		d.level[1] = value
	case ControlInvert:
		if value == 0 {
			return false
		}
		for y := 0; y < d.opts.H; y++ {
			for x := 0; x < d.opts.W; x++ {
				d.fb.SetColor(x, y, d.fb.ColorAt(x, y)^pixfmt.White)
			}
		}
		d.dirty = true
	default:
		return false
	}
	return true
}

// Query implements gdisp.Querier.
func (d *Dev) Query(what gdisp.QueryCode) (int, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls.Query++
	if what == QueryFrames {
		return d.calls.Init, true
	}
	return 0, false
}

// SetClip implements gdisp.Clipper. The framebuffer only records it.
func (d *Dev) SetClip(r image.Rectangle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls.SetClip++
	d.clip = r
}

// Calls returns the call counters.
func (d *Dev) Calls() Calls {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.calls
}

// ResetCalls zeroes the call counters.
func (d *Dev) ResetCalls() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = Calls{}
}

// Power returns the power mode last applied.
func (d *Dev) Power() gdisp.PowerMode {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.power
}

// Orientation returns the rotation last applied.
func (d *Dev) Orientation() gdisp.Orientation {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.orient
}

// Levels returns the backlight and contrast last applied.
func (d *Dev) Levels() (backlight, contrast int) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.level[0], d.level[1]
}

// HardwareClip returns the clip last mirrored by the display.
func (d *Dev) HardwareClip() image.Rectangle {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.clip
}

// At returns the logical pixel at (x, y) without counting a call.
func (d *Dev) At(x, y int) gdisp.Color {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.get(x, y)
}

// Image returns a copy of the screen as seen in the current orientation.
func (d *Dev) Image() *image.RGBA {
	d.mu.RLock()
	defer d.mu.RUnlock()
	w, h := d.opts.W, d.opts.H
	if d.orient.Swaps() {
		w, h = h, w
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := d.get(x, y)
			img.SetRGBA(x, y, color.RGBA{R: c.R(), G: c.G(), B: c.B(), A: 0xFF})
		}
	}
	return img
}

// CopyPanel writes the panel in its native orientation as RGBA bytes into
// dst, which must hold W*H*4 bytes. It reports whether anything changed
// since the previous copy.
func (d *Dev) CopyPanel(dst []byte) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(dst) < d.opts.W*d.opts.H*4 {
		return false, errors.New("memfb: destination too small")
	}
	changed := d.dirty
	d.dirty = false
	if !changed {
		return false, nil
	}
	i := 0
	for y := 0; y < d.opts.H; y++ {
		for x := 0; x < d.opts.W; x++ {
			c := d.fb.ColorAt(x, y)
			if d.power != gdisp.PowerOn {
				c = pixfmt.Black
			}
			dst[i], dst[i+1], dst[i+2], dst[i+3] = c.R(), c.G(), c.B(), 0xFF
			i += 4
		}
	}
	return true, nil
}

// PanelSize returns the native panel size.
func (d *Dev) PanelSize() (int, int) { return d.opts.W, d.opts.H }

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
