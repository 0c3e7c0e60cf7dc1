// Package panel drives RGB565 TFT controllers addressed through a
// register window: a rectangle of GRAM is selected, then pixels are
// streamed to the RAM register. Controllers differ only in their register
// tables, described by a Model.
package panel

import (
	"fmt"
	"image"
	"sync"

	"github.com/flavioheleno/gdisp"
	"github.com/flavioheleno/gdisp/internal/regbus"
	"github.com/flavioheleno/gdisp/pixfmt"
)

// Model describes a controller.
type Model struct {
	Name          string
	Width, Height int // native panel size

	Init []regbus.Reg

	// Window returns the writes selecting r as the GRAM window and moving
	// the address counter to r.Min.
	Window func(r image.Rectangle) []regbus.Reg
	RAM    uint16 // GRAM data register

	// Power holds the register sequence entering each mode. PowerOff is
	// left through Init rather than a sequence.
	Power map[gdisp.PowerMode][]regbus.Reg

	// ReadDummy is the number of words discarded before read data. A
	// negative value means GRAM cannot be read.
	ReadDummy int
}

// Dev is a controller on a register bus. Bus failures are latched and
// returned by Err; drawing after a failure is ignored.
type Dev struct {
	mu     sync.Mutex
	m      *Model
	bus    *regbus.Bus
	orient gdisp.Orientation
	power  gdisp.PowerMode
	err    error
	halted bool
	row    []byte
}

// New binds m to bus.
func New(m *Model, bus *regbus.Bus) *Dev {
	return &Dev{m: m, bus: bus, row: make([]byte, 2*max(m.Width, m.Height))}
}

func (d *Dev) String() string {
	return fmt.Sprintf("%s{%dx%d}", d.m.Name, d.m.Width, d.m.Height)
}

// Err returns the first bus error.
func (d *Dev) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}

// fail latches err. The caller holds the lock.
func (d *Dev) fail(err error) bool {
	if err == nil {
		return false
	}
	if d.err == nil {
		d.err = fmt.Errorf("%s: %w", d.m.Name, err)
		gdisp.Logger().Error("bus write failed", "driver", d.m.Name, "err", err)
	}
	return true
}

func (d *Dev) live() bool { return d.err == nil && !d.halted }

// Capabilities implements gdisp.CapabilityReporter.
func (d *Dev) Capabilities() gdisp.Capability {
	c := gdisp.HardwareClear | gdisp.HardwareFill | gdisp.HardwareBlit | gdisp.HardwareControl
	if d.m.ReadDummy >= 0 {
		c |= gdisp.HardwarePixelRead
	}
	return c
}

// Init implements gdisp.Driver: it resets the controller, runs the
// initialisation table and clears GRAM.
func (d *Dev) Init(st *gdisp.State) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.err, d.halted = nil, false
	if err := d.bus.Reset(); err != nil {
		return err
	}
	if err := d.bus.WriteRegs(d.m.Init); err != nil {
		return fmt.Errorf("%s: init: %w", d.m.Name, err)
	}
	d.orient, d.power = gdisp.Rotate0, gdisp.PowerOn
	full := image.Rect(0, 0, d.m.Width, d.m.Height)
	if err := d.fillRect(full, 0); err != nil {
		return fmt.Errorf("%s: clear: %w", d.m.Name, err)
	}
	if d.bus.HasBacklight() {
		if err := d.bus.Backlight(st.Backlight); err != nil {
			return fmt.Errorf("%s: backlight: %w", d.m.Name, err)
		}
	}
	st.Width, st.Height = d.m.Width, d.m.Height
	st.Format = pixfmt.RGB565
	return nil
}

func (d *Dev) window(r image.Rectangle) error {
	if err := d.bus.WriteRegs(d.m.Window(r)); err != nil {
		return err
	}
	return d.bus.WriteIndex(d.m.RAM)
}

func (d *Dev) fillRect(r image.Rectangle, v uint16) error {
	if err := d.window(r); err != nil {
		return err
	}
	return d.bus.Fill(v, r.Dx()*r.Dy())
}

// panelRect maps a logical area to GRAM.
func (d *Dev) panelRect(x, y, cx, cy int) image.Rectangle {
	return d.orient.MapRect(x, y, cx, cy, d.m.Width, d.m.Height)
}

// DrawPixel implements gdisp.Driver.
func (d *Dev) DrawPixel(x, y int, c gdisp.Color) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.live() {
		return
	}
	if d.fail(d.window(d.panelRect(x, y, 1, 1))) {
		return
	}
	d.fail(d.bus.WriteData(uint16(pixfmt.RGB565.Pack(c))))
}

// Clear implements gdisp.Clearer.
func (d *Dev) Clear(c gdisp.Color) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.live() {
		d.fail(d.fillRect(image.Rect(0, 0, d.m.Width, d.m.Height), uint16(pixfmt.RGB565.Pack(c))))
	}
}

// FillArea implements gdisp.Filler.
func (d *Dev) FillArea(x, y, cx, cy int, c gdisp.Color) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.live() {
		d.fail(d.fillRect(d.panelRect(x, y, cx, cy), uint16(pixfmt.RGB565.Pack(c))))
	}
}

// BlitArea implements gdisp.Blitter. Unrotated areas go out as one
// window; otherwise each logical row becomes a one pixel wide window,
// sent in reverse when the rotation runs it against the address counter.
func (d *Dev) BlitArea(x, y, cx, cy, srcx, srcy int, src *pixfmt.Buffer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.live() {
		return
	}
	ox, oy := src.Rect.Min.X+srcx, src.Rect.Min.Y+srcy
	if d.orient == gdisp.Rotate0 {
		if d.fail(d.window(d.panelRect(x, y, cx, cy))) {
			return
		}
		for j := 0; j < cy; j++ {
			if d.fail(d.bus.WriteStream(d.packRow(src, ox, oy+j, cx, false))) {
				return
			}
		}
		return
	}
	reverse := d.orient == gdisp.Rotate180 || d.orient == gdisp.Rotate270
	for j := 0; j < cy; j++ {
		if d.fail(d.window(d.panelRect(x, y+j, cx, 1))) {
			return
		}
		if d.fail(d.bus.WriteStream(d.packRow(src, ox, oy+j, cx, reverse))) {
			return
		}
	}
}

// packRow converts cx source pixels starting at (x, y) to RGB565 words.
func (d *Dev) packRow(src *pixfmt.Buffer, x, y, cx int, reverse bool) []byte {
	buf := d.row[:2*cx]
	for i := 0; i < cx; i++ {
		k := i
		if reverse {
			k = cx - 1 - i
		}
		v := pixfmt.RGB565.Pack(src.ColorAt(x+i, y))
		buf[2*k], buf[2*k+1] = byte(v>>8), byte(v)
	}
	return buf
}

// GetPixelColor implements gdisp.PixelReader. It returns black when the
// controller cannot be read.
func (d *Dev) GetPixelColor(x, y int) gdisp.Color {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.live() || d.m.ReadDummy < 0 {
		return pixfmt.Black
	}
	if d.fail(d.window(d.panelRect(x, y, 1, 1))) {
		return pixfmt.Black
	}
	words, err := d.bus.ReadStream(d.m.ReadDummy + 1)
	if d.fail(err) {
		return pixfmt.Black
	}
	return pixfmt.RGB565.Unpack(uint32(words[len(words)-1]))
}

// Control implements gdisp.Controller. Rotation is applied when mapping
// coordinates, so GRAM keeps its native scan direction.
func (d *Dev) Control(what gdisp.ControlCode, value int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.live() {
		return false
	}
	switch what {
	case gdisp.ControlPower:
		mode := gdisp.PowerMode(value)
		seq, ok := d.m.Power[mode]
		if !ok || d.fail(d.bus.WriteRegs(seq)) {
			return false
		}
		d.power = mode
		return true
	case gdisp.ControlOrientation:
		d.orient = gdisp.Orientation(value)
		return true
	case gdisp.ControlBacklight:
		if !d.bus.HasBacklight() {
			return false
		}
		return !d.fail(d.bus.Backlight(value))
	}
	return false
}

// Halt switches the panel off. The next Init brings it back.
func (d *Dev) Halt() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.halted {
		return nil
	}
	d.halted = true
	if seq, ok := d.m.Power[gdisp.PowerOff]; ok {
		if err := d.bus.WriteRegs(seq); err != nil {
			return fmt.Errorf("%s: halt: %w", d.m.Name, err)
		}
	}
	if d.bus.HasBacklight() {
		return d.bus.Backlight(0)
	}
	return nil
}

// PowerMode returns the mode last applied.
func (d *Dev) PowerMode() gdisp.PowerMode {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.power
}
