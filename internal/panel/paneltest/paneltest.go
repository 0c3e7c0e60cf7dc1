// Package paneltest emulates the GRAM of a window addressed controller on
// a fake connection, to test drivers without hardware.
package paneltest

import (
	"encoding/binary"
	"errors"
	"image"
	"sync"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"

	"github.com/flavioheleno/gdisp/pixfmt"
)

// GRAM implements conn.Conn. It decodes index writes (DC low) and data
// writes (DC high) into register and GRAM updates.
type GRAM struct {
	DC   *gpiotest.Pin
	W, H int

	RAM        uint16 // GRAM data register
	XReg, YReg uint16 // address counter registers

	// Window decodes the current window from the registers.
	Window func(regs map[uint16]uint16) image.Rectangle

	// ReadDummy words precede read data.
	ReadDummy int

	// Fail, when set, is returned by every transfer.
	Fail error

	mu    sync.Mutex
	pix   []uint16
	regs  map[uint16]uint16
	log   []uint16
	index uint16
	cur   image.Point
}

// New returns an emulated w by h GRAM.
func New(w, h int) *GRAM {
	return &GRAM{
		DC:   &gpiotest.Pin{N: "DC"},
		W:    w,
		H:    h,
		RAM:  0x22,
		pix:  make([]uint16, w*h),
		regs: map[uint16]uint16{},
	}
}

func (g *GRAM) String() string      { return "paneltest" }
func (g *GRAM) Duplex() conn.Duplex { return conn.Full }

// Tx implements conn.Conn.
func (g *GRAM) Tx(w, r []byte) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Fail != nil {
		return g.Fail
	}
	if len(w)%2 != 0 {
		return errors.New("paneltest: odd transfer")
	}
	if g.DC.Read() == gpio.Low {
		g.index = binary.BigEndian.Uint16(w[len(w)-2:])
		g.log = append(g.log, g.index)
		return nil
	}
	if len(r) > 0 {
		if g.index != g.RAM {
			return errors.New("paneltest: read from a register")
		}
		for i := 0; i < len(r)/2; i++ {
			var v uint16
			if i >= g.ReadDummy {
				v = g.pix[g.cur.Y*g.W+g.cur.X]
				g.advance()
			}
			binary.BigEndian.PutUint16(r[2*i:], v)
		}
		return nil
	}
	for i := 0; i < len(w); i += 2 {
		v := binary.BigEndian.Uint16(w[i:])
		if g.index == g.RAM {
			g.pix[g.cur.Y*g.W+g.cur.X] = v
			g.advance()
			continue
		}
		g.regs[g.index] = v
		switch g.index {
		case g.XReg:
			g.cur.X = int(v)
		case g.YReg:
			g.cur.Y = int(v)
		}
	}
	return nil
}

// advance moves the address counter like the controller: right, then
// down, wrapping inside the window.
func (g *GRAM) advance() {
	win := g.Window(g.regs).Intersect(image.Rect(0, 0, g.W, g.H))
	if win.Empty() {
		win = image.Rect(0, 0, g.W, g.H)
	}
	g.cur.X++
	if g.cur.X >= win.Max.X {
		g.cur.X = win.Min.X
		g.cur.Y++
		if g.cur.Y >= win.Max.Y {
			g.cur.Y = win.Min.Y
		}
	}
}

// At returns the GRAM pixel at (x, y) in native orientation.
func (g *GRAM) At(x, y int) pixfmt.Color {
	g.mu.Lock()
	defer g.mu.Unlock()
	return pixfmt.RGB565.Unpack(uint32(g.pix[y*g.W+x]))
}

// Set stores a pixel directly.
func (g *GRAM) Set(x, y int, c pixfmt.Color) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pix[y*g.W+x] = uint16(pixfmt.RGB565.Pack(c))
}

// Reg returns the last value written to a register.
func (g *GRAM) Reg(index uint16) (uint16, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	v, ok := g.regs[index]
	return v, ok
}

// Indexes returns every register index selected so far, in order.
func (g *GRAM) Indexes() []uint16 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]uint16(nil), g.log...)
}

// Reset forgets the recorded indexes.
func (g *GRAM) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.log = nil
}
