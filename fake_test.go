package gdisp

import (
	"errors"
	"image"
	"sync"

	"github.com/flavioheleno/gdisp/pixfmt"
)

// pixelDriver implements only the mandatory contract.
type pixelDriver struct {
	mu      sync.Mutex
	w, h    int
	initErr error
	inits   int
	pix     map[image.Point]Color
	writes  int
	outside int // writes that landed off screen
}

func newPixelDriver(w, h int) *pixelDriver {
	return &pixelDriver{w: w, h: h, pix: map[image.Point]Color{}}
}

func (p *pixelDriver) Init(st *State) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inits++
	if p.initErr != nil {
		return p.initErr
	}
	st.Width, st.Height = p.w, p.h
	st.Format = pixfmt.RGB888
	return nil
}

func (p *pixelDriver) DrawPixel(x, y int, c Color) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.writes++
	pt := image.Pt(x, y)
	if !pt.In(image.Rect(0, 0, max(p.w, p.h), max(p.w, p.h))) {
		p.outside++
	}
	p.pix[pt] = c
}

func (p *pixelDriver) at(x, y int) Color {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pix[image.Pt(x, y)]
}

func (p *pixelDriver) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pix)
}

// controlDriver adds Control, Query and pixel read back.
type controlDriver struct {
	*pixelDriver
	controls []ControlCode
	refuse   map[ControlCode]bool
}

func newControlDriver(w, h int) *controlDriver {
	return &controlDriver{pixelDriver: newPixelDriver(w, h), refuse: map[ControlCode]bool{}}
}

func (c *controlDriver) Control(what ControlCode, value int) bool {
	c.controls = append(c.controls, what)
	return !c.refuse[what]
}

func (c *controlDriver) Query(what QueryCode) (int, bool) {
	if what == QueryLLD+1 {
		return 42, true
	}
	return 0, false
}

func (c *controlDriver) GetPixelColor(x, y int) Color {
	return c.at(x, y)
}

var errBoom = errors.New("boom")
