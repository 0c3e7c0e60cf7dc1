// Package ebitensim shows a memory framebuffer in a desktop window, so
// gdisp programs can be tried without a panel. The window shows the panel
// as mounted in the current orientation, scaled up, with the backlight
// level dimming the image.
//
// ebiten owns the main goroutine: draw from other goroutines and call
// Run from main.
//
// Builds with the headless tag drop the window; Run then returns
// ErrHeadless while drawing still works.
package ebitensim

import (
	"errors"
	"fmt"
	"sync"

	"github.com/flavioheleno/gdisp/drivers/memfb"
)

// ErrHeadless is returned by Run in builds without a window system.
var ErrHeadless = errors.New("ebitensim: built without a window (headless tag)")

// Opts is the configuration of the simulator.
type Opts struct {
	memfb.Opts
	Title string // Window title (default: "gdisp")
	Scale int    // Window pixels per panel pixel (default: 2)
}

// Sim is a memfb panel with a window. It implements gdisp.Driver through
// the embedded framebuffer.
type Sim struct {
	*memfb.Dev
	title string
	scale int

	once sync.Once
	quit chan struct{}
}

// New creates the simulator. opts can be nil to use defaults.
func New(opts *Opts) (*Sim, error) {
	o := Opts{}
	if opts != nil {
		o = *opts
	}
	if o.Title == "" {
		o.Title = "gdisp"
	}
	if o.Scale <= 0 {
		o.Scale = 2
	}
	fb, err := memfb.New(&o.Opts)
	if err != nil {
		return nil, fmt.Errorf("ebitensim: %w", err)
	}
	return &Sim{Dev: fb, title: o.Title, scale: o.Scale, quit: make(chan struct{})}, nil
}

func (s *Sim) String() string {
	w, h := s.PanelSize()
	return fmt.Sprintf("ebitensim{%dx%d}", w, h)
}

// Quit asks a running window to close; Run then returns nil.
func (s *Sim) Quit() {
	s.once.Do(func() { close(s.quit) })
}

// Done is closed once Quit has been called.
func (s *Sim) Done() <-chan struct{} { return s.quit }

// dim scales an RGBA frame by the backlight percentage.
func dim(pix []byte, backlight int) {
	if backlight >= 100 {
		return
	}
	backlight = max(backlight, 0)
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i] = byte(int(pix[i]) * backlight / 100)
		pix[i+1] = byte(int(pix[i+1]) * backlight / 100)
		pix[i+2] = byte(int(pix[i+2]) * backlight / 100)
	}
}
