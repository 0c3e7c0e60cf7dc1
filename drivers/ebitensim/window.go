//go:build !headless

package ebitensim

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/flavioheleno/gdisp"
)

type game struct {
	s     *Sim
	w, h  int    // panel size
	raw   []byte // last panel frame
	pix   []byte // raw dimmed by the backlight
	bl    int
	panel *ebiten.Image
}

// Run opens the window and blocks until it is closed or Quit is called.
// It must be called from the main goroutine.
func (s *Sim) Run() error {
	w, h := s.PanelSize()
	g := &game{s: s, w: w, h: h, raw: make([]byte, w*h*4), pix: make([]byte, w*h*4), bl: -1}
	lw, lh := g.logical()
	ebiten.SetWindowSize(lw*s.scale, lh*s.scale)
	ebiten.SetWindowTitle(s.title)
	ebiten.SetWindowResizable(true)
	ebiten.SetRunnableOnUnfocused(true)
	return ebiten.RunGame(g)
}

func (g *game) logical() (int, int) {
	if g.s.Orientation().Swaps() {
		return g.h, g.w
	}
	return g.w, g.h
}

func (g *game) Update() error {
	if ebiten.IsWindowBeingClosed() {
		g.s.Quit()
	}
	select {
	case <-g.s.quit:
		return ebiten.Termination
	default:
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.panel == nil {
		g.panel = ebiten.NewImage(g.w, g.h)
	}
	changed, _ := g.s.CopyPanel(g.raw)
	if bl, _ := g.s.Levels(); changed || bl != g.bl {
		g.bl = bl
		copy(g.pix, g.raw)
		dim(g.pix, bl)
		g.panel.WritePixels(g.pix)
	}

	// Rotate the native panel so logical (0, 0) is top left.
	op := &ebiten.DrawImageOptions{}
	switch g.s.Orientation() {
	case gdisp.Rotate90:
		op.GeoM.Rotate(-math.Pi / 2)
		op.GeoM.Translate(0, float64(g.w))
	case gdisp.Rotate180:
		op.GeoM.Rotate(math.Pi)
		op.GeoM.Translate(float64(g.w), float64(g.h))
	case gdisp.Rotate270:
		op.GeoM.Rotate(math.Pi / 2)
		op.GeoM.Translate(float64(g.h), 0)
	}
	screen.DrawImage(g.panel, op)
}

func (g *game) Layout(_, _ int) (int, int) {
	return g.logical()
}
