package gdisp

import (
	"image"
	"image/color"
	"image/draw"

	"periph.io/x/conn/v3/display"

	"github.com/flavioheleno/gdisp/pixfmt"
)

// Surface exposes a Display as a periph.io display.Drawer, so code
// written against periph devices can draw on any gdisp driver.
type Surface struct {
	d *Display
}

var _ display.Drawer = (*Surface)(nil)

// NewSurface wraps d.
func NewSurface(d *Display) *Surface {
	return &Surface{d: d}
}

func (s *Surface) String() string {
	return "gdisp.Surface{" + s.d.opts.Name + "}"
}

// Halt closes the display.
func (s *Surface) Halt() error {
	return s.d.Close()
}

// ColorModel returns the model of the display's pixel format.
func (s *Surface) ColorModel() color.Model {
	return s.d.Format().Model()
}

// Bounds returns the logical screen.
func (s *Surface) Bounds() image.Rectangle {
	return s.d.Bounds()
}

// Draw blits src, aligned at sp, into dst. Buffers in the display format
// are sent as they are; other images are converted first. The current
// clip applies.
func (s *Surface) Draw(dst image.Rectangle, src image.Image, sp image.Point) error {
	if err := s.d.Err(); err != nil {
		return err
	}
	if s.d.closed.Load() {
		return ErrClosed
	}
	r := dst.Intersect(s.d.Bounds())
	if r.Empty() {
		return nil
	}
	sp = sp.Add(r.Min.Sub(dst.Min))
	if buf, ok := src.(*pixfmt.Buffer); ok && buf.Format == s.d.Format() {
		s.d.BlitAreaEx(r.Min.X, r.Min.Y, r.Dx(), r.Dy(), sp.X-buf.Rect.Min.X, sp.Y-buf.Rect.Min.Y, buf)
		return nil
	}
	buf, err := s.d.NewBuffer(r.Dx(), r.Dy())
	if err != nil {
		return err
	}
	draw.Draw(buf, buf.Rect, src, sp, draw.Src)
	s.d.BlitArea(r.Min.X, r.Min.Y, r.Dx(), r.Dy(), buf)
	return nil
}
