// Package console is a scrolling text terminal drawn in an area of a
// gdisp display. It implements io.Writer so it can back a log.Logger or
// fmt.Fprintf.
package console

import (
	"errors"
	"image"
	"sync"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/flavioheleno/gdisp"
	"github.com/flavioheleno/gdisp/font"
	"github.com/flavioheleno/gdisp/pixfmt"
)

// Opts is the configuration of a console.
type Opts struct {
	Fg, Bg   pixfmt.Color // Text colors (default: white on black)
	TabWidth int          // Tab stop distance in spaces (default: 8)
	NoClear  bool         // Leave the area as is instead of painting it with Bg
}

// Console is safe for concurrent use; writes are not interleaved.
type Console struct {
	mu     sync.Mutex
	d      *gdisp.Display
	f      *font.Font
	area   image.Rectangle
	fg, bg pixfmt.Color
	tab    int

	x, y    int   // cursor, relative to area
	widths  []int // advances of the characters on the cursor line
	partial []byte
}

// New returns a console drawing in area with f.
func New(d *gdisp.Display, area image.Rectangle, f *font.Font, opts *Opts) (*Console, error) {
	if d == nil || f == nil {
		return nil, errors.New("console: display and font are required")
	}
	area = area.Canon()
	if area.Dx() < f.MaxWidth() || area.Dy() < f.Height() {
		return nil, errors.New("console: area smaller than one character")
	}
	o := Opts{Fg: pixfmt.White, Bg: pixfmt.Black, TabWidth: 8}
	if opts != nil {
		o = *opts
		if o.TabWidth <= 0 {
			o.TabWidth = 8
		}
	}
	c := &Console{d: d, f: f, area: area, fg: o.Fg, bg: o.Bg, tab: o.TabWidth}
	if !o.NoClear {
		c.Clear()
	}
	return c, nil
}

// Clear paints the area with the background color and homes the cursor.
func (c *Console) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.d.FillArea(c.area.Min.X, c.area.Min.Y, c.area.Dx(), c.area.Dy(), c.bg)
	c.x, c.y = 0, 0
	c.widths = c.widths[:0]
}

// SetColors changes the colors used by later writes.
func (c *Console) SetColors(fg, bg pixfmt.Color) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fg, c.bg = fg, bg
}

// Cursor returns the position of the next character, relative to the
// console area.
func (c *Console) Cursor() image.Point {
	c.mu.Lock()
	defer c.mu.Unlock()
	return image.Pt(c.x, c.y)
}

// WriteString is like Write.
func (c *Console) WriteString(s string) (int, error) {
	return c.Write([]byte(s))
}

// Write draws p. Control characters \n, \r, \t and \b move the cursor;
// text wraps at the right edge and the console scrolls at the bottom. A
// UTF-8 sequence split across writes is held back until complete.
func (c *Console) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	buf := append(c.partial, p...)
	end := len(buf)
	if start := lastStart(buf); !utf8.FullRune(buf[start:]) {
		end = start
	}
	c.partial = append([]byte(nil), buf[end:]...)

	for _, r := range string(norm.NFC.Bytes(buf[:end])) {
		c.put(r)
	}
	return len(p), nil
}

// lastStart returns the index where the last, possibly partial, rune of
// b begins.
func lastStart(b []byte) int {
	i := len(b) - 1
	for i > 0 && !utf8.RuneStart(b[i]) {
		i--
	}
	return max(i, 0)
}

func (c *Console) put(r rune) {
	switch r {
	case '\n':
		c.newline()
	case '\r':
		c.x = 0
		c.widths = c.widths[:0]
	case '\t':
		stop := c.tab * max(c.f.CharWidth(' '), 1)
		next := (c.x/stop + 1) * stop
		if next >= c.area.Dx() {
			c.newline()
			return
		}
		c.widths = append(c.widths, next-c.x)
		c.x = next
	case '\b':
		if n := len(c.widths); n > 0 {
			w := c.widths[n-1]
			c.widths = c.widths[:n-1]
			c.x -= w
			c.d.FillArea(c.area.Min.X+c.x, c.area.Min.Y+c.y, w, c.f.Height(), c.bg)
		}
	default:
		w := c.f.CharWidth(r)
		if w == 0 {
			return
		}
		if c.x+w > c.area.Dx() {
			c.newline()
		}
		c.d.FillChar(c.area.Min.X+c.x, c.area.Min.Y+c.y, r, c.f, c.fg, c.bg)
		c.x += w
		c.widths = append(c.widths, w)
	}
}

// newline moves to the start of the next line, scrolling the area up by
// one line when the cursor would leave it.
func (c *Console) newline() {
	c.x = 0
	c.widths = c.widths[:0]
	lh := c.f.LineHeight()
	c.y += lh
	if c.y+c.f.Height() <= c.area.Dy() {
		return
	}
	shift := c.y + c.f.Height() - c.area.Dy()
	c.d.VerticalScroll(c.area.Min.X, c.area.Min.Y, c.area.Dx(), c.area.Dy(), shift, c.bg)
	c.y -= shift
}
