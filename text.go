package gdisp

import (
	"fmt"
	"image"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/flavioheleno/gdisp/font"
)

// Justify is the horizontal alignment of text inside a box.
type Justify int

// Alignments.
const (
	JustifyLeft Justify = iota
	JustifyCenter
	JustifyRight
)

var justifyNames = [...]string{"left", "center", "right"}

func (j Justify) String() string {
	if j >= JustifyLeft && j <= JustifyRight {
		return justifyNames[j]
	}
	return fmt.Sprintf("Justify(%d)", int(j))
}

// ParseJustify parses the name returned by String.
func ParseJustify(s string) (Justify, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range justifyNames {
		if name == s {
			return Justify(i), nil
		}
	}
	return 0, fmt.Errorf("gdisp: unknown justification %q", s)
}

// DrawChar draws r with the top-left corner of its cell at (x, y). Only the
// glyph is drawn; anti-aliased edges are blended with the pixels beneath
// when the driver can read them back.
func (d *Display) DrawChar(x, y int, r rune, f *font.Font, c Color) {
	d.submit(message{action: actDrawChar, x: x, y: y,
		glyph: glyph{r: r, font: f, fg: c, limit: noLimit}})
}

// FillChar is like DrawChar but paints the whole cell, and any ink reaching
// past it, with bg first.
func (d *Display) FillChar(x, y int, r rune, f *font.Font, c, bg Color) {
	d.submit(message{action: actDrawChar, x: x, y: y,
		glyph: glyph{r: r, font: f, fg: c, bg: bg, fill: true, blend: true, limit: noLimit}})
}

// DrawString draws s starting with the cell of its first character at
// (x, y). The string is normalised to NFC so that combining sequences map
// to the precomposed glyphs fonts carry.
func (d *Display) DrawString(x, y int, s string, f *font.Font, c Color) {
	d.drawString(x, y, s, f, glyph{fg: c, limit: noLimit})
}

// FillString is like DrawString but paints every character cell with bg.
func (d *Display) FillString(x, y int, s string, f *font.Font, c, bg Color) {
	d.drawString(x, y, s, f, glyph{fg: c, bg: bg, fill: true, blend: true, limit: noLimit})
}

// DrawStringBox draws s aligned inside the cx by cy box at (x, y) and
// vertically centred. Nothing is drawn outside the box.
func (d *Display) DrawStringBox(x, y, cx, cy int, s string, f *font.Font, c Color, j Justify) {
	d.drawStringBox(x, y, cx, cy, s, f, glyph{fg: c}, j)
}

// FillStringBox paints the box with bg, then draws s inside it like
// DrawStringBox.
func (d *Display) FillStringBox(x, y, cx, cy int, s string, f *font.Font, c, bg Color, j Justify) {
	d.FillArea(x, y, cx, cy, bg)
	d.drawStringBox(x, y, cx, cy, s, f, glyph{fg: c, bg: bg, blend: true}, j)
}

func (d *Display) drawStringBox(x, y, cx, cy int, s string, f *font.Font, g glyph, j Justify) {
	if f == nil || cx <= 0 || cy <= 0 {
		return
	}
	s = norm.NFC.String(s)
	tx := x
	switch j {
	case JustifyCenter:
		tx += (cx - f.StringWidth(s) + 1) / 2
	case JustifyRight:
		tx += cx - f.StringWidth(s)
	}
	ty := y + (cy-f.Height()+1)/2
	g.limit = image.Rect(x, y, x+cx, y+cy)
	d.drawString(tx, ty, s, f, g)
}

// drawString issues one character request per rune, all sharing g.
func (d *Display) drawString(x, y int, s string, f *font.Font, g glyph) {
	if f == nil {
		return
	}
	g.font = f
	for _, r := range norm.NFC.String(s) {
		w := f.CharWidth(r)
		if w == 0 {
			continue
		}
		g.r = r
		d.submit(message{action: actDrawChar, x: x, y: y, glyph: g})
		x += w
	}
}
