// Package font adapts golang.org/x/image faces to the character contract
// used by gdisp: fixed cell metrics plus a renderer that reports each
// glyph as runs of pixels sharing one coverage value.
//
// Built-in fonts are looked up by name:
//
//	f, err := font.Open("GoRegular16")
//	if err != nil {
//		return err
//	}
//	d.DrawString(0, 0, "hello", f, pixfmt.White)
//
// Any TrueType or OpenType font can be used with Parse, and any existing
// font.Face with FromFace.
package font

import (
	"errors"
	"fmt"
	"image"
	"slices"
	"sync"

	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// ErrUnknownFont is returned by Open for names it does not know.
var ErrUnknownFont = errors.New("font: unknown font")

// RunFunc receives a horizontal run of count pixels starting at (x, y),
// relative to the top-left of the character cell, all covered by alpha
// (255 is fully opaque).
type RunFunc func(x, y, count int, alpha uint8)

// Font is a sized face with cached metrics. It is safe for concurrent use.
type Font struct {
	name string

	mu   sync.Mutex // faces keep glyph caches and are not concurrency safe
	face xfont.Face

	height     int
	baselineX  int
	baselineY  int
	lineHeight int
	minWidth   int
	maxWidth   int
}

// FromFace wraps face. The font takes ownership and closes it on Close.
func FromFace(name string, face xfont.Face) *Font {
	m := face.Metrics()
	f := &Font{
		name:       name,
		face:       face,
		height:     (m.Ascent + m.Descent).Ceil(),
		baselineY:  m.Ascent.Ceil(),
		lineHeight: m.Height.Ceil(),
	}
	if f.lineHeight < f.height {
		f.lineHeight = f.height
	}
	f.minWidth, f.maxWidth = -1, 0
	for r := rune(0x20); r < 0x7F; r++ {
		adv, ok := face.GlyphAdvance(r)
		if !ok {
			continue
		}
		w := adv.Round()
		if f.minWidth < 0 || w < f.minWidth {
			f.minWidth = w
		}
		f.maxWidth = max(f.maxWidth, w)
	}
	f.minWidth = max(f.minWidth, 0)
	return f
}

// Parse loads a TrueType or OpenType font at size points, rendered at 72
// DPI so that one point is one pixel.
func Parse(name string, data []byte, size float64) (*Font, error) {
	if size <= 0 {
		return nil, fmt.Errorf("font: invalid size %v", size)
	}
	otf, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("font: parse %s: %w", name, err)
	}
	face, err := opentype.NewFace(otf, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: xfont.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("font: face %s: %w", name, err)
	}
	return FromFace(name, face), nil
}

// builtin lists the fonts Open knows.
var builtin = map[string]func() (*Font, error){
	"Fixed7x13": func() (*Font, error) {
		return FromFace("Fixed7x13", basicfont.Face7x13), nil
	},
	"GoRegular12": func() (*Font, error) { return Parse("GoRegular12", goregular.TTF, 12) },
	"GoRegular16": func() (*Font, error) { return Parse("GoRegular16", goregular.TTF, 16) },
	"GoRegular24": func() (*Font, error) { return Parse("GoRegular24", goregular.TTF, 24) },
	"GoMono12":    func() (*Font, error) { return Parse("GoMono12", gomono.TTF, 12) },
	"GoMono16":    func() (*Font, error) { return Parse("GoMono16", gomono.TTF, 16) },
}

// Open returns the built-in font called name.
func Open(name string) (*Font, error) {
	load, ok := builtin[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFont, name)
	}
	return load()
}

// Names returns the names Open accepts, sorted.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for n := range builtin {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Close releases the face.
func (f *Font) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.face.Close()
}

func (f *Font) String() string { return f.name }

// Name returns the name the font was created with.
func (f *Font) Name() string { return f.name }

// Height returns the height of a character cell.
func (f *Font) Height() int { return f.height }

// BaselineX returns the horizontal offset of the glyph origin in its cell.
func (f *Font) BaselineX() int { return f.baselineX }

// BaselineY returns the distance from the top of the cell to the baseline.
func (f *Font) BaselineY() int { return f.baselineY }

// LineHeight returns the recommended distance between two baselines.
func (f *Font) LineHeight() int { return f.lineHeight }

// MinWidth returns the narrowest advance among printable ASCII characters.
func (f *Font) MinWidth() int { return f.minWidth }

// MaxWidth returns the widest advance among printable ASCII characters.
func (f *Font) MaxWidth() int { return f.maxWidth }

// CharWidth returns the advance of r, or 0 when the font has no glyph
// for it.
func (f *Font) CharWidth(r rune) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	adv, ok := f.face.GlyphAdvance(r)
	if !ok {
		return 0
	}
	return adv.Round()
}

// StringWidth returns the sum of the advances of the runes of s.
func (f *Font) StringWidth(s string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	w := 0
	for _, r := range s {
		if adv, ok := f.face.GlyphAdvance(r); ok {
			w += adv.Round()
		}
	}
	return w
}

// Bounds returns every pixel drawing r can touch, relative to the top-left
// of its cell: the cell united with the ink of the glyph. Outline glyphs
// may reach past their advance or below the cell. It is empty when the
// font has no glyph for r.
func (f *Font) Bounds(r rune) image.Rectangle {
	f.mu.Lock()
	defer f.mu.Unlock()
	adv, ok := f.face.GlyphAdvance(r)
	if !ok {
		return image.Rectangle{}
	}
	cell := image.Rect(0, 0, adv.Round(), f.height)
	dr, _, _, _, ok := f.face.Glyph(fixed.P(f.baselineX, f.baselineY), r)
	if !ok {
		return cell
	}
	return cell.Union(dr)
}

// Render reports the coverage of r as runs, scanning the glyph row by row
// from left to right. Fully transparent pixels are skipped. It reports
// false when the font has no glyph for r.
func (f *Font) Render(r rune, fn RunFunc) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	dot := fixed.P(f.baselineX, f.baselineY)
	dr, mask, mp, _, ok := f.face.Glyph(dot, r)
	if !ok {
		return false
	}
	for y := dr.Min.Y; y < dr.Max.Y; y++ {
		start, alpha := dr.Min.X, uint8(0)
		for x := dr.Min.X; x <= dr.Max.X; x++ {
			var a uint8
			if x < dr.Max.X {
				a = coverage(mask, mp.X+x-dr.Min.X, mp.Y+y-dr.Min.Y)
			}
			if a == alpha {
				continue
			}
			if alpha != 0 {
				fn(start, y, x-start, alpha)
			}
			start, alpha = x, a
		}
	}
	return true
}

// coverage returns the 8-bit alpha of the mask at (x, y).
func coverage(mask image.Image, x, y int) uint8 {
	if a, ok := mask.(*image.Alpha); ok {
		return a.AlphaAt(x, y).A
	}
	_, _, _, a := mask.At(x, y).RGBA()
	return uint8(a >> 8)
}
