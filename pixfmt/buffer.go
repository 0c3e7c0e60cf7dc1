package pixfmt

import (
	"fmt"
	"image"
	"image/color"
)

// Buffer is an off-screen image stored in the native layout of a Format.
// Pixels are packed linearly, row after row, most significant bit first,
// so formats narrower than a byte or not a multiple of 8 bits share bytes
// between neighbouring pixels.
type Buffer struct {
	Pix    []byte          // Packed pixel data
	Format Format          // Pixel layout of Pix
	Rect   image.Rectangle // Image bounds
}

// NewBuffer creates a zeroed Buffer of the given format and bounds.
func NewBuffer(f Format, r image.Rectangle) (*Buffer, error) {
	if !f.Supported() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}
	w, h := r.Dx(), r.Dy()
	if w <= 0 || h <= 0 {
		return &Buffer{Format: f, Rect: r}, nil
	}
	return &Buffer{
		Pix:    make([]byte, BufferSize(f, w, h)),
		Format: f,
		Rect:   r,
	}, nil
}

// BufferSize returns the number of bytes needed to hold cx*cy pixels.
func BufferSize(f Format, cx, cy int) int {
	return (cx*cy*f.Bits() + 7) / 8
}

// ColorModel returns the color model of the buffer's format.
func (p *Buffer) ColorModel() color.Model {
	return p.Format.Model()
}

// Bounds returns the image bounds.
func (p *Buffer) Bounds() image.Rectangle {
	return p.Rect
}

// At returns the color of the pixel at (x, y).
// It implements the image.Image interface.
func (p *Buffer) At(x, y int) color.Color {
	return p.ColorAt(x, y)
}

// ColorAt returns the Color of the pixel at (x, y), or Black outside the
// bounds.
func (p *Buffer) ColorAt(x, y int) Color {
	return p.Format.Unpack(p.NativeAt(x, y))
}

// NativeAt returns the packed value of the pixel at (x, y).
func (p *Buffer) NativeAt(x, y int) uint32 {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return 0
	}
	return getBits(p.Pix, p.pixOffset(x, y), p.Format.Bits())
}

// Set sets the color of the pixel at (x, y).
func (p *Buffer) Set(x, y int, c color.Color) {
	p.SetColor(x, y, FromColor(c))
}

// SetColor sets the pixel at (x, y). This is faster than Set as no color
// model conversion is involved.
func (p *Buffer) SetColor(x, y int, c Color) {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return
	}
	putBits(p.Pix, p.pixOffset(x, y), p.Format.Bits(), p.Format.Pack(c))
}

// Fill sets every pixel of r, clipped to the bounds, to c.
func (p *Buffer) Fill(r image.Rectangle, c Color) {
	r = r.Intersect(p.Rect)
	v, n := p.Format.Pack(c), p.Format.Bits()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			putBits(p.Pix, p.pixOffset(x, y), n, v)
		}
	}
}

// pixOffset returns the bit offset of the pixel at (x, y).
func (p *Buffer) pixOffset(x, y int) int {
	return ((y-p.Rect.Min.Y)*p.Rect.Dx() + (x - p.Rect.Min.X)) * p.Format.Bits()
}

// PackPixels writes c into a raw pixel buffer of stride cx pixels at (x, y),
// using the layout of Buffer. It panics if f is not supported, as silently
// corrupting the buffer is worse.
func PackPixels(buf []byte, f Format, cx, x, y int, c Color) {
	if !f.Supported() {
		panic(fmt.Sprintf("pixfmt: PackPixels: %v", f))
	}
	putBits(buf, (y*cx+x)*f.Bits(), f.Bits(), f.Pack(c))
}

// putBits stores the low n bits of v at bit offset bit, most significant bit
// first.
func putBits(buf []byte, bit, n int, v uint32) {
	for n > 0 {
		i, off := bit>>3, bit&7
		room := 8 - off
		take := min(room, n)
		chunk := byte(v>>uint(n-take)) & (1<<uint(take) - 1)
		shift := uint(room - take)
		mask := byte(1<<uint(take)-1) << shift
		buf[i] = buf[i]&^mask | chunk<<shift
		n -= take
		bit += take
	}
}

// getBits is the inverse of putBits.
func getBits(buf []byte, bit, n int) uint32 {
	var v uint32
	for n > 0 {
		i, off := bit>>3, bit&7
		room := 8 - off
		take := min(room, n)
		chunk := (buf[i] >> uint(room-take)) & (1<<uint(take) - 1)
		v = v<<uint(take) | uint32(chunk)
		n -= take
		bit += take
	}
	return v
}
