package pixfmt

import (
	"errors"
	"fmt"
	"image/color"
	"strings"
)

// ErrUnsupportedFormat is returned when a pixel format has no packing rules,
// for example Custom.
var ErrUnsupportedFormat = errors.New("pixfmt: unsupported pixel format")

// Color is a 24-bit RGB value laid out as 0x00RRGGBB.
type Color uint32

// Common colors.
const (
	Black   Color = 0x000000
	White   Color = 0xFFFFFF
	Gray    Color = 0x808080
	Grey          = Gray
	Red     Color = 0xFF0000
	Green   Color = 0x00FF00
	Blue    Color = 0x0000FF
	Yellow  Color = 0xFFFF00
	Cyan    Color = 0x00FFFF
	Magenta Color = 0xFF00FF
)

// RGB composes a Color from its channels.
func RGB(r, g, b uint8) Color {
	return Color(r)<<16 | Color(g)<<8 | Color(b)
}

// HTML converts a 0xRRGGBB literal to a Color. Bits above 24 are dropped.
func HTML(v uint32) Color {
	return Color(v & 0xFFFFFF)
}

// R returns the red channel.
func (c Color) R() uint8 { return uint8(c >> 16) }

// G returns the green channel.
func (c Color) G() uint8 { return uint8(c >> 8) }

// B returns the blue channel.
func (c Color) B() uint8 { return uint8(c) }

// RGBA implements color.Color. Colors are always opaque.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R()) * 0x101
	g = uint32(c.G()) * 0x101
	b = uint32(c.B()) * 0x101
	return r, g, b, 0xFFFF
}

// String returns the color as #rrggbb.
func (c Color) String() string {
	return fmt.Sprintf("#%06x", uint32(c)&0xFFFFFF)
}

func toColor(c color.Color) color.Color {
	return FromColor(c)
}

// FromColor converts any color.Color to a Color, compositing it over black.
func FromColor(c color.Color) Color {
	if v, ok := c.(Color); ok {
		return v
	}
	r, g, b, _ := c.RGBA()
	return RGB(uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

// Model converts colors to Color without quantizing them to a format.
var Model = color.ModelFunc(toColor)

// Blend mixes fg over bg. Alpha 255 yields fg, alpha 0 yields bg; each
// channel is computed as (fg*(alpha+1) + bg*(256-alpha)) / 256.
func Blend(fg, bg Color, alpha uint8) Color {
	a := uint32(alpha)
	mix := func(f, b uint8) uint8 {
		return uint8((uint32(f)*(a+1) + uint32(b)*(256-a)) >> 8)
	}
	return RGB(mix(fg.R(), bg.R()), mix(fg.G(), bg.G()), mix(fg.B(), bg.B()))
}

// Format is a pixel layout used by a display controller.
type Format uint8

// Known formats. Custom is reserved for drivers that store pixels in a layout
// this package cannot pack.
const (
	Mono Format = iota + 1
	RGB332
	RGB444
	RGB565
	RGB666
	RGB888
	Custom
)

var formatNames = map[Format]string{
	Mono:   "mono",
	RGB332: "rgb332",
	RGB444: "rgb444",
	RGB565: "rgb565",
	RGB666: "rgb666",
	RGB888: "rgb888",
	Custom: "custom",
}

func (f Format) String() string {
	if s, ok := formatNames[f]; ok {
		return s
	}
	return fmt.Sprintf("Format(%d)", uint8(f))
}

// ParseFormat parses the lower case name of a format, as returned by String.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for f, name := range formatNames {
		if name == s {
			return f, nil
		}
	}
	return 0, fmt.Errorf("pixfmt: unknown format %q", s)
}

// Supported reports whether the format can be packed by this package.
func (f Format) Supported() bool {
	return f >= Mono && f <= RGB888
}

// Bits returns the storage size of one pixel in bits, or 0 if the format is
// not supported.
func (f Format) Bits() int {
	switch f {
	case Mono:
		return 1
	case RGB332:
		return 8
	case RGB444:
		return 12
	case RGB565:
		return 16
	case RGB666, RGB888:
		return 24
	}
	return 0
}

// Pack converts c to the native value of the format.
func (f Format) Pack(c Color) uint32 {
	r, g, b := uint32(c.R()), uint32(c.G()), uint32(c.B())
	switch f {
	case Mono:
		// ITU-R BT.601 luma, same weights as the grayscale models in image/color.
		if (299*r+587*g+114*b+500)/1000 >= 0x80 {
			return 1
		}
		return 0
	case RGB332:
		return (r>>5)<<5 | (g>>5)<<2 | b>>6
	case RGB444:
		return (r>>4)<<8 | (g>>4)<<4 | b>>4
	case RGB565:
		return (r>>3)<<11 | (g>>2)<<5 | b>>3
	case RGB666:
		return uint32(c) & 0xFCFCFC
	case RGB888:
		return uint32(c) & 0xFFFFFF
	}
	return uint32(c)
}

// Unpack expands a native value back into a Color.
func (f Format) Unpack(v uint32) Color {
	switch f {
	case Mono:
		if v&1 != 0 {
			return White
		}
		return Black
	case RGB332:
		return RGB(expand(v>>5, 3), expand(v>>2, 3), expand(v, 2))
	case RGB444:
		return RGB(expand(v>>8, 4), expand(v>>4, 4), expand(v, 4))
	case RGB565:
		return RGB(expand(v>>11, 5), expand(v>>5, 6), expand(v, 5))
	case RGB666:
		return RGB(expand(v>>18, 6), expand(v>>10, 6), expand(v>>2, 6))
	case RGB888:
		return Color(v & 0xFFFFFF)
	}
	return Color(v)
}

// Quantize returns the Color the format actually displays for c.
func (f Format) Quantize(c Color) Color {
	return f.Unpack(f.Pack(c))
}

// Model returns a color model that quantizes colors to the format.
func (f Format) Model() color.Model {
	return color.ModelFunc(func(c color.Color) color.Color {
		return f.Quantize(FromColor(c))
	})
}

// expand widens the low n bits of v to 8 bits by replicating the top bits
// into the bottom ones.
func expand(v uint32, n uint) uint8 {
	v &= 1<<n - 1
	out := v << (8 - n)
	for shift := 8 - 2*int(n); ; shift -= int(n) {
		if shift >= 0 {
			out |= v << uint(shift)
		} else {
			out |= v >> uint(-shift)
			break
		}
	}
	return uint8(out)
}
