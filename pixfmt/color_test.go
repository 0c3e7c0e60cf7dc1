package pixfmt

import (
	"image/color"
	"math/rand/v2"
	"testing"
)

var packedFormats = []Format{Mono, RGB332, RGB444, RGB565, RGB666, RGB888}

func TestColorChannels(t *testing.T) {
	c := RGB(0x12, 0x34, 0x56)
	if c != 0x123456 {
		t.Fatalf("RGB() = %v, want #123456", c)
	}
	if c.R() != 0x12 || c.G() != 0x34 || c.B() != 0x56 {
		t.Errorf("channels = %x %x %x", c.R(), c.G(), c.B())
	}
	if HTML(0xFF123456) != c {
		t.Errorf("HTML() kept bits above 24")
	}
	if c.String() != "#123456" {
		t.Errorf("String() = %q", c.String())
	}
	r, g, b, a := White.RGBA()
	if r != 0xFFFF || g != 0xFFFF || b != 0xFFFF || a != 0xFFFF {
		t.Errorf("White.RGBA() = %x %x %x %x", r, g, b, a)
	}
}

func TestFromColor(t *testing.T) {
	tests := []struct {
		name string
		in   color.Color
		want Color
	}{
		{"passthrough", Color(0xABCDEF), 0xABCDEF},
		{"std black", color.Black, Black},
		{"std white", color.White, White},
		{"nrgba", color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xFF}, 0x102030},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromColor(tt.in); got != tt.want {
				t.Errorf("FromColor() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPackKnownValues(t *testing.T) {
	tests := []struct {
		format Format
		in     Color
		want   uint32
	}{
		{Mono, White, 1},
		{Mono, Black, 0},
		{Mono, Gray, 1},
		{Mono, Blue, 0},
		{RGB332, Red, 0xE0},
		{RGB332, Blue, 0x03},
		{RGB444, HTML(0x123456), 0x135},
		{RGB565, Red, 0xF800},
		{RGB565, Green, 0x07E0},
		{RGB565, Blue, 0x001F},
		{RGB666, White, 0xFCFCFC},
		{RGB888, HTML(0x123456), 0x123456},
	}
	for _, tt := range tests {
		t.Run(tt.format.String()+"/"+tt.in.String(), func(t *testing.T) {
			if got := tt.format.Pack(tt.in); got != tt.want {
				t.Errorf("Pack() = 0x%X, want 0x%X", got, tt.want)
			}
		})
	}
}

func TestPrimariesRoundTrip(t *testing.T) {
	primaries := []Color{Black, White, Red, Green, Blue, Yellow, Cyan, Magenta}
	for _, f := range packedFormats {
		for _, c := range primaries {
			if f == Mono && c != Black && c != White {
				continue
			}
			if got := f.Unpack(f.Pack(c)); got != c {
				t.Errorf("%v: Unpack(Pack(%v)) = %v", f, c, got)
			}
		}
	}
}

func TestNativeRoundTrip(t *testing.T) {
	// Every native value of the narrow formats survives expansion.
	for _, f := range []Format{Mono, RGB332, RGB444, RGB565} {
		t.Run(f.String(), func(t *testing.T) {
			for v := uint32(0); v < 1<<f.Bits(); v++ {
				if got := f.Pack(f.Unpack(v)); got != v {
					t.Fatalf("Pack(Unpack(0x%X)) = 0x%X", v, got)
				}
			}
		})
	}
}

func TestQuantizeBoundedLoss(t *testing.T) {
	// Maximum per channel error for each format, from its narrowest channel.
	maxErr := map[Format]int{RGB332: 1 << 6, RGB444: 1 << 4, RGB565: 1 << 3, RGB666: 1 << 2, RGB888: 1}
	rng := rand.New(rand.NewPCG(1, 2))
	for f, limit := range maxErr {
		for i := 0; i < 2000; i++ {
			c := Color(rng.Uint32() & 0xFFFFFF)
			q := f.Quantize(c)
			if f.Quantize(q) != q {
				t.Fatalf("%v: Quantize not idempotent for %v", f, c)
			}
			for _, d := range []int{
				int(c.R()) - int(q.R()),
				int(c.G()) - int(q.G()),
				int(c.B()) - int(q.B()),
			} {
				if d < 0 {
					d = -d
				}
				if d >= limit {
					t.Fatalf("%v: %v quantized to %v, channel error %d", f, c, q, d)
				}
			}
		}
	}
}

func TestBlendIdentity(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	within := func(a, b uint8) bool {
		d := int(a) - int(b)
		return d >= -1 && d <= 1
	}
	for i := 0; i < 5000; i++ {
		fg := Color(rng.Uint32() & 0xFFFFFF)
		bg := Color(rng.Uint32() & 0xFFFFFF)
		full := Blend(fg, bg, 255)
		if !within(full.R(), fg.R()) || !within(full.G(), fg.G()) || !within(full.B(), fg.B()) {
			t.Fatalf("Blend(%v, %v, 255) = %v", fg, bg, full)
		}
		none := Blend(fg, bg, 0)
		if !within(none.R(), bg.R()) || !within(none.G(), bg.G()) || !within(none.B(), bg.B()) {
			t.Fatalf("Blend(%v, %v, 0) = %v", fg, bg, none)
		}
	}
}

func TestBlendMidpoint(t *testing.T) {
	got := Blend(White, Black, 128)
	// (255*129 + 0) / 256 = 128
	if got != RGB(128, 128, 128) {
		t.Errorf("Blend(white, black, 128) = %v, want #808080", got)
	}
}

func TestParseFormat(t *testing.T) {
	for _, f := range append(packedFormats, Custom) {
		got, err := ParseFormat(f.String())
		if err != nil || got != f {
			t.Errorf("ParseFormat(%q) = %v, %v", f.String(), got, err)
		}
	}
	if got, err := ParseFormat(" RGB565 "); err != nil || got != RGB565 {
		t.Errorf("ParseFormat is not case insensitive: %v, %v", got, err)
	}
	if _, err := ParseFormat("yuv422"); err == nil {
		t.Error("ParseFormat(yuv422) succeeded")
	}
}

func TestFormatModel(t *testing.T) {
	got := RGB565.Model().Convert(color.RGBA{R: 0x13, G: 0x57, B: 0x9B, A: 0xFF})
	want := RGB565.Quantize(RGB(0x13, 0x57, 0x9B))
	if got != want {
		t.Errorf("Model().Convert() = %v, want %v", got, want)
	}
}
