package memfb

import (
	"errors"
	"image"
	"testing"

	"github.com/flavioheleno/gdisp"
	"github.com/flavioheleno/gdisp/pixfmt"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		opts    *Opts
		wantW   int
		wantH   int
		wantErr bool
	}{
		{"nil options (uses defaults)", nil, 320, 240, false},
		{"zero size uses defaults", &Opts{Format: pixfmt.RGB888}, 320, 240, false},
		{"custom size", &Opts{W: 64, H: 32}, 64, 32, false},
		{"negative width", &Opts{W: -1, H: 32}, 0, 0, true},
		{"custom format rejected", &Opts{W: 8, H: 8, Format: pixfmt.Custom}, 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := New(tt.opts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if w, h := d.PanelSize(); w != tt.wantW || h != tt.wantH {
				t.Errorf("PanelSize() = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestInitReportsState(t *testing.T) {
	d, err := New(&Opts{W: 10, H: 6, Format: pixfmt.RGB444})
	if err != nil {
		t.Fatal(err)
	}
	st := gdisp.State{Backlight: 70, Contrast: 20}
	if err := d.Init(&st); err != nil {
		t.Fatal(err)
	}
	if st.Width != 10 || st.Height != 6 || st.Format != pixfmt.RGB444 {
		t.Errorf("Init() state = %+v", st)
	}
	if b, c := d.Levels(); b != 70 || c != 20 {
		t.Errorf("Levels() = %d, %d", b, c)
	}

	boom := errors.New("no panel")
	bad, _ := New(&Opts{W: 4, H: 4, InitErr: boom})
	if err := bad.Init(&gdisp.State{}); !errors.Is(err, boom) {
		t.Errorf("Init() error = %v, want %v", err, boom)
	}
}

func TestCapabilities(t *testing.T) {
	d, _ := New(nil)
	if d.Capabilities() != gdisp.HardwareAll {
		t.Errorf("default caps = %v", d.Capabilities())
	}
	d, _ = New(&Opts{Caps: gdisp.HardwareFill | gdisp.HardwareQuery})
	disp, err := gdisp.New(d, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := disp.Capabilities(); got != gdisp.HardwareFill|gdisp.HardwareQuery {
		t.Errorf("display caps = %v", got)
	}
	disp.DrawLine(0, 0, 5, 3, pixfmt.White)
	if c := d.Calls(); c.DrawLine != 0 || c.DrawPixel == 0 {
		t.Errorf("line not emulated: %+v", c)
	}
}

func TestRotation(t *testing.T) {
	d, _ := New(&Opts{W: 6, H: 4, Format: pixfmt.RGB888})
	if err := d.Init(&gdisp.State{}); err != nil {
		t.Fatal(err)
	}
	d.Control(gdisp.ControlOrientation, int(gdisp.Rotate90))
	d.DrawPixel(1, 0, pixfmt.Red) // panel (5, 1)
	d.FillArea(0, 5, 2, 1, pixfmt.Blue)

	img := d.Image()
	if img.Bounds() != image.Rect(0, 0, 4, 6) {
		t.Fatalf("Image() bounds = %v", img.Bounds())
	}
	if got := d.fb.ColorAt(5, 1); got != pixfmt.Red {
		t.Errorf("panel (5, 1) = %v, want red", got)
	}
	for _, p := range []image.Point{{0, 0}, {0, 1}} {
		if got := d.fb.ColorAt(p.X, p.Y); got != pixfmt.Blue {
			t.Errorf("panel %v = %v, want blue", p, got)
		}
	}
	if got := d.GetPixelColor(1, 0); got != pixfmt.Red {
		t.Errorf("GetPixelColor(1, 0) = %v", got)
	}
}

func TestCopyPanel(t *testing.T) {
	d, _ := New(&Opts{W: 2, H: 2, Format: pixfmt.RGB888})
	if err := d.Init(&gdisp.State{}); err != nil {
		t.Fatal(err)
	}
	buf := make([]byte, 2*2*4)
	if _, err := d.CopyPanel(buf[:3]); err == nil {
		t.Error("CopyPanel accepted a short buffer")
	}
	if changed, _ := d.CopyPanel(buf); !changed {
		t.Error("first copy after Init reported no change")
	}
	if changed, _ := d.CopyPanel(buf); changed {
		t.Error("second copy reported a change")
	}
	d.DrawPixel(1, 0, pixfmt.HTML(0x102030))
	if changed, _ := d.CopyPanel(buf); !changed {
		t.Fatal("copy after drawing reported no change")
	}
	if buf[4] != 0x10 || buf[5] != 0x20 || buf[6] != 0x30 || buf[7] != 0xFF {
		t.Errorf("pixel bytes = % X", buf[4:8])
	}

	d.Control(gdisp.ControlPower, int(gdisp.PowerSleep))
	d.CopyPanel(buf)
	if buf[4] != 0 {
		t.Error("sleeping panel still shows content")
	}
}

func TestDriverSpecificCodes(t *testing.T) {
	d, _ := New(&Opts{W: 2, H: 1, Format: pixfmt.RGB888})
	disp, err := gdisp.New(d, nil)
	if err != nil {
		t.Fatal(err)
	}
	disp.DrawPixel(0, 0, pixfmt.Red)
	if d.Control(ControlInvert, 0) {
		t.Error("ControlInvert(0) accepted")
	}
	disp.Control(ControlInvert, 1)
	if d.At(0, 0) != pixfmt.Cyan || d.At(1, 0) != pixfmt.White {
		t.Errorf("inverted = %v %v", d.At(0, 0), d.At(1, 0))
	}
	if n, ok := disp.Query(QueryFrames); !ok || n != 1 {
		t.Errorf("Query(QueryFrames) = %d, %v", n, ok)
	}
	if _, ok := d.Query(QueryFrames + 1); ok {
		t.Error("unknown query answered")
	}
}

func TestVerticalScroll(t *testing.T) {
	d, _ := New(&Opts{W: 3, H: 4, Format: pixfmt.RGB888})
	if err := d.Init(&gdisp.State{}); err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 4; y++ {
		d.FillArea(0, y, 3, 1, pixfmt.RGB(uint8(y+1), 0, 0))
	}
	d.VerticalScroll(0, 0, 3, 4, -1, pixfmt.Green)
	want := []pixfmt.Color{pixfmt.Green, pixfmt.RGB(1, 0, 0), pixfmt.RGB(2, 0, 0), pixfmt.RGB(3, 0, 0)}
	for y, w := range want {
		if got := d.At(1, y); got != w {
			t.Errorf("row %d = %v, want %v", y, got, w)
		}
	}
}
