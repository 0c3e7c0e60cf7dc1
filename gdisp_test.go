package gdisp

import (
	"errors"
	"image"
	"testing"

	"github.com/flavioheleno/gdisp/font"
	"github.com/flavioheleno/gdisp/pixfmt"
)

func TestNewErrors(t *testing.T) {
	if _, err := New(nil, nil); err == nil {
		t.Error("New(nil) succeeded")
	}

	drv := newPixelDriver(10, 10)
	drv.initErr = errBoom
	_, err := New(drv, nil)
	if !errors.Is(err, ErrInit) || !errors.Is(err, errBoom) {
		t.Errorf("New() error = %v, want ErrInit wrapping boom", err)
	}

	for _, size := range [][2]int{{0, 10}, {10, -1}, {40000, 10}} {
		if _, err := New(newPixelDriver(size[0], size[1]), nil); !errors.Is(err, ErrInvalidSize) {
			t.Errorf("size %v: error = %v, want ErrInvalidSize", size, err)
		}
	}

	if _, err := New(newPixelDriver(10, 10), &Opts{Threading: Threading(7)}); err == nil {
		t.Error("invalid threading mode accepted")
	}
}

func TestNewDefaults(t *testing.T) {
	d, err := New(newPixelDriver(64, 32), nil)
	if err != nil {
		t.Fatal(err)
	}
	st := d.State()
	if st.Width != 64 || st.Height != 32 || st.Power != PowerOn || st.Orientation != Rotate0 {
		t.Errorf("state = %+v", st)
	}
	if st.Clip != image.Rect(0, 0, 64, 32) {
		t.Errorf("clip = %v, want full screen", st.Clip)
	}
	if d.Capabilities() != 0 {
		t.Errorf("capabilities = %v, want none", d.Capabilities())
	}
	if d.IsBusy() {
		t.Error("IsBusy() true without async")
	}
}

func TestResolveRespectsDisable(t *testing.T) {
	d, err := New(newControlDriver(8, 8), &Opts{Disable: HardwarePixelRead})
	if err != nil {
		t.Fatal(err)
	}
	if !d.Capabilities().Has(HardwareControl | HardwareQuery) {
		t.Errorf("capabilities = %v, want control and query", d.Capabilities())
	}
	if d.Capabilities().Has(HardwarePixelRead) {
		t.Error("disabled pixel read still resolved")
	}
	if got := d.GetPixelColor(1, 1); got != 0 {
		t.Errorf("GetPixelColor() = %v without pixel read", got)
	}
}

func TestCapabilityString(t *testing.T) {
	if s := (HardwareFill | HardwareScroll).String(); s != "fill|scroll" {
		t.Errorf("String() = %q", s)
	}
	c, unknown := ParseCapabilities([]string{"Fill", " scroll", "teleport"})
	if c != HardwareFill|HardwareScroll || len(unknown) != 1 || unknown[0] != "teleport" {
		t.Errorf("ParseCapabilities() = %v, %v", c, unknown)
	}
	if Capability(0).String() != "none" {
		t.Error("zero capability not named none")
	}
}

func TestEmulatedFillRespectsClip(t *testing.T) {
	drv := newPixelDriver(20, 20)
	d, err := New(drv, nil)
	if err != nil {
		t.Fatal(err)
	}
	d.SetClip(0, 0, 10, 10)
	d.FillArea(5, 5, 20, 20, pixfmt.Red)

	if got := drv.count(); got != 25 {
		t.Errorf("%d pixels written, want 25", got)
	}
	for y := 5; y < 10; y++ {
		for x := 5; x < 10; x++ {
			if drv.at(x, y) != pixfmt.Red {
				t.Fatalf("(%d, %d) not red", x, y)
			}
		}
	}
}

func TestClearIgnoresClip(t *testing.T) {
	drv := newPixelDriver(6, 4)
	d, _ := New(drv, nil)
	d.SetClip(1, 1, 1, 1)
	d.Clear(pixfmt.Blue)
	if drv.count() != 24 {
		t.Errorf("Clear wrote %d pixels, want 24", drv.count())
	}
}

func TestSetClipClampsToScreen(t *testing.T) {
	d, _ := New(newPixelDriver(30, 20), nil)
	d.SetClip(-5, 10, 100, 100)
	if got := d.Clip(); got != image.Rect(0, 10, 30, 20) {
		t.Errorf("Clip() = %v", got)
	}
	d.SetClip(5, 5, -3, 4)
	if got := d.Clip(); !got.Empty() {
		t.Errorf("negative size clip = %v, want empty", got)
	}
	d.UnsetClip()
	if got := d.Clip(); got != image.Rect(0, 0, 30, 20) {
		t.Errorf("UnsetClip() left %v", got)
	}
}

func TestPixelOutsideClipIgnored(t *testing.T) {
	drv := newPixelDriver(10, 10)
	d, _ := New(drv, nil)
	for _, p := range []image.Point{{-1, 0}, {0, -1}, {10, 0}, {0, 10}} {
		d.DrawPixel(p.X, p.Y, pixfmt.White)
	}
	if drv.writes != 0 {
		t.Errorf("%d writes for off screen pixels", drv.writes)
	}
}

func TestNoValidationPassesThrough(t *testing.T) {
	drv := newPixelDriver(10, 10)
	d, _ := New(drv, &Opts{NoValidation: true})
	d.SetClip(0, 0, 2, 2)
	d.DrawPixel(5, 5, pixfmt.White)
	if drv.at(5, 5) != pixfmt.White {
		t.Error("pixel outside clip dropped with validation disabled")
	}
}

func TestPowerTransitions(t *testing.T) {
	drv := newControlDriver(10, 10)
	d, err := New(drv, nil)
	if err != nil {
		t.Fatal(err)
	}

	d.SetPowerMode(PowerOn)
	if len(drv.controls) != 0 {
		t.Errorf("same mode reached the driver: %v", drv.controls)
	}

	d.SetPowerMode(PowerSleep)
	d.SetPowerMode(PowerOn)
	if drv.inits != 1 {
		t.Errorf("waking from sleep ran Init %d times", drv.inits-1)
	}
	if d.PowerMode() != PowerOn {
		t.Errorf("PowerMode() = %v", d.PowerMode())
	}

	d.SetPowerMode(PowerOff)
	d.SetPowerMode(PowerOn)
	if drv.inits != 2 {
		t.Errorf("waking from off ran Init %d times, want once", drv.inits-1)
	}
	if d.PowerMode() != PowerOn {
		t.Errorf("PowerMode() = %v after wake", d.PowerMode())
	}

	drv.refuse[ControlPower] = true
	d.SetPowerMode(PowerDeepSleep)
	if d.PowerMode() != PowerOn {
		t.Error("refused power change was recorded")
	}
}

func TestReinitFailureDisablesDisplay(t *testing.T) {
	drv := newControlDriver(10, 10)
	d, _ := New(drv, nil)
	d.SetPowerMode(PowerOff)
	drv.initErr = errBoom
	d.SetPowerMode(PowerOn)

	if err := d.Err(); !errors.Is(err, ErrInit) {
		t.Fatalf("Err() = %v, want ErrInit", err)
	}
	writes := drv.writes
	d.FillArea(0, 0, 5, 5, pixfmt.White)
	if drv.writes != writes {
		t.Error("drawing continued after a failed re-init")
	}
}

func TestOrientationResetsClip(t *testing.T) {
	drv := newControlDriver(40, 20)
	d, _ := New(drv, nil)
	d.SetClip(1, 2, 3, 4)
	d.SetOrientation(Rotate90)

	if d.Width() != 20 || d.Height() != 40 {
		t.Errorf("size = %dx%d, want 20x40", d.Width(), d.Height())
	}
	if got := d.Clip(); got != image.Rect(0, 0, 20, 40) {
		t.Errorf("clip = %v, want full rotated screen", got)
	}

	d.SetClip(1, 2, 3, 4)
	d.SetOrientation(Rotate270)
	if d.Width() != 20 || d.Height() != 40 {
		t.Errorf("90 to 270 swapped again: %dx%d", d.Width(), d.Height())
	}
	if got := d.Clip(); got != image.Rect(0, 0, 20, 40) {
		t.Errorf("clip = %v after second rotation", got)
	}

	d.SetOrientation(Orientation(45))
	if d.Orientation() != Rotate270 {
		t.Error("invalid orientation applied")
	}
}

func TestOrientationWithoutController(t *testing.T) {
	d, _ := New(newPixelDriver(40, 20), nil)
	d.SetOrientation(Rotate90)
	if d.Orientation() != Rotate0 || d.Width() != 40 {
		t.Error("orientation changed without driver support")
	}
}

func TestLevelsAreClamped(t *testing.T) {
	d, _ := New(newControlDriver(10, 10), nil)
	d.SetBacklight(150)
	d.SetContrast(-20)
	if d.Backlight() != 100 || d.Contrast() != 0 {
		t.Errorf("levels = %d/%d, want 100/0", d.Backlight(), d.Contrast())
	}
}

func TestQuery(t *testing.T) {
	d, _ := New(newControlDriver(12, 34), nil)
	tests := []struct {
		what   QueryCode
		want   int
		wantOK bool
	}{
		{QueryWidth, 12, true},
		{QueryHeight, 34, true},
		{QueryPower, int(PowerOn), true},
		{QueryBacklight, 100, true},
		{QueryLLD + 1, 42, true},
		{QueryLLD + 2, 0, false},
	}
	for _, tt := range tests {
		got, ok := d.Query(tt.what)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Query(%d) = %d, %v, want %d, %v", tt.what, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestScrollZeroLinesIsNoop(t *testing.T) {
	drv := newControlDriver(10, 10)
	d, _ := New(drv, nil)
	d.FillArea(0, 0, 10, 10, pixfmt.Green)
	writes := drv.writes
	d.VerticalScroll(0, 0, 10, 10, 0, pixfmt.Red)
	if drv.writes != writes {
		t.Errorf("zero line scroll wrote %d pixels", drv.writes-writes)
	}
}

func TestScrollWithoutReadClearsArea(t *testing.T) {
	drv := newPixelDriver(10, 10)
	d, _ := New(drv, nil)
	d.FillArea(0, 0, 10, 10, pixfmt.Green)
	d.VerticalScroll(2, 2, 4, 4, 1, pixfmt.Red)
	for y := 2; y < 6; y++ {
		for x := 2; x < 6; x++ {
			if drv.at(x, y) != pixfmt.Red {
				t.Fatalf("(%d, %d) = %v, want degraded fill", x, y, drv.at(x, y))
			}
		}
	}
	if drv.at(1, 1) != pixfmt.Green {
		t.Error("degraded scroll leaked outside its area")
	}
}

func TestEmulatedScroll(t *testing.T) {
	drv := newControlDriver(4, 6)
	d, _ := New(drv, nil)
	for y := 0; y < 6; y++ {
		d.FillArea(0, y, 4, 1, pixfmt.Color(y+1))
	}
	d.VerticalScroll(0, 0, 4, 6, 2, pixfmt.Black)
	want := []pixfmt.Color{3, 4, 5, 6, pixfmt.Black, pixfmt.Black}
	for y, c := range want {
		if got := drv.at(2, y); got != c {
			t.Errorf("after up scroll row %d = %v, want %v", y, got, c)
		}
	}

	d.VerticalScroll(0, 0, 4, 6, -1, pixfmt.White)
	want = []pixfmt.Color{pixfmt.White, 3, 4, 5, 6, pixfmt.Black}
	for y, c := range want {
		if got := drv.at(1, y); got != c {
			t.Errorf("after down scroll row %d = %v, want %v", y, got, c)
		}
	}
}

func TestBlitClipsSource(t *testing.T) {
	drv := newPixelDriver(10, 10)
	d, _ := New(drv, nil)
	buf, err := d.NewBuffer(4, 4)
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			buf.SetColor(x, y, pixfmt.RGB(uint8(x*10), uint8(y*10), 0))
		}
	}
	d.BlitArea(-2, -1, 4, 4, buf)
	// The visible part starts at source (2, 1).
	if got, want := drv.at(0, 0), pixfmt.RGB(20, 10, 0); got != want {
		t.Errorf("(0, 0) = %v, want %v", got, want)
	}
	if got, want := drv.at(1, 2), pixfmt.RGB(30, 30, 0); got != want {
		t.Errorf("(1, 2) = %v, want %v", got, want)
	}
	if drv.count() != 6 {
		t.Errorf("blit wrote %d pixels, want 6", drv.count())
	}

	d.BlitAreaEx(5, 5, 10, 10, 3, 3, buf)
	if drv.count() != 7 {
		t.Errorf("blit read past its source: %d pixels", drv.count())
	}
}

func TestDrawCharEmulated(t *testing.T) {
	f, err := font.Open("Fixed7x13")
	if err != nil {
		t.Fatal(err)
	}
	drv := newPixelDriver(40, 20)
	d, _ := New(drv, nil)

	want := 0
	f.Render('A', func(x, y, count int, alpha uint8) { want += count })
	d.DrawChar(2, 3, 'A', f, pixfmt.White)
	if drv.count() != want {
		t.Errorf("DrawChar wrote %d pixels, want %d", drv.count(), want)
	}
	if drv.outside != 0 {
		t.Errorf("%d pixels off screen", drv.outside)
	}
}

func TestFillStringBoxStaysInBox(t *testing.T) {
	f, err := font.Open("Fixed7x13")
	if err != nil {
		t.Fatal(err)
	}
	drv := newPixelDriver(100, 40)
	d, _ := New(drv, nil)
	box := image.Rect(10, 10, 40, 25)
	d.FillStringBox(box.Min.X, box.Min.Y, box.Dx(), box.Dy(), "overflowing text", f, pixfmt.White, pixfmt.Blue, JustifyCenter)

	drv.mu.Lock()
	defer drv.mu.Unlock()
	white := 0
	for p, c := range drv.pix {
		if !p.In(box) {
			t.Fatalf("pixel %v outside box", p)
		}
		if c == pixfmt.White {
			white++
		}
	}
	if len(drv.pix) != box.Dx()*box.Dy() {
		t.Errorf("box has %d pixels painted, want %d", len(drv.pix), box.Dx()*box.Dy())
	}
	if white == 0 {
		t.Error("no text pixels in box")
	}
}

func TestParseEnums(t *testing.T) {
	if th, err := ParseThreading("Async"); err != nil || th != ThreadingAsync {
		t.Errorf("ParseThreading(Async) = %v, %v", th, err)
	}
	if _, err := ParseThreading("parallel"); err == nil {
		t.Error("ParseThreading(parallel) succeeded")
	}
	if j, err := ParseJustify("right"); err != nil || j != JustifyRight {
		t.Errorf("ParseJustify(right) = %v, %v", j, err)
	}
}
