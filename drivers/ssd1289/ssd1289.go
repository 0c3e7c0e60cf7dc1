// Package ssd1289 controls a SSD1289 TFT LCD controller over SPI.
//
// The SSD1289 drives 240x320 RGB565 panels. Pixels are written through a
// GRAM window and can be read back, so the driver accelerates clear, fill
// and blit, and serves pixel reads for anti-aliased text and scrolling.
//
// Rotation is handled by mapping coordinates; the GRAM scan direction is
// never changed.
package ssd1289

import (
	"errors"
	"fmt"
	"image"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"

	"github.com/flavioheleno/gdisp"
	"github.com/flavioheleno/gdisp/internal/panel"
	"github.com/flavioheleno/gdisp/internal/regbus"
)

// Registers.
const (
	regOscillator   = 0x00
	regDriverOutput = 0x01
	regDriveAC      = 0x02
	regPower1       = 0x03
	regDisplay      = 0x07
	regPower2       = 0x0C
	regPower3       = 0x0D
	regPower4       = 0x0E
	regSleep        = 0x10
	regEntry        = 0x11
	regPower5       = 0x1E
	regHWindow      = 0x44 // end<<8 | start
	regVWindowStart = 0x45
	regVWindowEnd   = 0x46
	regCursorX      = 0x4E
	regCursorY      = 0x4F
	regRAM          = 0x22
)

// DefaultSpeed is the SPI clock used when Opts leaves it zero.
const DefaultSpeed = 16 * physic.MegaHertz

// Opts is the configuration for the SSD1289 display.
type Opts struct {
	W, H int // Native size (default: 240x320, W must be ≤256)

	RST gpio.PinOut // Reset pin (optional)
	BL  gpio.PinOut // Backlight pin, PWM capable for dimming (optional)

	Speed physic.Frequency // SPI clock (default: 16MHz)
}

// Dev is the device handle for the SSD1289 display. It implements
// gdisp.Driver.
type Dev struct {
	*panel.Dev
	w, h int
}

// NewSPI connects to a SSD1289 on an SPI port. The dc (Data/Command) pin
// must be an output.
//
// opts can be nil to use defaults (240x320 panel).
func NewSPI(p spi.Port, dc gpio.PinOut, opts *Opts) (*Dev, error) {
	o, err := validate(opts)
	if err != nil {
		return nil, err
	}
	c, err := p.Connect(o.Speed, spi.Mode3, 8)
	if err != nil {
		return nil, fmt.Errorf("ssd1289: %w", err)
	}
	return New(c, dc, &o)
}

// New binds a SSD1289 to an established connection. The controller is
// initialised by the first Init, normally from gdisp.New.
func New(c conn.Conn, dc gpio.PinOut, opts *Opts) (*Dev, error) {
	o, err := validate(opts)
	if err != nil {
		return nil, err
	}
	bus, err := regbus.New(c, dc, o.RST, o.BL)
	if err != nil {
		return nil, fmt.Errorf("ssd1289: %w", err)
	}
	return &Dev{Dev: panel.New(model(o.W, o.H), bus), w: o.W, h: o.H}, nil
}

func validate(opts *Opts) (Opts, error) {
	var o Opts
	if opts != nil {
		o = *opts
	}
	if o.W == 0 {
		o.W = 240
	}
	if o.H == 0 {
		o.H = 320
	}
	if o.Speed == 0 {
		o.Speed = DefaultSpeed
	}
	if o.W <= 0 || o.W > 256 {
		return o, errors.New("ssd1289: width must be between 1 and 256")
	}
	if o.H <= 0 || o.H > 320 {
		return o, errors.New("ssd1289: height must be between 1 and 320")
	}
	return o, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("ssd1289.Dev{%dx%d}", d.w, d.h)
}

func model(w, h int) *panel.Model {
	return &panel.Model{
		Name:      "ssd1289",
		Width:     w,
		Height:    h,
		Init:      initSequence(h),
		Window:    window,
		RAM:       regRAM,
		Power:     power,
		ReadDummy: 1,
	}
}

func initSequence(h int) []regbus.Reg {
	return []regbus.Reg{
		{Index: regOscillator, Value: 0x0001, Delay: 15 * time.Millisecond},
		{Index: regPower1, Value: 0xA8A4},
		{Index: regPower2, Value: 0x0000},
		{Index: regPower3, Value: 0x080C},
		{Index: regPower4, Value: 0x2B00},
		{Index: regPower5, Value: 0x00B7},
		{Index: regDriverOutput, Value: 0x2B00 | uint16(h-1)}, // RL, REV, BGR, TB, MUX
		{Index: regDriveAC, Value: 0x0600},
		{Index: regSleep, Value: 0x0000, Delay: 30 * time.Millisecond},
		{Index: regEntry, Value: 0x6070}, // 65k colors, increment x then y
		{Index: 0x05, Value: 0x0000},
		{Index: 0x06, Value: 0x0000},
		{Index: 0x16, Value: 0xEF1C},
		{Index: 0x17, Value: 0x0003},
		{Index: regDisplay, Value: 0x0233},
		{Index: 0x0B, Value: 0x0000},
		{Index: 0x0F, Value: 0x0000},
		{Index: 0x41, Value: 0x0000},
		{Index: 0x42, Value: 0x0000},
		{Index: 0x48, Value: 0x0000},
		{Index: 0x49, Value: 0x013F},
		{Index: 0x4A, Value: 0x0000},
		{Index: 0x4B, Value: 0x0000},
		// Gamma
		{Index: 0x30, Value: 0x0707},
		{Index: 0x31, Value: 0x0204},
		{Index: 0x32, Value: 0x0204},
		{Index: 0x33, Value: 0x0502},
		{Index: 0x34, Value: 0x0507},
		{Index: 0x35, Value: 0x0204},
		{Index: 0x36, Value: 0x0204},
		{Index: 0x37, Value: 0x0502},
		{Index: 0x3A, Value: 0x0302},
		{Index: 0x3B, Value: 0x0302},
		{Index: 0x23, Value: 0x0000},
		{Index: 0x24, Value: 0x0000},
		{Index: 0x25, Value: 0x8000},
	}
}

func window(r image.Rectangle) []regbus.Reg {
	return []regbus.Reg{
		{Index: regHWindow, Value: uint16(r.Max.X-1)<<8 | uint16(r.Min.X)},
		{Index: regVWindowStart, Value: uint16(r.Min.Y)},
		{Index: regVWindowEnd, Value: uint16(r.Max.Y - 1)},
		{Index: regCursorX, Value: uint16(r.Min.X)},
		{Index: regCursorY, Value: uint16(r.Min.Y)},
	}
}

var power = map[gdisp.PowerMode][]regbus.Reg{
	gdisp.PowerOff: {
		{Index: regDisplay, Value: 0x0000},
		{Index: regSleep, Value: 0x0001},
		{Index: regOscillator, Value: 0x0000},
	},
	gdisp.PowerDeepSleep: {
		{Index: regDisplay, Value: 0x0000},
		{Index: regSleep, Value: 0x0001},
	},
	gdisp.PowerSleep: {
		{Index: regSleep, Value: 0x0001},
	},
	gdisp.PowerOn: {
		{Index: regSleep, Value: 0x0000, Delay: 30 * time.Millisecond},
		{Index: regDisplay, Value: 0x0233},
	},
}
