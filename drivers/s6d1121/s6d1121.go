// Package s6d1121 controls a Samsung S6D1121 TFT LCD controller over SPI.
//
// The S6D1121 drives 240x320 RGB565 panels through a GRAM window. GRAM is
// write only on the serial interface, so pixel reads are left to the
// core, which degrades scrolling and blends text against the fill color.
package s6d1121

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

const (
	regDriverOutput = 0x01
	regDisplay      = 0x07
	regSleep        = 0x10
	regPower1       = 0x11
	regPower2       = 0x12
	regPower3       = 0x13
	regPower4       = 0x14
	regPower5       = 0x15
	regCursorX      = 0x20
	regCursorY      = 0x21
	regRAM          = 0x22
	regHWindow      = 0x46 // end<<8 | start
	regVWindowEnd   = 0x47
	regVWindowStart = 0x48
)

// DefaultSpeed is the SPI clock used when Opts leaves it zero.
const DefaultSpeed = 10 * physic.MegaHertz

// Opts is the configuration for the S6D1121 display.
type Opts struct {
	W, H int // Native size (default: 240x320, W must be ≤256)

	RST gpio.PinOut // Reset pin (optional)
	BL  gpio.PinOut // Backlight pin (optional)

	Speed physic.Frequency // SPI clock (default: 10MHz)
}

// Dev is the device handle for the S6D1121 display.
type Dev struct {
	*panel.Dev
	w, h int
}

// NewSPI connects to a S6D1121 on an SPI port.
//
// opts can be nil to use defaults (240x320 panel).
func NewSPI(p spi.Port, dc gpio.PinOut, opts *Opts) (*Dev, error) {
	o, err := validate(opts)
	if err != nil {
		return nil, err
	}
	c, err := p.Connect(o.Speed, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("s6d1121: %w", err)
	}
	return New(c, dc, &o)
}

// New binds a S6D1121 to an established connection.
func New(c conn.Conn, dc gpio.PinOut, opts *Opts) (*Dev, error) {
	o, err := validate(opts)
	if err != nil {
		return nil, err
	}
	bus, err := regbus.New(c, dc, o.RST, o.BL)
	if err != nil {
		return nil, fmt.Errorf("s6d1121: %w", err)
	}
	m := &panel.Model{
		Name:      "s6d1121",
		Width:     o.W,
		Height:    o.H,
		Init:      initSequence,
		Window:    window,
		RAM:       regRAM,
		Power:     power,
		ReadDummy: -1,
	}
	return &Dev{Dev: panel.New(m, bus), w: o.W, h: o.H}, nil
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
	if o.W <= 0 || o.W > 256 || o.H <= 0 || o.H > 320 {
		return o, errors.New("s6d1121: size must be within 256x320")
	}
	return o, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("s6d1121.Dev{%dx%d}", d.w, d.h)
}

var initSequence = []regbus.Reg{
	{Index: regPower1, Value: 0x2004},
	{Index: regPower3, Value: 0xCC00},
	{Index: regPower5, Value: 0x2600},
	{Index: regPower4, Value: 0x252A},
	{Index: regPower2, Value: 0x0033},
	{Index: regPower3, Value: 0xCC04, Delay: time.Millisecond},
	{Index: regPower3, Value: 0xCC06, Delay: time.Millisecond},
	{Index: regPower3, Value: 0xCC4F, Delay: time.Millisecond},
	{Index: regPower3, Value: 0x674F},
	{Index: regPower1, Value: 0x2003, Delay: time.Millisecond},
	// Gamma
	{Index: 0x30, Value: 0x2609},
	{Index: 0x31, Value: 0x242C},
	{Index: 0x32, Value: 0x1F23},
	{Index: 0x33, Value: 0x2425},
	{Index: 0x34, Value: 0x2226},
	{Index: 0x35, Value: 0x2523},
	{Index: 0x36, Value: 0x1C1A},
	{Index: 0x37, Value: 0x131D},
	{Index: 0x38, Value: 0x0B11},
	{Index: 0x39, Value: 0x1210},
	{Index: 0x3A, Value: 0x1315},
	{Index: 0x3B, Value: 0x3619},
	{Index: 0x3C, Value: 0x0D00},
	{Index: 0x3D, Value: 0x000D},
	{Index: 0x16, Value: 0x0007},
	{Index: 0x02, Value: 0x0013},
	{Index: 0x03, Value: 0x0003}, // entry mode: increment x then y
	{Index: regDriverOutput, Value: 0x0127},
	{Index: 0x08, Value: 0x0303},
	{Index: 0x0A, Value: 0x000B},
	{Index: 0x0B, Value: 0x0003},
	{Index: 0x0C, Value: 0x0000},
	{Index: 0x41, Value: 0x0000},
	{Index: 0x50, Value: 0x0000},
	{Index: 0x60, Value: 0x0005},
	{Index: 0x70, Value: 0x000B},
	{Index: 0x71, Value: 0x0000},
	{Index: 0x78, Value: 0x0000},
	{Index: 0x7A, Value: 0x0000},
	{Index: 0x79, Value: 0x0007},
	{Index: regDisplay, Value: 0x0051, Delay: time.Millisecond},
	{Index: regDisplay, Value: 0x0053},
	{Index: 0x79, Value: 0x0000},
}

func window(r image.Rectangle) []regbus.Reg {
	return []regbus.Reg{
		{Index: regHWindow, Value: uint16(r.Max.X-1)<<8 | uint16(r.Min.X)},
		{Index: regVWindowEnd, Value: uint16(r.Max.Y - 1)},
		{Index: regVWindowStart, Value: uint16(r.Min.Y)},
		{Index: regCursorX, Value: uint16(r.Min.X)},
		{Index: regCursorY, Value: uint16(r.Min.Y)},
	}
}

var power = map[gdisp.PowerMode][]regbus.Reg{
	gdisp.PowerOff: {
		{Index: regDisplay, Value: 0x0000},
		{Index: regSleep, Value: 0x0001},
	},
	gdisp.PowerSleep: {
		{Index: regDisplay, Value: 0x0051, Delay: time.Millisecond},
		{Index: regSleep, Value: 0x0001},
	},
	gdisp.PowerOn: {
		{Index: regSleep, Value: 0x0000, Delay: 20 * time.Millisecond},
		{Index: regDisplay, Value: 0x0053},
	},
}
