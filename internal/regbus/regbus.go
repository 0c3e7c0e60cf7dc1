// Package regbus talks to display controllers that expose 16-bit indexed
// registers over a serial link with a data/command pin. A register access
// is an index write with DC low followed by data words with DC high, all
// sent most significant byte first.
package regbus

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// ErrNoPin is returned when an operation needs a pin that was not wired.
var ErrNoPin = errors.New("regbus: pin not connected")

// defaultChunk bounds a single transfer when the connection reports no
// limit. It matches the default spidev buffer size.
const defaultChunk = 4096

// PWMFrequency is the backlight PWM frequency.
const PWMFrequency = 1 * physic.KiloHertz

// Reg is one step of an initialisation sequence.
type Reg struct {
	Index uint16
	Value uint16
	Delay time.Duration // Wait after the write
}

// Bus is a register interface bound to a connection and its pins.
type Bus struct {
	c     conn.Conn
	dc    gpio.PinOut
	rst   gpio.PinOut // optional
	bl    gpio.PinOut // optional
	chunk int
	buf   []byte
	sleep func(time.Duration)
}

// New returns a bus on c. dc is required; rst and bl can be nil.
func New(c conn.Conn, dc, rst, bl gpio.PinOut) (*Bus, error) {
	if c == nil {
		return nil, errors.New("regbus: nil connection")
	}
	if dc == nil {
		return nil, fmt.Errorf("%w: dc", ErrNoPin)
	}
	chunk := defaultChunk
	if l, ok := c.(conn.Limits); ok && l.MaxTxSize() > 0 {
		chunk = l.MaxTxSize()
	}
	chunk &^= 1 // whole words only
	return &Bus{
		c:     c,
		dc:    dc,
		rst:   rst,
		bl:    bl,
		chunk: chunk,
		buf:   make([]byte, chunk),
		sleep: time.Sleep,
	}, nil
}

func (b *Bus) String() string {
	return fmt.Sprintf("regbus{%s}", b.c)
}

// Reset pulses the reset pin low. It does nothing when no reset pin is
// wired.
func (b *Bus) Reset() error {
	if b.rst == nil {
		return nil
	}
	if err := b.rst.Out(gpio.Low); err != nil {
		return fmt.Errorf("regbus: failed to pull RST low: %w", err)
	}
	b.sleep(20 * time.Millisecond)
	if err := b.rst.Out(gpio.High); err != nil {
		return fmt.Errorf("regbus: failed to pull RST high: %w", err)
	}
	b.sleep(50 * time.Millisecond)
	return nil
}

// WriteIndex selects the register the following data goes to.
func (b *Bus) WriteIndex(reg uint16) error {
	if err := b.dc.Out(gpio.Low); err != nil {
		return err
	}
	var w [2]byte
	binary.BigEndian.PutUint16(w[:], reg)
	return b.c.Tx(w[:], nil)
}

// WriteData sends words to the selected register.
func (b *Bus) WriteData(words ...uint16) error {
	data := make([]byte, 2*len(words))
	for i, v := range words {
		binary.BigEndian.PutUint16(data[2*i:], v)
	}
	return b.WriteStream(data)
}

// WriteReg sets one register.
func (b *Bus) WriteReg(reg, v uint16) error {
	if err := b.WriteIndex(reg); err != nil {
		return err
	}
	return b.WriteData(v)
}

// WriteRegs runs a register sequence, stopping at the first failure.
func (b *Bus) WriteRegs(regs []Reg) error {
	for _, r := range regs {
		if err := b.WriteReg(r.Index, r.Value); err != nil {
			return fmt.Errorf("regbus: register 0x%02X: %w", r.Index, err)
		}
		if r.Delay > 0 {
			b.sleep(r.Delay)
		}
	}
	return nil
}

// WriteStream sends raw data bytes, split into transfers the connection
// accepts.
func (b *Bus) WriteStream(data []byte) error {
	if err := b.dc.Out(gpio.High); err != nil {
		return err
	}
	for len(data) > 0 {
		n := min(len(data), b.chunk)
		if err := b.c.Tx(data[:n], nil); err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}

// Fill sends the word v n times.
func (b *Bus) Fill(v uint16, n int) error {
	if err := b.dc.Out(gpio.High); err != nil {
		return err
	}
	words := min(n, len(b.buf)/2)
	for i := 0; i < words; i++ {
		binary.BigEndian.PutUint16(b.buf[2*i:], v)
	}
	for n > 0 {
		k := min(n, words)
		if err := b.c.Tx(b.buf[:2*k], nil); err != nil {
			return err
		}
		n -= k
	}
	return nil
}

// ReadStream reads n words from the selected register.
func (b *Bus) ReadStream(n int) ([]uint16, error) {
	if err := b.dc.Out(gpio.High); err != nil {
		return nil, err
	}
	w := make([]byte, 2*n)
	r := make([]byte, 2*n)
	if err := b.c.Tx(w, r); err != nil {
		return nil, err
	}
	out := make([]uint16, n)
	for i := range out {
		out[i] = binary.BigEndian.Uint16(r[2*i:])
	}
	return out, nil
}

// Backlight sets the backlight to percent of full brightness. Pins
// without PWM fall back to on/off.
func (b *Bus) Backlight(percent int) error {
	if b.bl == nil {
		return ErrNoPin
	}
	percent = min(max(percent, 0), 100)
	duty := gpio.DutyMax * gpio.Duty(percent) / 100
	if err := b.bl.PWM(duty, PWMFrequency); err == nil {
		return nil
	}
	return b.bl.Out(percent > 0)
}

// HasBacklight reports whether a backlight pin is wired.
func (b *Bus) HasBacklight() bool { return b.bl != nil }
