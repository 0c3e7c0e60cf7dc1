package gdisp

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/flavioheleno/gdisp/pixfmt"
)

var (
	// ErrInit wraps the error returned by a driver's Init.
	ErrInit = errors.New("gdisp: driver initialisation failed")

	// ErrClosed is returned by Close when the display was already closed.
	ErrClosed = errors.New("gdisp: display closed")

	// ErrInvalidSize is returned when a driver reports an unusable size.
	ErrInvalidSize = errors.New("gdisp: invalid display size")
)

// maxDim is the largest width or height accepted, the range of the 16-bit
// coordinates most controllers use.
const maxDim = math.MaxInt16

// Threading selects how a Display serialises access to its driver.
type Threading int

const (
	// ThreadingNone performs no locking. The caller must use the display
	// from a single goroutine.
	ThreadingNone Threading = iota

	// ThreadingSync guards every operation with a mutex. Drawing calls
	// return once the driver is done.
	ThreadingSync

	// ThreadingAsync queues drawing calls to a worker goroutine. They
	// return as soon as the request is queued.
	ThreadingAsync
)

var threadingNames = [...]string{"none", "sync", "async"}

func (t Threading) String() string {
	if t >= ThreadingNone && t <= ThreadingAsync {
		return threadingNames[t]
	}
	return fmt.Sprintf("Threading(%d)", int(t))
}

// ParseThreading parses the name returned by String.
func ParseThreading(s string) (Threading, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range threadingNames {
		if name == s {
			return Threading(i), nil
		}
	}
	return 0, fmt.Errorf("gdisp: unknown threading mode %q", s)
}

// Opts is the configuration of a Display.
type Opts struct {
	Name      string // Used in log records (default: driver String or "gdisp")
	Threading Threading

	// Async only.
	QueueDepth    int           // Queued requests before callers block (default: 8)
	SubmitTimeout time.Duration // Give up queueing after this long, dropping the request (default: wait forever)

	// NoValidation skips clipping. Callers promise every coordinate is on
	// screen; out of range requests reach the driver untouched.
	NoValidation bool

	// Disable masks driver capabilities, forcing emulation of them.
	Disable Capability
}

// DefaultQueueDepth is the async queue depth used when Opts leaves it zero.
const DefaultQueueDepth = 8

// Display is a drawing surface bound to one driver.
//
// Every drawing call is clipped to the current clip rectangle and routed to
// the driver's accelerated implementation when it has one, or emulated from
// the primitives it does have.
type Display struct {
	drv  Driver
	opts Opts
	ops  ops
	caps Capability

	mu     sync.Mutex // guards everything below when Threading is not none
	st     State
	err    error
	rowBuf []Color

	closed atomic.Bool
	q      *queue
}

// New initialises drv and returns a display drawing on it.
//
// opts can be nil to use defaults (no locking).
func New(drv Driver, opts *Opts) (*Display, error) {
	if drv == nil {
		return nil, errors.New("gdisp: nil driver")
	}
	if opts == nil {
		opts = &Opts{}
	}
	o := *opts
	if o.Threading < ThreadingNone || o.Threading > ThreadingAsync {
		return nil, fmt.Errorf("gdisp: invalid threading mode %d", int(o.Threading))
	}
	if o.QueueDepth <= 0 {
		o.QueueDepth = DefaultQueueDepth
	}
	if o.SubmitTimeout < 0 {
		o.SubmitTimeout = 0
	}
	if o.Name == "" {
		o.Name = "gdisp"
		if s, ok := drv.(fmt.Stringer); ok {
			o.Name = s.String()
		}
	}

	d := &Display{drv: drv, opts: o}
	d.ops, d.caps = resolve(drv, HardwareAll&^o.Disable)
	if err := d.init(); err != nil {
		d.logger().Error("init failed", "err", err)
		return nil, err
	}
	if o.Threading == ThreadingAsync {
		d.q = newQueue(d, o.QueueDepth, o.SubmitTimeout)
	}
	d.logger().Info("display ready",
		"width", d.st.Width, "height", d.st.Height,
		"format", d.st.Format, "threading", o.Threading)
	d.logger().Debug("driver capabilities", "caps", d.caps)
	return d, nil
}

// init runs the driver's Init and adopts the state it reports.
func (d *Display) init() error {
	st := State{
		Orientation: Rotate0,
		Power:       PowerOn,
		Backlight:   100,
		Contrast:    50,
	}
	if err := d.drv.Init(&st); err != nil {
		return fmt.Errorf("%w: %w", ErrInit, err)
	}
	if st.Width <= 0 || st.Height <= 0 || st.Width > maxDim || st.Height > maxDim {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, st.Width, st.Height)
	}
	if !st.Orientation.Valid() {
		st.Orientation = Rotate0
	}
	if !st.Power.Valid() {
		st.Power = PowerOn
	}
	st.Backlight = clampPercent(st.Backlight)
	st.Contrast = clampPercent(st.Contrast)
	st.Clip = image.Rect(0, 0, st.Width, st.Height)
	d.st = st
	if d.ops.clip != nil {
		d.ops.clip(st.Clip)
	}
	return nil
}

// Close drains pending requests, stops the async worker and halts the
// driver when it supports that. Drawing calls made afterwards are ignored.
func (d *Display) Close() error {
	if !d.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	if d.q != nil {
		d.q.close()
	}
	d.logger().Info("display closed")
	if h, ok := d.drv.(interface{ Halt() error }); ok {
		d.lock()
		defer d.unlock()
		return h.Halt()
	}
	return nil
}

// Err returns the error latched by a failed re-initialisation, after which
// drawing calls are ignored.
func (d *Display) Err() error {
	d.lock()
	defer d.unlock()
	return d.err
}

// logger returns the package logger tagged with the display name.
func (d *Display) logger() *slog.Logger {
	return Logger().With("display", d.opts.Name)
}

func (d *Display) lock() {
	if d.opts.Threading != ThreadingNone {
		d.mu.Lock()
	}
}

func (d *Display) unlock() {
	if d.opts.Threading != ThreadingNone {
		d.mu.Unlock()
	}
}

// Driver returns the driver the display draws on.
func (d *Display) Driver() Driver { return d.drv }

// Capabilities returns the accelerated operations in use.
func (d *Display) Capabilities() Capability { return d.caps }

// State returns a snapshot of the display state. In async mode it reflects
// the requests executed so far; call Flush first to include queued ones.
func (d *Display) State() State {
	d.lock()
	defer d.unlock()
	return d.st
}

// Width returns the logical width for the current orientation.
func (d *Display) Width() int {
	d.lock()
	defer d.unlock()
	return d.st.Width
}

// Height returns the logical height for the current orientation.
func (d *Display) Height() int {
	d.lock()
	defer d.unlock()
	return d.st.Height
}

// Bounds returns the full logical screen.
func (d *Display) Bounds() image.Rectangle {
	d.lock()
	defer d.unlock()
	return d.screen()
}

// Clip returns the current clip rectangle.
func (d *Display) Clip() image.Rectangle {
	d.lock()
	defer d.unlock()
	return d.st.Clip
}

// Format returns the driver's native pixel format.
func (d *Display) Format() pixfmt.Format {
	d.lock()
	defer d.unlock()
	return d.st.Format
}

// Orientation returns the current orientation.
func (d *Display) Orientation() Orientation {
	d.lock()
	defer d.unlock()
	return d.st.Orientation
}

// PowerMode returns the current power mode.
func (d *Display) PowerMode() PowerMode {
	d.lock()
	defer d.unlock()
	return d.st.Power
}

// Backlight returns the backlight level in percent.
func (d *Display) Backlight() int {
	d.lock()
	defer d.unlock()
	return d.st.Backlight
}

// Contrast returns the contrast level in percent.
func (d *Display) Contrast() int {
	d.lock()
	defer d.unlock()
	return d.st.Contrast
}

// NewBuffer returns a blit source of cx by cy pixels in the display's
// native format.
func (d *Display) NewBuffer(cx, cy int) (*pixfmt.Buffer, error) {
	return pixfmt.NewBuffer(d.Format(), image.Rect(0, 0, cx, cy))
}

// Query returns a property of the display. Core codes are answered from
// the display state; codes from QueryLLD upwards are forwarded to the
// driver. The boolean is false when nobody knows the answer. Like
// GetPixelColor it bypasses the async queue.
func (d *Display) Query(what QueryCode) (int, bool) {
	d.lock()
	defer d.unlock()
	switch what {
	case QueryWidth:
		return d.st.Width, true
	case QueryHeight:
		return d.st.Height, true
	case QueryPower:
		return int(d.st.Power), true
	case QueryOrientation:
		return int(d.st.Orientation), true
	case QueryBacklight:
		return d.st.Backlight, true
	case QueryContrast:
		return d.st.Contrast, true
	}
	if d.ops.query == nil {
		return 0, false
	}
	return d.ops.query(what)
}

// control applies a control request to the state and the driver.
func (d *Display) control(what ControlCode, value int) {
	switch what {
	case ControlPower:
		mode := PowerMode(value)
		if !mode.Valid() || mode == d.st.Power {
			return
		}
		if mode == PowerOn && d.st.Power == PowerOff {
			d.powerUp()
			return
		}
		if d.ops.control == nil || !d.ops.control(what, value) {
			return
		}
		d.logger().Info("power mode changed", "from", d.st.Power, "to", mode)
		d.st.Power = mode

	case ControlOrientation:
		o := Orientation(value)
		if !o.Valid() || o == d.st.Orientation {
			return
		}
		if d.ops.control == nil || !d.ops.control(what, value) {
			return
		}
		if o.Swaps() != d.st.Orientation.Swaps() {
			d.st.Width, d.st.Height = d.st.Height, d.st.Width
		}
		d.st.Orientation = o
		d.setClip(d.screen())

	case ControlBacklight, ControlContrast:
		value = clampPercent(value)
		if d.ops.control == nil || !d.ops.control(what, value) {
			return
		}
		if what == ControlBacklight {
			d.st.Backlight = value
		} else {
			d.st.Contrast = value
		}

	default:
		if d.ops.control != nil {
			d.ops.control(what, value)
		}
	}
}

// powerUp leaves PowerOff by re-running the driver's initialisation, then
// restores the orientation and levels the caller had set.
func (d *Display) powerUp() {
	prev := d.st
	if err := d.init(); err != nil {
		d.err = err
		d.logger().Error("re-init failed, display disabled", "err", err)
		return
	}
	d.logger().Info("power mode changed", "from", PowerOff, "to", PowerOn)
	if prev.Orientation != d.st.Orientation {
		d.control(ControlOrientation, int(prev.Orientation))
	}
	if prev.Backlight != d.st.Backlight {
		d.control(ControlBacklight, prev.Backlight)
	}
	if prev.Contrast != d.st.Contrast {
		d.control(ControlContrast, prev.Contrast)
	}
}

func clampPercent(v int) int {
	return min(max(v, 0), 100)
}
