// Package gdisp draws on small display panels through pluggable drivers.
//
// A driver only has to initialise the controller and set single pixels.
// Everything else (fills, lines, circles, ellipses, arcs, text, blits,
// scrolling) is emulated on top of those primitives unless the driver
// implements the matching optional interface, in which case the call is
// forwarded to it after clipping.
//
// # Display Model
//
// - Coordinates are logical: (0, 0) is the top left corner in the current
// orientation, x grows to the right and y grows downwards
// - Every drawing call is clipped to the clip rectangle (SetClip), which
// never extends past the screen
// - Colors are 24-bit RGB values quantized by the driver to its native
// pixel format (see package pixfmt)
// - Drawing calls never fail; a driver that loses a bus write latches the
// error and reports it through its own Err method
//
// # Drivers
//
// The drivers in this module cover:
//
//	drivers/memfb      In-memory framebuffer, every capability, call counters
//	drivers/ebitensim  memfb shown in a desktop window
//	drivers/ssd1289    SSD1289 240×320 TFT over SPI, pixel read back
//	drivers/s6d1121    S6D1121 240×320 TFT over SPI, write only
//
// # Basic Usage
//
//	package main
//
//	import (
//		"github.com/flavioheleno/gdisp"
//		"github.com/flavioheleno/gdisp/drivers/ssd1289"
//		"github.com/flavioheleno/gdisp/font"
//		"github.com/flavioheleno/gdisp/pixfmt"
//		"periph.io/x/conn/v3/gpio/gpioreg"
//		"periph.io/x/conn/v3/spi/spireg"
//		"periph.io/x/host/v3"
//	)
//
//	func main() {
//		// Initialize periph.io
//		host.Init()
//
//		// Open SPI bus
//		spiBus, _ := spireg.Open("")
//
//		// Create the driver
//		drv, _ := ssd1289.NewSPI(spiBus, gpioreg.ByName("GPIO25"), nil)
//
//		// Bring the panel up
//		d, _ := gdisp.New(drv, nil)
//		defer d.Close()
//
//		f, _ := font.Open("GoRegular16")
//		d.Clear(pixfmt.Black)
//		d.FillCircle(120, 160, 50, pixfmt.Red)
//		d.DrawStringBox(0, 0, d.Width(), 40, "Hello", f, pixfmt.White, gdisp.JustifyCenter)
//	}
//
// # Concurrency
//
// Opts.Threading selects how a Display may be shared:
//
//	ThreadingNone   No locking; one goroutine at a time
//	ThreadingSync   Every call holds a mutex for its whole duration
//	ThreadingAsync  Drawing calls are queued to a worker goroutine and
//	                return immediately; queries still answer synchronously
//
// In async mode the queue holds Opts.QueueDepth requests. A full queue
// blocks the caller, or drops the request after Opts.SubmitTimeout. Flush
// waits until everything queued so far has reached the driver.
//
// # Power and Orientation
//
// SetPowerMode, SetOrientation, SetBacklight and SetContrast are applied
// only when the driver accepts them. Leaving PowerOff re-runs the driver
// initialisation and restores the orientation and levels set before. If
// that fails the display stops drawing and Err returns the cause.
//
// Changing the orientation swaps Width and Height when needed and resets
// the clip to the whole screen.
//
// # Logging
//
// The package is silent by default. Install a *slog.Logger with SetLogger
// to see initialisation, capability resolution, power changes, dropped
// requests and degraded operations.
//
// # Compatibility with periph.io
//
// NewSurface adapts a Display to the display.Drawer interface from
// periph.io, so any tool expecting a display.Drawer can draw on a gdisp
// driver.
package gdisp
