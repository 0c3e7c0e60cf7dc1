// Package config loads a display description from YAML. A file names the
// driver and its wiring plus the gdisp options to create it with:
//
//	driver: ssd1289
//	width: 240
//	height: 320
//	orientation: 90
//	threading: async
//	queue_depth: 16
//	submit_timeout: 250ms
//	disable: [scroll]
//	spi:
//	  port: /dev/spidev0.0
//	  speed: 16MHz
//	pins:
//	  dc: GPIO25
//	  rst: GPIO24
//	  bl: GPIO18
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
	"periph.io/x/conn/v3/physic"

	"github.com/flavioheleno/gdisp"
	"github.com/flavioheleno/gdisp/pixfmt"
)

// ErrUnknownDriver is returned for driver names no package implements.
var ErrUnknownDriver = errors.New("config: unknown driver")

// Drivers lists the accepted driver names.
var Drivers = []string{"memfb", "ebitensim", "ssd1289", "s6d1121"}

// Config describes one display.
type Config struct {
	Driver        string        `yaml:"driver"`
	Name          string        `yaml:"name"`
	Width         int           `yaml:"width"`
	Height        int           `yaml:"height"`
	Format        string        `yaml:"format"`
	Orientation   int           `yaml:"orientation"`
	Threading     string        `yaml:"threading"`
	QueueDepth    int           `yaml:"queue_depth"`
	SubmitTimeout time.Duration `yaml:"submit_timeout"`
	NoValidation  bool          `yaml:"no_validation"`
	Disable       []string      `yaml:"disable"`
	Backlight     *int          `yaml:"backlight"`
	Contrast      *int          `yaml:"contrast"`
	Font          string        `yaml:"font"`
	Scale         int           `yaml:"scale"`
	SPI           SPI           `yaml:"spi"`
	Pins          Pins          `yaml:"pins"`
}

// SPI is the bus a hardware driver is attached to.
type SPI struct {
	Port  string `yaml:"port"`  // periph spireg name, empty for the first port
	Speed string `yaml:"speed"` // e.g. 16MHz, empty for the driver default
}

// Pins are periph gpioreg names. DC is required by the SPI drivers.
type Pins struct {
	DC  string `yaml:"dc"`
	RST string `yaml:"rst"`
	BL  string `yaml:"bl"`
}

// Size of the in-memory displays when the configuration leaves it out.
const (
	DefaultWidth  = 320
	DefaultHeight = 240
)

// Default returns the configuration used when no file is given: an
// in-memory display of DefaultWidth by DefaultHeight.
func Default() *Config {
	return &Config{
		Driver:    "memfb",
		Format:    "rgb565",
		Threading: "none",
		Font:      "Fixed7x13",
		Scale:     2,
	}
}

// Size returns the geometry to open the driver with. A zero dimension
// becomes DefaultWidth or DefaultHeight for memfb and ebitensim, and stays
// zero for the SPI drivers so they use their panel's native size.
func (c *Config) Size() (w, h int) {
	w, h = c.Width, c.Height
	switch c.Driver {
	case "memfb", "ebitensim":
		if w == 0 {
			w = DefaultWidth
		}
		if h == 0 {
			h = DefaultHeight
		}
	}
	return w, h
}

// Load reads and validates the YAML file at path. Fields it leaves out
// keep the values of Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a YAML document. Unknown keys are errors.
func Parse(data []byte) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the values a file can get wrong.
func (c *Config) Validate() error {
	c.Driver = strings.ToLower(strings.TrimSpace(c.Driver))
	if !slices.Contains(Drivers, c.Driver) {
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.Driver)
	}
	if c.Width < 0 || c.Height < 0 {
		return fmt.Errorf("negative size %dx%d", c.Width, c.Height)
	}
	if _, err := c.PixelFormat(); err != nil {
		return err
	}
	if !gdisp.Orientation(c.Orientation).Valid() {
		return fmt.Errorf("invalid orientation %d", c.Orientation)
	}
	if _, err := c.DisplayOpts(); err != nil {
		return err
	}
	if _, err := c.Speed(); err != nil {
		return err
	}
	if (c.Driver == "ssd1289" || c.Driver == "s6d1121") && c.Pins.DC == "" {
		return fmt.Errorf("driver %s needs pins.dc", c.Driver)
	}
	if c.Scale < 0 {
		return fmt.Errorf("negative scale %d", c.Scale)
	}
	return nil
}

// PixelFormat returns the parsed format, or 0 when the file leaves the
// choice to the driver.
func (c *Config) PixelFormat() (pixfmt.Format, error) {
	if c.Format == "" {
		return 0, nil
	}
	return pixfmt.ParseFormat(c.Format)
}

// Speed returns the SPI clock, or 0 for the driver default.
func (c *Config) Speed() (physic.Frequency, error) {
	if c.SPI.Speed == "" {
		return 0, nil
	}
	var f physic.Frequency
	if err := f.Set(c.SPI.Speed); err != nil {
		return 0, fmt.Errorf("spi speed %q: %w", c.SPI.Speed, err)
	}
	return f, nil
}

// DisplayOpts converts the file to the options of gdisp.New.
func (c *Config) DisplayOpts() (*gdisp.Opts, error) {
	th := gdisp.ThreadingNone
	if c.Threading != "" {
		var err error
		if th, err = gdisp.ParseThreading(c.Threading); err != nil {
			return nil, err
		}
	}
	if c.QueueDepth < 0 {
		return nil, fmt.Errorf("negative queue depth %d", c.QueueDepth)
	}
	disable, unknown := gdisp.ParseCapabilities(c.Disable)
	if len(unknown) > 0 {
		return nil, fmt.Errorf("unknown capabilities %s", strings.Join(unknown, ", "))
	}
	return &gdisp.Opts{
		Name:          c.Name,
		Threading:     th,
		QueueDepth:    c.QueueDepth,
		SubmitTimeout: c.SubmitTimeout,
		NoValidation:  c.NoValidation,
		Disable:       disable,
	}, nil
}

// Apply sets the orientation and levels of the file on d.
func (c *Config) Apply(d *gdisp.Display) {
	if c.Orientation != 0 {
		d.SetOrientation(gdisp.Orientation(c.Orientation))
	}
	if c.Backlight != nil {
		d.SetBacklight(*c.Backlight)
	}
	if c.Contrast != nil {
		d.SetContrast(*c.Contrast)
	}
}
