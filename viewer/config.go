package viewer

import (
	"errors"
	"fmt"

	"github.com/gogpu/mandelbrot"
)

// Config holds the startup configuration of the viewer application.
//
// Build it with DefaultConfig and the With methods:
//
//	cfg := viewer.DefaultConfig().
//	    WithSize(1280, 720).
//	    WithMaxIterations(512).
//	    WithViewport(mandelbrot.SeahorseValley)
type Config struct {
	// Title is the window title.
	Title string

	// Width and Height are the initial logical window size.
	Width, Height int

	// MaxIterations is the escape-time iteration limit.
	MaxIterations int

	// Viewport, when set, shows a fixed region instead of the camera.
	Viewport *mandelbrot.Viewport

	// Camera is the starting camera when Viewport is nil.
	Camera mandelbrot.Camera

	// UseGPU selects the compute accelerator at start.
	UseGPU bool

	// Workers is the CPU renderer's goroutine count; 0 means GOMAXPROCS.
	Workers int

	// Overlay draws the status line over the image.
	Overlay bool
}

// DefaultConfig returns the configuration used when no flags are given.
func DefaultConfig() Config {
	return Config{
		Title:         "Mandelbrot",
		Width:         1024,
		Height:        768,
		MaxIterations: mandelbrot.DefaultMaxIterations,
		Camera:        mandelbrot.DefaultCamera(),
		UseGPU:        true,
		Overlay:       true,
	}
}

// WithTitle sets the window title.
func (c Config) WithTitle(title string) Config {
	c.Title = title
	return c
}

// WithSize sets the initial logical window size.
func (c Config) WithSize(width, height int) Config {
	c.Width, c.Height = width, height
	return c
}

// WithMaxIterations sets the iteration limit.
func (c Config) WithMaxIterations(limit int) Config {
	c.MaxIterations = limit
	return c
}

// WithViewport shows a fixed region.
func (c Config) WithViewport(v mandelbrot.Viewport) Config {
	c.Viewport = &v
	return c
}

// WithCamera sets the starting camera and drops any fixed viewport.
func (c Config) WithCamera(cam mandelbrot.Camera) Config {
	c.Camera = cam
	c.Viewport = nil
	return c
}

// WithGPU selects the accelerated or the CPU renderer at start.
func (c Config) WithGPU(enabled bool) Config {
	c.UseGPU = enabled
	return c
}

// WithWorkers sets the CPU renderer's goroutine count.
func (c Config) WithWorkers(n int) Config {
	c.Workers = n
	return c
}

// WithOverlay toggles the status line.
func (c Config) WithOverlay(enabled bool) Config {
	c.Overlay = enabled
	return c
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("viewer: invalid window size %dx%d", c.Width, c.Height)
	}
	if err := mandelbrot.ValidateLimit(c.MaxIterations); err != nil {
		return err
	}
	if c.Viewport != nil {
		if err := c.Viewport.Validate(); err != nil {
			return err
		}
	}
	if c.Workers < 0 {
		return errors.New("viewer: negative worker count")
	}
	return nil
}

// Options converts the configuration to Viewer options.
func (c Config) Options() []Option {
	opts := []Option{
		WithMaxIterations(c.MaxIterations),
		WithCamera(c.Camera),
		WithGPU(c.UseGPU),
		WithWorkers(c.Workers),
	}
	if c.Viewport != nil {
		opts = append(opts, WithViewport(*c.Viewport))
	}
	return opts
}
