package viewer

import (
	"github.com/gogpu/mandelbrot"
	"github.com/gogpu/mandelbrot/render"
)

// Option configures a Viewer.
type Option func(*options)

type options struct {
	accelerated render.Renderer
	software    render.Renderer
	limit       int
	viewport    *mandelbrot.Viewport
	camera      *mandelbrot.Camera
	useGPU      bool
	workers     int
}

func defaultOptions() options {
	return options{
		limit:  mandelbrot.DefaultMaxIterations,
		useGPU: true,
	}
}

// WithRenderer sets the accelerated renderer, typically a render.GPURenderer.
// Without it the viewer renders on the CPU only.
func WithRenderer(r render.Renderer) Option {
	return func(o *options) {
		o.accelerated = r
	}
}

// WithSoftwareRenderer replaces the CPU renderer the viewer would create.
// The viewer does not close a renderer it did not create.
func WithSoftwareRenderer(r render.Renderer) Option {
	return func(o *options) {
		o.software = r
	}
}

// WithWorkers sets the worker count of the CPU renderer the viewer creates.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithMaxIterations sets the iteration limit. Values below 1 are rejected
// by New.
func WithMaxIterations(limit int) Option {
	return func(o *options) {
		o.limit = limit
	}
}

// WithViewport shows a fixed region, stretched to the surface.
func WithViewport(v mandelbrot.Viewport) Option {
	return func(o *options) {
		o.viewport = &v
	}
}

// WithCamera starts from camera c. The region follows the surface's aspect.
func WithCamera(c mandelbrot.Camera) Option {
	return func(o *options) {
		o.camera = &c
	}
}

// WithGPU selects the accelerated renderer at start (the default) or the
// CPU renderer.
func WithGPU(enabled bool) Option {
	return func(o *options) {
		o.useGPU = enabled
	}
}
