package viewer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gogpu/mandelbrot"
	"github.com/gogpu/mandelbrot/render"
	"github.com/gogpu/mandelbrot/surface"
	"golang.org/x/time/rate"
)

// ErrNotRenderTarget is returned when the surface authority holds a
// resource that is not a render.RenderTarget.
var ErrNotRenderTarget = errors.New("viewer: surface resource is not a render target")

// Frame describes one presented frame.
type Frame struct {
	// Number counts RenderFrame calls that reached the target, from 1.
	Number uint64

	// Settings is the block the frame was sampled with.
	Settings mandelbrot.Settings

	// Limit is the iteration limit.
	Limit int

	// Backend names the path that produced the pixels.
	Backend string

	// Generation is the surface generation of the target.
	Generation uint64

	// Rendered is false when the previous image was still valid and reused.
	Rendered bool

	// Elapsed is the time spent sampling; zero when Rendered is false.
	Elapsed time.Duration
}

// PresentFunc receives the finished target while the frame lock is held.
type PresentFunc func(target render.RenderTarget, f Frame) error

// frameKey is everything a frame's pixels depend on.
type frameKey struct {
	settings    mandelbrot.Settings
	limit       int
	accelerated bool
	generation  uint64
}

// pathReporter is implemented by renderers that pick a path per frame.
type pathReporter interface {
	LastPath() string
}

// Viewer owns the view state and renders frames into a surface.
//
// Thread safety: navigation methods may be called from any goroutine;
// RenderFrame is meant for the frame loop.
type Viewer struct {
	auth *surface.Authority

	software    render.Renderer
	ownSoftware *render.SoftwareRenderer
	accelerated render.Renderer

	mu       sync.Mutex
	limit    int
	camera   mandelbrot.Camera
	viewport *mandelbrot.Viewport
	useGPU   bool
	dirty    bool
	last     frameKey
	hasLast  bool
	stats    Stats

	statsLog rate.Sometimes
	started  time.Time
}

// New creates a Viewer rendering into auth.
func New(auth *surface.Authority, opts ...Option) (*Viewer, error) {
	if auth == nil {
		return nil, errors.New("viewer: nil surface authority")
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := mandelbrot.ValidateLimit(o.limit); err != nil {
		return nil, err
	}
	if o.viewport != nil {
		if err := o.viewport.Validate(); err != nil {
			return nil, err
		}
	}

	v := &Viewer{
		auth:        auth,
		accelerated: o.accelerated,
		limit:       o.limit,
		camera:      mandelbrot.DefaultCamera(),
		viewport:    o.viewport,
		useGPU:      o.useGPU,
		dirty:       true,
		statsLog:    rate.Sometimes{Interval: 5 * time.Second},
		started:     time.Now(),
	}
	if o.camera != nil {
		v.camera = *o.camera
	}
	if o.software != nil {
		v.software = o.software
	} else {
		v.ownSoftware = render.NewSoftwareRenderer(render.WithWorkers(o.workers))
		v.software = v.ownSoftware
	}
	return v, nil
}

// RenderFrame renders the current view into the live target and passes it
// to present. present may be nil.
//
// The settings block is packed from the target's own physical resolution,
// so the frame always has one sample per physical pixel. When nothing the
// frame depends on changed since the last call, sampling is skipped and
// present receives the previous image with Rendered false.
//
// Returns surface.ErrSuspended while the window has zero area.
func (v *Viewer) RenderFrame(ctx context.Context, present PresentFunc) (Frame, error) {
	var frame Frame
	err := v.auth.WithTarget(func(res surface.Resource, d surface.Descriptor) error {
		target, ok := res.(render.RenderTarget)
		if !ok {
			return fmt.Errorf("%w: %T", ErrNotRenderTarget, res)
		}

		v.mu.Lock()
		renderer := v.rendererLocked()
		key := frameKey{
			settings:    mandelbrot.NewSettings(v.viewFor(d.Resolution), d.Resolution),
			limit:       v.limit,
			accelerated: v.useGPU && v.accelerated != nil,
			generation:  d.Generation,
		}
		fresh := v.dirty || !v.hasLast || key != v.last
		v.mu.Unlock()

		frame = Frame{
			Settings:   key.settings,
			Limit:      key.limit,
			Backend:    v.backendName(renderer),
			Generation: d.Generation,
		}
		if fresh {
			start := time.Now()
			if err := renderer.Render(ctx, target, key.settings, key.limit); err != nil {
				v.mu.Lock()
				v.dirty = true
				v.mu.Unlock()
				return err
			}
			frame.Rendered = true
			frame.Elapsed = time.Since(start)
			frame.Backend = v.backendName(renderer)
		}

		v.mu.Lock()
		v.last, v.hasLast, v.dirty = key, true, false
		v.stats.record(frame)
		frame.Number = v.stats.Frames
		stats := v.stats
		v.mu.Unlock()

		if frame.Rendered {
			mandelbrot.Logger().Debug("viewer: frame",
				"n", frame.Number, "settings", frame.Settings, "backend", frame.Backend, "elapsed", frame.Elapsed)
		}
		v.statsLog.Do(func() { v.logStats(stats) })

		if present != nil {
			return present(target, frame)
		}
		return nil
	})
	return frame, err
}

// viewFor returns the region shown at resolution r. Caller holds mu.
func (v *Viewer) viewFor(r mandelbrot.Resolution) mandelbrot.Viewport {
	if v.viewport != nil {
		return *v.viewport
	}
	return v.camera.Viewport(r)
}

// rendererLocked returns the selected renderer. Caller holds mu.
func (v *Viewer) rendererLocked() render.Renderer {
	if v.useGPU && v.accelerated != nil {
		return v.accelerated
	}
	return v.software
}

func (v *Viewer) backendName(r render.Renderer) string {
	if pr, ok := r.(pathReporter); ok {
		if p := pr.LastPath(); p != "" {
			return p
		}
	}
	return r.Name()
}

// Viewport returns the region shown at the authority's current resolution.
func (v *Viewer) Viewport() mandelbrot.Viewport {
	r := v.auth.CurrentResolution()
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.viewFor(r)
}

// SetViewport shows a fixed region from now on.
func (v *Viewer) SetViewport(vp mandelbrot.Viewport) error {
	if err := vp.Validate(); err != nil {
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.viewport = &vp
	v.dirty = true
	return nil
}

// Camera returns the camera. With a fixed viewport it is the camera that
// navigation would start from.
func (v *Viewer) Camera() mandelbrot.Camera {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cameraLocked()
}

// SetCamera switches to camera mode with c.
func (v *Viewer) SetCamera(c mandelbrot.Camera) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.camera = c
	v.viewport = nil
	v.dirty = true
}

// cameraLocked converts a fixed viewport into the equivalent camera.
func (v *Viewer) cameraLocked() mandelbrot.Camera {
	if v.viewport != nil {
		return mandelbrot.CameraFor(*v.viewport)
	}
	return v.camera
}

// Pan moves the view by a screen-space motion; see mandelbrot.Camera.Pan.
func (v *Viewer) Pan(dx, dy float64) {
	v.navigate(func(c *mandelbrot.Camera) { c.Pan(dx, dy) })
}

// Zoom changes the zoom step by delta notches.
func (v *Viewer) Zoom(delta float64) {
	v.navigate(func(c *mandelbrot.Camera) { c.ZoomBy(delta) })
}

// Reset returns to the default camera framing the whole set.
func (v *Viewer) Reset() {
	v.navigate(func(c *mandelbrot.Camera) { c.Reset() })
}

func (v *Viewer) navigate(fn func(*mandelbrot.Camera)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	c := v.cameraLocked()
	fn(&c)
	v.camera = c
	v.viewport = nil
	v.dirty = true
}

// MaxIterations returns the iteration limit.
func (v *Viewer) MaxIterations() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.limit
}

// SetMaxIterations changes the iteration limit.
func (v *Viewer) SetMaxIterations(limit int) error {
	if err := mandelbrot.ValidateLimit(limit); err != nil {
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.limit != limit {
		v.limit = limit
		v.dirty = true
	}
	return nil
}

// UseGPU selects the accelerated renderer (true) or the CPU renderer.
// It reports whether the accelerated renderer is now in use; without one
// the viewer stays on the CPU.
func (v *Viewer) UseGPU(enabled bool) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.useGPU != enabled {
		v.useGPU = enabled
		v.dirty = true
	}
	on := v.useGPU && v.accelerated != nil
	mandelbrot.Logger().Info("viewer: backend selected", "backend", v.rendererLocked().Name())
	return on
}

// Invalidate forces the next frame to be re-sampled.
func (v *Viewer) Invalidate() {
	v.mu.Lock()
	v.dirty = true
	v.mu.Unlock()
}

// Dirty reports whether the next frame will be re-sampled for a reason
// other than a resize.
func (v *Viewer) Dirty() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.dirty || !v.hasLast
}

// Stats returns the frame counters.
func (v *Viewer) Stats() Stats {
	v.mu.Lock()
	defer v.mu.Unlock()
	s := v.stats
	s.Uptime = time.Since(v.started)
	return s
}

// Close stops the CPU renderer if the viewer created it.
func (v *Viewer) Close() {
	if v.ownSoftware != nil {
		v.ownSoftware.Close()
	}
}
