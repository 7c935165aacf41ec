package main

import (
	"math"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/mandelbrot"
	"github.com/gogpu/mandelbrot/surface"
	"github.com/gogpu/mandelbrot/viewer"
	"golang.org/x/time/rate"
)

func newTestViewer(t *testing.T) *viewer.Viewer {
	t.Helper()
	auth := surface.New(newTarget, surface.WithInitialSize(64, 48))
	v, err := viewer.New(auth, viewer.WithWorkers(1))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		v.Close()
		_ = auth.Close()
	})
	return v
}

func TestControlsBeforeViewer(t *testing.T) {
	c := newControls(true)
	if got := c.handle(gpucontext.KeyR); got != actionNone {
		t.Errorf("handle(R) without viewer = %v, want none", got)
	}
	// The overlay toggle does not need the viewer.
	if got := c.handle(gpucontext.KeyO); got != actionOverlay || c.overlay.Load() {
		t.Errorf("handle(O) = %v, overlay = %v", got, c.overlay.Load())
	}
}

func TestControlsNavigation(t *testing.T) {
	c := newControls(false)
	c.limiter = rate.NewLimiter(rate.Inf, 1)
	v := newTestViewer(t)
	c.viewer.Store(v)

	start := v.Camera()
	if got := c.handle(gpucontext.KeyD); got != actionPanRight {
		t.Fatalf("handle(D) = %v", got)
	}
	if real(v.Camera().Center) <= real(start.Center) {
		t.Error("D did not pan right")
	}

	c.handle(gpucontext.KeyW)
	if imag(v.Camera().Center) <= imag(start.Center) {
		t.Error("W did not pan up")
	}

	c.handle(gpucontext.KeyE)
	if v.Camera().ZoomStep != start.ZoomStep+zoomStep {
		t.Errorf("ZoomStep = %v after E", v.Camera().ZoomStep)
	}

	c.handle(gpucontext.KeyI)
	if v.MaxIterations() != 2*mandelbrot.DefaultMaxIterations {
		t.Errorf("MaxIterations() = %d after I", v.MaxIterations())
	}

	c.handle(gpucontext.KeyR)
	if v.Camera() != mandelbrot.DefaultCamera() {
		t.Errorf("Camera() = %+v after R", v.Camera())
	}
}

func TestControlsIterationFloor(t *testing.T) {
	c := newControls(false)
	c.limiter = rate.NewLimiter(rate.Inf, 1)
	v := newTestViewer(t)
	c.viewer.Store(v)

	_ = v.SetMaxIterations(1)
	c.handle(gpucontext.KeyU)
	if v.MaxIterations() != 1 {
		t.Errorf("MaxIterations() = %d, want 1", v.MaxIterations())
	}
}

func TestControlsRateLimit(t *testing.T) {
	c := newControls(false)
	c.limiter = rate.NewLimiter(rate.Every(1<<62), 1)
	c.viewer.Store(newTestViewer(t))

	if got := c.handle(gpucontext.KeyA); got != actionPanLeft {
		t.Fatalf("first press = %v", got)
	}
	if got := c.handle(gpucontext.KeyA); got != actionNone {
		t.Errorf("second press = %v, want throttled", got)
	}
	// Mode switches are never throttled.
	if got := c.handle(gpucontext.KeyC); got != actionCPU {
		t.Errorf("handle(C) = %v", got)
	}
}

func TestControlsUnknownKey(t *testing.T) {
	c := newControls(false)
	if got := c.handle(gpucontext.KeySpace); got != actionNone {
		t.Errorf("handle(Space) = %v", got)
	}
}

func TestControlsIterationCap(t *testing.T) {
	c := newControls(false)
	c.limiter = rate.NewLimiter(rate.Inf, 1)
	v := newTestViewer(t)
	c.viewer.Store(v)

	for range 64 {
		c.handle(gpucontext.KeyI)
	}
	if v.MaxIterations() != maxIterations {
		t.Errorf("MaxIterations() = %d after repeated I, want %d", v.MaxIterations(), maxIterations)
	}

	_ = v.SetMaxIterations(maxIterations - 1)
	c.handle(gpucontext.KeyI)
	if v.MaxIterations() != maxIterations {
		t.Errorf("MaxIterations() = %d, want clamp to %d", v.MaxIterations(), maxIterations)
	}
}

func TestControlsScroll(t *testing.T) {
	tests := []struct {
		name string
		dy   float64
		want action
		step float64
	}{
		{"up zooms in", -1, actionZoomIn, 6},
		{"down zooms out", 2, actionZoomOut, 3},
		{"horizontal only", 0, actionNone, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newControls(false)
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			v := newTestViewer(t)
			c.viewer.Store(v)
			v.SetCamera(mandelbrot.Camera{Center: mandelbrot.DefaultCenter, ZoomStep: 5})

			if got := c.scroll(tt.dy); got != tt.want {
				t.Errorf("scroll(%v) = %v, want %v", tt.dy, got, tt.want)
			}
			if got := v.Camera().ZoomStep; got != tt.step {
				t.Errorf("ZoomStep = %v, want %v", got, tt.step)
			}
		})
	}
}

func TestControlsScrollRateLimit(t *testing.T) {
	c := newControls(false)
	c.limiter = rate.NewLimiter(rate.Every(1<<62), 1)
	c.viewer.Store(newTestViewer(t))

	if got := c.scroll(-1); got != actionZoomIn {
		t.Fatalf("first scroll = %v", got)
	}
	if got := c.scroll(-1); got != actionNone {
		t.Errorf("second scroll = %v, want throttled", got)
	}
}

func TestControlsScrollIgnoredUnfocused(t *testing.T) {
	c := newControls(false)
	c.limiter = rate.NewLimiter(rate.Inf, 1)
	v := newTestViewer(t)
	c.viewer.Store(v)

	c.focus(false)
	if got := c.scroll(-3); got != actionNone {
		t.Errorf("scroll while unfocused = %v, want none", got)
	}
	if v.Camera() != mandelbrot.DefaultCamera() {
		t.Errorf("Camera() = %+v, want default", v.Camera())
	}

	c.focus(true)
	if got := c.scroll(-3); got != actionZoomIn {
		t.Errorf("scroll after refocus = %v, want zoom in", got)
	}
}

func TestControlsDragPans(t *testing.T) {
	c := newControls(false)
	v := newTestViewer(t)
	c.viewer.Store(v)
	start := v.Camera()

	// Motion without a pressed button does nothing.
	if c.move(10, 10) {
		t.Error("move without press panned")
	}

	c.press(gpucontext.MouseButtonLeft, 100, 100)
	if !c.move(150, 80) {
		t.Fatal("drag did not pan")
	}

	// Deltas are scaled by 1/100 per zoom unit; y is inverted.
	z := start.Zoom()
	want := complex(real(start.Center)+50.0/100/z, imag(start.Center)+20.0/100/z)
	if got := v.Camera().Center; !closeComplex(got, want) {
		t.Errorf("Center = %v, want %v", got, want)
	}

	// Only the motion since the last event counts.
	c.move(150, 80)
	if got := v.Camera().Center; !closeComplex(got, want) {
		t.Errorf("Center = %v after zero motion, want %v", got, want)
	}

	c.release(gpucontext.MouseButtonLeft)
	if c.move(300, 300) {
		t.Error("move after release panned")
	}
}

func TestControlsDragButtons(t *testing.T) {
	c := newControls(false)
	c.viewer.Store(newTestViewer(t))

	c.press(gpucontext.MouseButtonRight, 0, 0)
	if c.move(10, 0) {
		t.Error("right button started a drag")
	}

	c.press(gpucontext.MouseButtonLeft, 0, 0)
	c.release(gpucontext.MouseButtonRight)
	if !c.move(10, 0) {
		t.Error("right release ended a left drag")
	}
}

func TestControlsFocusLossEndsDrag(t *testing.T) {
	c := newControls(false)
	v := newTestViewer(t)
	c.viewer.Store(v)

	c.press(gpucontext.MouseButtonLeft, 0, 0)
	c.focus(false)
	if c.move(40, 40) {
		t.Error("move after focus loss panned")
	}

	// Regaining focus does not resume the old drag.
	c.focus(true)
	if c.move(80, 80) {
		t.Error("drag resumed after refocus")
	}

	// Presses while unfocused are ignored.
	c.focus(false)
	c.press(gpucontext.MouseButtonLeft, 0, 0)
	c.focus(true)
	if c.move(5, 5) {
		t.Error("press while unfocused started a drag")
	}
	if v.Camera() != mandelbrot.DefaultCamera() {
		t.Errorf("Camera() = %+v, want default", v.Camera())
	}
}

func TestControlsMouseBeforeViewer(t *testing.T) {
	c := newControls(false)
	if got := c.scroll(-1); got != actionNone {
		t.Errorf("scroll without viewer = %v", got)
	}
	c.press(gpucontext.MouseButtonLeft, 0, 0)
	if c.move(10, 10) {
		t.Error("move without viewer reported a pan")
	}
}

func closeComplex(a, b complex128) bool {
	const eps = 1e-12
	return math.Abs(real(a)-real(b)) < eps && math.Abs(imag(a)-imag(b)) < eps
}
