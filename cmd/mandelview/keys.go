package main

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/mandelbrot"
	"github.com/gogpu/mandelbrot/viewer"
	"golang.org/x/time/rate"
)

type action int

const (
	actionNone action = iota
	actionReset
	actionGPU
	actionCPU
	actionPanLeft
	actionPanRight
	actionPanUp
	actionPanDown
	actionZoomIn
	actionZoomOut
	actionMoreIterations
	actionFewerIterations
	actionOverlay
)

// Pan distance and zoom notches per key press.
const (
	panStep  = 10
	zoomStep = 1
)

// maxIterations bounds the I key; each doubling slows every frame.
const maxIterations = 1 << 16

var keyActions = map[gpucontext.Key]action{
	gpucontext.KeyR: actionReset,
	gpucontext.KeyG: actionGPU,
	gpucontext.KeyC: actionCPU,
	gpucontext.KeyA: actionPanLeft,
	gpucontext.KeyD: actionPanRight,
	gpucontext.KeyW: actionPanUp,
	gpucontext.KeyS: actionPanDown,
	gpucontext.KeyE: actionZoomIn,
	gpucontext.KeyQ: actionZoomOut,
	gpucontext.KeyI: actionMoreIterations,
	gpucontext.KeyU: actionFewerIterations,
	gpucontext.KeyO: actionOverlay,
}

// navigation reports whether a is throttled by the key-repeat limiter.
func (a action) navigation() bool {
	return a >= actionPanLeft && a <= actionFewerIterations
}

// controls applies key and mouse input to the viewer. Events may arrive
// before the viewer exists; they are dropped until then.
type controls struct {
	viewer  atomic.Pointer[viewer.Viewer]
	overlay atomic.Bool
	limiter *rate.Limiter

	mu       sync.Mutex
	focused  bool
	dragging bool
	lastX    float64
	lastY    float64
}

func newControls(overlay bool) *controls {
	c := &controls{
		limiter: rate.NewLimiter(rate.Every(16*time.Millisecond), 4),
		focused: true,
	}
	c.overlay.Store(overlay)
	return c
}

// handle maps key to an action and applies it. It returns the action taken.
func (c *controls) handle(key gpucontext.Key) action {
	a, ok := keyActions[key]
	if !ok {
		return actionNone
	}
	if a.navigation() && !c.limiter.Allow() {
		return actionNone
	}
	if a == actionOverlay {
		c.overlay.Store(!c.overlay.Load())
		return a
	}
	v := c.viewer.Load()
	if v == nil {
		return actionNone
	}
	c.apply(v, a)
	return a
}

func (c *controls) apply(v *viewer.Viewer, a action) {
	log := mandelbrot.Logger()
	switch a {
	case actionReset:
		v.Reset()
	case actionGPU:
		if !v.UseGPU(true) {
			log.Warn("mandelview: no GPU renderer, staying on CPU")
		}
	case actionCPU:
		v.UseGPU(false)
	case actionPanLeft:
		v.Pan(-panStep, 0)
	case actionPanRight:
		v.Pan(panStep, 0)
	case actionPanUp:
		v.Pan(0, -panStep)
	case actionPanDown:
		v.Pan(0, panStep)
	case actionZoomIn:
		v.Zoom(zoomStep)
	case actionZoomOut:
		v.Zoom(-zoomStep)
	case actionMoreIterations:
		_ = v.SetMaxIterations(min(v.MaxIterations()*2, maxIterations))
	case actionFewerIterations:
		_ = v.SetMaxIterations(max(v.MaxIterations()/2, 1))
	}
}

// focus records window focus. Losing focus ends any drag in progress.
func (c *controls) focus(focused bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.focused = focused
	if !focused {
		c.dragging = false
	}
}

// scroll zooms by the wheel delta. Wheel deltas are positive downward, so
// scrolling up (negative dy) zooms in.
func (c *controls) scroll(dy float64) action {
	c.mu.Lock()
	focused := c.focused
	c.mu.Unlock()
	if !focused || dy == 0 || !c.limiter.Allow() {
		return actionNone
	}
	v := c.viewer.Load()
	if v == nil {
		return actionNone
	}
	v.Zoom(-dy)
	if dy < 0 {
		return actionZoomIn
	}
	return actionZoomOut
}

// press starts a drag on the left button.
func (c *controls) press(button gpucontext.MouseButton, x, y float64) {
	if button != gpucontext.MouseButtonLeft {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.focused {
		return
	}
	c.dragging = true
	c.lastX, c.lastY = x, y
}

func (c *controls) release(button gpucontext.MouseButton) {
	if button != gpucontext.MouseButtonLeft {
		return
	}
	c.mu.Lock()
	c.dragging = false
	c.mu.Unlock()
}

// move pans by the cursor delta while dragging. The plane follows the
// cursor horizontally; vertical motion is inverted on the imaginary axis.
func (c *controls) move(x, y float64) bool {
	c.mu.Lock()
	if !c.dragging || !c.focused {
		c.mu.Unlock()
		return false
	}
	dx, dy := x-c.lastX, y-c.lastY
	c.lastX, c.lastY = x, y
	c.mu.Unlock()

	v := c.viewer.Load()
	if v == nil || (dx == 0 && dy == 0) {
		return false
	}
	v.Pan(dx, dy)
	return true
}
