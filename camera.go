// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package mandelbrot

import "math"

// Camera navigation constants.
const (
	// MinZoomStep and MaxZoomStep bound the zoom step counter.
	MinZoomStep = 1.0
	MaxZoomStep = 60.0

	// visibleHeight is the imaginary extent shown at zoom 1. It frames the
	// whole set vertically.
	visibleHeight = 2.3

	// panScale converts one unit of input motion to complex-plane units at zoom 1.
	panScale = 1.0 / 100
)

// DefaultCenter is the camera center after Reset.
const DefaultCenter = complex(-0.5, 0)

// Camera describes the view as a center point and a zoom step. Unlike a
// Viewport it has no fixed aspect: the visible region is derived from the
// live resolution every frame, so the set keeps its proportions whatever the
// window shape.
//
// The zero value is not useful; use DefaultCamera.
type Camera struct {
	Center   complex128
	ZoomStep float64
}

// DefaultCamera returns a camera framing the whole set.
func DefaultCamera() Camera {
	return Camera{Center: DefaultCenter, ZoomStep: MinZoomStep}
}

// CameraFor returns the camera whose view has the center and height of v.
// The zoom step is clamped, so very tall or very small regions are framed
// as closely as the step range allows.
func CameraFor(v Viewport) Camera {
	zoom := visibleHeight / v.Height
	step := math.Pow(max(zoom-0.99, 0)/0.01, 0.25)
	return Camera{Center: v.Center(), ZoomStep: clampStep(step)}
}

// Zoom returns the magnification for the current step: step^4 * 0.01 + 0.99.
// Step 1 gives exactly 1, so the first notch does not jump.
func (c Camera) Zoom() float64 {
	s := clampStep(c.ZoomStep)
	return math.Pow(s, 4)*0.01 + 0.99
}

// Viewport returns the region visible at resolution r.
// The height is 2.3/zoom and the width follows the aspect ratio of r.
func (c Camera) Viewport(r Resolution) Viewport {
	h := visibleHeight / c.Zoom()
	w := r.Aspect() * h
	return Viewport{
		Corner: complex(real(c.Center)-w/2, imag(c.Center)+h/2),
		Width:  w,
		Height: h,
	}
}

// ZoomBy moves the zoom step by delta notches, clamped to [MinZoomStep, MaxZoomStep].
func (c *Camera) ZoomBy(delta float64) {
	c.ZoomStep = clampStep(c.ZoomStep + delta)
}

// Pan moves the center by a screen-space motion (dx right, dy down).
// The motion is scaled down as zoom grows so panning stays usable deep in.
func (c *Camera) Pan(dx, dy float64) {
	z := c.Zoom()
	c.Center = complex(real(c.Center)+dx*panScale/z, imag(c.Center)-dy*panScale/z)
}

// Reset restores DefaultCamera.
func (c *Camera) Reset() {
	*c = DefaultCamera()
}

func clampStep(s float64) float64 {
	if math.IsNaN(s) {
		return MinZoomStep
	}
	return min(max(s, MinZoomStep), MaxZoomStep)
}
