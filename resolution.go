// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package mandelbrot

import "fmt"

// Resolution is a size in physical (device) pixels.
//
// Physical size is the logical window size multiplied by the scale factor of
// the monitor currently hosting the window. It is the only size the mapper
// may be given: GPU and CPU paths always produce one sample per physical
// pixel, whatever number the sampling stage is told.
type Resolution struct {
	Width  int
	Height int
}

// IsZero reports whether the resolution has no area.
// A minimized window reports a zero resolution.
func (r Resolution) IsZero() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Pixels returns Width*Height, or 0 for a zero-area resolution.
func (r Resolution) Pixels() int {
	if r.IsZero() {
		return 0
	}
	return r.Width * r.Height
}

// Aspect returns Width/Height, or 1 for a zero-area resolution.
func (r Resolution) Aspect() float64 {
	if r.IsZero() {
		return 1
	}
	return float64(r.Width) / float64(r.Height)
}

// Contains reports whether pixel (px, py) lies inside the resolution.
func (r Resolution) Contains(px, py int) bool {
	return px >= 0 && py >= 0 && px < r.Width && py < r.Height
}

// String returns "WxH".
func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}
