// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package mandelbrot

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrInvalidViewport is returned when a viewport has a non-positive or
// non-finite extent, or a non-finite corner.
var ErrInvalidViewport = errors.New("mandelbrot: invalid viewport")

// Viewport is the rectangle of the complex plane being sampled.
//
// Corner is the upper-left sample location; the region extends Width to the
// right (growing real part) and Height downwards (shrinking imaginary part).
// The aspect ratio is independent of the surface's aspect ratio.
type Viewport struct {
	Corner complex128
	Width  float64
	Height float64
}

// Classic regions of the Mandelbrot set.
var (
	// DefaultViewport shows the whole set.
	DefaultViewport = Viewport{Corner: complex(-2.2, 1.15), Width: 3.2, Height: 2.3}

	// ReferenceViewport is the region the viewer was calibrated against:
	// at 1024x768 its last pixel lands on (-1.0002, 0.2002).
	ReferenceViewport = Viewport{Corner: complex(-1.2, 0.35), Width: 0.2, Height: 0.15}

	// SeahorseValley shows dense filaments and repeating seahorse curls.
	SeahorseValley = Viewport{Corner: complex(-0.8, 0.15), Width: 0.1, Height: 0.1}

	// ElephantValley shows a large bulb with trunk-like tendrils.
	ElephantValley = Viewport{Corner: complex(-1.85, -0.02), Width: 0.1, Height: 0.08}

	// SpiralMinibrot is a small copy of the set with tight spiral arms.
	SpiralMinibrot = Viewport{Corner: complex(-0.7435, 0.1325), Width: 0.0015, Height: 0.0015}

	// TripleSpiral has a threefold symmetric spiral structure.
	TripleSpiral = Viewport{Corner: complex(-0.7480, 0.0980), Width: 0.003, Height: 0.003}
)

var landmarks = map[string]Viewport{
	"default":   DefaultViewport,
	"reference": ReferenceViewport,
	"seahorse":  SeahorseValley,
	"elephant":  ElephantValley,
	"spiral":    SpiralMinibrot,
	"triple":    TripleSpiral,
}

// LookupViewport returns the named classic region.
func LookupViewport(name string) (Viewport, bool) {
	v, ok := landmarks[name]
	return v, ok
}

// ViewportNames returns the names accepted by LookupViewport, sorted.
func ViewportNames() []string {
	names := make([]string, 0, len(landmarks))
	for name := range landmarks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewViewport validates and returns a viewport.
// Invalid configurations fail fast here so they never reach the mapper.
func NewViewport(corner complex128, width, height float64) (Viewport, error) {
	v := Viewport{Corner: corner, Width: width, Height: height}
	if err := v.Validate(); err != nil {
		return Viewport{}, err
	}
	return v, nil
}

// MustViewport is like NewViewport but panics on error.
// Use only with constant arguments.
func MustViewport(corner complex128, width, height float64) Viewport {
	v, err := NewViewport(corner, width, height)
	if err != nil {
		panic(err)
	}
	return v
}

// Validate reports ErrInvalidViewport when Width or Height is not a positive
// finite number or the corner is not finite.
func (v Viewport) Validate() error {
	if !finite(v.Width) || !finite(v.Height) || v.Width <= 0 || v.Height <= 0 {
		return fmt.Errorf("%w: width=%v, height=%v", ErrInvalidViewport, v.Width, v.Height)
	}
	if !finite(real(v.Corner)) || !finite(imag(v.Corner)) {
		return fmt.Errorf("%w: corner=%v", ErrInvalidViewport, v.Corner)
	}
	return nil
}

// LowerRight returns the corner opposite Corner.
func (v Viewport) LowerRight() complex128 {
	return complex(real(v.Corner)+v.Width, imag(v.Corner)-v.Height)
}

// Center returns the point in the middle of the region.
func (v Viewport) Center() complex128 {
	return complex(real(v.Corner)+v.Width/2, imag(v.Corner)-v.Height/2)
}

// Contains reports whether c lies inside the region (edges included).
func (v Viewport) Contains(c complex128) bool {
	x, y := real(c), imag(c)
	return x >= real(v.Corner) && x <= real(v.Corner)+v.Width &&
		y <= imag(v.Corner) && y >= imag(v.Corner)-v.Height
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
