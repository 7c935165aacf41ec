// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package mandelbrot

import (
	"errors"
	"fmt"
	"math"
)

// DefaultMaxIterations is the iteration limit used when none is configured.
const DefaultMaxIterations = 256

// ErrInvalidLimit is returned when an iteration limit below 1 is configured.
var ErrInvalidLimit = errors.New("mandelbrot: iteration limit must be at least 1")

// ValidateLimit returns ErrInvalidLimit for limit < 1.
func ValidateLimit(limit int) error {
	if limit < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidLimit, limit)
	}
	return nil
}

// EscapeTime iterates z = z*z + c from z = 0 and returns the first index
// i in [0, limit) at which |z|^2 >= 4 is observed, the check happening before
// the i-th update. It returns limit when c did not escape: limit is the
// "in the set" sentinel.
//
// A limit below 1 is treated as 1.
func EscapeTime(c complex128, limit int) int {
	if limit < 1 {
		limit = 1
	}
	cr, ci := real(c), imag(c)
	var zr, zi float64
	for i := range limit {
		zr2, zi2 := zr*zr, zi*zi
		if zr2+zi2 >= 4 {
			return i
		}
		zi = 2*zr*zi + ci
		zr = zr2 - zi2 + cr
	}
	return limit
}

// Escaped reports whether count is an escape index rather than the sentinel.
func Escaped(count, limit int) bool {
	if limit < 1 {
		limit = 1
	}
	return count < limit
}

// Intensity normalises an escape count to [0, 1].
//
// Escaped points map to count/(limit-1), so slow escapes are bright.
// With limit 1 the only escape index is 0 and maps to 1.
// The sentinel maps to 0: points in the set are black.
func Intensity(count, limit int) float64 {
	if limit < 1 {
		limit = 1
	}
	if count >= limit || count < 0 {
		return 0
	}
	if limit == 1 {
		return 1
	}
	return float64(count) / float64(limit-1)
}

// Gray quantises Intensity to an 8-bit level: round(intensity * 255).
func Gray(count, limit int) uint8 {
	return uint8(math.Round(Intensity(count, limit) * 255))
}

// GrayAt evaluates pixel (px, py) end to end: mapper, evaluator, quantiser.
func GrayAt(px, py int, s Settings, limit int) uint8 {
	return Gray(EscapeTime(PixelToPoint(px, py, s), limit), limit)
}
