// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package mandelbrot

// PixelToPoint maps pixel (px, py) of a surface with s.Resolution to the
// complex plane:
//
//	x = corner.re + px * regionWidth  / resolution.width
//	y = corner.im - py * regionHeight / resolution.height
//
// Pixel (0, 0) maps exactly to the corner. The last pixel maps one step
// short of the lower-right edge. The y axis is inverted: rows grow down,
// the imaginary axis grows up.
//
// PixelToPoint is total for 0 <= px < W and 0 <= py < H. Callers guarantee a
// non-zero resolution; the surface authority never produces a frame without one.
func PixelToPoint(px, py int, s Settings) complex128 {
	x := real(s.Corner) + float64(px)*s.RegionWidth/float64(s.Resolution.Width)
	y := imag(s.Corner) - float64(py)*s.RegionHeight/float64(s.Resolution.Height)
	return complex(x, y)
}
