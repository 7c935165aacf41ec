// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package mandelbrot

import (
	"encoding/binary"
	"fmt"
	"math"
)

// SettingsSize is the size in bytes of the packed settings block.
const SettingsSize = 24

// Settings is the per-frame parameter block handed to every rendering path.
//
// It is rebuilt from the live Viewport and the live physical resolution at
// the start of every frame and is immutable for the frame's duration.
type Settings struct {
	Corner       complex128
	RegionWidth  float64
	RegionHeight float64
	Resolution   Resolution
}

// NewSettings builds the settings block for viewport v sampled at r.
func NewSettings(v Viewport, r Resolution) Settings {
	return Settings{
		Corner:       v.Corner,
		RegionWidth:  v.Width,
		RegionHeight: v.Height,
		Resolution:   r,
	}
}

// Viewport returns the region described by s.
func (s Settings) Viewport() Viewport {
	return Viewport{Corner: s.Corner, Width: s.RegionWidth, Height: s.RegionHeight}
}

// PointAt maps pixel (px, py) to the complex plane. See PixelToPoint.
func (s Settings) PointAt(px, py int) complex128 {
	return PixelToPoint(px, py, s)
}

// AppendBinary appends the packed little-endian block to b:
//
//	offset  0  f32 corner.re
//	offset  4  f32 corner.im
//	offset  8  f32 region width
//	offset 12  f32 region height
//	offset 16  f32 resolution width
//	offset 20  f32 resolution height
func (s Settings) AppendBinary(b []byte) ([]byte, error) {
	for _, f := range [...]float64{
		real(s.Corner), imag(s.Corner),
		s.RegionWidth, s.RegionHeight,
		float64(s.Resolution.Width), float64(s.Resolution.Height),
	} {
		b = binary.LittleEndian.AppendUint32(b, math.Float32bits(float32(f)))
	}
	return b, nil
}

// MarshalBinary returns the packed block. It implements encoding.BinaryMarshaler.
func (s Settings) MarshalBinary() ([]byte, error) {
	return s.AppendBinary(make([]byte, 0, SettingsSize))
}

// String implements fmt.Stringer.
func (s Settings) String() string {
	return fmt.Sprintf("corner=(%g, %g) region=%gx%g res=%s",
		real(s.Corner), imag(s.Corner), s.RegionWidth, s.RegionHeight, s.Resolution)
}
