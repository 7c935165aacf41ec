// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"image"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/mandelbrot"
)

// RenderTarget is where a frame's intensities go.
//
// Pixels holds one gray level per physical pixel, rows Stride bytes apart,
// top row first. A target never changes size: the surface authority
// destroys it and creates a new one instead.
type RenderTarget interface {
	// Resolution returns the target size in physical pixels.
	Resolution() mandelbrot.Resolution

	// Format returns the pixel format of the target.
	Format() gputypes.TextureFormat

	// Pixels returns direct access to the intensity grid.
	// Returns nil once the target has been destroyed.
	Pixels() []uint8

	// Stride returns the number of bytes per row.
	Stride() int
}

// PixmapTarget is a CPU-backed render target using *image.Gray.
//
// It is the resource the surface authority creates for every physical size
// the window reports.
//
// Example:
//
//	target := render.NewPixmapTarget(mandelbrot.Resolution{Width: 800, Height: 600})
//	renderer.Render(ctx, target, settings, limit)
//	img := target.Image()
type PixmapTarget struct {
	res mandelbrot.Resolution
	img *image.Gray
}

// NewPixmapTarget allocates a target of resolution r.
func NewPixmapTarget(r mandelbrot.Resolution) *PixmapTarget {
	return &PixmapTarget{
		res: r,
		img: image.NewGray(image.Rect(0, 0, max(r.Width, 0), max(r.Height, 0))),
	}
}

// NewPixmapTargetFromImage wraps an existing *image.Gray as a render target.
// The image is used directly without copying.
func NewPixmapTargetFromImage(img *image.Gray) *PixmapTarget {
	b := img.Bounds()
	return &PixmapTarget{
		res: mandelbrot.Resolution{Width: b.Dx(), Height: b.Dy()},
		img: img,
	}
}

// Resolution returns the target size. It stays valid after Destroy.
func (t *PixmapTarget) Resolution() mandelbrot.Resolution {
	return t.res
}

// Format returns gputypes.TextureFormatR8Unorm.
func (t *PixmapTarget) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatR8Unorm
}

// Pixels returns the intensity grid, or nil after Destroy.
func (t *PixmapTarget) Pixels() []uint8 {
	if t.img == nil {
		return nil
	}
	return t.img.Pix
}

// Stride returns the number of bytes per row.
func (t *PixmapTarget) Stride() int {
	if t.img == nil {
		return 0
	}
	return t.img.Stride
}

// Image returns the underlying *image.Gray, or nil after Destroy.
// The returned image shares memory with the target.
func (t *PixmapTarget) Image() *image.Gray {
	return t.img
}

// Intensity returns the gray level at (x, y), or 0 outside the target.
func (t *PixmapTarget) Intensity(x, y int) uint8 {
	if t.img == nil || !t.res.Contains(x, y) {
		return 0
	}
	return t.img.Pix[y*t.img.Stride+x]
}

// Bytes returns the memory held by the pixel grid.
func (t *PixmapTarget) Bytes() uint64 {
	if t.img == nil {
		return 0
	}
	return uint64(len(t.img.Pix))
}

// Destroy releases the pixel grid. The target must not be rendered to again.
func (t *PixmapTarget) Destroy() {
	t.img = nil
}

// Destroyed reports whether Destroy has been called.
func (t *PixmapTarget) Destroyed() bool {
	return t.img == nil
}

// Ensure PixmapTarget implements RenderTarget.
var _ RenderTarget = (*PixmapTarget)(nil)

// intensityTarget exposes a target to an accelerator.
func intensityTarget(t RenderTarget) mandelbrot.IntensityTarget {
	r := t.Resolution()
	return mandelbrot.IntensityTarget{
		Pix:    t.Pixels(),
		Width:  r.Width,
		Height: r.Height,
		Stride: t.Stride(),
	}
}
