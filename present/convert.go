// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package present

import (
	"image"

	"github.com/gogpu/mandelbrot/render"
	xdraw "golang.org/x/image/draw"
)

// grayImage is implemented by targets backed by an *image.Gray.
type grayImage interface {
	Image() *image.Gray
}

// GrayToRGBA copies the intensity levels of src into dst as opaque gray
// pixels. dst must have the target's resolution.
func GrayToRGBA(dst *image.RGBA, src render.RenderTarget) {
	gray := asGray(src)
	xdraw.Copy(dst, dst.Rect.Min, gray, gray.Rect, xdraw.Src, nil)
}

func asGray(src render.RenderTarget) *image.Gray {
	if g, ok := src.(grayImage); ok {
		return g.Image()
	}
	r := src.Resolution()
	return &image.Gray{
		Pix:    src.Pixels(),
		Stride: src.Stride(),
		Rect:   image.Rect(0, 0, r.Width, r.Height),
	}
}
