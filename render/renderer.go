// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"context"
	"errors"
	"fmt"

	"github.com/gogpu/mandelbrot"
)

// Errors returned by renderers.
var (
	// ErrNilTarget is returned when Render is called without a target or
	// with a destroyed one.
	ErrNilTarget = errors.New("render: nil target")

	// ErrTargetMismatch is returned when the target's resolution differs
	// from the settings block's. It means the settings were packed from a
	// stale size.
	ErrTargetMismatch = errors.New("render: target resolution does not match settings")
)

// Renderer fills a render target with the escape-time field.
//
// For every pixel (x, y) of target the renderer writes
// mandelbrot.GrayAt(x, y, s, limit). Render returns after the whole grid
// has been written, or with ctx.Err() when ctx is cancelled mid-frame
// (the grid is then partially updated).
//
// Thread Safety: a Renderer may be shared, but a target must not be
// rendered by two calls at once.
type Renderer interface {
	// Render writes one frame into target.
	Render(ctx context.Context, target RenderTarget, s mandelbrot.Settings, limit int) error

	// Name identifies the path ("software", "gpu").
	Name() string
}

// checkFrame validates a Render call. A zero-area frame is reported as
// done=true with no error: there is nothing to sample.
func checkFrame(target RenderTarget, s mandelbrot.Settings, limit int) (done bool, err error) {
	if target == nil || (target.Pixels() == nil && !target.Resolution().IsZero()) {
		return false, ErrNilTarget
	}
	if err := mandelbrot.ValidateLimit(limit); err != nil {
		return false, err
	}
	if got := target.Resolution(); got != s.Resolution {
		return false, fmt.Errorf("%w: target %s, settings %s", ErrTargetMismatch, got, s.Resolution)
	}
	if s.Resolution.IsZero() {
		return true, nil
	}
	return false, nil
}
