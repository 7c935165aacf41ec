// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package surface keeps the render target sized to the window's physical
// pixels.
//
// The window reports its physical size (logical size times the scale factor
// of the monitor hosting it) on every resize and every scale-factor change.
// The Authority forwards each new size to a Factory and owns the resulting
// Resource, so at frame time the target always has exactly the most
// recently reported size.
//
// # Invalidate, Never Patch
//
// A resource is never resized in place. On every size change the old
// resource is destroyed and a new one created; a frame therefore sees
// either the old resource with the old size or the new one with the new
// size, never a mix. The swap and the frame are serialised by one lock.
//
// # Degenerate Sizes
//
// A minimized window reports a zero area. The Authority then holds no
// resource, WithTarget returns ErrSuspended, and the Factory is never asked
// for a zero-sized resource. The next non-zero size resumes rendering.
//
// # Usage
//
//	auth := surface.New(func(r mandelbrot.Resolution) (surface.Resource, error) {
//	    return render.NewPixmapTarget(r), nil
//	}, surface.WithInitialSize(1024, 768))
//	defer auth.Close()
//
//	// Event loop, whenever the window reports a size:
//	auth.OnResize(physicalWidth, physicalHeight)
//
//	// Every frame:
//	err := auth.WithTarget(func(res surface.Resource, d surface.Descriptor) error {
//	    target := res.(*render.PixmapTarget)
//	    return renderer.Render(ctx, target, mandelbrot.NewSettings(v, d.Resolution), limit)
//	})
//	if errors.Is(err, surface.ErrSuspended) {
//	    // minimized, skip the frame
//	}
//
// Resize reports coming from another goroutine than the frame loop should
// use QueueResize: it never blocks, keeps only the latest size, and the
// size is applied at the start of the next frame.
package surface
