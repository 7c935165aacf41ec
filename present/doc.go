// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package present hands finished Mandelbrot frames to a gogpu window.
//
// A [Canvas] converts the one-channel intensity image produced by the
// renderers into the RGBA layout gogpu textures expect, optionally stamps a
// status line over it, and draws it through a [gpucontext.TextureDrawer].
//
// Typical use inside gogpu's draw callback:
//
//	canvas := present.New()
//
//	app.OnDraw(func(dc *gogpu.Context) {
//	    _ = authority.OnResize(dc.Width(), dc.Height())
//	    _, err := v.RenderFrame(ctx, canvas.Update)
//	    if err == nil {
//	        _ = canvas.RenderTo(dc.AsTextureDrawer())
//	    }
//	})
//
// The GPU texture is created lazily on the first RenderTo, because only the
// draw context can create textures. When the resolution changes the old
// texture is kept until its replacement has been uploaded, since in-flight
// command buffers may still sample it.
//
// Canvas is not safe for concurrent use; call it from the frame loop.
package present
