// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render turns a settings block into one gray level per physical
// pixel.
//
// # Core Interfaces
//
//   - RenderTarget: a row-major 8-bit intensity grid sized in physical pixels
//   - Renderer: fills a target from a mandelbrot.Settings block
//   - DeviceHandle: GPU device access from the host application
//
// # Renderer Implementations
//
//   - SoftwareRenderer: evaluates 64x64 tiles on a work-stealing worker pool
//   - GPURenderer: dispatches the registered compute accelerator and falls
//     back to SoftwareRenderer when the device cannot serve the frame
//
// Both paths write exactly mandelbrot.GrayAt for every pixel, so a frame
// looks the same whichever path produced it (up to the accelerator's
// single-precision arithmetic).
//
// # Usage
//
//	sw := render.NewSoftwareRenderer(render.WithWorkers(4))
//	defer sw.Close()
//
//	target := render.NewPixmapTarget(mandelbrot.Resolution{Width: 1024, Height: 768})
//	s := mandelbrot.NewSettings(mandelbrot.ReferenceViewport, target.Resolution())
//	if err := sw.Render(ctx, target, s, 255); err != nil {
//	    log.Fatal(err)
//	}
//	img := target.Image() // *image.Gray
//
// Integration with gogpu, sharing the window's device with the accelerator:
//
//	import _ "github.com/gogpu/mandelbrot/gpu"
//
//	app.OnDraw(func(dc *gogpu.Context) {
//	    if renderer == nil {
//	        renderer, _ = render.NewGPURenderer(app.GPUContextProvider())
//	    }
//	    ...
//	})
package render
