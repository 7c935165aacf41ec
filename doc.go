// Package mandelbrot samples the Mandelbrot set's escape-time field at the
// physical resolution of a drawing surface.
//
// # Overview
//
// The package holds the pure, shared half of the viewer: the region of the
// complex plane being looked at ([Viewport]), the per-frame settings block
// handed to every rendering path ([Settings]), the pixel to complex-plane
// mapping ([PixelToPoint]) and the escape-time evaluator ([EscapeTime]) with
// its single intensity convention ([Intensity], [Gray]).
//
// Everything stateful lives in sub-packages:
//
//   - surface: keeps the render target sized to the window's physical pixels
//   - render: CPU and GPU renderers writing one gray level per pixel
//   - viewer: per-frame orchestration (settings packing, dirty tracking)
//   - present: hands finished frames to a gpucontext texture drawer
//   - gpu: blank import registering the wgpu/hal compute accelerator
//
// # Quick Start
//
//	v := mandelbrot.ReferenceViewport
//	s := mandelbrot.NewSettings(v, mandelbrot.Resolution{Width: 1024, Height: 768})
//	c := s.PointAt(512, 384)
//	n := mandelbrot.EscapeTime(c, mandelbrot.DefaultMaxIterations)
//	level := mandelbrot.Gray(n, mandelbrot.DefaultMaxIterations)
//
// # Coordinate System
//
// Pixels use screen conventions: origin at the top-left, y grows down.
// The complex plane uses the mathematical convention: the imaginary axis
// grows up. The mapper therefore subtracts the scaled row index from the
// corner's imaginary part. No aspect correction is applied; a region whose
// aspect differs from the surface is stretched.
//
// # Resolution
//
// Resolution is always physical (device) pixels: logical window size times
// the monitor scale factor. Feeding logical sizes to the mapper produces a
// zoom error on every monitor whose scale factor is not 1.
package mandelbrot

// Version information
const (
	// Version is the current version of the library
	Version = "0.3.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 3

	// VersionPatch is the patch version
	VersionPatch = 0
)
