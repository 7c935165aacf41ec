//go:build !nogpu

// Package gpu evaluates the escape-time field on the GPU.
//
// It runs a WGSL compute shader (shaders/mandelbrot.wgsl), compiled to
// SPIR-V with naga, through the gogpu/wgpu HAL. One invocation computes one
// physical pixel; the result is read back into the caller's gray grid.
//
// The package is internal. Applications enable it with
//
//	import _ "github.com/gogpu/mandelbrot/gpu"
//
// which registers an Accelerator with mandelbrot.RegisterAccelerator.
package gpu
