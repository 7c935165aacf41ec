//go:build !nogpu

// Package gpu registers the wgpu/hal compute accelerator.
//
// Import this package to evaluate frames on the GPU:
//
//	import _ "github.com/gogpu/mandelbrot/gpu"
//
// If GPU initialization fails (no Vulkan device available), the accelerator
// still registers and every frame falls back to the CPU renderer.
package gpu

import (
	"github.com/gogpu/mandelbrot"
	gpuimpl "github.com/gogpu/mandelbrot/internal/gpu"
)

func init() {
	if err := mandelbrot.RegisterAccelerator(&gpuimpl.Accelerator{}); err != nil {
		mandelbrot.Logger().Warn("GPU accelerator not available", "err", err)
	}
}

// SetDeviceProvider makes the accelerator run on a shared GPU device from
// an external provider (e.g., gogpu) instead of its own.
//
// The provider should be a gpucontext.DeviceProvider that also exposes
// HalDevice() and HalQueue() for direct HAL access.
func SetDeviceProvider(provider any) error {
	return mandelbrot.SetAcceleratorDeviceProvider(provider)
}
