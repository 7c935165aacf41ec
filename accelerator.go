package mandelbrot

import (
	"errors"
	"sync"
)

// ErrFallbackToCPU indicates the accelerator cannot evaluate this frame.
// The caller should transparently fall back to the software renderer.
var ErrFallbackToCPU = errors.New("mandelbrot: falling back to CPU rendering")

// IntensityTarget is the pixel buffer an accelerator writes into.
// Pix holds one gray level per pixel, rows laid out Stride bytes apart,
// Width x Height physical pixels.
type IntensityTarget struct {
	Pix           []uint8
	Width, Height int
	Stride        int
}

// Resolution returns the target dimensions.
func (t IntensityTarget) Resolution() Resolution {
	return Resolution{Width: t.Width, Height: t.Height}
}

// Accelerator evaluates a whole frame on a parallel device (typically a GPU
// compute queue).
//
// Implementations are provided by backend packages and opted into via
// blank import:
//
//	import _ "github.com/gogpu/mandelbrot/gpu"
//
// An accelerator must produce exactly the levels Gray would produce for each
// pixel's PixelToPoint sample, up to single-precision rounding.
type Accelerator interface {
	// Name returns the accelerator name (e.g., "wgpu-compute").
	Name() string

	// Init acquires device resources. Called once during registration.
	Init() error

	// Close releases device resources.
	Close()

	// Evaluate writes Gray(EscapeTime(PixelToPoint(x, y, s), limit), limit)
	// for every pixel of dst. dst must match s.Resolution.
	// Returns ErrFallbackToCPU when the device is unavailable.
	Evaluate(dst IntensityTarget, s Settings, limit int) error
}

// DeviceProviderAware is implemented by accelerators that can share a GPU
// device with the host window instead of opening their own.
type DeviceProviderAware interface {
	SetDeviceProvider(provider any) error
}

var (
	accelMu sync.RWMutex
	accel   Accelerator
)

// RegisterAccelerator registers the accelerator used by render.GPURenderer.
//
// Only one accelerator can be registered; a later call replaces and closes
// the previous one. Init is called first and a failing Init leaves the
// registry unchanged.
func RegisterAccelerator(a Accelerator) error {
	if a == nil {
		return errors.New("mandelbrot: accelerator must not be nil")
	}
	if err := a.Init(); err != nil {
		return err
	}
	propagateLogger(a, Logger())

	accelMu.Lock()
	old := accel
	accel = a
	accelMu.Unlock()
	if old != nil && old != a {
		old.Close()
	}
	return nil
}

// RegisteredAccelerator returns the registered accelerator, or nil.
func RegisteredAccelerator() Accelerator {
	accelMu.RLock()
	a := accel
	accelMu.RUnlock()
	return a
}

// CloseAccelerator closes and unregisters the current accelerator.
// Call it before the shared GPU device is destroyed.
func CloseAccelerator() {
	accelMu.Lock()
	a := accel
	accel = nil
	accelMu.Unlock()
	if a != nil {
		a.Close()
	}
}

// SetAcceleratorDeviceProvider passes a host device provider to the
// registered accelerator. No-op when nothing is registered or the
// accelerator cannot share devices.
func SetAcceleratorDeviceProvider(provider any) error {
	a := RegisteredAccelerator()
	if a == nil {
		return nil
	}
	if dpa, ok := a.(DeviceProviderAware); ok {
		return dpa.SetDeviceProvider(provider)
	}
	return nil
}
