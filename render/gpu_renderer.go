// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/mandelbrot"
)

// GPURenderer evaluates frames on the registered compute accelerator.
//
// The accelerator is provided by a backend package and opted into with a
// blank import of github.com/gogpu/mandelbrot/gpu. When nothing is
// registered, or the accelerator returns mandelbrot.ErrFallbackToCPU, the
// frame is rendered by an internal SoftwareRenderer instead. The fallback is
// logged once per cause at Warn level.
//
// Example:
//
//	app.OnDraw(func(dc *gogpu.Context) {
//	    if renderer == nil {
//	        renderer, _ = render.NewGPURenderer(app.GPUContextProvider())
//	    }
//	    renderer.Render(ctx, target, settings, limit)
//	})
type GPURenderer struct {
	// handle is the GPU device handle from the host application.
	handle DeviceHandle

	// softwareFallback renders frames the accelerator cannot.
	softwareFallback *SoftwareRenderer

	mu       sync.Mutex
	lastPath string
	warned   map[string]bool
}

// NewGPURenderer creates a GPU renderer using the host's device.
//
// Pass NullDeviceHandle{} on hosts without a shared device; the accelerator
// then opens its own. A handle the accelerator cannot share is logged and
// ignored. Options configure the software fallback.
// Returns an error for a nil handle.
func NewGPURenderer(handle DeviceHandle, opts ...SoftwareOption) (*GPURenderer, error) {
	if handle == nil {
		return nil, errors.New("render: nil device handle")
	}
	if !isNullHandle(handle) {
		if err := mandelbrot.SetAcceleratorDeviceProvider(handle); err != nil {
			mandelbrot.Logger().Warn("render: accelerator keeps its own device", "err", err)
		}
	}
	return &GPURenderer{
		handle:           handle,
		softwareFallback: NewSoftwareRenderer(opts...),
		warned:           make(map[string]bool),
	}, nil
}

// Name returns "gpu".
func (r *GPURenderer) Name() string { return "gpu" }

// Render writes one frame into target on the accelerator, or on the CPU
// when the accelerator cannot serve it. Errors other than
// mandelbrot.ErrFallbackToCPU are returned unchanged.
func (r *GPURenderer) Render(ctx context.Context, target RenderTarget, s mandelbrot.Settings, limit int) error {
	if done, err := checkFrame(target, s, limit); done || err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	accel := mandelbrot.RegisteredAccelerator()
	if accel == nil {
		r.fallback("no accelerator registered", nil)
		return r.softwareFallback.Render(ctx, target, s, limit)
	}

	err := accel.Evaluate(intensityTarget(target), s, limit)
	switch {
	case err == nil:
		r.setPath(accel.Name())
		return nil
	case errors.Is(err, mandelbrot.ErrFallbackToCPU):
		r.fallback(accel.Name(), err)
		return r.softwareFallback.Render(ctx, target, s, limit)
	default:
		return fmt.Errorf("render: %s: %w", accel.Name(), err)
	}
}

// LastPath returns the name of the path that produced the last frame:
// the accelerator's name or "software".
func (r *GPURenderer) LastPath() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastPath
}

// DeviceHandle returns the underlying device handle.
func (r *GPURenderer) DeviceHandle() DeviceHandle {
	return r.handle
}

// Close stops the software fallback. The accelerator is owned by the
// registry; see mandelbrot.CloseAccelerator.
func (r *GPURenderer) Close() {
	r.softwareFallback.Close()
}

func (r *GPURenderer) setPath(name string) {
	r.mu.Lock()
	r.lastPath = name
	r.mu.Unlock()
}

func (r *GPURenderer) fallback(cause string, err error) {
	r.mu.Lock()
	r.lastPath = r.softwareFallback.Name()
	first := !r.warned[cause]
	r.warned[cause] = true
	r.mu.Unlock()

	if first {
		mandelbrot.Logger().Warn("render: falling back to CPU", "cause", cause, "err", err)
	}
}

// Ensure GPURenderer implements Renderer.
var _ Renderer = (*GPURenderer)(nil)
