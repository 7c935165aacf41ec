// Command mandelview shows the Mandelbrot set in a GPU window.
//
// Keys: R reset, G GPU renderer, C CPU renderer, W/A/S/D pan, E/Q zoom in
// and out, I/U double and halve the iteration limit, O toggle the status
// line.
//
// Mouse: the wheel zooms and dragging with the left button pans. Input is
// ignored while the window is unfocused.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/gogpu"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/mandelbrot"
	_ "github.com/gogpu/mandelbrot/gpu" // Register the compute accelerator
	"github.com/gogpu/mandelbrot/present"
	"github.com/gogpu/mandelbrot/render"
	"github.com/gogpu/mandelbrot/surface"
	"github.com/gogpu/mandelbrot/viewer"
)

func main() {
	cfg, cli, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatalf("mandelview: %v", err)
	}

	level := slog.LevelInfo
	if cli.verbose {
		level = slog.LevelDebug
	}
	mandelbrot.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(context.Background(), cfg); err != nil {
		log.Fatalf("mandelview: %v", err)
	}
}

func run(ctx context.Context, cfg viewer.Config) error {
	logger := mandelbrot.Logger()

	// Continuous rendering; the viewer skips sampling when nothing changed.
	app := gogpu.NewApp(gogpu.DefaultConfig().
		WithTitle(cfg.Title).
		WithSize(cfg.Width, cfg.Height).
		WithContinuousRender(true))

	auth := surface.New(newTarget)
	canvas := present.New(present.WithOverlay(cfg.Overlay))
	keys := newControls(cfg.Overlay)

	var (
		v           *viewer.Viewer
		gpuRenderer *render.GPURenderer
	)

	app.OnDraw(func(dc *gogpu.Context) {
		if err := syncSurface(auth, dc); err != nil {
			logger.Warn("mandelview: resize failed", "err", err)
			return
		}

		if v == nil {
			var err error
			gpuRenderer, v, err = newViewer(app, auth, cfg)
			if err != nil {
				logger.Error("mandelview: viewer setup failed", "err", err)
				app.Quit()
				return
			}
			keys.viewer.Store(v)
		}

		canvas.SetOverlay(keys.overlay.Load())
		if _, err := v.RenderFrame(ctx, canvas.Update); err != nil {
			if !errors.Is(err, surface.ErrSuspended) {
				logger.Warn("mandelview: frame failed", "err", err)
			}
			return
		}
		if err := canvas.RenderTo(dc.AsTextureDrawer()); err != nil {
			logger.Warn("mandelview: present failed", "err", err)
		}
	})

	events := app.EventSource()
	events.OnKeyPress(func(key gpucontext.Key, _ gpucontext.Modifiers) {
		keys.handle(key)
	})
	events.OnScroll(func(_, dy float64) {
		keys.scroll(dy)
	})
	events.OnMousePress(func(button gpucontext.MouseButton, x, y float64) {
		keys.press(button, x, y)
	})
	events.OnMouseRelease(func(button gpucontext.MouseButton, _, _ float64) {
		keys.release(button)
	})
	events.OnMouseMove(func(x, y float64) {
		keys.move(x, y)
	})
	events.OnFocus(func(focused bool) {
		keys.focus(focused)
	})

	app.OnClose(func() {
		_ = canvas.Close()
		if v != nil {
			v.Close()
		}
		if gpuRenderer != nil {
			gpuRenderer.Close()
		}
		_ = auth.Close()
		// Drains the compute queue while the shared device is still alive.
		mandelbrot.CloseAccelerator()
	})

	return app.Run()
}

func newTarget(r mandelbrot.Resolution) (surface.Resource, error) {
	return render.NewPixmapTarget(r), nil
}

// framebufferSizer reports the drawable size in device pixels.
// *gogpu.Context implements it.
type framebufferSizer interface {
	FramebufferSize() (width, height int)
}

// syncSurface resizes auth to the framebuffer. On HiDPI displays the
// framebuffer is larger than the window's logical size. A zero size
// suspends rendering.
func syncSurface(auth *surface.Authority, fb framebufferSizer) error {
	w, h := fb.FramebufferSize()
	return auth.OnResize(w, h)
}

// newViewer creates the GPU renderer on the window's device and a viewer
// using it. Without a device the GPU renderer falls back to the CPU.
func newViewer(app *gogpu.App, auth *surface.Authority, cfg viewer.Config) (*render.GPURenderer, *viewer.Viewer, error) {
	var handle render.DeviceHandle = render.NullDeviceHandle{}
	if provider := app.GPUContextProvider(); provider != nil {
		handle = provider
	}

	r, err := render.NewGPURenderer(handle, render.WithWorkers(cfg.Workers))
	if err != nil {
		return nil, nil, err
	}
	v, err := viewer.New(auth, append(cfg.Options(), viewer.WithRenderer(r))...)
	if err != nil {
		r.Close()
		return nil, nil, err
	}
	return r, v, nil
}
