// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package present

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/mandelbrot"
	"github.com/gogpu/mandelbrot/render"
	"github.com/gogpu/mandelbrot/viewer"
)

// Common errors returned by Canvas operations.
var (
	// ErrCanvasClosed is returned when operations are attempted on a closed canvas.
	ErrCanvasClosed = errors.New("present: canvas is closed")

	// ErrNoTextureCreator is returned when the draw context cannot create textures.
	ErrNoTextureCreator = errors.New("present: draw context has no texture creator")

	// ErrNotTexture is returned when the created texture cannot be drawn.
	ErrNotTexture = errors.New("present: texture does not implement gpucontext.Texture")
)

// textureDestroyer matches the Destroy method of gogpu textures.
type textureDestroyer interface {
	Destroy()
}

// Option configures a Canvas.
type Option func(*Canvas)

// WithOverlay enables or disables the status line. Enabled by default.
func WithOverlay(enabled bool) Option {
	return func(c *Canvas) {
		c.showOverlay = enabled
	}
}

// Canvas keeps the RGBA copy of the latest frame and its GPU texture.
type Canvas struct {
	rgba        *image.RGBA
	overlay     *Overlay
	showOverlay bool

	texture    any  // created lazily in RenderTo
	oldTexture any  // previous texture awaiting deferred destruction
	recreate   bool // texture must be created at the current size
	dirty      bool // rgba changed since the last upload
	force      bool // re-convert even if the frame was reused

	lastSample sample
	closed     bool
}

// sample remembers the latest re-sampled frame so reused frames still show
// its timing.
type sample struct {
	elapsed time.Duration
	backend string
}

// New creates a Canvas.
func New(opts ...Option) *Canvas {
	c := &Canvas{
		overlay:     NewOverlay(),
		showOverlay: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Update copies target into the canvas. It has the viewer.PresentFunc
// signature and is meant to be passed to Viewer.RenderFrame.
//
// Frames that were not re-sampled are skipped unless the canvas itself
// changed (resize, overlay toggle).
func (c *Canvas) Update(target render.RenderTarget, f viewer.Frame) error {
	if c.closed {
		return ErrCanvasClosed
	}
	r := target.Resolution()
	if r.IsZero() {
		return nil
	}

	if c.rgba == nil || c.rgba.Rect.Dx() != r.Width || c.rgba.Rect.Dy() != r.Height {
		c.resize(r)
	} else if !f.Rendered && !c.force {
		return nil
	}
	c.force = false

	if f.Rendered {
		c.lastSample = sample{elapsed: f.Elapsed, backend: f.Backend}
	}

	GrayToRGBA(c.rgba, target)
	if c.showOverlay {
		shown := f
		shown.Elapsed = c.lastSample.elapsed
		if c.lastSample.backend != "" {
			shown.Backend = c.lastSample.backend
		}
		c.overlay.Draw(c.rgba, shown)
	}
	c.dirty = true
	return nil
}

// resize reallocates the RGBA buffer and schedules the texture for
// recreation. The current texture becomes the deferred old texture.
func (c *Canvas) resize(r mandelbrot.Resolution) {
	c.rgba = image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	if c.texture != nil {
		c.destroyOld()
		c.oldTexture = c.texture
		c.texture = nil
	}
	c.recreate = true
	mandelbrot.Logger().Debug("present: canvas resized", "resolution", r)
}

// SetOverlay toggles the status line. The next Update redraws the frame.
func (c *Canvas) SetOverlay(enabled bool) {
	if c.showOverlay != enabled {
		c.showOverlay = enabled
		c.force = true
	}
}

// OverlayEnabled reports whether the status line is drawn.
func (c *Canvas) OverlayEnabled() bool {
	return c.showOverlay
}

// Image returns the RGBA copy of the latest frame, or nil before the first
// Update. The image is reused by later updates.
func (c *Canvas) Image() *image.RGBA {
	return c.rgba
}

// IsDirty reports whether the RGBA copy has changes not yet uploaded.
func (c *Canvas) IsDirty() bool {
	return c.dirty
}

// RenderTo uploads pending changes and draws the frame at the window origin.
//
// The dc parameter should be obtained from gogpu.Context.AsTextureDrawer().
// Before the first Update there is nothing to draw and RenderTo returns nil.
func (c *Canvas) RenderTo(dc gpucontext.TextureDrawer) error {
	if c.closed {
		return ErrCanvasClosed
	}
	if c.rgba == nil {
		return nil
	}

	if c.texture == nil || c.recreate {
		creator := dc.TextureCreator()
		if creator == nil {
			return ErrNoTextureCreator
		}
		w, h := c.rgba.Rect.Dx(), c.rgba.Rect.Dy()
		tex, err := creator.NewTextureFromRGBA(w, h, c.rgba.Pix)
		if err != nil {
			return fmt.Errorf("present: NewTextureFromRGBA failed: %w", err)
		}
		c.texture = tex
		c.recreate = false
		c.dirty = false

		// Texture creation waits for the queue, so the old texture is idle.
		c.destroyOld()
	} else if c.dirty {
		if updater, ok := c.texture.(gpucontext.TextureUpdater); ok {
			if err := updater.UpdateData(c.rgba.Pix); err != nil {
				return fmt.Errorf("present: texture update failed: %w", err)
			}
		}
		c.dirty = false
	}

	gpuTex, ok := c.texture.(gpucontext.Texture)
	if !ok {
		return ErrNotTexture
	}
	return dc.DrawTexture(gpuTex, 0, 0)
}

func (c *Canvas) destroyOld() {
	if c.oldTexture == nil {
		return
	}
	if d, ok := c.oldTexture.(textureDestroyer); ok {
		d.Destroy()
	}
	c.oldTexture = nil
}

// Close releases the textures. Close is idempotent.
func (c *Canvas) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.destroyOld()
	if d, ok := c.texture.(textureDestroyer); ok {
		d.Destroy()
	}
	c.texture = nil
	c.rgba = nil
	return nil
}
