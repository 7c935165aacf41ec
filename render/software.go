// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"context"
	"sync/atomic"

	"github.com/gogpu/mandelbrot"
	"github.com/gogpu/mandelbrot/internal/parallel"
)

// SoftwareRenderer evaluates the escape-time field on the CPU.
//
// The frame is cut into tiles (64x64 by default) that run on a
// work-stealing worker pool; each tile writes only its own pixels, so no
// locking is needed on the grid. Cancellation is checked once per tile row.
//
// Example:
//
//	renderer := render.NewSoftwareRenderer()
//	defer renderer.Close()
//	target := render.NewPixmapTarget(mandelbrot.Resolution{Width: 800, Height: 600})
//	s := mandelbrot.NewSettings(mandelbrot.DefaultViewport, target.Resolution())
//	err := renderer.Render(ctx, target, s, mandelbrot.DefaultMaxIterations)
type SoftwareRenderer struct {
	pool     *parallel.WorkerPool
	tileSize int
}

// SoftwareOption configures a SoftwareRenderer.
type SoftwareOption func(*softwareOptions)

type softwareOptions struct {
	workers  int
	tileSize int
}

// WithWorkers sets the number of worker goroutines.
// Zero or negative means GOMAXPROCS.
func WithWorkers(n int) SoftwareOption {
	return func(o *softwareOptions) {
		o.workers = n
	}
}

// WithTileSize sets the tile edge in pixels.
// Zero or negative means parallel.DefaultTileSize.
func WithTileSize(n int) SoftwareOption {
	return func(o *softwareOptions) {
		o.tileSize = n
	}
}

// NewSoftwareRenderer starts a CPU renderer and its worker pool.
// Call Close to stop the workers.
func NewSoftwareRenderer(opts ...SoftwareOption) *SoftwareRenderer {
	o := softwareOptions{tileSize: parallel.DefaultTileSize}
	for _, opt := range opts {
		opt(&o)
	}
	if o.tileSize <= 0 {
		o.tileSize = parallel.DefaultTileSize
	}
	return &SoftwareRenderer{
		pool:     parallel.NewWorkerPool(o.workers),
		tileSize: o.tileSize,
	}
}

// Name returns "software".
func (r *SoftwareRenderer) Name() string { return "software" }

// Workers returns the size of the worker pool.
func (r *SoftwareRenderer) Workers() int { return r.pool.Workers() }

// Render writes mandelbrot.GrayAt for every pixel of target.
func (r *SoftwareRenderer) Render(ctx context.Context, target RenderTarget, s mandelbrot.Settings, limit int) error {
	if done, err := checkFrame(target, s, limit); done || err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	pix := target.Pixels()
	stride := target.Stride()
	tiles := parallel.SplitTiles(s.Resolution.Width, s.Resolution.Height, r.tileSize, r.tileSize)

	var cancelled atomic.Bool
	r.pool.ForEach(len(tiles), func(i int) {
		tile := tiles[i]
		for y := tile.Min.Y; y < tile.Max.Y; y++ {
			if cancelled.Load() {
				return
			}
			if ctx.Err() != nil {
				cancelled.Store(true)
				return
			}
			row := pix[y*stride:]
			for x := tile.Min.X; x < tile.Max.X; x++ {
				row[x] = mandelbrot.GrayAt(x, y, s, limit)
			}
		}
	})

	if cancelled.Load() {
		return ctx.Err()
	}
	return nil
}

// Close stops the worker pool. Close is safe to call multiple times.
// Render keeps working after Close, on the calling goroutine.
func (r *SoftwareRenderer) Close() {
	r.pool.Close()
}

// Ensure SoftwareRenderer implements Renderer.
var _ Renderer = (*SoftwareRenderer)(nil)
