// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import "github.com/gogpu/mandelbrot"

// Option configures an Authority.
type Option func(*options)

type options struct {
	initial *mandelbrot.Resolution
}

// WithInitialSize queues a first physical size, applied by the first frame.
// Use it when the window size is known before the event loop starts.
func WithInitialSize(width, height int) Option {
	return func(o *options) {
		r := physical(width, height)
		o.initial = &r
	}
}
