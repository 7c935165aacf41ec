// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	"github.com/gogpu/mandelbrot"
)

// Errors returned by the Authority.
var (
	// ErrSuspended is returned by WithTarget while the surface has zero area
	// or no resource could be created for the current size.
	ErrSuspended = errors.New("surface: suspended")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("surface: closed")

	// ErrResourceCreation wraps Factory failures.
	ErrResourceCreation = errors.New("surface: resource creation failed")
)

// Resource is a size-dependent drawing resource: a CPU pixmap, a storage
// buffer, a texture. Its size is fixed at creation.
type Resource interface {
	// Resolution returns the size the resource was created with.
	Resolution() mandelbrot.Resolution

	// Destroy releases the resource. It is called exactly once.
	Destroy()
}

// Factory creates a resource of resolution r. r is never zero-sized.
type Factory func(r mandelbrot.Resolution) (Resource, error)

// Descriptor describes the live render target.
type Descriptor struct {
	// Resolution is the most recently reported physical size.
	Resolution mandelbrot.Resolution

	// Generation counts resource creations; it changes with every swap.
	Generation uint64
}

// sizedResource is implemented by resources that can report their memory.
type sizedResource interface {
	Bytes() uint64
}

// Authority owns the render target and recreates it on every size change.
//
// Thread safety: all methods are safe for concurrent use. WithTarget holds
// the frame lock while its callback runs; OnResize waits for it.
type Authority struct {
	factory Factory

	// mu serialises resource swaps against frames.
	mu       sync.Mutex
	resource Resource
	desc     Descriptor
	closed   bool

	// pending holds the latest QueueResize size not applied yet.
	pending atomic.Pointer[mandelbrot.Resolution]

	// snapshot mirrors desc for lock-free readers.
	snapshot  atomic.Pointer[Descriptor]
	suspended atomic.Bool
}

// New creates an Authority that builds resources with factory.
// Without WithInitialSize the authority starts suspended and waits for
// the first resize report.
//
// New panics if factory is nil.
func New(factory Factory, opts ...Option) *Authority {
	if factory == nil {
		panic("surface: nil factory")
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	a := &Authority{factory: factory}
	a.snapshot.Store(&Descriptor{})
	a.suspended.Store(true)
	if o.initial != nil {
		a.pending.Store(o.initial)
	}
	return a
}

// OnResize reports a new physical size and applies it immediately.
//
// It waits for an in-flight frame, destroys the current resource and
// creates one of the new size. Reporting the current size is a no-op.
// A zero area suspends rendering without calling the factory and returns nil.
// Factory errors wrap ErrResourceCreation; the authority stays suspended
// until the next report.
func (a *Authority) OnResize(width, height int) error {
	r := physical(width, height)

	a.mu.Lock()
	defer a.mu.Unlock()

	// A direct report supersedes anything queued before it.
	a.pending.Store(nil)
	return a.applyLocked(r)
}

// QueueResize records a new physical size without blocking.
// Only the latest queued size is kept; it is applied by the next WithTarget.
func (a *Authority) QueueResize(width, height int) {
	r := physical(width, height)
	a.pending.Store(&r)
}

// WithTarget applies any queued size, then calls fn with the live resource
// and its descriptor while holding the frame lock. fn must not retain the
// resource after returning.
//
// Returns ErrClosed after Close and ErrSuspended while there is no
// resource. Otherwise it returns fn's error.
func (a *Authority) WithTarget(fn func(Resource, Descriptor) error) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return ErrClosed
	}
	if r := a.pending.Swap(nil); r != nil {
		if err := a.applyLocked(*r); err != nil {
			return err
		}
	}
	if a.resource == nil {
		mandelbrot.Logger().Debug("surface: frame skipped", "resolution", a.desc.Resolution)
		return ErrSuspended
	}
	if got := a.resource.Resolution(); got != a.desc.Resolution {
		panic(fmt.Sprintf("surface: resource is %s but descriptor says %s", got, a.desc.Resolution))
	}
	return fn(a.resource, a.desc)
}

// CurrentResolution returns the most recently applied physical size.
// It does not wait for an in-flight frame.
func (a *Authority) CurrentResolution() mandelbrot.Resolution {
	return a.snapshot.Load().Resolution
}

// Descriptor returns the descriptor of the live resource.
// It does not wait for an in-flight frame.
func (a *Authority) Descriptor() Descriptor {
	return *a.snapshot.Load()
}

// Suspended reports whether the authority currently holds no resource.
func (a *Authority) Suspended() bool {
	return a.suspended.Load()
}

// Close destroys the resource. Later calls to OnResize and WithTarget
// return ErrClosed. Close is safe to call multiple times.
func (a *Authority) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return nil
	}
	a.closed = true
	a.pending.Store(nil)
	a.destroyLocked()
	a.suspended.Store(true)
	return nil
}

func (a *Authority) applyLocked(r mandelbrot.Resolution) error {
	if a.closed {
		return ErrClosed
	}
	if r == a.desc.Resolution && (a.resource != nil || r.IsZero()) {
		return nil
	}

	log := mandelbrot.Logger()
	a.destroyLocked()
	a.desc.Resolution = r
	a.publishLocked()

	if r.IsZero() {
		a.suspended.Store(true)
		log.Debug("surface: suspended", "resolution", r)
		return nil
	}

	res, err := a.factory(r)
	if err != nil {
		a.suspended.Store(true)
		log.Warn("surface: resource creation failed", "resolution", r, "err", err)
		return fmt.Errorf("%w: %s: %w", ErrResourceCreation, r, err)
	}
	if got := res.Resolution(); got != r {
		panic(fmt.Sprintf("surface: factory returned %s for %s", got, r))
	}

	a.resource = res
	a.desc.Generation++
	a.publishLocked()
	a.suspended.Store(false)

	if sr, ok := res.(sizedResource); ok {
		log.Info("surface: render target recreated",
			"resolution", r, "generation", a.desc.Generation, "size", humanize.Bytes(sr.Bytes()))
	} else {
		log.Info("surface: render target recreated", "resolution", r, "generation", a.desc.Generation)
	}
	return nil
}

func (a *Authority) destroyLocked() {
	if a.resource == nil {
		return
	}
	a.resource.Destroy()
	a.resource = nil
}

func (a *Authority) publishLocked() {
	d := a.desc
	a.snapshot.Store(&d)
}

// physical normalises a reported size; negative extents count as zero.
func physical(width, height int) mandelbrot.Resolution {
	return mandelbrot.Resolution{Width: max(width, 0), Height: max(height, 0)}
}
