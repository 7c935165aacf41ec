// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gogpu/mandelbrot"
)

type fakeResource struct {
	res       mandelbrot.Resolution
	destroyed atomic.Int32
}

func (f *fakeResource) Resolution() mandelbrot.Resolution { return f.res }
func (f *fakeResource) Destroy()                          { f.destroyed.Add(1) }
func (f *fakeResource) Bytes() uint64                     { return uint64(f.res.Pixels()) }

// recorder is a Factory that remembers every resource it created.
type recorder struct {
	mu      sync.Mutex
	created []*fakeResource
	fail    error
}

func (r *recorder) factory(res mandelbrot.Resolution) (Resource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return nil, r.fail
	}
	f := &fakeResource{res: res}
	r.created = append(r.created, f)
	return f, nil
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.created)
}

func (r *recorder) last() *fakeResource {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.created[len(r.created)-1]
}

func frameResolution(t *testing.T, a *Authority) mandelbrot.Resolution {
	t.Helper()
	var got mandelbrot.Resolution
	err := a.WithTarget(func(res Resource, d Descriptor) error {
		if res.Resolution() != d.Resolution {
			t.Errorf("resource %v, descriptor %v", res.Resolution(), d.Resolution)
		}
		got = d.Resolution
		return nil
	})
	if err != nil {
		t.Fatalf("WithTarget() = %v", err)
	}
	return got
}

func TestNewPanicsOnNilFactory(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("New(nil) did not panic")
		}
	}()
	New(nil)
}

func TestAuthorityStartsSuspended(t *testing.T) {
	rec := &recorder{}
	a := New(rec.factory)
	defer a.Close()

	if !a.Suspended() {
		t.Error("Suspended() = false before any resize")
	}
	err := a.WithTarget(func(Resource, Descriptor) error { return nil })
	if !errors.Is(err, ErrSuspended) {
		t.Errorf("WithTarget() = %v, want ErrSuspended", err)
	}
	if rec.count() != 0 {
		t.Errorf("factory called %d times", rec.count())
	}
}

func TestAuthorityInitialSize(t *testing.T) {
	rec := &recorder{}
	a := New(rec.factory, WithInitialSize(1024, 768))
	defer a.Close()

	want := mandelbrot.Resolution{Width: 1024, Height: 768}
	if got := frameResolution(t, a); got != want {
		t.Errorf("frame resolution = %v, want %v", got, want)
	}
	if d := a.Descriptor(); d.Generation != 1 {
		t.Errorf("Generation = %d, want 1", d.Generation)
	}
}

// After any sequence of resizes the frame sees the last reported size.
func TestAuthorityResizeInvariant(t *testing.T) {
	rec := &recorder{}
	a := New(rec.factory)
	defer a.Close()

	sizes := [][2]int{{800, 600}, {1600, 1200}, {1600, 1200}, {2560, 1440}, {640, 480}}
	for _, sz := range sizes {
		if err := a.OnResize(sz[0], sz[1]); err != nil {
			t.Fatalf("OnResize(%v) = %v", sz, err)
		}
		want := mandelbrot.Resolution{Width: sz[0], Height: sz[1]}
		if got := frameResolution(t, a); got != want {
			t.Errorf("after OnResize(%v) frame = %v", sz, got)
		}
		if got := a.CurrentResolution(); got != want {
			t.Errorf("CurrentResolution() = %v, want %v", got, want)
		}
	}

	// The repeated size did not recreate anything.
	if rec.count() != 4 {
		t.Errorf("factory calls = %d, want 4", rec.count())
	}
}

// Moving a window to a monitor with a different scale factor changes only the
// physical size; the authority treats it like any other resize.
func TestAuthorityScaleFactorChange(t *testing.T) {
	rec := &recorder{}
	a := New(rec.factory)
	defer a.Close()

	logical := [2]int{800, 600}
	for _, scale := range []float64{1, 2, 1.5, 1} {
		w, h := int(float64(logical[0])*scale), int(float64(logical[1])*scale)
		if err := a.OnResize(w, h); err != nil {
			t.Fatal(err)
		}
		if got := frameResolution(t, a); got.Width != w || got.Height != h {
			t.Errorf("scale %v: frame = %v, want %dx%d", scale, got, w, h)
		}
	}
}

func TestAuthorityDestroysOldResource(t *testing.T) {
	rec := &recorder{}
	a := New(rec.factory)

	if err := a.OnResize(100, 100); err != nil {
		t.Fatal(err)
	}
	first := rec.last()
	if err := a.OnResize(200, 100); err != nil {
		t.Fatal(err)
	}
	second := rec.last()

	if first.destroyed.Load() != 1 {
		t.Errorf("old resource destroyed %d times, want 1", first.destroyed.Load())
	}
	if second.destroyed.Load() != 0 {
		t.Error("live resource destroyed")
	}

	if err := a.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("second Close() = %v", err)
	}
	if second.destroyed.Load() != 1 {
		t.Errorf("live resource destroyed %d times by Close, want 1", second.destroyed.Load())
	}
}

func TestAuthorityDegenerateResize(t *testing.T) {
	rec := &recorder{}
	a := New(rec.factory)
	defer a.Close()

	if err := a.OnResize(800, 600); err != nil {
		t.Fatal(err)
	}
	live := rec.last()

	for _, sz := range [][2]int{{0, 600}, {800, 0}, {0, 0}, {-5, 10}} {
		if err := a.OnResize(sz[0], sz[1]); err != nil {
			t.Errorf("OnResize(%v) = %v, want nil", sz, err)
		}
		if !a.Suspended() {
			t.Errorf("OnResize(%v): Suspended() = false", sz)
		}
		err := a.WithTarget(func(Resource, Descriptor) error {
			t.Error("frame ran while suspended")
			return nil
		})
		if !errors.Is(err, ErrSuspended) {
			t.Errorf("WithTarget() = %v, want ErrSuspended", err)
		}
	}
	if live.destroyed.Load() != 1 {
		t.Error("resource should be released while minimized")
	}
	if rec.count() != 1 {
		t.Errorf("factory called %d times, never expected for zero sizes", rec.count())
	}

	// Restoring resumes rendering.
	if err := a.OnResize(800, 600); err != nil {
		t.Fatal(err)
	}
	if got := frameResolution(t, a); got != (mandelbrot.Resolution{Width: 800, Height: 600}) {
		t.Errorf("frame after restore = %v", got)
	}
	if a.Suspended() {
		t.Error("Suspended() = true after restore")
	}
}

func TestAuthorityFactoryError(t *testing.T) {
	boom := errors.New("out of memory")
	rec := &recorder{}
	a := New(rec.factory)
	defer a.Close()

	if err := a.OnResize(100, 100); err != nil {
		t.Fatal(err)
	}
	rec.fail = boom
	err := a.OnResize(200, 200)
	if !errors.Is(err, ErrResourceCreation) || !errors.Is(err, boom) {
		t.Errorf("OnResize() = %v, want ErrResourceCreation wrapping cause", err)
	}
	if !a.Suspended() {
		t.Error("Suspended() = false after failed creation")
	}
	if rec.last().destroyed.Load() != 1 {
		t.Error("previous resource should already be destroyed")
	}

	// Same size again retries creation.
	rec.fail = nil
	if err := a.OnResize(200, 200); err != nil {
		t.Fatalf("retry OnResize() = %v", err)
	}
	if a.Suspended() {
		t.Error("Suspended() = true after successful retry")
	}
}

func TestAuthorityQueueResizeCoalesces(t *testing.T) {
	rec := &recorder{}
	a := New(rec.factory)
	defer a.Close()

	a.QueueResize(100, 100)
	a.QueueResize(300, 200)
	a.QueueResize(640, 480)

	if got := frameResolution(t, a); got != (mandelbrot.Resolution{Width: 640, Height: 480}) {
		t.Errorf("frame = %v, want 640x480", got)
	}
	if rec.count() != 1 {
		t.Errorf("factory calls = %d, want 1 (only the latest queued size)", rec.count())
	}
}

func TestAuthorityOnResizeSupersedesQueue(t *testing.T) {
	rec := &recorder{}
	a := New(rec.factory)
	defer a.Close()

	a.QueueResize(100, 100)
	if err := a.OnResize(500, 400); err != nil {
		t.Fatal(err)
	}
	if got := frameResolution(t, a); got != (mandelbrot.Resolution{Width: 500, Height: 400}) {
		t.Errorf("frame = %v, want 500x400", got)
	}
}

func TestAuthorityClosed(t *testing.T) {
	a := New((&recorder{}).factory, WithInitialSize(10, 10))
	a.Close()

	if err := a.OnResize(20, 20); !errors.Is(err, ErrClosed) {
		t.Errorf("OnResize() after Close = %v, want ErrClosed", err)
	}
	if err := a.WithTarget(func(Resource, Descriptor) error { return nil }); !errors.Is(err, ErrClosed) {
		t.Errorf("WithTarget() after Close = %v, want ErrClosed", err)
	}
}

func TestAuthorityCallbackError(t *testing.T) {
	a := New((&recorder{}).factory, WithInitialSize(10, 10))
	defer a.Close()

	boom := errors.New("render failed")
	if err := a.WithTarget(func(Resource, Descriptor) error { return boom }); !errors.Is(err, boom) {
		t.Errorf("WithTarget() = %v, want callback error", err)
	}
}

func TestAuthorityFactoryMismatchPanics(t *testing.T) {
	a := New(func(r mandelbrot.Resolution) (Resource, error) {
		return &fakeResource{res: mandelbrot.Resolution{Width: r.Width / 2, Height: r.Height}}, nil
	})
	defer func() {
		if recover() == nil {
			t.Error("factory returning the wrong size did not panic")
		}
	}()
	_ = a.OnResize(100, 100)
}

// Resizes racing with frames never expose a resource whose size differs
// from its descriptor, and every replaced resource is destroyed exactly once.
// Run with -race.
func TestAuthorityConcurrentResize(t *testing.T) {
	rec := &recorder{}
	a := New(rec.factory, WithInitialSize(64, 64))

	var frames sync.WaitGroup
	stop := make(chan struct{})

	frames.Add(1)
	go func() {
		defer frames.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			err := a.WithTarget(func(res Resource, d Descriptor) error {
				if f := res.(*fakeResource); f.destroyed.Load() != 0 {
					t.Error("frame observed a destroyed resource")
				}
				if res.Resolution() != d.Resolution {
					t.Errorf("resource %v, descriptor %v", res.Resolution(), d.Resolution)
				}
				return nil
			})
			if err != nil && !errors.Is(err, ErrSuspended) {
				t.Errorf("WithTarget() = %v", err)
			}
		}
	}()

	var writers sync.WaitGroup
	for i := range 4 {
		writers.Add(1)
		go func() {
			defer writers.Done()
			for j := range 200 {
				w, h := 32+(i*200+j)%97, 32+j%53
				if j%2 == 0 {
					a.QueueResize(w, h)
				} else if err := a.OnResize(w, h); err != nil {
					t.Errorf("OnResize() = %v", err)
				}
			}
		}()
	}
	writers.Wait()
	close(stop)
	frames.Wait()

	a.Close()
	rec.mu.Lock()
	defer rec.mu.Unlock()
	for i, f := range rec.created {
		if n := f.destroyed.Load(); n != 1 {
			t.Errorf("resource %d destroyed %d times, want 1", i, n)
		}
	}
}
