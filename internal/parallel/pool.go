package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// WorkerPool runs frame tiles on a fixed set of goroutines.
//
// Each worker owns a queue; an idle worker steals from the others, which
// keeps cores busy when tiles inside the set take far longer than tiles
// that escape on the first iteration.
//
// Thread safety: WorkerPool is safe for concurrent use.
type WorkerPool struct {
	workers int

	// queues holds one buffered queue per worker.
	queues []chan func()

	done chan struct{}
	wg   sync.WaitGroup

	// closeMu orders Close after in-flight enqueues: ExecuteAll holds it
	// for reading while dealing items, Close for writing.
	closeMu sync.RWMutex

	// running is false once Close has been called.
	running atomic.Bool
}

// NewWorkerPool starts a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	depth := max(workers*4, 8)

	p := &WorkerPool{
		workers: workers,
		queues:  make([]chan func(), workers),
		done:    make(chan struct{}),
	}
	for i := range workers {
		p.queues[i] = make(chan func(), depth)
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}
	return p
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()
	own := p.queues[id]

	for {
		select {
		case <-p.done:
			drain(own)
			return
		case fn := <-own:
			run(fn)
			continue
		default:
		}

		if fn := p.steal(id); fn != nil {
			run(fn)
			continue
		}

		select {
		case <-p.done:
			drain(own)
			return
		case fn := <-own:
			run(fn)
		}
	}
}

func run(fn func()) {
	if fn != nil {
		fn()
	}
}

func drain(q chan func()) {
	for {
		select {
		case fn := <-q:
			run(fn)
		default:
			return
		}
	}
}

// steal takes one item from another worker's queue, or returns nil.
func (p *WorkerPool) steal(id int) func() {
	for i := 1; i < p.workers; i++ {
		select {
		case fn := <-p.queues[(id+i)%p.workers]:
			return fn
		default:
		}
	}
	return nil
}

// ExecuteAll runs every item and returns when all of them have finished.
// Items are dealt round-robin to the worker queues. After Close the items
// run on the calling goroutine.
func (p *WorkerPool) ExecuteAll(work []func()) {
	if len(work) == 0 {
		return
	}
	p.closeMu.RLock()
	if !p.running.Load() {
		p.closeMu.RUnlock()
		for _, fn := range work {
			run(fn)
		}
		return
	}

	// Workers keep consuming until Close, which cannot start before
	// every item below is queued.
	var pending sync.WaitGroup
	pending.Add(len(work))
	for i, fn := range work {
		p.queues[i%p.workers] <- func() {
			defer pending.Done()
			run(fn)
		}
	}
	p.closeMu.RUnlock()
	pending.Wait()
}

// ForEach calls fn(i) for every i in [0, n) on the pool and waits.
func (p *WorkerPool) ForEach(n int, fn func(i int)) {
	if n <= 0 {
		return
	}
	work := make([]func(), n)
	for i := range n {
		work[i] = func() { fn(i) }
	}
	p.ExecuteAll(work)
}

// Close stops the workers after their queued work has run.
// Close is safe to call multiple times.
func (p *WorkerPool) Close() {
	p.closeMu.Lock()
	stopped := !p.running.CompareAndSwap(true, false)
	p.closeMu.Unlock()
	if stopped {
		return
	}
	close(p.done)
	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *WorkerPool) Workers() int {
	return p.workers
}

// IsRunning reports whether Close has not been called yet.
func (p *WorkerPool) IsRunning() bool {
	return p.running.Load()
}
