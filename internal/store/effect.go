package store

import (
	"sync"
	"sync/atomic"
	"time"
)

// Tasks tracks effects running in the background. Unlike a WaitGroup, Go
// may be called while another goroutine is blocked in Wait.
type Tasks struct {
	mu      sync.Mutex
	running int
	idle    chan struct{}
}

// Go runs f concurrently with every other task; there is no ordering
// between tasks of different intent types.
func (t *Tasks) Go(f func()) {
	t.add()
	go func() {
		defer t.done()
		f()
	}()
}

func (t *Tasks) add() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running == 0 {
		t.idle = make(chan struct{})
	}
	t.running++
}

func (t *Tasks) done() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.running--
	if t.running == 0 {
		close(t.idle)
	}
}

// Wait blocks until every started or pending task has finished. Tasks
// started while waiting extend the wait.
func (t *Tasks) Wait() {
	t.mu.Lock()
	if t.running == 0 {
		t.mu.Unlock()
		return
	}
	idle := t.idle
	t.mu.Unlock()

	<-idle
}

// Debouncer runs only the trailing call of a burst: a call made within
// window of the previous one cancels the previous call's pending run.
// Runs that have already started are never interrupted.
type Debouncer struct {
	window time.Duration
	tasks  *Tasks

	mu    sync.Mutex
	timer *time.Timer
}

func NewDebouncer(window time.Duration, tasks *Tasks) *Debouncer {
	return &Debouncer{
		window: window,
		tasks:  tasks,
	}
}

func (d *Debouncer) Trigger(f func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.tasks.add()
	if d.timer != nil && d.timer.Stop() {
		d.tasks.done()
	}
	d.timer = time.AfterFunc(d.window, func() {
		defer d.tasks.done()
		f()
	})
}

// Stop cancels a pending run, if any.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil && d.timer.Stop() {
		d.tasks.done()
	}
	d.timer = nil
}

// Sequence hands out monotonically increasing request numbers.
type Sequence struct {
	n atomic.Uint64
}

func (s *Sequence) Next() uint64 {
	return s.n.Add(1)
}
