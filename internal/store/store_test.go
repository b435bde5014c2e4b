package store

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type counterState struct {
	n int
}

type add int

func reduceCounter(s counterState, action any) counterState {
	switch a := action.(type) {
	case add:
		s.n += int(a)
	}
	return s
}

func TestStore_Dispatch(t *testing.T) {
	s := New(counterState{}, reduceCounter)

	assert.Equal(t, 2, s.Dispatch(add(2)).n)
	assert.Equal(t, 5, s.Dispatch(add(3)).n)
	assert.Equal(t, 5, s.Dispatch("unknown").n)
	assert.Equal(t, 5, s.State().n)
}

func TestResource_DropsStaleResults(t *testing.T) {
	var r Resource[string]

	r = r.Begin(1)
	r = r.Begin(2)
	assert.True(t, r.Loading)

	r = r.Succeed(2, "new")
	r = r.Succeed(1, "old")
	assert.Equal(t, "new", r.Data)
	assert.False(t, r.Loading)
	assert.Equal(t, uint64(1), r.Rev)

	r = r.Begin(3)
	r = r.Fail(3, "boom")
	assert.Equal(t, "boom", r.Err)
	assert.Equal(t, "new", r.Data)

	r = r.Begin(4)
	assert.Empty(t, r.Err)
}

func TestResource_Current(t *testing.T) {
	var r Resource[string]

	r = r.Begin(1).Begin(2)
	assert.False(t, r.Current(1))
	assert.True(t, r.Current(2))

	r = r.Queue()
	assert.False(t, r.Current(2))
}

func TestResource_ClearOrphansInFlight(t *testing.T) {
	var r Resource[string]

	r = r.Begin(1).Clear()
	r = r.Succeed(1, "late")
	assert.Empty(t, r.Data)
	assert.False(t, r.Loading)
}

func TestResource_QueueSupersedes(t *testing.T) {
	var r Resource[string]

	r = r.Begin(1).Queue()
	r = r.Succeed(1, "late")
	assert.True(t, r.Loading)
	assert.Empty(t, r.Data)
}

func TestDebouncer_RunsTrailingCall(t *testing.T) {
	var (
		tasks Tasks
		calls atomic.Int32
		last  atomic.Value
	)
	d := NewDebouncer(30*time.Millisecond, &tasks)

	for _, term := range []string{"a", "ab", "abc"} {
		term := term
		d.Trigger(func() {
			calls.Add(1)
			last.Store(term)
		})
	}
	tasks.Wait()

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, "abc", last.Load())
}

func TestDebouncer_SeparateBursts(t *testing.T) {
	var (
		tasks Tasks
		calls atomic.Int32
	)
	d := NewDebouncer(10*time.Millisecond, &tasks)

	d.Trigger(func() { calls.Add(1) })
	tasks.Wait()
	d.Trigger(func() { calls.Add(1) })
	tasks.Wait()

	assert.Equal(t, int32(2), calls.Load())
}

func TestDebouncer_Stop(t *testing.T) {
	var (
		tasks Tasks
		calls atomic.Int32
	)
	d := NewDebouncer(10*time.Millisecond, &tasks)

	d.Trigger(func() { calls.Add(1) })
	d.Stop()
	tasks.Wait()

	assert.Zero(t, calls.Load())
}

func TestTasks_WaitWhenIdle(t *testing.T) {
	var tasks Tasks
	tasks.Wait()

	tasks.Go(func() {})
	tasks.Wait()
	tasks.Wait()
}

func TestTasks_GoDuringWait(t *testing.T) {
	var (
		tasks Tasks
		ran   atomic.Int32
		wg    sync.WaitGroup
	)

	release := make(chan struct{})
	tasks.Go(func() {
		<-release
		ran.Add(1)
	})

	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			tasks.Go(func() { ran.Add(1) })
		}()
		go func() {
			defer wg.Done()
			tasks.Wait()
		}()
	}

	close(release)
	wg.Wait()
	tasks.Wait()

	assert.Equal(t, int32(21), ran.Load())
}

func TestSequence(t *testing.T) {
	var seq Sequence
	assert.Equal(t, uint64(1), seq.Next())
	assert.Equal(t, uint64(2), seq.Next())
}

type view struct {
	total int
}

func TestMemo(t *testing.T) {
	computed := 0
	sel := Memo(
		func(s counterState) int { return s.n },
		func(s counterState) *view {
			computed++
			return &view{total: s.n}
		},
	)

	first := sel(counterState{n: 1})
	again := sel(counterState{n: 1})
	assert.Same(t, first, again)
	assert.Equal(t, 1, computed)

	changed := sel(counterState{n: 2})
	assert.NotSame(t, first, changed)
	assert.Equal(t, 2, changed.total)
	assert.Equal(t, 2, computed)
}
