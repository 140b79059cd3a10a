package fracture

import (
	"runtime"
	"sync/atomic"
)

type forkTask[T any] struct {
	claimed atomic.Bool
	fn      func() T
	done    chan T
}

// claim marks the task as started, returning false if someone else already
// started it.
func (f *forkTask[T]) claim() bool {
	return f.claimed.CompareAndSwap(false, true)
}

// A forkJoin runs a recursive divide-and-conquer computation on a bounded
// number of Goroutines.
//
// The root computation is started with Run(). Inside of it, Fork() evaluates
// two sub-computations, offering the second one to an idle worker while the
// calling Goroutine evaluates the first. If no worker has claimed the second
// one by then, it is evaluated inline.
type forkJoin[T any] struct {
	pending chan *forkTask[T]
}

func newForkJoin[T any](numWorkers int) *forkJoin[T] {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	res := &forkJoin[T]{
		pending: make(chan *forkTask[T], numWorkers*64),
	}
	for i := 0; i < numWorkers; i++ {
		go res.worker()
	}
	return res
}

// Run evaluates the root computation and shuts down the workers once it
// returns.
func (f *forkJoin[T]) Run(fn func() T) T {
	defer close(f.pending)
	task := &forkTask[T]{fn: fn, done: make(chan T, 1)}
	f.pending <- task
	return <-task.done
}

// Fork evaluates both functions, possibly in parallel.
func (f *forkJoin[T]) Fork(first, second func() T) (T, T) {
	task := &forkTask[T]{fn: second, done: make(chan T, 1)}
	select {
	case f.pending <- task:
	default:
		// The backlog is full, so keep the work on this Goroutine.
	}
	res1 := first()
	if task.claim() {
		return res1, second()
	}
	return res1, <-task.done
}

func (f *forkJoin[T]) worker() {
	for task := range f.pending {
		if task.claim() {
			task.done <- task.fn()
		}
	}
}
