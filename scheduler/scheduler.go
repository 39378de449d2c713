// Copyright 2025 The arcflow authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package scheduler provides the time/concurrency abstraction the time and
// scheduling operators (ObserveOn, SubscribeOn, Delay, Debounce, Sample,
// Timeout, Interval, Timer) dispatch through. The teacher
// (github.com/samber/ro) has no equivalent: it threads context.Context
// everywhere and lets the standard library's timers do the scheduling.
// This package is grounded instead on the rest of the retrieval pack: the
// worker-pool shape of Appboy's pool.BaseWorkerPool and the
// logger-carrying, uuid-identified scheduler of vmyroslav's homesignal
// package.
package scheduler

import (
	"container/heap"
	"sync"
	"time"
)

// Disposable mirrors the top-level package's Disposable exactly (Dispose,
// IsDisposed); it is declared locally so this package has no import-time
// dependency on the root module, avoiding an import cycle since the root
// package depends on scheduler, not the other way around. Any value
// returned here satisfies rx.Disposable by method set alone.
type Disposable interface {
	Dispose()
	IsDisposed() bool
}

// Worker is a serialized execution context: every function scheduled on a
// single Worker runs after the previous one finishes, never concurrently
// with it. A Scheduler vends fresh Workers; what "fresh" means (a new
// goroutine, a slot in a shared pool, the calling goroutine itself) is up
// to the concrete Scheduler.
type Worker interface {
	// Schedule runs fn after delay elapses (immediately, if delay <= 0).
	// The returned Disposable cancels fn if it has not yet started;
	// Dispose gives no guarantee about a callback already in flight.
	Schedule(fn func(), delay time.Duration) Disposable

	// Dispose releases the worker itself, canceling any task not yet
	// started and refusing any further Schedule calls.
	Dispose()
	IsDisposed() bool

	// Now returns the worker's notion of the current time, letting tests
	// substitute a virtual clock by implementing their own Worker.
	Now() time.Time
}

// Scheduler vends Workers. Operators take a Scheduler parameter (defaulting
// to Main() when one isn't supplied) and call Worker() once per
// subscription to obtain the serialized execution context that
// subscription's callbacks run on.
type Scheduler interface {
	Worker() Worker
}

// taskDisposable is the Disposable returned from every Worker.Schedule
// implementation in this package: a single cancel function guarded so it
// runs at most once.
type taskDisposable struct {
	mu       sync.Mutex
	disposed bool
	cancel   func()
}

func newTaskDisposable(cancel func()) *taskDisposable {
	return &taskDisposable{cancel: cancel}
}

func (t *taskDisposable) Dispose() {
	t.mu.Lock()
	if t.disposed {
		t.mu.Unlock()
		return
	}
	t.disposed = true
	t.mu.Unlock()
	if t.cancel != nil {
		t.cancel()
	}
}

func (t *taskDisposable) IsDisposed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.disposed
}

// pendingTask is one entry of a time-ordered min-heap of scheduled
// callbacks, shared by the CurrentThread and SingleThreadTimer
// implementations.
type pendingTask struct {
	due       time.Time
	seq       uint64
	fn        func()
	cancelled bool
	index     int
}

// taskHeap implements container/heap.Interface, ordering by due time and
// breaking ties by submission order (seq) so same-instant tasks run FIFO.
type taskHeap []*pendingTask

func (h taskHeap) Len() int { return len(h) }
func (h taskHeap) Less(i, j int) bool {
	if h[i].due.Equal(h[j].due) {
		return h[i].seq < h[j].seq
	}
	return h[i].due.Before(h[j].due)
}
func (h taskHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *taskHeap) Push(x any) {
	t := x.(*pendingTask)
	t.index = len(*h)
	*h = append(*h, t)
}
func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}

var _ heap.Interface = (*taskHeap)(nil)

func heapPush(h *taskHeap, t *pendingTask) {
	heap.Push(h, t)
}

func heapPopTask(h *taskHeap) *pendingTask {
	return heap.Pop(h).(*pendingTask)
}
