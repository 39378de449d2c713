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

package scheduler

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// singleThreadTimer is one dedicated goroutine draining a time-ordered
// min-heap of pending tasks. It is the execution engine behind both
// NewSingleThreadTimer (where execute runs the callback directly) and the
// delay side of NewThreadPool (where execute submits the callback to a
// shared worker pool instead of running it on the timer's own goroutine).
type singleThreadTimer struct {
	id      string
	execute func(func())

	mu       sync.Mutex
	queue    taskHeap
	seq      uint64
	disposed bool

	wake chan struct{}
	stop chan struct{}
	once sync.Once
}

func newSingleThreadTimer(execute func(func())) *singleThreadTimer {
	if execute == nil {
		execute = func(fn func()) { fn() }
	}
	t := &singleThreadTimer{
		id:      uuid.NewString(),
		execute: execute,
		wake:    make(chan struct{}, 1),
		stop:    make(chan struct{}),
	}
	go t.loop()
	return t
}

func (t *singleThreadTimer) Schedule(fn func(), delay time.Duration) Disposable {
	t.mu.Lock()
	if t.disposed {
		t.mu.Unlock()
		return newTaskDisposable(nil)
	}

	task := &pendingTask{due: time.Now().Add(delay), seq: t.seq, fn: fn}
	t.seq++
	heapPush(&t.queue, task)
	t.mu.Unlock()

	select {
	case t.wake <- struct{}{}:
	default:
	}

	return newTaskDisposable(func() {
		t.mu.Lock()
		task.cancelled = true
		t.mu.Unlock()
	})
}

func (t *singleThreadTimer) loop() {
	for {
		t.mu.Lock()
		if t.disposed {
			t.mu.Unlock()
			return
		}
		if len(t.queue) == 0 {
			t.mu.Unlock()
			select {
			case <-t.wake:
				continue
			case <-t.stop:
				return
			}
		}

		wait := time.Until(t.queue[0].due)
		if wait > 0 {
			t.mu.Unlock()
			timer := time.NewTimer(wait)
			select {
			case <-timer.C:
			case <-t.wake:
				timer.Stop()
			case <-t.stop:
				timer.Stop()
				return
			}
			continue
		}

		task := heapPopTask(&t.queue)
		t.mu.Unlock()

		if !task.cancelled {
			t.execute(func() { runRecovered(t.id, task.fn) })
		}
	}
}

func (t *singleThreadTimer) Dispose() {
	t.once.Do(func() {
		t.mu.Lock()
		t.disposed = true
		t.queue = nil
		t.mu.Unlock()
		close(t.stop)
	})
}

func (t *singleThreadTimer) IsDisposed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.disposed
}

func (t *singleThreadTimer) Now() time.Time { return time.Now() }

// timerScheduler adapts a single shared singleThreadTimer into a Scheduler
// whose Worker() always returns that same worker, so every subscription
// scheduled on it is serialized onto the one dedicated goroutine.
type timerScheduler struct {
	worker *singleThreadTimer
}

// NewSingleThreadTimer returns a Scheduler backed by one dedicated
// goroutine and a container/heap-ordered priority queue of pending tasks.
// Every Worker() call returns the same underlying Worker: all work
// scheduled on it, from any number of subscriptions, is serialized.
func NewSingleThreadTimer() Scheduler {
	return &timerScheduler{worker: newSingleThreadTimer(nil)}
}

func (s *timerScheduler) Worker() Worker { return s.worker }

var mainScheduler atomic.Value // Scheduler

func init() {
	mainScheduler.Store(NewSingleThreadTimer())
}

// Main returns the process-wide default Scheduler used by every operator
// that takes an optional Scheduler parameter. It starts out as a
// NewSingleThreadTimer instance.
func Main() Scheduler {
	return mainScheduler.Load().(Scheduler)
}

// SetMain replaces the process-wide default scheduler, letting tests swap
// in a deterministic Scheduler (typically NewCurrentThread()) without
// threading one through every call site.
func SetMain(s Scheduler) {
	if s == nil {
		return
	}
	mainScheduler.Store(s)
}
