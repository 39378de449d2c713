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
	"time"

	"github.com/google/uuid"
)

// currentThreadScheduler vends a fresh trampoline Worker per call, so two
// unrelated subscriptions scheduled from the same calling goroutine never
// share queue state.
type currentThreadScheduler struct{}

// NewCurrentThread returns a Scheduler whose workers run scheduled work on
// whichever goroutine calls Schedule, using a trampoline: a call to
// Schedule made from inside a task that is itself running on the worker is
// queued rather than recursing, so a chain of immediate re-schedules (as
// Repeat or a synchronous recursive Interval produces) unwinds iteratively
// instead of growing the call stack.
func NewCurrentThread() Scheduler {
	return currentThreadScheduler{}
}

func (currentThreadScheduler) Worker() Worker {
	return &trampolineWorker{id: uuid.NewString()}
}

type trampolineWorker struct {
	id       string
	mu       sync.Mutex
	queue    taskHeap
	seq      uint64
	draining bool
	disposed bool
}

func (w *trampolineWorker) Schedule(fn func(), delay time.Duration) Disposable {
	w.mu.Lock()
	if w.disposed {
		w.mu.Unlock()
		return newTaskDisposable(nil)
	}

	task := &pendingTask{due: time.Now().Add(delay), seq: w.seq, fn: fn}
	w.seq++
	heapPush(&w.queue, task)

	alreadyDraining := w.draining
	w.draining = true
	w.mu.Unlock()

	if !alreadyDraining {
		w.drain()
	}

	return newTaskDisposable(func() {
		w.mu.Lock()
		task.cancelled = true
		w.mu.Unlock()
	})
}

// drain runs every due task in the queue, sleeping between them when a
// task is scheduled for the future, until the queue is empty. Because
// Schedule only calls drain when it is not already running (alreadyDraining
// is false), nested Schedule calls made from inside a running task simply
// enqueue and return, and this same loop picks them up.
func (w *trampolineWorker) drain() {
	for {
		w.mu.Lock()
		if w.disposed || len(w.queue) == 0 {
			w.draining = false
			w.mu.Unlock()
			return
		}

		next := w.queue[0]
		wait := time.Until(next.due)
		if wait > 0 {
			w.mu.Unlock()
			time.Sleep(wait)
			continue
		}

		task := heapPopTask(&w.queue)
		w.mu.Unlock()

		if !task.cancelled {
			runRecovered(w.id, task.fn)
		}
	}
}

func (w *trampolineWorker) Dispose() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.disposed = true
	w.queue = nil
}

func (w *trampolineWorker) IsDisposed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.disposed
}

func (w *trampolineWorker) Now() time.Time { return time.Now() }
