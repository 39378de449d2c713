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

// work is one unit submitted to a threadPool, mirroring Appboy's
// pool.Work type (a bare func()).
type work func()

// threadPool is a fixed-size pool of goroutines draining a shared
// channel, grounded directly on Appboy's pool.BaseWorkerPool: a buffered
// "sends" channel, workers spawned lazily up to size, and a closed
// "disposed" channel used as the stop broadcast instead of a sync.Once
// guarded bool.
type threadPool struct {
	id          string
	size        int
	sends       chan work
	spawnLock   sync.Mutex
	spawned     int
	disposed    chan struct{}
	disposeOnce sync.Once
}

func newThreadPool(size int) *threadPool {
	p := &threadPool{
		id:       uuid.NewString(),
		size:     size,
		sends:    make(chan work, size),
		disposed: make(chan struct{}),
	}
	return p
}

func (p *threadPool) submit(w work) {
	p.ensureWorker()
	select {
	case p.sends <- w:
	case <-p.disposed:
	}
}

// ensureWorker lazily spawns a new goroutine the first size times it's
// called, matching BaseWorkerPool.spawnWorkers' "only spawn as many
// workers as there has been demand for, up to the pool's max size" policy.
func (p *threadPool) ensureWorker() {
	p.spawnLock.Lock()
	if p.spawned >= p.size {
		p.spawnLock.Unlock()
		return
	}
	p.spawned++
	p.spawnLock.Unlock()

	go func() {
		for {
			select {
			case w := <-p.sends:
				runRecovered(p.id, func() { w() })
			case <-p.disposed:
				return
			}
		}
	}()
}

func (p *threadPool) Dispose() {
	p.disposeOnce.Do(func() { close(p.disposed) })
}

func (p *threadPool) IsDisposed() bool {
	select {
	case <-p.disposed:
		return true
	default:
		return false
	}
}

// threadPoolWorker is the Worker view of a shared threadPool: immediate
// work (delay <= 0) goes straight to the pool; delayed work is tracked by
// a private singleThreadTimer whose execute callback submits to the pool
// once the delay elapses.
type threadPoolWorker struct {
	pool  *threadPool
	timer *singleThreadTimer
}

func newThreadPoolWorker(pool *threadPool) *threadPoolWorker {
	w := &threadPoolWorker{pool: pool}
	w.timer = newSingleThreadTimer(func(fn func()) { pool.submit(work(fn)) })
	return w
}

func (w *threadPoolWorker) Schedule(fn func(), delay time.Duration) Disposable {
	if delay <= 0 {
		d := newTaskDisposable(nil)
		w.pool.submit(work(func() {
			if !d.IsDisposed() {
				runRecovered(w.pool.id, fn)
			}
		}))
		return d
	}
	return w.timer.Schedule(fn, delay)
}

func (w *threadPoolWorker) Dispose() {
	w.timer.Dispose()
}

func (w *threadPoolWorker) IsDisposed() bool {
	return w.timer.IsDisposed()
}

func (w *threadPoolWorker) Now() time.Time { return time.Now() }

// threadPoolScheduler vends one threadPoolWorker per Worker() call, all of
// them sharing the same underlying pool of goroutines, so the total amount
// of concurrently-running scheduled work across every subscription never
// exceeds size.
type threadPoolScheduler struct {
	pool *threadPool
}

// NewThreadPool returns a Scheduler backed by a fixed-size pool of size
// goroutines shared across every Worker it vends, grounded on Appboy's
// pool.BaseWorkerPool. Each Worker tracks its own delayed tasks with a
// private timer goroutine that submits into the shared pool once a delay
// elapses, so delay ordering is per-worker while execution capacity is
// pooled.
func NewThreadPool(size int) Scheduler {
	if size <= 0 {
		size = 1
	}
	return &threadPoolScheduler{pool: newThreadPool(size)}
}

func (s *threadPoolScheduler) Worker() Worker {
	return newThreadPoolWorker(s.pool)
}
