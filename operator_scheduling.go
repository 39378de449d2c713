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

package rx

import (
	"sync"
	"time"

	"github.com/arcflow/rx/internal/xsync"
	"github.com/arcflow/rx/scheduler"
)

// ObserveOn moves every notification delivered to downstream onto sch's
// Worker instead of whatever goroutine the upstream source calls OnNext
// from. Notifications are queued and drained one at a time on the worker,
// so downstream never sees concurrent calls even if upstream produces
// from multiple goroutines (as Merge's sources do).
func ObserveOn[T any](source Observable[T], sch ...scheduler.Scheduler) Observable[T] {
	s := resolveScheduler(sch)
	return NewObservable(func(observer Observer[T]) Disposable {
		worker := s.Worker()
		composite := NewCompositeDisposable(worker)
		observer.OnSubscribe(composite)

		var mu sync.Mutex
		queue := make([]func(), 0)
		scheduled := false

		enqueue := func(task func()) {
			mu.Lock()
			queue = append(queue, task)
			needsSchedule := !scheduled
			scheduled = true
			mu.Unlock()

			if needsSchedule {
				worker.Schedule(drainFunc(&mu, &queue, &scheduled), 0)
			}
		}

		composite.Add(source.Subscribe(&funcObserver[T]{
			onNext:     func(v T) { enqueue(func() { observer.OnNext(v) }) },
			onError:    func(err error) { enqueue(func() { observer.OnError(err) }) },
			onComplete: func() { enqueue(func() { observer.OnComplete() }) },
		}))

		return composite
	})
}

// drainFunc returns a worker task that runs every queued callback,
// re-scheduling itself is unnecessary because it loops internally until
// the queue is empty, clearing the scheduled flag as its very last step.
func drainFunc(mu *sync.Mutex, queue *[]func(), scheduled *bool) func() {
	return func() {
		for {
			mu.Lock()
			if len(*queue) == 0 {
				*scheduled = false
				mu.Unlock()
				return
			}
			task := (*queue)[0]
			*queue = (*queue)[1:]
			mu.Unlock()
			task()
		}
	}
}

// SubscribeOn moves the act of subscribing to source onto sch's Worker,
// instead of running source's subscribe function on the calling goroutine.
// Notifications still arrive on whatever goroutine source itself uses to
// produce them; pair with ObserveOn to control that too.
func SubscribeOn[T any](source Observable[T], sch ...scheduler.Scheduler) Observable[T] {
	s := resolveScheduler(sch)
	return NewObservable(func(observer Observer[T]) Disposable {
		worker := s.Worker()
		upstream := NewSequentialDisposable()
		composite := NewCompositeDisposable(worker, upstream)

		worker.Schedule(func() {
			if composite.IsDisposed() {
				return
			}
			upstream.SetOnce(source.Subscribe(observer))
		}, 0)

		return composite
	})
}

// Delay shifts every notification from source later by duration, preserving
// relative order and spacing.
func Delay[T any](source Observable[T], duration time.Duration, sch ...scheduler.Scheduler) Observable[T] {
	s := resolveScheduler(sch)
	return NewObservable(func(observer Observer[T]) Disposable {
		worker := s.Worker()
		composite := NewCompositeDisposable(worker)
		observer.OnSubscribe(composite)

		composite.Add(source.Subscribe(&funcObserver[T]{
			onNext: func(v T) {
				worker.Schedule(func() { observer.OnNext(v) }, duration)
			},
			onError: func(err error) {
				worker.Schedule(func() { observer.OnError(err) }, duration)
			},
			onComplete: func() {
				worker.Schedule(func() { observer.OnComplete() }, duration)
			},
		}))

		return composite
	})
}

// Debounce emits a value only after duration has elapsed without source
// producing another one, dropping every value superseded within the
// window. The pending timer is canceled and restarted on every new value.
func Debounce[T any](source Observable[T], duration time.Duration, sch ...scheduler.Scheduler) Observable[T] {
	s := resolveScheduler(sch)
	return NewObservable(func(observer Observer[T]) Disposable {
		worker := s.Worker()
		composite := NewCompositeDisposable(worker)
		observer.OnSubscribe(composite)

		mu := xsync.NewMutexWithLock()
		var pending scheduler.Disposable

		composite.Add(source.Subscribe(&funcObserver[T]{
			onNext: func(v T) {
				mu.Lock()
				if pending != nil {
					pending.Dispose()
				}
				pending = worker.Schedule(func() { observer.OnNext(v) }, duration)
				mu.Unlock()
			},
			onError: func(err error) {
				mu.Lock()
				if pending != nil {
					pending.Dispose()
				}
				mu.Unlock()
				observer.OnError(err)
			},
			onComplete: func() {
				mu.Lock()
				if pending != nil {
					pending.Dispose()
				}
				mu.Unlock()
				observer.OnComplete()
			},
		}))

		return composite
	})
}

// Sample emits the most recent value from source every time period
// elapses, or nothing for a tick with no new value since the last one.
func Sample[T any](source Observable[T], period time.Duration, sch ...scheduler.Scheduler) Observable[T] {
	s := resolveScheduler(sch)
	return NewObservable(func(observer Observer[T]) Disposable {
		worker := s.Worker()
		composite := NewCompositeDisposable(worker)
		observer.OnSubscribe(composite)

		mu := xsync.NewMutexWithLock()
		var latest T
		hasValue := false

		var tick func()
		tick = func() {
			worker.Schedule(func() {
				if composite.IsDisposed() {
					return
				}
				mu.Lock()
				v, has := latest, hasValue
				hasValue = false
				mu.Unlock()
				if has {
					observer.OnNext(v)
				}
				tick()
			}, period)
		}
		tick()

		composite.Add(source.Subscribe(&funcObserver[T]{
			onNext: func(v T) {
				mu.Lock()
				latest, hasValue = v, true
				mu.Unlock()
			},
			onError:    observer.OnError,
			onComplete: observer.OnComplete,
		}))

		return composite
	})
}

// Timeout errors with a *TimeoutError if duration elapses between any two
// consecutive notifications (including the subscription itself and the
// first value).
func Timeout[T any](source Observable[T], duration time.Duration, sch ...scheduler.Scheduler) Observable[T] {
	s := resolveScheduler(sch)
	return NewObservable(func(observer Observer[T]) Disposable {
		worker := s.Worker()
		upstream := NewSequentialDisposable()
		composite := NewCompositeDisposable(worker, upstream)
		observer.OnSubscribe(composite)

		var mu sync.Mutex
		var armed scheduler.Disposable
		done := false

		arm := func() {
			mu.Lock()
			if armed != nil {
				armed.Dispose()
			}
			if done {
				mu.Unlock()
				return
			}
			armed = worker.Schedule(func() {
				mu.Lock()
				if done {
					mu.Unlock()
					return
				}
				done = true
				mu.Unlock()
				observer.OnError(newTimeoutError("Timeout"))
				composite.Dispose()
			}, duration)
			mu.Unlock()
		}
		arm()

		upstream.SetOnce(source.Subscribe(&funcObserver[T]{
			onNext: func(v T) {
				mu.Lock()
				if done {
					mu.Unlock()
					return
				}
				mu.Unlock()
				arm()
				observer.OnNext(v)
			},
			onError: func(err error) {
				mu.Lock()
				if done {
					mu.Unlock()
					return
				}
				done = true
				if armed != nil {
					armed.Dispose()
				}
				mu.Unlock()
				observer.OnError(err)
			},
			onComplete: func() {
				mu.Lock()
				if done {
					mu.Unlock()
					return
				}
				done = true
				if armed != nil {
					armed.Dispose()
				}
				mu.Unlock()
				observer.OnComplete()
			},
		}))

		return composite
	})
}

// TakeUntil forwards source's notifications until notifier emits or
// completes, at which point the subscription ends with OnComplete. If
// notifier errors first, that error is forwarded as OnError instead.
func TakeUntil[T, U any](source Observable[T], notifier Observable[U]) Observable[T] {
	return NewObservable(func(observer Observer[T]) Disposable {
		composite := NewCompositeDisposable()
		observer.OnSubscribe(composite)

		var mu sync.Mutex
		done := false
		stop := func() {
			mu.Lock()
			if done {
				mu.Unlock()
				return
			}
			done = true
			mu.Unlock()
			observer.OnComplete()
			composite.Dispose()
		}

		composite.Add(notifier.Subscribe(&funcObserver[U]{
			onNext: func(U) { stop() },
			onError: func(err error) {
				mu.Lock()
				if done {
					mu.Unlock()
					return
				}
				done = true
				mu.Unlock()
				observer.OnError(err)
				composite.Dispose()
			},
			onComplete: stop,
		}))

		composite.Add(source.Subscribe(&funcObserver[T]{
			onNext: func(v T) {
				mu.Lock()
				d := done
				mu.Unlock()
				if !d {
					observer.OnNext(v)
				}
			},
			onError: func(err error) {
				mu.Lock()
				if done {
					mu.Unlock()
					return
				}
				done = true
				mu.Unlock()
				observer.OnError(err)
			},
			onComplete: stop,
		}))

		return composite
	})
}
