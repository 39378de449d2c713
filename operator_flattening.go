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

import "sync"

// FlatMap projects every source value to an inner Observable and merges
// all of them concurrently: inner values interleave in arrival order. It
// completes once the source and every inner Observable it spawned have
// completed, and errors as soon as any of them errors.
//
// Emission into downstream is guarded by a dedicated gate mutex (gateMu),
// separate from the bookkeeping mutex (stateMu), matching the concurrency
// model's requirement that a FlatMap's downstream delivery be
// single-threaded even though many inner subscriptions can produce
// concurrently.
func FlatMap[T, R any](source Observable[T], project func(T) Observable[R]) Observable[R] {
	return NewObservable(func(observer Observer[R]) Disposable {
		composite := NewCompositeDisposable()
		observer.OnSubscribe(composite)

		var gateMu sync.Mutex
		var stateMu sync.Mutex
		activeInner := 0
		sourceDone := false
		done := false

		emit := func(v R) {
			gateMu.Lock()
			defer gateMu.Unlock()
			observer.OnNext(v)
		}

		fail := func(err error) {
			stateMu.Lock()
			if done {
				stateMu.Unlock()
				return
			}
			done = true
			stateMu.Unlock()

			gateMu.Lock()
			observer.OnError(err)
			gateMu.Unlock()
			composite.Dispose()
		}

		maybeComplete := func() {
			stateMu.Lock()
			finish := sourceDone && activeInner == 0 && !done
			if finish {
				done = true
			}
			stateMu.Unlock()
			if finish {
				gateMu.Lock()
				observer.OnComplete()
				gateMu.Unlock()
				composite.Dispose()
			}
		}

		composite.Add(source.Subscribe(&funcObserver[T]{
			onNext: func(value T) {
				var inner Observable[R]
				err := tryCatch(func() error {
					inner = project(value)
					return nil
				})
				if err != nil {
					fail(err)
					return
				}

				stateMu.Lock()
				activeInner++
				stateMu.Unlock()

				innerDisposable := inner.Subscribe(&funcObserver[R]{
					onNext: emit,
					onError: func(err error) {
						fail(err)
					},
					onComplete: func() {
						stateMu.Lock()
						activeInner--
						stateMu.Unlock()
						maybeComplete()
					},
				})
				composite.Add(innerDisposable)
			},
			onError: fail,
			onComplete: func() {
				stateMu.Lock()
				sourceDone = true
				stateMu.Unlock()
				maybeComplete()
			},
		}))

		return composite
	})
}

// ConcatMap projects every source value to an inner Observable and
// subscribes to them strictly one at a time, in source order: the next
// inner Observable is not subscribed to until the previous one completes.
// Source values that arrive while an inner subscription is active are
// queued (FIFO) and drained once it frees up, using the work-in-progress
// counter pattern.
func ConcatMap[T, R any](source Observable[T], project func(T) Observable[R]) Observable[R] {
	return NewObservable(func(observer Observer[R]) Disposable {
		composite := NewCompositeDisposable()
		current := NewSequentialDisposable()
		composite.Add(current)
		observer.OnSubscribe(composite)

		var mu sync.Mutex
		queue := make([]T, 0)
		wip := 0 // 0 = idle, 1 = an inner subscription is active
		sourceDone := false
		done := false

		var drain func()
		fail := func(err error) {
			mu.Lock()
			if done {
				mu.Unlock()
				return
			}
			done = true
			mu.Unlock()
			observer.OnError(err)
			composite.Dispose()
		}

		drain = func() {
			mu.Lock()
			if done {
				mu.Unlock()
				return
			}
			if wip > 0 {
				mu.Unlock()
				return
			}
			if len(queue) == 0 {
				if sourceDone {
					done = true
					mu.Unlock()
					observer.OnComplete()
					return
				}
				mu.Unlock()
				return
			}
			value := queue[0]
			queue = queue[1:]
			wip = 1
			mu.Unlock()

			var inner Observable[R]
			err := tryCatch(func() error {
				inner = project(value)
				return nil
			})
			if err != nil {
				fail(err)
				return
			}

			current.Set(inner.Subscribe(&funcObserver[R]{
				onNext:  observer.OnNext,
				onError: fail,
				onComplete: func() {
					mu.Lock()
					wip = 0
					mu.Unlock()
					drain()
				},
			}))
		}

		composite.Add(source.Subscribe(&funcObserver[T]{
			onNext: func(value T) {
				mu.Lock()
				queue = append(queue, value)
				mu.Unlock()
				drain()
			},
			onError: fail,
			onComplete: func() {
				mu.Lock()
				sourceDone = true
				mu.Unlock()
				drain()
			},
		}))

		return composite
	})
}

// SwitchMap projects every source value to an inner Observable, always
// subscribed to only the most recent one: a new source value unsubscribes
// whatever inner Observable is currently active. A generation counter
// tags each inner subscription so a stale inner's late notifications
// (arriving after it has already been superseded) are silently dropped
// instead of racing with the active one's output.
func SwitchMap[T, R any](source Observable[T], project func(T) Observable[R]) Observable[R] {
	return NewObservable(func(observer Observer[R]) Disposable {
		composite := NewCompositeDisposable()
		inner := NewSequentialDisposable()
		composite.Add(inner)
		observer.OnSubscribe(composite)

		var mu sync.Mutex
		generation := 0
		sourceDone := false
		innerActive := false
		done := false

		fail := func(err error) {
			mu.Lock()
			if done {
				mu.Unlock()
				return
			}
			done = true
			mu.Unlock()
			observer.OnError(err)
			composite.Dispose()
		}

		maybeComplete := func() {
			mu.Lock()
			finish := sourceDone && !innerActive && !done
			if finish {
				done = true
			}
			mu.Unlock()
			if finish {
				observer.OnComplete()
				composite.Dispose()
			}
		}

		composite.Add(source.Subscribe(&funcObserver[T]{
			onNext: func(value T) {
				mu.Lock()
				generation++
				gen := generation
				innerActive = true
				mu.Unlock()

				var innerObs Observable[R]
				err := tryCatch(func() error {
					innerObs = project(value)
					return nil
				})
				if err != nil {
					fail(err)
					return
				}

				inner.Set(innerObs.Subscribe(&funcObserver[R]{
					onNext: func(v R) {
						mu.Lock()
						stale := gen != generation
						mu.Unlock()
						if !stale {
							observer.OnNext(v)
						}
					},
					onError: func(err error) {
						mu.Lock()
						stale := gen != generation
						mu.Unlock()
						if !stale {
							fail(err)
						}
					},
					onComplete: func() {
						mu.Lock()
						stale := gen != generation
						if !stale {
							innerActive = false
						}
						mu.Unlock()
						if !stale {
							maybeComplete()
						}
					},
				}))
			},
			onError: fail,
			onComplete: func() {
				mu.Lock()
				sourceDone = true
				mu.Unlock()
				maybeComplete()
			},
		}))

		return composite
	})
}
