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
	"time"

	"github.com/arcflow/rx/scheduler"
)

// Just builds an Observable that emits the given values, in order, then
// completes. A single-argument call is the common "Of" case.
func Just[T any](values ...T) Observable[T] {
	return FromSlice(values)
}

// FromSlice builds an Observable that emits every element of values, in
// order, then completes.
func FromSlice[T any](values []T) Observable[T] {
	return Create(func(emitter Emitter[T]) {
		for _, v := range values {
			if emitter.IsDisposed() {
				return
			}
			emitter.OnNext(v)
		}
		emitter.OnComplete()
	})
}

// Range emits count consecutive ints starting at start, then completes.
func Range(start, count int) Observable[int] {
	return Create(func(emitter Emitter[int]) {
		for i := 0; i < count; i++ {
			if emitter.IsDisposed() {
				return
			}
			emitter.OnNext(start + i)
		}
		emitter.OnComplete()
	})
}

// Empty returns an Observable that completes immediately without emitting
// any value.
func Empty[T any]() Observable[T] {
	return Create(func(emitter Emitter[T]) {
		emitter.OnComplete()
	})
}

// Never returns an Observable that never emits and never terminates.
func Never[T any]() Observable[T] {
	return NewObservable(func(observer Observer[T]) Disposable {
		observer.OnSubscribe(Empty)
		return Empty
	})
}

// Throw returns an Observable that immediately errors with err.
func Throw[T any](err error) Observable[T] {
	return Create(func(emitter Emitter[T]) {
		emitter.OnError(err)
	})
}

// Defer calls factory for every new subscriber and subscribes to whatever
// Observable it returns, so each subscriber gets a freshly built source
// instead of sharing one built at Defer-call time.
func Defer[T any](factory func() Observable[T]) Observable[T] {
	return NewObservable(func(observer Observer[T]) Disposable {
		var source Observable[T]

		if err := tryCatch(func() error {
			source = factory()
			return nil
		}); err != nil {
			source = Throw[T](err)
		}

		return source.Subscribe(observer)
	})
}

// Timer emits the single value 0 after delay elapses, then completes, using
// sch (defaulting to scheduler.Main()) to schedule the delay.
func Timer(delay time.Duration, sch ...scheduler.Scheduler) Observable[int64] {
	s := resolveScheduler(sch)
	return Create(func(emitter Emitter[int64]) {
		worker := s.Worker()
		emitter.SetDisposable(worker)
		worker.Schedule(func() {
			if emitter.IsDisposed() {
				return
			}
			emitter.OnNext(0)
			emitter.OnComplete()
		}, delay)
	})
}

// Interval emits an incrementing int64 every period, starting after the
// first period elapses, and never completes on its own.
func Interval(period time.Duration, sch ...scheduler.Scheduler) Observable[int64] {
	s := resolveScheduler(sch)
	return Create(func(emitter Emitter[int64]) {
		worker := s.Worker()
		emitter.SetDisposable(worker)

		var tick func(n int64)
		tick = func(n int64) {
			worker.Schedule(func() {
				if emitter.IsDisposed() {
					return
				}
				emitter.OnNext(n)
				tick(n + 1)
			}, period)
		}
		tick(0)
	})
}

// FromCallable wraps a synchronous function call as a single-value
// Observable: it runs fn once per subscription and emits its result, or
// delivers the returned error to OnError. A panic in fn is also recovered
// and delivered as OnError.
func FromCallable[T any](fn func() (T, error)) Observable[T] {
	return Create(func(emitter Emitter[T]) {
		var value T
		var returnedErr error

		callErr := tryCatch(func() error {
			value, returnedErr = fn()
			return nil
		})
		if callErr == nil {
			callErr = returnedErr
		}

		if callErr != nil {
			emitter.OnError(callErr)
			return
		}
		emitter.OnNext(value)
		emitter.OnComplete()
	})
}

// Start is an alias for FromCallable, matching RxJS/RxCpp naming for the
// "run this blocking call on demand" source.
func Start[T any](fn func() (T, error)) Observable[T] {
	return FromCallable(fn)
}

// FromChannel converts ch into a cold Observable: each subscription reads
// ch until it closes or the subscription is disposed. Because a Go channel
// is itself a hot, shared resource, subscribing more than once divides its
// values between subscribers rather than replaying them — callers that
// need fan-out should place a Multicast/ConnectableObservable in front of
// it. This operator has no equivalent in the teacher; it is the natural
// Go-native source standing in for rx::sources::iterate over an
// already-hot producer in the original C++ implementation.
//
// The read loop runs on its own goroutine so that Subscribe returns
// immediately even if ch has nothing buffered yet, letting the caller
// dispose the subscription before the channel ever produces or closes.
func FromChannel[T any](ch <-chan T) Observable[T] {
	return Create(func(emitter Emitter[T]) {
		go func() {
			for v := range ch {
				if emitter.IsDisposed() {
					return
				}
				emitter.OnNext(v)
			}
			emitter.OnComplete()
		}()
	})
}

func resolveScheduler(sch []scheduler.Scheduler) scheduler.Scheduler {
	if len(sch) > 0 && sch[0] != nil {
		return sch[0]
	}
	return scheduler.Main()
}
