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

// DoOnNext invokes fn with every value as it passes through, for side
// effects only; the value itself is forwarded unchanged.
func DoOnNext[T any](source Observable[T], fn func(T)) Observable[T] {
	return NewObservable(func(observer Observer[T]) Disposable {
		f := &doFrame[T]{frame: newFrame(observer), onNext: fn}
		return source.Subscribe(f)
	})
}

// DoOnError invokes fn with the terminal error, before forwarding it.
func DoOnError[T any](source Observable[T], fn func(error)) Observable[T] {
	return NewObservable(func(observer Observer[T]) Disposable {
		f := &doFrame[T]{frame: newFrame(observer), onError: fn}
		return source.Subscribe(f)
	})
}

// DoOnComplete invokes fn just before forwarding OnComplete.
func DoOnComplete[T any](source Observable[T], fn func()) Observable[T] {
	return NewObservable(func(observer Observer[T]) Disposable {
		f := &doFrame[T]{frame: newFrame(observer), onComplete: fn}
		return source.Subscribe(f)
	})
}

// DoOnSubscribe invokes fn before the subscription is established
// downstream.
func DoOnSubscribe[T any](source Observable[T], fn func()) Observable[T] {
	return NewObservable(func(observer Observer[T]) Disposable {
		f := &doFrame[T]{frame: newFrame(observer), onSubscribe: fn}
		return source.Subscribe(f)
	})
}

type doFrame[T any] struct {
	*frame[T]
	onSubscribe func()
	onNext      func(T)
	onError     func(error)
	onComplete  func()
}

func (f *doFrame[T]) OnSubscribe(d Disposable) {
	if f.onSubscribe != nil {
		safeCall(f.onSubscribe)
	}
	f.frame.onSubscribeWith(f, d)
}

func (f *doFrame[T]) OnNext(value T) {
	if f.isDone() {
		reportProtocolViolation("OnNext delivered after terminal event")
		return
	}
	if f.onNext != nil {
		if err := tryCatch(func() error { f.onNext(value); return nil }); err != nil {
			f.OnError(err)
			return
		}
	}
	f.frame.OnNext(value)
}

func (f *doFrame[T]) OnError(err error) {
	if !f.markDone() {
		reportProtocolViolation("OnError delivered after terminal event")
		return
	}
	if f.onError != nil {
		safeCall(func() { f.onError(err) })
	}
	f.downstream.OnError(err)
	f.upstream.Dispose()
}

func (f *doFrame[T]) OnComplete() {
	if !f.markDone() {
		reportProtocolViolation("OnComplete delivered after terminal event")
		return
	}
	if f.onComplete != nil {
		safeCall(f.onComplete)
	}
	f.downstream.OnComplete()
	f.upstream.Dispose()
}

// DoFinally invokes fn exactly once, however the subscription ends:
// OnError, OnComplete, or an explicit Dispose by downstream.
func DoFinally[T any](source Observable[T], fn func()) Observable[T] {
	return NewObservable(func(observer Observer[T]) Disposable {
		f := &doFinallyFrame[T]{frame: newFrame(observer), fn: fn}
		// f is included so that disposing the returned Disposable also runs
		// the finally callback, whatever source itself returns.
		return NewCompositeDisposable(source.Subscribe(f), f)
	})
}

type doFinallyFrame[T any] struct {
	*frame[T]
	fn   func()
	once sync.Once
}

// OnSubscribe must hand doFinallyFrame itself to downstream, not the
// embedded frame: doFinallyFrame overrides Dispose to also run the finally
// callback, and only passing f itself as the Disposable here lets a
// downstream-initiated Dispose reach that override.
func (f *doFinallyFrame[T]) OnSubscribe(d Disposable) {
	f.frame.onSubscribeWith(f, d)
}

func (f *doFinallyFrame[T]) runFinally() {
	f.once.Do(func() {
		if f.fn != nil {
			safeCall(f.fn)
		}
	})
}

func (f *doFinallyFrame[T]) OnError(err error) {
	f.frame.OnError(err)
	f.runFinally()
}

func (f *doFinallyFrame[T]) OnComplete() {
	f.frame.OnComplete()
	f.runFinally()
}

func (f *doFinallyFrame[T]) Dispose() {
	f.frame.Dispose()
	f.runFinally()
}

// OnErrorReturn recovers from an upstream error by emitting a single
// fallback value (produced by selector) and completing, instead of
// forwarding the error.
func OnErrorReturn[T any](source Observable[T], selector func(error) T) Observable[T] {
	return NewObservable(func(observer Observer[T]) Disposable {
		f := &onErrorReturnFrame[T]{frame: newFrame(observer), selector: selector}
		return source.Subscribe(f)
	})
}

type onErrorReturnFrame[T any] struct {
	*frame[T]
	selector func(error) T
}

func (f *onErrorReturnFrame[T]) OnError(err error) {
	if !f.markDone() {
		reportProtocolViolation("OnError delivered after terminal event")
		return
	}
	value, selErr := callPredicate1(f.selector, err)
	if selErr != nil {
		f.downstream.OnError(selErr)
		f.upstream.Dispose()
		return
	}
	f.downstream.OnNext(value)
	f.downstream.OnComplete()
	f.upstream.Dispose()
}

// OnErrorResumeNext recovers from an upstream error by switching to a
// fallback Observable (produced by resumeSelector) instead of forwarding
// the error.
func OnErrorResumeNext[T any](source Observable[T], resumeSelector func(error) Observable[T]) Observable[T] {
	return NewObservable(func(observer Observer[T]) Disposable {
		upstream := NewSequentialDisposable()
		observer.OnSubscribe(upstream)

		upstream.SetOnce(source.Subscribe(&funcObserver[T]{
			onNext: observer.OnNext,
			onError: func(err error) {
				var fallback Observable[T]
				selErr := tryCatch(func() error {
					fallback = resumeSelector(err)
					return nil
				})
				if selErr != nil {
					observer.OnError(selErr)
					return
				}
				upstream.Set(fallback.Subscribe(observer))
			},
			onComplete: observer.OnComplete,
		}))

		return upstream
	})
}

// Retry resubscribes to source up to count additional times (count < 0
// means unlimited) whenever it errors, only forwarding the error once the
// budget is exhausted.
func Retry[T any](source Observable[T], count int) Observable[T] {
	return NewObservable(func(observer Observer[T]) Disposable {
		upstream := NewSequentialDisposable()
		observer.OnSubscribe(upstream)

		attemptsLeft := count
		var subscribeOnce func()
		subscribeOnce = func() {
			if upstream.IsDisposed() {
				return
			}
			upstream.Set(source.Subscribe(&funcObserver[T]{
				onNext: observer.OnNext,
				onError: func(err error) {
					if count >= 0 {
						if attemptsLeft <= 0 {
							observer.OnError(err)
							return
						}
						attemptsLeft--
					}
					subscribeOnce()
				},
				onComplete: observer.OnComplete,
			}))
		}
		subscribeOnce()

		return upstream
	})
}

// Repeat resubscribes to source count additional times after it completes
// (count < 0 means unlimited), only forwarding OnComplete once the budget
// is exhausted.
func Repeat[T any](source Observable[T], count int) Observable[T] {
	return NewObservable(func(observer Observer[T]) Disposable {
		upstream := NewSequentialDisposable()
		observer.OnSubscribe(upstream)

		repeatsLeft := count
		var subscribeOnce func()
		subscribeOnce = func() {
			if upstream.IsDisposed() {
				return
			}
			upstream.Set(source.Subscribe(&funcObserver[T]{
				onNext:  observer.OnNext,
				onError: observer.OnError,
				onComplete: func() {
					if count >= 0 {
						if repeatsLeft <= 0 {
							observer.OnComplete()
							return
						}
						repeatsLeft--
					}
					subscribeOnce()
				},
			}))
		}
		subscribeOnce()

		return upstream
	})
}
