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

import "sync/atomic"

// Observable is a cold, push-based source of T values: every Subscribe call
// runs the source's subscribe function anew, from the beginning.
type Observable[T any] interface {
	// Subscribe attaches observer to the source and returns the
	// Disposable that cancels it.
	Subscribe(observer Observer[T]) Disposable
}

// observableImpl is the only concrete Observable[T]; every operator and
// factory in this package builds one via NewObservable.
type observableImpl[T any] struct {
	subscribeFn func(Observer[T]) Disposable
}

func (o *observableImpl[T]) Subscribe(observer Observer[T]) Disposable {
	return o.subscribeFn(observer)
}

// NewObservable builds an Observable[T] from a raw subscribe function. It
// is the primitive every operator in this package is built from; Create is
// the public, Emitter-based flavor of the same idea.
func NewObservable[T any](subscribeFn func(Observer[T]) Disposable) Observable[T] {
	return &observableImpl[T]{subscribeFn: subscribeFn}
}

// emitterImpl is the producer-side Emitter handed to a Create callback.
type emitterImpl[T any] struct {
	observer Observer[T]
	cell     *DisposableCell
	done     atomic.Bool
}

func (e *emitterImpl[T]) OnNext(value T) {
	if e.done.Load() || e.cell.IsDisposed() {
		return
	}
	e.observer.OnNext(value)
}

func (e *emitterImpl[T]) OnError(err error) {
	if e.cell.IsDisposed() || !e.done.CompareAndSwap(false, true) {
		return
	}
	e.observer.OnError(err)
	e.cell.Dispose()
}

func (e *emitterImpl[T]) OnComplete() {
	if e.cell.IsDisposed() || !e.done.CompareAndSwap(false, true) {
		return
	}
	e.observer.OnComplete()
	e.cell.Dispose()
}

func (e *emitterImpl[T]) IsDisposed() bool {
	return e.done.Load() || e.cell.IsDisposed()
}

func (e *emitterImpl[T]) SetDisposable(d Disposable) {
	e.cell.Set(d)
}

// Create builds an Observable[T] whose subscribe function receives an
// Emitter it can push values through. A panic raised by subscribeFn is
// recovered and delivered as OnError instead of propagating into the
// caller's Subscribe stack, matching the panic-recovery boundary every
// other user-supplied callback in this package gets.
func Create[T any](subscribeFn func(Emitter[T])) Observable[T] {
	return NewObservable(func(observer Observer[T]) Disposable {
		cell := NewDisposableCell()
		emitter := &emitterImpl[T]{observer: observer, cell: cell}
		observer.OnSubscribe(cell)

		if err := tryCatch(func() error {
			subscribeFn(emitter)
			return nil
		}); err != nil {
			emitter.OnError(err)
		}

		return cell
	})
}

// Subscribe is the convenience entry point: it builds a funcObserver from
// up to three callbacks and subscribes it to source. Any nil callback
// drops the corresponding notification, except that an error arriving with
// a nil onError is passed to OnUnhandledError.
func Subscribe[T any](source Observable[T], onNext func(T), onError func(error), onComplete func()) Disposable {
	return source.Subscribe(&funcObserver[T]{
		onNext:     onNext,
		onError:    onError,
		onComplete: onComplete,
	})
}
