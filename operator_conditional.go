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

// All emits true if every value satisfies predicate (vacuously true for an
// empty source), false the moment one fails, then completes.
func All[T any](source Observable[T], predicate func(T) bool) Observable[bool] {
	return NewObservable(func(observer Observer[bool]) Disposable {
		f := &allFrame[T]{downstream: observer, predicate: predicate, result: true}
		return source.Subscribe(f)
	})
}

type allFrame[T any] struct {
	downstream Observer[bool]
	upstream   DisposableCell
	predicate  func(T) bool
	result     bool
	done       bool
}

func (f *allFrame[T]) OnSubscribe(d Disposable) {
	if !f.upstream.SetOnce(d) {
		return
	}
	f.downstream.OnSubscribe(f)
}

func (f *allFrame[T]) OnNext(value T) {
	if f.done {
		return
	}
	ok, err := callPredicate(f.predicate, value)
	if err != nil {
		f.OnError(err)
		return
	}
	if !ok {
		f.result = false
		f.done = true
		f.downstream.OnNext(false)
		f.downstream.OnComplete()
		f.upstream.Dispose()
	}
}

func (f *allFrame[T]) OnError(err error) {
	if f.done {
		return
	}
	f.done = true
	f.downstream.OnError(err)
	f.upstream.Dispose()
}

func (f *allFrame[T]) OnComplete() {
	if f.done {
		return
	}
	f.done = true
	f.downstream.OnNext(f.result)
	f.downstream.OnComplete()
	f.upstream.Dispose()
}

func (f *allFrame[T]) Dispose()        { f.upstream.Dispose() }
func (f *allFrame[T]) IsDisposed() bool { return f.upstream.IsDisposed() }

// Any emits true the moment one value satisfies predicate, false if source
// completes having never satisfied it.
func Any[T any](source Observable[T], predicate func(T) bool) Observable[bool] {
	return NewObservable(func(observer Observer[bool]) Disposable {
		f := &allFrame[T]{downstream: observer, predicate: func(v T) bool { return !predicate(v) }, result: false}
		return source.Subscribe(&anyAdapter[T]{allFrame: f})
	})
}

// anyAdapter reuses allFrame's short-circuit-on-false machinery by negating
// both the predicate and the terminal result, so "any predicate matches" is
// expressed as "not all !predicate match".
type anyAdapter[T any] struct {
	*allFrame[T]
}

func (a *anyAdapter[T]) OnNext(value T) {
	if a.done {
		return
	}
	ok, err := callPredicate(a.predicate, value)
	if err != nil {
		a.OnError(err)
		return
	}
	if !ok {
		a.done = true
		a.downstream.OnNext(true)
		a.downstream.OnComplete()
		a.upstream.Dispose()
	}
}

func (a *anyAdapter[T]) OnComplete() {
	if a.done {
		return
	}
	a.done = true
	a.downstream.OnNext(false)
	a.downstream.OnComplete()
	a.upstream.Dispose()
}

// Contains emits true if source ever emits a value equal to target (per
// equal), false otherwise.
func Contains[T any](source Observable[T], target T, equal func(a, b T) bool) Observable[bool] {
	return Any(source, func(v T) bool { return equal(v, target) })
}

// IsEmpty emits true if source completes without ever emitting a value.
func IsEmpty[T any](source Observable[T]) Observable[bool] {
	return Map(Any(source, func(T) bool { return true }), func(found bool) bool { return !found })
}
