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

// Filter emits only the values for which predicate returns true. A panic
// in predicate is delivered as OnError.
func Filter[T any](source Observable[T], predicate func(T) bool) Observable[T] {
	return NewObservable(func(observer Observer[T]) Disposable {
		f := &filterFrame[T]{frame: newFrame(observer), predicate: predicate}
		return source.Subscribe(f)
	})
}

type filterFrame[T any] struct {
	*frame[T]
	predicate func(T) bool
}

func (f *filterFrame[T]) OnNext(value T) {
	if f.isDone() {
		reportProtocolViolation("OnNext delivered after terminal event")
		return
	}

	keep, err := callPredicate(f.predicate, value)
	if err != nil {
		f.OnError(err)
		return
	}
	if keep {
		f.frame.OnNext(value)
	}
}

// Skip drops the first count values, then emits the rest unchanged.
func Skip[T any](source Observable[T], count int) Observable[T] {
	if count <= 0 {
		return source
	}
	return NewObservable(func(observer Observer[T]) Disposable {
		f := &skipFrame[T]{frame: newFrame(observer), remaining: count}
		return source.Subscribe(f)
	})
}

type skipFrame[T any] struct {
	*frame[T]
	remaining int
}

func (f *skipFrame[T]) OnNext(value T) {
	if f.isDone() {
		return
	}
	if f.remaining > 0 {
		f.remaining--
		return
	}
	f.frame.OnNext(value)
}

// Take emits only the first count values, then completes and disposes
// upstream. count == 0 produces an Observable that completes immediately.
func Take[T any](source Observable[T], count int) Observable[T] {
	if count < 0 {
		return Throw[T](ErrTakeWrongCount)
	}
	if count == 0 {
		return Empty[T]()
	}
	return NewObservable(func(observer Observer[T]) Disposable {
		f := &takeFrame[T]{frame: newFrame(observer), remaining: count}
		return source.Subscribe(f)
	})
}

type takeFrame[T any] struct {
	*frame[T]
	remaining int
}

func (f *takeFrame[T]) OnNext(value T) {
	if f.isDone() || f.remaining <= 0 {
		return
	}
	f.remaining--
	f.frame.OnNext(value)
	if f.remaining == 0 {
		f.OnComplete()
	}
}

// SkipLast withholds the last count values: it buffers count values behind
// the emission point and only forwards once the buffer overflows.
func SkipLast[T any](source Observable[T], count int) Observable[T] {
	if count <= 0 {
		return source
	}
	return NewObservable(func(observer Observer[T]) Disposable {
		f := &skipLastFrame[T]{frame: newFrame(observer), buffer: make([]T, 0, count), count: count}
		return source.Subscribe(f)
	})
}

type skipLastFrame[T any] struct {
	*frame[T]
	buffer []T
	count  int
}

func (f *skipLastFrame[T]) OnNext(value T) {
	if f.isDone() {
		return
	}
	f.buffer = append(f.buffer, value)
	if len(f.buffer) > f.count {
		head := f.buffer[0]
		f.buffer = f.buffer[1:]
		f.frame.OnNext(head)
	}
}

// TakeLast emits only the last count values seen before completion.
func TakeLast[T any](source Observable[T], count int) Observable[T] {
	if count <= 0 {
		return Empty[T]()
	}
	return NewObservable(func(observer Observer[T]) Disposable {
		f := &takeLastFrame[T]{frame: newFrame(observer), count: count}
		return source.Subscribe(f)
	})
}

type takeLastFrame[T any] struct {
	*frame[T]
	buffer []T
	count  int
}

func (f *takeLastFrame[T]) OnNext(value T) {
	if f.isDone() {
		return
	}
	f.buffer = append(f.buffer, value)
	if len(f.buffer) > f.count {
		f.buffer = f.buffer[len(f.buffer)-f.count:]
	}
}

func (f *takeLastFrame[T]) OnComplete() {
	if !f.markDone() {
		reportProtocolViolation("OnComplete delivered after terminal event")
		return
	}
	for _, v := range f.buffer {
		f.downstream.OnNext(v)
	}
	f.downstream.OnComplete()
	f.upstream.Dispose()
}

// Distinct emits only values whose keySelector result has not been seen
// before, for the lifetime of the subscription.
func Distinct[T any, K comparable](source Observable[T], keySelector func(T) K) Observable[T] {
	return NewObservable(func(observer Observer[T]) Disposable {
		f := &distinctFrame[T, K]{frame: newFrame(observer), keySelector: keySelector, seen: map[K]struct{}{}}
		return source.Subscribe(f)
	})
}

type distinctFrame[T any, K comparable] struct {
	*frame[T]
	keySelector func(T) K
	seen        map[K]struct{}
}

func (f *distinctFrame[T, K]) OnNext(value T) {
	if f.isDone() {
		return
	}
	key, err := callPredicate1(f.keySelector, value)
	if err != nil {
		f.OnError(err)
		return
	}
	if _, ok := f.seen[key]; ok {
		return
	}
	f.seen[key] = struct{}{}
	f.frame.OnNext(value)
}

// DistinctUntilChanged emits a value only when it differs from the
// immediately preceding one, per equal.
func DistinctUntilChanged[T any](source Observable[T], equal func(a, b T) bool) Observable[T] {
	return NewObservable(func(observer Observer[T]) Disposable {
		f := &distinctUntilChangedFrame[T]{frame: newFrame(observer), equal: equal}
		return source.Subscribe(f)
	})
}

type distinctUntilChangedFrame[T any] struct {
	*frame[T]
	equal   func(a, b T) bool
	prev    T
	hasPrev bool
}

func (f *distinctUntilChangedFrame[T]) OnNext(value T) {
	if f.isDone() {
		return
	}
	if f.hasPrev {
		var same bool
		err := tryCatch(func() error {
			same = f.equal(f.prev, value)
			return nil
		})
		if err != nil {
			f.OnError(err)
			return
		}
		if same {
			return
		}
	}
	f.prev = value
	f.hasPrev = true
	f.frame.OnNext(value)
}

// ElementAt emits the single value at the given zero-based index, then
// completes, or errors with ErrElementAtOutOfBand if the source completes
// first.
func ElementAt[T any](source Observable[T], index int) Observable[T] {
	if index < 0 {
		return Throw[T](ErrElementAtOutOfBand)
	}
	return NewObservable(func(observer Observer[T]) Disposable {
		f := &elementAtFrame[T]{frame: newFrame(observer), index: index}
		return source.Subscribe(f)
	})
}

type elementAtFrame[T any] struct {
	*frame[T]
	index int
	seen  int
}

func (f *elementAtFrame[T]) OnNext(value T) {
	if f.isDone() {
		return
	}
	if f.seen == f.index {
		f.frame.OnNext(value)
		f.frame.OnComplete()
		return
	}
	f.seen++
}

// OnComplete is only reached when source completes before the index was
// hit; the found-value path completes through frame.OnComplete instead.
func (f *elementAtFrame[T]) OnComplete() {
	if !f.markDone() {
		reportProtocolViolation("OnComplete delivered after terminal event")
		return
	}
	f.downstream.OnError(ErrElementAtOutOfBand)
	f.upstream.Dispose()
}

// First emits only the first value from source, then completes. If source
// completes without emitting, it errors with ErrSequenceIsEmpty.
func First[T any](source Observable[T]) Observable[T] {
	return NewObservable(func(observer Observer[T]) Disposable {
		f := &firstLastFrame[T]{frame: newFrame(observer), first: true}
		return source.Subscribe(f)
	})
}

// Last emits only the last value from source, then completes. If source
// completes without emitting, it errors with ErrSequenceIsEmpty.
func Last[T any](source Observable[T]) Observable[T] {
	return NewObservable(func(observer Observer[T]) Disposable {
		f := &firstLastFrame[T]{frame: newFrame(observer), first: false}
		return source.Subscribe(f)
	})
}

type firstLastFrame[T any] struct {
	*frame[T]
	first   bool
	value   T
	hasSeen bool
}

func (f *firstLastFrame[T]) OnNext(value T) {
	if f.isDone() {
		return
	}
	f.value = value
	f.hasSeen = true
	if f.first {
		f.frame.OnNext(value)
		f.OnComplete()
	}
}

func (f *firstLastFrame[T]) OnComplete() {
	if !f.markDone() {
		reportProtocolViolation("OnComplete delivered after terminal event")
		return
	}
	if f.first {
		// reached from OnNext right after the first value was forwarded,
		// or from source completing before any value arrived.
		if !f.hasSeen {
			f.downstream.OnError(ErrSequenceIsEmpty)
		} else {
			f.downstream.OnComplete()
		}
		f.upstream.Dispose()
		return
	}
	if !f.hasSeen {
		f.downstream.OnError(ErrSequenceIsEmpty)
		f.upstream.Dispose()
		return
	}
	f.downstream.OnNext(f.value)
	f.downstream.OnComplete()
	f.upstream.Dispose()
}

// IgnoreElements suppresses every OnNext, forwarding only OnError/OnComplete.
func IgnoreElements[T any](source Observable[T]) Observable[T] {
	return NewObservable(func(observer Observer[T]) Disposable {
		f := &ignoreElementsFrame[T]{frame: newFrame(observer)}
		return source.Subscribe(f)
	})
}

type ignoreElementsFrame[T any] struct {
	*frame[T]
}

func (f *ignoreElementsFrame[T]) OnNext(T) {}

// DefaultIfEmpty emits defaultValue (and then completes) if source
// completes having emitted nothing, otherwise passes source through
// unchanged.
func DefaultIfEmpty[T any](source Observable[T], defaultValue T) Observable[T] {
	return NewObservable(func(observer Observer[T]) Disposable {
		f := &defaultIfEmptyFrame[T]{frame: newFrame(observer), defaultValue: defaultValue}
		return source.Subscribe(f)
	})
}

type defaultIfEmptyFrame[T any] struct {
	*frame[T]
	defaultValue T
	hasSeen      bool
}

func (f *defaultIfEmptyFrame[T]) OnNext(value T) {
	if f.isDone() {
		return
	}
	f.hasSeen = true
	f.frame.OnNext(value)
}

func (f *defaultIfEmptyFrame[T]) OnComplete() {
	if !f.markDone() {
		reportProtocolViolation("OnComplete delivered after terminal event")
		return
	}
	if !f.hasSeen {
		f.downstream.OnNext(f.defaultValue)
	}
	f.downstream.OnComplete()
	f.upstream.Dispose()
}

func callPredicate[T any](predicate func(T) bool, value T) (result bool, err error) {
	err = tryCatch(func() error {
		result = predicate(value)
		return nil
	})
	return result, err
}

func callPredicate1[T any, K any](fn func(T) K, value T) (result K, err error) {
	err = tryCatch(func() error {
		result = fn(value)
		return nil
	})
	return result, err
}
