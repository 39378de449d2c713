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

import "github.com/google/uuid"

// Map projects every value of source through project.
func Map[T, R any](source Observable[T], project func(T) R) Observable[R] {
	return NewObservable(func(observer Observer[R]) Disposable {
		f := &mapFrame[T, R]{downstream: observer, project: project}
		return source.Subscribe(f)
	})
}

type mapFrame[T, R any] struct {
	downstream Observer[R]
	upstream   DisposableCell
	project    func(T) R
	done       bool
}

func (f *mapFrame[T, R]) OnSubscribe(d Disposable) {
	if !f.upstream.SetOnce(d) {
		return
	}
	f.downstream.OnSubscribe(f)
}

func (f *mapFrame[T, R]) OnNext(value T) {
	if f.done {
		reportProtocolViolation("OnNext delivered after terminal event")
		return
	}
	mapped, err := callPredicate1(f.project, value)
	if err != nil {
		f.OnError(err)
		return
	}
	f.downstream.OnNext(mapped)
}

func (f *mapFrame[T, R]) OnError(err error) {
	if f.done {
		reportProtocolViolation("OnError delivered after terminal event")
		return
	}
	f.done = true
	f.downstream.OnError(err)
	f.upstream.Dispose()
}

func (f *mapFrame[T, R]) OnComplete() {
	if f.done {
		reportProtocolViolation("OnComplete delivered after terminal event")
		return
	}
	f.done = true
	f.downstream.OnComplete()
	f.upstream.Dispose()
}

func (f *mapFrame[T, R]) Dispose()        { f.done = true; f.upstream.Dispose() }
func (f *mapFrame[T, R]) IsDisposed() bool { return f.upstream.IsDisposed() }

// Scan applies accumulator to a running state starting at seed, emitting
// the updated state after each source value (an incremental Reduce).
func Scan[T, R any](source Observable[T], seed R, accumulator func(acc R, value T) R) Observable[R] {
	return NewObservable(func(observer Observer[R]) Disposable {
		f := &mapFrame[T, R]{downstream: observer}
		state := seed
		f.project = func(value T) R {
			state = accumulator(state, value)
			return state
		}
		return source.Subscribe(f)
	})
}

// Reduce applies accumulator across every value of source and emits only
// the final state once source completes.
func Reduce[T, R any](source Observable[T], seed R, accumulator func(acc R, value T) R) Observable[R] {
	return NewObservable(func(observer Observer[R]) Disposable {
		f := &reduceFrame[T, R]{downstream: observer, state: seed, accumulator: accumulator}
		return source.Subscribe(f)
	})
}

type reduceFrame[T, R any] struct {
	downstream  Observer[R]
	upstream    DisposableCell
	state       R
	accumulator func(R, T) R
	done        bool
}

func (f *reduceFrame[T, R]) OnSubscribe(d Disposable) {
	if !f.upstream.SetOnce(d) {
		return
	}
	f.downstream.OnSubscribe(f)
}

func (f *reduceFrame[T, R]) OnNext(value T) {
	if f.done {
		return
	}
	err := tryCatch(func() error {
		f.state = f.accumulator(f.state, value)
		return nil
	})
	if err != nil {
		f.OnError(err)
	}
}

func (f *reduceFrame[T, R]) OnError(err error) {
	if f.done {
		return
	}
	f.done = true
	f.downstream.OnError(err)
	f.upstream.Dispose()
}

func (f *reduceFrame[T, R]) OnComplete() {
	if f.done {
		return
	}
	f.done = true
	f.downstream.OnNext(f.state)
	f.downstream.OnComplete()
	f.upstream.Dispose()
}

func (f *reduceFrame[T, R]) Dispose()        { f.done = true; f.upstream.Dispose() }
func (f *reduceFrame[T, R]) IsDisposed() bool { return f.upstream.IsDisposed() }

// Buffer collects values into slices of size count, emitting a new slice
// every skip values (skip == count gives the common non-overlapping case;
// skip < count produces overlapping windows; skip > count drops values
// between buffers). The final, possibly short, buffer is flushed on
// completion if it has at least one element.
func Buffer[T any](source Observable[T], count, skip int) Observable[[]T] {
	if count <= 0 {
		return Throw[[]T](ErrBufferWrongCount)
	}
	if skip <= 0 {
		skip = count
	}
	return NewObservable(func(observer Observer[[]T]) Disposable {
		f := &bufferFrame[T]{downstream: observer, count: count, skip: skip}
		return source.Subscribe(f)
	})
}

type bufferFrame[T any] struct {
	downstream Observer[[]T]
	upstream   DisposableCell
	count      int
	skip       int
	seen       int
	buffers    [][]T
	done       bool
}

func (f *bufferFrame[T]) OnSubscribe(d Disposable) {
	if !f.upstream.SetOnce(d) {
		return
	}
	f.downstream.OnSubscribe(f)
}

func (f *bufferFrame[T]) OnNext(value T) {
	if f.done {
		return
	}
	if f.seen%f.skip == 0 {
		f.buffers = append(f.buffers, make([]T, 0, f.count))
	}
	f.seen++

	for i := range f.buffers {
		f.buffers[i] = append(f.buffers[i], value)
	}

	for len(f.buffers) > 0 && len(f.buffers[0]) == f.count {
		f.downstream.OnNext(f.buffers[0])
		f.buffers = f.buffers[1:]
	}
}

func (f *bufferFrame[T]) OnError(err error) {
	if f.done {
		return
	}
	f.done = true
	f.downstream.OnError(err)
	f.upstream.Dispose()
}

func (f *bufferFrame[T]) OnComplete() {
	if f.done {
		return
	}
	f.done = true
	for _, buf := range f.buffers {
		if len(buf) > 0 {
			f.downstream.OnNext(buf)
		}
	}
	f.downstream.OnComplete()
	f.upstream.Dispose()
}

func (f *bufferFrame[T]) Dispose()        { f.done = true; f.upstream.Dispose() }
func (f *bufferFrame[T]) IsDisposed() bool { return f.upstream.IsDisposed() }

// Window is Buffer's Observable-of-Observable sibling: instead of
// collecting values into slices, each window is its own PublishSubject
// that downstream subscribes to independently. A new window opens every
// skip values and closes (completes) once count values have passed through
// it (skip == count gives the common non-overlapping case; skip < count
// produces overlapping windows the way Buffer(count, skip) does; skip >
// count drops values between windows).
func Window[T any](source Observable[T], count, skip int) Observable[Observable[T]] {
	if count <= 0 {
		return Throw[Observable[T]](ErrBufferWrongCount)
	}
	if skip <= 0 {
		skip = count
	}
	return NewObservable(func(observer Observer[Observable[T]]) Disposable {
		f := &windowFrame[T]{downstream: observer, count: count, skip: skip}
		return source.Subscribe(f)
	})
}

// windowSlot tracks one currently open window's subject alongside how many
// values it has received, mirroring bufferFrame's per-buffer slice length.
type windowSlot[T any] struct {
	subject *PublishSubject[T]
	count   int
}

type windowFrame[T any] struct {
	downstream Observer[Observable[T]]
	upstream   DisposableCell
	count      int
	skip       int
	seen       int
	windows    []*windowSlot[T]
	done       bool
}

func (f *windowFrame[T]) OnSubscribe(d Disposable) {
	if !f.upstream.SetOnce(d) {
		return
	}
	f.downstream.OnSubscribe(f)
}

func (f *windowFrame[T]) OnNext(value T) {
	if f.done {
		return
	}
	if f.seen%f.skip == 0 {
		w := &windowSlot[T]{subject: NewPublishSubject[T]()}
		f.windows = append(f.windows, w)
		f.downstream.OnNext(w.subject)
	}
	f.seen++

	for _, w := range f.windows {
		w.subject.OnNext(value)
		w.count++
	}

	for len(f.windows) > 0 && f.windows[0].count == f.count {
		f.windows[0].subject.OnComplete()
		f.windows = f.windows[1:]
	}
}

func (f *windowFrame[T]) OnError(err error) {
	if f.done {
		return
	}
	f.done = true
	for _, w := range f.windows {
		w.subject.OnError(err)
	}
	f.downstream.OnError(err)
	f.upstream.Dispose()
}

func (f *windowFrame[T]) OnComplete() {
	if f.done {
		return
	}
	f.done = true
	for _, w := range f.windows {
		w.subject.OnComplete()
	}
	f.downstream.OnComplete()
	f.upstream.Dispose()
}

func (f *windowFrame[T]) Dispose()        { f.done = true; f.upstream.Dispose() }
func (f *windowFrame[T]) IsDisposed() bool { return f.upstream.IsDisposed() }

// GroupedObservable is the per-key Observable GroupBy emits: subscribing
// to it replays nothing (it is a live PublishSubject) but delivers every
// value matching Key from the moment of subscription onward.
type GroupedObservable[K comparable, T any] struct {
	Key K
	Observable[T]
}

// GroupBy partitions source into one GroupedObservable per distinct
// keySelector result. A diagnostic uuid identifies each internal
// PublishSubject for logging, grounded on the teacher's subscription ids.
func GroupBy[T any, K comparable](source Observable[T], keySelector func(T) K) Observable[GroupedObservable[K, T]] {
	return NewObservable(func(observer Observer[GroupedObservable[K, T]]) Disposable {
		f := &groupByFrame[T, K]{downstream: observer, keySelector: keySelector, groups: map[K]*PublishSubject[T]{}}
		return source.Subscribe(f)
	})
}

type groupByFrame[T any, K comparable] struct {
	downstream  Observer[GroupedObservable[K, T]]
	upstream    DisposableCell
	keySelector func(T) K
	groups      map[K]*PublishSubject[T]
	order       []K
	done        bool
}

func (f *groupByFrame[T, K]) OnSubscribe(d Disposable) {
	if !f.upstream.SetOnce(d) {
		return
	}
	f.downstream.OnSubscribe(f)
}

func (f *groupByFrame[T, K]) OnNext(value T) {
	if f.done {
		return
	}
	key, err := callPredicate1(f.keySelector, value)
	if err != nil {
		f.OnError(err)
		return
	}

	subject, ok := f.groups[key]
	if !ok {
		subject = NewPublishSubject[T]()
		subject.id = uuid.NewString()
		f.groups[key] = subject
		f.order = append(f.order, key)
		f.downstream.OnNext(GroupedObservable[K, T]{Key: key, Observable: subject})
	}
	subject.OnNext(value)
}

func (f *groupByFrame[T, K]) OnError(err error) {
	if f.done {
		return
	}
	f.done = true
	for _, key := range f.order {
		f.groups[key].OnError(err)
	}
	f.downstream.OnError(err)
	f.upstream.Dispose()
}

func (f *groupByFrame[T, K]) OnComplete() {
	if f.done {
		return
	}
	f.done = true
	for _, key := range f.order {
		f.groups[key].OnComplete()
	}
	f.downstream.OnComplete()
	f.upstream.Dispose()
}

func (f *groupByFrame[T, K]) Dispose()        { f.done = true; f.upstream.Dispose() }
func (f *groupByFrame[T, K]) IsDisposed() bool { return f.upstream.IsDisposed() }
