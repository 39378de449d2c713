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

// blockingResult is shared machinery for the three blocking sinks: park the
// calling goroutine on a sync.Cond until a terminal event arrives, then
// report whatever state the Observer callbacks recorded.
type blockingResult[T any] struct {
	mu       sync.Mutex
	cond     *sync.Cond
	done     bool
	value    T
	hasValue bool
	err      error
}

func newBlockingResult[T any]() *blockingResult[T] {
	r := &blockingResult[T]{}
	r.cond = sync.NewCond(&r.mu)
	return r
}

func (r *blockingResult[T]) finish(err error) {
	r.mu.Lock()
	if r.done {
		r.mu.Unlock()
		return
	}
	r.err = err
	r.done = true
	r.mu.Unlock()
	r.cond.Broadcast()
}

func (r *blockingResult[T]) wait() {
	r.mu.Lock()
	for !r.done {
		r.cond.Wait()
	}
	r.mu.Unlock()
}

// BlockingFirst subscribes to source and blocks the calling goroutine
// until the first value arrives (or the source errors or completes
// empty), then disposes the subscription.
func BlockingFirst[T any](source Observable[T]) (T, error) {
	result := newBlockingResult[T]()
	d := source.Subscribe(&funcObserver[T]{
		onNext: func(v T) {
			result.mu.Lock()
			if !result.hasValue {
				result.value = v
				result.hasValue = true
			}
			result.mu.Unlock()
			result.finish(nil)
		},
		onError:    func(err error) { result.finish(err) },
		onComplete: func() { result.finish(ErrSequenceIsEmpty) },
	})
	result.wait()
	d.Dispose()

	result.mu.Lock()
	defer result.mu.Unlock()
	if result.err != nil {
		var zero T
		return zero, result.err
	}
	return result.value, nil
}

// BlockingLast subscribes to source and blocks until it completes,
// returning the last value it emitted.
func BlockingLast[T any](source Observable[T]) (T, error) {
	result := newBlockingResult[T]()
	d := source.Subscribe(&funcObserver[T]{
		onNext: func(v T) {
			result.mu.Lock()
			result.value = v
			result.hasValue = true
			result.mu.Unlock()
		},
		onError: func(err error) { result.finish(err) },
		onComplete: func() {
			result.mu.Lock()
			hasValue := result.hasValue
			result.mu.Unlock()
			if hasValue {
				result.finish(nil)
			} else {
				result.finish(ErrSequenceIsEmpty)
			}
		},
	})
	result.wait()
	d.Dispose()

	result.mu.Lock()
	defer result.mu.Unlock()
	if result.err != nil {
		var zero T
		return zero, result.err
	}
	return result.value, nil
}

// BlockingForEach subscribes to source and blocks the calling goroutine,
// invoking onNext synchronously for every value, until source completes or
// errors.
func BlockingForEach[T any](source Observable[T], onNext func(T)) error {
	result := newBlockingResult[T]()
	d := source.Subscribe(&funcObserver[T]{
		onNext:     onNext,
		onError:    func(err error) { result.finish(err) },
		onComplete: func() { result.finish(nil) },
	})
	result.wait()
	d.Dispose()
	return result.err
}

// Collect runs source to completion and returns every value it emitted, in
// order, or the error it terminated with. It is the synchronous "toList"
// helper the teacher's Collect/CollectWithContext provide.
func Collect[T any](source Observable[T]) ([]T, error) {
	values := make([]T, 0)
	err := BlockingForEach(source, func(v T) {
		values = append(values, v)
	})
	if err != nil {
		return nil, err
	}
	return values, nil
}
