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

import "golang.org/x/exp/constraints"

// Sum emits the sum of every value from source once it completes. An
// empty source emits zero.
func Sum[T constraints.Integer | constraints.Float](source Observable[T]) Observable[T] {
	return Reduce(source, *new(T), func(acc T, value T) T { return acc + value })
}

// Count emits the number of values source produced once it completes.
func Count[T any](source Observable[T]) Observable[int] {
	return Reduce(Map(source, func(T) int { return 1 }), 0, func(acc, value int) int { return acc + value })
}

// Average emits the arithmetic mean of every value from source once it
// completes, erroring with ErrSequenceIsEmpty if source emitted nothing.
func Average[T constraints.Integer | constraints.Float](source Observable[T]) Observable[float64] {
	type acc struct {
		sum   T
		count int
	}
	return NewObservable(func(observer Observer[float64]) Disposable {
		reduced := Reduce(source, acc{}, func(a acc, value T) acc {
			a.sum += value
			a.count++
			return a
		})
		empty := false
		return reduced.Subscribe(&funcObserver[acc]{
			onNext: func(a acc) {
				if a.count == 0 {
					empty = true
					observer.OnError(ErrSequenceIsEmpty)
					return
				}
				observer.OnNext(float64(a.sum) / float64(a.count))
			},
			onError: observer.OnError,
			onComplete: func() {
				if !empty {
					observer.OnComplete()
				}
			},
		})
	})
}

// Min emits the smallest value source produced once it completes, erroring
// with ErrSequenceIsEmpty if source emitted nothing.
func Min[T constraints.Ordered](source Observable[T]) Observable[T] {
	return extremum(source, func(candidate, current T) bool { return candidate < current })
}

// Max emits the largest value source produced once it completes, erroring
// with ErrSequenceIsEmpty if source emitted nothing.
func Max[T constraints.Ordered](source Observable[T]) Observable[T] {
	return extremum(source, func(candidate, current T) bool { return candidate > current })
}

func extremum[T constraints.Ordered](source Observable[T], better func(candidate, current T) bool) Observable[T] {
	return NewObservable(func(observer Observer[T]) Disposable {
		var best T
		hasValue := false
		return source.Subscribe(&funcObserver[T]{
			onNext: func(v T) {
				if !hasValue || better(v, best) {
					best = v
					hasValue = true
				}
			},
			onError: observer.OnError,
			onComplete: func() {
				if !hasValue {
					observer.OnError(ErrSequenceIsEmpty)
					return
				}
				observer.OnNext(best)
				observer.OnComplete()
			},
		})
	})
}
