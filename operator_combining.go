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

	"github.com/samber/lo"
)

// Merge subscribes to every source concurrently and forwards whichever
// value arrives, in arrival order; it completes once every source has
// completed, and errors as soon as any source errors.
func Merge[T any](sources ...Observable[T]) Observable[T] {
	return NewObservable(func(observer Observer[T]) Disposable {
		composite := NewCompositeDisposable()
		var mu sync.Mutex
		remaining := len(sources)
		done := false

		if remaining == 0 {
			observer.OnSubscribe(Empty)
			observer.OnComplete()
			return Empty
		}

		observer.OnSubscribe(composite)

		for _, src := range sources {
			src := src
			composite.Add(src.Subscribe(&funcObserver[T]{
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
					composite.Dispose()
				},
				onComplete: func() {
					mu.Lock()
					remaining--
					allDone := remaining == 0 && !done
					if allDone {
						done = true
					}
					mu.Unlock()
					if allDone {
						observer.OnComplete()
					}
				},
			}))
		}

		return composite
	})
}

// Concat subscribes to each source in order, moving to the next only after
// the previous completes, and forwards the first error encountered.
func Concat[T any](sources ...Observable[T]) Observable[T] {
	return NewObservable(func(observer Observer[T]) Disposable {
		upstream := NewSequentialDisposable()
		observer.OnSubscribe(upstream)

		var subscribeNext func(i int)
		subscribeNext = func(i int) {
			if upstream.IsDisposed() {
				return
			}
			if i >= len(sources) {
				observer.OnComplete()
				return
			}
			upstream.Set(sources[i].Subscribe(&funcObserver[T]{
				onNext:  observer.OnNext,
				onError: observer.OnError,
				onComplete: func() {
					subscribeNext(i + 1)
				},
			}))
		}
		subscribeNext(0)

		return upstream
	})
}

// StartWith prepends values to source, in order, before source's own
// values.
func StartWith[T any](source Observable[T], values ...T) Observable[T] {
	return Concat(FromSlice(values), source)
}

// Amb (also known as Race) subscribes to every source and forwards only
// the notifications of whichever source emits (or terminates) first. The
// other sources' notifications are ignored from then on; their
// subscriptions are not disposed until the winner terminates or the
// returned Disposable is disposed.
func Amb[T any](sources ...Observable[T]) Observable[T] {
	if len(sources) == 0 {
		return Throw[T](ErrAmbNoSources)
	}
	return NewObservable(func(observer Observer[T]) Disposable {
		composite := NewCompositeDisposable()
		observer.OnSubscribe(composite)

		var mu sync.Mutex
		winner := -1

		for i, src := range sources {
			i, src := i, src
			composite.Add(src.Subscribe(&funcObserver[T]{
				onNext: func(v T) {
					mu.Lock()
					if winner == -1 {
						winner = i
					}
					won := winner == i
					mu.Unlock()
					if won {
						observer.OnNext(v)
					}
				},
				onError: func(err error) {
					mu.Lock()
					if winner == -1 {
						winner = i
					}
					won := winner == i
					mu.Unlock()
					if won {
						observer.OnError(err)
						composite.Dispose()
					}
				},
				onComplete: func() {
					mu.Lock()
					if winner == -1 {
						winner = i
					}
					won := winner == i
					mu.Unlock()
					if won {
						observer.OnComplete()
						composite.Dispose()
					}
				},
			}))
		}

		return composite
	})
}

// Race is an alias for Amb.
func Race[T any](sources ...Observable[T]) Observable[T] {
	return Amb(sources...)
}

// Zip2 pairs up the nth value of a with the nth value of b, emitting once
// both have produced their nth value, and completes as soon as either
// source is exhausted: completed, with every value it produced paired.
func Zip2[A, B any](a Observable[A], b Observable[B]) Observable[lo.Tuple2[A, B]] {
	return NewObservable(func(observer Observer[lo.Tuple2[A, B]]) Disposable {
		composite := NewCompositeDisposable()
		observer.OnSubscribe(composite)

		var mu sync.Mutex
		var bufA []A
		var bufB []B
		var aDone, bDone bool
		done := false

		emit := func() {
			for len(bufA) > 0 && len(bufB) > 0 {
				va, vb := bufA[0], bufB[0]
				bufA, bufB = bufA[1:], bufB[1:]
				observer.OnNext(lo.Tuple2[A, B]{A: va, B: vb})
			}
		}

		finish := func(err error) {
			mu.Lock()
			if done {
				mu.Unlock()
				return
			}
			done = true
			mu.Unlock()
			if err != nil {
				observer.OnError(err)
			} else {
				observer.OnComplete()
			}
			composite.Dispose()
		}

		// end marks a source completed (when flag is non-nil) and completes
		// downstream once a completed source has no buffered value left.
		end := func(flag *bool) {
			mu.Lock()
			if flag != nil {
				*flag = true
			}
			exhausted := (aDone && len(bufA) == 0) || (bDone && len(bufB) == 0)
			mu.Unlock()
			if exhausted {
				finish(nil)
			}
		}

		composite.Add(a.Subscribe(&funcObserver[A]{
			onNext: func(v A) {
				mu.Lock()
				bufA = append(bufA, v)
				emit()
				mu.Unlock()
				end(nil)
			},
			onError:    finish,
			onComplete: func() { end(&aDone) },
		}))
		composite.Add(b.Subscribe(&funcObserver[B]{
			onNext: func(v B) {
				mu.Lock()
				bufB = append(bufB, v)
				emit()
				mu.Unlock()
				end(nil)
			},
			onError:    finish,
			onComplete: func() { end(&bDone) },
		}))

		return composite
	})
}

// CombineLatest2 emits a pair whenever either source produces a value,
// once both have emitted at least once.
func CombineLatest2[A, B any](a Observable[A], b Observable[B]) Observable[lo.Tuple2[A, B]] {
	return NewObservable(func(observer Observer[lo.Tuple2[A, B]]) Disposable {
		composite := NewCompositeDisposable()
		observer.OnSubscribe(composite)

		var mu sync.Mutex
		var lastA A
		var lastB B
		var hasA, hasB bool
		var aDone, bDone bool
		done := false

		emit := func() {
			if hasA && hasB {
				observer.OnNext(lo.Tuple2[A, B]{A: lastA, B: lastB})
			}
		}

		finish := func(err error) {
			mu.Lock()
			if done {
				mu.Unlock()
				return
			}
			done = true
			mu.Unlock()
			if err != nil {
				observer.OnError(err)
			} else {
				observer.OnComplete()
			}
			composite.Dispose()
		}

		// complete marks one source completed; downstream completes once both
		// have, or at once if the completed source never emitted.
		complete := func(selfDone, selfHas, otherDone *bool) {
			mu.Lock()
			*selfDone = true
			end := *otherDone || !*selfHas
			mu.Unlock()
			if end {
				finish(nil)
			}
		}

		composite.Add(a.Subscribe(&funcObserver[A]{
			onNext: func(v A) {
				mu.Lock()
				lastA, hasA = v, true
				emit()
				mu.Unlock()
			},
			onError:    finish,
			onComplete: func() { complete(&aDone, &hasA, &bDone) },
		}))
		composite.Add(b.Subscribe(&funcObserver[B]{
			onNext: func(v B) {
				mu.Lock()
				lastB, hasB = v, true
				emit()
				mu.Unlock()
			},
			onError:    finish,
			onComplete: func() { complete(&bDone, &hasB, &aDone) },
		}))

		return composite
	})
}

// ZipAny is the heterogeneous-arity form of Zip2: it operates on a slice of
// Observable[any] instead of a fixed pair, emitting a []any of the nth
// value from every source once all of them have one buffered.
func ZipAny(sources ...Observable[any]) Observable[[]any] {
	if len(sources) == 0 {
		return Empty[[]any]()
	}
	return NewObservable(func(observer Observer[[]any]) Disposable {
		composite := NewCompositeDisposable()
		observer.OnSubscribe(composite)

		n := len(sources)
		var mu sync.Mutex
		buffers := make([][]any, n)
		completed := make([]bool, n)
		done := false

		emit := func() {
			for {
				for i := 0; i < n; i++ {
					if len(buffers[i]) == 0 {
						return
					}
				}
				row := make([]any, n)
				for i := 0; i < n; i++ {
					row[i] = buffers[i][0]
					buffers[i] = buffers[i][1:]
				}
				observer.OnNext(row)
			}
		}

		finish := func(err error) {
			mu.Lock()
			if done {
				mu.Unlock()
				return
			}
			done = true
			mu.Unlock()
			if err != nil {
				observer.OnError(err)
			} else {
				observer.OnComplete()
			}
			composite.Dispose()
		}

		// end marks source i completed (when complete is true) and completes
		// downstream once a completed source has no buffered value left.
		end := func(i int, complete bool) {
			mu.Lock()
			completed[i] = completed[i] || complete
			exhausted := false
			for j, c := range completed {
				exhausted = exhausted || (c && len(buffers[j]) == 0)
			}
			mu.Unlock()
			if exhausted {
				finish(nil)
			}
		}

		for i, src := range sources {
			i, src := i, src
			composite.Add(src.Subscribe(&funcObserver[any]{
				onNext: func(v any) {
					mu.Lock()
					buffers[i] = append(buffers[i], v)
					emit()
					mu.Unlock()
					end(i, false)
				},
				onError:    finish,
				onComplete: func() { end(i, true) },
			}))
		}

		return composite
	})
}

// CombineLatestAny is the heterogeneous-arity form of CombineLatest2.
func CombineLatestAny(sources ...Observable[any]) Observable[[]any] {
	if len(sources) == 0 {
		return Empty[[]any]()
	}
	return NewObservable(func(observer Observer[[]any]) Disposable {
		composite := NewCompositeDisposable()
		observer.OnSubscribe(composite)

		n := len(sources)
		var mu sync.Mutex
		latest := make([]any, n)
		has := make([]bool, n)
		completed := 0
		done := false

		allHave := func() bool {
			for _, h := range has {
				if !h {
					return false
				}
			}
			return true
		}

		finish := func(err error) {
			mu.Lock()
			if done {
				mu.Unlock()
				return
			}
			done = true
			mu.Unlock()
			if err != nil {
				observer.OnError(err)
			} else {
				observer.OnComplete()
			}
			composite.Dispose()
		}

		for i, src := range sources {
			i, src := i, src
			composite.Add(src.Subscribe(&funcObserver[any]{
				onNext: func(v any) {
					mu.Lock()
					latest[i], has[i] = v, true
					if allHave() {
						row := append([]any(nil), latest...)
						mu.Unlock()
						observer.OnNext(row)
						return
					}
					mu.Unlock()
				},
				onError: finish,
				onComplete: func() {
					// complete once every source has, or at once if this
					// source completed without emitting.
					mu.Lock()
					completed++
					end := completed == n || !has[i]
					mu.Unlock()
					if end {
						finish(nil)
					}
				},
			}))
		}

		return composite
	})
}

// SequenceEqual emits true (and completes) if a and b emit the same values,
// in the same order, and complete at the same time; false as soon as a
// mismatch is detected.
func SequenceEqual[T any](a, b Observable[T], equal func(x, y T) bool) Observable[bool] {
	return NewObservable(func(observer Observer[bool]) Disposable {
		composite := NewCompositeDisposable()
		observer.OnSubscribe(composite)

		var mu sync.Mutex
		var bufA, bufB []T
		aDone, bDone := false, false
		settled := false

		settle := func(result bool) {
			if settled {
				return
			}
			settled = true
			observer.OnNext(result)
			observer.OnComplete()
			composite.Dispose()
		}

		drain := func() {
			for len(bufA) > 0 && len(bufB) > 0 {
				x, y := bufA[0], bufB[0]
				bufA, bufB = bufA[1:], bufB[1:]
				if !equal(x, y) {
					settle(false)
					return
				}
			}
			if aDone && bDone && len(bufA) == 0 && len(bufB) == 0 {
				settle(true)
			} else if (aDone && len(bufA) == 0 && len(bufB) > 0) || (bDone && len(bufB) == 0 && len(bufA) > 0) {
				settle(false)
			}
		}

		composite.Add(a.Subscribe(&funcObserver[T]{
			onNext: func(v T) {
				mu.Lock()
				bufA = append(bufA, v)
				drain()
				mu.Unlock()
			},
			onError: observer.OnError,
			onComplete: func() {
				mu.Lock()
				aDone = true
				drain()
				mu.Unlock()
			},
		}))
		composite.Add(b.Subscribe(&funcObserver[T]{
			onNext: func(v T) {
				mu.Lock()
				bufB = append(bufB, v)
				drain()
				mu.Unlock()
			},
			onError: observer.OnError,
			onComplete: func() {
				mu.Lock()
				bDone = true
				drain()
				mu.Unlock()
			},
		}))

		return composite
	})
}

// Join correlates values from a and b symmetrically: every new a value is
// paired via resultSelector with every b value currently active, and every
// new b value is paired with every a value currently active. "Active" means
// emitted and not yet expired: an a value stays active until its duration
// Observable (built by aWindow) emits or completes, and a b value stays
// active until its duration Observable (built by bWindow) does the same.
// Durations are modeled as Observables whose first emission or completion
// closes the window, matching the "duration selector" shape of the
// original's join operator.
func Join[A, B, D1, D2, R any](a Observable[A], b Observable[B], aWindow func(A) Observable[D1], bWindow func(B) Observable[D2], resultSelector func(A, B) R) Observable[R] {
	return NewObservable(func(observer Observer[R]) Disposable {
		composite := NewCompositeDisposable()
		observer.OnSubscribe(composite)

		var mu sync.Mutex
		type activeA struct {
			value  A
			closed bool
		}
		type activeB struct {
			value  B
			closed bool
		}
		var aWindows []*activeA
		var bWindows []*activeB
		aDone, bDone := false, false
		done := false

		maybeComplete := func() {
			if aDone && bDone && !done {
				done = true
				observer.OnComplete()
				composite.Dispose()
			}
		}

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

		composite.Add(a.Subscribe(&funcObserver[A]{
			onNext: func(va A) {
				mu.Lock()
				win := &activeA{value: va}
				aWindows = append(aWindows, win)
				active := make([]B, 0, len(bWindows))
				for _, w := range bWindows {
					if !w.closed {
						active = append(active, w.value)
					}
				}
				mu.Unlock()
				for _, vb := range active {
					observer.OnNext(resultSelector(va, vb))
				}

				durSub := aWindow(va).Subscribe(&funcObserver[D1]{
					onNext: func(D1) {
						mu.Lock()
						win.closed = true
						mu.Unlock()
					},
					onComplete: func() {
						mu.Lock()
						win.closed = true
						mu.Unlock()
					},
				})
				composite.Add(durSub)
			},
			onError: fail,
			onComplete: func() {
				mu.Lock()
				aDone = true
				mu.Unlock()
				maybeComplete()
			},
		}))

		composite.Add(b.Subscribe(&funcObserver[B]{
			onNext: func(vb B) {
				mu.Lock()
				win := &activeB{value: vb}
				bWindows = append(bWindows, win)
				active := make([]A, 0, len(aWindows))
				for _, w := range aWindows {
					if !w.closed {
						active = append(active, w.value)
					}
				}
				mu.Unlock()
				for _, va := range active {
					observer.OnNext(resultSelector(va, vb))
				}

				durSub := bWindow(vb).Subscribe(&funcObserver[D2]{
					onNext: func(D2) {
						mu.Lock()
						win.closed = true
						mu.Unlock()
					},
					onComplete: func() {
						mu.Lock()
						win.closed = true
						mu.Unlock()
					},
				})
				composite.Add(durSub)
			},
			onError: fail,
			onComplete: func() {
				mu.Lock()
				bDone = true
				mu.Unlock()
				maybeComplete()
			},
		}))

		return composite
	})
}
