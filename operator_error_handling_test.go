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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDoOnNext(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	var seen []int
	values, err := Collect(DoOnNext(Just(1, 2, 3), func(v int) { seen = append(seen, v) }))
	is.NoError(err)
	is.Equal([]int{1, 2, 3}, values)
	is.Equal([]int{1, 2, 3}, seen)
}

func TestDoOnError(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	var seen error
	_, err := Collect(DoOnError(Throw[int](assert.AnError), func(e error) { seen = e }))
	is.ErrorIs(err, assert.AnError)
	is.ErrorIs(seen, assert.AnError)
}

func TestDoOnComplete(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	var completed bool
	_, err := Collect(DoOnComplete(Just(1), func() { completed = true }))
	is.NoError(err)
	is.True(completed)
}

func TestDoOnSubscribe(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	var subscribed bool
	_, err := Collect(DoOnSubscribe(Just(1), func() { subscribed = true }))
	is.NoError(err)
	is.True(subscribed)
}

func TestDoFinallyRunsOnComplete(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	var calls int
	_, err := Collect(DoFinally(Just(1, 2), func() { calls++ }))
	is.NoError(err)
	is.Equal(1, calls)
}

func TestDoFinallyRunsOnError(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	var calls int
	_, err := Collect(DoFinally(Throw[int](assert.AnError), func() { calls++ }))
	is.Error(err)
	is.Equal(1, calls)
}

func TestDoFinallyRunsExactlyOnceOnExplicitDispose(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	var calls int
	d := DoFinally(Never[int](), func() { calls++ }).Subscribe(&funcObserver[int]{})
	d.Dispose()
	d.Dispose()
	is.Equal(1, calls)
}

func TestOnErrorReturn(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Collect(OnErrorReturn(Throw[int](assert.AnError), func(error) int { return -1 }))
	is.NoError(err)
	is.Equal([]int{-1}, values)
}

func TestOnErrorReturnSelectorPanicBecomesOnError(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	_, err := Collect(OnErrorReturn(Throw[int](assert.AnError), func(error) int { panic("boom") }))
	is.Error(err)
}

func TestOnErrorResumeNext(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Collect(OnErrorResumeNext(Throw[int](assert.AnError), func(error) Observable[int] {
		return Just(7, 8)
	}))
	is.NoError(err)
	is.Equal([]int{7, 8}, values)
}

func TestOnErrorResumeNextPassesThroughOnSuccess(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Collect(OnErrorResumeNext(Just(1, 2), func(error) Observable[int] {
		return Just(99)
	}))
	is.NoError(err)
	is.Equal([]int{1, 2}, values)
}

func TestRetryExhaustsBudgetThenFails(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	var attempts int
	source := Defer(func() Observable[int] {
		attempts++
		return Throw[int](assert.AnError)
	})

	_, err := Collect(Retry(source, 2))
	is.ErrorIs(err, assert.AnError)
	is.Equal(3, attempts)
}

func TestRetrySucceedsWithinBudget(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	attempts := 0
	source := Defer(func() Observable[int] {
		attempts++
		if attempts < 3 {
			return Throw[int](assert.AnError)
		}
		return Just(1)
	})

	values, err := Collect(Retry(source, 5))
	is.NoError(err)
	is.Equal([]int{1}, values)
	is.Equal(3, attempts)
}

func TestRepeatResubscribesCountTimes(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	var subscriptions int
	source := Defer(func() Observable[int] {
		subscriptions++
		return Just(subscriptions)
	})

	values, err := Collect(Repeat(source, 2))
	is.NoError(err)
	is.Equal([]int{1, 2, 3}, values)
	is.Equal(3, subscriptions)
}

func TestRepeatStopsOnError(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	var subscriptions int
	source := Defer(func() Observable[int] {
		subscriptions++
		if subscriptions == 2 {
			return Throw[int](assert.AnError)
		}
		return Just(subscriptions)
	})

	_, err := Collect(Repeat(source, 5))
	is.ErrorIs(err, assert.AnError)
	is.Equal(2, subscriptions)
}
