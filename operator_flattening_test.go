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

func TestFlatMap(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Collect(FlatMap(Just(1, 2), func(v int) Observable[int] { return Just(v * 10) }))
	is.NoError(err)
	is.Equal([]int{10, 20}, values)
}

func TestFlatMapPropagatesInnerError(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	_, err := Collect(FlatMap(Just(1), func(int) Observable[int] { return Throw[int](assert.AnError) }))
	is.ErrorIs(err, assert.AnError)
}

func TestFlatMapProjectPanicBecomesOnError(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	_, err := Collect(FlatMap(Just(1), func(int) Observable[int] { panic("boom") }))
	is.Error(err)
	var panicErr *PanicError
	is.ErrorAs(err, &panicErr)
}

func TestConcatMap(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Collect(ConcatMap(Just(1, 2), func(v int) Observable[int] {
		return Just(v*10, v*10+1)
	}))
	is.NoError(err)
	is.Equal([]int{10, 11, 20, 21}, values)
}

func TestConcatMapPropagatesSourceError(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	_, err := Collect(ConcatMap(Throw[int](assert.AnError), func(v int) Observable[int] { return Just(v) }))
	is.ErrorIs(err, assert.AnError)
}

func TestSwitchMapSwitchesToLatestInner(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Collect(SwitchMap(Just(1, 2), func(v int) Observable[int] {
		if v == 1 {
			return Never[int]()
		}
		return Just(20)
	}))
	is.NoError(err)
	is.Equal([]int{20}, values)
}

func TestSwitchMapPropagatesInnerError(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	_, err := Collect(SwitchMap(Just(1), func(int) Observable[int] { return Throw[int](assert.AnError) }))
	is.ErrorIs(err, assert.AnError)
}
