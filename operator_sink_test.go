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

func TestBlockingFirst(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	v, err := BlockingFirst(Just(1, 2, 3))
	is.NoError(err)
	is.Equal(1, v)

	_, err = BlockingFirst(Empty[int]())
	is.ErrorIs(err, ErrSequenceIsEmpty)

	_, err = BlockingFirst(Throw[int](assert.AnError))
	is.ErrorIs(err, assert.AnError)
}

func TestBlockingLast(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	v, err := BlockingLast(Just(1, 2, 3))
	is.NoError(err)
	is.Equal(3, v)

	_, err = BlockingLast(Empty[int]())
	is.ErrorIs(err, ErrSequenceIsEmpty)
}

func TestBlockingForEach(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	var values []int
	err := BlockingForEach(Just(1, 2, 3), func(v int) { values = append(values, v) })
	is.NoError(err)
	is.Equal([]int{1, 2, 3}, values)

	err = BlockingForEach(Throw[int](assert.AnError), func(int) {})
	is.ErrorIs(err, assert.AnError)
}

func TestCollect(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Collect(Just(1, 2, 3))
	is.NoError(err)
	is.Equal([]int{1, 2, 3}, values)

	values, err = Collect(Empty[int]())
	is.NoError(err)
	is.NotNil(values)
	is.Empty(values)
}
