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

func TestAll(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	positive := func(v int) bool { return v > 0 }

	values, err := Collect(All(Just(1, 2, 3), positive))
	is.NoError(err)
	is.Equal([]bool{true}, values)

	values, err = Collect(All(Just(1, -2, 3), positive))
	is.NoError(err)
	is.Equal([]bool{false}, values)

	values, err = Collect(All(Empty[int](), positive))
	is.NoError(err)
	is.Equal([]bool{true}, values, "All is vacuously true for an empty source")
}

func TestAny(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	negative := func(v int) bool { return v < 0 }

	values, err := Collect(Any(Just(1, -2, 3), negative))
	is.NoError(err)
	is.Equal([]bool{true}, values)

	values, err = Collect(Any(Just(1, 2, 3), negative))
	is.NoError(err)
	is.Equal([]bool{false}, values)
}

func TestContains(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	equal := func(a, b int) bool { return a == b }

	values, err := Collect(Contains(Just(1, 2, 3), 2, equal))
	is.NoError(err)
	is.Equal([]bool{true}, values)

	values, err = Collect(Contains(Just(1, 2, 3), 9, equal))
	is.NoError(err)
	is.Equal([]bool{false}, values)
}

func TestIsEmpty(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Collect(IsEmpty(Empty[int]()))
	is.NoError(err)
	is.Equal([]bool{true}, values)

	values, err = Collect(IsEmpty(Just(1)))
	is.NoError(err)
	is.Equal([]bool{false}, values)
}

func TestAllShortCircuitsUpstream(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	var disposed bool
	source := NewObservable(func(observer Observer[int]) Disposable {
		d := NewDisposableFunc(func() { disposed = true })
		observer.OnSubscribe(d)
		observer.OnNext(1)
		observer.OnNext(-1)
		observer.OnNext(2)
		return d
	})

	values, err := Collect(All(source, func(v int) bool { return v > 0 }))
	is.NoError(err)
	is.Equal([]bool{false}, values)
	is.True(disposed)
}
