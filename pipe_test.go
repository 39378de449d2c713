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
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPipe1(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	result := Pipe1(Just(1, 2, 3), func(o Observable[int]) Observable[int] {
		return Map(o, func(v int) int { return v * 2 })
	})
	values, err := Collect(result)
	is.NoError(err)
	is.Equal([]int{2, 4, 6}, values)
}

func TestPipe3(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	result := Pipe3(
		Just(1, 2, 3, 4, 5),
		func(o Observable[int]) Observable[int] { return Filter(o, func(v int) bool { return v%2 == 0 }) },
		func(o Observable[int]) Observable[int] { return Map(o, func(v int) int { return v * 10 }) },
		func(o Observable[int]) Observable[string] { return Map(o, strconv.Itoa) },
	)
	values, err := Collect(result)
	is.NoError(err)
	is.Equal([]string{"20", "40"}, values)
}

func TestPipe8(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	identity := func(o Observable[int]) Observable[int] { return o }
	result := Pipe8(
		Just(1, 2, 3),
		identity, identity, identity, identity, identity, identity, identity,
		func(o Observable[int]) Observable[int] { return Map(o, func(v int) int { return v + 100 }) },
	)
	values, err := Collect(result)
	is.NoError(err)
	is.Equal([]int{101, 102, 103}, values)
}
