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

package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCurrentThreadRunsScheduleSynchronously(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	worker := NewCurrentThread().Worker()
	defer worker.Dispose()

	var ran bool
	worker.Schedule(func() { ran = true }, 0)
	is.True(ran, "Schedule on the trampoline worker must run fn before returning")
}

func TestCurrentThreadTrampolinesNestedSchedule(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	worker := NewCurrentThread().Worker()
	defer worker.Dispose()

	var order []int
	worker.Schedule(func() {
		order = append(order, 1)
		worker.Schedule(func() { order = append(order, 2) }, 0)
		order = append(order, 3)
	}, 0)

	is.Equal([]int{1, 3, 2}, order, "a nested Schedule call must be queued, not recursed into")
}

func TestCurrentThreadRunsTasksInDueOrder(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	worker := NewCurrentThread().Worker()
	defer worker.Dispose()

	var order []int
	done := make(chan struct{})
	worker.Schedule(func() {
		worker.Schedule(func() { order = append(order, 2); close(done) }, 10*time.Millisecond)
		worker.Schedule(func() { order = append(order, 1) }, 0)
	}, 0)
	<-done

	is.Equal([]int{1, 2}, order)
}

func TestCurrentThreadScheduleAfterDisposeIsNoop(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	worker := NewCurrentThread().Worker()
	worker.Dispose()
	is.True(worker.IsDisposed())

	var ran bool
	d := worker.Schedule(func() { ran = true }, 0)
	is.False(ran)
	is.False(d.IsDisposed())
}

func TestCurrentThreadCancelPreventsExecution(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	worker := NewCurrentThread().Worker()
	defer worker.Dispose()

	var ran bool
	outer := worker.Schedule(func() {
		inner := worker.Schedule(func() { ran = true }, 0)
		inner.Dispose()
	}, 0)
	_ = outer

	is.False(ran)
}
