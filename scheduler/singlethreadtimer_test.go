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
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSingleThreadTimerRunsOnDedicatedGoroutine(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	worker := NewSingleThreadTimer().Worker()
	defer worker.Dispose()

	callerGoroutine := make(chan struct{})
	done := make(chan struct{})
	go func() { close(callerGoroutine) }()
	<-callerGoroutine

	var ranAsync bool
	worker.Schedule(func() {
		ranAsync = true
		close(done)
	}, 0)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for scheduled task")
	}
	is.True(ranAsync)
}

func TestSingleThreadTimerOrdersByDueTime(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	worker := NewSingleThreadTimer().Worker()
	defer worker.Dispose()

	var mu sync.Mutex
	var order []int
	done := make(chan struct{})

	worker.Schedule(func() {
		mu.Lock()
		order = append(order, 2)
		mu.Unlock()
	}, 20*time.Millisecond)
	worker.Schedule(func() {
		mu.Lock()
		order = append(order, 1)
		mu.Unlock()
	}, 5*time.Millisecond)
	worker.Schedule(func() {
		mu.Lock()
		order = append(order, 3)
		mu.Unlock()
		close(done)
	}, 40*time.Millisecond)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for scheduled tasks")
	}

	mu.Lock()
	defer mu.Unlock()
	is.Equal([]int{1, 2, 3}, order)
}

func TestSingleThreadTimerCancelPreventsExecution(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	worker := NewSingleThreadTimer().Worker()
	defer worker.Dispose()

	var ran bool
	d := worker.Schedule(func() { ran = true }, 20*time.Millisecond)
	d.Dispose()

	time.Sleep(40 * time.Millisecond)
	is.False(ran)
}

func TestSingleThreadTimerScheduleAfterDisposeIsNoop(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	worker := NewSingleThreadTimer().Worker()
	worker.Dispose()

	var ran bool
	d := worker.Schedule(func() { ran = true }, 0)
	time.Sleep(5 * time.Millisecond)
	is.False(ran)
	is.False(d.IsDisposed())
}

func TestMainDefaultsToSingleThreadTimerAndSetMainOverrides(t *testing.T) {
	is := assert.New(t)

	original := Main()
	defer SetMain(original)

	custom := NewCurrentThread()
	SetMain(custom)
	is.Equal(custom, Main())

	SetMain(nil)
	is.Equal(custom, Main(), "SetMain(nil) must be a no-op")
}
