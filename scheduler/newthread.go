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

// newThreadScheduler hands out a brand-new, dedicated singleThreadTimer
// (and therefore a brand-new goroutine) for every Worker() call, instead
// of sharing one the way timerScheduler and threadPoolScheduler do.
type newThreadScheduler struct{}

// NewThread returns a Scheduler that spawns one dedicated goroutine per
// Worker() call, built from the same singleThreadTimer used by
// NewSingleThreadTimer. Use it when a subscription's scheduled work must
// never contend with any other subscription's.
func NewThread() Scheduler {
	return newThreadScheduler{}
}

func (newThreadScheduler) Worker() Worker {
	return newSingleThreadTimer(nil)
}
