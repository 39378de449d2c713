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
	"time"

	"github.com/rs/zerolog"

	"github.com/arcflow/rx/internal/xtime"
)

// logger is the structured logger threaded through every scheduler
// implementation in this package, grounded on the *zerolog.Logger field
// vmyroslav's homesignal.SequentialScheduler carries. It defaults to a
// no-op logger so importing this package is silent until the host wires
// one in with SetLogger.
var logger = zerolog.Nop()

// SetLogger installs the logger used for worker lifecycle and dropped/
// delayed task diagnostics across every scheduler this package constructs
// from this point forward.
func SetLogger(l zerolog.Logger) {
	logger = l
}

// runRecovered invokes fn, logging and swallowing any panic instead of
// letting it take down the scheduler's dedicated goroutine. Scheduler
// callbacks are typically themselves wrappers that funnel the panic into
// an operator's OnError, but a callback that panics before reaching that
// wrapper (or a caller using the scheduler directly) must not kill the
// worker loop.
func runRecovered(taskID string, fn func()) {
	start := xtime.NowNanoMonotonic()
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Str("task_id", taskID).Interface("panic", r).Msg("scheduler: recovered panic in scheduled task")
			return
		}
		if e := logger.Debug(); e.Enabled() {
			elapsed := time.Duration(xtime.NowNanoMonotonic() - start)
			e.Str("task_id", taskID).Dur("elapsed", elapsed).Msg("scheduler: task finished")
		}
	}()
	fn()
}
