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

// Package rx implements a push-based reactive streams library: Observable
// sources, Observer sinks, a Disposable-based cancellation protocol, and the
// operator algebras that connect them.
package rx

import (
	"sync/atomic"

	"github.com/rs/zerolog"
)

// unhandledErrorHandler stores the process-wide handler invoked when an
// error cannot be delivered to any Observer (typically a protocol
// violation). Accessed atomically so readers and writers never race.
var unhandledErrorHandler atomic.Value // func(error)

func init() {
	unhandledErrorHandler.Store(defaultOnUnhandledError)
}

// SetOnUnhandledError installs the handler invoked whenever an error cannot
// be delivered downstream (a protocol violation, or a panic escaping a
// teardown callback). Passing nil restores the default, which logs through
// zerolog.
func SetOnUnhandledError(fn func(err error)) {
	if fn == nil {
		fn = defaultOnUnhandledError
	}

	unhandledErrorHandler.Store(fn)
}

// OnUnhandledError invokes the currently installed unhandled-error handler.
func OnUnhandledError(err error) {
	unhandledErrorHandler.Load().(func(error))(err)
}

func defaultOnUnhandledError(err error) {
	if err == nil {
		return
	}

	Logger.Error().Err(err).Msg("rx: unhandled error")
}

// reportProtocolViolation logs a protocol violation (double OnSubscribe,
// double terminal event, DisposableCell.SetOnce called twice while live).
// Per spec, protocol violations are reported but never delivered downstream
// as an OnError, since doing so would itself be a further violation.
func reportProtocolViolation(msg string) {
	OnUnhandledError(newProtocolViolationError(msg))
}

// Logger is the zerolog logger used by the default unhandled-error sink.
// Swap it with SetLogger to change verbosity or output destination. The
// scheduler package keeps its own logger, set with scheduler.SetLogger.
var Logger = zerolog.Nop()

// SetLogger overrides the package-wide logger used by the default
// unhandled-error sink.
func SetLogger(l zerolog.Logger) {
	Logger = l
}
