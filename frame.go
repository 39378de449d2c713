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

import "sync/atomic"

// frame is the generic per-subscription base type every stateful operator
// embeds. It wraps a downstream Observer, holds the upstream subscription
// in a DisposableCell, and exposes itself as the Disposable handed to
// downstream.OnSubscribe — so disposing the frame cascades up through
// upstream and, transitively, through every frame between it and the
// original source.
//
// frame is a transparent pass-through Observer[T] by default: operators
// embed it and shadow only the methods whose behavior they change (a
// filter shadows OnNext; a take shadows OnNext and disposes early; a scan
// shadows OnNext to carry an accumulator). Because Go dispatches promoted
// methods statically, an operator struct's own OnNext/OnError/OnComplete
// hides frame's only when the operator struct itself is the value stored
// in the Observer[T] interface — never through frame's own pointer.
type frame[T any] struct {
	downstream Observer[T]
	upstream   DisposableCell
	done       atomic.Bool
}

func newFrame[T any](downstream Observer[T]) *frame[T] {
	return &frame[T]{downstream: downstream}
}

// onSubscribeWith records the upstream Disposable and introduces this frame to
// the downstream Observer as the Disposable it should use to cancel the
// whole chain. self must be the outermost embedding operator (the value
// actually passed to Subscribe), so that downstream sees the operator's own
// overridden OnNext/OnError/OnComplete if it ever calls back through it —
// in practice downstream only ever calls Dispose/IsDisposed on it.
func (f *frame[T]) onSubscribeWith(self Disposable, d Disposable) {
	if !f.upstream.SetOnce(d) {
		return
	}
	f.downstream.OnSubscribe(self)
}

// OnSubscribe is the default Observer[T] implementation; operators that
// need no special upstream-handshake behavior can rely on it directly by
// calling f.onSubscribeWith(f, d) from their own OnSubscribe, or simply not
// defining one if they never intercept OnSubscribe themselves.
func (f *frame[T]) OnSubscribe(d Disposable) {
	f.onSubscribeWith(f, d)
}

// OnNext forwards the value unchanged. Operators override this to
// transform, filter, or buffer.
func (f *frame[T]) OnNext(value T) {
	if f.done.Load() {
		reportProtocolViolation("OnNext delivered after terminal event")
		return
	}
	f.downstream.OnNext(value)
}

// OnError marks the frame terminal (first terminal call wins) and forwards
// to downstream. A call arriving after the frame is already terminal is a
// protocol violation and is swallowed.
func (f *frame[T]) OnError(err error) {
	if !f.done.CompareAndSwap(false, true) {
		reportProtocolViolation("OnError delivered after terminal event")
		return
	}
	f.downstream.OnError(err)
	f.upstream.Dispose()
}

// OnComplete marks the frame terminal and forwards to downstream, under the
// same first-terminal-wins rule as OnError. Like OnError, it releases the
// upstream subscription once the terminal event has been delivered: a
// terminal frame has nothing left to forward and holding its upstream open
// any longer (an Interval still ticking behind a completed Take(3), for
// instance) would leak it.
func (f *frame[T]) OnComplete() {
	if !f.done.CompareAndSwap(false, true) {
		reportProtocolViolation("OnComplete delivered after terminal event")
		return
	}
	f.downstream.OnComplete()
	f.upstream.Dispose()
}

// Dispose tears down the upstream subscription and marks the frame
// terminal, preventing any further notification from reaching downstream.
func (f *frame[T]) Dispose() {
	f.done.Store(true)
	f.upstream.Dispose()
}

// IsDisposed reports whether this frame's upstream has been torn down,
// either by an explicit Dispose or by the upstream's own terminal event.
func (f *frame[T]) IsDisposed() bool {
	return f.upstream.IsDisposed()
}

// markDone lets a frame subtype force a single terminal delivery from code
// paths that don't go through frame's own OnError/OnComplete (e.g. the
// overridden OnComplete of First/Last or ElementAt). It reports whether this
// call was the one that flipped the frame terminal.
func (f *frame[T]) markDone() bool {
	return f.done.CompareAndSwap(false, true)
}

func (f *frame[T]) isDone() bool {
	return f.done.Load()
}
