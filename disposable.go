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

import "sync"

// Disposable is the single cancellation primitive of the library. Every
// Subscribe call returns one; schedulers hand one back from Schedule;
// operators compose them to cascade teardown along a subscription chain.
type Disposable interface {
	// Dispose releases resources held by the subscription. It is
	// idempotent: calling it more than once has no additional effect.
	Dispose()

	// IsDisposed reports whether Dispose has already run.
	IsDisposed() bool
}

// DisposableFunc adapts a plain func() into a Disposable. Dispose runs the
// function at most once, even under concurrent callers.
type DisposableFunc struct {
	once sync.Once
	fn   func()
	done bool
	mu   sync.Mutex
}

// NewDisposableFunc returns a Disposable that invokes fn exactly once.
func NewDisposableFunc(fn func()) *DisposableFunc {
	return &DisposableFunc{fn: fn}
}

func (d *DisposableFunc) Dispose() {
	d.once.Do(func() {
		d.mu.Lock()
		d.done = true
		d.mu.Unlock()
		if d.fn != nil {
			d.fn()
		}
	})
}

func (d *DisposableFunc) IsDisposed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.done
}

// disposedDisposable is the process-wide terminal sentinel: already
// disposed, Dispose is a no-op, IsDisposed always true. DisposableCell does
// not store it: a disposed cell drops its inner disposable and records
// cellTerminal in its own state field.
type disposedDisposable struct{}

func (disposedDisposable) Dispose()        {}
func (disposedDisposable) IsDisposed() bool { return true }

// Disposed is the shared terminal sentinel.
var Disposed Disposable = disposedDisposable{}

// emptyDisposable does nothing and is never disposed; useful as a
// placeholder Disposable for synchronous sources that complete before
// Subscribe returns.
type emptyDisposable struct{}

func (emptyDisposable) Dispose()        {}
func (emptyDisposable) IsDisposed() bool { return false }

// Empty is a Disposable with no effect and no disposed state.
var Empty Disposable = emptyDisposable{}

// cellState is the DisposableCell state machine. A cell starts cellNone; a
// successful SetOnce moves it to cellLive; Dispose moves it to
// cellTerminal from either of the other two states.
type cellState int

const (
	cellNone cellState = iota
	cellLive
	cellTerminal
)

// DisposableCell is a single-assignment slot holding at most one
// Disposable at a time. It is the building block every operator frame uses
// to track "my current upstream subscription": SetOnce establishes it once,
// Set swaps it for a new one and disposes whatever it replaces (e.g.
// Retry's next attempt retiring the failed one), Replace swaps it for a new
// one WITHOUT disposing the previous occupant (for when the previous owner
// is still responsible for tearing it down itself), and Dispose tears down
// whatever is currently held and permanently seals the cell.
//
// SetOnce called a second time on a live cell disposes the argument and
// reports a protocol violation: the spec treats a second OnSubscribe as a
// producer bug. SetOnce called on an already-terminal cell also disposes
// the argument and returns false, but does NOT report a violation, since
// that is the ordinary race of disposing a subscription before its async
// upstream has finished wiring itself up.
type DisposableCell struct {
	mu    sync.Mutex
	state cellState
	inner Disposable
}

// NewDisposableCell returns an empty cell.
func NewDisposableCell() *DisposableCell {
	return &DisposableCell{}
}

// SetOnce attempts to install d as the cell's held disposable. It succeeds
// (returns true) only when the cell is still in its initial empty state.
func (c *DisposableCell) SetOnce(d Disposable) bool {
	c.mu.Lock()

	switch c.state {
	case cellNone:
		c.inner = d
		c.state = cellLive
		c.mu.Unlock()
		return true
	case cellLive:
		c.mu.Unlock()
		if d != nil {
			d.Dispose()
		}
		reportProtocolViolation("DisposableCell.SetOnce called twice")
		return false
	default: // cellTerminal
		c.mu.Unlock()
		if d != nil {
			d.Dispose()
		}
		return false
	}
}

// Set swaps the currently held disposable for d without disposing the cell
// itself, disposing the previous occupant (if any). If the cell is already
// terminal, d is disposed immediately and Set returns false. Used by
// operators that re-subscribe repeatedly, such as Retry and Repeat.
func (c *DisposableCell) Set(d Disposable) bool {
	c.mu.Lock()

	if c.state == cellTerminal {
		c.mu.Unlock()
		if d != nil {
			d.Dispose()
		}
		return false
	}

	prev := c.inner
	c.inner = d
	c.state = cellLive
	c.mu.Unlock()

	if prev != nil {
		prev.Dispose()
	}
	return true
}

// Replace swaps the currently held disposable for d without disposing
// either the cell or the previous occupant: the caller is asserting that
// something else is still responsible for tearing the previous occupant
// down. If the cell is already terminal, d is disposed immediately and
// Replace returns false.
func (c *DisposableCell) Replace(d Disposable) bool {
	c.mu.Lock()

	if c.state == cellTerminal {
		c.mu.Unlock()
		if d != nil {
			d.Dispose()
		}
		return false
	}

	c.inner = d
	c.state = cellLive
	c.mu.Unlock()
	return true
}

// Dispose tears down the currently held disposable (if any) and seals the
// cell so any later SetOnce/Replace disposes its argument instead of
// installing it.
func (c *DisposableCell) Dispose() {
	c.mu.Lock()
	if c.state == cellTerminal {
		c.mu.Unlock()
		return
	}
	prev := c.inner
	c.inner = nil
	c.state = cellTerminal
	c.mu.Unlock()

	if prev != nil {
		prev.Dispose()
	}
}

// IsDisposed reports whether the cell has been sealed by Dispose.
func (c *DisposableCell) IsDisposed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == cellTerminal
}

// SequentialDisposable is a named wrapper around a single DisposableCell.
// Operators hold one of these to track "my current upstream/inner
// subscription" with a vocabulary that reads better at call sites than the
// bare cell type.
type SequentialDisposable struct {
	cell DisposableCell
}

// NewSequentialDisposable returns an empty SequentialDisposable.
func NewSequentialDisposable() *SequentialDisposable {
	return &SequentialDisposable{}
}

func (s *SequentialDisposable) SetOnce(d Disposable) bool { return s.cell.SetOnce(d) }
func (s *SequentialDisposable) Set(d Disposable) bool      { return s.cell.Set(d) }
func (s *SequentialDisposable) Replace(d Disposable) bool  { return s.cell.Replace(d) }
func (s *SequentialDisposable) Dispose()                   { s.cell.Dispose() }
func (s *SequentialDisposable) IsDisposed() bool           { return s.cell.IsDisposed() }

// CompositeDisposable owns a growing list of teardown callbacks, all run in
// registration order when Dispose is called. Unlike DisposableCell it does
// not restrict itself to a single occupant: it is used by blocking sinks
// and multi-resource operators (ObserveOn's drain goroutine plus its
// worker, for instance) that must release more than one thing.
type CompositeDisposable struct {
	mu       sync.Mutex
	children []Disposable
	disposed bool
}

// NewCompositeDisposable returns an empty CompositeDisposable, optionally
// seeded with initial children.
func NewCompositeDisposable(children ...Disposable) *CompositeDisposable {
	return &CompositeDisposable{children: append([]Disposable(nil), children...)}
}

// Add registers d for teardown. If the composite is already disposed, d is
// disposed immediately instead of being retained.
func (c *CompositeDisposable) Add(d Disposable) {
	if d == nil {
		return
	}

	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		d.Dispose()
		return
	}
	c.children = append(c.children, d)
	c.mu.Unlock()
}

func (c *CompositeDisposable) Dispose() {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.disposed = true
	children := c.children
	c.children = nil
	c.mu.Unlock()

	for _, child := range children {
		child.Dispose()
	}
}

func (c *CompositeDisposable) IsDisposed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disposed
}
