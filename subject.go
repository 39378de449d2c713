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
	"github.com/google/uuid"

	"github.com/arcflow/rx/internal/xsync"
)

// PublishSubject is both an Observer[T] and an Observable[T]: it
// multicasts whatever is pushed into it to every Observer currently
// subscribed, and nothing to one that subscribes late (no replay). It is
// internal supporting infrastructure, grounded on the teacher's
// subject_publish.go, used by GroupBy (one subject per group), Window
// (one subject per window), and ConnectableObservable (one subject shared
// by every Connect call's subscribers).
type PublishSubject[T any] struct {
	id string

	mu          xsync.RWMutex
	subscribers map[int]Observer[T]
	nextID      int
	terminal    *terminalEvent
}

type terminalEvent struct {
	err        error
	isComplete bool
}

// NewPublishSubject returns an empty, unterminated PublishSubject.
func NewPublishSubject[T any]() *PublishSubject[T] {
	return &PublishSubject[T]{id: uuid.NewString(), mu: xsync.NewRWMutexWithLock(), subscribers: map[int]Observer[T]{}}
}

func (s *PublishSubject[T]) Subscribe(observer Observer[T]) Disposable {
	s.mu.Lock()
	if s.terminal != nil {
		term := s.terminal
		s.mu.Unlock()
		observer.OnSubscribe(Disposed)
		if term.isComplete {
			observer.OnComplete()
		} else {
			observer.OnError(term.err)
		}
		return Disposed
	}

	id := s.nextID
	s.nextID++
	s.subscribers[id] = observer
	s.mu.Unlock()

	d := NewDisposableFunc(func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	})
	observer.OnSubscribe(d)
	return d
}

func (s *PublishSubject[T]) OnNext(value T) {
	s.mu.RLock()
	if s.terminal != nil {
		s.mu.RUnlock()
		return
	}
	observers := make([]Observer[T], 0, len(s.subscribers))
	for _, o := range s.subscribers {
		observers = append(observers, o)
	}
	s.mu.RUnlock()

	for _, o := range observers {
		o.OnNext(value)
	}
}

func (s *PublishSubject[T]) OnError(err error) {
	s.mu.Lock()
	if s.terminal != nil {
		s.mu.Unlock()
		return
	}
	s.terminal = &terminalEvent{err: err}
	observers := make([]Observer[T], 0, len(s.subscribers))
	for _, o := range s.subscribers {
		observers = append(observers, o)
	}
	s.subscribers = map[int]Observer[T]{}
	s.mu.Unlock()

	for _, o := range observers {
		o.OnError(err)
	}
}

func (s *PublishSubject[T]) OnComplete() {
	s.mu.Lock()
	if s.terminal != nil {
		s.mu.Unlock()
		return
	}
	s.terminal = &terminalEvent{isComplete: true}
	observers := make([]Observer[T], 0, len(s.subscribers))
	for _, o := range s.subscribers {
		observers = append(observers, o)
	}
	s.subscribers = map[int]Observer[T]{}
	s.mu.Unlock()

	for _, o := range observers {
		o.OnComplete()
	}
}

// HasObservers reports whether any Observer is currently subscribed.
func (s *PublishSubject[T]) HasObservers() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subscribers) > 0
}
