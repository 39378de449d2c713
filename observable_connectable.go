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

// ConnectableObservable multicasts a single underlying subscription to
// every Observer that subscribes to it, instead of each Subscribe call
// starting a fresh run of the source the way an ordinary cold Observable
// does. It is not one of spec.md's named operations; it is genuine
// supporting infrastructure present in the teacher (observable_connectable.go)
// and in RxCpp-family systems generally, kept here because GroupBy/Window
// both need "one live subject, many late subscribers" and a
// ConnectableObservable is the public surface for that same idea.
type ConnectableObservable[T any] interface {
	Observable[T]

	// Connect subscribes the underlying source and starts forwarding its
	// notifications to every current and future Subscribe call, until the
	// returned Disposable is disposed. Calling Connect again after
	// disposing the previous connection starts a fresh subscription to
	// the source.
	Connect() Disposable
}

// ConnectableConfig configures a ConnectableObservable: which Subject
// implementation multicasts the source (defaulting to a PublishSubject),
// matching the teacher's own ConnectableConfig[T].
type ConnectableConfig[T any] struct {
	Connector func() *PublishSubject[T]
}

type connectableObservableImpl[T any] struct {
	source Observable[T]
	config ConnectableConfig[T]

	mu        sync.Mutex
	subject   *PublishSubject[T]
	connected Disposable
}

// NewConnectableObservable wraps source so that every Subscribe call
// attaches to one shared PublishSubject instead of independently
// re-running source. Nothing flows until Connect is called.
func NewConnectableObservable[T any](source Observable[T]) ConnectableObservable[T] {
	return NewConnectableObservableWithConfig(source, ConnectableConfig[T]{})
}

// NewConnectableObservableWithConfig is NewConnectableObservable with an
// explicit ConnectableConfig.
func NewConnectableObservableWithConfig[T any](source Observable[T], config ConnectableConfig[T]) ConnectableObservable[T] {
	if config.Connector == nil {
		config.Connector = NewPublishSubject[T]
	}
	return &connectableObservableImpl[T]{source: source, config: config, subject: config.Connector()}
}

func (c *connectableObservableImpl[T]) Subscribe(observer Observer[T]) Disposable {
	c.mu.Lock()
	subject := c.subject
	c.mu.Unlock()
	return subject.Subscribe(observer)
}

func (c *connectableObservableImpl[T]) Connect() Disposable {
	c.mu.Lock()
	if c.connected != nil && !c.connected.IsDisposed() {
		existing := c.connected
		c.mu.Unlock()
		return existing
	}
	subject := c.subject
	c.mu.Unlock()

	d := c.source.Subscribe(subject)

	c.mu.Lock()
	c.connected = d
	c.mu.Unlock()

	return d
}
