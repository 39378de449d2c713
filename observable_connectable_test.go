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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnectableObservableBuffersNothingBeforeConnect(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	var subscribeCount int
	source := NewObservable(func(observer Observer[int]) Disposable {
		subscribeCount++
		observer.OnSubscribe(Empty)
		observer.OnNext(1)
		observer.OnComplete()
		return Empty
	})

	connectable := NewConnectableObservable(source)

	var before []int
	connectable.Subscribe(&funcObserver[int]{onNext: func(v int) { before = append(before, v) }})

	is.Equal(0, subscribeCount, "Connect has not been called yet, source must not have run")
	is.Empty(before)
}

func TestConnectableObservableMulticastsOneRunToAllSubscribers(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	var subscribeCount int
	source := NewObservable(func(observer Observer[int]) Disposable {
		subscribeCount++
		observer.OnSubscribe(Empty)
		observer.OnNext(1)
		observer.OnNext(2)
		observer.OnComplete()
		return Empty
	})

	connectable := NewConnectableObservable(source)

	var a, b []int
	connectable.Subscribe(&funcObserver[int]{onNext: func(v int) { a = append(a, v) }})
	connectable.Subscribe(&funcObserver[int]{onNext: func(v int) { b = append(b, v) }})

	connectable.Connect()

	is.Equal(1, subscribeCount, "Connect must run source exactly once regardless of subscriber count")
	is.Equal([]int{1, 2}, a)
	is.Equal([]int{1, 2}, b)
}

func TestConnectableObservableLateSubscriberMissesPastValues(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	subject := NewPublishSubject[int]()
	source := Observable[int](subject)
	connectable := NewConnectableObservable(source)
	connectable.Connect()

	subject.OnNext(1)

	var late []int
	connectable.Subscribe(&funcObserver[int]{onNext: func(v int) { late = append(late, v) }})
	subject.OnNext(2)

	is.Equal([]int{2}, late)
}

func TestConnectableObservableConnectIsIdempotentWhileConnected(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	var subscribeCount int
	source := NewObservable(func(observer Observer[int]) Disposable {
		subscribeCount++
		observer.OnSubscribe(Empty)
		return Empty
	})

	connectable := NewConnectableObservable(source)
	d1 := connectable.Connect()
	d2 := connectable.Connect()

	is.Equal(1, subscribeCount)
	is.Equal(d1, d2)
}
