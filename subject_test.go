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

func TestPublishSubjectBroadcastsToEverySubscriber(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	subject := NewPublishSubject[int]()
	var a, b []int
	subject.Subscribe(&funcObserver[int]{onNext: func(v int) { a = append(a, v) }})
	subject.Subscribe(&funcObserver[int]{onNext: func(v int) { b = append(b, v) }})

	is.True(subject.HasObservers())

	subject.OnNext(1)
	subject.OnNext(2)

	is.Equal([]int{1, 2}, a)
	is.Equal([]int{1, 2}, b)
}

func TestPublishSubjectLateSubscriberGetsNoReplay(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	subject := NewPublishSubject[int]()
	subject.OnNext(1)
	subject.OnNext(2)

	var late []int
	subject.Subscribe(&funcObserver[int]{onNext: func(v int) { late = append(late, v) }})
	subject.OnNext(3)

	is.Equal([]int{3}, late)
}

func TestPublishSubjectDeliversTerminalErrorToLateSubscriber(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	subject := NewPublishSubject[int]()
	subject.OnError(assert.AnError)

	var gotErr error
	subject.Subscribe(&funcObserver[int]{onError: func(e error) { gotErr = e }})
	is.ErrorIs(gotErr, assert.AnError)
}

func TestPublishSubjectDeliversTerminalCompleteToLateSubscriber(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	subject := NewPublishSubject[int]()
	subject.OnComplete()

	var completed bool
	subject.Subscribe(&funcObserver[int]{onComplete: func() { completed = true }})
	is.True(completed)
}

func TestPublishSubjectUnsubscribeStopsDelivery(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	subject := NewPublishSubject[int]()
	var values []int
	d := subject.Subscribe(&funcObserver[int]{onNext: func(v int) { values = append(values, v) }})

	subject.OnNext(1)
	d.Dispose()
	subject.OnNext(2)

	is.Equal([]int{1}, values)
	is.False(subject.HasObservers())
}

func TestPublishSubjectOnNextAfterTerminalIsIgnored(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	subject := NewPublishSubject[int]()
	var values []int
	subject.Subscribe(&funcObserver[int]{onNext: func(v int) { values = append(values, v) }})

	subject.OnComplete()
	subject.OnNext(1)

	is.Empty(values)
}
