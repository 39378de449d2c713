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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestOnUnhandledError(t *testing.T) {
	is := assert.New(t)

	var got error
	SetOnUnhandledError(func(err error) { got = err })
	t.Cleanup(func() { SetOnUnhandledError(nil) })

	OnUnhandledError(assert.AnError)
	is.Equal(assert.AnError, got)
}

func TestOnUnhandledErrorDefaultsWhenNil(t *testing.T) {
	is := assert.New(t)

	SetOnUnhandledError(nil)
	is.NotPanics(func() { OnUnhandledError(errors.New("boom")) })
}

func TestReportProtocolViolation(t *testing.T) {
	is := assert.New(t)

	var got error
	SetOnUnhandledError(func(err error) { got = err })
	t.Cleanup(func() { SetOnUnhandledError(nil) })

	reportProtocolViolation("double OnComplete")
	is.Error(got)
	var violation *ProtocolViolationError
	is.ErrorAs(got, &violation)
}
