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

import "github.com/samber/lo"

// tryCatch runs fn, recovering any panic into a *PanicError instead of
// letting it escape. Every operator callback boundary (predicates,
// projections, accumulators, equality comparers) goes through this, the
// same lo.TryCatchWithErrorValue shape the teacher uses at its own
// observer/subscription boundaries.
func tryCatch(fn func() error) error {
	var caught error
	lo.TryCatchWithErrorValue(
		fn,
		func(e any) {
			caught = newPanicError(e)
		},
	)
	return caught
}
