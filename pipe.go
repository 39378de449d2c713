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

// Pipe1 chains a single operator onto source. PipeN exists for N up to 8;
// Go generics give every stage full type safety, so there is no untyped
// reflection-based Pipe the way the teacher's variadic Pipe(source,
// ...any) needs one — a chain longer than 8 stages is just as readable
// written as nested function calls or successive variable assignments.
func Pipe1[A, B any](
	source Observable[A],
	op1 func(Observable[A]) Observable[B],
) Observable[B] {
	return op1(source)
}

// Pipe2 chains 2 operators onto source.
func Pipe2[A, B, C any](
	source Observable[A],
	op1 func(Observable[A]) Observable[B],
	op2 func(Observable[B]) Observable[C],
) Observable[C] {
	return op2(op1(source))
}

// Pipe3 chains 3 operators onto source.
func Pipe3[A, B, C, D any](
	source Observable[A],
	op1 func(Observable[A]) Observable[B],
	op2 func(Observable[B]) Observable[C],
	op3 func(Observable[C]) Observable[D],
) Observable[D] {
	return op3(op2(op1(source)))
}

// Pipe4 chains 4 operators onto source.
func Pipe4[A, B, C, D, E any](
	source Observable[A],
	op1 func(Observable[A]) Observable[B],
	op2 func(Observable[B]) Observable[C],
	op3 func(Observable[C]) Observable[D],
	op4 func(Observable[D]) Observable[E],
) Observable[E] {
	return op4(op3(op2(op1(source))))
}

// Pipe5 chains 5 operators onto source.
func Pipe5[A, B, C, D, E, F any](
	source Observable[A],
	op1 func(Observable[A]) Observable[B],
	op2 func(Observable[B]) Observable[C],
	op3 func(Observable[C]) Observable[D],
	op4 func(Observable[D]) Observable[E],
	op5 func(Observable[E]) Observable[F],
) Observable[F] {
	return op5(op4(op3(op2(op1(source)))))
}

// Pipe6 chains 6 operators onto source.
func Pipe6[A, B, C, D, E, F, G any](
	source Observable[A],
	op1 func(Observable[A]) Observable[B],
	op2 func(Observable[B]) Observable[C],
	op3 func(Observable[C]) Observable[D],
	op4 func(Observable[D]) Observable[E],
	op5 func(Observable[E]) Observable[F],
	op6 func(Observable[F]) Observable[G],
) Observable[G] {
	return op6(op5(op4(op3(op2(op1(source))))))
}

// Pipe7 chains 7 operators onto source.
func Pipe7[A, B, C, D, E, F, G, H any](
	source Observable[A],
	op1 func(Observable[A]) Observable[B],
	op2 func(Observable[B]) Observable[C],
	op3 func(Observable[C]) Observable[D],
	op4 func(Observable[D]) Observable[E],
	op5 func(Observable[E]) Observable[F],
	op6 func(Observable[F]) Observable[G],
	op7 func(Observable[G]) Observable[H],
) Observable[H] {
	return op7(op6(op5(op4(op3(op2(op1(source)))))))
}

// Pipe8 chains 8 operators onto source.
func Pipe8[A, B, C, D, E, F, G, H, I any](
	source Observable[A],
	op1 func(Observable[A]) Observable[B],
	op2 func(Observable[B]) Observable[C],
	op3 func(Observable[C]) Observable[D],
	op4 func(Observable[D]) Observable[E],
	op5 func(Observable[E]) Observable[F],
	op6 func(Observable[F]) Observable[G],
	op7 func(Observable[G]) Observable[H],
	op8 func(Observable[H]) Observable[I],
) Observable[I] {
	return op8(op7(op6(op5(op4(op3(op2(op1(source))))))))
}
