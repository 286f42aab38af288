// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

// Package iterator provides random-access input sequences for bulk
// transforms. A Sequence is read at arbitrary indices from many units at
// once, so implementations must be safe for concurrent reads.
package iterator

// Number is the set of element types Counting can step through.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64
}

// Sequence is a random-access, read-only input.
type Sequence[T any] interface {
	// At returns element i. i is in [0, n) for the transform reading it.
	At(i int) T
}

// Bounded is a Sequence with a known length. Transforms reject bounded
// inputs shorter than the element count.
type Bounded interface {
	Len() int
}

// Slice reads from a Go slice.
type Slice[T any] []T

func (s Slice[T]) At(i int) T { return s[i] }
func (s Slice[T]) Len() int   { return len(s) }

// Constant yields the same value at every index.
type Constant[T any] struct {
	Value T
}

// Const returns a Constant sequence of v.
func Const[T any](v T) Constant[T] {
	return Constant[T]{Value: v}
}

func (c Constant[T]) At(int) T { return c.Value }

// Counting yields Begin + i*Inc, an arithmetic progression.
type Counting[T Number] struct {
	Begin T
	Inc   T
}

// Count returns the progression begin, begin+inc, begin+2*inc, ...
func Count[T Number](begin, inc T) Counting[T] {
	return Counting[T]{Begin: begin, Inc: inc}
}

func (c Counting[T]) At(i int) T { return c.Begin + T(i)*c.Inc }

// Func adapts a function of the index to a Sequence.
type Func[T any] func(i int) T

func (f Func[T]) At(i int) T { return f(i) }

var (
	_ Sequence[float32] = Slice[float32](nil)
	_ Sequence[float32] = Constant[float32]{}
	_ Sequence[float32] = Counting[float32]{}
	_ Sequence[float32] = Func[float32](nil)
	_ Bounded           = Slice[float32](nil)
)
