// Copyright 2025 go-highway Authors
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

// Package transform applies an element-wise operation over N elements on any
// bulk device.
//
// Each call resolves the work-division policy of the device class, sizes one
// launch so that grid × block × elementsPerUnit covers N, and submits it to
// the queue. Unit u processes [u×epu, min((u+1)×epu, N)); trailing units with
// no elements do nothing. The ranges of all units partition [0, N), so units
// never write the same output element.
//
// On a Blocking queue the call returns when every element is written. On a
// NonBlocking queue the output is ready, and unit failures are reported, after
// Queue.Wait.
package transform

import (
	"fmt"

	"github.com/ajroetker/go-bulk/bulk"
	"github.com/ajroetker/go-bulk/bulk/contrib/iterator"
	"github.com/ajroetker/go-bulk/bulk/workdiv"
)

// Option configures one transform call.
type Option func(*config)

type config struct {
	policy workdiv.Policy
}

// WithPolicy sizes the launch with p instead of the policy registered for the
// device class.
func WithPolicy(p workdiv.Policy) Option {
	return func(c *config) {
		c.policy = p
	}
}

// Transform sets out[i] = op(in.At(i)) for i in [0, n).
func Transform[T, U any](dev bulk.Device, q bulk.Queue, n int, in iterator.Sequence[T], out []U, op func(T) U, opts ...Option) error {
	if err := checkInput(in, n, "input"); err != nil {
		return err
	}
	var body func(first, last int) error
	switch in := in.(type) {
	case iterator.Slice[T]:
		body = func(first, last int) error {
			for i, v := range in[first:last] {
				out[first+i] = op(v)
			}
			return nil
		}
	case iterator.Constant[T]:
		body = func(first, last int) error {
			for i := first; i < last; i++ {
				out[i] = op(in.Value)
			}
			return nil
		}
	default:
		body = func(first, last int) error {
			for i := first; i < last; i++ {
				out[i] = op(in.At(i))
			}
			return nil
		}
	}
	return run(dev, q, n, len(out), opts, body)
}

// Transform2 sets out[i] = op(a.At(i), b.At(i)) for i in [0, n).
func Transform2[A, B, U any](dev bulk.Device, q bulk.Queue, n int, a iterator.Sequence[A], b iterator.Sequence[B], out []U, op func(A, B) U, opts ...Option) error {
	if err := checkInput(a, n, "first input"); err != nil {
		return err
	}
	if err := checkInput(b, n, "second input"); err != nil {
		return err
	}
	return run(dev, q, n, len(out), opts, func(first, last int) error {
		for i := first; i < last; i++ {
			out[i] = op(a.At(i), b.At(i))
		}
		return nil
	})
}

// TransformIndex sets out[i] = op(i) for i in [0, n).
func TransformIndex[U any](dev bulk.Device, q bulk.Queue, n int, out []U, op func(i int) U, opts ...Option) error {
	return run(dev, q, n, len(out), opts, func(first, last int) error {
		for i := first; i < last; i++ {
			out[i] = op(i)
		}
		return nil
	})
}

// TransformErr is Transform with a fallible op. A unit stops at its first
// failing element; the failure is reported as a *bulk.UnitError wrapping the
// op error. Output elements of a failed launch are unspecified.
func TransformErr[T, U any](dev bulk.Device, q bulk.Queue, n int, in iterator.Sequence[T], out []U, op func(T) (U, error), opts ...Option) error {
	if err := checkInput(in, n, "input"); err != nil {
		return err
	}
	return run(dev, q, n, len(out), opts, func(first, last int) error {
		for i := first; i < last; i++ {
			v, err := op(in.At(i))
			if err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
			out[i] = v
		}
		return nil
	})
}

// Iota sets out[i] = begin + i×inc for every element of out.
func Iota[T iterator.Number](dev bulk.Device, q bulk.Queue, out []T, begin, inc T, opts ...Option) error {
	return Transform(dev, q, len(out), iterator.Count(begin, inc), out, func(v T) T { return v }, opts...)
}

// AllocIota allocates a buffer of a one-dimensional extent and fills it with
// Iota. On a NonBlocking queue the buffer is filled after Queue.Wait.
func AllocIota[T iterator.Number](dev bulk.Device, q bulk.Queue, ext bulk.Extent, begin, inc T, opts ...Option) ([]T, error) {
	n, err := ext.Linear()
	if err != nil {
		return nil, err
	}
	out := make([]T, n)
	if err := Iota(dev, q, out, begin, inc, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func checkInput(in any, n int, name string) error {
	if in == nil {
		return fmt.Errorf("%w: nil %s", bulk.ErrArgument, name)
	}
	if b, ok := in.(iterator.Bounded); ok && b.Len() < n {
		return fmt.Errorf("%w: %s has %d elements, want %d", bulk.ErrArgument, name, b.Len(), n)
	}
	return nil
}

// run sizes and submits the launch applying body to the range of each unit.
func run(dev bulk.Device, q bulk.Queue, n, outLen int, opts []Option, body func(first, last int) error) error {
	switch {
	case dev == nil || q == nil:
		return fmt.Errorf("%w: nil device or queue", bulk.ErrArgument)
	case n < 0:
		return fmt.Errorf("%w: negative element count %d", bulk.ErrArgument, n)
	case outLen < n:
		return fmt.Errorf("%w: output has %d elements, want %d", bulk.ErrArgument, outLen, n)
	case !bulk.SameDevice(q.Device(), dev):
		return fmt.Errorf("%w: queue is bound to %s device %q, not %s device %q", bulk.ErrIncompatible,
			q.Device().Class(), q.Device().Properties().Name, dev.Class(), dev.Properties().Name)
	}
	if n == 0 {
		return nil
	}

	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.policy == nil {
		cfg.policy = workdiv.Resolve(dev)
	}
	w, err := workdiv.Compute(cfg.policy, dev, n)
	if err != nil {
		return err
	}
	if err := w.Validate(n); err != nil {
		return err
	}
	if err := bulk.CheckLimits(dev, w.GridSize, w.BlockSize); err != nil {
		return fmt.Errorf("policy %s: %w", cfg.policy.Name(), err)
	}
	bulk.Logger().Debug("transform: launch",
		"class", dev.Class(), "policy", cfg.policy.Name(), "n", n,
		"grid", w.GridSize, "block", w.BlockSize, "elementsPerUnit", w.ElementsPerUnit)

	return q.Enqueue(bulk.Launch{
		Grid:  w.GridSize,
		Block: w.BlockSize,
		Kernel: func(u bulk.Unit) error {
			first, last, ok := w.Range(u.Linear(), n)
			if !ok {
				return nil
			}
			return body(first, last)
		},
	})
}
