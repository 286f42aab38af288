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

//go:build gpu

package gpu

import (
	"errors"
	"testing"

	"github.com/ajroetker/go-bulk/bulk"
)

func openOrSkip(t *testing.T) *Device {
	t.Helper()
	dev, err := Open()
	if err != nil {
		t.Skipf("no WebGPU adapter: %v", err)
	}
	t.Cleanup(func() { dev.Close() })
	return dev
}

func TestTransform(t *testing.T) {
	dev := openOrSkip(t)
	for _, kind := range []bulk.QueueKind{bulk.Blocking, bulk.NonBlocking} {
		t.Run(kind.String(), func(t *testing.T) {
			q, err := NewQueue(dev, kind)
			if err != nil {
				t.Fatal(err)
			}
			defer q.Close()
			for _, n := range []int{1, 255, 256, 777, 100_000} {
				in := make([]float32, n)
				for i := range in {
					in[i] = float32(i)
				}
				out := make([]float32, n)
				if err := Transform(dev, q, n, in, out, "x * 2.0 + 1.0"); err != nil {
					t.Fatalf("n=%d: %v", n, err)
				}
				if err := q.Wait(); err != nil {
					t.Fatalf("n=%d: Wait: %v", n, err)
				}
				for i, v := range out {
					if want := float32(2*i + 1); v != want {
						t.Fatalf("n=%d: out[%d] = %g, want %g", n, i, v, want)
					}
				}
			}
		})
	}
}

func TestIndexExpression(t *testing.T) {
	dev := openOrSkip(t)
	q, err := NewQueue(dev, bulk.Blocking)
	if err != nil {
		t.Fatal(err)
	}
	const n = 1000
	out := make([]float32, n)
	if err := Transform(dev, q, n, make([]float32, n), out, "f32(i) * 0.5"); err != nil {
		t.Fatal(err)
	}
	for i, v := range out {
		if want := float32(i) * 0.5; v != want {
			t.Fatalf("out[%d] = %g, want %g", i, v, want)
		}
	}
}

func TestHostKernelsRejected(t *testing.T) {
	dev := openOrSkip(t)
	if _, err := bulk.NewQueue(dev, bulk.Blocking); !errors.Is(err, bulk.ErrIncompatible) {
		t.Errorf("bulk.NewQueue() error = %v, want ErrIncompatible", err)
	}
	q, err := NewQueue(dev, bulk.Blocking)
	if err != nil {
		t.Fatal(err)
	}
	err = q.Enqueue(bulk.Launch{Grid: 1, Block: 1, Kernel: func(bulk.Unit) error { return nil }})
	if !errors.Is(err, bulk.ErrIncompatible) {
		t.Errorf("Enqueue() error = %v, want ErrIncompatible", err)
	}
	other, err := NewQueue(nil, bulk.Blocking)
	if err != nil {
		t.Fatal(err)
	}
	in := make([]float32, 8)
	if err := Transform(dev, other, 8, in, in, "x"); !errors.Is(err, bulk.ErrIncompatible) {
		t.Errorf("Transform() error = %v, want ErrIncompatible", err)
	}
}
