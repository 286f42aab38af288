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

//go:build !gpu

package gpu

import "github.com/ajroetker/go-bulk/bulk"

// Device is a WebGPU adapter. Without the gpu build tag none can be opened.
type Device struct{}

var _ bulk.Device = (*Device)(nil)

// Open returns ErrNoGPU: go-bulk was built without the gpu tag.
func Open() (*Device, error) { return nil, ErrNoGPU }

func (*Device) Class() bulk.Class           { return WebGPU }
func (*Device) Properties() bulk.Properties { return bulk.Properties{} }
func (*Device) Close() error                { return nil }

// Queue submits transforms to a Device.
type Queue struct{}

var _ bulk.Queue = (*Queue)(nil)

func (*Queue) Device() bulk.Device       { return nil }
func (*Queue) Kind() bulk.QueueKind      { return bulk.Blocking }
func (*Queue) Enqueue(bulk.Launch) error { return ErrNoGPU }
func (*Queue) Wait() error               { return nil }
func (*Queue) Close() error              { return nil }

// NewQueue returns ErrNoGPU.
func NewQueue(*Device, bulk.QueueKind) (*Queue, error) { return nil, ErrNoGPU }

// Transform returns ErrNoGPU after validating its arguments.
func Transform(_ *Device, _ *Queue, n int, in, out []float32, _ string) error {
	if err := checkArgs(n, len(in), len(out)); err != nil {
		return err
	}
	return ErrNoGPU
}
