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

// Package bulk describes the execution targets of the go-bulk primitives:
// accelerator classes, devices, queues and the launches submitted to them.
//
// A launch is a grid of groups, each group holding a fixed number of
// cooperating units. How those units map onto goroutines depends on the
// class of the device the queue was created for:
//
//   - Sequential: one unit at a time on the calling goroutine.
//   - GridParallel: independent groups spread over one worker per core.
//   - ThreadParallel: groups in order, the units of a group run concurrently.
//   - MassivelyParallel: many groups of many units, scheduled onto a fixed
//     number of multiprocessors (emulated on the host, or a real GPU via
//     the bulk/gpu package).
//
// The work-division policies live in bulk/workdiv and the element-wise
// engine in bulk/transform.
//
// # Example Usage
//
//	dev := bulk.DefaultDevice()
//	q, err := bulk.NewQueue(dev, bulk.Blocking)
//	if err != nil {
//	    return err
//	}
//	defer q.Close()
//
//	out := make([]uint64, n)
//	err = transform.Transform(dev, q, n, iterator.Const[uint64](10), out,
//	    func(v uint64) uint64 { return v * 2 })
//
// # Environment
//
// BULK_NO_PARALLEL forces the default device to the Sequential class.
// BULK_ACC selects the default class by name ("grid-parallel", ...).
// BULK_EMULATED_SMS sets the multiprocessor count of the emulated GPU.
package bulk
