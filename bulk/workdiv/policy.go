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

// Package workdiv decides how many execution units a launch uses on a given
// device, and how the element range is split between them.
//
// A Policy fixes the unit counts of one accelerator class: the block size
// (units cooperating in a group, an architectural constant) and the grid size
// (independent groups, possibly derived from the device). The registry maps
// classes to policies and falls back to SequentialPolicy for classes nobody
// registered, so a new back-end works, slowly, before it is tuned.
//
// Back-ends register their policy from init:
//
//	func init() {
//	    workdiv.Register(myClass, myPolicy{})
//	}
package workdiv

import (
	"runtime"

	"github.com/ajroetker/go-bulk/bulk"
)

// Policy computes the unit counts of launches for one accelerator class.
// Implementations must be stateless and never return 0.
type Policy interface {
	// Name identifies the policy in logs and diagnostics.
	Name() string

	// BlockSize is the number of cooperating units per group.
	BlockSize() int

	// GridSize is the number of independent groups to launch on dev.
	GridSize(dev bulk.Device) int
}

const (
	// ThreadParallelBlockSize is the cooperative group width of thread-parallel devices.
	ThreadParallelBlockSize = 2

	// ThreadParallelGridSize is the number of groups on thread-parallel devices.
	ThreadParallelGridSize = 4

	// MassivelyParallelBlockSize fills one hardware execution wave.
	MassivelyParallelBlockSize = 1024

	// Oversubscription multiplies the multiprocessor count so each
	// multiprocessor has resident groups to switch to while others stall.
	Oversubscription = 8
)

// hardwareConcurrency is the number of logical CPU cores.
var hardwareConcurrency = runtime.NumCPU

// SequentialPolicy runs one unit. It is the fallback for unknown classes.
type SequentialPolicy struct{}

func (SequentialPolicy) Name() string             { return "sequential" }
func (SequentialPolicy) BlockSize() int           { return 1 }
func (SequentialPolicy) GridSize(bulk.Device) int { return 1 }

// GridParallelPolicy launches one single-unit group per logical core.
type GridParallelPolicy struct{}

func (GridParallelPolicy) Name() string   { return "grid-parallel" }
func (GridParallelPolicy) BlockSize() int { return 1 }

// GridSize returns max(1, number of logical cores) of the host.
func (GridParallelPolicy) GridSize(bulk.Device) int {
	return max(1, hardwareConcurrency())
}

// ThreadParallelPolicy launches a few groups of cooperating units.
type ThreadParallelPolicy struct{}

func (ThreadParallelPolicy) Name() string             { return "thread-parallel" }
func (ThreadParallelPolicy) BlockSize() int           { return ThreadParallelBlockSize }
func (ThreadParallelPolicy) GridSize(bulk.Device) int { return ThreadParallelGridSize }

// MassivelyParallelPolicy sizes launches for GPU-style devices.
type MassivelyParallelPolicy struct{}

func (MassivelyParallelPolicy) Name() string   { return "massively-parallel" }
func (MassivelyParallelPolicy) BlockSize() int { return MassivelyParallelBlockSize }

// GridSize returns the multiprocessor count of dev times Oversubscription.
// Devices reporting no multiprocessors count as one.
func (MassivelyParallelPolicy) GridSize(dev bulk.Device) int {
	return max(1, dev.Properties().MultiProcessorCount) * Oversubscription
}
