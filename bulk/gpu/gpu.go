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

// Package gpu runs bulk transforms on a WebGPU adapter.
//
// WebGPU devices belong to their own accelerator class, WebGPU, which sizes
// launches in workgroups of WorkgroupSize invocations. They cannot run Go
// kernels: bulk.NewQueue rejects them with bulk.ErrIncompatible. Operations are
// given as WGSL expressions instead and compiled into a compute shader that
// applies the same unit partition as the host engine.
//
// The WebGPU back-end is built with the "gpu" build tag. Without it Open
// returns ErrNoGPU. BULK_GPU_COMPUTE_UNITS sets the compute-unit count used to
// size the grid, which WebGPU does not report.
package gpu

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/ajroetker/go-bulk/bulk"
	"github.com/ajroetker/go-bulk/bulk/workdiv"
)

// ErrNoGPU is returned when no WebGPU adapter can be used.
var ErrNoGPU = errors.New("gpu: no WebGPU adapter available")

// WebGPU is the accelerator class of WebGPU devices.
const WebGPU = bulk.FirstCustomClass

// WorkgroupSize is the number of invocations per workgroup. 256 is the
// largest size every WebGPU implementation must support.
const WorkgroupSize = 256

// defaultComputeUnits is assumed when BULK_GPU_COMPUTE_UNITS is unset, since
// WebGPU does not report the number of compute units of an adapter.
const defaultComputeUnits = 16

// maxElements keeps unit and element indices inside WGSL u32 arithmetic.
const maxElements = 1 << 31

func init() {
	bulk.RegisterClassName(WebGPU, "webgpu")
	workdiv.Register(WebGPU, WorkgroupPolicy{})
}

// WorkgroupPolicy sizes launches for WebGPU devices: WorkgroupSize units per
// group, an oversubscribed grid per compute unit, capped by the dispatch limit.
type WorkgroupPolicy struct{}

func (WorkgroupPolicy) Name() string   { return "webgpu-workgroup" }
func (WorkgroupPolicy) BlockSize() int { return WorkgroupSize }

func (WorkgroupPolicy) GridSize(dev bulk.Device) int {
	props := dev.Properties()
	grid := max(1, props.MultiProcessorCount) * workdiv.Oversubscription
	if props.MaxGroups > 0 {
		grid = min(grid, props.MaxGroups)
	}
	return grid
}

// computeUnits returns BULK_GPU_COMPUTE_UNITS, or defaultComputeUnits.
func computeUnits() int {
	if val := os.Getenv("BULK_GPU_COMPUTE_UNITS"); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil && n > 0 {
			return n
		}
		bulk.Logger().Warn("gpu: ignoring BULK_GPU_COMPUTE_UNITS", "value", val)
	}
	return defaultComputeUnits
}

// Shader returns the WGSL compute shader of a transform of n float32
// elements with work division w. expr computes one output element from the
// input element x (f32) and its index i (u32).
//
// Each invocation is one unit: it processes [u×epu, min((u+1)×epu, n)) and
// does nothing when its range starts past n.
func Shader(w workdiv.WorkDiv, n int, expr string) string {
	return fmt.Sprintf(`
@group(0) @binding(0) var<storage, read> src : array<f32>;
@group(0) @binding(1) var<storage, read_write> dst : array<f32>;

const N : u32 = %du;
const EPU : u32 = %du;
const BLOCK : u32 = %du;

@compute @workgroup_size(%d)
fn main(@builtin(workgroup_id) wid : vec3<u32>, @builtin(local_invocation_id) lid : vec3<u32>) {
	let unit = wid.x * BLOCK + lid.x;
	let first = unit * EPU;
	if (first >= N) {
		return;
	}
	let last = min(first + EPU, N);
	for (var i : u32 = first; i < last; i = i + 1u) {
		let x = src[i];
		dst[i] = %s;
	}
}
`, n, w.ElementsPerUnit, w.BlockSize, w.BlockSize, expr)
}

// checkArgs validates a transform call before any GPU work is recorded.
func checkArgs(n, inLen, outLen int) error {
	switch {
	case n < 0:
		return fmt.Errorf("%w: negative element count %d", bulk.ErrArgument, n)
	case n > maxElements:
		return fmt.Errorf("%w: %d elements exceed the WebGPU index range", bulk.ErrArgument, n)
	case inLen < n:
		return fmt.Errorf("%w: input has %d elements, want %d", bulk.ErrArgument, inLen, n)
	case outLen < n:
		return fmt.Errorf("%w: output has %d elements, want %d", bulk.ErrArgument, outLen, n)
	}
	return nil
}
