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

package gpu

import (
	"strings"
	"testing"

	"github.com/ajroetker/go-bulk/bulk"
	"github.com/ajroetker/go-bulk/bulk/workdiv"
)

type fakeGPU struct{ props bulk.Properties }

func (f fakeGPU) Class() bulk.Class           { return WebGPU }
func (f fakeGPU) Properties() bulk.Properties { return f.props }

func TestClassRegistered(t *testing.T) {
	if got := WebGPU.String(); got != "webgpu" {
		t.Errorf("WebGPU.String() = %q, want webgpu", got)
	}
	c, err := bulk.ParseClass("WebGPU")
	if err != nil || c != WebGPU {
		t.Errorf("ParseClass(WebGPU) = %v, %v", c, err)
	}
	if got := workdiv.Lookup(WebGPU); got != (WorkgroupPolicy{}) {
		t.Errorf("Lookup(WebGPU) = %v, want WorkgroupPolicy", got)
	}
}

func TestWorkgroupPolicy(t *testing.T) {
	tests := []struct {
		props bulk.Properties
		grid  int
	}{
		{bulk.Properties{MultiProcessorCount: 16}, 128},
		{bulk.Properties{MultiProcessorCount: 0}, 8},
		{bulk.Properties{MultiProcessorCount: 40, MaxGroups: 100}, 100},
	}
	for _, tt := range tests {
		p := WorkgroupPolicy{}
		if got := p.BlockSize(); got != WorkgroupSize {
			t.Errorf("BlockSize() = %d, want %d", got, WorkgroupSize)
		}
		if got := p.GridSize(fakeGPU{tt.props}); got != tt.grid {
			t.Errorf("GridSize(%+v) = %d, want %d", tt.props, got, tt.grid)
		}
	}
}

func TestComputeUnits(t *testing.T) {
	t.Setenv("BULK_GPU_COMPUTE_UNITS", "")
	if got := computeUnits(); got != defaultComputeUnits {
		t.Errorf("computeUnits() = %d, want %d", got, defaultComputeUnits)
	}
	t.Setenv("BULK_GPU_COMPUTE_UNITS", "60")
	if got := computeUnits(); got != 60 {
		t.Errorf("computeUnits() = %d, want 60", got)
	}
	t.Setenv("BULK_GPU_COMPUTE_UNITS", "-2")
	if got := computeUnits(); got != defaultComputeUnits {
		t.Errorf("computeUnits() = %d, want %d", got, defaultComputeUnits)
	}
}

func TestShader(t *testing.T) {
	w := workdiv.WorkDiv{GridSize: 128, BlockSize: WorkgroupSize, ElementsPerUnit: 31}
	src := Shader(w, 1000000, "x * 2.0")
	for _, want := range []string{
		"const N : u32 = 1000000u;",
		"const EPU : u32 = 31u;",
		"const BLOCK : u32 = 256u;",
		"@workgroup_size(256)",
		"if (first >= N)",
		"let last = min(first + EPU, N);",
		"dst[i] = x * 2.0;",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("shader is missing %q:\n%s", want, src)
		}
	}
}

func TestCheckArgs(t *testing.T) {
	tests := []struct {
		n, in, out int
		ok         bool
	}{
		{0, 0, 0, true},
		{10, 10, 10, true},
		{10, 20, 10, true},
		{-1, 0, 0, false},
		{10, 9, 10, false},
		{10, 10, 9, false},
		{maxElements + 1, maxElements + 1, maxElements + 1, false},
	}
	for _, tt := range tests {
		if err := checkArgs(tt.n, tt.in, tt.out); (err == nil) != tt.ok {
			t.Errorf("checkArgs(%d, %d, %d) = %v, want ok=%v", tt.n, tt.in, tt.out, err, tt.ok)
		}
	}
}
