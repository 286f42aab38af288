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

package workdiv

import (
	"fmt"

	"github.com/ajroetker/go-bulk/bulk"
)

// WorkDiv is the shape of one launch: GridSize groups of BlockSize units,
// each unit processing up to ElementsPerUnit consecutive elements.
type WorkDiv struct {
	GridSize        int
	BlockSize       int
	ElementsPerUnit int
}

// Units returns the number of execution units.
func (w WorkDiv) Units() int {
	return w.GridSize * w.BlockSize
}

// Capacity returns the number of elements the units can cover.
func (w WorkDiv) Capacity() int {
	return w.Units() * w.ElementsPerUnit
}

func (w WorkDiv) String() string {
	return fmt.Sprintf("grid=%d block=%d elems=%d", w.GridSize, w.BlockSize, w.ElementsPerUnit)
}

// Validate checks that all sizes are positive and the units cover n elements.
// Over-provisioning is allowed.
func (w WorkDiv) Validate(n int) error {
	if w.GridSize < 1 || w.BlockSize < 1 || w.ElementsPerUnit < 1 {
		return fmt.Errorf("%w: %v", bulk.ErrConfig, w)
	}
	if w.Capacity() < n {
		return fmt.Errorf("%w: %v covers %d of %d elements", bulk.ErrConfig, w, w.Capacity(), n)
	}
	return nil
}

// Range returns the half-open element range [first, last) of a unit for a
// problem of n elements. ok is false for trailing units with no elements.
// The ranges of units 0..Units()-1 partition [0, n) when Validate(n) holds.
func (w WorkDiv) Range(unit, n int) (first, last int, ok bool) {
	first = unit * w.ElementsPerUnit
	if first >= n {
		return 0, 0, false
	}
	return first, min(first+w.ElementsPerUnit, n), true
}

// ElementsPerUnit returns ceil(n/units), at least 1.
func ElementsPerUnit(n, units int) int {
	if n <= 0 || units <= 0 {
		return 1
	}
	return max(1, (n+units-1)/units)
}

// Compute sizes a launch of n elements on dev with policy p. It fails with
// bulk.ErrConfig if p returns a non-positive block or grid size.
func Compute(p Policy, dev bulk.Device, n int) (WorkDiv, error) {
	block := p.BlockSize()
	grid := p.GridSize(dev)
	if block < 1 || grid < 1 {
		return WorkDiv{}, fmt.Errorf("%w: policy %s returned grid %d, block %d",
			bulk.ErrConfig, p.Name(), grid, block)
	}
	return WorkDiv{
		GridSize:        grid,
		BlockSize:       block,
		ElementsPerUnit: ElementsPerUnit(n, grid*block),
	}, nil
}

// For resolves the policy of dev and sizes a launch of n elements.
func For(dev bulk.Device, n int) (WorkDiv, Policy, error) {
	p := Resolve(dev)
	w, err := Compute(p, dev, n)
	return w, p, err
}
