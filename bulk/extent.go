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

package bulk

import "fmt"

// Extent is the size of a problem along each dimension.
type Extent []int

// Extent1 returns a one-dimensional extent of n elements.
func Extent1(n int) Extent {
	return Extent{n}
}

// Dim returns the number of dimensions.
func (e Extent) Dim() int {
	return len(e)
}

// Prod returns the total number of elements. An empty extent has none.
func (e Extent) Prod() int {
	if len(e) == 0 {
		return 0
	}
	n := 1
	for _, d := range e {
		n *= d
	}
	return n
}

// Linear returns the element count of a one-dimensional extent.
func (e Extent) Linear() (int, error) {
	if len(e) != 1 {
		return 0, fmt.Errorf("%w: extent %v has %d dimensions, want 1", ErrArgument, []int(e), len(e))
	}
	if e[0] < 0 {
		return 0, fmt.Errorf("%w: negative extent %d", ErrArgument, e[0])
	}
	return e[0], nil
}
