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

import (
	"errors"
	"testing"
)

func TestExtent(t *testing.T) {
	e := Extent1(777)
	if e.Dim() != 1 || e.Prod() != 777 {
		t.Errorf("Extent1(777): Dim() = %d, Prod() = %d", e.Dim(), e.Prod())
	}
	n, err := e.Linear()
	if err != nil || n != 777 {
		t.Errorf("Linear() = %d, %v; want 777, nil", n, err)
	}

	if got := (Extent{4, 3, 2}).Prod(); got != 24 {
		t.Errorf("Prod() = %d, want 24", got)
	}
	if got := (Extent{}).Prod(); got != 0 {
		t.Errorf("empty Prod() = %d, want 0", got)
	}
	if _, err := (Extent{4, 3}).Linear(); !errors.Is(err, ErrArgument) {
		t.Errorf("2-D Linear() error = %v, want ErrArgument", err)
	}
	if _, err := (Extent{-1}).Linear(); !errors.Is(err, ErrArgument) {
		t.Errorf("negative Linear() error = %v, want ErrArgument", err)
	}
}
