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
	"fmt"
)

var (
	// ErrConfig reports a work division with a zero grid or block size.
	ErrConfig = errors.New("bulk: invalid work division")

	// ErrIncompatible reports a device that cannot run the requested launch.
	ErrIncompatible = errors.New("bulk: device incompatible with execution strategy")

	// ErrArgument reports malformed sizes or buffers.
	ErrArgument = errors.New("bulk: invalid argument")

	// ErrQueueClosed is returned when enqueueing on a closed queue.
	ErrQueueClosed = errors.New("bulk: queue closed")
)

// UnitError is a failure inside one unit of a launch.
type UnitError struct {
	Unit Unit
	Err  error
}

func (e *UnitError) Error() string {
	return fmt.Sprintf("bulk: unit %d (group %d, thread %d) failed: %v",
		e.Unit.Linear(), e.Unit.Group, e.Unit.Thread, e.Err)
}

func (e *UnitError) Unwrap() error {
	return e.Err
}

// panicError carries a recovered kernel panic.
type panicError struct {
	value any
}

func (p panicError) Error() string {
	return fmt.Sprintf("panic: %v", p.value)
}
