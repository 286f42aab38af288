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
	"golang.org/x/sync/errgroup"

	"github.com/ajroetker/go-bulk/bulk/contrib/workerpool"
)

// Unit identifies one execution unit of a launch.
type Unit struct {
	// Group is the index of the group (block) in the grid.
	Group int

	// Thread is the index of the unit inside its group.
	Thread int

	// BlockSize is the number of units per group of the launch.
	BlockSize int
}

// Linear returns the index of the unit in the whole grid.
func (u Unit) Linear() int {
	return u.Group*u.BlockSize + u.Thread
}

// Kernel is the body run once per unit. Units of one launch may run
// concurrently and in any order.
type Kernel func(u Unit) error

// Launch is a grid of Grid groups with Block units each.
type Launch struct {
	Grid   int
	Block  int
	Kernel Kernel
}

// Units returns the total number of units of the launch.
func (l Launch) Units() int {
	return l.Grid * l.Block
}

// runGroup runs the units of one group in order. A kernel panic is
// reported as a failure of the unit that raised it.
func runGroup(k Kernel, group, block int) (err error) {
	u := Unit{Group: group, BlockSize: block}
	defer func() {
		if r := recover(); r != nil {
			err = &UnitError{Unit: u, Err: panicError{value: r}}
		}
	}()
	for t := 0; t < block; t++ {
		u.Thread = t
		if kerr := k(u); kerr != nil {
			return &UnitError{Unit: u, Err: kerr}
		}
	}
	return nil
}

// runUnit runs a single unit.
func runUnit(k Kernel, u Unit) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &UnitError{Unit: u, Err: panicError{value: r}}
		}
	}()
	if kerr := k(u); kerr != nil {
		return &UnitError{Unit: u, Err: kerr}
	}
	return nil
}

func runSequential(l Launch) error {
	for g := 0; g < l.Grid; g++ {
		if err := runGroup(l.Kernel, g, l.Block); err != nil {
			return err
		}
	}
	return nil
}

// runGridParallel hands each worker a contiguous run of groups.
func runGridParallel(pool *workerpool.Pool, l Launch) error {
	return pool.ParallelFor(l.Grid, func(start, end int) error {
		for g := start; g < end; g++ {
			if err := runGroup(l.Kernel, g, l.Block); err != nil {
				return err
			}
		}
		return nil
	})
}

// runThreadParallel runs groups one after the other; the units of a group
// run on their own goroutines.
func runThreadParallel(l Launch) error {
	for g := 0; g < l.Grid; g++ {
		if l.Block == 1 {
			if err := runGroup(l.Kernel, g, 1); err != nil {
				return err
			}
			continue
		}
		var eg errgroup.Group
		for t := 0; t < l.Block; t++ {
			u := Unit{Group: g, Thread: t, BlockSize: l.Block}
			eg.Go(func() error {
				return runUnit(l.Kernel, u)
			})
		}
		if err := eg.Wait(); err != nil {
			return err
		}
	}
	return nil
}

// runMassivelyParallel lets multiprocessor workers steal whole groups.
// The units of a group run in lock-step order on their multiprocessor.
func runMassivelyParallel(pool *workerpool.Pool, l Launch) error {
	return pool.ParallelForAtomic(l.Grid, func(g int) error {
		return runGroup(l.Kernel, g, l.Block)
	})
}
