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
	"fmt"
	"reflect"
	"runtime"
	"sync"

	"github.com/ajroetker/go-bulk/bulk/contrib/workerpool"
)

// Properties are the hardware characteristics a policy may query.
// Zero limits mean unlimited.
type Properties struct {
	// Name is a human-readable device description.
	Name string

	// MultiProcessorCount is the hardware parallelism: CPU cores on the host,
	// streaming multiprocessors (or compute units) on a GPU.
	MultiProcessorCount int

	// MaxUnitsPerGroup is the largest block size a launch may use.
	MaxUnitsPerGroup int

	// MaxGroups is the largest grid size a launch may use.
	MaxGroups int

	// Features lists detected instruction-set or adapter features.
	Features []string
}

// Device is an execution target.
type Device interface {
	// Class returns the accelerator class of the device. It never changes.
	Class() Class

	// Properties queries the hardware characteristics of the device.
	Properties() Properties
}

// Executor is a device that runs host kernels.
type Executor interface {
	Device

	// Check reports whether the launch can run on the device, without running it.
	Check(l Launch) error

	// Execute runs every unit of a checked launch and blocks until they finish.
	Execute(l Launch) error
}

// Block size limits of the host devices.
const (
	// maxThreadUnitsPerGroup bounds the goroutines started for one group.
	maxThreadUnitsPerGroup = 256

	// maxEmulatedUnitsPerGroup matches the thread-block limit of CUDA hardware.
	maxEmulatedUnitsPerGroup = 1024
)

// HostDevice runs launches on goroutines of the current process, using the
// scheduling of its class.
type HostDevice struct {
	class Class
	props Properties

	poolOnce sync.Once
	pool     *workerpool.Pool
}

var _ Executor = (*HostDevice)(nil)

// NewHostDevice returns a host device of the given class. MassivelyParallel
// returns an emulated GPU with the default multiprocessor count. Classes
// without a host executor run sequentially.
func NewHostDevice(c Class) *HostDevice {
	cores := max(1, runtime.NumCPU())
	props := Properties{
		MultiProcessorCount: cores,
		Features:            hostFeatures(),
	}
	switch c {
	case Sequential:
		props.MultiProcessorCount = 1
		props.MaxUnitsPerGroup = 1
	case GridParallel:
		props.MaxUnitsPerGroup = 1
	case ThreadParallel:
		props.MaxUnitsPerGroup = maxThreadUnitsPerGroup
	case MassivelyParallel:
		return NewEmulatedGPU(emulatedSMs())
	default:
		props.MultiProcessorCount = 1
		props.MaxUnitsPerGroup = 1
	}
	props.Name = fmt.Sprintf("host %s (%s/%s)", c, runtime.GOOS, runtime.GOARCH)
	return &HostDevice{class: c, props: props}
}

// NewEmulatedGPU returns a MassivelyParallel host device with the given
// number of multiprocessors. Each multiprocessor is one worker goroutine.
func NewEmulatedGPU(multiProcessors int) *HostDevice {
	multiProcessors = max(1, multiProcessors)
	return &HostDevice{
		class: MassivelyParallel,
		props: Properties{
			Name:                fmt.Sprintf("emulated gpu (%d multiprocessors)", multiProcessors),
			MultiProcessorCount: multiProcessors,
			MaxUnitsPerGroup:    maxEmulatedUnitsPerGroup,
			Features:            hostFeatures(),
		},
	}
}

var defaultDevice = sync.OnceValue(func() *HostDevice {
	c := DefaultClass()
	Logger().Debug("bulk: default device", "class", c)
	return NewHostDevice(c)
})

// DefaultDevice returns the process-wide host device of DefaultClass.
func DefaultDevice() *HostDevice {
	return defaultDevice()
}

// Class implements Device.
func (d *HostDevice) Class() Class {
	return d.class
}

// Properties implements Device.
func (d *HostDevice) Properties() Properties {
	p := d.props
	p.Features = append([]string(nil), d.props.Features...)
	return p
}

// Close stops the worker goroutines of the device, if any were started.
// Launches executed afterwards, including those still pending on a
// NonBlocking queue, fall back to running on the caller.
func (d *HostDevice) Close() error {
	d.poolOnce.Do(func() {
		d.pool = workerpool.New(1)
	})
	d.pool.Close()
	return nil
}

// workers returns the persistent pool, one worker per multiprocessor.
func (d *HostDevice) workers() *workerpool.Pool {
	d.poolOnce.Do(func() {
		d.pool = workerpool.New(d.props.MultiProcessorCount)
	})
	return d.pool
}

// Check implements Executor.
func (d *HostDevice) Check(l Launch) error {
	if l.Grid <= 0 || l.Block <= 0 {
		return fmt.Errorf("%w: grid %d, block %d", ErrConfig, l.Grid, l.Block)
	}
	if l.Kernel == nil {
		return fmt.Errorf("%w: nil kernel", ErrArgument)
	}
	return checkLimits(d.props, l)
}

func checkLimits(p Properties, l Launch) error {
	if p.MaxUnitsPerGroup > 0 && l.Block > p.MaxUnitsPerGroup {
		return fmt.Errorf("%w: block size %d exceeds %d units per group of %s",
			ErrIncompatible, l.Block, p.MaxUnitsPerGroup, p.Name)
	}
	if p.MaxGroups > 0 && l.Grid > p.MaxGroups {
		return fmt.Errorf("%w: grid size %d exceeds %d groups of %s",
			ErrIncompatible, l.Grid, p.MaxGroups, p.Name)
	}
	return nil
}

// SameDevice reports whether a and b are the same device. Devices of
// different or non-comparable types are never the same.
func SameDevice(a, b Device) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta != nil && !ta.Comparable() {
		return false
	}
	return a == b
}

// CheckLimits reports whether a grid and block size fit the device limits.
func CheckLimits(dev Device, grid, block int) error {
	return checkLimits(dev.Properties(), Launch{Grid: grid, Block: block})
}

// Execute implements Executor.
func (d *HostDevice) Execute(l Launch) error {
	switch d.class {
	case GridParallel:
		return runGridParallel(d.workers(), l)
	case ThreadParallel:
		return runThreadParallel(l)
	case MassivelyParallel:
		return runMassivelyParallel(d.workers(), l)
	default:
		return runSequential(l)
	}
}
