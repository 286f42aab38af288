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

//go:build gpu

package gpu

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/openfluke/webgpu/wgpu"

	"github.com/ajroetker/go-bulk/bulk"
	"github.com/ajroetker/go-bulk/bulk/workdiv"
)

// readbackTimeout bounds the wait for a mapped result buffer.
const readbackTimeout = 10 * time.Second

// Device is a WebGPU adapter and the logical device opened on it.
type Device struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	props    bulk.Properties

	maxBufferSize uint64

	// mu serializes calls into the WebGPU device.
	mu sync.Mutex
}

var _ bulk.Device = (*Device)(nil)

// Open requests a high-performance adapter, falling back to any adapter, and
// opens a device on it.
func Open() (*Device, error) {
	inst := wgpu.CreateInstance(nil)
	if inst == nil {
		return nil, fmt.Errorf("%w: cannot create WebGPU instance", ErrNoGPU)
	}
	adapter, err := inst.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil || adapter == nil {
		bulk.Logger().Debug("gpu: high performance adapter unavailable", "error", err)
		adapter, err = inst.RequestAdapter(nil)
	}
	if err != nil || adapter == nil {
		inst.Release()
		return nil, fmt.Errorf("%w: request adapter: %v", ErrNoGPU, err)
	}
	device, err := adapter.RequestDevice(nil)
	if err != nil {
		adapter.Release()
		inst.Release()
		return nil, fmt.Errorf("%w: request device: %v", ErrNoGPU, err)
	}

	info := adapter.GetInfo()
	limits := adapter.GetLimits().Limits
	var features []string
	for _, f := range adapter.EnumerateFeatures() {
		features = append(features, f.String())
	}
	d := &Device{
		instance: inst,
		adapter:  adapter,
		device:   device,
		queue:    device.GetQueue(),
		props: bulk.Properties{
			Name:                fmt.Sprintf("%s (%s, %s)", strings.TrimSpace(info.Name), info.BackendType.String(), info.AdapterType.String()),
			MultiProcessorCount: computeUnits(),
			MaxUnitsPerGroup:    int(min(limits.MaxComputeInvocationsPerWorkgroup, limits.MaxComputeWorkgroupSizeX)),
			MaxGroups:           int(limits.MaxComputeWorkgroupsPerDimension),
			Features:            features,
		},
		maxBufferSize: min(limits.MaxBufferSize, limits.MaxStorageBufferBindingSize),
	}
	bulk.Logger().Debug("gpu: opened device", "name", d.props.Name,
		"maxUnitsPerGroup", d.props.MaxUnitsPerGroup, "maxGroups", d.props.MaxGroups)
	return d, nil
}

// Class implements bulk.Device.
func (d *Device) Class() bulk.Class {
	return WebGPU
}

// Properties implements bulk.Device.
func (d *Device) Properties() bulk.Properties {
	p := d.props
	p.Features = append([]string(nil), d.props.Features...)
	return p
}

// Close releases the device, adapter and instance.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.device == nil {
		return nil
	}
	d.device.Release()
	d.adapter.Release()
	d.instance.Release()
	d.device, d.adapter, d.instance, d.queue = nil, nil, nil, nil
	return nil
}

// job is one recorded transform: its command buffer and the buffers it owns.
type job struct {
	cmd     *wgpu.CommandBuffer
	staging *wgpu.Buffer
	size    uint64
	release []func()
}

func (j *job) free() {
	for i := len(j.release) - 1; i >= 0; i-- {
		j.release[i]()
	}
	j.release = nil
}

// record compiles the shader of a transform, uploads the input and encodes
// the dispatch followed by a copy of the output into a mappable buffer.
func (d *Device) record(w workdiv.WorkDiv, in []float32, expr string) (_ *job, err error) {
	n := len(in)
	j := &job{size: uint64(n) * 4}
	defer func() {
		if err != nil {
			j.free()
		}
	}()
	if d.device == nil {
		return nil, fmt.Errorf("%w: device closed", bulk.ErrArgument)
	}

	module, err := d.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "bulk_transform_shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: Shader(w, n, expr)},
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: compile %q: %w", expr, err)
	}
	j.release = append(j.release, func() { module.Release() })

	pipeline, err := d.device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label:   "bulk_transform_pipeline",
		Compute: wgpu.ProgrammableStageDescriptor{Module: module, EntryPoint: "main"},
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create pipeline: %w", err)
	}
	j.release = append(j.release, func() { pipeline.Release() })

	src, err := d.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "bulk_transform_src",
		Contents: wgpu.ToBytes(in),
		Usage:    wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create input buffer: %w", err)
	}
	j.release = append(j.release, func() { src.Destroy() })

	dst, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "bulk_transform_dst",
		Size:  j.size,
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create output buffer: %w", err)
	}
	j.release = append(j.release, func() { dst.Destroy() })

	j.staging, err = d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "bulk_transform_staging",
		Size:  j.size,
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create staging buffer: %w", err)
	}
	staging := j.staging
	j.release = append(j.release, func() { staging.Destroy() })

	bg, err := d.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "bulk_transform_bind",
		Layout: pipeline.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: src, Size: src.GetSize()},
			{Binding: 1, Buffer: dst, Size: dst.GetSize()},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create bind group: %w", err)
	}
	j.release = append(j.release, func() { bg.Release() })

	enc, err := d.device.CreateCommandEncoder(nil)
	if err != nil {
		return nil, fmt.Errorf("gpu: create command encoder: %w", err)
	}
	defer enc.Release()
	pass := enc.BeginComputePass(nil)
	pass.SetPipeline(pipeline)
	pass.SetBindGroup(0, bg, nil)
	pass.DispatchWorkgroups(uint32(w.GridSize), 1, 1)
	pass.End()
	enc.CopyBufferToBuffer(dst, 0, j.staging, 0, j.size)
	j.cmd, err = enc.Finish(nil)
	if err != nil {
		return nil, fmt.Errorf("gpu: finish commands: %w", err)
	}
	return j, nil
}

// readback maps the staging buffer of a submitted job and copies it to out.
func (d *Device) readback(j *job, out []float32) error {
	defer j.free()
	done := make(chan struct{})
	var mapErr error
	err := j.staging.MapAsync(wgpu.MapModeRead, 0, j.size, func(status wgpu.BufferMapAsyncStatus) {
		if status != wgpu.BufferMapAsyncStatusSuccess {
			mapErr = fmt.Errorf("gpu: map result buffer: %v", status)
		}
		close(done)
	})
	if err != nil {
		return fmt.Errorf("gpu: map result buffer: %w", err)
	}
	timeout := time.After(readbackTimeout)
	for {
		d.device.Poll(false, nil)
		select {
		case <-done:
			if mapErr != nil {
				return mapErr
			}
			data := j.staging.GetMappedRange(0, uint(j.size))
			if data == nil {
				return fmt.Errorf("gpu: empty mapped range")
			}
			copy(out, wgpu.FromBytes[float32](data))
			j.staging.Unmap()
			return nil
		case <-timeout:
			return fmt.Errorf("gpu: result not ready after %s", readbackTimeout)
		default:
			time.Sleep(time.Millisecond)
		}
	}
}

// Queue submits transforms to a Device in order. It implements bulk.Queue,
// but host kernels enqueued with Enqueue are rejected.
type Queue struct {
	dev  *Device
	kind bulk.QueueKind

	mu      sync.Mutex
	pending []pendingJob
	closed  bool
}

type pendingJob struct {
	job *job
	out []float32
}

var _ bulk.Queue = (*Queue)(nil)

// NewQueue returns a queue on dev.
func NewQueue(dev *Device, kind bulk.QueueKind) (*Queue, error) {
	if kind != bulk.Blocking && kind != bulk.NonBlocking {
		return nil, fmt.Errorf("%w: unknown queue kind %s", bulk.ErrArgument, kind)
	}
	return &Queue{dev: dev, kind: kind}, nil
}

func (q *Queue) Device() bulk.Device  { return q.dev }
func (q *Queue) Kind() bulk.QueueKind { return q.kind }

// Enqueue implements bulk.Queue. WebGPU devices cannot run Go kernels.
func (q *Queue) Enqueue(bulk.Launch) error {
	return fmt.Errorf("%w: %s queue cannot run host kernels", bulk.ErrIncompatible, WebGPU)
}

// submit runs a recorded job. Blocking queues read the result back at once;
// non-blocking queues do it in Wait.
func (q *Queue) submit(j *job, out []float32) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		j.free()
		return bulk.ErrQueueClosed
	}
	d := q.dev
	d.mu.Lock()
	defer d.mu.Unlock()
	d.queue.Submit(j.cmd)
	j.cmd.Release()
	if q.kind == bulk.Blocking {
		return d.readback(j, out)
	}
	q.pending = append(q.pending, pendingJob{job: j, out: out})
	return nil
}

// Wait copies the results of pending transforms to their outputs and
// returns the first failure.
func (q *Queue) Wait() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.drain()
}

func (q *Queue) drain() error {
	d := q.dev
	d.mu.Lock()
	defer d.mu.Unlock()
	var first error
	for _, p := range q.pending {
		if err := d.readback(p.job, p.out); err != nil && first == nil {
			first = err
		}
	}
	clear(q.pending)
	q.pending = q.pending[:0]
	return first
}

// Close waits for pending transforms and rejects new ones.
func (q *Queue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	return q.drain()
}

// Transform sets out[i] = expr for i in [0, n), where expr is a WGSL f32
// expression of the input element x and its index i. The launch is sized by
// the policy registered for WebGPU.
func Transform(dev *Device, q *Queue, n int, in, out []float32, expr string) error {
	if err := checkArgs(n, len(in), len(out)); err != nil {
		return err
	}
	if q == nil || q.dev != dev {
		return fmt.Errorf("%w: queue is not bound to this device", bulk.ErrIncompatible)
	}
	if n == 0 {
		return nil
	}
	if uint64(n)*4 > dev.maxBufferSize {
		return fmt.Errorf("%w: %d elements exceed the buffer limit of %s", bulk.ErrIncompatible, n, dev.props.Name)
	}

	p := workdiv.Resolve(dev)
	w, err := workdiv.Compute(p, dev, n)
	if err != nil {
		return err
	}
	if err := w.Validate(n); err != nil {
		return err
	}
	if err := bulk.CheckLimits(dev, w.GridSize, w.BlockSize); err != nil {
		return fmt.Errorf("policy %s: %w", p.Name(), err)
	}
	bulk.Logger().Debug("gpu: transform", "policy", p.Name(), "n", n,
		"grid", w.GridSize, "block", w.BlockSize, "elementsPerUnit", w.ElementsPerUnit)

	dev.mu.Lock()
	j, err := dev.record(w, in[:n], expr)
	dev.mu.Unlock()
	if err != nil {
		return err
	}
	return q.submit(j, out[:n])
}
