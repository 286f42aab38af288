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
	"sync"
)

//go:generate go tool stringer -type=QueueKind -linecomment

// QueueKind selects the completion discipline of a queue.
type QueueKind int

const (
	// Blocking queues run a launch inside Enqueue.
	Blocking QueueKind = iota // blocking

	// NonBlocking queues return from Enqueue at once; completion is
	// observed with Wait.
	NonBlocking // non-blocking
)

// Queue is an in-order stream of launches bound to one device.
type Queue interface {
	// Device returns the device the queue submits to.
	Device() Device

	// Kind returns the completion discipline of the queue.
	Kind() QueueKind

	// Enqueue submits a launch. Launches that cannot run on the device are
	// rejected before any unit starts. A blocking queue also returns the
	// first unit failure; a non-blocking queue reports it from Wait.
	Enqueue(l Launch) error

	// Wait blocks until every launch enqueued so far has completed and
	// returns the first unit failure since the previous Wait.
	Wait() error

	// Close waits for pending launches and rejects new ones.
	Close() error
}

// NewQueue returns a queue on a device that executes host kernels. A
// NonBlocking queue runs its launches on a goroutine of its own; Close
// releases it.
func NewQueue(dev Device, kind QueueKind) (Queue, error) {
	exec, ok := dev.(Executor)
	if !ok {
		return nil, fmt.Errorf("%w: %s device %T cannot execute host kernels",
			ErrIncompatible, dev.Class(), dev)
	}
	q := &hostQueue{exec: exec, kind: kind}
	q.cond = sync.NewCond(&q.mu)
	switch kind {
	case Blocking:
	case NonBlocking:
		go q.serve()
	default:
		return nil, fmt.Errorf("%w: unknown queue kind %s", ErrArgument, kind)
	}
	return q, nil
}

type hostQueue struct {
	exec Executor
	kind QueueKind

	mu       sync.Mutex
	cond     *sync.Cond
	fifo     []Launch
	inflight int
	err      error
	closed   bool
}

func (q *hostQueue) Device() Device  { return q.exec }
func (q *hostQueue) Kind() QueueKind { return q.kind }

func (q *hostQueue) Enqueue(l Launch) error {
	if err := q.exec.Check(l); err != nil {
		return err
	}
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrQueueClosed
	}
	if q.kind == Blocking {
		q.mu.Unlock()
		return q.exec.Execute(l)
	}
	q.fifo = append(q.fifo, l)
	q.inflight++
	q.cond.Broadcast()
	q.mu.Unlock()
	return nil
}

// serve drains the FIFO of a non-blocking queue in submission order.
func (q *hostQueue) serve() {
	for {
		q.mu.Lock()
		for len(q.fifo) == 0 && !q.closed {
			q.cond.Wait()
		}
		if len(q.fifo) == 0 {
			q.mu.Unlock()
			return
		}
		l := q.fifo[0]
		q.fifo[0] = Launch{}
		q.fifo = q.fifo[1:]
		q.mu.Unlock()

		err := q.exec.Execute(l)

		q.mu.Lock()
		q.inflight--
		if err != nil && q.err == nil {
			q.err = err
		}
		q.cond.Broadcast()
		q.mu.Unlock()
	}
}

func (q *hostQueue) Wait() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.inflight > 0 {
		q.cond.Wait()
	}
	err := q.err
	q.err = nil
	return err
}

func (q *hostQueue) Close() error {
	q.mu.Lock()
	q.closed = true
	q.cond.Broadcast()
	for q.inflight > 0 {
		q.cond.Wait()
	}
	q.mu.Unlock()
	return nil
}
