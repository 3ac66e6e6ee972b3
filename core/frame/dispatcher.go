// Copyright 2018 Comcast Cable Communications Management, LLC
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package frame

import (
	"fmt"
	"sync"
)

// Dispatcher correlates request frames sent to the broker with their
// response frames read back off the connection. The connection's read loop
// runs on a single goroutine and has no notion of "the caller waiting for
// this reply" - Dispatcher is the rendezvous point that lets a blocking
// public method (Producer.Send, Conn.Connect, ...) wait on the specific
// reply it cares about while every other in-flight request keeps waiting on
// its own channel.
//
// There are three independent correlation keys used by the pulsar protocol:
//   - a single "global" slot, used for CONNECT -> CONNECTED, since the
//     connection has no request id to key off of before it's established
//   - request_id, used by most request/response command pairs
//   - (producer_id, sequence_id), used for SEND -> SEND_RECEIPT|SEND_ERROR
type Dispatcher struct {
	mu sync.Mutex

	global chan Frame

	reqIDs map[uint64]chan Frame

	prodSeqIDs map[prodSeqKey]chan Frame
}

type prodSeqKey struct {
	producerID uint64
	sequenceID uint64
}

// NewFrameDispatcher returns a ready to use Dispatcher.
func NewFrameDispatcher() *Dispatcher {
	return &Dispatcher{
		reqIDs:     make(map[uint64]chan Frame),
		prodSeqIDs: make(map[prodSeqKey]chan Frame),
	}
}

// RegisterGlobal registers interest in the next frame that isn't otherwise
// correlated by request id, typically the CONNECTED response to a CONNECT.
// The returned cancel func must be called once the caller is no longer
// interested (found its response, timed out, ...) to free the slot.
func (d *Dispatcher) RegisterGlobal() (chan Frame, func(), error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.global != nil {
		return nil, nil, fmt.Errorf("global response already registered")
	}

	resp := make(chan Frame, 1)
	d.global = resp

	cancel := func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if d.global == resp {
			d.global = nil
		}
	}

	return resp, cancel, nil
}

// RegisterReqID registers interest in the response frame carrying the given
// request id.
func (d *Dispatcher) RegisterReqID(id uint64) (chan Frame, func(), error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.reqIDs[id]; ok {
		return nil, nil, fmt.Errorf("request id %d is already registered", id)
	}

	resp := make(chan Frame, 1)
	d.reqIDs[id] = resp

	cancel := func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if c, ok := d.reqIDs[id]; ok && c == resp {
			delete(d.reqIDs, id)
		}
	}

	return resp, cancel, nil
}

// RegisterProdSeqIDs registers interest in the SEND_RECEIPT or SEND_ERROR
// frame for the given (producerID, sequenceID) pair.
func (d *Dispatcher) RegisterProdSeqIDs(producerID, sequenceID uint64) (chan Frame, func(), error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	key := prodSeqKey{producerID, sequenceID}
	if _, ok := d.prodSeqIDs[key]; ok {
		return nil, nil, fmt.Errorf("producer %d sequence %d is already registered", producerID, sequenceID)
	}

	resp := make(chan Frame, 1)
	d.prodSeqIDs[key] = resp

	cancel := func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if c, ok := d.prodSeqIDs[key]; ok && c == resp {
			delete(d.prodSeqIDs, key)
		}
	}

	return resp, cancel, nil
}

// NotifyGlobal delivers f to the registered global channel, if any.
func (d *Dispatcher) NotifyGlobal(f Frame) error {
	d.mu.Lock()
	resp := d.global
	d.mu.Unlock()

	if resp == nil {
		return fmt.Errorf("no global response registered")
	}

	select {
	case resp <- f:
		return nil
	default:
		return fmt.Errorf("global response channel is full")
	}
}

// NotifyReqID delivers f to the channel registered for the given request id.
func (d *Dispatcher) NotifyReqID(id uint64, f Frame) error {
	d.mu.Lock()
	resp, ok := d.reqIDs[id]
	d.mu.Unlock()

	if !ok {
		return fmt.Errorf("request id %d is not registered", id)
	}

	select {
	case resp <- f:
		return nil
	default:
		return fmt.Errorf("request id %d response channel is full", id)
	}
}

// NotifyProdSeqIDs delivers f to the channel registered for the given
// (producerID, sequenceID) pair.
func (d *Dispatcher) NotifyProdSeqIDs(producerID, sequenceID uint64, f Frame) error {
	d.mu.Lock()
	resp, ok := d.prodSeqIDs[prodSeqKey{producerID, sequenceID}]
	d.mu.Unlock()

	if !ok {
		return fmt.Errorf("producer %d sequence %d is not registered", producerID, sequenceID)
	}

	select {
	case resp <- f:
		return nil
	default:
		return fmt.Errorf("producer %d sequence %d response channel is full", producerID, sequenceID)
	}
}
