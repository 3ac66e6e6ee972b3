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

// Package ack implements the consumer's acknowledgment grouping tracker: it
// buffers individual and cumulative acks and periodically flushes them
// together through one Flusher call, the way a real consumer engine would
// rather than sending one ACK frame per message.
package ack

import (
	"sync"
	"time"

	"github.com/pulsarcore/go-client/core/msg"
)

// Flusher sends the grouped acks: the buffered individual ids and the
// cumulative id, if any. It is called from the tracker's own goroutine; the consumer
// engine supplies an implementation that posts onto its own inbox or writes
// directly to the connection.
type Flusher func(individual []msg.MessageID, cumulative *msg.MessageID) error

// GroupingTracker coalesces acks for a subscription. For non-persistent
// topics, set flushInterval to 0 to make it a no-op passthrough: every ack
// is flushed immediately.
type GroupingTracker struct {
	flush Flusher

	mu         sync.Mutex
	individual map[msg.MessageID]struct{}
	cumulative *msg.MessageID
	closed     bool

	// flushed holds the individual ids covered by the most recent flush, so
	// IsDuplicate still recognizes an entry the broker redelivers just after
	// its ack went out on the wire.
	flushed map[msg.MessageID]struct{}

	ticker *time.Ticker
	stopc  chan struct{}
	wg     sync.WaitGroup
}

// NewGroupingTracker returns a tracker that flushes on the given interval.
// An interval of 0 disables batching: every AckIndividual/AckCumulative call
// flushes immediately (matching the non-persistent-topic no-op mode).
func NewGroupingTracker(flushInterval time.Duration, flush Flusher) *GroupingTracker {
	t := &GroupingTracker{
		flush:      flush,
		individual: make(map[msg.MessageID]struct{}),
		stopc:      make(chan struct{}),
	}

	if flushInterval > 0 {
		t.ticker = time.NewTicker(flushInterval)
		t.wg.Add(1)
		go t.loop()
	}

	return t
}

func (t *GroupingTracker) loop() {
	defer t.wg.Done()
	for {
		select {
		case <-t.ticker.C:
			_ = t.Flush()
		case <-t.stopc:
			t.ticker.Stop()
			return
		}
	}
}

// AckIndividual records id as individually acked.
func (t *GroupingTracker) AckIndividual(id msg.MessageID) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.individual[id] = struct{}{}
	immediate := t.ticker == nil
	t.mu.Unlock()

	if immediate {
		return t.Flush()
	}
	return nil
}

// AckCumulative records id as the new cumulative ack, superseding any
// individual acks it covers.
func (t *GroupingTracker) AckCumulative(id msg.MessageID) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	if t.cumulative == nil || t.cumulative.Less(id) {
		t.cumulative = &id
	}
	// a cumulative ack covers every individual ack with a smaller id
	for existing := range t.individual {
		if !id.Less(existing) {
			delete(t.individual, existing)
		}
	}
	immediate := t.ticker == nil
	t.mu.Unlock()

	if immediate {
		return t.Flush()
	}
	return nil
}

// IsDuplicate reports whether id is covered by a pending or just-flushed
// ack.
func (t *GroupingTracker) IsDuplicate(id msg.MessageID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cumulative != nil && !t.cumulative.Less(id) {
		return true
	}
	if _, ok := t.individual[id]; ok {
		return true
	}
	_, ok := t.flushed[id]
	return ok
}

// Flush hands whatever is currently pending to the Flusher and clears the
// individual-ack buffer. The latest cumulative id is kept, so IsDuplicate
// keeps covering it and every later Flush passes it to the Flusher again.
func (t *GroupingTracker) Flush() error {
	t.mu.Lock()
	if len(t.individual) == 0 && t.cumulative == nil {
		t.mu.Unlock()
		return nil
	}

	individual := make([]msg.MessageID, 0, len(t.individual))
	for id := range t.individual {
		individual = append(individual, id)
	}
	cumulative := t.cumulative

	t.flushed = t.individual
	t.individual = make(map[msg.MessageID]struct{})
	t.mu.Unlock()

	return t.flush(individual, cumulative)
}

// Close flushes any pending acks and stops the periodic flush goroutine.
func (t *GroupingTracker) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.mu.Unlock()

	err := t.Flush()

	if t.ticker != nil {
		close(t.stopc)
		t.wg.Wait()
	}

	return err
}
