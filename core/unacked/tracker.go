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

// Package unacked implements the consumer's unacked-message tracker: a
// logical ring of time buckets, advanced by a tick, that hands expired
// message ids to a redeliver callback in bulk.
//
// Grounded in godchen0212-pulsar-client-go's impl_partition_consumer.go
// `c.unAckTracker` field and MartinLogan-pulsar-client-go's analogous
// nack-tracker ticking shape.
package unacked

import (
	"sync"
	"time"

	"github.com/pulsarcore/go-client/core/msg"
)

// RedeliverFunc is invoked with the ids whose ack deadline has elapsed.
type RedeliverFunc func(ids []msg.MessageID)

// Tracker buckets outstanding message ids by roughly which tick they'll
// expire on. Add always inserts into the head bucket; each tick rotates the
// ring, handing the tail bucket's contents to redeliver and recycling it as
// the new head.
type Tracker struct {
	redeliver RedeliverFunc
	disabled  bool

	mu      sync.Mutex
	buckets []map[msg.MessageID]struct{}
	index   map[msg.MessageID]int // which bucket currently holds an id

	ticker *time.Ticker
	stopc  chan struct{}
	wg     sync.WaitGroup
}

// NewTracker returns a tracker with numBuckets buckets, each covering
// tickDuration. ackTimeout should be numBuckets*tickDuration. When ackTimeout
// is 0, the returned tracker is an inert no-op, matching "disabled" mode.
func NewTracker(ackTimeout, tickDuration time.Duration, redeliver RedeliverFunc) *Tracker {
	if ackTimeout <= 0 {
		return &Tracker{disabled: true}
	}

	numBuckets := int(ackTimeout / tickDuration)
	if numBuckets < 1 {
		numBuckets = 1
	}

	t := &Tracker{
		redeliver: redeliver,
		buckets:   make([]map[msg.MessageID]struct{}, numBuckets),
		index:     make(map[msg.MessageID]int),
		stopc:     make(chan struct{}),
	}
	for i := range t.buckets {
		t.buckets[i] = make(map[msg.MessageID]struct{})
	}

	t.ticker = time.NewTicker(tickDuration)
	t.wg.Add(1)
	go t.loop()

	return t
}

func (t *Tracker) loop() {
	defer t.wg.Done()
	for {
		select {
		case <-t.ticker.C:
			t.tick()
		case <-t.stopc:
			t.ticker.Stop()
			return
		}
	}
}

// tick hands the tail bucket's contents to redeliver, then recycles it as
// the new head.
func (t *Tracker) tick() {
	t.mu.Lock()
	tail := t.buckets[len(t.buckets)-1]
	ids := make([]msg.MessageID, 0, len(tail))
	for id := range tail {
		ids = append(ids, id)
		delete(t.index, id)
	}

	copy(t.buckets[1:], t.buckets[:len(t.buckets)-1])
	for id, b := range t.index {
		t.index[id] = b + 1
	}
	tail2 := tail
	for k := range tail2 {
		delete(tail2, k)
	}
	t.buckets[0] = tail2
	t.mu.Unlock()

	if len(ids) > 0 && t.redeliver != nil {
		t.redeliver(ids)
	}
}

// Add inserts id into the head bucket.
func (t *Tracker) Add(id msg.MessageID) {
	if t.disabled {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if old, ok := t.index[id]; ok {
		delete(t.buckets[old], id)
	}
	t.buckets[0][id] = struct{}{}
	t.index[id] = 0
}

// Remove extracts id from whichever bucket holds it.
func (t *Tracker) Remove(id msg.MessageID) {
	if t.disabled {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if b, ok := t.index[id]; ok {
		delete(t.buckets[b], id)
		delete(t.index, id)
	}
}

// RemoveMessagesTill removes every id <= target and returns the count
// removed.
func (t *Tracker) RemoveMessagesTill(target msg.MessageID) int {
	if t.disabled {
		return 0
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	var n int
	for id, b := range t.index {
		if !target.Less(id) {
			delete(t.buckets[b], id)
			delete(t.index, id)
			n++
		}
	}
	return n
}

// Close cancels the ticker. It is a no-op on a disabled tracker.
func (t *Tracker) Close() {
	if t.disabled || t.ticker == nil {
		return
	}
	close(t.stopc)
	t.wg.Wait()
}
