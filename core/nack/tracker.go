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

// Package nack implements the consumer's negative-acknowledgment tracker:
// messages added are stamped with a redelivery deadline, and a periodic
// tick drains everything past its deadline into a redeliver callback in a
// single batch.
//
// Grounded in MartinLogan-pulsar-client-go's negativeAcksTracker /
// newNegativeAcksTracker call shape (`pc.nackTracker.Add(msgID.messageID)`,
// `.Close()`).
package nack

import (
	"sync"
	"time"

	"github.com/pulsarcore/go-client/core/msg"
)

// RedeliverFunc is invoked with the ids whose redelivery deadline has
// passed.
type RedeliverFunc func(ids []msg.MessageID)

// Tracker defers redelivery of negatively-acked messages by a configured
// delay.
type Tracker struct {
	delay     time.Duration
	redeliver RedeliverFunc
	now       func() time.Time

	mu       sync.Mutex
	deadline map[msg.MessageID]time.Time

	ticker *time.Ticker
	stopc  chan struct{}
	wg     sync.WaitGroup
}

// NewTracker returns a tracker that redelivers nacked messages after delay,
// checking every tickInterval.
func NewTracker(delay, tickInterval time.Duration, redeliver RedeliverFunc) *Tracker {
	t := &Tracker{
		delay:     delay,
		redeliver: redeliver,
		now:       time.Now,
		deadline:  make(map[msg.MessageID]time.Time),
		ticker:    time.NewTicker(tickInterval),
		stopc:     make(chan struct{}),
	}

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

func (t *Tracker) tick() {
	now := t.now()

	t.mu.Lock()
	var ids []msg.MessageID
	for id, deadline := range t.deadline {
		if !now.Before(deadline) {
			ids = append(ids, id)
			delete(t.deadline, id)
		}
	}
	t.mu.Unlock()

	if len(ids) > 0 && t.redeliver != nil {
		t.redeliver(ids)
	}
}

// Add records id as negatively acked at the current time, deferring its
// redelivery until delay has elapsed.
func (t *Tracker) Add(id msg.MessageID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.deadline[id] = t.now().Add(t.delay)
}

// Remove cancels a pending deferred redelivery for id, e.g. because it was
// acked before its deadline elapsed.
func (t *Tracker) Remove(id msg.MessageID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.deadline, id)
}

// Close cancels the ticker.
func (t *Tracker) Close() {
	close(t.stopc)
	t.wg.Wait()
}
