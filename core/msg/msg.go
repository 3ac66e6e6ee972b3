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

// Package msg holds the data model shared by the producer and consumer
// engines: MessageID, Message, the process-unique MonotonicID generator,
// and the BatchAcker every sub-message of a received batch shares.
package msg

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/pulsarcore/go-client/pkg/api"
)

// MonotonicID hands out strictly increasing, process-unique uint64 ids. It
// backs both producer SequenceIds and request-ids.
type MonotonicID struct {
	ID uint64
}

// Next atomically increments and returns a pointer to the value held before
// the increment, the
// shape proto.Uint64-style fields on the wire commands expect.
func (m *MonotonicID) Next() *uint64 {
	v := atomic.AddUint64(&m.ID, 1) - 1
	return &v
}

// MessageID identifies a single message or a sub-message within a batch.
// BatchIndex < 0 means Individual; BatchIndex >= 0 with a non-nil Acker
// means Cumulative.
type MessageID struct {
	LedgerID   uint64
	EntryID    uint64
	Partition  int32
	BatchIndex int32

	Acker *BatchAcker
}

// Individual reports whether this id addresses a whole (non-batched)
// message.
func (m MessageID) Individual() bool { return m.BatchIndex < 0 || m.Acker == nil }

// Less orders MessageIDs lexicographically on (LedgerID, EntryID, BatchIndex).
func (m MessageID) Less(other MessageID) bool {
	if m.LedgerID != other.LedgerID {
		return m.LedgerID < other.LedgerID
	}
	if m.EntryID != other.EntryID {
		return m.EntryID < other.EntryID
	}
	return m.BatchIndex < other.BatchIndex
}

func (m MessageID) String() string {
	if m.Individual() {
		return fmt.Sprintf("%d:%d", m.LedgerID, m.EntryID)
	}
	return fmt.Sprintf("%d:%d:%d", m.LedgerID, m.EntryID, m.BatchIndex)
}

// ToProto renders the MessageID as its wire representation.
func (m MessageID) ToProto() *api.MessageIdData {
	d := &api.MessageIdData{
		LedgerId: &m.LedgerID,
		EntryId:  &m.EntryID,
	}
	if m.Partition != 0 {
		p := m.Partition
		d.Partition = &p
	}
	if !m.Individual() {
		bi := m.BatchIndex
		d.BatchIndex = &bi
	}
	return d
}

// FromProto builds a MessageID from its wire representation. acker is nil
// for a non-batched message.
func FromProto(d *api.MessageIdData, acker *BatchAcker) MessageID {
	id := MessageID{
		LedgerID:   d.GetLedgerId(),
		EntryID:    d.GetEntryId(),
		Partition:  d.GetPartition(),
		BatchIndex: -1,
	}
	if d.BatchIndex != nil && acker != nil {
		id.BatchIndex = d.GetBatchIndex()
		id.Acker = acker
	}
	return id
}

// Message is the immutable, application-visible unit handed out of the
// consumer's receive queue.
type Message struct {
	ID              MessageID
	Metadata        api.MessageMetadata
	Payload         []byte
	Key             string
	Properties      map[string]string
	Topic           string
	RedeliveryCount uint32
}

// BatchAcker tracks which sub-indices of a received batch have been
// individually acked. It is shared by ownership across every MessageID
// produced from one batch entry; once the last sub-message is acked, the
// acker's owning batch is considered fully consumed.
//
// (number of true entries in acked) + outstanding == size is maintained as an
// invariant: a sub-index is either still outstanding (acked entry false) or
// has been either acked directly or subsumed by a cumulative ack (true).
type BatchAcker struct {
	mu          sync.Mutex
	acked       []bool
	outstanding int

	// prevID is the last message id of the batch immediately preceding this
	// one on the subscription, or nil if this is the first batch seen.
	prevID *MessageID

	// prevBatchCumulativelyAcked records whether the previous batch's
	// trailing cumulative ack has already been sent on this subscription,
	// per the consumer engine's cumulative-ack bookkeeping: a cumulative ack
	// landing inside this batch before every sub-index is acked must first
	// flush a cumulative ack for prevID, but only once.
	prevBatchCumulativelyAcked bool
}

// NewBatchAcker returns a tracker for a batch of the given size. prevID is
// the last message id of the previous batch on the subscription (nil if
// none yet), recorded so a cumulative ack landing inside this batch can
// first flush the previous batch's trailing cumulative ack.
func NewBatchAcker(size int, prevID *MessageID) *BatchAcker {
	return &BatchAcker{
		acked:       make([]bool, size),
		outstanding: size,
		prevID:      prevID,
	}
}

// MarkPrevBatchAcked reports, the first time it is called, the previous
// batch's last message id (nil if this is the first batch on the
// subscription); every later call returns (nil, false) so the caller emits
// the previous batch's cumulative ack at most once.
func (b *BatchAcker) MarkPrevBatchAcked() (prev *MessageID, first bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.prevBatchCumulativelyAcked {
		return nil, false
	}
	b.prevBatchCumulativelyAcked = true
	return b.prevID, true
}

// Size returns the number of sub-messages in the batch.
func (b *BatchAcker) Size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.acked)
}

// AckIndividual marks idx as acked and reports whether every sub-index in
// the batch has now been acked.
func (b *BatchAcker) AckIndividual(idx int) (allAcked bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if idx < 0 || idx >= len(b.acked) {
		return b.outstanding == 0
	}
	if !b.acked[idx] {
		b.acked[idx] = true
		b.outstanding--
	}
	return b.outstanding == 0
}

// AckCumulative marks every sub-index up to and including idx as acked and
// reports whether every sub-index in the batch has now been acked.
func (b *BatchAcker) AckCumulative(idx int) (allAcked bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := 0; i <= idx && i < len(b.acked); i++ {
		if !b.acked[i] {
			b.acked[i] = true
			b.outstanding--
		}
	}
	return b.outstanding == 0
}

// AllAcked reports whether every sub-index has been acked.
func (b *BatchAcker) AllAcked() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.outstanding == 0
}
