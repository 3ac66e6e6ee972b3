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

package ack

import (
	"sync"
	"testing"
	"time"

	"github.com/pulsarcore/go-client/core/msg"
)

type recordedFlush struct {
	individual []msg.MessageID
	cumulative *msg.MessageID
}

type flushRecorder struct {
	mu      sync.Mutex
	flushes []recordedFlush
}

func (r *flushRecorder) flush(individual []msg.MessageID, cumulative *msg.MessageID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flushes = append(r.flushes, recordedFlush{individual, cumulative})
	return nil
}

func (r *flushRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.flushes)
}

func id(ledger, entry uint64) msg.MessageID {
	return msg.MessageID{LedgerID: ledger, EntryID: entry, BatchIndex: -1}
}

func TestGroupingTracker_ImmediateMode(t *testing.T) {
	var r flushRecorder
	tr := NewGroupingTracker(0, r.flush)
	defer tr.Close()

	if err := tr.AckIndividual(id(1, 1)); err != nil {
		t.Fatalf("AckIndividual() err = %v; nil expected", err)
	}
	if got := r.count(); got != 1 {
		t.Fatalf("got %d flushes; expected every ack to flush immediately with interval 0", got)
	}
}

func TestGroupingTracker_PeriodicFlushCoalesces(t *testing.T) {
	var r flushRecorder
	tr := NewGroupingTracker(30*time.Millisecond, r.flush)
	defer tr.Close()

	for e := uint64(1); e <= 3; e++ {
		if err := tr.AckIndividual(id(1, e)); err != nil {
			t.Fatalf("AckIndividual() err = %v; nil expected", err)
		}
	}
	if got := r.count(); got != 0 {
		t.Fatalf("got %d flushes before the interval elapsed; expected 0", got)
	}

	time.Sleep(100 * time.Millisecond)

	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.flushes) != 1 {
		t.Fatalf("got %d flushes; expected the ticker to coalesce 3 acks into 1", len(r.flushes))
	}
	if got := len(r.flushes[0].individual); got != 3 {
		t.Fatalf("got %d individual ids in the flush; expected 3", got)
	}
}

func TestGroupingTracker_CumulativeSupersedesCoveredIndividuals(t *testing.T) {
	var r flushRecorder
	tr := NewGroupingTracker(time.Hour, r.flush)
	defer tr.Close()

	_ = tr.AckIndividual(id(1, 1))
	_ = tr.AckIndividual(id(1, 2))
	_ = tr.AckIndividual(id(1, 9))
	_ = tr.AckCumulative(id(1, 5))

	if err := tr.Flush(); err != nil {
		t.Fatalf("Flush() err = %v; nil expected", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.flushes) != 1 {
		t.Fatalf("got %d flushes; expected 1", len(r.flushes))
	}
	f := r.flushes[0]
	if f.cumulative == nil || f.cumulative.EntryID != 5 {
		t.Fatalf("got cumulative %v; expected 1:5", f.cumulative)
	}
	if len(f.individual) != 1 || f.individual[0].EntryID != 9 {
		t.Fatalf("got individuals %v; expected only the uncovered 1:9 to survive", f.individual)
	}
}

func TestGroupingTracker_IsDuplicate(t *testing.T) {
	var r flushRecorder
	tr := NewGroupingTracker(time.Hour, r.flush)
	defer tr.Close()

	_ = tr.AckIndividual(id(1, 3))
	_ = tr.AckCumulative(id(1, 2))

	cases := []struct {
		name string
		id   msg.MessageID
		want bool
	}{
		{"pending individual", id(1, 3), true},
		{"covered by cumulative", id(1, 1), true},
		{"the cumulative id itself", id(1, 2), true},
		{"beyond both", id(1, 4), false},
	}
	for _, tc := range cases {
		if got := tr.IsDuplicate(tc.id); got != tc.want {
			t.Errorf("%s: IsDuplicate(%v) = %t; expected %t", tc.name, tc.id, got, tc.want)
		}
	}
}

func TestGroupingTracker_CloseFlushesPending(t *testing.T) {
	var r flushRecorder
	tr := NewGroupingTracker(time.Hour, r.flush)

	_ = tr.AckIndividual(id(1, 1))
	if err := tr.Close(); err != nil {
		t.Fatalf("Close() err = %v; nil expected", err)
	}

	if got := r.count(); got != 1 {
		t.Fatalf("got %d flushes; expected Close to flush the pending ack", got)
	}

	// acks after close are dropped, not flushed
	_ = tr.AckIndividual(id(1, 2))
	if got := r.count(); got != 1 {
		t.Fatalf("got %d flushes after a post-Close ack; expected it to be dropped", got)
	}
}

func TestGroupingTracker_FlushEmptyIsNoop(t *testing.T) {
	var r flushRecorder
	tr := NewGroupingTracker(time.Hour, r.flush)
	defer tr.Close()

	if err := tr.Flush(); err != nil {
		t.Fatalf("Flush() err = %v; nil expected", err)
	}
	if got := r.count(); got != 0 {
		t.Fatalf("got %d flushes for an empty tracker; expected 0", got)
	}
}

func TestGroupingTracker_IsDuplicateAfterFlush(t *testing.T) {
	var r flushRecorder
	tr := NewGroupingTracker(0, r.flush)
	defer tr.Close()

	_ = tr.AckIndividual(id(1, 1))
	if got := r.count(); got != 1 {
		t.Fatalf("got %d flushes; expected the immediate-mode ack to have flushed", got)
	}

	// the broker may redeliver an entry whose ack just went out; it must
	// still be recognized as a duplicate
	if !tr.IsDuplicate(id(1, 1)) {
		t.Fatal("IsDuplicate() = false for a just-flushed ack; expected true")
	}
}
