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

package unacked

import (
	"sync"
	"testing"
	"time"

	"github.com/pulsarcore/go-client/core/msg"
)

type redeliverRecorder struct {
	mu    sync.Mutex
	calls [][]msg.MessageID
}

func (r *redeliverRecorder) redeliver(ids []msg.MessageID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, ids)
}

func (r *redeliverRecorder) total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		n += len(c)
	}
	return n
}

func id(ledger, entry uint64) msg.MessageID {
	return msg.MessageID{LedgerID: ledger, EntryID: entry, BatchIndex: -1}
}

func TestTracker_RedeliversAfterTimeoutExactlyOnce(t *testing.T) {
	var r redeliverRecorder
	tr := NewTracker(100*time.Millisecond, 10*time.Millisecond, r.redeliver)
	defer tr.Close()

	tr.Add(id(1, 1))

	time.Sleep(250 * time.Millisecond)

	r.mu.Lock()
	defer r.mu.Unlock()
	var seen int
	for _, call := range r.calls {
		for _, got := range call {
			if got == id(1, 1) {
				seen++
			}
		}
	}
	if seen != 1 {
		t.Fatalf("id redelivered %d times; expected exactly once", seen)
	}
}

func TestTracker_RemovePreventsRedelivery(t *testing.T) {
	var r redeliverRecorder
	tr := NewTracker(60*time.Millisecond, 10*time.Millisecond, r.redeliver)
	defer tr.Close()

	tr.Add(id(1, 1))
	tr.Remove(id(1, 1))

	time.Sleep(200 * time.Millisecond)

	if got := r.total(); got != 0 {
		t.Fatalf("got %d redelivered ids; expected a removed id to never be redelivered", got)
	}
}

func TestTracker_AckWithinTimeoutNotRedelivered(t *testing.T) {
	var r redeliverRecorder
	tr := NewTracker(200*time.Millisecond, 20*time.Millisecond, r.redeliver)
	defer tr.Close()

	tr.Add(id(1, 1))
	time.Sleep(50 * time.Millisecond)
	tr.Remove(id(1, 1))
	time.Sleep(300 * time.Millisecond)

	if got := r.total(); got != 0 {
		t.Fatalf("got %d redelivered ids; expected none after an in-time ack", got)
	}
}

func TestTracker_RemoveMessagesTill(t *testing.T) {
	var r redeliverRecorder
	tr := NewTracker(time.Hour, time.Hour, r.redeliver)
	defer tr.Close()

	tr.Add(id(1, 1))
	tr.Add(id(1, 2))
	tr.Add(id(1, 3))
	tr.Add(id(2, 1))

	if got := tr.RemoveMessagesTill(id(1, 2)); got != 2 {
		t.Fatalf("RemoveMessagesTill() = %d; expected 2 (1:1 and 1:2)", got)
	}
	if got := tr.RemoveMessagesTill(id(2, 1)); got != 2 {
		t.Fatalf("RemoveMessagesTill() = %d; expected the remaining 2", got)
	}
	if got := tr.RemoveMessagesTill(id(9, 9)); got != 0 {
		t.Fatalf("RemoveMessagesTill() = %d on an empty tracker; expected 0", got)
	}
}

func TestTracker_DisabledIsInert(t *testing.T) {
	var r redeliverRecorder
	tr := NewTracker(0, 10*time.Millisecond, r.redeliver)

	tr.Add(id(1, 1))
	tr.Remove(id(1, 1))
	if got := tr.RemoveMessagesTill(id(9, 9)); got != 0 {
		t.Fatalf("RemoveMessagesTill() = %d on a disabled tracker; expected 0", got)
	}
	tr.Close() // must not panic or block

	time.Sleep(50 * time.Millisecond)
	if got := r.total(); got != 0 {
		t.Fatalf("got %d redelivered ids from a disabled tracker; expected 0", got)
	}
}
