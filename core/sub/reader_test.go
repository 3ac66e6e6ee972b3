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

package sub

import (
	"context"
	"testing"
	"time"

	"github.com/golang/protobuf/proto"
	"github.com/pulsarcore/go-client/core/frame"
	"github.com/pulsarcore/go-client/core/msg"
	"github.com/pulsarcore/go-client/pkg/api"
)

func TestNewReader_NonDurableStartsAtGivenID(t *testing.T) {
	var ms frame.MockSender
	reqID := msg.MonotonicID{ID: testReqIDStart}
	dispatcher := frame.NewFrameDispatcher()
	out := make(chan msg.Message, 10)

	type result struct {
		r   *Reader
		err error
	}
	resultc := make(chan result, 1)

	go func() {
		r, err := NewReader(context.Background(), &ms, dispatcher, &reqID, testConsumerID,
			Config{Topic: "persistent://p/n/t"}, msg.MessageID{LedgerID: 10, EntryID: 20, BatchIndex: -1}, true, out)
		resultc <- result{r, err}
	}()

	time.Sleep(100 * time.Millisecond)

	if err := dispatcher.NotifyReqID(testReqIDStart, frame.Frame{
		BaseCmd: &api.BaseCommand{
			Type:    api.BaseCommand_SUCCESS.Enum(),
			Success: &api.CommandSuccess{RequestId: proto.Uint64(testReqIDStart)},
		},
	}); err != nil {
		t.Fatal(err)
	}

	time.Sleep(100 * time.Millisecond)

	var seekReqID uint64
	for _, fr := range ms.Frames {
		if fr.BaseCmd.GetType() == api.BaseCommand_SEEK {
			seekReqID = fr.BaseCmd.GetSeek().GetRequestId()
		}
	}
	if seekReqID == 0 {
		t.Fatal("expected NewReader with inclusive=true to issue a SEEK after SUBSCRIBE")
	}
	if err := dispatcher.NotifyReqID(seekReqID, frame.Frame{
		BaseCmd: &api.BaseCommand{
			Type:    api.BaseCommand_SUCCESS.Enum(),
			Success: &api.CommandSuccess{RequestId: proto.Uint64(seekReqID)},
		},
	}); err != nil {
		t.Fatal(err)
	}

	r := <-resultc
	if r.err != nil {
		t.Fatalf("NewReader() err = %v; nil expected", r.err)
	}
	if r.r.Consumer() == nil {
		t.Fatal("expected Reader.Consumer() to return the underlying Consumer")
	}

	var subscribeCmd *api.CommandSubscribe
	for _, fr := range ms.Frames {
		if fr.BaseCmd.GetType() == api.BaseCommand_SUBSCRIBE {
			subscribeCmd = fr.BaseCmd.GetSubscribe()
		}
	}
	if subscribeCmd == nil {
		t.Fatal("expected a recorded SUBSCRIBE frame")
	}
	if subscribeCmd.GetDurable() {
		t.Error("expected reader subscription to be non-durable")
	}
	if subscribeCmd.GetStartMessageId().GetLedgerId() != 10 || subscribeCmd.GetStartMessageId().GetEntryId() != 20 {
		t.Errorf("expected SUBSCRIBE to carry the requested start message id, got %v", subscribeCmd.GetStartMessageId())
	}
}
