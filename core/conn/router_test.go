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

package conn

import (
	"testing"

	"github.com/golang/protobuf/proto"
	"github.com/pulsarcore/go-client/core/frame"
	"github.com/pulsarcore/go-client/pkg/api"
)

type fakeProducerHandler struct {
	closed bool
}

func (h *fakeProducerHandler) HandleCloseProducer(f frame.Frame) error {
	h.closed = true
	return nil
}

type fakeConsumerHandler struct {
	pushed []frame.Frame
}

func (h *fakeConsumerHandler) HandlePush(f frame.Frame) {
	h.pushed = append(h.pushed, f)
}

func TestRouter_Dispatch_SendReceiptRoutesByProducerSequence(t *testing.T) {
	d := frame.NewFrameDispatcher()
	r := NewRouter(d)

	resp, cancel, err := d.RegisterProdSeqIDs(5, 42)
	if err != nil {
		t.Fatalf("RegisterProdSeqIDs: %v", err)
	}
	defer cancel()

	f := frame.Frame{BaseCmd: &api.BaseCommand{
		Type: api.BaseCommand_SEND_RECEIPT.Enum(),
		SendReceipt: &api.CommandSendReceipt{
			ProducerId: proto.Uint64(5),
			SequenceId: proto.Uint64(42),
		},
	}}

	r.Dispatch(f)

	select {
	case got := <-resp:
		if got.BaseCmd.GetType() != api.BaseCommand_SEND_RECEIPT {
			t.Fatalf("unexpected frame type %s", got.BaseCmd.GetType())
		}
	default:
		t.Fatal("expected SEND_RECEIPT to be delivered")
	}
}

func TestRouter_Dispatch_CloseProducerRoutesToHandler(t *testing.T) {
	d := frame.NewFrameDispatcher()
	r := NewRouter(d)

	h := &fakeProducerHandler{}
	r.AddProducer(7, h)

	f := frame.Frame{BaseCmd: &api.BaseCommand{
		Type: api.BaseCommand_CLOSE_PRODUCER.Enum(),
		CloseProducer: &api.CommandCloseProducer{
			ProducerId: proto.Uint64(7),
		},
	}}

	r.Dispatch(f)

	if !h.closed {
		t.Fatal("expected HandleCloseProducer to be invoked")
	}
}

func TestRouter_Dispatch_MessageRoutesToConsumer(t *testing.T) {
	d := frame.NewFrameDispatcher()
	r := NewRouter(d)

	h := &fakeConsumerHandler{}
	r.AddConsumer(3, h)

	f := frame.Frame{BaseCmd: &api.BaseCommand{
		Type: api.BaseCommand_MESSAGE.Enum(),
		Message: &api.CommandMessage{
			ConsumerId: proto.Uint64(3),
			MessageId:  &api.MessageIdData{LedgerId: proto.Uint64(1), EntryId: proto.Uint64(1)},
		},
	}}

	r.Dispatch(f)

	if len(h.pushed) != 1 {
		t.Fatalf("expected 1 pushed frame, got %d", len(h.pushed))
	}
}

func TestRouter_Dispatch_UnknownConsumerDropsSafely(t *testing.T) {
	d := frame.NewFrameDispatcher()
	r := NewRouter(d)

	f := frame.Frame{BaseCmd: &api.BaseCommand{
		Type: api.BaseCommand_MESSAGE.Enum(),
		Message: &api.CommandMessage{
			ConsumerId: proto.Uint64(99),
			MessageId:  &api.MessageIdData{LedgerId: proto.Uint64(1), EntryId: proto.Uint64(1)},
		},
	}}

	// must not panic despite no registered consumer
	r.Dispatch(f)
}

func TestRouter_RemoveProducerStopsRouting(t *testing.T) {
	d := frame.NewFrameDispatcher()
	r := NewRouter(d)

	h := &fakeProducerHandler{}
	r.AddProducer(1, h)
	r.RemoveProducer(1)

	f := frame.Frame{BaseCmd: &api.BaseCommand{
		Type: api.BaseCommand_CLOSE_PRODUCER.Enum(),
		CloseProducer: &api.CommandCloseProducer{
			ProducerId: proto.Uint64(1),
		},
	}}

	r.Dispatch(f)

	if h.closed {
		t.Fatal("expected removed producer to not receive CLOSE_PRODUCER")
	}
}

func TestRouter_Dispatch_SuccessRoutesByRequestID(t *testing.T) {
	d := frame.NewFrameDispatcher()
	r := NewRouter(d)

	resp, cancel, err := d.RegisterReqID(11)
	if err != nil {
		t.Fatalf("RegisterReqID: %v", err)
	}
	defer cancel()

	f := frame.Frame{BaseCmd: &api.BaseCommand{
		Type: api.BaseCommand_SUCCESS.Enum(),
		Success: &api.CommandSuccess{
			RequestId: proto.Uint64(11),
		},
	}}

	r.Dispatch(f)

	select {
	case <-resp:
	default:
		t.Fatal("expected SUCCESS to be delivered by request id")
	}
}
