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

package pub

import (
	"context"
	"testing"
	"time"

	"github.com/golang/protobuf/proto"
	"github.com/pulsarcore/go-client/core/frame"
	"github.com/pulsarcore/go-client/core/msg"
	"github.com/pulsarcore/go-client/pkg/api"
)

func newTestProducer(cfg Config) (*Producer, *frame.MockSender, *frame.Dispatcher) {
	var ms frame.MockSender
	reqID := msg.MonotonicID{ID: 43}
	dispatcher := frame.NewFrameDispatcher()
	return NewProducer(&ms, dispatcher, &reqID, 123, cfg), &ms, dispatcher
}

func sendReceipt(prodID, seqID uint64, ledger, entry uint64) frame.Frame {
	return frame.Frame{
		BaseCmd: &api.BaseCommand{
			Type: api.BaseCommand_SEND_RECEIPT.Enum(),
			SendReceipt: &api.CommandSendReceipt{
				ProducerId: proto.Uint64(prodID),
				SequenceId: proto.Uint64(seqID),
				MessageId:  &api.MessageIdData{LedgerId: proto.Uint64(ledger), EntryId: proto.Uint64(entry)},
			},
		},
	}
}

func TestProducer_Send_Success(t *testing.T) {
	p, ms, dispatcher := newTestProducer(Config{})
	defer close(p.stopc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	type response struct {
		id  msg.MessageID
		err error
	}
	resp := make(chan response, 1)
	go func() {
		id, err := p.Send(ctx, OutgoingMessage{Payload: []byte("hola mundo")})
		resp <- response{id, err}
	}()

	time.Sleep(100 * time.Millisecond)

	if err := dispatcher.NotifyProdSeqIDs(123, 0, sendReceipt(123, 0, 7, 9)); err != nil {
		t.Fatal(err)
	}

	r := <-resp
	if r.err != nil {
		t.Fatalf("Send() err = %v; nil expected", r.err)
	}
	if r.id.LedgerID != 7 || r.id.EntryID != 9 {
		t.Fatalf("got id %v; expected 7:9", r.id)
	}
	if !r.id.Individual() {
		t.Fatal("expected a single send's MessageID to be Individual")
	}

	if got, expected := len(ms.Frames), 1; got != expected {
		t.Fatalf("got %d frame; expected %d", got, expected)
	}
}

func TestProducer_Send_Error(t *testing.T) {
	p, ms, dispatcher := newTestProducer(Config{})
	defer close(p.stopc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	resp := make(chan error, 1)
	go func() {
		_, err := p.Send(ctx, OutgoingMessage{Payload: []byte("hola mundo")})
		resp <- err
	}()

	time.Sleep(100 * time.Millisecond)

	f := frame.Frame{
		BaseCmd: &api.BaseCommand{
			Type: api.BaseCommand_SEND_ERROR.Enum(),
			SendError: &api.CommandSendError{
				Message:    proto.String("no me mandes esto"),
				ProducerId: proto.Uint64(123),
				SequenceId: proto.Uint64(0),
				Error:      api.ServerError_PersistenceError.Enum(),
			},
		},
	}
	if err := dispatcher.NotifyProdSeqIDs(123, 0, f); err != nil {
		t.Fatal(err)
	}

	if err := <-resp; err == nil {
		t.Fatal("Send() err = nil; non-nil expected")
	}

	if got, expected := len(ms.Frames), 1; got != expected {
		t.Fatalf("got %d frame; expected %d", got, expected)
	}
}

func TestProducer_Send_SequenceIdsAreMonotonic(t *testing.T) {
	p, _, dispatcher := newTestProducer(Config{})
	defer close(p.stopc)

	for i := uint64(0); i < 3; i++ {
		resp := p.SendAsync(context.Background(), OutgoingMessage{Payload: []byte("x")})
		time.Sleep(20 * time.Millisecond)
		if err := dispatcher.NotifyProdSeqIDs(123, i, sendReceipt(123, i, i, i)); err != nil {
			t.Fatalf("sequence %d: %v", i, err)
		}
		r := <-resp
		if r.Err != nil {
			t.Fatalf("sequence %d: err = %v", i, r.Err)
		}
	}
}

func TestProducer_SendAsync_QueueFull(t *testing.T) {
	p, _, _ := newTestProducer(Config{MaxPendingMessages: 1})
	defer close(p.stopc)

	first := p.SendAsync(context.Background(), OutgoingMessage{Payload: []byte("a")})
	second := p.SendAsync(context.Background(), OutgoingMessage{Payload: []byte("b")})

	select {
	case r := <-second:
		if r.Err != ErrQueueFull {
			t.Fatalf("got err %v; expected ErrQueueFull", r.Err)
		}
	case <-time.After(time.Second):
		t.Fatal("expected second SendAsync to fail immediately with ErrQueueFull")
	}

	select {
	case <-first:
		t.Fatal("first send completed unexpectedly without a receipt")
	default:
	}
}

func TestProducer_Batching_SealsOnSize(t *testing.T) {
	p, ms, dispatcher := newTestProducer(Config{
		BatchingEnabled:         true,
		MaxMessagesPerBatch:     2,
		MaxBatchingPublishDelay: time.Hour,
	})
	defer close(p.stopc)

	r1 := p.SendAsync(context.Background(), OutgoingMessage{Payload: []byte("uno")})
	r2 := p.SendAsync(context.Background(), OutgoingMessage{Payload: []byte("dos")})

	time.Sleep(100 * time.Millisecond)

	if got, expected := len(ms.Frames), 1; got != expected {
		t.Fatalf("got %d SEND frame(s); expected %d once the batch filled", got, expected)
	}
	sent := ms.Frames[0]
	if n := sent.BaseCmd.GetSend().GetNumMessages(); n != 2 {
		t.Fatalf("got num_messages %d; expected 2", n)
	}
	if n := sent.Metadata.GetNumMessagesInBatch(); n != 2 {
		t.Fatalf("got num_messages_in_batch %d; expected 2", n)
	}

	if err := dispatcher.NotifyProdSeqIDs(123, 0, sendReceipt(123, 0, 5, 5)); err != nil {
		t.Fatal(err)
	}

	got1, got2 := <-r1, <-r2
	if got1.Err != nil || got2.Err != nil {
		t.Fatalf("batch results err = %v, %v; nil expected", got1.Err, got2.Err)
	}
	if got1.ID.BatchIndex != 0 || got2.ID.BatchIndex != 1 {
		t.Fatalf("got batch indices %d, %d; expected 0, 1", got1.ID.BatchIndex, got2.ID.BatchIndex)
	}
}

func TestProducer_Batching_SealsOnTimer(t *testing.T) {
	p, ms, _ := newTestProducer(Config{
		BatchingEnabled:         true,
		MaxMessagesPerBatch:     1000,
		MaxBatchingPublishDelay: 20 * time.Millisecond,
	})
	defer close(p.stopc)

	p.SendAsync(context.Background(), OutgoingMessage{Payload: []byte("solo")})

	time.Sleep(200 * time.Millisecond)

	if got, expected := len(ms.Frames), 1; got != expected {
		t.Fatalf("got %d SEND frame(s); expected the batch timer to seal exactly %d", got, expected)
	}
}

func TestProducer_RecoverChecksumError_ResendsOnMatch(t *testing.T) {
	p, ms, dispatcher := newTestProducer(Config{})
	defer close(p.stopc)

	resp := p.SendAsync(context.Background(), OutgoingMessage{Payload: []byte("x")})
	time.Sleep(50 * time.Millisecond)

	f := frame.Frame{
		BaseCmd: &api.BaseCommand{
			Type: api.BaseCommand_SEND_ERROR.Enum(),
			SendError: &api.CommandSendError{
				ProducerId: proto.Uint64(123),
				SequenceId: proto.Uint64(0),
				Error:      api.ServerError_ChecksumError.Enum(),
			},
		},
	}
	if err := dispatcher.NotifyProdSeqIDs(123, 0, f); err != nil {
		t.Fatal(err)
	}

	time.Sleep(100 * time.Millisecond)
	if got, expected := len(ms.Frames), 2; got != expected {
		t.Fatalf("got %d frame(s) on the wire; expected a resend bringing the total to %d", got, expected)
	}

	if err := dispatcher.NotifyProdSeqIDs(123, 0, sendReceipt(123, 0, 1, 1)); err != nil {
		t.Fatal(err)
	}
	if r := <-resp; r.Err != nil {
		t.Fatalf("got err %v after resend succeeded; nil expected", r.Err)
	}
}

func TestProducer_TopicTerminated_FailsPending(t *testing.T) {
	p, _, dispatcher := newTestProducer(Config{})
	defer close(p.stopc)

	resp := p.SendAsync(context.Background(), OutgoingMessage{Payload: []byte("x")})
	time.Sleep(50 * time.Millisecond)

	f := frame.Frame{
		BaseCmd: &api.BaseCommand{
			Type: api.BaseCommand_SEND_ERROR.Enum(),
			SendError: &api.CommandSendError{
				ProducerId: proto.Uint64(123),
				SequenceId: proto.Uint64(0),
				Error:      api.ServerError_TopicTerminatedError.Enum(),
			},
		},
	}
	if err := dispatcher.NotifyProdSeqIDs(123, 0, f); err != nil {
		t.Fatal(err)
	}

	if r := <-resp; r.Err != ErrTopicTerminated {
		t.Fatalf("got err %v; expected ErrTopicTerminated", r.Err)
	}

	r2 := p.SendAsync(context.Background(), OutgoingMessage{Payload: []byte("y")})
	if r := <-r2; r.Err != ErrTopicTerminated {
		t.Fatalf("got err %v on a send after termination; expected ErrTopicTerminated", r.Err)
	}
}

func TestProducer_SendTimeout(t *testing.T) {
	p, _, _ := newTestProducer(Config{SendTimeout: 40 * time.Millisecond})
	defer close(p.stopc)

	resp := p.SendAsync(context.Background(), OutgoingMessage{Payload: []byte("x")})

	select {
	case r := <-resp:
		if r.Err != ErrSendTimeout {
			t.Fatalf("got err %v; expected ErrSendTimeout", r.Err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected the send timeout tick to fail the pending message")
	}
}

func TestProducer_Reconnect_ResendsPendingInOrder(t *testing.T) {
	p, ms, dispatcher := newTestProducer(Config{})
	defer close(p.stopc)

	r1 := p.SendAsync(context.Background(), OutgoingMessage{Payload: []byte("uno")})
	time.Sleep(30 * time.Millisecond)
	r2 := p.SendAsync(context.Background(), OutgoingMessage{Payload: []byte("dos")})
	time.Sleep(30 * time.Millisecond)

	if got, expected := len(ms.Frames), 2; got != expected {
		t.Fatalf("got %d frame(s) before reconnect; expected %d", got, expected)
	}

	var ms2 frame.MockSender
	p.Reconnect(&ms2)
	time.Sleep(50 * time.Millisecond)

	if got, expected := len(ms2.Frames), 2; got != expected {
		t.Fatalf("got %d resent frame(s); expected %d", got, expected)
	}
	if got, expected := ms2.Frames[0].BaseCmd.GetSend().GetSequenceId(), uint64(0); got != expected {
		t.Fatalf("got first resent sequence id %d; expected %d", got, expected)
	}
	if got, expected := ms2.Frames[1].BaseCmd.GetSend().GetSequenceId(), uint64(1); got != expected {
		t.Fatalf("got second resent sequence id %d; expected %d", got, expected)
	}

	if err := dispatcher.NotifyProdSeqIDs(123, 0, sendReceipt(123, 0, 1, 1)); err != nil {
		t.Fatal(err)
	}
	if err := dispatcher.NotifyProdSeqIDs(123, 1, sendReceipt(123, 1, 1, 2)); err != nil {
		t.Fatal(err)
	}
	if r := <-r1; r.Err != nil {
		t.Fatalf("r1 err = %v; nil expected", r.Err)
	}
	if r := <-r2; r.Err != nil {
		t.Fatalf("r2 err = %v; nil expected", r.Err)
	}
}

func TestProducer_Close_Success(t *testing.T) {
	p, ms, dispatcher := newTestProducer(Config{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	resp := make(chan error, 1)
	go func() { resp <- p.Close(ctx) }()

	time.Sleep(100 * time.Millisecond)

	select {
	case <-p.Closed():
		t.Fatalf("Closed() unblocked; expected to be blocked before receiving Close() response")
	default:
	}

	var lastReqID uint64
	for _, fr := range ms.Frames {
		if fr.BaseCmd.GetType() == api.BaseCommand_CLOSE_PRODUCER {
			lastReqID = fr.BaseCmd.GetCloseProducer().GetRequestId()
		}
	}

	f := frame.Frame{
		BaseCmd: &api.BaseCommand{
			Type:    api.BaseCommand_SUCCESS.Enum(),
			Success: &api.CommandSuccess{RequestId: proto.Uint64(lastReqID)},
		},
	}
	if err := dispatcher.NotifyReqID(lastReqID, f); err != nil {
		t.Fatal(err)
	}

	if got := <-resp; got != nil {
		t.Fatalf("Close() err = %v; nil expected", got)
	}

	select {
	case <-p.Closed():
	default:
		t.Fatalf("Closed() blocked; expected to be unblocked after Close()")
	}
}

func TestProducer_handleCloseProducer(t *testing.T) {
	p, _, _ := newTestProducer(Config{})

	select {
	case <-p.Closed():
		t.Fatalf("Closed() unblocked; expected to be blocked before receiving handleCloseProducer()")
	default:
	}

	f := frame.Frame{
		BaseCmd: &api.BaseCommand{
			Type: api.BaseCommand_CLOSE_PRODUCER.Enum(),
			CloseProducer: &api.CommandCloseProducer{
				RequestId:  proto.Uint64(43),
				ProducerId: proto.Uint64(123),
			},
		},
	}
	if err := p.HandleCloseProducer(f); err != nil {
		t.Fatalf("handleCloseProducer() err = %v; expected nil", err)
	}

	select {
	case <-p.Closed():
	default:
		t.Fatalf("Closed() blocked; expected to be unblocked after handleCloseProducer()")
	}
}
