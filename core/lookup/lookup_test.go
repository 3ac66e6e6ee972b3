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

package lookup

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/protobuf/proto"
	"github.com/pulsarcore/go-client/core/frame"
	"github.com/pulsarcore/go-client/core/msg"
	"github.com/pulsarcore/go-client/pkg/api"
)

const testTopic = "persistent://tenant/ns/topic"

func newTestService() (*Service, *frame.MockSender, *frame.Dispatcher) {
	var ms frame.MockSender
	dispatcher := frame.NewFrameDispatcher()
	reqID := &msg.MonotonicID{ID: 10}
	s := NewService(&ms, dispatcher, reqID)
	return s, &ms, dispatcher
}

func TestService_GetPartitionedTopicMetadata(t *testing.T) {
	s, ms, dispatcher := newTestService()

	type result struct {
		partitions uint32
		err        error
	}
	resultc := make(chan result, 1)
	go func() {
		p, err := s.GetPartitionedTopicMetadata(context.Background(), testTopic)
		resultc <- result{p, err}
	}()

	time.Sleep(100 * time.Millisecond)

	if got := len(ms.Frames); got != 1 {
		t.Fatalf("got %d frames; expected 1 PARTITIONED_METADATA", got)
	}
	sent := ms.Frames[0].BaseCmd.GetPartitionMetadata()
	if sent.GetTopic() != testTopic {
		t.Fatalf("got topic %q; expected %q", sent.GetTopic(), testTopic)
	}

	f := frame.Frame{
		BaseCmd: &api.BaseCommand{
			Type: api.BaseCommand_PARTITIONED_METADATA_RESPONSE.Enum(),
			PartitionMetadataResponse: &api.CommandPartitionedTopicMetadataResponse{
				RequestId:  sent.RequestId,
				Partitions: proto.Uint32(4),
			},
		},
	}
	if err := dispatcher.NotifyReqID(sent.GetRequestId(), f); err != nil {
		t.Fatal(err)
	}

	r := <-resultc
	if r.err != nil {
		t.Fatalf("GetPartitionedTopicMetadata() err = %v; nil expected", r.err)
	}
	if r.partitions != 4 {
		t.Fatalf("got %d partitions; expected 4", r.partitions)
	}
}

func TestService_GetBroker_Connect(t *testing.T) {
	s, ms, dispatcher := newTestService()

	type result struct {
		broker Broker
		err    error
	}
	resultc := make(chan result, 1)
	go func() {
		b, err := s.GetBroker(context.Background(), testTopic)
		resultc <- result{b, err}
	}()

	time.Sleep(100 * time.Millisecond)

	sent := ms.Frames[0].BaseCmd.GetLookupTopic()
	f := frame.Frame{
		BaseCmd: &api.BaseCommand{
			Type: api.BaseCommand_LOOKUP_RESPONSE.Enum(),
			LookupTopicResponse: &api.CommandLookupTopicResponse{
				RequestId:        sent.RequestId,
				Response:         api.CommandLookupTopicResponse_Connect.Enum(),
				BrokerServiceUrl: proto.String("pulsar://broker-1:6650"),
			},
		},
	}
	if err := dispatcher.NotifyReqID(sent.GetRequestId(), f); err != nil {
		t.Fatal(err)
	}

	r := <-resultc
	if r.err != nil {
		t.Fatalf("GetBroker() err = %v; nil expected", r.err)
	}
	if r.broker.PhysicalAddr != "pulsar://broker-1:6650" {
		t.Fatalf("got physical addr %q; expected pulsar://broker-1:6650", r.broker.PhysicalAddr)
	}
	if r.broker.Proxied {
		t.Fatal("expected a direct (non-proxied) broker")
	}
}

func TestService_GetBroker_FollowsRedirect(t *testing.T) {
	s, ms, dispatcher := newTestService()

	type result struct {
		broker Broker
		err    error
	}
	resultc := make(chan result, 1)
	go func() {
		b, err := s.GetBroker(context.Background(), testTopic)
		resultc <- result{b, err}
	}()

	time.Sleep(100 * time.Millisecond)

	first := ms.Frames[0].BaseCmd.GetLookupTopic()
	if first.GetAuthoritative() {
		t.Fatal("expected the first hop to be non-authoritative")
	}

	redirect := frame.Frame{
		BaseCmd: &api.BaseCommand{
			Type: api.BaseCommand_LOOKUP_RESPONSE.Enum(),
			LookupTopicResponse: &api.CommandLookupTopicResponse{
				RequestId:        first.RequestId,
				Response:         api.CommandLookupTopicResponse_Redirect.Enum(),
				BrokerServiceUrl: proto.String("pulsar://broker-2:6650"),
				Authoritative:    proto.Bool(true),
			},
		},
	}
	if err := dispatcher.NotifyReqID(first.GetRequestId(), redirect); err != nil {
		t.Fatal(err)
	}

	time.Sleep(100 * time.Millisecond)

	if got := len(ms.Frames); got != 2 {
		t.Fatalf("got %d frames; expected a second LOOKUP after the redirect", got)
	}
	second := ms.Frames[1].BaseCmd.GetLookupTopic()
	if second.GetTopic() != testTopic {
		t.Fatalf("second hop looked up %q; expected the original topic %q", second.GetTopic(), testTopic)
	}
	if !second.GetAuthoritative() {
		t.Fatal("expected the redirect's authoritative flag to carry into the second hop")
	}

	connect := frame.Frame{
		BaseCmd: &api.BaseCommand{
			Type: api.BaseCommand_LOOKUP_RESPONSE.Enum(),
			LookupTopicResponse: &api.CommandLookupTopicResponse{
				RequestId:        second.RequestId,
				Response:         api.CommandLookupTopicResponse_Connect.Enum(),
				BrokerServiceUrl: proto.String("pulsar://broker-2:6650"),
			},
		},
	}
	if err := dispatcher.NotifyReqID(second.GetRequestId(), connect); err != nil {
		t.Fatal(err)
	}

	r := <-resultc
	if r.err != nil {
		t.Fatalf("GetBroker() err = %v; nil expected", r.err)
	}
	if r.broker.PhysicalAddr != "pulsar://broker-2:6650" {
		t.Fatalf("got physical addr %q; expected the redirect target", r.broker.PhysicalAddr)
	}
}

func TestService_GetBroker_NonRetriableFailure(t *testing.T) {
	s, ms, dispatcher := newTestService()

	resultc := make(chan error, 1)
	go func() {
		_, err := s.GetBroker(context.Background(), testTopic)
		resultc <- err
	}()

	time.Sleep(100 * time.Millisecond)

	sent := ms.Frames[0].BaseCmd.GetLookupTopic()
	f := frame.Frame{
		BaseCmd: &api.BaseCommand{
			Type: api.BaseCommand_LOOKUP_RESPONSE.Enum(),
			LookupTopicResponse: &api.CommandLookupTopicResponse{
				RequestId: sent.RequestId,
				Response:  api.CommandLookupTopicResponse_Failed.Enum(),
				Error:     api.ServerError_AuthorizationError.Enum(),
				Message:   proto.String("not allowed"),
			},
		},
	}
	if err := dispatcher.NotifyReqID(sent.GetRequestId(), f); err != nil {
		t.Fatal(err)
	}

	if err := <-resultc; err == nil {
		t.Fatal("GetBroker() err = nil; expected an authorization failure to surface")
	}

	// no retry for a non-retriable server error
	if got := len(ms.Frames); got != 1 {
		t.Fatalf("got %d frames; expected no retry after AuthorizationError", got)
	}
}

func TestService_GetTopicsUnderNamespace(t *testing.T) {
	s, ms, dispatcher := newTestService()

	type result struct {
		topics []string
		err    error
	}
	resultc := make(chan result, 1)
	go func() {
		topics, err := s.GetTopicsUnderNamespace(context.Background(), "tenant/ns", api.CommandGetTopicsOfNamespace_PERSISTENT)
		resultc <- result{topics, err}
	}()

	time.Sleep(100 * time.Millisecond)

	sent := ms.Frames[0].BaseCmd.GetGetTopicsOfNamespace()
	if sent.GetNamespace() != "tenant/ns" {
		t.Fatalf("got namespace %q; expected tenant/ns", sent.GetNamespace())
	}

	f := frame.Frame{
		BaseCmd: &api.BaseCommand{
			Type: api.BaseCommand_GET_TOPICS_OF_NAMESPACE_RESPONSE.Enum(),
			GetTopicsOfNamespaceResponse: &api.CommandGetTopicsOfNamespaceResponse{
				RequestId: sent.RequestId,
				Topics:    []string{testTopic, testTopic + "-2"},
			},
		},
	}
	if err := dispatcher.NotifyReqID(sent.GetRequestId(), f); err != nil {
		t.Fatal(err)
	}

	r := <-resultc
	if r.err != nil {
		t.Fatalf("GetTopicsUnderNamespace() err = %v; nil expected", r.err)
	}
	if len(r.topics) != 2 {
		t.Fatalf("got %d topics; expected 2", len(r.topics))
	}
}

func TestService_RetryBudgetExhaustedIsTimeout(t *testing.T) {
	s, _, _ := newTestService()
	s.retryInitial = time.Millisecond
	s.retryMax = 2 * time.Millisecond
	s.retryBudget = 10 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	// no response is ever delivered; every attempt times out on ctx
	_, err := s.GetPartitionedTopicMetadata(ctx, testTopic)
	if err == nil {
		t.Fatal("GetPartitionedTopicMetadata() err = nil; expected a timeout")
	}
	if !errors.Is(err, ErrTimeout) && !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("got err %v; expected ErrTimeout or deadline exceeded", err)
	}
}
