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

// Package lookup implements topic-to-broker resolution: partitioned topic
// metadata, broker lookup with redirect-following, and topics-under-namespace
// enumeration, each retried with a bounded backoff.
//
// Grounded in godchen0212-pulsar-client-go's
// `pc.client.lookupService.Lookup(topic)` call shape.
package lookup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/golang/protobuf/proto"
	"github.com/pulsarcore/go-client/core/frame"
	"github.com/pulsarcore/go-client/core/msg"
	"github.com/pulsarcore/go-client/pkg/api"
)

// ErrTimeout is returned when the retry budget is exhausted without a
// successful response.
var ErrTimeout = errors.New("lookup: timed out")

// maxRedirects bounds how many LOOKUP_RESPONSE redirects are followed before
// giving up.
const maxRedirects = 20

// Broker is the resolved (logical, physical) broker address pair. Physical
// differs from logical when the broker is reached through a proxy.
type Broker struct {
	LogicalAddr  string
	PhysicalAddr string
	Proxied      bool
}

// Service resolves topics to brokers and partition counts against a single
// connection (usually to the client's initial ServiceUrl).
type Service struct {
	s          frame.CmdSender
	dispatcher *frame.Dispatcher
	reqID      *msg.MonotonicID

	retryInitial time.Duration
	retryMax     time.Duration
	retryBudget  time.Duration
}

// NewService returns a ready-to-use lookup service.
func NewService(s frame.CmdSender, dispatcher *frame.Dispatcher, reqID *msg.MonotonicID) *Service {
	return &Service{
		s:            s,
		dispatcher:   dispatcher,
		reqID:        reqID,
		retryInitial: 100 * time.Millisecond,
		retryMax:     10 * time.Second,
		retryBudget:  1 * time.Minute,
	}
}

func (s *Service) newBackoff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.retryInitial
	b.MaxInterval = s.retryMax
	b.MaxElapsedTime = s.retryBudget
	return backoff.WithContext(b, ctx)
}

// GetPartitionedTopicMetadata returns the number of partitions for topic (0
// for a non-partitioned topic).
func (s *Service) GetPartitionedTopicMetadata(ctx context.Context, topic string) (uint32, error) {
	var partitions uint32

	op := func() error {
		requestID := s.reqID.Next()
		resp, cancel, err := s.dispatcher.RegisterReqID(*requestID)
		if err != nil {
			return backoff.Permanent(err)
		}
		defer cancel()

		cmd := api.BaseCommand{
			Type: api.BaseCommand_PARTITIONED_METADATA.Enum(),
			PartitionMetadata: &api.CommandPartitionedTopicMetadata{
				Topic:     proto.String(topic),
				RequestId: requestID,
			},
		}
		if err := s.s.SendSimpleCmd(cmd); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return backoff.Permanent(ctx.Err())
		case f := <-resp:
			r := f.BaseCmd.GetPartitionMetadataResponse()
			if r == nil {
				return backoff.Permanent(fmt.Errorf("lookup: unexpected response type %s", f.BaseCmd.GetType()))
			}
			if r.Error != nil {
				if !retriableServerError(r.GetError()) {
					return backoff.Permanent(fmt.Errorf("%s: %s", r.GetError().String(), r.GetMessage()))
				}
				return fmt.Errorf("%s: %s", r.GetError().String(), r.GetMessage())
			}
			partitions = r.GetPartitions()
			return nil
		}
	}

	if err := backoff.Retry(op, s.newBackoff(ctx)); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrTimeout, err)
	}

	return partitions, nil
}

// GetBroker resolves topic to a broker address, following redirects up to
// maxRedirects hops.
func (s *Service) GetBroker(ctx context.Context, topic string) (Broker, error) {
	var result Broker

	op := func() error {
		authoritative := false

		for hop := 0; hop < maxRedirects; hop++ {
			requestID := s.reqID.Next()
			resp, cancel, err := s.dispatcher.RegisterReqID(*requestID)
			if err != nil {
				cancel()
				return backoff.Permanent(err)
			}

			cmd := api.BaseCommand{
				Type: api.BaseCommand_LOOKUP.Enum(),
				LookupTopic: &api.CommandLookupTopic{
					Topic:         proto.String(topic),
					RequestId:     requestID,
					Authoritative: proto.Bool(authoritative),
				},
			}
			if err := s.s.SendSimpleCmd(cmd); err != nil {
				cancel()
				return err
			}

			select {
			case <-ctx.Done():
				cancel()
				return backoff.Permanent(ctx.Err())
			case f := <-resp:
				cancel()
				r := f.BaseCmd.GetLookupTopicResponse()
				if r == nil {
					return backoff.Permanent(fmt.Errorf("lookup: unexpected response type %s", f.BaseCmd.GetType()))
				}

				switch r.GetResponse() {
				case api.CommandLookupTopicResponse_Failed:
					if !retriableServerError(r.GetError()) {
						return backoff.Permanent(fmt.Errorf("%s: %s", r.GetError().String(), r.GetMessage()))
					}
					return fmt.Errorf("%s: %s", r.GetError().String(), r.GetMessage())

				case api.CommandLookupTopicResponse_Connect:
					result = Broker{
						LogicalAddr:  r.GetBrokerServiceUrl(),
						PhysicalAddr: r.GetBrokerServiceUrl(),
						Proxied:      r.GetProxyThroughServiceUrl(),
					}
					return nil

				case api.CommandLookupTopicResponse_Redirect:
					// Re-issue the lookup for the same topic, carrying the
					// broker's authoritative flag into the next hop.
					authoritative = r.GetAuthoritative()
					continue
				}
			}
		}

		return backoff.Permanent(fmt.Errorf("lookup: exceeded %d redirects", maxRedirects))
	}

	if err := backoff.Retry(op, s.newBackoff(ctx)); err != nil {
		return Broker{}, fmt.Errorf("%w: %v", ErrTimeout, err)
	}

	return result, nil
}

// GetTopicsUnderNamespace lists topics in ns matching mode.
func (s *Service) GetTopicsUnderNamespace(ctx context.Context, ns string, mode api.CommandGetTopicsOfNamespace_Mode) ([]string, error) {
	var topics []string

	op := func() error {
		requestID := s.reqID.Next()
		resp, cancel, err := s.dispatcher.RegisterReqID(*requestID)
		if err != nil {
			return backoff.Permanent(err)
		}
		defer cancel()

		cmd := api.BaseCommand{
			Type: api.BaseCommand_GET_TOPICS_OF_NAMESPACE.Enum(),
			GetTopicsOfNamespace: &api.CommandGetTopicsOfNamespace{
				RequestId: requestID,
				Namespace: proto.String(ns),
				Mode:      mode.Enum(),
			},
		}
		if err := s.s.SendSimpleCmd(cmd); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return backoff.Permanent(ctx.Err())
		case f := <-resp:
			r := f.BaseCmd.GetGetTopicsOfNamespaceResponse()
			if r == nil {
				return backoff.Permanent(fmt.Errorf("lookup: unexpected response type %s", f.BaseCmd.GetType()))
			}
			topics = r.GetTopics()
			return nil
		}
	}

	if err := backoff.Retry(op, s.newBackoff(ctx)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTimeout, err)
	}

	return topics, nil
}

// retriableServerError reports whether a ServerError warrants another
// lookup attempt rather than surfacing immediately.
func retriableServerError(e api.ServerError) bool {
	switch e {
	case api.ServerError_ServiceNotReady, api.ServerError_TooManyRequests:
		return true
	default:
		return false
	}
}
