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
	"time"

	"github.com/pulsarcore/go-client/core/frame"
	"github.com/pulsarcore/go-client/core/msg"
	"github.com/pulsarcore/go-client/utils"
)

// Reader is a non-durable, cursor-driven view onto a topic: unlike a
// Consumer's named subscription, a Reader leaves no broker-side state once
// closed, and starts exactly at the message id the caller supplies rather
// than at Earliest/Latest. It is a thin wrapper around a Consumer configured
// with NonDurable, Exclusive sub-type and a generated throwaway subscription
// name, matching how pulsar-client-go's reader is built on top of its
// partition consumer.
type Reader struct {
	c   *Consumer
	out chan msg.Message
}

// NewReader subscribes non-durably at startID (after it, or at it when
// inclusive is true) and returns a Reader wrapping the resulting Consumer.
// Incoming MESSAGE/CLOSE_CONSUMER/REACHED_END_OF_TOPIC frames must still be
// routed to Reader.Consumer().HandlePush by the caller's conn.Router, the
// same as for any other Consumer.
func NewReader(ctx context.Context, s frame.CmdSender, dispatcher *frame.Dispatcher, reqID *msg.MonotonicID, consumerID uint64, cfg Config, startID msg.MessageID, inclusive bool, out chan msg.Message) (*Reader, error) {
	cfg.Subscription = utils.GenerateName("reader")
	cfg.SubType = 0 // api.CommandSubscribe_Exclusive == 0
	cfg.NonDurable = true
	id := startID
	cfg.StartMessageID = &id
	cfg.StartInclusive = inclusive

	c, err := NewConsumer(ctx, s, dispatcher, reqID, consumerID, cfg, out)
	if err != nil {
		return nil, err
	}
	return &Reader{c: c, out: out}, nil
}

// Consumer returns the underlying Consumer, for wiring into a conn.Router
// via AddConsumer and for access to Close/Seek/HasMessageAvailable.
func (r *Reader) Consumer() *Consumer { return r.c }

// Next blocks for the next message delivered to the reader, or returns
// ctx.Err() if ctx is done first.
func (r *Reader) Next(ctx context.Context) (msg.Message, error) {
	select {
	case <-ctx.Done():
		return msg.Message{}, ctx.Err()
	case m := <-r.out:
		return m, nil
	}
}

// HasMessageAvailable reports whether any message beyond the reader's
// current position remains unread.
func (r *Reader) HasMessageAvailable(ctx context.Context) (bool, error) {
	return r.c.HasMessageAvailable(ctx)
}

// Seek repositions the reader at id.
func (r *Reader) Seek(ctx context.Context, id msg.MessageID) error {
	return r.c.Seek(ctx, id)
}

// SeekByTime repositions the reader at the first message published at or
// after t.
func (r *Reader) SeekByTime(ctx context.Context, t time.Time) error {
	return r.c.SeekByTime(ctx, t)
}

// Close tears down the reader's underlying consumer.
func (r *Reader) Close(ctx context.Context) error {
	return r.c.Close(ctx)
}
