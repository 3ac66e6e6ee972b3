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

// Package manage provides the reconnect-aware handles applications hold:
// each wraps one engine (core/sub.Consumer or core/pub.Producer) and a
// connhandler.Handler whose grab function performs the whole
// lookup -> pool -> CONNECT -> handshake sequence, so engine recreation
// after a dropped connection and the backoff between attempts live in one
// place instead of per-wrapper retry loops.
package manage

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/pulsarcore/go-client/core/client"
	"github.com/pulsarcore/go-client/core/connhandler"
	"github.com/pulsarcore/go-client/core/frame"
	"github.com/pulsarcore/go-client/core/msg"
	"github.com/pulsarcore/go-client/core/sub"
	"github.com/pulsarcore/go-client/utils"
)

// SubscriptionMode selects which SUBSCRIBE sub-type a ManagedConsumer uses.
type SubscriptionMode int

const (
	// SubscriptionModeExclusive admits a single consumer on the
	// subscription; a second subscriber is rejected by the broker.
	SubscriptionModeExclusive SubscriptionMode = iota + 1
	// SubscriptionModeShard round-robins messages across every consumer on
	// the subscription; unacked messages from a dropped consumer are
	// rescheduled onto the survivors.
	SubscriptionModeShard
	// SubscriptionModeFailover delivers to the first consumer in sorted
	// order, promoting the next one when it disconnects.
	SubscriptionModeFailover
)

// ErrorInvalidSubMode is returned when a ConsumerConfig carries a
// SubscriptionMode outside the three defined values. It is fatal: no amount
// of reconnecting fixes a bad configuration.
var ErrorInvalidSubMode = errors.New("invalid subscription mode")

// ErrClosedManagedConsumer is returned by every ManagedConsumer method once
// Close has been called.
var ErrClosedManagedConsumer = errors.New("managed consumer is closed")

// ConsumerConfig is used to configure a ManagedConsumer.
type ConsumerConfig struct {
	client.ClientConfig

	Topic     string
	Name      string           // subscription name
	SubMode   SubscriptionMode
	Earliest  bool // if true, subscription cursor starts at the beginning
	QueueSize int  // messages buffered between engine and Receive callers

	NewConsumerTimeout    time.Duration // budget for one lookup+subscribe attempt
	InitialReconnectDelay time.Duration // first backoff step between attempts
	MaxReconnectDelay     time.Duration // backoff ceiling
}

// SetDefaults returns a modified config with appropriate zero values set to
// defaults.
func (m ConsumerConfig) SetDefaults() ConsumerConfig {
	if m.SubMode == 0 {
		m.SubMode = SubscriptionModeExclusive
	}
	if m.NewConsumerTimeout <= 0 {
		m.NewConsumerTimeout = 5 * time.Second
	}
	if m.InitialReconnectDelay <= 0 {
		m.InitialReconnectDelay = 1 * time.Second
	}
	if m.MaxReconnectDelay <= 0 {
		m.MaxReconnectDelay = 5 * time.Minute
	}
	if m.QueueSize <= 0 {
		m.QueueSize = 128
	}
	return m
}

// ManagedConsumer wraps a sub.Consumer with reconnect logic. The underlying
// consumer is recreated, via a fresh topic lookup and SUBSCRIBE handshake,
// whenever its connection drops or the broker closes it; callers blocked in
// Receive or Ack simply wait out the gap. All reconnect pacing is the
// connhandler.Handler's backoff.
type ManagedConsumer struct {
	clientPool *client.ClientPool
	cfg        ConsumerConfig
	asyncErrs  utils.AsyncErrors

	queue   chan msg.Message
	handler *connhandler.Handler

	mu       sync.RWMutex // protects following
	consumer *sub.Consumer
	waitc    chan struct{} // non-nil and open while consumer is nil

	stopc    chan struct{}
	stopOnce sync.Once
}

// NewManagedConsumer returns an initialized ManagedConsumer. A background
// goroutine establishes the first consumer and replaces it after every
// disconnect until Close is called.
func NewManagedConsumer(cp *client.ClientPool, cfg ConsumerConfig) *ManagedConsumer {
	cfg = cfg.SetDefaults()

	m := &ManagedConsumer{
		clientPool: cp,
		cfg:        cfg,
		asyncErrs:  utils.AsyncErrors(cfg.Errs),
		queue:      make(chan msg.Message, cfg.QueueSize),
		waitc:      make(chan struct{}),
		stopc:      make(chan struct{}),
	}

	m.handler = connhandler.New(connhandler.Config{
		InitialInterval: cfg.InitialReconnectDelay,
		MaxInterval:     cfg.MaxReconnectDelay,
	}, m.grabConsumer, isFatalSubscribeErr, nil)

	go m.manage()

	return m
}

// isFatalSubscribeErr stops the handler from retrying errors reconnecting
// cannot fix.
func isFatalSubscribeErr(err error) bool {
	return errors.Is(err, ErrorInvalidSubMode)
}

// grabConsumer is the handler's GrabConnFunc: one full
// lookup -> pool -> CONNECT -> SUBSCRIBE attempt. On success the new
// consumer is bound and anyone blocked in current is released.
func (m *ManagedConsumer) grabConsumer(ctx context.Context) (frame.CmdSender, error) {
	ctx, cancel := context.WithTimeout(ctx, m.cfg.NewConsumerTimeout)
	defer cancel()

	tc, err := m.clientPool.ForTopic(ctx, m.cfg.ClientConfig, m.cfg.Topic)
	if err != nil {
		return nil, err
	}
	cl, err := tc.Get(ctx)
	if err != nil {
		return nil, err
	}

	var consumer *sub.Consumer
	switch m.cfg.SubMode {
	case SubscriptionModeExclusive:
		consumer, err = cl.NewExclusiveConsumer(ctx, m.cfg.Topic, m.cfg.Name, m.cfg.Earliest, m.queue)
	case SubscriptionModeFailover:
		consumer, err = cl.NewFailoverConsumer(ctx, m.cfg.Topic, m.cfg.Name, m.cfg.Earliest, m.queue)
	case SubscriptionModeShard:
		consumer, err = cl.NewSharedConsumer(ctx, m.cfg.Topic, m.cfg.Name, m.cfg.Earliest, m.queue)
	default:
		return nil, ErrorInvalidSubMode
	}
	if err != nil {
		return nil, err
	}

	m.set(consumer)
	return cl.Conn(), nil
}

// manage drives the handler: connect, wait for the bound consumer to go
// away, mark the handler reconnecting, repeat. Each failed Connect call has
// already burned a full backoff budget internally, so looping on it does
// not spin.
func (m *ManagedConsumer) manage() {
	defer m.unset()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-m.stopc
		cancel()
	}()

	for {
		select {
		case <-m.stopc:
			return
		default:
		}

		if err := m.handler.Connect(ctx); err != nil {
			m.asyncErrs.Send(err)
			if isFatalSubscribeErr(err) || ctx.Err() != nil {
				return
			}
			continue
		}

		m.mu.RLock()
		consumer := m.consumer
		m.mu.RUnlock()

		select {
		case <-consumer.ReachedEndOfTopic():
			// nothing further will be delivered on this incarnation of the
			// topic; resubscribe so callers keep a live consumer in case it
			// is recreated
		case <-consumer.Closed():
		case <-consumer.ConnClosed():
		case <-m.stopc:
			return
		}

		m.unset()
		m.handler.ConnectionClosed()
	}
}

// set binds c and releases everyone blocked in current.
func (m *ManagedConsumer) set(c *sub.Consumer) {
	m.mu.Lock()
	m.consumer = c
	if m.waitc != nil {
		close(m.waitc)
		m.waitc = nil
	}
	m.mu.Unlock()
}

// unset clears the bound consumer and arms the wait channel current blocks
// on.
func (m *ManagedConsumer) unset() {
	m.mu.Lock()
	if m.waitc == nil {
		m.waitc = make(chan struct{})
	}
	m.consumer = nil
	m.mu.Unlock()
}

// current returns the bound consumer, blocking through any reconnect gap
// until one is available, ctx is done, or the wrapper is closed.
func (m *ManagedConsumer) current(ctx context.Context) (*sub.Consumer, error) {
	for {
		m.mu.RLock()
		consumer, wait := m.consumer, m.waitc
		m.mu.RUnlock()

		if consumer != nil {
			return consumer, nil
		}

		select {
		case <-wait:
		case <-m.stopc:
			return nil, ErrClosedManagedConsumer
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Receive returns the next message, waiting across reconnects if the
// consumer is mid-reestablishment.
func (m *ManagedConsumer) Receive(ctx context.Context) (msg.Message, error) {
	for {
		consumer, err := m.current(ctx)
		if err != nil {
			return msg.Message{}, err
		}

		select {
		case mm := <-m.queue:
			return mm, nil
		case <-ctx.Done():
			return msg.Message{}, ctx.Err()
		case <-m.stopc:
			return msg.Message{}, ErrClosedManagedConsumer
		case <-consumer.Closed():
		case <-consumer.ConnClosed():
		}
		// the consumer went away mid-wait; loop to block until manage has
		// bound its replacement
	}
}

// ReceiveAsync pumps messages into msgs until ctx is done or the wrapper is
// closed. Flow-permit replenishment happens inside the engine, so this is a
// plain transfer loop.
func (m *ManagedConsumer) ReceiveAsync(ctx context.Context, msgs chan<- msg.Message) error {
	for {
		select {
		case mm := <-m.queue:
			select {
			case msgs <- mm:
			case <-ctx.Done():
				return ctx.Err()
			case <-m.stopc:
				return ErrClosedManagedConsumer
			}
		case <-ctx.Done():
			return ctx.Err()
		case <-m.stopc:
			return ErrClosedManagedConsumer
		}
	}
}

// ConsumerID returns the client-assigned id of the currently bound
// consumer. The id changes across reconnects.
func (m *ManagedConsumer) ConsumerID(ctx context.Context) (uint64, error) {
	consumer, err := m.current(ctx)
	if err != nil {
		return 0, err
	}
	return consumer.ConsumerID, nil
}

// Ack acknowledges msg on the current consumer.
func (m *ManagedConsumer) Ack(ctx context.Context, mm msg.Message) error {
	consumer, err := m.current(ctx)
	if err != nil {
		return err
	}
	return consumer.Ack(mm)
}

// AckCumulative acknowledges mm and everything before it on the
// subscription.
func (m *ManagedConsumer) AckCumulative(ctx context.Context, mm msg.Message) error {
	consumer, err := m.current(ctx)
	if err != nil {
		return err
	}
	return consumer.AckCumulative(mm)
}

// Nack defers redelivery of mm by the consumer's negative-ack delay.
func (m *ManagedConsumer) Nack(ctx context.Context, mm msg.Message) error {
	consumer, err := m.current(ctx)
	if err != nil {
		return err
	}
	consumer.Nack(mm)
	return nil
}

// RedeliverUnacknowledged asks the broker to redeliver everything unacked
// on the subscription.
func (m *ManagedConsumer) RedeliverUnacknowledged(ctx context.Context) error {
	consumer, err := m.current(ctx)
	if err != nil {
		return err
	}
	return consumer.RedeliverUnacknowledged(ctx)
}

// RedeliverOverflow requests redelivery of messages dropped because the
// receive queue was full, returning how many were dropped.
func (m *ManagedConsumer) RedeliverOverflow(ctx context.Context) (int, error) {
	consumer, err := m.current(ctx)
	if err != nil {
		return 0, err
	}
	return consumer.RedeliverOverflow(ctx)
}

// Seek repositions the subscription's cursor to id.
func (m *ManagedConsumer) Seek(ctx context.Context, id msg.MessageID) error {
	consumer, err := m.current(ctx)
	if err != nil {
		return err
	}
	return consumer.Seek(ctx, id)
}

// SeekByTime repositions the subscription's cursor to the first message
// published at or after t.
func (m *ManagedConsumer) SeekByTime(ctx context.Context, t time.Time) error {
	consumer, err := m.current(ctx)
	if err != nil {
		return err
	}
	return consumer.SeekByTime(ctx, t)
}

// HasMessageAvailable reports whether anything beyond the subscription's
// cursor remains to be read.
func (m *ManagedConsumer) HasMessageAvailable(ctx context.Context) (bool, error) {
	consumer, err := m.current(ctx)
	if err != nil {
		return false, err
	}
	return consumer.HasMessageAvailable(ctx)
}

// Unsubscribe deletes the subscription from the broker and stops the
// reconnect loop; the wrapper is unusable afterwards.
func (m *ManagedConsumer) Unsubscribe(ctx context.Context) error {
	consumer, err := m.current(ctx)
	if err != nil {
		return err
	}
	m.stopOnce.Do(func() { close(m.stopc) })
	return consumer.Unsubscribe(ctx)
}

// Close stops the reconnect loop and closes the current consumer, if one is
// bound.
func (m *ManagedConsumer) Close(ctx context.Context) error {
	m.stopOnce.Do(func() { close(m.stopc) })

	m.mu.RLock()
	consumer := m.consumer
	m.mu.RUnlock()

	if consumer == nil {
		return nil
	}
	return consumer.Close(ctx)
}
