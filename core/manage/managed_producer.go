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
	"github.com/pulsarcore/go-client/core/pub"
	"github.com/pulsarcore/go-client/utils"
)

// ErrClosedManagedProducer is returned by every ManagedProducer method once
// Close has been called.
var ErrClosedManagedProducer = errors.New("managed producer is closed")

// ProducerConfig is used to configure a ManagedProducer.
type ProducerConfig struct {
	client.ClientConfig
	pub.Config

	Topic string

	NewProducerTimeout    time.Duration // budget for one lookup+handshake attempt
	InitialReconnectDelay time.Duration // first backoff step between attempts
	MaxReconnectDelay     time.Duration // backoff ceiling
}

// SetDefaults returns a modified config with appropriate zero values set to
// defaults.
func (m ProducerConfig) SetDefaults() ProducerConfig {
	if m.NewProducerTimeout <= 0 {
		m.NewProducerTimeout = 5 * time.Second
	}
	if m.InitialReconnectDelay <= 0 {
		m.InitialReconnectDelay = 1 * time.Second
	}
	if m.MaxReconnectDelay <= 0 {
		m.MaxReconnectDelay = 5 * time.Minute
	}
	return m
}

// ManagedProducer wraps a pub.Producer with reconnect logic. A dropped
// connection triggers a fresh topic lookup and PRODUCER handshake (with a
// new client-assigned producer id); sends blocked on the old producer's
// replies observe their failure through its own timeout/termination paths
// rather than being transplanted. Reconnect pacing is the
// connhandler.Handler's backoff, the same mechanism the ManagedConsumer
// uses.
type ManagedProducer struct {
	clientPool *client.ClientPool
	cfg        ProducerConfig
	asyncErrs  utils.AsyncErrors

	handler *connhandler.Handler

	mu       sync.RWMutex // protects following
	producer *pub.Producer
	waitc    chan struct{} // non-nil and open while producer is nil

	stopc    chan struct{}
	stopOnce sync.Once
}

// NewManagedProducer returns an initialized ManagedProducer. A background
// goroutine establishes the first producer and replaces it after every
// disconnect until Close is called.
func NewManagedProducer(cp *client.ClientPool, cfg ProducerConfig) *ManagedProducer {
	cfg = cfg.SetDefaults()

	m := &ManagedProducer{
		clientPool: cp,
		cfg:        cfg,
		asyncErrs:  utils.AsyncErrors(cfg.Errs),
		waitc:      make(chan struct{}),
		stopc:      make(chan struct{}),
	}

	m.handler = connhandler.New(connhandler.Config{
		InitialInterval: cfg.InitialReconnectDelay,
		MaxInterval:     cfg.MaxReconnectDelay,
	}, m.grabProducer, nil, nil)

	go m.manage()

	return m
}

// grabProducer is the handler's GrabConnFunc: one full
// lookup -> pool -> CONNECT -> PRODUCER attempt. On success the new
// producer is bound and anyone blocked in current is released.
func (m *ManagedProducer) grabProducer(ctx context.Context) (frame.CmdSender, error) {
	ctx, cancel := context.WithTimeout(ctx, m.cfg.NewProducerTimeout)
	defer cancel()

	tc, err := m.clientPool.ForTopic(ctx, m.cfg.ClientConfig, m.cfg.Topic)
	if err != nil {
		return nil, err
	}
	cl, err := tc.Get(ctx)
	if err != nil {
		return nil, err
	}

	producer, err := cl.NewProducer(ctx, m.cfg.Topic, m.cfg.Config)
	if err != nil {
		return nil, err
	}

	m.set(producer)
	return cl.Conn(), nil
}

// manage drives the handler: connect, wait for the bound producer to go
// away, mark the handler reconnecting, repeat.
func (m *ManagedProducer) manage() {
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
			if ctx.Err() != nil {
				return
			}
			continue
		}

		m.mu.RLock()
		producer := m.producer
		m.mu.RUnlock()

		select {
		case <-producer.Closed():
		case <-producer.ConnClosed():
		case <-m.stopc:
			return
		}

		m.unset()
		m.handler.ConnectionClosed()
	}
}

// set binds p and releases everyone blocked in current.
func (m *ManagedProducer) set(p *pub.Producer) {
	m.mu.Lock()
	m.producer = p
	if m.waitc != nil {
		close(m.waitc)
		m.waitc = nil
	}
	m.mu.Unlock()
}

// unset clears the bound producer and arms the wait channel current blocks
// on.
func (m *ManagedProducer) unset() {
	m.mu.Lock()
	if m.waitc == nil {
		m.waitc = make(chan struct{})
	}
	m.producer = nil
	m.mu.Unlock()
}

// current returns the bound producer, blocking through any reconnect gap
// until one is available, ctx is done, or the wrapper is closed.
func (m *ManagedProducer) current(ctx context.Context) (*pub.Producer, error) {
	for {
		m.mu.RLock()
		producer, wait := m.producer, m.waitc
		m.mu.RUnlock()

		if producer != nil {
			return producer, nil
		}

		select {
		case <-wait:
		case <-m.stopc:
			return nil, ErrClosedManagedProducer
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// SendAsync enqueues om on the current producer, waiting for a reconnect if
// one is in progress.
func (m *ManagedProducer) SendAsync(ctx context.Context, om pub.OutgoingMessage) <-chan pub.Result {
	producer, err := m.current(ctx)
	if err != nil {
		resultc := make(chan pub.Result, 1)
		resultc <- pub.Result{Err: err}
		return resultc
	}
	return producer.SendAsync(ctx, om)
}

// Send enqueues om and blocks until it is acknowledged, fails, or ctx is
// done.
func (m *ManagedProducer) Send(ctx context.Context, om pub.OutgoingMessage) (msg.MessageID, error) {
	producer, err := m.current(ctx)
	if err != nil {
		return msg.MessageID{}, err
	}
	return producer.Send(ctx, om)
}

// SendForgetAsync enqueues om without waiting for the broker's receipt.
func (m *ManagedProducer) SendForgetAsync(ctx context.Context, om pub.OutgoingMessage) error {
	producer, err := m.current(ctx)
	if err != nil {
		return err
	}
	return producer.SendForgetAsync(ctx, om)
}

// Producer returns the currently bound Producer, or nil while one is being
// reestablished.
func (m *ManagedProducer) Producer() *pub.Producer {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.producer
}

// Close stops the reconnect loop and closes the current producer, if one is
// bound.
func (m *ManagedProducer) Close(ctx context.Context) error {
	m.stopOnce.Do(func() { close(m.stopc) })

	m.mu.RLock()
	producer := m.producer
	m.mu.RUnlock()

	if producer == nil {
		return nil
	}
	return producer.Close(ctx)
}
