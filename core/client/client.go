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

// Package client ties topic lookup, connection pooling and the producer and
// consumer engines together into what core/manage's ManagedProducer and
// ManagedConsumer actually call on each (re)connect: ClientPool.ForTopic
// resolves a topic to its owning broker, and the returned Client performs
// the PRODUCER or SUBSCRIBE handshake that brings a core/pub.Producer or
// core/sub.Consumer to life on that connection.
package client

import (
	"context"
	"crypto/tls"
	"fmt"
	"sync"
	"time"

	"github.com/golang/protobuf/proto"
	"github.com/pulsarcore/go-client/core/conn"
	"github.com/pulsarcore/go-client/core/frame"
	"github.com/pulsarcore/go-client/core/lookup"
	"github.com/pulsarcore/go-client/core/msg"
	"github.com/pulsarcore/go-client/core/pub"
	"github.com/pulsarcore/go-client/core/sub"
	"github.com/pulsarcore/go-client/pkg/api"
	"github.com/pulsarcore/go-client/utils"
)

// ClientConfig holds the connection parameters shared by every producer or
// consumer a client builds against one Pulsar cluster.
type ClientConfig struct {
	ServiceURL     string
	DialTimeout    time.Duration
	ConnectTimeout time.Duration
	TLSConfig      *tls.Config
	AuthMethod     string
	AuthData       []byte

	// Errs receives asynchronous errors surfaced by managed producers and
	// consumers built against this client (reconnect failures, redelivery
	// errors). A nil channel discards them.
	Errs chan error
}

// SetDefaults fills in zero-valued fields with the library's defaults.
func (c ClientConfig) SetDefaults() ClientConfig {
	if c.ServiceURL == "" {
		c.ServiceURL = "pulsar://localhost:6650"
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = 5 * time.Second
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = 10 * time.Second
	}
	return c
}

// ClientPool owns one CONNECT-ed connection per distinct broker address,
// shared across every topic that resolves to it, plus the single
// process-wide request-id counter every request on any of those
// connections draws from. It mirrors, one level up, the "longest holder
// keeps alive" model core/conn.Pool already applies to the raw TCP/TLS
// Conn.
type ClientPool struct {
	connPool *conn.Pool
	reqID    *msg.MonotonicID

	mu    sync.Mutex
	conns map[string]*conn.Conn
}

// NewClientPool returns an empty pool. tlsCfg is nil for plaintext pulsar://
// clusters.
func NewClientPool(dialTimeout time.Duration, tlsCfg *tls.Config) *ClientPool {
	return &ClientPool{
		connPool: conn.NewPool(dialTimeout, tlsCfg),
		reqID:    &msg.MonotonicID{},
		conns:    make(map[string]*conn.Conn),
	}
}

// ForTopic returns a handle that resolves topic to its owning broker on
// Get, reusing the client pool's connection to that broker if one is
// already open.
func (p *ClientPool) ForTopic(ctx context.Context, cfg ClientConfig, topic string) (*TopicClient, error) {
	cfg = cfg.SetDefaults()
	if topic == "" {
		return nil, fmt.Errorf("client: topic is required")
	}
	return &TopicClient{pool: p, cfg: cfg, topic: topic}, nil
}

// TopicClient resolves and connects to its topic's current broker on
// demand; each call to Get re-resolves, so a topic that has since moved to
// a different broker (load-balancer unload, bundle split) is picked up
// automatically.
type TopicClient struct {
	pool  *ClientPool
	cfg   ClientConfig
	topic string
}

// Get resolves t's topic to its current owning broker and returns a Client
// bound to a connection to that broker, dialing and performing the CONNECT
// handshake if this is the first reference to that address.
func (t *TopicClient) Get(ctx context.Context) (*Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, t.cfg.ConnectTimeout)
	defer cancel()

	serviceConn, err := t.pool.brokerConnFor(connectCtx, t.cfg, t.cfg.ServiceURL, "")
	if err != nil {
		return nil, fmt.Errorf("client: connecting to service url: %w", err)
	}

	lookupSvc := lookup.NewService(serviceConn, serviceConn.Dispatcher(), t.pool.reqID)
	broker, err := lookupSvc.GetBroker(ctx, t.topic)
	if err != nil {
		return nil, fmt.Errorf("client: looking up %s: %w", t.topic, err)
	}

	proxyURL := ""
	if broker.Proxied {
		proxyURL = broker.LogicalAddr
	}

	c, err := t.pool.brokerConnFor(connectCtx, t.cfg, broker.PhysicalAddr, proxyURL)
	if err != nil {
		return nil, fmt.Errorf("client: connecting to broker %s: %w", broker.PhysicalAddr, err)
	}

	return &Client{pool: t.pool, conn: c, addr: broker.PhysicalAddr, cfg: t.cfg}, nil
}

// brokerConnFor returns the cached, already CONNECT-ed connection for addr,
// or checks one out of the conn pool and performs the handshake. Retry
// policy lives with the caller (core/manage drives this through a
// connhandler.Handler); one call is one attempt.
func (p *ClientPool) brokerConnFor(ctx context.Context, cfg ClientConfig, addr string, proxyURL string) (*conn.Conn, error) {
	p.mu.Lock()
	c, ok := p.conns[addr]
	p.mu.Unlock()
	if ok {
		select {
		case <-c.Closed():
			// stale cache entry from a dropped connection; evict and dial
			// fresh below
			p.forget(addr)
		default:
			return c, nil
		}
	}

	c, err := p.connPool.Get(addr)
	if err != nil {
		return nil, err
	}

	connectCfg := conn.ConnectConfig{
		AuthMethod:     cfg.AuthMethod,
		AuthData:       cfg.AuthData,
		ProxyBrokerURL: proxyURL,
	}
	if _, err := c.Connect(ctx, connectCfg); err != nil {
		p.connPool.Release(addr)
		return nil, fmt.Errorf("client: connecting to %s: %w", addr, err)
	}

	p.mu.Lock()
	p.conns[addr] = c
	p.mu.Unlock()

	return c, nil
}

// forget drops addr from the pool so a later ForTopic/Get dials fresh,
// called once a connection has been observed closed.
func (p *ClientPool) forget(addr string) {
	p.mu.Lock()
	delete(p.conns, addr)
	p.mu.Unlock()
	p.connPool.Release(addr)
}

// Client issues producer and consumer creation requests against one already
// CONNECT-ed broker connection.
type Client struct {
	pool *ClientPool
	conn *conn.Conn
	addr string
	cfg  ClientConfig
}

// Conn returns the frame.CmdSender c's producers and consumers send on, for
// the managed wrappers' reconnect path.
func (c *Client) Conn() frame.CmdSender { return c.conn }

// Forget evicts c's underlying connection from the pool, forcing the next
// TopicClient.Get for this broker to dial fresh.
func (c *Client) Forget() { c.pool.forget(c.addr) }

func (c *Client) newConsumer(ctx context.Context, topic, subscription string, subType api.CommandSubscribe_SubType, earliest bool, out chan msg.Message) (*sub.Consumer, error) {
	consumerID := c.pool.reqID.Next()
	cons, err := sub.NewConsumer(ctx, c.conn, c.conn.Dispatcher(), c.pool.reqID, *consumerID, sub.Config{
		Topic:        topic,
		Subscription: subscription,
		SubType:      subType,
		Earliest:     earliest,
	}, out)
	if err != nil {
		return nil, err
	}
	c.conn.AddConsumer(*consumerID, cons)
	return cons, nil
}

// NewExclusiveConsumer subscribes with CommandSubscribe_Exclusive: only one
// consumer may be bound to the subscription at a time.
func (c *Client) NewExclusiveConsumer(ctx context.Context, topic, subscription string, earliest bool, out chan msg.Message) (*sub.Consumer, error) {
	return c.newConsumer(ctx, topic, subscription, api.CommandSubscribe_Exclusive, earliest, out)
}

// NewFailoverConsumer subscribes with CommandSubscribe_Failover: every
// consumer bound to the subscription is sorted, and only the first receives
// messages until it disconnects.
func (c *Client) NewFailoverConsumer(ctx context.Context, topic, subscription string, earliest bool, out chan msg.Message) (*sub.Consumer, error) {
	return c.newConsumer(ctx, topic, subscription, api.CommandSubscribe_Failover, earliest, out)
}

// NewSharedConsumer subscribes with CommandSubscribe_Shared: messages are
// round-robined across every consumer bound to the subscription.
func (c *Client) NewSharedConsumer(ctx context.Context, topic, subscription string, earliest bool, out chan msg.Message) (*sub.Consumer, error) {
	return c.newConsumer(ctx, topic, subscription, api.CommandSubscribe_Shared, earliest, out)
}

// NewKeySharedConsumer subscribes with CommandSubscribe_KeyShared: messages
// sharing a partition key are always routed to the same consumer within the
// subscription.
func (c *Client) NewKeySharedConsumer(ctx context.Context, topic, subscription string, earliest bool, out chan msg.Message) (*sub.Consumer, error) {
	return c.newConsumer(ctx, topic, subscription, api.CommandSubscribe_KeyShared, earliest, out)
}

// NewReader returns a non-durable, single-partition Reader starting at
// startID, bypassing the SUBSCRIBE durable-cursor path entirely.
func (c *Client) NewReader(ctx context.Context, topic string, startID msg.MessageID, inclusive bool, out chan msg.Message) (*sub.Reader, error) {
	consumerID := c.pool.reqID.Next()
	r, err := sub.NewReader(ctx, c.conn, c.conn.Dispatcher(), c.pool.reqID, *consumerID, sub.Config{
		Topic: topic,
	}, startID, inclusive, out)
	if err != nil {
		return nil, err
	}
	c.conn.AddConsumer(*consumerID, r.Consumer())
	return r, nil
}

// NewProducer performs the PRODUCER handshake and returns a ready-to-use
// Producer for topic. If cfg.ProducerName is empty, the broker-assigned
// name from PRODUCER_SUCCESS is used.
func (c *Client) NewProducer(ctx context.Context, topic string, cfg pub.Config) (*pub.Producer, error) {
	requestID := c.pool.reqID.Next()
	producerID := c.pool.reqID.Next()

	resp, cancel, err := c.conn.Dispatcher().RegisterReqID(*requestID)
	if err != nil {
		return nil, err
	}
	defer cancel()

	cmd := api.BaseCommand{
		Type: api.BaseCommand_PRODUCER.Enum(),
		Producer: &api.CommandProducer{
			Topic:      proto.String(topic),
			ProducerId: producerID,
			RequestId:  requestID,
		},
	}
	if cfg.ProducerName != "" {
		cmd.Producer.ProducerName = proto.String(cfg.ProducerName)
	}

	if err := c.conn.SendSimpleCmd(cmd); err != nil {
		return nil, err
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()

	case f := <-resp:
		switch f.BaseCmd.GetType() {
		case api.BaseCommand_PRODUCER_SUCCESS:
			cfg.ProducerName = f.BaseCmd.GetProducerSuccess().GetProducerName()

		case api.BaseCommand_ERROR:
			e := f.BaseCmd.GetError()
			return nil, fmt.Errorf("%s: %s", e.GetError().String(), e.GetMessage())

		default:
			return nil, utils.NewUnexpectedErrMsg(f.BaseCmd.GetType(), *producerID)
		}
	}

	p := pub.NewProducer(c.conn, c.conn.Dispatcher(), c.pool.reqID, *producerID, cfg)
	c.conn.AddProducer(*producerID, p)
	return p, nil
}
