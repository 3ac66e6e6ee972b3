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

// Package conn owns one framed stream to a broker and everything scoped to
// it: the serialized write path, the request/response Dispatcher, the
// Router holding the producer/consumer registration tables, the CONNECT
// handshake, and the Pool sharing one Conn per broker address.
package conn

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/golang/protobuf/proto"
	"github.com/pulsarcore/go-client/core/frame"
	"github.com/pulsarcore/go-client/pkg/api"
	"github.com/pulsarcore/go-client/pkg/log"
	"github.com/pulsarcore/go-client/utils"
)

// Conn is one TCP (or TLS) frame stream to a broker. It owns the three
// things every producer and consumer on the connection shares: the write
// path, the Dispatcher correlating replies to waiters, and the Router
// holding the producer/consumer registration tables. A single reader
// goroutine, started by Connect, drains the socket and hands each decoded
// frame to the Router; nothing else ever reads the socket.
type Conn struct {
	rc io.ReadCloser

	wmu sync.Mutex // serializes frame writes
	w   io.Writer

	dispatcher *frame.Dispatcher
	router     *Router

	readOnce sync.Once

	cmu      sync.Mutex // protects following
	isClosed bool
	closedc  chan struct{}
}

// Dial opens a plaintext connection to addr (with or without a pulsar://
// scheme prefix). The returned Conn is not usable until Connect succeeds.
func Dial(addr string, timeout time.Duration) (*Conn, error) {
	d := net.Dialer{Timeout: timeout}
	c, err := d.Dial("tcp", stripScheme(addr))
	if err != nil {
		return nil, err
	}
	return newConn(c), nil
}

// DialTLS is Dial over TLS.
func DialTLS(addr string, tlsCfg *tls.Config, timeout time.Duration) (*Conn, error) {
	d := net.Dialer{Timeout: timeout}
	c, err := tls.DialWithDialer(&d, "tcp", stripScheme(addr), tlsCfg)
	if err != nil {
		return nil, err
	}
	return newConn(c), nil
}

func stripScheme(addr string) string {
	return strings.TrimPrefix(addr, "pulsar://")
}

func newConn(c net.Conn) *Conn {
	dispatcher := frame.NewFrameDispatcher()
	return &Conn{
		rc:         c,
		w:          c,
		dispatcher: dispatcher,
		router:     NewRouter(dispatcher),
		closedc:    make(chan struct{}),
	}
}

// ConnectConfig carries the optional authentication and proxy fields of
// the CONNECT command.
type ConnectConfig struct {
	AuthMethod     string
	AuthData       []byte
	ProxyBrokerURL string
}

// Connect starts the connection's read pump and performs the
// CONNECT <-> CONNECTED|ERROR handshake. It must complete successfully
// before any other command is sent on the connection.
func (c *Conn) Connect(ctx context.Context, cfg ConnectConfig) (*api.CommandConnected, error) {
	c.start()

	resp, cancel, err := c.dispatcher.RegisterGlobal()
	if err != nil {
		return nil, err
	}
	defer cancel()

	// An ERROR rejecting a CONNECT carries no usable request id; the broker
	// stamps it with the undefined sentinel instead.
	errResp, cancelErr, err := c.dispatcher.RegisterReqID(utils.UndefRequestID)
	if err != nil {
		return nil, err
	}
	defer cancelErr()

	connect := api.CommandConnect{
		ClientVersion:   proto.String(utils.ClientVersion),
		ProtocolVersion: proto.Int32(utils.ProtoVersion),
	}
	if cfg.AuthMethod != "" {
		connect.AuthMethodName = proto.String(cfg.AuthMethod)
	}
	if cfg.AuthData != nil {
		connect.AuthData = cfg.AuthData
	}
	if cfg.ProxyBrokerURL != "" {
		connect.ProxyToBrokerUrl = proto.String(stripScheme(cfg.ProxyBrokerURL))
	}

	cmd := api.BaseCommand{
		Type:    api.BaseCommand_CONNECT.Enum(),
		Connect: &connect,
	}
	if err := c.SendSimpleCmd(cmd); err != nil {
		return nil, err
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()

	case <-c.closedc:
		return nil, fmt.Errorf("connection closed during CONNECT handshake")

	case f := <-resp:
		return f.BaseCmd.GetConnected(), nil

	case f := <-errResp:
		e := f.BaseCmd.GetError()
		return nil, fmt.Errorf("%s: %s", e.GetError().String(), e.GetMessage())
	}
}

// start launches the reader goroutine, once. Every decoded frame goes to
// the Router; a decode error tears the connection down.
func (c *Conn) start() {
	c.readOnce.Do(func() {
		go func() {
			for {
				var f frame.Frame
				if err := f.Decode(c.rc); err != nil {
					log.Debugf("conn: read loop ending: %v", err)
					_ = c.Close()
					return
				}
				c.router.Dispatch(f)
			}
		}()
	})
}

// Dispatcher returns the connection's reply dispatcher, for callers that
// register their own request-id waiters (lookup, producer handshake).
func (c *Conn) Dispatcher() *frame.Dispatcher { return c.dispatcher }

// AddProducer registers h to receive PUSH frames addressed to producer id.
func (c *Conn) AddProducer(id uint64, h ProducerHandler) { c.router.AddProducer(id, h) }

// AddConsumer registers h to receive PUSH frames addressed to consumer id.
func (c *Conn) AddConsumer(id uint64, h ConsumerHandler) { c.router.AddConsumer(id, h) }

// RemoveProducer drops producer id's registration.
func (c *Conn) RemoveProducer(id uint64) { c.router.RemoveProducer(id) }

// RemoveConsumer drops consumer id's registration.
func (c *Conn) RemoveConsumer(id uint64) { c.router.RemoveConsumer(id) }

// SendSimpleCmd writes a command-only frame. Safe for concurrent use.
func (c *Conn) SendSimpleCmd(cmd api.BaseCommand) error {
	return c.writeFrame(&frame.Frame{BaseCmd: &cmd})
}

// SendPayloadCmd writes a command+metadata+payload frame. Safe for
// concurrent use.
func (c *Conn) SendPayloadCmd(cmd api.BaseCommand, metadata api.MessageMetadata, payload []byte) error {
	return c.writeFrame(&frame.Frame{BaseCmd: &cmd, Metadata: &metadata, Payload: payload})
}

var encodeBufPool = sync.Pool{
	New: func() interface{} { return new(bytes.Buffer) },
}

// writeFrame encodes f into a pooled buffer and writes it to the socket in
// one call, so concurrent senders never interleave frame bytes.
func (c *Conn) writeFrame(f *frame.Frame) error {
	b := encodeBufPool.Get().(*bytes.Buffer)
	b.Reset()
	defer encodeBufPool.Put(b)

	if err := f.Encode(b); err != nil {
		return err
	}

	c.wmu.Lock()
	_, err := b.WriteTo(c.w)
	c.wmu.Unlock()

	return err
}

// Close tears down the socket. The read loop unblocks with an error, and
// Closed()'s channel unblocks for every producer/consumer watching it.
func (c *Conn) Close() error {
	c.cmu.Lock()
	defer c.cmu.Unlock()

	if c.isClosed {
		return nil
	}
	c.isClosed = true

	err := c.rc.Close()
	close(c.closedc)

	return err
}

// Closed returns a channel that unblocks once the connection is no longer
// usable.
func (c *Conn) Closed() <-chan struct{} {
	return c.closedc
}
