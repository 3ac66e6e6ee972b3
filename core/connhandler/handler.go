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

// Package connhandler implements the reconnecting state machine shared by
// the producer and consumer engines. Both MartinLogan-pulsar-client-go's
// partitionConsumer.grabConn/reconnectToBroker and
// godchen0212-pulsar-client-go's grabCnx/reconnectToBroker copy-paste this
// logic per engine; SPEC_FULL extracts it once.
package connhandler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pulsarcore/go-client/core/frame"
	"github.com/pulsarcore/go-client/pkg/log"
)

// State is the connection handler's state machine position.
type State int

const (
	Initializing State = iota
	Connecting
	Ready
	Reconnecting
	Closing
	Closed
	Failed
	Terminated
)

func (s State) String() string {
	switch s {
	case Initializing:
		return "Initializing"
	case Connecting:
		return "Connecting"
	case Ready:
		return "Ready"
	case Reconnecting:
		return "Reconnecting"
	case Closing:
		return "Closing"
	case Closed:
		return "Closed"
	case Failed:
		return "Failed"
	case Terminated:
		return "Terminated"
	default:
		return "Unknown"
	}
}

// ErrAlreadyClosed is raised by CheckIfActive when the handler is
// Closing or Closed.
var ErrAlreadyClosed = errors.New("already closed")

// ErrNotConnected is raised by CheckIfActive when the handler is
// Connecting or Reconnecting.
var ErrNotConnected = errors.New("not connected")

// GrabConnFunc performs one lookup+pool+open attempt, returning the opened
// connection or a classified error.
type GrabConnFunc func(ctx context.Context) (frame.CmdSender, error)

// IsFatalFunc classifies an error returned by GrabConnFunc: fatal errors (auth,
// topic-terminated, checksum misconfiguration, unsupported version)
// transition straight to Failed instead of retrying.
type IsFatalFunc func(err error) bool

// Handler owns the reconnect state machine for a single producer or
// consumer engine.
type Handler struct {
	grab      GrabConnFunc
	isFatal   IsFatalFunc
	onOpened  func(c frame.CmdSender)
	backoff   backoff.BackOff
	mandatory time.Duration

	mu    sync.Mutex
	state State
	conn  frame.CmdSender
}

// Config configures the backoff policy's shape.
type Config struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MandatoryStop   time.Duration
}

// SetDefaults fills in zero-valued fields with the teacher's defaults.
func (c Config) SetDefaults() Config {
	if c.InitialInterval <= 0 {
		c.InitialInterval = 100 * time.Millisecond
	}
	if c.MaxInterval <= 0 {
		c.MaxInterval = 60 * time.Second
	}
	if c.MandatoryStop <= 0 {
		c.MandatoryStop = 10 * time.Minute
	}
	return c
}

// New returns a handler starting in the Initializing state.
func New(cfg Config, grab GrabConnFunc, isFatal IsFatalFunc, onOpened func(frame.CmdSender)) *Handler {
	cfg = cfg.SetDefaults()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = cfg.InitialInterval
	b.MaxInterval = cfg.MaxInterval
	b.MaxElapsedTime = cfg.MandatoryStop
	b.Multiplier = 2

	return &Handler{
		grab:      grab,
		isFatal:   isFatal,
		onOpened:  onOpened,
		backoff:   b,
		mandatory: cfg.MandatoryStop,
		state:     Initializing,
	}
}

// State returns the handler's current state.
func (h *Handler) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Conn returns the current connection, or nil if not Ready.
func (h *Handler) Conn() frame.CmdSender {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.conn
}

// CheckIfActive raises ErrAlreadyClosed on Closing|Closed, ErrNotConnected
// on Connecting|Reconnecting, and nil otherwise.
func (h *Handler) CheckIfActive() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch h.state {
	case Closing, Closed:
		return ErrAlreadyClosed
	case Connecting, Reconnecting:
		return ErrNotConnected
	default:
		return nil
	}
}

// Connect drives Initializing/Reconnecting -> Connecting -> Ready, retrying
// with backoff on retriable errors and transitioning to Failed on a fatal
// error or exhausted budget.
func (h *Handler) Connect(ctx context.Context) error {
	h.mu.Lock()
	if h.state == Initializing {
		h.state = Connecting
	} else {
		h.state = Reconnecting
	}
	h.mu.Unlock()

	h.backoff.Reset()

	for {
		h.mu.Lock()
		h.state = Connecting
		h.mu.Unlock()

		c, err := h.grab(ctx)
		if err == nil {
			h.mu.Lock()
			h.state = Ready
			h.conn = c
			h.mu.Unlock()

			if h.onOpened != nil {
				h.onOpened(c)
			}
			return nil
		}

		if h.isFatal != nil && h.isFatal(err) {
			h.mu.Lock()
			h.state = Failed
			h.mu.Unlock()
			return err
		}

		next := h.backoff.NextBackOff()
		if next == backoff.Stop {
			h.mu.Lock()
			h.state = Failed
			h.mu.Unlock()
			return err
		}

		log.Debugf("connhandler: retrying connect in %s after error: %v", next, err)

		select {
		case <-ctx.Done():
			h.mu.Lock()
			h.state = Failed
			h.mu.Unlock()
			return ctx.Err()
		case <-time.After(next):
		}
	}
}

// ConnectionClosed transitions Ready -> Reconnecting. The caller is
// responsible for invoking Connect again (typically from the same engine
// inbox that observed the ConnectionClosed event).
func (h *Handler) ConnectionClosed() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state == Ready {
		h.state = Reconnecting
		h.conn = nil
	}
}

// Close transitions to Closing then Closed.
func (h *Handler) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state = Closing
	h.conn = nil
	h.state = Closed
}

// Terminate transitions to the terminal Terminated state, used when the
// broker signals end-of-topic-life.
func (h *Handler) Terminate() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state = Terminated
	h.conn = nil
}
