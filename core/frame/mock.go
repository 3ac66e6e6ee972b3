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

package frame

import (
	"sync"

	"github.com/pulsarcore/go-client/pkg/api"
)

// MockSender is a CmdSender that records every frame it was asked to send
// instead of writing to a socket. It's used by producer/consumer/lookup
// tests that want to drive the response side of the exchange by hand via a
// Dispatcher.
type MockSender struct {
	mu sync.Mutex

	Frames []Frame

	closedc  chan struct{}
	closeOne sync.Once
}

func (m *MockSender) SendSimpleCmd(cmd api.BaseCommand) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Frames = append(m.Frames, Frame{BaseCmd: &cmd})
	return nil
}

func (m *MockSender) SendPayloadCmd(cmd api.BaseCommand, metadata api.MessageMetadata, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Frames = append(m.Frames, Frame{BaseCmd: &cmd, Metadata: &metadata, Payload: payload})
	return nil
}

// Closed returns a channel that unblocks once Close has been called.
func (m *MockSender) Closed() <-chan struct{} {
	m.mu.Lock()
	if m.closedc == nil {
		m.closedc = make(chan struct{})
	}
	c := m.closedc
	m.mu.Unlock()
	return c
}

// Close marks the mock sender as closed, unblocking Closed().
func (m *MockSender) Close() {
	m.mu.Lock()
	if m.closedc == nil {
		m.closedc = make(chan struct{})
	}
	c := m.closedc
	m.mu.Unlock()
	m.closeOne.Do(func() { close(c) })
}
