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

package conn

import (
	"context"
	"testing"
	"time"

	"github.com/pulsarcore/go-client/utils"
)

func TestConn_Int_Connect(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, err := Dial(utils.PulsarAddr(t), time.Second)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	connected, err := c.Connect(ctx, ConnectConfig{})
	if err != nil {
		t.Fatalf("Connect() err = %v; nil expected", err)
	}

	t.Logf("ProtocolVersion = %d, ServerVersion = %q", connected.GetProtocolVersion(), connected.GetServerVersion())
}

func TestConn_CloseUnblocksClosed(t *testing.T) {
	addr, closeListener := newLoopbackListener(t)
	defer closeListener()

	c, err := Dial(addr, time.Second)
	if err != nil {
		t.Fatal(err)
	}

	select {
	case <-c.Closed():
		t.Fatal("Closed() unblocked before Close was called")
	default:
	}

	if err := c.Close(); err != nil {
		t.Fatalf("Close() err = %v; nil expected", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second Close() err = %v; expected idempotent nil", err)
	}

	select {
	case <-c.Closed():
	default:
		t.Fatal("expected Closed() to unblock after Close")
	}
}
