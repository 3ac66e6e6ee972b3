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

// Package utils holds small pieces of plumbing shared across the core
// packages: client/protocol version constants, the "unexpected response"
// error helper, an async-error sink, and topic name parsing.
package utils

import (
	"fmt"
	"os"
	"testing"
)

// ClientVersion is reported in the CONNECT command.
const ClientVersion = "Pulsar Go 0.1"

// ProtoVersion is the highest protocol version this client speaks.
const ProtoVersion = int32(13)

// UndefRequestID is used to register interest in the ERROR response to a
// CONNECT, which the broker associates with no request id.
const UndefRequestID = uint64(1<<64 - 1)

// NewUnexpectedErrMsg builds the error returned at every request/response
// call site when the broker's reply frame doesn't carry one of the expected
// command types.
func NewUnexpectedErrMsg(msgType fmt.Stringer, ids ...interface{}) error {
	return fmt.Errorf("unexpected response of type %q for ids %v", msgType.String(), ids)
}

// AsyncErrors is a fire-and-forget error channel. Sends never block: if
// nothing is listening, the error is dropped.
type AsyncErrors chan error

// Send pushes err onto the channel without blocking if the channel is nil or
// full.
func (a AsyncErrors) Send(err error) {
	if a == nil {
		return
	}
	select {
	case a <- err:
	default:
	}
}

// PulsarAddr returns the address of a broker to dial for integration tests,
// taken from the PULSAR_TEST_ADDR environment variable. Tests that need a
// live broker should call t.Skip() when it isn't set.
func PulsarAddr(t *testing.T) string {
	addr := os.Getenv("PULSAR_TEST_ADDR")
	if addr == "" {
		t.Skip("PULSAR_TEST_ADDR not set; skipping integration test")
	}
	return addr
}
