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
	"bytes"
	"strings"
	"testing"

	"github.com/golang/protobuf/proto"
	"github.com/pulsarcore/go-client/pkg/api"
)

func TestFrame_EncodeDecode_SimpleCommand(t *testing.T) {
	f := Frame{
		BaseCmd: &api.BaseCommand{
			Type: api.BaseCommand_CONNECT.Enum(),
			Connect: &api.CommandConnect{
				ClientVersion:   proto.String("test"),
				ProtocolVersion: proto.Int32(13),
			},
		},
	}

	var buf bytes.Buffer
	if err := f.Encode(&buf); err != nil {
		t.Fatalf("Encode() err = %v; nil expected", err)
	}

	var decoded Frame
	if err := decoded.Decode(&buf); err != nil {
		t.Fatalf("Decode() err = %v; nil expected", err)
	}

	if !decoded.Equal(f) {
		t.Fatalf("decoded frame %v; expected %v", decoded, f)
	}
	if decoded.Metadata != nil {
		t.Fatal("expected no metadata on a simple command")
	}
}

func TestFrame_EncodeDecode_PayloadCommand(t *testing.T) {
	f := Frame{
		BaseCmd: &api.BaseCommand{
			Type: api.BaseCommand_SEND.Enum(),
			Send: &api.CommandSend{
				ProducerId: proto.Uint64(1),
				SequenceId: proto.Uint64(42),
			},
		},
		Metadata: &api.MessageMetadata{
			ProducerName: proto.String("prod"),
			SequenceId:   proto.Uint64(42),
			PublishTime:  proto.Uint64(1),
		},
		Payload: []byte("hola mundo"),
	}

	var buf bytes.Buffer
	if err := f.Encode(&buf); err != nil {
		t.Fatalf("Encode() err = %v; nil expected", err)
	}

	var decoded Frame
	if err := decoded.Decode(&buf); err != nil {
		t.Fatalf("Decode() err = %v; nil expected", err)
	}

	if !decoded.Equal(f) {
		t.Fatalf("decoded frame %v; expected %v", decoded, f)
	}
	if string(decoded.Payload) != "hola mundo" {
		t.Fatalf("got payload %q; expected %q", decoded.Payload, "hola mundo")
	}
}

func TestFrame_Decode_ChecksumMismatch(t *testing.T) {
	f := Frame{
		BaseCmd: &api.BaseCommand{
			Type: api.BaseCommand_SEND.Enum(),
			Send: &api.CommandSend{
				ProducerId: proto.Uint64(1),
				SequenceId: proto.Uint64(0),
			},
		},
		Metadata: &api.MessageMetadata{
			ProducerName: proto.String("prod"),
			SequenceId:   proto.Uint64(0),
			PublishTime:  proto.Uint64(1),
		},
		Payload: []byte("payload bytes"),
	}

	var buf bytes.Buffer
	if err := f.Encode(&buf); err != nil {
		t.Fatalf("Encode() err = %v; nil expected", err)
	}

	// flip a bit in the last payload byte; the stored checksum no longer
	// matches what Decode recomputes over the metadata+payload region
	raw := buf.Bytes()
	raw[len(raw)-1] ^= 0xff

	var decoded Frame
	err := decoded.Decode(bytes.NewReader(raw))
	if err == nil {
		t.Fatal("Decode() err = nil; checksum mismatch expected")
	}
	if !strings.Contains(err.Error(), "checksum") {
		t.Fatalf("got err %q; expected a checksum mismatch", err)
	}
}

func TestFrame_Decode_RejectsOversizedFrame(t *testing.T) {
	// totalSize pretending the frame is larger than MaxFrameSize
	raw := []byte{0xff, 0xff, 0xff, 0xff}

	var decoded Frame
	if err := decoded.Decode(bytes.NewReader(raw)); err == nil {
		t.Fatal("Decode() err = nil; expected an error for an oversized frame")
	}
}

func TestChecksumMetadataPayload_MatchesEncodedChecksum(t *testing.T) {
	metadata := &api.MessageMetadata{
		ProducerName: proto.String("prod"),
		SequenceId:   proto.Uint64(7),
		PublishTime:  proto.Uint64(1),
	}
	payload := []byte("algo")

	want, err := ChecksumMetadataPayload(metadata, payload)
	if err != nil {
		t.Fatalf("ChecksumMetadataPayload() err = %v; nil expected", err)
	}

	f := Frame{
		BaseCmd: &api.BaseCommand{
			Type: api.BaseCommand_SEND.Enum(),
			Send: &api.CommandSend{ProducerId: proto.Uint64(1), SequenceId: proto.Uint64(7)},
		},
		Metadata: metadata,
		Payload:  payload,
	}
	var buf bytes.Buffer
	if err := f.Encode(&buf); err != nil {
		t.Fatalf("Encode() err = %v; nil expected", err)
	}

	// the 4 bytes following the magic number are the frame's checksum
	raw := buf.Bytes()
	idx := bytes.Index(raw, magicNumber[:])
	if idx < 0 {
		t.Fatal("encoded frame carries no magic number")
	}
	got := raw[idx+2 : idx+6]

	if !bytes.Equal(got, want) {
		t.Fatalf("got frame checksum %x; ChecksumMetadataPayload computed %x", got, want)
	}
}
