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

// Package frame implements the Pulsar binary frame codec and the Dispatcher
// that correlates reply frames with their waiters.
//
// Every frame begins [totalSize u32][cmdSize u32][command]. A "simple"
// frame stops there. A "payload" frame continues with
// [magic 0x0e01][checksum u32][metadataSize u32][metadata][payload], where
// the CRC32-C checksum covers everything after itself. All sizes are
// big-endian.
package frame

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/golang/protobuf/proto"
	"github.com/pulsarcore/go-client/pkg/api"
)

// MaxFrameSize is the protocol's hard cap on a single frame, 5 MB.
const MaxFrameSize = 5 * 1024 * 1024

// magicNumber precedes the checksum of a payload frame.
var magicNumber = [2]byte{0x0e, 0x01}

// Frame is one decoded (or to-be-encoded) protocol frame. Metadata and
// Payload are nil for a simple command frame.
type Frame struct {
	BaseCmd  *api.BaseCommand
	Metadata *api.MessageMetadata
	Payload  []byte
}

// Equal reports whether f and other carry the same command, metadata and
// payload.
func (f *Frame) Equal(other Frame) bool {
	if !proto.Equal(f.BaseCmd, other.BaseCmd) {
		return false
	}
	if !proto.Equal(f.Metadata, other.Metadata) {
		return false
	}
	return bytes.Equal(f.Payload, other.Payload)
}

// readBEUint32 fills buf from r and returns it as a big-endian uint32.
func readBEUint32(r io.Reader, buf []byte) (uint32, error) {
	if _, err := io.ReadFull(r, buf); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf), nil
}

// Decode reads one frame off r into f.
func (f *Frame) Decode(r io.Reader) error {
	buf := make([]byte, 4)

	totalSize, err := readBEUint32(r, buf)
	if err != nil {
		return err
	}
	if int(totalSize)+4 > MaxFrameSize {
		return fmt.Errorf("frame of %d bytes exceeds the %d byte maximum", int(totalSize)+4, MaxFrameSize)
	}

	// everything below reads through lr, which refuses to cross the frame
	// boundary into the next frame's bytes
	lr := &io.LimitedReader{N: int64(totalSize), R: r}

	cmdSize, err := readBEUint32(lr, buf)
	if err != nil {
		return err
	}
	if cmdSize > totalSize {
		return fmt.Errorf("command of %d bytes exceeds its %d byte frame", cmdSize, totalSize)
	}

	cmdBuf := make([]byte, cmdSize)
	if _, err := io.ReadFull(lr, cmdBuf); err != nil {
		return err
	}
	f.BaseCmd = new(api.BaseCommand)
	if err := proto.Unmarshal(cmdBuf, f.BaseCmd); err != nil {
		return err
	}

	// a simple command ends at the frame boundary
	if lr.N <= 0 {
		return nil
	}

	// The next 4 bytes are either the magic number followed by the first
	// half of the checksum, or (when the checksum is absent) the whole
	// metadataSize.
	if _, err := io.ReadFull(lr, buf); err != nil {
		return err
	}

	var chksum frameChecksum
	var expected []byte
	if buf[0] == magicNumber[0] && buf[1] == magicNumber[1] {
		expected = []byte{buf[2], buf[3], 0, 0}
		if _, err := io.ReadFull(lr, expected[2:]); err != nil {
			return err
		}

		// everything consumed from here on feeds the checksum
		lr.R = io.TeeReader(lr.R, &chksum)

		if _, err := io.ReadFull(lr, buf); err != nil {
			return err
		}
	}

	metadataSize := binary.BigEndian.Uint32(buf)
	if metadataSize > totalSize {
		return fmt.Errorf("metadata of %d bytes exceeds its %d byte frame", metadataSize, totalSize)
	}

	metaBuf := make([]byte, metadataSize)
	if _, err := io.ReadFull(lr, metaBuf); err != nil {
		return err
	}
	f.Metadata = new(api.MessageMetadata)
	if err := proto.Unmarshal(metaBuf, f.Metadata); err != nil {
		return err
	}

	// whatever remains inside the frame is the payload
	if lr.N > 0 {
		f.Payload = make([]byte, lr.N)
		if _, err := io.ReadFull(lr, f.Payload); err != nil {
			return err
		}
	}

	if expected != nil {
		if computed := chksum.compute(); !bytes.Equal(computed, expected) {
			return fmt.Errorf("checksum mismatch: computed 0x%X, frame carries 0x%X", computed, expected)
		}
	}

	return nil
}

// Encode writes f onto w in wire format. Payload frames always carry a
// checksum.
func (f *Frame) Encode(w io.Writer) error {
	encodedCmd, err := proto.Marshal(f.BaseCmd)
	if err != nil {
		return err
	}
	cmdSize := uint32(len(encodedCmd))

	var encodedMetadata []byte
	if f.Metadata != nil {
		if encodedMetadata, err = proto.Marshal(f.Metadata); err != nil {
			return err
		}
	}
	metadataSize := uint32(len(encodedMetadata))

	totalSize := 4 + cmdSize
	if metadataSize > 0 {
		// magic+checksum (6) + metadataSize field (4) + metadata + payload
		totalSize += 6 + 4 + metadataSize + uint32(len(f.Payload))
	}
	if frameSize := totalSize + 4; frameSize > MaxFrameSize {
		return fmt.Errorf("encoded frame of %d bytes exceeds the %d byte maximum", frameSize, MaxFrameSize)
	}

	buf := make([]byte, 4)
	writeBEUint32 := func(v uint32) error {
		binary.BigEndian.PutUint32(buf, v)
		_, err := w.Write(buf)
		return err
	}

	if err := writeBEUint32(totalSize); err != nil {
		return err
	}
	if err := writeBEUint32(cmdSize); err != nil {
		return err
	}
	if _, err := w.Write(encodedCmd); err != nil {
		return err
	}

	if metadataSize == 0 {
		return nil
	}

	if _, err := w.Write(magicNumber[:]); err != nil {
		return err
	}

	// checksum covers the metadataSize field, the metadata, and the payload
	var chksum frameChecksum
	binary.BigEndian.PutUint32(buf, metadataSize)
	_, _ = chksum.Write(buf)
	_, _ = chksum.Write(encodedMetadata)
	_, _ = chksum.Write(f.Payload)
	if _, err := w.Write(chksum.compute()); err != nil {
		return err
	}

	if err := writeBEUint32(metadataSize); err != nil {
		return err
	}
	if _, err := w.Write(encodedMetadata); err != nil {
		return err
	}
	_, err = w.Write(f.Payload)
	return err
}
