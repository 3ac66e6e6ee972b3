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
	"encoding/binary"

	"github.com/golang/protobuf/proto"
	"github.com/klauspost/crc32"
	"github.com/pulsarcore/go-client/pkg/api"
)

// castagnoliTable is the CRC32-C polynomial the Pulsar wire protocol uses for
// its frame checksum.
var castagnoliTable = crc32.MakeTable(crc32.Castagnoli)

// frameChecksum accumulates the CRC32-C checksum over a frame's metadata and
// payload bytes. It implements io.Writer so it can sit behind an io.TeeReader
// on decode, or collect bytes.Write calls on encode.
type frameChecksum struct {
	crc uint32
	set bool
}

func (c *frameChecksum) Write(p []byte) (int, error) {
	if !c.set {
		c.crc = crc32.Checksum(p, castagnoliTable)
		c.set = true
	} else {
		c.crc = crc32.Update(c.crc, castagnoliTable, p)
	}
	return len(p), nil
}

// compute returns the big-endian encoded checksum of everything written so
// far.
func (c *frameChecksum) compute() []byte {
	return []byte{
		byte(c.crc >> 24),
		byte(c.crc >> 16),
		byte(c.crc >> 8),
		byte(c.crc),
	}
}

// ChecksumMetadataPayload computes the CRC32-C checksum over the same byte
// sequence frame.Encode feeds it for a payload command: the 4-byte big-endian
// metadata size, the encoded metadata, then the raw payload. Producers use
// this to recompute a pending message's checksum locally on
// RecoverChecksumError, comparing it against the checksum captured when the
// message was first sent.
func ChecksumMetadataPayload(metadata *api.MessageMetadata, payload []byte) ([]byte, error) {
	encodedMetadata, err := proto.Marshal(metadata)
	if err != nil {
		return nil, err
	}

	var chksum frameChecksum
	var szbuf [4]byte
	binary.BigEndian.PutUint32(szbuf[:], uint32(len(encodedMetadata)))
	if _, err := chksum.Write(szbuf[:]); err != nil {
		return nil, err
	}
	if _, err := chksum.Write(encodedMetadata); err != nil {
		return nil, err
	}
	if _, err := chksum.Write(payload); err != nil {
		return nil, err
	}

	return chksum.compute(), nil
}
