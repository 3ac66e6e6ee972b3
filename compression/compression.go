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

// Package compression wires the Metadata.Compression codec field to a
// concrete Provider. The codec algorithms themselves are external
// collaborators (spec Non-goal): this package is thin adapter code around
// the real third-party implementations.
package compression

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io/ioutil"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/pulsarcore/go-client/pkg/api"
)

// Provider compresses and decompresses payloads for one CompressionType.
type Provider interface {
	Encode(dst, src []byte) []byte
	Decode(dst []byte, src []byte, uncompressedSize int) ([]byte, error)
}

// ForType returns the Provider for the given wire compression type.
func ForType(t api.CompressionType) (Provider, error) {
	switch t {
	case api.CompressionType_NONE:
		return noopProvider{}, nil
	case api.CompressionType_LZ4:
		return lz4Provider{}, nil
	case api.CompressionType_ZLIB:
		return zlibProvider{}, nil
	case api.CompressionType_ZSTD:
		return zstdProvider{}, nil
	case api.CompressionType_SNAPPY:
		return snappyProvider{}, nil
	default:
		return nil, fmt.Errorf("unsupported compression type %s", t)
	}
}

type noopProvider struct{}

func (noopProvider) Encode(dst, src []byte) []byte { return append(dst, src...) }
func (noopProvider) Decode(dst, src []byte, uncompressedSize int) ([]byte, error) {
	return append(dst, src...), nil
}

// lz4Provider wires github.com/pierrec/lz4/v4's block codec, grounded in the
// franz-go family of manifests in the retrieval pack.
type lz4Provider struct{}

func (lz4Provider) Encode(dst, src []byte) []byte {
	buf := make([]byte, lz4.CompressBlockBound(len(src)))
	var c lz4.Compressor
	n, err := c.CompressBlock(src, buf)
	if err != nil || n == 0 {
		// incompressible input: lz4 requires a literal fallback the caller
		// can still decode with a matching uncompressedSize.
		return append(dst, src...)
	}
	return append(dst, buf[:n]...)
}

func (lz4Provider) Decode(dst, src []byte, uncompressedSize int) ([]byte, error) {
	buf := make([]byte, uncompressedSize)
	n, err := lz4.UncompressBlock(src, buf)
	if err != nil {
		// counterpart of Encode's literal fallback for incompressible input
		if len(src) == uncompressedSize {
			return append(dst, src...), nil
		}
		return nil, err
	}
	return append(dst, buf[:n]...), nil
}

type zlibProvider struct{}

func (zlibProvider) Encode(dst, src []byte) []byte {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	_, _ = w.Write(src)
	_ = w.Close()
	return append(dst, buf.Bytes()...)
}

func (zlibProvider) Decode(dst, src []byte, uncompressedSize int) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	out, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return append(dst, out...), nil
}

// zstdProvider wires github.com/klauspost/compress/zstd, grounded in the
// manifests pulling klauspost/compress for zstd support.
type zstdProvider struct{}

func (zstdProvider) Encode(dst, src []byte) []byte {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return append(dst, src...)
	}
	defer enc.Close()
	return enc.EncodeAll(src, dst)
}

func (zstdProvider) Decode(dst, src []byte, uncompressedSize int) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(src, dst)
}

// snappyProvider wires github.com/golang/snappy.
type snappyProvider struct{}

func (snappyProvider) Encode(dst, src []byte) []byte {
	return snappy.Encode(nil, src)
}

func (snappyProvider) Decode(dst []byte, src []byte, uncompressedSize int) ([]byte, error) {
	out, err := snappy.Decode(nil, src)
	if err != nil {
		return nil, err
	}
	return append(dst, out...), nil
}
