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

package utils

import (
	"sync/atomic"
	"unicode/utf16"

	"github.com/google/uuid"
	"github.com/spaolacci/murmur3"
)

// HashingScheme selects how a partitioned producer turns a message key into
// a partition index. The per-partition engine itself never routes across
// partitions (that's explicitly out of scope) and does not call HashKey; a
// keyed send stamps the raw key, not its hash, as PartitionKey metadata.
type HashingScheme int

const (
	// JavaStringHash reproduces java.lang.String.hashCode(), matching the
	// upstream Java client's default for keyed routing.
	JavaStringHash HashingScheme = iota
	// Murmur3_32Hash matches Pulsar's Murmur3_32Hash routing mode.
	Murmur3_32Hash
)

// HashKey returns the routing hash of key under the given scheme.
func HashKey(scheme HashingScheme, key string) uint32 {
	switch scheme {
	case Murmur3_32Hash:
		return murmur3.Sum32([]byte(key)) & 0x7fffffff
	default:
		return javaStringHash(key) & 0x7fffffff
	}
}

func javaStringHash(s string) uint32 {
	var h uint32
	for _, u := range utf16.Encode([]rune(s)) {
		h = 31*h + uint32(u)
	}
	return h
}

// MessageRoutingMode selects how a partitioned producer would pick a
// partition. Routing across partitions is out of scope for the per-partition
// engine; this only records which mode a producer was configured with.
type MessageRoutingMode int

const (
	RoundRobinDistribution MessageRoutingMode = iota
	SinglePartition
	UseKey
)

// roundRobinCounter backs RoundRobinDistribution partition selection for
// callers that do implement a router above the per-partition engine.
var roundRobinCounter uint64

func NextRoundRobin(numPartitions int) int {
	if numPartitions <= 0 {
		return 0
	}
	n := atomic.AddUint64(&roundRobinCounter, 1)
	return int(n % uint64(numPartitions))
}

// GenerateName returns a process-unique name suitable for a producer or
// consumer name, e.g. "pulsar-go-<uuid>".
func GenerateName(prefix string) string {
	return prefix + "-" + uuid.New().String()
}
