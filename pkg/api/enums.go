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

// Package api holds the wire types for the Pulsar binary protocol. It plays
// the role of generated protobuf code: in a full build these types would be
// emitted by protoc from pulsar_api.proto. They're hand-authored here against
// the same proto2 reflection tags so github.com/golang/protobuf's Marshal and
// Unmarshal work against them unchanged.
package api

import "github.com/golang/protobuf/proto"

type AuthMethod int32

const (
	AuthMethod_AuthMethodNone  AuthMethod = 0
	AuthMethod_AuthMethodYcaV1 AuthMethod = 1
	AuthMethod_AuthMethodAthenz AuthMethod = 2
)

var AuthMethod_name = map[int32]string{
	0: "AuthMethodNone",
	1: "AuthMethodYcaV1",
	2: "AuthMethodAthenz",
}
var AuthMethod_value = map[string]int32{
	"AuthMethodNone":   0,
	"AuthMethodYcaV1":  1,
	"AuthMethodAthenz": 2,
}

func (x AuthMethod) Enum() *AuthMethod {
	p := new(AuthMethod)
	*p = x
	return p
}
func (x AuthMethod) String() string { return proto.EnumName(AuthMethod_name, int32(x)) }

type ProtocolVersion int32

const (
	ProtocolVersion_v0  ProtocolVersion = 0
	ProtocolVersion_v12 ProtocolVersion = 12
	ProtocolVersion_v13 ProtocolVersion = 13
)

func (x ProtocolVersion) Enum() *ProtocolVersion {
	p := new(ProtocolVersion)
	*p = x
	return p
}
func (x ProtocolVersion) String() string {
	switch x {
	case ProtocolVersion_v0:
		return "v0"
	case ProtocolVersion_v12:
		return "v12"
	case ProtocolVersion_v13:
		return "v13"
	}
	return "unknown"
}

// CompressionType selects the Metadata.Compression codec. The codecs
// themselves are external collaborators (see the compression package);
// this enum only names the wire value.
type CompressionType int32

const (
	CompressionType_NONE   CompressionType = 0
	CompressionType_LZ4    CompressionType = 1
	CompressionType_ZLIB   CompressionType = 2
	CompressionType_ZSTD   CompressionType = 3
	CompressionType_SNAPPY CompressionType = 4
)

var CompressionType_name = map[int32]string{
	0: "NONE", 1: "LZ4", 2: "ZLIB", 3: "ZSTD", 4: "SNAPPY",
}

func (x CompressionType) Enum() *CompressionType {
	p := new(CompressionType)
	*p = x
	return p
}
func (x CompressionType) String() string { return proto.EnumName(CompressionType_name, int32(x)) }

type ServerError int32

const (
	ServerError_UnknownError               ServerError = 0
	ServerError_MetadataError               ServerError = 1
	ServerError_PersistenceError            ServerError = 2
	ServerError_AuthenticationError          ServerError = 3
	ServerError_AuthorizationError           ServerError = 4
	ServerError_ConsumerBusy                 ServerError = 5
	ServerError_ServiceNotReady               ServerError = 6
	ServerError_ProducerBlockedQuotaExceededError    ServerError = 7
	ServerError_ProducerBlockedQuotaExceededException ServerError = 8
	ServerError_ChecksumError                ServerError = 9
	ServerError_UnsupportedVersionError       ServerError = 10
	ServerError_TopicNotFound                 ServerError = 11
	ServerError_SubscriptionNotFound           ServerError = 12
	ServerError_ConsumerNotFound               ServerError = 13
	ServerError_TooManyRequests                ServerError = 14
	ServerError_TopicTerminatedError           ServerError = 15
	ServerError_ProducerBusy                   ServerError = 16
	ServerError_InvalidTopicName               ServerError = 17
)

var ServerError_name = map[int32]string{
	0: "UnknownError", 1: "MetadataError", 2: "PersistenceError", 3: "AuthenticationError",
	4: "AuthorizationError", 5: "ConsumerBusy", 6: "ServiceNotReady",
	7: "ProducerBlockedQuotaExceededError", 8: "ProducerBlockedQuotaExceededException",
	9: "ChecksumError", 10: "UnsupportedVersionError", 11: "TopicNotFound",
	12: "SubscriptionNotFound", 13: "ConsumerNotFound", 14: "TooManyRequests",
	15: "TopicTerminatedError", 16: "ProducerBusy", 17: "InvalidTopicName",
}

func (x ServerError) Enum() *ServerError {
	p := new(ServerError)
	*p = x
	return p
}
func (x ServerError) String() string { return proto.EnumName(ServerError_name, int32(x)) }

type CommandSubscribe_SubType int32

const (
	CommandSubscribe_Exclusive CommandSubscribe_SubType = 0
	CommandSubscribe_Shared    CommandSubscribe_SubType = 1
	CommandSubscribe_Failover  CommandSubscribe_SubType = 2
	CommandSubscribe_KeyShared CommandSubscribe_SubType = 3
)

func (x CommandSubscribe_SubType) Enum() *CommandSubscribe_SubType {
	p := new(CommandSubscribe_SubType)
	*p = x
	return p
}
func (x CommandSubscribe_SubType) String() string {
	switch x {
	case CommandSubscribe_Exclusive:
		return "Exclusive"
	case CommandSubscribe_Shared:
		return "Shared"
	case CommandSubscribe_Failover:
		return "Failover"
	case CommandSubscribe_KeyShared:
		return "KeyShared"
	}
	return "unknown"
}

type CommandSubscribe_InitialPosition int32

const (
	CommandSubscribe_Latest   CommandSubscribe_InitialPosition = 0
	CommandSubscribe_Earliest CommandSubscribe_InitialPosition = 1
)

func (x CommandSubscribe_InitialPosition) Enum() *CommandSubscribe_InitialPosition {
	p := new(CommandSubscribe_InitialPosition)
	*p = x
	return p
}

type CommandAck_AckType int32

const (
	CommandAck_Individual CommandAck_AckType = 0
	CommandAck_Cumulative CommandAck_AckType = 1
)

func (x CommandAck_AckType) Enum() *CommandAck_AckType {
	p := new(CommandAck_AckType)
	*p = x
	return p
}

type CommandAck_ValidationError int32

const (
	CommandAck_UncompressedSizeCorruption CommandAck_ValidationError = 0
	CommandAck_ChecksumMismatch           CommandAck_ValidationError = 1
	CommandAck_DecompressionError         CommandAck_ValidationError = 2
	CommandAck_BatchDeSerializeError      CommandAck_ValidationError = 3
)

func (x CommandAck_ValidationError) Enum() *CommandAck_ValidationError {
	p := new(CommandAck_ValidationError)
	*p = x
	return p
}

type CommandLookupTopicResponse_LookupType int32

const (
	CommandLookupTopicResponse_Redirect CommandLookupTopicResponse_LookupType = 0
	CommandLookupTopicResponse_Connect  CommandLookupTopicResponse_LookupType = 1
	CommandLookupTopicResponse_Failed   CommandLookupTopicResponse_LookupType = 2
)

func (x CommandLookupTopicResponse_LookupType) Enum() *CommandLookupTopicResponse_LookupType {
	p := new(CommandLookupTopicResponse_LookupType)
	*p = x
	return p
}

type CommandGetTopicsOfNamespace_Mode int32

const (
	CommandGetTopicsOfNamespace_PERSISTENT    CommandGetTopicsOfNamespace_Mode = 0
	CommandGetTopicsOfNamespace_NON_PERSISTENT CommandGetTopicsOfNamespace_Mode = 1
	CommandGetTopicsOfNamespace_ALL            CommandGetTopicsOfNamespace_Mode = 2
)

func (x CommandGetTopicsOfNamespace_Mode) Enum() *CommandGetTopicsOfNamespace_Mode {
	p := new(CommandGetTopicsOfNamespace_Mode)
	*p = x
	return p
}
