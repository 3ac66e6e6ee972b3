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

package api

import "github.com/golang/protobuf/proto"

// MessageMetadata is carried once per frame. For a batched send it describes
// the whole batch; each message within the batch carries its own
// SingleMessageMetadata inside the (possibly compressed) payload.
type MessageMetadata struct {
	ProducerName         *string          `protobuf:"bytes,1,req,name=producer_name" json:"producer_name,omitempty"`
	SequenceId           *uint64          `protobuf:"varint,2,req,name=sequence_id" json:"sequence_id,omitempty"`
	PublishTime          *uint64          `protobuf:"varint,3,req,name=publish_time" json:"publish_time,omitempty"`
	Properties           []*KeyValue      `protobuf:"bytes,4,rep,name=properties" json:"properties,omitempty"`
	ReplicatedFrom       *string          `protobuf:"bytes,5,opt,name=replicated_from" json:"replicated_from,omitempty"`
	PartitionKey         *string          `protobuf:"bytes,6,opt,name=partition_key" json:"partition_key,omitempty"`
	Compression          *CompressionType `protobuf:"varint,10,opt,name=compression,enum=pulsar.proto.CompressionType,def=0" json:"compression,omitempty"`
	UncompressedSize     *uint32          `protobuf:"varint,11,opt,name=uncompressed_size,def=0" json:"uncompressed_size,omitempty"`
	NumMessagesInBatch   *int32           `protobuf:"varint,13,opt,name=num_messages_in_batch,def=1" json:"num_messages_in_batch,omitempty"`
	EventTime            *uint64          `protobuf:"varint,14,opt,name=event_time,def=0" json:"event_time,omitempty"`
	OrderingKey          []byte           `protobuf:"bytes,19,opt,name=ordering_key" json:"ordering_key,omitempty"`
	DeliverAtTime        *int64           `protobuf:"varint,22,opt,name=deliver_at_time" json:"deliver_at_time,omitempty"`
}

func (m *MessageMetadata) Reset()         { *m = MessageMetadata{} }
func (m *MessageMetadata) String() string { return proto.CompactTextString(m) }
func (*MessageMetadata) ProtoMessage()    {}

func (m *MessageMetadata) GetCompression() CompressionType {
	if m != nil && m.Compression != nil {
		return *m.Compression
	}
	return CompressionType_NONE
}
func (m *MessageMetadata) GetUncompressedSize() uint32 {
	if m != nil && m.UncompressedSize != nil {
		return *m.UncompressedSize
	}
	return 0
}
func (m *MessageMetadata) GetNumMessagesInBatch() int32 {
	if m != nil && m.NumMessagesInBatch != nil {
		return *m.NumMessagesInBatch
	}
	return 1
}
func (m *MessageMetadata) GetSequenceId() uint64 {
	if m != nil && m.SequenceId != nil {
		return *m.SequenceId
	}
	return 0
}
func (m *MessageMetadata) GetPublishTime() uint64 {
	if m != nil && m.PublishTime != nil {
		return *m.PublishTime
	}
	return 0
}
func (m *MessageMetadata) GetPartitionKey() string {
	if m != nil && m.PartitionKey != nil {
		return *m.PartitionKey
	}
	return ""
}
func (m *MessageMetadata) GetProperties() []*KeyValue {
	if m != nil {
		return m.Properties
	}
	return nil
}
func (m *MessageMetadata) GetEventTime() uint64 {
	if m != nil && m.EventTime != nil {
		return *m.EventTime
	}
	return 0
}
func (m *MessageMetadata) GetOrderingKey() []byte {
	if m != nil {
		return m.OrderingKey
	}
	return nil
}
func (m *MessageMetadata) GetDeliverAtTime() int64 {
	if m != nil && m.DeliverAtTime != nil {
		return *m.DeliverAtTime
	}
	return 0
}

// SingleMessageMetadata describes one message within a batch. It is encoded
// length-prefixed (fixed32 big endian) ahead of its payload slice inside the
// batch's single (possibly compressed) payload.
type SingleMessageMetadata struct {
	Properties       []*KeyValue `protobuf:"bytes,1,rep,name=properties" json:"properties,omitempty"`
	PartitionKey     *string     `protobuf:"bytes,2,opt,name=partition_key" json:"partition_key,omitempty"`
	PayloadSize      *int32      `protobuf:"varint,3,req,name=payload_size" json:"payload_size,omitempty"`
	CompactedOut     *bool       `protobuf:"varint,4,opt,name=compacted_out,def=0" json:"compacted_out,omitempty"`
	EventTime        *uint64     `protobuf:"varint,5,opt,name=event_time,def=0" json:"event_time,omitempty"`
	OrderingKey      []byte      `protobuf:"bytes,10,opt,name=ordering_key" json:"ordering_key,omitempty"`
}

func (m *SingleMessageMetadata) Reset()         { *m = SingleMessageMetadata{} }
func (m *SingleMessageMetadata) String() string { return proto.CompactTextString(m) }
func (*SingleMessageMetadata) ProtoMessage()    {}

func (m *SingleMessageMetadata) GetPayloadSize() int32 {
	if m != nil && m.PayloadSize != nil {
		return *m.PayloadSize
	}
	return 0
}
func (m *SingleMessageMetadata) GetPartitionKey() string {
	if m != nil && m.PartitionKey != nil {
		return *m.PartitionKey
	}
	return ""
}
func (m *SingleMessageMetadata) GetProperties() []*KeyValue {
	if m != nil {
		return m.Properties
	}
	return nil
}
func (m *SingleMessageMetadata) GetEventTime() uint64 {
	if m != nil && m.EventTime != nil {
		return *m.EventTime
	}
	return 0
}

func init() {
	proto.RegisterType((*MessageMetadata)(nil), "pulsar.proto.MessageMetadata")
	proto.RegisterType((*SingleMessageMetadata)(nil), "pulsar.proto.SingleMessageMetadata")
}
