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

type BaseCommand_Type int32

const (
	BaseCommand_CONNECT                             BaseCommand_Type = 2
	BaseCommand_CONNECTED                           BaseCommand_Type = 3
	BaseCommand_SUBSCRIBE                           BaseCommand_Type = 4
	BaseCommand_PRODUCER                            BaseCommand_Type = 5
	BaseCommand_SEND                                BaseCommand_Type = 6
	BaseCommand_SEND_RECEIPT                        BaseCommand_Type = 7
	BaseCommand_SEND_ERROR                          BaseCommand_Type = 8
	BaseCommand_MESSAGE                             BaseCommand_Type = 9
	BaseCommand_ACK                                  BaseCommand_Type = 10
	BaseCommand_FLOW                                 BaseCommand_Type = 11
	BaseCommand_UNSUBSCRIBE                         BaseCommand_Type = 12
	BaseCommand_SUCCESS                              BaseCommand_Type = 13
	BaseCommand_ERROR                                BaseCommand_Type = 14
	BaseCommand_CLOSE_PRODUCER                       BaseCommand_Type = 15
	BaseCommand_CLOSE_CONSUMER                       BaseCommand_Type = 16
	BaseCommand_PRODUCER_SUCCESS                     BaseCommand_Type = 17
	BaseCommand_PING                                 BaseCommand_Type = 18
	BaseCommand_PONG                                 BaseCommand_Type = 19
	BaseCommand_REDELIVER_UNACKNOWLEDGED_MESSAGES    BaseCommand_Type = 20
	BaseCommand_PARTITIONED_METADATA                 BaseCommand_Type = 21
	BaseCommand_PARTITIONED_METADATA_RESPONSE        BaseCommand_Type = 22
	BaseCommand_LOOKUP                               BaseCommand_Type = 23
	BaseCommand_LOOKUP_RESPONSE                      BaseCommand_Type = 24
	BaseCommand_REACHED_END_OF_TOPIC                 BaseCommand_Type = 30
	BaseCommand_SEEK                                 BaseCommand_Type = 31
	BaseCommand_GET_LAST_MESSAGE_ID                  BaseCommand_Type = 32
	BaseCommand_GET_LAST_MESSAGE_ID_RESPONSE         BaseCommand_Type = 33
	BaseCommand_GET_TOPICS_OF_NAMESPACE              BaseCommand_Type = 34
	BaseCommand_GET_TOPICS_OF_NAMESPACE_RESPONSE     BaseCommand_Type = 35
)

var BaseCommand_Type_name = map[int32]string{
	2: "CONNECT", 3: "CONNECTED", 4: "SUBSCRIBE", 5: "PRODUCER", 6: "SEND",
	7: "SEND_RECEIPT", 8: "SEND_ERROR", 9: "MESSAGE", 10: "ACK", 11: "FLOW",
	12: "UNSUBSCRIBE", 13: "SUCCESS", 14: "ERROR", 15: "CLOSE_PRODUCER",
	16: "CLOSE_CONSUMER", 17: "PRODUCER_SUCCESS", 18: "PING", 19: "PONG",
	20: "REDELIVER_UNACKNOWLEDGED_MESSAGES", 21: "PARTITIONED_METADATA",
	22: "PARTITIONED_METADATA_RESPONSE", 23: "LOOKUP", 24: "LOOKUP_RESPONSE",
	30: "REACHED_END_OF_TOPIC", 31: "SEEK", 32: "GET_LAST_MESSAGE_ID",
	33: "GET_LAST_MESSAGE_ID_RESPONSE", 34: "GET_TOPICS_OF_NAMESPACE",
	35: "GET_TOPICS_OF_NAMESPACE_RESPONSE",
}

func (x BaseCommand_Type) Enum() *BaseCommand_Type {
	p := new(BaseCommand_Type)
	*p = x
	return p
}
func (x BaseCommand_Type) String() string { return proto.EnumName(BaseCommand_Type_name, int32(x)) }

// BaseCommand is the envelope for every frame's non-payload command. Exactly
// one of the pointer fields is populated, selected by Type.
type BaseCommand struct {
	Type *BaseCommand_Type `protobuf:"varint,1,req,name=type,enum=pulsar.proto.BaseCommand_Type" json:"type,omitempty"`

	Connect       *CommandConnect       `protobuf:"bytes,2,opt,name=connect" json:"connect,omitempty"`
	Connected     *CommandConnected     `protobuf:"bytes,3,opt,name=connected" json:"connected,omitempty"`
	Subscribe     *CommandSubscribe     `protobuf:"bytes,4,opt,name=subscribe" json:"subscribe,omitempty"`
	Producer      *CommandProducer      `protobuf:"bytes,5,opt,name=producer" json:"producer,omitempty"`
	Send          *CommandSend          `protobuf:"bytes,6,opt,name=send" json:"send,omitempty"`
	SendReceipt   *CommandSendReceipt   `protobuf:"bytes,7,opt,name=send_receipt" json:"send_receipt,omitempty"`
	SendError     *CommandSendError     `protobuf:"bytes,8,opt,name=send_error" json:"send_error,omitempty"`
	Message       *CommandMessage       `protobuf:"bytes,9,opt,name=message" json:"message,omitempty"`
	Ack           *CommandAck           `protobuf:"bytes,10,opt,name=ack" json:"ack,omitempty"`
	Flow          *CommandFlow          `protobuf:"bytes,11,opt,name=flow" json:"flow,omitempty"`
	Unsubscribe   *CommandUnsubscribe   `protobuf:"bytes,12,opt,name=unsubscribe" json:"unsubscribe,omitempty"`
	Success       *CommandSuccess       `protobuf:"bytes,13,opt,name=success" json:"success,omitempty"`
	Error         *CommandError         `protobuf:"bytes,14,opt,name=error" json:"error,omitempty"`
	CloseProducer *CommandCloseProducer `protobuf:"bytes,15,opt,name=close_producer" json:"close_producer,omitempty"`
	CloseConsumer *CommandCloseConsumer `protobuf:"bytes,16,opt,name=close_consumer" json:"close_consumer,omitempty"`

	ProducerSuccess *CommandProducerSuccess `protobuf:"bytes,17,opt,name=producer_success" json:"producer_success,omitempty"`
	Ping            *CommandPing            `protobuf:"bytes,18,opt,name=ping" json:"ping,omitempty"`
	Pong            *CommandPong            `protobuf:"bytes,19,opt,name=pong" json:"pong,omitempty"`

	RedeliverUnacknowledgedMessages *CommandRedeliverUnacknowledgedMessages `protobuf:"bytes,20,opt,name=redeliverUnacknowledgedMessages" json:"redeliverUnacknowledgedMessages,omitempty"`

	PartitionMetadata         *CommandPartitionedTopicMetadata         `protobuf:"bytes,21,opt,name=partitionMetadata" json:"partitionMetadata,omitempty"`
	PartitionMetadataResponse *CommandPartitionedTopicMetadataResponse `protobuf:"bytes,22,opt,name=partitionMetadataResponse" json:"partitionMetadataResponse,omitempty"`

	LookupTopic         *CommandLookupTopic         `protobuf:"bytes,23,opt,name=lookupTopic" json:"lookupTopic,omitempty"`
	LookupTopicResponse *CommandLookupTopicResponse `protobuf:"bytes,24,opt,name=lookupTopicResponse" json:"lookupTopicResponse,omitempty"`

	ReachedEndOfTopic *CommandReachedEndOfTopic `protobuf:"bytes,30,opt,name=reachedEndOfTopic" json:"reachedEndOfTopic,omitempty"`
	Seek              *CommandSeek              `protobuf:"bytes,31,opt,name=seek" json:"seek,omitempty"`

	GetLastMessageId         *CommandGetLastMessageId         `protobuf:"bytes,32,opt,name=getLastMessageId" json:"getLastMessageId,omitempty"`
	GetLastMessageIdResponse *CommandGetLastMessageIdResponse `protobuf:"bytes,33,opt,name=getLastMessageIdResponse" json:"getLastMessageIdResponse,omitempty"`

	GetTopicsOfNamespace         *CommandGetTopicsOfNamespace         `protobuf:"bytes,34,opt,name=getTopicsOfNamespace" json:"getTopicsOfNamespace,omitempty"`
	GetTopicsOfNamespaceResponse *CommandGetTopicsOfNamespaceResponse `protobuf:"bytes,35,opt,name=getTopicsOfNamespaceResponse" json:"getTopicsOfNamespaceResponse,omitempty"`
}

func (m *BaseCommand) Reset()         { *m = BaseCommand{} }
func (m *BaseCommand) String() string { return proto.CompactTextString(m) }
func (*BaseCommand) ProtoMessage()    {}

func (m *BaseCommand) GetType() BaseCommand_Type {
	if m != nil && m.Type != nil {
		return *m.Type
	}
	return BaseCommand_CONNECT
}
func (m *BaseCommand) GetConnect() *CommandConnect {
	if m != nil {
		return m.Connect
	}
	return nil
}
func (m *BaseCommand) GetConnected() *CommandConnected {
	if m != nil {
		return m.Connected
	}
	return nil
}
func (m *BaseCommand) GetSubscribe() *CommandSubscribe {
	if m != nil {
		return m.Subscribe
	}
	return nil
}
func (m *BaseCommand) GetProducer() *CommandProducer {
	if m != nil {
		return m.Producer
	}
	return nil
}
func (m *BaseCommand) GetSend() *CommandSend {
	if m != nil {
		return m.Send
	}
	return nil
}
func (m *BaseCommand) GetSendReceipt() *CommandSendReceipt {
	if m != nil {
		return m.SendReceipt
	}
	return nil
}
func (m *BaseCommand) GetSendError() *CommandSendError {
	if m != nil {
		return m.SendError
	}
	return nil
}
func (m *BaseCommand) GetMessage() *CommandMessage {
	if m != nil {
		return m.Message
	}
	return nil
}
func (m *BaseCommand) GetAck() *CommandAck {
	if m != nil {
		return m.Ack
	}
	return nil
}
func (m *BaseCommand) GetFlow() *CommandFlow {
	if m != nil {
		return m.Flow
	}
	return nil
}
func (m *BaseCommand) GetUnsubscribe() *CommandUnsubscribe {
	if m != nil {
		return m.Unsubscribe
	}
	return nil
}
func (m *BaseCommand) GetSuccess() *CommandSuccess {
	if m != nil {
		return m.Success
	}
	return nil
}
func (m *BaseCommand) GetError() *CommandError {
	if m != nil {
		return m.Error
	}
	return nil
}
func (m *BaseCommand) GetCloseProducer() *CommandCloseProducer {
	if m != nil {
		return m.CloseProducer
	}
	return nil
}
func (m *BaseCommand) GetCloseConsumer() *CommandCloseConsumer {
	if m != nil {
		return m.CloseConsumer
	}
	return nil
}
func (m *BaseCommand) GetProducerSuccess() *CommandProducerSuccess {
	if m != nil {
		return m.ProducerSuccess
	}
	return nil
}
func (m *BaseCommand) GetRedeliverUnacknowledgedMessages() *CommandRedeliverUnacknowledgedMessages {
	if m != nil {
		return m.RedeliverUnacknowledgedMessages
	}
	return nil
}
func (m *BaseCommand) GetPartitionMetadata() *CommandPartitionedTopicMetadata {
	if m != nil {
		return m.PartitionMetadata
	}
	return nil
}
func (m *BaseCommand) GetPartitionMetadataResponse() *CommandPartitionedTopicMetadataResponse {
	if m != nil {
		return m.PartitionMetadataResponse
	}
	return nil
}
func (m *BaseCommand) GetLookupTopic() *CommandLookupTopic {
	if m != nil {
		return m.LookupTopic
	}
	return nil
}
func (m *BaseCommand) GetLookupTopicResponse() *CommandLookupTopicResponse {
	if m != nil {
		return m.LookupTopicResponse
	}
	return nil
}
func (m *BaseCommand) GetReachedEndOfTopic() *CommandReachedEndOfTopic {
	if m != nil {
		return m.ReachedEndOfTopic
	}
	return nil
}
func (m *BaseCommand) GetSeek() *CommandSeek {
	if m != nil {
		return m.Seek
	}
	return nil
}
func (m *BaseCommand) GetGetLastMessageId() *CommandGetLastMessageId {
	if m != nil {
		return m.GetLastMessageId
	}
	return nil
}
func (m *BaseCommand) GetGetLastMessageIdResponse() *CommandGetLastMessageIdResponse {
	if m != nil {
		return m.GetLastMessageIdResponse
	}
	return nil
}
func (m *BaseCommand) GetGetTopicsOfNamespace() *CommandGetTopicsOfNamespace {
	if m != nil {
		return m.GetTopicsOfNamespace
	}
	return nil
}
func (m *BaseCommand) GetGetTopicsOfNamespaceResponse() *CommandGetTopicsOfNamespaceResponse {
	if m != nil {
		return m.GetTopicsOfNamespaceResponse
	}
	return nil
}

type CommandConnect struct {
	ClientVersion    *string          `protobuf:"bytes,1,req,name=client_version" json:"client_version,omitempty"`
	AuthMethod       *AuthMethod      `protobuf:"varint,2,opt,name=auth_method,enum=pulsar.proto.AuthMethod,def=0" json:"auth_method,omitempty"`
	AuthMethodName   *string          `protobuf:"bytes,5,opt,name=auth_method_name" json:"auth_method_name,omitempty"`
	AuthData         []byte           `protobuf:"bytes,3,opt,name=auth_data" json:"auth_data,omitempty"`
	ProtocolVersion  *int32           `protobuf:"varint,4,opt,name=protocol_version,def=0" json:"protocol_version,omitempty"`
	ProxyToBrokerUrl *string          `protobuf:"bytes,6,opt,name=proxy_to_broker_url" json:"proxy_to_broker_url,omitempty"`
}

func (m *CommandConnect) Reset()         { *m = CommandConnect{} }
func (m *CommandConnect) String() string { return proto.CompactTextString(m) }
func (*CommandConnect) ProtoMessage()    {}

type CommandConnected struct {
	ServerVersion   *string          `protobuf:"bytes,1,req,name=server_version" json:"server_version,omitempty"`
	ProtocolVersion *int32           `protobuf:"varint,2,opt,name=protocol_version,def=0" json:"protocol_version,omitempty"`
}

func (m *CommandConnected) Reset()         { *m = CommandConnected{} }
func (m *CommandConnected) String() string { return proto.CompactTextString(m) }
func (*CommandConnected) ProtoMessage()    {}
func (m *CommandConnected) GetProtocolVersion() int32 {
	if m != nil && m.ProtocolVersion != nil {
		return *m.ProtocolVersion
	}
	return 0
}
func (m *CommandConnected) GetServerVersion() string {
	if m != nil && m.ServerVersion != nil {
		return *m.ServerVersion
	}
	return ""
}

type KeyValue struct {
	Key   *string `protobuf:"bytes,1,req,name=key" json:"key,omitempty"`
	Value *string `protobuf:"bytes,2,req,name=value" json:"value,omitempty"`
}

func (m *KeyValue) Reset()         { *m = KeyValue{} }
func (m *KeyValue) String() string { return proto.CompactTextString(m) }
func (*KeyValue) ProtoMessage()    {}
func (m *KeyValue) GetKey() string {
	if m != nil && m.Key != nil {
		return *m.Key
	}
	return ""
}
func (m *KeyValue) GetValue() string {
	if m != nil && m.Value != nil {
		return *m.Value
	}
	return ""
}

type Schema struct {
	Name       *string     `protobuf:"bytes,1,req,name=name" json:"name,omitempty"`
	SchemaData []byte      `protobuf:"bytes,2,req,name=schema_data" json:"schema_data,omitempty"`
	Type       *int32      `protobuf:"varint,3,req,name=type" json:"type,omitempty"`
	Properties []*KeyValue `protobuf:"bytes,4,rep,name=properties" json:"properties,omitempty"`
}

func (m *Schema) Reset()         { *m = Schema{} }
func (m *Schema) String() string { return proto.CompactTextString(m) }
func (*Schema) ProtoMessage()    {}

type CommandSubscribe struct {
	Topic            *string                           `protobuf:"bytes,1,req,name=topic" json:"topic,omitempty"`
	Subscription     *string                           `protobuf:"bytes,2,req,name=subscription" json:"subscription,omitempty"`
	SubType          *CommandSubscribe_SubType         `protobuf:"varint,3,req,name=subType,enum=pulsar.proto.CommandSubscribe_SubType" json:"subType,omitempty"`
	ConsumerId       *uint64                           `protobuf:"varint,4,req,name=consumer_id" json:"consumer_id,omitempty"`
	RequestId        *uint64                           `protobuf:"varint,5,req,name=request_id" json:"request_id,omitempty"`
	ConsumerName     *string                           `protobuf:"bytes,6,opt,name=consumer_name" json:"consumer_name,omitempty"`
	PriorityLevel    *int32                            `protobuf:"varint,7,opt,name=priority_level" json:"priority_level,omitempty"`
	Durable          *bool                             `protobuf:"varint,8,opt,name=durable,def=1" json:"durable,omitempty"`
	StartMessageId   *MessageIdData                    `protobuf:"bytes,9,opt,name=start_message_id" json:"start_message_id,omitempty"`
	Metadata         []*KeyValue                       `protobuf:"bytes,10,rep,name=metadata" json:"metadata,omitempty"`
	ReadCompacted    *bool                             `protobuf:"varint,11,opt,name=read_compacted" json:"read_compacted,omitempty"`
	Schema           *Schema                           `protobuf:"bytes,13,opt,name=schema" json:"schema,omitempty"`
	InitialPosition  *CommandSubscribe_InitialPosition `protobuf:"varint,15,opt,name=initialPosition,enum=pulsar.proto.CommandSubscribe_InitialPosition,def=0" json:"initialPosition,omitempty"`
	ForceTopicCreation *bool                           `protobuf:"varint,17,opt,name=force_topic_creation,def=1" json:"force_topic_creation,omitempty"`
}

func (m *CommandSubscribe) Reset()         { *m = CommandSubscribe{} }
func (m *CommandSubscribe) String() string { return proto.CompactTextString(m) }
func (*CommandSubscribe) ProtoMessage()    {}
func (m *CommandSubscribe) GetTopic() string {
	if m != nil && m.Topic != nil {
		return *m.Topic
	}
	return ""
}
func (m *CommandSubscribe) GetSubscription() string {
	if m != nil && m.Subscription != nil {
		return *m.Subscription
	}
	return ""
}
func (m *CommandSubscribe) GetSubType() CommandSubscribe_SubType {
	if m != nil && m.SubType != nil {
		return *m.SubType
	}
	return CommandSubscribe_Exclusive
}
func (m *CommandSubscribe) GetConsumerId() uint64 {
	if m != nil && m.ConsumerId != nil {
		return *m.ConsumerId
	}
	return 0
}
func (m *CommandSubscribe) GetRequestId() uint64 {
	if m != nil && m.RequestId != nil {
		return *m.RequestId
	}
	return 0
}
func (m *CommandSubscribe) GetConsumerName() string {
	if m != nil && m.ConsumerName != nil {
		return *m.ConsumerName
	}
	return ""
}
func (m *CommandSubscribe) GetDurable() bool {
	if m != nil && m.Durable != nil {
		return *m.Durable
	}
	return true
}
func (m *CommandSubscribe) GetStartMessageId() *MessageIdData {
	if m != nil {
		return m.StartMessageId
	}
	return nil
}
func (m *CommandSubscribe) GetReadCompacted() bool {
	if m != nil && m.ReadCompacted != nil {
		return *m.ReadCompacted
	}
	return false
}

type CommandProducer struct {
	Topic        *string `protobuf:"bytes,1,req,name=topic" json:"topic,omitempty"`
	ProducerId   *uint64 `protobuf:"varint,2,req,name=producer_id" json:"producer_id,omitempty"`
	RequestId    *uint64 `protobuf:"varint,3,req,name=request_id" json:"request_id,omitempty"`
	ProducerName *string `protobuf:"bytes,4,opt,name=producer_name" json:"producer_name,omitempty"`
}

func (m *CommandProducer) Reset()         { *m = CommandProducer{} }
func (m *CommandProducer) String() string { return proto.CompactTextString(m) }
func (*CommandProducer) ProtoMessage()    {}
func (m *CommandProducer) GetTopic() string {
	if m != nil && m.Topic != nil {
		return *m.Topic
	}
	return ""
}
func (m *CommandProducer) GetProducerId() uint64 {
	if m != nil && m.ProducerId != nil {
		return *m.ProducerId
	}
	return 0
}
func (m *CommandProducer) GetRequestId() uint64 {
	if m != nil && m.RequestId != nil {
		return *m.RequestId
	}
	return 0
}
func (m *CommandProducer) GetProducerName() string {
	if m != nil && m.ProducerName != nil {
		return *m.ProducerName
	}
	return ""
}

type CommandProducerSuccess struct {
	RequestId    *uint64 `protobuf:"varint,1,req,name=request_id" json:"request_id,omitempty"`
	ProducerName *string `protobuf:"bytes,2,req,name=producer_name" json:"producer_name,omitempty"`
	LastSequenceId *int64 `protobuf:"varint,3,opt,name=last_sequence_id,def=-1" json:"last_sequence_id,omitempty"`
}

func (m *CommandProducerSuccess) Reset()         { *m = CommandProducerSuccess{} }
func (m *CommandProducerSuccess) String() string { return proto.CompactTextString(m) }
func (*CommandProducerSuccess) ProtoMessage()    {}
func (m *CommandProducerSuccess) GetProducerName() string {
	if m != nil && m.ProducerName != nil {
		return *m.ProducerName
	}
	return ""
}
func (m *CommandProducerSuccess) GetRequestId() uint64 {
	if m != nil && m.RequestId != nil {
		return *m.RequestId
	}
	return 0
}

type CommandSend struct {
	ProducerId  *uint64 `protobuf:"varint,1,req,name=producer_id" json:"producer_id,omitempty"`
	SequenceId  *uint64 `protobuf:"varint,2,req,name=sequence_id" json:"sequence_id,omitempty"`
	NumMessages *int32  `protobuf:"varint,3,opt,name=num_messages,def=1" json:"num_messages,omitempty"`
}

func (m *CommandSend) Reset()         { *m = CommandSend{} }
func (m *CommandSend) String() string { return proto.CompactTextString(m) }
func (*CommandSend) ProtoMessage()    {}
func (m *CommandSend) GetProducerId() uint64 {
	if m != nil && m.ProducerId != nil {
		return *m.ProducerId
	}
	return 0
}
func (m *CommandSend) GetSequenceId() uint64 {
	if m != nil && m.SequenceId != nil {
		return *m.SequenceId
	}
	return 0
}
func (m *CommandSend) GetNumMessages() int32 {
	if m != nil && m.NumMessages != nil {
		return *m.NumMessages
	}
	return 1
}

type CommandSendReceipt struct {
	ProducerId *uint64        `protobuf:"varint,1,req,name=producer_id" json:"producer_id,omitempty"`
	SequenceId *uint64        `protobuf:"varint,2,req,name=sequence_id" json:"sequence_id,omitempty"`
	MessageId  *MessageIdData `protobuf:"bytes,3,opt,name=message_id" json:"message_id,omitempty"`
}

func (m *CommandSendReceipt) Reset()         { *m = CommandSendReceipt{} }
func (m *CommandSendReceipt) String() string { return proto.CompactTextString(m) }
func (*CommandSendReceipt) ProtoMessage()    {}
func (m *CommandSendReceipt) GetSequenceId() uint64 {
	if m != nil && m.SequenceId != nil {
		return *m.SequenceId
	}
	return 0
}
func (m *CommandSendReceipt) GetMessageId() *MessageIdData {
	if m != nil {
		return m.MessageId
	}
	return nil
}
func (m *CommandSendReceipt) GetProducerId() uint64 {
	if m != nil && m.ProducerId != nil {
		return *m.ProducerId
	}
	return 0
}

type CommandSendError struct {
	ProducerId *uint64      `protobuf:"varint,1,req,name=producer_id" json:"producer_id,omitempty"`
	SequenceId *uint64      `protobuf:"varint,2,req,name=sequence_id" json:"sequence_id,omitempty"`
	Error      *ServerError `protobuf:"varint,3,req,name=error,enum=pulsar.proto.ServerError" json:"error,omitempty"`
	Message    *string      `protobuf:"bytes,4,req,name=message" json:"message,omitempty"`
}

func (m *CommandSendError) Reset()         { *m = CommandSendError{} }
func (m *CommandSendError) String() string { return proto.CompactTextString(m) }
func (*CommandSendError) ProtoMessage()    {}
func (m *CommandSendError) GetError() ServerError {
	if m != nil && m.Error != nil {
		return *m.Error
	}
	return ServerError_UnknownError
}
func (m *CommandSendError) GetMessage() string {
	if m != nil && m.Message != nil {
		return *m.Message
	}
	return ""
}
func (m *CommandSendError) GetSequenceId() uint64 {
	if m != nil && m.SequenceId != nil {
		return *m.SequenceId
	}
	return 0
}
func (m *CommandSendError) GetProducerId() uint64 {
	if m != nil && m.ProducerId != nil {
		return *m.ProducerId
	}
	return 0
}

type CommandMessage struct {
	ConsumerId      *uint64        `protobuf:"varint,1,req,name=consumer_id" json:"consumer_id,omitempty"`
	MessageId       *MessageIdData `protobuf:"bytes,2,req,name=message_id" json:"message_id,omitempty"`
	RedeliveryCount *uint32        `protobuf:"varint,3,opt,name=redelivery_count,def=0" json:"redelivery_count,omitempty"`
}

func (m *CommandMessage) Reset()         { *m = CommandMessage{} }
func (m *CommandMessage) String() string { return proto.CompactTextString(m) }
func (*CommandMessage) ProtoMessage()    {}
func (m *CommandMessage) GetMessageId() *MessageIdData {
	if m != nil {
		return m.MessageId
	}
	return nil
}
func (m *CommandMessage) GetRedeliveryCount() uint32 {
	if m != nil && m.RedeliveryCount != nil {
		return *m.RedeliveryCount
	}
	return 0
}
func (m *CommandMessage) GetConsumerId() uint64 {
	if m != nil && m.ConsumerId != nil {
		return *m.ConsumerId
	}
	return 0
}

type MessageIdData struct {
	LedgerId   *uint64 `protobuf:"varint,1,req,name=ledgerId" json:"ledgerId,omitempty"`
	EntryId    *uint64 `protobuf:"varint,2,req,name=entryId" json:"entryId,omitempty"`
	Partition  *int32  `protobuf:"varint,3,opt,name=partition,def=-1" json:"partition,omitempty"`
	BatchIndex *int32  `protobuf:"varint,4,opt,name=batch_index,def=-1" json:"batch_index,omitempty"`
}

func (m *MessageIdData) Reset()         { *m = MessageIdData{} }
func (m *MessageIdData) String() string { return proto.CompactTextString(m) }
func (*MessageIdData) ProtoMessage()    {}
func (m *MessageIdData) GetLedgerId() uint64 {
	if m != nil && m.LedgerId != nil {
		return *m.LedgerId
	}
	return 0
}
func (m *MessageIdData) GetEntryId() uint64 {
	if m != nil && m.EntryId != nil {
		return *m.EntryId
	}
	return 0
}
func (m *MessageIdData) GetPartition() int32 {
	if m != nil && m.Partition != nil {
		return *m.Partition
	}
	return -1
}
func (m *MessageIdData) GetBatchIndex() int32 {
	if m != nil && m.BatchIndex != nil {
		return *m.BatchIndex
	}
	return -1
}

type CommandAck struct {
	ConsumerId      *uint64                     `protobuf:"varint,1,req,name=consumer_id" json:"consumer_id,omitempty"`
	AckType         *CommandAck_AckType         `protobuf:"varint,2,req,name=ack_type,enum=pulsar.proto.CommandAck_AckType" json:"ack_type,omitempty"`
	MessageId       []*MessageIdData            `protobuf:"bytes,3,rep,name=message_id" json:"message_id,omitempty"`
	ValidationError *CommandAck_ValidationError `protobuf:"varint,4,opt,name=validation_error,enum=pulsar.proto.CommandAck_ValidationError" json:"validation_error,omitempty"`
}

func (m *CommandAck) Reset()         { *m = CommandAck{} }
func (m *CommandAck) String() string { return proto.CompactTextString(m) }
func (*CommandAck) ProtoMessage()    {}

func (m *CommandAck) GetConsumerId() uint64 {
	if m != nil && m.ConsumerId != nil {
		return *m.ConsumerId
	}
	return 0
}
func (m *CommandAck) GetAckType() CommandAck_AckType {
	if m != nil && m.AckType != nil {
		return *m.AckType
	}
	return CommandAck_Individual
}
func (m *CommandAck) GetMessageId() []*MessageIdData {
	if m != nil {
		return m.MessageId
	}
	return nil
}

type CommandFlow struct {
	ConsumerId     *uint64 `protobuf:"varint,1,req,name=consumer_id" json:"consumer_id,omitempty"`
	MessagePermits *uint32 `protobuf:"varint,2,req,name=messagePermits" json:"messagePermits,omitempty"`
}

func (m *CommandFlow) Reset()         { *m = CommandFlow{} }
func (m *CommandFlow) String() string { return proto.CompactTextString(m) }
func (*CommandFlow) ProtoMessage()    {}
func (m *CommandFlow) GetConsumerId() uint64 {
	if m != nil && m.ConsumerId != nil {
		return *m.ConsumerId
	}
	return 0
}
func (m *CommandFlow) GetMessagePermits() uint32 {
	if m != nil && m.MessagePermits != nil {
		return *m.MessagePermits
	}
	return 0
}

type CommandUnsubscribe struct {
	ConsumerId *uint64 `protobuf:"varint,1,req,name=consumer_id" json:"consumer_id,omitempty"`
	RequestId  *uint64 `protobuf:"varint,2,req,name=request_id" json:"request_id,omitempty"`
}

func (m *CommandUnsubscribe) Reset()         { *m = CommandUnsubscribe{} }
func (m *CommandUnsubscribe) String() string { return proto.CompactTextString(m) }
func (*CommandUnsubscribe) ProtoMessage()    {}
func (m *CommandUnsubscribe) GetConsumerId() uint64 {
	if m != nil && m.ConsumerId != nil {
		return *m.ConsumerId
	}
	return 0
}
func (m *CommandUnsubscribe) GetRequestId() uint64 {
	if m != nil && m.RequestId != nil {
		return *m.RequestId
	}
	return 0
}

type CommandSuccess struct {
	RequestId *uint64 `protobuf:"varint,1,req,name=request_id" json:"request_id,omitempty"`
	Schema    *Schema `protobuf:"bytes,2,opt,name=schema" json:"schema,omitempty"`
}

func (m *CommandSuccess) Reset()         { *m = CommandSuccess{} }
func (m *CommandSuccess) String() string { return proto.CompactTextString(m) }
func (*CommandSuccess) ProtoMessage()    {}
func (m *CommandSuccess) GetRequestId() uint64 {
	if m != nil && m.RequestId != nil {
		return *m.RequestId
	}
	return 0
}

type CommandError struct {
	RequestId *uint64      `protobuf:"varint,1,req,name=request_id" json:"request_id,omitempty"`
	Error     *ServerError `protobuf:"varint,2,req,name=error,enum=pulsar.proto.ServerError" json:"error,omitempty"`
	Message   *string      `protobuf:"bytes,3,req,name=message" json:"message,omitempty"`
}

func (m *CommandError) Reset()         { *m = CommandError{} }
func (m *CommandError) String() string { return proto.CompactTextString(m) }
func (*CommandError) ProtoMessage()    {}
func (m *CommandError) GetError() ServerError {
	if m != nil && m.Error != nil {
		return *m.Error
	}
	return ServerError_UnknownError
}
func (m *CommandError) GetMessage() string {
	if m != nil && m.Message != nil {
		return *m.Message
	}
	return ""
}
func (m *CommandError) GetRequestId() uint64 {
	if m != nil && m.RequestId != nil {
		return *m.RequestId
	}
	return 0
}

type CommandCloseProducer struct {
	ProducerId *uint64 `protobuf:"varint,1,req,name=producer_id" json:"producer_id,omitempty"`
	RequestId  *uint64 `protobuf:"varint,2,req,name=request_id" json:"request_id,omitempty"`
}

func (m *CommandCloseProducer) Reset()         { *m = CommandCloseProducer{} }
func (m *CommandCloseProducer) String() string { return proto.CompactTextString(m) }
func (*CommandCloseProducer) ProtoMessage()    {}
func (m *CommandCloseProducer) GetProducerId() uint64 {
	if m != nil && m.ProducerId != nil {
		return *m.ProducerId
	}
	return 0
}
func (m *CommandCloseProducer) GetRequestId() uint64 {
	if m != nil && m.RequestId != nil {
		return *m.RequestId
	}
	return 0
}

type CommandCloseConsumer struct {
	ConsumerId *uint64 `protobuf:"varint,1,req,name=consumer_id" json:"consumer_id,omitempty"`
	RequestId  *uint64 `protobuf:"varint,2,req,name=request_id" json:"request_id,omitempty"`
}

func (m *CommandCloseConsumer) Reset()         { *m = CommandCloseConsumer{} }
func (m *CommandCloseConsumer) String() string { return proto.CompactTextString(m) }
func (*CommandCloseConsumer) ProtoMessage()    {}
func (m *CommandCloseConsumer) GetConsumerId() uint64 {
	if m != nil && m.ConsumerId != nil {
		return *m.ConsumerId
	}
	return 0
}
func (m *CommandCloseConsumer) GetRequestId() uint64 {
	if m != nil && m.RequestId != nil {
		return *m.RequestId
	}
	return 0
}

type CommandPing struct{}

func (m *CommandPing) Reset()         { *m = CommandPing{} }
func (m *CommandPing) String() string { return proto.CompactTextString(m) }
func (*CommandPing) ProtoMessage()    {}

type CommandPong struct{}

func (m *CommandPong) Reset()         { *m = CommandPong{} }
func (m *CommandPong) String() string { return proto.CompactTextString(m) }
func (*CommandPong) ProtoMessage()    {}

type CommandRedeliverUnacknowledgedMessages struct {
	ConsumerId *uint64          `protobuf:"varint,1,req,name=consumer_id" json:"consumer_id,omitempty"`
	MessageIds []*MessageIdData `protobuf:"bytes,2,rep,name=message_ids" json:"message_ids,omitempty"`
}

func (m *CommandRedeliverUnacknowledgedMessages) Reset() {
	*m = CommandRedeliverUnacknowledgedMessages{}
}
func (m *CommandRedeliverUnacknowledgedMessages) String() string { return proto.CompactTextString(m) }
func (*CommandRedeliverUnacknowledgedMessages) ProtoMessage()    {}
func (m *CommandRedeliverUnacknowledgedMessages) GetConsumerId() uint64 {
	if m != nil && m.ConsumerId != nil {
		return *m.ConsumerId
	}
	return 0
}
func (m *CommandRedeliverUnacknowledgedMessages) GetMessageIds() []*MessageIdData {
	if m != nil {
		return m.MessageIds
	}
	return nil
}

type CommandPartitionedTopicMetadata struct {
	Topic     *string `protobuf:"bytes,1,req,name=topic" json:"topic,omitempty"`
	RequestId *uint64 `protobuf:"varint,2,req,name=request_id" json:"request_id,omitempty"`
}

func (m *CommandPartitionedTopicMetadata) Reset()         { *m = CommandPartitionedTopicMetadata{} }
func (m *CommandPartitionedTopicMetadata) String() string { return proto.CompactTextString(m) }
func (*CommandPartitionedTopicMetadata) ProtoMessage()    {}
func (m *CommandPartitionedTopicMetadata) GetTopic() string {
	if m != nil && m.Topic != nil {
		return *m.Topic
	}
	return ""
}
func (m *CommandPartitionedTopicMetadata) GetRequestId() uint64 {
	if m != nil && m.RequestId != nil {
		return *m.RequestId
	}
	return 0
}

type CommandPartitionedTopicMetadataResponse struct {
	Partitions *uint32      `protobuf:"varint,1,opt,name=partitions" json:"partitions,omitempty"`
	RequestId  *uint64      `protobuf:"varint,2,req,name=request_id" json:"request_id,omitempty"`
	Response   *ServerError `protobuf:"varint,3,opt,name=response,enum=pulsar.proto.ServerError" json:"response,omitempty"`
	Error      *ServerError `protobuf:"varint,4,opt,name=error,enum=pulsar.proto.ServerError" json:"error,omitempty"`
	Message    *string      `protobuf:"bytes,5,opt,name=message" json:"message,omitempty"`
}

func (m *CommandPartitionedTopicMetadataResponse) Reset() {
	*m = CommandPartitionedTopicMetadataResponse{}
}
func (m *CommandPartitionedTopicMetadataResponse) String() string { return proto.CompactTextString(m) }
func (*CommandPartitionedTopicMetadataResponse) ProtoMessage()    {}
func (m *CommandPartitionedTopicMetadataResponse) GetPartitions() uint32 {
	if m != nil && m.Partitions != nil {
		return *m.Partitions
	}
	return 0
}
func (m *CommandPartitionedTopicMetadataResponse) GetError() ServerError {
	if m != nil && m.Error != nil {
		return *m.Error
	}
	return ServerError_UnknownError
}
func (m *CommandPartitionedTopicMetadataResponse) GetMessage() string {
	if m != nil && m.Message != nil {
		return *m.Message
	}
	return ""
}
func (m *CommandPartitionedTopicMetadataResponse) GetRequestId() uint64 {
	if m != nil && m.RequestId != nil {
		return *m.RequestId
	}
	return 0
}

type CommandLookupTopic struct {
	Topic         *string `protobuf:"bytes,1,req,name=topic" json:"topic,omitempty"`
	RequestId     *uint64 `protobuf:"varint,2,req,name=request_id" json:"request_id,omitempty"`
	Authoritative *bool   `protobuf:"varint,3,opt,name=authoritative,def=0" json:"authoritative,omitempty"`
}

func (m *CommandLookupTopic) Reset()         { *m = CommandLookupTopic{} }
func (m *CommandLookupTopic) String() string { return proto.CompactTextString(m) }
func (*CommandLookupTopic) ProtoMessage()    {}
func (m *CommandLookupTopic) GetTopic() string {
	if m != nil && m.Topic != nil {
		return *m.Topic
	}
	return ""
}
func (m *CommandLookupTopic) GetRequestId() uint64 {
	if m != nil && m.RequestId != nil {
		return *m.RequestId
	}
	return 0
}
func (m *CommandLookupTopic) GetAuthoritative() bool {
	if m != nil && m.Authoritative != nil {
		return *m.Authoritative
	}
	return false
}

type CommandLookupTopicResponse struct {
	BrokerServiceUrl    *string                                 `protobuf:"bytes,1,opt,name=brokerServiceUrl" json:"brokerServiceUrl,omitempty"`
	BrokerServiceUrlTls *string                                 `protobuf:"bytes,2,opt,name=brokerServiceUrlTls" json:"brokerServiceUrlTls,omitempty"`
	Response            *CommandLookupTopicResponse_LookupType  `protobuf:"varint,3,opt,name=response,enum=pulsar.proto.CommandLookupTopicResponse_LookupType" json:"response,omitempty"`
	RequestId           *uint64                                 `protobuf:"varint,4,req,name=request_id" json:"request_id,omitempty"`
	Authoritative       *bool                                   `protobuf:"varint,5,opt,name=authoritative,def=0" json:"authoritative,omitempty"`
	Error               *ServerError                            `protobuf:"varint,6,opt,name=error,enum=pulsar.proto.ServerError" json:"error,omitempty"`
	Message             *string                                 `protobuf:"bytes,7,opt,name=message" json:"message,omitempty"`
	ProxyThroughServiceUrl *bool                                `protobuf:"varint,8,opt,name=proxy_through_service_url,def=0" json:"proxy_through_service_url,omitempty"`
}

func (m *CommandLookupTopicResponse) Reset()         { *m = CommandLookupTopicResponse{} }
func (m *CommandLookupTopicResponse) String() string { return proto.CompactTextString(m) }
func (*CommandLookupTopicResponse) ProtoMessage()    {}
func (m *CommandLookupTopicResponse) GetBrokerServiceUrl() string {
	if m != nil && m.BrokerServiceUrl != nil {
		return *m.BrokerServiceUrl
	}
	return ""
}
func (m *CommandLookupTopicResponse) GetResponse() CommandLookupTopicResponse_LookupType {
	if m != nil && m.Response != nil {
		return *m.Response
	}
	return CommandLookupTopicResponse_Redirect
}
func (m *CommandLookupTopicResponse) GetAuthoritative() bool {
	if m != nil && m.Authoritative != nil {
		return *m.Authoritative
	}
	return false
}
func (m *CommandLookupTopicResponse) GetError() ServerError {
	if m != nil && m.Error != nil {
		return *m.Error
	}
	return ServerError_UnknownError
}
func (m *CommandLookupTopicResponse) GetMessage() string {
	if m != nil && m.Message != nil {
		return *m.Message
	}
	return ""
}
func (m *CommandLookupTopicResponse) GetProxyThroughServiceUrl() bool {
	if m != nil && m.ProxyThroughServiceUrl != nil {
		return *m.ProxyThroughServiceUrl
	}
	return false
}
func (m *CommandLookupTopicResponse) GetRequestId() uint64 {
	if m != nil && m.RequestId != nil {
		return *m.RequestId
	}
	return 0
}

type CommandReachedEndOfTopic struct {
	ConsumerId *uint64 `protobuf:"varint,1,req,name=consumer_id" json:"consumer_id,omitempty"`
}

func (m *CommandReachedEndOfTopic) Reset()         { *m = CommandReachedEndOfTopic{} }
func (m *CommandReachedEndOfTopic) String() string { return proto.CompactTextString(m) }
func (*CommandReachedEndOfTopic) ProtoMessage()    {}
func (m *CommandReachedEndOfTopic) GetConsumerId() uint64 {
	if m != nil && m.ConsumerId != nil {
		return *m.ConsumerId
	}
	return 0
}

type CommandSeek struct {
	ConsumerId         *uint64         `protobuf:"varint,1,req,name=consumer_id" json:"consumer_id,omitempty"`
	RequestId          *uint64         `protobuf:"varint,2,req,name=request_id" json:"request_id,omitempty"`
	MessageId          *MessageIdData  `protobuf:"bytes,3,opt,name=message_id" json:"message_id,omitempty"`
	MessagePublishTime *uint64         `protobuf:"varint,4,opt,name=message_publish_time" json:"message_publish_time,omitempty"`
}

func (m *CommandSeek) Reset()         { *m = CommandSeek{} }
func (m *CommandSeek) String() string { return proto.CompactTextString(m) }
func (*CommandSeek) ProtoMessage()    {}
func (m *CommandSeek) GetConsumerId() uint64 {
	if m != nil && m.ConsumerId != nil {
		return *m.ConsumerId
	}
	return 0
}
func (m *CommandSeek) GetRequestId() uint64 {
	if m != nil && m.RequestId != nil {
		return *m.RequestId
	}
	return 0
}
func (m *CommandSeek) GetMessageId() *MessageIdData {
	if m != nil {
		return m.MessageId
	}
	return nil
}
func (m *CommandSeek) GetMessagePublishTime() uint64 {
	if m != nil && m.MessagePublishTime != nil {
		return *m.MessagePublishTime
	}
	return 0
}

type CommandGetLastMessageId struct {
	ConsumerId *uint64 `protobuf:"varint,1,req,name=consumer_id" json:"consumer_id,omitempty"`
	RequestId  *uint64 `protobuf:"varint,2,req,name=request_id" json:"request_id,omitempty"`
}

func (m *CommandGetLastMessageId) Reset()         { *m = CommandGetLastMessageId{} }
func (m *CommandGetLastMessageId) String() string { return proto.CompactTextString(m) }
func (*CommandGetLastMessageId) ProtoMessage()    {}
func (m *CommandGetLastMessageId) GetConsumerId() uint64 {
	if m != nil && m.ConsumerId != nil {
		return *m.ConsumerId
	}
	return 0
}
func (m *CommandGetLastMessageId) GetRequestId() uint64 {
	if m != nil && m.RequestId != nil {
		return *m.RequestId
	}
	return 0
}

type CommandGetLastMessageIdResponse struct {
	LastMessageId *MessageIdData `protobuf:"bytes,1,req,name=last_message_id" json:"last_message_id,omitempty"`
	RequestId     *uint64        `protobuf:"varint,2,req,name=request_id" json:"request_id,omitempty"`
}

func (m *CommandGetLastMessageIdResponse) Reset()         { *m = CommandGetLastMessageIdResponse{} }
func (m *CommandGetLastMessageIdResponse) String() string { return proto.CompactTextString(m) }
func (*CommandGetLastMessageIdResponse) ProtoMessage()    {}
func (m *CommandGetLastMessageIdResponse) GetLastMessageId() *MessageIdData {
	if m != nil {
		return m.LastMessageId
	}
	return nil
}
func (m *CommandGetLastMessageIdResponse) GetRequestId() uint64 {
	if m != nil && m.RequestId != nil {
		return *m.RequestId
	}
	return 0
}

type CommandGetTopicsOfNamespace struct {
	RequestId *uint64                           `protobuf:"varint,1,req,name=request_id" json:"request_id,omitempty"`
	Namespace *string                           `protobuf:"bytes,2,req,name=namespace" json:"namespace,omitempty"`
	Mode      *CommandGetTopicsOfNamespace_Mode `protobuf:"varint,3,opt,name=mode,enum=pulsar.proto.CommandGetTopicsOfNamespace_Mode,def=0" json:"mode,omitempty"`
}

func (m *CommandGetTopicsOfNamespace) Reset()         { *m = CommandGetTopicsOfNamespace{} }
func (m *CommandGetTopicsOfNamespace) String() string { return proto.CompactTextString(m) }
func (*CommandGetTopicsOfNamespace) ProtoMessage()    {}
func (m *CommandGetTopicsOfNamespace) GetRequestId() uint64 {
	if m != nil && m.RequestId != nil {
		return *m.RequestId
	}
	return 0
}
func (m *CommandGetTopicsOfNamespace) GetNamespace() string {
	if m != nil && m.Namespace != nil {
		return *m.Namespace
	}
	return ""
}
func (m *CommandGetTopicsOfNamespace) GetMode() CommandGetTopicsOfNamespace_Mode {
	if m != nil && m.Mode != nil {
		return *m.Mode
	}
	return CommandGetTopicsOfNamespace_PERSISTENT
}

type CommandGetTopicsOfNamespaceResponse struct {
	RequestId *uint64  `protobuf:"varint,1,req,name=request_id" json:"request_id,omitempty"`
	Topics    []string `protobuf:"bytes,2,rep,name=topics" json:"topics,omitempty"`
}

func (m *CommandGetTopicsOfNamespaceResponse) Reset()         { *m = CommandGetTopicsOfNamespaceResponse{} }
func (m *CommandGetTopicsOfNamespaceResponse) String() string { return proto.CompactTextString(m) }
func (*CommandGetTopicsOfNamespaceResponse) ProtoMessage()    {}
func (m *CommandGetTopicsOfNamespaceResponse) GetTopics() []string {
	if m != nil {
		return m.Topics
	}
	return nil
}
func (m *CommandGetTopicsOfNamespaceResponse) GetRequestId() uint64 {
	if m != nil && m.RequestId != nil {
		return *m.RequestId
	}
	return 0
}

func init() {
	proto.RegisterType((*BaseCommand)(nil), "pulsar.proto.BaseCommand")
	proto.RegisterType((*CommandConnect)(nil), "pulsar.proto.CommandConnect")
	proto.RegisterType((*CommandConnected)(nil), "pulsar.proto.CommandConnected")
	proto.RegisterType((*CommandSubscribe)(nil), "pulsar.proto.CommandSubscribe")
	proto.RegisterType((*CommandProducer)(nil), "pulsar.proto.CommandProducer")
	proto.RegisterType((*CommandProducerSuccess)(nil), "pulsar.proto.CommandProducerSuccess")
	proto.RegisterType((*CommandSend)(nil), "pulsar.proto.CommandSend")
	proto.RegisterType((*CommandSendReceipt)(nil), "pulsar.proto.CommandSendReceipt")
	proto.RegisterType((*CommandSendError)(nil), "pulsar.proto.CommandSendError")
	proto.RegisterType((*CommandMessage)(nil), "pulsar.proto.CommandMessage")
	proto.RegisterType((*MessageIdData)(nil), "pulsar.proto.MessageIdData")
	proto.RegisterType((*CommandAck)(nil), "pulsar.proto.CommandAck")
	proto.RegisterType((*CommandFlow)(nil), "pulsar.proto.CommandFlow")
	proto.RegisterType((*CommandUnsubscribe)(nil), "pulsar.proto.CommandUnsubscribe")
	proto.RegisterType((*CommandSuccess)(nil), "pulsar.proto.CommandSuccess")
	proto.RegisterType((*CommandError)(nil), "pulsar.proto.CommandError")
	proto.RegisterType((*CommandCloseProducer)(nil), "pulsar.proto.CommandCloseProducer")
	proto.RegisterType((*CommandCloseConsumer)(nil), "pulsar.proto.CommandCloseConsumer")
	proto.RegisterType((*CommandRedeliverUnacknowledgedMessages)(nil), "pulsar.proto.CommandRedeliverUnacknowledgedMessages")
	proto.RegisterType((*CommandPartitionedTopicMetadata)(nil), "pulsar.proto.CommandPartitionedTopicMetadata")
	proto.RegisterType((*CommandPartitionedTopicMetadataResponse)(nil), "pulsar.proto.CommandPartitionedTopicMetadataResponse")
	proto.RegisterType((*CommandLookupTopic)(nil), "pulsar.proto.CommandLookupTopic")
	proto.RegisterType((*CommandLookupTopicResponse)(nil), "pulsar.proto.CommandLookupTopicResponse")
	proto.RegisterType((*CommandReachedEndOfTopic)(nil), "pulsar.proto.CommandReachedEndOfTopic")
	proto.RegisterType((*CommandSeek)(nil), "pulsar.proto.CommandSeek")
	proto.RegisterType((*CommandGetLastMessageId)(nil), "pulsar.proto.CommandGetLastMessageId")
	proto.RegisterType((*CommandGetLastMessageIdResponse)(nil), "pulsar.proto.CommandGetLastMessageIdResponse")
	proto.RegisterType((*CommandGetTopicsOfNamespace)(nil), "pulsar.proto.CommandGetTopicsOfNamespace")
	proto.RegisterType((*CommandGetTopicsOfNamespaceResponse)(nil), "pulsar.proto.CommandGetTopicsOfNamespaceResponse")
}
