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

// Package sub implements the consumer engine: the SUBSCRIBE/FLOW handshake,
// incoming MESSAGE decoding (including batch unpacking), ack grouping,
// unacked-message redelivery, and negative-ack redelivery.
//
// Grounded in core/pub.Producer's call-blocking idiom (mutex-guarded state,
// Dispatcher-registered reply channels) generalized to the consumer side,
// and in godchen0212-pulsar-client-go's impl_partition_consumer.go /
// impl_message.go for the batch-unpacking and flow-control shape.
package sub

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang/protobuf/proto"
	"github.com/pulsarcore/go-client/compression"
	"github.com/pulsarcore/go-client/core/ack"
	"github.com/pulsarcore/go-client/core/frame"
	"github.com/pulsarcore/go-client/core/msg"
	"github.com/pulsarcore/go-client/core/nack"
	"github.com/pulsarcore/go-client/core/unacked"
	"github.com/pulsarcore/go-client/pkg/api"
	"github.com/pulsarcore/go-client/pkg/log"
	"github.com/pulsarcore/go-client/utils"
)

// ErrClosedConsumer is returned when attempting an operation on a closed
// Consumer.
var ErrClosedConsumer = errors.New("consumer is closed")

// Config configures a Consumer's subscription and internal trackers.
type Config struct {
	Topic        string
	Subscription string
	SubType      api.CommandSubscribe_SubType
	ConsumerName string
	Earliest     bool

	// NonDurable marks the subscription as non-durable, the way a Reader's
	// underlying Consumer is: the broker does not persist a cursor for it
	// across disconnects.
	NonDurable bool

	// StartMessageID, when non-nil, asks the broker to begin the
	// subscription's cursor immediately after (or at, if StartInclusive)
	// this message id rather than at Earliest/Latest. Used by Reader.
	StartMessageID *msg.MessageID
	StartInclusive bool

	// ReadCompacted asks the broker to serve the compacted view of the
	// topic, where only the latest message per key survives.
	ReadCompacted bool

	ReceiverQueueSize uint32
	AckTimeout        time.Duration
	NegativeAckDelay  time.Duration

	// AckGroupingInterval is how often buffered acks are flushed; 0 sends
	// every ack as soon as it is made.
	AckGroupingInterval time.Duration
}

// SetDefaults fills in the zero-valued fields the way the teacher's
// ConsumerConfig.SetDefaults does for ManagedConsumer.
func (c Config) SetDefaults() Config {
	if c.ReceiverQueueSize == 0 {
		c.ReceiverQueueSize = 1000
	}
	if c.NegativeAckDelay == 0 {
		c.NegativeAckDelay = time.Minute
	}
	if c.ConsumerName == "" {
		c.ConsumerName = utils.GenerateName("consumer")
	}
	return c
}

// NewConsumer performs the SUBSCRIBE handshake, wires up the ack/unacked/
// nack trackers, and sends the initial flow permits. Incoming MESSAGE,
// CLOSE_CONSUMER and REACHED_END_OF_TOPIC frames must be routed to
// HandlePush by the owning Connection's conn.Router (via AddConsumer).
func NewConsumer(ctx context.Context, s frame.CmdSender, dispatcher *frame.Dispatcher, reqID *msg.MonotonicID, consumerID uint64, cfg Config, out chan msg.Message) (*Consumer, error) {
	cfg = cfg.SetDefaults()

	c := &Consumer{
		S:              s,
		ConsumerID:     consumerID,
		ReqID:          reqID,
		Dispatcher:     dispatcher,
		cfg:            cfg,
		out:            out,
		Closedc:        make(chan struct{}),
		reachedEndc:    make(chan struct{}),
		OverflowSignal: make(chan struct{}, 1),
	}

	c.ackTracker = ack.NewGroupingTracker(cfg.AckGroupingInterval, c.flushAck)
	c.unackedTracker = unacked.NewTracker(cfg.AckTimeout, tickDuration(cfg.AckTimeout), c.redeliverIDs)
	c.nackTracker = nack.NewTracker(cfg.NegativeAckDelay, tickDuration(cfg.NegativeAckDelay), c.redeliverIDs)

	if err := c.subscribe(ctx); err != nil {
		c.unackedTracker.Close()
		c.nackTracker.Close()
		return nil, err
	}

	if cfg.StartMessageID != nil && cfg.StartInclusive {
		if err := c.Seek(ctx, *cfg.StartMessageID); err != nil {
			c.unackedTracker.Close()
			c.nackTracker.Close()
			return nil, err
		}
	}

	if err := c.Flow(cfg.ReceiverQueueSize); err != nil {
		return nil, err
	}

	return c, nil
}

// tickDuration picks a tracker tick rate proportional to the configured
// deadline, with a floor so a short AckTimeout/NegativeAckDelay doesn't spin
// a ticker too fast.
func tickDuration(deadline time.Duration) time.Duration {
	if deadline <= 0 {
		return time.Second
	}
	t := deadline / 10
	if t < 100*time.Millisecond {
		t = 100 * time.Millisecond
	}
	return t
}

// Consumer is responsible for one broker-side subscription on one
// connection and manages its state: SUBSCRIBE/FLOW handshake, decoding of
// pushed MESSAGE frames (including batch unpacking), ack grouping, and
// redelivery of unacked/nacked messages.
type Consumer struct {
	S frame.CmdSender

	ConsumerID uint64
	ReqID      *msg.MonotonicID
	Dispatcher *frame.Dispatcher

	cfg Config
	out chan msg.Message

	ackTracker     *ack.GroupingTracker
	unackedTracker *unacked.Tracker
	nackTracker    *nack.Tracker

	Mu       sync.RWMutex // protects following
	IsClosed bool
	Closedc  chan struct{}

	reachedEndc chan struct{}
	endOnce     sync.Once

	permitsMu        sync.Mutex
	availablePermits uint32

	lastReadMu sync.RWMutex
	lastRead   msg.MessageID

	// batchMu guards lastBatchTailID, the last sub-message id of the most
	// recently received batch, recorded so the next batch's BatchAcker knows
	// which id to cumulative-ack if a caller acks cumulatively into it before
	// every sub-index has been individually acked.
	batchMu         sync.Mutex
	lastBatchTailID *msg.MessageID

	// OverflowSignal is pulsed (non-blocking send) whenever a pushed
	// message can't be placed on out without blocking; Overflow counts how
	// many messages have backed up since the last RedeliverOverflow drain.
	// After a reconnect the broker redelivers everything unacked anyway, so
	// the counters start fresh with each consumer.
	OverflowSignal chan struct{}
	Omu            sync.Mutex
	Overflow       int
}

// subscribe sends CommandSubscribe and waits for SUCCESS or ERROR.
func (c *Consumer) subscribe(ctx context.Context) error {
	requestID := c.ReqID.Next()

	resp, cancel, err := c.Dispatcher.RegisterReqID(*requestID)
	if err != nil {
		return err
	}
	defer cancel()

	initialPosition := api.CommandSubscribe_Latest
	if c.cfg.Earliest {
		initialPosition = api.CommandSubscribe_Earliest
	}

	subscribeCmd := &api.CommandSubscribe{
		Topic:           proto.String(c.cfg.Topic),
		Subscription:    proto.String(c.cfg.Subscription),
		SubType:         c.cfg.SubType.Enum(),
		ConsumerId:      proto.Uint64(c.ConsumerID),
		RequestId:       requestID,
		ConsumerName:    proto.String(c.cfg.ConsumerName),
		Durable:         proto.Bool(!c.cfg.NonDurable),
		InitialPosition: initialPosition.Enum(),
	}
	if c.cfg.ReadCompacted {
		subscribeCmd.ReadCompacted = proto.Bool(true)
	}
	if c.cfg.StartMessageID != nil {
		subscribeCmd.StartMessageId = c.cfg.StartMessageID.ToProto()
	}

	cmd := api.BaseCommand{
		Type:      api.BaseCommand_SUBSCRIBE.Enum(),
		Subscribe: subscribeCmd,
	}

	if err := c.S.SendSimpleCmd(cmd); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		return ctx.Err()

	case <-c.S.Closed():
		return ErrClosedConsumer

	case f := <-resp:
		switch msgType := f.BaseCmd.GetType(); msgType {
		case api.BaseCommand_SUCCESS:
			return nil
		case api.BaseCommand_ERROR:
			errMsg := f.BaseCmd.GetError()
			return fmt.Errorf("%s: %s", errMsg.GetError().String(), errMsg.GetMessage())
		default:
			return utils.NewUnexpectedErrMsg(msgType, c.ConsumerID, *requestID)
		}
	}
}

// Flow sends additional message permits to the broker.
func (c *Consumer) Flow(permits uint32) error {
	if permits == 0 {
		return nil
	}

	c.Mu.RLock()
	if c.IsClosed {
		c.Mu.RUnlock()
		return ErrClosedConsumer
	}
	c.Mu.RUnlock()

	cmd := api.BaseCommand{
		Type: api.BaseCommand_FLOW.Enum(),
		Flow: &api.CommandFlow{
			ConsumerId:     proto.Uint64(c.ConsumerID),
			MessagePermits: proto.Uint32(permits),
		},
	}

	return c.S.SendSimpleCmd(cmd)
}

// messageProcessed accounts for n messages leaving the broker's permit
// budget (delivered to the application, filtered out, or dropped as
// duplicates). Once half the receiver queue's worth of permits has been
// used up, a replacement FLOW is sent and the counter resets to zero.
func (c *Consumer) messageProcessed(n uint32) {
	if n == 0 {
		return
	}

	threshold := c.cfg.ReceiverQueueSize / 2
	if threshold == 0 {
		threshold = 1
	}

	c.permitsMu.Lock()
	c.availablePermits += n
	var toFlow uint32
	if c.availablePermits >= threshold {
		toFlow = c.availablePermits
		c.availablePermits = 0
	}
	c.permitsMu.Unlock()

	if toFlow > 0 {
		if err := c.Flow(toFlow); err != nil {
			log.Warnf("consumer %d: replenishing %d flow permits: %v", c.ConsumerID, toFlow, err)
		}
	}
}

// HandlePush is the entry point registered with conn.Router.AddConsumer. It
// dispatches a pushed MESSAGE, CLOSE_CONSUMER, or REACHED_END_OF_TOPIC
// frame.
func (c *Consumer) HandlePush(f frame.Frame) {
	switch f.BaseCmd.GetType() {
	case api.BaseCommand_MESSAGE:
		c.handleMessage(f)
	case api.BaseCommand_CLOSE_CONSUMER:
		c.handleCloseConsumer()
	case api.BaseCommand_REACHED_END_OF_TOPIC:
		c.endOnce.Do(func() { close(c.reachedEndc) })
	default:
		log.Warnf("consumer %d: ignoring unexpected pushed frame type %s", c.ConsumerID, f.BaseCmd.GetType())
	}
}

// handleMessage decodes a pushed MESSAGE frame, unpacking a batch payload
// into its sub-messages if one is present, and enqueues each onto out,
// tracking every id for ack-timeout redelivery. Entries already covered by
// the ack grouping tracker (broker redelivered something already acked) and
// sub-messages prior to a non-durable subscription's start position are
// dropped, releasing their flow permits as if they had been consumed.
func (c *Consumer) handleMessage(f frame.Frame) {
	cmdMsg := f.BaseCmd.GetMessage()

	numMessages := int(f.Metadata.GetNumMessagesInBatch())
	if numMessages < 1 {
		numMessages = 1
	}
	ledgerID := cmdMsg.GetMessageId().GetLedgerId()
	entryID := cmdMsg.GetMessageId().GetEntryId()

	c.lastReadMu.Lock()
	c.lastRead = msg.FromProto(cmdMsg.GetMessageId(), nil)
	c.lastReadMu.Unlock()

	if numMessages <= 1 && f.Metadata.NumMessagesInBatch == nil {
		id := msg.FromProto(cmdMsg.GetMessageId(), nil)

		if c.ackTracker.IsDuplicate(id) {
			c.releaseFilteredPermits(1)
			return
		}
		if c.isPriorEntryIndex(ledgerID, entryID) {
			c.releaseFilteredPermits(1)
			return
		}

		payload, err := c.decompress(f.Metadata, f.Payload)
		if err != nil {
			log.Warnf("consumer %d: dropping message %v, decompress failed: %v", c.ConsumerID, id, err)
			return
		}

		m := msg.Message{
			ID:              id,
			Metadata:        *f.Metadata,
			Payload:         payload,
			Topic:           c.cfg.Topic,
			Properties:      keyValuesToMap(f.Metadata.GetProperties()),
			Key:             f.Metadata.GetPartitionKey(),
			RedeliveryCount: cmdMsg.GetRedeliveryCount(),
		}
		c.unackedTracker.Add(id)
		c.enqueue(m)
		c.messageProcessed(1)
		return
	}

	// Duplicate check against the entry's last sub-index: a cumulative ack
	// covering that id means the whole entry was already consumed.
	entryTail := msg.MessageID{LedgerID: ledgerID, EntryID: entryID, Partition: cmdMsg.GetMessageId().GetPartition(), BatchIndex: int32(numMessages - 1)}
	if c.ackTracker.IsDuplicate(entryTail) {
		c.releaseFilteredPermits(uint32(numMessages))
		return
	}

	payload, err := c.decompress(f.Metadata, f.Payload)
	if err != nil {
		log.Warnf("consumer %d: dropping batch, decompress failed: %v", c.ConsumerID, err)
		return
	}

	c.batchMu.Lock()
	prevTail := c.lastBatchTailID
	c.batchMu.Unlock()

	acker := msg.NewBatchAcker(numMessages, prevTail)
	var lastID msg.MessageID
	for idx := 0; idx < numMessages; idx++ {
		smm, body, rest, err := decodeSingleMessage(payload)
		if err != nil {
			log.Warnf("consumer %d: dropping remainder of batch, sub-message %d: %v", c.ConsumerID, idx, err)
			return
		}
		payload = rest

		id := msg.MessageID{
			LedgerID:   ledgerID,
			EntryID:    entryID,
			Partition:  cmdMsg.GetMessageId().GetPartition(),
			BatchIndex: int32(idx),
			Acker:      acker,
		}
		lastID = id

		if c.isPriorBatchIndex(ledgerID, entryID, int32(idx)) {
			c.releaseFilteredPermits(1)
			continue
		}

		m := msg.Message{
			ID:              id,
			Metadata:        *f.Metadata,
			Payload:         body,
			Topic:           c.cfg.Topic,
			Properties:      keyValuesToMap(smm.GetProperties()),
			Key:             smm.GetPartitionKey(),
			RedeliveryCount: cmdMsg.GetRedeliveryCount(),
		}
		c.unackedTracker.Add(id)
		c.enqueue(m)
		c.messageProcessed(1)
	}

	c.batchMu.Lock()
	tail := lastID
	c.lastBatchTailID = &tail
	c.batchMu.Unlock()
}

// releaseFilteredPermits accounts for n messages dropped before ever
// reaching the application (duplicates, sub-messages filtered by a
// non-durable subscription's start position) as if they had been consumed,
// so the flow accounting invariant (permits sent >= consumed + filtered +
// duplicates) holds even though these never pass through enqueue.
func (c *Consumer) releaseFilteredPermits(n uint32) {
	c.messageProcessed(n)
}

// isPriorEntryIndex reports whether a same-ledger raw message predates a
// non-durable subscription's start position. With StartInclusive, the start
// id itself must still be delivered, so only strictly earlier entries are
// filtered; otherwise the start id is filtered too.
func (c *Consumer) isPriorEntryIndex(ledgerID, entryID uint64) bool {
	start := c.cfg.StartMessageID
	if !c.cfg.NonDurable || start == nil || ledgerID != start.LedgerID {
		return false
	}
	if c.cfg.StartInclusive {
		return entryID < start.EntryID
	}
	return entryID <= start.EntryID
}

// isPriorBatchIndex is isPriorEntryIndex's analogue for a sub-message's
// batch index within the entry matching the start position.
func (c *Consumer) isPriorBatchIndex(ledgerID, entryID uint64, batchIdx int32) bool {
	start := c.cfg.StartMessageID
	if !c.cfg.NonDurable || start == nil {
		return false
	}
	if ledgerID != start.LedgerID || entryID != start.EntryID {
		return false
	}
	if c.cfg.StartInclusive {
		return batchIdx < start.BatchIndex
	}
	return batchIdx <= start.BatchIndex
}

// decodeSingleMessage reads one length-prefixed SingleMessageMetadata
// followed by its payload off the front of b, per spec's batch-payload
// framing: [metadataSize fixed32 BE][metadata][payload].
func decodeSingleMessage(b []byte) (smm *api.SingleMessageMetadata, payload []byte, rest []byte, err error) {
	if len(b) < 4 {
		return nil, nil, nil, fmt.Errorf("truncated sub-message metadata length")
	}
	metaSize := binary.BigEndian.Uint32(b[:4])
	b = b[4:]
	if uint32(len(b)) < metaSize {
		return nil, nil, nil, fmt.Errorf("truncated sub-message metadata")
	}

	smm = &api.SingleMessageMetadata{}
	if err := proto.Unmarshal(b[:metaSize], smm); err != nil {
		return nil, nil, nil, fmt.Errorf("unmarshal sub-message metadata: %w", err)
	}
	b = b[metaSize:]

	payloadSize := int(smm.GetPayloadSize())
	if payloadSize < 0 || len(b) < payloadSize {
		return nil, nil, nil, fmt.Errorf("truncated sub-message payload")
	}

	return smm, b[:payloadSize], b[payloadSize:], nil
}

func (c *Consumer) decompress(metadata *api.MessageMetadata, payload []byte) ([]byte, error) {
	provider, err := compression.ForType(metadata.GetCompression())
	if err != nil {
		return nil, err
	}
	return provider.Decode(nil, payload, int(metadata.GetUncompressedSize()))
}

func keyValuesToMap(kvs []*api.KeyValue) map[string]string {
	if len(kvs) == 0 {
		return nil
	}
	m := make(map[string]string, len(kvs))
	for _, kv := range kvs {
		m[kv.GetKey()] = kv.GetValue()
	}
	return m
}

// enqueue delivers m onto out, or pulses OverflowSignal and bumps Overflow
// if the queue is full, rather than blocking the connection's read loop.
func (c *Consumer) enqueue(m msg.Message) {
	select {
	case c.out <- m:
	default:
		c.Omu.Lock()
		c.Overflow++
		c.Omu.Unlock()
		select {
		case c.OverflowSignal <- struct{}{}:
		default:
		}
	}
}

// redeliverChunkSize bounds how many message ids one
// REDELIVER_UNACKNOWLEDGED_MESSAGES command may carry.
const redeliverChunkSize = 1000

// redeliverIDs is the shared RedeliverFunc handed to both the unacked and
// nack trackers. Id-scoped redelivery only exists for Shared and KeyShared
// subscriptions; the ids are sent in chunks of at most redeliverChunkSize
// per command. Every other subscription type falls through to a
// full (empty-ids) redelivery of everything unacked.
func (c *Consumer) redeliverIDs(ids []msg.MessageID) {
	c.Mu.RLock()
	if c.IsClosed {
		c.Mu.RUnlock()
		return
	}
	c.Mu.RUnlock()

	if c.cfg.SubType != api.CommandSubscribe_Shared && c.cfg.SubType != api.CommandSubscribe_KeyShared {
		if err := c.RedeliverUnacknowledged(context.Background()); err != nil {
			log.Warnf("consumer %d: redeliver failed: %v", c.ConsumerID, err)
		}
		return
	}

	for len(ids) > 0 {
		chunk := ids
		if len(chunk) > redeliverChunkSize {
			chunk = chunk[:redeliverChunkSize]
		}
		ids = ids[len(chunk):]

		protoIDs := make([]*api.MessageIdData, 0, len(chunk))
		for _, id := range chunk {
			protoIDs = append(protoIDs, id.ToProto())
		}

		cmd := api.BaseCommand{
			Type: api.BaseCommand_REDELIVER_UNACKNOWLEDGED_MESSAGES.Enum(),
			RedeliverUnacknowledgedMessages: &api.CommandRedeliverUnacknowledgedMessages{
				ConsumerId: proto.Uint64(c.ConsumerID),
				MessageIds: protoIDs,
			},
		}

		if err := c.S.SendSimpleCmd(cmd); err != nil {
			log.Warnf("consumer %d: redeliver failed: %v", c.ConsumerID, err)
			return
		}
	}
}

// flushAck is the Flusher handed to the ack.GroupingTracker: it sends one
// ACK command per non-empty bucket, a cumulative ACK for cumulative (if set)
// followed by an individual ACK carrying every id in individual.
func (c *Consumer) flushAck(individual []msg.MessageID, cumulative *msg.MessageID) error {
	send := func(ackType api.CommandAck_AckType, ids []*api.MessageIdData) error {
		cmd := api.BaseCommand{
			Type: api.BaseCommand_ACK.Enum(),
			Ack: &api.CommandAck{
				ConsumerId: proto.Uint64(c.ConsumerID),
				AckType:    ackType.Enum(),
				MessageId:  ids,
			},
		}
		return c.S.SendSimpleCmd(cmd)
	}

	if cumulative != nil {
		if err := send(api.CommandAck_Cumulative, []*api.MessageIdData{cumulative.ToProto()}); err != nil {
			return err
		}
	}
	if len(individual) == 0 {
		return nil
	}

	ids := make([]*api.MessageIdData, 0, len(individual))
	for _, id := range individual {
		ids = append(ids, id.ToProto())
	}
	return send(api.CommandAck_Individual, ids)
}

// Ack acknowledges m, tracking batch sub-index bookkeeping and removing it
// from the unacked/nack trackers. For a batched message, the underlying ACK
// frame is only emitted once every sub-index in the batch has been acked.
func (c *Consumer) Ack(m msg.Message) error {
	c.Mu.RLock()
	if c.IsClosed {
		c.Mu.RUnlock()
		return ErrClosedConsumer
	}
	c.Mu.RUnlock()

	c.unackedTracker.Remove(m.ID)
	c.nackTracker.Remove(m.ID)

	if m.ID.Individual() {
		return c.ackTracker.AckIndividual(m.ID)
	}

	if allAcked := m.ID.Acker.AckIndividual(int(m.ID.BatchIndex)); !allAcked {
		return nil
	}
	return c.ackTracker.AckCumulative(m.ID)
}

// AckCumulative acknowledges m and every earlier message on the
// subscription. For a message outside any batch this is a direct cumulative
// ack. For a message inside a batch whose prior sub-indices aren't all
// acked yet, the batch can't be cumulatively acked on the wire as a whole:
// the sub-index is marked acked locally, and if the previous batch's
// trailing cumulative ack hasn't been sent yet, it is sent now so the
// broker's cursor still advances past everything before this batch. Only
// once BatchAcker.AllAcked is true does the wire see a cumulative ack for
// this batch's id.
func (c *Consumer) AckCumulative(m msg.Message) error {
	c.Mu.RLock()
	if c.IsClosed {
		c.Mu.RUnlock()
		return ErrClosedConsumer
	}
	c.Mu.RUnlock()

	c.unackedTracker.RemoveMessagesTill(m.ID)
	c.nackTracker.Remove(m.ID)

	if m.ID.Individual() {
		return c.ackTracker.AckCumulative(m.ID)
	}

	allAcked := m.ID.Acker.AckCumulative(int(m.ID.BatchIndex))
	if !allAcked {
		if prev, first := m.ID.Acker.MarkPrevBatchAcked(); first && prev != nil {
			return c.ackTracker.AckCumulative(*prev)
		}
		return nil
	}
	return c.ackTracker.AckCumulative(m.ID)
}

// Nack defers redelivery of m by the configured NegativeAckDelay, removing
// it from the unacked tracker (it will be redelivered by the nack tracker
// instead, not the ack-timeout tracker).
func (c *Consumer) Nack(m msg.Message) {
	c.unackedTracker.Remove(m.ID)
	c.nackTracker.Add(m.ID)
}

// RedeliverUnacknowledged requests redelivery of every currently-unacked
// message on this subscription (an empty message-id list means "all").
func (c *Consumer) RedeliverUnacknowledged(ctx context.Context) error {
	c.Mu.RLock()
	if c.IsClosed {
		c.Mu.RUnlock()
		return ErrClosedConsumer
	}
	c.Mu.RUnlock()

	cmd := api.BaseCommand{
		Type: api.BaseCommand_REDELIVER_UNACKNOWLEDGED_MESSAGES.Enum(),
		RedeliverUnacknowledgedMessages: &api.CommandRedeliverUnacknowledgedMessages{
			ConsumerId: proto.Uint64(c.ConsumerID),
		},
	}

	return c.S.SendSimpleCmd(cmd)
}

// RedeliverOverflow requests redelivery of every message dropped because
// the receive queue was full since the last call, returning how many were
// dropped.
func (c *Consumer) RedeliverOverflow(ctx context.Context) (int, error) {
	c.Omu.Lock()
	n := c.Overflow
	c.Overflow = 0
	c.Omu.Unlock()

	if n == 0 {
		return 0, nil
	}
	if err := c.RedeliverUnacknowledged(ctx); err != nil {
		return 0, err
	}
	return n, nil
}

// Unsubscribe deletes the subscription from the broker and closes the
// consumer.
func (c *Consumer) Unsubscribe(ctx context.Context) error {
	c.Mu.Lock()
	defer c.Mu.Unlock()

	if c.IsClosed {
		return nil
	}

	requestID := c.ReqID.Next()

	resp, cancel, err := c.Dispatcher.RegisterReqID(*requestID)
	if err != nil {
		return err
	}
	defer cancel()

	cmd := api.BaseCommand{
		Type: api.BaseCommand_UNSUBSCRIBE.Enum(),
		Unsubscribe: &api.CommandUnsubscribe{
			ConsumerId: proto.Uint64(c.ConsumerID),
			RequestId:  requestID,
		},
	}

	if err := c.S.SendSimpleCmd(cmd); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		return ctx.Err()

	case <-resp:
		c.closeLocked()
		return nil
	}
}

// Seek repositions the subscription's cursor to id, blocking until the
// broker confirms. A subsequent Flow call (as NewConsumer always issues after
// subscribing) is required to resume delivery.
func (c *Consumer) Seek(ctx context.Context, id msg.MessageID) error {
	c.Mu.RLock()
	if c.IsClosed {
		c.Mu.RUnlock()
		return ErrClosedConsumer
	}
	c.Mu.RUnlock()

	requestID := c.ReqID.Next()

	resp, cancel, err := c.Dispatcher.RegisterReqID(*requestID)
	if err != nil {
		return err
	}
	defer cancel()

	cmd := api.BaseCommand{
		Type: api.BaseCommand_SEEK.Enum(),
		Seek: &api.CommandSeek{
			ConsumerId: proto.Uint64(c.ConsumerID),
			RequestId:  requestID,
			MessageId:  id.ToProto(),
		},
	}

	if err := c.S.SendSimpleCmd(cmd); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.S.Closed():
		return ErrClosedConsumer
	case f := <-resp:
		switch msgType := f.BaseCmd.GetType(); msgType {
		case api.BaseCommand_SUCCESS:
			// A successful seek invalidates every locally queued message and
			// any ack still buffered for the old cursor position.
			if err := c.ackTracker.Flush(); err != nil {
				log.Warnf("consumer %d: flushing ack tracker after seek: %v", c.ConsumerID, err)
			}
			c.drainQueue()
			c.lastReadMu.Lock()
			c.lastRead = id
			c.lastReadMu.Unlock()
			return nil
		case api.BaseCommand_ERROR:
			errMsg := f.BaseCmd.GetError()
			return fmt.Errorf("%s: %s", errMsg.GetError().String(), errMsg.GetMessage())
		default:
			return utils.NewUnexpectedErrMsg(msgType, c.ConsumerID, *requestID)
		}
	}
}

// SeekByTime repositions the subscription's cursor to the first message
// published at or after t, blocking until the broker confirms.
func (c *Consumer) SeekByTime(ctx context.Context, t time.Time) error {
	c.Mu.RLock()
	if c.IsClosed {
		c.Mu.RUnlock()
		return ErrClosedConsumer
	}
	c.Mu.RUnlock()

	requestID := c.ReqID.Next()

	resp, cancel, err := c.Dispatcher.RegisterReqID(*requestID)
	if err != nil {
		return err
	}
	defer cancel()

	cmd := api.BaseCommand{
		Type: api.BaseCommand_SEEK.Enum(),
		Seek: &api.CommandSeek{
			ConsumerId:         proto.Uint64(c.ConsumerID),
			RequestId:          requestID,
			MessagePublishTime: proto.Uint64(uint64(t.UnixNano() / int64(time.Millisecond))),
		},
	}

	if err := c.S.SendSimpleCmd(cmd); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.S.Closed():
		return ErrClosedConsumer
	case f := <-resp:
		switch msgType := f.BaseCmd.GetType(); msgType {
		case api.BaseCommand_SUCCESS:
			if err := c.ackTracker.Flush(); err != nil {
				log.Warnf("consumer %d: flushing ack tracker after seek: %v", c.ConsumerID, err)
			}
			c.drainQueue()
			return nil
		case api.BaseCommand_ERROR:
			errMsg := f.BaseCmd.GetError()
			return fmt.Errorf("%s: %s", errMsg.GetError().String(), errMsg.GetMessage())
		default:
			return utils.NewUnexpectedErrMsg(msgType, c.ConsumerID, *requestID)
		}
	}
}

// drainQueue empties any messages already queued on out without blocking,
// the way a seek must clear incomingMessages before delivery resumes at the
// new cursor.
func (c *Consumer) drainQueue() {
	for {
		select {
		case <-c.out:
		default:
			return
		}
	}
}

// HasMessageAvailable asks the broker for the topic's last published message
// id and reports whether any message beyond the subscription's current
// cursor remains to be read.
func (c *Consumer) HasMessageAvailable(ctx context.Context) (bool, error) {
	c.Mu.RLock()
	if c.IsClosed {
		c.Mu.RUnlock()
		return false, ErrClosedConsumer
	}
	c.Mu.RUnlock()

	requestID := c.ReqID.Next()

	resp, cancel, err := c.Dispatcher.RegisterReqID(*requestID)
	if err != nil {
		return false, err
	}
	defer cancel()

	cmd := api.BaseCommand{
		Type: api.BaseCommand_GET_LAST_MESSAGE_ID.Enum(),
		GetLastMessageId: &api.CommandGetLastMessageId{
			ConsumerId: proto.Uint64(c.ConsumerID),
			RequestId:  requestID,
		},
	}

	if err := c.S.SendSimpleCmd(cmd); err != nil {
		return false, err
	}

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case <-c.S.Closed():
		return false, ErrClosedConsumer
	case f := <-resp:
		switch msgType := f.BaseCmd.GetType(); msgType {
		case api.BaseCommand_GET_LAST_MESSAGE_ID_RESPONSE:
			last := msg.FromProto(f.BaseCmd.GetGetLastMessageIdResponse().GetLastMessageId(), nil)
			c.lastReadMu.RLock()
			lastRead := c.lastRead
			c.lastReadMu.RUnlock()
			return lastRead.Less(last), nil
		case api.BaseCommand_ERROR:
			errMsg := f.BaseCmd.GetError()
			return false, fmt.Errorf("%s: %s", errMsg.GetError().String(), errMsg.GetMessage())
		default:
			return false, utils.NewUnexpectedErrMsg(msgType, c.ConsumerID, *requestID)
		}
	}
}

// Closed returns a channel that blocks unless the consumer has been closed.
func (c *Consumer) Closed() <-chan struct{} {
	return c.Closedc
}

// ConnClosed unblocks when the consumer's connection has gone away.
func (c *Consumer) ConnClosed() <-chan struct{} {
	return c.S.Closed()
}

// ReachedEndOfTopic unblocks once the broker has reported no more messages
// remain on this (non-partitioned) topic.
func (c *Consumer) ReachedEndOfTopic() <-chan struct{} {
	return c.reachedEndc
}

// Close closes the consumer without deleting its subscription.
func (c *Consumer) Close(ctx context.Context) error {
	c.Mu.Lock()
	defer c.Mu.Unlock()

	if c.IsClosed {
		return nil
	}

	requestID := c.ReqID.Next()

	cmd := api.BaseCommand{
		Type: api.BaseCommand_CLOSE_CONSUMER.Enum(),
		CloseConsumer: &api.CommandCloseConsumer{
			ConsumerId: proto.Uint64(c.ConsumerID),
			RequestId:  requestID,
		},
	}

	resp, cancel, err := c.Dispatcher.RegisterReqID(*requestID)
	if err != nil {
		return err
	}
	defer cancel()

	if err := c.S.SendSimpleCmd(cmd); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		return ctx.Err()

	case <-resp:
		c.closeLocked()
		return nil
	}
}

// handleCloseConsumer is invoked when the broker pushes a CLOSE_CONSUMER
// frame unprompted (e.g. topic unloading during a load-balancer failover).
func (c *Consumer) handleCloseConsumer() {
	c.Mu.Lock()
	defer c.Mu.Unlock()
	c.closeLocked()
}

// closeLocked marks the consumer closed and tears down its trackers. Caller
// must hold c.Mu.
func (c *Consumer) closeLocked() {
	if c.IsClosed {
		return
	}
	c.IsClosed = true
	close(c.Closedc)

	c.ackTracker.Close()
	c.unackedTracker.Close()
	c.nackTracker.Close()
}
