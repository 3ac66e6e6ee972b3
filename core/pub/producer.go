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

package pub

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang/protobuf/proto"
	"github.com/pulsarcore/go-client/compression"
	"github.com/pulsarcore/go-client/core/frame"
	"github.com/pulsarcore/go-client/core/msg"
	"github.com/pulsarcore/go-client/pkg/api"
	"github.com/pulsarcore/go-client/pkg/log"
	"github.com/pulsarcore/go-client/utils"
)

// ErrClosedProducer is returned when attempting to send from a closed
// Producer.
var ErrClosedProducer = errors.New("producer is closed")

// ErrQueueFull is returned by SendAsync when the pending-message queue has
// already reached Config.MaxPendingMessages; the message is never enqueued
// or given a sequence id.
var ErrQueueFull = errors.New("producer send queue is full")

// ErrSendTimeout completes every pending message still unacknowledged once
// Config.SendTimeout has elapsed since the oldest of them was handed to the
// connection.
var ErrSendTimeout = errors.New("send timeout")

// ErrChecksumFailed completes a pending message whose locally recomputed
// checksum no longer matches the one captured at send time, meaning the
// corruption happened before the message ever reached the wire.
var ErrChecksumFailed = errors.New("message corrupted before send")

// ErrTopicTerminated completes every pending message once the broker reports
// the topic has been terminated; no further sends are accepted afterward.
var ErrTopicTerminated = errors.New("topic terminated")

// Config controls batching, backpressure and timeout behavior for a
// Producer. The zero value is invalid; call SetDefaults (or go through
// NewProducer, which does so for a zero-value Config).
type Config struct {
	ProducerName string

	// MaxPendingMessages bounds how many messages (individual sends or
	// sealed batches) may be in flight - sent but not yet acked or
	// failed - before SendAsync returns ErrQueueFull.
	MaxPendingMessages int

	BatchingEnabled         bool
	MaxMessagesPerBatch     uint32
	MaxBatchingPublishDelay time.Duration

	SendTimeout     time.Duration
	CompressionType api.CompressionType
}

// SetDefaults fills in zero-valued fields with the library's defaults.
func (c *Config) SetDefaults() {
	if c.MaxPendingMessages <= 0 {
		c.MaxPendingMessages = 1000
	}
	if c.MaxMessagesPerBatch <= 0 {
		c.MaxMessagesPerBatch = 1000
	}
	if c.MaxBatchingPublishDelay <= 0 {
		c.MaxBatchingPublishDelay = 10 * time.Millisecond
	}
	if c.SendTimeout <= 0 {
		c.SendTimeout = 30 * time.Second
	}
}

// OutgoingMessage is the payload and metadata an application hands to
// SendAsync/Send.
type OutgoingMessage struct {
	Payload    []byte
	Key        string
	Properties map[string]string
}

// Result is delivered to a SendAsync caller once its message has been
// acknowledged or has permanently failed.
type Result struct {
	ID  msg.MessageID
	Err error
}

// pendingMessage is one SEND already handed to the connection, awaiting its
// SEND_RECEIPT or SEND_ERROR. completers holds one channel per logical
// message folded into it: length 1 for an individual send, one per message
// for a sealed batch.
type pendingMessage struct {
	sequenceID uint64
	metadata   *api.MessageMetadata
	payload    []byte // final, possibly compressed wire payload
	checksum   []byte
	createdAt  time.Time
	completers []chan Result
}

// batchItem is one message accumulated in the not-yet-sealed batch.
type batchItem struct {
	smm     *api.SingleMessageMetadata
	payload []byte
	resultc chan Result
}

// NewProducer returns a ready-to-use producer. A producer sends messages
// (as SEND commands) to Pulsar, batching and retrying them per cfg.
func NewProducer(s frame.CmdSender, dispatcher *frame.Dispatcher, reqID *msg.MonotonicID, producerID uint64, cfg Config) *Producer {
	cfg.SetDefaults()

	p := &Producer{
		S:            s,
		ProducerID:   producerID,
		ProducerName: cfg.ProducerName,
		ReqID:        reqID,
		SeqID:        &msg.MonotonicID{ID: 0},
		Dispatcher:   dispatcher,
		Closedc:      make(chan struct{}),
		cfg:          cfg,
		stopc:        make(chan struct{}),
	}

	p.wg.Add(1)
	go p.timeoutLoop()

	return p
}

// Producer is responsible for creating a subscription producer and
// managing its state.
type Producer struct {
	S frame.CmdSender

	ProducerID   uint64
	ProducerName string

	ReqID *msg.MonotonicID
	SeqID *msg.MonotonicID

	Dispatcher *frame.Dispatcher // handles request/response state

	Mu       sync.RWMutex // protects following
	IsClosed bool
	Closedc  chan struct{}

	traceHook TraceHook

	cfg Config

	pendMu  sync.Mutex
	pending []*pendingMessage

	batchMu    sync.Mutex
	batch      []batchItem
	batchTimer *time.Timer

	terminated bool

	stopc chan struct{}
	wg    sync.WaitGroup
}

type TraceHook interface {
	OnSend(ctx context.Context, msg *api.MessageMetadata, payload []byte)
}

// AddTraceHook installs th; call once, before the producer starts sending.
func (p *Producer) AddTraceHook(th TraceHook) {
	p.traceHook = th
}

// SendAsync enqueues m for delivery and returns immediately with a channel
// that receives exactly one Result once m has been acknowledged or has
// permanently failed. With Config.BatchingEnabled, m joins the producer's
// current batch, sealed once MaxMessagesPerBatch is reached or
// MaxBatchingPublishDelay elapses since the first message in the batch.
func (p *Producer) SendAsync(ctx context.Context, m OutgoingMessage) <-chan Result {
	resultc := make(chan Result, 1)

	p.Mu.RLock()
	closed := p.IsClosed
	terminated := p.terminated
	p.Mu.RUnlock()
	if closed {
		resultc <- Result{Err: ErrClosedProducer}
		return resultc
	}
	if terminated {
		resultc <- Result{Err: ErrTopicTerminated}
		return resultc
	}

	if p.pendingLen() >= p.cfg.MaxPendingMessages {
		resultc <- Result{Err: ErrQueueFull}
		return resultc
	}

	if p.cfg.BatchingEnabled {
		p.storeBatchItem(m, resultc)
		return resultc
	}

	p.sendSingle(m, resultc)
	return resultc
}

// SendForgetAsync enqueues m for delivery without waiting for the broker's
// receipt. Only failures detectable before the message reaches the wire
// (closed producer, terminated topic, full queue) are returned; anything
// later is dropped, which is the point of fire-and-forget.
func (p *Producer) SendForgetAsync(ctx context.Context, m OutgoingMessage) error {
	resultc := p.SendAsync(ctx, m)
	select {
	case r := <-resultc:
		return r.Err
	default:
		return nil
	}
}

// Send enqueues m and blocks until it is acknowledged, fails, or ctx is
// done.
func (p *Producer) Send(ctx context.Context, m OutgoingMessage) (msg.MessageID, error) {
	resultc := p.SendAsync(ctx, m)
	select {
	case r := <-resultc:
		return r.ID, r.Err
	case <-ctx.Done():
		return msg.MessageID{}, ctx.Err()
	}
}

func (p *Producer) pendingLen() int {
	p.pendMu.Lock()
	defer p.pendMu.Unlock()
	return len(p.pending)
}

func (p *Producer) sendSingle(m OutgoingMessage, resultc chan Result) {
	provider, err := compression.ForType(p.cfg.CompressionType)
	if err != nil {
		resultc <- Result{Err: err}
		return
	}
	compressed := provider.Encode(nil, m.Payload)

	sequenceID := p.SeqID.Next()
	metadata := &api.MessageMetadata{
		ProducerName:     proto.String(p.ProducerName),
		SequenceId:       sequenceID,
		PublishTime:      proto.Uint64(uint64(time.Now().UnixNano() / int64(time.Millisecond))),
		Compression:      p.cfg.CompressionType.Enum(),
		UncompressedSize: proto.Uint32(uint32(len(m.Payload))),
	}
	if m.Key != "" {
		metadata.PartitionKey = proto.String(m.Key)
	}
	if len(m.Properties) > 0 {
		metadata.Properties = mapToKeyValues(m.Properties)
	}

	p.enqueueAndSend(*sequenceID, metadata, compressed, 1, []chan Result{resultc})
}

// storeBatchItem folds m into the current, not-yet-sealed batch, sealing it
// immediately if it has now reached MaxMessagesPerBatch.
func (p *Producer) storeBatchItem(m OutgoingMessage, resultc chan Result) {
	item := batchItem{
		smm: &api.SingleMessageMetadata{
			PayloadSize: proto.Int32(int32(len(m.Payload))),
		},
		payload: m.Payload,
		resultc: resultc,
	}
	if m.Key != "" {
		item.smm.PartitionKey = proto.String(m.Key)
	}
	if len(m.Properties) > 0 {
		item.smm.Properties = mapToKeyValues(m.Properties)
	}

	p.batchMu.Lock()
	p.batch = append(p.batch, item)
	if p.batchTimer == nil {
		p.batchTimer = time.AfterFunc(p.cfg.MaxBatchingPublishDelay, p.sealBatch)
	}
	full := uint32(len(p.batch)) >= p.cfg.MaxMessagesPerBatch
	p.batchMu.Unlock()

	if full {
		p.sealBatch()
	}
}

// sealBatch closes out whatever has accumulated in the current batch,
// concatenating each item's length-prefixed SingleMessageMetadata and
// payload into one buffer that is compressed and sent as a single SEND.
func (p *Producer) sealBatch() {
	p.batchMu.Lock()
	if p.batchTimer != nil {
		p.batchTimer.Stop()
		p.batchTimer = nil
	}
	items := p.batch
	p.batch = nil
	p.batchMu.Unlock()

	if len(items) == 0 {
		return
	}

	var uncompressed bytes.Buffer
	completers := make([]chan Result, len(items))
	for i, it := range items {
		encoded, err := proto.Marshal(it.smm)
		if err != nil {
			it.resultc <- Result{Err: err}
			continue
		}
		var lenPrefix [4]byte
		binary.BigEndian.PutUint32(lenPrefix[:], uint32(len(encoded)))
		uncompressed.Write(lenPrefix[:])
		uncompressed.Write(encoded)
		uncompressed.Write(it.payload)
		completers[i] = it.resultc
	}

	provider, err := compression.ForType(p.cfg.CompressionType)
	if err != nil {
		for _, c := range completers {
			if c != nil {
				c <- Result{Err: err}
			}
		}
		return
	}
	compressed := provider.Encode(nil, uncompressed.Bytes())

	sequenceID := p.SeqID.Next()
	metadata := &api.MessageMetadata{
		ProducerName:       proto.String(p.ProducerName),
		SequenceId:         sequenceID,
		PublishTime:        proto.Uint64(uint64(time.Now().UnixNano() / int64(time.Millisecond))),
		Compression:        p.cfg.CompressionType.Enum(),
		UncompressedSize:   proto.Uint32(uint32(uncompressed.Len())),
		NumMessagesInBatch: proto.Int32(int32(len(items))),
	}

	p.enqueueAndSend(*sequenceID, metadata, compressed, len(items), completers)
}

// enqueueAndSend appends a pendingMessage to the tail of the pending queue
// and writes its frame to the connection, recomputing and storing the
// checksum that RecoverChecksumError later compares against. A goroutine
// waits for its reply so callers (SendAsync, sealBatch, resendAll) never
// block on the network.
func (p *Producer) enqueueAndSend(sequenceID uint64, metadata *api.MessageMetadata, payload []byte, numMessages int, completers []chan Result) {
	checksum, err := frame.ChecksumMetadataPayload(metadata, payload)
	if err != nil {
		for _, c := range completers {
			c <- Result{Err: err}
		}
		return
	}

	pm := &pendingMessage{
		sequenceID: sequenceID,
		metadata:   metadata,
		payload:    payload,
		checksum:   checksum,
		createdAt:  time.Now(),
		completers: completers,
	}

	p.pendMu.Lock()
	p.pending = append(p.pending, pm)
	p.pendMu.Unlock()

	if err := p.dispatchSend(pm, numMessages); err != nil {
		p.completeAndRemove(pm, err)
	}
}

// dispatchSend registers interest in the reply and writes the SEND frame.
// On success, a goroutine is left running to await and handle that reply.
// If a reply waiter for pm's sequence id is still registered (a resend after
// a reconnect), the frame is written again and that waiter handles the reply.
func (p *Producer) dispatchSend(pm *pendingMessage, numMessages int) error {
	cmd := api.BaseCommand{
		Type: api.BaseCommand_SEND.Enum(),
		Send: &api.CommandSend{
			ProducerId:  proto.Uint64(p.ProducerID),
			SequenceId:  proto.Uint64(pm.sequenceID),
			NumMessages: proto.Int32(int32(numMessages)),
		},
	}

	if p.traceHook != nil {
		p.traceHook.OnSend(context.Background(), pm.metadata, pm.payload)
	}

	resp, cancel, err := p.Dispatcher.RegisterProdSeqIDs(p.ProducerID, pm.sequenceID)
	if err != nil {
		return p.S.SendPayloadCmd(cmd, *pm.metadata, pm.payload)
	}

	if err := p.S.SendPayloadCmd(cmd, *pm.metadata, pm.payload); err != nil {
		cancel()
		return err
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer cancel()
		select {
		case f := <-resp:
			// release the registration first, so a resend started by
			// handleReply can register this sequence id again
			cancel()
			p.handleReply(pm, f)
		case <-p.stopc:
		}
	}()

	return nil
}

// handleReply processes the SEND_RECEIPT or SEND_ERROR correlated to pm.
func (p *Producer) handleReply(pm *pendingMessage, f frame.Frame) {
	switch f.BaseCmd.GetType() {
	case api.BaseCommand_SEND_RECEIPT:
		p.onReceipt(pm, f.BaseCmd.GetSendReceipt())

	case api.BaseCommand_SEND_ERROR:
		se := f.BaseCmd.GetSendError()
		switch se.GetError() {
		case api.ServerError_ChecksumError:
			p.recoverChecksumError(pm)
		case api.ServerError_TopicTerminatedError:
			p.terminate()
		default:
			p.completeAndRemove(pm, fmt.Errorf("%s: %s", se.GetError().String(), se.GetMessage()))
		}

	default:
		p.completeAndRemove(pm, utils.NewUnexpectedErrMsg(f.BaseCmd.GetType(), p.ProducerID, pm.sequenceID))
	}
}

// onReceipt completes pm's completers with the MessageIDs the broker
// assigned, one per logical message folded into pm (batchIndex -1 for an
// individual send), after checking pm's sequence id against the head of the
// ordered pending queue: a receipt for anything but the current head means
// the broker's ack stream and the pending queue have diverged.
//
//   - pm ahead of head (a higher sequence id acked first): the broker skipped
//     an ack, so the connection is force-closed to force a reconnect and a
//     full resend of whatever is still pending.
//   - pm behind head (a lower sequence id, already popped or timed out):
//     a stale ack for a message no longer tracked; logged and dropped.
//   - pm is head: normal completion.
func (p *Producer) onReceipt(pm *pendingMessage, receipt *api.CommandSendReceipt) {
	p.pendMu.Lock()
	if len(p.pending) == 0 || p.pending[0].sequenceID != pm.sequenceID {
		stale := p.findPending(pm.sequenceID) == nil
		var head uint64
		if len(p.pending) > 0 {
			head = p.pending[0].sequenceID
		}
		p.pendMu.Unlock()

		if stale {
			log.Warnf("producer %d: stale ack for sequence %d; dropping", p.ProducerID, pm.sequenceID)
			return
		}

		log.Errorf("producer %d: broker skipped an ack (got sequence %d, head is %d); forcing reconnect", p.ProducerID, pm.sequenceID, head)
		forceClose(p.S)
		return
	}
	p.removePending(pm)
	p.pendMu.Unlock()

	idData := receipt.GetMessageId()
	base := msg.MessageID{LedgerID: idData.GetLedgerId(), EntryID: idData.GetEntryId(), BatchIndex: -1}

	if len(pm.completers) == 1 && pm.metadata.NumMessagesInBatch == nil {
		pm.completers[0] <- Result{ID: base}
		return
	}
	for i, c := range pm.completers {
		if c == nil {
			continue
		}
		id := base
		id.BatchIndex = int32(i)
		c <- Result{ID: id}
	}
}

// recoverChecksumError re-derives pm's checksum from the metadata and
// payload it was built with and compares it against the checksum captured
// when it was first sent. A match means the corruption happened in flight,
// so the fix is to resend everything still pending; a mismatch means the
// corruption happened locally before the message ever left the process, so
// pm is failed and dropped instead of retried forever.
func (p *Producer) recoverChecksumError(pm *pendingMessage) {
	recomputed, err := frame.ChecksumMetadataPayload(pm.metadata, pm.payload)
	if err != nil || !bytes.Equal(recomputed, pm.checksum) {
		p.completeAndRemove(pm, ErrChecksumFailed)
		return
	}
	p.resendAll()
}

// resendAll retransmits every currently pending message in sequence-id
// order, without incrementing sequence ids or re-registering completers;
// used both after a checksum mismatch is found to be transient and after a
// reconnect.
func (p *Producer) resendAll() {
	p.pendMu.Lock()
	pending := make([]*pendingMessage, len(p.pending))
	copy(pending, p.pending)
	p.pendMu.Unlock()

	for _, pm := range pending {
		numMessages := len(pm.completers)
		if err := p.dispatchSend(pm, numMessages); err != nil {
			p.completeAndRemove(pm, err)
		}
	}
}

// Reconnect resends every pending message over the producer's (now
// presumably freshly reconnected) frame.CmdSender, in the original send
// order, per spec: a reconnect never causes a gap or reorder in the
// sequence-id stream the broker sees.
func (p *Producer) Reconnect(s frame.CmdSender) {
	p.Mu.Lock()
	p.S = s
	p.Mu.Unlock()

	p.resendAll()
}

func (p *Producer) removePending(pm *pendingMessage) {
	for i, cur := range p.pending {
		if cur == pm {
			p.pending = append(p.pending[:i], p.pending[i+1:]...)
			return
		}
	}
}

// findPending returns the pending message matching pm's sequence id, or nil
// if it's no longer tracked (already completed or timed out). Must be called
// with pendMu held.
func (p *Producer) findPending(sequenceID uint64) *pendingMessage {
	for _, cur := range p.pending {
		if cur.sequenceID == sequenceID {
			return cur
		}
	}
	return nil
}

// forceClose closes s if it exposes a Close method, the way a real
// frame.CmdSender (*conn.Conn, frame.MockSender) does; used to force a
// reconnect when the broker's ack stream and the pending queue diverge.
func forceClose(s frame.CmdSender) {
	switch c := s.(type) {
	case interface{ Close() error }:
		if err := c.Close(); err != nil {
			log.Warnf("producer: force-closing connection: %v", err)
		}
	case interface{ Close() }:
		c.Close()
	}
}

func (p *Producer) completeAndRemove(pm *pendingMessage, err error) {
	p.pendMu.Lock()
	p.removePending(pm)
	p.pendMu.Unlock()

	for _, c := range pm.completers {
		if c != nil {
			c <- Result{Err: err}
		}
	}
}

// terminate fails every pending message with ErrTopicTerminated and rejects
// all future sends; idempotent.
func (p *Producer) terminate() {
	p.Mu.Lock()
	if p.terminated {
		p.Mu.Unlock()
		return
	}
	p.terminated = true
	p.Mu.Unlock()

	p.pendMu.Lock()
	pending := p.pending
	p.pending = nil
	p.pendMu.Unlock()

	for _, pm := range pending {
		for _, c := range pm.completers {
			if c != nil {
				c <- Result{Err: ErrTopicTerminated}
			}
		}
	}
}

// timeoutLoop fails every pending message, oldest first, once the oldest one
// has sat unacknowledged past Config.SendTimeout. The comparison only fires
// once now has actually passed the oldest message's deadline; until then
// nothing is failed early.
func (p *Producer) timeoutLoop() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.cfg.SendTimeout / 4)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopc:
			return
		case <-ticker.C:
			p.checkSendTimeout()
		}
	}
}

func (p *Producer) checkSendTimeout() {
	p.pendMu.Lock()
	if len(p.pending) == 0 {
		p.pendMu.Unlock()
		return
	}
	head := p.pending[0]
	if time.Now().Before(head.createdAt.Add(p.cfg.SendTimeout)) {
		p.pendMu.Unlock()
		return
	}
	timedOut := p.pending
	p.pending = nil
	p.pendMu.Unlock()

	for _, pm := range timedOut {
		for _, c := range pm.completers {
			if c != nil {
				c <- Result{Err: ErrSendTimeout}
			}
		}
	}
}

// Closed returns a channel that will block _unless_ the
// producer has been closed, in which case the channel will have
// been closed.
func (p *Producer) Closed() <-chan struct{} {
	return p.Closedc
}

// ConnClosed unblocks when the producer's connection has been closed. Once that
// happens, it's necessary to first recreate the client and then the producer.
func (p *Producer) ConnClosed() <-chan struct{} {
	return p.S.Closed()
}

// Close closes the producer. When receiving a CloseProducer command,
// the broker will stop accepting any more messages for the producer,
// wait until all pending messages are persisted and then reply Success to the client.
// https://pulsar.incubator.apache.org/docs/latest/project/BinaryProtocol/#command-closeproducer
func (p *Producer) Close(ctx context.Context) error {
	p.Mu.Lock()
	if p.IsClosed {
		p.Mu.Unlock()
		return nil
	}

	requestID := p.ReqID.Next()

	cmd := api.BaseCommand{
		Type: api.BaseCommand_CLOSE_PRODUCER.Enum(),
		CloseProducer: &api.CommandCloseProducer{
			RequestId:  requestID,
			ProducerId: proto.Uint64(p.ProducerID),
		},
	}

	resp, cancel, err := p.Dispatcher.RegisterReqID(*requestID)
	if err != nil {
		p.Mu.Unlock()
		return err
	}
	defer cancel()

	if err := p.S.SendSimpleCmd(cmd); err != nil {
		p.Mu.Unlock()
		return err
	}
	p.Mu.Unlock()

	select {
	case <-ctx.Done():
		return ctx.Err()

	case <-resp:
		p.Mu.Lock()
		p.IsClosed = true
		close(p.stopc)
		close(p.Closedc)
		p.Mu.Unlock()
		p.wg.Wait()

		return nil
	}
}

// HandleCloseProducer should be called when a CLOSE_PRODUCER message is received
// associated with this producer.
// The broker can send a CloseProducer command to client when it’s performing a
// graceful failover (eg: broker is being restarted, or the topic is being unloaded
// by load balancer to be transferred to a different broker).
//
// When receiving the CloseProducer, the client is expected to go through the service discovery lookup again and recreate the producer again. The TCP connection is not being affected.
// https://pulsar.incubator.apache.org/docs/latest/project/BinaryProtocol/#command-closeproducer
func (p *Producer) HandleCloseProducer(f frame.Frame) error {
	p.Mu.Lock()
	defer p.Mu.Unlock()

	if p.IsClosed {
		return nil
	}

	p.IsClosed = true
	close(p.stopc)
	close(p.Closedc)

	return nil
}

func mapToKeyValues(m map[string]string) []*api.KeyValue {
	kvs := make([]*api.KeyValue, 0, len(m))
	for k, v := range m {
		kvs = append(kvs, &api.KeyValue{Key: proto.String(k), Value: proto.String(v)})
	}
	return kvs
}
