// Package kafkatest provides in-memory stand-ins for the confluent producer
// and admin client, for use in tests.
package kafkatest

import (
	"context"
	"sync"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

// Producer records produced messages and answers each with a delivery
// report on its event channel, like a broker with a single in-sync replica.
type Producer struct {
	// ProduceErr is returned from Produce when set
	ProduceErr error
	// DeliveryErr rejects every delivery when set
	DeliveryErr error
	// Partition is reported for acknowledged messages
	Partition int32
	// Hold keeps messages in flight until Release or Purge
	Hold bool

	mu       sync.Mutex
	events   chan kafka.Event
	produced []*kafka.Message
	pending  []*kafka.Message
	offsets  map[int32]int64
	closed   bool
}

// NewProducer creates a producer that acknowledges on partition 0
func NewProducer() *Producer {
	return &Producer{
		events:  make(chan kafka.Event, 1024),
		offsets: make(map[int32]int64),
	}
}

// Produce records msg and reports it, unless Hold is set
func (p *Producer) Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return kafka.NewError(kafka.ErrState, "producer is closed", false)
	}
	if p.ProduceErr != nil {
		return p.ProduceErr
	}

	p.produced = append(p.produced, msg)
	if p.Hold {
		p.pending = append(p.pending, msg)
		return nil
	}
	p.deliver(msg, deliveryChan, p.DeliveryErr)
	return nil
}

// Events returns the delivery report channel
func (p *Producer) Events() chan kafka.Event {
	return p.events
}

// Flush returns the number of messages still held
func (p *Producer) Flush(timeoutMs int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending)
}

// Purge rejects every held message with ErrPurgeQueue
func (p *Producer) Purge(flags int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, msg := range p.pending {
		p.deliver(msg, nil, kafka.NewError(kafka.ErrPurgeQueue, "purged from queue", false))
	}
	p.pending = nil
	return nil
}

// Close closes the event channel
func (p *Producer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close(p.events)
}

// Release reports every held message, failing them with err when non-nil
func (p *Producer) Release(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, msg := range p.pending {
		p.deliver(msg, nil, err)
	}
	p.pending = nil
}

// Messages returns what has been produced so far
func (p *Producer) Messages() []*kafka.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*kafka.Message, len(p.produced))
	copy(out, p.produced)
	return out
}

// deliver must be called with mu held
func (p *Producer) deliver(msg *kafka.Message, deliveryChan chan kafka.Event, err error) {
	report := *msg
	partition := msg.TopicPartition.Partition
	if partition == kafka.PartitionAny {
		partition = p.Partition
	}
	report.TopicPartition.Partition = partition
	report.TopicPartition.Error = err
	if err == nil {
		report.TopicPartition.Offset = kafka.Offset(p.offsets[partition])
		p.offsets[partition]++
	} else {
		report.TopicPartition.Offset = kafka.OffsetInvalid
	}
	if report.Timestamp.IsZero() {
		report.Timestamp = time.Now()
	}

	if deliveryChan != nil {
		deliveryChan <- &report
		return
	}
	p.events <- &report
}

// AdminClient serves canned metadata and remembers created topics
type AdminClient struct {
	Metadata    *kafka.Metadata
	MetadataErr error
	CreateErr   error
	// Existing topics are answered with ErrTopicAlreadyExists
	Existing map[string]bool

	mu      sync.Mutex
	created []kafka.TopicSpecification
	closed  bool
}

// GetMetadata returns Metadata or MetadataErr
func (a *AdminClient) GetMetadata(topic *string, allTopics bool, timeoutMs int) (*kafka.Metadata, error) {
	if a.MetadataErr != nil {
		return nil, a.MetadataErr
	}
	return a.Metadata, nil
}

// CreateTopics records topics that are not Existing
func (a *AdminClient) CreateTopics(ctx context.Context, topics []kafka.TopicSpecification, options ...kafka.CreateTopicsAdminOption) ([]kafka.TopicResult, error) {
	if a.CreateErr != nil {
		return nil, a.CreateErr
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	results := make([]kafka.TopicResult, 0, len(topics))
	for _, t := range topics {
		if a.Existing[t.Topic] {
			results = append(results, kafka.TopicResult{
				Topic: t.Topic,
				Error: kafka.NewError(kafka.ErrTopicAlreadyExists, "topic already exists", false),
			})
			continue
		}
		a.created = append(a.created, t)
		results = append(results, kafka.TopicResult{Topic: t.Topic})
	}
	return results, nil
}

// Close marks the client closed
func (a *AdminClient) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
}

// Created returns the topics created so far
func (a *AdminClient) Created() []kafka.TopicSpecification {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]kafka.TopicSpecification, len(a.created))
	copy(out, a.created)
	return out
}

// Closed reports whether Close was called
func (a *AdminClient) Closed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.closed
}
