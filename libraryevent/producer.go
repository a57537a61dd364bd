package libraryevent

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/loipv/library-events-producer/kafka"
)

// Record header names
const (
	HeaderEventID   = "event_id"
	HeaderEventType = "event_type"
)

// DefaultSyncTimeout bounds how long SendSync waits for the broker
var DefaultSyncTimeout = 10 * time.Second

// Publisher hands a message to the broker and returns its in-flight handle.
// *kafka.KafkaClient implements it.
type Publisher interface {
	SendAsync(ctx context.Context, topic string, msg *kafka.Message) *kafka.Delivery
}

// OutboundRecord is the wire form of one LibraryEvent
type OutboundRecord struct {
	Topic   string
	Key     []byte
	Value   []byte
	Headers kafka.Headers
}

// Message converts the record for the broker client
func (r *OutboundRecord) Message() *kafka.Message {
	return &kafka.Message{
		Key:     r.Key,
		Value:   r.Value,
		Headers: r.Headers,
	}
}

// Producer publishes library events. It keeps no state between sends and
// is safe for concurrent use.
type Producer struct {
	publisher   Publisher
	callback    *DispatchCallback
	topic       string
	serializer  Serializer
	syncTimeout time.Duration
	newEventID  func() string
}

// Option configures a Producer
type Option func(*Producer)

// WithTopic sets the destination topic
func WithTopic(topic string) Option {
	return func(p *Producer) {
		p.topic = topic
	}
}

// WithSerializer replaces the JSON serializer
func WithSerializer(s Serializer) Option {
	return func(p *Producer) {
		p.serializer = s
	}
}

// WithSyncTimeout sets how long SendSync waits for the broker
func WithSyncTimeout(timeout time.Duration) Option {
	return func(p *Producer) {
		p.syncTimeout = timeout
	}
}

// NewProducer creates a producer publishing through publisher. Outcomes of
// every send are reported to callback.
func NewProducer(publisher Publisher, callback *DispatchCallback, opts ...Option) *Producer {
	if callback == nil {
		callback = NewDispatchCallback(nil, nil)
	}
	p := &Producer{
		publisher:   publisher,
		callback:    callback,
		topic:       DefaultTopic,
		serializer:  JSONSerializer{},
		syncTimeout: DefaultSyncTimeout,
		newEventID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Topic returns the destination topic
func (p *Producer) Topic() string {
	return p.topic
}

// BuildRecord serializes ev and keys it with DeriveKey. A key that cannot
// be derived is reported as a *SerializationError.
func (p *Producer) BuildRecord(ev LibraryEvent) (*OutboundRecord, error) {
	key, err := DeriveKey(ev)
	if err != nil {
		return nil, &SerializationError{Err: err}
	}
	value, err := p.serializer.Serialize(ev)
	if err != nil {
		return nil, &SerializationError{Err: err}
	}
	return &OutboundRecord{
		Topic: p.topic,
		Key:   key,
		Value: value,
		Headers: kafka.Headers{
			HeaderEventID:   []byte(p.newEventID()),
			HeaderEventType: []byte(ev.LibraryEventType),
		},
	}, nil
}

// SendAsync dispatches ev and returns without waiting. The outcome reaches
// the dispatch callback; a serialization failure comes back as an already
// rejected handle carrying a *SerializationError.
func (p *Producer) SendAsync(ctx context.Context, ev LibraryEvent) *kafka.Delivery {
	sentAt := time.Now()
	record, err := p.BuildRecord(ev)
	if err != nil {
		delivery := kafka.FailedDelivery(p.topic, err)
		delivery.OnComplete(p.callback.Bind(ev.LibraryEventType, sentAt))
		return delivery
	}

	delivery := p.publisher.SendAsync(ctx, record.Topic, record.Message())
	delivery.OnComplete(p.callback.Bind(ev.LibraryEventType, sentAt))
	return delivery
}

// SendSync dispatches ev and waits for the broker, at most the sync
// timeout. It makes exactly one attempt. Failures are returned as
// *SerializationError or *DeliveryError.
func (p *Producer) SendSync(ctx context.Context, ev LibraryEvent) (*kafka.DeliveryReport, error) {
	sentAt := time.Now()
	record, err := p.BuildRecord(ev)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, p.syncTimeout)
	defer cancel()

	delivery := p.publisher.SendAsync(ctx, record.Topic, record.Message())
	delivery.OnComplete(p.callback.Bind(ev.LibraryEventType, sentAt))

	report, err := delivery.Wait(ctx)
	if err != nil {
		return nil, &DeliveryError{Topic: record.Topic, Key: record.Key, Err: err}
	}
	return report, nil
}

// SendFireAndForget dispatches ev and drops the handle. Failures are only
// visible through the dispatch callback.
func (p *Producer) SendFireAndForget(ctx context.Context, ev LibraryEvent) {
	p.SendAsync(ctx, ev)
}
