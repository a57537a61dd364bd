package kafka

import (
	"context"
	"fmt"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Semantic convention attributes for messaging
const (
	MessagingSystemKey              = "messaging.system"
	MessagingDestinationNameKey     = "messaging.destination.name"
	MessagingDestinationPartitionID = "messaging.destination.partition.id"
	MessagingOperationNameKey       = "messaging.operation.name"
	MessagingOperationTypeKey       = "messaging.operation.type"
	MessagingKafkaOffsetKey         = "messaging.kafka.offset"
	MessagingKafkaMessageKeyKey     = "messaging.kafka.message.key"
)

const defaultTracerName = "github.com/loipv/library-events-producer/kafka"

// TracingService provides OpenTelemetry tracing for Kafka operations
type TracingService struct {
	tracer     trace.Tracer
	propagator propagation.TextMapPropagator
	config     *TracingConfig
}

// NewTracingService creates a new tracing service
func NewTracingService(config *TracingConfig) *TracingService {
	tracerName := config.TracerName
	if tracerName == "" {
		tracerName = defaultTracerName
	}

	tracerVersion := config.TracerVersion
	if tracerVersion == "" {
		tracerVersion = Version
	}

	return &TracingService{
		tracer:     otel.Tracer(tracerName, trace.WithInstrumentationVersion(tracerVersion)),
		propagator: otel.GetTextMapPropagator(),
		config:     config,
	}
}

// StartProducerSpan starts a span for publishing a message. The returned
// func ends it with the delivery outcome.
func (t *TracingService) StartProducerSpan(ctx context.Context, topic string, msg *Message) (context.Context, DeliveryFunc) {
	spanName := fmt.Sprintf("%s publish", topic)

	ctx, span := t.tracer.Start(ctx, spanName,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String(MessagingSystemKey, "kafka"),
			attribute.String(MessagingDestinationNameKey, topic),
			attribute.String(MessagingOperationNameKey, "publish"),
			attribute.String(MessagingOperationTypeKey, "publish"),
		),
	)

	// Add message key if present
	if msg.Key != nil {
		span.SetAttributes(attribute.String(MessagingKafkaMessageKeyKey, fmt.Sprintf("%x", msg.Key)))
	}

	return ctx, func(report *DeliveryReport) {
		if report.Err != nil {
			span.RecordError(report.Err)
			span.SetStatus(codes.Error, report.Err.Error())
		} else {
			span.SetAttributes(
				attribute.Int(MessagingDestinationPartitionID, int(report.Partition)),
				attribute.Int64(MessagingKafkaOffsetKey, report.Offset),
			)
		}
		span.End()
	}
}

// InjectTraceContext injects trace context into Kafka message headers
func (t *TracingService) InjectTraceContext(ctx context.Context, msg *kafka.Message) {
	carrier := &kafkaHeaderCarrier{msg: msg}
	t.propagator.Inject(ctx, carrier)
}

// kafkaHeaderCarrier implements propagation.TextMapCarrier for kafka.Message
type kafkaHeaderCarrier struct {
	msg *kafka.Message
}

func (c *kafkaHeaderCarrier) Get(key string) string {
	for _, h := range c.msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func (c *kafkaHeaderCarrier) Set(key, val string) {
	// Try to update existing header in-place (avoid allocation)
	for i := range c.msg.Headers {
		if c.msg.Headers[i].Key == key {
			c.msg.Headers[i].Value = []byte(val)
			return
		}
	}
	// Append new header if not found
	c.msg.Headers = append(c.msg.Headers, kafka.Header{
		Key:   key,
		Value: []byte(val),
	})
}

func (c *kafkaHeaderCarrier) Keys() []string {
	keys := make([]string, 0, len(c.msg.Headers))
	for _, h := range c.msg.Headers {
		keys = append(keys, h.Key)
	}
	return keys
}

var _ propagation.TextMapCarrier = (*kafkaHeaderCarrier)(nil)
