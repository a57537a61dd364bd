package kafka

import (
	"context"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

// Headers is a map of header key-value pairs
type Headers map[string][]byte

// Message represents an outgoing Kafka message.
// A nil Key leaves partition choice to the producer's partitioner, as does a
// zero Partition.
type Message struct {
	Key       []byte
	Value     []byte
	Headers   Headers
	Partition int32
	Timestamp time.Time
}

// DeliveryReport is the terminal outcome of one send attempt.
// Err is nil when the broker acknowledged the message.
type DeliveryReport struct {
	Topic     string
	Partition int32
	Offset    int64
	Timestamp time.Time
	Key       []byte
	Err       error
}

// Failed reports whether the send was rejected
func (r *DeliveryReport) Failed() bool {
	return r.Err != nil
}

// PartitionAny lets the configured partitioner choose the partition
const PartitionAny int32 = -1

// Acks configuration for producer acknowledgment
type Acks int

const (
	// AcksNone - No acknowledgment
	AcksNone Acks = 0
	// AcksLeader - Leader acknowledgment only
	AcksLeader Acks = 1
	// AcksAll - All replicas acknowledgment
	AcksAll Acks = -1
)

// Compression types for message compression
type Compression int

const (
	// CompressionNone - No compression
	CompressionNone Compression = 0
	// CompressionGZIP - GZIP compression
	CompressionGZIP Compression = 1
	// CompressionSnappy - Snappy compression
	CompressionSnappy Compression = 2
	// CompressionLZ4 - LZ4 compression
	CompressionLZ4 Compression = 3
	// CompressionZSTD - ZSTD compression
	CompressionZSTD Compression = 4
)

// HealthStatus represents health check status
type HealthStatus string

const (
	// HealthStatusUp indicates the service is healthy
	HealthStatusUp HealthStatus = "UP"
	// HealthStatusDown indicates the service is unhealthy
	HealthStatusDown HealthStatus = "DOWN"
)

// HealthResult represents health check result
type HealthResult struct {
	Status  HealthStatus           `json:"status"`
	Details map[string]interface{} `json:"details,omitempty"`
	Error   error                  `json:"-"`
}

// LogLevel represents logging level
type LogLevel int

const (
	// LogLevelNone - No logging
	LogLevelNone LogLevel = 0
	// LogLevelError - Error level
	LogLevelError LogLevel = 1
	// LogLevelWarn - Warning level
	LogLevelWarn LogLevel = 2
	// LogLevelInfo - Info level
	LogLevelInfo LogLevel = 3
	// LogLevelDebug - Debug level
	LogLevelDebug LogLevel = 4
)

// Producer is the subset of *kafka.Producer the client depends on.
// Tests substitute kafkatest.Producer.
type Producer interface {
	Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error
	Events() chan kafka.Event
	Flush(timeoutMs int) int
	Purge(flags int) error
	Close()
}

// Client interface defines the producer API
type Client interface {
	// Send sends a single message and waits for its delivery report
	Send(ctx context.Context, topic string, msg *Message) (*DeliveryReport, error)

	// SendAsync sends a single message and returns its in-flight handle
	SendAsync(ctx context.Context, topic string, msg *Message) *Delivery

	// SendFireAndForget sends a single message without returning a handle
	SendFireAndForget(ctx context.Context, topic string, msg *Message)

	// Flush waits for outstanding messages to be delivered
	Flush(timeout time.Duration) error

	// Close closes the client
	Close() error
}
