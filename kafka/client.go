package kafka

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

// Verify KafkaClient implements Client interface
var _ Client = (*KafkaClient)(nil)

// purgeFlushTimeout bounds the wait for purge reports during Close
const purgeFlushTimeout = 500 * time.Millisecond

// KafkaClient implements the Client interface
type KafkaClient struct {
	producer Producer
	config   *ClientConfig
	tracer   *TracingService
	logger   Logger

	// mu orders Produce calls before the flush in Close
	mu     sync.RWMutex
	closed bool

	done chan struct{}
	wg   sync.WaitGroup
}

// NewClient creates a new Kafka client
func NewClient(opts ...ClientOption) (*KafkaClient, error) {
	config := newDefaultClientConfig()
	for _, opt := range opts {
		opt(config)
	}

	if len(config.Brokers) == 0 {
		return nil, fmt.Errorf("brokers are required")
	}

	producer := config.Producer
	if producer == nil {
		p, err := kafka.NewProducer(buildConfigMap(config))
		if err != nil {
			return nil, fmt.Errorf("failed to create producer: %w", err)
		}
		producer = p
	}

	// Initialize logger
	logger := config.Logger
	if logger == nil {
		logger = NewDefaultLogger(config.LogLevel)
	}

	client := &KafkaClient{
		producer: producer,
		config:   config,
		logger:   logger,
		done:     make(chan struct{}),
	}

	// Initialize tracing if enabled
	if config.Tracing != nil && config.Tracing.Enabled {
		client.tracer = NewTracingService(config.Tracing)
	}

	// Start delivery report handler
	client.wg.Add(1)
	go client.handleDeliveryReports()

	return client, nil
}

// buildConfigMap translates the client config into librdkafka properties
func buildConfigMap(config *ClientConfig) *kafka.ConfigMap {
	configMap := &kafka.ConfigMap{
		"bootstrap.servers": strings.Join(config.Brokers, ","),
		"acks":              int(config.Acks),
	}

	if config.ClientID != "" {
		configMap.SetKey("client.id", config.ClientID)
	}

	if config.ConnectionTimeout > 0 {
		configMap.SetKey("socket.connection.setup.timeout.ms", int(config.ConnectionTimeout.Milliseconds()))
	}

	if config.RequestTimeout > 0 {
		configMap.SetKey("request.timeout.ms", int(config.RequestTimeout.Milliseconds()))
	}

	if config.DeliveryTimeout > 0 {
		configMap.SetKey("delivery.timeout.ms", int(config.DeliveryTimeout.Milliseconds()))
	}

	if config.Linger > 0 {
		configMap.SetKey("linger.ms", int(config.Linger.Milliseconds()))
	}

	if config.Compression != CompressionNone {
		configMap.SetKey("compression.type", getCompressionName(config.Compression))
	}

	if config.Idempotent {
		configMap.SetKey("enable.idempotence", true)
	}

	if config.SSL {
		configMap.SetKey("security.protocol", "ssl")
	}

	if config.SASL != nil {
		if config.SSL {
			configMap.SetKey("security.protocol", "sasl_ssl")
		} else {
			configMap.SetKey("security.protocol", "sasl_plaintext")
		}
		configMap.SetKey("sasl.mechanism", config.SASL.Mechanism)
		configMap.SetKey("sasl.username", config.SASL.Username)
		configMap.SetKey("sasl.password", config.SASL.Password)
	}

	// Set log level
	configMap.SetKey("log_level", int(config.LogLevel))

	return configMap
}

// SendAsync hands msg to the producer and returns its in-flight handle
// without waiting. Produce errors resolve the handle immediately.
func (c *KafkaClient) SendAsync(ctx context.Context, topic string, msg *Message) *Delivery {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return FailedDelivery(topic, ErrClientClosed)
	}

	kafkaMsg := c.buildKafkaMessage(topic, msg)
	delivery := newDelivery(topic, c.logger)

	// Add tracing
	if c.tracer != nil {
		spanCtx, endSpan := c.tracer.StartProducerSpan(ctx, topic, msg)
		c.tracer.InjectTraceContext(spanCtx, kafkaMsg)
		delivery.OnComplete(endSpan)
	}

	kafkaMsg.Opaque = delivery
	if err := c.producer.Produce(kafkaMsg, nil); err != nil {
		delivery.resolve(&DeliveryReport{
			Topic:     topic,
			Partition: kafkaMsg.TopicPartition.Partition,
			Offset:    -1,
			Key:       msg.Key,
			Err:       fmt.Errorf("failed to produce message: %w", err),
		})
	}

	return delivery
}

// Send sends a single message to a topic and waits for its delivery report
func (c *KafkaClient) Send(ctx context.Context, topic string, msg *Message) (*DeliveryReport, error) {
	return c.SendAsync(ctx, topic, msg).Wait(ctx)
}

// SendFireAndForget sends a message and drops the handle. Failures only
// show up in the client log.
func (c *KafkaClient) SendFireAndForget(ctx context.Context, topic string, msg *Message) {
	c.SendAsync(ctx, topic, msg).OnComplete(func(report *DeliveryReport) {
		if report.Err != nil {
			c.logger.Error("Delivery failed for topic %s: %v", topic, report.Err)
		}
	})
}

// Flush waits for all outstanding messages to be delivered
func (c *KafkaClient) Flush(timeout time.Duration) error {
	remaining := c.producer.Flush(int(timeout.Milliseconds()))
	if remaining > 0 {
		return fmt.Errorf("%d messages still in queue after flush", remaining)
	}
	return nil
}

// Close flushes outstanding messages and closes the client. Messages still
// undelivered after CloseTimeout are purged, so every handle resolves.
func (c *KafkaClient) Close() error {
	// waits for in-progress sends; later ones see closed
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	remaining := c.producer.Flush(int(c.config.CloseTimeout.Milliseconds()))
	if remaining > 0 {
		c.logger.Warn("%d messages still in flight after %s, purging", remaining, c.config.CloseTimeout)
		if err := c.producer.Purge(kafka.PurgeQueue | kafka.PurgeInFlight); err != nil {
			c.logger.Error("Failed to purge producer queue: %v", err)
		}
		c.producer.Flush(int(purgeFlushTimeout.Milliseconds()))
	}

	close(c.done)
	c.wg.Wait()

	c.producer.Close()
	return nil
}

// buildKafkaMessage builds a kafka.Message from Message
func (c *KafkaClient) buildKafkaMessage(topic string, msg *Message) *kafka.Message {
	kafkaMsg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{
			Topic:     &topic,
			Partition: kafka.PartitionAny,
		},
		Value: msg.Value,
	}

	if msg.Key != nil {
		kafkaMsg.Key = msg.Key
	}

	if msg.Partition > 0 {
		kafkaMsg.TopicPartition.Partition = msg.Partition
	}

	if !msg.Timestamp.IsZero() {
		kafkaMsg.Timestamp = msg.Timestamp
	}

	if msg.Headers != nil {
		for k, v := range msg.Headers {
			kafkaMsg.Headers = append(kafkaMsg.Headers, kafka.Header{
				Key:   k,
				Value: v,
			})
		}
	}

	return kafkaMsg
}

// handleDeliveryReports resolves handles from the producer's event channel
func (c *KafkaClient) handleDeliveryReports() {
	defer c.wg.Done()
	for {
		select {
		case <-c.done:
			c.drainEvents()
			return
		case e, ok := <-c.producer.Events():
			if !ok {
				return
			}
			c.handleEvent(e)
		}
	}
}

// drainEvents handles whatever is already buffered on the event channel
func (c *KafkaClient) drainEvents() {
	for {
		select {
		case e, ok := <-c.producer.Events():
			if !ok {
				return
			}
			c.handleEvent(e)
		default:
			return
		}
	}
}

func (c *KafkaClient) handleEvent(e kafka.Event) {
	switch ev := e.(type) {
	case *kafka.Message:
		report := toDeliveryReport(ev)
		delivery, ok := ev.Opaque.(*Delivery)
		if !ok {
			if report.Err != nil {
				c.logger.Error("Delivery failed: %v", report.Err)
			}
			return
		}
		if !delivery.resolve(report) {
			c.logger.Warn("Duplicate delivery report for topic %s partition %d", report.Topic, report.Partition)
		}
	case kafka.Error:
		c.logger.Error("Kafka error: %v", ev)
	default:
		c.logger.Debug("Ignored producer event: %v", ev)
	}
}

// toDeliveryReport converts a confluent delivery report
func toDeliveryReport(m *kafka.Message) *DeliveryReport {
	report := &DeliveryReport{
		Partition: m.TopicPartition.Partition,
		Offset:    int64(m.TopicPartition.Offset),
		Timestamp: m.Timestamp,
		Key:       m.Key,
		Err:       m.TopicPartition.Error,
	}
	if m.TopicPartition.Topic != nil {
		report.Topic = *m.TopicPartition.Topic
	}
	return report
}

// Helper functions

func getCompressionName(compression Compression) string {
	switch compression {
	case CompressionGZIP:
		return "gzip"
	case CompressionSnappy:
		return "snappy"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return "none"
	}
}
