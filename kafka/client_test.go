package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loipv/library-events-producer/kafka/kafkatest"
)

const testTopic = "library-events"

func newTestClient(t *testing.T, producer *kafkatest.Producer, opts ...ClientOption) *KafkaClient {
	t.Helper()
	opts = append([]ClientOption{
		WithBrokers("localhost:9092"),
		WithProducer(producer),
		WithLogger(NewNoopLogger()),
		WithCloseTimeout(50 * time.Millisecond),
	}, opts...)
	client, err := NewClient(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func waitCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestNewClient_RequiresBrokers(t *testing.T) {
	_, err := NewClient(WithProducer(kafkatest.NewProducer()))
	assert.EqualError(t, err, "brokers are required")
}

func TestSend_Acknowledged(t *testing.T) {
	producer := kafkatest.NewProducer()
	producer.Partition = 2
	client := newTestClient(t, producer)

	report, err := client.Send(waitCtx(t), testTopic, &Message{
		Key:   []byte{0, 0, 0, 123},
		Value: []byte(`{"libraryEventId":123}`),
	})
	require.NoError(t, err)
	assert.Equal(t, testTopic, report.Topic)
	assert.Equal(t, int32(2), report.Partition)
	assert.Equal(t, int64(0), report.Offset)
	assert.Equal(t, []byte{0, 0, 0, 123}, report.Key)
	assert.False(t, report.Timestamp.IsZero())

	report, err = client.Send(waitCtx(t), testTopic, &Message{Value: []byte("{}")})
	require.NoError(t, err)
	assert.Equal(t, int64(1), report.Offset)
}

func TestSend_DeliveryFailure(t *testing.T) {
	producer := kafkatest.NewProducer()
	producer.DeliveryErr = kafka.NewError(kafka.ErrUnknownTopicOrPart, "unknown topic", false)
	client := newTestClient(t, producer)

	report, err := client.Send(waitCtx(t), testTopic, &Message{Value: []byte("{}")})
	require.Error(t, err)
	var kerr kafka.Error
	require.True(t, errors.As(err, &kerr))
	assert.Equal(t, kafka.ErrUnknownTopicOrPart, kerr.Code())
	assert.True(t, report.Failed())
}

func TestSend_ProduceError(t *testing.T) {
	producer := kafkatest.NewProducer()
	producer.ProduceErr = kafka.NewError(kafka.ErrQueueFull, "queue full", false)
	client := newTestClient(t, producer)

	_, err := client.Send(waitCtx(t), testTopic, &Message{Value: []byte("{}")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to produce message")
	assert.Empty(t, producer.Messages())
}

func TestSend_Timeout(t *testing.T) {
	producer := kafkatest.NewProducer()
	producer.Hold = true
	client := newTestClient(t, producer)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := client.Send(ctx, testTopic, &Message{Value: []byte("{}")})
	assert.ErrorIs(t, err, ErrDeliveryTimeout)

	// The send is still in flight and completes later.
	require.Len(t, producer.Messages(), 1)
	delivery := producer.Messages()[0].Opaque.(*Delivery)
	producer.Release(nil)
	report, err := delivery.Wait(waitCtx(t))
	require.NoError(t, err)
	assert.Equal(t, int64(0), report.Offset)
}

func TestSendAsync_DoesNotBlock(t *testing.T) {
	producer := kafkatest.NewProducer()
	producer.Hold = true
	client := newTestClient(t, producer)

	delivery := client.SendAsync(context.Background(), testTopic, &Message{Value: []byte("{}")})
	assert.Nil(t, delivery.Report())
	assert.Equal(t, testTopic, delivery.Topic())

	reports := make(chan *DeliveryReport, 2)
	delivery.OnComplete(func(r *DeliveryReport) { reports <- r })

	producer.Release(nil)
	select {
	case r := <-reports:
		assert.False(t, r.Failed())
	case <-time.After(2 * time.Second):
		t.Fatal("callback not invoked")
	}
	assert.Len(t, reports, 0)
}

func TestSendFireAndForget(t *testing.T) {
	producer := kafkatest.NewProducer()
	client := newTestClient(t, producer)

	client.SendFireAndForget(context.Background(), testTopic, &Message{Value: []byte("{}")})

	require.Eventually(t, func() bool {
		msgs := producer.Messages()
		if len(msgs) != 1 {
			return false
		}
		return msgs[0].Opaque.(*Delivery).Report() != nil
	}, 2*time.Second, 5*time.Millisecond)
}

func TestClose_PurgesInFlight(t *testing.T) {
	producer := kafkatest.NewProducer()
	producer.Hold = true
	client := newTestClient(t, producer)

	delivery := client.SendAsync(context.Background(), testTopic, &Message{Value: []byte("{}")})
	require.NoError(t, client.Close())

	report := delivery.Report()
	require.NotNil(t, report, "close must resolve every handle")
	var kerr kafka.Error
	require.True(t, errors.As(report.Err, &kerr))
	assert.Equal(t, kafka.ErrPurgeQueue, kerr.Code())

	// Second close is a no-op
	assert.NoError(t, client.Close())
}

func TestClose_ConcurrentSendsAllResolve(t *testing.T) {
	producer := kafkatest.NewProducer()
	producer.Hold = true
	client := newTestClient(t, producer)

	const senders = 200
	deliveries := make(chan *Delivery, senders)
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < senders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			deliveries <- client.SendAsync(context.Background(), testTopic, &Message{Value: []byte("{}")})
		}()
	}

	close(start)
	require.NoError(t, client.Close())
	wg.Wait()
	close(deliveries)

	timeout := time.After(2 * time.Second)
	for d := range deliveries {
		select {
		case <-d.Done():
			require.Error(t, d.Report().Err)
		case <-timeout:
			t.Fatal("delivery left unresolved after close")
		}
	}
}

func TestSendAfterClose(t *testing.T) {
	client := newTestClient(t, kafkatest.NewProducer())
	require.NoError(t, client.Close())

	_, err := client.Send(context.Background(), testTopic, &Message{Value: []byte("{}")})
	assert.ErrorIs(t, err, ErrClientClosed)
}

func TestFlush(t *testing.T) {
	producer := kafkatest.NewProducer()
	producer.Hold = true
	client := newTestClient(t, producer)

	client.SendFireAndForget(context.Background(), testTopic, &Message{Value: []byte("{}")})
	assert.EqualError(t, client.Flush(10*time.Millisecond), "1 messages still in queue after flush")

	producer.Release(nil)
	assert.NoError(t, client.Flush(10*time.Millisecond))
}

func TestBuildKafkaMessage(t *testing.T) {
	c := &KafkaClient{}
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	m := c.buildKafkaMessage(testTopic, &Message{
		Key:       []byte("k"),
		Value:     []byte("v"),
		Headers:   Headers{"event_type": []byte("NEW")},
		Timestamp: ts,
	})
	assert.Equal(t, testTopic, *m.TopicPartition.Topic)
	assert.Equal(t, kafka.PartitionAny, m.TopicPartition.Partition)
	assert.Equal(t, []byte("k"), m.Key)
	assert.Equal(t, ts, m.Timestamp)
	require.Len(t, m.Headers, 1)
	assert.Equal(t, "event_type", m.Headers[0].Key)

	m = c.buildKafkaMessage(testTopic, &Message{Value: []byte("v"), Partition: 3})
	assert.Nil(t, m.Key)
	assert.Equal(t, int32(3), m.TopicPartition.Partition)
}

func TestBuildConfigMap(t *testing.T) {
	cfg := newDefaultClientConfig()
	cfg.Brokers = []string{"a:9092", "b:9092"}
	cfg.ClientID = "library-events-producer"
	cfg.Compression = CompressionZSTD
	cfg.Idempotent = true
	cfg.SASL = &SASLConfig{Mechanism: "PLAIN", Username: "u", Password: "p"}

	m := buildConfigMap(cfg)

	get := func(key string) kafka.ConfigValue {
		v, err := m.Get(key, nil)
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, "a:9092,b:9092", get("bootstrap.servers"))
	assert.Equal(t, -1, get("acks"))
	assert.Equal(t, "library-events-producer", get("client.id"))
	assert.Equal(t, "zstd", get("compression.type"))
	assert.Equal(t, true, get("enable.idempotence"))
	assert.Equal(t, "sasl_plaintext", get("security.protocol"))
	assert.Equal(t, 120000, get("delivery.timeout.ms"))
	assert.Equal(t, 5, get("linger.ms"))
}
