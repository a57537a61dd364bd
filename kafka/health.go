package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

// HealthChecker provides health check functionality for Kafka
type HealthChecker struct {
	brokers  []string
	timeout  time.Duration
	newAdmin AdminFactory
}

// NewHealthChecker creates a health checker for the client's brokers
func NewHealthChecker(client *KafkaClient) *HealthChecker {
	return NewHealthCheckerWithBrokers(client.config.Brokers)
}

// NewHealthCheckerWithBrokers creates a new health checker with brokers
func NewHealthCheckerWithBrokers(brokers []string) *HealthChecker {
	return &HealthChecker{
		brokers:  brokers,
		timeout:  10 * time.Second,
		newAdmin: NewAdminClient,
	}
}

// SetTimeout sets the health check timeout
func (h *HealthChecker) SetTimeout(timeout time.Duration) {
	h.timeout = timeout
}

// SetAdminFactory replaces how admin clients are opened
func (h *HealthChecker) SetAdminFactory(f AdminFactory) {
	h.newAdmin = f
}

// Check performs a basic health check
func (h *HealthChecker) Check(ctx context.Context) *HealthResult {
	metadata, down := h.metadata(ctx, nil, true)
	if down != nil {
		return down
	}

	// Check if we have at least one broker
	if len(metadata.Brokers) == 0 {
		return downResult(fmt.Errorf("no brokers available"), nil)
	}

	return &HealthResult{
		Status: HealthStatusUp,
		Details: map[string]interface{}{
			"brokers":       len(metadata.Brokers),
			"topics":        len(metadata.Topics),
			"originatingId": metadata.OriginatingBroker.ID,
		},
	}
}

// CheckBrokers checks broker connectivity
func (h *HealthChecker) CheckBrokers(ctx context.Context) *HealthResult {
	metadata, down := h.metadata(ctx, nil, true)
	if down != nil {
		return down
	}

	brokerInfos := make([]map[string]interface{}, 0, len(metadata.Brokers))
	for _, broker := range metadata.Brokers {
		brokerInfos = append(brokerInfos, map[string]interface{}{
			"id":   broker.ID,
			"host": broker.Host,
			"port": broker.Port,
		})
	}

	return &HealthResult{
		Status: HealthStatusUp,
		Details: map[string]interface{}{
			"brokers":     brokerInfos,
			"brokerCount": len(metadata.Brokers),
		},
	}
}

// CheckTopic checks if a topic exists and is accessible
func (h *HealthChecker) CheckTopic(ctx context.Context, topic string) *HealthResult {
	metadata, down := h.metadata(ctx, &topic, false)
	if down != nil {
		down.Details["topic"] = topic
		return down
	}

	topicMeta, ok := metadata.Topics[topic]
	if !ok {
		return downResult(fmt.Errorf("topic not found: %s", topic), map[string]interface{}{
			"error": "topic not found",
			"topic": topic,
		})
	}

	if topicMeta.Error.Code() != kafka.ErrNoError {
		return downResult(topicMeta.Error, map[string]interface{}{
			"error": topicMeta.Error.String(),
			"topic": topic,
		})
	}

	partitionInfos := make([]map[string]interface{}, 0, len(topicMeta.Partitions))
	for _, p := range topicMeta.Partitions {
		partitionInfos = append(partitionInfos, map[string]interface{}{
			"id":       p.ID,
			"leader":   p.Leader,
			"replicas": len(p.Replicas),
			"isrs":     len(p.Isrs),
		})
	}

	return &HealthResult{
		Status: HealthStatusUp,
		Details: map[string]interface{}{
			"topic":          topic,
			"partitionCount": len(topicMeta.Partitions),
			"partitions":     partitionInfos,
		},
	}
}

// metadata fetches cluster metadata, returning a DOWN result on failure
func (h *HealthChecker) metadata(ctx context.Context, topic *string, allTopics bool) (*kafka.Metadata, *HealthResult) {
	// Check if context is already cancelled
	select {
	case <-ctx.Done():
		return nil, downResult(ctx.Err(), nil)
	default:
	}

	adminClient, err := h.newAdmin(h.brokers)
	if err != nil {
		return nil, downResult(err, nil)
	}
	defer adminClient.Close()

	// Get metadata with timeout (use context deadline if available)
	timeout := h.timeout
	if deadline, ok := ctx.Deadline(); ok {
		remaining := time.Until(deadline)
		if remaining < timeout {
			timeout = remaining
		}
	}

	metadata, err := adminClient.GetMetadata(topic, allTopics, int(timeout.Milliseconds()))
	if err != nil {
		return nil, downResult(err, nil)
	}
	return metadata, nil
}

func downResult(err error, details map[string]interface{}) *HealthResult {
	if details == nil {
		details = map[string]interface{}{
			"error": err.Error(),
		}
	}
	return &HealthResult{
		Status:  HealthStatusDown,
		Error:   err,
		Details: details,
	}
}
