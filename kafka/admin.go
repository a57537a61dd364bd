package kafka

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

// AdminClient is the subset of *kafka.AdminClient used for health checks
// and topic provisioning
type AdminClient interface {
	GetMetadata(topic *string, allTopics bool, timeoutMs int) (*kafka.Metadata, error)
	CreateTopics(ctx context.Context, topics []kafka.TopicSpecification, options ...kafka.CreateTopicsAdminOption) ([]kafka.TopicResult, error)
	Close()
}

// AdminFactory opens an admin client against brokers
type AdminFactory func(brokers []string) (AdminClient, error)

// NewAdminClient is the default AdminFactory
func NewAdminClient(brokers []string) (AdminClient, error) {
	return kafka.NewAdminClient(&kafka.ConfigMap{
		"bootstrap.servers": strings.Join(brokers, ","),
	})
}

// TopicSpec describes a topic to provision
type TopicSpec struct {
	Name              string
	Partitions        int
	ReplicationFactor int
}

// TopicProvisioner creates topics that do not exist yet
type TopicProvisioner struct {
	brokers  []string
	newAdmin AdminFactory
	timeout  time.Duration
	logger   Logger
}

// NewTopicProvisioner creates a provisioner for brokers
func NewTopicProvisioner(brokers []string, logger Logger) *TopicProvisioner {
	if logger == nil {
		logger = NewNoopLogger()
	}
	return &TopicProvisioner{
		brokers:  brokers,
		newAdmin: NewAdminClient,
		timeout:  30 * time.Second,
		logger:   logger,
	}
}

// SetAdminFactory replaces how admin clients are opened
func (p *TopicProvisioner) SetAdminFactory(f AdminFactory) {
	p.newAdmin = f
}

// EnsureTopic creates spec.Name unless it already exists
func (p *TopicProvisioner) EnsureTopic(ctx context.Context, spec TopicSpec) error {
	if spec.Name == "" {
		return fmt.Errorf("topic name is required")
	}
	if spec.Partitions <= 0 {
		spec.Partitions = 1
	}
	if spec.ReplicationFactor <= 0 {
		spec.ReplicationFactor = 1
	}

	admin, err := p.newAdmin(p.brokers)
	if err != nil {
		return fmt.Errorf("failed to create admin client: %w", err)
	}
	defer admin.Close()

	results, err := admin.CreateTopics(ctx, []kafka.TopicSpecification{{
		Topic:             spec.Name,
		NumPartitions:     spec.Partitions,
		ReplicationFactor: spec.ReplicationFactor,
	}}, kafka.SetAdminOperationTimeout(p.timeout))
	if err != nil {
		return fmt.Errorf("failed to create topic %s: %w", spec.Name, err)
	}

	for _, result := range results {
		switch result.Error.Code() {
		case kafka.ErrNoError:
			p.logger.Info("Created topic %s with %d partitions and replication factor %d",
				result.Topic, spec.Partitions, spec.ReplicationFactor)
		case kafka.ErrTopicAlreadyExists:
			p.logger.Debug("Topic %s already exists", result.Topic)
		default:
			return fmt.Errorf("failed to create topic %s: %w", result.Topic, result.Error)
		}
	}
	return nil
}
