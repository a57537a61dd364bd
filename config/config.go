// Package config loads the service configuration from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/loipv/library-events-producer/kafka"
	"github.com/loipv/library-events-producer/logging"
)

// Prefix of every environment variable, e.g. LIBRARY_KAFKA_BROKERS
const Prefix = "LIBRARY"

// PublishMode selects how the HTTP handlers hand events to the producer
type PublishMode string

const (
	PublishAsync         PublishMode = "async"
	PublishSync          PublishMode = "sync"
	PublishFireAndForget PublishMode = "fire-and-forget"
)

// ServerConfig is the HTTP listener
type ServerConfig struct {
	Host            string        `envconfig:"HOST" default:"0.0.0.0"`
	Port            string        `envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" default:"15s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	AllowOrigins    []string      `envconfig:"ALLOW_ORIGINS" default:"http://localhost:3000"`
}

// Addr returns host:port
func (c ServerConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// KafkaConfig is the broker connection and topic
type KafkaConfig struct {
	Brokers         []string      `envconfig:"BROKERS" default:"localhost:9092"`
	Topic           string        `envconfig:"TOPIC" default:"library-events"`
	ClientID        string        `envconfig:"CLIENT_ID" default:"library-events-producer"`
	Acks            string        `envconfig:"ACKS" default:"all"`
	Compression     string        `envconfig:"COMPRESSION" default:"none"`
	Idempotent      bool          `envconfig:"IDEMPOTENT" default:"true"`
	Linger          time.Duration `envconfig:"LINGER" default:"5ms"`
	DeliveryTimeout time.Duration `envconfig:"DELIVERY_TIMEOUT" default:"2m"`
	CloseTimeout    time.Duration `envconfig:"CLOSE_TIMEOUT" default:"10s"`
	SSL             bool          `envconfig:"SSL" default:"false"`
	SASLMechanism   string        `envconfig:"SASL_MECHANISM"`
	SASLUsername    string        `envconfig:"SASL_USERNAME"`
	SASLPassword    string        `envconfig:"SASL_PASSWORD"`
	Tracing         bool          `envconfig:"TRACING" default:"false"`

	// Topic provisioning at startup, for local brokers
	AutoCreateTopic   bool `envconfig:"AUTO_CREATE_TOPIC" default:"false"`
	Partitions        int  `envconfig:"PARTITIONS" default:"1"`
	ReplicationFactor int  `envconfig:"REPLICATION_FACTOR" default:"1"`
}

// ProducerConfig is the library event producer
type ProducerConfig struct {
	Mode        PublishMode   `envconfig:"MODE" default:"async"`
	SyncTimeout time.Duration `envconfig:"SYNC_TIMEOUT" default:"10s"`
}

// Config is the whole service configuration
type Config struct {
	Server   ServerConfig   `envconfig:"SERVER"`
	Kafka    KafkaConfig    `envconfig:"KAFKA"`
	Producer ProducerConfig `envconfig:"PRODUCER"`
	Log      logging.Config `envconfig:"LOG"`
}

// Load reads the optional .env files, then the environment
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		// missing files are fine, the environment may carry everything
		_ = godotenv.Load(file)
	}

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values envconfig cannot
func (c Config) Validate() error {
	if len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("config: kafka brokers are required")
	}
	if c.Kafka.Topic == "" {
		return fmt.Errorf("config: kafka topic is required")
	}
	if _, err := c.Kafka.acks(); err != nil {
		return err
	}
	if _, err := c.Kafka.compression(); err != nil {
		return err
	}
	switch c.Producer.Mode {
	case PublishAsync, PublishSync, PublishFireAndForget:
	default:
		return fmt.Errorf("config: unknown producer mode %q", c.Producer.Mode)
	}
	if c.Producer.SyncTimeout <= 0 {
		return fmt.Errorf("config: producer sync timeout must be positive")
	}
	return nil
}

func (c KafkaConfig) acks() (kafka.Acks, error) {
	switch strings.ToLower(c.Acks) {
	case "all", "-1":
		return kafka.AcksAll, nil
	case "1", "leader":
		return kafka.AcksLeader, nil
	case "0", "none":
		// without acks the broker reports no partition or offset
		return 0, fmt.Errorf("config: kafka acks %q is not supported, delivery reports would carry no offset", c.Acks)
	default:
		return 0, fmt.Errorf("config: unknown kafka acks %q", c.Acks)
	}
}

func (c KafkaConfig) compression() (kafka.Compression, error) {
	switch strings.ToLower(c.Compression) {
	case "", "none":
		return kafka.CompressionNone, nil
	case "gzip":
		return kafka.CompressionGZIP, nil
	case "snappy":
		return kafka.CompressionSnappy, nil
	case "lz4":
		return kafka.CompressionLZ4, nil
	case "zstd":
		return kafka.CompressionZSTD, nil
	default:
		return 0, fmt.Errorf("config: unknown kafka compression %q", c.Compression)
	}
}

// ClientOptions translates the config into broker client options.
// Call Validate first; invalid acks or compression fall back to defaults.
func (c KafkaConfig) ClientOptions() []kafka.ClientOption {
	acks, err := c.acks()
	if err != nil {
		acks = kafka.AcksAll
	}
	compression, _ := c.compression()

	opts := []kafka.ClientOption{
		kafka.WithBrokers(c.Brokers...),
		kafka.WithClientID(c.ClientID),
		kafka.WithAcks(acks),
		kafka.WithCompression(compression),
		kafka.WithIdempotent(c.Idempotent),
		kafka.WithLinger(c.Linger),
		kafka.WithDeliveryTimeout(c.DeliveryTimeout),
		kafka.WithCloseTimeout(c.CloseTimeout),
		kafka.WithSSL(c.SSL),
	}
	if c.SASLMechanism != "" {
		opts = append(opts, kafka.WithSASL(&kafka.SASLConfig{
			Mechanism: c.SASLMechanism,
			Username:  c.SASLUsername,
			Password:  c.SASLPassword,
		}))
	}
	if c.Tracing {
		opts = append(opts, kafka.WithTracing(&kafka.TracingConfig{Enabled: true}))
	}
	return opts
}

// TopicSpec describes the topic to provision
func (c KafkaConfig) TopicSpec() kafka.TopicSpec {
	return kafka.TopicSpec{
		Name:              c.Topic,
		Partitions:        c.Partitions,
		ReplicationFactor: c.ReplicationFactor,
	}
}
