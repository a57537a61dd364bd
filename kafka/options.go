package kafka

import (
	"time"
)

// ClientConfig holds all client configuration
type ClientConfig struct {
	// Connection
	Brokers           []string
	ClientID          string
	ConnectionTimeout time.Duration
	RequestTimeout    time.Duration

	// SSL/SASL
	SSL  bool
	SASL *SASLConfig

	// Producer settings
	Acks            Acks
	Compression     Compression
	Idempotent      bool
	Linger          time.Duration
	DeliveryTimeout time.Duration
	CloseTimeout    time.Duration

	// Logging
	LogLevel LogLevel
	Logger   Logger

	// Tracing
	Tracing *TracingConfig

	// Producer overrides the confluent producer built from this config
	Producer Producer
}

// SASLConfig holds SASL authentication configuration
type SASLConfig struct {
	Mechanism string
	Username  string
	Password  string
}

// TracingConfig holds OpenTelemetry tracing configuration
type TracingConfig struct {
	Enabled       bool
	TracerName    string
	TracerVersion string
}

// ClientOption is a function that configures the client
type ClientOption func(*ClientConfig)

// Default values
var (
	DefaultConnectionTimeout = 10 * time.Second
	DefaultRequestTimeout    = 30 * time.Second
	DefaultDeliveryTimeout   = 2 * time.Minute
	DefaultCloseTimeout      = 10 * time.Second
	DefaultLinger            = 5 * time.Millisecond
)

// ==================== Client Options ====================

// WithBrokers sets the Kafka broker addresses
func WithBrokers(brokers ...string) ClientOption {
	return func(c *ClientConfig) {
		c.Brokers = brokers
	}
}

// WithClientID sets the client ID
func WithClientID(clientID string) ClientOption {
	return func(c *ClientConfig) {
		c.ClientID = clientID
	}
}

// WithConnectionTimeout sets the connection timeout
func WithConnectionTimeout(timeout time.Duration) ClientOption {
	return func(c *ClientConfig) {
		c.ConnectionTimeout = timeout
	}
}

// WithRequestTimeout sets the request timeout
func WithRequestTimeout(timeout time.Duration) ClientOption {
	return func(c *ClientConfig) {
		c.RequestTimeout = timeout
	}
}

// WithSSL enables SSL
func WithSSL(enabled bool) ClientOption {
	return func(c *ClientConfig) {
		c.SSL = enabled
	}
}

// WithSASL sets SASL authentication
func WithSASL(sasl *SASLConfig) ClientOption {
	return func(c *ClientConfig) {
		c.SASL = sasl
	}
}

// WithAcks sets the acknowledgment level
func WithAcks(acks Acks) ClientOption {
	return func(c *ClientConfig) {
		c.Acks = acks
	}
}

// WithCompression sets the compression type
func WithCompression(compression Compression) ClientOption {
	return func(c *ClientConfig) {
		c.Compression = compression
	}
}

// WithIdempotent enables idempotent producer
func WithIdempotent(enabled bool) ClientOption {
	return func(c *ClientConfig) {
		c.Idempotent = enabled
	}
}

// WithLinger sets how long librdkafka waits to fill a batch
func WithLinger(linger time.Duration) ClientOption {
	return func(c *ClientConfig) {
		c.Linger = linger
	}
}

// WithDeliveryTimeout bounds the time librdkafka spends delivering one
// message, retries included. After it the message is reported as failed.
func WithDeliveryTimeout(timeout time.Duration) ClientOption {
	return func(c *ClientConfig) {
		c.DeliveryTimeout = timeout
	}
}

// WithCloseTimeout sets how long Close waits for outstanding deliveries
func WithCloseTimeout(timeout time.Duration) ClientOption {
	return func(c *ClientConfig) {
		c.CloseTimeout = timeout
	}
}

// WithLogLevel sets the log level
func WithLogLevel(level LogLevel) ClientOption {
	return func(c *ClientConfig) {
		c.LogLevel = level
	}
}

// WithLogger sets a custom logger
func WithLogger(logger Logger) ClientOption {
	return func(c *ClientConfig) {
		c.Logger = logger
	}
}

// WithTracing sets tracing configuration
func WithTracing(tracing *TracingConfig) ClientOption {
	return func(c *ClientConfig) {
		c.Tracing = tracing
	}
}

// WithProducer uses p instead of building a confluent producer
func WithProducer(p Producer) ClientOption {
	return func(c *ClientConfig) {
		c.Producer = p
	}
}

// ==================== Default Configs ====================

// newDefaultClientConfig creates a new client config with default values
func newDefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		ConnectionTimeout: DefaultConnectionTimeout,
		RequestTimeout:    DefaultRequestTimeout,
		DeliveryTimeout:   DefaultDeliveryTimeout,
		CloseTimeout:      DefaultCloseTimeout,
		Linger:            DefaultLinger,
		Acks:              AcksAll,
		Compression:       CompressionNone,
		LogLevel:          LogLevelInfo,
	}
}
