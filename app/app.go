// Package app wires the producer service together with fx.
package app

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/loipv/library-events-producer/config"
	"github.com/loipv/library-events-producer/httpapi"
	"github.com/loipv/library-events-producer/kafka"
	"github.com/loipv/library-events-producer/libraryevent"
	"github.com/loipv/library-events-producer/logging"
)

// Options returns the whole application graph for cfg
func Options(cfg config.Config) fx.Option {
	return fx.Options(
		fx.Supply(cfg),
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.Named("fx")}
		}),
		LoggingModule,
		KafkaModule,
		ProducerModule,
		HTTPModule,
	)
}

// New creates the application
func New(cfg config.Config) *fx.App {
	return fx.New(Options(cfg))
}

// LoggingModule provides the zap logger and the metrics registry
var LoggingModule = fx.Module("logging",
	fx.Provide(
		NewLogger,
		NewRegistry,
	),
)

// NewLogger builds the service logger and flushes it on stop
func NewLogger(lc fx.Lifecycle, cfg config.Config) (*zap.Logger, error) {
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			// stderr cannot be synced on some platforms
			_ = logger.Sync()
			return nil
		},
	})
	return logger, nil
}

// NewRegistry returns a registry with the Go runtime and process collectors
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// KafkaModule provides the broker client, its health checker and topic provisioning
var KafkaModule = fx.Module("kafka",
	fx.Provide(
		NewKafkaClient,
		func(client *kafka.KafkaClient) *kafka.HealthChecker {
			return kafka.NewHealthChecker(client)
		},
	),
	fx.Invoke(ProvisionTopic),
)

// KafkaParams groups what the broker client needs
type KafkaParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    config.Config
	Logger    *zap.Logger
	Producer  kafka.Producer `optional:"true"`
}

// NewKafkaClient creates the broker client and closes it on stop, after the
// HTTP server has stopped taking requests.
func NewKafkaClient(p KafkaParams) (*kafka.KafkaClient, error) {
	opts := p.Config.Kafka.ClientOptions()
	opts = append(opts, kafka.WithLogger(kafka.NewZapLogger(p.Logger)))
	if p.Producer != nil {
		opts = append(opts, kafka.WithProducer(p.Producer))
	}

	client, err := kafka.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("kafka client: %w", err)
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			p.Logger.Info("closing kafka client")
			return client.Close()
		},
	})
	return client, nil
}

// ProvisionParams groups what topic provisioning needs
type ProvisionParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    config.Config
	Logger    *zap.Logger
	Admin     kafka.AdminFactory `optional:"true"`
}

// ProvisionTopic creates the topic on start when auto creation is enabled
func ProvisionTopic(p ProvisionParams) {
	if !p.Config.Kafka.AutoCreateTopic {
		return
	}

	provisioner := kafka.NewTopicProvisioner(p.Config.Kafka.Brokers, kafka.NewZapLogger(p.Logger))
	if p.Admin != nil {
		provisioner.SetAdminFactory(p.Admin)
	}
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return provisioner.EnsureTopic(ctx, p.Config.Kafka.TopicSpec())
		},
	})
}

// ProducerModule provides the library event producer
var ProducerModule = fx.Module("producer",
	fx.Provide(
		func(reg *prometheus.Registry) *libraryevent.Metrics {
			return libraryevent.NewMetrics(reg)
		},
		libraryevent.NewDispatchCallback,
		NewProducer,
	),
)

// NewProducer creates the library event producer on the configured topic
func NewProducer(cfg config.Config, client *kafka.KafkaClient, callback *libraryevent.DispatchCallback) *libraryevent.Producer {
	return libraryevent.NewProducer(client, callback,
		libraryevent.WithTopic(cfg.Kafka.Topic),
		libraryevent.WithSyncTimeout(cfg.Producer.SyncTimeout),
	)
}

// HTTPModule provides the HTTP server and starts it
var HTTPModule = fx.Module("http",
	fx.Provide(
		func(reg *prometheus.Registry) *httpapi.HTTPMetrics {
			return httpapi.NewHTTPMetrics(reg)
		},
		NewServer,
	),
	fx.Invoke(RegisterServerLifecycle),
)

// NewServer creates the HTTP server with the library event and system routes
func NewServer(
	cfg config.Config,
	logger *zap.Logger,
	metrics *httpapi.HTTPMetrics,
	reg *prometheus.Registry,
	producer *libraryevent.Producer,
	health *kafka.HealthChecker,
) *httpapi.Server {
	return httpapi.NewServer(cfg.Server, logger, metrics,
		httpapi.NewLibraryEventController(producer, cfg.Producer.Mode, logger),
		httpapi.NewSystemController(health, cfg.Kafka.Topic, reg),
	)
}

// RegisterServerLifecycle starts and stops the HTTP server with the app
func RegisterServerLifecycle(lc fx.Lifecycle, srv *httpapi.Server) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return srv.Start()
		},
		OnStop: func(ctx context.Context) error {
			return srv.Stop(ctx)
		},
	})
}
