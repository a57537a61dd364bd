package httpapi

//go:generate mockgen -source=ports.go -destination=mocks/ports_mock.go -package=mocks

import (
	"context"

	"github.com/loipv/library-events-producer/kafka"
	"github.com/loipv/library-events-producer/libraryevent"
)

// EventPublisher is what the handlers need from the library event producer.
// *libraryevent.Producer implements it.
type EventPublisher interface {
	SendAsync(ctx context.Context, ev libraryevent.LibraryEvent) *kafka.Delivery
	SendSync(ctx context.Context, ev libraryevent.LibraryEvent) (*kafka.DeliveryReport, error)
	SendFireAndForget(ctx context.Context, ev libraryevent.LibraryEvent)
}

// HealthChecker reports broker and topic health. *kafka.HealthChecker
// implements it.
type HealthChecker interface {
	Check(ctx context.Context) *kafka.HealthResult
	CheckBrokers(ctx context.Context) *kafka.HealthResult
	CheckTopic(ctx context.Context, topic string) *kafka.HealthResult
}
