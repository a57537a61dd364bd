// Package kafka provides the broker client used to publish library events,
// built on top of confluent-kafka-go.
//
// Features:
//   - Send() waits for the delivery report, SendAsync() returns an in-flight
//     Delivery handle, SendFireAndForget() drops it
//   - One delivery report loop resolves every handle exactly once
//   - Close() flushes, then purges, so no handle stays unresolved
//   - OpenTelemetry producer spans with trace context in headers
//   - Broker and topic health checks
//   - Topic provisioning through the admin client
//
// Quick Start:
//
//	client, err := kafka.NewClient(
//	    kafka.WithBrokers("localhost:9092"),
//	    kafka.WithClientID("library-events-producer"),
//	)
//
//	delivery := client.SendAsync(ctx, "library-events", &kafka.Message{
//	    Key:   key,
//	    Value: value,
//	})
//	delivery.OnComplete(func(r *kafka.DeliveryReport) {
//	    // r.Err == nil means acknowledged
//	})
package kafka

// Version of the library
const Version = "1.0.0"
