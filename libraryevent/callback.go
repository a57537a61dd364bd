package libraryevent

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/loipv/library-events-producer/kafka"
)

// DispatchCallback is where the outcome of an asynchronous send is observed.
// It logs and counts each outcome once and never panics back into the
// delivery report loop.
type DispatchCallback struct {
	logger  *zap.Logger
	metrics *Metrics
	now     func() time.Time
}

// NewDispatchCallback creates a callback that reports to logger and metrics.
// metrics may be nil.
func NewDispatchCallback(logger *zap.Logger, metrics *Metrics) *DispatchCallback {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DispatchCallback{
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
	}
}

// Bind returns the delivery func for one dispatched event
func (c *DispatchCallback) Bind(eventType EventType, sentAt time.Time) kafka.DeliveryFunc {
	return func(report *kafka.DeliveryReport) {
		c.OnDelivery(eventType, sentAt, report)
	}
}

// OnDelivery records one delivery report
func (c *DispatchCallback) OnDelivery(eventType EventType, sentAt time.Time, report *kafka.DeliveryReport) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("library event callback failed",
				zap.String("event_type", string(eventType)),
				zap.Error(fmt.Errorf("panic: %v", r)),
			)
		}
	}()

	elapsed := c.now().Sub(sentAt).Seconds()

	if report.Err != nil {
		c.logger.Error("library event delivery failed",
			zap.String("topic", report.Topic),
			zap.String("key", keyString(report.Key)),
			zap.String("event_type", string(eventType)),
			zap.Error(report.Err),
		)
		if c.metrics != nil {
			c.metrics.observeFailure(report.Topic, eventType, elapsed)
		}
		return
	}

	c.logger.Info("library event delivered",
		zap.String("topic", report.Topic),
		zap.Int32("partition", report.Partition),
		zap.Int64("offset", report.Offset),
		zap.Time("timestamp", report.Timestamp),
		zap.String("key", keyString(report.Key)),
		zap.String("event_type", string(eventType)),
	)
	if c.metrics != nil {
		c.metrics.observeSuccess(report.Topic, eventType, elapsed)
	}
}
