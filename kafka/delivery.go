package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrClientClosed is returned for sends on a closed client
	ErrClientClosed = errors.New("client is closed")

	// ErrDeliveryTimeout is returned when a wait on a delivery gives up
	// before the broker answered. The send itself is not cancelled.
	ErrDeliveryTimeout = errors.New("timed out waiting for delivery report")
)

// DeliveryFunc observes the outcome of a send
type DeliveryFunc func(report *DeliveryReport)

// Delivery is the in-flight handle of one send. It resolves exactly once,
// either acknowledged (report.Err == nil) or rejected.
type Delivery struct {
	topic  string
	done   chan struct{}
	once   sync.Once
	logger Logger

	mu        sync.Mutex
	report    *DeliveryReport
	callbacks []DeliveryFunc
}

func newDelivery(topic string, logger Logger) *Delivery {
	if logger == nil {
		logger = NewNoopLogger()
	}
	return &Delivery{
		topic:  topic,
		done:   make(chan struct{}),
		logger: logger,
	}
}

// FailedDelivery returns a handle already rejected with err.
// It is used when a send fails before anything reaches the broker.
func FailedDelivery(topic string, err error) *Delivery {
	d := newDelivery(topic, nil)
	d.resolve(&DeliveryReport{Topic: topic, Partition: PartitionAny, Offset: -1, Err: err})
	return d
}

// Topic returns the destination topic
func (d *Delivery) Topic() string {
	return d.topic
}

// Done is closed once the delivery is resolved
func (d *Delivery) Done() <-chan struct{} {
	return d.done
}

// Report returns the delivery report, or nil while the send is in flight
func (d *Delivery) Report() *DeliveryReport {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.report
}

// Wait blocks until the delivery resolves or ctx is done. A resolved failure
// is returned as an error wrapping the broker cause. An outcome that is
// already known wins over a done ctx.
func (d *Delivery) Wait(ctx context.Context) (*DeliveryReport, error) {
	select {
	case <-d.done:
		return d.result()
	case <-ctx.Done():
		select {
		case <-d.done:
			return d.result()
		default:
		}
		return nil, fmt.Errorf("%w: %w", ErrDeliveryTimeout, ctx.Err())
	}
}

// result must only be called once done is closed
func (d *Delivery) result() (*DeliveryReport, error) {
	report := d.Report()
	if report.Err != nil {
		return report, fmt.Errorf("delivery failed: %w", report.Err)
	}
	return report, nil
}

// OnComplete registers fn to run when the delivery resolves. If it already
// has, fn runs immediately on the calling goroutine.
func (d *Delivery) OnComplete(fn DeliveryFunc) {
	d.mu.Lock()
	if d.report == nil {
		d.callbacks = append(d.callbacks, fn)
		d.mu.Unlock()
		return
	}
	report := d.report
	d.mu.Unlock()
	d.invoke(fn, report)
}

// resolve records the outcome and runs the callbacks. Later calls are no-ops.
func (d *Delivery) resolve(report *DeliveryReport) bool {
	resolved := false
	d.once.Do(func() {
		resolved = true
		d.mu.Lock()
		d.report = report
		callbacks := d.callbacks
		d.callbacks = nil
		d.mu.Unlock()

		for _, fn := range callbacks {
			d.invoke(fn, report)
		}
		close(d.done)
	})
	return resolved
}

// invoke keeps callback panics away from the delivery report loop
func (d *Delivery) invoke(fn DeliveryFunc, report *DeliveryReport) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Delivery callback panicked for topic %s: %v", d.topic, r)
		}
	}()
	fn(report)
}
