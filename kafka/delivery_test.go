package kafka

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelivery_ResolvesOnce(t *testing.T) {
	t.Parallel()

	d := newDelivery("library-events", nil)
	var calls int32
	d.OnComplete(func(*DeliveryReport) { atomic.AddInt32(&calls, 1) })

	first := &DeliveryReport{Topic: "library-events", Partition: 1, Offset: 7}
	assert.True(t, d.resolve(first))
	assert.False(t, d.resolve(&DeliveryReport{Err: errors.New("late")}))

	report, err := d.Wait(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, report)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestDelivery_OnCompleteAfterResolve(t *testing.T) {
	t.Parallel()

	d := newDelivery("library-events", nil)
	d.resolve(&DeliveryReport{Offset: 3})

	var got *DeliveryReport
	d.OnComplete(func(r *DeliveryReport) { got = r })
	require.NotNil(t, got)
	assert.Equal(t, int64(3), got.Offset)
}

func TestDelivery_WaitReturnsCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("broker unreachable")
	d := FailedDelivery("library-events", cause)

	report, err := d.Wait(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	require.NotNil(t, report)
	assert.True(t, report.Failed())
	assert.Equal(t, PartitionAny, report.Partition)
}

func TestDelivery_WaitTimeout(t *testing.T) {
	t.Parallel()

	d := newDelivery("library-events", nil)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	report, err := d.Wait(ctx)
	assert.Nil(t, report)
	assert.ErrorIs(t, err, ErrDeliveryTimeout)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Nil(t, d.Report())

	select {
	case <-d.Done():
		t.Fatal("delivery must stay in flight after a timed out wait")
	default:
	}
}

func TestDelivery_ResolvedWinsOverCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for i := 0; i < 100; i++ {
		d := newDelivery("library-events", nil)
		want := &DeliveryReport{Topic: "library-events", Offset: int64(i)}
		d.resolve(want)

		report, err := d.Wait(ctx)
		require.NoError(t, err)
		assert.Same(t, want, report)
	}

	failed := FailedDelivery("library-events", errors.New("rejected"))
	report, err := failed.Wait(ctx)
	assert.NotErrorIs(t, err, ErrDeliveryTimeout)
	assert.EqualError(t, err, "delivery failed: rejected")
	require.NotNil(t, report)
}

func TestDelivery_CallbackPanicIsContained(t *testing.T) {
	t.Parallel()

	d := newDelivery("library-events", nil)
	var after bool
	d.OnComplete(func(*DeliveryReport) { panic("boom") })
	d.OnComplete(func(*DeliveryReport) { after = true })

	assert.NotPanics(t, func() { d.resolve(&DeliveryReport{}) })
	assert.True(t, after)
	<-d.Done()
}
