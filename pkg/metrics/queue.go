package metrics

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// QueueMetrics collects counters for queue maintenance and dispatch.
type QueueMetrics struct {
	EntriesWritten  metric.Int64Counter
	EntriesDeleted  metric.Int64Counter
	RebuildDuration metric.Float64Histogram
	RebuildFailures metric.Int64Counter
	DispatchTotal   metric.Int64Counter
	DispatchErrors  metric.Int64Counter
	SendDuration    metric.Float64Histogram
}

var meter = otel.Meter("remindly")

// NewQueueMetrics registers the queue instruments on the global meter.
func NewQueueMetrics() (*QueueMetrics, error) {
	m := &QueueMetrics{}
	var err error

	m.EntriesWritten, err = meter.Int64Counter(
		"queue_entries_written_total",
		metric.WithDescription("Queue entries written during rebuild or sync"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, err
	}

	m.EntriesDeleted, err = meter.Int64Counter(
		"queue_entries_deleted_total",
		metric.WithDescription("Unsent queue entries removed during rebuild, sync or cascade"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, err
	}

	m.RebuildDuration, err = meter.Float64Histogram(
		"queue_rebuild_duration_seconds",
		metric.WithDescription("Wall time of a per-owner queue rebuild"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	m.RebuildFailures, err = meter.Int64Counter(
		"queue_rebuild_failures_total",
		metric.WithDescription("Per-owner rebuilds that ended in an error"),
		metric.WithUnit("{rebuild}"),
	)
	if err != nil {
		return nil, err
	}

	m.DispatchTotal, err = meter.Int64Counter(
		"dispatch_messages_total",
		metric.WithDescription("Queue entries handed to the delivery pipeline"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, err
	}

	m.DispatchErrors, err = meter.Int64Counter(
		"dispatch_errors_total",
		metric.WithDescription("Delivery attempts that failed"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	m.SendDuration, err = meter.Float64Histogram(
		"channel_send_duration_seconds",
		metric.WithDescription("Time spent in a channel provider send call"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordDispatch counts one dispatch outcome for a channel.
func (m *QueueMetrics) RecordDispatch(ctx context.Context, channel string, err error) {
	attrs := metric.WithAttributes(attribute.String("channel", channel))
	m.DispatchTotal.Add(ctx, 1, attrs)
	if err != nil {
		m.DispatchErrors.Add(ctx, 1, attrs)
	}
}
