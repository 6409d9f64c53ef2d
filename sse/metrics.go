package sse

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds OpenTelemetry instruments for one event source.
type Metrics struct {
	connected     metric.Int64UpDownCounter
	broadcasts    metric.Int64Counter
	frames        metric.Int64Counter
	writeFailures metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	connected, err := meter.Int64UpDownCounter("sse.subscribers.connected",
		metric.WithDescription("Number of currently connected subscribers"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sse.subscribers.connected gauge: %w", err)
	}

	broadcasts, err := meter.Int64Counter("sse.broadcasts.total",
		metric.WithDescription("Total number of broadcast passes"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sse.broadcasts.total counter: %w", err)
	}

	frames, err := meter.Int64Counter("sse.frames.sent",
		metric.WithDescription("Total frames written to subscriber streams"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sse.frames.sent counter: %w", err)
	}

	writeFailures, err := meter.Int64Counter("sse.write.failures",
		metric.WithDescription("Subscriber writes that failed and caused eviction"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sse.write.failures counter: %w", err)
	}

	return &Metrics{
		connected:     connected,
		broadcasts:    broadcasts,
		frames:        frames,
		writeFailures: writeFailures,
	}, nil
}

// RecordConnect increments the connected gauge.
func (m *Metrics) RecordConnect(ctx context.Context, source string) {
	m.connected.Add(ctx, 1, metric.WithAttributes(attribute.String("source", source)))
}

// RecordDisconnect decrements the connected gauge by n.
func (m *Metrics) RecordDisconnect(ctx context.Context, source string, n int) {
	m.connected.Add(ctx, -int64(n), metric.WithAttributes(attribute.String("source", source)))
}

// RecordBroadcast records one broadcast pass with its sent/failed counts.
func (m *Metrics) RecordBroadcast(ctx context.Context, source, event string, sent, failed int) {
	attrs := metric.WithAttributes(
		attribute.String("source", source),
		attribute.String("event", event),
	)
	m.broadcasts.Add(ctx, 1, attrs)
	m.frames.Add(ctx, int64(sent), attrs)
	if failed > 0 {
		m.writeFailures.Add(ctx, int64(failed), attrs)
	}
}
