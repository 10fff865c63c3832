package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Metrics bundles every instrument the service records.
type Metrics struct {
	checks              metric.Int64Counter
	probeLatency        metric.Float64Histogram
	incidentsOpened     metric.Int64Counter
	incidentsResolved   metric.Int64Counter
	notificationsSent   metric.Int64Counter
	notificationsFailed metric.Int64Counter
	httpDuration        metric.Float64Histogram
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	var (
		m   Metrics
		err error
	)

	if m.checks, err = meter.Int64Counter("statuspulse.checks",
		metric.WithDescription("Reported monitor observations"),
	); err != nil {
		return nil, err
	}
	if m.probeLatency, err = meter.Float64Histogram("statuspulse.probe.latency",
		metric.WithDescription("HTTP probe latency"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, err
	}
	if m.incidentsOpened, err = meter.Int64Counter("statuspulse.incidents.opened"); err != nil {
		return nil, err
	}
	if m.incidentsResolved, err = meter.Int64Counter("statuspulse.incidents.resolved"); err != nil {
		return nil, err
	}
	if m.notificationsSent, err = meter.Int64Counter("statuspulse.notifications.sent"); err != nil {
		return nil, err
	}
	if m.notificationsFailed, err = meter.Int64Counter("statuspulse.notifications.failed"); err != nil {
		return nil, err
	}
	if m.httpDuration, err = meter.Float64Histogram("statuspulse.http.server.duration",
		metric.WithUnit("ms"),
	); err != nil {
		return nil, err
	}

	return &m, nil
}

// NoopMetrics returns instruments that record nothing.
func NoopMetrics() *Metrics {
	m, _ := NewMetrics(noop.NewMeterProvider().Meter("noop"))
	return m
}

func (m *Metrics) RecordCheck(ctx context.Context, monitorID int, status string) {
	m.checks.Add(ctx, 1, metric.WithAttributes(
		attribute.Int("monitor_id", monitorID),
		attribute.String("status", status),
	))
}

func (m *Metrics) RecordProbeLatency(ctx context.Context, monitorID int, elapsed time.Duration) {
	m.probeLatency.Record(ctx, float64(elapsed.Milliseconds()), metric.WithAttributes(
		attribute.Int("monitor_id", monitorID),
	))
}

func (m *Metrics) RecordIncident(ctx context.Context, monitorID int, category string, opened bool) {
	attrs := metric.WithAttributes(
		attribute.Int("monitor_id", monitorID),
		attribute.String("category", category),
	)
	if opened {
		m.incidentsOpened.Add(ctx, 1, attrs)
		return
	}
	m.incidentsResolved.Add(ctx, 1, attrs)
}

func (m *Metrics) RecordNotification(ctx context.Context, ok bool) {
	if ok {
		m.notificationsSent.Add(ctx, 1)
		return
	}
	m.notificationsFailed.Add(ctx, 1)
}

// Observe satisfies the HTTP metrics middleware recorder.
func (m *Metrics) Observe(method, path string, status int, duration time.Duration) {
	m.httpDuration.Record(context.Background(), float64(duration.Milliseconds()), metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", path),
		attribute.Int("status", status),
	))
}
