package observe

import (
	"context"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/jonwraymond/storops/pipeline"
)

// Metrics records storage operation and attempt metrics.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent use.
//   - Errors: implementations must not panic.
type Metrics interface {
	// RecordOperation records one finished logical operation.
	RecordOperation(ctx context.Context, meta OperationMeta, duration time.Duration, attempts int, err error)

	// RecordAttempt records one wire attempt. failover reports whether
	// the attempt targeted a different endpoint than the one before it.
	RecordAttempt(ctx context.Context, meta OperationMeta, info pipeline.PostReceiveInfo, failover bool)
}

type metricsImpl struct {
	operationTotal    metric.Int64Counter
	operationErrors   metric.Int64Counter
	operationDuration metric.Float64Histogram
	attemptTotal      metric.Int64Counter
	retryTotal        metric.Int64Counter
	failoverTotal     metric.Int64Counter
}

func newMetrics(meter metric.Meter) (*metricsImpl, error) {
	operationTotal, err := meter.Int64Counter(
		"storops.operation.total",
		metric.WithDescription("Logical storage operations started"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, err
	}

	operationErrors, err := meter.Int64Counter(
		"storops.operation.errors",
		metric.WithDescription("Logical storage operations that ended in error"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	operationDuration, err := meter.Float64Histogram(
		"storops.operation.duration_ms",
		metric.WithDescription("Logical operation duration, retries included, in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	attemptTotal, err := meter.Int64Counter(
		"storops.request.attempts",
		metric.WithDescription("Wire attempts sent"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, err
	}

	retryTotal, err := meter.Int64Counter(
		"storops.request.retries",
		metric.WithDescription("Attempts beyond the first of an operation"),
		metric.WithUnit("{retry}"),
	)
	if err != nil {
		return nil, err
	}

	failoverTotal, err := meter.Int64Counter(
		"storops.request.failovers",
		metric.WithDescription("Attempts that switched endpoints"),
		metric.WithUnit("{failover}"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		operationTotal:    operationTotal,
		operationErrors:   operationErrors,
		operationDuration: operationDuration,
		attemptTotal:      attemptTotal,
		retryTotal:        retryTotal,
		failoverTotal:     failoverTotal,
	}, nil
}

func (m *metricsImpl) operationAttrs(meta OperationMeta) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("storage.operation", meta.Operation),
	}
	if meta.Service != "" {
		attrs = append(attrs, attribute.String("storage.service", meta.Service))
	}
	return attrs
}

// RecordOperation records the terminal outcome of one logical operation.
func (m *metricsImpl) RecordOperation(ctx context.Context, meta OperationMeta, duration time.Duration, attempts int, err error) {
	attrs := m.operationAttrs(meta)
	attrs = append(attrs, attribute.Int("storage.attempts", attempts))
	opt := metric.WithAttributes(attrs...)

	m.operationTotal.Add(ctx, 1, opt)
	if err != nil {
		m.operationErrors.Add(ctx, 1, opt)
	}
	m.operationDuration.Record(ctx, float64(duration.Milliseconds()), opt)
}

// RecordAttempt records one wire attempt with its location and status.
func (m *metricsImpl) RecordAttempt(ctx context.Context, meta OperationMeta, info pipeline.PostReceiveInfo, failover bool) {
	attrs := m.operationAttrs(meta)
	attrs = append(attrs, attribute.String("storage.location", info.Location.String()))
	if info.Response != nil {
		attrs = append(attrs, attribute.String("storage.status", strconv.Itoa(info.Response.StatusCode)))
	} else {
		attrs = append(attrs, attribute.String("storage.status", "transport_error"))
	}
	opt := metric.WithAttributes(attrs...)

	m.attemptTotal.Add(ctx, 1, opt)
	if info.Attempt > 1 {
		m.retryTotal.Add(ctx, 1, opt)
	}
	if failover {
		m.failoverTotal.Add(ctx, 1, opt)
	}
}

// noopMetrics discards everything.
type noopMetrics struct{}

func (noopMetrics) RecordOperation(context.Context, OperationMeta, time.Duration, int, error) {}
func (noopMetrics) RecordAttempt(context.Context, OperationMeta, pipeline.PostReceiveInfo, bool) {
}
