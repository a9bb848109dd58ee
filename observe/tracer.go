package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// OperationMeta identifies a logical storage operation for telemetry.
type OperationMeta struct {
	// Service is the storage service the operation targets ("table" or
	// "file").
	Service string

	// Operation is the logical operation name ("CreateTable",
	// "ListShares", ...).
	Operation string

	// Account is the storage account name (optional).
	Account string
}

// SpanName returns the deterministic span name for this operation.
// Format: storage.<service>.<operation> or storage.<operation>.
func (m OperationMeta) SpanName() string {
	if m.Service != "" {
		return "storage." + m.Service + "." + m.Operation
	}
	return "storage." + m.Operation
}

// Tracer wraps OpenTelemetry tracing with storage-operation span
// management.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent use.
//   - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a span covering one logical operation, retries
	// included.
	StartSpan(ctx context.Context, meta OperationMeta) (context.Context, trace.Span)

	// EndSpan ends the span, recording any terminal error.
	EndSpan(span trace.Span, err error)
}

type tracerImpl struct {
	tracer trace.Tracer
}

func newTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

// StartSpan starts a client span with the operation metadata attached.
func (t *tracerImpl) StartSpan(ctx context.Context, meta OperationMeta) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("storage.operation", meta.Operation),
	}
	if meta.Service != "" {
		attrs = append(attrs, attribute.String("storage.service", meta.Service))
	}
	if meta.Account != "" {
		attrs = append(attrs, attribute.String("storage.account", meta.Account))
	}

	return t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// EndSpan ends the span and records the terminal error, if any.
func (t *tracerImpl) EndSpan(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// noopTracer discards all spans.
type noopTracer struct {
	noop trace.Tracer
}

func newNoopTracer() Tracer {
	return &noopTracer{
		noop: tracenoop.NewTracerProvider().Tracer("noop"),
	}
}

func (t *noopTracer) StartSpan(ctx context.Context, meta OperationMeta) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName())
}

func (t *noopTracer) EndSpan(span trace.Span, err error) {
	span.End()
}
