package observe

import (
	"context"
	"sync"
	"time"

	"github.com/jonwraymond/storops/pipeline"
	"github.com/jonwraymond/storops/retry"
)

// Instrumentation turns an Observer into pipeline-level telemetry: a
// span per logical operation, counters per wire attempt, and structured
// log lines.
//
// Contract:
//   - Concurrency: safe for concurrent use; each instrumented operation
//     keeps its own attempt state.
//   - Errors: telemetry is best-effort and never alters the wrapped
//     operation's result.
type Instrumentation struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewInstrumentation builds Instrumentation from an Observer.
func NewInstrumentation(obs Observer) (*Instrumentation, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}
	metrics, err := newMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}
	return &Instrumentation{
		tracer:  newTracer(obs.Tracer()),
		metrics: metrics,
		logger:  obs.Logger(),
	}, nil
}

// NewNoopInstrumentation builds Instrumentation that discards
// everything. Useful as a default so callers skip nil checks.
func NewNoopInstrumentation() *Instrumentation {
	return &Instrumentation{
		tracer:  newNoopTracer(),
		metrics: noopMetrics{},
		logger:  &noopLogger{},
	}
}

// PipelineHooks instruments opctx so every wire attempt is logged and
// counted. Hooks already present on opctx keep firing first. A nil
// opctx gets a fresh OperationContext.
func (in *Instrumentation) PipelineHooks(ctx context.Context, meta OperationMeta, opctx *pipeline.OperationContext) *pipeline.OperationContext {
	if opctx == nil {
		opctx = pipeline.NewOperationContext()
	}
	prevPre, prevPost := opctx.PreSend, opctx.PostReceive
	logger := in.logger.WithOperation(meta)

	// Tracks the previously targeted endpoint to count failovers.
	var mu sync.Mutex
	var lastLocation retry.Location
	seen := false

	opctx.PreSend = func(info pipeline.PreSendInfo) {
		if prevPre != nil {
			prevPre(info)
		}
		logger.Debug(ctx, "attempt starting",
			Field{Key: "attempt", Value: info.Attempt},
			Field{Key: "location", Value: info.Location.String()},
		)
	}
	opctx.PostReceive = func(info pipeline.PostReceiveInfo) {
		if prevPost != nil {
			prevPost(info)
		}

		mu.Lock()
		failover := seen && info.Location != lastLocation
		seen, lastLocation = true, info.Location
		mu.Unlock()

		in.metrics.RecordAttempt(ctx, meta, info, failover)
		if info.Err != nil {
			logger.Warn(ctx, "attempt failed",
				Field{Key: "attempt", Value: info.Attempt},
				Field{Key: "location", Value: info.Location.String()},
				Field{Key: "error", Value: info.Err.Error()},
			)
		}
	}
	return opctx
}

// Operation runs fn inside a span named for meta and records the
// operation-level metrics and log line. The attempt count comes from
// opctx; pass the same OperationContext given to the executor.
func (in *Instrumentation) Operation(ctx context.Context, meta OperationMeta, opctx *pipeline.OperationContext, fn func(context.Context) error) error {
	ctx, span := in.tracer.StartSpan(ctx, meta)
	start := time.Now()

	err := fn(ctx)

	duration := time.Since(start)
	in.tracer.EndSpan(span, err)

	attempts := 0
	if opctx != nil {
		attempts = len(opctx.Attempts())
	}
	in.metrics.RecordOperation(ctx, meta, duration, attempts, err)

	logger := in.logger.WithOperation(meta)
	fields := []Field{
		{Key: "duration_ms", Value: float64(duration.Milliseconds())},
		{Key: "attempts", Value: attempts},
	}
	if err != nil {
		fields = append(fields, Field{Key: "error", Value: err.Error()})
		logger.Error(ctx, "operation failed", fields...)
	} else {
		logger.Info(ctx, "operation completed", fields...)
	}
	return err
}
