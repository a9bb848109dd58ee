// Package observe wires OpenTelemetry tracing and metrics plus
// structured logging around storage operations.
//
// An Observer owns the telemetry providers. Instrumentation adapts it
// to the request pipeline: Operation opens one span per logical
// operation, and PipelineHooks counts every wire attempt, retry, and
// endpoint failover through the OperationContext hooks.
//
//	obs, err := observe.NewObserver(ctx, observe.Config{
//		ServiceName: "storctl",
//		Tracing:     observe.TracingConfig{Enabled: true, Exporter: "stdout", SamplePct: 1.0},
//		Metrics:     observe.MetricsConfig{Enabled: true, Exporter: "prometheus"},
//	})
//	if err != nil {
//		return err
//	}
//	defer obs.Shutdown(ctx)
//
//	in, err := observe.NewInstrumentation(obs)
//	if err != nil {
//		return err
//	}
//	meta := observe.OperationMeta{Service: "table", Operation: "ListTables"}
//	opctx := in.PipelineHooks(ctx, meta, nil)
//	err = in.Operation(ctx, meta, opctx, func(ctx context.Context) error {
//		_, err := exec.Do(ctx, op, nil, opctx)
//		return err
//	})
package observe
