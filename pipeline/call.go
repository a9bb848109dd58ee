package pipeline

import "github.com/jonwraymond/storops/options"

// CallSettings carries the per-call knobs a service operation forwards
// to the executor.
type CallSettings struct {
	// Options is the per-call options layer, merged above the client
	// defaults. Nil inherits the defaults unchanged.
	Options *options.RequestOptions

	// Context observes and correlates the call's attempts. Nil gets a
	// fresh OperationContext with no hooks.
	Context *OperationContext
}

// CallOption adjusts one service call.
type CallOption func(*CallSettings)

// WithOptions supplies the per-call options layer.
func WithOptions(o *options.RequestOptions) CallOption {
	return func(s *CallSettings) {
		s.Options = o
	}
}

// WithOperationContext attaches a caller-owned OperationContext whose
// hooks fire around every attempt of the call.
func WithOperationContext(opctx *OperationContext) CallOption {
	return func(s *CallSettings) {
		s.Context = opctx
	}
}

// ApplyCallOptions folds opts into a CallSettings.
func ApplyCallOptions(opts []CallOption) CallSettings {
	var s CallSettings
	for _, opt := range opts {
		opt(&s)
	}
	return s
}
