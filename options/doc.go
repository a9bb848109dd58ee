// Package options resolves layered request options into the immutable
// snapshot a single storage operation runs with.
//
// Three layers participate in every resolve, highest priority first:
// the per-call options, the client's default options, and the built-in
// fallbacks from Defaults. Each field is a tri-state Setting: Unset
// inherits from the next layer, an explicit Value wins, and Disabled is
// a terminal opt-out that lower layers can never reinstate. The
// distinction is load-bearing: a caller must be able to override a
// client-wide server timeout down to "no timeout" without the client
// default leaking back in.
//
//	per := &options.RequestOptions{
//	    ServerTimeout: options.Disabled[time.Duration](),
//	}
//	def := &options.RequestOptions{
//	    ServerTimeout: options.Value(90 * time.Second),
//	}
//	eff, err := options.Resolve(per, def, caps)
//	// eff.ServerTimeout == 0: no timeout parameter is sent
//
// Resolve also rejects option combinations the account cannot serve,
// such as a secondary-only location mode against an account without a
// secondary endpoint, before any request is built.
package options
