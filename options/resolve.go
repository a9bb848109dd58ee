package options

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/jonwraymond/storops/auth"
	storerrors "github.com/jonwraymond/storops/errors"
	"github.com/jonwraymond/storops/retry"
)

// defaultRetryPolicy is the built-in policy. It is a shared immutable
// value so repeated resolves of the same layers compare equal.
var defaultRetryPolicy retry.Policy = retry.NewExponentialRetry(retry.ExponentialConfig{})

// Defaults returns the built-in options layer: the fallback values used
// when neither the per-call nor the client layer sets a field.
func Defaults() RequestOptions {
	return RequestOptions{
		LocationMode: Value(retry.PrimaryOnly),
		RetryPolicy:  Value(defaultRetryPolicy),
		AuthScheme:   Value(auth.SchemeSharedKey),
	}
}

// Resolve merges the per-call layer with the client default layer and
// the built-in layer into one EffectiveOptions snapshot. For each field
// the first layer that explicitly sets it wins, where "sets" includes an
// explicit Disabled; only Unset falls through. perCall and clientDefault
// may be nil.
//
// Resolve is pure: it never mutates its inputs, and identical inputs
// resolve to identical snapshots.
func Resolve(perCall, clientDefault *RequestOptions, caps Capabilities) (EffectiveOptions, error) {
	var per, def RequestOptions
	if perCall != nil {
		per = *perCall
	}
	if clientDefault != nil {
		def = *clientDefault
	}
	builtIn := Defaults()

	merged := RequestOptions{
		ServerTimeout:        per.ServerTimeout.Or(def.ServerTimeout).Or(builtIn.ServerTimeout),
		MaximumExecutionTime: per.MaximumExecutionTime.Or(def.MaximumExecutionTime).Or(builtIn.MaximumExecutionTime),
		LocationMode:         per.LocationMode.Or(def.LocationMode).Or(builtIn.LocationMode),
		RetryPolicy:          per.RetryPolicy.Or(def.RetryPolicy).Or(builtIn.RetryPolicy),
		AuthScheme:           per.AuthScheme.Or(def.AuthScheme).Or(builtIn.AuthScheme),
	}

	var result *multierror.Error
	eff := EffectiveOptions{}

	// ServerTimeout: Disabled and an explicit zero both suppress the
	// query parameter.
	if v, ok := merged.ServerTimeout.Get(); ok {
		if v < 0 {
			result = multierror.Append(result,
				storerrors.NewConfigurationError("ServerTimeout", "must not be negative"))
		}
		eff.ServerTimeout = v
	}

	if v, ok := merged.MaximumExecutionTime.Get(); ok {
		if v < 0 {
			result = multierror.Append(result,
				storerrors.NewConfigurationError("MaximumExecutionTime", "must not be negative"))
		}
		eff.MaximumExecutionTime = v
	}

	// LocationMode has no meaningful "off" state.
	if merged.LocationMode.IsDisabled() {
		result = multierror.Append(result,
			storerrors.NewConfigurationError("LocationMode", "cannot be disabled"))
	}
	mode, _ := merged.LocationMode.Get()
	eff.LocationMode = mode
	if err := validateMode(mode, caps); err != nil {
		result = multierror.Append(result, err)
	}

	switch {
	case merged.RetryPolicy.IsDisabled():
		eff.RetryPolicy = retry.NewNoRetry()
	default:
		policy, _ := merged.RetryPolicy.Get()
		if policy == nil {
			result = multierror.Append(result,
				storerrors.NewConfigurationError("RetryPolicy", "must not be nil"))
		}
		eff.RetryPolicy = policy
	}

	if merged.AuthScheme.IsDisabled() {
		eff.Anonymous = true
	} else {
		scheme, _ := merged.AuthScheme.Get()
		eff.AuthScheme = scheme
	}

	if err := result.ErrorOrNil(); err != nil {
		return EffectiveOptions{}, err
	}
	return eff, nil
}

func validateMode(mode retry.LocationMode, caps Capabilities) error {
	if mode.RequiresSecondary() && !caps.HasSecondary {
		return storerrors.NewConfigurationError("LocationMode",
			fmt.Sprintf("%s requires a secondary endpoint and the account has none", mode))
	}
	if first := mode.FirstTarget(); !caps.Has(first) {
		return storerrors.NewConfigurationError("LocationMode",
			fmt.Sprintf("%s starts at the %s endpoint and the account has none", mode, first))
	}
	return nil
}

// ServerTimeoutSeconds returns the whole seconds sent on the wire for
// the timeout parameter, and whether the parameter should be sent at
// all. Sub-second values round up so a set-but-small timeout is still
// advisory rather than silently dropped.
func (e EffectiveOptions) ServerTimeoutSeconds() (int64, bool) {
	if e.ServerTimeout <= 0 {
		return 0, false
	}
	secs := int64(e.ServerTimeout / time.Second)
	if e.ServerTimeout%time.Second != 0 {
		secs++
	}
	return secs, true
}
