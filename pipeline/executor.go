package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/jonwraymond/storops/account"
	"github.com/jonwraymond/storops/auth"
	storerrors "github.com/jonwraymond/storops/errors"
	"github.com/jonwraymond/storops/options"
	"github.com/jonwraymond/storops/retry"
)

// Version is the protocol version stamped on every request.
const Version = "2026-02-02"

// Header names owned by the executor. The signed-surface names live in
// the auth package.
const (
	HeaderVersion         = "x-stor-version"
	HeaderClientRequestID = "x-stor-client-request-id"
	HeaderRequestID       = "x-stor-request-id"
)

// ParamTimeout is the advisory server-side timeout query parameter, in
// whole seconds.
const ParamTimeout = "timeout"

// Config configures an Executor.
type Config struct {
	// Uri is the endpoint pair requests are routed across.
	Uri account.StorageUri

	// Credential signs SharedKey and SharedKeyLite requests. Leave nil
	// for bearer-only or anonymous use.
	Credential auth.KeyCredential

	// Token supplies bearer tokens for SchemeBearer.
	Token *auth.TokenCredential

	// Defaults is the client-level options layer, merged under each
	// call's own layer.
	Defaults *options.RequestOptions

	// Transport sends the built requests.
	// Default: http.DefaultClient
	Transport Transport

	// Logger receives lifecycle events at trace, debug, and warn levels.
	// Default: hclog.NewNullLogger()
	Logger hclog.Logger

	// Version overrides the protocol version header.
	// Default: Version
	Version string
}

// Executor drives logical operations through building, signing,
// sending, and the retry loop, one attempt at a time.
//
// Contract:
//   - Concurrency: safe for concurrent use. Per-operation state lives on
//     the stack and in the caller's OperationContext.
//   - Context: Do honors ctx at every blocking point, including mid-
//     backoff.
//   - Errors: terminal failures use the errors package taxonomy.
//     Operations that fail after their last permitted attempt return an
//     *ExhaustionError wrapping the final classified failure.
type Executor struct {
	uri        account.StorageUri
	credential auth.KeyCredential
	token      *auth.TokenCredential
	defaults   *options.RequestOptions
	transport  Transport
	logger     hclog.Logger
	version    string
}

// NewExecutor creates an Executor.
func NewExecutor(cfg Config) (*Executor, error) {
	if !cfg.Uri.Capabilities().HasPrimary {
		return nil, storerrors.NewConfigurationError("Uri", "must carry a primary endpoint")
	}
	if cfg.Transport == nil {
		cfg.Transport = http.DefaultClient
	}
	if cfg.Logger == nil {
		cfg.Logger = hclog.NewNullLogger()
	}
	if cfg.Version == "" {
		cfg.Version = Version
	}
	return &Executor{
		uri:        cfg.Uri,
		credential: cfg.Credential,
		token:      cfg.Token,
		defaults:   cfg.Defaults,
		transport:  cfg.Transport,
		logger:     cfg.Logger,
		version:    cfg.Version,
	}, nil
}

// Result is the terminal outcome of one logical operation.
type Result struct {
	// Response is the final successful response, nil on failure.
	Response *Response

	// State is StateSucceeded or StateFailed.
	State State

	// Attempts is the complete attempt log, oldest first.
	Attempts []AttemptResult
}

// ServedBy returns the location of the final attempt. Listing operations
// record it in their continuation cursors so a resumed enumeration stays
// on the replica that served the previous page.
func (r *Result) ServedBy() retry.Location {
	if n := len(r.Attempts); n > 0 {
		return r.Attempts[n-1].Location
	}
	return retry.Primary
}

// Do executes op until success, exhaustion, cancellation, or a terminal
// configuration failure. perCall and opctx may be nil; a nil opctx gets
// a fresh client request id and no hooks.
func (e *Executor) Do(ctx context.Context, op *Operation, perCall *options.RequestOptions, opctx *OperationContext) (*Result, error) {
	if err := op.validate(); err != nil {
		return &Result{State: StateFailed}, err
	}
	if opctx == nil {
		opctx = NewOperationContext()
	}

	eff, err := options.Resolve(perCall, e.defaults, e.uri.Capabilities())
	if err != nil {
		return &Result{State: StateFailed}, err
	}
	mode, err := routeMode(op.Intent, eff.LocationMode)
	if err != nil {
		return &Result{State: StateFailed}, err
	}

	// MaximumExecutionTime bounds the whole operation, retries and
	// backoff included.
	var deadline time.Time
	if eff.MaximumExecutionTime > 0 {
		deadline = time.Now().Add(eff.MaximumExecutionTime)
		var cancel context.CancelFunc
		ctx, cancel = context.WithDeadline(ctx, deadline)
		defer cancel()
	}

	caps := e.uri.Capabilities()
	rc := retry.Context{
		Mode:               mode,
		PrimaryAvailable:   caps.HasPrimary,
		SecondaryAvailable: caps.HasSecondary,
	}

	setState := func(s State) {
		e.logger.Trace("executor state", "state", s.String(), "method", op.Method, "path", op.Path)
	}

	location := mode.FirstTarget()
	for attempt := 1; ; attempt++ {
		resp, err := e.attempt(ctx, op, eff, opctx, attempt, location, setState)
		if err == nil {
			if op.Parse != nil {
				if perr := op.Parse(resp); perr != nil {
					setState(StateFailed)
					return &Result{State: StateFailed, Attempts: opctx.Attempts()},
						fmt.Errorf("pipeline: parsing response: %w", perr)
				}
			}
			setState(StateSucceeded)
			e.logger.Debug("operation succeeded",
				"method", op.Method, "path", op.Path,
				"status", resp.StatusCode, "attempts", attempt)
			return &Result{Response: resp, State: StateSucceeded, Attempts: opctx.Attempts()}, nil
		}

		// Cancellation and pre-flight problems end the operation
		// regardless of policy.
		if storerrors.IsCancelled(err) || storerrors.IsConfiguration(err) || storerrors.IsValidation(err) {
			setState(StateFailed)
			return &Result{State: StateFailed, Attempts: opctx.Attempts()}, err
		}

		// A 404 from a secondary in an alternating mode usually means
		// replication lag, not absence. Stop targeting the secondary
		// for the rest of this operation.
		if se, ok := storerrors.AsService(err); ok &&
			se.StatusCode == http.StatusNotFound &&
			location == retry.Secondary && mode != retry.SecondaryOnly {
			rc.SecondaryAvailable = false
		}

		rc.Attempt = attempt
		rc.LastError = err
		rc.Location = location

		decision := eff.RetryPolicy.ShouldRetry(rc)
		if !decision.Retry {
			setState(StateFailed)
			e.logger.Warn("operation failed",
				"method", op.Method, "path", op.Path,
				"attempts", attempt, "error", err)
			return &Result{State: StateFailed, Attempts: opctx.Attempts()},
				&ExhaustionError{LastError: err, Attempts: opctx.Attempts()}
		}
		if !deadline.IsZero() && time.Now().Add(decision.Backoff).After(deadline) {
			setState(StateFailed)
			e.logger.Warn("operation failed, backoff would exceed the execution deadline",
				"method", op.Method, "path", op.Path,
				"attempts", attempt, "backoff", decision.Backoff, "error", err)
			return &Result{State: StateFailed, Attempts: opctx.Attempts()},
				&ExhaustionError{LastError: err, Attempts: opctx.Attempts()}
		}

		setState(StateRetrying)
		e.logger.Warn("attempt failed, retrying",
			"attempt", attempt, "backoff", decision.Backoff,
			"next_location", decision.Target.String(), "error", err)
		select {
		case <-ctx.Done():
			cerr := storerrors.NewCancelledError(ctx.Err())
			setState(StateFailed)
			return &Result{State: StateFailed, Attempts: opctx.Attempts()}, cerr
		case <-time.After(decision.Backoff):
		}
		location = decision.Target
	}
}

// attempt runs one build-sign-send cycle. A nil error means the HTTP
// status passed the operation's success predicate; any failure comes
// back already classified.
func (e *Executor) attempt(ctx context.Context, op *Operation, eff options.EffectiveOptions, opctx *OperationContext, attempt int, location retry.Location, setState func(State)) (*Response, error) {
	endpoint, ok := e.uri.Endpoint(location)
	if !ok {
		return nil, storerrors.NewConfigurationError("LocationMode",
			fmt.Sprintf("no %s endpoint configured", location))
	}

	setState(StateBuilding)
	req, err := e.buildRequest(ctx, op, eff, opctx, endpoint)
	if err != nil {
		return nil, err
	}

	if !eff.Anonymous {
		signer, err := auth.NewSigner(eff.AuthScheme, e.credential, e.token)
		if err != nil {
			return nil, storerrors.NewConfigurationError("AuthScheme", err.Error())
		}
		if err := signer.Sign(req); err != nil {
			return nil, signFailure(ctx, err)
		}
	}
	setState(StateSigned)

	opctx.preSend(PreSendInfo{Attempt: attempt, Location: location, Request: req})
	e.logger.Debug("sending request",
		"method", req.Method, "url", req.URL.String(),
		"attempt", attempt, "location", location.String())

	setState(StateSent)
	start := time.Now()
	raw, err := e.transport.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		failure := transportFailure(ctx, endpoint.Host, err)
		opctx.record(AttemptResult{
			Attempt: attempt, Location: location, Host: endpoint.Host,
			Err: failure, Duration: elapsed,
		})
		opctx.postReceive(PostReceiveInfo{Attempt: attempt, Location: location, Err: failure})
		return nil, failure
	}

	body, err := io.ReadAll(raw.Body)
	_ = raw.Body.Close()
	if err != nil {
		failure := transportFailure(ctx, endpoint.Host, err)
		opctx.record(AttemptResult{
			Attempt: attempt, Location: location, Host: endpoint.Host,
			StatusCode: raw.StatusCode, Err: failure, Duration: elapsed,
		})
		opctx.postReceive(PostReceiveInfo{Attempt: attempt, Location: location, Err: failure})
		return nil, failure
	}

	resp := &Response{StatusCode: raw.StatusCode, Header: raw.Header, Body: body}
	if op.succeeded(resp.StatusCode) {
		opctx.record(AttemptResult{
			Attempt: attempt, Location: location, Host: endpoint.Host,
			StatusCode: resp.StatusCode, Duration: elapsed,
		})
		opctx.postReceive(PostReceiveInfo{Attempt: attempt, Location: location, Response: resp})
		return resp, nil
	}

	failure := serviceError(resp, time.Now())
	opctx.record(AttemptResult{
		Attempt: attempt, Location: location, Host: endpoint.Host,
		StatusCode: resp.StatusCode, Err: failure, Duration: elapsed,
	})
	opctx.postReceive(PostReceiveInfo{Attempt: attempt, Location: location, Response: resp, Err: failure})
	return nil, failure
}

// buildRequest assembles the attempt's request: operation parameters
// first, then the executor-owned query parameter and headers.
func (e *Executor) buildRequest(ctx context.Context, op *Operation, eff options.EffectiveOptions, opctx *OperationContext, endpoint *url.URL) (*http.Request, error) {
	target := *endpoint
	target.Path = joinPath(endpoint.Path, op.Path)

	query := url.Values{}
	for name, values := range op.Query {
		for _, v := range values {
			query.Add(name, v)
		}
	}
	if secs, ok := eff.ServerTimeoutSeconds(); ok {
		query.Set(ParamTimeout, strconv.FormatInt(secs, 10))
	}
	target.RawQuery = query.Encode()

	var body io.Reader
	if len(op.Body) > 0 {
		body = bytes.NewReader(op.Body)
	}
	req, err := http.NewRequestWithContext(ctx, op.Method, target.String(), body)
	if err != nil {
		return nil, storerrors.NewValidationError("operation", err.Error())
	}

	for name, values := range op.Header {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}
	if op.ContentType != "" && len(op.Body) > 0 {
		req.Header.Set("Content-Type", op.ContentType)
	}
	req.Header.Set(auth.HeaderDate, time.Now().UTC().Format(http.TimeFormat))
	req.Header.Set(HeaderVersion, e.version)
	if opctx.ClientRequestID != "" {
		req.Header.Set(HeaderClientRequestID, opctx.ClientRequestID)
	}
	return req, nil
}

// routeMode applies the write-routing rule: writes never reach a
// read-only secondary. A pinned secondary write is a contradiction and
// fails before any I/O; the alternating modes degrade to the primary.
func routeMode(intent Intent, mode retry.LocationMode) (retry.LocationMode, error) {
	if intent != IntentWrite {
		return mode, nil
	}
	switch mode {
	case retry.SecondaryOnly:
		return mode, storerrors.NewConfigurationError("LocationMode",
			"write operations cannot target the secondary endpoint")
	case retry.PrimaryThenSecondary, retry.SecondaryThenPrimary:
		return retry.PrimaryOnly, nil
	default:
		return mode, nil
	}
}

// transportFailure distinguishes caller cancellation from wire
// failures.
func transportFailure(ctx context.Context, host string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return storerrors.NewCancelledError(ctxErr)
	}
	return storerrors.NewTransportError(host, err)
}

// signFailure classifies a signing failure. Caller cancellation wins;
// everything else is a credential problem that retrying cannot fix.
func signFailure(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return storerrors.NewCancelledError(ctxErr)
	}
	return storerrors.NewConfigurationError("Credential", err.Error())
}

func joinPath(base, path string) string {
	base = strings.TrimSuffix(base, "/")
	if path == "" {
		if base == "" {
			return "/"
		}
		return base
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}
