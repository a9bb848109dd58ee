package tableservice

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-hclog"

	"github.com/jonwraymond/storops/account"
	"github.com/jonwraymond/storops/auth"
	storerrors "github.com/jonwraymond/storops/errors"
	"github.com/jonwraymond/storops/options"
	"github.com/jonwraymond/storops/paging"
	"github.com/jonwraymond/storops/pipeline"
	"github.com/jonwraymond/storops/retry"
)

// KindTables tags continuation cursors minted by table listings. A
// cursor of any other kind is rejected before a request is issued.
const KindTables paging.Kind = "tables"

// HeaderNextTable is the response header carrying the continuation
// marker of a table listing.
const HeaderNextTable = "x-stor-continuation-nexttable"

var tableNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]{2,62}$`)

// Table is one table of the account.
type Table struct {
	Name string `json:"name"`
}

// ListQuery filters and sizes a table listing.
type ListQuery struct {
	// Prefix keeps only tables whose name starts with it. Matching is
	// exact and case-sensitive.
	Prefix string

	// MaxResults bounds the page size. The service may return fewer
	// items and still continue. Zero lets the service choose.
	MaxResults int
}

// Config configures a Client.
type Config struct {
	// Account supplies the table endpoints and the signing credential.
	Account *account.Account

	// Defaults is the client-level options layer, merged under each
	// call's own layer.
	Defaults *options.RequestOptions

	// Token supplies bearer tokens when the effective scheme is
	// SchemeBearer.
	Token *auth.TokenCredential

	// Transport sends the built requests.
	// Default: http.DefaultClient
	Transport pipeline.Transport

	// Logger receives pipeline lifecycle events.
	// Default: hclog.NewNullLogger()
	Logger hclog.Logger
}

// Client issues table service operations through the request pipeline.
//
// Contract:
//   - Concurrency: safe for concurrent use; independent calls share no
//     mutable state.
//   - Context: every method honors ctx, including across retry backoff.
//   - Errors: failures use the errors package taxonomy; exhausted
//     retries surface a *pipeline.ExhaustionError.
type Client struct {
	exec *pipeline.Executor
}

// NewClient creates a table service client for the account.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Account == nil {
		return nil, storerrors.NewConfigurationError("Account", "must not be nil")
	}
	pcfg := pipeline.Config{
		Uri:       cfg.Account.TableUri(),
		Token:     cfg.Token,
		Defaults:  cfg.Defaults,
		Transport: cfg.Transport,
		Logger:    cfg.Logger,
	}
	if cred := cfg.Account.Credential(); cred != nil {
		pcfg.Credential = cred
	}
	exec, err := pipeline.NewExecutor(pcfg)
	if err != nil {
		return nil, err
	}
	return &Client{exec: exec}, nil
}

// Create creates a table. The service answers 201 when the table did
// not exist and 409 Conflict when it already does.
func (c *Client) Create(ctx context.Context, name string, opts ...pipeline.CallOption) error {
	if err := validateTableName(name); err != nil {
		return err
	}
	settings := pipeline.ApplyCallOptions(opts)

	body, err := json.Marshal(Table{Name: name})
	if err != nil {
		return storerrors.NewValidationError("name", err.Error())
	}
	op := &pipeline.Operation{
		Method:      http.MethodPost,
		Path:        "/tables",
		Body:        body,
		ContentType: "application/json",
		Intent:      pipeline.IntentWrite,
		Success:     func(status int) bool { return status == http.StatusCreated },
	}
	_, err = c.exec.Do(ctx, op, settings.Options, settings.Context)
	return err
}

// Delete removes a table and everything in it.
func (c *Client) Delete(ctx context.Context, name string, opts ...pipeline.CallOption) error {
	if err := validateTableName(name); err != nil {
		return err
	}
	settings := pipeline.ApplyCallOptions(opts)

	op := &pipeline.Operation{
		Method:  http.MethodDelete,
		Path:    "/tables/" + name,
		Intent:  pipeline.IntentWrite,
		Success: func(status int) bool { return status == http.StatusNoContent },
	}
	_, err := c.exec.Do(ctx, op, settings.Options, settings.Context)
	return err
}

// ListSegment fetches one page of the account's tables. A nil cursor
// fetches the first page; the returned segment's cursor resumes after
// the last item, or is nil when the enumeration is complete. The cursor
// pins the resumed page to the replica that served this one.
func (c *Client) ListSegment(ctx context.Context, query ListQuery, cursor *paging.Cursor, opts ...pipeline.CallOption) (paging.Segment[Table], error) {
	settings := pipeline.ApplyCallOptions(opts)
	perCall := settings.Options

	q := url.Values{}
	if query.Prefix != "" {
		q.Set(paging.ParamPrefix, query.Prefix)
	}
	if query.MaxResults > 0 {
		q.Set(paging.ParamMaxResults, strconv.Itoa(query.MaxResults))
	}
	if cursor != nil {
		if cursor.Kind() != KindTables {
			return paging.Segment[Table]{}, storerrors.NewValidationError("cursor",
				fmt.Sprintf("continuation token is for %q, want %q", cursor.Kind(), KindTables))
		}
		q.Set(paging.ParamMarker, cursor.Marker())
		perCall = pinLocation(perCall, cursor.PinnedMode())
	}

	var listed struct {
		Value []Table `json:"value"`
	}
	op := &pipeline.Operation{
		Method: http.MethodGet,
		Path:   "/tables",
		Query:  q,
		Intent: pipeline.IntentRead,
		Parse: func(resp *pipeline.Response) error {
			if len(resp.Body) == 0 {
				return nil
			}
			return json.Unmarshal(resp.Body, &listed)
		},
	}
	result, err := c.exec.Do(ctx, op, perCall, settings.Context)
	if err != nil {
		return paging.Segment[Table]{}, err
	}

	segment := paging.Segment[Table]{Items: listed.Value}
	if marker := result.Response.Header.Get(HeaderNextTable); marker != "" {
		segment.Cursor = paging.NewCursor(KindTables, marker, result.ServedBy())
	}
	return segment, nil
}

// Lister binds query into a paging.Lister for ForEach and Collect.
func (c *Client) Lister(query ListQuery, opts ...pipeline.CallOption) paging.Lister[Table] {
	return paging.ListFunc[Table](func(ctx context.Context, cursor *paging.Cursor) (paging.Segment[Table], error) {
		return c.ListSegment(ctx, query, cursor, opts...)
	})
}

// List enumerates every table matching query, following cursors to
// completion.
func (c *Client) List(ctx context.Context, query ListQuery, opts ...pipeline.CallOption) ([]Table, error) {
	return paging.Collect(ctx, c.Lister(query, opts...))
}

// pinLocation copies perCall with its location mode forced to mode, so
// a resumed enumeration stays on the replica its cursor recorded.
func pinLocation(perCall *options.RequestOptions, mode retry.LocationMode) *options.RequestOptions {
	pinned := options.RequestOptions{}
	if perCall != nil {
		pinned = *perCall
	}
	pinned.LocationMode = options.Value(mode)
	return &pinned
}

func validateTableName(name string) error {
	err := validation.Validate(name,
		validation.Required,
		validation.Match(tableNamePattern).Error("must be 3-63 letters and digits, starting with a letter"),
	)
	if err != nil {
		return storerrors.NewValidationError("name", err.Error())
	}
	return nil
}
