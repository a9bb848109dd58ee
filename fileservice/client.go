package fileservice

import (
	"context"
	"encoding/xml"
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

// KindShares tags continuation cursors minted by share listings. A
// cursor of any other kind is rejected before a request is issued.
const KindShares paging.Kind = "shares"

var shareNamePattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Share is one file share of the account.
type Share struct {
	// Name identifies the share.
	Name string

	// Quota is the share's size limit in GiB. Zero means the service
	// default applies.
	Quota int
}

// ListQuery filters and sizes a share listing.
type ListQuery struct {
	// Prefix keeps only shares whose name starts with it. Matching is
	// exact and case-sensitive.
	Prefix string

	// MaxResults bounds the page size. The service may return fewer
	// items and still continue. Zero lets the service choose.
	MaxResults int
}

// Config configures a Client.
type Config struct {
	// Account supplies the file endpoints and the signing credential.
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

// Client issues file service operations through the request pipeline.
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

// NewClient creates a file service client for the account.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Account == nil {
		return nil, storerrors.NewConfigurationError("Account", "must not be nil")
	}
	pcfg := pipeline.Config{
		Uri:       cfg.Account.FileUri(),
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

// Create creates a share. The service answers 201 when the share did
// not exist and 409 Conflict when it already does.
func (c *Client) Create(ctx context.Context, name string, opts ...pipeline.CallOption) error {
	if err := validateShareName(name); err != nil {
		return err
	}
	settings := pipeline.ApplyCallOptions(opts)

	op := &pipeline.Operation{
		Method:  http.MethodPut,
		Path:    "/" + name,
		Query:   url.Values{"restype": []string{"share"}},
		Intent:  pipeline.IntentWrite,
		Success: func(status int) bool { return status == http.StatusCreated },
	}
	_, err := c.exec.Do(ctx, op, settings.Options, settings.Context)
	return err
}

// Delete marks a share and its contents for deletion. The service
// answers 202 and reclaims the data asynchronously.
func (c *Client) Delete(ctx context.Context, name string, opts ...pipeline.CallOption) error {
	if err := validateShareName(name); err != nil {
		return err
	}
	settings := pipeline.ApplyCallOptions(opts)

	op := &pipeline.Operation{
		Method:  http.MethodDelete,
		Path:    "/" + name,
		Query:   url.Values{"restype": []string{"share"}},
		Intent:  pipeline.IntentWrite,
		Success: func(status int) bool { return status == http.StatusAccepted },
	}
	_, err := c.exec.Do(ctx, op, settings.Options, settings.Context)
	return err
}

// enumerationResults is the wire shape of one listing page.
type enumerationResults struct {
	XMLName    xml.Name     `xml:"EnumerationResults"`
	Shares     []shareEntry `xml:"Shares>Share"`
	NextMarker string       `xml:"NextMarker"`
}

type shareEntry struct {
	Name       string `xml:"Name"`
	Properties struct {
		Quota int `xml:"Quota"`
	} `xml:"Properties"`
}

// ListSegment fetches one page of the account's shares. A nil cursor
// fetches the first page; the returned segment's cursor resumes after
// the last item, or is nil when the enumeration is complete. The cursor
// pins the resumed page to the replica that served this one.
func (c *Client) ListSegment(ctx context.Context, query ListQuery, cursor *paging.Cursor, opts ...pipeline.CallOption) (paging.Segment[Share], error) {
	settings := pipeline.ApplyCallOptions(opts)
	perCall := settings.Options

	q := url.Values{}
	q.Set("comp", "list")
	if query.Prefix != "" {
		q.Set(paging.ParamPrefix, query.Prefix)
	}
	if query.MaxResults > 0 {
		q.Set(paging.ParamMaxResults, strconv.Itoa(query.MaxResults))
	}
	if cursor != nil {
		if cursor.Kind() != KindShares {
			return paging.Segment[Share]{}, storerrors.NewValidationError("cursor",
				fmt.Sprintf("continuation token is for %q, want %q", cursor.Kind(), KindShares))
		}
		q.Set(paging.ParamMarker, cursor.Marker())
		perCall = pinLocation(perCall, cursor.PinnedMode())
	}

	var listed enumerationResults
	op := &pipeline.Operation{
		Method: http.MethodGet,
		Path:   "",
		Query:  q,
		Intent: pipeline.IntentRead,
		Parse: func(resp *pipeline.Response) error {
			return xml.Unmarshal(resp.Body, &listed)
		},
	}
	result, err := c.exec.Do(ctx, op, perCall, settings.Context)
	if err != nil {
		return paging.Segment[Share]{}, err
	}

	segment := paging.Segment[Share]{}
	for _, entry := range listed.Shares {
		segment.Items = append(segment.Items, Share{
			Name:  entry.Name,
			Quota: entry.Properties.Quota,
		})
	}
	if listed.NextMarker != "" {
		segment.Cursor = paging.NewCursor(KindShares, listed.NextMarker, result.ServedBy())
	}
	return segment, nil
}

// Lister binds query into a paging.Lister for ForEach and Collect.
func (c *Client) Lister(query ListQuery, opts ...pipeline.CallOption) paging.Lister[Share] {
	return paging.ListFunc[Share](func(ctx context.Context, cursor *paging.Cursor) (paging.Segment[Share], error) {
		return c.ListSegment(ctx, query, cursor, opts...)
	})
}

// List enumerates every share matching query, following cursors to
// completion.
func (c *Client) List(ctx context.Context, query ListQuery, opts ...pipeline.CallOption) ([]Share, error) {
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

func validateShareName(name string) error {
	err := validation.Validate(name,
		validation.Required,
		validation.Length(3, 63),
		validation.Match(shareNamePattern).Error("must be lowercase letters, digits, and interior hyphens"),
	)
	if err != nil {
		return storerrors.NewValidationError("name", err.Error())
	}
	return nil
}
