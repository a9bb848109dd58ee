package paging

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	storerrors "github.com/jonwraymond/storops/errors"
	"github.com/jonwraymond/storops/retry"
)

// Kind identifies which enumeration a cursor belongs to. Each listing
// operation declares its own kind, and a cursor only resumes the kind
// that minted it.
type Kind string

// Cursor resumes a segmented enumeration at a server-issued marker. A nil
// *Cursor means the enumeration is complete. Cursors are immutable.
type Cursor struct {
	kind     Kind
	marker   string
	location retry.Location
}

// NewCursor mints a cursor for the next page of an enumeration. The
// location records which replica served the current page so the
// enumeration can stay on a consistent replica.
func NewCursor(kind Kind, marker string, location retry.Location) *Cursor {
	return &Cursor{kind: kind, marker: marker, location: location}
}

// Kind returns the enumeration kind that minted this cursor.
func (c *Cursor) Kind() Kind { return c.kind }

// Marker returns the server-issued continuation marker.
func (c *Cursor) Marker() string { return c.marker }

// Location returns the replica that served the page this cursor follows.
func (c *Cursor) Location() retry.Location { return c.location }

// PinnedMode returns the location mode that keeps a resumed enumeration
// on the replica that served the previous page.
func (c *Cursor) PinnedMode() retry.LocationMode {
	if c.location == retry.Secondary {
		return retry.SecondaryOnly
	}
	return retry.PrimaryOnly
}

// tokenPayload is the wire form inside an encoded token. The token is
// opaque to callers; only Decode understands it.
type tokenPayload struct {
	Kind     string `json:"kind"`
	Marker   string `json:"marker"`
	Location string `json:"location"`
}

// Token encodes the cursor as an opaque string safe for URLs, logs, and
// storage between processes.
func (c *Cursor) Token() string {
	payload, _ := json.Marshal(tokenPayload{
		Kind:     string(c.kind),
		Marker:   c.marker,
		Location: c.location.String(),
	})
	return base64.URLEncoding.EncodeToString(payload)
}

// Decode parses an opaque token and verifies it belongs to the expected
// enumeration kind. Any mismatch or malformation fails with a validation
// error before any request is issued.
func Decode(expected Kind, token string) (*Cursor, error) {
	raw, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return nil, storerrors.NewValidationError("cursor", "malformed continuation token")
	}
	var payload tokenPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, storerrors.NewValidationError("cursor", "malformed continuation token")
	}
	if payload.Marker == "" {
		return nil, storerrors.NewValidationError("cursor", "continuation token has no marker")
	}
	if Kind(payload.Kind) != expected {
		return nil, storerrors.NewValidationError("cursor",
			fmt.Sprintf("continuation token is for %q, want %q", payload.Kind, expected))
	}

	location := retry.Primary
	if payload.Location == retry.Secondary.String() {
		location = retry.Secondary
	}
	return &Cursor{
		kind:     Kind(payload.Kind),
		marker:   payload.Marker,
		location: location,
	}, nil
}
