package paging

import (
	"encoding/base64"
	"strings"
	"testing"

	storerrors "github.com/jonwraymond/storops/errors"
	"github.com/jonwraymond/storops/retry"
)

const kindTables Kind = "tables"

func TestCursorTokenRoundTrip(t *testing.T) {
	minted := NewCursor(kindTables, "table-017", retry.Secondary)

	decoded, err := Decode(kindTables, minted.Token())
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if decoded.Kind() != kindTables {
		t.Errorf("Kind() = %q, want %q", decoded.Kind(), kindTables)
	}
	if decoded.Marker() != "table-017" {
		t.Errorf("Marker() = %q, want %q", decoded.Marker(), "table-017")
	}
	if decoded.Location() != retry.Secondary {
		t.Errorf("Location() = %v, want %v", decoded.Location(), retry.Secondary)
	}
}

func TestCursorTokenIsURLSafe(t *testing.T) {
	token := NewCursor(kindTables, "a marker/with?odd&chars", retry.Primary).Token()

	if strings.ContainsAny(token, " ?&/") {
		t.Errorf("Token() = %q contains characters unsafe in a query value", token)
	}
	if _, err := base64.URLEncoding.DecodeString(token); err != nil {
		t.Errorf("Token() = %q is not URL-safe base64: %v", token, err)
	}
}

func TestDecodeKindMismatch(t *testing.T) {
	token := NewCursor(kindTables, "table-017", retry.Primary).Token()

	_, err := Decode(Kind("shares"), token)
	if err == nil {
		t.Fatal("Decode() error = nil, want a validation error")
	}
	if !storerrors.IsValidation(err) {
		t.Errorf("Decode() error = %v, want a validation error", err)
	}
	if !strings.Contains(err.Error(), "tables") || !strings.Contains(err.Error(), "shares") {
		t.Errorf("Decode() error %q does not name both kinds", err)
	}
}

func TestDecodeMalformedTokens(t *testing.T) {
	cases := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"not base64", "!!!not-base64!!!"},
		{"not json", base64.URLEncoding.EncodeToString([]byte("not json"))},
		{"missing marker", base64.URLEncoding.EncodeToString([]byte(`{"kind":"tables","location":"primary"}`))},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Decode(kindTables, c.token)
			if err == nil {
				t.Fatal("Decode() error = nil, want a validation error")
			}
			if !storerrors.IsValidation(err) {
				t.Errorf("Decode() error = %v, want a validation error", err)
			}
		})
	}
}

func TestCursorPinnedMode(t *testing.T) {
	cases := []struct {
		location retry.Location
		want     retry.LocationMode
	}{
		{retry.Primary, retry.PrimaryOnly},
		{retry.Secondary, retry.SecondaryOnly},
	}

	for _, c := range cases {
		cursor := NewCursor(kindTables, "m", c.location)
		if got := cursor.PinnedMode(); got != c.want {
			t.Errorf("PinnedMode() for %v = %v, want %v", c.location, got, c.want)
		}
	}
}
