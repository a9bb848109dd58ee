package observe

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func decodeLogLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("log line is not JSON: %q: %v", line, err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("warn", &buf)

	ctx := context.Background()
	logger.Debug(ctx, "dropped debug")
	logger.Info(ctx, "dropped info")
	logger.Warn(ctx, "kept warn")
	logger.Error(ctx, "kept error")

	entries := decodeLogLines(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0]["msg"] != "kept warn" || entries[1]["msg"] != "kept error" {
		t.Errorf("entries = %v", entries)
	}
}

func TestLoggerWithOperationAttachesContext(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	scoped := logger.WithOperation(OperationMeta{
		Service:   "table",
		Operation: "CreateTable",
		Account:   "devaccount1",
	})
	scoped.Info(context.Background(), "created")

	entries := decodeLogLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	entry := entries[0]
	if entry["storage.service"] != "table" {
		t.Errorf("storage.service = %v, want table", entry["storage.service"])
	}
	if entry["storage.operation"] != "CreateTable" {
		t.Errorf("storage.operation = %v", entry["storage.operation"])
	}
	if entry["storage.account"] != "devaccount1" {
		t.Errorf("storage.account = %v", entry["storage.account"])
	}
	if entry["level"] != "info" {
		t.Errorf("level = %v, want info", entry["level"])
	}
}

func TestLoggerRedactsCredentialFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	logger.Info(context.Background(), "signing",
		Field{Key: "Authorization", Value: "SharedKey acct:c2ln"},
		Field{Key: "account_key", Value: "c2VjcmV0"},
		Field{Key: "connection_string", Value: "AccountKey=..."},
		Field{Key: "host", Value: "acct.table.stor.cloudapi.net"},
	)

	entries := decodeLogLines(t, &buf)
	entry := entries[0]
	for _, key := range []string{"Authorization", "account_key", "connection_string"} {
		if entry[key] != "[REDACTED]" {
			t.Errorf("%s = %v, want [REDACTED]", key, entry[key])
		}
	}
	if entry["host"] != "acct.table.stor.cloudapi.net" {
		t.Errorf("host = %v, want passed through", entry["host"])
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"", LevelInfo},
		{"shout", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLogLevel(tt.in); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
