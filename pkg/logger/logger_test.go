package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
)

type traceKey struct{}

func TestLoggerWritesServiceAndTraceID(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, LevelInfo, "storefront", func(ctx context.Context) string {
		id, _ := ctx.Value(traceKey{}).(string)
		return id
	})

	ctx := context.WithValue(context.Background(), traceKey{}, "abc123")
	log.Info(ctx, "cart updated", "items", 3)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode entry %q: %v", buf.String(), err)
	}
	if entry["service"] != "storefront" {
		t.Fatalf("unexpected service: %v", entry["service"])
	}
	if entry["trace_id"] != "abc123" {
		t.Fatalf("unexpected trace id: %v", entry["trace_id"])
	}
	if entry["msg"] != "cart updated" {
		t.Fatalf("unexpected msg: %v", entry["msg"])
	}
	if entry["items"] != float64(3) {
		t.Fatalf("unexpected items: %v", entry["items"])
	}
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, LevelWarn, "storefront", nil)

	log.Info(context.Background(), "dropped")
	if buf.Len() != 0 {
		t.Fatalf("expected info to be filtered, got %q", buf.String())
	}
	log.Warn(context.Background(), "kept")
	if buf.Len() == 0 {
		t.Fatal("expected warn entry")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   LevelDebug,
		"WARN":    LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
		"":        LevelInfo,
		"bogus":   LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	var log *Logger
	log.Info(context.Background(), "nothing")
	NewNop().Error(context.Background(), "nothing")
}
