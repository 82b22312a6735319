package logger

import (
	"log/slog"
	"testing"
)

func TestRedact(t *testing.T) {
	if got := redact(nil, slog.String("refresh_token", "abc")); got.Value.String() != "[redacted]" {
		t.Fatalf("expected token redacted, got %v", got.Value)
	}
	if got := redact(nil, slog.String("Password", "pw")); got.Value.String() != "[redacted]" {
		t.Fatalf("expected password redacted, got %v", got.Value)
	}
	if got := redact(nil, slog.String("tier", "admin")); got.Value.String() != "admin" {
		t.Fatalf("expected tier kept, got %v", got.Value)
	}
}
