package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestWithFieldsAttachToOutput(t *testing.T) {
	var buf bytes.Buffer
	logg := New(Options{ServiceName: "test", Level: zerolog.InfoLevel, Output: &buf})

	ctx := logg.WithFields(context.Background(), map[string]any{"group_id": "g-1"})
	logg.Info(ctx, "member joined")

	out := buf.String()
	if !strings.Contains(out, `"group_id":"g-1"`) {
		t.Fatalf("expected group_id field, got %s", out)
	}
	if !strings.Contains(out, `"service":"test"`) {
		t.Fatalf("expected service field, got %s", out)
	}
	if !strings.Contains(out, "member joined") {
		t.Fatalf("expected message, got %s", out)
	}
}

func TestParseLevelFallsBackToInfo(t *testing.T) {
	if ParseLevel("nonsense") != zerolog.InfoLevel {
		t.Fatal("expected info fallback")
	}
	if ParseLevel("debug") != zerolog.DebugLevel {
		t.Fatal("expected debug")
	}
	if ParseLevel("") != zerolog.InfoLevel {
		t.Fatal("expected info for empty value")
	}
}
