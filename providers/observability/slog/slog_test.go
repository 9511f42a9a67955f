package slog

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/leofalp/llmwire/providers/observability"
)

func newTestObserver(level slog.Level) (*Observer, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: level}))
	return New(logger), &buf
}

func TestObserver_StartSpanStoresSpanInContext(t *testing.T) {
	obs, buf := newTestObserver(slog.LevelDebug)

	ctx, span := obs.StartSpan(context.Background(), observability.SpanStream,
		observability.String(observability.AttrLLMProvider, "openai"))

	if observability.SpanFromContext(ctx) != span {
		t.Fatal("StartSpan should return a context carrying the new span")
	}
	output := buf.String()
	if !strings.Contains(output, "span.start") || !strings.Contains(output, "llm.provider=openai") {
		t.Errorf("unexpected span start output: %s", output)
	}
}

func TestObserver_SpanEndIncludesStatusAndDuration(t *testing.T) {
	obs, buf := newTestObserver(slog.LevelDebug)

	_, span := obs.StartSpan(context.Background(), observability.SpanComplete)
	span.SetStatus(observability.StatusError, "HTTP error 500")
	span.RecordError(errors.New("boom"))
	buf.Reset()

	span.End()

	output := buf.String()
	for _, want := range []string{"span.end", "status=error", "duration=", "level=WARN"} {
		if !strings.Contains(output, want) {
			t.Errorf("span end output missing %q: %s", want, output)
		}
	}
}

func TestObserver_CounterAccumulates(t *testing.T) {
	obs, _ := newTestObserver(slog.LevelDebug)
	ctx := context.Background()

	obs.Counter(observability.MetricRequestCount).Add(ctx, 1)
	obs.Counter(observability.MetricRequestCount).Add(ctx, 2)

	if got := obs.CounterValue(observability.MetricRequestCount); got != 3 {
		t.Errorf("CounterValue() = %d, want 3", got)
	}
	if got := obs.CounterValue("never.used"); got != 0 {
		t.Errorf("CounterValue() for unknown counter = %d, want 0", got)
	}
}

func TestObserver_TraceFilteredAtDebug(t *testing.T) {
	obs, buf := newTestObserver(slog.LevelDebug)

	obs.Trace(context.Background(), "frame received")
	if buf.Len() != 0 {
		t.Errorf("trace record should be filtered at debug level, got: %s", buf.String())
	}

	obs.Debug(context.Background(), "payload built", observability.Int("bytes", 42))
	if !strings.Contains(buf.String(), "bytes=42") {
		t.Errorf("debug record missing attribute: %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"trace", LevelTrace, false},
		{" DEBUG ", slog.LevelDebug, false},
		{"Warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLevelFromEnv(t *testing.T) {
	t.Setenv("LLMWIRE_LOG_LEVEL", "")
	t.Setenv("LOG_LEVEL", "debug")
	if got := LevelFromEnv(); got != slog.LevelDebug {
		t.Errorf("LevelFromEnv() = %v, want DEBUG", got)
	}

	t.Setenv("LLMWIRE_LOG_LEVEL", "error")
	if got := LevelFromEnv(); got != slog.LevelError {
		t.Errorf("LevelFromEnv() = %v, want ERROR", got)
	}
}
