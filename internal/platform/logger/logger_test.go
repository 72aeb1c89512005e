package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"b4b/internal/platform/testkit"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]zerolog.Level{
		"trace":    zerolog.TraceLevel,
		"DEBUG":    zerolog.DebugLevel,
		" warn ":   zerolog.WarnLevel,
		"warning":  zerolog.WarnLevel,
		"error":    zerolog.ErrorLevel,
		"disabled": zerolog.Disabled,
		"":         zerolog.InfoLevel,
		"loud":     zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "JSON")
	t.Setenv("LOG_CALLER", "true")
	t.Setenv("LOG_SAMPLE_EVERY", "4")

	opt := FromEnv()
	if opt.Level != "debug" || opt.Format != "json" || opt.Service != "b4b" {
		t.Fatalf("opt = %+v", opt)
	}
	if !opt.Caller || opt.Sample != 4 {
		t.Fatalf("caller/sample = %+v", opt)
	}
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	return line
}

func TestNew_JSONFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := New(Options{Level: "info", Format: "json", Service: "b4b-test", Out: &buf, Fields: map[string]string{"env": "ci"}})

	l.Debug().Msg("dropped")
	if buf.Len() != 0 {
		t.Fatalf("debug line written at info level: %s", buf.String())
	}

	l.Info().Msg("kept")
	line := decode(t, &buf)
	if line["service"] != "b4b-test" || line["env"] != "ci" || line["message"] != "kept" {
		t.Fatalf("line = %v", line)
	}
}

func TestNew_Console(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	New(Options{Format: "console", Out: &buf}).Info().Str("item", "coffee").Msg("logged")
	testkit.MustContain(t, buf.String(), "logged")
	testkit.MustContain(t, buf.String(), "coffee")
}

func TestC_CarriesContextIDs(t *testing.T) {
	var buf bytes.Buffer
	prev := root.Load()
	Init(Options{Format: "json", Out: &buf})
	t.Cleanup(func() { root.Store(prev) })

	ctx := context.WithValue(context.Background(), chimw.RequestIDKey, "host/abc-000001")
	ctx = WithRun(ctx, "run-9")
	ctx = WithChat(ctx, 4242)
	C(ctx).Info().Msg("normalized")

	line := decode(t, &buf)
	if line["request_id"] != "host/abc-000001" || line["run_id"] != "run-9" || line["chat_id"] != float64(4242) {
		t.Fatalf("line = %v", line)
	}

	buf.Reset()
	Named("scheduler").Info().Msg("tick")
	if line := decode(t, &buf); line["component"] != "scheduler" || line["run_id"] != nil {
		t.Fatalf("named line = %v", line)
	}
}

func TestWithRun_EmptyKeepsContext(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if WithRun(ctx, "") != ctx || WithChat(ctx, 0) != ctx {
		t.Fatalf("empty ids should not wrap ctx")
	}
	if RunID(WithRun(ctx, "abc")) != "abc" {
		t.Fatalf("RunID round trip failed")
	}
}
