package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilMetrics_NoPanic(t *testing.T) {
	t.Parallel()

	var m *Metrics
	m.Ingest("inserted")
	m.Run("ok")
	m.Records("processed", 3)
	m.LLM("normalize", time.Second, nil)
	m.Tokens(10)
	if m.Registry() != nil {
		t.Fatal("nil metrics should have nil registry")
	}
}

func TestCounters(t *testing.T) {
	t.Parallel()

	m := New()
	m.Ingest("inserted")
	m.Ingest("inserted")
	m.Ingest("duplicate")
	m.Records("processed", 2)
	m.Records("failed", 0)
	m.Tokens(150)

	if got := testutil.ToFloat64(m.ingest.WithLabelValues("inserted")); got != 2 {
		t.Fatalf("inserted=%v want 2", got)
	}
	if got := testutil.ToFloat64(m.ingest.WithLabelValues("duplicate")); got != 1 {
		t.Fatalf("duplicate=%v want 1", got)
	}
	if got := testutil.ToFloat64(m.records.WithLabelValues("processed")); got != 2 {
		t.Fatalf("processed=%v want 2", got)
	}
	if got := testutil.ToFloat64(m.llmTokens); got != 150 {
		t.Fatalf("tokens=%v want 150", got)
	}
}

func TestHandler_ExposesSeries(t *testing.T) {
	t.Parallel()

	m := New()
	m.Run("ok")
	m.LLM("normalize", 2*time.Second, errors.New("x"))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{"b4b_normalizer_runs_total", `b4b_llm_request_seconds_count{op="normalize",result="error"} 1`} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("metrics output missing %q", want)
		}
	}
}
