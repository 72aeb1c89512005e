package httpkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func serveStack(h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Use(CommonStack()...)
	r.Get("/reports/quick", h)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCommonStack_RequestIDAndNoCache(t *testing.T) {
	var seen string
	rec := serveStack(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get("X-Request-Id")
		w.WriteHeader(http.StatusNoContent)
	}, func() *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/reports/quick/", nil)
		req.Header.Set("X-Request-Id", "rid-7")
		return req
	}())

	if rec.Code != http.StatusNoContent {
		t.Fatalf("code=%d, trailing slash should be stripped", rec.Code)
	}
	if seen != "rid-7" {
		t.Fatalf("request id header=%q", seen)
	}
	if rec.Header().Get("Cache-Control") == "" {
		t.Fatalf("no cache headers: %v", rec.Header())
	}
}

func TestCommonStack_PanicBecomesEnvelope(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/reports/quick", nil)
	req.Header.Set("X-Request-Id", "rid-boom")
	rec := serveStack(func(http.ResponseWriter, *http.Request) { panic("boom") }, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("code=%d", rec.Code)
	}
	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v body=%s", err, rec.Body.String())
	}
	if env.RequestID != "rid-boom" || env.Error == "" || env.Code == 0 {
		t.Fatalf("env=%+v", env)
	}
}
