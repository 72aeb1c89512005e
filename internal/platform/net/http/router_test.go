package http_test

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"b4b/internal/platform/config"
	phttp "b4b/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

func TestRouter_RoutesAndScopes(t *testing.T) {
	t.Parallel()

	hooked := false
	srv := phttp.NewServer(config.New(), func(*chi.Mux) { hooked = true })
	if !hooked {
		t.Fatalf("NewServer option not invoked")
	}
	r := srv.Router()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("X-Root", "1")
			next.ServeHTTP(w, req)
		})
	})
	r.Handle("/metrics", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "m")
	}))
	r.Route("/api", func(api phttp.Router) {
		api.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				w.Header().Set("X-Api", "1")
				next.ServeHTTP(w, req)
			})
		})
		api.Route("/v1", func(v1 phttp.Router) {
			if v1.Mux() == nil {
				t.Fatalf("scoped Mux() is nil")
			}
			v1.Get("/status", func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, "s") })
			v1.Post("/normalize/run", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusAccepted) })
		})
	})

	cases := []struct {
		method, path string
		want         int
		api          bool
	}{
		{http.MethodGet, "/metrics", http.StatusOK, false},
		{http.MethodGet, "/api/v1/status", http.StatusOK, true},
		{http.MethodPost, "/api/v1/normalize/run", http.StatusAccepted, true},
		{http.MethodGet, "/api/v1/normalize/run", http.StatusMethodNotAllowed, true},
		{http.MethodGet, "/api/v2/status", http.StatusNotFound, true},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		r.Mux().ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		if rec.Code != tc.want {
			t.Fatalf("%s %s = %d, want %d", tc.method, tc.path, rec.Code, tc.want)
		}
		if rec.Header().Get("X-Root") != "1" {
			t.Fatalf("%s %s missed root middleware", tc.method, tc.path)
		}
		if tc.want < 400 && tc.api && rec.Header().Get("X-Api") != "1" {
			t.Fatalf("%s %s missed scope middleware", tc.method, tc.path)
		}
	}
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()

	t.Setenv("API_PORT", addr)
	t.Setenv("API_SHUTDOWN_GRACE", "2s")
	srv := phttp.NewServer(config.New())
	if srv.Addr() != addr {
		t.Fatalf("addr = %q, want %q", srv.Addr(), addr)
	}
	srv.Router().Get("/ping", func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, "pong") })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	var resp *http.Response
	for i := 0; i < 50; i++ {
		resp, err = http.Get("http://" + addr + "/ping")
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("server never came up: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if string(body) != "pong" {
		t.Fatalf("body = %q, want pong", body)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}
}
