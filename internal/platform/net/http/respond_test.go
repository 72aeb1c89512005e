package http_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	perr "b4b/internal/platform/errors"
	pnet "b4b/internal/platform/net"
	phttp "b4b/internal/platform/net/http"
)

func serve(t *testing.T, resp phttp.Response) (*httptest.ResponseRecorder, phttp.Envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	req = req.WithContext(pnet.WithRequest(req.Context(), "rid-1"))
	rec := httptest.NewRecorder()
	phttp.Handle(func(*http.Request) phttp.Response { return resp })(rec, req)

	var env phttp.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal envelope: %v (%q)", err, rec.Body.String())
	}
	return rec, env
}

func TestJSON_SetsStatusAndContentType(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	phttp.JSON(rec, http.StatusTeapot, map[string]any{"k": "v"})
	if rec.Code != http.StatusTeapot {
		t.Fatalf("status = %d, want 418", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Fatalf("content type = %q", ct)
	}
}

func TestHandle_OKEnvelope(t *testing.T) {
	t.Parallel()

	rec, env := serve(t, phttp.OK(map[string]int{"total_raw": 3}))
	if rec.Code != http.StatusOK || env.StatusCode != http.StatusOK || env.Status != "OK" {
		t.Fatalf("bad envelope: code=%d %+v", rec.Code, env)
	}
	if env.RequestID != "rid-1" {
		t.Fatalf("request id = %q, want rid-1", env.RequestID)
	}
	data, ok := env.Data.(map[string]any)
	if !ok || data["total_raw"] != float64(3) {
		t.Fatalf("data = %#v", env.Data)
	}
	if env.Error != "" || env.Code != 0 {
		t.Fatalf("success envelope carries error fields: %+v", env)
	}
}

func TestHandle_ZeroStatusMeansOK(t *testing.T) {
	t.Parallel()

	rec, env := serve(t, phttp.Response{Body: "hello"})
	if rec.Code != http.StatusOK || env.Data != "hello" {
		t.Fatalf("code=%d env=%+v", rec.Code, env)
	}
}

func TestHandle_ErrorMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"busy", perr.New(perr.ErrorCodeConflict, "a run is already in progress"), http.StatusConflict},
		{"upstream", perr.New(perr.ErrorCodeTransport, "dial"), http.StatusBadGateway},
		{"bad arg", perr.InvalidArgf("limit must be between 1 and 200"), http.StatusUnprocessableEntity},
		{"missing", perr.ErrNotFound, http.StatusNotFound},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rec, env := serve(t, phttp.Error(tc.err))
			if rec.Code != tc.want || env.StatusCode != tc.want {
				t.Fatalf("status = %d/%d, want %d", rec.Code, env.StatusCode, tc.want)
			}
			if env.Error == "" || env.Data != nil {
				t.Fatalf("error envelope = %+v", env)
			}
		})
	}
}

func TestHandle_ExtraHeaders(t *testing.T) {
	t.Parallel()

	resp := phttp.OK("x")
	resp.Header = http.Header{"X-Run-Id": []string{"r-9"}}
	rec, _ := serve(t, resp)
	if got := rec.Header().Get("X-Run-Id"); got != "r-9" {
		t.Fatalf("header = %q, want r-9", got)
	}
}
