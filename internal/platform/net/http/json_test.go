package http

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"b4b/internal/platform/net/http/bind"
)

type goalDTO struct {
	Goal *int `json:"goal,omitempty" validate:"omitempty,gte=0"`
}

var small = bind.JSONOptions{MaxBytes: 1 << 10, DisallowUnknown: true, AllowEmptyBody: true}

func serveGoal(t *testing.T, body string, fn func(*http.Request, goalDTO) (any, error)) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/advice", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	JSONHandler(small, fn)(rr, req)
	return rr
}

func TestJSONHandler_BindsBody(t *testing.T) {
	t.Parallel()

	rr := serveGoal(t, `{"goal":5000}`, func(_ *http.Request, in goalDTO) (any, error) {
		if in.Goal == nil || *in.Goal != 5000 {
			t.Fatalf("goal = %v, want 5000", in.Goal)
		}
		return map[string]int{"goal": *in.Goal}, nil
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"goal":5000`) {
		t.Fatalf("body %q missing goal", rr.Body.String())
	}
}

func TestJSONHandler_EmptyBodyAllowed(t *testing.T) {
	t.Parallel()

	rr := serveGoal(t, ``, func(_ *http.Request, in goalDTO) (any, error) {
		if in.Goal != nil {
			t.Fatalf("goal = %v, want nil", *in.Goal)
		}
		return "ok", nil
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
}

func TestJSONHandler_Rejects(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		body string
	}{
		{"broken json", `{`},
		{"unknown field", `{"target":1}`},
		{"negative goal", `{"goal":-1}`},
		{"trailing data", `{"goal":1}{}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rr := serveGoal(t, tc.body, func(*http.Request, goalDTO) (any, error) {
				t.Fatal("handler must not run on a bad body")
				return nil, nil
			})
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rr.Code)
			}
		})
	}
}

func TestJSONHandler_HandlerError(t *testing.T) {
	t.Parallel()

	rr := serveGoal(t, `{}`, func(*http.Request, goalDTO) (any, error) {
		return nil, errors.New("boom")
	})
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "boom") {
		t.Fatalf("expected error message in body, got %q", rr.Body.String())
	}
}
