package httpkit

import (
	"net/http"

	phttp "b4b/internal/platform/net/http"
	"b4b/internal/platform/net/http/bind"
)

// triggerBody bounds the small optional bodies POST triggers accept
var triggerBody = bind.JSONOptions{MaxBytes: 4 << 10, DisallowUnknown: true, AllowEmptyBody: true}

// Get mounts a body-less handler under GET
func Get(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, Call(h))
}

// Post mounts a body-less handler under POST
func Post(r Router, path string, h func(*http.Request) (any, error)) {
	r.Post(path, Call(h))
}

// PostJSON mounts a handler whose optional JSON body is bound and validated into T
// an empty body yields the zero T
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Post(path, phttp.JSONHandler(triggerBody, h))
}
