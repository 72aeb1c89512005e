// Package httpkit is what modules mount routes with
// modules import it instead of internal/platform/net/http
package httpkit

import (
	"net/http"

	phttp "b4b/internal/platform/net/http"
)

type (
	// Envelope is the response body every route answers with
	Envelope = phttp.Envelope

	// Response is a return style handler result
	Response = phttp.Response

	// Handler is the platform handler type
	Handler = phttp.Handler

	// Router is the platform router seam
	Router = phttp.Router
)

// Call adapts a handler that returns (value, error) to the envelope
// a Response returned as value is written as is
func Call(fn func(*http.Request) (any, error)) Handler {
	return phttp.Handle(func(r *http.Request) phttp.Response {
		out, err := fn(r)
		if err != nil {
			return phttp.Error(err)
		}
		if resp, ok := out.(phttp.Response); ok {
			return resp
		}
		return phttp.OK(out)
	})
}
