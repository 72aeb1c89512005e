package http

import (
	"net/http"

	"b4b/internal/platform/net/http/bind"
)

// JSONHandler binds the body into T with opt, then wraps fn's result in the envelope
func JSONHandler[T any](opt bind.JSONOptions, fn func(*http.Request, T) (any, error)) Handler {
	return Handle(func(r *http.Request) Response {
		in, err := bind.ParseJSON[T](r, opt)
		if err != nil {
			return Error(err)
		}
		out, err := fn(r, in)
		if err != nil {
			return Error(err)
		}
		return OK(out)
	})
}
