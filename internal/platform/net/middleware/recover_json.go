package middleware

import (
	"net/http"
	"runtime/debug"

	perr "b4b/internal/platform/errors"
	"b4b/internal/platform/logger"
	pnet "b4b/internal/platform/net"
	phttp "b4b/internal/platform/net/http"
)

// RecoverJSON turns a panic into a 500 envelope and logs it with the stack
// http.ErrAbortHandler is re-raised so net/http can drop the connection
func RecoverJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}

			logger.C(r.Context()).Error().
				Interface("panic", v).
				Bytes("stack", debug.Stack()).
				Msg("http: panic recovered")

			wire := perr.WireFrom(perr.PanicErrf("internal error"))
			phttp.JSON(w, http.StatusInternalServerError, phttp.Envelope{
				StatusCode: http.StatusInternalServerError,
				Status:     http.StatusText(http.StatusInternalServerError),
				Code:       wire.Code,
				Error:      wire.Message,
				RequestID:  pnet.RequestID(r.Context()),
			})
		}()
		next.ServeHTTP(w, r)
	})
}
