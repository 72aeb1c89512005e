package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"b4b/internal/platform/net/middleware"
)

// slowRequest marks access log lines at warn
const slowRequest = 2 * time.Second

// CommonStack returns the middleware applied to everything under /api/v1, outermost first
// the timeout covers a manual normalizer run, which waits on the external call
func CommonStack() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.AccessLog(slowRequest),
		middleware.RecoverJSON,
		middleware.NoCache(),
		middleware.CORS(middleware.CORSOptions{}),
		middleware.Compress(flate.BestSpeed),
		middleware.StripSlashes(),
		middleware.Timeout(2 * time.Minute),
	}
}
