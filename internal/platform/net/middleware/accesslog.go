package middleware

import (
	"net/http"
	"time"

	"b4b/internal/platform/logger"
)

// recorder remembers the status and body size written through it
type recorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *recorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *recorder) Write(b []byte) (int, error) {
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

// AccessLog writes one line per request through logger.C, so request_id is attached
// requests slower than slow are logged at warn, 0 turns that off
func AccessLog(slow time.Duration) Func {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &recorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(rec, r)
			took := time.Since(start)

			l := logger.C(r.Context())
			ev := l.Info()
			switch {
			case rec.status >= http.StatusInternalServerError:
				ev = l.Error()
			case slow > 0 && took >= slow:
				ev = l.Warn()
			}
			ev.Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rec.status).
				Int("bytes", rec.bytes).
				Dur("took", took).
				Msg("http: request")
		})
	}
}
