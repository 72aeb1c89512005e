// Package middleware holds the http middlewares the api stack is built from
// chi and go-chi/cors stay behind this package
package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	chicors "github.com/go-chi/cors"
)

// Func is a net/http middleware
type Func = func(http.Handler) http.Handler

// RequestID reuses an inbound X-Request-Id or mints one and stores it on the request context
func RequestID() Func { return chimw.RequestID }

// RealIP trusts X-Real-IP and X-Forwarded-For for RemoteAddr
func RealIP() Func { return chimw.RealIP }

// NoCache marks every answer uncacheable, reports change with each run
func NoCache() Func { return chimw.NoCache }

// StripSlashes serves /reports/quick/ as /reports/quick
func StripSlashes() Func { return chimw.StripSlashes }

// Timeout cancels the request context after d
func Timeout(d time.Duration) Func { return chimw.Timeout(d) }

// Compress gzips or deflates bodies at level for clients that accept it
func Compress(level int) Func { return chimw.Compress(level) }

// Heartbeat answers GET path with 200 before routing, for load balancer probes
func Heartbeat(path string) Func { return chimw.Heartbeat(path) }

// CORSOptions is the subset of go-chi/cors the api exposes
type CORSOptions struct {
	AllowedOrigins []string
	MaxAge         int
}

// CORS allows the read and trigger methods the api serves
func CORS(o CORSOptions) Func {
	origins := o.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return chicors.Handler(chicors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         o.MaxAge,
	})
}
