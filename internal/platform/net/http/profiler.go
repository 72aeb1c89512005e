package http

import (
	"net/http"
	"strings"

	"b4b/internal/platform/logger"

	"github.com/go-chi/chi/v5/middleware"
)

// MountProfiler exposes pprof under prefix, so "/debug" serves /debug/pprof/
// nothing is mounted unless enabled (API_PROFILER)
func MountProfiler(r Router, prefix string, enabled bool) {
	if !enabled {
		return
	}
	prefix = "/" + strings.Trim(prefix, "/")

	// chi's profiler router expects paths rooted at /pprof
	pprof := http.StripPrefix(prefix, middleware.Profiler())
	r.Handle(prefix, pprof)
	r.Handle(prefix+"/*", pprof)

	logger.Named("http").Warn().Str("path", prefix+"/pprof/").Msg("profiler mounted")
}
