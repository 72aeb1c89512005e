// Package http provides the status, health and version endpoints
package http

import (
	stdhttp "net/http"
	"strconv"

	"b4b/internal/core/version"
	"b4b/internal/modkit/httpkit"
	perr "b4b/internal/platform/errors"
	"b4b/internal/services/api/status/domain"
)

const (
	defaultErrorsLimit = 20
	maxErrorsLimit     = 200
)

type handlers struct {
	svc  domain.StatusPort
	name string
}

// Register mounts the status routes under the module prefix
func Register(r httpkit.Router, s domain.StatusPort) {
	h := &handlers{svc: s}

	httpkit.Get(r, "/", h.status)
	httpkit.Get(r, "/errors", h.errors)
}

// RegisterProbes mounts health and version at the api root
func RegisterProbes(r httpkit.Router, s domain.StatusPort, name string) {
	h := &handlers{svc: s, name: name}

	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/version", h.version)
}

// swagger:route GET /status Status statusGet
// @Summary Pipeline counts and ingestion cursor
// @Tags Status
// @Produce json
// @Success 200 {object} domain.Status "ok"
// @Router /status [get]
func (h *handlers) status(r *stdhttp.Request) (any, error) {
	return h.svc.Status(r.Context())
}

// swagger:route GET /status/errors Status statusErrors
// @Summary Latest pending messages with an error log
// @Tags Status
// @Produce json
// @Param limit query int false "max rows (1..200)"
// @Success 200 {array} domain.ErroredMessage "ok"
// @Router /status/errors [get]
func (h *handlers) errors(r *stdhttp.Request) (any, error) {
	limit := defaultErrorsLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxErrorsLimit {
			return nil, perr.WithField(perr.InvalidArgf("limit must be between 1 and %d", maxErrorsLimit), "limit")
		}
		limit = n
	}
	return h.svc.Errors(r.Context(), limit)
}

// swagger:route GET /health Status statusHealth
// @Summary Database ping plus pipeline counts
// @Tags Status
// @Produce json
// @Success 200 {object} domain.Health "ok"
// @Router /health [get]
func (h *handlers) health(r *stdhttp.Request) (any, error) {
	return h.svc.Health(r.Context()), nil
}

// swagger:route GET /version Status statusVersion
// @Summary Build and version info
// @Tags Status
// @Produce json
// @Success 200 {object} version.BuildInfo "ok"
// @Router /version [get]
func (h *handlers) version(_ *stdhttp.Request) (any, error) {
	return version.Info(h.name), nil
}
