// Package http exposes the manual normalizer trigger
package http

import (
	stdhttp "net/http"

	"b4b/internal/modkit/httpkit"
	"b4b/internal/services/normalizer/domain"
)

// RunInput optionally narrows a manual run to one staged message
type RunInput struct {
	RawMessageID *int64 `json:"raw_message_id,omitempty" validate:"omitempty,gt=0" example:"17"`
}

// Register mounts the normalizer routes
func Register(r httpkit.Router, runner domain.RunnerPort) {
	h := &handlers{runner: runner}
	httpkit.PostJSON(r, "/run", h.run)
}

type handlers struct{ runner domain.RunnerPort }

// swagger:route POST /normalize/run Normalizer normalizeRun
// @Summary Run the normalizer now, for the pending batch or one message
// @Tags Normalizer
// @Accept json
// @Produce json
// @Param payload body RunInput false "Optional target"
// @Success 200 {object} domain.RunReport "ok"
// @Failure 404 {object} httpkit.Envelope "unknown raw message"
// @Failure 409 {object} httpkit.Envelope "another process is running"
// @Failure 502 {object} httpkit.Envelope "normalization service failed"
// @Router /normalize/run [post]
func (h *handlers) run(r *stdhttp.Request, in RunInput) (any, error) {
	if in.RawMessageID != nil {
		return h.runner.ProcessOne(r.Context(), *in.RawMessageID)
	}
	return h.runner.Run(r.Context())
}
