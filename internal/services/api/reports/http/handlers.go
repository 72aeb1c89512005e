// Package http provides http transport for reports
package http

import (
	stdhttp "net/http"

	"b4b/internal/modkit/httpkit"
	"b4b/internal/services/api/reports/domain"
)

// Register mounts report endpoints on the given router
func Register(r httpkit.Router, s domain.ReportsPort) {
	h := &handlers{svc: s}

	httpkit.Get(r, "/quick", h.quick)
	httpkit.Get(r, "/detailed", h.detailed)
	httpkit.PostJSON(r, "/advice", h.advice)
}

type handlers struct{ svc domain.ReportsPort }

// swagger:route GET /reports/quick Reports reportsQuick
// @Summary Month to date total, record count and pending count
// @Tags Reports
// @Produce json
// @Success 200 {object} domain.QuickStats "ok"
// @Router /reports/quick [get]
func (h *handlers) quick(r *stdhttp.Request) (any, error) {
	return h.svc.Quick(r.Context())
}

// swagger:route GET /reports/detailed Reports reportsDetailed
// @Summary Month to date total with the top categories
// @Tags Reports
// @Produce json
// @Success 200 {object} domain.Detailed "ok"
// @Router /reports/detailed [get]
func (h *handlers) detailed(r *stdhttp.Request) (any, error) {
	return h.svc.Detailed(r.Context())
}

// swagger:route POST /reports/advice Reports reportsAdvice
// @Summary Advice toward a savings goal, falls back to a canned reply when the advisor is down
// @Tags Reports
// @Accept json
// @Produce json
// @Param payload body domain.AdviceInput false "Optional goal"
// @Success 200 {object} domain.Advice "ok"
// @Router /reports/advice [post]
func (h *handlers) advice(r *stdhttp.Request, in domain.AdviceInput) (any, error) {
	return h.svc.Advice(r.Context(), in.Goal)
}
