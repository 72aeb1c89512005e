// Package api assembles the modules and mounts the HTTP API
package api

import (
	"fmt"

	"b4b/internal/adapters/llm"
	"b4b/internal/platform/config"
	"b4b/internal/platform/logger"
	"b4b/internal/platform/metrics"
	phttp "b4b/internal/platform/net/http"
	"b4b/internal/platform/net/middleware"
	"b4b/internal/platform/store"

	"b4b/internal/modkit"
	"b4b/internal/modkit/httpkit"
	"b4b/internal/modkit/module"
	"b4b/internal/modkit/swaggerkit"

	reportsdom "b4b/internal/services/api/reports/domain"
	reportsmod "b4b/internal/services/api/reports/module"
	statusdom "b4b/internal/services/api/status/domain"
	statusmod "b4b/internal/services/api/status/module"
	cursordom "b4b/internal/services/cursor/domain"
	cursormod "b4b/internal/services/cursor/module"
	ingestdom "b4b/internal/services/ingest/domain"
	ingestmod "b4b/internal/services/ingest/module"
	normdom "b4b/internal/services/normalizer/domain"
	normmod "b4b/internal/services/normalizer/module"
	normsvc "b4b/internal/services/normalizer/service"
	rawmod "b4b/internal/services/rawmessages/module"
	recmod "b4b/internal/services/records/module"
)

// Options are the API options
type Options struct {
	Config  config.Conf
	Store   *store.Store
	Logger  *logger.Logger
	Metrics *metrics.Metrics

	// LLM overrides the client built from LLM_* keys
	LLM *llm.Client

	EnableSwagger  bool
	EnableProfiler bool
	EnableMetrics  bool
}

// App holds the built modules and the ports the daemon drives outside HTTP
type App struct {
	Modules []module.Module

	Acceptor  ingestdom.AcceptorPort
	Runner    normdom.RunnerPort
	Scheduler *normsvc.Scheduler
	Reports   reportsdom.ReportsPort
	Status    statusdom.StatusPort
	Cursor    cursordom.CursorPort
}

// Build constructs every module leaf first and registers their ports
func Build(opt Options) (*App, error) {
	deps := modkit.Deps{
		Cfg:     opt.Config,
		PG:      opt.Store.PG,
		Metrics: opt.Metrics,
	}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}

	client := opt.LLM
	if client == nil {
		lo, err := llm.FromConfig(opt.Config)
		if err != nil {
			return nil, fmt.Errorf("llm options: %w", err)
		}
		client = llm.NewClient(lo, opt.Metrics)
	}

	raw := rawmod.New(deps)
	rawPorts := module.MustPortsOf[rawmod.Ports](raw)
	cur := cursormod.New(deps)
	curPorts := module.MustPortsOf[cursormod.Ports](cur)
	rec := recmod.New(deps)
	recPorts := module.MustPortsOf[recmod.Ports](rec)

	ingest := ingestmod.New(deps, rawPorts.Ingest, curPorts.Cursor)

	norm, err := normmod.New(deps, normmod.Inputs{
		Reader: rawPorts.Reader,
		Marker: rawPorts.Marker,
		LLM:    client,
	})
	if err != nil {
		return nil, fmt.Errorf("normalizer: %w", err)
	}
	normPorts := module.MustPortsOf[normmod.Ports](norm)

	reports, err := reportsmod.New(deps, reportsmod.Inputs{
		Records: recPorts.Reader,
		Raw:     rawPorts.Reader,
		Advisor: client,
	})
	if err != nil {
		return nil, fmt.Errorf("reports: %w", err)
	}

	status := statusmod.New(deps, statusmod.Inputs{
		Raw:     rawPorts.Reader,
		Records: recPorts.Reader,
		Cursor:  curPorts.Cursor,
	})

	app := &App{
		Modules:   []module.Module{raw, cur, rec, ingest, norm, reports, status},
		Acceptor:  module.MustPortsOf[ingestmod.Ports](ingest).Acceptor,
		Runner:    normPorts.Runner,
		Scheduler: normPorts.Scheduler,
		Reports:   module.MustPortsOf[reportsmod.Ports](reports).Reports,
		Status:    module.MustPortsOf[statusmod.Ports](status).Status,
		Cursor:    curPorts.Cursor,
	}
	return app, nil
}

// Mount mounts the API onto the given router
func Mount(r phttp.Router, app *App, opt Options) {
	// liveness, answered before any routing
	r.Use(middleware.Heartbeat("/health"))

	swaggerkit.Mount(r, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)
	if opt.EnableMetrics && opt.Metrics != nil {
		r.Handle("/metrics", opt.Metrics.Handler())
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		for _, m := range app.Modules {
			m.MountRoutes(api)
		}
	})
}
