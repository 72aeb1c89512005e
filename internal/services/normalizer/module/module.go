// Package module wires the batch normalizer as a modkit.Module
package module

import (
	"b4b/internal/modkit"
	"b4b/internal/modkit/httpkit"
	"b4b/internal/modkit/repokit"

	"b4b/internal/services/normalizer/domain"
	"b4b/internal/services/normalizer/guardrails"
	nhttp "b4b/internal/services/normalizer/http"
	"b4b/internal/services/normalizer/service"
	rawdom "b4b/internal/services/rawmessages/domain"
	rawrepo "b4b/internal/services/rawmessages/repo"
	recrepo "b4b/internal/services/records/repo"
)

// Inputs are the ports the normalizer consumes from other modules
type Inputs struct {
	Reader rawdom.ReaderPort
	Marker rawdom.MarkerPort
	LLM    service.Dispatcher
}

// Ports exported by the normalizer module
type Ports struct {
	Runner    domain.RunnerPort
	Scheduler *service.Scheduler
}

// Module implements modkit.Module for the normalizer
type Module struct {
	deps  modkit.Deps
	opts  Options
	ports Ports
}

// New constructs and wires the normalizer using deps.Cfg
func New(deps modkit.Deps, in Inputs) (*Module, error) {
	opts, err := FromConfig(deps.Cfg)
	if err != nil {
		return nil, err
	}

	db := deps.PG
	if opts.StatementTimeout > 0 {
		db = repokit.WithBeginHooks(deps.PG, repokit.StatementTimeout(opts.StatementTimeout))
	}

	svc := service.New(
		db,
		rawrepo.NewPG(),
		recrepo.NewPG(),
		in.Reader,
		in.Marker,
		in.LLM,
		service.Config{
			BatchSize:       opts.BatchSize,
			DefaultCurrency: opts.DefaultCurrency,
			DispatchTimeout: opts.DispatchTimeout,
		},
	)
	// the lock needs the raw pool seam, the hooked runner does not expose TryLock
	svc.Lock = guardrails.MakeAdvisoryLock(deps.PG, opts.LockKey)
	svc.Metrics = deps.Metrics

	sched, err := service.NewScheduler(opts.Schedule, svc)
	if err != nil {
		return nil, err
	}

	return &Module{
		deps:  deps,
		opts:  opts,
		ports: Ports{Runner: svc, Scheduler: sched},
	}, nil
}

// Name returns the module name
func (m *Module) Name() string { return "normalizer" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Options returns the resolved options
func (m *Module) Options() Options { return m.opts }

// MountRoutes mounts POST /normalize/run
func (m *Module) MountRoutes(r httpkit.Router) {
	httpkit.MountUnder(r, "/normalize", nil, func(sub httpkit.Router) {
		nhttp.Register(sub, m.ports.Runner)
	})
}
