// Package module wires reports into the API using modkit
package module

import (
	"net/http"

	modkit "b4b/internal/modkit"
	"b4b/internal/modkit/httpkit"
	str "b4b/internal/platform/strings"
	"b4b/internal/services/api/reports/domain"
	reportshttp "b4b/internal/services/api/reports/http"
	reportssvc "b4b/internal/services/api/reports/service"
	rawdom "b4b/internal/services/rawmessages/domain"
	recdom "b4b/internal/services/records/domain"
)

// Inputs are the ports reports read from
type Inputs struct {
	Records recdom.ReaderPort
	Raw     rawdom.ReaderPort
	Advisor reportssvc.Advisor
}

// Ports exposed by the reports module
type Ports struct {
	Reports domain.ReportsPort
}

// Module implements the reports module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string
	mws    []func(http.Handler) http.Handler

	ports Ports
}

// New constructs the reports module
func New(deps modkit.Deps, in Inputs, opts ...modkit.Option) (*Module, error) {
	o, err := FromConfig(deps.Cfg)
	if err != nil {
		return nil, err
	}
	b := modkit.Build(append([]modkit.Option{modkit.WithName("reports"), modkit.WithPrefix("/reports")}, opts...)...)

	svc := reportssvc.New(in.Records, in.Raw, in.Advisor, reportssvc.Config{
		SavingsGoal: o.SavingsGoal,
		Currency:    o.Currency,
		Location:    o.Location,
	})

	m := &Module{
		deps:   deps,
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
		ports:  Ports{Reports: svc},
	}
	return m, nil
}

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	httpkit.MountUnder(r, str.MustPrefix(m.prefix), m.mws, func(sub httpkit.Router) { reportshttp.Register(sub, m.ports.Reports) })
}

// Name implements modkit.Module
func (m *Module) Name() string { return str.MustString(m.name, "reports") }

// Ports implements modkit.Module
func (m *Module) Ports() any { return m.ports }
