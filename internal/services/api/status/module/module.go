// Package module wires the status and probe endpoints into the API using a tiny module
package module

import (
	"net/http"

	modkit "b4b/internal/modkit"
	"b4b/internal/modkit/httpkit"
	str "b4b/internal/platform/strings"
	cursordom "b4b/internal/services/cursor/domain"
	rawdom "b4b/internal/services/rawmessages/domain"
	recdom "b4b/internal/services/records/domain"

	"b4b/internal/services/api/status/domain"
	statushttp "b4b/internal/services/api/status/http"
	statussvc "b4b/internal/services/api/status/service"
)

// Inputs are the ports status reads from
type Inputs struct {
	Raw     rawdom.ReaderPort
	Records recdom.ReaderPort
	Cursor  cursordom.CursorPort

	// ServiceName is reported by health and version, defaults to b4b
	ServiceName string
}

// Ports exposed by the status module
type Ports struct {
	Status domain.StatusPort
}

// Module implements the modkit.Module interface
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string
	mws    []func(http.Handler) http.Handler

	svc *statussvc.Service
}

// New constructs the status module
func New(deps modkit.Deps, in Inputs, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("status"),
		modkit.WithPrefix("/status"),
	}, opts...)...)

	var db any
	if deps.PG != nil {
		db = deps.PG
	}
	name := in.ServiceName
	if name == "" {
		name = "b4b"
	}
	svc := statussvc.New(in.Raw, in.Records, in.Cursor, db, name)

	m := &Module{
		deps:   deps,
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
		svc:    svc,
	}
	return m
}

// MountRoutes implements the modkit.Module interface
// health and version sit at the api root next to the prefixed status routes
func (m *Module) MountRoutes(r httpkit.Router) {
	statushttp.RegisterProbes(r, m.svc, m.svc.Name)
	httpkit.MountUnder(r, str.MustPrefix(m.prefix), m.mws, func(sub httpkit.Router) { statushttp.Register(sub, m.svc) })
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return str.MustString(m.name, "status") }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return Ports{Status: m.svc} }
