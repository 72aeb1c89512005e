// Package module wires ingest as a modkit.Module
package module

import (
	"b4b/internal/modkit"
	"b4b/internal/modkit/httpkit"
	cursordom "b4b/internal/services/cursor/domain"
	"b4b/internal/services/ingest/domain"
	"b4b/internal/services/ingest/service"
	rawdom "b4b/internal/services/rawmessages/domain"
)

// Ports exposed by the ingest module
type Ports struct {
	Acceptor domain.AcceptorPort
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New wires ingest over the raw message and cursor ports
func New(deps modkit.Deps, raw rawdom.IngestPort, cur cursordom.CursorPort) *Module {
	return &Module{
		deps:  deps,
		ports: Ports{Acceptor: service.New(raw, cur, deps.Metrics)},
	}
}

// Name implements modkit.Module
func (m *Module) Name() string { return "ingest" }

// Ports implements modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes implements modkit.Module, ingest has no http surface
func (m *Module) MountRoutes(httpkit.Router) {}
