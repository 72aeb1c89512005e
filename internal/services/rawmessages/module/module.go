// Package module provides the raw message store module
package module

import (
	"b4b/internal/modkit"
	"b4b/internal/modkit/httpkit"
	"b4b/internal/services/rawmessages/domain"
	"b4b/internal/services/rawmessages/repo"
	"b4b/internal/services/rawmessages/service"
)

// Ports exposed by the raw message module
type Ports struct {
	Ingest domain.IngestPort
	Reader domain.ReaderPort
	Marker domain.MarkerPort
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the raw message module over deps.PG
func New(deps modkit.Deps) *Module {
	svc := service.New(deps.PG, repo.NewPG())
	return &Module{
		deps:  deps,
		ports: Ports{Ingest: svc, Reader: svc, Marker: svc},
	}
}

// Name implements modkit.Module
func (m *Module) Name() string { return "rawmessages" }

// Ports implements modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {}
