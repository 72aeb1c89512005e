// Package module provides the normalized records module
package module

import (
	"b4b/internal/modkit"
	"b4b/internal/modkit/httpkit"
	"b4b/internal/services/records/domain"
	"b4b/internal/services/records/repo"
	"b4b/internal/services/records/service"
)

// Ports exposed by the records module
type Ports struct {
	Reader domain.ReaderPort
}

// Module implements modkit.Module
type Module struct {
	ports Ports
}

// New constructs the records module
func New(deps modkit.Deps) *Module {
	return &Module{ports: Ports{Reader: service.New(deps.PG, repo.NewPG())}}
}

// Name implements modkit.Module
func (m *Module) Name() string { return "records" }

// Ports implements modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {}
