// Package module provides the cursor module
package module

import (
	"b4b/internal/modkit"
	"b4b/internal/modkit/httpkit"
	"b4b/internal/services/cursor/domain"
	"b4b/internal/services/cursor/repo"
	"b4b/internal/services/cursor/service"
)

// Ports exposed by the cursor module
type Ports struct {
	Cursor domain.CursorPort
}

// Module implements modkit.Module
type Module struct {
	ports Ports
}

// New constructs the cursor module
func New(deps modkit.Deps) *Module {
	return &Module{ports: Ports{Cursor: service.New(deps.PG, repo.NewPG())}}
}

// Name implements modkit.Module
func (m *Module) Name() string { return "cursor" }

// Ports implements modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {}
