// Package modkit wires b4b service modules from shared deps and options
package modkit

import (
	"net/http"

	"b4b/internal/modkit/module"
	"b4b/internal/modkit/repokit"
	"b4b/internal/platform/config"
	"b4b/internal/platform/logger"
	"b4b/internal/platform/metrics"
)

// Module is what api.Build assembles, see module.Module
type Module = module.Module

// Deps holds the core dependencies every module receives
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner

	// Metrics may be nil, every recorder on it is nil safe
	Metrics *metrics.Metrics
}

// Option mutates a module's build settings
type Option func(*Built)

// Built is the resolved name, prefix and middleware of a module
type Built struct {
	Name   string
	Prefix string
	Mw     []func(http.Handler) http.Handler
}

// Build applies opts in order, later options win
func Build(opts ...Option) Built {
	var b Built
	for _, o := range opts {
		o(&b)
	}
	b.Mw = append([]func(http.Handler) http.Handler(nil), b.Mw...)
	return b
}

// WithName sets the module name used in logs and port lookups
func WithName(name string) Option {
	return func(b *Built) { b.Name = name }
}

// WithPrefix mounts the module under a path prefix below /api/v1
func WithPrefix(prefix string) Option {
	return func(b *Built) { b.Prefix = prefix }
}

// WithMiddlewares appends per module middleware, applied in order after CommonStack
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(b *Built) { b.Mw = append(b.Mw, mw...) }
}
