// Package module is the contract api.Build assembles b4b's services from
package module

import (
	phttp "b4b/internal/platform/net/http"
)

// Module is one service slice: its routes, its exported ports and a name for logs
// it lives apart from modkit so a module package can import it without a cycle
type Module interface {
	Name() string
	MountRoutes(r phttp.Router)
	Ports() any
}
