// Package module is the contract every remindme module implements, kept apart
// from modkit so a module can export its own ports type without an import cycle
package module

import (
	phttp "remindme/internal/platform/net/http"
)

// Module is one unit of wiring. Routes are optional; Ports returns the
// bundle other modules pull from with PortsOf
type Module interface {
	Name() string
	Ports() any
	MountRoutes(r phttp.Router)
}
