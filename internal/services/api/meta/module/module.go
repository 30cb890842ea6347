// Package module mounts the meta endpoints
package module

import (
	"time"

	"remindme/internal/modkit"
	"remindme/internal/modkit/httpkit"
	metahttp "remindme/internal/services/api/meta/http"
	"remindme/internal/services/reminders/domain"
)

// ServiceName is reported by /meta/version
const ServiceName = "remindme-api"

// Module serves /meta/health, /meta/ready and /meta/version
type Module struct {
	b    modkit.Built
	deps metahttp.Deps
}

// New builds the meta module. wm may be nil, readiness then skips the
// watermark check. CORE_API_READY_STALE_AFTER bounds how old it may get
func New(deps modkit.Deps, wm domain.Watermark, opts ...modkit.Option) *Module {
	return &Module{
		b: modkit.Build(append([]modkit.Option{
			modkit.WithName("meta"),
			modkit.WithPrefix("/meta"),
		}, opts...)...),
		deps: metahttp.Deps{
			ServiceName: ServiceName,
			StartedAt:   time.Now(),
			Dialect:     string(deps.Dialect),
			DB:          deps.DB,
			CH:          deps.CH,
			Watermark:   wm,
			StaleAfter:  deps.Cfg.Prefix("CORE_API_").MayDuration("READY_STALE_AFTER", 15*time.Minute),
		},
	}
}

// MountRoutes mounts the handlers under /meta
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { metahttp.Register(rr, m.deps) })
}

// Name returns the module name
func (m *Module) Name() string { return m.b.Name }

// Ports returns nil, meta exposes nothing to other modules
func (m *Module) Ports() any { return nil }
