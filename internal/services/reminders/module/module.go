// Package module wires the reminder store and exposes its ports
package module

import (
	"context"

	"remindme/internal/modkit"
	phttp "remindme/internal/platform/net/http"
	"remindme/internal/services/reminders/repo"
	"remindme/internal/services/reminders/service"
)

// Module defines the reminders module
type Module struct {
	deps  modkit.Deps
	opts  Options
	ports Ports
}

// New constructs the reminders module with its ports
func New(deps modkit.Deps, overrides Options) *Module {
	opts := FromConfig(deps.Cfg)
	if overrides.AutoMigrate {
		opts.AutoMigrate = true
	}

	svc := service.New(deps)
	m := &Module{deps: deps, opts: opts}
	m.ports = Ports{
		Reminders: svc,
		Acks:      svc,
		Watermark: svc.Watermark(),
	}
	return m
}

// Init applies the schema when AutoMigrate is on
func (m *Module) Init(ctx context.Context) error {
	if !m.opts.AutoMigrate {
		return nil
	}
	return repo.Migrate(ctx, m.deps.DB, m.deps.Dialect)
}

// Name returns the module name
func (m *Module) Name() string { return "reminders" }

// Ports returns the module ports (Reminders, Acks, Watermark)
func (m *Module) Ports() any { return m.ports }

// MountRoutes is a no-op, the admin API mounts its own handlers over Ports
func (m *Module) MountRoutes(_ phttp.Router) {}
