// Package module wires the due reminder courier
package module

import (
	"remindme/internal/modkit"
	"remindme/internal/platform/metrics"
	phttp "remindme/internal/platform/net/http"
	"remindme/internal/services/audit"
	"remindme/internal/services/courier/service"
	"remindme/internal/services/reminders/domain"
)

// Wiring carries the collaborators shared with other modules
type Wiring struct {
	Reminders domain.ReminderStore
	Delivery  domain.DeliveryClient
	Metrics   *metrics.Metrics
	Audit     audit.Sink
}

// Module defines the courier module
type Module struct {
	ports Ports
}

// New constructs the courier module
func New(deps modkit.Deps, w Wiring, overrides Options) *Module {
	opts := FromConfig(deps.Cfg)
	if overrides.Bot != "" {
		opts.Bot = overrides.Bot
	}
	if overrides.Interval != 0 {
		opts.Interval = overrides.Interval
	}
	if overrides.DropUndeliverable {
		opts.DropUndeliverable = true
	}

	svc := service.New(service.Config{
		Bot:               opts.Bot,
		Interval:          opts.Interval,
		DropUndeliverable: opts.DropUndeliverable,
	}, service.Deps{
		Delivery:  w.Delivery,
		Reminders: w.Reminders,
		Metrics:   w.Metrics,
		Audit:     w.Audit,
		Log:       deps.Log,
	})
	return &Module{ports: Ports{Courier: svc}}
}

// Name returns the module name
func (m *Module) Name() string { return "courier" }

// Ports returns the module ports (Courier)
func (m *Module) Ports() any { return m.ports }

// MountRoutes returns no HTTP routes for the courier
func (m *Module) MountRoutes(_ phttp.Router) {}
