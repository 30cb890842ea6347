// Package module wires the intake loop and exposes its ports
package module

import (
	"remindme/internal/adapters/feed"
	"remindme/internal/core/recent"
	"remindme/internal/modkit"
	"remindme/internal/platform/metrics"
	phttp "remindme/internal/platform/net/http"
	"remindme/internal/services/audit"
	"remindme/internal/services/intake/service"
	"remindme/internal/services/reminders/domain"
	remmod "remindme/internal/services/reminders/module"
)

// Wiring carries the collaborators shared with other modules
type Wiring struct {
	Reminders remmod.Ports
	Delivery  domain.DeliveryClient
	Feed      domain.Feed
	Metrics   *metrics.Metrics
	Audit     audit.Sink
}

// Module defines the intake module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the intake module. A nil Wiring.Feed gets the HTTP feed client
func New(deps modkit.Deps, w Wiring, overrides Options) *Module {
	opts := FromConfig(deps.Cfg)
	if overrides.Bot != "" {
		opts.Bot = overrides.Bot
	}
	if overrides.Keyword != "" {
		opts.Keyword = overrides.Keyword
	}
	if overrides.Interval != 0 {
		opts.Interval = overrides.Interval
	}
	if overrides.CacheSize != 0 {
		opts.CacheSize = overrides.CacheSize
	}

	fd := w.Feed
	if fd == nil {
		fd = feed.New(opts.Feed, w.Metrics)
	}

	svc := service.New(service.Config{
		Bot:      opts.Bot,
		Keyword:  opts.Keyword,
		Interval: opts.Interval,
	}, service.Deps{
		Feed:      fd,
		Delivery:  w.Delivery,
		Reminders: w.Reminders.Reminders,
		Acks:      w.Reminders.Acks,
		Watermark: w.Reminders.Watermark,
		Cache:     recent.New(opts.CacheSize),
		Metrics:   w.Metrics,
		Audit:     w.Audit,
		Log:       deps.Log,
	})

	return &Module{deps: deps, ports: Ports{Intake: svc}}
}

// Name returns the module name
func (m *Module) Name() string { return "intake" }

// Ports returns the module ports (Intake)
func (m *Module) Ports() any { return m.ports }

// MountRoutes returns no HTTP routes for intake (it's a worker)
func (m *Module) MountRoutes(_ phttp.Router) {}
