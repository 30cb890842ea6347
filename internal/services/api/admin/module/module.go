// Package module wires the operator endpoints into the API
package module

import (
	"remindme/internal/modkit"
	"remindme/internal/modkit/httpkit"
	"remindme/internal/platform/logger"
	adminhttp "remindme/internal/services/api/admin/http"
	"remindme/internal/services/reminders/domain"
	remmod "remindme/internal/services/reminders/module"
)

// Wiring carries the ports the admin endpoints act on
type Wiring struct {
	Reminders remmod.Ports
	Delivery  domain.DeliveryClient
	Options   *Options
}

// Module implements the modkit.Module interface
type Module struct {
	b        modkit.Built
	log      logger.Logger
	opts     Options
	handlers adminhttp.Deps
}

// New constructs the admin module. Options come from config unless w.Options is set
func New(deps modkit.Deps, w Wiring, opts ...modkit.Option) modkit.Module {
	o := FromConfig(deps.Cfg)
	if w.Options != nil {
		o = *w.Options
	}

	return &Module{
		b: modkit.Build(append([]modkit.Option{
			modkit.WithName("admin"),
			modkit.WithPrefix("/admin"),
		}, opts...)...),
		log:  deps.Log,
		opts: o,
		handlers: adminhttp.Deps{
			Reminders: w.Reminders.Reminders,
			Acks:      w.Reminders.Acks,
			Watermark: w.Reminders.Watermark,
			Delivery:  w.Delivery,
		},
	}
}

// MountRoutes implements the modkit.Module interface. Without tokens every
// endpoint is open, otherwise reads need any role and writes need admin
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) {
		if !m.opts.secured() {
			m.log.Warn().Str("prefix", m.b.Prefix).Msg("admin endpoints are not protected, set CORE_API_ADMIN_TOKEN")
			adminhttp.Register(rr, rr, m.handlers)
			return
		}
		httpkit.Protected(rr, tokenPort(m.opts), func(pr httpkit.Router) {
			pr.Group(func(wr httpkit.Router) {
				wr.Use(httpkit.RequireRole(RoleAdmin))
				adminhttp.Register(pr, wr, m.handlers)
			})
		})
	})
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return m.b.Name }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }
