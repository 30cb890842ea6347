// Package api provides the operator HTTP API for the reminder bot
package api

import (
	"context"

	"remindme/internal/platform/metrics"
	phttp "remindme/internal/platform/net/http"

	"remindme/internal/modkit"
	"remindme/internal/modkit/httpkit"
	"remindme/internal/modkit/module"
	"remindme/internal/modkit/swaggerkit"

	adminmod "remindme/internal/services/api/admin/module"
	metamod "remindme/internal/services/api/meta/module"
	"remindme/internal/services/reminders/domain"
	remmod "remindme/internal/services/reminders/module"

	// registers the OpenAPI document with swag
	_ "remindme/internal/services/api/docs"
)

// Options are the API options
type Options struct {
	Deps           modkit.Deps
	Delivery       domain.DeliveryClient
	Metrics        *metrics.Metrics
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount builds the modules, applies the reminders schema when configured and
// mounts everything onto r
func Mount(ctx context.Context, r phttp.Router, opt Options) error {
	deps := opt.Deps

	// the reminders module owns the store ports the admin endpoints act on
	reminders := remmod.New(deps, remmod.Options{})
	if err := reminders.Init(ctx); err != nil {
		return err
	}
	remPorts := module.MustPortsOf[remmod.Ports](reminders)

	mods := []module.Module{
		reminders,
		metamod.New(deps, remPorts.Watermark),
		adminmod.New(deps, adminmod.Wiring{
			Reminders: remPorts,
			Delivery:  opt.Delivery,
		}),
	}

	swaggerkit.Mount(r, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)
	if opt.Metrics != nil {
		r.Handle("/metrics", opt.Metrics.Handler())
	}

	stack := httpkit.StackFromConfig(deps.Cfg)
	if opt.Metrics != nil {
		stack.Observe = opt.Metrics.Request
	}

	httpkit.MountAPIV1(r, httpkit.CommonStack(stack), func(api httpkit.Router) {
		for _, m := range mods {
			m.MountRoutes(api)
		}
	})
	return nil
}
