package main

import (
	"context"

	"remindme/internal/adapters/delivery"
	"remindme/internal/modkit"
	"remindme/internal/modkit/module"
	"remindme/internal/platform/config"
	"remindme/internal/platform/logger"
	"remindme/internal/platform/metrics"
	"remindme/internal/platform/store"
	"remindme/internal/services/audit"
	courmod "remindme/internal/services/courier/module"
	intakemod "remindme/internal/services/intake/module"
	remmod "remindme/internal/services/reminders/module"
)

// app is the wired bot: one store, the three modules and their shared collaborators
type app struct {
	log     logger.Logger
	cfg     config.Conf
	st      *store.Store
	metrics *metrics.Metrics

	auditCH   *audit.Clickhouse
	reminders remmod.Ports
	intake    intakemod.Runner
	courier   courmod.Runner
}

func openApp(ctx context.Context, opts *rootOptions) (*app, error) {
	cfg := config.New()
	log := *logger.Named("bot")

	st, err := store.Open(ctx, store.FromConfig(cfg, serviceName), store.WithLogger(log))
	if err != nil {
		return nil, err
	}
	if err := st.Guard(ctx); err != nil {
		_ = st.Close(ctx)
		return nil, err
	}
	deps := modkit.FromStore(log, cfg, st)

	rem := remmod.New(deps, remmod.Options{})
	if err := rem.Init(ctx); err != nil {
		_ = st.Close(ctx)
		return nil, err
	}

	a := &app{
		log:       log,
		cfg:       cfg,
		st:        st,
		metrics:   metrics.New(),
		reminders: module.MustPortsOf[remmod.Ports](rem),
	}

	var sink audit.Sink = audit.Noop{}
	if st.CH != nil {
		a.auditCH = audit.NewClickhouse(st.CH, cfg.Prefix("REMINDME_").MayString("AUDIT_TABLE", audit.DefaultTable), log)
		sink = a.auditCH
	}

	if opts.DryRun {
		log.Warn().Msg("dry run, nothing will be posted")
	}
	dl := delivery.Select(opts.DryRun, delivery.FromConfig(cfg), a.metrics)

	intake := intakemod.New(deps, intakemod.Wiring{
		Reminders: a.reminders,
		Delivery:  dl,
		Metrics:   a.metrics,
		Audit:     sink,
	}, intakemod.Options{Bot: opts.User, Keyword: opts.Keyword})

	courier := courmod.New(deps, courmod.Wiring{
		Reminders: a.reminders.Reminders,
		Delivery:  dl,
		Metrics:   a.metrics,
		Audit:     sink,
	}, courmod.Options{Bot: opts.User})

	a.intake = module.MustPortsOf[intakemod.Ports](intake).Intake
	a.courier = module.MustPortsOf[courmod.Ports](courier).Courier
	return a, nil
}

func (a *app) Close(ctx context.Context) {
	if err := a.st.Close(ctx); err != nil {
		a.log.Error().Err(err).Msg("failed to close store")
	}
}
