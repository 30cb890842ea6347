package main

import (
	"context"
	"errors"

	"remindme/internal/platform/config"
	phttp "remindme/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newRunCommand(opts *rootOptions) *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the intake and delivery loops until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.Close(context.WithoutCancel(ctx))

			if a.auditCH != nil {
				if err := a.auditCH.Migrate(ctx); err != nil {
					a.log.Warn().Err(err).Msg("audit table migration failed, events may be lost")
				}
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error { return a.intake.Run(gctx) })
			g.Go(func() error { return a.courier.Run(gctx) })
			if metricsAddr != "" {
				srv := phttp.NewServerAt(metricsAddr, func(m *chi.Mux) {
					m.Handle("/metrics", a.metrics.Handler())
				})
				g.Go(func() error { return srv.Run(gctx) })
			}

			a.log.Info().Bool("dryrun", opts.DryRun).Str("metrics_addr", metricsAddr).Msg("bot started")
			err = g.Wait()
			if errors.Is(err, context.Canceled) {
				a.log.Info().Msg("bot stopped")
				return nil
			}
			return err
		},
	}

	envAddr := config.New().Prefix("REMINDME_").MayString("METRICS_ADDR", "")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", envAddr, "serve /metrics on this address, empty disables")
	return cmd
}
