// @title         remindme API
// @version       0.1.0
// @description   Operator endpoints for the reminder bot

// Command remindme-api serves the operator API over the reminder store
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"remindme/internal/adapters/delivery"
	"remindme/internal/core/version"
	"remindme/internal/modkit"
	"remindme/internal/platform/config"
	"remindme/internal/platform/logger"
	"remindme/internal/platform/metrics"
	phttp "remindme/internal/platform/net/http"
	"remindme/internal/platform/store"

	"remindme/internal/services/api"
)

const serviceName = "remindme-api"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	// bring up logging early
	l := logger.Get()
	l.Info().Str("build", version.Info(serviceName).String()).Msg("starting")

	st, err := store.Open(ctx, store.FromConfig(root, serviceName), store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	if err := st.Guard(ctx); err != nil {
		l.Panic().Err(err).Msg("store unreachable")
	}

	m := metrics.New()

	// reply deletion goes through the live client unless the bot runs dry
	dl := delivery.Select(root.Prefix("REMINDME_").MayBool("DRYRUN", false), delivery.FromConfig(root), m)

	// http server (reads CORE_API_API_PORT)
	srv := phttp.NewServer(apiCfg)

	if err := api.Mount(ctx, srv.Router(), api.Options{
		Deps:           modkit.FromStore(*l, root, st),
		Delivery:       dl,
		Metrics:        m,
		EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
		EnableProfiler: apiCfg.MayBool("PROFILER", false),
	}); err != nil {
		l.Panic().Err(err).Msg("api mount failed")
	}

	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
