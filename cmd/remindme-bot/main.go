// Command remindme-bot runs the reminder intake and delivery loops
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"remindme/internal/platform/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		logger.Get().Error().Err(err).Msg("remindme-bot failed")
		stop()
		os.Exit(1)
	}
}
