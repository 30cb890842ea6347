// Package loop runs non reentrant periodic jobs
package loop

import (
	"context"
	"sync/atomic"
	"time"

	"remindme/internal/platform/logger"
)

// Guard admits one holder at a time
type Guard struct{ busy atomic.Bool }

// TryEnter reports whether the caller now holds the guard
func (g *Guard) TryEnter() bool { return g.busy.CompareAndSwap(false, true) }

// Leave releases the guard
func (g *Guard) Leave() { g.busy.Store(false) }

// Busy reports whether someone holds the guard
func (g *Guard) Busy() bool { return g.busy.Load() }

// Every calls fn right away and then on every tick until ctx is done.
// A tick that fires while fn runs is dropped. fn runs detached from ctx
// cancellation so a started tick always finishes; errors are logged and the
// loop keeps going
func Every(ctx context.Context, every time.Duration, log logger.Logger, fn func(context.Context) error) error {
	if every <= 0 {
		every = time.Minute
	}
	run := func() {
		if err := fn(context.WithoutCancel(ctx)); err != nil {
			log.Error().Err(err).Msg("cycle failed")
		}
	}

	run()
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			if ctx.Err() != nil {
				return ctx.Err()
			}
			run()
		}
	}
}
