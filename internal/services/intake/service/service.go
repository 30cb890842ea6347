// Package service runs the ingestion cycle: it turns keyword matches from the
// feed into saved reminders and one confirmation reply per thread
package service

import (
	"context"
	"time"

	"remindme/internal/core/recent"
	"remindme/internal/platform/logger"
	"remindme/internal/platform/loop"
	"remindme/internal/platform/metrics"
	"remindme/internal/services/audit"
	"remindme/internal/services/reminders/domain"
)

// Config controls the intake
type Config struct {
	// Bot is the account name; its own items are never processed
	Bot      string
	Keyword  string
	Interval time.Duration
}

// Deps are the ports the intake drives
type Deps struct {
	Feed      domain.Feed
	Delivery  domain.DeliveryClient
	Reminders domain.ReminderStore
	Acks      domain.ThreadAckStore
	Watermark domain.Watermark
	Cache     *recent.Cache
	Metrics   *metrics.Metrics
	Audit     audit.Sink
	Log       logger.Logger
}

// Summary describes one cycle
type Summary struct {
	Skipped   bool
	Fetched   int
	Processed int
	States    map[domain.ItemState]int
	Watermark time.Time
}

// Svc is the ingestion loop
type Svc struct {
	cfg   Config
	deps  Deps
	log   logger.Logger
	now   func() time.Time
	guard loop.Guard
}

// New builds the intake. Cache defaults to a fresh 100 entry cache
func New(cfg Config, d Deps) *Svc {
	if cfg.Keyword == "" {
		cfg.Keyword = "remindme"
	}
	if d.Cache == nil {
		d.Cache = recent.New(0)
	}
	if d.Audit == nil {
		d.Audit = audit.Noop{}
	}
	return &Svc{
		cfg:  cfg,
		deps: d,
		log:  d.Log.With().Str("component", "intake").Logger(),
		now:  time.Now,
	}
}

// Run cycles every Interval until ctx is done
func (s *Svc) Run(ctx context.Context) error {
	s.log.Info().Dur("interval", s.cfg.Interval).Str("keyword", s.cfg.Keyword).Msg("intake started")
	return loop.Every(ctx, s.cfg.Interval, s.log, func(ctx context.Context) error {
		_, err := s.Cycle(ctx)
		return err
	})
}

// Cycle runs one pass. A cycle already in flight makes this a skipped no-op
func (s *Svc) Cycle(ctx context.Context) (Summary, error) {
	if !s.guard.TryEnter() {
		s.log.Debug().Msg("intake busy, skipping tick")
		return Summary{Skipped: true}, nil
	}
	defer s.guard.Leave()

	start := time.Now()
	c := newCycle(s)
	sum, err := c.run(ctx)
	c.events.Flush(context.WithoutCancel(ctx))

	s.deps.Metrics.Cycle("intake", start, err)
	ev := c.log.Info()
	if err != nil {
		ev = c.log.Error().Err(err)
	}
	ev.Int("fetched", sum.Fetched).
		Int("processed", sum.Processed).
		Time("watermark", sum.Watermark).
		Dur("took", time.Since(start)).
		Msg("intake cycle done")
	return sum, err
}
