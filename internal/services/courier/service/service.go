// Package service delivers due reminders as direct messages to their owners
package service

import (
	"context"
	"time"

	"remindme/internal/core/render"
	perr "remindme/internal/platform/errors"
	"remindme/internal/platform/logger"
	"remindme/internal/platform/loop"
	"remindme/internal/platform/metrics"
	"remindme/internal/services/audit"
	"remindme/internal/services/reminders/domain"

	"github.com/google/uuid"
)

// Config controls the courier
type Config struct {
	Bot      string
	Interval time.Duration
	// DropUndeliverable deletes reminders whose owner cannot receive messages
	DropUndeliverable bool
}

// Deps are the ports the courier drives
type Deps struct {
	Delivery  domain.DeliveryClient
	Reminders domain.ReminderStore
	Metrics   *metrics.Metrics
	Audit     audit.Sink
	Log       logger.Logger
}

// Summary describes one scan
type Summary struct {
	Skipped   bool
	Due       int
	Delivered int
	Dropped   int
	Kept      int
}

// Svc is the due reminder scanner
type Svc struct {
	cfg   Config
	deps  Deps
	log   logger.Logger
	now   func() time.Time
	guard loop.Guard
}

// New builds the courier
func New(cfg Config, d Deps) *Svc {
	if d.Audit == nil {
		d.Audit = audit.Noop{}
	}
	return &Svc{
		cfg:  cfg,
		deps: d,
		log:  d.Log.With().Str("component", "courier").Logger(),
		now:  time.Now,
	}
}

// Run scans every Interval until ctx is done
func (s *Svc) Run(ctx context.Context) error {
	s.log.Info().Dur("interval", s.cfg.Interval).Bool("drop_undeliverable", s.cfg.DropUndeliverable).Msg("courier started")
	return loop.Every(ctx, s.cfg.Interval, s.log, func(ctx context.Context) error {
		_, err := s.Scan(ctx)
		return err
	})
}

// Scan sends every due reminder once. A reminder is deleted only after a
// successful send, or after an undeliverable outcome when configured to drop
func (s *Svc) Scan(ctx context.Context) (Summary, error) {
	if !s.guard.TryEnter() {
		s.log.Debug().Msg("courier busy, skipping tick")
		return Summary{Skipped: true}, nil
	}
	defer s.guard.Leave()

	start := time.Now()
	log := s.log.With().Str("cycle_id", uuid.NewString()).Logger()
	events := audit.NewBatch(s.deps.Audit)
	defer events.Flush(context.WithoutCancel(ctx))

	sum, err := s.scan(ctx, log, events)
	s.deps.Metrics.Cycle("courier", start, err)
	if err != nil {
		// busy store: the next tick retries the remaining due reminders
		lvl := log.Error()
		if perr.Retryable(err) {
			lvl = log.Warn()
		}
		lvl.Err(err).Int("delivered", sum.Delivered).Msg("courier scan aborted")
		return sum, err
	}
	if sum.Due > 0 {
		log.Info().
			Int("due", sum.Due).
			Int("delivered", sum.Delivered).
			Int("dropped", sum.Dropped).
			Int("kept", sum.Kept).
			Dur("took", time.Since(start)).
			Msg("courier scan done")
	}
	return sum, nil
}

func (s *Svc) scan(ctx context.Context, log logger.Logger, events *audit.Batch) (Summary, error) {
	var sum Summary
	due, err := s.deps.Reminders.DueReminders(ctx, s.now().UTC())
	if err != nil {
		return sum, err
	}
	sum.Due = len(due)

	for i := range due {
		r := &due[i]
		rl := log.With().Int64("reminder_id", r.ID).Str("owner", r.Owner).Logger()

		view := render.Due{Bot: s.cfg.Bot, Source: r.Source, Message: r.MessageText(), RequestedAt: r.RequestedAt}
		subject, err := render.DueSubject(view)
		if err != nil {
			return sum, err
		}
		body, err := render.DueBody(view)
		if err != nil {
			return sum, err
		}

		o, err := s.deps.Delivery.SendDirectMessage(ctx, r.Owner, subject, body)
		outcome := o.String()
		if err != nil {
			outcome = "error"
		}
		events.Add(audit.Event{Kind: audit.KindDelivery, Owner: r.Owner, ReminderID: r.ID, Outcome: outcome})
		if err != nil {
			return sum, err
		}

		drop := o == domain.Success || (s.cfg.DropUndeliverable && o.Undeliverable())
		if !drop {
			sum.Kept++
			rl.Warn().Stringer("outcome", o).Msg("reminder not delivered, kept for next tick")
			continue
		}
		if _, err := s.deps.Reminders.DeleteReminder(ctx, r); err != nil {
			return sum, err
		}
		if o == domain.Success {
			sum.Delivered++
			rl.Info().Msg("reminder delivered")
		} else {
			sum.Dropped++
			rl.Warn().Stringer("outcome", o).Msg("reminder dropped, owner unreachable")
		}
	}
	return sum, nil
}
