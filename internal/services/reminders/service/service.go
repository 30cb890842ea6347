// Package service applies the reminder persistence policy on top of the repo:
// validation, constraint failures as false and the watermark cursor
package service

import (
	"context"
	"errors"
	"time"

	"remindme/internal/modkit"
	"remindme/internal/modkit/repokit"
	perr "remindme/internal/platform/errors"
	"remindme/internal/platform/logger"
	"remindme/internal/platform/net/http/bind"
	ptime "remindme/internal/platform/time"
	"remindme/internal/services/reminders/domain"
	"remindme/internal/services/reminders/repo"
)

// Svc implements the reminder, thread ack and watermark ports
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner
	log    logger.Logger
	now    func() time.Time
}

var (
	_ domain.ReminderStore  = (*Svc)(nil)
	_ domain.ThreadAckStore = (*Svc)(nil)
)

// New constructs the service over deps.DB
func New(deps modkit.Deps) *Svc {
	if deps.DB == nil {
		panic("reminders.Service requires a non nil TxRunner")
	}
	b := repo.New()
	return &Svc{
		Repo:   b.Bind(deps.DB),
		binder: b,
		db:     deps.DB,
		log:    deps.Log.With().Str("component", "reminders").Logger(),
		now:    time.Now,
	}
}

// Watermark returns the keystore backed ingestion cursor
func (s *Svc) Watermark() domain.Watermark { return watermark{s: s} }

// SaveReminder inserts r and assigns its id. A reminder that already has an
// id, fails validation or trips a constraint is reported as false
func (s *Svc) SaveReminder(ctx context.Context, r *domain.Reminder) (bool, error) {
	if r == nil || r.ID != 0 {
		return false, nil
	}
	// validate what will be stored, both times in whole seconds
	r.RequestedAt, r.TargetAt = ptime.Second(r.RequestedAt), ptime.Second(r.TargetAt)
	if err := bind.Validate(r); err != nil {
		s.log.Warn().Err(err).Str("owner", r.Owner).Msg("reminder rejected by validation")
		return false, nil
	}

	var id int64
	err := repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
		var err error
		id, err = s.binder.Bind(q).InsertReminder(ctx, *r)
		return err
	})
	if err != nil {
		if perr.IsConstraint(err) {
			s.log.Warn().Err(err).Str("owner", r.Owner).Msg("failed to save reminder")
			return false, nil
		}
		return false, perr.FromStore(err, "save reminder")
	}
	r.ID = id
	return true, nil
}

// DueReminders returns reminders whose target is strictly before now
func (s *Svc) DueReminders(ctx context.Context, now time.Time) ([]domain.Reminder, error) {
	out, err := s.Repo.DueReminders(ctx, now)
	if err != nil {
		return nil, perr.FromStore(err, "due reminders")
	}
	return out, nil
}

// RemindersByOwner lists every reminder of owner, soonest first
func (s *Svc) RemindersByOwner(ctx context.Context, owner string) ([]domain.Reminder, error) {
	out, err := s.Repo.RemindersByOwner(ctx, owner)
	if err != nil {
		return nil, perr.FromStore(err, "reminders by owner")
	}
	return out, nil
}

// ReminderByID looks up one reminder
func (s *Svc) ReminderByID(ctx context.Context, id int64) (domain.Reminder, bool, error) {
	r, err := s.Repo.ReminderByID(ctx, id)
	return found(r, err, "reminder by id")
}

// DeleteReminder removes r and reports whether exactly one row went away
func (s *Svc) DeleteReminder(ctx context.Context, r *domain.Reminder) (bool, error) {
	if r == nil || r.ID == 0 {
		return false, nil
	}
	n, err := s.Repo.DeleteReminder(ctx, r.ID)
	if err != nil {
		return false, perr.FromStore(err, "delete reminder")
	}
	return n == 1, nil
}

// DeleteRemindersByOwner removes all reminders of owner and returns the count
func (s *Svc) DeleteRemindersByOwner(ctx context.Context, owner string) (int64, error) {
	n, err := s.Repo.DeleteRemindersByOwner(ctx, owner)
	if err != nil {
		return 0, perr.FromStore(err, "delete reminders by owner")
	}
	return n, nil
}

func found[T any](v T, err error, op string) (T, bool, error) {
	var zero T
	switch {
	case err == nil:
		return v, true, nil
	case errors.Is(err, perr.ErrNotFound):
		return zero, false, nil
	default:
		return zero, false, perr.FromStore(err, op)
	}
}
