// Package repo holds the SQL for reminders, thread acknowledgements and the keystore.
// Statements are written once for both postgres and sqlite
package repo

import (
	"context"
	"time"

	"remindme/internal/modkit/repokit"
	"remindme/internal/platform/store"
	ptime "remindme/internal/platform/time"
	"remindme/internal/services/reminders/domain"
)

// Repo is the row level contract. Misses surface as perr.ErrNotFound and
// constraint violations as raw driver errors
type Repo interface {
	InsertReminder(ctx context.Context, r domain.Reminder) (int64, error)
	DueReminders(ctx context.Context, before time.Time) ([]domain.Reminder, error)
	RemindersByOwner(ctx context.Context, owner string) ([]domain.Reminder, error)
	ReminderByID(ctx context.Context, id int64) (domain.Reminder, error)
	DeleteReminder(ctx context.Context, id int64) (int64, error)
	DeleteRemindersByOwner(ctx context.Context, owner string) (int64, error)

	InsertThreadAck(ctx context.Context, a domain.ThreadAck) (int64, error)
	ThreadAckByThread(ctx context.Context, threadID string) (domain.ThreadAck, error)
	ThreadAckByReply(ctx context.Context, ackItemID string) (domain.ThreadAck, error)
	BumpThreadAck(ctx context.Context, threadID string, targetAt time.Time) (int64, error)
	DeleteThreadAck(ctx context.Context, id int64) (int64, error)

	GetKey(ctx context.Context, name string) (string, error)
	PutKey(ctx context.Context, name, value string) error
}

type (
	// SQL binds Repo to any store.RowQuerier
	SQL     struct{}
	queries struct{ q repokit.Queryer }
)

// New returns the binder used by the service and tests
func New() repokit.Binder[Repo] { return SQL{} }

// Bind binds a Queryer to the SQL implementation of Repo
func (SQL) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

// ts normalizes times the same way on both backends
func ts(t time.Time) time.Time { return ptime.Second(t) }

const reminderCols = `id, source, requested_at, target_at, message, owner`

func scanReminder(r store.Row) (domain.Reminder, error) {
	var x domain.Reminder
	if err := r.Scan(&x.ID, &x.Source, &x.RequestedAt, &x.TargetAt, &x.Message, &x.Owner); err != nil {
		return domain.Reminder{}, err
	}
	x.RequestedAt, x.TargetAt = x.RequestedAt.UTC(), x.TargetAt.UTC()
	x.Valid = true
	return x, nil
}

func (r *queries) InsertReminder(ctx context.Context, rem domain.Reminder) (int64, error) {
	const sql = `
		INSERT INTO reminders (source, requested_at, target_at, message, owner)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	return store.Scalar[int64](ctx, r.q, sql, rem.Source, ts(rem.RequestedAt), ts(rem.TargetAt), rem.Message, rem.Owner)
}

func (r *queries) DueReminders(ctx context.Context, before time.Time) ([]domain.Reminder, error) {
	const sql = `SELECT ` + reminderCols + ` FROM reminders WHERE target_at < $1 ORDER BY target_at, id`
	// stored times are whole seconds, the cutoff keeps its fraction
	return store.Many(ctx, r.q, scanReminder, sql, before.UTC())
}

func (r *queries) RemindersByOwner(ctx context.Context, owner string) ([]domain.Reminder, error) {
	const sql = `SELECT ` + reminderCols + ` FROM reminders WHERE owner = $1 ORDER BY target_at, id`
	return store.Many(ctx, r.q, scanReminder, sql, owner)
}

func (r *queries) ReminderByID(ctx context.Context, id int64) (domain.Reminder, error) {
	const sql = `SELECT ` + reminderCols + ` FROM reminders WHERE id = $1`
	return store.One(ctx, r.q, scanReminder, sql, id)
}

func (r *queries) DeleteReminder(ctx context.Context, id int64) (int64, error) {
	return store.Affected(ctx, r.q, `DELETE FROM reminders WHERE id = $1`, id)
}

func (r *queries) DeleteRemindersByOwner(ctx context.Context, owner string) (int64, error) {
	return store.Affected(ctx, r.q, `DELETE FROM reminders WHERE owner = $1`, owner)
}
