package repo

import (
	"context"
	"testing"
	"time"

	perr "remindme/internal/platform/errors"
	"remindme/internal/platform/store"
	"remindme/internal/services/reminders/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchema_Dialects(t *testing.T) {
	t.Parallel()

	pg, err := Schema(store.DialectPostgres)
	require.NoError(t, err)
	assert.Contains(t, pg, "GENERATED BY DEFAULT AS IDENTITY")

	lite, err := Schema(store.DialectSQLite)
	require.NoError(t, err)
	assert.Contains(t, lite, "AUTOINCREMENT")

	_, err = Schema("oracle")
	assert.Error(t, err)
}

func TestMigrate_IdempotentAndQueryable(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st, err := store.Open(ctx, store.Config{}, store.WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close(ctx) })

	require.NoError(t, Migrate(ctx, st.DB, st.Dialect))
	require.NoError(t, Migrate(ctx, st.DB, st.Dialect))

	r := New().Bind(st.DB)

	_, err = r.GetKey(ctx, "missing")
	assert.ErrorIs(t, err, perr.ErrNotFound)

	require.NoError(t, r.PutKey(ctx, "k", "1"))
	require.NoError(t, r.PutKey(ctx, "k", "2"))
	v, err := r.GetKey(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "2", v)

	// sub-second precision is dropped on write
	at := time.Date(2026, 1, 2, 3, 4, 5, 600_000_000, time.UTC)
	id, err := r.InsertReminder(ctx, reminderAt(at))
	require.NoError(t, err)
	got, err := r.ReminderByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, got.TargetAt.Equal(at.Truncate(time.Second)))
	assert.Nil(t, got.Message)
}

func reminderAt(at time.Time) domain.Reminder {
	return domain.Reminder{
		Source:      "https://example.test/c/1",
		RequestedAt: at.Add(-time.Hour),
		TargetAt:    at,
		Owner:       "alice",
	}
}
