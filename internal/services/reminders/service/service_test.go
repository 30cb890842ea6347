package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"remindme/internal/modkit"
	"remindme/internal/platform/config"
	"remindme/internal/platform/store"
	"remindme/internal/services/reminders/domain"
	"remindme/internal/services/reminders/repo"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSvc(t *testing.T) *Svc {
	t.Helper()
	ctx := context.Background()
	st, err := store.Open(ctx, store.Config{AppName: "remindme-test"}, store.WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close(ctx) })
	require.NoError(t, repo.Migrate(ctx, st.DB, st.Dialect))

	return New(modkit.FromStore(zerolog.Nop(), config.New(), st))
}

var base = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func reminder(owner string, target time.Duration) *domain.Reminder {
	msg := "water the plants"
	return &domain.Reminder{
		Source:      "https://example.test/r/sub/comments/abc/x/def",
		RequestedAt: base,
		TargetAt:    base.Add(target),
		Message:     &msg,
		Owner:       owner,
	}
}

func TestSaveReminder_AssignsIDOnce(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newSvc(t)

	r := reminder("alice", time.Hour)
	ok, err := s.SaveReminder(ctx, r)
	require.NoError(t, err)
	require.True(t, ok)
	require.NotZero(t, r.ID)

	ok, err = s.SaveReminder(ctx, r)
	require.NoError(t, err)
	assert.False(t, ok, "second save of the same reminder must be refused")

	list, err := s.RemindersByOwner(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, r.ID, list[0].ID)
	assert.Equal(t, "water the plants", list[0].MessageText())
	assert.True(t, list[0].TargetAt.Equal(base.Add(time.Hour)))
}

func TestSaveReminder_ValidationAndLimits(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newSvc(t)

	past := reminder("bob", -time.Minute)
	ok, err := s.SaveReminder(ctx, past)
	require.NoError(t, err)
	assert.False(t, ok, "target before request")
	assert.Zero(t, past.ID)

	long := reminder(strings.Repeat("x", 81), time.Hour)
	ok, err = s.SaveReminder(ctx, long)
	require.NoError(t, err)
	assert.False(t, ok, "owner longer than 80")

	spaced := reminder("two words", time.Hour)
	ok, err = s.SaveReminder(ctx, spaced)
	require.NoError(t, err)
	assert.False(t, ok, "owner must be a single handle")

	ok, err = s.SaveReminder(ctx, nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSaveReminder_SubSecondGapRefused(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newSvc(t)

	r := reminder("erin", 500*time.Millisecond)
	ok, err := s.SaveReminder(ctx, r)
	require.NoError(t, err)
	assert.False(t, ok, "both times land on the same stored second")
	assert.Zero(t, r.ID)

	r = reminder("erin", time.Second+300*time.Millisecond)
	r.RequestedAt = base.Add(200 * time.Millisecond)
	ok, err = s.SaveReminder(ctx, r)
	require.NoError(t, err)
	require.True(t, ok)

	got, found, err := s.ReminderByID(ctx, r.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, got.RequestedAt.Before(got.TargetAt))
	assert.True(t, got.TargetAt.Equal(r.TargetAt), "the saved record carries the stored times")
}

func TestDueReminders_StrictlyBefore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newSvc(t)

	early := reminder("carol", time.Minute)
	onTime := reminder("carol", 2*time.Minute)
	late := reminder("carol", time.Hour)
	for _, r := range []*domain.Reminder{late, early, onTime} {
		ok, err := s.SaveReminder(ctx, r)
		require.NoError(t, err)
		require.True(t, ok)
	}

	due, err := s.DueReminders(ctx, base.Add(2*time.Minute))
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, early.ID, due[0].ID)

	due, err = s.DueReminders(ctx, base.Add(2*time.Minute+500*time.Millisecond))
	require.NoError(t, err)
	require.Len(t, due, 2, "a target one half second in the past is due")
	assert.Equal(t, []int64{early.ID, onTime.ID}, []int64{due[0].ID, due[1].ID})

	due, err = s.DueReminders(ctx, base.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, due, 3)
	assert.Equal(t, []int64{early.ID, onTime.ID, late.ID}, []int64{due[0].ID, due[1].ID, due[2].ID})
}

func TestDeleteReminder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newSvc(t)

	r := reminder("dave", time.Hour)
	_, err := s.SaveReminder(ctx, r)
	require.NoError(t, err)

	got, ok, err := s.ReminderByID(ctx, r.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "dave", got.Owner)

	ok, err = s.DeleteReminder(ctx, r)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.DeleteReminder(ctx, r)
	require.NoError(t, err)
	assert.False(t, ok, "already gone")

	_, ok, err = s.ReminderByID(ctx, r.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.DeleteReminder(ctx, &domain.Reminder{})
	require.NoError(t, err)
	assert.False(t, ok, "unsaved reminder")
}

func TestDeleteRemindersByOwner(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newSvc(t)

	for _, owner := range []string{"erin", "erin", "frank"} {
		_, err := s.SaveReminder(ctx, reminder(owner, time.Hour))
		require.NoError(t, err)
	}
	n, err := s.DeleteRemindersByOwner(ctx, "erin")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	left, err := s.RemindersByOwner(ctx, "frank")
	require.NoError(t, err)
	assert.Len(t, left, 1)
}

func ack(thread string) *domain.ThreadAck {
	return &domain.ThreadAck{
		ThreadID:  thread,
		AckItemID: "reply1",
		Owner:     "alice",
		TargetAt:  base.Add(time.Hour),
	}
}

func TestSaveThreadAck_OnePerThread(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newSvc(t)

	a := ack("t3_abc")
	ok, err := s.SaveThreadAck(ctx, a)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, a.Count)

	dup := ack("t3_abc")
	ok, err = s.SaveThreadAck(ctx, dup)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, dup.ID)

	got, ok, err := s.ThreadAckByReply(ctx, "reply1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, a.ID, got.ID)

	_, ok, err = s.ThreadAck(ctx, "t3_missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSaveThreadAck_ConcurrentSingleWinner(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newSvc(t)

	const n = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := s.SaveThreadAck(ctx, ack("t3_race"))
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
}

func TestBumpThreadAck_CountsAndKeepsSoonest(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newSvc(t)

	_, ok, err := s.BumpThreadAck(ctx, "t3_none", base)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.SaveThreadAck(ctx, ack("t3_bump"))
	require.NoError(t, err)

	got, ok, err := s.BumpThreadAck(ctx, "t3_bump", base.Add(3*time.Hour))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, got.Count)
	assert.True(t, got.TargetAt.Equal(base.Add(time.Hour)), "later target keeps the earlier one")

	got, _, err = s.BumpThreadAck(ctx, "t3_bump", base.Add(10*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 3, got.Count)
	assert.True(t, got.TargetAt.Equal(base.Add(10*time.Minute)))

	ok, err = s.DeleteThreadAck(ctx, &got)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestWatermark_SeedsNowThenRoundTrips(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newSvc(t)
	s.now = func() time.Time { return base.Add(1500 * time.Millisecond) }

	w := s.Watermark()
	got, err := w.Get(ctx)
	require.NoError(t, err)
	assert.True(t, got.Equal(base.Add(time.Second)))

	at := time.Date(2026, 3, 11, 8, 30, 15, 0, time.FixedZone("x", 3600))
	require.NoError(t, w.Set(ctx, at))
	got, err = w.Get(ctx)
	require.NoError(t, err)
	assert.True(t, got.Equal(at))
	assert.Equal(t, time.UTC, got.Location())

	require.NoError(t, s.Repo.PutKey(ctx, domain.WatermarkKey, "garbage"))
	got, err = w.Get(ctx)
	require.NoError(t, err)
	assert.True(t, got.Equal(base.Add(time.Second)))
}
