package audit

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCH struct {
	table   string
	rows    [][]any
	execSQL string
	err     error
}

func (f *fakeCH) Insert(_ context.Context, table string, rows [][]any) error {
	f.table = table
	f.rows = append(f.rows, rows...)
	return f.err
}
func (f *fakeCH) Exec(_ context.Context, sql string, _ ...any) error { f.execSQL = sql; return f.err }
func (f *fakeCH) Close() error                                       { return nil }

type recSink struct{ got [][]Event }

func (r *recSink) Record(_ context.Context, evs []Event) { r.got = append(r.got, evs) }

func TestBatch_FlushesOnceAndClears(t *testing.T) {
	t.Parallel()

	rs := &recSink{}
	b := NewBatch(rs)
	fixed := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return fixed }

	b.Flush(context.Background())
	assert.Empty(t, rs.got, "empty batch is not recorded")

	b.Add(Event{Kind: KindItem, ItemID: "c1", State: "acked"})
	b.Add(Event{Kind: KindDelivery, At: fixed.Add(time.Hour), Outcome: "SUCCESS"})
	assert.Equal(t, 2, b.Len())

	b.Flush(context.Background())
	require.Len(t, rs.got, 1)
	assert.Equal(t, fixed, rs.got[0][0].At)
	assert.Equal(t, fixed.Add(time.Hour), rs.got[0][1].At)
	assert.Zero(t, b.Len())
}

func TestNilSinkIsNoop(t *testing.T) {
	t.Parallel()
	b := NewBatch(nil)
	b.Add(Event{Kind: KindItem})
	b.Flush(context.Background())
}

func TestClickhouse_RecordRows(t *testing.T) {
	t.Parallel()

	fc := &fakeCH{}
	s := NewClickhouse(fc, "", zerolog.Nop())
	id := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	s.newID = func() uuid.UUID { return id }

	at := time.Date(2026, 3, 10, 12, 0, 0, 0, time.FixedZone("x", 7200))
	s.Record(context.Background(), []Event{{
		At: at, Kind: KindItem, ItemID: "c1", ThreadID: "abc", Owner: "alice", ReminderID: 7, State: "acked",
	}})

	assert.Equal(t, DefaultTable, fc.table)
	require.Len(t, fc.rows, 1)
	assert.Equal(t, []any{at.UTC(), id, KindItem, "c1", "abc", "alice", int64(7), "acked", ""}, fc.rows[0])
}

func TestClickhouse_FailuresAreSwallowed(t *testing.T) {
	t.Parallel()

	fc := &fakeCH{err: errors.New("ch down")}
	s := NewClickhouse(fc, "events", zerolog.Nop())
	s.Record(context.Background(), []Event{{Kind: KindItem}})
	assert.Equal(t, "events", fc.table)

	require.Error(t, s.Migrate(context.Background()))
	assert.True(t, strings.Contains(fc.execSQL, "CREATE TABLE IF NOT EXISTS events"))
}

func TestFromStore(t *testing.T) {
	t.Parallel()
	assert.IsType(t, Noop{}, FromStore(nil, "", zerolog.Nop()))
	assert.IsType(t, &Clickhouse{}, FromStore(&fakeCH{}, "", zerolog.Nop()))
}
