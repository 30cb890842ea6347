package audit

import (
	"context"
	"fmt"

	"remindme/internal/platform/logger"
	"remindme/internal/platform/store"

	"github.com/google/uuid"
)

// DefaultTable is where events land unless configured otherwise
const DefaultTable = "remindme_events"

const ddl = `
CREATE TABLE IF NOT EXISTS %s (
	ts          DateTime,
	event_id    UUID,
	kind        LowCardinality(String),
	item_id     String,
	thread_id   String,
	owner       String,
	reminder_id Int64,
	state       LowCardinality(String),
	outcome     LowCardinality(String)
) ENGINE = MergeTree
ORDER BY (ts, kind)`

// Clickhouse writes events into a MergeTree table in one batch per Record
type Clickhouse struct {
	ch    store.Clickhouse
	table string
	log   logger.Logger
	newID func() uuid.UUID
}

// NewClickhouse returns a sink over ch. Empty table means DefaultTable
func NewClickhouse(ch store.Clickhouse, table string, log logger.Logger) *Clickhouse {
	if table == "" {
		table = DefaultTable
	}
	return &Clickhouse{
		ch:    ch,
		table: table,
		log:   log.With().Str("component", "audit").Str("table", table).Logger(),
		newID: uuid.New,
	}
}

// Migrate creates the table when missing
func (c *Clickhouse) Migrate(ctx context.Context) error {
	if err := c.ch.Exec(ctx, fmt.Sprintf(ddl, c.table)); err != nil {
		return fmt.Errorf("audit migrate: %w", err)
	}
	return nil
}

// Record implements Sink
func (c *Clickhouse) Record(ctx context.Context, events []Event) {
	if len(events) == 0 {
		return
	}
	rows := make([][]any, 0, len(events))
	for _, e := range events {
		rows = append(rows, []any{
			e.At.UTC(), c.newID(), e.Kind, e.ItemID, e.ThreadID, e.Owner, e.ReminderID, e.State, e.Outcome,
		})
	}
	if err := c.ch.Insert(ctx, c.table, rows); err != nil {
		c.log.Warn().Err(err).Int("events", len(events)).Msg("audit insert failed")
		return
	}
	c.log.Debug().Int("events", len(events)).Msg("audit events written")
}

// FromStore picks the ClickHouse sink when st has one, Noop otherwise
func FromStore(st store.Clickhouse, table string, log logger.Logger) Sink {
	if st == nil {
		return Noop{}
	}
	return NewClickhouse(st, table, log)
}
