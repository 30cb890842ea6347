package repo

import (
	"context"
	"time"

	"remindme/internal/platform/store"
	"remindme/internal/services/reminders/domain"
)

const ackCols = `id, thread_id, ack_item_id, current_count, owner, target_at`

func scanAck(r store.Row) (domain.ThreadAck, error) {
	var a domain.ThreadAck
	if err := r.Scan(&a.ID, &a.ThreadID, &a.AckItemID, &a.Count, &a.Owner, &a.TargetAt); err != nil {
		return domain.ThreadAck{}, err
	}
	a.TargetAt = a.TargetAt.UTC()
	return a, nil
}

func (r *queries) InsertThreadAck(ctx context.Context, a domain.ThreadAck) (int64, error) {
	const sql = `
		INSERT INTO thread_acks (thread_id, ack_item_id, current_count, owner, target_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	return store.Scalar[int64](ctx, r.q, sql, a.ThreadID, a.AckItemID, a.Count, a.Owner, ts(a.TargetAt))
}

func (r *queries) ThreadAckByThread(ctx context.Context, threadID string) (domain.ThreadAck, error) {
	const sql = `SELECT ` + ackCols + ` FROM thread_acks WHERE thread_id = $1`
	return store.One(ctx, r.q, scanAck, sql, threadID)
}

func (r *queries) ThreadAckByReply(ctx context.Context, ackItemID string) (domain.ThreadAck, error) {
	const sql = `SELECT ` + ackCols + ` FROM thread_acks WHERE ack_item_id = $1 ORDER BY id LIMIT 1`
	return store.One(ctx, r.q, scanAck, sql, ackItemID)
}

// BumpThreadAck adds one to the count and lowers target_at when the new one is sooner
func (r *queries) BumpThreadAck(ctx context.Context, threadID string, targetAt time.Time) (int64, error) {
	const sql = `
		UPDATE thread_acks
		SET current_count = current_count + 1,
		    target_at = CASE WHEN $1 < target_at THEN $1 ELSE target_at END
		WHERE thread_id = $2
	`
	return store.Affected(ctx, r.q, sql, ts(targetAt), threadID)
}

func (r *queries) DeleteThreadAck(ctx context.Context, id int64) (int64, error) {
	return store.Affected(ctx, r.q, `DELETE FROM thread_acks WHERE id = $1`, id)
}
