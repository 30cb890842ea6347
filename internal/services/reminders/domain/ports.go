package domain

import (
	"context"
	"time"
)

// ReminderStore persists reminders. Save and Delete report false for the
// expected misses; errors are reserved for storage failures
type ReminderStore interface {
	SaveReminder(ctx context.Context, r *Reminder) (bool, error)
	DueReminders(ctx context.Context, now time.Time) ([]Reminder, error)
	RemindersByOwner(ctx context.Context, owner string) ([]Reminder, error)
	ReminderByID(ctx context.Context, id int64) (Reminder, bool, error)
	DeleteReminder(ctx context.Context, r *Reminder) (bool, error)
	DeleteRemindersByOwner(ctx context.Context, owner string) (int64, error)
}

// ThreadAckStore persists one acknowledgement per thread
type ThreadAckStore interface {
	ThreadAck(ctx context.Context, threadID string) (ThreadAck, bool, error)
	ThreadAckByReply(ctx context.Context, ackItemID string) (ThreadAck, bool, error)
	SaveThreadAck(ctx context.Context, a *ThreadAck) (bool, error)
	// BumpThreadAck folds another reminder into the thread and keeps the soonest target
	BumpThreadAck(ctx context.Context, threadID string, targetAt time.Time) (ThreadAck, bool, error)
	DeleteThreadAck(ctx context.Context, a *ThreadAck) (bool, error)
}

// Watermark is the durable ingestion cursor
type Watermark interface {
	Get(ctx context.Context) (time.Time, error)
	Set(ctx context.Context, t time.Time) error
}

// Feed returns keyword matches newest first. Transport failures yield no items
type Feed interface {
	FetchKeywordItems(ctx context.Context, keyword string, since time.Time) []Item
}

// DeliveryClient talks to the platform. Expected refusals come back as an
// Outcome; err is reserved for transport failures and unknown identifiers
type DeliveryClient interface {
	PostReply(ctx context.Context, itemID, body string) (replyID string, o Outcome, err error)
	EditReply(ctx context.Context, replyID, body string) (Outcome, error)
	DeleteReply(ctx context.Context, replyID string) error
	SendDirectMessage(ctx context.Context, owner, subject, body string) (Outcome, error)
}
