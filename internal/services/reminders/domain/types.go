// Package domain defines the reminder records, the thread acknowledgements and
// the ports the intake and delivery loops are built on
package domain

import "time"

const (
	// DryRunReplyID is the reply id handed out when nothing is posted
	DryRunReplyID = "xxxxxx"

	// WatermarkKey names the keystore row holding the ingestion cursor
	WatermarkKey = "lastSeenCommentTime"

	// WatermarkLayout is how the cursor is written, always UTC
	WatermarkLayout = "2006-01-02 15:04:05"

	// MaxSourceLen and MaxMessageLen match the reminders columns, in characters
	MaxSourceLen  = 400
	MaxMessageLen = 500
)

// Reminder is one persisted request to be messaged later.
// ID is zero until the first successful save
type Reminder struct {
	ID          int64     `json:"id"`
	Source      string    `json:"source" validate:"required,max=400"`
	RequestedAt time.Time `json:"requested_at" validate:"required"`
	TargetAt    time.Time `json:"target_at" validate:"required,gtfield=RequestedAt"`
	Message     *string   `json:"message,omitempty" validate:"omitempty,max=500"`
	Owner       string    `json:"owner" validate:"required,max=80,handle"`

	// Valid and Reason are set while parsing, never persisted
	Valid  bool   `json:"-"`
	Reason string `json:"-"`
}

// Invalidate marks r unusable with reason
func (r *Reminder) Invalidate(reason string) {
	r.Valid = false
	r.Reason = reason
}

// MessageText returns the message or ""
func (r Reminder) MessageText() string {
	if r.Message == nil {
		return ""
	}
	return *r.Message
}

// ThreadAck records the single confirmation reply posted in a thread
type ThreadAck struct {
	ID        int64     `json:"id"`
	ThreadID  string    `json:"thread_id" validate:"required,max=32"`
	AckItemID string    `json:"ack_item_id" validate:"required,max=32"`
	Count     int       `json:"count" validate:"min=1"`
	Owner     string    `json:"owner" validate:"required,max=80,handle"`
	TargetAt  time.Time `json:"target_at" validate:"required"`
}

// Posted reports whether the ack points at a real reply
func (a ThreadAck) Posted() bool { return a.AckItemID != "" && a.AckItemID != DryRunReplyID }

// Item is one comment pulled from the feed
type Item struct {
	ID        string
	Author    string
	Body      string
	CreatedAt time.Time
	ThreadID  string
	Permalink string
}
