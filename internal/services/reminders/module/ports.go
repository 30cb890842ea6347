package module

import "remindme/internal/services/reminders/domain"

// Ports defines the reminders module ports
type Ports struct {
	Reminders domain.ReminderStore
	Acks      domain.ThreadAckStore
	Watermark domain.Watermark
}
