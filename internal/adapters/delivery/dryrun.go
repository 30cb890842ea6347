package delivery

import (
	"context"

	"remindme/internal/platform/logger"
	"remindme/internal/services/reminders/domain"
)

// DryRun logs what would be sent and reports success without any network call
type DryRun struct {
	log logger.Logger
}

var _ domain.DeliveryClient = DryRun{}

// NewDryRun returns a DryRun client logging under the delivery component
func NewDryRun() DryRun {
	return DryRun{log: logger.Named("delivery").With().Bool("dryrun", true).Logger()}
}

// PostReply logs body and hands back the dry run reply id
func (d DryRun) PostReply(_ context.Context, itemID, body string) (string, domain.Outcome, error) {
	d.log.Info().Str("item_id", itemID).Str("body", body).Msg("reply not posted")
	return domain.DryRunReplyID, domain.Success, nil
}

// EditReply logs body
func (d DryRun) EditReply(_ context.Context, replyID, body string) (domain.Outcome, error) {
	d.log.Info().Str("reply_id", replyID).Str("body", body).Msg("reply not edited")
	return domain.Success, nil
}

// DeleteReply logs the id
func (d DryRun) DeleteReply(_ context.Context, replyID string) error {
	d.log.Info().Str("reply_id", replyID).Msg("reply not deleted")
	return nil
}

// SendDirectMessage logs the message
func (d DryRun) SendDirectMessage(_ context.Context, owner, subject, body string) (domain.Outcome, error) {
	d.log.Info().Str("owner", owner).Str("subject", subject).Str("body", body).Msg("message not sent")
	return domain.Success, nil
}
