package service

import (
	"context"
	"time"

	"remindme/internal/modkit/repokit"
	perr "remindme/internal/platform/errors"
	"remindme/internal/platform/net/http/bind"
	ptime "remindme/internal/platform/time"
	"remindme/internal/services/reminders/domain"
)

// ThreadAck returns the acknowledgement for threadID if one exists
func (s *Svc) ThreadAck(ctx context.Context, threadID string) (domain.ThreadAck, bool, error) {
	a, err := s.Repo.ThreadAckByThread(ctx, threadID)
	return found(a, err, "thread ack")
}

// ThreadAckByReply finds the acknowledgement that owns a posted reply
func (s *Svc) ThreadAckByReply(ctx context.Context, ackItemID string) (domain.ThreadAck, bool, error) {
	a, err := s.Repo.ThreadAckByReply(ctx, ackItemID)
	return found(a, err, "thread ack by reply")
}

// SaveThreadAck inserts a. Two saves for the same thread race on the unique
// thread id; the loser gets false
func (s *Svc) SaveThreadAck(ctx context.Context, a *domain.ThreadAck) (bool, error) {
	if a == nil || a.ID != 0 {
		return false, nil
	}
	if a.Count == 0 {
		a.Count = 1
	}
	a.TargetAt = ptime.Second(a.TargetAt)
	if err := bind.Validate(a); err != nil {
		s.log.Warn().Err(err).Str("thread_id", a.ThreadID).Msg("thread ack rejected by validation")
		return false, nil
	}

	var id int64
	err := repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
		var err error
		id, err = s.binder.Bind(q).InsertThreadAck(ctx, *a)
		return err
	})
	if err != nil {
		if perr.IsConstraint(err) {
			s.log.Warn().Err(err).Str("thread_id", a.ThreadID).Msg("failed to save thread ack")
			return false, nil
		}
		return false, perr.FromStore(err, "save thread ack")
	}
	a.ID = id
	return true, nil
}

// BumpThreadAck folds one more reminder into the thread and returns the updated row
func (s *Svc) BumpThreadAck(ctx context.Context, threadID string, targetAt time.Time) (domain.ThreadAck, bool, error) {
	var (
		out domain.ThreadAck
		ok  bool
	)
	err := repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
		r := s.binder.Bind(q)
		n, err := r.BumpThreadAck(ctx, threadID, targetAt)
		if err != nil || n == 0 {
			return err
		}
		out, err = r.ThreadAckByThread(ctx, threadID)
		ok = err == nil
		return err
	})
	if err != nil {
		return domain.ThreadAck{}, false, perr.FromStore(err, "bump thread ack")
	}
	return out, ok, nil
}

// DeleteThreadAck removes a and reports whether exactly one row went away
func (s *Svc) DeleteThreadAck(ctx context.Context, a *domain.ThreadAck) (bool, error) {
	if a == nil || a.ID == 0 {
		return false, nil
	}
	n, err := s.Repo.DeleteThreadAck(ctx, a.ID)
	if err != nil {
		return false, perr.FromStore(err, "delete thread ack")
	}
	return n == 1, nil
}
