package service

import (
	"context"
	"errors"
	"time"

	perr "remindme/internal/platform/errors"
	ptime "remindme/internal/platform/time"
	"remindme/internal/services/reminders/domain"
)

type watermark struct{ s *Svc }

// Get returns the stored cursor. A missing or unreadable value yields now
// with a warning so a fresh install starts from the present
func (w watermark) Get(ctx context.Context) (time.Time, error) {
	v, err := w.s.Repo.GetKey(ctx, domain.WatermarkKey)
	if errors.Is(err, perr.ErrNotFound) {
		w.s.log.Warn().Str("key", domain.WatermarkKey).Msg("watermark not in database, returning now")
		return ptime.Second(w.s.now()), nil
	}
	if err != nil {
		return time.Time{}, perr.FromStore(err, "get watermark")
	}
	t, err := time.ParseInLocation(domain.WatermarkLayout, v, time.UTC)
	if err != nil {
		w.s.log.Warn().Str("value", v).Err(err).Msg("watermark unreadable, returning now")
		return ptime.Second(w.s.now()), nil
	}
	return t, nil
}

// Set overwrites the cursor
func (w watermark) Set(ctx context.Context, t time.Time) error {
	v := t.UTC().Format(domain.WatermarkLayout)
	if err := w.s.Repo.PutKey(ctx, domain.WatermarkKey, v); err != nil {
		return perr.FromStore(err, "set watermark")
	}
	return nil
}
