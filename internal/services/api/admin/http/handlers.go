// Package http provides the operator endpoints over the reminder store
package http

import (
	stdhttp "net/http"
	"strconv"
	"strings"
	"time"

	"remindme/internal/modkit/httpkit"
	perr "remindme/internal/platform/errors"
	"remindme/internal/platform/logger"
	ptime "remindme/internal/platform/time"
	"remindme/internal/services/reminders/domain"

	"github.com/go-chi/chi/v5"
)

// Deps are the handler dependencies. Delivery may be nil, in which case
// acknowledgement replies are never removed from the platform
type Deps struct {
	Reminders domain.ReminderStore
	Acks      domain.ThreadAckStore
	Watermark domain.Watermark
	Delivery  domain.DeliveryClient
	Now       func() time.Time
}

// Register mounts the read endpoints on r and the mutating ones on w.
// Callers pass the same router twice when no role split is wanted
func Register(r, w httpkit.Router, d Deps) {
	if d.Now == nil {
		d.Now = time.Now
	}
	h := &handlers{deps: d}

	httpkit.Get(r, "/reminders", h.listByOwner)
	httpkit.Get(r, "/reminders/due", h.due)
	httpkit.Get(r, "/reminders/{id}", h.reminder)
	httpkit.Get(r, "/acks/{threadID}", h.ack)
	httpkit.Get(r, "/watermark", h.watermark)

	httpkit.Delete(w, "/reminders", h.deleteByOwner)
	httpkit.Delete(w, "/reminders/{id}", h.deleteReminder)
	httpkit.Delete(w, "/acks/{threadID}", h.deleteAck)
	httpkit.PutJSON[WatermarkInput](w, "/watermark", h.setWatermark)
}

type handlers struct{ deps Deps }

// ReminderList is the payload for reminder listings
type ReminderList struct {
	Owner     string            `json:"owner,omitempty" example:"someone"`
	Count     int               `json:"count"           example:"2"`
	Reminders []domain.Reminder `json:"reminders"`
}

// DeleteResult reports how many records a delete removed
type DeleteResult struct {
	Deleted      int64 `json:"deleted"                 example:"1"`
	ReplyDeleted bool  `json:"reply_deleted,omitempty" example:"false"`
}

// WatermarkInput moves the ingestion cursor
type WatermarkInput struct {
	Watermark time.Time `json:"watermark" example:"2026-10-18T12:00:00Z"`
}

// WatermarkResponse reports the ingestion cursor
type WatermarkResponse struct {
	Watermark time.Time `json:"watermark" example:"2026-10-18T12:00:00Z"`
	LagSecs   int64     `json:"lag_seconds" example:"42"`
}

// @Summary Reminders owned by a user
// @Tags Admin
// @Produce json
// @Param owner query string true "owner name"
// @Success 200 {object} ReminderList
// @Router /admin/reminders [get]
func (h *handlers) listByOwner(r *stdhttp.Request) (any, error) {
	owner, err := ownerParam(r)
	if err != nil {
		return nil, err
	}
	rs, err := h.deps.Reminders.RemindersByOwner(r.Context(), owner)
	if err != nil {
		return nil, err
	}
	return list(owner, rs), nil
}

// @Summary Reminders due now
// @Tags Admin
// @Produce json
// @Success 200 {object} ReminderList
// @Router /admin/reminders/due [get]
func (h *handlers) due(r *stdhttp.Request) (any, error) {
	rs, err := h.deps.Reminders.DueReminders(r.Context(), h.deps.Now())
	if err != nil {
		return nil, err
	}
	return list("", rs), nil
}

// @Summary One reminder
// @Tags Admin
// @Produce json
// @Param id path int true "reminder id"
// @Success 200 {object} domain.Reminder
// @Router /admin/reminders/{id} [get]
func (h *handlers) reminder(r *stdhttp.Request) (any, error) {
	id, err := idParam(r)
	if err != nil {
		return nil, err
	}
	rem, ok, err := h.deps.Reminders.ReminderByID(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, perr.NotFoundf("reminder %d not found", id)
	}
	return rem, nil
}

// @Summary Delete one reminder
// @Tags Admin
// @Produce json
// @Param id path int true "reminder id"
// @Success 200 {object} DeleteResult
// @Router /admin/reminders/{id} [delete]
func (h *handlers) deleteReminder(r *stdhttp.Request) (any, error) {
	id, err := idParam(r)
	if err != nil {
		return nil, err
	}
	ok, err := h.deps.Reminders.DeleteReminder(r.Context(), &domain.Reminder{ID: id})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, perr.NotFoundf("reminder %d not found", id)
	}
	logger.C(r.Context()).Info().Str("by", caller(r)).Int64("reminder_id", id).Msg("reminder deleted")
	return DeleteResult{Deleted: 1}, nil
}

// @Summary Delete every reminder of a user
// @Tags Admin
// @Produce json
// @Param owner query string true "owner name"
// @Success 200 {object} DeleteResult
// @Router /admin/reminders [delete]
func (h *handlers) deleteByOwner(r *stdhttp.Request) (any, error) {
	owner, err := ownerParam(r)
	if err != nil {
		return nil, err
	}
	n, err := h.deps.Reminders.DeleteRemindersByOwner(r.Context(), owner)
	if err != nil {
		return nil, err
	}
	logger.C(r.Context()).Info().Str("by", caller(r)).Str("owner", owner).Int64("deleted", n).Msg("reminders deleted")
	return DeleteResult{Deleted: n}, nil
}

// @Summary Acknowledgement posted in a thread
// @Tags Admin
// @Produce json
// @Param threadID path string true "thread id"
// @Success 200 {object} domain.ThreadAck
// @Router /admin/acks/{threadID} [get]
func (h *handlers) ack(r *stdhttp.Request) (any, error) {
	threadID := chi.URLParam(r, "threadID")
	a, ok, err := h.deps.Acks.ThreadAck(r.Context(), threadID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, perr.NotFoundf("no acknowledgement in thread %q", threadID)
	}
	return a, nil
}

// @Summary Forget a thread acknowledgement, optionally removing the reply
// @Tags Admin
// @Produce json
// @Param threadID path string true "thread id"
// @Param delete_reply query bool false "also delete the posted reply"
// @Success 200 {object} DeleteResult
// @Router /admin/acks/{threadID} [delete]
func (h *handlers) deleteAck(r *stdhttp.Request) (any, error) {
	ctx := r.Context()
	threadID := chi.URLParam(r, "threadID")
	a, ok, err := h.deps.Acks.ThreadAck(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, perr.NotFoundf("no acknowledgement in thread %q", threadID)
	}

	var res DeleteResult
	if wantReply, _ := strconv.ParseBool(r.URL.Query().Get("delete_reply")); wantReply && a.Posted() {
		if h.deps.Delivery == nil {
			return nil, perr.Unavailablef("delivery client not configured")
		}
		if err := h.deps.Delivery.DeleteReply(ctx, a.AckItemID); err != nil {
			return nil, err
		}
		res.ReplyDeleted = true
	}

	ok, err = h.deps.Acks.DeleteThreadAck(ctx, &a)
	if err != nil {
		return nil, err
	}
	if ok {
		res.Deleted = 1
	}
	logger.C(ctx).Info().Str("by", caller(r)).Str("thread_id", threadID).Bool("reply_deleted", res.ReplyDeleted).Msg("thread ack deleted")
	return res, nil
}

// @Summary Ingestion cursor
// @Tags Admin
// @Produce json
// @Success 200 {object} WatermarkResponse
// @Router /admin/watermark [get]
func (h *handlers) watermark(r *stdhttp.Request) (any, error) {
	wm, err := h.deps.Watermark.Get(r.Context())
	if err != nil {
		return nil, err
	}
	return h.watermarkResponse(wm), nil
}

// @Summary Move the ingestion cursor
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body WatermarkInput true "new cursor"
// @Success 200 {object} WatermarkResponse
// @Router /admin/watermark [put]
func (h *handlers) setWatermark(r *stdhttp.Request, in WatermarkInput) (any, error) {
	if in.Watermark.IsZero() {
		return nil, perr.WithField(perr.InvalidArgf("watermark is required"), "watermark")
	}
	if in.Watermark.After(h.deps.Now()) {
		return nil, perr.WithField(perr.InvalidArgf("watermark may not be in the future"), "watermark")
	}
	if err := h.deps.Watermark.Set(r.Context(), in.Watermark); err != nil {
		return nil, err
	}
	logger.C(r.Context()).Warn().Str("by", caller(r)).Time("watermark", in.Watermark).Msg("watermark moved")
	return h.watermarkResponse(ptime.Second(in.Watermark)), nil
}

func (h *handlers) watermarkResponse(wm time.Time) WatermarkResponse {
	return WatermarkResponse{
		Watermark: wm,
		LagSecs:   int64(h.deps.Now().Sub(wm) / time.Second),
	}
}

// caller names the authenticated operator, or anonymous on open endpoints
func caller(r *stdhttp.Request) string {
	if uid, err := httpkit.User(r); err == nil {
		return uid
	}
	return "anonymous"
}

func list(owner string, rs []domain.Reminder) ReminderList {
	if rs == nil {
		rs = []domain.Reminder{}
	}
	return ReminderList{Owner: owner, Count: len(rs), Reminders: rs}
}

func ownerParam(r *stdhttp.Request) (string, error) {
	owner := strings.TrimSpace(r.URL.Query().Get("owner"))
	if owner == "" {
		return "", perr.WithField(perr.InvalidArgf("owner is required"), "owner")
	}
	return owner, nil
}

func idParam(r *stdhttp.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, perr.WithField(perr.InvalidArgf("invalid reminder id %q", raw), "id")
	}
	return id, nil
}
