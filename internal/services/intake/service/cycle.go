package service

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"remindme/internal/core/command"
	"remindme/internal/core/render"
	"remindme/internal/core/timespec"
	"remindme/internal/platform/logger"
	ptime "remindme/internal/platform/time"
	"remindme/internal/services/audit"
	"remindme/internal/services/reminders/domain"

	"github.com/google/uuid"
)

const reasonSaveFailed = "Something went wrong saving the reminder"

type cycle struct {
	*Svc
	log    logger.Logger
	events *audit.Batch
}

func newCycle(s *Svc) *cycle {
	return &cycle{
		Svc:    s,
		log:    s.log.With().Str("cycle_id", uuid.NewString()).Logger(),
		events: audit.NewBatch(s.deps.Audit),
	}
}

func (c *cycle) run(ctx context.Context) (Summary, error) {
	sum := Summary{States: map[domain.ItemState]int{}}

	lastSeen, err := c.deps.Watermark.Get(ctx)
	if err != nil {
		return sum, err
	}
	// a cold cache cannot tell which items at exactly lastSeen were handled
	if c.deps.Cache.Empty() {
		lastSeen = lastSeen.Add(time.Second)
	}
	sum.Watermark = lastSeen

	items := c.deps.Feed.FetchKeywordItems(ctx, c.cfg.Keyword, lastSeen)
	sum.Fetched = len(items)
	sort.SliceStable(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })

	fresh := make([]domain.Item, 0, len(items))
	for _, it := range items {
		if !it.CreatedAt.After(lastSeen) {
			break
		}
		if c.deps.Cache.Contains(it.ID) {
			c.record(it, nil, domain.StateFilteredDup, &sum)
			continue
		}
		fresh = append(fresh, it)
	}

	var newest time.Time
	for i := len(fresh) - 1; i >= 0; i-- {
		it := fresh[i]
		state, r, err := c.process(ctx, it)
		if err != nil {
			c.log.Error().Err(err).Str("item_id", it.ID).Msg("item aborted the cycle")
			return sum, err
		}
		c.record(it, r, state, &sum)
		sum.Processed++
		newest = it.CreatedAt
	}

	if sum.Processed > 0 {
		if err := c.deps.Watermark.Set(ctx, newest); err != nil {
			return sum, err
		}
		sum.Watermark = newest
	}
	c.deps.Metrics.Lag(c.now(), sum.Watermark)
	return sum, nil
}

func (c *cycle) record(it domain.Item, r *domain.Reminder, state domain.ItemState, sum *Summary) {
	sum.States[state]++
	c.deps.Metrics.Item(string(state))

	ev := audit.Event{Kind: audit.KindItem, ItemID: it.ID, ThreadID: it.ThreadID, Owner: it.Author, State: string(state)}
	log := c.log.Debug()
	if r != nil {
		ev.ReminderID = r.ID
		log = c.log.Info().Int64("reminder_id", r.ID).Str("reason", r.Reason)
	}
	c.events.Add(ev)
	log.Str("item_id", it.ID).Str("thread_id", it.ThreadID).Str("owner", it.Author).Str("state", string(state)).Msg("item processed")
}

// process walks one item through the state machine. The item is cached
// whatever happens so a poisoned item is not retried every cycle
func (c *cycle) process(ctx context.Context, it domain.Item) (domain.ItemState, *domain.Reminder, error) {
	defer c.deps.Cache.Put(it.ID)

	if c.cfg.Bot != "" && strings.EqualFold(it.Author, c.cfg.Bot) {
		return domain.StateFilteredSelf, nil, nil
	}
	if !command.Has(it.Body) {
		return domain.StateFilteredNoKeyword, nil, nil
	}

	r := c.parse(it)
	if !r.Valid {
		return domain.StateInvalid, &r, nil
	}

	ok, err := c.deps.Reminders.SaveReminder(ctx, &r)
	if err != nil {
		return "", &r, err
	}
	if !ok {
		r.Invalidate(reasonSaveFailed)
		return domain.StateSaveFailed, &r, nil
	}

	state, err := c.acknowledge(ctx, it, &r)
	return state, &r, err
}

// parse builds the in-memory reminder. Failures mark it invalid with a reason
func (c *cycle) parse(it domain.Item) domain.Reminder {
	r := domain.Reminder{
		Source:      it.Permalink,
		RequestedAt: ptime.Second(it.CreatedAt),
		Message:     command.Message(it.Body),
		Owner:       it.Author,
		Valid:       true,
	}

	if n := utf8.RuneCountInString(r.MessageText()); n > domain.MaxMessageLen {
		r.Invalidate("Message is too long: " + strconv.Itoa(n) + " characters, the limit is " + strconv.Itoa(domain.MaxMessageLen))
		return r
	}
	if utf8.RuneCountInString(r.Source) > domain.MaxSourceLen {
		r.Invalidate("Link to the comment is too long to store")
		return r
	}

	spec, ok := timespec.Parse(command.TimeText(it.Body))
	if !ok {
		r.Invalidate("Could not find a time in message")
		return r
	}
	target, ok := spec.Resolve(r.RequestedAt)
	if !ok {
		r.Invalidate("Could not parse date: " + spec.Text)
		return r
	}
	if !target.After(r.RequestedAt) {
		r.Invalidate("This time, " + spec.Text + ", was interpreted as " +
			target.Format(render.StampLayout) + ", which is in the past")
		return r
	}
	r.TargetAt = target
	return r
}

// acknowledge posts one confirmation per thread. Later reminders in the same
// thread bump the count on the existing ack and edit its reply
func (c *cycle) acknowledge(ctx context.Context, it domain.Item, r *domain.Reminder) (domain.ItemState, error) {
	_, found, err := c.deps.Acks.ThreadAck(ctx, it.ThreadID)
	if err != nil {
		return "", err
	}
	if found {
		c.fold(ctx, it, r)
		return domain.StateAlreadyAcked, nil
	}

	text, err := render.ConfirmationText(render.Confirmation{
		Bot:      c.cfg.Bot,
		Source:   r.Source,
		Message:  r.MessageText(),
		Now:      c.now(),
		TargetAt: r.TargetAt,
		Count:    1,
	})
	if err != nil {
		return "", err
	}

	replyID, o, err := c.deps.Delivery.PostReply(ctx, it.ID, text)
	c.delivery(it, r, o, err)
	if err != nil {
		return "", err
	}
	switch {
	case o == domain.Forbidden:
		c.log.Warn().Str("item_id", it.ID).Str("thread_id", it.ThreadID).Msg("reply forbidden, reminder kept without ack")
		return domain.StateAckSkippedForbidden, nil
	case o != domain.Success:
		c.log.Warn().Str("item_id", it.ID).Stringer("outcome", o).Msg("confirmation not delivered")
		return domain.StateAckUndeliverable, nil
	case replyID == "":
		c.log.Warn().Str("item_id", it.ID).Msg("reply posted without an id, ack not recorded")
		return domain.StateAcked, nil
	}

	ack := &domain.ThreadAck{
		ThreadID:  it.ThreadID,
		AckItemID: replyID,
		Count:     1,
		Owner:     r.Owner,
		TargetAt:  r.TargetAt,
	}
	saved, err := c.deps.Acks.SaveThreadAck(ctx, ack)
	if err != nil {
		return "", err
	}
	if saved {
		return domain.StateAcked, nil
	}
	// only a row already present for the thread means another save won
	_, found, err = c.deps.Acks.ThreadAck(ctx, it.ThreadID)
	if err != nil {
		return "", err
	}
	if found {
		return domain.StateAlreadyAcked, nil
	}
	c.log.Warn().Str("item_id", it.ID).Str("thread_id", it.ThreadID).Str("reply_id", replyID).Msg("reply posted but ack was refused")
	return domain.StateAckNotRecorded, nil
}

// fold counts r into the thread's ack and rewrites the posted reply.
// Edit failures are logged only
func (c *cycle) fold(ctx context.Context, it domain.Item, r *domain.Reminder) {
	ack, ok, err := c.deps.Acks.BumpThreadAck(ctx, it.ThreadID, r.TargetAt)
	if err != nil || !ok {
		c.log.Warn().Err(err).Str("thread_id", it.ThreadID).Msg("could not bump thread ack")
		return
	}
	if !ack.Posted() {
		return
	}
	text, err := render.ConfirmationText(render.Confirmation{
		Bot:      c.cfg.Bot,
		Source:   r.Source,
		Now:      c.now(),
		TargetAt: ack.TargetAt,
		Count:    ack.Count,
	})
	if err != nil {
		c.log.Warn().Err(err).Msg("could not render ack update")
		return
	}
	o, err := c.deps.Delivery.EditReply(ctx, ack.AckItemID, text)
	c.delivery(it, r, o, err)
	if err != nil || o != domain.Success {
		c.log.Warn().Err(err).Stringer("outcome", o).Str("reply_id", ack.AckItemID).Msg("could not edit ack reply")
	}
}

func (c *cycle) delivery(it domain.Item, r *domain.Reminder, o domain.Outcome, err error) {
	outcome := o.String()
	if err != nil {
		outcome = "error"
	}
	c.events.Add(audit.Event{
		Kind:       audit.KindDelivery,
		ItemID:     it.ID,
		ThreadID:   it.ThreadID,
		Owner:      r.Owner,
		ReminderID: r.ID,
		Outcome:    outcome,
	})
}
