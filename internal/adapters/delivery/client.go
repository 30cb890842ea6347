// Package delivery posts replies and direct messages through a reddit style
// REST API and maps platform refusals onto domain.Outcome
package delivery

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	perr "remindme/internal/platform/errors"
	"remindme/internal/platform/logger"
	"remindme/internal/platform/metrics"
	"remindme/internal/services/reminders/domain"

	"golang.org/x/time/rate"
)

const (
	baseURLDefault   = "https://oauth.reddit.com"
	defaultTimeout   = 10 * time.Second
	defaultUA        = "remindme-bot"
	defaultMaxRetry  = 3
	defaultRetryBase = 500 * time.Millisecond
	defaultRPS       = 1.0
	defaultBurst     = 2
)

// Options configures the Client
type Options struct {
	BaseURL   string
	Token     string
	UserAgent string
	Timeout   time.Duration

	MaxRetries int
	RetryBase  time.Duration

	RatePerSec float64
	Burst      int
}

// Client is the live DeliveryClient
type Client struct {
	http    *http.Client
	opts    Options
	limiter *rate.Limiter
	log     logger.Logger
	metrics *metrics.Metrics
	now     func() time.Time
	sleep   func(context.Context, time.Duration) error
}

var _ domain.DeliveryClient = (*Client)(nil)

// New creates a Client with defaults for zero options
func New(o Options, m *metrics.Metrics) *Client {
	if o.BaseURL == "" {
		o.BaseURL = baseURLDefault
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = defaultMaxRetry
	}
	if o.RetryBase <= 0 {
		o.RetryBase = defaultRetryBase
	}
	if o.RatePerSec <= 0 {
		o.RatePerSec = defaultRPS
	}
	if o.Burst <= 0 {
		o.Burst = defaultBurst
	}
	o.BaseURL = strings.TrimRight(o.BaseURL, "/")
	return &Client{
		http:    &http.Client{Timeout: o.Timeout},
		opts:    o,
		limiter: rate.NewLimiter(rate.Limit(o.RatePerSec), o.Burst),
		log:     *logger.Named("delivery"),
		metrics: m,
		now:     time.Now,
		sleep:   sleepCtx,
	}
}

// apiResponse is the api_type=json envelope
type apiResponse struct {
	JSON struct {
		Errors [][]any `json:"errors"`
		Data   struct {
			Things []struct {
				Data struct {
					ID   string `json:"id"`
					Name string `json:"name"`
				} `json:"data"`
			} `json:"things"`
		} `json:"data"`
	} `json:"json"`
}

func (r apiResponse) firstID() string {
	for _, t := range r.JSON.Data.Things {
		if t.Data.ID != "" {
			return t.Data.ID
		}
		if t.Data.Name != "" {
			return strings.TrimPrefix(t.Data.Name, "t1_")
		}
	}
	return ""
}

// outcome maps the first error identifier onto an Outcome
func (r apiResponse) outcome() (domain.Outcome, error) {
	if len(r.JSON.Errors) == 0 || len(r.JSON.Errors[0]) == 0 {
		return domain.Success, nil
	}
	code, _ := r.JSON.Errors[0][0].(string)
	o, err := domain.ParseOutcome(code)
	if err != nil {
		return 0, perr.Wrap(err, perr.ErrorCodeUpstream, "platform api error")
	}
	return o, nil
}

// PostReply replies to a comment and returns the new reply id
func (c *Client) PostReply(ctx context.Context, itemID, body string) (string, domain.Outcome, error) {
	form := url.Values{"thing_id": {"t1_" + itemID}, "text": {body}}
	resp, o, err := c.call(ctx, "reply", "/api/comment", form)
	if err != nil || o != domain.Success {
		return "", o, err
	}
	return resp.firstID(), o, nil
}

// EditReply replaces the text of a reply posted earlier
func (c *Client) EditReply(ctx context.Context, replyID, body string) (domain.Outcome, error) {
	form := url.Values{"thing_id": {"t1_" + replyID}, "text": {body}}
	_, o, err := c.call(ctx, "edit", "/api/editusertext", form)
	return o, err
}

// DeleteReply removes a reply posted earlier
func (c *Client) DeleteReply(ctx context.Context, replyID string) error {
	_, _, err := c.call(ctx, "delete", "/api/del", url.Values{"id": {"t1_" + replyID}})
	return err
}

// SendDirectMessage sends a private message to owner
func (c *Client) SendDirectMessage(ctx context.Context, owner, subject, body string) (domain.Outcome, error) {
	form := url.Values{"to": {owner}, "subject": {subject}, "text": {body}}
	_, o, err := c.call(ctx, "dm", "/api/compose", form)
	return o, err
}

func (c *Client) call(ctx context.Context, kind, path string, form url.Values) (apiResponse, domain.Outcome, error) {
	form.Set("api_type", "json")
	resp, o, err := c.do(ctx, path, form)
	switch {
	case err != nil:
		c.metrics.Delivery(kind, "error")
	default:
		c.metrics.Delivery(kind, o.String())
	}
	return resp, o, err
}

// do posts form with auth headers, rate limiting and retries on transient failures.
// A 403 is reported as Forbidden rather than an error
func (c *Client) do(ctx context.Context, path string, form url.Values) (apiResponse, domain.Outcome, error) {
	var out apiResponse
	u := c.opts.BaseURL + path
	payload := form.Encode()
	attempts := 0
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return out, 0, perr.Wrap(err, perr.ErrorCodeUnavailable, "delivery rate limiter")
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, strings.NewReader(payload))
		if err != nil {
			return out, 0, perr.Wrapf(err, perr.ErrorCodeUnknown, "delivery new request failed")
		}
		req.Header.Set("User-Agent", c.opts.UserAgent)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		if c.opts.Token != "" {
			req.Header.Set("Authorization", "bearer "+c.opts.Token)
		}

		start := c.now()
		resp, err := c.http.Do(req)
		lat := c.now().Sub(start)

		if err != nil {
			if ctx.Err() != nil || !c.shouldRetry(attempts) {
				return out, 0, perr.Wrapf(err, perr.ErrorCodeUnavailable, "delivery %s failed", path)
			}
			back := c.backoff(attempts)
			c.log.Warn().Err(err).Dur("retry_in", back).Int("attempt", attempts).Msg("delivery transport error retrying")
			if err := c.sleep(ctx, back); err != nil {
				return out, 0, perr.Wrapf(err, perr.ErrorCodeUnavailable, "delivery %s retry aborted", path)
			}
			attempts++
			continue
		}

		c.log.Debug().
			Str("path", path).
			Int("status", resp.StatusCode).
			Int("attempt", attempts).
			Dur("latency", lat).
			Msg("delivery http response")

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			err := json.NewDecoder(resp.Body).Decode(&out)
			_ = drainAndClose(resp.Body)
			if err != nil && err != io.EOF {
				return out, 0, perr.Wrapf(err, perr.ErrorCodeJSON, "delivery %s bad response", path)
			}
			o, err := out.outcome()
			return out, o, err
		case resp.StatusCode == http.StatusForbidden:
			_ = drainAndClose(resp.Body)
			return out, domain.Forbidden, nil
		case resp.StatusCode == http.StatusTooManyRequests, resp.StatusCode >= 500:
			_ = drainAndClose(resp.Body)
			if !c.shouldRetry(attempts) {
				code := perr.ErrorCodeUnavailable
				if resp.StatusCode == http.StatusTooManyRequests {
					code = perr.ErrorCodeTooManyRequests
				}
				return out, 0, perr.Newf(code, "delivery %s gave status %d", path, resp.StatusCode)
			}
			back := c.backoff(attempts)
			if ra := retryAfter(resp.Header, c.now()); ra > back {
				back = ra
			}
			c.log.Warn().Int("status", resp.StatusCode).Dur("retry_in", back).Int("attempt", attempts).Msg("delivery transient error retrying")
			if err := c.sleep(ctx, back); err != nil {
				return out, 0, perr.Wrapf(err, perr.ErrorCodeUnavailable, "delivery %s retry aborted", path)
			}
			attempts++
			continue
		default:
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
			_ = resp.Body.Close()
			return out, 0, perr.Upstreamf("delivery %s unexpected status %d body %s", path, resp.StatusCode, string(body))
		}
	}
}

// sleepCtx waits d or until ctx is done
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (c *Client) backoff(attempt int) time.Duration {
	d := c.opts.RetryBase << uint(attempt)
	return min(d, 30*time.Second)
}

func (c *Client) shouldRetry(attempt int) bool {
	return attempt < c.opts.MaxRetries
}
