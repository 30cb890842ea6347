// Package feed reads keyword comment matches from a pushshift style search API
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"remindme/internal/platform/logger"
	"remindme/internal/platform/metrics"
	ptime "remindme/internal/platform/time"
	"remindme/internal/services/reminders/domain"
)

const (
	baseURLDefault   = "https://api.pushshift.io"
	siteURLDefault   = "https://www.reddit.com"
	defaultTimeout   = 10 * time.Second
	defaultLimit     = 100
	defaultUA        = "remindme-bot"
	timeoutWarnAfter = 5
)

// Options configures the Client
type Options struct {
	BaseURL   string
	SiteURL   string
	UserAgent string
	Timeout   time.Duration
	Limit     int
}

// Client fetches keyword matches newest first. Every failure is logged and
// reported as an empty batch
type Client struct {
	http     *http.Client
	opts     Options
	log      logger.Logger
	metrics  *metrics.Metrics
	timeouts atomic.Int32
}

// New creates a Client with defaults for zero options
func New(o Options, m *metrics.Metrics) *Client {
	if o.BaseURL == "" {
		o.BaseURL = baseURLDefault
	}
	if o.SiteURL == "" {
		o.SiteURL = siteURLDefault
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.Limit <= 0 {
		o.Limit = defaultLimit
	}
	o.BaseURL = strings.TrimRight(o.BaseURL, "/")
	o.SiteURL = strings.TrimRight(o.SiteURL, "/")
	return &Client{
		http:    &http.Client{Timeout: o.Timeout},
		opts:    o,
		log:     *logger.Named("feed"),
		metrics: m,
	}
}

var _ domain.Feed = (*Client)(nil)

type searchResponse struct {
	Data []comment `json:"data"`
}

type comment struct {
	ID         string  `json:"id"`
	Author     string  `json:"author"`
	Body       string  `json:"body"`
	CreatedUTC float64 `json:"created_utc"`
	LinkID     string  `json:"link_id"`
	Permalink  string  `json:"permalink"`
}

// FetchKeywordItems returns items matching keyword, newest first. since only
// narrows the query; the caller still applies its own cutoff
func (c *Client) FetchKeywordItems(ctx context.Context, keyword string, since time.Time) []domain.Item {
	q := url.Values{}
	q.Set("q", keyword)
	q.Set("limit", strconv.Itoa(c.opts.Limit))
	q.Set("sort", "desc")
	if !since.IsZero() {
		q.Set("after", strconv.FormatInt(since.Add(-time.Second).Unix(), 10))
	}
	u := c.opts.BaseURL + "/reddit/comment/search?" + q.Encode()

	log := c.log.With().Str("keyword", keyword).Logger()
	log.Debug().Time("since", since).Msg("fetching keyword items")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		log.Warn().Err(err).Msg("feed request build failed")
		c.metrics.Fetch("error")
		return nil
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			c.metrics.Fetch("timeout")
			if n := c.timeouts.Add(1); n >= timeoutWarnAfter {
				log.Warn().Int32("consecutive", n).Msg("consecutive feed timeouts")
				c.timeouts.Store(0)
			}
			return nil
		}
		log.Warn().Err(err).Msg("could not fetch keyword items")
		c.metrics.Fetch("error")
		return nil
	}
	defer func() { _ = drainAndClose(resp.Body) }()

	if resp.StatusCode != http.StatusOK {
		log.Warn().Int("status", resp.StatusCode).Msg("feed returned non 200")
		c.metrics.Fetch("status")
		return nil
	}

	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		log.Warn().Err(err).Msg("could not parse feed response")
		c.metrics.Fetch("error")
		return nil
	}
	c.timeouts.Store(0)
	c.metrics.Fetch("ok")

	if len(out.Data) == 0 {
		log.Warn().Msg("no items found for keyword")
		return nil
	}

	items := make([]domain.Item, 0, len(out.Data))
	for _, cm := range out.Data {
		if cm.ID == "" {
			continue
		}
		items = append(items, c.toItem(cm))
	}
	log.Debug().Int("items", len(items)).Msg("fetched keyword items")
	return items
}

// ConsecutiveTimeouts reports the current timeout streak
func (c *Client) ConsecutiveTimeouts() int { return int(c.timeouts.Load()) }

func (c *Client) toItem(cm comment) domain.Item {
	it := domain.Item{
		ID:        cm.ID,
		Author:    cm.Author,
		Body:      cm.Body,
		CreatedAt: ptime.Unix(cm.CreatedUTC),
		ThreadID:  ThreadID(cm.LinkID),
		Permalink: cm.Permalink,
	}
	if strings.HasPrefix(it.Permalink, "/") {
		it.Permalink = c.opts.SiteURL + it.Permalink
	}
	return it
}

// ThreadID strips the type prefix from a fullname such as t3_abc
func ThreadID(fullname string) string {
	if i := strings.IndexByte(fullname, '_'); i >= 0 && strings.HasPrefix(fullname, "t") {
		return fullname[i+1:]
	}
	return fullname
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func drainAndClose(rc io.ReadCloser) error {
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, 512))
	return rc.Close()
}
