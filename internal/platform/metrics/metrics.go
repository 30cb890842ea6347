// Package metrics holds the prometheus collectors of the bot loops and the
// delivery client. A nil *Metrics is valid and records nothing
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "remindme"

// Metrics groups every collector the bot exports
type Metrics struct {
	reg prometheus.Gatherer

	// Items counts processed feed items by final state
	Items *prometheus.CounterVec
	// FeedFetches counts feed requests by result (ok, error, status, timeout)
	FeedFetches *prometheus.CounterVec
	// FeedTimeouts counts timed out feed requests
	FeedTimeouts prometheus.Counter
	// Deliveries counts platform calls by kind and outcome
	Deliveries *prometheus.CounterVec
	// CycleSeconds measures loop cycles by loop and result
	CycleSeconds *prometheus.HistogramVec
	// WatermarkLag is now minus the watermark after the last ingestion cycle
	WatermarkLag prometheus.Gauge
	// Requests measures admin API requests by method, route pattern and status
	Requests *prometheus.HistogramVec
}

// New registers the collectors on a fresh registry that also carries the
// go and process collectors
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return NewWith(reg, reg)
}

// NewWith registers on r and serves from g
func NewWith(r prometheus.Registerer, g prometheus.Gatherer) *Metrics {
	m := &Metrics{
		reg: g,
		Items: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "intake",
			Name:      "items_total",
			Help:      "Feed items processed by final state",
		}, []string{"state"}),
		FeedFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "fetches_total",
			Help:      "Feed requests by result",
		}, []string{"result"}),
		FeedTimeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "timeouts_total",
			Help:      "Feed requests that timed out",
		}),
		Deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "delivery",
			Name:      "calls_total",
			Help:      "Platform calls by kind and outcome",
		}, []string{"kind", "outcome"}),
		CycleSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cycle_seconds",
			Help:      "Loop cycle duration by loop and result",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"loop", "result"}),
		WatermarkLag: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "intake",
			Name:      "watermark_lag_seconds",
			Help:      "Seconds between now and the ingestion watermark",
		}),
		Requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "request_seconds",
			Help:      "Admin API request latency by method, route and status",
			Buckets:   []float64{.005, .025, .1, .5, 2},
		}, []string{"method", "route", "status"}),
	}
	r.MustRegister(m.Items, m.FeedFetches, m.FeedTimeouts, m.Deliveries, m.CycleSeconds, m.WatermarkLag, m.Requests)
	return m
}

// Item counts one item in state
func (m *Metrics) Item(state string) {
	if m == nil {
		return
	}
	m.Items.WithLabelValues(state).Inc()
}

// Fetch counts one feed request with result
func (m *Metrics) Fetch(result string) {
	if m == nil {
		return
	}
	m.FeedFetches.WithLabelValues(result).Inc()
	if result == "timeout" {
		m.FeedTimeouts.Inc()
	}
}

// Delivery counts one platform call
func (m *Metrics) Delivery(kind, outcome string) {
	if m == nil {
		return
	}
	m.Deliveries.WithLabelValues(kind, outcome).Inc()
}

// Cycle observes a loop cycle that started at start
func (m *Metrics) Cycle(loop string, start time.Time, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.CycleSeconds.WithLabelValues(loop, result).Observe(time.Since(start).Seconds())
}

// Request observes one served API request. route is the matched pattern so
// ids in paths do not explode the label set
func (m *Metrics) Request(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// Lag sets the watermark lag relative to now
func (m *Metrics) Lag(now, watermark time.Time) {
	if m == nil {
		return
	}
	m.WatermarkLag.Set(now.Sub(watermark).Seconds())
}

// Handler serves the registry in the prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil || m.reg == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}
