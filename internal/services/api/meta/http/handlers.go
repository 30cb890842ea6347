// Package http provides meta endpoints
package http

import (
	"context"
	"net/http"
	"time"

	"remindme/internal/core/version"
	"remindme/internal/modkit/httpkit"
	"remindme/internal/services/reminders/domain"
)

// Pinger is satisfied by adapters that expose Ping
type Pinger interface {
	Ping(context.Context) error
}

// Deps are the handler dependencies. DB and CH are probed when they implement
// Pinger. Watermark is read to tell whether intake is still advancing
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	Dialect     string
	DB          any
	CH          any
	Watermark   domain.Watermark
	StaleAfter  time.Duration
	Now         func() time.Time
}

type handlers struct {
	deps Deps
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	if d.Now == nil {
		d.Now = time.Now
	}
	h := &handlers{deps: d}
	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
}

// HealthResponse is the liveness payload
type HealthResponse struct {
	OK      bool   `json:"ok"      example:"true"`
	Service string `json:"service" example:"remindme-api"`
	Started string `json:"started" example:"2026-03-10T12:00:00Z"`
	Uptime  int64  `json:"uptime"  example:"300"`
}

// ReadyCheck describes a single dependency check
type ReadyCheck struct {
	Name   string `json:"name"   example:"sqlite"`
	Status string `json:"status" example:"ok"` // ok fail stale skipped unknown
	Error  string `json:"error,omitempty" example:"dial tcp 127.0.0.1:5432 connect: connection refused"`
}

// ReadyResponse summarizes readiness
type ReadyResponse struct {
	Status    string       `json:"status" example:"ok"` // ok degraded fail
	Checks    []ReadyCheck `json:"checks"`
	Watermark string       `json:"watermark,omitempty" example:"2026-03-10T11:59:30Z"`
	Now       string       `json:"now"    example:"2026-03-10T12:00:00Z"`
}

// @Summary Liveness and uptime
// @Tags Meta
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /meta/health [get]
func (h *handlers) health(_ *http.Request) (any, error) {
	return HealthResponse{
		OK:      true,
		Service: h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(h.deps.Now().Sub(h.deps.StartedAt) / time.Second),
	}, nil
}

// @Summary Readiness probe over the stores and the intake watermark
// @Tags Meta
// @Produce json
// @Success 200 {object} ReadyResponse
// @Router /meta/ready [get]
func (h *handlers) ready(r *http.Request) (any, error) {
	parent := context.Background()
	if r != nil {
		parent = r.Context()
	}
	ctx, cancel := context.WithTimeout(parent, 2*time.Second)
	defer cancel()

	name := h.deps.Dialect
	if name == "" {
		name = "db"
	}
	checks := []ReadyCheck{ping(ctx, name, h.deps.DB), ping(ctx, "ch", h.deps.CH)}
	wm, last := h.watermark(ctx)
	checks = append(checks, wm)

	overall := "ok"
	for _, c := range checks {
		switch c.Status {
		case "fail":
			overall = "fail"
		case "unknown", "stale":
			if overall == "ok" {
				overall = "degraded"
			}
		}
	}
	// the primary store is the one dependency that may not be skipped
	if checks[0].Status == "skipped" {
		overall = "fail"
	}

	out := ReadyResponse{Status: overall, Checks: checks, Now: h.deps.Now().UTC().Format(time.RFC3339)}
	if !last.IsZero() {
		out.Watermark = last.UTC().Format(time.RFC3339)
	}
	return out, nil
}

func ping(ctx context.Context, name string, c any) ReadyCheck {
	if c == nil {
		return ReadyCheck{Name: name, Status: "skipped"}
	}
	p, ok := c.(Pinger)
	if !ok {
		return ReadyCheck{Name: name, Status: "unknown"}
	}
	if err := p.Ping(ctx); err != nil {
		return ReadyCheck{Name: name, Status: "fail", Error: err.Error()}
	}
	return ReadyCheck{Name: name, Status: "ok"}
}

// watermark reports stale when intake has not moved the cursor within
// StaleAfter. A zero cursor is skipped
func (h *handlers) watermark(ctx context.Context) (ReadyCheck, time.Time) {
	c := ReadyCheck{Name: "watermark", Status: "skipped"}
	if h.deps.Watermark == nil {
		return c, time.Time{}
	}
	at, err := h.deps.Watermark.Get(ctx)
	switch {
	case err != nil:
		c.Status, c.Error = "fail", err.Error()
	case at.IsZero():
	case h.deps.StaleAfter > 0 && h.deps.Now().Sub(at) > h.deps.StaleAfter:
		c.Status = "stale"
	default:
		c.Status = "ok"
	}
	return c, at
}

// @Summary Build and version info
// @Tags Meta
// @Produce json
// @Success 200 {object} version.BuildInfo
// @Router /meta/version [get]
func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(h.deps.ServiceName), nil
}
