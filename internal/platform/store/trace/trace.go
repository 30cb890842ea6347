// Package trace carries SQL query events from the store adapters to a logger
package trace

import (
	"context"
	"strings"
	"time"

	"remindme/internal/platform/logger"

	"github.com/rs/zerolog"
)

// QueryEvent describes one statement executed by a store adapter
type QueryEvent struct {
	Backend   string
	SQL       string
	Args      any
	ElapsedUS int64
	Err       error
	Slow      bool
}

// QueryTracer receives query events
type QueryTracer interface {
	OnQuery(ctx context.Context, ev QueryEvent)
}

// Emitter stamps timing and slowness on events before handing them to a tracer.
// A zero Emitter (nil Tracer) drops everything
type Emitter struct {
	Backend string
	Tracer  QueryTracer
	SlowMs  int
}

// Emit records a finished statement that started at start
func (e Emitter) Emit(ctx context.Context, sql string, args []any, start time.Time, err error) {
	if e.Tracer == nil {
		return
	}
	elapsedUS := time.Since(start).Microseconds()
	e.Tracer.OnQuery(ctx, QueryEvent{
		Backend:   e.Backend,
		SQL:       sql,
		Args:      args,
		ElapsedUS: elapsedUS,
		Err:       err,
		Slow:      e.SlowMs >= 0 && elapsedUS >= int64(e.SlowMs)*1000,
	})
}

// Zerolog returns a tracer that always prints SQL regardless of the process-wide level.
// Used when LOG_SQL is on for a backend
func Zerolog(root logger.Logger, component string) QueryTracer {
	ll := root.Level(zerolog.DebugLevel).With().Str("component", component).Logger()
	return &zlTracer{log: ll}
}

type zlTracer struct{ log logger.Logger }

func (z *zlTracer) OnQuery(_ context.Context, ev QueryEvent) {
	evt := z.log.Info()
	if ev.Slow {
		evt = z.log.Warn()
	}

	evt.Float64("elapsed_ms", float64(ev.ElapsedUS)/1000.0).
		Bool("slow", ev.Slow).
		Str("sql", compact(ev.SQL)).
		Interface("args", ev.Args).
		Err(ev.Err).
		Msg(ev.Backend + " query")
}

// compact squashes whitespace runs so multi-line SQL fits a single log line
func compact(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		switch r {
		case '\n', '\t', '\r', ' ':
			if !space {
				b.WriteByte(' ')
				space = true
			}
			continue
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}
