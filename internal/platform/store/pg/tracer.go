package pg

import (
	"context"
	"strings"

	"b4b/internal/platform/logger"

	"github.com/rs/zerolog"
)

// QueryEvent is one traced statement
type QueryEvent struct {
	SQL       string
	Args      any
	ElapsedUS int64
	Err       error
	Slow      bool
}

// QueryTracer receives every statement the store runs
type QueryTracer interface {
	OnQuery(ctx context.Context, ev QueryEvent)
}

// Tracer logs every statement with its args, whatever the root level is
// SERVICE_PGSQL_LOG_SQL switches it on, so it is meant for debugging sessions only
func Tracer(log logger.Logger) QueryTracer {
	return logTracer{log: log.Level(zerolog.DebugLevel).With().Str("component", "pg").Logger()}
}

type logTracer struct{ log logger.Logger }

func (t logTracer) OnQuery(ctx context.Context, ev QueryEvent) {
	e := t.log.Debug()
	switch {
	case ev.Err != nil:
		e = t.log.Error().Err(ev.Err)
	case ev.Slow:
		e = t.log.Warn()
	}
	if id := logger.RunID(ctx); id != "" {
		e = e.Str("run_id", id)
	}
	e.Str("sql", oneLine(ev.SQL)).
		Interface("args", ev.Args).
		Float64("ms", float64(ev.ElapsedUS)/1000).
		Bool("slow", ev.Slow).
		Msg("pg: query")
}

// oneLine collapses runs of whitespace so multi line statements log on one line
func oneLine(s string) string { return strings.Join(strings.Fields(s), " ") }
