// Package logger owns the zerolog root logger and the context fields
// (request, run and chat ids) that ride along on every line
package logger

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"sync/atomic"
	"time"

	"b4b/internal/platform/config/raw"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Logger is the project wide logging type
type Logger = zerolog.Logger

// Options configures the root logger
type Options struct {
	Level   string
	Format  string // json or console
	Service string
	Caller  bool
	Sample  int // keep one line in Sample, 0 or 1 keeps all
	Out     io.Writer
	Fields  map[string]string
}

// FromEnv reads LOG_* keys
func FromEnv() Options {
	e := raw.New("LOG_")
	return Options{
		Level:   e.String("LEVEL", "info"),
		Format:  strings.ToLower(e.String("FORMAT", "console")),
		Service: e.String("SERVICE", "b4b"),
		Caller:  e.Bool("CALLER", false),
		Sample:  e.Int("SAMPLE_EVERY", 0),
	}
}

var root atomic.Pointer[Logger]

func init() {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339Nano
}

// Get returns the root logger, building it from the environment on first use
func Get() *Logger {
	if l := root.Load(); l != nil {
		return l
	}
	root.CompareAndSwap(nil, New(FromEnv()))
	return root.Load()
}

// Init replaces the root logger
func Init(opt Options) { root.Store(New(opt)) }

// New builds a standalone logger from opt
func New(opt Options) *Logger {
	out := opt.Out
	if out == nil {
		out = os.Stdout
	}
	if opt.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	b := zerolog.New(out).Level(ParseLevel(opt.Level)).With().Timestamp()
	if opt.Service != "" {
		b = b.Str("service", opt.Service)
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		b = b.Str("go_version", bi.GoVersion)
	}
	for k, v := range opt.Fields {
		b = b.Str(k, v)
	}
	if opt.Caller {
		b = b.Caller()
	}

	l := b.Logger()
	if opt.Sample > 1 {
		l = l.Sample(&zerolog.BasicSampler{N: uint32(opt.Sample)})
	}
	return &l
}

// ParseLevel maps a level name to zerolog, unknown or blank names give info
func ParseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || s == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

type ctxKey int

const (
	runKey ctxKey = iota
	chatKey
)

// WithRun tags ctx with a normalizer run id
func WithRun(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runKey, id)
}

// RunID returns the run id on ctx, if any
func RunID(ctx context.Context) string {
	id, _ := ctx.Value(runKey).(string)
	return id
}

// WithChat tags ctx with the chat an inbound message came from
func WithChat(ctx context.Context, id int64) context.Context {
	if id == 0 {
		return ctx
	}
	return context.WithValue(ctx, chatKey, id)
}

// C returns a child of the root logger carrying the ids found on ctx
// the request id is the one chi's RequestID middleware stored
func C(ctx context.Context) *Logger {
	b := Get().With()
	if id := chimw.GetReqID(ctx); id != "" {
		b = b.Str("request_id", id)
	}
	if id := RunID(ctx); id != "" {
		b = b.Str("run_id", id)
	}
	if id, _ := ctx.Value(chatKey).(int64); id != 0 {
		b = b.Int64("chat_id", id)
	}
	l := b.Logger()
	return &l
}

// Named returns a child of the root logger with a component field
func Named(component string) *Logger {
	l := Get().With().Str("component", component).Logger()
	return &l
}
