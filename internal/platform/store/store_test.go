package store

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"b4b/internal/platform/config"
	"b4b/internal/platform/testkit"

	"github.com/rs/zerolog"
)

func TestOpen_BadURL(t *testing.T) {
	t.Parallel()

	s, err := Open(context.Background(), Config{URL: "://bad"}, zerolog.New(io.Discard))
	if err == nil || s != nil {
		t.Fatalf("want error and nil store, got %v %v", s, err)
	}
}

func TestOpen_GivesUpWhenPostgresNeverAnswers(t *testing.T) {
	testkit.Serial(t)
	testkit.Swap(t, &pingAttempts, 2)
	testkit.Swap(t, &pingBackoff, time.Millisecond)

	_, err := Open(context.Background(), Config{URL: "postgres://b4b:x@127.0.0.1:1/b4b?sslmode=disable&connect_timeout=1"}, zerolog.New(io.Discard))
	if err == nil || !strings.Contains(err.Error(), "after 2 attempts") {
		t.Fatalf("err=%v", err)
	}
}

func TestFromConfig(t *testing.T) {
	t.Setenv("SERVICE_PGSQL_DBURL", "postgres://b4b@localhost:5432/b4b")
	c := FromConfig(config.New(), "b4b")
	if c.AppName != "b4b" || c.URL != "postgres://b4b@localhost:5432/b4b" {
		t.Fatalf("c=%+v", c)
	}
	if c.MaxConns != 8 || c.SlowQueryMs != 500 || c.LogSQL || !c.Migrate {
		t.Fatalf("defaults c=%+v", c)
	}

	t.Setenv("SERVICE_PGSQL_MAX_CONNS", "3")
	t.Setenv("SERVICE_PGSQL_SLOW_MS", "10")
	t.Setenv("SERVICE_PGSQL_LOG_SQL", "true")
	t.Setenv("SERVICE_PGSQL_MIGRATE", "false")
	c = FromConfig(config.New(), "b4b-normalize")
	if c.MaxConns != 3 || c.SlowQueryMs != 10 || !c.LogSQL || c.Migrate {
		t.Fatalf("overrides c=%+v", c)
	}
}

func TestFromConfig_RequiresURL(t *testing.T) {
	t.Setenv("SERVICE_PGSQL_DBURL", "")
	testkit.MustPanic(t, func() { FromConfig(config.New(), "b4b") })
}

type pingRunner struct {
	memQ
	err    error
	closed bool
}

func (p *pingRunner) Tx(ctx context.Context, fn func(RowQuerier) error) error { return fn(p) }
func (p *pingRunner) Ping(context.Context) error                              { return p.err }
func (p *pingRunner) Close() error                                            { p.closed = true; return nil }

func TestStore_PingAndClose(t *testing.T) {
	t.Parallel()

	var nilStore *Store
	if err := nilStore.Ping(context.Background()); err == nil {
		t.Fatalf("nil store should not ping")
	}
	if err := (&Store{}).Ping(context.Background()); err == nil {
		t.Fatalf("store without pool should not ping")
	}
	(&Store{}).Close()

	down := &pingRunner{err: errors.New("connection refused")}
	s := &Store{PG: down}
	if err := s.Ping(context.Background()); err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Fatalf("ping err=%v", err)
	}
	s.Close()
	if !down.closed {
		t.Fatalf("Close did not reach the pool")
	}

	if err := (&Store{PG: &pingRunner{}}).Ping(context.Background()); err != nil {
		t.Fatalf("healthy ping: %v", err)
	}
}

func TestMigrations_Embedded(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"00001_raw_messages.sql", "00002_normalized_records.sql", "00003_app_config.sql"} {
		if _, err := Migrations().Open(name); err != nil {
			t.Fatalf("missing migration %s: %v", name, err)
		}
	}
}
