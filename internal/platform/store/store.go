// Package store owns the postgres pool every b4b repo runs on
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"b4b/internal/platform/logger"
	"b4b/internal/platform/store/pg"

	"github.com/sethvargo/go-retry"
)

// Row is a single row scan
type Row interface {
	Scan(dest ...any) error
}

// Rows is a result set
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
	Columns() []string
}

// CommandTag reports what a statement changed
type CommandTag interface {
	String() string
	RowsAffected() int64
}

// RowQuerier is the read and write surface repos use
type RowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// TxRunner is a RowQuerier that can also run fn inside one transaction
type TxRunner interface {
	RowQuerier
	Tx(ctx context.Context, fn func(q RowQuerier) error) error
}

// Locker runs fn while holding a session advisory lock on key
// acquired is false and fn is not called when another session holds it
type Locker interface {
	TryLock(ctx context.Context, key int64, fn func(context.Context) error) (acquired bool, err error)
}

// Store is the opened backend, the zero value has no pool
type Store struct {
	PG TxRunner
}

// ping tuning, the server may still be starting when the api boots next to it
var (
	pingAttempts uint64 = 20
	pingTimeout         = 3 * time.Second
	pingBackoff         = 150 * time.Millisecond
	pingCeiling         = 2 * time.Second
)

// Open creates the pool, waits until postgres answers and applies migrations when cfg.Migrate is set
func Open(ctx context.Context, cfg Config, log logger.Logger) (*Store, error) {
	var tracer pg.QueryTracer
	if cfg.LogSQL {
		tracer = pg.Tracer(log)
	}
	p, err := pg.Open(ctx, pg.Config{
		URL:      cfg.URL,
		AppName:  cfg.AppName,
		MaxConns: cfg.MaxConns,
		SlowMs:   cfg.SlowQueryMs,
	}, tracer)
	if err != nil {
		return nil, err
	}
	a := newPGAdapter(p)

	b := retry.NewExponential(pingBackoff)
	b = retry.WithCappedDuration(pingCeiling, b)
	b = retry.WithMaxRetries(pingAttempts-1, b)
	attempt := 0
	err = retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		pctx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		if err := p.Pool.Ping(pctx); err != nil {
			log.Warn().Err(err).Int("attempt", attempt).Msg("store: postgres not ready")
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("store: postgres unreachable after %d attempts: %w", attempt, err)
	}

	if cfg.Migrate {
		if err := a.migrate(ctx, log); err != nil {
			p.Close()
			return nil, err
		}
	}
	return &Store{PG: a}, nil
}

// Ping checks postgres answers a trivial query
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.PG == nil {
		return errors.New("store: not opened")
	}
	p, ok := s.PG.(interface{ Ping(context.Context) error })
	if !ok {
		return nil
	}
	if err := p.Ping(ctx); err != nil {
		return fmt.Errorf("store: ping: %w", err)
	}
	return nil
}

// Close closes the pool, if one was opened
func (s *Store) Close() {
	if c, ok := s.PG.(interface{ Close() error }); ok {
		_ = c.Close()
	}
}
