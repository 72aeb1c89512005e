// Package repo stores key value settings in app_config
package repo

import (
	"context"
	"errors"

	"b4b/internal/modkit/repokit"
	perr "b4b/internal/platform/errors"
	"b4b/internal/platform/store"
)

type binder struct{}

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage is the app_config surface
type Storage interface {
	// Value returns ok=false when the key is absent
	Value(ctx context.Context, key string) (string, bool, error)
	Upsert(ctx context.Context, key, value string) error
}

type pg struct{ q repokit.Queryer }

func (s *pg) Value(ctx context.Context, key string) (string, bool, error) {
	v, err := store.One(ctx, s.q, func(r store.Row) (string, error) {
		var v string
		return v, r.Scan(&v)
	}, `select value from app_config where key = $1`, key)
	if errors.Is(err, perr.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *pg) Upsert(ctx context.Context, key, value string) error {
	_, err := s.q.Exec(ctx, `
		insert into app_config (key, value, updated_at)
		values ($1, $2, now())
		on conflict (key) do update set value = excluded.value, updated_at = excluded.updated_at`,
		key, value)
	return err
}
