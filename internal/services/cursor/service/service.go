// Package service keeps the inbound sequence cursor
package service

import (
	"context"
	"strconv"

	"b4b/internal/modkit/repokit"
	perr "b4b/internal/platform/errors"
	"b4b/internal/services/cursor/domain"
	"b4b/internal/services/cursor/repo"
)

// Service implements domain.CursorPort
type Service struct {
	DB     repokit.TxRunner
	Binder repokit.Binder[repo.Storage]
	Key    string
}

// New constructs a cursor over domain.SequenceKey
func New(db repokit.TxRunner, b repokit.Binder[repo.Storage]) *Service {
	return &Service{DB: db, Binder: b, Key: domain.SequenceKey}
}

// Get implements domain.CursorPort
func (s *Service) Get(ctx context.Context) (int64, error) {
	var raw string
	var ok bool
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		raw, ok, err = s.Binder.Bind(q).Value(ctx, s.Key)
		return err
	})
	if err != nil {
		return 0, perr.FromPostgresf(err, "read cursor %s", s.Key)
	}
	if !ok {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "cursor %s holds %q", s.Key, raw)
	}
	return v, nil
}

// Set implements domain.CursorPort
func (s *Service) Set(ctx context.Context, value int64) error {
	return s.DB.Tx(ctx, func(q repokit.Queryer) error {
		return perr.FromPostgresf(
			s.Binder.Bind(q).Upsert(ctx, s.Key, strconv.FormatInt(value, 10)),
			"write cursor %s", s.Key,
		)
	})
}
