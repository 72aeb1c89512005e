// Package service reads normalized records for status and reports
package service

import (
	"context"
	"time"

	"b4b/internal/modkit/repokit"
	perr "b4b/internal/platform/errors"
	"b4b/internal/services/records/domain"
	"b4b/internal/services/records/repo"
)

// Service implements domain.ReaderPort
type Service struct {
	DB     repokit.TxRunner
	Binder repokit.Binder[repo.Storage]
}

// New constructs a records reader
func New(db repokit.TxRunner, b repokit.Binder[repo.Storage]) *Service {
	return &Service{DB: db, Binder: b}
}

// CountAll implements domain.ReaderPort
func (s *Service) CountAll(ctx context.Context) (int64, error) {
	var n int64
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		n, err = s.Binder.Bind(q).CountAll(ctx)
		return err
	})
	return n, perr.FromPostgres(err, "count records")
}

// TotalsSince implements domain.ReaderPort
func (s *Service) TotalsSince(ctx context.Context, since time.Time) (domain.Totals, error) {
	var out domain.Totals
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		out, err = s.Binder.Bind(q).TotalsSince(ctx, since)
		return err
	})
	return out, perr.FromPostgres(err, "sum records")
}

// TopCategoriesSince implements domain.ReaderPort, limit is clamped to 1..20
func (s *Service) TopCategoriesSince(ctx context.Context, since time.Time, limit int) ([]domain.CategoryTotal, error) {
	if limit <= 0 {
		limit = 5
	}
	if limit > 20 {
		limit = 20
	}
	var out []domain.CategoryTotal
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		out, err = s.Binder.Bind(q).TopCategoriesSince(ctx, since, limit)
		return err
	})
	return out, perr.FromPostgres(err, "top categories")
}
