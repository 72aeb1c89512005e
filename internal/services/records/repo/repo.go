// Package repo provides the postgres storage for normalized records
package repo

import (
	"context"
	"time"

	"b4b/internal/modkit/repokit"
	"b4b/internal/platform/store"
	"b4b/internal/services/records/domain"

	"github.com/shopspring/decimal"
)

type binder struct{}

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage is the normalized_records surface
type Storage interface {
	// Insert fails with a unique violation when the origin already has a record
	Insert(ctx context.Context, r domain.Record) (int64, error)
	CountAll(ctx context.Context) (int64, error)
	TotalsSince(ctx context.Context, since time.Time) (domain.Totals, error)
	TopCategoriesSince(ctx context.Context, since time.Time, limit int) ([]domain.CategoryTotal, error)
}

type pg struct{ q repokit.Queryer }

// amounts travel as text so no precision is lost to float on either side
func (s *pg) Insert(ctx context.Context, r domain.Record) (int64, error) {
	return store.Scalar[int64](ctx, s.q, `
		insert into normalized_records
			(origin_raw_message_id, label, amount, currency, category, sentiment_tag, occurred_at)
		values ($1, $2, $3::numeric, $4, $5, $6, $7)
		returning id`,
		r.OriginRawMessageID, r.Label, r.Amount.StringFixed(2), r.Currency, r.Category, r.SentimentTag, r.OccurredAt,
	)
}

func (s *pg) CountAll(ctx context.Context) (int64, error) {
	return store.Scalar[int64](ctx, s.q, `select count(*) from normalized_records`)
}

func (s *pg) TotalsSince(ctx context.Context, since time.Time) (domain.Totals, error) {
	var (
		sum string
		out domain.Totals
	)
	err := s.q.QueryRow(ctx, `
		select coalesce(sum(amount), 0)::text, count(*)
		from normalized_records
		where occurred_at >= $1`, since).Scan(&sum, &out.Count)
	if err != nil {
		return domain.Totals{}, err
	}
	out.Amount, err = decimal.NewFromString(sum)
	return out, err
}

func (s *pg) TopCategoriesSince(ctx context.Context, since time.Time, limit int) ([]domain.CategoryTotal, error) {
	return store.Many(ctx, s.q, func(r store.Row) (domain.CategoryTotal, error) {
		var (
			c   domain.CategoryTotal
			sum string
		)
		if err := r.Scan(&c.Category, &sum, &c.Count); err != nil {
			return c, err
		}
		var err error
		c.Amount, err = decimal.NewFromString(sum)
		return c, err
	}, `
		select category, sum(amount)::text, count(*)
		from normalized_records
		where occurred_at >= $1
		group by category
		order by sum(amount) desc, category
		limit $2`, since, limit)
}
