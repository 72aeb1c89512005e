package domain

import (
	"context"
	"time"
)

// ReaderPort aggregates records for status and reporting
type ReaderPort interface {
	CountAll(ctx context.Context) (int64, error)
	TotalsSince(ctx context.Context, since time.Time) (Totals, error)
	TopCategoriesSince(ctx context.Context, since time.Time, limit int) ([]CategoryTotal, error)
}
