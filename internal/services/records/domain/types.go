// Package domain defines normalized expense records and their aggregates
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record is the structured result of normalizing one raw message, never mutated once written
type Record struct {
	ID                 int64
	OriginRawMessageID int64
	Label              string
	Amount             decimal.Decimal
	Currency           string
	Category           string
	SentimentTag       *string
	OccurredAt         time.Time
}

// Totals sums records over a window
type Totals struct {
	Amount decimal.Decimal
	Count  int64
}

// CategoryTotal is one row of a per category breakdown
type CategoryTotal struct {
	Category string
	Amount   decimal.Decimal
	Count    int64
}
