// Package domain defines the month to date spending reports
package domain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TopN is how many categories the detailed report lists
const TopN = 5

// QuickStats is the month to date headline
type QuickStats struct {
	Since    time.Time       `json:"since"`
	Total    decimal.Decimal `json:"total"    example:"1234.50"`
	Currency string          `json:"currency" example:"CZK"`
	Count    int64           `json:"count"    example:"17"`
	Pending  int64           `json:"pending"  example:"2"`
}

// CategoryShare is one category's slice of the month
type CategoryShare struct {
	Category string          `json:"category" example:"Essential-Food"`
	Amount   decimal.Decimal `json:"amount"   example:"850.00"`
	Count    int64           `json:"count"    example:"6"`
	Percent  decimal.Decimal `json:"percent"  example:"42.5"`
}

// Detailed is the month to date total plus the top categories
type Detailed struct {
	Since    time.Time       `json:"since"`
	Total    decimal.Decimal `json:"total"    example:"2000.00"`
	Currency string          `json:"currency" example:"CZK"`
	Top      []CategoryShare `json:"top"`
}

// Advice pairs the detailed report with the advisor's answer
// Fallback is true when the advisor could not be reached and Message is the canned reply
type Advice struct {
	Goal     decimal.Decimal `json:"goal"     example:"5000"`
	Report   Detailed        `json:"report"`
	Message  string          `json:"message"`
	Fallback bool            `json:"fallback"`
}

// AdviceInput optionally overrides the configured savings goal
type AdviceInput struct {
	Goal *decimal.Decimal `json:"goal,omitempty" example:"5000"`
}

// ReportsPort is shared by the HTTP handlers and the chat commands
type ReportsPort interface {
	Quick(ctx context.Context) (QuickStats, error)
	Detailed(ctx context.Context) (Detailed, error)
	Advice(ctx context.Context, goal *decimal.Decimal) (Advice, error)
}

// Text renders the stats for chat
func (q QuickStats) Text() string {
	return fmt.Sprintf("Monthly stats (since %s)\n\nTotal spent: %s %s\nRecords: %d\nPending processing: %d",
		q.Since.Format(time.DateOnly), q.Total.StringFixed(2), q.Currency, q.Count, q.Pending)
}

// Text renders the report for chat and for the advisor prompt
func (d Detailed) Text() string {
	var b strings.Builder
	b.WriteString("Monthly financial report\n\n")
	fmt.Fprintf(&b, "Total spent: %s %s\n\n", d.Total.StringFixed(2), d.Currency)
	if len(d.Top) == 0 {
		b.WriteString("No records found for this month.")
		return b.String()
	}
	b.WriteString("Top spending categories:\n")
	for i, c := range d.Top {
		fmt.Fprintf(&b, "%d. %s: %s %s (%s%%)\n", i+1, c.Category, c.Amount.StringFixed(2), d.Currency, c.Percent.StringFixed(1))
	}
	return strings.TrimRight(b.String(), "\n")
}

// Text renders the advice for chat
func (a Advice) Text() string {
	return fmt.Sprintf("Savings goal: %s %s\n\n%s\n\n%s", a.Goal.StringFixed(2), a.Report.Currency, a.Report.Text(), a.Message)
}
