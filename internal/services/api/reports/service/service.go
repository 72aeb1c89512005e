// Package service builds spending reports from normalized records
package service

import (
	"context"
	"time"

	perr "b4b/internal/platform/errors"
	"b4b/internal/platform/logger"
	ptime "b4b/internal/platform/time"
	"b4b/internal/services/api/reports/domain"
	rawdom "b4b/internal/services/rawmessages/domain"
	recdom "b4b/internal/services/records/domain"

	"github.com/shopspring/decimal"
)

// FallbackAdvice is returned in place of advice when the advisor fails
const FallbackAdvice = "Advice is unavailable right now. Please try again later."

var hundred = decimal.NewFromInt(100)

// Advisor turns a spending summary and a goal into advice
type Advisor interface {
	Advise(ctx context.Context, summary string, goal decimal.Decimal) (string, error)
}

// Config carries report defaults
type Config struct {
	SavingsGoal decimal.Decimal
	Currency    string
	Location    *time.Location
}

// Service implements domain.ReportsPort
type Service struct {
	Records recdom.ReaderPort
	Raw     rawdom.ReaderPort
	Advisor Advisor
	Cfg     Config

	now func() time.Time
}

// New constructs the reports service
func New(records recdom.ReaderPort, raw rawdom.ReaderPort, advisor Advisor, cfg Config) *Service {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Currency == "" {
		cfg.Currency = "CZK"
	}
	return &Service{Records: records, Raw: raw, Advisor: advisor, Cfg: cfg, now: time.Now}
}

// monthStart is midnight on the first of the current month in the report location
func (s *Service) monthStart() time.Time {
	return ptime.MonthStart(s.now(), s.Cfg.Location)
}

// Quick implements domain.ReportsPort
func (s *Service) Quick(ctx context.Context) (domain.QuickStats, error) {
	since := s.monthStart()
	tot, err := s.Records.TotalsSince(ctx, since)
	if err != nil {
		return domain.QuickStats{}, err
	}
	pending, err := s.Raw.CountByProcessed(ctx, false)
	if err != nil {
		return domain.QuickStats{}, perr.FromPostgres(err, "count pending")
	}
	return domain.QuickStats{
		Since:    since,
		Total:    tot.Amount,
		Currency: s.Cfg.Currency,
		Count:    tot.Count,
		Pending:  pending,
	}, nil
}

// Detailed implements domain.ReportsPort
func (s *Service) Detailed(ctx context.Context) (domain.Detailed, error) {
	since := s.monthStart()
	tot, err := s.Records.TotalsSince(ctx, since)
	if err != nil {
		return domain.Detailed{}, err
	}
	cats, err := s.Records.TopCategoriesSince(ctx, since, domain.TopN)
	if err != nil {
		return domain.Detailed{}, err
	}

	out := domain.Detailed{Since: since, Total: tot.Amount, Currency: s.Cfg.Currency, Top: make([]domain.CategoryShare, 0, len(cats))}
	for _, c := range cats {
		out.Top = append(out.Top, domain.CategoryShare{
			Category: c.Category,
			Amount:   c.Amount,
			Count:    c.Count,
			Percent:  percent(c.Amount, tot.Amount),
		})
	}
	return out, nil
}

// Advice implements domain.ReportsPort
// advisor failures degrade to FallbackAdvice, only report errors are returned
func (s *Service) Advice(ctx context.Context, goal *decimal.Decimal) (domain.Advice, error) {
	g := s.Cfg.SavingsGoal
	if goal != nil {
		g = *goal
	}
	if g.IsNegative() {
		return domain.Advice{}, perr.WithField(perr.InvalidArgf("savings goal must not be negative"), "goal")
	}

	det, err := s.Detailed(ctx)
	if err != nil {
		return domain.Advice{}, err
	}

	out := domain.Advice{Goal: g, Report: det}
	if s.Advisor == nil {
		out.Message, out.Fallback = FallbackAdvice, true
		return out, nil
	}

	text, err := s.Advisor.Advise(ctx, det.Text(), g)
	if err != nil {
		logger.C(ctx).Warn().Err(err).Msg("reports: advisor failed, sending fallback")
		out.Message, out.Fallback = FallbackAdvice, true
		return out, nil
	}
	out.Message = text
	return out, nil
}

func percent(part, total decimal.Decimal) decimal.Decimal {
	if !total.IsPositive() {
		return decimal.Zero
	}
	return part.Mul(hundred).Div(total).Round(1)
}
