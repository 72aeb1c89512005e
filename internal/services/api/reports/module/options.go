package module

import (
	"time"

	"b4b/internal/platform/config"
	perr "b4b/internal/platform/errors"
	"b4b/internal/platform/net/http/bind"

	"github.com/shopspring/decimal"
)

// Options for the reports module
type Options struct {
	SavingsGoal decimal.Decimal
	Currency    string `validate:"required,currency"`
	Location    *time.Location
}

// FromConfig fills options from environment
// REPORTS_SAVINGS_GOAL (default 5000) is the goal /advice uses when none is given
// REPORTS_CURRENCY (default CZK) labels totals
// REPORTS_TIMEZONE (default UTC) decides where a month starts
func FromConfig(cfg config.Conf) (Options, error) {
	c := cfg.Prefix("REPORTS_")

	goal, err := decimal.NewFromString(c.MayString("SAVINGS_GOAL", "5000"))
	if err != nil {
		return Options{}, perr.WithField(perr.Wrap(err, perr.ErrorCodeValidation, "savings goal is not a number"), "REPORTS_SAVINGS_GOAL")
	}
	loc, err := time.LoadLocation(c.MayString("TIMEZONE", "UTC"))
	if err != nil {
		return Options{}, perr.WithField(perr.Wrap(err, perr.ErrorCodeValidation, "unknown timezone"), "REPORTS_TIMEZONE")
	}

	o := Options{
		SavingsGoal: goal,
		Currency:    c.MayString("CURRENCY", "CZK"),
		Location:    loc,
	}
	return o, bind.Struct(o)
}
