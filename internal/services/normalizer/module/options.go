package module

import (
	"time"

	"b4b/internal/platform/config"
	"b4b/internal/platform/net/http/bind"
	"b4b/internal/services/normalizer/service"
)

// Options for the normalizer module
type Options struct {
	BatchSize        int           `validate:"min=1,max=500"`
	DefaultCurrency  string        `validate:"required,currency"`
	Schedule         string        `validate:"required"`
	DispatchTimeout  time.Duration `validate:"gt=0"`
	StatementTimeout time.Duration `validate:"gte=0"`
	LockKey          int64
}

// FromConfig fills options from environment
// NORMALIZER_BATCH_SIZE (default 50) caps how many messages one run dispatches
// NORMALIZER_DEFAULT_CURRENCY (default CZK) fills records the model left without a currency
// NORMALIZER_SCHEDULE (default "@every 5m") is a cron expression or descriptor
// NORMALIZER_DISPATCH_TIMEOUT (default 90s) bounds the external call
// NORMALIZER_STATEMENT_TIMEOUT (default 5s) bounds each commit transaction, 0 disables
// NORMALIZER_LOCK_KEY (default 7342) is the pg advisory lock key shared by every process
func FromConfig(cfg config.Conf) (Options, error) {
	n := cfg.Prefix("NORMALIZER_")
	o := Options{
		BatchSize:        n.MayInt("BATCH_SIZE", 50),
		DefaultCurrency:  n.MayString("DEFAULT_CURRENCY", "CZK"),
		Schedule:         n.MayString("SCHEDULE", service.DefaultSchedule),
		DispatchTimeout:  n.MayDuration("DISPATCH_TIMEOUT", 90*time.Second),
		StatementTimeout: n.MayDuration("STATEMENT_TIMEOUT", 5*time.Second),
		LockKey:          int64(n.MayInt("LOCK_KEY", 7342)),
	}
	return o, bind.Struct(o)
}
