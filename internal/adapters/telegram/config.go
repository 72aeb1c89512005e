package telegram

import (
	"strconv"
	"strings"
	"time"

	"b4b/internal/platform/config"
	perr "b4b/internal/platform/errors"
	"b4b/internal/platform/net/http/bind"
)

const (
	defaultPollTimeout = 60
	defaultRetryDelay  = 5 * time.Second
)

// Options configures the long poll transport
type Options struct {
	Enabled bool
	Token   string `validate:"required_if=Enabled true"`

	// PollTimeout is the long poll wait in seconds
	PollTimeout int `validate:"gte=1,lte=600"`

	// RetryDelay is the pause before re-polling after a failed poll or staging
	RetryDelay time.Duration `validate:"gte=0"`

	// AllowedChats limits who may talk to the bot, empty allows everyone
	AllowedChats []int64
}

// FromConfig reads TELEGRAM_* keys and validates the result
func FromConfig(cfg config.Conf) (Options, error) {
	c := cfg.Prefix("TELEGRAM_")
	o := Options{
		Enabled:     c.MayBool("ENABLED", true),
		Token:       c.MayString("BOT_TOKEN", ""),
		PollTimeout: c.MayInt("POLL_TIMEOUT", defaultPollTimeout),
		RetryDelay:  c.MayDuration("RETRY_DELAY", defaultRetryDelay),
	}
	for _, s := range c.MayCSV("ALLOWED_CHATS", nil) {
		id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return Options{}, perr.WithField(perr.InvalidArgf("allowed chat %q is not a chat id", s), "TELEGRAM_ALLOWED_CHATS")
		}
		o.AllowedChats = append(o.AllowedChats, id)
	}
	return o, bind.Struct(o)
}
