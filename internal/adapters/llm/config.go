package llm

import (
	"b4b/internal/platform/config"
	"b4b/internal/platform/net/http/bind"
)

// FromConfig reads LLM_* keys and validates the result
func FromConfig(cfg config.Conf) (Options, error) {
	c := cfg.Prefix("LLM_")
	o := Options{
		BaseURL:    c.MayString("BASE_URL", baseURLDefault),
		APIKey:     c.MayString("API_KEY", ""),
		ModelMini:  c.MayString("MODEL_MINI", defaultModelMini),
		ModelFull:  c.MayString("MODEL_FULL", defaultModelFull),
		Timeout:    c.MayDuration("TIMEOUT", defaultTimeout),
		MaxRetries: c.MayInt("RETRIES", defaultMaxRetry),
		RetryBase:  c.MayDuration("RETRY_BASE", defaultRetryBase),
	}
	return o, bind.Struct(o)
}
