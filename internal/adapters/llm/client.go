// Package llm is the client for an OpenAI compatible chat completions API
// it turns batches of expense texts into ID correlated records and writes spending advice
package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	perr "b4b/internal/platform/errors"
	"b4b/internal/platform/logger"
	"b4b/internal/platform/metrics"

	"github.com/go-resty/resty/v2"
	"github.com/sethvargo/go-retry"
	"github.com/tidwall/gjson"
)

const (
	baseURLDefault   = "https://api.openai.com/v1"
	defaultTimeout   = 60 * time.Second
	defaultMaxRetry  = 2
	defaultRetryBase = 500 * time.Millisecond
	defaultModelMini = "gpt-4o-mini"
	defaultModelFull = "gpt-4o"
	maxBackoff       = 10 * time.Second
)

// Options configures the Client
type Options struct {
	BaseURL   string `validate:"required,url"`
	APIKey    string `validate:"required"`
	ModelMini string
	ModelFull string
	Timeout   time.Duration

	// MaxRetries counts extra attempts after the first for transient failures
	MaxRetries int `validate:"gte=0,lte=10"`
	RetryBase  time.Duration
}

// Client talks to the completions endpoint, it holds no state besides the http client
type Client struct {
	http    *resty.Client
	opts    Options
	log     logger.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewClient creates a Client, zero options fall back to defaults
func NewClient(o Options, m *metrics.Metrics) *Client {
	if o.BaseURL == "" {
		o.BaseURL = baseURLDefault
	}
	if o.ModelMini == "" {
		o.ModelMini = defaultModelMini
	}
	if o.ModelFull == "" {
		o.ModelFull = defaultModelFull
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = defaultMaxRetry
	}
	if o.RetryBase <= 0 {
		o.RetryBase = defaultRetryBase
	}

	hc := resty.New().
		SetBaseURL(strings.TrimRight(o.BaseURL, "/")).
		SetTimeout(o.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetAuthToken(o.APIKey)

	return &Client{
		http:    hc,
		opts:    o,
		log:     *logger.Named("llm"),
		metrics: m,
		now:     time.Now,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

// completion is one call shape, op labels logs and metrics
type completion struct {
	op          string
	model       string
	system      string
	user        string
	temperature float64
	maxTokens   int
}

// statusError is a non 2xx reply
type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string { return http.StatusText(e.status) + ": " + e.body }

// complete posts one chat completion and returns choices[0].message.content
// network errors, 429 and 5xx are retried with jittered exponential backoff
func (c *Client) complete(ctx context.Context, in completion) (string, error) {
	body := chatRequest{
		Model: in.model,
		Messages: []chatMessage{
			{Role: "system", Content: in.system},
			{Role: "user", Content: in.user},
		},
		Temperature: in.temperature,
		MaxTokens:   in.maxTokens,
	}

	b := retry.NewExponential(c.opts.RetryBase)
	b = retry.WithCappedDuration(maxBackoff, b)
	b = retry.WithJitterPercent(20, b)
	b = retry.WithMaxRetries(uint64(c.opts.MaxRetries), b)

	start := c.now()
	attempt := 0
	var raw []byte
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		resp, err := c.http.R().SetContext(ctx).SetBody(body).Post("/chat/completions")
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.log.Warn().Err(err).Str("op", in.op).Int("attempt", attempt).Msg("llm transport error")
			return retry.RetryableError(err)
		}
		if !resp.IsSuccess() {
			se := &statusError{status: resp.StatusCode(), body: tail(resp.String(), 512)}
			if retryableStatus(resp.StatusCode()) {
				c.log.Warn().Int("status", resp.StatusCode()).Str("op", in.op).Int("attempt", attempt).Msg("llm transient status")
				return retry.RetryableError(se)
			}
			return se
		}
		raw = resp.Body()
		return nil
	})
	took := c.now().Sub(start)

	if err != nil {
		err = transportError(err)
		c.metrics.LLM(in.op, took, err)
		return "", err
	}

	content, err := c.extract(ctx, in.op, raw)
	c.metrics.LLM(in.op, took, err)
	if err == nil {
		logger.C(ctx).Debug().Str("op", in.op).Dur("took", took).Int("attempts", attempt).Msg("llm completion")
	}
	return content, err
}

// extract pulls the first choice content out of a completions envelope
func (c *Client) extract(ctx context.Context, op string, raw []byte) (string, error) {
	if !gjson.ValidBytes(raw) {
		return "", perr.Malformedf("llm %s: response is not json", op)
	}
	if tokens := gjson.GetBytes(raw, "usage.total_tokens"); tokens.Exists() {
		c.metrics.Tokens(tokens.Int())
		logger.C(ctx).Info().Str("op", op).Int64("total_tokens", tokens.Int()).Msg("llm usage")
	}
	if gjson.GetBytes(raw, "choices.#").Int() == 0 {
		return "", perr.Malformedf("llm %s: no choices in response", op)
	}
	return gjson.GetBytes(raw, "choices.0.message.content").String(), nil
}

func transportError(err error) error {
	var se *statusError
	switch {
	case errors.As(err, &se):
		return perr.Wrapf(err, perr.ErrorCodeTransport, "llm status %d", se.status)
	case errors.Is(err, context.DeadlineExceeded):
		return perr.Wrap(err, perr.ErrorCodeTransport, "llm deadline exceeded")
	case errors.Is(err, context.Canceled):
		return perr.Wrap(err, perr.ErrorCodeTransport, "llm call cancelled")
	default:
		return perr.Wrap(err, perr.ErrorCodeTransport, "llm request failed")
	}
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code == http.StatusRequestTimeout || code >= 500
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.ToValidUTF8(s[:n], "")
}
