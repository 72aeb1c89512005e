package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"b4b/internal/core/textclean"
	perr "b4b/internal/platform/errors"
	"b4b/internal/platform/logger"
	"b4b/internal/platform/net/http/bind"

	"github.com/shopspring/decimal"
)

// Categories is the closed vocabulary records are sorted into
var Categories = []string{
	"Overpriced-Food", "Essential-Food", "Transport", "Rent", "Fun",
	"Tech", "Utilities", "Shopping", "Health", "Other",
}

// CategoryOther absorbs anything outside the vocabulary
const CategoryOther = "Other"

var categoryByKey = func() map[string]string {
	m := make(map[string]string, len(Categories))
	for _, c := range Categories {
		m[textclean.Fold(c)] = c
	}
	return m
}()

// CanonicalCategory maps a loosely spelled category onto the vocabulary
func CanonicalCategory(s string) string {
	if c, ok := categoryByKey[textclean.Fold(s)]; ok {
		return c
	}
	return CategoryOther
}

const (
	normalizeTemperature = 0.3
	normalizeMaxTokens   = 2000
)

const categorizePrompt = `You turn short personal expense notes into structured records.

Each input line has the form "ID: <id> | Text: <text>".
Reply with a raw JSON array and nothing else: no prose, no markdown fences.
Emit exactly one object per input line you can read as an expense, using these keys:
  "id"            the numeric id copied unchanged from the line
  "item_name"     a short label for what was bought
  "amount"        the amount as a number, no currency symbol
  "currency"      ISO 4217 code if the text names or implies one, omit it otherwise
  "category"      one of: Overpriced-Food, Essential-Food, Transport, Rent, Fun, Tech, Utilities, Shopping, Health, Other
  "sentiment_tag" optional one or two word mood of the note, for example "regret" or "necessary"

Restaurant meals, delivery and cafe treats are Overpriced-Food. Groceries are Essential-Food.
Skip lines that are not expenses. Never invent ids.`

// RequestItem is one message sent for normalization, ID comes back unchanged
type RequestItem struct {
	ID   int64
	Text string
}

// ResultItem is one normalized expense as returned by the model
type ResultItem struct {
	ID           int64           `json:"id" validate:"required"`
	ItemName     string          `json:"item_name" validate:"required"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency" validate:"omitempty,currency"`
	Category     string          `json:"category" validate:"required"`
	SentimentTag string          `json:"sentiment_tag"`
}

// wireItem accepts the loose shapes models emit (quoted ids, quoted amounts)
type wireItem struct {
	ID           flexInt             `json:"id"`
	ItemName     string              `json:"item_name"`
	Amount       decimal.NullDecimal `json:"amount"`
	Currency     string              `json:"currency"`
	Category     string              `json:"category"`
	SentimentTag string              `json:"sentiment_tag"`
}

type flexInt int64

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(b)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	*f = flexInt(n)
	return nil
}

// Normalize sends the batch and returns the parsed items
// it does not check that every id came back, the caller reconciles by id
func (c *Client) Normalize(ctx context.Context, items []RequestItem) ([]ResultItem, error) {
	if len(items) == 0 {
		return nil, nil
	}

	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, "ID: "+strconv.FormatInt(it.ID, 10)+" | Text: "+oneLine(it.Text))
	}

	content, err := c.complete(ctx, completion{
		op:          "normalize",
		model:       c.opts.ModelMini,
		system:      categorizePrompt,
		user:        strings.Join(lines, "\n"),
		temperature: normalizeTemperature,
		maxTokens:   normalizeMaxTokens,
	})
	if err != nil {
		return nil, err
	}
	return ParseResults(ctx, content)
}

// ParseResults decodes model content into result items
// blank content or an empty array is EmptyResponse, anything unparsable is MalformedResponse
// items that fail validation are dropped and logged so their messages stay pending,
// when every item is dropped the batch is EmptyResponse
func ParseResults(ctx context.Context, content string) ([]ResultItem, error) {
	content = StripFences(content)
	if content == "" {
		return nil, perr.EmptyResponsef("llm returned empty content")
	}

	var wire []wireItem
	if err := json.Unmarshal([]byte(content), &wire); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeMalformedResponse, "llm content is not a json array of records")
	}
	if len(wire) == 0 {
		return nil, perr.EmptyResponsef("llm returned no records")
	}

	log := logger.C(ctx)
	out := make([]ResultItem, 0, len(wire))
	for _, w := range wire {
		if !w.Amount.Valid {
			log.Warn().Int64("id", int64(w.ID)).Msg("dropping llm record without amount")
			continue
		}
		it := ResultItem{
			ID:           int64(w.ID),
			ItemName:     strings.TrimSpace(w.ItemName),
			Amount:       w.Amount.Decimal,
			Currency:     strings.ToUpper(strings.TrimSpace(w.Currency)),
			Category:     CanonicalCategory(w.Category),
			SentimentTag: strings.TrimSpace(w.SentimentTag),
		}
		if !bind.IsCurrencyCode(it.Currency) {
			it.Currency = ""
		}
		if err := bind.Struct(it); err != nil {
			log.Warn().Err(err).Int64("id", it.ID).Msg("dropping invalid llm record")
			continue
		}
		if it.Amount.IsNegative() {
			log.Warn().Int64("id", it.ID).Str("amount", it.Amount.String()).Msg("dropping negative amount")
			continue
		}
		out = append(out, it)
	}
	if len(out) == 0 {
		return nil, perr.EmptyResponsef("llm returned no usable records")
	}
	return out, nil
}

// StripFences removes a surrounding ``` or ```json block and trims whitespace
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 && !strings.ContainsAny(s[:nl], "[{") {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(strings.TrimPrefix(s, "json"), "JSON")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
