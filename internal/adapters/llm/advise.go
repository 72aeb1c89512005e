package llm

import (
	"context"
	"fmt"
	"strings"

	perr "b4b/internal/platform/errors"

	"github.com/shopspring/decimal"
)

const (
	adviseTemperature = 0.7
	adviseMaxTokens   = 500
)

const advisorPrompt = `You are a blunt but kind personal finance coach.
You get a summary of one person's spending for the current month and their monthly savings goal.
Answer in at most five short bullet points: where the money goes, what to cut first, and
whether the goal is realistic at the current pace. Use the currency amounts as given.`

// Advise asks the larger model for spending advice on a month summary
func (c *Client) Advise(ctx context.Context, summary string, goal decimal.Decimal) (string, error) {
	content, err := c.complete(ctx, completion{
		op:          "advise",
		model:       c.opts.ModelFull,
		system:      advisorPrompt,
		user:        fmt.Sprintf("%s\n\nMonthly savings goal: %s", strings.TrimSpace(summary), goal.StringFixed(0)),
		temperature: adviseTemperature,
		maxTokens:   adviseMaxTokens,
	})
	if err != nil {
		return "", err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return "", perr.EmptyResponsef("llm returned empty advice")
	}
	return content, nil
}
