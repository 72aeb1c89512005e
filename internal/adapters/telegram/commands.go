package telegram

import (
	"context"
	"strings"

	"b4b/internal/platform/logger"

	"github.com/shopspring/decimal"
)

const welcomeText = `Welcome to BudgetBot!

I'm your personal expense tracker. Just send me messages like:
- Beer and chips 250
- Rent 15000 czk
- Groceries 850

I'll categorize and track your spending.

Commands:
/stats - Quick spending summary
/advice [goal] - Financial advice toward a savings goal
/sync - Process pending transactions
/status - System status
/help - Show this help`

const helpText = `BudgetBot commands

/start - Welcome message
/stats - Monthly spending summary
/advice [goal] - Financial advisor, goal defaults to the configured one
/sync - Process pending transactions now
/status - System status and counts
/help - Show this help

Send any other text to log an expense, e.g. "Coffee 85 czk"`

func (b *Bot) command(ctx context.Context, chatID int64, cmd, args string) {
	l := logger.C(ctx).With().Str("command", cmd).Logger()
	l.Info().Msg("telegram: command")

	switch strings.ToLower(cmd) {
	case "start":
		b.reply(ctx, chatID, welcomeText)
	case "help":
		b.reply(ctx, chatID, helpText)
	case "sync":
		// runs off the polling loop, the normalizer serializes concurrent runs
		b.reply(ctx, chatID, "Processing pending transactions...")
		b.jobs.Add(1)
		go func() {
			defer b.jobs.Done()
			rep, err := b.deps.Runner.Run(ctx)
			if err != nil {
				l.Error().Err(err).Msg("telegram: sync failed")
			}
			b.reply(ctx, chatID, syncText(rep, err))
		}()
	case "stats":
		q, err := b.deps.Reports.Quick(ctx)
		if err != nil {
			l.Error().Err(err).Msg("telegram: stats failed")
			b.reply(ctx, chatID, "Error generating statistics.")
			return
		}
		b.reply(ctx, chatID, q.Text())
	case "advice":
		var goal *decimal.Decimal
		if a := strings.TrimSpace(args); a != "" {
			g, err := decimal.NewFromString(a)
			if err != nil || g.IsNegative() {
				b.reply(ctx, chatID, "Usage: /advice [goal], e.g. /advice 5000")
				return
			}
			goal = &g
		}
		b.reply(ctx, chatID, "Analyzing your spending... This may take a moment.")
		a, err := b.deps.Reports.Advice(ctx, goal)
		if err != nil {
			l.Error().Err(err).Msg("telegram: advice failed")
			b.reply(ctx, chatID, "Error generating advice. Please try again later.")
			return
		}
		b.reply(ctx, chatID, a.Text())
	case "status":
		st, err := b.deps.Status.Status(ctx)
		if err != nil {
			l.Error().Err(err).Msg("telegram: status failed")
			b.reply(ctx, chatID, "Error retrieving system status.")
			return
		}
		b.reply(ctx, chatID, st.Text())
	default:
		b.reply(ctx, chatID, "Unknown command. Type /help for available commands.")
	}
}
