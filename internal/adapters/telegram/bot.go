// Package telegram is the long poll chat transport
// plain text becomes a staged expense, commands drive sync, reports and status
package telegram

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	perr "b4b/internal/platform/errors"
	"b4b/internal/platform/logger"
	reportsdom "b4b/internal/services/api/reports/domain"
	statusdom "b4b/internal/services/api/status/domain"
	ingestdom "b4b/internal/services/ingest/domain"
	normdom "b4b/internal/services/normalizer/domain"
	rawdom "b4b/internal/services/rawmessages/domain"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// API is the slice of *tgbotapi.BotAPI the bot uses
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdates(config tgbotapi.UpdateConfig) ([]tgbotapi.Update, error)
}

// Deps are the ports behind the chat surface
type Deps struct {
	Acceptor ingestdom.AcceptorPort
	Runner   normdom.RunnerPort
	Reports  reportsdom.ReportsPort
	Status   statusdom.StatusPort
}

// Bot turns updates into port calls and replies
type Bot struct {
	api     API
	deps    Deps
	opts    Options
	allowed map[int64]bool
	log     *logger.Logger

	// background /sync runs
	jobs sync.WaitGroup
	// last update whose staging failed, replied to once
	failedUpdate int64
}

// Dial authorizes the token against the bot api
func Dial(o Options) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(o.Token)
	if err != nil {
		return nil, fmt.Errorf("telegram authorize: %w", err)
	}
	return api, nil
}

// New constructs a Bot over api
func New(api API, d Deps, o Options) *Bot {
	if o.PollTimeout <= 0 {
		o.PollTimeout = defaultPollTimeout
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = defaultRetryDelay
	}
	b := &Bot{api: api, deps: d, opts: o, log: logger.Named("telegram"), failedUpdate: -1}
	if len(o.AllowedChats) > 0 {
		b.allowed = make(map[int64]bool, len(o.AllowedChats))
		for _, id := range o.AllowedChats {
			b.allowed[id] = true
		}
	}
	return b
}

// Run long polls from the persisted cursor until ctx is done
// the offset only moves past an update once it was staged or acked,
// a staging failure re-polls from that update after RetryDelay
func (b *Bot) Run(ctx context.Context) error {
	offset, err := b.deps.Acceptor.Resume(ctx)
	if err != nil {
		return fmt.Errorf("telegram resume: %w", err)
	}
	b.log.Info().Int64("offset", offset).Msg("telegram: polling")
	defer b.jobs.Wait()

	for {
		updates, err := b.poll(ctx, offset)
		if ctx.Err() != nil {
			b.log.Info().Msg("telegram: stopped")
			return nil
		}
		if err != nil {
			b.log.Warn().Err(err).Int64("offset", offset).Msg("telegram: poll failed")
			if !b.pause(ctx) {
				return nil
			}
			continue
		}

		stalled := false
		for _, upd := range updates {
			id := int64(upd.UpdateID)
			if id < offset {
				continue
			}
			if err := b.Handle(ctx, upd); err != nil {
				stalled = true
				break
			}
			offset = id + 1
		}
		if stalled && !b.pause(ctx) {
			return nil
		}
	}
}

// poll asks for updates from offset, ctx cancels the wait but not the request
func (b *Bot) poll(ctx context.Context, offset int64) ([]tgbotapi.Update, error) {
	u := tgbotapi.NewUpdate(int(offset))
	u.Timeout = b.opts.PollTimeout

	type result struct {
		updates []tgbotapi.Update
		err     error
	}
	ch := make(chan result, 1)
	go func() {
		ups, err := b.api.GetUpdates(u)
		ch <- result{ups, err}
	}()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		return r.updates, r.err
	}
}

func (b *Bot) pause(ctx context.Context) bool {
	t := time.NewTimer(b.opts.RetryDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// Handle processes a single update
// the error is non nil only when a text message could not be staged and should be retried
func (b *Bot) Handle(ctx context.Context, upd tgbotapi.Update) error {
	id := int64(upd.UpdateID)
	msg := upd.Message
	if msg == nil || msg.Chat == nil {
		b.ack(ctx, id)
		return nil
	}

	chatID := msg.Chat.ID
	ctx = logger.WithChat(ctx, chatID)
	l := logger.C(ctx)

	if b.allowed != nil && !b.allowed[chatID] {
		l.Warn().Msg("telegram: chat not allowed, ignored")
		b.ack(ctx, id)
		return nil
	}

	switch {
	case msg.IsCommand():
		b.command(ctx, chatID, msg.Command(), msg.CommandArguments())
		b.ack(ctx, id)
	case msg.Text == "":
		b.ack(ctx, id)
	default:
		out, err := b.deps.Acceptor.Accept(ctx, ingestdom.Update{
			UpdateID:  id,
			MessageID: int64(msg.MessageID),
			ChatID:    chatID,
			Text:      msg.Text,
			Date:      msg.Time(),
		})
		if err != nil {
			return b.stageFailed(ctx, chatID, id, msg.MessageID, err)
		}
		if out == rawdom.Inserted {
			b.reply(ctx, chatID, "Expense logged! Use /sync to process immediately.")
		}
	}
	return nil
}

// stageFailed reports a staging error once per update
// rejected input is acked and dropped, anything else is left for the next poll
func (b *Bot) stageFailed(ctx context.Context, chatID, updateID int64, messageID int, err error) error {
	l := logger.C(ctx)
	if code := perr.CodeOf(err); code == perr.ErrorCodeInvalidArgument || code == perr.ErrorCodeValidation {
		l.Warn().Err(err).Int("message_id", messageID).Msg("telegram: message rejected")
		b.reply(ctx, chatID, "Could not log that expense, the message was rejected.")
		b.ack(ctx, updateID)
		return nil
	}
	l.Error().Err(err).Int("message_id", messageID).Msg("telegram: stage failed, will retry")
	if b.failedUpdate != updateID {
		b.failedUpdate = updateID
		b.reply(ctx, chatID, "Could not log that expense yet, retrying shortly.")
	}
	return err
}

func (b *Bot) ack(ctx context.Context, updateID int64) {
	if err := b.deps.Acceptor.Ack(ctx, updateID); err != nil {
		logger.C(ctx).Error().Err(err).Int64("update_id", updateID).Msg("telegram: ack failed")
	}
}

func (b *Bot) reply(ctx context.Context, chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		logger.C(ctx).Error().Err(err).Msg("telegram: send failed")
	}
}

// syncText summarizes a run for the chat
func syncText(rep normdom.RunReport, err error) string {
	switch {
	case errors.Is(err, normdom.ErrRunInProgress):
		return "A sync is already running. Try again in a moment."
	case err != nil:
		return "Error processing transactions. Check logs."
	case rep.Selected == 0:
		return "Nothing to process."
	case rep.Pending == 0 && rep.Failed == 0:
		return fmt.Sprintf("All pending transactions processed! (%d)", rep.Processed+rep.Duplicates)
	default:
		return fmt.Sprintf("Processed %d, failed %d, still pending %d.", rep.Processed+rep.Duplicates, rep.Failed, rep.Pending)
	}
}
