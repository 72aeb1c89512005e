// Package domain defines what the chat transport hands to ingest
package domain

import (
	"context"
	"time"

	rawdom "b4b/internal/services/rawmessages/domain"
)

// Update is one inbound chat update carrying plain text
type Update struct {
	UpdateID  int64 // transport sequence, acknowledged through the cursor
	MessageID int64 // dedup key
	ChatID    int64
	Text      string
	Date      time.Time
}

// AcceptorPort stages inbound text and tracks how far the transport got
type AcceptorPort interface {
	// Accept stages u then acknowledges u.UpdateID
	// duplicates and blank text are outcomes, not errors
	Accept(ctx context.Context, u Update) (rawdom.Outcome, error)

	// Ack acknowledges an update that carried nothing to stage (commands, edits, stickers)
	Ack(ctx context.Context, updateID int64) error

	// Resume returns the first update id the transport should ask for
	Resume(ctx context.Context) (int64, error)
}
