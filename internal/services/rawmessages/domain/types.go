// Package domain defines the staged inbound message and the outcomes of storing one
package domain

import "time"

// RawMessage is one inbound chat message waiting for, or done with, normalization
type RawMessage struct {
	ID                   int64
	SourceMessageID      int64 // externally assigned, unique
	SourceConversationID int64
	Text                 string
	ReceivedAt           time.Time
	IsProcessed          bool
	ErrorLog             *string // last failure, nil once processed
}

// InsertInput is what the transport hands over for staging
type InsertInput struct {
	SourceMessageID      int64
	SourceConversationID int64
	Text                 string
	ReceivedAt           time.Time
}

// Outcome reports what DedupAndInsert did with a message
type Outcome int

const (
	// Inserted means a new row was staged
	Inserted Outcome = iota
	// SkippedDuplicate means the source message id was already staged
	SkippedDuplicate
	// SkippedBlank means the text was empty after cleanup
	SkippedBlank
)

func (o Outcome) String() string {
	switch o {
	case Inserted:
		return "inserted"
	case SkippedDuplicate:
		return "duplicate"
	case SkippedBlank:
		return "blank"
	default:
		return "unknown"
	}
}
