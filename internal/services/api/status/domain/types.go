// Package domain defines the read only status surface
package domain

import (
	"context"
	"fmt"
	"time"
)

// Status is the pipeline headcount
type Status struct {
	TotalRaw     int64 `json:"total_raw"     example:"120"`
	TotalRecords int64 `json:"total_records" example:"110"`
	Processed    int64 `json:"processed"     example:"112"`
	Pending      int64 `json:"pending"       example:"8"`
	Cursor       int64 `json:"cursor"        example:"918273"`
}

// ErroredMessage is a pending message whose last attempt failed
type ErroredMessage struct {
	ID              int64     `json:"id"                example:"17"`
	SourceMessageID int64     `json:"source_message_id" example:"4411"`
	Text            string    `json:"text"              example:"coffee 85"`
	ReceivedAt      time.Time `json:"received_at"`
	Error           string    `json:"error"             example:"batch failed: transport: 503"`
}

// Check is a single dependency probe
type Check struct {
	Name   string `json:"name"            example:"pg"`
	Status string `json:"status"          example:"ok"` // ok fail skipped
	Error  string `json:"error,omitempty" example:"dial tcp 127.0.0.1:5432 connect: connection refused"`
}

// Health is the readiness payload with counts when the db answers
type Health struct {
	Status  string  `json:"status"  example:"ok"` // ok fail
	Service string  `json:"service" example:"b4b"`
	Started string  `json:"started" example:"2025-09-03T13:00:00Z"`
	Now     string  `json:"now"     example:"2025-09-03T13:05:00Z"`
	Checks  []Check `json:"checks"`
	Counts  *Status `json:"counts,omitempty"`
}

// StatusPort is shared by the HTTP handlers and the chat commands
type StatusPort interface {
	Status(ctx context.Context) (Status, error)
	Errors(ctx context.Context, limit int) ([]ErroredMessage, error)
	Health(ctx context.Context) Health
}

// Text renders the status for chat
func (s Status) Text() string {
	return fmt.Sprintf("System status\n\nRecords: %d\nMessages received: %d\nProcessed: %d\nPending: %d\nLast update id: %d",
		s.TotalRecords, s.TotalRaw, s.Processed, s.Pending, s.Cursor)
}
