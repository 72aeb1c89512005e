// Package domain defines the cursor over the inbound chat sequence
package domain

import "context"

// SequenceKey is the app_config key holding the last acknowledged update id
const SequenceKey = "last_source_sequence"

// CursorPort reads and writes the last acknowledged external sequence number
// Get returns 0 when nothing was stored yet, Set is last write wins
type CursorPort interface {
	Get(ctx context.Context) (int64, error)
	Set(ctx context.Context, value int64) error
}
