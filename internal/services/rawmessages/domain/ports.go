package domain

import "context"

// IngestPort stages inbound messages exactly once per source message id
type IngestPort interface {
	DedupAndInsert(ctx context.Context, in InsertInput) (Outcome, error)
}

// ReaderPort exposes read access for the normalizer and the status surface
type ReaderPort interface {
	Get(ctx context.Context, id int64) (RawMessage, error)
	SelectUnprocessed(ctx context.Context, limit int) ([]RawMessage, error)
	CountByProcessed(ctx context.Context, processed bool) (int64, error)
	CountAll(ctx context.Context) (int64, error)
	ListErrored(ctx context.Context, limit int) ([]RawMessage, error)
}

// MarkerPort settles a staged message, both calls are idempotent
type MarkerPort interface {
	MarkProcessed(ctx context.Context, id int64) error
	MarkError(ctx context.Context, id int64, msg string) error
}
