// Package repo provides the postgres storage for staged raw messages
package repo

import (
	"context"

	"b4b/internal/modkit/repokit"
	perr "b4b/internal/platform/errors"
	"b4b/internal/platform/store"
	"b4b/internal/services/rawmessages/domain"
)

type binder struct{}

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage is the raw_messages table surface
type Storage interface {
	Exists(ctx context.Context, sourceMessageID int64) (bool, error)
	// Insert returns false when the source message id is already staged
	Insert(ctx context.Context, in domain.InsertInput) (bool, error)
	Get(ctx context.Context, id int64) (domain.RawMessage, error)
	SelectUnprocessed(ctx context.Context, limit int) ([]domain.RawMessage, error)
	MarkProcessed(ctx context.Context, id int64) error
	MarkError(ctx context.Context, id int64, msg string) error
	CountByProcessed(ctx context.Context, processed bool) (int64, error)
	CountAll(ctx context.Context) (int64, error)
	ListErrored(ctx context.Context, limit int) ([]domain.RawMessage, error)
}

type pg struct{ q repokit.Queryer }

const cols = `id, source_message_id, source_conversation_id, text, received_at, is_processed, error_log`

func scanRaw(r repokit.Row) (domain.RawMessage, error) {
	var m domain.RawMessage
	err := r.Scan(&m.ID, &m.SourceMessageID, &m.SourceConversationID, &m.Text, &m.ReceivedAt, &m.IsProcessed, &m.ErrorLog)
	return m, err
}

func (s *pg) Exists(ctx context.Context, sourceMessageID int64) (bool, error) {
	return store.Scalar[bool](ctx, s.q,
		`select exists (select 1 from raw_messages where source_message_id = $1)`, sourceMessageID)
}

func (s *pg) Insert(ctx context.Context, in domain.InsertInput) (bool, error) {
	tag, err := s.q.Exec(ctx, `
		insert into raw_messages (source_message_id, source_conversation_id, text, received_at)
		values ($1, $2, $3, $4)
		on conflict (source_message_id) do nothing`,
		in.SourceMessageID, in.SourceConversationID, in.Text, in.ReceivedAt,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *pg) Get(ctx context.Context, id int64) (domain.RawMessage, error) {
	m, err := store.One(ctx, s.q, scanRaw, `select `+cols+` from raw_messages where id = $1`, id)
	if perr.IsCode(err, perr.ErrorCodeNotFound) {
		return domain.RawMessage{}, perr.NotFoundf("raw message %d not found", id)
	}
	return m, err
}

func (s *pg) SelectUnprocessed(ctx context.Context, limit int) ([]domain.RawMessage, error) {
	return store.Many(ctx, s.q, scanRaw, `
		select `+cols+`
		from raw_messages
		where is_processed = false
		order by received_at asc, id asc
		limit $1`, limit)
}

func (s *pg) MarkProcessed(ctx context.Context, id int64) error {
	_, err := s.q.Exec(ctx, `update raw_messages set is_processed = true, error_log = null where id = $1`, id)
	return err
}

// MarkError never flips a processed row back to pending
func (s *pg) MarkError(ctx context.Context, id int64, msg string) error {
	_, err := s.q.Exec(ctx, `update raw_messages set error_log = $2 where id = $1 and is_processed = false`, id, msg)
	return err
}

func (s *pg) CountByProcessed(ctx context.Context, processed bool) (int64, error) {
	return store.Scalar[int64](ctx, s.q, `select count(*) from raw_messages where is_processed = $1`, processed)
}

func (s *pg) CountAll(ctx context.Context) (int64, error) {
	return store.Scalar[int64](ctx, s.q, `select count(*) from raw_messages`)
}

func (s *pg) ListErrored(ctx context.Context, limit int) ([]domain.RawMessage, error) {
	return store.Many(ctx, s.q, scanRaw, `
		select `+cols+`
		from raw_messages
		where is_processed = false and error_log is not null
		order by received_at desc, id desc
		limit $1`, limit)
}
