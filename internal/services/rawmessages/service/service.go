// Package service stages inbound messages and settles them for the normalizer
package service

import (
	"context"
	"strings"

	"b4b/internal/core/textclean"
	"b4b/internal/modkit/repokit"
	perr "b4b/internal/platform/errors"
	"b4b/internal/services/rawmessages/domain"
	"b4b/internal/services/rawmessages/repo"
)

// maxErrorLog bounds what MarkError stores
const maxErrorLog = 2000

// Service implements domain.IngestPort, domain.ReaderPort and domain.MarkerPort
type Service struct {
	DB     repokit.TxRunner
	Binder repokit.Binder[repo.Storage]
}

// New constructs a new raw message service
func New(db repokit.TxRunner, b repokit.Binder[repo.Storage]) *Service {
	return &Service{DB: db, Binder: b}
}

// DedupAndInsert stages a message once per source message id
// the exists probe only saves a write, the unique constraint decides races
func (s *Service) DedupAndInsert(ctx context.Context, in domain.InsertInput) (domain.Outcome, error) {
	in.Text = textclean.Clean(in.Text)
	if in.Text == "" {
		return domain.SkippedBlank, nil
	}

	out := domain.SkippedDuplicate
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		st := s.Binder.Bind(q)
		exists, err := st.Exists(ctx, in.SourceMessageID)
		if err != nil || exists {
			return err
		}
		inserted, err := st.Insert(ctx, in)
		if err != nil {
			return err
		}
		if inserted {
			out = domain.Inserted
		}
		return nil
	})
	switch {
	case err == nil:
		return out, nil
	case perr.IsDuplicateKey(err):
		return domain.SkippedDuplicate, nil
	default:
		return 0, perr.FromPostgresf(err, "stage message %d", in.SourceMessageID)
	}
}

// Get returns one message or a NotFound error
func (s *Service) Get(ctx context.Context, id int64) (domain.RawMessage, error) {
	var m domain.RawMessage
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		m, err = s.Binder.Bind(q).Get(ctx, id)
		return err
	})
	return m, err
}

// SelectUnprocessed returns up to limit pending messages, oldest first
func (s *Service) SelectUnprocessed(ctx context.Context, limit int) ([]domain.RawMessage, error) {
	if limit <= 0 {
		return nil, nil
	}
	var out []domain.RawMessage
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		out, err = s.Binder.Bind(q).SelectUnprocessed(ctx, limit)
		return err
	})
	if err != nil {
		return nil, perr.FromPostgres(err, "select unprocessed")
	}
	return out, nil
}

// MarkProcessed flags the message done and clears its error log
func (s *Service) MarkProcessed(ctx context.Context, id int64) error {
	return s.DB.Tx(ctx, func(q repokit.Queryer) error {
		return perr.FromPostgresf(s.Binder.Bind(q).MarkProcessed(ctx, id), "mark processed %d", id)
	})
}

// MarkError records why the message is still pending
func (s *Service) MarkError(ctx context.Context, id int64, msg string) error {
	return s.DB.Tx(ctx, func(q repokit.Queryer) error {
		return perr.FromPostgresf(s.Binder.Bind(q).MarkError(ctx, id, TrimLog(msg)), "mark error %d", id)
	})
}

// CountByProcessed counts messages in one state
func (s *Service) CountByProcessed(ctx context.Context, processed bool) (int64, error) {
	var n int64
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		n, err = s.Binder.Bind(q).CountByProcessed(ctx, processed)
		return err
	})
	return n, err
}

// CountAll counts every staged message
func (s *Service) CountAll(ctx context.Context) (int64, error) {
	var n int64
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		n, err = s.Binder.Bind(q).CountAll(ctx)
		return err
	})
	return n, err
}

// ListErrored returns the most recent pending messages that carry an error log
func (s *Service) ListErrored(ctx context.Context, limit int) ([]domain.RawMessage, error) {
	if limit <= 0 {
		limit = 10
	}
	var out []domain.RawMessage
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		out, err = s.Binder.Bind(q).ListErrored(ctx, limit)
		return err
	})
	return out, err
}

// TrimLog keeps an error log within the stored bound, cutting on a rune boundary
func TrimLog(msg string) string {
	msg = strings.TrimSpace(msg)
	if len(msg) <= maxErrorLog {
		return msg
	}
	return strings.ToValidUTF8(msg[:maxErrorLog], "")
}
