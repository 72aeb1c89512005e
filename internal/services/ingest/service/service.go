// Package service stages inbound chat text and advances the sequence cursor
package service

import (
	"context"

	"b4b/internal/platform/logger"
	"b4b/internal/platform/metrics"
	cursordom "b4b/internal/services/cursor/domain"
	"b4b/internal/services/ingest/domain"
	rawdom "b4b/internal/services/rawmessages/domain"
)

// Service implements domain.AcceptorPort
type Service struct {
	Raw     rawdom.IngestPort
	Cursor  cursordom.CursorPort
	Metrics *metrics.Metrics
}

// New constructs the ingest service
func New(raw rawdom.IngestPort, cur cursordom.CursorPort, m *metrics.Metrics) *Service {
	if raw == nil || cur == nil {
		panic("ingest.Service requires raw and cursor ports")
	}
	return &Service{Raw: raw, Cursor: cur, Metrics: m}
}

// Accept implements domain.AcceptorPort
// the cursor only moves after staging succeeded, the transport re-polls from a failed update and dedup absorbs any repeat
func (s *Service) Accept(ctx context.Context, u domain.Update) (rawdom.Outcome, error) {
	ctx = logger.WithChat(ctx, u.ChatID)
	l := logger.C(ctx).With().Int64("update_id", u.UpdateID).Int64("message_id", u.MessageID).Logger()

	out, err := s.Raw.DedupAndInsert(ctx, rawdom.InsertInput{
		SourceMessageID:      u.MessageID,
		SourceConversationID: u.ChatID,
		Text:                 u.Text,
		ReceivedAt:           u.Date,
	})
	if err != nil {
		s.Metrics.Ingest("error")
		l.Error().Err(err).Msg("ingest: staging failed")
		return out, err
	}
	s.Metrics.Ingest(out.String())

	switch out {
	case rawdom.Inserted:
		l.Info().Msg("ingest: message staged")
	default:
		l.Debug().Str("outcome", out.String()).Msg("ingest: message skipped")
	}

	if err := s.Cursor.Set(ctx, u.UpdateID); err != nil {
		l.Error().Err(err).Msg("ingest: cursor not advanced")
		return out, err
	}
	return out, nil
}

// Ack implements domain.AcceptorPort
func (s *Service) Ack(ctx context.Context, updateID int64) error {
	return s.Cursor.Set(ctx, updateID)
}

// Resume implements domain.AcceptorPort
func (s *Service) Resume(ctx context.Context) (int64, error) {
	last, err := s.Cursor.Get(ctx)
	if err != nil {
		return 0, err
	}
	if last <= 0 {
		return 0, nil
	}
	return last + 1, nil
}
