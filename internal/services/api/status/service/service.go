// Package service reads pipeline counts and probes the database
package service

import (
	"context"
	"time"

	"b4b/internal/services/api/status/domain"
	cursordom "b4b/internal/services/cursor/domain"
	rawdom "b4b/internal/services/rawmessages/domain"
	recdom "b4b/internal/services/records/domain"
)

// Pinger is satisfied by the store and the pg adapter
type Pinger interface {
	Ping(context.Context) error
}

// Service implements domain.StatusPort
type Service struct {
	Raw     rawdom.ReaderPort
	Records recdom.ReaderPort
	Cursor  cursordom.CursorPort
	DB      any

	Name      string
	StartedAt time.Time
	now       func() time.Time
}

// New constructs the status service, db may be nil or anything with Ping
func New(raw rawdom.ReaderPort, records recdom.ReaderPort, cur cursordom.CursorPort, db any, name string) *Service {
	return &Service{Raw: raw, Records: records, Cursor: cur, DB: db, Name: name, StartedAt: time.Now(), now: time.Now}
}

// Status implements domain.StatusPort
func (s *Service) Status(ctx context.Context) (domain.Status, error) {
	var (
		out domain.Status
		err error
	)
	if out.TotalRaw, err = s.Raw.CountAll(ctx); err != nil {
		return domain.Status{}, err
	}
	if out.TotalRecords, err = s.Records.CountAll(ctx); err != nil {
		return domain.Status{}, err
	}
	if out.Processed, err = s.Raw.CountByProcessed(ctx, true); err != nil {
		return domain.Status{}, err
	}
	if out.Pending, err = s.Raw.CountByProcessed(ctx, false); err != nil {
		return domain.Status{}, err
	}
	if out.Cursor, err = s.Cursor.Get(ctx); err != nil {
		return domain.Status{}, err
	}
	return out, nil
}

// Errors implements domain.StatusPort
func (s *Service) Errors(ctx context.Context, limit int) ([]domain.ErroredMessage, error) {
	rows, err := s.Raw.ListErrored(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ErroredMessage, 0, len(rows))
	for _, r := range rows {
		em := domain.ErroredMessage{
			ID:              r.ID,
			SourceMessageID: r.SourceMessageID,
			Text:            r.Text,
			ReceivedAt:      r.ReceivedAt,
		}
		if r.ErrorLog != nil {
			em.Error = *r.ErrorLog
		}
		out = append(out, em)
	}
	return out, nil
}

// Health implements domain.StatusPort
// counts are only attached when the database answered the ping
func (s *Service) Health(ctx context.Context) domain.Health {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	pg := s.check(ctx, "pg", s.DB)
	h := domain.Health{
		Status:  "ok",
		Service: s.Name,
		Started: s.StartedAt.UTC().Format(time.RFC3339),
		Now:     s.now().UTC().Format(time.RFC3339),
		Checks:  []domain.Check{pg},
	}
	if pg.Status == "fail" {
		h.Status = "fail"
		return h
	}
	if st, err := s.Status(ctx); err == nil {
		h.Counts = &st
	} else {
		h.Status = "fail"
		h.Checks = append(h.Checks, domain.Check{Name: "counts", Status: "fail", Error: err.Error()})
	}
	return h
}

func (s *Service) check(ctx context.Context, name string, c any) domain.Check {
	p, ok := c.(Pinger)
	if c == nil || !ok {
		return domain.Check{Name: name, Status: "skipped"}
	}
	if err := p.Ping(ctx); err != nil {
		return domain.Check{Name: name, Status: "fail", Error: err.Error()}
	}
	return domain.Check{Name: name, Status: "ok"}
}
