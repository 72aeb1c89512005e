// Package service runs the select, dispatch, reconcile and commit loop of the batch normalizer
package service

import (
	"context"
	"errors"
	"time"

	"b4b/internal/adapters/llm"
	"b4b/internal/modkit/repokit"
	perr "b4b/internal/platform/errors"
	"b4b/internal/platform/logger"
	"b4b/internal/platform/metrics"
	str "b4b/internal/platform/strings"
	"b4b/internal/services/normalizer/domain"
	"b4b/internal/services/normalizer/guardrails"
	rawdom "b4b/internal/services/rawmessages/domain"
	rawrepo "b4b/internal/services/rawmessages/repo"
	recdom "b4b/internal/services/records/domain"
	recrepo "b4b/internal/services/records/repo"

	"github.com/google/uuid"
)

// Dispatcher is the external normalization call
type Dispatcher interface {
	Normalize(ctx context.Context, items []llm.RequestItem) ([]llm.ResultItem, error)
}

// Config holds the explicit run defaults
type Config struct {
	BatchSize       int
	DefaultCurrency string

	// DispatchTimeout bounds the external call only, persistence is not cut short by it
	DispatchTimeout time.Duration
}

// markTimeout bounds bookkeeping done on a detached context after a failed dispatch
const markTimeout = 30 * time.Second

// Service implements domain.RunnerPort
type Service struct {
	DB      repokit.TxRunner
	Raw     repokit.Binder[rawrepo.Storage]
	Records repokit.Binder[recrepo.Storage]

	Reader rawdom.ReaderPort
	Marker rawdom.MarkerPort
	LLM    Dispatcher
	Cfg    Config

	// Lock guards a run across processes, nil runs unguarded
	Lock    guardrails.LockFunc
	Metrics *metrics.Metrics

	// sem serializes runs inside this process
	sem   chan struct{}
	newID func() string
}

// New constructs the normalizer service
func New(
	db repokit.TxRunner,
	raw repokit.Binder[rawrepo.Storage],
	records repokit.Binder[recrepo.Storage],
	reader rawdom.ReaderPort,
	marker rawdom.MarkerPort,
	dispatcher Dispatcher,
	cfg Config,
) *Service {
	if db == nil {
		panic("normalizer.Service requires a non nil TxRunner")
	}
	if dispatcher == nil {
		panic("normalizer.Service requires a non nil Dispatcher")
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.DefaultCurrency == "" {
		cfg.DefaultCurrency = "CZK"
	}
	if cfg.DispatchTimeout <= 0 {
		cfg.DispatchTimeout = 90 * time.Second
	}
	return &Service{
		DB:      db,
		Raw:     raw,
		Records: records,
		Reader:  reader,
		Marker:  marker,
		LLM:     dispatcher,
		Cfg:     cfg,
		sem:     make(chan struct{}, 1),
		newID:   func() string { return uuid.NewString() },
	}
}

// Run normalizes the oldest unprocessed batch
// a transport, malformed or empty response fails the whole batch, every message stays retryable
func (s *Service) Run(ctx context.Context) (domain.RunReport, error) {
	return s.guarded(ctx, func(ctx context.Context, rep *domain.RunReport) error {
		batch, err := s.Reader.SelectUnprocessed(ctx, s.Cfg.BatchSize)
		if err != nil {
			return err
		}
		return s.normalize(ctx, batch, rep)
	})
}

// ProcessOne normalizes one message with the same rules as a batch of one
func (s *Service) ProcessOne(ctx context.Context, id int64) (domain.RunReport, error) {
	return s.guarded(ctx, func(ctx context.Context, rep *domain.RunReport) error {
		m, err := s.Reader.Get(ctx, id)
		if err != nil {
			return err
		}
		if m.IsProcessed {
			logger.C(ctx).Debug().Int64("raw_message_id", id).Msg("normalizer: already processed")
			return nil
		}
		return s.normalize(ctx, []rawdom.RawMessage{m}, rep)
	})
}

// guarded takes the in process slot and the cross process lock, tags ctx with a run id
// and settles metrics for the run
func (s *Service) guarded(ctx context.Context, work func(context.Context, *domain.RunReport) error) (domain.RunReport, error) {
	select {
	case s.sem <- struct{}{}:
		defer func() { <-s.sem }()
	case <-ctx.Done():
		return domain.RunReport{}, ctx.Err()
	}

	rep := domain.RunReport{RunID: s.newID()}
	ctx = logger.WithRun(ctx, rep.RunID)
	l := logger.C(ctx).With().Str("mod", "normalizer").Logger()
	start := time.Now()

	do := func(ctx context.Context) error { return work(ctx, &rep) }

	var err error
	if s.Lock != nil {
		err = s.Lock(ctx, do)
	} else {
		err = do(ctx)
	}
	rep.Took = time.Since(start)

	if errors.Is(err, domain.ErrRunInProgress) {
		s.Metrics.Run("busy")
		l.Info().Msg("normalizer: another process holds the run lock, skipping")
		return rep, err
	}

	s.Metrics.Run(rep.Outcome(err))
	s.Metrics.Records("processed", rep.Processed+rep.Duplicates)
	s.Metrics.Records("failed", rep.Failed)
	s.Metrics.Records("pending", rep.Pending)
	s.Metrics.Records("unknown", rep.Unknown)

	ev := l.Info()
	if err != nil {
		ev = l.Error().Err(err)
	}
	ev.Int("selected", rep.Selected).
		Int("processed", rep.Processed).
		Int("duplicates", rep.Duplicates).
		Int("failed", rep.Failed).
		Int("pending", rep.Pending).
		Int("unknown", rep.Unknown).
		Dur("took", rep.Took).
		Msg("normalizer: run finished")
	return rep, err
}

// normalize dispatches batch and reconciles the results by id, never by position
func (s *Service) normalize(ctx context.Context, batch []rawdom.RawMessage, rep *domain.RunReport) error {
	rep.Selected = len(batch)
	if len(batch) == 0 {
		return nil
	}
	l := logger.C(ctx)

	byID := make(map[int64]rawdom.RawMessage, len(batch))
	items := make([]llm.RequestItem, 0, len(batch))
	for _, m := range batch {
		byID[m.ID] = m
		items = append(items, llm.RequestItem{ID: m.ID, Text: m.Text})
	}

	dctx, cancel := context.WithTimeout(ctx, s.Cfg.DispatchTimeout)
	results, err := s.LLM.Normalize(dctx, items)
	cancel()
	if err != nil {
		if !perr.Upstream(err) {
			// deadline or cancel before the client could classify it
			err = perr.Wrap(err, perr.ErrorCodeTransport, "normalization dispatch")
		}
		s.failBatch(ctx, batch, err, rep)
		return err
	}

	// bookkeeping below must finish even if the trigger goes away mid batch
	pctx := context.WithoutCancel(ctx)
	seen := make(map[int64]bool, len(results))
	for _, r := range results {
		m, ok := byID[r.ID]
		if !ok {
			rep.Unknown++
			l.Warn().Int64("correlation_id", r.ID).Msg("normalizer: result for unknown id, skipped")
			continue
		}
		if seen[r.ID] {
			l.Warn().Int64("raw_message_id", r.ID).Msg("normalizer: repeated result for id, skipped")
			continue
		}
		seen[r.ID] = true
		s.commit(pctx, m, r, rep)
	}

	rep.Pending = len(batch) - len(seen)
	if rep.Pending > 0 {
		l.Info().Int("pending", rep.Pending).Msg("normalizer: some messages got no result and stay pending")
	}
	return nil
}

// commit writes the record and marks its origin processed in one transaction
func (s *Service) commit(ctx context.Context, m rawdom.RawMessage, r llm.ResultItem, rep *domain.RunReport) {
	l := logger.C(ctx).With().Int64("raw_message_id", m.ID).Logger()
	rec := s.record(m, r)

	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		if _, err := s.Records.Bind(q).Insert(ctx, rec); err != nil {
			return err
		}
		return s.Raw.Bind(q).MarkProcessed(ctx, m.ID)
	})
	switch {
	case err == nil:
		rep.Processed++
	case perr.IsDuplicateKey(err):
		// an earlier run already wrote this origin's record
		if err := s.Marker.MarkProcessed(ctx, m.ID); err != nil {
			rep.Failed++
			l.Error().Err(err).Msg("normalizer: mark processed after duplicate origin failed")
			return
		}
		rep.Duplicates++
		l.Debug().Msg("normalizer: origin already normalized, marked processed")
	default:
		rep.Failed++
		err = perr.FromPostgresf(err, "persist record for %d", m.ID)
		l.Error().Err(err).Msg("normalizer: persist failed")
		if merr := s.Marker.MarkError(ctx, m.ID, "persist failed: "+err.Error()); merr != nil {
			l.Error().Err(merr).Msg("normalizer: mark error failed")
		}
	}
}

func (s *Service) record(m rawdom.RawMessage, r llm.ResultItem) recdom.Record {
	cur := r.Currency
	if cur == "" {
		cur = s.Cfg.DefaultCurrency
	}
	return recdom.Record{
		OriginRawMessageID: m.ID,
		Label:              r.ItemName,
		Amount:             r.Amount.Round(2),
		Currency:           cur,
		Category:           r.Category,
		SentimentTag:       str.Ptr(r.SentimentTag),
		OccurredAt:         m.ReceivedAt,
	}
}

// failBatch records the dispatch failure on every message of the batch
// it runs detached from ctx, a cancelled trigger must still leave an error log behind
func (s *Service) failBatch(ctx context.Context, batch []rawdom.RawMessage, cause error, rep *domain.RunReport) {
	mctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), markTimeout)
	defer cancel()

	l := logger.C(ctx)
	l.Error().Err(cause).Int("batch", len(batch)).Msg("normalizer: batch failed")

	msg := "batch failed: " + cause.Error()
	for _, m := range batch {
		if err := s.Marker.MarkError(mctx, m.ID, msg); err != nil {
			l.Error().Err(err).Int64("raw_message_id", m.ID).Msg("normalizer: mark error failed")
		}
	}
	rep.Failed = len(batch)
}
