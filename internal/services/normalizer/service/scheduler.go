package service

import (
	"context"
	"errors"

	perr "b4b/internal/platform/errors"
	"b4b/internal/platform/logger"
	"b4b/internal/services/normalizer/domain"

	"github.com/robfig/cron/v3"
)

// DefaultSchedule runs the normalizer every five minutes
const DefaultSchedule = "@every 5m"

// Scheduler fires Run on a cron cadence until its context ends
type Scheduler struct {
	spec   string
	runner domain.RunnerPort
	log    *logger.Logger
}

// NewScheduler validates spec (standard five field or a descriptor such as @every 5m)
func NewScheduler(spec string, r domain.RunnerPort) (*Scheduler, error) {
	if spec == "" {
		spec = DefaultSchedule
	}
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "normalizer schedule %q", spec)
	}
	return &Scheduler{spec: spec, runner: r, log: logger.Named("scheduler")}, nil
}

// Spec returns the cron expression in use
func (s *Scheduler) Spec() string { return s.spec }

// Run blocks until ctx is done, then waits for an in flight tick to return
func (s *Scheduler) Run(ctx context.Context) error {
	cl := cronLogger{l: s.log}
	c := cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	if _, err := c.AddFunc(s.spec, func() { s.Tick(ctx) }); err != nil {
		return err
	}

	s.log.Info().Str("schedule", s.spec).Msg("normalizer schedule started")
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	s.log.Info().Msg("normalizer schedule stopped")
	return nil
}

// Tick runs the normalizer once, errors are logged and never stop the schedule
func (s *Scheduler) Tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	rep, err := s.runner.Run(ctx)
	switch {
	case errors.Is(err, domain.ErrRunInProgress):
		s.log.Info().Msg("scheduled run skipped, another process is normalizing")
	case err != nil:
		s.log.Error().Err(err).Str("run_id", rep.RunID).Msg("scheduled run failed")
	case rep.Selected > 0:
		s.log.Info().Str("run_id", rep.RunID).Int("processed", rep.Processed).Int("pending", rep.Pending).Msg("scheduled run done")
	}
}

// cronLogger routes cron's own chatter into zerolog
type cronLogger struct{ l *logger.Logger }

func (c cronLogger) Info(msg string, kv ...any) {
	c.l.Debug().Fields(kv).Msg("cron: " + msg)
}

func (c cronLogger) Error(err error, msg string, kv ...any) {
	c.l.Error().Err(err).Fields(kv).Msg("cron: " + msg)
}
