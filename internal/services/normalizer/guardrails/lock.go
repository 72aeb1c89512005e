// Package guardrails keeps normalizer runs from overlapping across processes
package guardrails

import (
	"context"

	"b4b/internal/platform/store"
	"b4b/internal/services/normalizer/domain"
)

// LockFunc runs do while holding the cross process normalizer lock
type LockFunc func(ctx context.Context, do func(context.Context) error) error

// MakeAdvisoryLock takes pg_try_advisory_lock(key) around do
// returns domain.ErrRunInProgress when another session holds key
// when pg cannot lock (fakes, disabled store) do runs unguarded
func MakeAdvisoryLock(pg any, key int64) LockFunc {
	l, ok := pg.(store.Locker)
	if !ok {
		return func(ctx context.Context, do func(context.Context) error) error { return do(ctx) }
	}
	return func(ctx context.Context, do func(context.Context) error) error {
		acquired, err := l.TryLock(ctx, key, do)
		if err != nil {
			return err
		}
		if !acquired {
			return domain.ErrRunInProgress
		}
		return nil
	}
}
