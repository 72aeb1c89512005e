// Package domain defines the batch normalizer ports and run bookkeeping
package domain

import (
	"time"

	perr "b4b/internal/platform/errors"
)

// ErrRunInProgress signals another process holds the normalizer lock
var ErrRunInProgress = perr.New(perr.ErrorCodeConflict, "normalizer run already in progress")

// RunReport summarizes one select, dispatch, reconcile pass
type RunReport struct {
	RunID      string        `json:"run_id"`
	Selected   int           `json:"selected"`
	Processed  int           `json:"processed"`
	Duplicates int           `json:"duplicates"` // origin already had a record, marked processed
	Failed     int           `json:"failed"`     // marked with an error log, retried next run
	Pending    int           `json:"pending"`    // no result came back
	Unknown    int           `json:"unknown"`    // result ids that were not in the batch
	Took       time.Duration `json:"took_ns"`
}

// Outcome is the metrics label for a finished run
func (r RunReport) Outcome(err error) string {
	switch {
	case err != nil:
		return "error"
	case r.Selected == 0:
		return "empty"
	case r.Failed > 0 || r.Pending > 0:
		return "partial"
	default:
		return "ok"
	}
}
