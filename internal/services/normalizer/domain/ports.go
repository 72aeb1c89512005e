package domain

import "context"

// RunnerPort is what the scheduler, the bot, the HTTP handler and the CLI trigger
type RunnerPort interface {
	// Run normalizes the oldest unprocessed batch
	Run(ctx context.Context) (RunReport, error)

	// ProcessOne normalizes a single staged message by id
	// a processed message is a no-op, an unknown id is a not found error
	ProcessOne(ctx context.Context, id int64) (RunReport, error)
}
