package jobs

import (
	"context"
	"encoding/json"
	"time"

	"github.com/NeGaTiVe369/DocLearn-sub000/pkg/retry"
)

// Job statuses as stored in the jobs table. Failed jobs do not stay in the
// table; they move to dead_letter_jobs.
const (
	StatusQueued = "queued"
	StatusRetry  = "retry"
	StatusDone   = "done"
	StatusFailed = "failed"
)

// Job is one row of the jobs table.
type Job struct {
	ID          int64           `json:"id"`
	Type        string          `json:"type"`
	Payload     json.RawMessage `json:"payload"`
	Status      string          `json:"status"`
	Attempts    int             `json:"attempts"`
	MaxAttempts int             `json:"max_attempts"`
	Priority    int             `json:"priority"`
	ScheduledAt time.Time       `json:"scheduled_at"`
	NextTryAt   *time.Time      `json:"next_try_at,omitempty"`
	LastError   string          `json:"last_error,omitempty"`
	Created     time.Time       `json:"created"`
	Updated     time.Time       `json:"updated"`
}

// Handler processes one job. A nil return marks the job done; an error
// schedules a retry until MaxAttempts is reached, after which the job moves
// to the dead-letter table.
type Handler func(ctx context.Context, j *Job) error

// DefaultBackoff spaces retries after n failed attempts: 1s, 2s, 4s, ...
// capped at five minutes.
var DefaultBackoff = retry.Exponential(time.Second, 5*time.Minute)
