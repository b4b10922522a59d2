package worker

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// Executor runs a single attempt of an asset job. Errors exposing
// Permanent() bool with a true value are not retried.
type Executor interface {
	Execute(ctx context.Context, jobID string) error
	// MarkFailed records the final failure once the job is out of retries.
	MarkFailed(ctx context.Context, jobID string, cause error) error
}

// RetryPolicy bounds how long a single job may keep the orchestrator busy.
type RetryPolicy struct {
	MaxAttempts    int
	AttemptTimeout time.Duration
	Backoff        time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    3,
		AttemptTimeout: 2 * time.Minute,
		Backoff:        time.Second,
	}
}

func (p RetryPolicy) normalized() RetryPolicy {
	d := DefaultRetryPolicy()
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = d.MaxAttempts
	}
	if p.AttemptTimeout <= 0 {
		p.AttemptTimeout = d.AttemptTimeout
	}
	if p.Backoff < 0 {
		p.Backoff = 0
	}
	return p
}

func isPermanent(err error) bool {
	var p interface{ Permanent() bool }
	return errors.As(err, &p) && p.Permanent()
}
