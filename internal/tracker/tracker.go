package tracker

import (
	"errors"
	"sync"
	"time"

	"guardian/internal/logger"
	"guardian/pkg/models"
)

// ErrBusy is returned when a job is submitted while another is in
// flight. Rejected jobs are never queued.
var ErrBusy = errors.New("remediation action already in progress")

// Job is a registered long-running action with a fixed completion time
// and a deferred state mutation.
type Job struct {
	Kind      models.JobKind
	StartedAt time.Time
	Duration  time.Duration

	// Note is the operator-facing summary reported when the job
	// completes.
	Note string

	// OnComplete applies the deferred mutation when the job finishes.
	// An error here is an internal inconsistency: it is logged and the
	// job completes as a no-op.
	OnComplete func() error
}

// Completion reports one finished job.
type Completion struct {
	Kind models.JobKind
	At   time.Time
	Note string
	Err  error
}

// Tracker owns the single in-flight job slot. There is no queue, no
// priority and no cancellation: once accepted a job runs to completion.
type Tracker struct {
	mu       sync.Mutex
	inFlight *Job
}

// New creates an empty tracker.
func New() *Tracker {
	return &Tracker{}
}

// Submit registers a job, or returns ErrBusy when the slot is taken.
func (t *Tracker) Submit(job Job) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.inFlight != nil {
		return ErrBusy
	}
	t.inFlight = &job
	logger.Debugf("job accepted: kind=%s duration=%s", job.Kind, job.Duration)
	return nil
}

// InFlight returns the kind of the running job, or "" when idle.
func (t *Tracker) InFlight() models.JobKind {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.inFlight == nil {
		return ""
	}
	return t.inFlight.Kind
}

// Tick advances time. When the in-flight job has reached its duration
// the deferred mutation is applied, the slot is cleared and the
// completion is returned; otherwise Tick returns nil.
func (t *Tracker) Tick(now time.Time) *Completion {
	t.mu.Lock()
	defer t.mu.Unlock()

	job := t.inFlight
	if job == nil {
		return nil
	}
	if now.Sub(job.StartedAt) < job.Duration {
		return nil
	}

	t.inFlight = nil
	c := &Completion{Kind: job.Kind, At: now, Note: job.Note}
	if job.OnComplete != nil {
		if err := job.OnComplete(); err != nil {
			// The incident may have shifted between submission and
			// completion; degrade to a no-op rather than surface a
			// broken state.
			logger.Warnf("job %s completion dropped: %v", job.Kind, err)
			c.Err = err
		}
	}
	return c
}
