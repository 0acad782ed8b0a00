package tracker

import (
	"errors"
	"testing"
	"time"

	"guardian/pkg/models"
)

func TestSubmitRejectsSecondJob(t *testing.T) {
	tr := New()
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if err := tr.Submit(Job{Kind: models.JobBlocking, StartedAt: start, Duration: 3 * time.Second}); err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	err := tr.Submit(Job{Kind: models.JobIsolating, StartedAt: start, Duration: 2 * time.Second})
	if !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	if tr.InFlight() != models.JobBlocking {
		t.Fatalf("rejection must leave the original job in flight, got %s", tr.InFlight())
	}
}

func TestTickCompletesExactlyAtDuration(t *testing.T) {
	tr := New()
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	applied := false
	job := Job{
		Kind:       models.JobBlocking,
		StartedAt:  start,
		Duration:   3 * time.Second,
		OnComplete: func() error { applied = true; return nil },
	}
	if err := tr.Submit(job); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if c := tr.Tick(start.Add(2999 * time.Millisecond)); c != nil {
		t.Fatalf("job completed early: %+v", c)
	}
	if applied {
		t.Fatalf("deferred mutation applied early")
	}

	c := tr.Tick(start.Add(3 * time.Second))
	if c == nil {
		t.Fatalf("expected completion at exactly the configured duration")
	}
	if c.Kind != models.JobBlocking || c.Err != nil {
		t.Fatalf("unexpected completion: %+v", c)
	}
	if !applied {
		t.Fatalf("deferred mutation not applied")
	}
	if tr.InFlight() != "" {
		t.Fatalf("slot not cleared after completion")
	}
	if c2 := tr.Tick(start.Add(time.Minute)); c2 != nil {
		t.Fatalf("completed job must not fire twice: %+v", c2)
	}
}

func TestTickConvertsCompletionErrorToNoOp(t *testing.T) {
	tr := New()
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	wantErr := errors.New("host removed")
	job := Job{
		Kind:       models.JobIsolating,
		StartedAt:  start,
		Duration:   2 * time.Second,
		OnComplete: func() error { return wantErr },
	}
	if err := tr.Submit(job); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	c := tr.Tick(start.Add(2 * time.Second))
	if c == nil {
		t.Fatalf("expected completion")
	}
	if !errors.Is(c.Err, wantErr) {
		t.Fatalf("expected completion error surfaced internally, got %v", c.Err)
	}
	if tr.InFlight() != "" {
		t.Fatalf("slot must clear even when the mutation fails")
	}
}

func TestTickIdleReturnsNil(t *testing.T) {
	tr := New()
	if c := tr.Tick(time.Now()); c != nil {
		t.Fatalf("expected nil completion on idle tracker, got %+v", c)
	}
}
