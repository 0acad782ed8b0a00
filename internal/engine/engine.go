package engine

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"guardian/internal/conversation"
	"guardian/internal/intent"
	"guardian/internal/logger"
	"guardian/internal/metrics"
	"guardian/internal/responder"
	"guardian/internal/seed"
	"guardian/internal/store"
	"guardian/internal/tracker"
	"guardian/pkg/models"
)

// AuditWriter writes audit trail events.
type AuditWriter interface {
	WriteEvent(ev models.AuditEvent) error
	Close() error
}

// EventPublisher pushes events and snapshots to an external bus.
type EventPublisher interface {
	PublishEvent(ev models.AuditEvent) error
	PublishSnapshot(snap models.Snapshot) error
	Close() error
}

// Config wires the engine's optional collaborators.
type Config struct {
	Responder responder.Config
	Writers   []AuditWriter
	Publisher EventPublisher
	Metrics   *metrics.Metrics
}

// Engine ties resolver, responder, tracker and transcript together
// under one mutex: operator inputs are processed one at a time in
// arrival order, and job completions never interleave with an
// in-progress input. This is the only mutation path into the incident.
type Engine struct {
	mu        sync.Mutex
	store     *store.Store
	resolver  *intent.Resolver
	responder *responder.Responder
	log       *conversation.Log
	tracker   *tracker.Tracker
	writers   []AuditWriter
	publisher EventPublisher
	metrics   *metrics.Metrics
	now       func() time.Time
}

// New creates an engine seeded with the given incident.
func New(inc seed.Incident, cfg Config) *Engine {
	st := store.New(inc.Alert, inc.Hosts, inc.SystemStatus)
	tr := tracker.New()
	e := &Engine{
		store:     st,
		resolver:  intent.NewResolver(),
		responder: responder.New(cfg.Responder, st, tr),
		log:       conversation.NewLog(inc.Greeting),
		tracker:   tr,
		writers:   cfg.Writers,
		publisher: cfg.Publisher,
		metrics:   cfg.Metrics,
		now:       time.Now,
	}
	return e
}

// SetNow overrides the engine clock (tests). Affects operator turn
// stamps, assistant turn stamps and host last-seen stamps.
func (e *Engine) SetNow(now func() time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.now = now
	e.responder.SetNow(now)
	e.store.SetNow(now)
}

// ProcessInput handles one operator message end to end and returns the
// assistant's reply together with the post-mutation snapshot. It never
// fails: every input, however malformed, produces a turn.
func (e *Engine) ProcessInput(text string) (models.Turn, models.Snapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	operator := models.Turn{
		TurnID:    uuid.NewString(),
		Role:      models.RoleOperator,
		Text:      strings.TrimSpace(text),
		Timestamp: now,
	}
	e.log.Append(operator)
	e.countTurn(models.RoleOperator)
	e.audit(models.AuditTurnAppended, "", "", operator.Text, now)

	it := e.resolver.Resolve(operator.Text)
	if e.metrics != nil {
		e.metrics.IntentsTotal.WithLabelValues(string(it.Kind)).Inc()
	}
	logger.Debugf("resolved intent %s for input %q", it.Kind, operator.Text)

	res := e.responder.Respond(it)
	e.log.Append(res.Turn)
	e.countTurn(models.RoleAssistant)
	e.audit(models.AuditTurnAppended, string(it.Kind), "", "", res.Turn.Timestamp)

	switch {
	case res.SubmittedJob != "":
		if e.metrics != nil {
			e.metrics.JobsSubmitted.WithLabelValues(string(res.SubmittedJob)).Inc()
		}
		e.audit(models.AuditJobAccepted, string(it.Kind), res.SubmittedJob, "", now)
	case res.RejectedBusy:
		if e.metrics != nil {
			e.metrics.JobsRejectedBusy.Inc()
		}
		e.audit(models.AuditJobRejected, string(it.Kind), e.tracker.InFlight(), "", now)
	case res.Degraded:
		if e.metrics != nil {
			e.metrics.DegradedResponses.Inc()
		}
	}

	snap := e.snapshotLocked()
	e.publish(snap)
	return res.Turn, snap
}

// Tick advances the async action tracker. When a job completes, its
// deferred mutation has been applied and a synthetic assistant turn is
// appended and returned; otherwise Tick returns nil.
func (e *Engine) Tick(now time.Time) *models.Turn {
	e.mu.Lock()
	defer e.mu.Unlock()

	c := e.tracker.Tick(now)
	if c == nil {
		return nil
	}

	if e.metrics != nil {
		e.metrics.JobsCompleted.WithLabelValues(string(c.Kind)).Inc()
	}
	turn := e.responder.CompletionTurn(*c)
	turn.Timestamp = now
	e.log.Append(turn)
	e.countTurn(models.RoleAssistant)
	e.audit(models.AuditJobCompleted, "", c.Kind, turn.Text, now)

	snap := e.snapshotLocked()
	e.publish(snap)
	return &turn
}

// Snapshot returns the current read-only view.
func (e *Engine) Snapshot() models.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Run drives job completion on a wall-clock interval until the context
// ends. onTurn, when non-nil, receives each synthetic completion turn.
func (e *Engine) Run(ctx context.Context, interval time.Duration, onTurn func(models.Turn)) error {
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Infof("engine run loop started: tick=%s", interval)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			if turn := e.Tick(now); turn != nil && onTurn != nil {
				onTurn(*turn)
			}
		}
	}
}

// Close releases the audit sinks and the bus connection.
func (e *Engine) Close() error {
	var firstErr error
	for _, w := range e.writers {
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if e.publisher != nil {
		if err := e.publisher.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (e *Engine) snapshotLocked() models.Snapshot {
	return models.Snapshot{
		Alert:           e.store.Alert(),
		Hosts:           e.store.Hosts(),
		ConversationLog: e.log.Turns(),
		SystemStatus:    e.store.SystemStatus(),
		InFlightJob:     e.tracker.InFlight(),
	}
}

func (e *Engine) countTurn(role models.Role) {
	if e.metrics != nil {
		e.metrics.TurnsTotal.WithLabelValues(string(role)).Inc()
	}
}

func (e *Engine) audit(kind models.AuditEventKind, intentKind string, jobKind models.JobKind, detail string, ts time.Time) {
	if len(e.writers) == 0 && e.publisher == nil {
		return
	}
	ev := models.AuditEvent{
		EventID: uuid.NewString(),
		Kind:    kind,
		Intent:  intentKind,
		JobKind: jobKind,
		Detail:  detail,
		TS:      ts,
	}
	for _, w := range e.writers {
		if err := w.WriteEvent(ev); err != nil {
			logger.Errorf("audit write failed: %v", err)
		}
	}
	if e.publisher != nil {
		if err := e.publisher.PublishEvent(ev); err != nil {
			logger.Errorf("event publish failed: %v", err)
		}
	}
}

func (e *Engine) publish(snap models.Snapshot) {
	if e.publisher == nil {
		return
	}
	if err := e.publisher.PublishSnapshot(snap); err != nil {
		logger.Errorf("snapshot publish failed: %v", err)
	}
}
