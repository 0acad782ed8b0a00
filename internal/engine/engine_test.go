package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guardian/internal/seed"
	"guardian/pkg/models"
)

type capturingWriter struct {
	mu     sync.Mutex
	events []models.AuditEvent
}

func (w *capturingWriter) WriteEvent(ev models.AuditEvent) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.events = append(w.events, ev)
	return nil
}

func (w *capturingWriter) Close() error { return nil }

func (w *capturingWriter) kinds() []models.AuditEventKind {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]models.AuditEventKind, 0, len(w.events))
	for _, ev := range w.events {
		out = append(out, ev.Kind)
	}
	return out
}

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
	return c.t
}

func newTestEngine(t *testing.T, cfg Config) (*Engine, *clock) {
	t.Helper()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	e := New(seed.Default(base), cfg)
	ck := &clock{t: base}
	e.SetNow(ck.now)
	return e, ck
}

func TestProcessInputAppendsOperatorAndAssistantTurns(t *testing.T) {
	e, ck := newTestEngine(t, Config{})

	ck.advance(time.Second)
	turn, snap := e.ProcessInput("show active alerts")

	assert.Equal(t, models.RoleAssistant, turn.Role)
	assert.Contains(t, turn.Text, "Active Alerts (1)")

	// greeting + operator + assistant
	require.Len(t, snap.ConversationLog, 3)
	assert.Equal(t, models.RoleAssistant, snap.ConversationLog[0].Role)
	assert.Equal(t, models.RoleOperator, snap.ConversationLog[1].Role)
	assert.Equal(t, "show active alerts", snap.ConversationLog[1].Text)
	assert.Equal(t, turn.TurnID, snap.ConversationLog[2].TurnID)
	assert.Empty(t, snap.InFlightJob)
}

func TestTranscriptTimestampsAreMonotonic(t *testing.T) {
	e, ck := newTestEngine(t, Config{})

	inputs := []string{"show active alerts", "list affected hosts", "nonsense", "ioc for alert 123"}
	for _, in := range inputs {
		ck.advance(750 * time.Millisecond)
		e.ProcessInput(in)
	}

	log := e.Snapshot().ConversationLog
	for i := 1; i < len(log); i++ {
		if log[i-1].Timestamp.After(log[i].Timestamp) {
			t.Fatalf("turn %d timestamp after turn %d", i-1, i)
		}
	}
}

func TestBlockIPEndToEnd(t *testing.T) {
	e, ck := newTestEngine(t, Config{})

	turn, snap := e.ProcessInput("block ip 172.24.1.250 network-wide")
	assert.Contains(t, turn.Text, "INITIATING NETWORK-WIDE BLOCK")
	assert.Equal(t, models.JobBlocking, snap.InFlightJob)
	assert.Equal(t, models.AlertActive, snap.Alert.Status)

	require.Nil(t, e.Tick(ck.advance(2999*time.Millisecond)))

	done := e.Tick(ck.advance(1 * time.Millisecond))
	require.NotNil(t, done)
	assert.Contains(t, done.Text, "BLOCKED")

	snap = e.Snapshot()
	assert.Equal(t, models.AlertResolved, snap.Alert.Status)
	assert.Equal(t, models.StatusSecure, snap.SystemStatus)
	assert.Empty(t, snap.InFlightJob)
	// Synthetic completion turn is the transcript tail.
	assert.Equal(t, done.TurnID, snap.ConversationLog[len(snap.ConversationLog)-1].TurnID)
}

func TestRemediationScenarioWithBusyRejection(t *testing.T) {
	w := &capturingWriter{}
	e, ck := newTestEngine(t, Config{Writers: []AuditWriter{w}})

	turn, snap := e.ProcessInput("start automated remediation playbook")
	assert.Contains(t, turn.Text, "AUTOMATED REMEDIATION INITIATED")
	assert.Equal(t, models.JobRemediating, snap.InFlightJob)
	assert.Equal(t, models.StatusThreat, snap.SystemStatus)

	// A second long-running intent is rejected, not queued, and leaves
	// the incident untouched.
	turn, snap = e.ProcessInput("block ip 172.24.1.250")
	assert.Contains(t, turn.Text, "ACTION IN PROGRESS")
	assert.Equal(t, models.JobRemediating, snap.InFlightJob)
	assert.Equal(t, models.AlertActive, snap.Alert.Status)
	assert.Equal(t, models.StatusThreat, snap.SystemStatus)

	require.Nil(t, e.Tick(ck.advance(4999*time.Millisecond)))
	assert.Equal(t, models.StatusThreat, e.Snapshot().SystemStatus)

	done := e.Tick(ck.advance(1 * time.Millisecond))
	require.NotNil(t, done)
	assert.Equal(t, models.StatusInvestigating, e.Snapshot().SystemStatus)

	kinds := w.kinds()
	assert.Contains(t, kinds, models.AuditJobAccepted)
	assert.Contains(t, kinds, models.AuditJobRejected)
	assert.Contains(t, kinds, models.AuditJobCompleted)
}

func TestUnrecognizedInputProducesHelpTurn(t *testing.T) {
	e, _ := newTestEngine(t, Config{})

	turn, snap := e.ProcessInput("what time is it")
	assert.Contains(t, turn.Text, "GUARDIAN AI READY")
	assert.Len(t, turn.SuggestedActions, 3)
	assert.Equal(t, models.AlertActive, snap.Alert.Status)
	assert.Equal(t, models.StatusThreat, snap.SystemStatus)
}

func TestIsolatePatientZeroEndToEnd(t *testing.T) {
	e, ck := newTestEngine(t, Config{})

	_, snap := e.ProcessInput("isolate host WKSTN-HR-01")
	assert.Equal(t, models.JobIsolating, snap.InFlightJob)

	done := e.Tick(ck.advance(2 * time.Second))
	require.NotNil(t, done)
	assert.Contains(t, done.Text, "isolated successfully")

	hosts := e.Snapshot().Hosts
	assert.Equal(t, models.HostIsolated, hosts[0].Status)
	assert.Equal(t, models.HostInfected, hosts[1].Status)
	assert.Equal(t, models.HostScanning, hosts[2].Status)
}

func TestSnapshotIsReadOnlyCopy(t *testing.T) {
	e, _ := newTestEngine(t, Config{})

	snap := e.Snapshot()
	snap.Hosts[0].Status = models.HostClean
	snap.ConversationLog[0].Text = "mutated"

	fresh := e.Snapshot()
	assert.Equal(t, models.HostInfected, fresh.Hosts[0].Status)
	assert.NotEqual(t, "mutated", fresh.ConversationLog[0].Text)
}
