package models

import "time"

// AuditEventKind classifies an audit trail entry.
type AuditEventKind string

const (
	AuditTurnAppended AuditEventKind = "turn_appended"
	AuditJobAccepted  AuditEventKind = "job_accepted"
	AuditJobRejected  AuditEventKind = "job_rejected_busy"
	AuditJobCompleted AuditEventKind = "job_completed"
)

// AuditEvent records one engine-side occurrence for the audit sinks.
type AuditEvent struct {
	EventID string         `json:"event_id"`
	Kind    AuditEventKind `json:"kind"`
	Intent  string         `json:"intent,omitempty"`
	JobKind JobKind        `json:"job_kind,omitempty"`
	Detail  string         `json:"detail,omitempty"`
	TS      time.Time      `json:"ts"`
}
