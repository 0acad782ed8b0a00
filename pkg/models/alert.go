package models

import "time"

// Severity ranks how dangerous an alert is.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// AlertStatus is the lifecycle state of an alert.
type AlertStatus string

const (
	AlertActive        AlertStatus = "active"
	AlertInvestigating AlertStatus = "investigating"
	AlertResolved      AlertStatus = "resolved"
)

// Alert describes the incident under triage. Status only moves
// active -> investigating -> resolved or active -> resolved.
type Alert struct {
	AlertID           string      `json:"alert_id"`
	Title             string      `json:"title"`
	Description       string      `json:"description"`
	Severity          Severity    `json:"severity"`
	Status            AlertStatus `json:"status"`
	Source            string      `json:"source"`
	IP                string      `json:"ip,omitempty"`
	AffectedHostCount int         `json:"affected_host_count,omitempty"`
	DetectedAt        time.Time   `json:"detected_at"`
}
