package models

// SystemStatus is the overall posture shown to the presentation layer.
type SystemStatus string

const (
	StatusSecure        SystemStatus = "secure"
	StatusThreat        SystemStatus = "threat"
	StatusInvestigating SystemStatus = "investigating"
)

// JobKind identifies a long-running remediation action.
type JobKind string

const (
	JobBlocking    JobKind = "blocking"
	JobIsolating   JobKind = "isolating"
	JobRemediating JobKind = "remediating"
	JobScanning    JobKind = "scanning"
)

// Snapshot is the read-only view handed to the presentation layer after
// every mutation.
type Snapshot struct {
	Alert           Alert        `json:"alert"`
	Hosts           []Host       `json:"hosts"`
	ConversationLog []Turn       `json:"conversation_log"`
	SystemStatus    SystemStatus `json:"system_status"`
	InFlightJob     JobKind      `json:"in_flight_job,omitempty"`
}
