package models

import "time"

// HostStatus is the containment state of an endpoint.
type HostStatus string

const (
	HostInfected HostStatus = "infected"
	HostScanning HostStatus = "scanning"
	HostIsolated HostStatus = "isolated"
	HostClean    HostStatus = "clean"
)

// Host is one endpoint in the affected inventory. Hosts are seeded at
// startup and never deleted; an isolated or clean host does not revert
// to infected within this engine.
type Host struct {
	HostID   string     `json:"host_id"`
	Hostname string     `json:"hostname"`
	IP       string     `json:"ip"`
	Status   HostStatus `json:"status"`
	LastSeen time.Time  `json:"last_seen"`
}
