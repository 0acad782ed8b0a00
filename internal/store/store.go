package store

import (
	"errors"
	"sync"
	"time"

	"guardian/pkg/models"
)

// ErrNotFound is returned when a mutation references an unknown entity.
var ErrNotFound = errors.New("entity not found")

// Store is the single source of truth for the incident: the alert, the
// affected host inventory and the overall system status. It performs no
// transition validation beyond existence checks; callers own the
// legal-transition invariants.
type Store struct {
	mu           sync.Mutex
	alert        models.Alert
	hosts        []models.Host
	hostIndex    map[string]int
	systemStatus models.SystemStatus
	now          func() time.Time
}

// New creates a store seeded with the given incident. Host order is
// preserved as the display order.
func New(alert models.Alert, hosts []models.Host, status models.SystemStatus) *Store {
	s := &Store{
		alert:        alert,
		hosts:        make([]models.Host, len(hosts)),
		hostIndex:    make(map[string]int, len(hosts)),
		systemStatus: status,
		now:          time.Now,
	}
	copy(s.hosts, hosts)
	for i, h := range s.hosts {
		s.hostIndex[h.HostID] = i
	}
	return s
}

// Alert returns the current alert.
func (s *Store) Alert() models.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.alert
}

// Hosts returns the host inventory in seed order.
func (s *Store) Hosts() []models.Host {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Host, len(s.hosts))
	copy(out, s.hosts)
	return out
}

// Host returns one host by id.
func (s *Store) Host(hostID string) (models.Host, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.hostIndex[hostID]
	if !ok {
		return models.Host{}, ErrNotFound
	}
	return s.hosts[i], nil
}

// SystemStatus returns the overall posture.
func (s *Store) SystemStatus() models.SystemStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.systemStatus
}

// SetAlertStatus updates the alert status and returns the updated alert.
func (s *Store) SetAlertStatus(alertID string, status models.AlertStatus) (models.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.alert.AlertID != alertID {
		return models.Alert{}, ErrNotFound
	}
	s.alert.Status = status
	return s.alert, nil
}

// SetHostStatus updates one host's status and returns the updated host.
func (s *Store) SetHostStatus(hostID string, status models.HostStatus) (models.Host, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.hostIndex[hostID]
	if !ok {
		return models.Host{}, ErrNotFound
	}
	s.hosts[i].Status = status
	s.hosts[i].LastSeen = s.now()
	return s.hosts[i], nil
}

// SetSystemStatus updates the overall posture.
func (s *Store) SetSystemStatus(status models.SystemStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.systemStatus = status
}

// SetNow overrides the clock used for last-seen stamps (tests).
func (s *Store) SetNow(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}
