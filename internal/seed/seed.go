package seed

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"guardian/pkg/models"
)

// Incident is the startup state of the engine: one pre-loaded active
// alert, the affected host inventory and the greeting turn. The system
// always starts in threat posture; there is no "no incident" state.
type Incident struct {
	Alert        models.Alert
	Hosts        []models.Host
	Greeting     models.Turn
	SystemStatus models.SystemStatus
}

// Default returns the built-in incident.
func Default(now time.Time) Incident {
	return Incident{
		Alert: models.Alert{
			AlertID:           "123",
			Title:             "POTENTIAL MALWARE OUTBREAK",
			Description:       "Cybermesh detected 52 endpoints establishing outbound connections to suspicious C2 server.",
			Severity:          models.SeverityCritical,
			Status:            models.AlertActive,
			Source:            "Network Anomaly Detection",
			IP:                "172.24.1.250",
			AffectedHostCount: 52,
			DetectedAt:        now,
		},
		Hosts: []models.Host{
			{HostID: "1", Hostname: "WKSTN-HR-01", IP: "10.10.10.21", Status: models.HostInfected, LastSeen: now},
			{HostID: "2", Hostname: "WKSTN-FIN-03", IP: "10.10.10.45", Status: models.HostInfected, LastSeen: now},
			{HostID: "3", Hostname: "WKSTN-DEV-12", IP: "10.10.10.78", Status: models.HostScanning, LastSeen: now},
			{HostID: "4", Hostname: "WKSTN-MKT-07", IP: "10.10.10.92", Status: models.HostIsolated, LastSeen: now},
		},
		Greeting: models.Turn{
			TurnID:    "greeting",
			Role:      models.RoleAssistant,
			Text:      "CYBERMESH ALERT: **CRITICAL - Potential Malware Outbreak (50+ hosts)** detected. Anomalous outbound connections to `172.24.1.250`. Process `svchost_mal.exe` identified. Immediate investigation required.",
			Timestamp: now,
			SuggestedActions: []models.SuggestedAction{
				{ID: "block-c2-ip", Label: "BLOCK C2 IP", Kind: models.ActionDanger},
				{ID: "isolate-patient-zero", Label: "ISOLATE PATIENT ZERO", Kind: models.ActionSecondary},
				{ID: "start-remediation", Label: "START REMEDIATION", Kind: models.ActionPrimary},
			},
		},
		SystemStatus: models.StatusThreat,
	}
}

type seedFile struct {
	Alert struct {
		ID                string `yaml:"id"`
		Title             string `yaml:"title"`
		Description       string `yaml:"description"`
		Severity          string `yaml:"severity"`
		Source            string `yaml:"source"`
		IP                string `yaml:"ip"`
		AffectedHostCount int    `yaml:"affected_host_count"`
	} `yaml:"alert"`
	Hosts []struct {
		ID       string `yaml:"id"`
		Hostname string `yaml:"hostname"`
		IP       string `yaml:"ip"`
		Status   string `yaml:"status"`
	} `yaml:"hosts"`
	Greeting string `yaml:"greeting"`
}

// Load reads an incident seed file. Missing fields fall back to the
// built-in incident; the alert always starts active and the system
// always starts in threat posture.
func Load(path string, now time.Time) (Incident, error) {
	inc := Default(now)

	data, err := os.ReadFile(path)
	if err != nil {
		return Incident{}, fmt.Errorf("read seed file: %w", err)
	}

	var sf seedFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return Incident{}, fmt.Errorf("parse seed file: %w", err)
	}

	if sf.Alert.ID != "" {
		inc.Alert.AlertID = sf.Alert.ID
	}
	if sf.Alert.Title != "" {
		inc.Alert.Title = sf.Alert.Title
	}
	if sf.Alert.Description != "" {
		inc.Alert.Description = sf.Alert.Description
	}
	if sf.Alert.Severity != "" {
		inc.Alert.Severity = models.Severity(sf.Alert.Severity)
	}
	if sf.Alert.Source != "" {
		inc.Alert.Source = sf.Alert.Source
	}
	if sf.Alert.IP != "" {
		inc.Alert.IP = sf.Alert.IP
	}
	if sf.Alert.AffectedHostCount > 0 {
		inc.Alert.AffectedHostCount = sf.Alert.AffectedHostCount
	}

	if len(sf.Hosts) > 0 {
		hosts := make([]models.Host, 0, len(sf.Hosts))
		for i, h := range sf.Hosts {
			if h.Hostname == "" {
				return Incident{}, fmt.Errorf("seed host %d: hostname is required", i)
			}
			id := h.ID
			if id == "" {
				id = fmt.Sprintf("%d", i+1)
			}
			status := models.HostStatus(h.Status)
			if status == "" {
				status = models.HostInfected
			}
			hosts = append(hosts, models.Host{
				HostID:   id,
				Hostname: h.Hostname,
				IP:       h.IP,
				Status:   status,
				LastSeen: now,
			})
		}
		inc.Hosts = hosts
	}

	if sf.Greeting != "" {
		inc.Greeting.Text = sf.Greeting
	}

	return inc, nil
}
