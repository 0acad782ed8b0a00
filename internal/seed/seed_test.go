package seed

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"guardian/pkg/models"
)

func TestDefaultIncident(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	inc := Default(now)

	if inc.Alert.AlertID != "123" || inc.Alert.Status != models.AlertActive {
		t.Fatalf("unexpected seed alert: %+v", inc.Alert)
	}
	if inc.Alert.Severity != models.SeverityCritical {
		t.Fatalf("expected critical severity, got %s", inc.Alert.Severity)
	}
	if inc.SystemStatus != models.StatusThreat {
		t.Fatalf("system must start in threat posture, got %s", inc.SystemStatus)
	}
	if len(inc.Hosts) != 4 {
		t.Fatalf("expected 4 seed hosts, got %d", len(inc.Hosts))
	}
	if inc.Hosts[0].Hostname != "WKSTN-HR-01" || inc.Hosts[0].Status != models.HostInfected {
		t.Fatalf("unexpected patient zero: %+v", inc.Hosts[0])
	}
	if inc.Greeting.Role != models.RoleAssistant || len(inc.Greeting.SuggestedActions) != 3 {
		t.Fatalf("unexpected greeting: %+v", inc.Greeting)
	}
}

func TestLoadOverridesFields(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	path := filepath.Join(t.TempDir(), "seed.yml")
	data := `
alert:
  id: "777"
  title: RANSOMWARE DETECTED
  ip: 192.0.2.9
  affected_host_count: 3
hosts:
  - id: "a"
    hostname: SRV-DB-01
    ip: 192.0.2.10
    status: infected
  - hostname: SRV-WEB-02
    ip: 192.0.2.11
greeting: "ALERT: ransomware activity detected."
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("failed to write seed file: %v", err)
	}

	inc, err := Load(path, now)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if inc.Alert.AlertID != "777" || inc.Alert.Title != "RANSOMWARE DETECTED" {
		t.Fatalf("alert override not applied: %+v", inc.Alert)
	}
	if inc.Alert.Status != models.AlertActive {
		t.Fatalf("loaded alert must start active, got %s", inc.Alert.Status)
	}
	// Fields absent from the file keep the built-in values.
	if inc.Alert.Source != "Network Anomaly Detection" {
		t.Fatalf("expected default source, got %q", inc.Alert.Source)
	}
	if len(inc.Hosts) != 2 {
		t.Fatalf("expected 2 hosts, got %d", len(inc.Hosts))
	}
	if inc.Hosts[1].HostID != "2" || inc.Hosts[1].Status != models.HostInfected {
		t.Fatalf("host defaults not applied: %+v", inc.Hosts[1])
	}
	if inc.Greeting.Text != "ALERT: ransomware activity detected." {
		t.Fatalf("greeting override not applied: %q", inc.Greeting.Text)
	}
}

func TestLoadRejectsHostWithoutHostname(t *testing.T) {
	now := time.Now()
	path := filepath.Join(t.TempDir(), "seed.yml")
	if err := os.WriteFile(path, []byte("hosts:\n  - ip: 192.0.2.10\n"), 0644); err != nil {
		t.Fatalf("failed to write seed file: %v", err)
	}
	if _, err := Load(path, now); err == nil {
		t.Fatalf("expected error for host without hostname")
	}
}
