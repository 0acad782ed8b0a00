package responder

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"guardian/internal/intent"
	"guardian/internal/logger"
	"guardian/internal/store"
	"guardian/internal/tracker"
	"guardian/pkg/models"
)

// Config controls the responder.
type Config struct {
	BlockDuration     time.Duration
	IsolateDuration   time.Duration
	RemediateDuration time.Duration

	// IsolationPlaybooks lists hostnames with a defined containment
	// playbook. Isolation requests for other hosts degrade to the help
	// reply.
	IsolationPlaybooks []string
}

// Result is the outcome of executing one intent.
type Result struct {
	Turn         models.Turn
	SubmittedJob models.JobKind
	RejectedBusy bool
	Degraded     bool
}

// Responder executes resolved intents against the incident store: it
// templates the assistant reply from current state, applies immediate
// mutations and registers long-running actions with the tracker. It
// never fails visibly to the operator; internal not-found conditions
// degrade to the help reply.
type Responder struct {
	cfg     Config
	store   *store.Store
	tracker *tracker.Tracker
	now     func() time.Time
}

// New creates a responder. Durations default to the standard playbook
// latencies when unset.
func New(cfg Config, st *store.Store, tr *tracker.Tracker) *Responder {
	if cfg.BlockDuration <= 0 {
		cfg.BlockDuration = 3 * time.Second
	}
	if cfg.IsolateDuration <= 0 {
		cfg.IsolateDuration = 2 * time.Second
	}
	if cfg.RemediateDuration <= 0 {
		cfg.RemediateDuration = 5 * time.Second
	}
	if len(cfg.IsolationPlaybooks) == 0 {
		cfg.IsolationPlaybooks = []string{"WKSTN-HR-01"}
	}
	return &Responder{
		cfg:     cfg,
		store:   st,
		tracker: tr,
		now:     time.Now,
	}
}

// SetNow overrides the clock (tests).
func (r *Responder) SetNow(now func() time.Time) {
	r.now = now
}

// Respond executes one intent and returns the assistant turn.
func (r *Responder) Respond(it intent.Intent) Result {
	switch it.Kind {
	case intent.ListAlerts:
		return Result{Turn: r.listAlerts()}
	case intent.AlertDetails:
		return r.alertDetails(it)
	case intent.ListAffectedHosts:
		return Result{Turn: r.listHosts()}
	case intent.BlockIP:
		return r.blockIP(it)
	case intent.ShowOrigin:
		return Result{Turn: r.showOrigin()}
	case intent.IsolateHost:
		return r.isolateHost(it)
	case intent.ListIOCs:
		return Result{Turn: r.listIOCs()}
	case intent.ShowRemediationPlan:
		return Result{Turn: r.remediationPlan()}
	case intent.StartRemediation:
		return r.startRemediation()
	default:
		return Result{Turn: r.helpTurn()}
	}
}

func (r *Responder) listAlerts() models.Turn {
	a := r.store.Alert()
	text := fmt.Sprintf(
		"Active Alerts (1): **%s - %s (%d hosts)** - Anomaly: outbound connections to `%s`. Type 'details alert %s' for more.",
		strings.ToUpper(string(a.Severity)), a.Title, a.AffectedHostCount, a.IP, a.AlertID)
	return r.newTurn(text)
}

func (r *Responder) alertDetails(it intent.Intent) Result {
	a := r.store.Alert()
	if it.AlertID != "" && it.AlertID != a.AlertID {
		logger.Warnf("details requested for unknown alert %q", it.AlertID)
		return Result{Turn: r.helpTurn(), Degraded: true}
	}
	text := fmt.Sprintf(
		"Alert %s: **%s - %s.** Source: %s. %d endpoints connecting to `%s`:443. Potential C2. Affected Hosts (see widget). Try: 'list affected hosts', 'block ip %s'.",
		a.AlertID, strings.ToUpper(string(a.Severity)), a.Title, a.Source, a.AffectedHostCount, a.IP, a.IP)
	return Result{Turn: r.newTurn(text)}
}

func (r *Responder) listHosts() models.Turn {
	a := r.store.Alert()
	hosts := r.store.Hosts()

	var b strings.Builder
	fmt.Fprintf(&b, "Displaying affected hosts in 'Affected Hosts' widget. **%d total hosts affected**:\n\n", a.AffectedHostCount)
	for _, h := range hosts {
		fmt.Fprintf(&b, "• %s (%s) - %s\n", h.Hostname, h.IP, strings.ToUpper(string(h.Status)))
	}
	if rest := a.AffectedHostCount - len(hosts); rest > 0 {
		fmt.Fprintf(&b, "\n...and %d more.", rest)
	}
	if len(hosts) > 0 {
		fmt.Fprintf(&b, " Use 'isolate host %s' to contain patient zero.", hosts[0].Hostname)
	}
	return r.newTurn(b.String())
}

func (r *Responder) showOrigin() models.Turn {
	a := r.store.Alert()
	hosts := r.store.Hosts()
	if len(hosts) == 0 {
		return r.helpTurn()
	}
	zero := hosts[0]
	text := fmt.Sprintf(
		"**OUTBREAK ORIGIN ANALYSIS:**\n\n"+
			"Patient Zero: `%s` (`%s`)\n"+
			"Vector: Phishing email - \"Urgent Payroll Update\"\n"+
			"Timestamp: 14:23:07 UTC\n"+
			"User: j.smith@company.com\n\n"+
			"Recommend: 'isolate host %s', 'ioc for alert %s'",
		zero.Hostname, zero.IP, zero.Hostname, a.AlertID)
	return r.newTurn(text)
}

func (r *Responder) listIOCs() models.Turn {
	a := r.store.Alert()
	text := fmt.Sprintf(
		"**INDICATORS OF COMPROMISE (IOCs):**\n\n"+
			"• **Hash (SHA256):** `a1b2c3d4e5f6789...`\n"+
			"• **C2 IP:** `%s:443`\n"+
			"• **File Path:** `C:\\Users\\Public\\svchost_mal.exe`\n"+
			"• **Email Subject:** \"Urgent Payroll Update\"\n"+
			"• **Registry Key:** `HKLM\\Software\\Microsoft\\Windows\\CurrentVersion\\Run\\SvcHost`\n\n"+
			"Action: 'recommended remediation' for cleanup steps.",
		a.IP)
	return r.newTurn(text)
}

func (r *Responder) remediationPlan() models.Turn {
	return r.newTurn(
		"**RECOMMENDED REMEDIATION STEPS:**\n\n" +
			"1. **Full System Scan** - Deep malware analysis\n" +
			"2. **Quarantine Infected Files** - Isolate malicious binaries\n" +
			"3. **User Account Review** - Check for privilege escalation\n" +
			"4. **Security Patching** - Close exploitation vectors\n" +
			"5. **System Re-imaging** - If compromise is severe\n\n" +
			"Action: 'start automated remediation playbook' for systematic cleanup.")
}

func (r *Responder) blockIP(it intent.Intent) Result {
	a := r.store.Alert()
	if !strings.EqualFold(it.IP, a.IP) {
		logger.Warnf("block requested for unknown ip %q (alert C2 is %s)", it.IP, a.IP)
		return Result{Turn: r.helpTurn(), Degraded: true}
	}

	alertID := a.AlertID
	job := tracker.Job{
		Kind:      models.JobBlocking,
		StartedAt: r.now(),
		Duration:  r.cfg.BlockDuration,
		Note: fmt.Sprintf(
			"Status: **BLOCKED**. `%s` blocked network-wide. C2 communication severed. Alert %s resolved; Cybermesh status: SECURE. Monitor for reconnection attempts.",
			a.IP, alertID),
		OnComplete: func() error {
			if _, err := r.store.SetAlertStatus(alertID, models.AlertResolved); err != nil {
				return fmt.Errorf("resolve alert %s: %w", alertID, err)
			}
			r.store.SetSystemStatus(models.StatusSecure)
			return nil
		},
	}
	if err := r.tracker.Submit(job); err != nil {
		return Result{Turn: r.busyTurn(), RejectedBusy: true}
	}

	text := fmt.Sprintf(
		"⚡ **INITIATING NETWORK-WIDE BLOCK** for `%s`\n\n"+
			"```\n"+
			"> UPDATING FIREWALL RULES... ✓\n"+
			"> BLOCKING C2 COMMUNICATION... ✓\n"+
			"> NOTIFYING SECURITY TEAM... ✓\n"+
			"```\n\n"+
			"Status: **IN PROGRESS**. Block propagating network-wide. Monitor for reconnection attempts.",
		a.IP)
	return Result{Turn: r.newTurn(text), SubmittedJob: models.JobBlocking}
}

func (r *Responder) isolateHost(it intent.Intent) Result {
	target, ok := r.findHost(it.Hostname)
	if !ok {
		logger.Warnf("isolation requested for unknown host %q", it.Hostname)
		return Result{Turn: r.helpTurn(), Degraded: true}
	}
	if !r.hasPlaybook(target.Hostname) {
		logger.Warnf("no containment playbook for host %s", target.Hostname)
		return Result{Turn: r.helpTurn(), Degraded: true}
	}

	hostID := target.HostID
	job := tracker.Job{
		Kind:      models.JobIsolating,
		StartedAt: r.now(),
		Duration:  r.cfg.IsolateDuration,
		Note:      fmt.Sprintf("Host `%s` isolated successfully. Network access revoked.", target.Hostname),
		OnComplete: func() error {
			if _, err := r.store.SetHostStatus(hostID, models.HostIsolated); err != nil {
				return fmt.Errorf("isolate host %s: %w", hostID, err)
			}
			return nil
		},
	}
	if err := r.tracker.Submit(job); err != nil {
		return Result{Turn: r.busyTurn(), RejectedBusy: true}
	}

	text := fmt.Sprintf(
		"🔒 **ISOLATING HOST** `%s`\n\n"+
			"```\n"+
			"> SEVERING NETWORK ACCESS... ✓\n"+
			"> QUARANTINE PROTOCOLS... ✓\n"+
			"> USER NOTIFICATION... ✓\n"+
			"```\n\n"+
			"Isolation in progress. Network access revocation underway.",
		target.Hostname)
	return Result{Turn: r.newTurn(text), SubmittedJob: models.JobIsolating}
}

func (r *Responder) startRemediation() Result {
	job := tracker.Job{
		Kind:      models.JobRemediating,
		StartedAt: r.now(),
		Duration:  r.cfg.RemediateDuration,
		Note:      "Remediation phases 1-4 dispatched. Threat analysis continuing; Cybermesh status: ANALYZING THREAT.",
		OnComplete: func() error {
			r.store.SetSystemStatus(models.StatusInvestigating)
			return nil
		},
	}
	if err := r.tracker.Submit(job); err != nil {
		return Result{Turn: r.busyTurn(), RejectedBusy: true}
	}

	text := "🔧 **AUTOMATED REMEDIATION INITIATED**\n\n" +
		"```\n" +
		"Phase 1: Malware Scanning... [████████░░] 80%\n" +
		"Phase 2: File Quarantine... [██████░░░░] 60%\n" +
		"Phase 3: Registry Cleanup... [███░░░░░░░] 30%\n" +
		"Phase 4: User Account Audit... [░░░░░░░░░░] 0%\n" +
		"```\n\n" +
		"Estimated completion: 15 minutes. Monitor progress in Quick Actions widget."
	return Result{Turn: r.newTurn(text), SubmittedJob: models.JobRemediating}
}

func (r *Responder) busyTurn() models.Turn {
	kind := r.tracker.InFlight()
	return r.newTurn(fmt.Sprintf(
		"**ACTION IN PROGRESS** - %s is still running. Concurrent containment actions are not permitted; retry once it completes.",
		jobLabel(kind)))
}

// CompletionTurn renders the synthetic transcript entry for a finished
// job.
func (r *Responder) CompletionTurn(c tracker.Completion) models.Turn {
	if c.Err != nil {
		return r.newTurn(fmt.Sprintf(
			"**%s** finished with no effect: incident state changed while it ran.",
			strings.ToUpper(string(c.Kind))))
	}
	return r.newTurn(c.Note)
}

func (r *Responder) helpTurn() models.Turn {
	t := r.newTurn(
		"**GUARDIAN AI READY**\n\n" +
			"Available commands:\n" +
			"• `show active alerts` - Display current threats\n" +
			"• `details alert [ID]` - Get detailed threat analysis\n" +
			"• `list affected hosts` - Show compromised systems\n" +
			"• `block ip [ADDRESS]` - Network-wide IP blocking\n" +
			"• `isolate host [HOSTNAME]` - Quarantine specific system\n" +
			"• `ioc for alert [ID]` - Extract indicators of compromise\n\n" +
			"What would you like to investigate?")
	t.SuggestedActions = []models.SuggestedAction{
		{ID: "block-c2-ip", Label: "BLOCK C2 IP", Kind: models.ActionDanger},
		{ID: "isolate-patient-zero", Label: "ISOLATE PATIENT ZERO", Kind: models.ActionSecondary},
		{ID: "start-remediation", Label: "START REMEDIATION", Kind: models.ActionPrimary},
	}
	return t
}

func (r *Responder) newTurn(text string) models.Turn {
	return models.Turn{
		TurnID:    uuid.NewString(),
		Role:      models.RoleAssistant,
		Text:      text,
		Timestamp: r.now(),
	}
}

func (r *Responder) findHost(hostname string) (models.Host, bool) {
	for _, h := range r.store.Hosts() {
		if strings.EqualFold(h.Hostname, hostname) {
			return h, true
		}
	}
	return models.Host{}, false
}

func (r *Responder) hasPlaybook(hostname string) bool {
	for _, name := range r.cfg.IsolationPlaybooks {
		if strings.EqualFold(name, hostname) {
			return true
		}
	}
	return false
}

func jobLabel(kind models.JobKind) string {
	switch kind {
	case models.JobBlocking:
		return "Network-wide IP block"
	case models.JobIsolating:
		return "Host isolation"
	case models.JobRemediating:
		return "Automated remediation"
	case models.JobScanning:
		return "Host scan"
	default:
		return "A containment action"
	}
}
